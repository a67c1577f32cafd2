package driver

import "sync"

// Store is the single process-wide holder of driver state. All mutation goes
// through Dispatch; reads get a value copy. The mutex serializes dispatches
// so two actions issued in sequence are applied in that order.
type Store struct {
	mu       sync.Mutex
	state    State
	onChange func(State)
}

// NewStore returns a store holding the initial state.
func NewStore() *Store {
	return &Store{state: InitialState()}
}

// OnChange registers a hook invoked with the new state after every dispatch.
// The hook runs while the store lock is held so invocations arrive in
// dispatch order; it must not call back into the store. Register it after
// hydration so the snapshot writer does not see the pre-hydration state.
func (s *Store) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Dispatch applies an action through the reducer and returns the new state.
func (s *Store) Dispatch(action Action) State {
	s.mu.Lock()
	next := Reduce(s.state, action)
	s.state = next
	if s.onChange != nil {
		s.onChange(cloneState(next))
	}
	s.mu.Unlock()

	return cloneState(next)
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// cloneState deep-copies the slices and map so callers cannot reach back
// into the store's value.
func cloneState(state State) State {
	jobs := make([]Job, len(state.Jobs))
	copy(jobs, state.Jobs)
	for i := range jobs {
		jobs[i].BeforePhotos = append([]string(nil), jobs[i].BeforePhotos...)
		jobs[i].AfterPhotos = append([]string(nil), jobs[i].AfterPhotos...)
	}
	state.Jobs = jobs
	state.BeforePhotos = append([]string(nil), state.BeforePhotos...)
	state.AfterPhotos = append([]string(nil), state.AfterPhotos...)
	state.Documents = cloneDocuments(state.Documents)
	return state
}
