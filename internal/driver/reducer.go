package driver

// ActionType names a store mutation. The set is closed: Reduce ignores
// anything it does not recognize.
type ActionType string

const (
	ActionToggleAvailability ActionType = "TOGGLE_AVAILABILITY"
	ActionSetAvailability    ActionType = "SET_AVAILABILITY"
	ActionSetDriverPhone     ActionType = "SET_DRIVER_PHONE"
	ActionSetDriverName      ActionType = "SET_DRIVER_NAME"
	ActionSetDriverSession   ActionType = "SET_DRIVER_SESSION"
	ActionSetJobs            ActionType = "SET_JOBS"
	ActionAcceptJob          ActionType = "ACCEPT_JOB"
	ActionDeclineJob         ActionType = "DECLINE_JOB"
	ActionArriveJob          ActionType = "ARRIVE_JOB"
	ActionStartWash          ActionType = "START_WASH"
	ActionCompleteJob        ActionType = "COMPLETE_JOB"
	ActionCancelJob          ActionType = "CANCEL_JOB"
	ActionSetOnboardingDone  ActionType = "SET_ONBOARDING_DONE"
	ActionSetAccountStep     ActionType = "SET_ACCOUNT_STEP"
	ActionSetProfileStatus   ActionType = "SET_PROFILE_STATUS"
	ActionSetDocument        ActionType = "SET_DOCUMENT"
	ActionSetDocuments       ActionType = "SET_DOCUMENTS"
	ActionSetDocumentsStatus ActionType = "SET_DOCUMENTS_STATUS"
	ActionSetBeforePhoto     ActionType = "SET_BEFORE_PHOTO"
	ActionSetAfterPhoto      ActionType = "SET_AFTER_PHOTO"
	ActionClearStagedPhotos  ActionType = "CLEAR_STAGED_PHOTOS"
	ActionHydrate            ActionType = "HYDRATE"
)

// SessionPayload carries the identity fields set after login. Optional
// fields keep their previous value when nil.
type SessionPayload struct {
	ID              int64
	Name            string
	Phone           string
	IsAvailable     bool
	AccountStep     *int
	ProfileStatus   *ProfileStatus
	Documents       map[string]string
	DocumentsStatus *DocumentsStatus
}

// Action is a store mutation request. Use the constructors below rather than
// filling the struct by hand.
type Action struct {
	Type      ActionType
	JobID     string
	Value     bool
	Step      int
	Index     int
	Str       string
	Key       string
	Status    ProfileStatus
	DocStatus DocumentsStatus
	Jobs      []Job
	Documents map[string]string
	Session   *SessionPayload
	Snapshot  *State
}

func ToggleAvailability() Action           { return Action{Type: ActionToggleAvailability} }
func SetAvailability(v bool) Action        { return Action{Type: ActionSetAvailability, Value: v} }
func SetDriverPhone(phone string) Action   { return Action{Type: ActionSetDriverPhone, Str: phone} }
func SetDriverName(name string) Action     { return Action{Type: ActionSetDriverName, Str: name} }
func SetJobs(jobs []Job) Action            { return Action{Type: ActionSetJobs, Jobs: jobs} }
func AcceptJob(id string) Action           { return Action{Type: ActionAcceptJob, JobID: id} }
func DeclineJob(id string) Action          { return Action{Type: ActionDeclineJob, JobID: id} }
func ArriveJob(id string) Action           { return Action{Type: ActionArriveJob, JobID: id} }
func StartWash(id string) Action           { return Action{Type: ActionStartWash, JobID: id} }
func CompleteJob(id string) Action         { return Action{Type: ActionCompleteJob, JobID: id} }
func CancelJob(id string) Action           { return Action{Type: ActionCancelJob, JobID: id} }
func SetOnboardingDone(v bool) Action      { return Action{Type: ActionSetOnboardingDone, Value: v} }
func SetAccountStep(n int) Action          { return Action{Type: ActionSetAccountStep, Step: n} }
func ClearStagedPhotos() Action            { return Action{Type: ActionClearStagedPhotos} }
func SetProfileStatus(s ProfileStatus) Action {
	return Action{Type: ActionSetProfileStatus, Status: s}
}
func SetDocument(key, ref string) Action {
	return Action{Type: ActionSetDocument, Key: key, Str: ref}
}
func SetDocuments(docs map[string]string) Action {
	return Action{Type: ActionSetDocuments, Documents: docs}
}
func SetDocumentsStatus(s DocumentsStatus) Action {
	return Action{Type: ActionSetDocumentsStatus, DocStatus: s}
}
func SetBeforePhoto(index int, ref string) Action {
	return Action{Type: ActionSetBeforePhoto, Index: index, Str: ref}
}
func SetAfterPhoto(index int, ref string) Action {
	return Action{Type: ActionSetAfterPhoto, Index: index, Str: ref}
}
func SetDriverSession(p SessionPayload) Action {
	return Action{Type: ActionSetDriverSession, Session: &p}
}
func Hydrate(snapshot State) Action {
	return Action{Type: ActionHydrate, Snapshot: &snapshot}
}

// Reduce applies an action and returns the next state. It never mutates its
// input: job slices, staging arrays and the document map are copied before
// they change. Unknown actions and missing job ids are no-ops.
func Reduce(state State, action Action) State {
	switch action.Type {
	case ActionToggleAvailability:
		state.Availability = !state.Availability
		return state

	case ActionSetAvailability:
		state.Availability = action.Value
		return state

	case ActionSetDriverPhone:
		state.DriverPhone = action.Str
		return state

	case ActionSetDriverName:
		state.DriverName = action.Str
		return state

	case ActionSetDriverSession:
		p := action.Session
		if p == nil {
			return state
		}
		state.DriverID = p.ID
		state.DriverName = p.Name
		state.DriverPhone = p.Phone
		state.Availability = p.IsAvailable
		if p.AccountStep != nil {
			state.AccountStep = *p.AccountStep
		}
		if p.ProfileStatus != nil {
			state.ProfileStatus = *p.ProfileStatus
		}
		if p.Documents != nil {
			state.Documents = cloneDocuments(p.Documents)
		}
		if p.DocumentsStatus != nil {
			state.DocumentsStatus = *p.DocumentsStatus
		}
		return state

	case ActionSetJobs:
		// Full replacement, never a field-by-field merge. Derived fields are
		// pure functions of the new collection.
		jobs := make([]Job, len(action.Jobs))
		copy(jobs, action.Jobs)
		state.Jobs = jobs
		state.ActiveJobID = activeJobID(jobs)
		state.CashoutBalance = cashoutBalance(jobs)
		return state

	case ActionAcceptJob:
		job, ok := state.JobByID(action.JobID)
		if !ok || job.Status != StatusPending {
			return state
		}
		state.Jobs = withJobStatus(state.Jobs, action.JobID, StatusEnRoute)
		state.ActiveJobID = action.JobID
		state.BeforePhotos = []string{}
		state.AfterPhotos = []string{}
		return state

	case ActionDeclineJob:
		job, ok := state.JobByID(action.JobID)
		if !ok || job.Status != StatusPending {
			return state
		}
		state.Jobs = withJobStatus(state.Jobs, action.JobID, StatusCancelled)
		return state

	case ActionArriveJob:
		job, ok := state.JobByID(action.JobID)
		if !ok || job.Status != StatusEnRoute {
			return state
		}
		state.Jobs = withJobStatus(state.Jobs, action.JobID, StatusArrived)
		state.ActiveJobID = action.JobID
		return state

	case ActionStartWash:
		job, ok := state.JobByID(action.JobID)
		if !ok || job.Status != StatusArrived {
			return state
		}
		state.Jobs = withJobStatus(state.Jobs, action.JobID, StatusWashing)
		state.ActiveJobID = action.JobID
		return state

	case ActionCompleteJob:
		job, ok := state.JobByID(action.JobID)
		if !ok || job.Status != StatusWashing {
			return state
		}
		state.Jobs = withJobStatus(state.Jobs, action.JobID, StatusCompleted)
		state.ActiveJobID = ""
		state.CashoutBalance += job.Payout()
		state.BeforePhotos = []string{}
		state.AfterPhotos = []string{}
		return state

	case ActionCancelJob:
		job, ok := state.JobByID(action.JobID)
		if !ok || !job.Status.InProgress() {
			return state
		}
		state.Jobs = withJobStatus(state.Jobs, action.JobID, StatusCancelled)
		state.ActiveJobID = ""
		state.BeforePhotos = []string{}
		state.AfterPhotos = []string{}
		return state

	case ActionSetOnboardingDone:
		state.OnboardingDone = action.Value
		return state

	case ActionSetAccountStep:
		state.AccountStep = action.Step
		return state

	case ActionSetProfileStatus:
		state.ProfileStatus = action.Status
		return state

	case ActionSetDocument:
		docs := cloneDocuments(state.Documents)
		docs[action.Key] = action.Str
		state.Documents = docs
		return state

	case ActionSetDocuments:
		docs := cloneDocuments(state.Documents)
		for key, ref := range action.Documents {
			docs[key] = ref
		}
		state.Documents = docs
		return state

	case ActionSetDocumentsStatus:
		state.DocumentsStatus = action.DocStatus
		return state

	case ActionSetBeforePhoto:
		state.BeforePhotos = withPhotoAt(state.BeforePhotos, action.Index, action.Str)
		return state

	case ActionSetAfterPhoto:
		state.AfterPhotos = withPhotoAt(state.AfterPhotos, action.Index, action.Str)
		return state

	case ActionClearStagedPhotos:
		state.BeforePhotos = []string{}
		state.AfterPhotos = []string{}
		return state

	case ActionHydrate:
		if action.Snapshot == nil {
			return state
		}
		return *action.Snapshot

	default:
		return state
	}
}

// withJobStatus returns a copy of jobs with one job's status replaced.
func withJobStatus(jobs []Job, id string, status JobStatus) []Job {
	next := make([]Job, len(jobs))
	copy(next, jobs)
	for i := range next {
		if next[i].ID == id {
			next[i].Status = status
		}
	}
	return next
}

// withPhotoAt writes ref at index, growing the array when needed.
func withPhotoAt(photos []string, index int, ref string) []string {
	if index < 0 {
		return photos
	}
	size := len(photos)
	if index >= size {
		size = index + 1
	}
	next := make([]string, size)
	copy(next, photos)
	next[index] = ref
	return next
}

func cloneDocuments(docs map[string]string) map[string]string {
	next := make(map[string]string, len(docs))
	for key, ref := range docs {
		next[key] = ref
	}
	return next
}
