// Package dispatch routes driver actions. Lifecycle actions go to the
// backend first and only land in local state through the job-list refresh
// that follows; if the server leg fails, local state is left untouched and
// the error is returned to the caller. Bookkeeping actions apply locally.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/CodeurPro04/driverWago/internal/backend"
	"github.com/CodeurPro04/driverWago/internal/driver"
	"github.com/CodeurPro04/driverWago/internal/reconcile"
)

var (
	ErrNoSession       = errors.New("no driver session")
	ErrJobNotFound     = errors.New("job not found")
	ErrNoActiveJob     = errors.New("no active job")
	ErrBeforePhotos    = errors.New("at least 2 before photos are required to start the wash")
	ErrAfterPhotos     = errors.New("at least 5 after photos are required to complete the wash")
	ErrWrongStatus     = errors.New("job is not in a state that allows this action")
	ErrUnknownDocument = errors.New("unknown document kind")
)

const (
	minBeforePhotos = 2
	minAfterPhotos  = 5
)

// Dispatcher is the network-aware front door of the store.
type Dispatcher struct {
	store      *driver.Store
	api        *backend.Client
	reconciler *reconcile.Reconciler
}

func New(store *driver.Store, api *backend.Client, reconciler *reconcile.Reconciler) *Dispatcher {
	return &Dispatcher{store: store, api: api, reconciler: reconciler}
}

// Login authenticates against the backend, installs the session and pulls
// the first job list.
func (d *Dispatcher) Login(ctx context.Context, phone, name string) (driver.State, error) {
	user, err := d.api.MobileLogin(ctx, backend.LoginRequest{
		Role:  "driver",
		Phone: phone,
		Name:  name,
	})
	if err != nil {
		return driver.State{}, err
	}

	d.store.Dispatch(driver.SetDriverSession(sessionFromUser(user)))

	// Best effort: the reconciliation loop will catch up if this fails.
	_ = d.reconciler.RefreshNow(ctx)

	return d.store.State(), nil
}

// Accept claims a pending job.
func (d *Dispatcher) Accept(ctx context.Context, jobID string) error {
	state, job, err := d.lookup(jobID)
	if err != nil {
		return err
	}
	if job.Status != driver.StatusPending {
		return ErrWrongStatus
	}

	if err := d.api.AcceptJob(ctx, jobID, state.DriverID); err != nil {
		return err
	}
	return d.confirm(ctx, true)
}

// Decline refuses a pending job.
func (d *Dispatcher) Decline(ctx context.Context, jobID string) error {
	state, job, err := d.lookup(jobID)
	if err != nil {
		return err
	}
	if job.Status != driver.StatusPending {
		return ErrWrongStatus
	}

	if err := d.api.DeclineJob(ctx, jobID, state.DriverID); err != nil {
		return err
	}
	return d.confirm(ctx, false)
}

// Arrive confirms arrival at the customer's address.
func (d *Dispatcher) Arrive(ctx context.Context, jobID string) error {
	return d.transition(ctx, jobID, "arrive", driver.StatusEnRoute, false)
}

// StartWash begins the wash. Requires enough staged before photos.
func (d *Dispatcher) StartWash(ctx context.Context, jobID string) error {
	if driver.StagedPhotoCount(d.store.State().BeforePhotos) < minBeforePhotos {
		return ErrBeforePhotos
	}
	return d.transition(ctx, jobID, "start", driver.StatusArrived, false)
}

// Complete finishes the wash and credits the payout (by way of the refreshed
// job list). Requires enough staged after photos.
func (d *Dispatcher) Complete(ctx context.Context, jobID string) error {
	if driver.StagedPhotoCount(d.store.State().AfterPhotos) < minAfterPhotos {
		return ErrAfterPhotos
	}
	return d.transition(ctx, jobID, "complete", driver.StatusWashing, true)
}

// Cancel abandons an in-progress job.
func (d *Dispatcher) Cancel(ctx context.Context, jobID string) error {
	state, job, err := d.lookup(jobID)
	if err != nil {
		return err
	}
	if !job.Status.InProgress() {
		return ErrWrongStatus
	}

	if err := d.api.TransitionJob(ctx, jobID, state.DriverID, "cancel"); err != nil {
		return err
	}
	return d.confirm(ctx, true)
}

// transition runs one server-backed lifecycle step that requires the job to
// currently hold `from`.
func (d *Dispatcher) transition(ctx context.Context, jobID, action string, from driver.JobStatus, clearStaged bool) error {
	state, job, err := d.lookup(jobID)
	if err != nil {
		return err
	}
	if job.Status != from {
		return ErrWrongStatus
	}

	if err := d.api.TransitionJob(ctx, jobID, state.DriverID, action); err != nil {
		return err
	}
	return d.confirm(ctx, clearStaged)
}

// confirm applies a server-acknowledged transition locally by refreshing the
// job list, optionally clearing the photo staging arrays.
func (d *Dispatcher) confirm(ctx context.Context, clearStaged bool) error {
	if err := d.reconciler.RefreshNow(ctx); err != nil {
		return fmt.Errorf("transition accepted but refresh failed: %w", err)
	}
	if clearStaged {
		d.store.Dispatch(driver.ClearStagedPhotos())
	}
	return nil
}

// SetAvailability updates the server first, then the local flag.
func (d *Dispatcher) SetAvailability(ctx context.Context, available bool) error {
	state := d.store.State()
	if !state.HasSession() {
		return ErrNoSession
	}

	update := backend.AvailabilityUpdate{IsAvailable: available}
	if err := d.api.UpdateAvailability(ctx, state.DriverID, update); err != nil {
		return err
	}
	d.store.Dispatch(driver.SetAvailability(available))
	return nil
}

// ToggleAvailability flips the availability flag through the server.
func (d *Dispatcher) ToggleAvailability(ctx context.Context) error {
	return d.SetAvailability(ctx, !d.store.State().Availability)
}

// StagePhoto records a locally picked photo reference at index in the
// before/after staging array. Purely local.
func (d *Dispatcher) StagePhoto(stage string, index int, ref string) error {
	switch stage {
	case "before":
		d.store.Dispatch(driver.SetBeforePhoto(index, ref))
	case "after":
		d.store.Dispatch(driver.SetAfterPhoto(index, ref))
	default:
		return fmt.Errorf("unknown stage %q", stage)
	}
	return nil
}

// UploadJobMedia pushes a photo to the backend for the active job, stages
// the stored URL locally and refreshes the job list.
func (d *Dispatcher) UploadJobMedia(ctx context.Context, stage, filename string, file io.Reader) (string, error) {
	state := d.store.State()
	if !state.HasSession() {
		return "", ErrNoSession
	}
	if state.ActiveJobID == "" {
		return "", ErrNoActiveJob
	}

	result, err := d.api.UploadJobMedia(ctx, state.ActiveJobID, state.DriverID, stage, filename, file)
	if err != nil {
		return "", err
	}

	// Append past the end: the staging array can have holes, so the count
	// of occupied slots is not a free index.
	switch stage {
	case "before":
		d.store.Dispatch(driver.SetBeforePhoto(len(state.BeforePhotos), result.UploadedURL))
	case "after":
		d.store.Dispatch(driver.SetAfterPhoto(len(state.AfterPhotos), result.UploadedURL))
	}

	_ = d.reconciler.RefreshNow(ctx)
	return result.UploadedURL, nil
}

// UploadDocument uploads one onboarding document and records its stored URL.
func (d *Dispatcher) UploadDocument(ctx context.Context, kind, filename string, file io.Reader) error {
	state := d.store.State()
	if !state.HasSession() {
		return ErrNoSession
	}
	if _, ok := state.Documents[kind]; !ok {
		return ErrUnknownDocument
	}

	result, err := d.api.UploadDriverDocument(ctx, state.DriverID, kind, filename, file)
	if err != nil {
		return err
	}

	ref := result.User.Documents[kind]
	d.store.Dispatch(driver.SetDocument(kind, ref))
	return nil
}

// SubmitDocuments flags the documents for review and mirrors the returned
// status locally.
func (d *Dispatcher) SubmitDocuments(ctx context.Context) error {
	state := d.store.State()
	if !state.HasSession() {
		return ErrNoSession
	}

	result, err := d.api.SubmitDriverDocuments(ctx, state.DriverID)
	if err != nil {
		return err
	}

	if result.User.DocumentsStatus != "" {
		d.store.Dispatch(driver.SetDocumentsStatus(driver.DocumentsStatus(result.User.DocumentsStatus)))
	} else {
		d.store.Dispatch(driver.SetDocumentsStatus(driver.DocumentsSubmitted))
	}
	return nil
}

// lookup resolves the session and the job or returns the matching sentinel.
func (d *Dispatcher) lookup(jobID string) (driver.State, driver.Job, error) {
	state := d.store.State()
	if !state.HasSession() {
		return state, driver.Job{}, ErrNoSession
	}
	job, ok := state.JobByID(jobID)
	if !ok {
		return state, driver.Job{}, ErrJobNotFound
	}
	return state, job, nil
}

func sessionFromUser(user backend.User) driver.SessionPayload {
	payload := driver.SessionPayload{
		ID:          user.ID,
		Name:        user.Name,
		Phone:       user.Phone,
		IsAvailable: user.IsAvailable,
	}
	if user.AccountStep > 0 {
		step := user.AccountStep
		payload.AccountStep = &step
	}
	if user.ProfileStatus != "" {
		status := driver.ProfileStatus(user.ProfileStatus)
		payload.ProfileStatus = &status
	}
	if user.Documents != nil {
		payload.Documents = user.Documents
	}
	if user.DocumentsStatus != "" {
		status := driver.DocumentsStatus(user.DocumentsStatus)
		payload.DocumentsStatus = &status
	}
	return payload
}
