package main

import (
	"errors"
	"net/http"

	"github.com/CodeurPro04/driverWago/common/request"
	"github.com/CodeurPro04/driverWago/common/response"
	"github.com/CodeurPro04/driverWago/internal/backend"
	"github.com/CodeurPro04/driverWago/internal/dispatch"
	"github.com/CodeurPro04/driverWago/internal/driver"
	"github.com/go-chi/chi/v5"
)

// LoginPayload is the body of POST /session/login.
type LoginPayload struct {
	Phone string `json:"phone" validate:"required,min=8"`
	Name  string `json:"name"`
}

// Login authenticates the driver against the backend and installs the
// session in the store.
func (app *Config) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := request.ReadAndValidate(w, r, &payload); request.HandleError(w, err) {
		return
	}

	state, err := app.Dispatcher.Login(r.Context(), payload.Phone, payload.Name)
	if err != nil {
		response.BadGateway(w, err.Error())
		return
	}

	response.Success(w, "Logged in", state)
}

// GetState returns the full store snapshot.
func (app *Config) GetState(w http.ResponseWriter, r *http.Request) {
	response.Success(w, "Driver state", app.Store.State())
}

// ListJobs returns the current job collection.
func (app *Config) ListJobs(w http.ResponseWriter, r *http.Request) {
	response.Success(w, "Jobs", app.Store.State().Jobs)
}

// GetJob returns one job by id.
func (app *Config) GetJob(w http.ResponseWriter, r *http.Request) {
	job, ok := app.Store.State().JobByID(chi.URLParam(r, "id"))
	if !ok {
		response.NotFound(w, "job not found")
		return
	}
	response.Success(w, "Job", job)
}

// lifecycle wraps the job transition handlers: the dispatcher performs the
// server call and the confirming refresh; errors map onto HTTP statuses.
func (app *Config) lifecycle(w http.ResponseWriter, r *http.Request, fn func() error) {
	err := fn()
	switch {
	case err == nil:
		response.Success(w, "OK", app.Store.State())
	case errors.Is(err, dispatch.ErrNoSession):
		response.BadRequest(w, err.Error())
	case errors.Is(err, dispatch.ErrJobNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, dispatch.ErrWrongStatus),
		errors.Is(err, dispatch.ErrBeforePhotos),
		errors.Is(err, dispatch.ErrAfterPhotos):
		response.Conflict(w, err.Error())
	default:
		response.BadGateway(w, err.Error())
	}
}

func (app *Config) AcceptJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	app.lifecycle(w, r, func() error { return app.Dispatcher.Accept(r.Context(), id) })
}

func (app *Config) DeclineJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	app.lifecycle(w, r, func() error { return app.Dispatcher.Decline(r.Context(), id) })
}

func (app *Config) ArriveJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	app.lifecycle(w, r, func() error { return app.Dispatcher.Arrive(r.Context(), id) })
}

func (app *Config) StartWash(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	app.lifecycle(w, r, func() error { return app.Dispatcher.StartWash(r.Context(), id) })
}

func (app *Config) CompleteJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	app.lifecycle(w, r, func() error { return app.Dispatcher.Complete(r.Context(), id) })
}

func (app *Config) CancelJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	app.lifecycle(w, r, func() error { return app.Dispatcher.Cancel(r.Context(), id) })
}

// RefreshJobs forces a reconciliation fetch outside the schedule.
func (app *Config) RefreshJobs(w http.ResponseWriter, r *http.Request) {
	if err := app.Reconciler.RefreshNow(r.Context()); err != nil {
		response.BadGateway(w, err.Error())
		return
	}
	response.Success(w, "Jobs refreshed", app.Store.State().Jobs)
}

// AvailabilityPayload is the body of POST /availability.
type AvailabilityPayload struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

func (app *Config) SetAvailability(w http.ResponseWriter, r *http.Request) {
	var payload AvailabilityPayload
	if err := request.ReadAndValidate(w, r, &payload); request.HandleError(w, err) {
		return
	}

	app.lifecycle(w, r, func() error {
		return app.Dispatcher.SetAvailability(r.Context(), *payload.IsAvailable)
	})
}

func (app *Config) ToggleAvailability(w http.ResponseWriter, r *http.Request) {
	app.lifecycle(w, r, func() error { return app.Dispatcher.ToggleAvailability(r.Context()) })
}

// StagePhotoPayload is the body of POST /photos/{stage}.
type StagePhotoPayload struct {
	Index int    `json:"index" validate:"gte=0"`
	URL   string `json:"url" validate:"required"`
}

// StagePhoto records a locally picked photo reference without any network
// leg; used while the device is offline.
func (app *Config) StagePhoto(w http.ResponseWriter, r *http.Request) {
	stage := chi.URLParam(r, "stage")
	if stage != "before" && stage != "after" {
		response.NotFound(w, "unknown stage")
		return
	}

	var payload StagePhotoPayload
	if err := request.ReadAndValidate(w, r, &payload); request.HandleError(w, err) {
		return
	}

	if err := app.Dispatcher.StagePhoto(stage, payload.Index, payload.URL); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	response.Success(w, "Photo staged", app.Store.State())
}

// UploadJobMedia forwards a multipart photo to the backend for the active
// job and stages the stored URL.
func (app *Config) UploadJobMedia(w http.ResponseWriter, r *http.Request) {
	stage := chi.URLParam(r, "stage")
	if stage != "before" && stage != "after" {
		response.NotFound(w, "unknown stage")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		response.BadRequest(w, "photo file is required")
		return
	}
	defer file.Close()

	url, err := app.Dispatcher.UploadJobMedia(r.Context(), stage, header.Filename, file)
	switch {
	case err == nil:
		response.Success(w, "Photo uploaded", map[string]string{"uploaded_url": url})
	case errors.Is(err, dispatch.ErrNoSession), errors.Is(err, dispatch.ErrNoActiveJob):
		response.BadRequest(w, err.Error())
	default:
		response.BadGateway(w, err.Error())
	}
}

// OnboardingPayload is the body of POST /onboarding/done.
type OnboardingPayload struct {
	Done *bool `json:"done" validate:"required"`
}

func (app *Config) SetOnboardingDone(w http.ResponseWriter, r *http.Request) {
	var payload OnboardingPayload
	if err := request.ReadAndValidate(w, r, &payload); request.HandleError(w, err) {
		return
	}

	app.Store.Dispatch(driver.SetOnboardingDone(*payload.Done))
	response.Success(w, "Onboarding updated", app.Store.State())
}

// AccountStepPayload is the body of POST /account/step.
type AccountStepPayload struct {
	Step *int `json:"step" validate:"required,gte=0"`
}

func (app *Config) SetAccountStep(w http.ResponseWriter, r *http.Request) {
	var payload AccountStepPayload
	if err := request.ReadAndValidate(w, r, &payload); request.HandleError(w, err) {
		return
	}

	app.Store.Dispatch(driver.SetAccountStep(*payload.Step))
	response.Success(w, "Account step updated", app.Store.State())
}

// GetProfile proxies the backend profile endpoint.
func (app *Config) GetProfile(w http.ResponseWriter, r *http.Request) {
	state := app.Store.State()
	if !state.HasSession() {
		response.BadRequest(w, "no driver session")
		return
	}

	result, err := app.API.Profile(r.Context(), state.DriverID)
	if err != nil {
		response.BadGateway(w, err.Error())
		return
	}
	response.Success(w, "Profile", result)
}

// UpdateProfile proxies a partial profile update to the backend and mirrors
// the fields the store tracks.
func (app *Config) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	state := app.Store.State()
	if !state.HasSession() {
		response.BadRequest(w, "no driver session")
		return
	}

	var payload backend.ProfileUpdate
	if err := request.ReadJSON(w, r, &payload); request.HandleError(w, err) {
		return
	}

	result, err := app.API.UpdateProfile(r.Context(), state.DriverID, payload)
	if err != nil {
		response.BadGateway(w, err.Error())
		return
	}

	if payload.AccountStep != nil {
		app.Store.Dispatch(driver.SetAccountStep(*payload.AccountStep))
	}
	if payload.ProfileStatus != nil {
		app.Store.Dispatch(driver.SetProfileStatus(driver.ProfileStatus(*payload.ProfileStatus)))
	}
	response.Success(w, "Profile updated", result)
}

// UploadAvatar forwards a profile picture to the backend.
func (app *Config) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	state := app.Store.State()
	if !state.HasSession() {
		response.BadRequest(w, "no driver session")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		response.BadRequest(w, "avatar file is required")
		return
	}
	defer file.Close()

	result, err := app.API.UploadAvatar(r.Context(), state.DriverID, header.Filename, file)
	if err != nil {
		response.BadGateway(w, err.Error())
		return
	}
	response.Success(w, "Avatar uploaded", result)
}

// ApproveDriver asks the backend to approve the driver's profile and mirrors
// the returned status locally.
func (app *Config) ApproveDriver(w http.ResponseWriter, r *http.Request) {
	state := app.Store.State()
	if !state.HasSession() {
		response.BadRequest(w, "no driver session")
		return
	}

	result, err := app.API.ApproveDriver(r.Context(), state.DriverID)
	if err != nil {
		response.BadGateway(w, err.Error())
		return
	}

	if result.User.ProfileStatus != "" {
		app.Store.Dispatch(driver.SetProfileStatus(driver.ProfileStatus(result.User.ProfileStatus)))
	}
	response.Success(w, "Driver approved", result)
}

// UploadDocument uploads an onboarding document for review.
func (app *Config) UploadDocument(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "document file is required")
		return
	}
	defer file.Close()

	err = app.Dispatcher.UploadDocument(r.Context(), kind, header.Filename, file)
	switch {
	case err == nil:
		response.Success(w, "Document uploaded", app.Store.State().Documents)
	case errors.Is(err, dispatch.ErrUnknownDocument):
		response.NotFound(w, err.Error())
	case errors.Is(err, dispatch.ErrNoSession):
		response.BadRequest(w, err.Error())
	default:
		response.BadGateway(w, err.Error())
	}
}

// SubmitDocuments flags the uploaded documents as ready for review.
func (app *Config) SubmitDocuments(w http.ResponseWriter, r *http.Request) {
	app.lifecycle(w, r, func() error { return app.Dispatcher.SubmitDocuments(r.Context()) })
}
