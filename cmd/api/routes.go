package main

import (
	"net/http"

	commonMiddleware "github.com/CodeurPro04/driverWago/common/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *Config) routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(commonMiddleware.Logging)
	mux.Use(commonMiddleware.Recovery)
	mux.Use(commonMiddleware.Metrics(serviceName))

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	mux.Use(middleware.Heartbeat("/ping"))

	mux.Get("/health/live", app.Liveness)
	mux.Get("/health/ready", app.Readiness)
	mux.Handle("/metrics", promhttp.Handler())

	// Session
	mux.Post("/session/login", app.Login)
	mux.Get("/state", app.GetState)

	// Jobs and lifecycle
	mux.Get("/jobs", app.ListJobs)
	mux.Get("/jobs/{id}", app.GetJob)
	mux.Post("/jobs/{id}/accept", app.AcceptJob)
	mux.Post("/jobs/{id}/decline", app.DeclineJob)
	mux.Post("/jobs/{id}/arrive", app.ArriveJob)
	mux.Post("/jobs/{id}/start", app.StartWash)
	mux.Post("/jobs/{id}/complete", app.CompleteJob)
	mux.Post("/jobs/{id}/cancel", app.CancelJob)
	mux.Post("/jobs/refresh", app.RefreshJobs)

	// Availability
	mux.Post("/availability", app.SetAvailability)
	mux.Post("/availability/toggle", app.ToggleAvailability)

	// Photo staging and media upload
	mux.Post("/photos/{stage}", app.StagePhoto)
	mux.Post("/photos/{stage}/upload", app.UploadJobMedia)

	// Onboarding and profile bookkeeping
	mux.Post("/onboarding/done", app.SetOnboardingDone)
	mux.Post("/account/step", app.SetAccountStep)
	mux.Get("/profile", app.GetProfile)
	mux.Patch("/profile", app.UpdateProfile)
	mux.Post("/profile/avatar", app.UploadAvatar)
	mux.Post("/profile/approve", app.ApproveDriver)
	mux.Post("/documents/{kind}", app.UploadDocument)
	mux.Post("/documents/submit", app.SubmitDocuments)

	return mux
}
