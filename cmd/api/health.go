package main

import (
	"context"
	"net/http"
	"time"

	"github.com/CodeurPro04/driverWago/common/response"
)

// Liveness reports that the agent process is running.
func (app *Config) Liveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Readiness reports whether the agent can do useful work: the backend must
// answer its health check. The store is always ready once hydrated.
func (app *Config) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]bool{
		"backend": app.API.Health(ctx) == nil,
	}

	allHealthy := true
	for _, healthy := range checks {
		if !healthy {
			allHealthy = false
			break
		}
	}

	status := http.StatusOK
	label := "ready"
	if !allHealthy {
		status = http.StatusServiceUnavailable
		label = "not ready"
	}

	response.WriteJSON(w, status, map[string]interface{}{
		"status": label,
		"checks": checks,
	})
}
