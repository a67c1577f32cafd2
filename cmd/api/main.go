package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/CodeurPro04/driverWago/common/env"
	"github.com/CodeurPro04/driverWago/common/logger"
	"github.com/CodeurPro04/driverWago/common/telemetry"
	"github.com/CodeurPro04/driverWago/internal/backend"
	"github.com/CodeurPro04/driverWago/internal/dispatch"
	"github.com/CodeurPro04/driverWago/internal/driver"
	"github.com/CodeurPro04/driverWago/internal/reconcile"
	"github.com/CodeurPro04/driverWago/internal/statefile"
)

const (
	serviceName    = "driver-agent"
	serviceVersion = "1.0.0"
)

// Config wires the handlers to the agent's collaborators.
type Config struct {
	Store      *driver.Store
	Dispatcher *dispatch.Dispatcher
	Reconciler *reconcile.Reconciler
	API        *backend.Client
}

func main() {
	shutdown, err := telemetry.InitTracer(serviceName, serviceVersion)
	if err != nil {
		fmt.Printf("Failed to initialize tracer: %v\n", err)
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				logger.Error("Failed to shutdown tracer", "error", err)
			}
		}()
	}

	logger.Init(serviceName, env.Get("APP_ENV", "development") == "development")
	logger.Info("Starting driver agent", "version", serviceVersion)

	apiBaseURL := env.Get("ZIWAGO_API_BASE_URL", "http://127.0.0.1:8000/api")
	listenPort := env.Get("ZIWAGO_LISTEN_PORT", "8080")
	statePath := env.Get("ZIWAGO_STATE_FILE", "data/driver-state.json")

	pollInterval := reconcile.DefaultInterval
	if raw := env.Get("ZIWAGO_POLL_INTERVAL", ""); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			pollInterval = time.Duration(secs) * time.Second
		}
	}

	store := driver.NewStore()

	// Hydrate before anything else runs; a missing or unreadable snapshot
	// just means a fresh start.
	snapshots := statefile.New(statePath)
	if state, ok := snapshots.Load(); ok {
		store.Dispatch(driver.Hydrate(state))
		logger.Info("state hydrated", "path", statePath, "jobs", len(state.Jobs))
	} else {
		logger.Info("no prior state, starting fresh", "path", statePath)
	}

	// Snapshot every state change from here on. Write failures are logged
	// and swallowed; persistence is best effort.
	store.OnChange(func(state driver.State) {
		if err := snapshots.Save(state); err != nil {
			logger.Warn("state snapshot failed", "error", err)
		}
	})

	api := backend.New(apiBaseURL)
	reconciler := reconcile.New(store, api, pollInterval)
	dispatcher := dispatch.New(store, api, reconciler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reconciler.Start(ctx)

	app := Config{
		Store:      store,
		Dispatcher: dispatcher,
		Reconciler: reconciler,
		API:        api,
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", listenPort),
		Handler: app.routes(),
	}

	go func() {
		logger.Info("Starting HTTP server", "port", listenPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	reconciler.Shutdown(5 * time.Second)

	logger.Info("Agent exited")
}
