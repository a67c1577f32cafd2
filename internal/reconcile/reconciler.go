// Package reconcile keeps the local job collection eventually consistent
// with the dispatch backend by replacing it with the server's list on a
// fixed schedule.
package reconcile

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/CodeurPro04/driverWago/common/logger"
	"github.com/CodeurPro04/driverWago/common/telemetry"
	"github.com/CodeurPro04/driverWago/internal/backend"
	"github.com/CodeurPro04/driverWago/internal/driver"
	"go.opentelemetry.io/otel/metric"
)

// DefaultInterval matches the mobile client's refresh cadence.
const DefaultInterval = 5 * time.Second

// ErrNoSession is returned by RefreshNow when no driver is logged in.
var ErrNoSession = errors.New("no driver session")

var (
	metricsOnce      sync.Once
	refreshTotal     metric.Int64Counter
	refreshFailures  metric.Int64Counter
	refreshConflicts metric.Int64Counter
)

func initMetrics() {
	metricsOnce.Do(func() {
		if telemetry.Meter == nil {
			return
		}

		var err error
		refreshTotal, err = telemetry.Meter.Int64Counter(
			"reconcile.refresh.count",
			metric.WithDescription("Job list refreshes attempted"),
		)
		if err != nil {
			panic(err)
		}

		refreshFailures, err = telemetry.Meter.Int64Counter(
			"reconcile.refresh.failures",
			metric.WithDescription("Job list refreshes that failed"),
		)
		if err != nil {
			panic(err)
		}

		refreshConflicts, err = telemetry.Meter.Int64Counter(
			"reconcile.refresh.conflicts",
			metric.WithDescription("Refreshes that returned more than one in-progress job"),
		)
		if err != nil {
			panic(err)
		}
	})
}

func count(counter metric.Int64Counter, ctx context.Context) {
	if counter != nil {
		counter.Add(ctx, 1)
	}
}

// Reconciler polls the backend while a driver session exists and replaces
// the store's job collection with each successful response.
type Reconciler struct {
	store    *driver.Store
	api      *backend.Client
	interval time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(store *driver.Store, api *backend.Client, interval time.Duration) *Reconciler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	initMetrics()
	return &Reconciler{store: store, api: api, interval: interval}
}

// Start launches the polling loop. Ticks without a driver session are
// skipped; fetch failures are logged and swallowed so the schedule is never
// interrupted.
func (r *Reconciler) Start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				if err := r.RefreshNow(loopCtx); err != nil && !errors.Is(err, ErrNoSession) {
					logger.Warn("job refresh failed", "error", err)
				}
			}
		}
	}()
}

// RefreshNow performs one fetch + SET_JOBS outside the schedule. The action
// dispatcher calls it right after a server-confirmed transition so the
// driver sees the new status without waiting for the next tick.
func (r *Reconciler) RefreshNow(ctx context.Context) error {
	state := r.store.State()
	if !state.HasSession() {
		return ErrNoSession
	}

	count(refreshTotal, ctx)

	recs, err := r.api.DriverJobs(ctx, state.DriverID)
	if err != nil {
		count(refreshFailures, ctx)
		return err
	}

	jobs := driver.JobsFromRecords(recs)
	if n := driver.InProgressCount(jobs); n > 1 {
		// The server's state machine should make this impossible. First one
		// in the response wins; flag it loudly.
		count(refreshConflicts, ctx)
		logger.Warn("server returned multiple in-progress jobs", "count", n)
	}

	r.store.Dispatch(driver.SetJobs(jobs))
	return nil
}

// Shutdown stops the loop and waits up to timeout for it to exit.
func (r *Reconciler) Shutdown(timeout time.Duration) {
	if r.cancel == nil {
		return
	}
	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		logger.Warn("reconciler shutdown timed out", "timeout", timeout)
	}
}
