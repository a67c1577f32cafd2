package reconcile

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/CodeurPro04/driverWago/internal/backend"
	"github.com/CodeurPro04/driverWago/internal/driver"
)

func jobsServer(hits *atomic.Int64, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.Write([]byte(body))
	}))
}

func sessionStore() *driver.Store {
	store := driver.NewStore()
	store.Dispatch(driver.SetDriverSession(driver.SessionPayload{
		ID: 7, Name: "Awa", Phone: "+2250102030405", IsAvailable: true,
	}))
	return store
}

func TestRefreshNowReplacesJobCollection(t *testing.T) {
	srv := jobsServer(nil, `{"jobs":[
		{"id":1,"status":"accepted","price":5000,"customer_name":"Moussa"},
		{"id":2,"status":"completed","price":2500}
	]}`)
	defer srv.Close()

	store := sessionStore()
	r := New(store, backend.New(srv.URL+"/api"), DefaultInterval)

	if err := r.RefreshNow(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	state := store.State()
	if len(state.Jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(state.Jobs))
	}
	if state.Jobs[0].Status != driver.StatusEnRoute {
		t.Errorf("status = %q, want enRoute", state.Jobs[0].Status)
	}
	if state.ActiveJobID != "1" {
		t.Errorf("activeJobID = %q, want 1", state.ActiveJobID)
	}
	if state.CashoutBalance != 2000 {
		t.Errorf("cashoutBalance = %d, want 2000", state.CashoutBalance)
	}
}

func TestRefreshNowWithoutSession(t *testing.T) {
	var hits atomic.Int64
	srv := jobsServer(&hits, `{"jobs":[]}`)
	defer srv.Close()

	r := New(driver.NewStore(), backend.New(srv.URL+"/api"), DefaultInterval)

	if err := r.RefreshNow(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
	if hits.Load() != 0 {
		t.Errorf("backend was called %d times without a session", hits.Load())
	}
}

func TestRefreshNowPropagatesFetchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"message":"upstream down"}`))
	}))
	defer srv.Close()

	store := sessionStore()
	store.Dispatch(driver.SetJobs([]driver.Job{{ID: "1", Status: driver.StatusWashing}}))
	r := New(store, backend.New(srv.URL+"/api"), DefaultInterval)

	if err := r.RefreshNow(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
	// A failed refresh keeps the last known jobs.
	if len(store.State().Jobs) != 1 {
		t.Errorf("job collection changed on failed refresh")
	}
}

func TestFirstInProgressJobWinsOnConflict(t *testing.T) {
	srv := jobsServer(nil, `{"jobs":[
		{"id":10,"status":"washing","price":1000},
		{"id":11,"status":"arrived","price":1000}
	]}`)
	defer srv.Close()

	store := sessionStore()
	r := New(store, backend.New(srv.URL+"/api"), DefaultInterval)

	if err := r.RefreshNow(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := store.State().ActiveJobID; got != "10" {
		t.Errorf("activeJobID = %q, want 10", got)
	}
}

func TestPollingLoopRefreshesAndStops(t *testing.T) {
	var hits atomic.Int64
	srv := jobsServer(&hits, `{"jobs":[{"id":1,"status":"pending","price":100}]}`)
	defer srv.Close()

	store := sessionStore()
	r := New(store, backend.New(srv.URL+"/api"), 10*time.Millisecond)

	r.Start(context.Background())

	deadline := time.After(2 * time.Second)
	for hits.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("polling loop never reached the backend twice")
		case <-time.After(5 * time.Millisecond):
		}
	}

	r.Shutdown(time.Second)
	settled := hits.Load()
	time.Sleep(50 * time.Millisecond)
	if hits.Load() != settled {
		t.Error("loop kept polling after shutdown")
	}

	if len(store.State().Jobs) != 1 {
		t.Errorf("got %d jobs after polling, want 1", len(store.State().Jobs))
	}
}
