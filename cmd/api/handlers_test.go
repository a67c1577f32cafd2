package main

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/CodeurPro04/driverWago/internal/backend"
	"github.com/CodeurPro04/driverWago/internal/dispatch"
	"github.com/CodeurPro04/driverWago/internal/driver"
	"github.com/CodeurPro04/driverWago/internal/reconcile"
)

func testApp(backendURL string) *Config {
	store := driver.NewStore()
	store.Dispatch(driver.SetDriverSession(driver.SessionPayload{
		ID: 7, Name: "Awa", Phone: "+2250102030405", IsAvailable: true,
	}))

	api := backend.New(backendURL + "/api")
	reconciler := reconcile.New(store, api, reconcile.DefaultInterval)

	return &Config{
		Store:      store,
		Dispatcher: dispatch.New(store, api, reconciler),
		Reconciler: reconciler,
		API:        api,
	}
}

func TestApproveDriverRouteMirrorsProfileStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/drivers/7/approve" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"not found"}`))
			return
		}
		w.Write([]byte(`{"user":{"id":7,"profile_status":"approved"},"stats":{}}`))
	}))
	defer upstream.Close()

	app := testApp(upstream.URL)
	srv := httptest.NewServer(app.routes())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/profile/approve", "application/json", nil)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := app.Store.State().ProfileStatus; got != driver.ProfileApproved {
		t.Errorf("profile status = %q, want approved", got)
	}
}

func TestUploadAvatarRouteForwardsToBackend(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/users/7/avatar" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"not found"}`))
			return
		}
		if _, _, err := r.FormFile("avatar"); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"missing avatar"}`))
			return
		}
		w.Write([]byte(`{"user":{"id":7,"avatar_url":"/uploads/avatar-7.png"},"stats":{}}`))
	}))
	defer upstream.Close()

	app := testApp(upstream.URL)
	srv := httptest.NewServer(app.routes())
	defer srv.Close()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("avatar", "me.png")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("png-bytes"))
	form.Close()

	resp, err := http.Post(srv.URL+"/profile/avatar", form.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var envelope struct {
		Data struct {
			User backend.User `json:"user"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(envelope.Data.User.AvatarURL, upstream.URL) {
		t.Errorf("avatar url %q not absolutized against %s", envelope.Data.User.AvatarURL, upstream.URL)
	}
}

func TestProfileRoutesRequireSession(t *testing.T) {
	app := testApp("http://127.0.0.1:1")
	app.Store = driver.NewStore()
	srv := httptest.NewServer(app.routes())
	defer srv.Close()

	for _, path := range []string{"/profile/approve", "/profile/avatar"} {
		resp, err := http.Post(srv.URL+path, "application/json", nil)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", path, resp.StatusCode)
		}
	}
}
