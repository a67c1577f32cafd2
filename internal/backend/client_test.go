package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAbsolutizeMediaURL(t *testing.T) {
	origin := "http://192.168.1.10:8000"

	cases := []struct {
		name  string
		value string
		want  string
	}{
		{"empty", "", ""},
		{"blank", "   ", ""},
		{"relative without slash", "uploads/a.jpg", origin + "/uploads/a.jpg"},
		{"relative with slash", "/uploads/a.jpg", origin + "/uploads/a.jpg"},
		{"loopback rewritten", "http://127.0.0.1:8000/media/a.jpg", origin + "/media/a.jpg"},
		{"localhost rewritten", "http://localhost:9999/media/a.jpg", origin + "/media/a.jpg"},
		{"external untouched", "https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AbsolutizeMediaURL(origin, tc.value); got != tc.want {
				t.Errorf("AbsolutizeMediaURL(%q) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}

func TestDriverJobsNormalizesMedia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/drivers/7/jobs" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jobs":[{
			"id": 3,
			"status": "washing",
			"customer_avatar_url": "uploads/ava.jpg",
			"before_photos": ["/media/b1.jpg", "http://127.0.0.1:8000/media/b2.jpg"],
			"after_photos": []
		}]}`))
	}))
	defer srv.Close()

	client := New(srv.URL + "/api")

	jobs, err := client.DriverJobs(context.Background(), 7)
	if err != nil {
		t.Fatalf("DriverJobs: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("got %d jobs", len(jobs))
	}

	job := jobs[0]
	if job.CustomerAvatarURL != srv.URL+"/uploads/ava.jpg" {
		t.Errorf("avatar = %q", job.CustomerAvatarURL)
	}
	if len(job.BeforePhotos) != 2 {
		t.Fatalf("beforePhotos = %v", job.BeforePhotos)
	}
	for _, p := range job.BeforePhotos {
		if !strings.HasPrefix(p, srv.URL) {
			t.Errorf("photo not absolutized: %q", p)
		}
	}
}

func TestRecordIDAcceptsNumbersAndStrings(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"number", `{"id": 42}`, "42"},
		{"numeric string", `{"id": "42"}`, "42"},
		{"opaque string", `{"id": "bk_7f3a"}`, "bk_7f3a"},
		{"absent", `{}`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"jobs":[` + tc.body + `]}`))
			}))
			defer srv.Close()

			jobs, err := New(srv.URL+"/api").DriverJobs(context.Background(), 7)
			if err != nil {
				t.Fatalf("DriverJobs: %v", err)
			}
			if got := jobs[0].ID.String(); got != tc.want {
				t.Errorf("id = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestErrorResponsesCarryBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"job already claimed"}`))
	}))
	defer srv.Close()

	client := New(srv.URL + "/api")

	err := client.AcceptJob(context.Background(), "3", 7)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "job already claimed") {
		t.Errorf("error = %v, want backend message", err)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	if err := New(srv.URL + "/api").Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
}

func TestMobileLoginNormalizesDocuments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/mobile-login" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"user":{
			"id": 7,
			"name": "Awa",
			"phone": "+2250102030405",
			"is_available": true,
			"documents": {"license": "/uploads/lic.jpg"}
		}}`))
	}))
	defer srv.Close()

	user, err := New(srv.URL + "/api").MobileLogin(context.Background(), LoginRequest{Role: "driver", Phone: "+2250102030405"})
	if err != nil {
		t.Fatalf("MobileLogin: %v", err)
	}
	if user.ID != 7 || !user.IsAvailable {
		t.Fatalf("user = %+v", user)
	}
	if user.Documents["license"] != srv.URL+"/uploads/lic.jpg" {
		t.Errorf("document not absolutized: %q", user.Documents["license"])
	}
}
