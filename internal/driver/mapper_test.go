package driver

import (
	"strings"
	"testing"

	"github.com/CodeurPro04/driverWago/internal/backend"
)

func TestStatusFromAPITotality(t *testing.T) {
	cases := map[string]JobStatus{
		"pending":   StatusPending,
		"accepted":  StatusEnRoute,
		"en_route":  StatusEnRoute,
		"arrived":   StatusArrived,
		"washing":   StatusWashing,
		"completed": StatusCompleted,
		"cancelled": StatusCancelled,
		// Anything unrecognized falls back to pending.
		"":          StatusPending,
		"PENDING":   StatusPending,
		"exploded":  StatusPending,
		"en-route":  StatusPending,
		"completed ": StatusPending,
	}

	valid := map[JobStatus]bool{
		StatusPending: true, StatusEnRoute: true, StatusArrived: true,
		StatusWashing: true, StatusCompleted: true, StatusCancelled: true,
	}

	for input, want := range cases {
		got := StatusFromAPI(input)
		if got != want {
			t.Errorf("StatusFromAPI(%q) = %q, want %q", input, got, want)
		}
		if !valid[got] {
			t.Errorf("StatusFromAPI(%q) returned invalid status %q", input, got)
		}
	}
}

func TestJobFromRecordDefaults(t *testing.T) {
	job := JobFromRecord(backend.BookingRecord{ID: backend.RecordID("12")})

	if job.ID != "12" {
		t.Errorf("id = %q, want 12", job.ID)
	}
	if job.CustomerName != "Client" {
		t.Errorf("customerName = %q", job.CustomerName)
	}
	if job.Service != "Lavage" || job.Vehicle != "Vehicule" {
		t.Errorf("service/vehicle defaults missing: %q %q", job.Service, job.Vehicle)
	}
	if job.Address != "Adresse non renseignee" {
		t.Errorf("address = %q", job.Address)
	}
	if job.Latitude != 5.3364 || job.Longitude != -4.0267 {
		t.Errorf("coordinates = %v,%v, want fallback point", job.Latitude, job.Longitude)
	}
	if job.Price != 0 {
		t.Errorf("price = %d, want 0", job.Price)
	}
	if job.BeforePhotos == nil || job.AfterPhotos == nil {
		t.Error("photo lists must be empty, not nil")
	}
	if len(job.BeforePhotos) != 0 || len(job.AfterPhotos) != 0 {
		t.Error("photo lists must default empty")
	}
	if job.Status != StatusPending {
		t.Errorf("status = %q, want pending", job.Status)
	}
	if job.Phone != "+225 00 00 00 00 00" {
		t.Errorf("phone = %q", job.Phone)
	}
	if !strings.HasPrefix(job.ScheduledAt, "Aujourd'hui, ") {
		t.Errorf("scheduledAt = %q, want display label", job.ScheduledAt)
	}
}

func TestJobFromRecordKeepsServerFields(t *testing.T) {
	lat, lon, price := 5.35, -4.01, 7500.0
	rec := backend.BookingRecord{
		ID:            backend.RecordID("88"),
		CustomerName:  "Mme Kone",
		CustomerPhone: "+225 07 07 07 07 07",
		Service:       "Lavage complet",
		Vehicle:       "SUV",
		Address:       "Cocody, Abidjan",
		Latitude:      &lat,
		Longitude:     &lon,
		Price:         &price,
		ScheduledAt:   "Demain, 09:00",
		Status:        "washing",
		BeforePhotos:  []string{"http://cdn/x.jpg"},
	}

	job := JobFromRecord(rec)

	if job.CustomerName != "Mme Kone" || job.Price != 7500 || job.Status != StatusWashing {
		t.Fatalf("server fields lost: %+v", job)
	}
	if job.Latitude != lat || job.Longitude != lon {
		t.Fatalf("coordinates overridden: %v,%v", job.Latitude, job.Longitude)
	}
	if job.ScheduledAt != "Demain, 09:00" {
		t.Fatalf("scheduledAt = %q", job.ScheduledAt)
	}
	if len(job.BeforePhotos) != 1 {
		t.Fatalf("beforePhotos = %v", job.BeforePhotos)
	}
}
