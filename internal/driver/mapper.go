package driver

import (
	"fmt"
	"time"

	"github.com/CodeurPro04/driverWago/internal/backend"
)

// Display defaults for fields the backend may omit. The fallback point is
// downtown Abidjan, where the fleet operates.
const (
	defaultCustomerName = "Client"
	defaultService      = "Lavage"
	defaultVehicle      = "Vehicule"
	defaultAddress      = "Adresse non renseignee"
	defaultPhone        = "+225 00 00 00 00 00"
	defaultLatitude     = 5.3364
	defaultLongitude    = -4.0267
	defaultDistanceKm   = 2.5
	defaultEtaMin       = 12
)

// nowLabel formats the current time the way the job screens display it.
// Timestamps are display strings, not sortable instants.
func nowLabel() string {
	now := time.Now()
	return fmt.Sprintf("Aujourd'hui, %02d:%02d", now.Hour(), now.Minute())
}

// JobFromRecord normalizes a backend booking into a Job. It never fails:
// missing fields get display defaults and unknown statuses map to pending.
func JobFromRecord(rec backend.BookingRecord) Job {
	job := Job{
		ID:                rec.ID.String(),
		CustomerName:      rec.CustomerName,
		CustomerAvatarURL: rec.CustomerAvatarURL,
		BeforePhotos:      rec.BeforePhotos,
		AfterPhotos:       rec.AfterPhotos,
		Service:           rec.Service,
		Vehicle:           rec.Vehicle,
		Address:           rec.Address,
		Latitude:          defaultLatitude,
		Longitude:         defaultLongitude,
		DistanceKm:        defaultDistanceKm,
		EtaMin:            defaultEtaMin,
		ScheduledAt:       rec.ScheduledAt,
		Status:            StatusFromAPI(rec.Status),
		CreatedAt:         nowLabel(),
		Phone:             rec.CustomerPhone,
	}

	if job.CustomerName == "" {
		job.CustomerName = defaultCustomerName
	}
	if job.BeforePhotos == nil {
		job.BeforePhotos = []string{}
	}
	if job.AfterPhotos == nil {
		job.AfterPhotos = []string{}
	}
	if job.Service == "" {
		job.Service = defaultService
	}
	if job.Vehicle == "" {
		job.Vehicle = defaultVehicle
	}
	if job.Address == "" {
		job.Address = defaultAddress
	}
	if rec.Latitude != nil && *rec.Latitude != 0 {
		job.Latitude = *rec.Latitude
	}
	if rec.Longitude != nil && *rec.Longitude != 0 {
		job.Longitude = *rec.Longitude
	}
	if rec.Price != nil && *rec.Price > 0 {
		job.Price = int64(*rec.Price)
	}
	if job.ScheduledAt == "" {
		job.ScheduledAt = nowLabel()
	}
	if job.Phone == "" {
		job.Phone = defaultPhone
	}

	return job
}

// JobsFromRecords maps a full reconciliation response.
func JobsFromRecords(recs []backend.BookingRecord) []Job {
	jobs := make([]Job, 0, len(recs))
	for _, rec := range recs {
		jobs = append(jobs, JobFromRecord(rec))
	}
	return jobs
}
