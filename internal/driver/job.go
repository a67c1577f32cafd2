package driver

// JobStatus is the client-side lifecycle state of a wash job.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusEnRoute   JobStatus = "enRoute"
	StatusArrived   JobStatus = "arrived"
	StatusWashing   JobStatus = "washing"
	StatusCompleted JobStatus = "completed"
	StatusCancelled JobStatus = "cancelled"
)

// PayoutFraction is the share of a completed job's price credited to the
// driver; the platform keeps the rest as commission.
const PayoutFraction = 0.8

// InProgress reports whether the status counts toward the active job.
func (s JobStatus) InProgress() bool {
	switch s {
	case StatusEnRoute, StatusArrived, StatusWashing:
		return true
	}
	return false
}

// Terminal reports whether the job can transition no further.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// StatusFromAPI translates the backend's status vocabulary into the client's.
// Unrecognized values fall back to pending rather than failing; a job the
// client cannot classify is still a job the driver should see.
func StatusFromAPI(status string) JobStatus {
	switch status {
	case "pending":
		return StatusPending
	case "accepted", "en_route":
		return StatusEnRoute
	case "arrived":
		return StatusArrived
	case "washing":
		return StatusWashing
	case "completed":
		return StatusCompleted
	case "cancelled":
		return StatusCancelled
	default:
		return StatusPending
	}
}

// Job is one wash engagement between a customer and the driver.
type Job struct {
	ID                string    `json:"id"`
	CustomerName      string    `json:"customer_name"`
	CustomerAvatarURL string    `json:"customer_avatar_url,omitempty"`
	BeforePhotos      []string  `json:"before_photos"`
	AfterPhotos       []string  `json:"after_photos"`
	Service           string    `json:"service"`
	Vehicle           string    `json:"vehicle"`
	Address           string    `json:"address"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	DistanceKm        float64   `json:"distance_km"`
	EtaMin            int       `json:"eta_min"`
	Price             int64     `json:"price"`
	ScheduledAt       string    `json:"scheduled_at"`
	Notes             string    `json:"notes,omitempty"`
	Status            JobStatus `json:"status"`
	CreatedAt         string    `json:"created_at"`
	Phone             string    `json:"phone"`
}

// Payout is the driver's share of the job price, rounded to whole francs.
func (j Job) Payout() int64 {
	return roundPayout(j.Price)
}

func roundPayout(price int64) int64 {
	// round(price * 0.8), half up, in integer math
	return (price*8 + 5) / 10
}
