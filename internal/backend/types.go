package backend

import "encoding/json"

// RecordID is a booking id as the API sends it: a JSON number or an
// arbitrary string. It is treated as opaque either way.
type RecordID string

func (id *RecordID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = RecordID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = RecordID(n.String())
	return nil
}

func (id RecordID) String() string { return string(id) }

// BookingRecord is a driver job as the dispatch API returns it. Every field
// is optional from the client's perspective; defaults are applied when the
// record is mapped into the store's job model.
type BookingRecord struct {
	ID                RecordID `json:"id"`
	CustomerName      string   `json:"customer_name"`
	CustomerAvatarURL string   `json:"customer_avatar_url"`
	CustomerPhone     string   `json:"customer_phone"`
	BeforePhotos      []string `json:"before_photos"`
	AfterPhotos       []string `json:"after_photos"`
	Service           string   `json:"service"`
	Vehicle           string   `json:"vehicle"`
	Address           string   `json:"address"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	Price             *float64 `json:"price"`
	ScheduledAt       string   `json:"scheduled_at"`
	Status            string   `json:"status"`
}

// User is the backend's user record as consumed by the agent.
type User struct {
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	FirstName       string            `json:"first_name,omitempty"`
	LastName        string            `json:"last_name,omitempty"`
	Phone           string            `json:"phone"`
	Email           string            `json:"email,omitempty"`
	Role            string            `json:"role"`
	WalletBalance   float64           `json:"wallet_balance"`
	IsAvailable     bool              `json:"is_available"`
	Bio             string            `json:"bio,omitempty"`
	AvatarURL       string            `json:"avatar_url,omitempty"`
	Rating          float64           `json:"rating,omitempty"`
	ProfileStatus   string            `json:"profile_status,omitempty"`
	AccountStep     int               `json:"account_step,omitempty"`
	Documents       map[string]string `json:"documents,omitempty"`
	DocumentsStatus string            `json:"documents_status,omitempty"`
}

// ProfileResult pairs a user record with the aggregate stats the profile
// endpoints return alongside it.
type ProfileResult struct {
	User  User             `json:"user"`
	Stats map[string]int64 `json:"stats"`
}

// MediaResult is the response to a job media upload.
type MediaResult struct {
	Booking     BookingRecord `json:"booking"`
	UploadedURL string        `json:"uploaded_url"`
}

// LoginRequest is the payload for POST /auth/mobile-login.
type LoginRequest struct {
	Role  string `json:"role"`
	Phone string `json:"phone"`
	Name  string `json:"name,omitempty"`
}

// AvailabilityUpdate is the payload for PATCH /drivers/{id}/availability.
type AvailabilityUpdate struct {
	IsAvailable bool     `json:"is_available"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// ProfileUpdate carries the partial user fields for PATCH /users/{id}/profile.
type ProfileUpdate struct {
	FirstName     *string `json:"first_name,omitempty"`
	LastName      *string `json:"last_name,omitempty"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Bio           *string `json:"bio,omitempty"`
	AvatarURL     *string `json:"avatar_url,omitempty"`
	AccountStep   *int    `json:"account_step,omitempty"`
	ProfileStatus *string `json:"profile_status,omitempty"`
	IsAvailable   *bool   `json:"is_available,omitempty"`
}
