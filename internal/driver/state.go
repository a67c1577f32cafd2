package driver

// ProfileStatus is the review state of the driver's profile.
type ProfileStatus string

const (
	ProfilePending  ProfileStatus = "pending"
	ProfileApproved ProfileStatus = "approved"
	ProfileRejected ProfileStatus = "rejected"
)

// DocumentsStatus is the review state of the driver's onboarding documents.
type DocumentsStatus string

const (
	DocumentsPending   DocumentsStatus = "pending"
	DocumentsSubmitted DocumentsStatus = "submitted"
	DocumentsApproved  DocumentsStatus = "approved"
	DocumentsRejected  DocumentsStatus = "rejected"
)

// DocumentKinds are the onboarding documents a driver must provide.
var DocumentKinds = []string{"id", "profile", "license", "address", "certificate"}

// State is the whole driver-side application state. It is only ever mutated
// through Reduce, which returns a fresh value.
//
// ActiveJobID and CashoutBalance are derived from Jobs and recomputed on
// every change to the job collection; they are persisted for display but are
// never the source of truth.
type State struct {
	DriverID        int64             `json:"driver_id"`
	DriverPhone     string            `json:"driver_phone"`
	DriverName      string            `json:"driver_name"`
	Rating          float64           `json:"rating"`
	Availability    bool              `json:"availability"`
	Jobs            []Job             `json:"jobs"`
	ActiveJobID     string            `json:"active_job_id"`
	CashoutBalance  int64             `json:"cashout_balance"`
	OnboardingDone  bool              `json:"onboarding_done"`
	AccountStep     int               `json:"account_step"`
	ProfileStatus   ProfileStatus     `json:"profile_status"`
	BeforePhotos    []string          `json:"before_photos"`
	AfterPhotos     []string          `json:"after_photos"`
	Documents       map[string]string `json:"documents"`
	DocumentsStatus DocumentsStatus   `json:"documents_status"`
}

// InitialState is the state of a fresh install, before hydration.
func InitialState() State {
	documents := make(map[string]string, len(DocumentKinds))
	for _, kind := range DocumentKinds {
		documents[kind] = ""
	}

	return State{
		DriverID:        0,
		DriverPhone:     "",
		DriverName:      "Laveur",
		Rating:          4.9,
		Availability:    true,
		Jobs:            []Job{},
		ActiveJobID:     "",
		CashoutBalance:  0,
		OnboardingDone:  false,
		AccountStep:     0,
		ProfileStatus:   ProfilePending,
		BeforePhotos:    []string{},
		AfterPhotos:     []string{},
		Documents:       documents,
		DocumentsStatus: DocumentsPending,
	}
}

// HasSession reports whether a driver is logged in.
func (s State) HasSession() bool {
	return s.DriverID != 0
}

// JobByID returns the job and whether it exists in the collection.
func (s State) JobByID(id string) (Job, bool) {
	for _, job := range s.Jobs {
		if job.ID == id {
			return job, true
		}
	}
	return Job{}, false
}

// StagedPhotoCount counts the non-empty entries of a staging array; sparse
// writes can leave holes at lower indexes.
func StagedPhotoCount(photos []string) int {
	n := 0
	for _, p := range photos {
		if p != "" {
			n++
		}
	}
	return n
}

// activeJobID returns the id of the first in-progress job, or empty.
func activeJobID(jobs []Job) string {
	for _, job := range jobs {
		if job.Status.InProgress() {
			return job.ID
		}
	}
	return ""
}

// cashoutBalance sums the driver payout of every completed job.
func cashoutBalance(jobs []Job) int64 {
	var total int64
	for _, job := range jobs {
		if job.Status == StatusCompleted {
			total += job.Payout()
		}
	}
	return total
}

// InProgressCount reports how many jobs claim an in-progress status. The
// server should never allow more than one.
func InProgressCount(jobs []Job) int {
	n := 0
	for _, job := range jobs {
		if job.Status.InProgress() {
			n++
		}
	}
	return n
}
