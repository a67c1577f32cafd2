package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client talks to the dispatch backend's REST API. All methods are safe for
// concurrent use.
type Client struct {
	baseURL string
	origin  string
	http    *http.Client
}

// New builds a client for the given API base URL, e.g.
// "http://192.168.1.10:8000/api". The media origin is the base URL with the
// trailing /api stripped.
func New(baseURL string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	origin := strings.TrimSuffix(baseURL, "/api")

	return &Client{
		baseURL: baseURL,
		origin:  origin,
		http: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// apiError is the backend's error body.
type apiError struct {
	Message string `json:"message"`
}

// do performs a JSON request and decodes the response into out (when out is
// non-nil). Non-2xx responses become errors carrying the backend's message.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("api error (%d): %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("api error (%d)", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Health checks GET /health.
func (c *Client) Health(ctx context.Context) error {
	var result struct {
		OK bool `json:"ok"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, &result); err != nil {
		return err
	}
	if !result.OK {
		return fmt.Errorf("backend reported not ok")
	}
	return nil
}

// MobileLogin authenticates a driver by phone and returns the user record.
func (c *Client) MobileLogin(ctx context.Context, req LoginRequest) (User, error) {
	var result struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/mobile-login", req, &result); err != nil {
		return User{}, err
	}
	return c.normalizeUser(result.User), nil
}

// DriverJobs fetches the authoritative job list for a driver.
func (c *Client) DriverJobs(ctx context.Context, driverID int64) ([]BookingRecord, error) {
	var result struct {
		Jobs []BookingRecord `json:"jobs"`
	}
	path := fmt.Sprintf("/drivers/%d/jobs", driverID)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	for i, rec := range result.Jobs {
		result.Jobs[i] = c.normalizeBooking(rec)
	}
	return result.Jobs, nil
}

// UpdateAvailability sets the driver's availability flag server-side.
func (c *Client) UpdateAvailability(ctx context.Context, driverID int64, update AvailabilityUpdate) error {
	path := fmt.Sprintf("/drivers/%d/availability", driverID)
	return c.do(ctx, http.MethodPatch, path, update, nil)
}

// AcceptJob claims a pending job for the driver.
func (c *Client) AcceptJob(ctx context.Context, jobID string, driverID int64) error {
	path := fmt.Sprintf("/jobs/%s/accept", jobID)
	return c.do(ctx, http.MethodPost, path, map[string]int64{"driver_id": driverID}, nil)
}

// DeclineJob declines a pending job.
func (c *Client) DeclineJob(ctx context.Context, jobID string, driverID int64) error {
	path := fmt.Sprintf("/jobs/%s/decline", jobID)
	return c.do(ctx, http.MethodPost, path, map[string]int64{"driver_id": driverID}, nil)
}

// TransitionJob advances a claimed job; action is one of
// arrive, start, complete, cancel.
func (c *Client) TransitionJob(ctx context.Context, jobID string, driverID int64, action string) error {
	path := fmt.Sprintf("/jobs/%s/transition", jobID)
	body := map[string]interface{}{"driver_id": driverID, "action": action}
	return c.do(ctx, http.MethodPost, path, body, nil)
}

// Profile fetches a user's profile and stats.
func (c *Client) Profile(ctx context.Context, userID int64) (ProfileResult, error) {
	var result ProfileResult
	path := fmt.Sprintf("/users/%d/profile", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return ProfileResult{}, err
	}
	result.User = c.normalizeUser(result.User)
	return result, nil
}

// UpdateProfile patches a user's profile fields.
func (c *Client) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (ProfileResult, error) {
	var result ProfileResult
	path := fmt.Sprintf("/users/%d/profile", userID)
	if err := c.do(ctx, http.MethodPatch, path, update, &result); err != nil {
		return ProfileResult{}, err
	}
	result.User = c.normalizeUser(result.User)
	return result, nil
}

// ApproveDriver marks the driver's profile approved.
func (c *Client) ApproveDriver(ctx context.Context, driverID int64) (ProfileResult, error) {
	var result ProfileResult
	path := fmt.Sprintf("/drivers/%d/approve", driverID)
	if err := c.do(ctx, http.MethodPost, path, map[string]bool{"approved": true}, &result); err != nil {
		return ProfileResult{}, err
	}
	result.User = c.normalizeUser(result.User)
	return result, nil
}

// UploadAvatar uploads a profile picture.
func (c *Client) UploadAvatar(ctx context.Context, userID int64, filename string, file io.Reader) (ProfileResult, error) {
	var result ProfileResult
	path := fmt.Sprintf("/users/%d/avatar", userID)
	fields := map[string]string{}
	if err := c.upload(ctx, path, "avatar", filename, file, fields, &result); err != nil {
		return ProfileResult{}, err
	}
	result.User = c.normalizeUser(result.User)
	return result, nil
}

// UploadJobMedia attaches a before/after photo to a booking and returns the
// stored URL alongside the refreshed booking.
func (c *Client) UploadJobMedia(ctx context.Context, bookingID string, driverID int64, stage, filename string, file io.Reader) (MediaResult, error) {
	var result MediaResult
	path := fmt.Sprintf("/bookings/%s/media", bookingID)
	fields := map[string]string{
		"driver_id": fmt.Sprintf("%d", driverID),
		"stage":     stage,
	}
	if err := c.upload(ctx, path, "photo", filename, file, fields, &result); err != nil {
		return MediaResult{}, err
	}
	result.Booking = c.normalizeBooking(result.Booking)
	result.UploadedURL = AbsolutizeMediaURL(c.origin, result.UploadedURL)
	return result, nil
}

// UploadDriverDocument uploads one onboarding document.
func (c *Client) UploadDriverDocument(ctx context.Context, driverID int64, docType, filename string, file io.Reader) (ProfileResult, error) {
	var result ProfileResult
	path := fmt.Sprintf("/drivers/%d/documents", driverID)
	fields := map[string]string{"type": docType}
	if err := c.upload(ctx, path, "file", filename, file, fields, &result); err != nil {
		return ProfileResult{}, err
	}
	result.User = c.normalizeUser(result.User)
	return result, nil
}

// SubmitDriverDocuments flags the uploaded documents as ready for review.
func (c *Client) SubmitDriverDocuments(ctx context.Context, driverID int64) (ProfileResult, error) {
	var result ProfileResult
	path := fmt.Sprintf("/drivers/%d/documents/submit", driverID)
	if err := c.do(ctx, http.MethodPost, path, map[string]string{}, &result); err != nil {
		return ProfileResult{}, err
	}
	result.User = c.normalizeUser(result.User)
	return result, nil
}

// upload sends a multipart form with one file part plus extra fields.
func (c *Client) upload(ctx context.Context, path, fileField, filename string, file io.Reader, fields map[string]string, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("encode form: %w", err)
		}
	}
	part, err := writer.CreateFormFile(fileField, filename)
	if err != nil {
		return fmt.Errorf("encode form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("encode form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.send(req, out)
}
