package drchrono

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrNoDoctor is returned when the practice has no doctor on the API account.
var ErrNoDoctor = errors.New("drchrono: no doctors on account")

// Client implements access to the drchrono scheduling API.
type Client struct {
	baseURL    string
	tokens     TokenProvider
	httpClient *http.Client
}

// Config holds configuration for the drchrono client
type Config struct {
	BaseURL string // e.g. "https://drchrono.com/api"
	Tokens  TokenProvider
	Timeout time.Duration
}

// New creates a new drchrono API client
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("drchrono: BaseURL is required")
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("drchrono: TokenProvider is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		tokens:  cfg.Tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// page is the envelope drchrono wraps list responses in.
type page[T any] struct {
	Next    string `json:"next"`
	Results []T    `json:"results"`
}

// FetchPatient retrieves the full patient record by id.
// GET /patients/{id}
func (c *Client) FetchPatient(ctx context.Context, id int64) (*PatientRecord, error) {
	var rec PatientRecord
	endpoint := fmt.Sprintf("%s/patients/%d", c.baseURL, id)
	if err := c.getJSON(ctx, endpoint, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListAppointments returns the doctor's appointments on the given calendar
// date, following pagination until exhausted. Results carry verbose status
// transition history.
// GET /appointments?doctor={id}&date={YYYY-MM-DD}&verbose=true
func (c *Client) ListAppointments(ctx context.Context, doctorID string, date time.Time) ([]AppointmentRecord, error) {
	params := url.Values{}
	if doctorID != "" {
		params.Set("doctor", doctorID)
	}
	params.Set("date", date.Format("2006-01-02"))
	params.Set("verbose", "true")

	endpoint := fmt.Sprintf("%s/appointments?%s", c.baseURL, params.Encode())

	var all []AppointmentRecord
	for endpoint != "" {
		var p page[AppointmentRecord]
		if err := c.getJSON(ctx, endpoint, &p); err != nil {
			return nil, err
		}
		all = append(all, p.Results...)
		endpoint = p.Next
	}
	return all, nil
}

// UpdateAppointmentStatus pushes a status change upstream.
// PATCH /appointments/{id}
func (c *Client) UpdateAppointmentStatus(ctx context.Context, id int64, status string) error {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(map[string]string{"status": status})
	if err != nil {
		return fmt.Errorf("drchrono: marshal status update: %w", err)
	}

	endpoint := fmt.Sprintf("%s/appointments/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("drchrono: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("drchrono: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("drchrono: update status %d failed (status %d): %s", id, resp.StatusCode, string(payload))
	}
	return nil
}

// CurrentDoctor returns the practice's doctor. Hackathon-grade accounts hold
// a single doctor; when several exist the first listed wins unless doctorID
// selects one explicitly.
// GET /doctors
func (c *Client) CurrentDoctor(ctx context.Context, doctorID string) (*DoctorRecord, error) {
	var p page[DoctorRecord]
	if err := c.getJSON(ctx, c.baseURL+"/doctors", &p); err != nil {
		return nil, err
	}
	if len(p.Results) == 0 {
		return nil, ErrNoDoctor
	}
	if doctorID != "" {
		for i := range p.Results {
			if fmt.Sprintf("%d", p.Results[i].ID) == doctorID {
				return &p.Results[i], nil
			}
		}
		return nil, fmt.Errorf("drchrono: doctor %s not on account: %w", doctorID, ErrNoDoctor)
	}
	return &p.Results[0], nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("drchrono: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("drchrono: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("drchrono: API error (status %d): %s", resp.StatusCode, string(payload))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("drchrono: decode response: %w", err)
	}
	return nil
}
