// Package client talks to the remote appointment service over HTTP. It owns
// the wire-format translation between the service's combined timestamps and
// the scheduler's date/time-of-day value types.
package client

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

	"appointment-scheduler/internal/appointment"
	"appointment-scheduler/internal/timeutil"
)

// ErrConflict is returned when the service rejects a create or update with
// 409 because the requested time range overlaps an existing appointment.
var ErrConflict = errors.New("appointment time conflict")

// ErrNotFound is returned when the service reports an unknown appointment id.
var ErrNotFound = errors.New("appointment not found")

// Client is an appointment service API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the service at baseURL, e.g.
// "http://localhost:3001/api".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewWithHTTPClient creates a client with a caller-supplied http.Client,
// used by tests to point at an httptest server.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, httpClient: hc}
}

// wireAppointment is the JSON shape exchanged with the service. The
// startTime/endTime strings carry local wall-clock fields with a vestigial Z
// suffix; see timeutil.EncodeWireTime.
type wireAppointment struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Priority    string `json:"priority"`
}

func toWire(a appointment.Appointment) wireAppointment {
	priority := a.Priority
	if priority == "" {
		priority = appointment.PriorityLow
	}
	return wireAppointment{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		StartTime:   timeutil.EncodeWireTime(a.Date, a.From),
		EndTime:     timeutil.EncodeWireTime(a.Date, a.To),
		Priority:    string(priority),
	}
}

func fromWire(w wireAppointment) (appointment.Appointment, error) {
	date, from, err := timeutil.DecodeWireTime(w.StartTime)
	if err != nil {
		return appointment.Appointment{}, fmt.Errorf("decode startTime: %w", err)
	}
	_, to, err := timeutil.DecodeWireTime(w.EndTime)
	if err != nil {
		return appointment.Appointment{}, fmt.Errorf("decode endTime: %w", err)
	}
	priority := appointment.Priority(w.Priority)
	if !priority.Valid() {
		priority = appointment.PriorityLow
	}
	return appointment.Appointment{
		ID:          w.ID,
		Date:        date,
		From:        from,
		To:          to,
		Title:       w.Title,
		Description: w.Description,
		Priority:    priority,
	}, nil
}

// doRequest performs an HTTP request and returns the response body. Service
// errors map to ErrConflict (409), ErrNotFound (404) or a generic error
// carrying the status and body.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusConflict:
		return nil, ErrConflict
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// envelope mirrors the service's response wrapper; the payload sits in Data.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

func unwrap(body []byte) json.RawMessage {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 {
		return env.Data
	}
	// Plain (unwrapped) payloads pass through unchanged.
	return body
}

// List returns all appointments in the inclusive date range [start, end].
func (c *Client) List(ctx context.Context, start, end timeutil.Date) ([]appointment.Appointment, error) {
	query := url.Values{}
	query.Set("start", start.Key())
	query.Set("end", end.Key())

	data, err := c.doRequest(ctx, http.MethodGet, "/appointment?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var wires []wireAppointment
	if err := json.Unmarshal(unwrap(data), &wires); err != nil {
		return nil, fmt.Errorf("unmarshal appointments: %w", err)
	}

	appts := make([]appointment.Appointment, 0, len(wires))
	for _, w := range wires {
		a, err := fromWire(w)
		if err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	return appts, nil
}

// Create submits a new appointment and returns the stored record with its
// assigned id.
func (c *Client) Create(ctx context.Context, a appointment.Appointment) (appointment.Appointment, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/appointment", toWire(a))
	if err != nil {
		return appointment.Appointment{}, err
	}

	var w wireAppointment
	if err := json.Unmarshal(unwrap(data), &w); err != nil {
		return appointment.Appointment{}, fmt.Errorf("unmarshal appointment: %w", err)
	}
	return fromWire(w)
}

// Update replaces the appointment with the given id and returns the stored
// record.
func (c *Client) Update(ctx context.Context, id string, a appointment.Appointment) (appointment.Appointment, error) {
	wire := toWire(a)
	wire.ID = id

	data, err := c.doRequest(ctx, http.MethodPut, "/appointment/"+id, wire)
	if err != nil {
		return appointment.Appointment{}, err
	}

	var w wireAppointment
	if err := json.Unmarshal(unwrap(data), &w); err != nil {
		return appointment.Appointment{}, fmt.Errorf("unmarshal appointment: %w", err)
	}
	return fromWire(w)
}

// Delete removes the appointment with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/appointment/"+id, nil)
	return err
}
