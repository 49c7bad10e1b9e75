// Package booking provides the client for the external faculty slot
// booking API.
package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	domerrors "github.com/lnmiit-dev/campusbot-go/internal/errors"
	"github.com/lnmiit-dev/campusbot-go/internal/logger"
)

// Slot is one bookable time range on a faculty member's calendar.
type Slot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Request is the confirm-booking payload. Field spellings follow the
// booking API's own JSON contract.
type Request struct {
	FacultyID  string `json:"facultyId"`
	Date       string `json:"date"`
	SlotID     string `json:"slotId,omitempty"`
	StudentUID string `json:"studentUid"`
	Duration   int    `json:"duration"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
}

// Client talks to the booking API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a booking API client.
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

// listSlotsResponse is the list-slots endpoint response body.
type listSlotsResponse struct {
	Slots []Slot `json:"slots"`
}

// ListSlots returns the available slots for the faculty member on the
// given calendar day (date in YYYY-MM-DD form).
func (c *Client) ListSlots(ctx context.Context, facultyID, date string) ([]Slot, error) {
	endpoint := fmt.Sprintf("%s/slots?facultyId=%s&date=%s",
		c.baseURL, url.QueryEscape(facultyID), url.QueryEscape(date))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("booking API unreachable: %w", domerrors.ErrServiceUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("booking API returned HTTP %d: %w", resp.StatusCode, domerrors.ErrServiceUnavailable)
	}

	var body listSlotsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode slots response: %w", err)
	}

	c.logger.WithFields(map[string]any{
		"faculty_id": facultyID,
		"date":       date,
		"slots":      len(body.Slots),
	}).Debug("Listed available slots")

	return body.Slots, nil
}

// bookResponse is the confirm endpoint response body.
type bookResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Book confirms a slot booking. A conflicting slot (HTTP 409) returns
// ErrBookingConflict with the API's error text.
func (c *Client) Book(ctx context.Context, r Request) error {
	jsonBody, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal booking request: %w", err)
	}

	endpoint := c.baseURL + "/slots/book"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("booking API unreachable: %w", domerrors.ErrServiceUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		return nil

	case resp.StatusCode == http.StatusConflict:
		var body bookResponse
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(raw, &body)
		detail := body.Error
		if detail == "" {
			detail = "slot is no longer available"
		}
		return fmt.Errorf("%s: %w", detail, domerrors.ErrBookingConflict)

	default:
		return fmt.Errorf("booking API returned HTTP %d: %w", resp.StatusCode, domerrors.ErrServiceUnavailable)
	}
}
