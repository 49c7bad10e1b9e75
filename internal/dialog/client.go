package dialog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	domerrors "github.com/lnmiit-dev/campusbot-go/internal/errors"
	"github.com/lnmiit-dev/campusbot-go/internal/logger"
)

// Client forwards refined queries to the external dialog engine.
// The engine owns intent-to-response mapping for every intent the
// dispatcher does not handle locally.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a dialog engine client with a bounded per-call timeout.
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log.WithModule("dialog"),
	}
}

// detectRequest is the wire shape sent to the dialog engine.
type detectRequest struct {
	Session      string    `json:"session"`
	QueryText    string    `json:"queryText"`
	LanguageCode string    `json:"languageCode"`
	Contexts     []Context `json:"contexts,omitempty"`
}

// detectResponse is the wire shape returned by the dialog engine.
type detectResponse struct {
	FulfillmentText string    `json:"fulfillmentText"`
	OutputContexts  []Context `json:"outputContexts"`
}

// Detect sends a refined query plus the session's prior contexts to the
// dialog engine and returns the fulfillment text with the new context list.
// The returned contexts replace the session's stored contexts wholesale.
//
// An unreachable engine is fatal to the turn: ErrServiceUnavailable is
// returned and the caller answers with a generic apology.
func (c *Client) Detect(ctx context.Context, sessionID, queryText string, priorContexts []Context) (string, []Context, error) {
	if c.baseURL == "" {
		return "", nil, fmt.Errorf("dialog engine not configured: %w", domerrors.ErrServiceUnavailable)
	}

	payload := detectRequest{
		Session:      sessionID,
		QueryText:    queryText,
		LanguageCode: "en",
		Contexts:     priorContexts,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", nil, fmt.Errorf("marshal detect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/detectIntent", bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("create detect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Error("Dialog engine unreachable")
		return "", nil, fmt.Errorf("dialog engine: %w", domerrors.ErrServiceUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithField("status", resp.StatusCode).Error("Dialog engine returned non-200")
		return "", nil, fmt.Errorf("dialog engine status %d: %w", resp.StatusCode, domerrors.ErrServiceUnavailable)
	}

	var out detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", nil, fmt.Errorf("decode detect response: %w", err)
	}

	return out.FulfillmentText, out.OutputContexts, nil
}
