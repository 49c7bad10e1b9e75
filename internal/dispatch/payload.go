// Package dispatch provides the typed webhook payload, the handler
// interface implemented by the intent modules, and the registry that
// routes each turn to its handler.
package dispatch

import (
	"strings"

	"github.com/lnmiit-dev/campusbot-go/internal/dialog"
)

// WebhookRequest is the inbound fulfillment payload from the dialog
// engine.
type WebhookRequest struct {
	QueryResult QueryResult `json:"queryResult"`
	Session     string      `json:"session"`
}

// QueryResult carries the resolved intent, its parameters, and the
// caller-supplied output contexts for one turn.
type QueryResult struct {
	Intent         Intent           `json:"intent"`
	Parameters     map[string]any   `json:"parameters"`
	OutputContexts []dialog.Context `json:"outputContexts"`
	QueryText      string           `json:"queryText"`
}

// Intent identifies the resolved intent by display name.
type Intent struct {
	DisplayName string `json:"displayName"`
}

// WebhookResponse is the fulfillment reply returned to the dialog
// engine.
type WebhookResponse struct {
	FulfillmentText     string               `json:"fulfillmentText"`
	OutputContexts      []dialog.Context     `json:"outputContexts,omitempty"`
	FulfillmentMessages []FulfillmentMessage `json:"fulfillmentMessages,omitempty"`
}

// FulfillmentMessage is one rich reply element. Only the card form is
// used here.
type FulfillmentMessage struct {
	Card *Card `json:"card,omitempty"`
}

// Card is a rich card with action buttons.
type Card struct {
	Title    string       `json:"title"`
	Subtitle string       `json:"subtitle,omitempty"`
	Buttons  []CardButton `json:"buttons,omitempty"`
}

// CardButton is one action link on a card.
type CardButton struct {
	Text     string `json:"text"`
	Postback string `json:"postback"`
}

// SessionID extracts the bare session id from the full session path
// ("projects/x/agent/sessions/<id>" or any path ending in the id).
func (r *WebhookRequest) SessionID() string {
	if idx := strings.LastIndex(r.Session, "/"); idx >= 0 {
		return r.Session[idx+1:]
	}
	return r.Session
}

// StringParam returns the named parameter as a trimmed string. List
// values collapse to their first element.
func (q *QueryResult) StringParam(key string) string {
	v, ok := q.Parameters[key]
	if !ok {
		return ""
	}

	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case []any:
		if len(val) > 0 {
			if s, ok := val[0].(string); ok {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}
