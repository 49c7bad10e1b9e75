package dispatch

import (
	"encoding/json"
	"testing"
)

func TestSessionID(t *testing.T) {
	tests := []struct {
		session string
		want    string
	}{
		{"projects/p/agent/sessions/session_BH3_9981", "session_BH3_9981"},
		{"session_BH3_9981", "session_BH3_9981"},
		{"", ""},
	}
	for _, tt := range tests {
		req := &WebhookRequest{Session: tt.session}
		if got := req.SessionID(); got != tt.want {
			t.Errorf("SessionID(%q) = %q, want %q", tt.session, got, tt.want)
		}
	}
}

func TestStringParam(t *testing.T) {
	q := &QueryResult{Parameters: map[string]any{
		"book_title":  "  Clean Code ",
		"list_param":  []any{"first", "second"},
		"number":      42.0,
		"empty_list":  []any{},
		"not_a_value": nil,
	}}

	tests := []struct {
		key  string
		want string
	}{
		{"book_title", "Clean Code"},
		{"list_param", "first"},
		{"number", ""},
		{"empty_list", ""},
		{"not_a_value", ""},
		{"missing", ""},
	}
	for _, tt := range tests {
		if got := q.StringParam(tt.key); got != tt.want {
			t.Errorf("StringParam(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestWebhookRequestUnmarshal(t *testing.T) {
	raw := `{
		"queryResult": {
			"intent": {"displayName": "SearchLibraryBooks"},
			"parameters": {"book_title": "Clean Code"},
			"outputContexts": [
				{"name": "s/contexts/awaiting_selection", "lifespanCount": 1,
				 "parameters": {"original_query": "Clean Code"}}
			],
			"queryText": "Can you get the Clean Code"
		},
		"session": "projects/p/agent/sessions/session_BH3_9981"
	}`

	var req WebhookRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if req.QueryResult.Intent.DisplayName != "SearchLibraryBooks" {
		t.Errorf("unexpected intent %q", req.QueryResult.Intent.DisplayName)
	}
	if req.QueryResult.StringParam("book_title") != "Clean Code" {
		t.Errorf("unexpected book_title")
	}
	if req.SessionID() != "session_BH3_9981" {
		t.Errorf("unexpected session id %q", req.SessionID())
	}
	if len(req.QueryResult.OutputContexts) != 1 {
		t.Fatalf("expected 1 output context")
	}
	if req.QueryResult.OutputContexts[0].StringParam("original_query") != "Clean Code" {
		t.Errorf("context parameters lost in unmarshal")
	}
}

func TestWebhookResponseMarshalOmitsEmpty(t *testing.T) {
	resp := WebhookResponse{FulfillmentText: "hi"}
	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := `{"fulfillmentText":"hi"}`
	if string(raw) != want {
		t.Errorf("marshal = %s, want %s", raw, want)
	}
}
