package dispatch

import (
	"context"

	"github.com/lnmiit-dev/campusbot-go/internal/dialog"
	domerrors "github.com/lnmiit-dev/campusbot-go/internal/errors"
	"github.com/lnmiit-dev/campusbot-go/internal/logger"
	"github.com/lnmiit-dev/campusbot-go/internal/metrics"
	"github.com/lnmiit-dev/campusbot-go/internal/session"
)

// Turn carries everything a handler needs for one webhook turn.
type Turn struct {
	// Intent is the resolved intent display name.
	Intent string

	// Query is the typed query result (parameters, contexts, text).
	Query *QueryResult

	// Session is the full session path from the payload.
	Session string

	// SessionID is the bare session id.
	SessionID string

	// Identity is derived from the session id.
	Identity session.Identity
}

// Param returns the named parameter as a trimmed string.
func (t *Turn) Param(key string) string {
	return t.Query.StringParam(key)
}

// FindContext returns the named active context from the caller-supplied
// output contexts.
func (t *Turn) FindContext(name string) (dialog.Context, bool) {
	return dialog.Find(t.Query.OutputContexts, name)
}

// Reply is a handler's structured reply for one turn.
type Reply struct {
	Text     string
	Contexts []dialog.Context
	Messages []FulfillmentMessage
}

// TextReply builds a plain text reply.
func TextReply(text string) *Reply {
	return &Reply{Text: text}
}

// Handler is implemented by each intent module. A handler owns one or
// more intent names and is terminal: it always returns a user-facing
// reply, never an error.
type Handler interface {
	// Intents returns the intent display names this handler owns.
	Intents() []string

	// Handle processes one turn for an owned intent.
	Handle(ctx context.Context, turn *Turn) *Reply
}

// UnhandledReplyText answers intents no handler owns.
const UnhandledReplyText = "Unhandled intent."

// Registry routes turns to handlers by intent name.
type Registry struct {
	handlers map[string]Handler
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

// NewRegistry creates an empty registry.
func NewRegistry(log *logger.Logger, m *metrics.Metrics) *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		logger:   log,
		metrics:  m,
	}
}

// Register adds a handler for every intent it owns. Later registrations
// win on duplicate intent names.
func (r *Registry) Register(h Handler) {
	for _, name := range h.Intents() {
		if _, exists := r.handlers[name]; exists {
			r.logger.WithField("intent", name).Warn("Duplicate handler registration, overriding")
		}
		r.handlers[name] = h
	}
}

// Dispatch routes the turn to its handler and returns the reply. An
// unowned intent gets the generic unhandled reply.
func (r *Registry) Dispatch(ctx context.Context, turn *Turn) *Reply {
	h, ok := r.handlers[turn.Intent]
	if !ok {
		r.logger.WithError(domerrors.ErrUnknownIntent).WithFields(map[string]any{
			"intent":  turn.Intent,
			"session": turn.SessionID,
		}).Info("No handler for intent")
		return TextReply(UnhandledReplyText)
	}

	reply := h.Handle(ctx, turn)
	if reply == nil {
		reply = TextReply(UnhandledReplyText)
	}

	if r.metrics != nil {
		for _, c := range reply.Contexts {
			action := "open"
			if c.LifespanCount == 0 {
				action = "close"
			}
			r.metrics.RecordContextDirective(dialog.ShortName(c.Name), action)
		}
	}

	return reply
}

// Intents returns all registered intent names.
func (r *Registry) Intents() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}
