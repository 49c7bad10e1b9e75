// Package complaint handles hostel complaint submission and the
// role-gated complaint listing.
package complaint

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lnmiit-dev/campusbot-go/internal/dispatch"
	domerrors "github.com/lnmiit-dev/campusbot-go/internal/errors"
	"github.com/lnmiit-dev/campusbot-go/internal/logger"
	"github.com/lnmiit-dev/campusbot-go/internal/metrics"
	"github.com/lnmiit-dev/campusbot-go/internal/session"
	"github.com/lnmiit-dev/campusbot-go/internal/storage"
)

// Intents owned by this handler. The dialog engine's submission intent
// is named "Complaint - custom"; RaiseComplaint is kept as an alias for
// callers that use the plain name.
const (
	SubmitIntentName      = "Complaint - custom"
	SubmitAliasIntentName = "RaiseComplaint"
	ListIntentName        = "ViewComplaints"
)

const (
	shapeHintText = "Please describe your complaint as: issue, hostel, room number, date " +
		"(four parts separated by commas, e.g. \"water cooler broken, BH3, 210, 2024-05-01\")."
	submittedText = "Complaint saved successfully!"
	deniedText    = "Sorry, complaint listings are only available to wardens and hostel residents."
	noneText      = "No complaints on record."
	apologyText   = "Sorry, the complaint system is temporarily unavailable. Please try again later."
)

// Handler serves complaint submission and listing.
type Handler struct {
	db      *storage.DB
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// New creates the complaint handler.
func New(db *storage.DB, log *logger.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		db:      db,
		logger:  log.WithModule("complaint"),
		metrics: m,
	}
}

// Intents implements dispatch.Handler.
func (h *Handler) Intents() []string {
	return []string{SubmitIntentName, SubmitAliasIntentName, ListIntentName}
}

// Handle routes between submission and listing turns.
func (h *Handler) Handle(ctx context.Context, turn *dispatch.Turn) *dispatch.Reply {
	if turn.Intent == ListIntentName {
		return h.handleList(ctx, turn)
	}
	return h.handleSubmit(ctx, turn)
}

// handleSubmit parses the comma-separated complaint payload and inserts
// the row with the session-derived identity as filer. A malformed
// payload gets a corrective prompt describing the expected shape.
func (h *Handler) handleSubmit(ctx context.Context, turn *dispatch.Turn) *dispatch.Reply {
	payload := turn.Param("complaint_details")
	if payload == "" {
		payload = strings.TrimSpace(turn.Query.QueryText)
	}

	parts := strings.Split(payload, ",")
	if len(parts) != 4 {
		return dispatch.TextReply(shapeHintText)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return dispatch.TextReply(shapeHintText)
		}
	}

	c := &storage.Complaint{
		Issue:  parts[0],
		Hostel: strings.ToUpper(parts[1]),
		RoomNo: parts[2],
		Date:   parts[3],
		RollNo: turn.Identity.DisplayName,
	}

	start := time.Now()
	err := h.db.InsertComplaint(ctx, c)
	h.recordCall(start, err)

	if err != nil {
		h.logger.WithError(err).Error("Failed to insert complaint")
		return dispatch.TextReply(apologyText)
	}

	return dispatch.TextReply(submittedText)
}

// handleList returns complaints scoped by the session-derived role:
// wardens see everything, a hostel-block role sees only its own block,
// anyone else is denied.
func (h *Handler) handleList(ctx context.Context, turn *dispatch.Turn) *dispatch.Reply {
	role := turn.Identity.Role

	var (
		rows []*storage.Complaint
		err  error
	)

	start := time.Now()
	switch {
	case role == session.RoleWarden:
		rows, err = h.db.ListAllComplaints(ctx)
	case session.IsHostelBlock(role):
		rows, err = h.db.ListComplaintsByHostel(ctx, role)
	default:
		h.logger.WithError(domerrors.ErrRoleDenied).WithFields(map[string]any{
			"session": turn.SessionID,
			"role":    role,
		}).Info("Complaint listing denied")
		return dispatch.TextReply(deniedText)
	}
	h.recordCall(start, err)

	if err != nil {
		h.logger.WithError(err).Error("Failed to list complaints")
		return dispatch.TextReply(apologyText)
	}
	if len(rows) == 0 {
		return dispatch.TextReply(noneText)
	}

	return dispatch.TextReply(formatComplaints(rows))
}

func formatComplaints(rows []*storage.Complaint) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d complaint(s):\n", len(rows)))
	for _, c := range rows {
		status := "open"
		if c.Solved {
			status = "solved"
		}
		sb.WriteString(fmt.Sprintf("\n#%d [%s] %s - %s room %s, %s (filed by %s)",
			c.ID, status, c.Issue, c.Hostel, c.RoomNo, c.Date, c.RollNo))
	}
	return sb.String()
}

func (h *Handler) recordCall(start time.Time, err error) {
	if h.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	h.metrics.RecordCollaboratorCall("database", status, time.Since(start).Seconds())
}
