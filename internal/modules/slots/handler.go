// Package slots handles the faculty meeting slot booking sub-flow:
// listing available slots for a day, then confirming one chosen slot.
package slots

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lnmiit-dev/campusbot-go/internal/booking"
	"github.com/lnmiit-dev/campusbot-go/internal/dialog"
	"github.com/lnmiit-dev/campusbot-go/internal/dispatch"
	domerrors "github.com/lnmiit-dev/campusbot-go/internal/errors"
	"github.com/lnmiit-dev/campusbot-go/internal/logger"
	"github.com/lnmiit-dev/campusbot-go/internal/metrics"
)

// Intents owned by this handler.
const (
	ViewIntentName    = "ViewAvailableSlots"
	ConfirmIntentName = "ConfirmSlotBooking"
)

// SelectionContextName keeps the faculty id and date between the view
// and confirm turns. It survives two turns so one clarification in
// between does not lose the pending selection.
const SelectionContextName = "awaiting_slot_selection"

const selectionLifespan = 2

// fallbackDuration is used when the slot range cannot be parsed.
const fallbackDuration = 30

const (
	missingParamsText = "Please tell me which faculty member and which date you'd like to meet."
	missingSlotText   = "Please tell me which slot you'd like, as a time range like 10:00-10:30."
	noSelectionText   = "I don't have a pending slot selection. Ask for available slots first."
	noSlotsText       = "No slots are available on that date. Please try another day."
	apologyText       = "Sorry, the booking service is not reachable right now. Please try again later."
	conflictText      = "That slot was just taken. Please ask for available slots again."
	bookedText        = "Your slot is booked: %s on %s, %s-%s."
)

// Handler serves the slot booking sub-flow.
type Handler struct {
	client  *booking.Client
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// New creates the slots handler.
func New(client *booking.Client, log *logger.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		client:  client,
		logger:  log.WithModule("slots"),
		metrics: m,
	}
}

// Intents implements dispatch.Handler.
func (h *Handler) Intents() []string {
	return []string{ViewIntentName, ConfirmIntentName}
}

// Handle routes between the view and confirm turns.
func (h *Handler) Handle(ctx context.Context, turn *dispatch.Turn) *dispatch.Reply {
	if turn.Intent == ViewIntentName {
		return h.handleView(ctx, turn)
	}
	return h.handleConfirm(ctx, turn)
}

// handleView lists the available slots for the faculty member on the
// requested day. The selection context opens only when at least one
// slot came back, so a confirm turn can never target an empty day.
func (h *Handler) handleView(ctx context.Context, turn *dispatch.Turn) *dispatch.Reply {
	facultyID := turn.Param("faculty_id")
	date := truncateToDay(turn.Param("date"))
	if facultyID == "" || date == "" {
		h.logger.WithError(domerrors.ErrMissingParameter).
			WithField("session", turn.SessionID).
			Info("Slot view missing faculty or date")
		return dispatch.TextReply(missingParamsText)
	}

	start := time.Now()
	slots, err := h.client.ListSlots(ctx, facultyID, date)
	h.recordCall(start, err)

	if err != nil {
		h.logger.WithError(err).WithField("faculty_id", facultyID).Error("Failed to list slots")
		return dispatch.TextReply(apologyText)
	}
	if len(slots) == 0 {
		return dispatch.TextReply(noSlotsText)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Available slots on %s:\n", date))
	for i, s := range slots {
		sb.WriteString(fmt.Sprintf("%d. %s-%s\n", i+1, s.Start, s.End))
	}
	sb.WriteString("Reply with the time range you want, e.g. " + slots[0].Start + "-" + slots[0].End)

	return &dispatch.Reply{
		Text: sb.String(),
		Contexts: []dialog.Context{
			dialog.Open(turn.Session, SelectionContextName, selectionLifespan, map[string]any{
				"faculty_id": facultyID,
				"date":       date,
			}),
		},
	}
}

// handleConfirm books the chosen slot using the pending selection
// context. The selection context always closes, whether or not the
// booking goes through, so a stale selection can never be replayed.
func (h *Handler) handleConfirm(ctx context.Context, turn *dispatch.Turn) *dispatch.Reply {
	selection, ok := turn.FindContext(SelectionContextName)
	if !ok {
		return dispatch.TextReply(noSelectionText)
	}

	facultyID := selection.StringParam("faculty_id")
	date := selection.StringParam("date")
	if facultyID == "" || date == "" {
		return dispatch.TextReply(noSelectionText)
	}

	closeSelection := []dialog.Context{
		dialog.Close(turn.Session, SelectionContextName),
	}

	slotRange := turn.Param("slot_range")
	if slotRange == "" {
		return &dispatch.Reply{Text: missingSlotText, Contexts: closeSelection}
	}

	startTime, endTime, duration := parseSlotRange(slotRange)

	req := booking.Request{
		FacultyID:  facultyID,
		Date:       date,
		StudentUID: turn.Identity.Role,
		Duration:   duration,
		StartTime:  startTime,
		EndTime:    endTime,
	}

	start := time.Now()
	err := h.client.Book(ctx, req)
	h.recordCall(start, err)

	switch {
	case err == nil:
		return &dispatch.Reply{
			Text:     fmt.Sprintf(bookedText, facultyID, date, startTime, endTime),
			Contexts: closeSelection,
		}
	case errors.Is(err, domerrors.ErrBookingConflict):
		return &dispatch.Reply{Text: conflictText, Contexts: closeSelection}
	default:
		h.logger.WithError(err).Error("Booking failed")
		return &dispatch.Reply{Text: apologyText, Contexts: closeSelection}
	}
}

// parseSlotRange parses "HH:MM-HH:MM" into start, end and whole-minute
// duration. A malformed range keeps the raw endpoints and falls back to
// a fixed duration rather than failing the turn.
func parseSlotRange(slotRange string) (startTime, endTime string, duration int) {
	parts := strings.SplitN(strings.TrimSpace(slotRange), "-", 2)
	if len(parts) != 2 {
		return slotRange, "", fallbackDuration
	}

	startTime = strings.TrimSpace(parts[0])
	endTime = strings.TrimSpace(parts[1])

	st, errS := time.Parse("15:04", startTime)
	et, errE := time.Parse("15:04", endTime)
	if errS != nil || errE != nil {
		return startTime, endTime, fallbackDuration
	}

	minutes := int(et.Sub(st).Minutes())
	if minutes <= 0 {
		return startTime, endTime, fallbackDuration
	}
	return startTime, endTime, minutes
}

// truncateToDay reduces a date-time parameter to calendar-day precision
// (YYYY-MM-DD). Inputs already in day form pass through.
func truncateToDay(date string) string {
	date = strings.TrimSpace(date)
	if idx := strings.IndexAny(date, "T "); idx > 0 {
		return date[:idx]
	}
	return date
}

func (h *Handler) recordCall(start time.Time, err error) {
	if h.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	h.metrics.RecordCollaboratorCall("booking", status, time.Since(start).Seconds())
}
