// Package faculty handles the faculty directory intents: fuzzy lookup
// by field of work, degree, person name, and exact lookup by gender.
package faculty

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lnmiit-dev/campusbot-go/internal/dispatch"
	"github.com/lnmiit-dev/campusbot-go/internal/logger"
	"github.com/lnmiit-dev/campusbot-go/internal/metrics"
	"github.com/lnmiit-dev/campusbot-go/internal/storage"
)

// Intents owned by this handler.
const (
	ByFieldIntentName  = "GetPersonByField"
	ByDegreeIntentName = "GetPeopleByDegree"
	DetailsIntentName  = "GetPersonDetails"
	ByGenderIntentName = "GetFacultyByGender"
)

const apologyText = "An error occurred while fetching data."

// Handler serves faculty directory lookups.
type Handler struct {
	db      *storage.DB
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// New creates the faculty handler.
func New(db *storage.DB, log *logger.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		db:      db,
		logger:  log.WithModule("faculty"),
		metrics: m,
	}
}

// Intents implements dispatch.Handler.
func (h *Handler) Intents() []string {
	return []string{ByFieldIntentName, ByDegreeIntentName, DetailsIntentName, ByGenderIntentName}
}

// Handle routes between the directory lookup turns.
func (h *Handler) Handle(ctx context.Context, turn *dispatch.Turn) *dispatch.Reply {
	switch turn.Intent {
	case ByFieldIntentName:
		return h.handleByField(ctx, turn)
	case ByDegreeIntentName:
		return h.handleByDegree(ctx, turn)
	case DetailsIntentName:
		return h.handleDetails(ctx, turn)
	default:
		return h.handleByGender(ctx, turn)
	}
}

// handleByField lists faculty whose field of work is similar to the
// input, confirming the closest field by name.
func (h *Handler) handleByField(ctx context.Context, turn *dispatch.Turn) *dispatch.Reply {
	field := turn.Param("fieldName")
	if field == "" {
		return dispatch.TextReply("Please provide a field name to search for.")
	}

	start := time.Now()
	matches, err := h.db.FacultyByField(ctx, field)
	h.recordCall(start, err)

	if err != nil {
		h.logger.WithError(err).Error("Faculty field lookup failed")
		return dispatch.TextReply(apologyText)
	}
	if len(matches) == 0 {
		return dispatch.TextReply(fmt.Sprintf("No faculty members found in fields similar to '%s'.", field))
	}

	return dispatch.TextReply(formatMatches(matches[0].Faculty.Field, matches))
}

// handleByDegree lists faculty whose degree is similar to the input.
func (h *Handler) handleByDegree(ctx context.Context, turn *dispatch.Turn) *dispatch.Reply {
	degree := turn.Param("DegreeName")
	if degree == "" {
		return dispatch.TextReply("Please provide a degree to search for.")
	}

	start := time.Now()
	matches, err := h.db.FacultyByDegree(ctx, degree)
	h.recordCall(start, err)

	if err != nil {
		h.logger.WithError(err).Error("Faculty degree lookup failed")
		return dispatch.TextReply(apologyText)
	}
	if len(matches) == 0 {
		return dispatch.TextReply(fmt.Sprintf("No faculty members found with degrees similar to '%s'.", degree))
	}

	return dispatch.TextReply(formatMatches(matches[0].Faculty.Degree, matches))
}

// handleDetails returns the single best name match. A weak match asks
// for confirmation instead of presenting the record as fact.
func (h *Handler) handleDetails(ctx context.Context, turn *dispatch.Turn) *dispatch.Reply {
	name := turn.Param("PersonName")
	if name == "" {
		return dispatch.TextReply("Please provide a faculty name to search for.")
	}

	start := time.Now()
	match, err := h.db.FacultyByName(ctx, name)
	h.recordCall(start, err)

	if err != nil {
		h.logger.WithError(err).Error("Faculty name lookup failed")
		return dispatch.TextReply(apologyText)
	}
	if match == nil {
		return dispatch.TextReply(fmt.Sprintf("No faculty members found matching '%s'.", name))
	}

	f := match.Faculty
	if match.Similarity <= storage.NameSimilarityFloor {
		return dispatch.TextReply(fmt.Sprintf("Did you mean %s? Please confirm.", f.FullName()))
	}

	return dispatch.TextReply(fmt.Sprintf(
		"Details for %s:\nField: %s\nDegree: %s\nGender: %s",
		f.FullName(), f.Field, f.Degree, f.Gender))
}

// handleByGender lists faculty by exact gender match.
func (h *Handler) handleByGender(ctx context.Context, turn *dispatch.Turn) *dispatch.Reply {
	gender := strings.ToLower(turn.Param("Gender"))
	if gender == "" {
		return dispatch.TextReply("Please provide a gender to search for.")
	}

	start := time.Now()
	rows, err := h.db.FacultyByGender(ctx, gender)
	h.recordCall(start, err)

	if err != nil {
		h.logger.WithError(err).Error("Faculty gender lookup failed")
		return dispatch.TextReply(apologyText)
	}
	if len(rows) == 0 {
		return dispatch.TextReply(fmt.Sprintf("No %s faculty members found.", gender))
	}

	names := make([]string, 0, len(rows))
	for _, f := range rows {
		names = append(names, f.FullName())
	}
	return dispatch.TextReply(fmt.Sprintf("%s faculty members:\n%s",
		capitalize(gender), strings.Join(names, "\n")))
}

// formatMatches renders a "Did you mean" header with the matched names.
func formatMatches(topValue string, matches []storage.FacultyMatch) string {
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.Faculty.FullName())
	}
	return fmt.Sprintf("Did you mean '%s'? Faculty members:\n%s", topValue, strings.Join(names, "\n"))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
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
