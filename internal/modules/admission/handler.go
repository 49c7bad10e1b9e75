// Package admission handles the admission-information browsing sub-flow:
// the overview intent plus section selection with fuzzy matching and an
// exit escape hatch.
package admission

import (
	"context"
	"strings"
	"time"

	"github.com/lnmiit-dev/campusbot-go/internal/dialog"
	"github.com/lnmiit-dev/campusbot-go/internal/dispatch"
	"github.com/lnmiit-dev/campusbot-go/internal/logger"
	"github.com/lnmiit-dev/campusbot-go/internal/metrics"
	"github.com/lnmiit-dev/campusbot-go/internal/scraper"
	"github.com/lnmiit-dev/campusbot-go/internal/scraper/lnm"
	"github.com/lnmiit-dev/campusbot-go/internal/stringutil"
)

// Intents owned by this handler.
const (
	OverviewIntentName = "AdmissionDetails"
	ChoiceIntentName   = "AdmissionData"
)

// FollowupContextName keeps the section browsing conversation open.
const FollowupContextName = "AdmissionDetails-followup"

// sectionMatchThreshold is the minimum similarity ratio (0-100) for a
// spoken section name to be accepted; anything below shows the menu.
const sectionMatchThreshold = 80

// exitSynonyms end the browsing sub-flow.
var exitSynonyms = []string{"exit", "quit", "done", "stop", "leave", "back", "no"}

const (
	apologyText  = "Not able to get required admission info"
	exitText     = "Exiting admission information. Type 'Admission Info' to start again."
	missingParam = "Please provide admission choice to search for."
)

// Handler serves the admission browsing sub-flow.
type Handler struct {
	client  *scraper.Client
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// New creates the admission handler.
func New(client *scraper.Client, log *logger.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		client:  client,
		logger:  log.WithModule("admission"),
		metrics: m,
	}
}

// Intents implements dispatch.Handler.
func (h *Handler) Intents() []string {
	return []string{OverviewIntentName, ChoiceIntentName}
}

// Handle routes between the overview and the section choice turns.
func (h *Handler) Handle(ctx context.Context, turn *dispatch.Turn) *dispatch.Reply {
	if turn.Intent == OverviewIntentName {
		return h.handleOverview(ctx, turn)
	}
	return h.handleChoice(ctx, turn)
}

// handleOverview opens the sub-flow with the section menu.
func (h *Handler) handleOverview(_ context.Context, _ *dispatch.Turn) *dispatch.Reply {
	return dispatch.TextReply(lnm.SectionMenu())
}

// handleChoice resolves a spoken section name. Exit synonyms close the
// follow-up context; a fuzzy match at or above the threshold scrapes
// that section; anything weaker re-shows the full menu rather than
// guessing.
func (h *Handler) handleChoice(ctx context.Context, turn *dispatch.Turn) *dispatch.Reply {
	choice := turn.Param("admission_choice")
	if choice == "" {
		return dispatch.TextReply(missingParam)
	}

	if isExit(choice) {
		return &dispatch.Reply{
			Text: exitText,
			Contexts: []dialog.Context{
				dialog.Close(turn.Session, FollowupContextName),
			},
		}
	}

	section, score := bestSection(choice)
	if score < sectionMatchThreshold {
		h.logger.WithFields(map[string]any{
			"choice": choice,
			"score":  score,
		}).Debug("Section choice below match threshold, showing menu")
		return dispatch.TextReply(lnm.SectionMenu())
	}

	start := time.Now()
	details, err := lnm.AdmissionSection(ctx, h.client, section)
	h.recordCall(start, err)

	if err != nil || details == "" {
		if err != nil {
			h.logger.WithError(err).WithField("section", section).Error("Failed to scrape admission section")
		}
		return dispatch.TextReply(apologyText)
	}

	return dispatch.TextReply(details)
}

// bestSection returns the menu section with the highest similarity
// ratio to the input. Ties keep the first-seen section.
func bestSection(choice string) (string, int) {
	best := ""
	bestScore := -1
	for _, section := range lnm.AdmissionSections {
		score := stringutil.Ratio(choice, section)
		if score > bestScore {
			best = section
			bestScore = score
		}
	}
	return best, bestScore
}

func isExit(choice string) bool {
	normalized := strings.ToLower(strings.TrimSpace(choice))
	for _, syn := range exitSynonyms {
		if normalized == syn {
			return true
		}
	}
	return false
}

func (h *Handler) recordCall(start time.Time, err error) {
	if h.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	h.metrics.RecordCollaboratorCall("scraper", status, time.Since(start).Seconds())
}
