// Package papers handles the research paper search intent against the
// institute's digital repository.
package papers

import (
	"context"
	"time"

	"github.com/lnmiit-dev/campusbot-go/internal/dispatch"
	"github.com/lnmiit-dev/campusbot-go/internal/logger"
	"github.com/lnmiit-dev/campusbot-go/internal/metrics"
	"github.com/lnmiit-dev/campusbot-go/internal/scraper"
	"github.com/lnmiit-dev/campusbot-go/internal/scraper/lnm"
)

// IntentName is the intent this handler owns.
const IntentName = "SearchPapers"

const (
	missingTitleText = "Please provide a paper topic to search for."
	noResultsText    = "No papers found matching your search."
	apologyText      = "Sorry, the paper repository is not reachable right now. Please try again later."
)

// Handler serves paper searches.
type Handler struct {
	client  *scraper.Client
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// New creates the papers handler.
func New(client *scraper.Client, log *logger.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		client:  client,
		logger:  log.WithModule("papers"),
		metrics: m,
	}
}

// Intents implements dispatch.Handler.
func (h *Handler) Intents() []string {
	return []string{IntentName}
}

// Handle searches the repository and builds a card per paper, each with
// a View link and, when the repository exposes one, a Download link.
func (h *Handler) Handle(ctx context.Context, turn *dispatch.Turn) *dispatch.Reply {
	topic := turn.Param("paper_title")
	if topic == "" {
		return dispatch.TextReply(missingTitleText)
	}

	start := time.Now()
	papers, err := lnm.SearchPapers(ctx, h.client, topic)
	h.recordCall(start, err)

	if err != nil {
		h.logger.WithError(err).WithField("topic", topic).Error("Paper search failed")
		return dispatch.TextReply(apologyText)
	}
	if len(papers) == 0 {
		return dispatch.TextReply(noResultsText)
	}

	messages := make([]dispatch.FulfillmentMessage, 0, len(papers))
	for _, p := range papers {
		buttons := []dispatch.CardButton{
			{Text: "View", Postback: p.URL},
		}
		if p.DownloadURL != "" {
			buttons = append(buttons, dispatch.CardButton{Text: "Download", Postback: p.DownloadURL})
		}
		messages = append(messages, dispatch.FulfillmentMessage{
			Card: &dispatch.Card{
				Title:    p.Title,
				Subtitle: p.Authors + " (" + p.Date + ")",
				Buttons:  buttons,
			},
		})
	}

	return &dispatch.Reply{
		Text:     lnm.FormatPaperSummary(papers, topic),
		Messages: messages,
	}
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
