// Package announcement handles the latest-announcements intent by
// scraping the institute events page.
package announcement

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
const IntentName = "GetLatestAnnouncement"

const apologyText = "Sorry, I couldn't retrieve the announcement."

// Handler serves the latest announcements.
type Handler struct {
	client  *scraper.Client
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// New creates the announcement handler.
func New(client *scraper.Client, log *logger.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		client:  client,
		logger:  log.WithModule("announcement"),
		metrics: m,
	}
}

// Intents implements dispatch.Handler.
func (h *Handler) Intents() []string {
	return []string{IntentName}
}

// Handle fetches and formats the latest announcements.
func (h *Handler) Handle(ctx context.Context, turn *dispatch.Turn) *dispatch.Reply {
	start := time.Now()
	items, err := lnm.LatestAnnouncements(ctx, h.client)
	h.recordCall(start, err)

	if err != nil {
		h.logger.WithError(err).Error("Failed to scrape announcements")
		return dispatch.TextReply(apologyText)
	}

	return dispatch.TextReply(lnm.FormatAnnouncements(items))
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
