// Package library handles the book search and disambiguation sub-flow:
// catalog search, selection from a multi-result listing, and direct
// record lookup by catalog id when a title is ambiguous.
package library

import (
	"context"
	"time"

	"github.com/lnmiit-dev/campusbot-go/internal/dialog"
	"github.com/lnmiit-dev/campusbot-go/internal/dispatch"
	"github.com/lnmiit-dev/campusbot-go/internal/logger"
	"github.com/lnmiit-dev/campusbot-go/internal/metrics"
	"github.com/lnmiit-dev/campusbot-go/internal/scraper/lnm"
)

// Intents owned by this handler.
const (
	SearchIntentName = "SearchLibraryBooks"
	SelectIntentName = "SelectBookFromList"
)

// Sub-flow context names. The selection context carries the original
// query and the rendered result list for the follow-up turn; both
// contexts live exactly one turn.
const (
	SelectionContextName = "awaiting_selection"
	FollowupContextName  = "SearchLibraryBooks-followup"
)

const (
	missingTitleText   = "Please provide a book title to search for."
	noResultsText      = "No matching books found."
	apologyText        = "Sorry, the library catalog is not reachable right now. Please try again later."
	multipleFoundIntro = "I found multiple books matching your search. Please pick one by title, or by catalog number if the same title appears twice:"
	duplicateTitleText = "That title matches more than one catalog record. Please pick one by catalog number:"
)

// Handler serves the library sub-flow.
type Handler struct {
	catalog *lnm.Catalog
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// New creates the library handler.
func New(catalog *lnm.Catalog, log *logger.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		catalog: catalog,
		logger:  log.WithModule("library"),
		metrics: m,
	}
}

// Intents implements dispatch.Handler.
func (h *Handler) Intents() []string {
	return []string{SearchIntentName, SelectIntentName}
}

// Handle routes between the search and selection turns.
func (h *Handler) Handle(ctx context.Context, turn *dispatch.Turn) *dispatch.Reply {
	if turn.Intent == SearchIntentName {
		return h.handleSearch(ctx, turn)
	}
	return h.handleSelect(ctx, turn)
}

// handleSearch queries the catalog and branches on the result shape.
// Single or empty results close both sub-flow contexts; a multi-result
// listing opens them for one selection turn.
func (h *Handler) handleSearch(ctx context.Context, turn *dispatch.Turn) *dispatch.Reply {
	title := turn.Param("book_title")
	if title == "" {
		return dispatch.TextReply(missingTitleText)
	}

	start := time.Now()
	result, err := h.catalog.SearchBooks(ctx, title)
	h.recordCall(start, err)

	if err != nil {
		h.logger.WithError(err).WithField("title", title).Error("Library search failed")
		return dispatch.TextReply(apologyText)
	}

	closed := []dialog.Context{
		dialog.Close(turn.Session, FollowupContextName),
		dialog.Close(turn.Session, SelectionContextName),
	}

	switch result.Kind {
	case lnm.BookSingle:
		return &dispatch.Reply{
			Text:     lnm.FormatBookDetail(result.Detail),
			Contexts: closed,
		}

	case lnm.BookNone:
		return &dispatch.Reply{
			Text:     noResultsText,
			Contexts: closed,
		}

	default:
		listing := lnm.FormatBookList(result.Items, multipleFoundIntro)
		return &dispatch.Reply{
			Text: listing,
			Contexts: []dialog.Context{
				dialog.Open(turn.Session, SelectionContextName, 1, map[string]any{
					"original_query": title,
					"search_results": listing,
				}),
				dialog.Open(turn.Session, FollowupContextName, 1, nil),
			},
		}
	}
}

// handleSelect resolves a selection from the listing, by title alone or
// by title plus catalog id when the title is duplicated. A title-only
// pick that still matches several records is an ambiguity, not a
// failure, and prompts for a catalog-number pick.
func (h *Handler) handleSelect(ctx context.Context, turn *dispatch.Turn) *dispatch.Reply {
	bookChoice := turn.Param("book_choice")
	biblioChoice := turn.Param("biblo_choice")

	if bookChoice == "" {
		return dispatch.TextReply(missingTitleText)
	}

	if biblioChoice != "" {
		start := time.Now()
		detail, err := h.catalog.BookByBiblioNumber(ctx, bookChoice, biblioChoice)
		h.recordCall(start, err)

		if err != nil {
			h.logger.WithError(err).WithField("choice", bookChoice).Error("Book detail lookup failed")
			return dispatch.TextReply(apologyText)
		}
		return dispatch.TextReply(lnm.FormatBookDetail(detail))
	}

	start := time.Now()
	result, err := h.catalog.BookByTitle(ctx, bookChoice)
	h.recordCall(start, err)

	if err != nil {
		h.logger.WithError(err).WithField("choice", bookChoice).Error("Book detail lookup failed")
		return dispatch.TextReply(apologyText)
	}

	switch result.Kind {
	case lnm.BookSingle:
		return dispatch.TextReply(lnm.FormatBookDetail(result.Detail))
	case lnm.BookMultiple:
		return dispatch.TextReply(lnm.FormatBookList(result.Items, duplicateTitleText))
	default:
		return dispatch.TextReply(noResultsText)
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
