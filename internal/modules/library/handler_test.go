package library

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lnmiit-dev/campusbot-go/internal/dialog"
	"github.com/lnmiit-dev/campusbot-go/internal/dispatch"
	"github.com/lnmiit-dev/campusbot-go/internal/logger"
	"github.com/lnmiit-dev/campusbot-go/internal/scraper"
	"github.com/lnmiit-dev/campusbot-go/internal/scraper/lnm"
)

const listingPageHTML = `
<html><body>
<table class="table-striped">
  <tr>
    <td><input class="cb" value="101"><a class="title">Clean Code</a><ul class="author">Robert Martin</ul></td>
  </tr>
  <tr>
    <td><input class="cb" value="102"><a class="title">Clean Code</a><ul class="author">Robert Martin</ul></td>
  </tr>
</table>
</body></html>`

const recordPageHTML = `
<html><body>
<div class="record">
  <h1 class="title">Clean Code</h1>
  <span property="name">Robert Martin</span>
  <span property="isbn">9780132350884</span>
</div>
<table><tr><td class="call_no">005.1 MAR</td></tr></table>
</body></html>`

const emptyPageHTML = `<html><body><p>No results found!</p></body></html>`

// newHandler serves the supplied OPAC pages from a local server: the
// search path answers searchPage, the detail path answers detailPage.
func newHandler(t *testing.T, searchPage, detailPage string) *Handler {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if r.URL.Path == "/cgi-bin/koha/opac-detail.pl" {
			_, _ = w.Write([]byte(detailPage))
			return
		}
		_, _ = w.Write([]byte(searchPage))
	}))
	t.Cleanup(server.Close)

	catalog := lnm.NewCatalog(scraper.NewClient(5*time.Second, 0), server.URL)
	return New(catalog, logger.New("error"), nil)
}

func newTurn(intentName string, params map[string]any) *dispatch.Turn {
	return &dispatch.Turn{
		Intent:    intentName,
		Query:     &dispatch.QueryResult{Parameters: params},
		Session:   "projects/p/agent/sessions/s1",
		SessionID: "s1",
	}
}

func TestSearchMultipleOpensSelectionContext(t *testing.T) {
	h := newHandler(t, listingPageHTML, recordPageHTML)

	reply := h.Handle(context.Background(),
		newTurn(SearchIntentName, map[string]any{"book_title": "Clean Code"}))

	assert.Contains(t, reply.Text, multipleFoundIntro)
	assert.Contains(t, reply.Text, "Clean Code by Robert Martin")

	require.Len(t, reply.Contexts, 2)

	selection := reply.Contexts[0]
	assert.Equal(t, SelectionContextName, dialog.ShortName(selection.Name))
	assert.Equal(t, 1, selection.LifespanCount)
	assert.Equal(t, "Clean Code", selection.Parameters["original_query"])
	assert.Equal(t, reply.Text, selection.Parameters["search_results"])

	followup := reply.Contexts[1]
	assert.Equal(t, FollowupContextName, dialog.ShortName(followup.Name))
	assert.Equal(t, 1, followup.LifespanCount)
	assert.Nil(t, followup.Parameters)
}

func TestSearchSingleClosesBothContexts(t *testing.T) {
	h := newHandler(t, recordPageHTML, recordPageHTML)

	reply := h.Handle(context.Background(),
		newTurn(SearchIntentName, map[string]any{"book_title": "Clean Code"}))

	assert.Contains(t, reply.Text, "Title: Clean Code")
	assert.Contains(t, reply.Text, "Call Number: 005.1 MAR")

	require.Len(t, reply.Contexts, 2)
	for _, c := range reply.Contexts {
		assert.Equal(t, 0, c.LifespanCount)
		assert.Nil(t, c.Parameters)
	}
	assert.Equal(t, FollowupContextName, dialog.ShortName(reply.Contexts[0].Name))
	assert.Equal(t, SelectionContextName, dialog.ShortName(reply.Contexts[1].Name))
}

func TestSearchNoResultsClosesBothContexts(t *testing.T) {
	h := newHandler(t, emptyPageHTML, recordPageHTML)

	reply := h.Handle(context.Background(),
		newTurn(SearchIntentName, map[string]any{"book_title": "Nonexistent"}))

	assert.Equal(t, noResultsText, reply.Text)
	require.Len(t, reply.Contexts, 2)
	for _, c := range reply.Contexts {
		assert.Equal(t, 0, c.LifespanCount)
		assert.Nil(t, c.Parameters)
	}
}

func TestSearchMissingTitle(t *testing.T) {
	h := newHandler(t, emptyPageHTML, recordPageHTML)

	reply := h.Handle(context.Background(), newTurn(SearchIntentName, map[string]any{}))
	assert.Equal(t, missingTitleText, reply.Text)
	assert.Empty(t, reply.Contexts)
}

func TestSelectByTitle(t *testing.T) {
	h := newHandler(t, recordPageHTML, recordPageHTML)

	reply := h.Handle(context.Background(),
		newTurn(SelectIntentName, map[string]any{"book_choice": "Clean Code"}))

	assert.Contains(t, reply.Text, "Title: Clean Code")
	assert.Contains(t, reply.Text, "ISBN: 9780132350884")
}

func TestSelectDuplicatedTitlePromptsForCatalogNumber(t *testing.T) {
	h := newHandler(t, listingPageHTML, recordPageHTML)

	reply := h.Handle(context.Background(),
		newTurn(SelectIntentName, map[string]any{"book_choice": "Clean Code"}))

	assert.Contains(t, reply.Text, duplicateTitleText)
	assert.Contains(t, reply.Text, "catalog #101")
	assert.Contains(t, reply.Text, "catalog #102")
	assert.NotEqual(t, apologyText, reply.Text)
}

func TestSelectByBiblioNumber(t *testing.T) {
	h := newHandler(t, listingPageHTML, recordPageHTML)

	reply := h.Handle(context.Background(), newTurn(SelectIntentName, map[string]any{
		"book_choice":  "Clean Code",
		"biblo_choice": "101",
	}))

	assert.Contains(t, reply.Text, "Title: Clean Code")
}

func TestSelectNoMatch(t *testing.T) {
	h := newHandler(t, emptyPageHTML, recordPageHTML)

	reply := h.Handle(context.Background(),
		newTurn(SelectIntentName, map[string]any{"book_choice": "Nonexistent"}))

	assert.Equal(t, noResultsText, reply.Text)
}

func TestSelectMissingChoice(t *testing.T) {
	h := newHandler(t, emptyPageHTML, recordPageHTML)

	reply := h.Handle(context.Background(),
		newTurn(SelectIntentName, map[string]any{"biblo_choice": "101"}))
	assert.Equal(t, missingTitleText, reply.Text)
}

func TestIntentsCoverBothTurns(t *testing.T) {
	h := newHandler(t, emptyPageHTML, recordPageHTML)
	assert.ElementsMatch(t, []string{SearchIntentName, SelectIntentName}, h.Intents())
}
