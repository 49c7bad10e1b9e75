package admission

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lnmiit-dev/campusbot-go/internal/dialog"
	"github.com/lnmiit-dev/campusbot-go/internal/dispatch"
	"github.com/lnmiit-dev/campusbot-go/internal/logger"
	"github.com/lnmiit-dev/campusbot-go/internal/scraper/lnm"
	"github.com/lnmiit-dev/campusbot-go/internal/session"
)

func newTestHandler() *Handler {
	return New(nil, logger.New("error"), nil)
}

func newChoiceTurn(choice string) *dispatch.Turn {
	return &dispatch.Turn{
		Intent: ChoiceIntentName,
		Query: &dispatch.QueryResult{
			Parameters: map[string]any{"admission_choice": choice},
		},
		Session:   "projects/p/agent/sessions/session_21UCS150_1",
		SessionID: "session_21UCS150_1",
		Identity:  session.Derive("session_21UCS150_1"),
	}
}

func TestOverviewShowsMenu(t *testing.T) {
	h := newTestHandler()
	turn := newChoiceTurn("")
	turn.Intent = OverviewIntentName

	reply := h.Handle(context.Background(), turn)
	assert.Equal(t, lnm.SectionMenu(), reply.Text)
}

func TestBestSection(t *testing.T) {
	tests := []struct {
		name        string
		choice      string
		wantSection string
		aboveThresh bool
	}{
		{"exact match", "Fee Structure", "Fee Structure", true},
		{"typo still matches", "Fee Structre", "Fee Structure", true},
		{"case and spacing ignored", "fee   structure", "Fee Structure", true},
		{"partial word", "scholarship", "Scholarships", true},
		{"unrelated input below threshold", "pizza delivery", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			section, score := bestSection(tt.choice)
			if tt.aboveThresh {
				assert.Equal(t, tt.wantSection, section)
				assert.GreaterOrEqual(t, score, sectionMatchThreshold)
			} else {
				assert.Less(t, score, sectionMatchThreshold)
			}
		})
	}
}

func TestIsExit(t *testing.T) {
	for _, word := range []string{"exit", "Exit", "  QUIT ", "done", "no"} {
		assert.True(t, isExit(word), word)
	}
	for _, word := range []string{"fee structure", "exits", ""} {
		assert.False(t, isExit(word), word)
	}
}

func TestChoiceExitClosesFollowup(t *testing.T) {
	h := newTestHandler()

	reply := h.Handle(context.Background(), newChoiceTurn("exit"))

	assert.Equal(t, exitText, reply.Text)
	if assert.Len(t, reply.Contexts, 1) {
		c := reply.Contexts[0]
		assert.Equal(t, FollowupContextName, dialog.ShortName(c.Name))
		assert.Equal(t, 0, c.LifespanCount)
	}
}

func TestChoiceBelowThresholdShowsMenu(t *testing.T) {
	h := newTestHandler()

	reply := h.Handle(context.Background(), newChoiceTurn("pizza delivery"))

	assert.Equal(t, lnm.SectionMenu(), reply.Text)
	assert.Empty(t, reply.Contexts)
}

func TestChoiceMissingParam(t *testing.T) {
	h := newTestHandler()

	reply := h.Handle(context.Background(), newChoiceTurn(""))
	assert.Equal(t, missingParam, reply.Text)
}
