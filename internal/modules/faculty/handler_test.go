package faculty

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lnmiit-dev/campusbot-go/internal/dispatch"
	"github.com/lnmiit-dev/campusbot-go/internal/logger"
	"github.com/lnmiit-dev/campusbot-go/internal/session"
	"github.com/lnmiit-dev/campusbot-go/internal/storage"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	db, err := storage.NewTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	err = db.SeedFaculty(context.Background(), []*storage.Faculty{
		{FName: "Rajbir", LName: "Kaur", Field: "Machine Learning", Degree: "PhD", Gender: "female"},
		{FName: "Anil", LName: "Sharma", Field: "Computer Networks", Degree: "PhD", Gender: "male"},
		{FName: "Meera", LName: "Joshi", Field: "Quantum Physics", Degree: "MSc", Gender: "female"},
	})
	require.NoError(t, err)

	return New(db, logger.New("error"), nil)
}

func newTurn(intentName string, params map[string]any) *dispatch.Turn {
	return &dispatch.Turn{
		Intent: intentName,
		Query: &dispatch.QueryResult{
			Parameters: params,
		},
		Session:   "projects/p/agent/sessions/session_21UCS150_1",
		SessionID: "session_21UCS150_1",
		Identity:  session.Derive("session_21UCS150_1"),
	}
}

func TestByField(t *testing.T) {
	h := newTestHandler(t)

	reply := h.Handle(context.Background(),
		newTurn(ByFieldIntentName, map[string]any{"fieldName": "machine learning"}))

	assert.Contains(t, reply.Text, "Did you mean 'Machine Learning'? Faculty members:")
	assert.Contains(t, reply.Text, "Rajbir Kaur")
}

func TestByFieldNoMatch(t *testing.T) {
	h := newTestHandler(t)

	reply := h.Handle(context.Background(),
		newTurn(ByFieldIntentName, map[string]any{"fieldName": "marine biology oceanography"}))

	assert.Equal(t, "No faculty members found in fields similar to 'marine biology oceanography'.", reply.Text)
}

func TestByFieldMissingParam(t *testing.T) {
	h := newTestHandler(t)

	reply := h.Handle(context.Background(), newTurn(ByFieldIntentName, map[string]any{}))
	assert.Equal(t, "Please provide a field name to search for.", reply.Text)
}

func TestByDegree(t *testing.T) {
	h := newTestHandler(t)

	reply := h.Handle(context.Background(),
		newTurn(ByDegreeIntentName, map[string]any{"DegreeName": "phd"}))

	assert.Contains(t, reply.Text, "Did you mean 'PhD'? Faculty members:")
	assert.Contains(t, reply.Text, "Rajbir Kaur")
	assert.Contains(t, reply.Text, "Anil Sharma")
	assert.NotContains(t, reply.Text, "Meera Joshi")
}

func TestDetailsStrongMatch(t *testing.T) {
	h := newTestHandler(t)

	reply := h.Handle(context.Background(),
		newTurn(DetailsIntentName, map[string]any{"PersonName": "Rajbir Kaur"}))

	assert.Contains(t, reply.Text, "Details for Rajbir Kaur:")
	assert.Contains(t, reply.Text, "Field: Machine Learning")
	assert.Contains(t, reply.Text, "Degree: PhD")
}

func TestDetailsWeakMatchAsksForConfirmation(t *testing.T) {
	h := newTestHandler(t)

	reply := h.Handle(context.Background(),
		newTurn(DetailsIntentName, map[string]any{"PersonName": "Raj"}))

	assert.Equal(t, "Did you mean Rajbir Kaur? Please confirm.", reply.Text)
}

func TestDetailsNoMatch(t *testing.T) {
	h := newTestHandler(t)

	reply := h.Handle(context.Background(),
		newTurn(DetailsIntentName, map[string]any{"PersonName": "Zzyzx Qwfp"}))

	assert.Equal(t, "No faculty members found matching 'Zzyzx Qwfp'.", reply.Text)
}

func TestByGender(t *testing.T) {
	h := newTestHandler(t)

	reply := h.Handle(context.Background(),
		newTurn(ByGenderIntentName, map[string]any{"Gender": "Female"}))

	assert.Contains(t, reply.Text, "Female faculty members:")
	assert.Contains(t, reply.Text, "Rajbir Kaur")
	assert.Contains(t, reply.Text, "Meera Joshi")
	assert.NotContains(t, reply.Text, "Anil Sharma")
}

func TestByGenderNoMatch(t *testing.T) {
	h := newTestHandler(t)

	reply := h.Handle(context.Background(),
		newTurn(ByGenderIntentName, map[string]any{"Gender": "other"}))

	assert.Equal(t, "No other faculty members found.", reply.Text)
}
