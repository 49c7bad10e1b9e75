package rag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lnmiit-dev/campusbot-go/internal/logger"
)

func TestNilAnswererIsDisabled(t *testing.T) {
	var a *Answerer

	assert.False(t, a.IsEnabled())
	assert.Zero(t, a.Count())
	assert.NoError(t, a.Initialize(context.Background(), DefaultDocuments()))

	_, err := a.Answer(context.Background(), "where is the campus")
	assert.Error(t, err)
}

func TestNewAnswererWithoutGemini(t *testing.T) {
	a, err := NewAnswerer(t.TempDir(), nil, nil, DefaultTopK, logger.New("error"))
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestDefaultDocuments(t *testing.T) {
	docs := DefaultDocuments()
	require.NotEmpty(t, docs)

	seen := map[string]bool{}
	for _, d := range docs {
		assert.NotEmpty(t, d.ID)
		assert.NotEmpty(t, d.Text)
		assert.NotEmpty(t, d.Category)
		assert.False(t, seen[d.ID], "duplicate document id %s", d.ID)
		seen[d.ID] = true
	}
}
