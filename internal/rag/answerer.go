// Package rag provides Retrieval-Augmented Generation over a chromem-go
// document collection of institute information.
package rag

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/lnmiit-dev/campusbot-go/internal/genai"
	"github.com/lnmiit-dev/campusbot-go/internal/logger"
)

const (
	// DocumentCollectionName is the name of the document collection in chromem
	DocumentCollectionName = "documents"

	// DefaultTopK is the number of documents retrieved per query
	DefaultTopK = 7
)

// Document is a unit of institute reference text for the index.
type Document struct {
	ID       string
	Text     string
	Category string
}

// Answerer answers open-ended questions by retrieving the nearest
// documents and generating a grounded answer.
// A nil Answerer is valid and answers nothing (feature disabled).
type Answerer struct {
	db            *chromem.DB
	collection    *chromem.Collection
	embeddingFunc chromem.EmbeddingFunc
	generator     *genai.Generator
	topK          int
	logger        *logger.Logger
	mu            sync.RWMutex
}

// NewAnswerer creates the retrieval-augmented answerer backed by a
// persistent chromem collection under persistDir.
// Returns nil if embeddingFunc is nil or the generator is disabled.
func NewAnswerer(persistDir string, embeddingFunc chromem.EmbeddingFunc, generator *genai.Generator, topK int, log *logger.Logger) (*Answerer, error) {
	if embeddingFunc == nil || !generator.IsEnabled() {
		log.Info("Gemini not configured, retrieval-augmented answers disabled")
		return nil, nil
	}

	if topK <= 0 {
		topK = DefaultTopK
	}

	chromemPath := filepath.Join(persistDir, "chromem", "documents")

	db, err := chromem.NewPersistentDB(chromemPath, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create chromem database: %w", err)
	}

	return &Answerer{
		db:            db,
		embeddingFunc: embeddingFunc,
		generator:     generator,
		topK:          topK,
		logger:        log,
	}, nil
}

// Initialize gets or creates the document collection and seeds it with
// the given documents when the collection is empty.
func (a *Answerer) Initialize(ctx context.Context, docs []Document) error {
	if a == nil {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	collection, err := a.db.GetOrCreateCollection(DocumentCollectionName, nil, a.embeddingFunc)
	if err != nil {
		return fmt.Errorf("failed to get/create collection: %w", err)
	}
	a.collection = collection

	existingCount := collection.Count()
	if existingCount > 0 {
		a.logger.WithField("count", existingCount).Info("Loaded existing document embeddings from disk")
		return nil
	}

	if len(docs) == 0 {
		return nil
	}

	chromemDocs := make([]chromem.Document, 0, len(docs))
	for _, doc := range docs {
		if strings.TrimSpace(doc.Text) == "" {
			continue
		}
		chromemDocs = append(chromemDocs, chromem.Document{
			ID:      doc.ID,
			Content: doc.Text,
			Metadata: map[string]string{
				"category": doc.Category,
			},
		})
	}

	if len(chromemDocs) == 0 {
		return nil
	}

	if err := collection.AddDocuments(ctx, chromemDocs, 4); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}

	a.logger.WithField("count", len(chromemDocs)).Info("Indexed documents for retrieval")
	return nil
}

// Answer retrieves the nearest documents for the query and generates a
// grounded answer from them. No caching and no retries beyond the
// generation client's own; a failed turn returns the error to the
// caller, which shows a generic failure message.
func (a *Answerer) Answer(ctx context.Context, query string) (string, error) {
	if a == nil {
		return "", fmt.Errorf("retrieval-augmented answers disabled")
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.collection == nil {
		return "", fmt.Errorf("document collection not initialized")
	}

	docCount := a.collection.Count()
	if docCount == 0 {
		return "", fmt.Errorf("document collection is empty")
	}

	limit := a.topK
	if limit > docCount {
		limit = docCount
	}

	results, err := a.collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return "", fmt.Errorf("failed to query document collection: %w", err)
	}

	if len(results) == 0 {
		return "", fmt.Errorf("no documents retrieved")
	}

	// Concatenate retrieved text in rank order
	var sb strings.Builder
	for i, result := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(result.Content)
	}

	answer, err := a.generator.Answer(ctx, query, sb.String())
	if err != nil {
		return "", fmt.Errorf("answer generation failed: %w", err)
	}

	a.logger.WithFields(map[string]any{
		"retrieved":     len(results),
		"answer_length": len(answer),
	}).Debug("Generated retrieval-augmented answer")

	return answer, nil
}

// Count returns the number of indexed documents.
func (a *Answerer) Count() int {
	if a == nil {
		return 0
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.collection == nil {
		return 0
	}
	return a.collection.Count()
}

// IsEnabled returns true if the answerer is ready to serve queries.
func (a *Answerer) IsEnabled() bool {
	if a == nil {
		return false
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.collection != nil
}
