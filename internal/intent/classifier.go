// Package intent provides semantic intent classification over a
// chromem-go vector collection of example utterances.
package intent

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/lnmiit-dev/campusbot-go/internal/logger"
)

// CollectionName is the name of the intent collection in chromem
const CollectionName = "intents"

// Example is a labeled utterance used to seed the intent index.
type Example struct {
	Text  string
	Label string
}

// Classifier performs nearest-neighbor intent classification.
// A nil Classifier is valid and classifies nothing (feature disabled).
type Classifier struct {
	db            *chromem.DB
	collection    *chromem.Collection
	embeddingFunc chromem.EmbeddingFunc
	logger        *logger.Logger
	mu            sync.RWMutex
}

// NewClassifier creates the intent classifier backed by a persistent
// chromem collection under persistDir.
// Returns nil if embeddingFunc is nil (classification disabled).
func NewClassifier(persistDir string, embeddingFunc chromem.EmbeddingFunc, log *logger.Logger) (*Classifier, error) {
	if embeddingFunc == nil {
		log.Info("Embedding function not configured, intent classification disabled")
		return nil, nil
	}

	chromemPath := filepath.Join(persistDir, "chromem", "intents")

	db, err := chromem.NewPersistentDB(chromemPath, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create chromem database: %w", err)
	}

	return &Classifier{
		db:            db,
		embeddingFunc: embeddingFunc,
		logger:        log,
	}, nil
}

// Initialize gets or creates the intent collection and seeds it with
// the given examples when the collection is empty.
func (c *Classifier) Initialize(ctx context.Context, examples []Example) error {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	collection, err := c.db.GetOrCreateCollection(CollectionName, nil, c.embeddingFunc)
	if err != nil {
		return fmt.Errorf("failed to get/create collection: %w", err)
	}
	c.collection = collection

	existingCount := collection.Count()
	if existingCount > 0 {
		c.logger.WithField("count", existingCount).Info("Loaded existing intent embeddings from disk")
		return nil
	}

	if len(examples) == 0 {
		return nil
	}

	docs := make([]chromem.Document, 0, len(examples))
	for i, ex := range examples {
		docs = append(docs, chromem.Document{
			ID:      fmt.Sprintf("%s_%d", ex.Label, i),
			Content: ex.Text,
			Metadata: map[string]string{
				"intent": ex.Label,
			},
		})
	}

	if err := collection.AddDocuments(ctx, docs, 4); err != nil {
		return fmt.Errorf("failed to add intent examples: %w", err)
	}

	c.logger.WithField("count", len(docs)).Info("Indexed intent examples")
	return nil
}

// Classify returns the intent label of the nearest example when its
// cosine similarity meets the threshold. ok is false when nothing
// clears the threshold or the classifier is disabled.
func (c *Classifier) Classify(ctx context.Context, utterance string, threshold float32) (string, bool, error) {
	if c == nil {
		return "", false, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.collection == nil || c.collection.Count() == 0 {
		return "", false, nil
	}

	results, err := c.collection.Query(ctx, utterance, 1, nil, nil)
	if err != nil {
		return "", false, fmt.Errorf("failed to query intent collection: %w", err)
	}

	if len(results) == 0 {
		return "", false, nil
	}

	top := results[0]
	if top.Similarity < threshold {
		c.logger.WithFields(map[string]any{
			"similarity": top.Similarity,
			"threshold":  threshold,
		}).Debug("Best intent match below threshold")
		return "", false, nil
	}

	label := top.Metadata["intent"]
	if label == "" {
		return "", false, nil
	}

	return label, true, nil
}

// Count returns the number of indexed examples.
func (c *Classifier) Count() int {
	if c == nil {
		return 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.collection == nil {
		return 0
	}
	return c.collection.Count()
}

// IsEnabled returns true if the classifier is ready to serve queries.
func (c *Classifier) IsEnabled() bool {
	if c == nil {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.collection != nil
}
