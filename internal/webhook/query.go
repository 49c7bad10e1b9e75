package webhook

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lnmiit-dev/campusbot-go/internal/dialog"
	domerrors "github.com/lnmiit-dev/campusbot-go/internal/errors"
	"github.com/lnmiit-dev/campusbot-go/internal/intent"
	"github.com/lnmiit-dev/campusbot-go/internal/logger"
	"github.com/lnmiit-dev/campusbot-go/internal/metrics"
	"github.com/lnmiit-dev/campusbot-go/internal/refine"
	"github.com/lnmiit-dev/campusbot-go/internal/session"
)

const genericApology = "Sorry, something went wrong while handling your message. Please try again."

// QueryRequest is the lightweight query endpoint payload.
type QueryRequest struct {
	Query     string `json:"query" binding:"required"`
	SessionID string `json:"session_id"`
}

// QueryResponse is the lightweight query endpoint reply.
type QueryResponse struct {
	Reply string `json:"reply"`
}

// QueryHandler serves the classify-refine-delegate pipeline.
type QueryHandler struct {
	classifier *intent.Classifier
	refiner    *refine.Refiner
	dialog     *dialog.Client
	sessions   session.Store
	threshold  float32
	metrics    *metrics.Metrics
	logger     *logger.Logger
}

// NewQueryHandler creates the query pipeline handler.
func NewQueryHandler(
	classifier *intent.Classifier,
	refiner *refine.Refiner,
	dialogClient *dialog.Client,
	sessions session.Store,
	threshold float32,
	m *metrics.Metrics,
	log *logger.Logger,
) *QueryHandler {
	return &QueryHandler{
		classifier: classifier,
		refiner:    refiner,
		dialog:     dialogClient,
		sessions:   sessions,
		threshold:  threshold,
		metrics:    m,
		logger:     log.WithModule("query"),
	}
}

// Handle runs one turn of the query pipeline: classify the utterance,
// refine it (or answer it locally via retrieval), delegate to the
// dialog engine, and store the returned contexts for the next turn.
func (h *QueryHandler) Handle(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		verr := domerrors.NewValidationError("query", "query is required")
		h.logger.WithError(verr).Info("Rejected malformed query request")
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	ctx := c.Request.Context()

	// Classification failure counts as no confident match; the turn
	// proceeds with phrase-table and raw-utterance fallbacks.
	label, matched, err := h.classifier.Classify(ctx, req.Query, h.threshold)
	switch {
	case err != nil:
		h.logger.WithError(err).Warn("Intent classification failed")
		h.recordClassification("unavailable")
	case matched:
		h.recordClassification("matched")
	default:
		h.recordClassification("below_threshold")
	}

	priorContexts := h.sessions.Get(sessionID)
	hasOpenContext := len(priorContexts) > 0

	result := h.refiner.Refine(ctx, label, req.Query, hasOpenContext)
	if result.Answered {
		h.recordQueryPath("retrieval")
		c.JSON(http.StatusOK, QueryResponse{Reply: result.Answer})
		return
	}

	if hasOpenContext {
		h.recordQueryPath("open_context")
	} else {
		h.recordQueryPath("dialog")
	}

	fulfillment, newContexts, err := h.dialog.Detect(ctx, sessionID, result.Query, priorContexts)
	if err != nil {
		h.logger.WithError(err).WithField("session", sessionID).Error("Dialog engine unreachable")
		c.JSON(http.StatusOK, QueryResponse{Reply: genericApology})
		return
	}

	// The engine's context list replaces the stored one wholesale.
	h.sessions.Put(sessionID, newContexts)
	if h.metrics != nil {
		h.metrics.SetSessionStoreSize(h.sessions.Len())
	}

	c.JSON(http.StatusOK, QueryResponse{Reply: fulfillment})
}

func (h *QueryHandler) recordClassification(outcome string) {
	if h.metrics != nil {
		h.metrics.RecordClassification(outcome)
	}
}

func (h *QueryHandler) recordQueryPath(path string) {
	if h.metrics != nil {
		h.metrics.RecordQueryTurn(path)
	}
}
