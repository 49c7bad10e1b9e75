// Package webhook provides the HTTP handlers for the two inbound
// surfaces: the dialog engine fulfillment webhook and the lightweight
// query endpoint that runs the classify-refine-delegate pipeline.
package webhook

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lnmiit-dev/campusbot-go/internal/dispatch"
	"github.com/lnmiit-dev/campusbot-go/internal/logger"
	"github.com/lnmiit-dev/campusbot-go/internal/metrics"
	"github.com/lnmiit-dev/campusbot-go/internal/session"
)

// Handler serves the fulfillment webhook.
type Handler struct {
	registry *dispatch.Registry
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

// NewHandler creates the fulfillment webhook handler.
func NewHandler(registry *dispatch.Registry, m *metrics.Metrics, log *logger.Logger) *Handler {
	return &Handler{
		registry: registry,
		metrics:  m,
		logger:   log.WithModule("webhook"),
	}
}

// Handle processes one fulfillment webhook turn: parse the payload,
// dispatch to the owning intent handler, and return the structured
// reply. The dispatcher is terminal, so this endpoint always answers
// 200 with a user-facing fulfillment text.
func (h *Handler) Handle(c *gin.Context) {
	start := time.Now()

	var req dispatch.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Malformed webhook payload")
		h.recordTurn("unknown", "invalid", start)
		c.JSON(http.StatusOK, dispatch.WebhookResponse{
			FulfillmentText: "Sorry, I couldn't understand that request.",
		})
		return
	}

	intentName := req.QueryResult.Intent.DisplayName
	sessionID := req.SessionID()

	turn := &dispatch.Turn{
		Intent:    intentName,
		Query:     &req.QueryResult,
		Session:   req.Session,
		SessionID: sessionID,
		Identity:  session.Derive(sessionID),
	}

	reply := h.registry.Dispatch(c.Request.Context(), turn)

	h.recordTurn(intentName, "success", start)
	h.logger.WithFields(map[string]any{
		"intent":   intentName,
		"session":  sessionID,
		"contexts": len(reply.Contexts),
	}).Info("Webhook turn handled")

	c.JSON(http.StatusOK, dispatch.WebhookResponse{
		FulfillmentText:     reply.Text,
		OutputContexts:      reply.Contexts,
		FulfillmentMessages: reply.Messages,
	})
}

func (h *Handler) recordTurn(intent, status string, start time.Time) {
	if h.metrics == nil {
		return
	}
	h.metrics.RecordWebhookTurn(intent, status, time.Since(start).Seconds())
}
