// Package main provides the campus assistant server entry point.
package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lnmiit-dev/campusbot-go/internal/intent"
	"github.com/lnmiit-dev/campusbot-go/internal/rag"
	"github.com/lnmiit-dev/campusbot-go/internal/session"
	"github.com/lnmiit-dev/campusbot-go/internal/storage"
	"github.com/lnmiit-dev/campusbot-go/internal/webhook"
)

// setupRoutes configures all HTTP routes
func setupRoutes(
	router *gin.Engine,
	webhookHandler *webhook.Handler,
	queryHandler *webhook.QueryHandler,
	db *storage.DB,
	sessions session.Store,
	classifier *intent.Classifier,
	answerer *rag.Answerer,
	registry *prometheus.Registry,
) {
	// Liveness probe - never checks dependencies, only that the process runs
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness probe - full dependency check
	readyHandler := func(c *gin.Context) {
		if err := db.Ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   "ready",
			"database": "connected",
			"pipeline": gin.H{
				"intent_examples": classifier.Count(),
				"documents":       answerer.Count(),
			},
			"sessions": sessions.Len(),
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// Dialog engine fulfillment webhook
	router.POST("/webhook", webhookHandler.Handle)

	// Lightweight query endpoint (classify -> refine -> delegate)
	router.POST("/query", queryHandler.Handle)

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
}
