// Package main provides the campus assistant server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/lnmiit-dev/campusbot-go/internal/booking"
	"github.com/lnmiit-dev/campusbot-go/internal/config"
	"github.com/lnmiit-dev/campusbot-go/internal/dialog"
	"github.com/lnmiit-dev/campusbot-go/internal/dispatch"
	"github.com/lnmiit-dev/campusbot-go/internal/genai"
	"github.com/lnmiit-dev/campusbot-go/internal/intent"
	"github.com/lnmiit-dev/campusbot-go/internal/logger"
	"github.com/lnmiit-dev/campusbot-go/internal/metrics"
	"github.com/lnmiit-dev/campusbot-go/internal/modules/admission"
	"github.com/lnmiit-dev/campusbot-go/internal/modules/announcement"
	"github.com/lnmiit-dev/campusbot-go/internal/modules/complaint"
	"github.com/lnmiit-dev/campusbot-go/internal/modules/faculty"
	"github.com/lnmiit-dev/campusbot-go/internal/modules/library"
	"github.com/lnmiit-dev/campusbot-go/internal/modules/papers"
	"github.com/lnmiit-dev/campusbot-go/internal/modules/slots"
	"github.com/lnmiit-dev/campusbot-go/internal/rag"
	"github.com/lnmiit-dev/campusbot-go/internal/refine"
	"github.com/lnmiit-dev/campusbot-go/internal/scraper"
	"github.com/lnmiit-dev/campusbot-go/internal/scraper/lnm"
	"github.com/lnmiit-dev/campusbot-go/internal/sentry"
	"github.com/lnmiit-dev/campusbot-go/internal/session"
	"github.com/lnmiit-dev/campusbot-go/internal/storage"
	"github.com/lnmiit-dev/campusbot-go/internal/webhook"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel)
	log.Info("Starting Campus Assistant Server")

	// Initialize Sentry (optional)
	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
	}); err != nil {
		log.WithError(err).Warn("Failed to initialize Sentry, error tracking disabled")
	} else if sentry.IsEnabled() {
		defer sentry.Flush(2 * time.Second)
		log.Info("Sentry error tracking enabled")
	}

	// Connect to database with fixed retries
	db, err := storage.New(cfg.SQLitePath(), cfg.DBConnectRetries, cfg.DBConnectDelay)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer func() { _ = db.Close() }()
	log.WithField("path", cfg.SQLitePath()).Info("Database connected")

	if err := db.EnsureFacultySeed(context.Background()); err != nil {
		log.WithError(err).Warn("Failed to seed faculty directory")
	}

	// Create Prometheus registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())

	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Create scraper client
	scraperClient := scraper.NewClient(cfg.ScraperTimeout, cfg.ScraperMaxRetries)
	log.Info("Scraper client created")

	// Create booking API client
	bookingClient := booking.NewClient(cfg.BookingAPIURL, cfg.ClientTimeout, log)

	// Create dialog engine client
	dialogClient := dialog.NewClient(cfg.DialogEngineURL, cfg.ClientTimeout, log)

	// Create session context store with TTL eviction
	sessions := session.NewMemoryStore(cfg.SessionTTL, log)
	sessions.SetEvictionCallback(func(n int) {
		m.RecordSessionEvictions(n)
		m.SetSessionStoreSize(sessions.Len())
	})

	// Gemini-backed collaborators (optional - all degrade gracefully)
	var (
		classifier *intent.Classifier
		answerer   *rag.Answerer
		extractor  *genai.Extractor
	)
	if cfg.HasGemini() {
		embeddingFunc := genai.NewEmbeddingFunc(cfg.GeminiAPIKey, cfg.GeminiEmbeddingModel)

		classifier, err = intent.NewClassifier(cfg.DataDir, embeddingFunc, log)
		if err != nil {
			log.WithError(err).Warn("Failed to create intent classifier")
		} else if err := classifier.Initialize(context.Background(), intent.DefaultExamples()); err != nil {
			log.WithError(err).Warn("Failed to initialize intent index")
		} else {
			log.WithField("examples", classifier.Count()).Info("Intent classifier ready")
		}

		generator, err := genai.NewGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GeminiAnswerModel)
		if err != nil {
			log.WithError(err).Warn("Failed to create answer generator")
		}

		answerer, err = rag.NewAnswerer(cfg.DataDir, embeddingFunc, generator, cfg.RetrievalTopK, log)
		if err != nil {
			log.WithError(err).Warn("Failed to create retrieval answerer")
		} else if err := answerer.Initialize(context.Background(), rag.DefaultDocuments()); err != nil {
			log.WithError(err).Warn("Failed to initialize document index")
		} else if answerer.IsEnabled() {
			log.WithField("documents", answerer.Count()).Info("Retrieval-augmented answers ready")
		}

		extractor, err = genai.NewExtractor(context.Background(), cfg.GeminiAPIKey, cfg.GeminiExtractModel)
		if err != nil {
			log.WithError(err).Warn("Failed to create entity extractor")
		} else {
			log.Info("Entity extractor ready")
		}
	} else {
		log.Info("Gemini API key not configured, classification/extraction/retrieval disabled")
	}

	refiner := refine.NewRefiner(extractor, answerer, log)

	// Register intent handlers
	dispatchRegistry := dispatch.NewRegistry(log, m)
	dispatchRegistry.Register(announcement.New(scraperClient, log, m))
	dispatchRegistry.Register(admission.New(scraperClient, log, m))
	dispatchRegistry.Register(library.New(lnm.NewCatalog(scraperClient, ""), log, m))
	dispatchRegistry.Register(papers.New(scraperClient, log, m))
	dispatchRegistry.Register(complaint.New(db, log, m))
	dispatchRegistry.Register(slots.New(bookingClient, log, m))
	dispatchRegistry.Register(faculty.New(db, log, m))
	log.WithField("intents", len(dispatchRegistry.Intents())).Info("Intent handlers registered")

	webhookHandler := webhook.NewHandler(dispatchRegistry, m, log)
	queryHandler := webhook.NewQueryHandler(
		classifier,
		refiner,
		dialogClient,
		sessions,
		float32(cfg.IntentThreshold),
		m,
		log,
	)

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(sentryMiddleware())
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(log))

	setupRoutes(router, webhookHandler, queryHandler, db, sessions, classifier, answerer, registry)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	// Session TTL sweeper goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("Panic in session sweeper goroutine")
			}
		}()
		sessions.RunSweeper(ctx)
	}()

	// Start server in goroutine
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Cancel context to stop the sweeper
	cancel()

	goDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(goDone)
	}()

	select {
	case <-goDone:
		log.Info("All background goroutines stopped")
	case <-time.After(5 * time.Second):
		log.Warn("Timeout waiting for goroutines to stop")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	if err := extractor.Close(); err != nil {
		log.WithError(err).Error("Failed to close extractor")
	}

	if err := db.Close(); err != nil {
		log.WithError(err).Error("Failed to close database")
	}

	log.Info("Server stopped")
}
