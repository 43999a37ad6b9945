package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/attorneycare/server/internal/api"
	"github.com/attorneycare/server/internal/config"
	"github.com/attorneycare/server/internal/db"
	"github.com/attorneycare/server/internal/services"
	"github.com/attorneycare/server/pkg/logger"
	"github.com/attorneycare/server/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Environment, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	collector := metrics.NewCollector()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := db.Connect(ctx, cfg.Mongo)
	cancel()
	if err != nil {
		zapLogger.Fatal("Failed to connect to document store", zap.Error(err))
	}
	if err := store.EnsureIndexes(context.Background()); err != nil {
		zapLogger.Fatal("Failed to ensure indexes", zap.Error(err))
	}

	auditDB, err := db.OpenAudit(cfg.Audit)
	if err != nil {
		zapLogger.Fatal("Failed to open audit database", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.Uploads.Dir, 0o755); err != nil {
		zapLogger.Fatal("Failed to create upload directory", zap.Error(err))
	}

	authService := services.NewAuthService(store, zapLogger, collector, cfg.Auth)
	documentService := services.NewDocumentService(store, zapLogger, collector)
	clauseService := services.NewClauseService(store, zapLogger, collector)
	annotationService := services.NewAnnotationService(store, zapLogger, collector)
	caseService := services.NewCaseService(store, zapLogger, collector)
	libraryService := services.NewLibraryService(store, zapLogger)
	auditService := services.NewAuditService(auditDB, zapLogger, collector)
	notifyService := services.NewNotificationService(cfg.Notify, cfg.Production(), zapLogger)

	if err := libraryService.SeedIfEmpty(context.Background()); err != nil {
		zapLogger.Fatal("Failed to seed library", zap.Error(err))
	}

	router := api.NewRouter(api.Deps{
		Config:      cfg,
		Logger:      zapLogger,
		Metrics:     collector,
		Auth:        authService,
		Documents:   documentService,
		Clauses:     clauseService,
		Annotations: annotationService,
		Cases:       caseService,
		Library:     libraryService,
		Audit:       auditService,
		Notify:      notifyService,
	})
	router.SetupRoutes()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	go func() {
		zapLogger.Info("Starting HTTP server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server shutdown failed", zap.Error(err))
	}

	// Drain queued audit entries before closing either store.
	auditService.Close()

	if err := store.Close(context.Background()); err != nil {
		zapLogger.Error("Document store close failed", zap.Error(err))
	}
	if err := db.CloseAudit(auditDB); err != nil {
		zapLogger.Error("Audit database close failed", zap.Error(err))
	}
	zapLogger.Info("Server gracefully stopped")
}
