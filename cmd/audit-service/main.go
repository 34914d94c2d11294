package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/synaptica-ai/premium-estimator/pkg/common/config"
	"github.com/synaptica-ai/premium-estimator/pkg/common/database"
	"github.com/synaptica-ai/premium-estimator/pkg/common/kafka"
	"github.com/synaptica-ai/premium-estimator/pkg/common/logger"
	"github.com/synaptica-ai/premium-estimator/pkg/common/middleware"
	"github.com/synaptica-ai/premium-estimator/pkg/common/models"
	"github.com/synaptica-ai/premium-estimator/pkg/observability/metrics"
	"github.com/synaptica-ai/premium-estimator/pkg/serving"
)

type AuditService struct {
	repo     *serving.Repository
	consumer *kafka.Consumer
}

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to connect to database")
	}
	defer database.ClosePostgres()

	repo := serving.NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to migrate prediction log tables")
	}

	service := &AuditService{
		repo:     repo,
		consumer: kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaPredictionTopic, cfg.KafkaGroupID),
	}
	defer service.consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := service.consumer.Consume(ctx, service.processEvent); err != nil && ctx.Err() == nil {
			logger.Log.WithError(err).Fatal("Consumer error")
		}
	}()

	router := mux.NewRouter()
	router.Use(middleware.Recovery, middleware.RequestID, middleware.Logging)
	router.HandleFunc("/health", healthCheck).Methods(http.MethodGet)
	router.HandleFunc("/metrics", metrics.Handler).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"addr":  server.Addr,
			"topic": cfg.KafkaPredictionTopic,
			"group": cfg.KafkaGroupID,
		}).Info("Audit Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Audit Service...")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("Audit Service stopped")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

func (s *AuditService) processEvent(ctx context.Context, event models.Event) error {
	if event.Type != serving.EventPredictionCompleted {
		logger.Log.WithField("event_type", event.Type).Debug("Ignoring event")
		return nil
	}

	entry, err := serving.LogFromEvent(event)
	if err != nil {
		logger.Log.WithError(err).WithField("event_id", event.ID).Warn("Dropping malformed prediction event")
		return nil
	}

	if err := s.repo.RecordPrediction(ctx, entry); err != nil {
		metrics.ObserveAuditFailure()
		return err
	}

	logger.Log.WithFields(map[string]interface{}{
		"event_id":   event.ID,
		"request_id": entry.RequestID,
		"estimate":   entry.Estimate,
	}).Info("Prediction recorded")
	return nil
}
