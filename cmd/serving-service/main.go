package main

import (
	"context"
	"errors"
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
	"github.com/synaptica-ai/premium-estimator/pkg/form"
	"github.com/synaptica-ai/premium-estimator/pkg/observability/metrics"
	"github.com/synaptica-ai/premium-estimator/pkg/serving"
	"github.com/synaptica-ai/premium-estimator/pkg/serving/predictor"
	"github.com/synaptica-ai/premium-estimator/pkg/storage"
)

func main() {
	logger.Init()
	cfg := config.Load()

	bundle, err := predictor.Load(cfg.ModelArtifactPath, cfg.ScalerArtifactPath)
	if err != nil {
		entry := logger.Log.WithError(err)
		var artifactErr *predictor.ArtifactError
		if errors.As(err, &artifactErr) {
			entry = entry.WithField("path", artifactErr.Path)
		}
		entry.Fatal("Failed to load model artifacts")
	}
	engine := predictor.New(bundle)

	catalog, err := form.Load(cfg.FormCatalogPath)
	if err != nil {
		logger.Log.WithError(err).WithField("path", cfg.FormCatalogPath).Fatal("Failed to load form catalog")
	}

	opts := serving.Options{
		StrictValidation: cfg.StrictValidation,
		Locale:           cfg.CurrencyLocale,
		MaxBatchSize:     cfg.MaxBatchSize,
	}

	if cfg.RedisEnabled {
		opts.Cache = storage.NewPredictionCache(database.GetRedis(cfg), "premium", cfg.PredictionCacheTTL)
		defer database.CloseRedis()
	}

	if cfg.KafkaEnabled {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaPredictionTopic)
		defer producer.Close()
		opts.Publisher = producer
	}

	if cfg.PostgresEnabled {
		db, err := database.GetPostgres(cfg)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to connect to database")
		}
		defer database.ClosePostgres()

		repo := serving.NewRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			logger.Log.WithError(err).Fatal("Failed to migrate prediction log tables")
		}
		opts.Store = repo
	}

	service := serving.NewService(engine, opts)

	router := mux.NewRouter()
	router.Use(middleware.Recovery, middleware.RequestID, middleware.Logging, middleware.CORS)
	router.Use(middleware.BodyLimit(cfg.MaxRequestBody))
	router.HandleFunc("/health", healthCheck).Methods(http.MethodGet)
	router.HandleFunc("/metrics", metrics.Handler).Methods(http.MethodGet)

	api := router.NewRoute().Subrouter()
	api.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	serving.NewHTTPHandler(service, catalog).Register(api)

	server := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"addr":          server.Addr,
			"model_version": engine.ModelVersion(),
			"strict":        cfg.StrictValidation,
			"cache":         cfg.RedisEnabled,
			"events":        cfg.KafkaEnabled,
			"audit_store":   cfg.PostgresEnabled,
		}).Info("Serving Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Serving Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("Serving Service stopped")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
