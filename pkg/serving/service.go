package serving

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/synaptica-ai/premium-estimator/pkg/common/logger"
	"github.com/synaptica-ai/premium-estimator/pkg/common/models"
	"github.com/synaptica-ai/premium-estimator/pkg/features"
	"github.com/synaptica-ai/premium-estimator/pkg/form"
	"github.com/synaptica-ai/premium-estimator/pkg/observability/metrics"
	"github.com/synaptica-ai/premium-estimator/pkg/serving/predictor"
)

const eventSource = "serving-service"

// ErrBatchTooLarge is returned when a batch exceeds the configured size.
var ErrBatchTooLarge = errors.New("batch exceeds maximum size")

// ErrNoStore is returned by Recent when no audit store is configured.
var ErrNoStore = errors.New("prediction log store not configured")

type Cache interface {
	Key(modelVersion string, record map[string]interface{}) (string, error)
	Get(ctx context.Context, key string) (int64, bool, error)
	Set(ctx context.Context, key string, estimate int64) error
}

type Publisher interface {
	PublishEvent(ctx context.Context, eventType, source string, data map[string]interface{}) error
}

type LogStore interface {
	RecordPrediction(ctx context.Context, log PredictionLog) error
	Recent(ctx context.Context, limit int) ([]PredictionLog, error)
}

type Options struct {
	StrictValidation bool
	Locale           string
	MaxBatchSize     int

	Cache     Cache
	Publisher Publisher
	// Store is written directly only when no Publisher is set; otherwise
	// the audit-service persists the published events.
	Store LogStore
}

// Service runs the prediction pipeline shared by the HTTP API and the CLI.
type Service struct {
	predictor *predictor.Predictor
	opts      Options
}

func NewService(p *predictor.Predictor, opts Options) *Service {
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = 100
	}
	return &Service{predictor: p, opts: opts}
}

func (s *Service) ModelInfo() models.ModelInfo {
	return models.ModelInfo{
		Version:       s.predictor.ModelVersion(),
		Algorithm:     s.predictor.Algorithm(),
		FeatureNames:  s.predictor.FeatureNames(),
		ScaledColumns: s.predictor.ScaledColumns(),
	}
}

func (s *Service) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error) {
	start := time.Now()
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	resp, err := s.predict(ctx, req, start)
	if err != nil {
		metrics.ObserveFailure(features.IsValidationError(err))
		return nil, err
	}
	metrics.ObservePrediction(resp.Latency)

	s.audit(ctx, req.Input, resp)

	logger.Log.WithFields(logrus.Fields{
		"request_id":    resp.RequestID,
		"estimate":      resp.Estimate,
		"model_version": resp.ModelVersion,
		"cached":        resp.Cached,
		"latency_ms":    resp.Latency.Milliseconds(),
	}).Info("Prediction completed")

	return resp, nil
}

func (s *Service) predict(ctx context.Context, req models.PredictionRequest, start time.Time) (*models.PredictionResponse, error) {
	rec, err := features.ParseRecord(req.Input)
	if err != nil {
		return nil, err
	}
	if s.opts.StrictValidation {
		if err := features.Validate(rec); err != nil {
			return nil, err
		}
	}

	resp := &models.PredictionResponse{
		RequestID:    req.RequestID,
		ModelVersion: s.predictor.ModelVersion(),
	}

	if req.Explain {
		explanation, err := s.predictor.Explain(rec)
		if err != nil {
			return nil, fmt.Errorf("explaining prediction: %w", err)
		}
		resp.Estimate = explanation.Estimate
		resp.Features = explanation.Scaled.Map()
	} else {
		estimate, cached, err := s.estimate(ctx, rec)
		if err != nil {
			return nil, err
		}
		resp.Estimate = estimate
		resp.Cached = cached
	}

	resp.Formatted = form.FormatCost(resp.Estimate, s.opts.Locale)
	resp.Latency = time.Since(start)
	return resp, nil
}

// estimate consults the cache around the model. Cache errors degrade to a
// model call.
func (s *Service) estimate(ctx context.Context, rec features.Record) (int64, bool, error) {
	if s.opts.Cache == nil {
		estimate, err := s.predictor.Predict(rec)
		return estimate, false, err
	}

	key, err := s.opts.Cache.Key(s.predictor.ModelVersion(), rec.ToMap())
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to derive prediction cache key")
		estimate, err := s.predictor.Predict(rec)
		return estimate, false, err
	}

	if estimate, ok, err := s.opts.Cache.Get(ctx, key); err != nil {
		logger.Log.WithError(err).Warn("Prediction cache lookup failed")
	} else if ok {
		metrics.ObserveCache(true)
		return estimate, true, nil
	}
	metrics.ObserveCache(false)

	estimate, err := s.predictor.Predict(rec)
	if err != nil {
		return 0, false, err
	}
	if err := s.opts.Cache.Set(ctx, key, estimate); err != nil {
		logger.Log.WithError(err).Warn("Failed to cache prediction")
	}
	return estimate, false, nil
}

func (s *Service) audit(ctx context.Context, input map[string]interface{}, resp *models.PredictionResponse) {
	if s.opts.Publisher == nil && s.opts.Store == nil {
		return
	}
	entry := NewPredictionLog(input, resp)

	if s.opts.Publisher != nil {
		if err := s.opts.Publisher.PublishEvent(ctx, EventPredictionCompleted, eventSource, entry.EventData()); err != nil {
			metrics.ObservePublishFailure()
			logger.Log.WithError(err).WithField("request_id", resp.RequestID).Warn("Failed to publish prediction event")
		}
		return
	}

	if err := s.opts.Store.RecordPrediction(ctx, entry); err != nil {
		metrics.ObserveAuditFailure()
		logger.Log.WithError(err).WithField("request_id", resp.RequestID).Warn("Failed to record prediction")
	}
}

// PredictBatch predicts every input independently. Item failures are
// reported in place; only an oversized batch fails the call.
func (s *Service) PredictBatch(ctx context.Context, req models.BatchPredictionRequest) (*models.BatchPredictionResponse, error) {
	if len(req.Inputs) > s.opts.MaxBatchSize {
		return nil, fmt.Errorf("%d inputs, limit %d: %w", len(req.Inputs), s.opts.MaxBatchSize, ErrBatchTooLarge)
	}

	out := &models.BatchPredictionResponse{Results: make([]models.BatchPredictionItem, len(req.Inputs))}
	for i, input := range req.Inputs {
		item := models.BatchPredictionItem{Index: i}
		resp, err := s.Predict(ctx, models.PredictionRequest{Input: input, Explain: req.Explain})
		if err != nil {
			item.Error = err.Error()
			out.Failed++
		} else {
			item.Response = resp
			out.Succeeded++
		}
		out.Results[i] = item
	}
	return out, nil
}

func (s *Service) Recent(ctx context.Context, limit int) ([]PredictionLog, error) {
	if s.opts.Store == nil {
		return nil, ErrNoStore
	}
	return s.opts.Store.Recent(ctx, limit)
}
