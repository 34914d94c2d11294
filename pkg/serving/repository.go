package serving

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/synaptica-ai/premium-estimator/pkg/common/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const EventPredictionCompleted = "prediction.completed"

// PredictionLog is the persistence model for served estimates.
type PredictionLog struct {
	ID           uuid.UUID         `gorm:"primaryKey;column:id" json:"id"`
	RequestID    string            `gorm:"column:request_id;index" json:"request_id"`
	ModelVersion string            `gorm:"column:model_version" json:"model_version"`
	Input        datatypes.JSONMap `gorm:"column:input" json:"input"`
	Features     datatypes.JSONMap `gorm:"column:features" json:"features,omitempty"`
	Estimate     int64             `gorm:"column:estimate" json:"estimate"`
	LatencyMs    float64           `gorm:"column:latency_ms" json:"latency_ms"`
	Cached       bool              `gorm:"column:cached" json:"cached"`
	CreatedAt    time.Time         `gorm:"column:created_at;index" json:"created_at"`
}

// TableName overrides gorm naming.
func (PredictionLog) TableName() string {
	return "prediction_logs"
}

// NewPredictionLog captures one served prediction.
func NewPredictionLog(input map[string]interface{}, resp *models.PredictionResponse) PredictionLog {
	log := PredictionLog{
		ID:           uuid.New(),
		RequestID:    resp.RequestID,
		ModelVersion: resp.ModelVersion,
		Input:        datatypes.JSONMap(input),
		Estimate:     resp.Estimate,
		LatencyMs:    float64(resp.Latency.Microseconds()) / 1000.0,
		Cached:       resp.Cached,
		CreatedAt:    time.Now().UTC(),
	}
	if len(resp.Features) > 0 {
		feats := make(map[string]interface{}, len(resp.Features))
		for k, v := range resp.Features {
			feats[k] = v
		}
		log.Features = datatypes.JSONMap(feats)
	}
	return log
}

// EventData is the payload published for a prediction.completed event.
func (l PredictionLog) EventData() map[string]interface{} {
	data := map[string]interface{}{
		"log_id":        l.ID.String(),
		"request_id":    l.RequestID,
		"model_version": l.ModelVersion,
		"input":         map[string]interface{}(l.Input),
		"estimate":      l.Estimate,
		"latency_ms":    l.LatencyMs,
		"cached":        l.Cached,
		"created_at":    l.CreatedAt.Format(time.RFC3339Nano),
	}
	if l.Features != nil {
		data["features"] = map[string]interface{}(l.Features)
	}
	return data
}

// LogFromEvent rebuilds a PredictionLog from a decoded prediction.completed event.
func LogFromEvent(event models.Event) (PredictionLog, error) {
	if event.Type != EventPredictionCompleted {
		return PredictionLog{}, fmt.Errorf("unexpected event type %q", event.Type)
	}
	d := event.Data

	id, err := uuid.Parse(stringValue(d["log_id"]))
	if err != nil {
		return PredictionLog{}, fmt.Errorf("event %s: invalid log_id: %w", event.ID, err)
	}
	estimate, ok := d["estimate"].(float64)
	if !ok {
		return PredictionLog{}, fmt.Errorf("event %s: missing estimate", event.ID)
	}
	input, _ := d["input"].(map[string]interface{})

	log := PredictionLog{
		ID:           id,
		RequestID:    stringValue(d["request_id"]),
		ModelVersion: stringValue(d["model_version"]),
		Input:        datatypes.JSONMap(input),
		Estimate:     int64(estimate),
		CreatedAt:    event.Timestamp.UTC(),
	}
	if v, ok := d["latency_ms"].(float64); ok {
		log.LatencyMs = v
	}
	if v, ok := d["cached"].(bool); ok {
		log.Cached = v
	}
	if v, ok := d["features"].(map[string]interface{}); ok {
		log.Features = datatypes.JSONMap(v)
	}
	if ts, err := time.Parse(time.RFC3339Nano, stringValue(d["created_at"])); err == nil {
		log.CreatedAt = ts.UTC()
	}
	return log, nil
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}

// Repository handles prediction log queries.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&PredictionLog{})
}

// RecordPrediction inserts log; redelivered logs with a known id are ignored.
func (r *Repository) RecordPrediction(ctx context.Context, log PredictionLog) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&log).Error
}

// Recent returns the most recent prediction logs up to limit.
func (r *Repository) Recent(ctx context.Context, limit int) ([]PredictionLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []PredictionLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
