package models

import (
	"time"
)

// Event Bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // prediction.completed
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// Model Serving
type PredictionRequest struct {
	RequestID string                 `json:"request_id,omitempty"`
	Input     map[string]interface{} `json:"input"`
	Explain   bool                   `json:"explain,omitempty"`
}

type PredictionResponse struct {
	RequestID    string             `json:"request_id"`
	Estimate     int64              `json:"estimate"`
	Formatted    string             `json:"formatted"`
	ModelVersion string             `json:"model_version"`
	Cached       bool               `json:"cached"`
	Features     map[string]float64 `json:"features,omitempty"`
	Latency      time.Duration      `json:"latency"`
}

type BatchPredictionRequest struct {
	Inputs  []map[string]interface{} `json:"inputs"`
	Explain bool                     `json:"explain,omitempty"`
}

type BatchPredictionItem struct {
	Index    int                 `json:"index"`
	Response *PredictionResponse `json:"response,omitempty"`
	Error    string              `json:"error,omitempty"`
}

type BatchPredictionResponse struct {
	Results   []BatchPredictionItem `json:"results"`
	Succeeded int                   `json:"succeeded"`
	Failed    int                   `json:"failed"`
}

type ModelInfo struct {
	Version       string   `json:"version"`
	Algorithm     string   `json:"algorithm"`
	FeatureNames  []string `json:"feature_names"`
	ScaledColumns []string `json:"scaled_columns"`
}
