package predictor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ModelArtifact is the exported regression model.
type ModelArtifact struct {
	Version string `json:"version"`
	Model   struct {
		Type         string   `json:"type"`
		Algorithm    string   `json:"algorithm"`
		FeatureNames []string `json:"feature_names"`
		Weights      struct {
			Bias         float64   `json:"bias"`
			Coefficients []float64 `json:"coefficients"`
		} `json:"weights"`
	} `json:"model"`
}

// ScalerArtifact is the exported scaler bundle: the columns the pipeline
// scales plus the fitted scaler itself.
type ScalerArtifact struct {
	ColsToScale []string `json:"cols_to_scale"`
	Scaler      struct {
		Type string `json:"type"`
		// FeatureNamesIn is the column order the scaler was fitted with.
		// It may name columns that are not part of the feature row.
		FeatureNamesIn []string  `json:"feature_names_in"`
		Min            []float64 `json:"min,omitempty"`
		Mean           []float64 `json:"mean,omitempty"`
		Scale          []float64 `json:"scale"`
	} `json:"scaler"`
}

// ArtifactError reports an artifact that could not be read or is unusable.
type ArtifactError struct {
	Path string
	Err  error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("artifact %s: %v", e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() error {
	return e.Err
}

// Bundle is the immutable pair of artifacts shared by every request.
type Bundle struct {
	Model  *Model
	Scaler *Scaler
}

// Load reads and validates the model and scaler artifacts.
func Load(modelPath, scalerPath string) (*Bundle, error) {
	model, err := LoadModel(modelPath)
	if err != nil {
		return nil, err
	}
	scaler, err := LoadScaler(scalerPath)
	if err != nil {
		return nil, err
	}
	return &Bundle{Model: model, Scaler: scaler}, nil
}

// LoadModel reads a model artifact; the version defaults to the file name.
func LoadModel(path string) (*Model, error) {
	var artifact ModelArtifact
	if err := readJSON(path, &artifact); err != nil {
		return nil, err
	}
	if artifact.Version == "" {
		artifact.Version = filepath.Base(path)
	}
	model, err := NewModel(artifact)
	if err != nil {
		return nil, &ArtifactError{Path: path, Err: err}
	}
	return model, nil
}

// LoadScaler reads a scaler artifact.
func LoadScaler(path string) (*Scaler, error) {
	var artifact ScalerArtifact
	if err := readJSON(path, &artifact); err != nil {
		return nil, err
	}
	scaler, err := NewScaler(artifact)
	if err != nil {
		return nil, &ArtifactError{Path: path, Err: err}
	}
	return scaler, nil
}

func readJSON(path string, out interface{}) error {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return &ArtifactError{Path: path, Err: err}
	}
	if err := json.Unmarshal(content, out); err != nil {
		return &ArtifactError{Path: path, Err: fmt.Errorf("decoding: %w", err)}
	}
	return nil
}
