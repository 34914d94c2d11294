package predictor

import (
	"fmt"

	"github.com/synaptica-ai/premium-estimator/pkg/features"
)

var supportedAlgorithms = map[string]bool{
	"linear_regression": true,
	"ridge":             true,
	"lasso":             true,
}

// Model is a fitted linear regression over feature row columns.
type Model struct {
	version      string
	algorithm    string
	featureNames []string
	featureIdx   []int
	bias         float64
	coefficients []float64
}

func NewModel(artifact ModelArtifact) (*Model, error) {
	m := artifact.Model
	if len(m.FeatureNames) == 0 {
		return nil, fmt.Errorf("artifact missing feature names")
	}
	if !supportedAlgorithms[m.Algorithm] {
		return nil, fmt.Errorf("unsupported algorithm %q", m.Algorithm)
	}
	if len(m.Weights.Coefficients) != len(m.FeatureNames) {
		return nil, fmt.Errorf("%d coefficients for %d features", len(m.Weights.Coefficients), len(m.FeatureNames))
	}

	idx := make([]int, len(m.FeatureNames))
	for i, name := range m.FeatureNames {
		col, ok := features.ColumnIndex(name)
		if !ok {
			return nil, fmt.Errorf("unknown feature %s", name)
		}
		idx[i] = col
	}

	return &Model{
		version:      artifact.Version,
		algorithm:    m.Algorithm,
		featureNames: append([]string(nil), m.FeatureNames...),
		featureIdx:   idx,
		bias:         m.Weights.Bias,
		coefficients: append([]float64(nil), m.Weights.Coefficients...),
	}, nil
}

func (m *Model) Predict(row features.Row) float64 {
	sum := m.bias
	for i, coeff := range m.coefficients {
		sum += coeff * row[m.featureIdx[i]]
	}
	return sum
}

func (m *Model) Version() string {
	return m.version
}

func (m *Model) Algorithm() string {
	return m.algorithm
}

// FeatureNames is the column order the model was trained with.
func (m *Model) FeatureNames() []string {
	return append([]string(nil), m.featureNames...)
}
