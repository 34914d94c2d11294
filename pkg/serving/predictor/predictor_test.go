package predictor

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synaptica-ai/premium-estimator/pkg/features"
)

const (
	referenceModel  = "../../../artifacts/prediction_model.json"
	referenceScaler = "../../../artifacts/scaler_model.json"
)

func referenceInput() map[string]interface{} {
	return map[string]interface{}{
		"Age":                  35,
		"Number of Dependants": 2,
		"Income in Lakhs":      10,
		"Gender":               "Male",
		"Marital Status":       "Married",
		"BMI Category":         "Normal",
		"Smoking Status":       "No Smoking",
		"Region":               "Northwest",
		"Medical History":      "No Disease",
		"Insurance Plan":       "Gold",
		"Employment Status":    "Salaried",
		"Physical Level":       "High",
		"Stress Level":         "Low",
	}
}

func loadReference(t *testing.T) *Predictor {
	t.Helper()
	bundle, err := Load(referenceModel, referenceScaler)
	require.NoError(t, err)
	return New(bundle)
}

func TestReferenceScenario(t *testing.T) {
	p := loadReference(t)

	estimate, err := p.PredictMap(referenceInput())
	require.NoError(t, err)
	assert.Equal(t, int64(26872), estimate)
	assert.GreaterOrEqual(t, estimate, int64(0))
	assert.Equal(t, "premium-linear-2024.1", p.ModelVersion())
}

func TestExplainScalesOnlyContinuousColumns(t *testing.T) {
	p := loadReference(t)
	rec, err := features.ParseRecord(referenceInput())
	require.NoError(t, err)

	exp, err := p.Explain(rec)
	require.NoError(t, err)

	assert.Equal(t, 35.0, exp.Raw[features.ColAge])
	assert.InDelta(t, 17.0/82.0, exp.Scaled[features.ColAge], 1e-9)
	assert.Equal(t, 10.0, exp.Raw[features.ColIncomeLakhs])
	assert.InDelta(t, 0.05, exp.Scaled[features.ColIncomeLakhs], 1e-12)

	for i := range exp.Raw {
		if i == features.ColAge || i == features.ColIncomeLakhs {
			continue
		}
		assert.Equal(t, exp.Raw[i], exp.Scaled[i], features.Columns[i])
	}
	assert.Equal(t, int64(26872), exp.Estimate)
	assert.Equal(t, []string{"age", "income_lakhs"}, p.ScaledColumns())
}

func TestScaleAndPredictDoesNotMutateInput(t *testing.T) {
	p := loadReference(t)
	rec, err := features.ParseRecord(referenceInput())
	require.NoError(t, err)

	row := features.Build(rec)
	before := row
	_, err = p.ScaleAndPredict(row)
	require.NoError(t, err)
	assert.Equal(t, before, row)
}

func TestEncoderIsScalerBacked(t *testing.T) {
	p := loadReference(t)
	row, err := p.Encoder().EncodeMap(referenceInput())
	require.NoError(t, err)
	assert.InDelta(t, 17.0/82.0, row[features.ColAge], 1e-9)
}

func TestPredictMapMissingField(t *testing.T) {
	p := loadReference(t)
	input := referenceInput()
	delete(input, "Stress Level")

	_, err := p.PredictMap(input)
	assert.ErrorIs(t, err, features.ErrInvalidInput)
}

func TestConcurrentPredictions(t *testing.T) {
	p := loadReference(t)
	rec, err := features.ParseRecord(referenceInput())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]int64, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = p.Predict(rec)
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		assert.Equal(t, int64(26872), r)
	}
}

func TestLoadMissingArtifactNamesPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.json")
	_, err := Load(missing, referenceScaler)
	require.Error(t, err)

	var ae *ArtifactError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, missing, ae.Path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), missing)

	_, err = Load(referenceModel, missing)
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, missing, ae.Path)
}

func TestLoadRejectsMalformedArtifacts(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		return path
	}

	tests := map[string]string{
		"garbage.json":     `{not json`,
		"nofeatures.json":  `{"model":{"algorithm":"linear_regression","feature_names":[]}}`,
		"unknownfeat.json": `{"model":{"algorithm":"linear_regression","feature_names":["bmi"],"weights":{"coefficients":[1]}}}`,
		"mismatch.json":    `{"model":{"algorithm":"linear_regression","feature_names":["age"],"weights":{"coefficients":[1,2]}}}`,
		"algo.json":        `{"model":{"algorithm":"xgboost","feature_names":["age"],"weights":{"coefficients":[1]}}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := write(name, body)
			_, err := LoadModel(path)
			var ae *ArtifactError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, path, ae.Path)
		})
	}
}

func TestLoadModelDefaultsVersionToFileName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model_v7.json")
	body := `{"model":{"algorithm":"ridge","feature_names":["age"],"weights":{"bias":1,"coefficients":[2]}}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	m, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, "model_v7.json", m.Version())
	assert.Equal(t, []string{"age"}, m.FeatureNames())

	var row features.Row
	row[features.ColAge] = 3
	assert.Equal(t, 7.0, m.Predict(row))
}

func TestPredictTruncatesTowardZero(t *testing.T) {
	var artifact ModelArtifact
	artifact.Model.Algorithm = "linear_regression"
	artifact.Model.FeatureNames = []string{"age"}
	artifact.Model.Weights.Bias = 0.9
	artifact.Model.Weights.Coefficients = []float64{-1}
	model, err := NewModel(artifact)
	require.NoError(t, err)

	p := New(&Bundle{Model: model, Scaler: identityScaler(t)})

	var row features.Row
	row[features.ColAge] = 0
	got, err := p.ScaleAndPredict(row)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)

	row[features.ColAge] = 2
	got, err = p.ScaleAndPredict(row)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), got)
}

func identityScaler(t *testing.T) *Scaler {
	t.Helper()
	var artifact ScalerArtifact
	artifact.ColsToScale = []string{"age"}
	artifact.Scaler.Type = "minmax"
	artifact.Scaler.Min = []float64{0}
	artifact.Scaler.Scale = []float64{1}
	s, err := NewScaler(artifact)
	require.NoError(t, err)
	return s
}
