package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args,
		"--model", "../../artifacts/prediction_model.json",
		"--scaler", "../../artifacts/scaler_model.json",
		"--locale", "en",
	))
	err := root.Execute()
	return out.String(), err
}

func TestPredictReferenceApplicant(t *testing.T) {
	out, err := run(t, "predict",
		"--age", "35",
		"--number-of-dependants", "2",
		"--income-in-lakhs", "10",
		"--marital-status", "Married",
		"--insurance-plan", "Gold",
		"--physical-level", "High",
		"--stress-level", "Low",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Predicted Health Insurance Cost: ₹26,872")
	assert.Contains(t, out, "premium-linear-2024.1")
}

func TestPredictExplainPrintsFeatureTable(t *testing.T) {
	out, err := run(t, "predict", "--age", "35", "--income-in-lakhs", "10", "--explain")
	require.NoError(t, err)
	assert.Contains(t, out, "insurance_plan")
	assert.Contains(t, out, "0.207317")
}

func TestPredictRejectsOutOfRangeWhenStrict(t *testing.T) {
	_, err := run(t, "predict", "--age", "12", "--strict")
	assert.Error(t, err)

	_, err = run(t, "predict", "--age", "12", "--strict=false")
	assert.NoError(t, err)
}

func TestPredictMissingArtifact(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"predict", "--model", "does-not-exist.json"})
	assert.Error(t, root.Execute())
}

func TestFormListsFieldsAndPlans(t *testing.T) {
	out, err := run(t, "form")
	require.NoError(t, err)
	assert.Contains(t, out, "Health Insurance Cost Predictor")
	assert.Contains(t, out, "--number-of-dependants")
	assert.Contains(t, out, "18 - 100")
	assert.Contains(t, out, "37.2")
}

func TestFlagName(t *testing.T) {
	assert.Equal(t, "income-in-lakhs", flagName("Income in Lakhs"))
	assert.Equal(t, "bmi-category", flagName("BMI Category"))
}

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "form.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const narrowAgeCatalog = `
title: Senior Cover
fields:
  - key: Age
    kind: integer
    min: 40
    max: 60
`

func TestPredictUsesCatalogOverrideDefaults(t *testing.T) {
	path := writeCatalog(t, narrowAgeCatalog)

	out, err := run(t, "predict", "--catalog", path, "--explain")
	require.NoError(t, err)
	// age 40 scales to 40*0.012195121951219513 - 0.21951219512195122.
	assert.Contains(t, out, "0.268293")

	formOut, err := run(t, "form", "--catalog", path)
	require.NoError(t, err)
	assert.Contains(t, formOut, "40 - 60")
}

func TestPredictEnforcesCatalogOverrideBounds(t *testing.T) {
	path := writeCatalog(t, narrowAgeCatalog)

	_, err := run(t, "predict", "--catalog", path, "--age", "35", "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--age")

	_, err = run(t, "predict", "--catalog", path, "--age", "35", "--strict=false")
	assert.NoError(t, err)

	_, err = run(t, "predict", "--catalog", path, "--age", "45", "--strict")
	assert.NoError(t, err)
}
