package form

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synaptica-ai/premium-estimator/pkg/features"
)

func TestDefaultCatalogCoversEveryInputField(t *testing.T) {
	cat := Default()
	require.Len(t, cat.Fields, len(features.RequiredFields))
	for _, key := range features.RequiredFields {
		_, ok := cat.Field(key)
		assert.True(t, ok, key)
	}

	history, _ := cat.Field(features.FieldMedicalHistory)
	assert.Equal(t, features.MedicalHistoryOptions, history.Options)

	var total float64
	for _, share := range cat.PlanDistribution {
		total += share.Percent
	}
	assert.InDelta(t, 100, total, 1e-9)
}

func TestDefaultsPassStrictValidation(t *testing.T) {
	rec, err := features.ParseRecord(Default().Defaults())
	require.NoError(t, err)
	assert.NoError(t, features.Validate(rec))
	assert.Equal(t, 18, rec.Age)
	assert.Equal(t, features.GenderMale, rec.Gender)
}

func TestEveryOptionIsAcceptedByValidation(t *testing.T) {
	cat := Default()
	for _, f := range cat.Fields {
		if f.Kind != KindSelect {
			continue
		}
		for _, opt := range f.Options {
			input := cat.Defaults()
			input[f.Key] = opt
			rec, err := features.ParseRecord(input)
			require.NoError(t, err)
			assert.NoError(t, features.Validate(rec), "%s=%s", f.Key, opt)
		}
	}
}

func TestLoadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
title: Custom
fields:
  - key: Age
    label: Your age
    kind: integer
    min: 18
    max: 65
`), 0o644))

	cat, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Custom", cat.Title)
	f, ok := cat.Field("Age")
	require.True(t, ok)
	assert.Equal(t, "Your age", f.Label)
	assert.Equal(t, 65, *f.Max)
}

func TestLoadRejectsInvalidCatalogs(t *testing.T) {
	bodies := map[string]string{
		"empty":      `title: x`,
		"no options": "fields:\n  - key: Gender\n    kind: select\n",
		"bad bounds": "fields:\n  - key: Age\n    kind: integer\n    min: 10\n    max: 1\n",
		"bad kind":   "fields:\n  - key: Age\n    kind: slider\n",
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "form.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "₹26,872", FormatCost(26872, "en"))
	assert.Equal(t, "₹999", FormatCost(999, "en"))
	assert.Equal(t, "-₹1,200", FormatCost(-1200, "en"))
	assert.Equal(t, "₹1,234,567", FormatCost(1234567, "not a locale!"))
}
