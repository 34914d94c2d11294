package features

import (
	"fmt"
	"strings"
)

// maxRiskScore is heart disease (8) plus the next highest condition (6).
const maxRiskScore = 14.0

var conditionWeights = map[string]float64{
	"diabetes":            6,
	"heart disease":       8,
	"high blood pressure": 6,
	"thyroid":             5,
	"no disease":          0,
	"none":                0,
}

var physicalWeights = map[Level]float64{
	LevelHigh:   0,
	LevelMedium: 1,
	LevelLow:    4,
}

var stressWeights = map[Level]float64{
	LevelHigh:   4,
	LevelMedium: 1,
	LevelLow:    0,
}

// splitHistory breaks "Diabetes & Thyroid" into normalized condition names.
func splitHistory(history string) []string {
	parts := strings.Split(history, "&")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if c := strings.ToLower(strings.TrimSpace(p)); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// NormalizedRisk scores a medical history in [0,1]. Unknown conditions add nothing.
func NormalizedRisk(history string) float64 {
	var total float64
	for _, condition := range splitHistory(history) {
		total += conditionWeights[condition]
	}
	score := total / maxRiskScore
	if score > 1 {
		return 1
	}
	return score
}

// LifestyleRisk sums the physical activity and stress weights, 0 to 8.
func LifestyleRisk(physical, stress Level) float64 {
	return physicalWeights[physical] + stressWeights[stress]
}

func LifestyleRiskBatch(physical, stress []Level) ([]float64, error) {
	if len(physical) != len(stress) {
		return nil, fmt.Errorf("lifestyle risk: %d physical levels but %d stress levels", len(physical), len(stress))
	}
	out := make([]float64, len(physical))
	for i := range physical {
		out[i] = LifestyleRisk(physical[i], stress[i])
	}
	return out, nil
}
