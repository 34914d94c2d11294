package predictor

import (
	"fmt"

	"github.com/synaptica-ai/premium-estimator/pkg/features"
)

const (
	scalerMinMax   = "minmax"
	scalerStandard = "standard"
)

// Scaler applies a fitted min-max or standard scaler to the row columns
// named by the artifact. It is read-only after construction.
type Scaler struct {
	kind    string
	inputs  []string
	rowIdx  []int // feature row index per input, -1 for placeholder columns
	offset  []float64
	scale   []float64
	outputs map[int]bool
}

func NewScaler(artifact ScalerArtifact) (*Scaler, error) {
	if len(artifact.ColsToScale) == 0 {
		return nil, fmt.Errorf("cols_to_scale is empty")
	}
	inputs := artifact.Scaler.FeatureNamesIn
	if len(inputs) == 0 {
		inputs = artifact.ColsToScale
	}

	s := &Scaler{
		kind:    artifact.Scaler.Type,
		inputs:  inputs,
		rowIdx:  make([]int, len(inputs)),
		scale:   artifact.Scaler.Scale,
		outputs: make(map[int]bool, len(artifact.ColsToScale)),
	}
	if len(s.scale) != len(inputs) {
		return nil, fmt.Errorf("scaler has %d scale values for %d columns", len(s.scale), len(inputs))
	}

	switch s.kind {
	case scalerMinMax:
		s.offset = artifact.Scaler.Min
	case scalerStandard:
		s.offset = artifact.Scaler.Mean
		for i, v := range s.scale {
			if v == 0 {
				return nil, fmt.Errorf("standard scaler has zero scale for %s", inputs[i])
			}
		}
	default:
		return nil, fmt.Errorf("unsupported scaler type %q", s.kind)
	}
	if len(s.offset) != len(inputs) {
		return nil, fmt.Errorf("scaler has %d offsets for %d columns", len(s.offset), len(inputs))
	}

	position := make(map[string]bool, len(inputs))
	for i, name := range inputs {
		position[name] = true
		if idx, ok := features.ColumnIndex(name); ok {
			s.rowIdx[i] = idx
		} else {
			s.rowIdx[i] = -1
		}
	}
	for _, name := range artifact.ColsToScale {
		if !position[name] {
			return nil, fmt.Errorf("column %s is not known to the fitted scaler", name)
		}
		// Placeholder columns listed in cols_to_scale are transformed and dropped.
		if idx, ok := features.ColumnIndex(name); ok {
			s.outputs[idx] = true
		}
	}
	if len(s.outputs) == 0 {
		return nil, fmt.Errorf("none of cols_to_scale are feature row columns")
	}
	return s, nil
}

// Transform scales values laid out in the fitted column order.
func (s *Scaler) Transform(values []float64) ([]float64, error) {
	if len(values) != len(s.inputs) {
		return nil, fmt.Errorf("transform expects %d columns, got %d", len(s.inputs), len(values))
	}
	out := make([]float64, len(values))
	for i, v := range values {
		if s.kind == scalerStandard {
			out[i] = (v - s.offset[i]) / s.scale[i]
		} else {
			out[i] = v*s.scale[i] + s.offset[i]
		}
	}
	return out, nil
}

// Scale rewrites the scaled columns of row. Columns the scaler was fitted
// with but the row does not carry are fed as 0 and discarded afterwards.
func (s *Scaler) Scale(row *features.Row) error {
	in := make([]float64, len(s.inputs))
	for i, idx := range s.rowIdx {
		if idx >= 0 {
			in[i] = row[idx]
		}
	}
	out, err := s.Transform(in)
	if err != nil {
		return err
	}
	for i, idx := range s.rowIdx {
		if idx >= 0 && s.outputs[idx] {
			row[idx] = out[i]
		}
	}
	return nil
}

// Columns returns the feature row columns this scaler rewrites, in fitted order.
func (s *Scaler) Columns() []string {
	var cols []string
	for _, idx := range s.rowIdx {
		if idx >= 0 && s.outputs[idx] {
			cols = append(cols, features.Columns[idx])
		}
	}
	return cols
}
