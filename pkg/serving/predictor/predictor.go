package predictor

import (
	"fmt"
	"math"

	"github.com/synaptica-ai/premium-estimator/pkg/features"
)

// Predictor turns input records into premium estimates. Safe for
// concurrent use; it never mutates its bundle.
type Predictor struct {
	model   *Model
	scaler  *Scaler
	encoder *features.Encoder
}

func New(bundle *Bundle) *Predictor {
	return &Predictor{
		model:   bundle.Model,
		scaler:  bundle.Scaler,
		encoder: features.NewEncoder(bundle.Scaler),
	}
}

// Encoder returns an encoder whose rows are already scaled.
func (p *Predictor) Encoder() *features.Encoder {
	return p.encoder
}

func (p *Predictor) ModelVersion() string {
	return p.model.Version()
}

func (p *Predictor) Algorithm() string {
	return p.model.Algorithm()
}

func (p *Predictor) FeatureNames() []string {
	return p.model.FeatureNames()
}

func (p *Predictor) ScaledColumns() []string {
	return p.scaler.Columns()
}

// ScaleAndPredict scales an unscaled row and returns the model output
// truncated to whole rupees.
func (p *Predictor) ScaleAndPredict(row features.Row) (int64, error) {
	scaled := row
	if err := p.scaler.Scale(&scaled); err != nil {
		return 0, fmt.Errorf("scaling feature row: %w", err)
	}
	return p.predictScaled(scaled)
}

func (p *Predictor) predictScaled(row features.Row) (int64, error) {
	out := p.model.Predict(row)
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0, fmt.Errorf("model produced non-finite prediction %v", out)
	}
	return int64(math.Trunc(out)), nil
}

func (p *Predictor) Predict(rec features.Record) (int64, error) {
	return p.ScaleAndPredict(features.Build(rec))
}

func (p *Predictor) PredictMap(input map[string]interface{}) (int64, error) {
	rec, err := features.ParseRecord(input)
	if err != nil {
		return 0, err
	}
	return p.Predict(rec)
}

// Explanation shows a record before and after scaling along with the estimate.
type Explanation struct {
	Raw      features.Row
	Scaled   features.Row
	Estimate int64
}

func (p *Predictor) Explain(rec features.Record) (Explanation, error) {
	raw := features.Build(rec)
	scaled, err := p.encoder.EncodeOne(rec)
	if err != nil {
		return Explanation{}, err
	}
	estimate, err := p.predictScaled(scaled)
	if err != nil {
		return Explanation{}, err
	}
	return Explanation{Raw: raw, Scaled: scaled, Estimate: estimate}, nil
}
