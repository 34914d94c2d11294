package features

import "fmt"

// Scaler rescales selected columns of a row in place.
type Scaler interface {
	Scale(row *Row) error
}

// Build encodes a record into an unscaled row. Values outside a field's
// domain fall back to that field's reference level instead of failing.
func Build(rec Record) Row {
	var row Row

	row[ColAge] = float64(rec.Age)
	row[ColDependants] = float64(rec.Dependants)
	row[ColIncomeLakhs] = float64(rec.IncomeLakhs)
	row[ColInsurancePlan] = rec.InsurancePlan.Code()

	if rec.Gender == GenderMale {
		row[ColGenderMale] = 1
	}

	switch rec.Region {
	case RegionNorthwest:
		row[ColRegionNorthwest] = 1
	case RegionSoutheast:
		row[ColRegionSoutheast] = 1
	case RegionSouthwest:
		row[ColRegionSouthwest] = 1
	}

	if rec.MaritalStatus == MaritalUnmarried {
		row[ColMaritalUnmarried] = 1
	}

	switch rec.BMICategory {
	case BMIObesity:
		row[ColBMIObesity] = 1
	case BMIOverweight:
		row[ColBMIOverweight] = 1
	case BMIUnderweight:
		row[ColBMIUnderweight] = 1
	}

	switch rec.SmokingStatus {
	case SmokingOccasional:
		row[ColSmokingOccasional] = 1
	case SmokingRegular:
		row[ColSmokingRegular] = 1
	}

	switch rec.EmploymentStatus {
	case EmploymentSalaried:
		row[ColEmploymentSalaried] = 1
	case EmploymentSelfEmployed:
		row[ColEmploymentSelfEmployed] = 1
	}

	row[ColNormalizedRisk] = NormalizedRisk(rec.MedicalHistory)
	row[ColLifestyleRisk] = LifestyleRisk(rec.PhysicalLevel, rec.StressLevel)
	return row
}

// Encoder turns records into model-ready rows, scaling them when a Scaler is set.
type Encoder struct {
	scaler Scaler
}

// NewEncoder returns an encoder that scales every row with scaler.
// A nil scaler leaves rows unscaled.
func NewEncoder(scaler Scaler) *Encoder {
	return &Encoder{scaler: scaler}
}

// EncodeOne builds and scales the row for one record.
func (e *Encoder) EncodeOne(rec Record) (Row, error) {
	row := Build(rec)
	if e.scaler == nil {
		return row, nil
	}
	if err := e.scaler.Scale(&row); err != nil {
		return Row{}, fmt.Errorf("scaling feature row: %w", err)
	}
	return row, nil
}

// EncodeBatch encodes recs in order and fails on the first bad record.
func (e *Encoder) EncodeBatch(recs []Record) ([]Row, error) {
	rows := make([]Row, 0, len(recs))
	for i, rec := range recs {
		row, err := e.EncodeOne(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// EncodeMap parses a raw field mapping and encodes it.
func (e *Encoder) EncodeMap(input map[string]interface{}) (Row, error) {
	rec, err := ParseRecord(input)
	if err != nil {
		return Row{}, err
	}
	return e.EncodeOne(rec)
}
