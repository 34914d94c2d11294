package features

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Record is one submitted form, typed.
type Record struct {
	Age              int
	Dependants       int
	IncomeLakhs      int
	Gender           Gender
	MaritalStatus    MaritalStatus
	BMICategory      BMICategory
	SmokingStatus    SmokingStatus
	Region           Region
	MedicalHistory   string
	InsurancePlan    InsurancePlan
	EmploymentStatus EmploymentStatus
	PhysicalLevel    Level
	StressLevel      Level
}

// ParseRecord converts a raw field mapping into a Record. Every key in
// RequiredFields must be present; categorical values are not checked
// against their domains here.
func ParseRecord(input map[string]interface{}) (Record, error) {
	var missing []string
	for _, key := range RequiredFields {
		if _, ok := input[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return Record{}, newValidationError(ErrMissingField, missing...)
	}

	var rec Record
	var err error
	if rec.Age, err = intField(input, FieldAge); err != nil {
		return Record{}, err
	}
	if rec.Dependants, err = intField(input, FieldDependants); err != nil {
		return Record{}, err
	}
	if rec.IncomeLakhs, err = intField(input, FieldIncomeLakhs); err != nil {
		return Record{}, err
	}

	strs := make(map[string]string, 10)
	for _, key := range []string{
		FieldGender, FieldMaritalStatus, FieldBMICategory, FieldSmokingStatus, FieldRegion,
		FieldMedicalHistory, FieldInsurancePlan, FieldEmploymentStatus, FieldPhysicalLevel, FieldStressLevel,
	} {
		s, ok := input[key].(string)
		if !ok {
			return Record{}, newValidationError(fmt.Errorf("expected string, got %T: %w", input[key], ErrInvalidValue), key)
		}
		strs[key] = s
	}

	rec.Gender = Gender(strs[FieldGender])
	rec.MaritalStatus = MaritalStatus(strs[FieldMaritalStatus])
	rec.BMICategory = BMICategory(strs[FieldBMICategory])
	rec.SmokingStatus = SmokingStatus(strs[FieldSmokingStatus])
	rec.Region = Region(strs[FieldRegion])
	rec.MedicalHistory = strs[FieldMedicalHistory]
	rec.InsurancePlan = InsurancePlan(strs[FieldInsurancePlan])
	rec.EmploymentStatus = EmploymentStatus(strs[FieldEmploymentStatus])
	rec.PhysicalLevel = Level(strs[FieldPhysicalLevel])
	rec.StressLevel = Level(strs[FieldStressLevel])
	return rec, nil
}

// ToMap is the inverse of ParseRecord.
func (r Record) ToMap() map[string]interface{} {
	return map[string]interface{}{
		FieldAge:              r.Age,
		FieldDependants:       r.Dependants,
		FieldIncomeLakhs:      r.IncomeLakhs,
		FieldGender:           string(r.Gender),
		FieldMaritalStatus:    string(r.MaritalStatus),
		FieldBMICategory:      string(r.BMICategory),
		FieldSmokingStatus:    string(r.SmokingStatus),
		FieldRegion:           string(r.Region),
		FieldMedicalHistory:   r.MedicalHistory,
		FieldInsurancePlan:    string(r.InsurancePlan),
		FieldEmploymentStatus: string(r.EmploymentStatus),
		FieldPhysicalLevel:    string(r.PhysicalLevel),
		FieldStressLevel:      string(r.StressLevel),
	}
}

func intField(input map[string]interface{}, key string) (int, error) {
	f, err := toFloat(input[key])
	if err != nil {
		return 0, newValidationError(fmt.Errorf("%v: %w", err, ErrInvalidValue), key)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, newValidationError(fmt.Errorf("expected integer, got %v: %w", f, ErrInvalidValue), key)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, newValidationError(fmt.Errorf("%v: %w", f, ErrOutOfRange), key)
	}
	return int(f), nil
}

func toFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", value)
	}
}
