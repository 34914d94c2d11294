package features

import "fmt"

type intRange struct {
	field    string
	min, max int
}

var numericRanges = []intRange{
	{FieldAge, 18, 100},
	{FieldDependants, 0, 20},
	{FieldIncomeLakhs, 0, 200},
}

// Validate applies the form's domains to a parsed record. It is meant for
// request boundaries; Build itself never rejects a record.
func Validate(rec Record) error {
	values := map[string]int{
		FieldAge:         rec.Age,
		FieldDependants:  rec.Dependants,
		FieldIncomeLakhs: rec.IncomeLakhs,
	}
	for _, r := range numericRanges {
		if v := values[r.field]; v < r.min || v > r.max {
			return newValidationError(fmt.Errorf("%d not in [%d, %d]: %w", v, r.min, r.max, ErrOutOfRange), r.field)
		}
	}

	checks := []struct {
		field string
		value string
		ok    bool
	}{
		{FieldGender, string(rec.Gender), rec.Gender.Valid()},
		{FieldMaritalStatus, string(rec.MaritalStatus), rec.MaritalStatus.Valid()},
		{FieldBMICategory, string(rec.BMICategory), rec.BMICategory.Valid()},
		{FieldSmokingStatus, string(rec.SmokingStatus), rec.SmokingStatus.Valid()},
		{FieldRegion, string(rec.Region), rec.Region.Valid()},
		{FieldInsurancePlan, string(rec.InsurancePlan), rec.InsurancePlan.Valid()},
		{FieldEmploymentStatus, string(rec.EmploymentStatus), rec.EmploymentStatus.Valid()},
		{FieldPhysicalLevel, string(rec.PhysicalLevel), rec.PhysicalLevel.Valid()},
		{FieldStressLevel, string(rec.StressLevel), rec.StressLevel.Valid()},
	}
	for _, c := range checks {
		if !c.ok {
			return newValidationError(fmt.Errorf("unrecognised value %q: %w", c.value, ErrInvalidValue), c.field)
		}
	}

	conditions := splitHistory(rec.MedicalHistory)
	if len(conditions) == 0 {
		return newValidationError(fmt.Errorf("empty history: %w", ErrInvalidValue), FieldMedicalHistory)
	}
	for _, condition := range conditions {
		if _, ok := conditionWeights[condition]; !ok {
			return newValidationError(fmt.Errorf("unrecognised condition %q: %w", condition, ErrInvalidValue), FieldMedicalHistory)
		}
	}
	return nil
}
