package features

// Feature row columns in the order the regression model was trained on.
const (
	ColAge = iota
	ColDependants
	ColIncomeLakhs
	ColInsurancePlan
	ColNormalizedRisk
	ColLifestyleRisk
	ColGenderMale
	ColRegionNorthwest
	ColRegionSoutheast
	ColRegionSouthwest
	ColMaritalUnmarried
	ColBMIObesity
	ColBMIOverweight
	ColBMIUnderweight
	ColSmokingOccasional
	ColSmokingRegular
	ColEmploymentSalaried
	ColEmploymentSelfEmployed

	NumColumns
)

var Columns = [NumColumns]string{
	ColAge:                    "age",
	ColDependants:             "number_of_dependants",
	ColIncomeLakhs:            "income_lakhs",
	ColInsurancePlan:          "insurance_plan",
	ColNormalizedRisk:         "normalized_risk_score",
	ColLifestyleRisk:          "life_style_risk_score",
	ColGenderMale:             "gender_Male",
	ColRegionNorthwest:        "region_Northwest",
	ColRegionSoutheast:        "region_Southeast",
	ColRegionSouthwest:        "region_Southwest",
	ColMaritalUnmarried:       "marital_status_Unmarried",
	ColBMIObesity:             "bmi_category_Obesity",
	ColBMIOverweight:          "bmi_category_Overweight",
	ColBMIUnderweight:         "bmi_category_Underweight",
	ColSmokingOccasional:      "smoking_status_Occasional",
	ColSmokingRegular:         "smoking_status_Regular",
	ColEmploymentSalaried:     "employment_status_Salaried",
	ColEmploymentSelfEmployed: "employment_status_Self-Employed",
}

// IndicatorGroups lists the one-hot columns belonging to each categorical
// input field. At most one column per group is ever set.
var IndicatorGroups = map[string][]int{
	FieldGender:           {ColGenderMale},
	FieldRegion:           {ColRegionNorthwest, ColRegionSoutheast, ColRegionSouthwest},
	FieldMaritalStatus:    {ColMaritalUnmarried},
	FieldBMICategory:      {ColBMIObesity, ColBMIOverweight, ColBMIUnderweight},
	FieldSmokingStatus:    {ColSmokingOccasional, ColSmokingRegular},
	FieldEmploymentStatus: {ColEmploymentSalaried, ColEmploymentSelfEmployed},
}

var columnIndex = func() map[string]int {
	idx := make(map[string]int, NumColumns)
	for i, name := range Columns {
		idx[name] = i
	}
	return idx
}()

func ColumnIndex(name string) (int, bool) {
	i, ok := columnIndex[name]
	return i, ok
}

// Row is a single encoded feature vector. Being an array, every column is
// always present and copying a Row copies its values.
type Row [NumColumns]float64

func (r Row) Get(name string) (float64, bool) {
	i, ok := columnIndex[name]
	if !ok {
		return 0, false
	}
	return r[i], true
}

// Set reports false when name is not a feature row column.
func (r *Row) Set(name string, value float64) bool {
	i, ok := columnIndex[name]
	if !ok {
		return false
	}
	r[i] = value
	return true
}

func (r Row) Map() map[string]float64 {
	out := make(map[string]float64, NumColumns)
	for i, name := range Columns {
		out[name] = r[i]
	}
	return out
}

// Values returns the row as a slice in column order.
func (r Row) Values() []float64 {
	out := make([]float64, NumColumns)
	copy(out, r[:])
	return out
}
