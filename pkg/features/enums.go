package features

// Input record keys as submitted by the form.
const (
	FieldAge              = "Age"
	FieldDependants       = "Number of Dependants"
	FieldIncomeLakhs      = "Income in Lakhs"
	FieldGender           = "Gender"
	FieldMaritalStatus    = "Marital Status"
	FieldBMICategory      = "BMI Category"
	FieldSmokingStatus    = "Smoking Status"
	FieldRegion           = "Region"
	FieldMedicalHistory   = "Medical History"
	FieldInsurancePlan    = "Insurance Plan"
	FieldEmploymentStatus = "Employment Status"
	FieldPhysicalLevel    = "Physical Level"
	FieldStressLevel      = "Stress Level"
)

// RequiredFields is the full key set of an input record.
var RequiredFields = []string{
	FieldAge,
	FieldDependants,
	FieldIncomeLakhs,
	FieldGender,
	FieldMaritalStatus,
	FieldBMICategory,
	FieldSmokingStatus,
	FieldRegion,
	FieldMedicalHistory,
	FieldInsurancePlan,
	FieldEmploymentStatus,
	FieldPhysicalLevel,
	FieldStressLevel,
}

type Gender string

const (
	GenderFemale Gender = "Female"
	GenderMale   Gender = "Male"
)

func (g Gender) Valid() bool {
	return g == GenderFemale || g == GenderMale
}

type MaritalStatus string

const (
	MaritalMarried   MaritalStatus = "Married"
	MaritalUnmarried MaritalStatus = "Unmarried"
)

func (m MaritalStatus) Valid() bool {
	return m == MaritalMarried || m == MaritalUnmarried
}

type BMICategory string

const (
	BMINormal      BMICategory = "Normal"
	BMIObesity     BMICategory = "Obesity"
	BMIOverweight  BMICategory = "Overweight"
	BMIUnderweight BMICategory = "Underweight"
)

func (b BMICategory) Valid() bool {
	switch b {
	case BMINormal, BMIObesity, BMIOverweight, BMIUnderweight:
		return true
	}
	return false
}

type SmokingStatus string

const (
	SmokingNone       SmokingStatus = "No Smoking"
	SmokingRegular    SmokingStatus = "Regular"
	SmokingOccasional SmokingStatus = "Occasional"
)

func (s SmokingStatus) Valid() bool {
	switch s {
	case SmokingNone, SmokingRegular, SmokingOccasional:
		return true
	}
	return false
}

type Region string

const (
	RegionNortheast Region = "Northeast"
	RegionNorthwest Region = "Northwest"
	RegionSoutheast Region = "Southeast"
	RegionSouthwest Region = "Southwest"
)

func (r Region) Valid() bool {
	switch r {
	case RegionNortheast, RegionNorthwest, RegionSoutheast, RegionSouthwest:
		return true
	}
	return false
}

type InsurancePlan string

const (
	PlanBronze InsurancePlan = "Bronze"
	PlanSilver InsurancePlan = "Silver"
	PlanGold   InsurancePlan = "Gold"
)

var planCodes = map[InsurancePlan]float64{
	PlanBronze: 1,
	PlanSilver: 2,
	PlanGold:   3,
}

func (p InsurancePlan) Valid() bool {
	_, ok := planCodes[p]
	return ok
}

// Code is the ordinal the model was trained with. Unknown plans encode as Bronze.
func (p InsurancePlan) Code() float64 {
	if code, ok := planCodes[p]; ok {
		return code
	}
	return planCodes[PlanBronze]
}

type EmploymentStatus string

const (
	EmploymentFreelancer   EmploymentStatus = "Freelancer"
	EmploymentSalaried     EmploymentStatus = "Salaried"
	EmploymentSelfEmployed EmploymentStatus = "Self-Employed"
)

func (e EmploymentStatus) Valid() bool {
	switch e {
	case EmploymentFreelancer, EmploymentSalaried, EmploymentSelfEmployed:
		return true
	}
	return false
}

// Level is shared by the physical activity and stress fields.
type Level string

const (
	LevelLow    Level = "Low"
	LevelMedium Level = "Medium"
	LevelHigh   Level = "High"
)

func (l Level) Valid() bool {
	switch l {
	case LevelLow, LevelMedium, LevelHigh:
		return true
	}
	return false
}

// MedicalHistoryOptions are the histories offered by the form.
var MedicalHistoryOptions = []string{
	"No Disease",
	"Diabetes",
	"High blood pressure",
	"Diabetes & High blood pressure",
	"Thyroid",
	"Heart disease",
	"High blood pressure & Heart disease",
	"Diabetes & Thyroid",
	"Diabetes & Heart disease",
}
