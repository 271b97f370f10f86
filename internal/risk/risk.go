package risk

type Tier string

const (
	TierLow      Tier = "LOW"
	TierModerate Tier = "MODERATE"
	TierHigh     Tier = "HIGH"
)

// Label is the text the dashboard shows for a tier.
func (t Tier) Label() string {
	switch t {
	case TierHigh:
		return "🔴 Riesgo ALTO"
	case TierModerate:
		return "🟡 Riesgo MODERADO"
	default:
		return "🟢 Riesgo BAJO"
	}
}

// Vitals holds the seven measurements the scorer looks at.
type Vitals struct {
	Cholesterol          float64 `json:"cholesterol"`
	RestingBloodPressure float64 `json:"restingBloodPressure"`
	Oldpeak              float64 `json:"oldpeak"`
	BMI                  float64 `json:"bmi"`
	StressLevel          float64 `json:"stressLevel"`
	MaxHeartRate         float64 `json:"maxHeartRate"`
	SleepHours           float64 `json:"sleepHours"`
}

type Rule struct {
	ID    string
	Note  string
	Match func(v Vitals) bool
}

var ruleDB = []Rule{
	{ID: "cholesterol", Note: "Cholesterol above 240 mg/dL", Match: func(v Vitals) bool { return v.Cholesterol > 240 }},
	{ID: "blood_pressure", Note: "Resting blood pressure above 140", Match: func(v Vitals) bool { return v.RestingBloodPressure > 140 }},
	{ID: "oldpeak", Note: "Oldpeak above 2.5", Match: func(v Vitals) bool { return v.Oldpeak > 2.5 }},
	{ID: "bmi", Note: "BMI above 30", Match: func(v Vitals) bool { return v.BMI > 30 }},
	{ID: "stress", Note: "Stress level 8 or higher", Match: func(v Vitals) bool { return v.StressLevel >= 8 }},
	{ID: "heart_rate", Note: "Max heart rate below 120 bpm", Match: func(v Vitals) bool { return v.MaxHeartRate < 120 }},
	{ID: "sleep", Note: "Less than 5 hours of sleep", Match: func(v Vitals) bool { return v.SleepHours < 5 }},
}

type Factor struct {
	ID   string `json:"id"`
	Note string `json:"note"`
}

type Assessment struct {
	Points  int      `json:"points"`
	Tier    Tier     `json:"tier"`
	Label   string   `json:"label"`
	Factors []Factor `json:"factors"`
}

// Score maps vitals to a tier: three or more matching rules is HIGH, one or two
// is MODERATE, none is LOW.
func Score(v Vitals) Tier {
	return Assess(v).Tier
}

func Assess(v Vitals) Assessment {
	factors := []Factor{}
	for _, rule := range ruleDB {
		if rule.Match(v) {
			factors = append(factors, Factor{ID: rule.ID, Note: rule.Note})
		}
	}

	tier := tierFor(len(factors))
	return Assessment{
		Points:  len(factors),
		Tier:    tier,
		Label:   tier.Label(),
		Factors: factors,
	}
}

func tierFor(points int) Tier {
	switch {
	case points >= 3:
		return TierHigh
	case points >= 1:
		return TierModerate
	default:
		return TierLow
	}
}

// PatientRecord is one manually entered patient. The binding tags carry the
// bounds of the entry form; every field must be present. Fields whose zero
// value is in range are pointers so an omitted field is told apart from 0.
type PatientRecord struct {
	Age                  int      `json:"age" binding:"required,min=1,max=120"`
	Sex                  string   `json:"sex" binding:"required,oneof=Male Female"`
	RestingBloodPressure int      `json:"restingBloodPressure" binding:"required,min=50,max=250"`
	Cholesterol          int      `json:"cholesterol" binding:"required,min=50,max=800"`
	FastingSugarHigh     *bool    `json:"fastingSugarHigh" binding:"required"`
	RestingECG           string   `json:"restingEcg" binding:"required,oneof=Normal Abnormal Hypertrophy"`
	MaxHeartRate         int      `json:"maxHeartRate" binding:"required,min=60,max=250"`
	ExerciseAngina       *bool    `json:"exerciseAngina" binding:"required"`
	Oldpeak              *float64 `json:"oldpeak" binding:"required,min=0,max=10"`
	Slope                string   `json:"slope" binding:"required,oneof=Up Flat Down"`
	BMI                  float64  `json:"bmi" binding:"required,min=10,max=60"`
	StressLevel          int      `json:"stressLevel" binding:"required,min=1,max=10"`
	SleepHours           int      `json:"sleepHours" binding:"required,min=1,max=12"`
}

// Vitals expects a record that passed binding; a nil Oldpeak reads as 0.
func (p PatientRecord) Vitals() Vitals {
	var oldpeak float64
	if p.Oldpeak != nil {
		oldpeak = *p.Oldpeak
	}
	return Vitals{
		Cholesterol:          float64(p.Cholesterol),
		RestingBloodPressure: float64(p.RestingBloodPressure),
		Oldpeak:              oldpeak,
		BMI:                  p.BMI,
		StressLevel:          float64(p.StressLevel),
		MaxHeartRate:         float64(p.MaxHeartRate),
		SleepHours:           float64(p.SleepHours),
	}
}
