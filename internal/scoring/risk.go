// internal/scoring/risk.go
package scoring

import "fmt"

// RiskLevel buckets a replacement probability.
type RiskLevel string

const (
	RiskVeryLow  RiskLevel = "very-low"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RiskLevels lists every level from lowest to highest.
var RiskLevels = []RiskLevel{RiskVeryLow, RiskLow, RiskMedium, RiskHigh, RiskCritical}

func (r RiskLevel) String() string {
	return string(r)
}

// IsValid returns true if the level is a known value.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskVeryLow, RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	default:
		return false
	}
}

// ParseRiskLevel reconstructs a RiskLevel from its string representation.
func ParseRiskLevel(s string) (RiskLevel, error) {
	r := RiskLevel(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid risk level: %s", s)
	}
	return r, nil
}

// DefaultProtectiveValue is used for any protective dimension the caller leaves unset.
const DefaultProtectiveValue = 50.0

// Input holds the calculator sliders. Dimension values are percentages in [0,100];
// the scorer does not clamp them.
type Input struct {
	Industry               string  `json:"industry"`
	YearsOfExperience      int     `json:"yearsOfExperience"`
	DataOpenness           float64 `json:"dataOpenness"`
	WorkDataDigitalization float64 `json:"workDataDigitalization"`
	ProcessStandardization float64 `json:"processStandardization"`
	CurrentAIAdoption      float64 `json:"currentAIAdoption"`

	CreativeRequirement *float64 `json:"creativeRequirement,omitempty"`
	HumanInteraction    *float64 `json:"humanInteraction,omitempty"`
	PhysicalOperation   *float64 `json:"physicalOperation,omitempty"`
}

// protective holds the optional dimensions with defaults applied.
type protective struct {
	creative    float64
	interaction float64
	physical    float64
}

func (in Input) protective() protective {
	return protective{
		creative:    valueOrDefault(in.CreativeRequirement),
		interaction: valueOrDefault(in.HumanInteraction),
		physical:    valueOrDefault(in.PhysicalOperation),
	}
}

func valueOrDefault(v *float64) float64 {
	if v == nil {
		return DefaultProtectiveValue
	}
	return *v
}

// Float returns a pointer to v, for filling the optional Input fields.
func Float(v float64) *float64 {
	return &v
}

// ConfidenceInterval bounds the predicted replacement year.
type ConfidenceInterval struct {
	Earliest int `json:"earliest"`
	Latest   int `json:"latest"`
}

// DetailedAnalysis is presentation only and never feeds back into the headline numbers.
type DetailedAnalysis struct {
	AutomationPotential  float64 `json:"automationPotential"`
	TechnicalFeasibility float64 `json:"technicalFeasibility"`
	EconomicViability    float64 `json:"economicViability"`
	TimelineAcceleration float64 `json:"timelineAcceleration"`
}

type Insights struct {
	PrimaryDriver     string   `json:"primaryDriver"`
	SecondaryFactors  []string `json:"secondaryFactors"`
	ProtectionFactors []string `json:"protectionFactors"`
	Recommendations   []string `json:"recommendations"`
}

type Output struct {
	ReplacementProbability   int                `json:"replacementProbability"`
	PredictedReplacementYear int                `json:"predictedReplacementYear"`
	CurrentReplacementDegree int                `json:"currentReplacementDegree"`
	RiskLevel                RiskLevel          `json:"riskLevel"`
	ConfidenceInterval       ConfidenceInterval `json:"confidenceInterval"`
	DetailedAnalysis         DetailedAnalysis   `json:"detailedAnalysis"`
	Insights                 Insights           `json:"insights"`
}
