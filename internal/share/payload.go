// internal/share/payload.go
package share

import (
	"jobless/internal/common/i18n"
	"jobless/internal/scoring"
)

const (
	CurrentVersion = 2
	LegacyVersion  = 1

	MinYear = 2024
	MaxYear = 2100
)

// Text limits, in runes.
const (
	maxDriverRunes         = 72
	maxFactorRunes         = 72
	maxSecondaryFactors    = 3
	maxProtectionFactors   = 2
	maxRecommendations     = 4
	maxRecommendationRunes = 120
)

// Summary is what the caller asks to share. Percentages may be fractional; Encode rounds them.
type Summary struct {
	RiskLevel                scoring.RiskLevel `json:"riskLevel"`
	ReplacementProbability   float64           `json:"replacementProbability"`
	PredictedReplacementYear int               `json:"predictedReplacementYear"`
	CurrentReplacementDegree float64           `json:"currentReplacementDegree"`
	EarliestYear             int               `json:"earliestYear"`
	LatestYear               int               `json:"latestYear"`
	Lang                     i18n.Lang         `json:"lang"`
	Insights                 *Insights         `json:"insights,omitempty"`
	Recommendations          []string          `json:"recommendations,omitempty"`
}

// Insights is the shareable subset of scoring.Insights.
type Insights struct {
	PrimaryDriver     string   `json:"primaryDriver,omitempty"`
	SecondaryFactors  []string `json:"secondaryFactors,omitempty"`
	ProtectionFactors []string `json:"protectionFactors,omitempty"`
}

// Payload is the record carried inside a share token.
type Payload struct {
	RiskLevel                scoring.RiskLevel `json:"riskLevel"`
	ReplacementProbability   int               `json:"replacementProbability"`
	PredictedReplacementYear int               `json:"predictedReplacementYear"`
	CurrentReplacementDegree int               `json:"currentReplacementDegree"`
	EarliestYear             int               `json:"earliestYear"`
	LatestYear               int               `json:"latestYear"`
	Lang                     i18n.Lang         `json:"lang"`
	V                        int               `json:"v"`
	Insights                 *Insights         `json:"insights,omitempty"`
	Recommendations          []string          `json:"recommendations,omitempty"`
}

// SummaryFromOutput builds a share summary from a calculator result.
func SummaryFromOutput(out scoring.Output, lang i18n.Lang) Summary {
	return Summary{
		RiskLevel:                out.RiskLevel,
		ReplacementProbability:   float64(out.ReplacementProbability),
		PredictedReplacementYear: out.PredictedReplacementYear,
		CurrentReplacementDegree: float64(out.CurrentReplacementDegree),
		EarliestYear:             out.ConfidenceInterval.Earliest,
		LatestYear:               out.ConfidenceInterval.Latest,
		Lang:                     lang,
		Insights: &Insights{
			PrimaryDriver:     out.Insights.PrimaryDriver,
			SecondaryFactors:  append([]string(nil), out.Insights.SecondaryFactors...),
			ProtectionFactors: append([]string(nil), out.Insights.ProtectionFactors...),
		},
		Recommendations: append([]string(nil), out.Insights.Recommendations...),
	}
}
