// internal/scoring/calculator.go
package scoring

import (
	"math"
	"time"

	"jobless/internal/common/i18n"
)

// Core dimension weights; they sum to 1.0.
const (
	weightDataOpenness           = 0.25
	weightWorkDataDigitalization = 0.30
	weightProcessStandardization = 0.25
	weightCurrentAIAdoption      = 0.20
)

// Protective blend weights and the maximum discount they can apply.
const (
	weightCreative     = 0.4
	weightInteraction  = 0.4
	weightPhysical     = 0.2
	maxProtectDiscount = 0.3
)

// Timeline model constants.
const (
	lowRiskThreshold    = 20.0
	highRiskThreshold   = 80.0
	baselineGrowthRate  = 15.0 // adoption points per year
	globalAcceleration  = 1.2
	opennessAccelWeight = 0.5
	processAccelWeight  = 0.3
	slowdownCoefficient = 0.2
	uncertaintyBand     = 0.4
	adoptionEfficiency  = 0.7
)

// CalculateAIRisk scores input against the current calendar year.
func CalculateAIRisk(input Input, lang i18n.Lang) Output {
	return CalculateAIRiskAt(input, lang, time.Now().Year())
}

// CalculateAIRiskAt is CalculateAIRisk with an explicit current year.
func CalculateAIRiskAt(input Input, lang i18n.Lang, currentYear int) Output {
	probability := CalculateReplacementProbability(input)
	year, interval := PredictReplacementYear(input, probability, currentYear)
	degree := CalculateCurrentReplacementDegree(input)

	return Output{
		ReplacementProbability:   int(math.Round(probability)),
		PredictedReplacementYear: year,
		CurrentReplacementDegree: int(math.Round(degree)),
		RiskLevel:                DetermineRiskLevel(probability),
		ConfidenceInterval:       interval,
		DetailedAnalysis:         analyze(input),
		Insights:                 GenerateInsights(input, probability, degree, lang),
	}
}

// CalculateReplacementProbability is exposure x industry multiplier, discounted by protective traits.
func CalculateReplacementProbability(input Input) float64 {
	base := input.DataOpenness*weightDataOpenness +
		input.WorkDataDigitalization*weightWorkDataDigitalization +
		input.ProcessStandardization*weightProcessStandardization +
		input.CurrentAIAdoption*weightCurrentAIAdoption

	probability := base * LookupIndustry(input.Industry).Multiplier()
	probability *= 1 - protectionScore(input)*maxProtectDiscount

	return clamp(probability, 0, 100)
}

// protectionScore blends the optional dimensions into [0,1] for in-range inputs.
func protectionScore(input Input) float64 {
	p := input.protective()
	return (p.creative*weightCreative + p.interaction*weightInteraction + p.physical*weightPhysical) / 100
}

// PredictReplacementYear estimates when the role is replaced. Exactly 20 and exactly 80
// fall into the modelled middle branch.
func PredictReplacementYear(input Input, probability float64, currentYear int) (int, ConfidenceInterval) {
	if probability < lowRiskThreshold {
		return currentYear + 20, ConfidenceInterval{Earliest: currentYear + 15, Latest: currentYear + 30}
	}
	if probability > highRiskThreshold {
		return currentYear + 2, ConfidenceInterval{Earliest: currentYear + 1, Latest: currentYear + 4}
	}

	gap := 100 - input.CurrentAIAdoption
	opennessBoost := 1 + input.DataOpenness/100*opennessAccelWeight
	processBoost := 1 + input.ProcessStandardization/100*processAccelWeight
	slowdown := 1 + math.Log(100/(gap+1))*slowdownCoefficient

	rate := baselineGrowthRate * globalAcceleration * opennessBoost * processBoost / slowdown

	years := int(math.Ceil(gap / rate))
	if years < 1 {
		years = 1
	}

	return currentYear + years, ConfidenceInterval{
		Earliest: currentYear + int(math.Ceil(float64(years)*(1-uncertaintyBand))),
		Latest:   currentYear + int(math.Ceil(float64(years)*(1+uncertaintyBand))),
	}
}

// CalculateCurrentReplacementDegree discounts self-reported adoption by how digital and
// standardized the work already is.
func CalculateCurrentReplacementDegree(input Input) float64 {
	degree := input.CurrentAIAdoption * adoptionEfficiency *
		(input.WorkDataDigitalization / 100) *
		(input.ProcessStandardization / 100)
	return clamp(degree, 0, 100)
}

// DetermineRiskLevel buckets probability with inclusive lower bounds.
func DetermineRiskLevel(probability float64) RiskLevel {
	switch {
	case probability >= 80:
		return RiskCritical
	case probability >= 60:
		return RiskHigh
	case probability >= 40:
		return RiskMedium
	case probability >= 20:
		return RiskLow
	default:
		return RiskVeryLow
	}
}

func analyze(input Input) DetailedAnalysis {
	return DetailedAnalysis{
		AutomationPotential: input.ProcessStandardization*0.4 +
			input.WorkDataDigitalization*0.3 +
			input.DataOpenness*0.3,
		TechnicalFeasibility: input.WorkDataDigitalization*0.4 +
			input.DataOpenness*0.35 +
			input.CurrentAIAdoption*0.25,
		EconomicViability: input.ProcessStandardization*0.35 +
			input.CurrentAIAdoption*0.35 +
			input.WorkDataDigitalization*0.3,
		TimelineAcceleration: input.CurrentAIAdoption*0.5 +
			input.DataOpenness*0.25 +
			input.ProcessStandardization*0.25,
	}
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
