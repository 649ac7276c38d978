// internal/scoring/insights.go
package scoring

import (
	"sort"

	"jobless/internal/common/i18n"
)

const (
	protectiveThreshold = 60.0
	maxRecommendations  = 6
)

type contribution struct {
	dim   Dimension
	score float64
}

// rankDimensions orders the core dimensions by weighted contribution, highest first.
// Ties keep declaration order.
func rankDimensions(input Input) []contribution {
	ranked := []contribution{
		{DimDataOpenness, input.DataOpenness * weightDataOpenness},
		{DimWorkDataDigitalization, input.WorkDataDigitalization * weightWorkDataDigitalization},
		{DimProcessStandardization, input.ProcessStandardization * weightProcessStandardization},
		{DimCurrentAIAdoption, input.CurrentAIAdoption * weightCurrentAIAdoption},
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	return ranked
}

// GenerateInsights explains the score in the requested language.
// The current replacement degree is accepted but does not change the insights.
func GenerateInsights(input Input, probability, _ float64, lang i18n.Lang) Insights {
	ranked := rankDimensions(input)
	secondary := make([]string, 0, 2)
	for _, c := range ranked[1:3] {
		secondary = append(secondary, c.dim.DisplayName(lang))
	}

	return Insights{
		PrimaryDriver:     ranked[0].dim.DisplayName(lang),
		SecondaryFactors:  secondary,
		ProtectionFactors: protectionFactors(input, lang),
		Recommendations:   recommendations(input, probability, lang),
	}
}

func protectionFactors(input Input, lang i18n.Lang) []string {
	p := input.protective()

	var factors []string
	if p.creative > protectiveThreshold {
		factors = append(factors, message(msgProtectCreative, lang))
	}
	if p.interaction > protectiveThreshold {
		factors = append(factors, message(msgProtectInteraction, lang))
	}
	if p.physical > protectiveThreshold {
		factors = append(factors, message(msgProtectPhysical, lang))
	}
	if len(factors) == 0 {
		factors = append(factors, message(msgProtectNone, lang))
	}
	return factors
}

func recommendations(input Input, probability float64, lang i18n.Lang) []string {
	var keys []messageKey

	if probability >= 40 && probability <= 70 {
		keys = append(keys, msgRecCollaborate, msgRecSupervise)
	}
	if protectionScore(input) > 0.5 {
		keys = append(keys, msgRecStrongProtect)
	}
	if input.DataOpenness > 70 {
		keys = append(keys, msgRecOpenData)
	}
	if input.WorkDataDigitalization > 70 && input.CurrentAIAdoption < 30 {
		keys = append(keys, msgRecDigitalGap)
	}
	if input.ProcessStandardization > 70 {
		keys = append(keys, msgRecStandardized)
	}
	if input.protective().creative < 40 {
		keys = append(keys, msgRecLowCreative)
	}
	keys = append(keys, msgRecKeepLearning, msgRecBuildNetwork, msgRecTrackIndustry)

	if len(keys) > maxRecommendations {
		keys = keys[:maxRecommendations]
	}

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = message(k, lang)
	}
	return out
}
