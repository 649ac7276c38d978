// internal/share/codec.go
package share

import (
	"encoding/base64"
	"encoding/json"
	"math"

	"jobless/internal/common/i18n"
	"jobless/internal/scoring"
)

var tokenEncoding = base64.RawURLEncoding

// Normalize applies the encode-side coercions: clamping, risk level and
// language fallback, text sanitization and the current version stamp.
func Normalize(s Summary) Payload {
	probability := clampPercent(s.ReplacementProbability)

	level := s.RiskLevel
	if !level.IsValid() {
		level = scoring.DetermineRiskLevel(float64(probability))
	}

	lang, ok := i18n.Parse(string(s.Lang))
	if !ok {
		lang = i18n.English
	}

	earliest := clampYear(s.EarliestYear)
	latest := clampYear(s.LatestYear)
	if latest < earliest {
		latest = earliest
	}

	return Payload{
		RiskLevel:                level,
		ReplacementProbability:   probability,
		PredictedReplacementYear: clampYear(s.PredictedReplacementYear),
		CurrentReplacementDegree: clampPercent(s.CurrentReplacementDegree),
		EarliestYear:             earliest,
		LatestYear:               latest,
		Lang:                     lang,
		V:                        CurrentVersion,
		Insights:                 sanitizeInsights(s.Insights),
		Recommendations:          sanitizeRecommendations(s.Recommendations),
	}
}

// Encode turns a summary into a URL-safe token. It never fails: bad input is coerced.
func Encode(s Summary) string {
	// Payload holds only strings and ints; Marshal cannot fail.
	data, _ := json.Marshal(Normalize(s))
	return tokenEncoding.EncodeToString(data)
}

// wirePayload mirrors Payload with every field optional so presence can be checked.
type wirePayload struct {
	V                        *float64        `json:"v"`
	RiskLevel                *string         `json:"riskLevel"`
	ReplacementProbability   *float64        `json:"replacementProbability"`
	PredictedReplacementYear *float64        `json:"predictedReplacementYear"`
	CurrentReplacementDegree *float64        `json:"currentReplacementDegree"`
	EarliestYear             *float64        `json:"earliestYear"`
	LatestYear               *float64        `json:"latestYear"`
	Lang                     *string         `json:"lang"`
	Insights                 json.RawMessage `json:"insights"`
	Recommendations          json.RawMessage `json:"recommendations"`
}

// Decode parses a token. It returns false for anything that is not a
// structurally valid payload; tokens come from public URLs and are untrusted.
func Decode(token string) (*Payload, bool) {
	data, err := tokenEncoding.DecodeString(token)
	if err != nil {
		return nil, false
	}

	var w wirePayload
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, false
	}

	if w.V == nil || (*w.V != LegacyVersion && *w.V != CurrentVersion) {
		return nil, false
	}
	if w.RiskLevel == nil {
		return nil, false
	}
	level, err := scoring.ParseRiskLevel(*w.RiskLevel)
	if err != nil {
		return nil, false
	}
	numbers := []*float64{
		w.ReplacementProbability,
		w.PredictedReplacementYear,
		w.CurrentReplacementDegree,
		w.EarliestYear,
		w.LatestYear,
	}
	for _, n := range numbers {
		if n == nil || math.IsNaN(*n) || math.IsInf(*n, 0) {
			return nil, false
		}
	}
	if w.Lang == nil {
		return nil, false
	}
	lang, ok := i18n.Parse(*w.Lang)
	if !ok {
		return nil, false
	}
	if *w.LatestYear < *w.EarliestYear {
		return nil, false
	}

	p := &Payload{
		RiskLevel:                level,
		ReplacementProbability:   clampPercent(*w.ReplacementProbability),
		PredictedReplacementYear: clampYear(roundInt(*w.PredictedReplacementYear)),
		CurrentReplacementDegree: clampPercent(*w.CurrentReplacementDegree),
		EarliestYear:             clampYear(roundInt(*w.EarliestYear)),
		LatestYear:               clampYear(roundInt(*w.LatestYear)),
		Lang:                     lang,
		V:                        int(*w.V),
	}

	if p.V == CurrentVersion {
		p.Insights = sanitizeInsights(decodeInsights(w.Insights))
		p.Recommendations = sanitizeRecommendations(decodeStrings(w.Recommendations))
	}
	return p, true
}

// decodeInsights reads optional insight text leniently: wrongly typed members are ignored.
func decodeInsights(raw json.RawMessage) *Insights {
	if len(raw) == 0 {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil
	}

	in := &Insights{
		SecondaryFactors:  decodeStrings(fields["secondaryFactors"]),
		ProtectionFactors: decodeStrings(fields["protectionFactors"]),
	}
	if driver, ok := fields["primaryDriver"]; ok {
		_ = json.Unmarshal(driver, &in.PrimaryDriver)
	}
	return in
}

func decodeStrings(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var items []interface{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func clampPercent(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Max(0, math.Min(100, math.Round(v))))
}

func clampYear(y int) int {
	if y < MinYear {
		return MinYear
	}
	if y > MaxYear {
		return MaxYear
	}
	return y
}

// roundInt rounds a finite float and saturates it to the year range before converting.
func roundInt(v float64) int {
	return int(math.Max(MinYear-1, math.Min(MaxYear+1, math.Round(v))))
}
