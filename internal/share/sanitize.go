// internal/share/sanitize.go
package share

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SanitizeText normalizes s to NFC, drops control characters, collapses whitespace
// runs to a single space, trims, and truncates to maxRunes.
func SanitizeText(s string, maxRunes int) string {
	s = norm.NFC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case unicode.IsControl(r), r == unicode.ReplacementChar:
		default:
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}

	out := b.String()
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(out)
	if len(runes) > maxRunes {
		out = strings.TrimRightFunc(string(runes[:maxRunes]), unicode.IsSpace)
	}
	return out
}

// sanitizeList sanitizes each entry, skips empties and keeps at most maxItems.
func sanitizeList(items []string, maxItems, maxRunes int) []string {
	var out []string
	for _, item := range items {
		if len(out) == maxItems {
			break
		}
		if s := SanitizeText(item, maxRunes); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func sanitizeInsights(in *Insights) *Insights {
	if in == nil {
		return nil
	}
	out := &Insights{
		PrimaryDriver:     SanitizeText(in.PrimaryDriver, maxDriverRunes),
		SecondaryFactors:  sanitizeList(in.SecondaryFactors, maxSecondaryFactors, maxFactorRunes),
		ProtectionFactors: sanitizeList(in.ProtectionFactors, maxProtectionFactors, maxFactorRunes),
	}
	if out.PrimaryDriver == "" && len(out.SecondaryFactors) == 0 && len(out.ProtectionFactors) == 0 {
		return nil
	}
	return out
}

func sanitizeRecommendations(recs []string) []string {
	return sanitizeList(recs, maxRecommendations, maxRecommendationRunes)
}
