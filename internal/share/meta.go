// internal/share/meta.go
package share

import (
	"fmt"
	"strings"

	"jobless/internal/common/i18n"
	"jobless/internal/scoring"
)

// Meta is the Open Graph metadata for a share page.
type Meta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Valid       bool   `json:"valid"`
}

var levelNames = map[scoring.RiskLevel]i18n.Text{
	scoring.RiskVeryLow:  {i18n.English: "Very Low", i18n.Chinese: "极低"},
	scoring.RiskLow:      {i18n.English: "Low", i18n.Chinese: "低"},
	scoring.RiskMedium:   {i18n.English: "Medium", i18n.Chinese: "中等"},
	scoring.RiskHigh:     {i18n.English: "High", i18n.Chinese: "高"},
	scoring.RiskCritical: {i18n.English: "Critical", i18n.Chinese: "极高"},
}

var (
	titleFormat = i18n.Text{
		i18n.English: "My AI replacement risk: %d%% (%s)",
		i18n.Chinese: "我的AI替代风险：%d%%（%s）",
	}
	descriptionFormat = i18n.Text{
		i18n.English: "Predicted replacement year %d (range %d-%d). Check how exposed your job is.",
		i18n.Chinese: "预计替代年份 %d（区间 %d-%d）。测测你的工作有多容易被AI替代。",
	}
	placeholderTitle = i18n.Text{
		i18n.English: "Invalid Share Link",
		i18n.Chinese: "分享链接无效",
	}
	placeholderDescription = i18n.Text{
		i18n.English: "This link is broken or expired. Calculate your own AI replacement risk.",
		i18n.Chinese: "该链接已失效。来计算你自己的AI替代风险吧。",
	}
)

// LevelName is the display name of a risk level.
func LevelName(level scoring.RiskLevel, lang i18n.Lang) string {
	if text, ok := levelNames[level]; ok {
		return text.Get(lang)
	}
	return string(level)
}

// MetaFromPayload builds page metadata for a decoded payload.
func MetaFromPayload(p *Payload, baseURL string) Meta {
	if p == nil {
		return PlaceholderMeta(baseURL, i18n.English)
	}
	return Meta{
		Title:       fmt.Sprintf(titleFormat.Get(p.Lang), p.ReplacementProbability, LevelName(p.RiskLevel, p.Lang)),
		Description: fmt.Sprintf(descriptionFormat.Get(p.Lang), p.PredictedReplacementYear, p.EarliestYear, p.LatestYear),
		ImageURL:    imageURL(baseURL, string(p.RiskLevel)),
		Valid:       true,
	}
}

// PlaceholderMeta is shown for tokens that fail to decode.
func PlaceholderMeta(baseURL string, lang i18n.Lang) Meta {
	return Meta{
		Title:       placeholderTitle.Get(lang),
		Description: placeholderDescription.Get(lang),
		ImageURL:    imageURL(baseURL, "default"),
	}
}

// MetaForToken decodes token and returns its metadata, or the placeholder.
func MetaForToken(token, baseURL string, lang i18n.Lang) Meta {
	p, ok := Decode(token)
	if !ok {
		return PlaceholderMeta(baseURL, lang)
	}
	return MetaFromPayload(p, baseURL)
}

func imageURL(baseURL, name string) string {
	return strings.TrimRight(baseURL, "/") + "/og/" + name + ".png"
}

// URL is the public share page for token.
func URL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/share/" + token
}
