// internal/scoring/industry.go
package scoring

import "jobless/internal/common/i18n"

// DefaultIndustry is used for unknown industry keys.
const DefaultIndustry = "other"

// IndustryFactor carries the per-industry coefficients.
type IndustryFactor struct {
	Key                string    `json:"key"`
	DataOpennessWeight float64   `json:"dataOpennessWeight"`
	Names              i18n.Text `json:"names"`
}

// Multiplier scales the exposure score into [0.8, 1.0].
func (f IndustryFactor) Multiplier() float64 {
	return 0.8 + f.DataOpennessWeight*0.2
}

var industries = map[string]IndustryFactor{
	"technology":     {Key: "technology", DataOpennessWeight: 0.90, Names: i18n.Text{i18n.English: "Technology", i18n.Chinese: "科技"}},
	"finance":        {Key: "finance", DataOpennessWeight: 0.85, Names: i18n.Text{i18n.English: "Finance", i18n.Chinese: "金融"}},
	"media":          {Key: "media", DataOpennessWeight: 0.80, Names: i18n.Text{i18n.English: "Media", i18n.Chinese: "传媒"}},
	"retail":         {Key: "retail", DataOpennessWeight: 0.70, Names: i18n.Text{i18n.English: "Retail", i18n.Chinese: "零售"}},
	"manufacturing":  {Key: "manufacturing", DataOpennessWeight: 0.65, Names: i18n.Text{i18n.English: "Manufacturing", i18n.Chinese: "制造业"}},
	"education":      {Key: "education", DataOpennessWeight: 0.60, Names: i18n.Text{i18n.English: "Education", i18n.Chinese: "教育"}},
	"legal":          {Key: "legal", DataOpennessWeight: 0.55, Names: i18n.Text{i18n.English: "Legal", i18n.Chinese: "法律"}},
	"transportation": {Key: "transportation", DataOpennessWeight: 0.50, Names: i18n.Text{i18n.English: "Transportation", i18n.Chinese: "交通运输"}},
	"healthcare":     {Key: "healthcare", DataOpennessWeight: 0.45, Names: i18n.Text{i18n.English: "Healthcare", i18n.Chinese: "医疗健康"}},
	"government":     {Key: "government", DataOpennessWeight: 0.40, Names: i18n.Text{i18n.English: "Government", i18n.Chinese: "政府机构"}},
	"hospitality":    {Key: "hospitality", DataOpennessWeight: 0.35, Names: i18n.Text{i18n.English: "Hospitality", i18n.Chinese: "酒店餐饮"}},
	"construction":   {Key: "construction", DataOpennessWeight: 0.30, Names: i18n.Text{i18n.English: "Construction", i18n.Chinese: "建筑"}},
	DefaultIndustry:  {Key: DefaultIndustry, DataOpennessWeight: 0.50, Names: i18n.Text{i18n.English: "Other", i18n.Chinese: "其他"}},
}

// LookupIndustry returns the factor for key, or the "other" entry when key is unknown.
func LookupIndustry(key string) IndustryFactor {
	if f, ok := industries[key]; ok {
		return f
	}
	return industries[DefaultIndustry]
}

// IndustryKeys returns every known industry key, including the default.
func IndustryKeys() []string {
	keys := make([]string, 0, len(industries))
	for k := range industries {
		keys = append(keys, k)
	}
	return keys
}
