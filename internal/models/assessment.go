// internal/models/assessment.go
package models

// AssessmentRecord is the anonymous row kept per calculation. No free text from the
// user is stored.
type AssessmentRecord struct {
	ID                     string `json:"id"`
	RiskLevel              string `json:"riskLevel"`
	ReplacementProbability int    `json:"replacementProbability"`
	Industry               string `json:"industry"`
	Lang                   string `json:"lang"`
	CreatedAt              string `json:"createdAt"`
}

// LevelCount is one bucket of a RiskDistribution.
type LevelCount struct {
	RiskLevel          string  `json:"riskLevel"`
	Count              int     `json:"count"`
	AverageProbability float64 `json:"averageProbability"`
}

type RiskDistribution struct {
	Total              int          `json:"total"`
	Levels             []LevelCount `json:"levels"`
	AverageProbability float64      `json:"averageProbability"`
}
