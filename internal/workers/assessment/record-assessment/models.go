// internal/workers/assessment/record-assessment/models.go
package recordassessment

type Input struct {
	RiskLevel              string `json:"riskLevel"`
	ReplacementProbability int    `json:"replacementProbability"`
	Industry               string `json:"industry"`
	Lang                   string `json:"lang"`
}

type Output struct {
	AssessmentID string `json:"assessmentId"`
	RecordedAt   string `json:"recordedAt"` // ISO 8601
}
