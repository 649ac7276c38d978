// internal/workers/assessment/calculate-ai-risk/models.go
package calculateairisk

import "jobless/internal/scoring"

type Input struct {
	scoring.Input
	Lang string `json:"lang,omitempty"`
}

type Output struct {
	scoring.Output
	Lang string `json:"lang"`
}
