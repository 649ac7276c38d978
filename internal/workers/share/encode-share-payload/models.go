// internal/workers/share/encode-share-payload/models.go
package encodesharepayload

import (
	"jobless/internal/scoring"
	"jobless/internal/share"
)

// Input accepts a share summary. When a calculate-ai-risk result is passed
// straight through, its confidenceInterval fills in the year range.
type Input struct {
	share.Summary
	ConfidenceInterval *scoring.ConfidenceInterval `json:"confidenceInterval,omitempty"`
}

type Output struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}
