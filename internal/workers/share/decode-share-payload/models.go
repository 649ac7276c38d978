// internal/workers/share/decode-share-payload/models.go
package decodesharepayload

import "jobless/internal/share"

type Input struct {
	Token string `json:"token"`
	Lang  string `json:"lang,omitempty"` // placeholder language for invalid tokens
}

type Output struct {
	Valid   bool           `json:"valid"`
	Payload *share.Payload `json:"payload,omitempty"`
	Meta    share.Meta     `json:"meta"`
}
