// internal/workers/telegram/send-message/models.go
package sendmessage

// Input carries either text or a photo URL. When both are set the photo is sent
// with Caption, falling back to Text as the caption.
type Input struct {
	Text     string `json:"text,omitempty"`
	PhotoURL string `json:"photoUrl,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

type Output struct {
	OK        bool `json:"ok"`
	Duplicate bool `json:"duplicate"`
}
