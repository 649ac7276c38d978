// internal/workers/share/decode-share-payload/config.go
package decodesharepayload

import "time"

type Config struct {
	BaseURL string
	// FailOnInvalid throws SHARE_TOKEN_INVALID instead of completing with valid=false.
	FailOnInvalid bool
	Timeout       time.Duration
}

func LoadConfig() *Config {
	return &Config{
		BaseURL: "http://localhost:8080",
		Timeout: 5 * time.Second,
	}
}
