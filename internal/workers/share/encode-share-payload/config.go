// internal/workers/share/encode-share-payload/config.go
package encodesharepayload

import "time"

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		BaseURL: "http://localhost:8080",
		Timeout: 5 * time.Second,
	}
}
