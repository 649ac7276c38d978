// internal/workers/assessment/calculate-ai-risk/config.go
package calculateairisk

import "time"

type Config struct {
	Timeout time.Duration
	// Now is overridden in tests to pin the prediction base year.
	Now func() time.Time
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
		Now:     time.Now,
	}
}
