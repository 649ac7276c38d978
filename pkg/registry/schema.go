// pkg/registry/schema.go
package registry

import "time"

// ActivityRegistry is the catalog of every task type jobless serves, loaded
// from activities.json. Workers and the HTTP API validate inputs against it.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes one task type: its JSON schemas, the error codes it may
// raise and its execution limits.
type Activity struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Version     string `json:"version"`
	// TaskType is the Zeebe job type and the key used by InputValidator.
	TaskType string `json:"taskType"`
	// ImplementationStatus is free text such as "verified" or "planned".
	ImplementationStatus string         `json:"implementationStatus"`
	InputSchema          map[string]any `json:"inputSchema"`
	OutputSchema         map[string]any `json:"outputSchema"`
	ErrorCodes           []string       `json:"errorCodes"`
	// Timeout is a Go duration string; empty means no activity-level limit.
	Timeout   string   `json:"timeout"`
	Retries   int      `json:"retries"`
	Workflows []string `json:"workflows"`
	Tags      []string `json:"tags"`
}

// TimeoutDuration parses Timeout, returning zero when it is empty or invalid.
// Validate rejects invalid values, so a validated registry never hits the
// second case.
func (a Activity) TimeoutDuration() time.Duration {
	if a.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(a.Timeout)
	if err != nil {
		return 0
	}
	return d
}
