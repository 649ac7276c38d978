// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"jobless/internal/common/validation"
)

//go:embed activities.json
var embeddedActivities []byte

var ErrTaskNotFound = errors.New("TASK_NOT_FOUND")

// LoadRegistry reads a registry file from disk.
func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes registry JSON.
func Parse(data []byte) (*ActivityRegistry, error) {
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	return &reg, nil
}

var (
	defaultOnce sync.Once
	defaultReg  *ActivityRegistry
	defaultErr  error
)

// Default returns the registry compiled into the binary.
func Default() (*ActivityRegistry, error) {
	defaultOnce.Do(func() {
		defaultReg, defaultErr = Parse(embeddedActivities)
	})
	return defaultReg, defaultErr
}

// Find returns the activity for a task type.
func (r *ActivityRegistry) Find(taskType string) (*Activity, error) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskType)
}

// Validate checks required fields, uniqueness, timeouts and that every schema compiles.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, activity := range r.Activities {
		if activity.ID == "" {
			return fmt.Errorf("activity missing required field: ID")
		}
		if ids[activity.ID] {
			return fmt.Errorf("duplicate activity ID: %s", activity.ID)
		}
		ids[activity.ID] = true

		if activity.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: DisplayName", activity.ID)
		}
		if activity.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: TaskType", activity.ID)
		}
		if taskTypes[activity.TaskType] {
			return fmt.Errorf("duplicate task type: %s", activity.TaskType)
		}
		taskTypes[activity.TaskType] = true

		if activity.Category == "" {
			return fmt.Errorf("activity %s missing required field: Category", activity.ID)
		}
		if activity.Timeout != "" {
			if _, err := time.ParseDuration(activity.Timeout); err != nil {
				return fmt.Errorf("activity %s has invalid timeout %q: %w", activity.ID, activity.Timeout, err)
			}
		}
		if activity.Retries < 0 {
			return fmt.Errorf("activity %s has negative retries", activity.ID)
		}
		for name, schema := range map[string]map[string]interface{}{
			"inputSchema":  activity.InputSchema,
			"outputSchema": activity.OutputSchema,
		} {
			if len(schema) == 0 {
				continue
			}
			if _, err := validation.Compile(schema); err != nil {
				return fmt.Errorf("activity %s has invalid %s: %w", activity.ID, name, err)
			}
		}
	}
	return nil
}

// InputValidator compiles the input schemas of every activity, keyed by task type.
type InputValidator struct {
	schemas map[string]*validation.Schema
}

// NewInputValidator compiles r's input schemas.
func NewInputValidator(r *ActivityRegistry) (*InputValidator, error) {
	v := &InputValidator{schemas: make(map[string]*validation.Schema)}
	for _, activity := range r.Activities {
		if len(activity.InputSchema) == 0 {
			continue
		}
		schema, err := validation.Compile(activity.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("activity %s: %w", activity.ID, err)
		}
		v.schemas[activity.TaskType] = schema
	}
	return v, nil
}

// ValidateJSON validates raw input for taskType. Task types without a schema accept anything.
func (v *InputValidator) ValidateJSON(taskType string, data []byte) (*validation.ValidationResult, error) {
	schema, ok := v.schemas[taskType]
	if !ok {
		return &validation.ValidationResult{Valid: true}, nil
	}
	return schema.ValidateJSON(data)
}
