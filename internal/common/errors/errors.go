// Package errors provides standardized error handling for the HTTP API and BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidRequest         ErrorCode = "INVALID_REQUEST"
	ErrCodeSchemaValidationFailed ErrorCode = "SCHEMA_VALIDATION_FAILED"
	ErrCodeShareTokenInvalid      ErrorCode = "SHARE_TOKEN_INVALID"
	ErrCodeTelegramNotConfigured  ErrorCode = "TELEGRAM_NOT_CONFIGURED"
	ErrCodeTelegramUpstreamFailed ErrorCode = "TELEGRAM_UPSTREAM_FAILED"
	ErrCodeTelegramDuplicate      ErrorCode = "TELEGRAM_DUPLICATE"
	ErrCodeRateLimited            ErrorCode = "RATE_LIMITED"
	ErrCodeDatabaseInsertFailed   ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeQueryExecutionFailed   ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeCacheUnavailable       ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeStatsDisabled          ErrorCode = "STATS_DISABLED"
	ErrCodeTaskNotFound           ErrorCode = "TASK_NOT_FOUND"
	ErrCodeWorkflowUnavailable    ErrorCode = "WORKFLOW_ENGINE_UNAVAILABLE"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key to Metadata and returns e.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewInvalidRequestError creates a non-retryable error for malformed input.
func NewInvalidRequestError(details string) *StandardError {
	return newError(ErrCodeInvalidRequest, "Malformed request", details, false, nil)
}

// NewSchemaValidationFailedError creates a non-retryable schema error.
func NewSchemaValidationFailedError(details string) *StandardError {
	return newError(ErrCodeSchemaValidationFailed, "Request does not match schema", details, false, nil)
}

// NewShareTokenInvalidError is returned for tokens that fail to decode.
func NewShareTokenInvalidError() *StandardError {
	return newError(ErrCodeShareTokenInvalid, "Invalid share link", "", false, nil)
}

// NewTelegramNotConfiguredError reports a relay without bot credentials.
func NewTelegramNotConfiguredError() *StandardError {
	return newError(ErrCodeTelegramNotConfigured, "Telegram relay is not configured",
		"TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set", false, nil)
}

// NewTelegramUpstreamFailedError creates a retryable Bot API error.
func NewTelegramUpstreamFailedError(method string, err error) *StandardError {
	return newError(ErrCodeTelegramUpstreamFailed, "Telegram API request failed",
		fmt.Sprintf("method: %s, error: %s", method, err.Error()), true, err)
}

// NewTelegramDuplicateError marks a send suppressed by deduplication.
func NewTelegramDuplicateError(key string) *StandardError {
	return newError(ErrCodeTelegramDuplicate, "Duplicate message suppressed", fmt.Sprintf("key: %s", key), false, nil)
}

// NewRateLimitedError is returned when a client exceeds its request budget.
func NewRateLimitedError() *StandardError {
	return newError(ErrCodeRateLimited, "Too many requests", "", true, nil)
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert operation failed", err.Error(), true, err)
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()), true, err)
}

// NewCacheUnavailableError creates a retryable Redis error.
func NewCacheUnavailableError(err error) *StandardError {
	return newError(ErrCodeCacheUnavailable, "Cache unavailable", err.Error(), true, err)
}

// NewStatsDisabledError is returned by stats endpoints when stats are off.
func NewStatsDisabledError() *StandardError {
	return newError(ErrCodeStatsDisabled, "Assessment statistics are disabled", "", false, nil)
}

// NewTaskNotFoundError reports an unknown task type in the registry.
func NewTaskNotFoundError(taskType string) *StandardError {
	return newError(ErrCodeTaskNotFound, "Task not found in registry", fmt.Sprintf("taskType: %s", taskType), false, nil)
}

// NewWorkflowUnavailableError reports an unreachable or timed out Zeebe gateway.
func NewWorkflowUnavailableError(operation string, err error) *StandardError {
	return newError(ErrCodeWorkflowUnavailable, "Workflow engine unavailable",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true, err)
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false, err)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes. Codes not
// listed are thrown unchanged.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidRequest:         "INVALID_REQUEST",
	ErrCodeSchemaValidationFailed: "INVALID_REQUEST",
	ErrCodeShareTokenInvalid:      "SHARE_TOKEN_INVALID",
	ErrCodeTelegramNotConfigured:  "TELEGRAM_NOT_CONFIGURED",
	ErrCodeTelegramUpstreamFailed: "TELEGRAM_UPSTREAM_FAILED",
	ErrCodeDatabaseInsertFailed:   "DATABASE_INSERT_FAILED",
	ErrCodeQueryExecutionFailed:   "QUERY_EXECUTION_FAILED",
	ErrCodeCacheUnavailable:       "CACHE_UNAVAILABLE",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseInsertFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeTelegramUpstreamFailed:
		return 3

	case ErrCodeCacheUnavailable,
		ErrCodeWorkflowUnavailable,
		ErrCodeRateLimited:
		return 2

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError returns the StandardError in err's chain, or wraps err as INTERNAL_ERROR.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return stderrors.As(err, &stdErr) && stdErr.Code == code
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// HTTPStatus maps an error code to the response status used by the API.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest, ErrCodeSchemaValidationFailed:
		return http.StatusBadRequest
	case ErrCodeShareTokenInvalid, ErrCodeStatsDisabled, ErrCodeTaskNotFound:
		return http.StatusNotFound
	case ErrCodeTelegramNotConfigured:
		return http.StatusConflict
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeTelegramUpstreamFailed:
		return http.StatusBadGateway
	case ErrCodeCacheUnavailable, ErrCodeWorkflowUnavailable:
		return http.StatusServiceUnavailable
	case ErrCodeTelegramDuplicate:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "TELEGRAM"):
		return "TELEGRAM"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "SHARE"):
		return "SHARE"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case codeStr == string(ErrCodeRateLimited):
		return "RATE_LIMIT"
	case strings.HasPrefix(codeStr, "WORKFLOW"):
		return "WORKFLOW"
	default:
		return "OTHER"
	}
}
