// internal/common/errors/errors_test.go
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeInvalidRequest, http.StatusBadRequest},
		{ErrCodeSchemaValidationFailed, http.StatusBadRequest},
		{ErrCodeShareTokenInvalid, http.StatusNotFound},
		{ErrCodeStatsDisabled, http.StatusNotFound},
		{ErrCodeTelegramNotConfigured, http.StatusConflict},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeTelegramUpstreamFailed, http.StatusBadGateway},
		{ErrCodeCacheUnavailable, http.StatusServiceUnavailable},
		{ErrCodeWorkflowUnavailable, http.StatusServiceUnavailable},
		{ErrCodeDatabaseInsertFailed, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestConvertToBPMNError(t *testing.T) {
	t.Run("retryable upstream error", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewTelegramUpstreamFailedError("sendMessage", fmt.Errorf("502")))

		assert.Equal(t, "TELEGRAM_UPSTREAM_FAILED", bpmn.Code)
		assert.True(t, bpmn.Retryable)
		assert.Equal(t, 3, bpmn.Retries)
		assert.Equal(t, "TELEGRAM_UPSTREAM_FAILED", bpmn.ErrorVariables["originalErrorCode"])
	})

	t.Run("schema errors map to invalid request", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewSchemaValidationFailedError("industry: required"))

		assert.Equal(t, "INVALID_REQUEST", bpmn.Code)
		assert.Equal(t, 0, bpmn.Retries)
	})

	t.Run("unmapped code passes through", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewTaskNotFoundError("nope"))

		assert.Equal(t, "TASK_NOT_FOUND", bpmn.Code)
	})

	t.Run("non-retryable error gets no retries", func(t *testing.T) {
		stdErr := NewDatabaseInsertFailedError(fmt.Errorf("constraint"))
		stdErr.Retryable = false

		assert.Equal(t, 0, ConvertToBPMNError(stdErr).Retries)
	})
}

func TestBPMNError_ToErrorVariables(t *testing.T) {
	bpmn := &BPMNError{
		Code:           "SHARE_TOKEN_INVALID",
		Message:        "Invalid share link",
		ErrorVariables: map[string]interface{}{"token": "abc"},
	}

	vars := bpmn.ToErrorVariables()

	assert.Equal(t, "SHARE_TOKEN_INVALID", vars["errorCode"])
	assert.Equal(t, "abc", vars["token"])
	assert.Equal(t, false, vars["retryable"])
}

func TestAsStandardError(t *testing.T) {
	cause := stderrors.New("connection refused")
	wrapped := fmt.Errorf("recording: %w", NewDatabaseInsertFailedError(cause))

	stdErr := AsStandardError(wrapped)
	require.NotNil(t, stdErr)
	assert.Equal(t, ErrCodeDatabaseInsertFailed, stdErr.Code)
	assert.ErrorIs(t, wrapped, cause)
	assert.True(t, HasCode(wrapped, ErrCodeDatabaseInsertFailed))

	plain := AsStandardError(stderrors.New("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
	assert.False(t, HasCode(stderrors.New("boom"), ErrCodeInternal))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "TELEGRAM", GetErrorCategory(ErrCodeTelegramNotConfigured))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryExecutionFailed))
	assert.Equal(t, "CACHE", GetErrorCategory(ErrCodeCacheUnavailable))
	assert.Equal(t, "SHARE", GetErrorCategory(ErrCodeShareTokenInvalid))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeSchemaValidationFailed))
	assert.Equal(t, "RATE_LIMIT", GetErrorCategory(ErrCodeRateLimited))
	assert.Equal(t, "WORKFLOW", GetErrorCategory(ErrCodeWorkflowUnavailable))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestStandardError_WithMetadata(t *testing.T) {
	err := NewInvalidRequestError("bad json").WithMetadata("field", "text")

	assert.Equal(t, "text", err.Metadata["field"])
	assert.Contains(t, err.Error(), "INVALID_REQUEST")
	assert.True(t, IsRetryableErrorCode(ErrCodeDatabaseInsertFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeInvalidRequest))
}
