// internal/workers/assessment/record-assessment/handler_test.go
package recordassessment

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "jobless/internal/common/errors"
	"jobless/internal/common/logger"
	"jobless/internal/stats"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestInput() *Input {
	return &Input{
		RiskLevel:              "medium",
		ReplacementProbability: 48,
		Industry:               "retail",
		Lang:                   "zh-TW",
	}
}

func createTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewHandler(LoadConfig(), stats.NewStore(db), logger.NewTestLogger(t)), mock
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	handler, mock := createTestHandler(t)

	mock.ExpectExec(`INSERT INTO assessments`).
		WithArgs(
			sqlmock.AnyArg(), // assessment ID (UUID)
			"medium",
			48,
			"retail",
			"zh",
			sqlmock.AnyArg(), // created_at
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	output, err := handler.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	assert.NotEmpty(t, output.AssessmentID)

	_, err = time.Parse(time.RFC3339, output.RecordedAt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_DatabaseError(t *testing.T) {
	handler, mock := createTestHandler(t)

	mock.ExpectExec(`INSERT INTO assessments`).
		WillReturnError(errors.New("database connection failed"))

	output, err := handler.Execute(context.Background(), createTestInput())
	assert.Nil(t, output)
	require.Error(t, err)

	stdErr := apperrors.AsStandardError(err)
	assert.Equal(t, apperrors.ErrCodeDatabaseInsertFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.Equal(t, 3, apperrors.ConvertToBPMNError(stdErr).Retries)
}

func TestHandler_Execute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Input)
	}{
		{"unknown risk level", func(in *Input) { in.RiskLevel = "extreme" }},
		{"empty risk level", func(in *Input) { in.RiskLevel = "" }},
		{"probability above range", func(in *Input) { in.ReplacementProbability = 101 }},
		{"negative probability", func(in *Input) { in.ReplacementProbability = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mock := createTestHandler(t)
			input := createTestInput()
			tt.modify(input)

			_, err := handler.Execute(context.Background(), input)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
