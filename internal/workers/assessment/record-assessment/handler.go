// internal/workers/assessment/record-assessment/handler.go
package recordassessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "jobless/internal/common/errors"
	"jobless/internal/common/i18n"
	"jobless/internal/common/logger"
	"jobless/internal/common/metrics"
	"jobless/internal/scoring"
	"jobless/internal/stats"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "record-assessment"
)

type Handler struct {
	config *Config
	store  *stats.Store
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, store *stats.Store, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		store:  store,
		errors: apperrors.NewErrorHandler(log),
		logger: log,
	}
}

// Handle processes one job. The returned error is the one the job was failed
// with, or nil once it completed.
func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return h.failJob(client, job, apperrors.NewInvalidRequestError(fmt.Sprintf("parse input: %v", err)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		return h.failJob(client, job, err)
	}

	return h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	level, err := scoring.ParseRiskLevel(input.RiskLevel)
	if err != nil {
		return nil, apperrors.NewInvalidRequestError(err.Error())
	}
	if input.ReplacementProbability < 0 || input.ReplacementProbability > 100 {
		return nil, apperrors.NewInvalidRequestError(
			fmt.Sprintf("replacementProbability out of range: %d", input.ReplacementProbability))
	}

	rec, err := h.store.Record(ctx, input.Industry, i18n.Normalize(input.Lang).String(), scoring.Output{
		RiskLevel:              level,
		ReplacementProbability: input.ReplacementProbability,
	})
	if err != nil {
		if errors.Is(err, stats.ErrDatabaseInsertFailed) {
			return nil, apperrors.NewDatabaseInsertFailedError(err)
		}
		return nil, apperrors.NewInternalError(err)
	}

	h.logger.Info("assessment recorded", map[string]interface{}{
		"assessmentId": rec.ID,
		"riskLevel":    rec.RiskLevel,
		"industry":     rec.Industry,
	})

	return &Output{
		AssessmentID: rec.ID,
		RecordedAt:   rec.CreatedAt,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return err
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return err
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.logger.Info("job completed successfully", map[string]interface{}{
		"jobKey": job.Key,
	})
	return nil
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) error {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.AsStandardError(err).Code)).Inc()
	h.errors.HandleJobError(context.Background(), client, job, err)
	return err
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
