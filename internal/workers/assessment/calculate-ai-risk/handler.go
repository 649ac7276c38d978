// internal/workers/assessment/calculate-ai-risk/handler.go
package calculateairisk

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "jobless/internal/common/errors"
	"jobless/internal/common/i18n"
	"jobless/internal/common/logger"
	"jobless/internal/common/metrics"
	"jobless/internal/scoring"
	"jobless/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "calculate-ai-risk"
)

type Handler struct {
	config    *Config
	validator *registry.InputValidator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

// NewHandler builds the handler. validator may be nil, in which case job variables
// are not checked against the registry schema.
func NewHandler(config *Config, validator *registry.InputValidator, log logger.Logger) *Handler {
	if config.Now == nil {
		config.Now = time.Now
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		validator: validator,
		errors:    apperrors.NewErrorHandler(log),
		logger:    log,
	}
}

// Handle processes one job. The returned error is the one the job was failed
// with, or nil once it completed.
func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	if err := h.validate([]byte(job.Variables)); err != nil {
		return h.failJob(client, job, err)
	}

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

func (h *Handler) validate(variables []byte) error {
	if h.validator == nil {
		return nil
	}
	result, err := h.validator.ValidateJSON(TaskType, variables)
	if err != nil {
		return apperrors.NewInvalidRequestError(err.Error())
	}
	if !result.Valid {
		return apperrors.NewSchemaValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, apperrors.NewInvalidRequestError("input cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	lang := i18n.Normalize(input.Lang)
	result := scoring.CalculateAIRiskAt(input.Input, lang, h.config.Now().Year())
	metrics.Assessments.WithLabelValues(result.RiskLevel.String()).Inc()

	h.logger.Debug("risk calculated", map[string]interface{}{
		"industry":               scoring.LookupIndustry(input.Industry).Key,
		"riskLevel":              result.RiskLevel.String(),
		"replacementProbability": result.ReplacementProbability,
	})

	return &Output{Output: result, Lang: lang.String()}, nil
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
