// internal/workers/telegram/send-message/handler.go
package sendmessage

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "jobless/internal/common/errors"
	"jobless/internal/common/logger"
	"jobless/internal/common/metrics"
	"jobless/internal/common/telegram"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "telegram-send-message"
)

type Handler struct {
	config *Config
	relay  *telegram.Relay
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, relay *telegram.Relay, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		relay:  relay,
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
	if input == nil {
		return nil, apperrors.NewInvalidRequestError("input cannot be nil")
	}

	var (
		result *telegram.Result
		err    error
	)
	switch {
	case input.PhotoURL != "":
		caption := input.Caption
		if caption == "" {
			caption = input.Text
		}
		result, err = h.relay.PhotoURL(ctx, input.PhotoURL, caption)
	case input.Text != "":
		result, err = h.relay.Message(ctx, input.Text)
	default:
		return nil, apperrors.NewInvalidRequestError("text or photoUrl is required")
	}
	if err != nil {
		return nil, err
	}

	return &Output{OK: result.OK, Duplicate: result.Duplicate}, nil
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
