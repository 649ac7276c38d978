// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"sync"
	"time"

	"jobless/internal/common/config"
	"jobless/internal/common/logger"
	"jobless/internal/common/metrics"
	"jobless/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandlerFunc handles one job and reports the error it failed the job with.
type JobHandlerFunc func(client worker.JobClient, job entities.Job) error

// Instrument adapts h to a Zeebe handler, recording the active-jobs gauge, the
// duration histogram and the OpenTelemetry task meter with h's outcome.
func Instrument(taskType string, h JobHandlerFunc, obs *observability.Observability) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		defer metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()

		err := h(client, job)
		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
		obs.Track(context.Background(), taskType, start, err)
	}
}

// Workers owns the job workers opened against one Zeebe client.
type Workers struct {
	client zbc.Client
	obs    *observability.Observability
	logger logger.Logger

	mu      sync.Mutex
	workers []worker.JobWorker
}

func NewWorkers(client zbc.Client, obs *observability.Observability, log logger.Logger) *Workers {
	return &Workers{client: client, obs: obs, logger: log}
}

// Start opens a job worker for taskType unless wcfg disables it.
func (w *Workers) Start(taskType string, wcfg config.WorkerConfig, h JobHandlerFunc) {
	if !wcfg.Enabled {
		w.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return
	}

	jobWorker := w.client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, h, w.obs)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	w.mu.Lock()
	w.workers = append(w.workers, jobWorker)
	w.mu.Unlock()

	w.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
}

// Len returns the number of open workers.
func (w *Workers) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.workers)
}

// Stop closes every worker and waits for in-flight jobs to finish.
func (w *Workers) Stop() {
	w.mu.Lock()
	workers := w.workers
	w.workers = nil
	w.mu.Unlock()

	for _, jw := range workers {
		jw.Close()
	}
	for _, jw := range workers {
		jw.AwaitClose()
	}
	w.logger.Info("workers stopped", map[string]interface{}{"count": len(workers)})
}
