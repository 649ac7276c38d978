// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobless_worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobless_worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "jobless_worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "jobless_worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobless_http_requests_total",
			Help: "HTTP requests by route and status code",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobless_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	Assessments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobless_assessments_total",
			Help: "Risk assessments computed, by risk level",
		},
		[]string{"risk_level"},
	)

	ShareDecodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobless_share_decode_total",
			Help: "Share token decode attempts by result",
		},
		[]string{"result"},
	)

	TelegramRelays = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobless_telegram_relay_total",
			Help: "Telegram relay attempts by method and result",
		},
		[]string{"method", "result"},
	)
)

// Result labels shared by the counters above.
const (
	ResultOK        = "ok"
	ResultInvalid   = "invalid"
	ResultDuplicate = "duplicate"
	ResultError     = "error"
)
