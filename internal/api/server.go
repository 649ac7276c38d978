// internal/api/server.go
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"jobless/internal/common/config"
	"jobless/internal/common/logger"
	"jobless/internal/common/observability"
	"jobless/internal/common/telegram"
	"jobless/internal/content"
	"jobless/internal/stats"
	"jobless/pkg/registry"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessCheck reports whether a dependency is usable.
type ReadinessCheck func(ctx context.Context) error

// Deps are the collaborators the HTTP surface needs. Stats may be nil when
// assessment statistics are disabled.
type Deps struct {
	Config    config.ServerConfig
	Logger    logger.Logger
	Validator *registry.InputValidator
	Relay     *telegram.Relay
	Stats     *stats.Store
	Catalog   *content.Catalog
	Obs       *observability.Observability
	Checks    map[string]ReadinessCheck
	Now       func() time.Time
}

type Server struct {
	deps    Deps
	logger  logger.Logger
	limiter *RateLimiter
	handler http.Handler
	http    *http.Server
}

func NewServer(deps Deps) *Server {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}

	s := &Server{
		deps:    deps,
		logger:  deps.Logger.WithFields(map[string]interface{}{"component": "api"}),
		limiter: NewRateLimiter(deps.Config.RateLimitRPS, deps.Config.RateLimitBurst),
	}
	s.handler = requestID(observe(s.logger, s.routes()))
	s.http = &http.Server{
		Addr:         deps.Config.Address,
		Handler:      s.handler,
		ReadTimeout:  time.Duration(deps.Config.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(deps.Config.WriteTimeout) * time.Millisecond,
	}
	return s
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	limited := func(h http.HandlerFunc) http.Handler {
		return s.limiter.Middleware(h)
	}

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/risk/calculate", s.handleCalculate)

	mux.Handle("POST /api/share", limited(s.handleShareCreate))
	mux.Handle("GET /api/share/{token}", limited(s.handleShareGet))
	mux.Handle("GET /api/share/{token}/meta", limited(s.handleShareMeta))

	mux.Handle("POST /api/telegram/message", limited(s.handleTelegramMessage))
	mux.Handle("POST /api/telegram/photo", limited(s.handleTelegramPhoto))

	mux.HandleFunc("GET /api/research", s.handleResearch)
	mux.HandleFunc("GET /api/stats/assessments", s.handleStats)

	return mux
}

// ListenAndServe blocks until the server stops. It returns nil after Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", map[string]interface{}{"address": s.http.Addr})
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
