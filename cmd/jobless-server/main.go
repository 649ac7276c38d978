// cmd/jobless-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"jobless/internal/api"
	"jobless/internal/common/camunda"
	"jobless/internal/common/config"
	"jobless/internal/common/database"
	"jobless/internal/common/logger"
	"jobless/internal/common/observability"
	"jobless/internal/common/telegram"
	"jobless/internal/content"
	"jobless/internal/stats"
	"jobless/pkg/registry"

	car "jobless/internal/workers/assessment/calculate-ai-risk"
	ra "jobless/internal/workers/assessment/record-assessment"
	dsp "jobless/internal/workers/share/decode-share-payload"
	esp "jobless/internal/workers/share/encode-share-payload"
	tsm "jobless/internal/workers/telegram/send-message"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

type pingCloser interface {
	Ping(ctx context.Context) error
	Close() error
}

// pingOrClose closes c when the ping fails so a retried connect does not
// leave the previous pool open.
func pingOrClose(ctx context.Context, c pingCloser) error {
	if err := c.Ping(ctx); err != nil {
		c.Close()
		return err
	}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting jobless server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name, observability.WithLogger(log))
	defer obs.Shutdown()

	ctx := context.Background()
	now := time.Now
	checks := map[string]api.ReadinessCheck{}

	// --- Activity registry ---
	var reg *registry.ActivityRegistry
	if cfg.Registry.Path != "" {
		reg, err = registry.LoadRegistry(cfg.Registry.Path)
	} else {
		reg, err = registry.Default()
	}
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	validator, err := registry.NewInputValidator(reg)
	if err != nil {
		zapLog.Fatal("activity schemas failed to compile", zap.Error(err))
	}

	catalog, err := content.Default()
	if err != nil {
		zapLog.Fatal("research catalog load failed", zap.Error(err))
	}

	// --- PostgreSQL (assessment statistics) ---
	var store *stats.Store
	if cfg.Stats.Enabled {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pingOrClose(ctx, pg)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		store = stats.NewStore(pg.DB, stats.WithClock(now))
		if err := store.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("assessments schema setup failed", zap.Error(err))
		}
		checks["postgres"] = pg.Ping
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Redis (Telegram dedupe) ---
	var deduper telegram.Deduper
	if cfg.Database.Redis.Enabled {
		var rdb *database.RedisClient
		err = retryWithBackoff(func() error {
			rdb = database.NewRedis(cfg.Database.Redis)
			if err := rdb.Ping(ctx); err != nil {
				rdb.Close()
				return err
			}
			return nil
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()

		deduper = rdb
		checks["redis"] = rdb.Ping
		zapLog.Info("Redis connected successfully")
	}

	// --- Telegram relay ---
	tgClient := telegram.NewClient(cfg.Telegram)
	relay := telegram.NewRelay(tgClient, deduper, config.GetDuration(cfg.Telegram.DedupeTTL), log)
	if !relay.Configured() {
		zapLog.Warn("Telegram relay not configured; share-to-Telegram routes will answer 409")
	}

	// --- Zeebe workers ---
	var workers *camunda.Workers
	if cfg.Camunda.Enabled {
		zeebe, err := camunda.NewClientWithConfig(ctx, camunda.ConfigFrom(cfg.Camunda))
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		defer zeebe.Close()
		checks["zeebe"] = zeebe.HealthCheck

		workers = camunda.NewWorkers(zeebe.GetClient(), obs, log)
		registerWorkers(workers, cfg, validator, store, relay, log)
		zapLog.Info("Zeebe workers registered", zap.Int("count", workers.Len()))
	}

	// --- HTTP API ---
	server := api.NewServer(api.Deps{
		Config:    cfg.Server,
		Logger:    log,
		Validator: validator,
		Relay:     relay,
		Stats:     store,
		Catalog:   catalog,
		Obs:       obs,
		Checks:    checks,
		Now:       now,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		zapLog.Info("Shutdown signal received, draining...")
	case err := <-errCh:
		if err != nil {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	if workers != nil {
		workers.Stop()
	}

	zapLog.Info("Jobless server stopped gracefully")
}

func registerWorkers(w *camunda.Workers, cfg *config.Config, validator *registry.InputValidator, store *stats.Store, relay *telegram.Relay, log logger.Logger) {
	timeout := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}

	// Calculate AI Risk
	{
		wc := car.LoadConfig()
		wc.Timeout = timeout(car.TaskType)
		handler := car.NewHandler(wc, validator, log)
		w.Start(car.TaskType, config.GetWorkerConfig(cfg, car.TaskType), handler.Handle)
	}

	// Record Assessment needs the statistics store.
	if store != nil {
		wc := ra.LoadConfig()
		wc.Timeout = timeout(ra.TaskType)
		handler := ra.NewHandler(wc, store, log)
		w.Start(ra.TaskType, config.GetWorkerConfig(cfg, ra.TaskType), handler.Handle)
	} else {
		log.Info("stats disabled, skipping worker", map[string]interface{}{"taskType": ra.TaskType})
	}

	// Encode Share Payload
	{
		wc := esp.LoadConfig()
		wc.BaseURL = cfg.Server.BaseURL
		wc.Timeout = timeout(esp.TaskType)
		handler := esp.NewHandler(wc, log)
		w.Start(esp.TaskType, config.GetWorkerConfig(cfg, esp.TaskType), handler.Handle)
	}

	// Decode Share Payload
	{
		wc := dsp.LoadConfig()
		wc.BaseURL = cfg.Server.BaseURL
		wc.Timeout = timeout(dsp.TaskType)
		handler := dsp.NewHandler(wc, log)
		w.Start(dsp.TaskType, config.GetWorkerConfig(cfg, dsp.TaskType), handler.Handle)
	}

	// Telegram Send Message
	{
		wc := tsm.LoadConfig()
		wc.Timeout = timeout(tsm.TaskType)
		handler := tsm.NewHandler(wc, relay, log)
		w.Start(tsm.TaskType, config.GetWorkerConfig(cfg, tsm.TaskType), handler.Handle)
	}
}
