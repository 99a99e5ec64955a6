// cmd/worker-manager/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"endicode-workers/internal/analytics"
	"endicode-workers/internal/api"
	"endicode-workers/internal/common/aws"
	"endicode-workers/internal/common/camunda"
	"endicode-workers/internal/common/config"
	"endicode-workers/internal/common/database"
	"endicode-workers/internal/common/logger"
	"endicode-workers/internal/common/observability"
	"endicode-workers/internal/contact"
	"endicode-workers/internal/leads"
	"endicode-workers/internal/whatsapp"
	"endicode-workers/pkg/registry"

	// Contact Workers (3)
	sn "endicode-workers/internal/workers/contact/send-notification"
	sw "endicode-workers/internal/workers/contact/send-whatsapp"
	sc "endicode-workers/internal/workers/contact/submit-contact"

	// Lead Workers (1)
	sl "endicode-workers/internal/workers/leads/score-leads"

	// Triage Workers (2)
	ai "endicode-workers/internal/workers/triage/analyze-inquiry"
	di "endicode-workers/internal/workers/triage/detect-industry"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewStructured("info", "console").Error("config load failed", map[string]interface{}{"error": err})
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format).
		WithFields(map[string]interface{}{"service": cfg.App.Name, "version": cfg.App.Version})
	log.Info("starting worker manager", map[string]interface{}{"environment": cfg.App.Environment})

	if err := run(cfg, log); err != nil {
		log.Error("worker manager stopped with error", map[string]interface{}{"error": err})
		os.Exit(1)
	}
	log.Info("worker manager stopped", nil)
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = obs.Shutdown(sctx)
	}()

	// --- Init Zeebe Client with retry ---
	zb, err := camunda.NewClient(ctx, cfg.Camunda, camunda.DefaultRetryConfig, log)
	if err != nil {
		return err
	}
	defer zb.Close()
	log.Info("zeebe client connected", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

	// --- Init PostgreSQL with retry ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()
	pgRetry := camunda.DefaultRetryConfig
	pgRetry.MaxAttempts = 15
	if err := camunda.RetryWithBackoff(ctx, pgRetry, log, "postgres connection", pg.Ping); err != nil {
		return err
	}
	store := contact.NewStore(pg.DB)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	log.Info("postgres connected", nil)

	// --- Init Redis with retry ---
	rdb := database.NewRedis(cfg.Database.Redis)
	defer rdb.Close()
	if err := camunda.RetryWithBackoff(ctx, camunda.DefaultRetryConfig, log, "redis connection", rdb.Ping); err != nil {
		return err
	}
	log.Info("redis connected", nil)

	// --- Analytics ---
	var (
		sinks  analytics.MultiSink
		events api.EventReader
	)
	if cfg.Analytics.Enabled {
		stream := analytics.NewRedisStreamSink(rdb.Client, cfg.Analytics.Stream, cfg.Analytics.MaxLen)
		sinks = append(sinks, stream)
		events = stream
	}
	if cfg.Analytics.LogEvents {
		sinks = append(sinks, analytics.NewLogSink(log))
	}

	// --- External Service Clients ---
	awsClients, err := aws.NewClients(ctx, cfg.Notifications.AWS.Region)
	if err != nil {
		return err
	}
	notifier := contact.NewNotifier(awsClients.SES, awsClients.SNS, cfg.Notifications, log)
	wa := whatsapp.NewClient(cfg.WhatsApp)
	if !wa.Configured() {
		log.Warn("whatsapp is not configured; sends will fail", nil)
	}
	pipeline := leads.NewPipeline(sinks, obs, log)

	// --- Register Workers ---
	manager := camunda.NewManager(zb.Zeebe(), obs, log)
	defer manager.Close()

	timeout := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}

	manager.Register(ai.TaskType, config.GetWorkerConfig(cfg, ai.TaskType),
		ai.NewHandler(&ai.Config{PublicOrigin: cfg.App.PublicOrigin, Timeout: timeout(ai.TaskType)}, sinks, obs, log).Handle)
	manager.Register(di.TaskType, config.GetWorkerConfig(cfg, di.TaskType),
		di.NewHandler(&di.Config{Timeout: timeout(di.TaskType)}, log).Handle)
	manager.Register(sl.TaskType, config.GetWorkerConfig(cfg, sl.TaskType),
		sl.NewHandler(&sl.Config{MaxCSVBytes: int(cfg.Server.MaxUploadBytes), Timeout: timeout(sl.TaskType)}, pipeline, log).Handle)
	manager.Register(sc.TaskType, config.GetWorkerConfig(cfg, sc.TaskType),
		sc.NewHandler(&sc.Config{Timeout: timeout(sc.TaskType)}, store, log).Handle)
	manager.Register(sn.TaskType, config.GetWorkerConfig(cfg, sn.TaskType),
		sn.NewHandler(&sn.Config{Timeout: timeout(sn.TaskType)}, notifier, log).Handle)
	manager.Register(sw.TaskType, config.GetWorkerConfig(cfg, sw.TaskType),
		sw.NewHandler(&sw.Config{Timeout: timeout(sw.TaskType)}, wa, log).Handle)

	catalogue := registry.Default()
	for _, taskType := range manager.TaskTypes() {
		if _, ok := catalogue.Find(taskType); !ok {
			log.Warn("worker missing from activity registry", map[string]interface{}{"taskType": taskType})
		}
	}
	log.Info("workers registered", map[string]interface{}{"taskTypes": manager.TaskTypes()})

	// --- HTTP API, Health & Metrics ---
	router := api.NewRouter(cfg.App, cfg.Server, api.Deps{
		Contacts: contact.NewService(store, notifier, log),
		Leads:    pipeline,
		WhatsApp: wa,
		Sink:     sinks,
		Events:   events,
		Obs:      obs,
		Checks: map[string]api.Check{
			"postgres": pg.Ping,
			"redis":    rdb.Ping,
			"zeebe":    zb.HealthCheck,
		},
	}, log)
	server := api.NewServer(cfg.Server, router, log)
	serverErr := server.Start()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received", nil)
	case err := <-serverErr:
		if err != nil {
			return err
		}
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(sctx)
}
