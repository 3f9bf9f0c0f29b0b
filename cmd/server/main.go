package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadnavi/internal/ai"
	"leadnavi/internal/api"
	"leadnavi/internal/config"
	"leadnavi/internal/domain"
	"leadnavi/internal/events"
	"leadnavi/internal/logging"
	"leadnavi/internal/mailer"
	"leadnavi/internal/metrics"
	"leadnavi/internal/repository"
	"leadnavi/internal/service"
	"leadnavi/internal/store"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	st, err := store.New(cfg.Storage.DataDir, logger)
	if err != nil {
		logger.Error().Err(err).Str("data_dir", cfg.Storage.DataDir).Msg("init store")
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := events.NewEventBus()

	state := initStateRepository(ctx, cfg, logger)

	advisor := initAdvisor(ctx, cfg, logger)
	if advisor != nil {
		defer (func() { _ = advisor.Close() })()
	}

	notifier := mailer.New(cfg.Mail, logger)
	mailer.NewSubscriber(notifier, cfg.Mail, cfg.Links, logger).Subscribe(bus)

	svc := buildServices(st, bus, state, advisor, cfg, logger)

	backup := store.NewBackupService(cfg.Storage.DataDir, cfg.Backup, logger)
	go backup.Start(ctx)

	startMetrics(ctx, cfg, logger)

	server := api.NewServer(cfg, svc, logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}

	logger.Info().Msg("server stopped")
	return nil
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "main").Logger()

	return cfg, &logger, closer, nil
}

// initStateRepository wires the chat rate-limit state. With redis
// configured the in-memory repository stays as fallback behind it;
// without redis the process runs on memory alone.
func initStateRepository(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) domain.StateRepository {
	memory := repository.NewMemoryStateRepository()
	if cfg.Redis.Address == "" {
		return memory
	}

	client := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, client); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing on memory")
		_ = repository.Close(client)
		return memory
	}
	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return repository.NewFailoverStateRepository(repository.NewRedisStateRepository(client), memory, logger)
}

func initAdvisor(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *ai.Client {
	client, err := ai.NewClient(ctx, cfg.AI, cfg.Links, logger)
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			logger.Warn().Msg("AI API key not configured, assistant features disabled")
			return nil
		}
		logger.Error().Err(err).Msg("AI client init failed, assistant features disabled")
		return nil
	}
	return client
}

func buildServices(st *store.Store, bus *events.EventBus, state domain.StateRepository, advisor *ai.Client, cfg *config.Config, logger *zerolog.Logger) api.Services {
	tags := service.NewTagService(st, st, logger)

	var picker service.ArticlePicker
	var chatAdvisor service.Advisor
	if advisor != nil {
		picker = advisor
		chatAdvisor = advisor
	}

	return api.Services{
		Customers: service.NewCustomerService(st, tags, bus, picker, cfg, logger),
		Tags:      tags,
		Engage:    service.NewEngagementService(st, bus, logger),
		Chat:      service.NewChatService(st, chatAdvisor, state, cfg, logger),
		Broadcast: service.NewBroadcastService(st, st, bus, logger),
		Settings:  service.NewSettingsService(st, cfg.Admin.Password, logger),
	}
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
