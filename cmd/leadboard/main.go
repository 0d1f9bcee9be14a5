package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/onedayhr/leadboard/internal/config"
	"github.com/onedayhr/leadboard/internal/domain"
	"github.com/onedayhr/leadboard/internal/handler"
	"github.com/onedayhr/leadboard/internal/infra/cache"
	"github.com/onedayhr/leadboard/internal/infra/client"
	"github.com/onedayhr/leadboard/internal/infra/mail"
	"github.com/onedayhr/leadboard/internal/infra/observability"
	"github.com/onedayhr/leadboard/internal/infra/postgrest"
	"github.com/onedayhr/leadboard/internal/infra/queue"
	"github.com/onedayhr/leadboard/internal/infra/resilience"
	"github.com/onedayhr/leadboard/internal/port"
	"github.com/onedayhr/leadboard/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Config (.env applied first for local development) ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Duration("sweep_interval", cfg.SweepInterval),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Duration("jwt_access_ttl", cfg.JWTAccessTTL),
		zap.Duration("jwt_refresh_ttl", cfg.JWTRefreshTTL),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "leadboard")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Caches ---
	boardCache := cache.New[*domain.BoardSnapshot](cfg.CacheTTL)
	defer boardCache.Close()
	notificationCache := cache.New[*domain.NotificationList](cfg.CacheTTL)
	defer notificationCache.Close()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("external-apis")

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	store := postgrest.NewClient(
		httpClient,
		cfg.StoreURL,
		cfg.StoreAPIKey,
		cfg.StoreServiceKey,
		cb,
		resilienceCfg,
		logger,
	)

	agentClient := client.NewAgentClient(httpClient, cfg.AgentAPIURL, cb, resilienceCfg)
	mangoClient := client.NewMangoClient(httpClient, cfg.MangoAPIURL, cfg.MangoAPIKey, cfg.MangoAPISalt, cb, resilienceCfg, logger)

	var notifier port.LeadNotifier
	if cfg.TelegramToken != "" && cfg.TelegramChat != "" {
		notifier = client.NewTelegramNotifier(httpClient, cfg.TelegramToken, cfg.TelegramChat, logger)
		logger.Info("telegram relay enabled")
	} else {
		logger.Warn("telegram relay: not configured, new leads will not be announced")
	}

	var events port.EventPublisher
	if cfg.AMQPURL != "" {
		publisher, err := queue.NewPublisher(cfg.AMQPURL, logger)
		if err != nil {
			logger.Fatal("failed to connect to message bus", zap.Error(err))
		}
		defer publisher.Close()
		events = publisher
		logger.Info("lead event publishing enabled")
	} else {
		logger.Warn("message bus: AMQP_URL not set, lead events disabled")
	}

	var mailSender port.MailSender
	if cfg.SMTPHost != "" {
		mailSender = mail.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
		logger.Info("smtp enabled", zap.String("host", cfg.SMTPHost))
	} else {
		logger.Warn("smtp: not configured, password reset emails disabled")
	}

	// --- Services ---
	crmSvc := service.NewCRMService(
		store,
		store,
		store,
		mangoClient,
		notifier,
		events,
		boardCache,
		metrics,
		logger,
	)

	assistantSvc := service.NewAssistant(agentClient, store, store, metrics, logger)

	authSvc := service.NewAuthService(store, mailSender, cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, logger)

	notifierSvc := service.NewNotifier(store, store, store, notificationCache, cfg.SweepInterval, metrics, logger)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go notifierSvc.Run(sweepCtx)

	// --- Router ---
	router := handler.NewRouter(crmSvc, assistantSvc, notifierSvc, authSvc, metrics, cfg.AllowedOrigins, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
