package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/araquari-cbm/stationhub/internal/access"
	"github.com/araquari-cbm/stationhub/internal/analysis"
	"github.com/araquari-cbm/stationhub/internal/app"
	"github.com/araquari-cbm/stationhub/internal/audit"
	"github.com/araquari-cbm/stationhub/internal/auth"
	"github.com/araquari-cbm/stationhub/internal/compliance"
	"github.com/araquari-cbm/stationhub/internal/events"
	"github.com/araquari-cbm/stationhub/internal/instruction"
	"github.com/araquari-cbm/stationhub/internal/logistics"
	"github.com/araquari-cbm/stationhub/internal/notices"
	"github.com/araquari-cbm/stationhub/internal/observability"
	"github.com/araquari-cbm/stationhub/internal/operations"
	"github.com/araquari-cbm/stationhub/internal/personnel"
	"github.com/araquari-cbm/stationhub/internal/platform/cache"
	"github.com/araquari-cbm/stationhub/internal/platform/db"
	"github.com/araquari-cbm/stationhub/internal/platform/llm"
	"github.com/araquari-cbm/stationhub/internal/roster"
	"github.com/araquari-cbm/stationhub/internal/shared"
	"github.com/araquari-cbm/stationhub/internal/social"
	"github.com/araquari-cbm/stationhub/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	loc := cfg.Location()

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "stationhub_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	auditLogger := shared.NewAuditLogger(pool)
	publisher := events.NewPublisher(redisClient, logger)
	metrics := observability.NewMetrics()

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	accessRepo := access.NewRepository(pool)
	accessService := access.NewService(accessRepo, auditLogger)
	accessMW := access.Middleware{Resolver: accessService, Logger: logger}
	accessHandler := access.NewHandler(logger, accessService, accessMW)

	personnelRepo := personnel.NewRepository(pool)
	personnelService := personnel.NewService(personnelRepo, auditLogger, publisher)
	personnelHandler := personnel.NewHandler(logger, personnelService, accessMW)

	configStore := roster.NewConfigStore(redisClient, loc)
	rosterRepo := roster.NewRepository(pool)
	rosterService := roster.NewService(rosterRepo, configStore, personnelService, auditLogger, publisher, loc)
	rosterHandler := roster.NewHandler(logger, rosterService, accessMW, loc, metrics)

	noticesRepo := notices.NewRepository(pool)
	noticesService := notices.NewService(noticesRepo, auditLogger, publisher)
	noticesHandler := notices.NewHandler(logger, noticesService, accessMW)

	operationsRepo := operations.NewRepository(pool)
	operationsService := operations.NewService(operationsRepo, auditLogger, publisher)
	operationsHandler := operations.NewHandler(logger, operationsService, accessMW)

	complianceRepo := compliance.NewRepository(pool)
	complianceService := compliance.NewService(complianceRepo, auditLogger, publisher)
	complianceHandler := compliance.NewHandler(logger, complianceService, accessMW)

	instructionRepo := instruction.NewRepository(pool)
	instructionService := instruction.NewService(instructionRepo, auditLogger, publisher)
	instructionHandler := instruction.NewHandler(logger, instructionService, accessMW)

	logisticsRepo := logistics.NewRepository(pool)
	logisticsService := logistics.NewService(logisticsRepo, auditLogger, publisher)
	logisticsHandler := logistics.NewHandler(logger, logisticsService, accessMW)

	var generator llm.TextGenerator
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("gemini client unavailable, captions and analyses disabled", slog.Any("error", err))
		} else {
			generator = geminiClient
		}
	}

	socialRepo := social.NewRepository(pool)
	socialService := social.NewService(socialRepo, generator, auditLogger, publisher)
	socialHandler := social.NewHandler(logger, socialService, accessMW)

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	analysisRepo := analysis.NewRepository(pool)
	analysisService := analysis.NewService(analysisRepo, generator, jobsClient, auditLogger, publisher, metrics)
	analysisHandler := analysis.NewHandler(logger, analysisService, accessMW)

	auditHandler := audit.NewHandler(logger, pool, accessMW)
	eventsHandler := events.NewSSEHandler(redisClient, logger)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SessionManager:     sessionManager,
		CSRFManager:        csrfManager,
		AuthHandler:        authHandler,
		AccessHandler:      accessHandler,
		RosterHandler:      rosterHandler,
		PersonnelHandler:   personnelHandler,
		NoticesHandler:     noticesHandler,
		OperationsHandler:  operationsHandler,
		ComplianceHandler:  complianceHandler,
		InstructionHandler: instructionHandler,
		LogisticsHandler:   logisticsHandler,
		SocialHandler:      socialHandler,
		AnalysisHandler:    analysisHandler,
		AuditHandler:       auditHandler,
		EventsHandler:      eventsHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
