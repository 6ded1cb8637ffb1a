package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/araquari-cbm/stationhub/internal/analysis"
	"github.com/araquari-cbm/stationhub/internal/app"
	"github.com/araquari-cbm/stationhub/internal/events"
	"github.com/araquari-cbm/stationhub/internal/observability"
	"github.com/araquari-cbm/stationhub/internal/personnel"
	"github.com/araquari-cbm/stationhub/internal/platform/cache"
	"github.com/araquari-cbm/stationhub/internal/platform/db"
	"github.com/araquari-cbm/stationhub/internal/platform/llm"
	"github.com/araquari-cbm/stationhub/internal/roster"
	"github.com/araquari-cbm/stationhub/internal/shared"
	"github.com/araquari-cbm/stationhub/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	auditLogger := shared.NewAuditLogger(pool)
	publisher := events.NewPublisher(redisClient, logger)
	metrics := observability.NewMetrics()

	var generator llm.TextGenerator
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("gemini client", slog.Any("error", err))
			os.Exit(1)
		}
		generator = geminiClient
	} else {
		logger.Warn("no gemini api key, analysis runs will fail")
	}

	analysisRepo := analysis.NewRepository(pool)
	analysisService := analysis.NewService(analysisRepo, generator, nil, auditLogger, publisher, metrics)

	personnelRepo := personnel.NewRepository(pool)
	personnelService := personnel.NewService(personnelRepo, auditLogger, publisher)

	configStore := roster.NewConfigStore(redisClient, loc)
	rosterRepo := roster.NewRepository(pool)
	rosterService := roster.NewService(rosterRepo, configStore, personnelService, auditLogger, publisher, loc)

	var cron []jobs.CronRegistration
	if cfg.RosterAutopublishCron != "" {
		cron = append(cron, jobs.CronRegistration{
			Spec: cfg.RosterAutopublishCron,
			Task: jobs.NewRosterAutopublishTask(),
		})
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Location:  loc,
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskAnalysisRun, Handler: jobs.NewAnalysisRunHandler(analysisService, logger)},
			{Type: jobs.TaskRosterAutopublish, Handler: jobs.NewRosterAutopublishHandler(rosterService, loc, metrics, logger)},
		},
		Cron: cron,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return worker.Run(gctx)
	})

	if cfg.WorkerMetricsAddr != "" {
		metricsServer := &http.Server{
			Addr:         cfg.WorkerMetricsAddr,
			Handler:      metrics.Handler(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("starting worker metrics listener", slog.String("addr", cfg.WorkerMetricsAddr))
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return metricsServer.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
