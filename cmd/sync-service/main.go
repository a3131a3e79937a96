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

	api "github.com/trackspace/github-sync-service/internal/api/http"
	"github.com/trackspace/github-sync-service/internal/config"
	"github.com/trackspace/github-sync-service/internal/repo/postgres"
	"github.com/trackspace/github-sync-service/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	logger.Info("GitHub sync service started")

	cfg, err := config.ParseConfig()
	if err != nil {
		logger.Error("Failed to load config", "error", err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := postgres.NewDB(ctx, cfg.DB.ConnString(), logger)
	if err != nil {
		logger.Error("failed to connect to db", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close db", "error", err.Error())
		}
	}()

	if err := postgres.RunMigrations(ctx, db, logger); err != nil {
		logger.Error("failed to run db migrations", "error", err.Error())
		os.Exit(1)
	}

	projectRepo := postgres.NewProjectRepo(db)
	issueRepo := postgres.NewIssueRepo(db)
	userRepo := postgres.NewUserRepo(db)

	notifier := service.NewSlackNotifier(nil)
	webhookService := service.NewWebhookService(projectRepo, issueRepo, userRepo, notifier, logger)
	projectService := service.NewProjectService(projectRepo, issueRepo)
	app := service.NewApp(webhookService, projectService)

	server := api.NewServer(app, cfg.GitHub.WebhookSecret, logger)
	router := api.NewRouter(server, logger)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err.Error())
			stop()
		}
	}()

	<-stopCtx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err.Error())
	}
}
