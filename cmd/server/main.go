package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/dev-profiles/internal/adapter"
	"github.com/MKhiriev/dev-profiles/internal/config"
	"github.com/MKhiriev/dev-profiles/internal/handler"
	"github.com/MKhiriev/dev-profiles/internal/logger"
	"github.com/MKhiriev/dev-profiles/internal/server"
	"github.com/MKhiriev/dev-profiles/internal/service"
	"github.com/MKhiriev/dev-profiles/internal/store"
	"github.com/MKhiriev/dev-profiles/internal/workers"
	"github.com/MKhiriev/dev-profiles/models"
	"golang.org/x/sync/errgroup"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("dev-profiles-server")
	if err := run(log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(log *logger.Logger) error {
	cfg, err := config.GetStructuredConfig(os.Args[1:])
	if err != nil {
		return fmt.Errorf("error getting configs: %w", err)
	}
	if err = logger.SetLevel(cfg.App.LogLevel); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		return fmt.Errorf("error connecting database: %w", err)
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		return fmt.Errorf("error applying migrations: %w", err)
	}

	redisClient, err := store.NewRedisClient(ctx, cfg.Storage.Redis, log)
	if err != nil {
		return fmt.Errorf("error connecting redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	storages := store.NewStorages(db, redisClient, cfg.Server.RateWindow, log)

	adapters := service.Adapters{
		GitHub: adapter.NewGitHubClient(cfg.Adapter.GitHub, log),
		Mailer: adapter.NewMailer(cfg.Adapter.Mail, log),
	}

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	services, err := service.NewServices(storages, adapters, cfg, buildInfo, log)
	if err != nil {
		return fmt.Errorf("error creating services: %w", err)
	}

	handlers, err := handler.NewHandlers(services, storages, cfg.Server, log)
	if err != nil {
		return fmt.Errorf("error creating handlers: %w", err)
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	background := workers.NewWorkers(
		workers.NewGitHubSyncWorker(services.GitHubService, cfg.Workers, log),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.RunServer(ctx)
	})
	g.Go(func() error {
		return background.Run(ctx)
	})

	return g.Wait()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
