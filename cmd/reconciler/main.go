package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"media-vault/internal/adapters/eventbroker/nats"
	"media-vault/internal/adapters/ffmpeg"
	"media-vault/internal/adapters/provider"
	"media-vault/internal/adapters/repository/postgres"
	"media-vault/internal/adapters/storage/minio"
	"media-vault/internal/adapters/thumbnailer"
	"media-vault/internal/config"
	"media-vault/internal/core/port"
	"media-vault/internal/core/service/ingest"
	"media-vault/internal/core/service/reconcile"
	"media-vault/internal/core/service/registry"
	"media-vault/internal/core/service/sweep"
	"media-vault/internal/core/service/thumbnail"
	"media-vault/internal/core/service/uploadevent"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()
	logger.Info("db connection established")

	storageAdapter, err := minio.NewAdapter(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to init storage", "error", err)
		os.Exit(1)
	}
	logger.Info("storage adapter initialized")

	unitOfWork := postgres.NewUnitOfWork(db)

	providerClient := provider.NewClient(cfg.Provider, logger)

	var secondary port.SecondaryExtractor
	if client := thumbnailer.NewClient(cfg.Thumbnail.SecondaryBaseURL, cfg.Thumbnail.StrategyTimeout); client != nil {
		secondary = client
	}
	extractor := ffmpeg.NewExtractor(storageAdapter, cfg.Thumbnail)
	chain := thumbnail.NewChain(cfg.Thumbnail, secondary, extractor, storageAdapter, logger)

	registryService := registry.NewRegistryService(unitOfWork, logger)
	ingestService := ingest.NewIngestService(registryService, providerClient, storageAdapter, chain, unitOfWork, cfg.Processing, logger)
	reconcileService := reconcile.NewReconcileService(registryService, unitOfWork, logger)
	uploadEventService := uploadevent.NewUploadEventService(storageAdapter, ingestService, logger)
	sweepService := sweep.NewSweepService(unitOfWork, providerClient, reconcileService, cfg.Sweep, logger)

	natsConsumer, err := nats.NewNATSConsumer(cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to create NATS consumer", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := natsConsumer.Close(); err != nil {
			logger.Error("failed to close NATS consumer", "error", err)
		}
	}()
	logger.Info("NATS consumer initialized")

	if err := natsConsumer.Subscribe(ctx, uploadEventService); err != nil {
		logger.Error("failed to subscribe to NATS", "error", err)
		os.Exit(1)
	}
	logger.Info("NATS subscription active")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("sweep task initialized", "interval", cfg.Sweep.Every)
		sweepService.Run(ctx)
	}()

	<-ctx.Done()
	logger.Info("gracefully shutting down reconciler")

	if err := natsConsumer.Close(); err != nil {
		logger.Error("failed to close NATS consumer during shutdown", "error", err)
	}

	wg.Wait()
	logger.Info("reconciler shutdown complete")
}

func initDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}
