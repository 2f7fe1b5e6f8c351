package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	chirouter "media-vault/internal/adapters/handlers/http/chi"
	videohandler "media-vault/internal/adapters/handlers/http/chi/v1/video"
	"media-vault/internal/adapters/provider"
	"media-vault/internal/adapters/repository/postgres"
	"media-vault/internal/adapters/storage/minio"
	"media-vault/internal/adapters/thumbnailer"
	"media-vault/internal/config"
	"media-vault/internal/core/port"
	"media-vault/internal/core/service/ingest"
	"media-vault/internal/core/service/reconcile"
	"media-vault/internal/core/service/registry"
	"media-vault/internal/core/service/thumbnail"
	videoservice "media-vault/internal/core/service/video"
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
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}(db)
	logger.Info("db connection established")

	//storage
	storageAdapter, err := minio.NewAdapter(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to init storage", "error", err)
		os.Exit(1)
	}

	//repositories
	unitOfWork := postgres.NewUnitOfWork(db)

	//provider and thumbnail chain
	providerClient := provider.NewClient(cfg.Provider, logger)

	var secondary port.SecondaryExtractor
	if client := thumbnailer.NewClient(cfg.Thumbnail.SecondaryBaseURL, cfg.Thumbnail.StrategyTimeout); client != nil {
		secondary = client
	}
	// The API process never extracts frames locally; the reconciler owns
	// ffmpeg. The chain still terminates with the placeholder.
	chain := thumbnail.NewChain(cfg.Thumbnail, secondary, nil, storageAdapter, logger)

	//services
	registryService := registry.NewRegistryService(unitOfWork, logger)
	ingestService := ingest.NewIngestService(registryService, providerClient, storageAdapter, chain, unitOfWork, cfg.Processing, logger)
	reconcileService := reconcile.NewReconcileService(registryService, unitOfWork, logger)
	videoService := videoservice.NewVideoService(unitOfWork, storageAdapter, logger)

	//http
	videoHandler := videohandler.NewVideoHandlerV1(ingestService, reconcileService, videoService, logger)

	router := chirouter.NewRouter(logger, videoHandler, cfg.Env.Env)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")

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
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}
