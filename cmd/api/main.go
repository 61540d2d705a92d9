package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/user/event-ingest-service/internal/adapter/chromedpfetch"
	"github.com/user/event-ingest-service/internal/adapter/extraction"
	"github.com/user/event-ingest-service/internal/adapter/markdownfetch"
	"github.com/user/event-ingest-service/internal/adapter/miniostore"
	"github.com/user/event-ingest-service/internal/adapter/postgres"
	redis_adapter "github.com/user/event-ingest-service/internal/adapter/redis"
	"github.com/user/event-ingest-service/internal/delivery/http/handler"
	"github.com/user/event-ingest-service/internal/delivery/http/router"
	"github.com/user/event-ingest-service/internal/repository"
	"github.com/user/event-ingest-service/internal/usecase"
	"github.com/user/event-ingest-service/pkg/config"
	"github.com/user/event-ingest-service/pkg/logger"
	"github.com/user/event-ingest-service/pkg/metrics"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	// --- Logger ---
	logLevel := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		logLevel = slog.LevelDebug
	}
	logger.Init(os.Stdout, logLevel)
	slog.Info("Logger initialized", "level", logLevel.String())

	// --- Metrics ---
	metrics.Init()
	slog.Info("Metrics initialized")

	// --- Database Connections ---
	ctx := context.Background()

	// PostgreSQL
	pgConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB)
	dbpool, err := pgxpool.New(ctx, pgConnString)
	if err != nil {
		slog.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	slog.Info("PostgreSQL connection pool established")

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		slog.Error("Unable to connect to Redis", "error", err)
		os.Exit(1)
	}
	slog.Info("Redis connection established")

	// --- Repositories ---
	listingRepo := postgres.NewListingRepo(dbpool)
	eventRepo := postgres.NewEventRepo(dbpool)
	runLockRepo := redis_adapter.NewRunLockRepo(rdb)

	var fetcher repository.ContentFetcher
	if cfg.FetchStrategy == "browser" {
		fetcher = chromedpfetch.NewFetcher(cfg.PageLoadTimeout())
		slog.Info("Using headless-browser fetch strategy")
	} else {
		fetcher = markdownfetch.NewClient(cfg.FetchServiceURL, cfg.FetchServiceKey, cfg.ExternalCallTimeout())
	}
	extractor := extraction.NewClient(cfg.ExtractionServiceURL, cfg.ExtractionServiceKey, cfg.ExternalCallTimeout())

	var snapshots repository.SnapshotRepository
	if cfg.MinioEndpoint != "" {
		store, err := miniostore.NewSnapshotStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			slog.Error("Unable to create snapshot store", "error", err)
			os.Exit(1)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			slog.Error("Unable to prepare snapshot bucket", "error", err)
			os.Exit(1)
		}
		snapshots = store
		slog.Info("Snapshot store initialized", "bucket", cfg.MinioBucket)
	}

	// --- Use Cases ---
	pipeline := usecase.NewPipeline(listingRepo, eventRepo, fetcher, extractor, runLockRepo, snapshots, usecase.Options{
		BatchSize:  cfg.BatchSize,
		ItemDelay:  cfg.ItemDelay(),
		RunLockTTL: cfg.RunLockTTL(),
	})

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(pipeline)
	httpRouter := router.New(apiHandler)

	// The trigger endpoint holds its connection through every fetch,
	// extraction and inter-item delay of a batch, so the write timeout must
	// cover a full worst-case run.
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	slog.Info("Starting server", "port", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Could not listen on port", "port", cfg.ServerPort, "error", err)
		os.Exit(1)
	}
}
