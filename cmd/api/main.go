package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"profile-service/internal/api"
	"profile-service/internal/auth"
	"profile-service/internal/config"
	"profile-service/internal/db"
	"profile-service/internal/logging"
	"profile-service/internal/profile"
	"profile-service/internal/redis"
	"profile-service/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting_api", "service", "profile-service", "http_addr", cfg.HTTPAddr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to PostgreSQL
	dbConn, err := db.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Error("db_connect_failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Redis is optional; without it the API runs uncached with the
	// in-process rate limiter
	var redisClient *redis.Client
	if cfg.RedisDSN != "" {
		redisClient, err = redis.New(cfg.RedisDSN)
		if err != nil {
			logger.Error("redis_connect_failed", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
	} else {
		logger.Info("redis_disabled")
	}

	// Avatar object storage
	var avatars storage.Client
	if cfg.S3Bucket != "" {
		avatars, err = storage.NewS3Client(storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			logger.Error("storage_init_failed", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Info("storage_simulator_active")
		avatars = storage.NewSimulator(cfg.S3Bucket, cfg.S3Endpoint)
	}

	profiles := profile.NewStore(logger, dbConn)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)

	srv := api.NewServer(logger, dbConn, redisClient, profiles, avatars, verifier, cfg)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_listen_failed", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("api_started", "addr", cfg.HTTPAddr)

	// graceful shutdown
	stop := make(chan os.Signal, 2)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_shutdown_failed", "error", err)
	} else {
		logger.Info("http_server_stopped")
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis_close_error", "error", err)
		}
	}

	dbConn.Close()
	logger.Info("api_stopped")
}
