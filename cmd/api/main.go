package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"messattendance/internal/attendance"
	"messattendance/internal/auth"
	"messattendance/internal/config"
	"messattendance/internal/httpmiddleware"
	"messattendance/internal/logging"
	"messattendance/internal/store"
	"messattendance/internal/web"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		Path:       cfg.LogPath,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	defer func() { _ = logger.Sync() }()

	if err := runHTTP(cfg, logger); err != nil {
		logger.Error("http server failed", zap.Error(err))
		return err
	}
	return nil
}

func runHTTP(cfg config.App, logger *zap.Logger) error {
	if insecure := cfg.InsecureDefaults(); len(insecure) > 0 {
		logger.Warn("running with insecure default secrets; set them before deploying",
			zap.Strings("vars", insecure))
	}

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	logger.Info("database ready", zap.String("dialect", string(db.Dialect)))

	gate, err := auth.NewGate(cfg.AdminPassword, cfg.SessionSecret, cfg.SessionIssuer, cfg.SessionTTL)
	if err != nil {
		return err
	}

	probes := map[string]web.Probe{"db": db}
	var limiter httpmiddleware.Limiter = httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin)
	if redisClient := store.NewRedis(cfg.RedisAddr); redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		probes["redis"] = redisClient
		limiter = httpmiddleware.NewRedisWindow(redisClient.Client, "mess:ratelimit", cfg.RateLimitPerMin)
		logger.Info("redis rate limiter enabled", zap.String("addr", cfg.RedisAddr))
	}

	repo := attendance.NewRepository(db.Client)
	r := web.NewRouter(web.Services{
		CheckIns: attendance.NewCheckInService(repo),
		Roster:   attendance.NewRosterService(repo),
		Reports:  attendance.NewReportService(repo),
		Gate:     gate,
	}, web.Options{
		Log:           logger,
		SessionSecret: cfg.SessionSecret,
		SecureCookies: cfg.Production(),
		Limiter:       limiter,
		Probes:        probes,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	logger.Info("shutting down server")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced shutdown", zap.Error(err))
	}
	logger.Info("server exited")
	return nil
}
