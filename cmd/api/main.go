package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"dermacare-backend/internal/config"
	"dermacare-backend/internal/database"
	"dermacare-backend/internal/handlers"
	"dermacare-backend/internal/logger"
	"dermacare-backend/internal/middleware"
	"dermacare-backend/internal/repository"
	"dermacare-backend/internal/routes"
	"dermacare-backend/internal/services/appointment"
	"dermacare-backend/internal/services/auth"
	"dermacare-backend/internal/services/messaging"
	"dermacare-backend/internal/services/report"
	"dermacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Connect DB
	db, err := database.Open(cfg, zlog)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	// 3. Push notifications, optional
	var notifier utils.Notifier = utils.NopNotifier{}
	if cfg.FCMCredentials != "" {
		fcm, err := utils.NewFCMNotifier(ctx, cfg.FCMCredentials, zlog)
		if err != nil {
			zlog.Warn("push notifications disabled", zap.Error(err))
		} else {
			notifier = fcm
		}
	}

	// 4. Wire services
	repos := repository.New(db)
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	h := handlers.New(
		repos,
		auth.New(repos, tokens, zlog),
		appointment.New(repos, notifier, zlog),
		messaging.New(repos, notifier, zlog),
		report.New(repos, zlog),
		zlog,
	)

	// 5. Router and global middleware
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RecoveryMiddleware(zlog),
		middleware.RequestLogger(zlog),
		middleware.CORSMiddleware(cfg.AllowedOrigins),
		middleware.RateLimitMiddleware(middleware.NewIPRateLimiter(ctx, rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)),
	)
	routes.SetupRoutes(r, h, middleware.AuthMiddleware(tokens, repos.Users))

	// 6. Run server until a signal arrives
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zlog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	zlog.Info("server stopped")
	return nil
}
