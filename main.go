package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stocks-portfolio/auth"
	"stocks-portfolio/config"
	"stocks-portfolio/database"
	"stocks-portfolio/handlers"
	"stocks-portfolio/logging"
	"stocks-portfolio/repositories"
	"stocks-portfolio/services"
	"stocks-portfolio/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Error loading config")
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	if err != nil {
		logrus.WithError(err).Fatal("Error configuring logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("Server stopped with error")
	}
	log.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	db, err := database.Open(cfg.DB, log)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get database instance: %w", err)
	}
	defer sqlDB.Close()

	if err := database.Migrate(ctx, db, cfg.DB.Driver, log); err != nil {
		return err
	}

	tokens, closeTokens, err := newTokenStore(ctx, cfg.Redis, log)
	if err != nil {
		return err
	}
	defer closeTokens()

	logos, err := newLogoStore(ctx, cfg)
	if err != nil {
		return err
	}

	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	portfolio := services.NewPortfolioService(
		repositories.NewStockRepository(db),
		repositories.NewDividendRepository(db),
		logos,
		services.PortfolioConfig{
			HomeLimit:     cfg.Limits.Home,
			DividendLimit: cfg.Limits.Dividends,
			LogoMaxBytes:  cfg.Logo.MaxBytes,
		},
	)
	authService := services.NewAuthService(
		repositories.NewUserRepository(db), issuer, tokens, cfg.Auth.RefreshTokenTTL, cfg.Auth.IsAdminLogin,
	)

	gin.SetMode(cfg.HTTP.GinMode)
	opts := handlers.RouterOptions{Issuer: issuer, Logger: log}
	if cfg.Logo.Storage == config.StorageLocal {
		opts.LogoDir = cfg.Logo.Dir
		opts.LogoURLPrefix = cfg.Logo.URLPrefix
	}
	router := handlers.NewRouter(handlers.New(portfolio, authService), opts)

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errC := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTP.Addr).Info("Starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errC
}

// newTokenStore keeps refresh tokens in Redis when REDIS_ADDR is set and in
// process memory otherwise.
func newTokenStore(ctx context.Context, cfg config.RedisConfig, log logrus.FieldLogger) (auth.TokenStore, func(), error) {
	if cfg.Addr == "" {
		log.Warn("REDIS_ADDR not set, refresh tokens are kept in memory")
		return auth.NewMemoryTokenStore(), func() {}, nil
	}

	rdb, err := config.NewRedis(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return auth.NewRedisTokenStore(rdb), func() { _ = rdb.Close() }, nil
}

func newLogoStore(ctx context.Context, cfg *config.Config) (storage.LogoStore, error) {
	if cfg.Logo.Storage == config.StorageS3 {
		return storage.NewS3Store(ctx, storage.S3Options{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PublicURL: cfg.S3.PublicURL,
			Prefix:    cfg.S3.Prefix,
		})
	}
	return storage.NewLocalStore(cfg.Logo.Dir, cfg.Logo.URLPrefix)
}
