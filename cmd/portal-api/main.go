package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cpaas-portal/internal/api"
	"cpaas-portal/internal/auth"
	"cpaas-portal/internal/config"
	"cpaas-portal/internal/database"
	"cpaas-portal/internal/mailer"
	"cpaas-portal/internal/middleware"
	"cpaas-portal/internal/observ"
	"cpaas-portal/internal/secrets"
	"cpaas-portal/internal/ws"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("portal-api: %v", err)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	db, err := database.Open(cfg, logger)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	issuer := auth.NewIssuer(cfg.JWTSecret)
	token, err := database.Seed(db, cfg, issuer)
	if err != nil {
		return err
	}
	if token != "" {
		logger.Info("seeded master admin",
			zap.String("email", cfg.SeedAdminEmail),
			zap.String("token", token))
	}

	box, err := secrets.New(cfg.EncryptionKey)
	if err != nil {
		return fmt.Errorf("init secrets: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub(logger, cfg.AllowedOrigins)
	go hub.Run(ctx)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	api.Register(r, api.Deps{
		DB:      db,
		Config:  cfg,
		Issuer:  issuer,
		Secrets: box,
		Mailer:  mailer.New(cfg, logger),
		Hub:     hub,
		Logger:  logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.Bool("postgres", cfg.UsePostgres()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
