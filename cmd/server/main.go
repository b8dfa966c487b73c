package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"projecthub/docs" // swagger docs
	"projecthub/internal/auth"
	"projecthub/internal/config"
	"projecthub/internal/db"
	"projecthub/internal/handler"
	"projecthub/internal/logging"
	"projecthub/internal/repository"
	"projecthub/internal/router"
	"projecthub/internal/service"
	"projecthub/internal/storage"
)

// @title Project Hub API
// @version 1.0
// @description Project submission and discovery API with JWT authentication and file attachments.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.NewPostgres(cfg.DatabaseDSN, cfg.DatabaseDriver, logger)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, sqlDB, cfg.MigrateTo, logger); err != nil {
			return err
		}
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB, logger)
	projectRepo := repository.NewProjectRepository(gormDB, logger)

	// Initialize services
	tokens := auth.NewTokenService(cfg.JWTSecret)
	authService := service.NewAuthService(userRepo, tokens)
	projectService := service.NewProjectService(projectRepo, userRepo, store, logger)

	e := echo.New()
	router.Register(e, cfg, logger, auth.NewGate(tokens, userRepo, logger), store, router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Project:    handler.NewProjectHandler(projectService, logger),
		Attachment: handler.NewAttachmentHandler(store),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
	}
	logger.Info("swagger documentation available",
		zap.String("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"))

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("server listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.AttachmentStore == "s3" {
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	}
	return storage.NewLocalStore(cfg.UploadDir), nil
}
