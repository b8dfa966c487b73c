package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"projecthub/internal/config"
	"projecthub/internal/db"
	"projecthub/internal/logging"
)

// migrate applies the embedded schema migrations.
//
//	migrate            apply everything
//	migrate -to 2      apply up to version 2
//	migrate -down-to 1 roll back to version 1
func main() {
	to := flag.Int64("to", 0, "migrate up to this version (0 = latest)")
	downTo := flag.Int64("down-to", -1, "roll back to this version")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.NewPostgres(cfg.DatabaseDSN, cfg.DatabaseDriver, logger)
	if err != nil {
		logger.Fatal("database init", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("database init", zap.Error(err))
	}
	defer sqlDB.Close()

	if *downTo >= 0 {
		err = db.Rollback(ctx, sqlDB, *downTo, logger)
	} else {
		err = db.Migrate(ctx, sqlDB, *to, logger)
	}
	if err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
}
