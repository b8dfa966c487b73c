package db

import (
	"fmt"
	"time"

	_ "github.com/lib/pq" // registers the "postgres" database/sql driver
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewPostgres returns a connected GORM DB instance. driver selects the
// database/sql driver: "pgx" (default) or "postgres" for lib/pq.
func NewPostgres(dsn, driver string, log *zap.Logger) (*gorm.DB, error) {
	cfg := postgres.Config{DSN: dsn}
	if driver == "postgres" {
		cfg.DriverName = "postgres"
	}

	db, err := gorm.Open(postgres.New(cfg), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 NewGormLogger(log, 200*time.Millisecond),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
