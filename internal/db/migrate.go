package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"projecthub/internal/db/migrations"
)

// Seams for testing goose.
var (
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.UpContext(ctx, db, dir, opts...)
	}
	gooseUpToContext = func(ctx context.Context, db *sql.DB, dir string, version int64, opts ...goose.OptionsFunc) error {
		return goose.UpToContext(ctx, db, dir, version, opts...)
	}
	gooseDownToContext = func(ctx context.Context, db *sql.DB, dir string, version int64, opts ...goose.OptionsFunc) error {
		return goose.DownToContext(ctx, db, dir, version, opts...)
	}
	gooseGetDBVersionContext = func(ctx context.Context, db *sql.DB) (int64, error) {
		return goose.GetDBVersionContext(ctx, db)
	}
)

func setupGoose() error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}

// Migrate applies the embedded migrations. A positive version stops at that
// schema stage; zero applies everything.
func Migrate(ctx context.Context, db *sql.DB, version int64, log *zap.Logger) error {
	if err := setupGoose(); err != nil {
		return err
	}

	var err error
	if version > 0 {
		err = gooseUpToContext(ctx, db, ".", version)
	} else {
		err = gooseUpContext(ctx, db, ".")
	}
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	current, err := gooseGetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	log.Info("schema migrated", zap.Int64("version", current))
	return nil
}

// Rollback reverts migrations down to version.
func Rollback(ctx context.Context, db *sql.DB, version int64, log *zap.Logger) error {
	if err := setupGoose(); err != nil {
		return err
	}
	if err := gooseDownToContext(ctx, db, ".", version); err != nil {
		return fmt.Errorf("roll back migrations: %w", err)
	}
	log.Info("schema rolled back", zap.Int64("version", version))
	return nil
}
