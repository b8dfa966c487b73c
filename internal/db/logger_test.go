package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestGormLogger_OmitsBoundValues(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	core, logs := observer.New(zapcore.DebugLevel)
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 NewGormLogger(zap.New(core), time.Second),
	})
	require.NoError(t, err)

	mock.ExpectQuery(`INSERT INTO users`).WillReturnError(errors.New("column \"bio\" does not exist"))

	var out struct{ ID int64 }
	err = gdb.WithContext(context.Background()).
		Raw(`INSERT INTO users ("username", "password") VALUES (?, ?) RETURNING "id"`, "alice", "$2a$10$secrethash").
		Scan(&out).Error
	require.Error(t, err)

	failed := logs.FilterMessage("statement failed").All()
	require.Len(t, failed, 1)
	sql := failed[0].ContextMap()["sql"].(string)
	assert.Contains(t, sql, "$2")
	assert.NotContains(t, sql, "secrethash")
	assert.NotContains(t, sql, "alice")
}

func TestGormLogger_ParamsFilter(t *testing.T) {
	l := NewGormLogger(zap.NewNop(), time.Second)

	filter, ok := l.(gorm.ParamsFilter)
	require.True(t, ok)
	sql, params := filter.ParamsFilter(context.Background(), "SELECT $1", "secret")
	assert.Equal(t, "SELECT $1", sql)
	assert.Nil(t, params)
}
