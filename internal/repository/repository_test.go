package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)
	return db, mock
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%demo%", likePattern("DeMo"))
	assert.Equal(t, `%50\% off\_now%`, likePattern("50% off_now"))
}

func TestQuoteColumns(t *testing.T) {
	assert.Equal(t, `"topic", "group"`, quoteColumns("", []string{"topic", "group"}))
	assert.Equal(t, `p."id"`, quoteColumns("p.", []string{"id"}))
}

func TestCreateTiersAreNested(t *testing.T) {
	// Each narrower tier must be a subset of the one before it.
	for _, tiers := range [][]string{
		ProjectCreateTiers[1].Columns,
		ProjectCreateTiers[2].Columns,
	} {
		for _, col := range tiers {
			assert.Contains(t, ProjectCreateTiers[0].Columns, col)
		}
	}
	for _, col := range UserCreateTiers[1].Columns {
		assert.Contains(t, UserCreateTiers[0].Columns, col)
	}
	assert.NotContains(t, UserReadTiers[0].Columns, "password")
	assert.NotContains(t, UserReadTiers[1].Columns, "password")
}
