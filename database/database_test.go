package database

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"questbridge-api/config"
	"questbridge-api/models"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestInitializeRejectsUnknownDriver(t *testing.T) {
	_, err := Initialize(&config.Config{Database: config.DatabaseConfig{Driver: "oracle"}})

	assert.ErrorContains(t, err, `unsupported database driver "oracle"`)
}

func TestMigrateAndSeed(t *testing.T) {
	db := openMemory(t)
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	require.NoError(t, Migrate(db, log))
	assert.True(t, db.Migrator().HasIndex("join_requests", "idx_join_requests_event_status"))

	require.NoError(t, SeedData(db, log))

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(2), users)

	var event models.Event
	require.NoError(t, db.First(&event, "id = ?", "event-1").Error)
	assert.True(t, event.IsFree)
	assert.Equal(t, "user-host-1", event.HostID)

	seeded := logs.FilterMessage("seeded development data").All()
	require.Len(t, seeded, 1)
	for _, entry := range logs.All() {
		for _, field := range entry.Context {
			assert.NotEqual(t, "password", field.Key)
			assert.NotEqual(t, seedPassword, field.String)
		}
	}

	require.NoError(t, SeedData(db, log))
	assert.Equal(t, 1, logs.FilterMessage("database already has data, skipping seed").Len())
}
