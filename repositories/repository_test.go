package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"questbridge-api/database"
	"questbridge-api/models"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// newTestDB opens a private in-memory SQLite database migrated like
// production.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to ":memory:" is its own database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db, zap.NewNop()))
	return db
}

func seedEvent(t *testing.T, repo EventRepository, id, hostID string, created time.Time, mutate ...func(*models.Event)) *models.Event {
	t.Helper()
	event := &models.Event{
		ID:           id,
		HostID:       hostID,
		Title:        "Event " + id,
		EventType:    models.EventTypeInPerson,
		Status:       models.EventStatusPublished,
		MaxAttendees: 100,
		IsFree:       true,
		CreatedAt:    created,
	}
	for _, m := range mutate {
		m(event)
	}
	require.NoError(t, repo.Create(context.Background(), event))
	return event
}

func seedRequest(t *testing.T, repo JoinRequestRepository, id, eventID, userID string, created time.Time) *models.JoinRequest {
	t.Helper()
	request := &models.JoinRequest{
		ID:         id,
		EventID:    eventID,
		UserID:     userID,
		UserEmail:  userID + "@example.com",
		Status:     models.JoinRequestStatusPending,
		TicketType: models.DefaultTicketType,
		CreatedAt:  created,
	}
	require.NoError(t, repo.Create(context.Background(), request))
	return request
}
