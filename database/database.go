// File: /database/database.go
package database

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"questbridge-api/config"
	"questbridge-api/models"
)

func Initialize(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(cfg.Database.Driver) {
	case "", "mysql":
		dialector = mysql.Open(cfg.Database.URL)
	case "postgres", "postgresql":
		dialector = postgres.Open(cfg.Database.URL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	logLevel := logger.Info
	if cfg.IsProduction() {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   logger.Default.LogMode(logLevel),
		DisableForeignKeyConstraintWhenMigrating: true,
		// Unique index violations come back as gorm.ErrDuplicatedKey.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpen)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdle)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.JoinRequest{},
		&models.EngagementLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	addCustomIndexes(db, log)
	return nil
}

// addCustomIndexes creates secondary indexes the struct tags cannot express.
// Failures are logged; the API works without them, only slower.
func addCustomIndexes(db *gorm.DB, log *zap.Logger) {
	indexes := []struct {
		table, name string
		columns     []string
	}{
		{"join_requests", "idx_join_requests_event_status", []string{"event_id", "status"}},
		{"join_requests", "idx_join_requests_user_created", []string{"user_id", "created_at"}},
		{"engagement_logs", "idx_engagement_logs_event_email", []string{"event_id", "participant_email"}},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}
		stmt := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
		if err := db.Exec(stmt).Error; err != nil {
			log.Warn("could not create index", zap.String("index", idx.name), zap.Error(err))
		}
	}
}

const seedPassword = "password123"

// SeedData populates an empty database with a host, an attendee and one
// published event for local development.
func SeedData(db *gorm.DB, log *zap.Logger) error {
	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		log.Info("database already has data, skipping seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	host := models.User{
		ID:       "user-host-1",
		Username: "demo_host",
		Email:    "host@example.com",
		Password: string(hash),
		Role:     models.RoleHost,
	}
	attendee := models.User{
		ID:       "user-attendee-1",
		Username: "demo_attendee",
		Email:    "attendee@example.com",
		Password: string(hash),
		Role:     models.RoleAttendee,
	}
	start := time.Now().Add(7 * 24 * time.Hour).Truncate(time.Hour)
	end := start.Add(2 * time.Hour)
	event := models.Event{
		ID:           "event-1",
		HostID:       host.ID,
		HostName:     host.Username,
		HostEmail:    host.Email,
		Title:        "Go Meetup: Concurrency in Practice",
		Description:  "An evening of talks and a live quiz.",
		EventType:    models.EventTypeHybrid,
		Status:       models.EventStatusPublished,
		StartDate:    &start,
		EndDate:      &end,
		Location:     "Community Hall",
		VirtualLink:  "https://example.com/stream",
		MaxAttendees: 100,
		Category:     "conference",
		IsFree:       true,
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, user := range []*models.User{&host, &attendee} {
			if err := tx.Create(user).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", user.Email, err)
			}
		}
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("seed event: %w", err)
		}
		log.Info("seeded development data",
			zap.String("host", host.Email),
			zap.String("attendee", attendee.Email))
		return nil
	})
}
