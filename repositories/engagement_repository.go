package repositories

import (
	"context"

	"gorm.io/gorm"
	"questbridge-api/models"
)

type EngagementRepository interface {
	Create(ctx context.Context, log *models.EngagementLog) error
	ListByEvent(ctx context.Context, eventID string) ([]models.EngagementLog, error)
	Leaderboard(ctx context.Context, eventID string) ([]models.LeaderboardEntry, error)
}

type engagementRepository struct {
	db *gorm.DB
}

func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) Create(ctx context.Context, log *models.EngagementLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *engagementRepository) ListByEvent(ctx context.Context, eventID string) ([]models.EngagementLog, error) {
	logs := []models.EngagementLog{}
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("timestamp DESC").
		Find(&logs).Error
	return logs, err
}

func (r *engagementRepository) Leaderboard(ctx context.Context, eventID string) ([]models.LeaderboardEntry, error) {
	entries := []models.LeaderboardEntry{}
	err := r.db.WithContext(ctx).
		Model(&models.EngagementLog{}).
		Select("participant_email, SUM(score) AS total_score, COUNT(*) AS activities_completed").
		Where("event_id = ?", eventID).
		Group("participant_email").
		Order("total_score DESC").
		Scan(&entries).Error
	return entries, err
}
