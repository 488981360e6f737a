package repositories

import (
	"context"

	"gorm.io/gorm"
	"questbridge-api/models"
)

type JoinRequestRepository interface {
	// Create inserts the request. The (event_id, user_id) unique index turns a
	// second request for the same pair into gorm.ErrDuplicatedKey.
	Create(ctx context.Context, request *models.JoinRequest) error
	FindByID(ctx context.Context, id string) (*models.JoinRequest, error)
	FindByEventAndUser(ctx context.Context, eventID, userID string) (*models.JoinRequest, error)
	ListByEvent(ctx context.Context, eventID string) ([]models.JoinRequest, error)
	ListByEvents(ctx context.Context, eventIDs []string) ([]models.JoinRequest, error)
	ListByUser(ctx context.Context, userID string) ([]models.JoinRequest, error)
	ListByEventAndStatus(ctx context.Context, eventID string, statuses ...models.JoinRequestStatus) ([]models.JoinRequest, error)
	// UpdateStatus moves the request from one status to another and reports
	// zero rows when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to models.JoinRequestStatus, ticketType string) (int64, error)
	CountByStatus(ctx context.Context, eventIDs []string) ([]models.StatusCount, error)
}

type joinRequestRepository struct {
	db *gorm.DB
}

func NewJoinRequestRepository(db *gorm.DB) JoinRequestRepository {
	return &joinRequestRepository{db: db}
}

func (r *joinRequestRepository) Create(ctx context.Context, request *models.JoinRequest) error {
	return r.db.WithContext(ctx).Omit("Event").Create(request).Error
}

func (r *joinRequestRepository) FindByID(ctx context.Context, id string) (*models.JoinRequest, error) {
	var request models.JoinRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *joinRequestRepository) FindByEventAndUser(ctx context.Context, eventID, userID string) (*models.JoinRequest, error) {
	var request models.JoinRequest
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *joinRequestRepository) ListByEvent(ctx context.Context, eventID string) ([]models.JoinRequest, error) {
	requests := []models.JoinRequest{}
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *joinRequestRepository) ListByEvents(ctx context.Context, eventIDs []string) ([]models.JoinRequest, error) {
	requests := []models.JoinRequest{}
	if len(eventIDs) == 0 {
		return requests, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("event_id IN ?", eventIDs).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *joinRequestRepository) ListByUser(ctx context.Context, userID string) ([]models.JoinRequest, error) {
	requests := []models.JoinRequest{}
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *joinRequestRepository) ListByEventAndStatus(ctx context.Context, eventID string, statuses ...models.JoinRequestStatus) ([]models.JoinRequest, error) {
	requests := []models.JoinRequest{}
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND status IN ?", eventID, statuses).
		Order("created_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *joinRequestRepository) UpdateStatus(ctx context.Context, id string, from, to models.JoinRequestStatus, ticketType string) (int64, error) {
	updates := map[string]interface{}{"status": to}
	if ticketType != "" {
		updates["ticket_type"] = ticketType
	}

	result := r.db.WithContext(ctx).
		Model(&models.JoinRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *joinRequestRepository) CountByStatus(ctx context.Context, eventIDs []string) ([]models.StatusCount, error) {
	counts := []models.StatusCount{}
	if len(eventIDs) == 0 {
		return counts, nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.JoinRequest{}).
		Select("event_id, status, COUNT(*) AS count").
		Where("event_id IN ?", eventIDs).
		Group("event_id, status").
		Scan(&counts).Error
	return counts, err
}
