package repositories

import (
	"context"

	"gorm.io/gorm"
	"questbridge-api/models"
)

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	ListByHost(ctx context.Context, hostID string) ([]models.Event, error)
	ListIDsByHost(ctx context.Context, hostID string) ([]string, error)
	// UpdateOwned applies updates only when the event belongs to hostID and
	// its status is not one of blocked. It returns the number of rows changed.
	UpdateOwned(ctx context.Context, id, hostID string, updates map[string]interface{}, blocked ...models.EventStatus) (int64, error)
	// DeleteOwned removes the event together with its join requests and
	// engagement logs. Zero rows means nothing matched id and hostID.
	DeleteOwned(ctx context.Context, id, hostID string) (int64, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context) ([]models.Event, error) {
	events := []models.Event{}
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&events).Error
	return events, err
}

func (r *eventRepository) ListByHost(ctx context.Context, hostID string) ([]models.Event, error) {
	events := []models.Event{}
	err := r.db.WithContext(ctx).
		Where("host_id = ?", hostID).
		Order("created_at DESC").
		Find(&events).Error
	return events, err
}

func (r *eventRepository) ListIDsByHost(ctx context.Context, hostID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("host_id = ?", hostID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *eventRepository) UpdateOwned(ctx context.Context, id, hostID string, updates map[string]interface{}, blocked ...models.EventStatus) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ? AND host_id = ?", id, hostID)
	if len(blocked) > 0 {
		query = query.Where("status NOT IN ?", blocked)
	}

	result := query.Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *eventRepository) DeleteOwned(ctx context.Context, id, hostID string) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND host_id = ?", id, hostID).Delete(&models.Event{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		if deleted == 0 {
			return nil
		}

		if err := tx.Where("event_id = ?", id).Delete(&models.JoinRequest{}).Error; err != nil {
			return err
		}
		return tx.Where("event_id = ?", id).Delete(&models.EngagementLog{}).Error
	})
	return deleted, err
}
