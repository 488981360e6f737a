package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"questbridge-api/models"
	"questbridge-api/repositories"
)

// ownedEvent loads an event and checks that host owns it.
func ownedEvent(ctx context.Context, events repositories.EventRepository, host models.Identity, eventID string) (*models.Event, error) {
	if err := requireRole(host, models.RoleHost); err != nil {
		return nil, err
	}
	if eventID == "" {
		return nil, invalidArgument("event id is required")
	}

	event, err := events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("event not found")
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	if event.HostID != host.ID {
		return nil, forbidden("you can only manage your own events")
	}
	return event, nil
}
