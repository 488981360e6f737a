package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"questbridge-api/models"
	"questbridge-api/repositories"
)

type EngagementInput struct {
	EventID      string          `json:"event_id"`
	ActivityType string          `json:"activity_type"`
	Details      json.RawMessage `json:"details"`
	Score        int             `json:"score"`
}

type EngagementService interface {
	// Record appends a scored activity for the attendee. When an event is
	// named the attendee must hold an approved request for it.
	Record(ctx context.Context, attendee models.Identity, in EngagementInput) (*models.EngagementLog, error)
}

type engagementService struct {
	logs   repositories.EngagementRepository
	ledger JoinRequestService
}

func NewEngagementService(logs repositories.EngagementRepository, ledger JoinRequestService) EngagementService {
	return &engagementService{logs: logs, ledger: ledger}
}

func (s *engagementService) Record(ctx context.Context, attendee models.Identity, in EngagementInput) (*models.EngagementLog, error) {
	activity := strings.TrimSpace(in.ActivityType)
	if activity == "" {
		return nil, invalidArgument("activity type is required")
	}
	if attendee.Email == "" {
		return nil, invalidArgument("participant email is required")
	}

	entry := &models.EngagementLog{
		ID:               uuid.New().String(),
		ParticipantEmail: attendee.Email,
		ActivityType:     activity,
		Score:            in.Score,
	}
	if len(in.Details) > 0 && string(in.Details) != "null" {
		entry.Details = datatypes.JSON(in.Details)
	}

	if eventID := strings.TrimSpace(in.EventID); eventID != "" {
		if _, err := s.ledger.GetApprovedParticipation(ctx, attendee, eventID); err != nil {
			return nil, err
		}
		entry.EventID = &eventID
	}

	if err := s.logs.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create engagement log: %w", err)
	}
	return entry, nil
}
