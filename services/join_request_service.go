package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"questbridge-api/models"
	"questbridge-api/repositories"
	"questbridge-api/utils"
)

const notificationTimeout = 30 * time.Second

type JoinRequestService interface {
	Create(ctx context.Context, attendee models.Identity, eventID, message string) (*models.JoinRequest, error)
	ListForEvent(ctx context.Context, host models.Identity, eventID string) ([]models.JoinRequest, error)
	ListAllForHost(ctx context.Context, host models.Identity) ([]models.JoinRequest, error)
	ListForAttendee(ctx context.Context, attendee models.Identity) ([]models.JoinRequest, error)
	GetApprovedParticipation(ctx context.Context, attendee models.Identity, eventID string) (*models.JoinRequest, error)
	UpdateStatus(ctx context.Context, host models.Identity, requestID string, status models.JoinRequestStatus, ticketType string) (*models.JoinRequest, error)
}

type joinRequestService struct {
	requests  repositories.JoinRequestRepository
	events    repositories.EventRepository
	notifier  Notifier
	publisher EventPublisher
	log       *zap.Logger
	// dispatch runs approval notifications off the request path.
	dispatch func(func())
}

func NewJoinRequestService(
	requests repositories.JoinRequestRepository,
	events repositories.EventRepository,
	notifier Notifier,
	publisher EventPublisher,
	log *zap.Logger,
) JoinRequestService {
	return &joinRequestService{
		requests:  requests,
		events:    events,
		notifier:  notifier,
		publisher: publisher,
		log:       log,
		dispatch:  func(fn func()) { go fn() },
	}
}

func (s *joinRequestService) Create(ctx context.Context, attendee models.Identity, eventID, message string) (*models.JoinRequest, error) {
	if err := requireRole(attendee, models.RoleAttendee); err != nil {
		return nil, err
	}
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, invalidArgument("event id is required")
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("event not found")
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	if !event.Status.AcceptsRequests() {
		return nil, invalidState("this event is no longer accepting requests")
	}

	request := &models.JoinRequest{
		ID:         uuid.New().String(),
		EventID:    event.ID,
		UserID:     attendee.ID,
		UserName:   attendee.DisplayName(),
		UserEmail:  attendee.Email,
		Message:    message,
		Status:     models.JoinRequestStatusPending,
		TicketType: models.DefaultTicketType,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("you have already requested to join this event")
		}
		return nil, fmt.Errorf("create join request: %w", err)
	}

	publishBestEffort(ctx, s.publisher, s.log, TopicJoinRequestCreated, requestMessage(request, ""))
	return request, nil
}

func (s *joinRequestService) ListForEvent(ctx context.Context, host models.Identity, eventID string) ([]models.JoinRequest, error) {
	if _, err := ownedEvent(ctx, s.events, host, eventID); err != nil {
		return nil, err
	}
	requests, err := s.requests.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event requests: %w", err)
	}
	return requests, nil
}

func (s *joinRequestService) ListAllForHost(ctx context.Context, host models.Identity) ([]models.JoinRequest, error) {
	if err := requireRole(host, models.RoleHost); err != nil {
		return nil, err
	}

	eventIDs, err := s.events.ListIDsByHost(ctx, host.ID)
	if err != nil {
		return nil, fmt.Errorf("list host events: %w", err)
	}
	if len(eventIDs) == 0 {
		return []models.JoinRequest{}, nil
	}

	requests, err := s.requests.ListByEvents(ctx, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("list host requests: %w", err)
	}
	return requests, nil
}

func (s *joinRequestService) ListForAttendee(ctx context.Context, attendee models.Identity) ([]models.JoinRequest, error) {
	if err := requireRole(attendee, models.RoleAttendee); err != nil {
		return nil, err
	}
	requests, err := s.requests.ListByUser(ctx, attendee.ID)
	if err != nil {
		return nil, fmt.Errorf("list attendee requests: %w", err)
	}
	// Meeting credentials reach attendees only through the session gate.
	for i := range requests {
		if requests[i].Event != nil {
			event := requests[i].Event.Public()
			requests[i].Event = &event
		}
	}
	return requests, nil
}

func (s *joinRequestService) GetApprovedParticipation(ctx context.Context, attendee models.Identity, eventID string) (*models.JoinRequest, error) {
	if err := requireRole(attendee, models.RoleAttendee); err != nil {
		return nil, err
	}

	request, err := s.requests.FindByEventAndUser(ctx, eventID, attendee.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("no request found for this event")
		}
		return nil, fmt.Errorf("find participation: %w", err)
	}

	if request.Status != models.JoinRequestStatusApproved {
		e := forbidden("your request has not been approved")
		e.Status = request.Status
		return nil, e
	}
	return request, nil
}

func (s *joinRequestService) UpdateStatus(ctx context.Context, host models.Identity, requestID string, status models.JoinRequestStatus, ticketType string) (*models.JoinRequest, error) {
	if !status.IsModerationTarget() {
		return nil, invalidArgument(`status must be "approved", "rejected", or "checked_in"`)
	}
	if err := requireRole(host, models.RoleHost); err != nil {
		return nil, err
	}
	ticketType = strings.TrimSpace(ticketType)
	if ticketType != "" && !utils.IsValidTicketType(ticketType) {
		return nil, invalidArgument("ticket type must be at most 50 characters")
	}

	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("request not found")
		}
		return nil, fmt.Errorf("find join request: %w", err)
	}

	event, err := s.events.FindByID(ctx, request.EventID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find event: %w", err)
	}
	if event == nil || event.HostID != host.ID {
		return nil, forbidden("you can only manage requests for your own events")
	}

	previous := request.Status
	if !previous.CanTransitionTo(status) {
		e := invalidState(fmt.Sprintf("cannot move a %s request to %s", previous, status))
		e.Status = previous
		return nil, e
	}

	rows, err := s.requests.UpdateStatus(ctx, request.ID, previous, status, ticketType)
	if err != nil {
		return nil, fmt.Errorf("update join request: %w", err)
	}
	if rows == 0 {
		return nil, invalidState("request was modified by another operation, reload and retry")
	}

	request.Status = status
	if ticketType != "" {
		request.TicketType = ticketType
	}
	request.Event = event

	if status == models.JoinRequestStatusApproved {
		s.notifyApproval(*request, *event)
	}
	publishBestEffort(ctx, s.publisher, s.log, TopicJoinRequestStatusChange, requestMessage(request, previous))
	return request, nil
}

func (s *joinRequestService) notifyApproval(request models.JoinRequest, event models.Event) {
	if s.notifier == nil {
		return
	}
	request.Event = nil
	s.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), notificationTimeout)
		defer cancel()

		if err := s.notifier.SendApproval(ctx, request, event); err != nil {
			s.log.Warn("approval email failed",
				zap.String("request_id", request.ID),
				zap.String("event_id", event.ID),
				zap.Error(err))
		}
	})
}

type requestPayload struct {
	RequestID      string                   `json:"request_id"`
	EventID        string                   `json:"event_id"`
	UserID         string                   `json:"user_id"`
	Status         models.JoinRequestStatus `json:"status"`
	PreviousStatus models.JoinRequestStatus `json:"previous_status,omitempty"`
	TicketType     string                   `json:"ticket_type"`
}

func requestMessage(request *models.JoinRequest, previous models.JoinRequestStatus) requestPayload {
	return requestPayload{
		RequestID:      request.ID,
		EventID:        request.EventID,
		UserID:         request.UserID,
		Status:         request.Status,
		PreviousStatus: previous,
		TicketType:     request.TicketType,
	}
}
