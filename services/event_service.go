package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"questbridge-api/models"
	"questbridge-api/repositories"
)

const (
	defaultMaxAttendees = 100
	defaultCategory     = "conference"
)

type EventService interface {
	Create(ctx context.Context, host models.Identity, in models.EventFields) (*models.Event, error)
	Get(ctx context.Context, id string) (*models.Event, error)
	ListPublic(ctx context.Context) ([]models.Event, error)
	ListForHost(ctx context.Context, host models.Identity) ([]models.Event, error)
	Update(ctx context.Context, host models.Identity, id string, in models.EventUpdate) (*models.Event, error)
	Start(ctx context.Context, host models.Identity, id string, creds models.SessionCredentials) (*models.Event, error)
	End(ctx context.Context, host models.Identity, id string) (*models.Event, error)
	Delete(ctx context.Context, host models.Identity, id string) error
}

type eventService struct {
	events    repositories.EventRepository
	publisher EventPublisher
	log       *zap.Logger
}

func NewEventService(events repositories.EventRepository, publisher EventPublisher, log *zap.Logger) EventService {
	return &eventService{events: events, publisher: publisher, log: log}
}

func (s *eventService) Create(ctx context.Context, host models.Identity, in models.EventFields) (*models.Event, error) {
	if err := requireRole(host, models.RoleHost); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalidArgument("event title is required")
	}

	eventType := in.EventType
	if eventType == "" {
		eventType = models.EventTypeInPerson
	}
	if !eventType.Valid() {
		return nil, invalidArgument("unknown event type: " + string(eventType))
	}

	status := in.Status
	if status == "" {
		status = models.EventStatusPublished
	}
	if status != models.EventStatusDraft && status != models.EventStatusPublished {
		return nil, invalidArgument("new events must be draft or published")
	}

	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return nil, invalidArgument("end date must not be before start date")
	}

	maxAttendees := in.MaxAttendees
	if maxAttendees < 0 {
		return nil, invalidArgument("max attendees must not be negative")
	}
	if maxAttendees == 0 {
		maxAttendees = defaultMaxAttendees
	}
	if in.TicketPrice < 0 {
		return nil, invalidArgument("ticket price must not be negative")
	}

	category := in.Category
	if category == "" {
		category = defaultCategory
	}
	isFree := true
	if in.IsFree != nil {
		isFree = *in.IsFree
	}

	event := &models.Event{
		ID:           uuid.New().String(),
		HostID:       host.ID,
		HostName:     host.Username,
		HostEmail:    host.Email,
		Title:        title,
		Description:  in.Description,
		EventType:    eventType,
		Status:       status,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Location:     in.Location,
		VirtualLink:  in.VirtualLink,
		MaxAttendees: maxAttendees,
		CoverImage:   in.CoverImage,
		Category:     category,
		TicketPrice:  in.TicketPrice,
		IsFree:       isFree,
		AdvisorName:  in.AdvisorName,
		Contact:      in.Contact,
		Instruction:  in.Instruction,
		IsStarted:    false,
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) Get(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("event not found")
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListPublic(ctx context.Context) ([]models.Event, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *eventService) ListForHost(ctx context.Context, host models.Identity) ([]models.Event, error) {
	if err := requireRole(host, models.RoleHost); err != nil {
		return nil, err
	}
	events, err := s.events.ListByHost(ctx, host.ID)
	if err != nil {
		return nil, fmt.Errorf("list host events: %w", err)
	}
	return events, nil
}

func (s *eventService) Update(ctx context.Context, host models.Identity, id string, in models.EventUpdate) (*models.Event, error) {
	if err := requireRole(host, models.RoleHost); err != nil {
		return nil, err
	}

	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, invalidArgument("event title cannot be empty")
	}
	if in.EventType != nil && !in.EventType.Valid() {
		return nil, invalidArgument("unknown event type: " + string(*in.EventType))
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, invalidArgument("unknown event status: " + string(*in.Status))
	}
	if in.MaxAttendees != nil && *in.MaxAttendees < 0 {
		return nil, invalidArgument("max attendees must not be negative")
	}

	updates := in.Columns()
	if title, ok := updates["title"].(string); ok {
		updates["title"] = strings.TrimSpace(title)
	}
	// A live event that leaves the ongoing status is no longer started.
	if in.Status != nil && *in.Status != models.EventStatusOngoing {
		updates["is_started"] = false
	}

	var rows int64
	if len(updates) > 0 {
		var err error
		rows, err = s.events.UpdateOwned(ctx, id, host.ID, updates)
		if err != nil {
			return nil, fmt.Errorf("update event: %w", err)
		}
	}
	return s.reload(ctx, id, host.ID, rows)
}

func (s *eventService) Start(ctx context.Context, host models.Identity, id string, creds models.SessionCredentials) (*models.Event, error) {
	if err := requireRole(host, models.RoleHost); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"is_started":       true,
		"status":           models.EventStatusOngoing,
		"zoom_meeting_url": strings.TrimSpace(creds.MeetingURL),
		"zoom_meeting_id":  strings.TrimSpace(creds.MeetingID),
		"zoom_password":    strings.TrimSpace(creds.Password),
	}
	rows, err := s.events.UpdateOwned(ctx, id, host.ID, updates, models.EventStatusCompleted, models.EventStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("start event: %w", err)
	}

	event, err := s.reload(ctx, id, host.ID, rows, models.EventStatusCompleted, models.EventStatusCancelled)
	if err != nil {
		return nil, err
	}

	publishBestEffort(ctx, s.publisher, s.log, TopicEventStarted, eventMessage(event))
	return event, nil
}

func (s *eventService) End(ctx context.Context, host models.Identity, id string) (*models.Event, error) {
	if err := requireRole(host, models.RoleHost); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"is_started": false,
		"status":     models.EventStatusCompleted,
	}
	rows, err := s.events.UpdateOwned(ctx, id, host.ID, updates, models.EventStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("end event: %w", err)
	}

	event, err := s.reload(ctx, id, host.ID, rows, models.EventStatusCancelled)
	if err != nil {
		return nil, err
	}

	publishBestEffort(ctx, s.publisher, s.log, TopicEventEnded, eventMessage(event))
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, host models.Identity, id string) error {
	if err := requireRole(host, models.RoleHost); err != nil {
		return err
	}

	rows, err := s.events.DeleteOwned(ctx, id, host.ID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if rows > 0 {
		return nil
	}

	if _, err := s.reload(ctx, id, host.ID, 0); err != nil {
		return err
	}
	// Owned and still present: a concurrent writer got in between.
	return fmt.Errorf("delete event %s: no rows affected", id)
}

// reload fetches the event after a conditional write. When the write matched
// nothing, it explains why: the event is missing, owned by another host, or in
// one of the blocked statuses. An owned event outside blocked means the write
// was a no-op.
func (s *eventService) reload(ctx context.Context, id, hostID string, rows int64, blocked ...models.EventStatus) (*models.Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rows > 0 {
		return event, nil
	}

	if event.HostID != hostID {
		return nil, forbidden("you can only manage your own events")
	}
	for _, status := range blocked {
		if event.Status == status {
			return nil, invalidState(fmt.Sprintf("event is %s", event.Status))
		}
	}
	return event, nil
}

type eventPayload struct {
	EventID   string             `json:"event_id"`
	HostID    string             `json:"host_id"`
	Title     string             `json:"title"`
	Status    models.EventStatus `json:"status"`
	IsStarted bool               `json:"is_started"`
}

func eventMessage(event *models.Event) eventPayload {
	return eventPayload{
		EventID:   event.ID,
		HostID:    event.HostID,
		Title:     event.Title,
		Status:    event.Status,
		IsStarted: event.IsStarted,
	}
}
