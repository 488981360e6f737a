package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"questbridge-api/models"
	"questbridge-api/repositories"
)

const (
	ReasonNotApproved           = "not_approved"
	ReasonWaitingForHostToStart = "waiting_for_host_to_start"
)

// SessionAccess is the gate's verdict. Event, with its meeting credentials,
// is only present when access is allowed.
type SessionAccess struct {
	Allowed bool                     `json:"allowed"`
	Reason  string                   `json:"reason,omitempty"`
	Status  models.JoinRequestStatus `json:"status"`
	Event   *models.Event            `json:"event,omitempty"`
}

type SessionGate interface {
	CanEnter(ctx context.Context, attendee models.Identity, eventID string) (*SessionAccess, error)
}

type sessionGate struct {
	ledger JoinRequestService
	events repositories.EventRepository
}

func NewSessionGate(ledger JoinRequestService, events repositories.EventRepository) SessionGate {
	return &sessionGate{ledger: ledger, events: events}
}

// CanEnter reports whether the attendee may join the live session. A refusal
// is a result, not an error; a missing request is still NotFound.
func (g *sessionGate) CanEnter(ctx context.Context, attendee models.Identity, eventID string) (*SessionAccess, error) {
	request, err := g.ledger.GetApprovedParticipation(ctx, attendee, eventID)
	if err != nil {
		if e, ok := AsError(err); ok && e.Kind == KindForbidden && e.Status != "" {
			return &SessionAccess{Allowed: false, Reason: ReasonNotApproved, Status: e.Status}, nil
		}
		return nil, err
	}

	event := request.Event
	if event == nil {
		event, err = g.events.FindByID(ctx, eventID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("event not found")
		}
		if err != nil {
			return nil, fmt.Errorf("find event: %w", err)
		}
	}

	if !event.IsStarted {
		return &SessionAccess{Allowed: false, Reason: ReasonWaitingForHostToStart, Status: request.Status}, nil
	}
	return &SessionAccess{Allowed: true, Status: request.Status, Event: event}, nil
}
