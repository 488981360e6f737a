// File: /models/join_request.go
package models

import "time"

type JoinRequestStatus string

const (
	JoinRequestStatusPending   JoinRequestStatus = "pending"
	JoinRequestStatusApproved  JoinRequestStatus = "approved"
	JoinRequestStatusRejected  JoinRequestStatus = "rejected"
	JoinRequestStatusCheckedIn JoinRequestStatus = "checked_in"
)

const DefaultTicketType = "general"

var joinRequestTransitions = map[JoinRequestStatus][]JoinRequestStatus{
	JoinRequestStatusPending:  {JoinRequestStatusApproved, JoinRequestStatusRejected},
	JoinRequestStatusApproved: {JoinRequestStatusCheckedIn},
}

// IsModerationTarget reports whether a host may move a request into s.
func (s JoinRequestStatus) IsModerationTarget() bool {
	switch s {
	case JoinRequestStatusApproved, JoinRequestStatusRejected, JoinRequestStatusCheckedIn:
		return true
	}
	return false
}

func (s JoinRequestStatus) CanTransitionTo(next JoinRequestStatus) bool {
	for _, allowed := range joinRequestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type JoinRequest struct {
	ID         string            `json:"id" gorm:"primaryKey;size:191"`
	EventID    string            `json:"event_id" gorm:"not null;size:191;uniqueIndex:uk_join_requests_event_user,priority:1"`
	UserID     string            `json:"user_id" gorm:"not null;size:191;uniqueIndex:uk_join_requests_event_user,priority:2;index"`
	UserName   string            `json:"user_name" gorm:"size:255"`
	UserEmail  string            `json:"user_email" gorm:"size:255"`
	Message    string            `json:"message" gorm:"type:text"`
	Status     JoinRequestStatus `json:"status" gorm:"not null;default:'pending';size:20;index"`
	TicketType string            `json:"ticket_type" gorm:"not null;default:'general';size:50"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`

	Event *Event `json:"event,omitempty" gorm:"foreignKey:EventID"`
}
