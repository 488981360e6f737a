// File: /models/event.go
package models

import (
	"time"
)

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusOngoing, EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}

// AcceptsRequests reports whether new join requests may be filed.
func (s EventStatus) AcceptsRequests() bool {
	return s != EventStatusCancelled && s != EventStatusCompleted
}

type EventType string

const (
	EventTypeInPerson EventType = "in_person"
	EventTypeVirtual  EventType = "virtual"
	EventTypeHybrid   EventType = "hybrid"
	EventTypeWebinar  EventType = "webinar"
)

func (t EventType) Valid() bool {
	switch t {
	case EventTypeInPerson, EventTypeVirtual, EventTypeHybrid, EventTypeWebinar:
		return true
	}
	return false
}

// IsOnline reports whether attendees join through a streaming link.
func (t EventType) IsOnline() bool {
	return t == EventTypeVirtual || t == EventTypeHybrid || t == EventTypeWebinar
}

type Event struct {
	ID           string      `json:"id" gorm:"primaryKey;size:191"`
	HostID       string      `json:"host_id" gorm:"not null;size:191;index:idx_events_host_created,priority:1"`
	HostName     string      `json:"host_name" gorm:"size:255"`
	HostEmail    string      `json:"host_email" gorm:"size:255"`
	Title        string      `json:"title" gorm:"not null;size:255"`
	Description  string      `json:"description" gorm:"type:text"`
	EventType    EventType   `json:"event_type" gorm:"not null;default:'in_person';size:20"`
	Status       EventStatus `json:"status" gorm:"not null;default:'published';size:20;index"`
	StartDate    *time.Time  `json:"start_date"`
	EndDate      *time.Time  `json:"end_date"`
	Location     string      `json:"location" gorm:"size:500"`
	VirtualLink  string      `json:"virtual_link" gorm:"size:500"`
	MaxAttendees int         `json:"max_attendees" gorm:"default:100"`
	CoverImage   string      `json:"cover_image" gorm:"type:text"`
	Category     string      `json:"category" gorm:"size:100"`
	TicketPrice  float64     `json:"ticket_price" gorm:"default:0"`
	IsFree       bool        `json:"is_free"`
	AdvisorName  string      `json:"advisor_name" gorm:"size:255"`
	Contact      string      `json:"contact" gorm:"size:255"`
	Instruction  string      `json:"instruction" gorm:"type:text"`
	IsStarted    bool        `json:"is_started" gorm:"default:false"`
	SessionCredentials
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_events_host_created,priority:2"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Public returns a copy of the event without its session credentials, for
// callers the session gate has not admitted.
func (e Event) Public() Event {
	e.SessionCredentials = SessionCredentials{}
	return e
}

// EventFields is the host-supplied payload for a new event.
type EventFields struct {
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	EventType    EventType   `json:"event_type"`
	Status       EventStatus `json:"status"`
	StartDate    *time.Time  `json:"start_date"`
	EndDate      *time.Time  `json:"end_date"`
	Location     string      `json:"location"`
	VirtualLink  string      `json:"virtual_link"`
	MaxAttendees int         `json:"max_attendees"`
	CoverImage   string      `json:"cover_image"`
	Category     string      `json:"category"`
	TicketPrice  float64     `json:"ticket_price"`
	IsFree       *bool       `json:"is_free"`
	AdvisorName  string      `json:"advisor_name"`
	Contact      string      `json:"contact"`
	Instruction  string      `json:"instruction"`
}

// EventUpdate is a partial event record. Identity, ownership and session
// state are deliberately absent; those change only through dedicated
// operations.
type EventUpdate struct {
	Title        *string      `json:"title"`
	Description  *string      `json:"description"`
	EventType    *EventType   `json:"event_type"`
	Status       *EventStatus `json:"status"`
	StartDate    *time.Time   `json:"start_date"`
	EndDate      *time.Time   `json:"end_date"`
	Location     *string      `json:"location"`
	VirtualLink  *string      `json:"virtual_link"`
	MaxAttendees *int         `json:"max_attendees"`
	CoverImage   *string      `json:"cover_image"`
	Category     *string      `json:"category"`
	TicketPrice  *float64     `json:"ticket_price"`
	IsFree       *bool        `json:"is_free"`
	AdvisorName  *string      `json:"advisor_name"`
	Contact      *string      `json:"contact"`
	Instruction  *string      `json:"instruction"`
}

// Columns maps the fields that were supplied to their column names.
func (u EventUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{})

	if u.Title != nil {
		cols["title"] = *u.Title
	}
	if u.Description != nil {
		cols["description"] = *u.Description
	}
	if u.EventType != nil {
		cols["event_type"] = *u.EventType
	}
	if u.Status != nil {
		cols["status"] = *u.Status
	}
	if u.StartDate != nil {
		cols["start_date"] = *u.StartDate
	}
	if u.EndDate != nil {
		cols["end_date"] = *u.EndDate
	}
	if u.Location != nil {
		cols["location"] = *u.Location
	}
	if u.VirtualLink != nil {
		cols["virtual_link"] = *u.VirtualLink
	}
	if u.MaxAttendees != nil {
		cols["max_attendees"] = *u.MaxAttendees
	}
	if u.CoverImage != nil {
		cols["cover_image"] = *u.CoverImage
	}
	if u.Category != nil {
		cols["category"] = *u.Category
	}
	if u.TicketPrice != nil {
		cols["ticket_price"] = *u.TicketPrice
	}
	if u.IsFree != nil {
		cols["is_free"] = *u.IsFree
	}
	if u.AdvisorName != nil {
		cols["advisor_name"] = *u.AdvisorName
	}
	if u.Contact != nil {
		cols["contact"] = *u.Contact
	}
	if u.Instruction != nil {
		cols["instruction"] = *u.Instruction
	}
	return cols
}
