// File: /models/report.go
package models

// RequestCounts tallies join requests by status.
type RequestCounts struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Rejected  int64 `json:"rejected"`
	CheckedIn int64 `json:"checked_in"`
}

func (c *RequestCounts) Add(status JoinRequestStatus, n int64) {
	c.Total += n
	switch status {
	case JoinRequestStatusPending:
		c.Pending += n
	case JoinRequestStatusApproved:
		c.Approved += n
	case JoinRequestStatusRejected:
		c.Rejected += n
	case JoinRequestStatusCheckedIn:
		c.CheckedIn += n
	}
}

// StatusCount is one row of a GROUP BY event_id, status query.
type StatusCount struct {
	EventID string            `json:"event_id"`
	Status  JoinRequestStatus `json:"status"`
	Count   int64             `json:"count"`
}

type EventSummary struct {
	Event    Event         `json:"event"`
	Requests RequestCounts `json:"requests"`
}

type LeaderboardEntry struct {
	ParticipantEmail    string `json:"participant_email"`
	TotalScore          int64  `json:"total_score"`
	ActivitiesCompleted int64  `json:"activities_completed"`
}
