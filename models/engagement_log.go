// File: /models/engagement_log.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

// EngagementLog records one scored session activity (quiz, poll, mini-game).
// Rows are never updated.
type EngagementLog struct {
	ID               string         `json:"id" gorm:"primaryKey;size:191"`
	EventID          *string        `json:"event_id,omitempty" gorm:"size:191;index"`
	ParticipantEmail string         `json:"participant_email" gorm:"not null;size:255;index"`
	ActivityType     string         `json:"activity_type" gorm:"not null;size:100"`
	Details          datatypes.JSON `json:"details"`
	Score            int            `json:"score" gorm:"default:0"`
	Timestamp        time.Time      `json:"timestamp" gorm:"autoCreateTime;index"`
}
