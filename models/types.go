// File: /models/types.go
package models

// Identity is the verified caller attached to every authenticated request.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Role     Role   `json:"role"`
}

// DisplayName returns the display handle, falling back to the email address.
func (i Identity) DisplayName() string {
	if i.Username != "" {
		return i.Username
	}
	return i.Email
}

// SessionCredentials are the video-conference details revealed to approved
// attendees once the host starts the event. Any field may be empty.
type SessionCredentials struct {
	MeetingURL string `json:"zoom_meeting_url,omitempty" gorm:"column:zoom_meeting_url;size:500"`
	MeetingID  string `json:"zoom_meeting_id,omitempty" gorm:"column:zoom_meeting_id;size:100"`
	Password   string `json:"zoom_password,omitempty" gorm:"column:zoom_password;size:100"`
}

func (c SessionCredentials) IsEmpty() bool {
	return c.MeetingURL == "" && c.MeetingID == "" && c.Password == ""
}
