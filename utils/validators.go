// File: /utils/validators.go
package utils

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidTicketType accepts short labels such as "general" or "vip".
func IsValidTicketType(ticketType string) bool {
	ticketType = strings.TrimSpace(ticketType)
	return ticketType != "" && len(ticketType) <= 50
}
