// File: /services/email_service.go
package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
	"questbridge-api/config"
	"questbridge-api/models"
)

// Notifier delivers outbound email. Callers treat delivery as best effort.
type Notifier interface {
	// Configured is false when mail is only simulated.
	Configured() bool
	Send(ctx context.Context, to, subject, body string) error
	SendApproval(ctx context.Context, request models.JoinRequest, event models.Event) error
}

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailService struct {
	config *config.Config
	dialer mailSender
	log    *zap.Logger
}

func NewEmailService(cfg *config.Config, log *zap.Logger) *EmailService {
	dialer := gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)

	return &EmailService{
		config: cfg,
		dialer: dialer,
		log:    log,
	}
}

func (es *EmailService) Configured() bool {
	return es.config.SMTPConfigured()
}

// Send delivers a plain text message with an HTML alternative. Without SMTP
// settings the message is logged and reported as sent.
func (es *EmailService) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !es.Configured() {
		es.log.Info("email simulated (smtp not configured)",
			zap.String("to", to),
			zap.String("subject", subject))
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(es.config.SMTP.FromEmail, es.config.SMTP.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	m.AddAlternative("text/html", renderHTML(body))

	if err := es.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}

	es.log.Debug("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func (es *EmailService) SendApproval(ctx context.Context, request models.JoinRequest, event models.Event) error {
	if request.UserEmail == "" {
		return fmt.Errorf("join request %s has no email address", request.ID)
	}
	subject := fmt.Sprintf("Request Approved: %s", event.Title)
	return es.Send(ctx, request.UserEmail, subject, ApprovalBody(request, event, es.config.SMTP.FromName))
}

// ApprovalBody composes the approval message. Location, advisor, contact
// and instructions apply to physical venues; the streaming link to online
// formats.
func ApprovalBody(request models.JoinRequest, event models.Event, signature string) string {
	name := request.UserName
	if name == "" {
		name = "Attendee"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", name)
	fmt.Fprintf(&b, "Your request to join \"%s\" has been APPROVED.\n\n", event.Title)
	b.WriteString("Event Details:\n")
	fmt.Fprintf(&b, "- Date & Time: %s\n", formatEventDate(event))
	fmt.Fprintf(&b, "- Host Name: %s", orNA(event.HostName))

	if event.EventType == models.EventTypeInPerson || event.EventType == models.EventTypeHybrid {
		if event.Location != "" {
			fmt.Fprintf(&b, "\n- Location: %s", event.Location)
		}
	}
	if event.EventType == models.EventTypeInPerson {
		if event.AdvisorName != "" {
			fmt.Fprintf(&b, "\n- Advisor Name: %s", event.AdvisorName)
		}
		if event.Contact != "" {
			fmt.Fprintf(&b, "\n- Contact: %s", event.Contact)
		}
	}
	if event.EventType.IsOnline() && event.VirtualLink != "" {
		fmt.Fprintf(&b, "\n- Streaming Link: %s", event.VirtualLink)
	}

	fmt.Fprintf(&b, "\n\nDescription:\n%s", orNA(event.Description))

	if event.EventType == models.EventTypeInPerson && event.Instruction != "" {
		fmt.Fprintf(&b, "\n\nInstructions for Attendees:\n%s", event.Instruction)
	}

	fmt.Fprintf(&b, "\n\nWe look forward to seeing you there!\n\nBest regards,\n%s Team", signature)
	return b.String()
}

func formatEventDate(event models.Event) string {
	if event.StartDate == nil {
		return "TBD"
	}
	return event.StartDate.Format("2 Jan 2006, 03:04 PM")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func renderHTML(body string) string {
	escaped := html.EscapeString(body)
	escaped = strings.ReplaceAll(escaped, "\n\n", "<br><br>")
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return `<div style="font-family:sans-serif;padding:20px;line-height:1.6;">` + escaped + `</div>`
}
