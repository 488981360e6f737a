package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"questbridge-api/models"
	"questbridge-api/repositories"
	"questbridge-api/utils"
)

const campaignConcurrency = 5

type CampaignResult struct {
	RecipientCount int       `json:"recipient_count"`
	Delivered      int64     `json:"delivered"`
	Failed         int64     `json:"failed"`
	Simulated      bool      `json:"simulated"`
	Timestamp      time.Time `json:"timestamp"`
}

// CampaignService sends host-authored email to event audiences.
type CampaignService interface {
	Broadcast(ctx context.Context, host models.Identity, eventID, subject, body string) (*CampaignResult, error)
	SendSingle(ctx context.Context, host models.Identity, email, subject, body string) (*CampaignResult, error)
}

type campaignService struct {
	events   repositories.EventRepository
	requests repositories.JoinRequestRepository
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewCampaignService(
	events repositories.EventRepository,
	requests repositories.JoinRequestRepository,
	notifier Notifier,
	log *zap.Logger,
) CampaignService {
	return &campaignService{
		events:   events,
		requests: requests,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Broadcast mails every approved or checked-in attendee of the event.
// Individual delivery failures are counted, not returned.
func (s *campaignService) Broadcast(ctx context.Context, host models.Identity, eventID, subject, body string) (*CampaignResult, error) {
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(body) == "" {
		return nil, invalidArgument("subject and body are required")
	}
	if _, err := ownedEvent(ctx, s.events, host, eventID); err != nil {
		return nil, err
	}

	audience, err := s.requests.ListByEventAndStatus(ctx, eventID,
		models.JoinRequestStatusApproved, models.JoinRequestStatusCheckedIn)
	if err != nil {
		return nil, fmt.Errorf("list campaign audience: %w", err)
	}

	recipients := make([]string, 0, len(audience))
	seen := make(map[string]struct{}, len(audience))
	for _, r := range audience {
		email := models.NormalizeEmail(r.UserEmail)
		if email == "" {
			continue
		}
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		recipients = append(recipients, email)
	}
	if len(recipients) == 0 {
		return nil, notFound("no recipients found")
	}

	result := &CampaignResult{
		RecipientCount: len(recipients),
		Simulated:      !s.notifier.Configured(),
	}

	var delivered, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(campaignConcurrency)
	for _, to := range recipients {
		g.Go(func() error {
			if err := s.notifier.Send(gctx, to, subject, body); err != nil {
				failed.Add(1)
				s.log.Warn("campaign email failed", zap.String("to", to), zap.Error(err))
				return nil
			}
			delivered.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	result.Delivered = delivered.Load()
	result.Failed = failed.Load()
	result.Timestamp = s.now()

	s.log.Info("campaign sent",
		zap.String("event_id", eventID),
		zap.Int("recipients", result.RecipientCount),
		zap.Int64("failed", result.Failed),
		zap.Bool("simulated", result.Simulated))
	return result, nil
}

func (s *campaignService) SendSingle(ctx context.Context, host models.Identity, email, subject, body string) (*CampaignResult, error) {
	if err := requireRole(host, models.RoleHost); err != nil {
		return nil, err
	}
	email = models.NormalizeEmail(email)
	if email == "" || strings.TrimSpace(subject) == "" || strings.TrimSpace(body) == "" {
		return nil, invalidArgument("email, subject, and body are required")
	}
	if !utils.IsValidEmail(email) {
		return nil, invalidArgument("invalid email format")
	}

	if err := s.notifier.Send(ctx, email, subject, body); err != nil {
		return nil, fmt.Errorf("send email: %w", err)
	}
	return &CampaignResult{
		RecipientCount: 1,
		Delivered:      1,
		Simulated:      !s.notifier.Configured(),
		Timestamp:      s.now(),
	}, nil
}
