package services

import (
	"context"
	"fmt"

	"questbridge-api/models"
	"questbridge-api/repositories"
)

// ReportService serves read-only projections over a host's events.
type ReportService interface {
	EventSummaries(ctx context.Context, host models.Identity) ([]models.EventSummary, error)
	// Requests lists join requests across all of the host's events, or for a
	// single owned event when eventID is set.
	Requests(ctx context.Context, host models.Identity, eventID string) ([]models.JoinRequest, error)
	Leaderboard(ctx context.Context, host models.Identity, eventID string) ([]models.LeaderboardEntry, error)
	EngagementLogs(ctx context.Context, host models.Identity, eventID string) ([]models.EngagementLog, error)
}

type reportService struct {
	events     repositories.EventRepository
	requests   repositories.JoinRequestRepository
	engagement repositories.EngagementRepository
}

func NewReportService(
	events repositories.EventRepository,
	requests repositories.JoinRequestRepository,
	engagement repositories.EngagementRepository,
) ReportService {
	return &reportService{events: events, requests: requests, engagement: engagement}
}

func (s *reportService) EventSummaries(ctx context.Context, host models.Identity) ([]models.EventSummary, error) {
	if err := requireRole(host, models.RoleHost); err != nil {
		return nil, err
	}

	events, err := s.events.ListByHost(ctx, host.ID)
	if err != nil {
		return nil, fmt.Errorf("list host events: %w", err)
	}
	summaries := make([]models.EventSummary, 0, len(events))
	if len(events) == 0 {
		return summaries, nil
	}

	ids := make([]string, len(events))
	for i, event := range events {
		ids[i] = event.ID
	}
	counts, err := s.requests.CountByStatus(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count requests: %w", err)
	}

	byEvent := make(map[string]*models.RequestCounts, len(events))
	for _, c := range counts {
		tally, ok := byEvent[c.EventID]
		if !ok {
			tally = &models.RequestCounts{}
			byEvent[c.EventID] = tally
		}
		tally.Add(c.Status, c.Count)
	}

	for _, event := range events {
		summary := models.EventSummary{Event: event}
		if tally, ok := byEvent[event.ID]; ok {
			summary.Requests = *tally
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *reportService) Requests(ctx context.Context, host models.Identity, eventID string) ([]models.JoinRequest, error) {
	if eventID == "" {
		if err := requireRole(host, models.RoleHost); err != nil {
			return nil, err
		}
		ids, err := s.events.ListIDsByHost(ctx, host.ID)
		if err != nil {
			return nil, fmt.Errorf("list host events: %w", err)
		}
		requests, err := s.requests.ListByEvents(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("list requests: %w", err)
		}
		return requests, nil
	}

	event, err := ownedEvent(ctx, s.events, host, eventID)
	if err != nil {
		return nil, err
	}
	requests, err := s.requests.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	for i := range requests {
		requests[i].Event = event
	}
	return requests, nil
}

func (s *reportService) Leaderboard(ctx context.Context, host models.Identity, eventID string) ([]models.LeaderboardEntry, error) {
	if _, err := ownedEvent(ctx, s.events, host, eventID); err != nil {
		return nil, err
	}
	entries, err := s.engagement.Leaderboard(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("build leaderboard: %w", err)
	}
	return entries, nil
}

func (s *reportService) EngagementLogs(ctx context.Context, host models.Identity, eventID string) ([]models.EngagementLog, error) {
	if _, err := ownedEvent(ctx, s.events, host, eventID); err != nil {
		return nil, err
	}
	logs, err := s.engagement.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list engagement logs: %w", err)
	}
	return logs, nil
}
