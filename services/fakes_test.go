package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
	"questbridge-api/models"
)

// memStore backs the repository fakes. It enforces the same (event_id,
// user_id) uniqueness and conditional-write semantics as the SQL schema.
type memStore struct {
	mu       sync.Mutex
	clock    time.Time
	events   map[string]models.Event
	requests map[string]models.JoinRequest
	logs     []models.EngagementLog
}

func newMemStore() *memStore {
	return &memStore{
		clock:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		events:   make(map[string]models.Event),
		requests: make(map[string]models.JoinRequest),
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

type fakeEvents struct{ s *memStore }

func (f fakeEvents) Create(_ context.Context, event *models.Event) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, exists := f.s.events[event.ID]; exists {
		return gorm.ErrDuplicatedKey
	}
	now := f.s.tick()
	event.CreatedAt, event.UpdatedAt = now, now
	f.s.events[event.ID] = *event
	return nil
}

func (f fakeEvents) FindByID(_ context.Context, id string) (*models.Event, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	event, ok := f.s.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &event, nil
}

func (f fakeEvents) List(context.Context) ([]models.Event, error) {
	return f.filter(func(models.Event) bool { return true }), nil
}

func (f fakeEvents) ListByHost(_ context.Context, hostID string) ([]models.Event, error) {
	return f.filter(func(e models.Event) bool { return e.HostID == hostID }), nil
}

func (f fakeEvents) ListIDsByHost(ctx context.Context, hostID string) ([]string, error) {
	events, _ := f.ListByHost(ctx, hostID)
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	return ids, nil
}

func (f fakeEvents) filter(keep func(models.Event) bool) []models.Event {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []models.Event{}
	for _, e := range f.s.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f fakeEvents) UpdateOwned(_ context.Context, id, hostID string, updates map[string]interface{}, blocked ...models.EventStatus) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	event, ok := f.s.events[id]
	if !ok || event.HostID != hostID {
		return 0, nil
	}
	for _, status := range blocked {
		if event.Status == status {
			return 0, nil
		}
	}
	applyEventColumns(&event, updates)
	event.UpdatedAt = f.s.tick()
	f.s.events[id] = event
	return 1, nil
}

func (f fakeEvents) DeleteOwned(_ context.Context, id, hostID string) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	event, ok := f.s.events[id]
	if !ok || event.HostID != hostID {
		return 0, nil
	}
	delete(f.s.events, id)
	for rid, r := range f.s.requests {
		if r.EventID == id {
			delete(f.s.requests, rid)
		}
	}
	kept := f.s.logs[:0]
	for _, l := range f.s.logs {
		if l.EventID == nil || *l.EventID != id {
			kept = append(kept, l)
		}
	}
	f.s.logs = kept
	return 1, nil
}

func applyEventColumns(e *models.Event, cols map[string]interface{}) {
	for name, value := range cols {
		switch name {
		case "title":
			e.Title = value.(string)
		case "description":
			e.Description = value.(string)
		case "event_type":
			e.EventType = value.(models.EventType)
		case "status":
			e.Status = value.(models.EventStatus)
		case "start_date":
			t := value.(time.Time)
			e.StartDate = &t
		case "end_date":
			t := value.(time.Time)
			e.EndDate = &t
		case "location":
			e.Location = value.(string)
		case "virtual_link":
			e.VirtualLink = value.(string)
		case "max_attendees":
			e.MaxAttendees = value.(int)
		case "cover_image":
			e.CoverImage = value.(string)
		case "category":
			e.Category = value.(string)
		case "ticket_price":
			e.TicketPrice = value.(float64)
		case "is_free":
			e.IsFree = value.(bool)
		case "advisor_name":
			e.AdvisorName = value.(string)
		case "contact":
			e.Contact = value.(string)
		case "instruction":
			e.Instruction = value.(string)
		case "is_started":
			e.IsStarted = value.(bool)
		case "zoom_meeting_url":
			e.MeetingURL = value.(string)
		case "zoom_meeting_id":
			e.MeetingID = value.(string)
		case "zoom_password":
			e.Password = value.(string)
		default:
			panic("unexpected event column " + name)
		}
	}
}

type fakeRequests struct{ s *memStore }

func (f fakeRequests) Create(_ context.Context, request *models.JoinRequest) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, r := range f.s.requests {
		if r.EventID == request.EventID && r.UserID == request.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	now := f.s.tick()
	request.CreatedAt, request.UpdatedAt = now, now
	stored := *request
	stored.Event = nil
	f.s.requests[request.ID] = stored
	return nil
}

func (f fakeRequests) FindByID(_ context.Context, id string) (*models.JoinRequest, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	r, ok := f.s.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &r, nil
}

func (f fakeRequests) FindByEventAndUser(_ context.Context, eventID, userID string) (*models.JoinRequest, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, r := range f.s.requests {
		if r.EventID == eventID && r.UserID == userID {
			f.s.attachEvent(&r)
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f fakeRequests) ListByEvent(_ context.Context, eventID string) ([]models.JoinRequest, error) {
	return f.filter(false, func(r models.JoinRequest) bool { return r.EventID == eventID }), nil
}

func (f fakeRequests) ListByEvents(_ context.Context, eventIDs []string) ([]models.JoinRequest, error) {
	wanted := make(map[string]bool, len(eventIDs))
	for _, id := range eventIDs {
		wanted[id] = true
	}
	return f.filter(true, func(r models.JoinRequest) bool { return wanted[r.EventID] }), nil
}

func (f fakeRequests) ListByUser(_ context.Context, userID string) ([]models.JoinRequest, error) {
	return f.filter(true, func(r models.JoinRequest) bool { return r.UserID == userID }), nil
}

func (f fakeRequests) ListByEventAndStatus(_ context.Context, eventID string, statuses ...models.JoinRequestStatus) ([]models.JoinRequest, error) {
	return f.filter(false, func(r models.JoinRequest) bool {
		if r.EventID != eventID {
			return false
		}
		for _, s := range statuses {
			if r.Status == s {
				return true
			}
		}
		return false
	}), nil
}

func (f fakeRequests) UpdateStatus(_ context.Context, id string, from, to models.JoinRequestStatus, ticketType string) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	r, ok := f.s.requests[id]
	if !ok || r.Status != from {
		return 0, nil
	}
	r.Status = to
	if ticketType != "" {
		r.TicketType = ticketType
	}
	r.UpdatedAt = f.s.tick()
	f.s.requests[id] = r
	return 1, nil
}

func (f fakeRequests) CountByStatus(_ context.Context, eventIDs []string) ([]models.StatusCount, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	wanted := make(map[string]bool, len(eventIDs))
	for _, id := range eventIDs {
		wanted[id] = true
	}
	tally := map[[2]string]int64{}
	for _, r := range f.s.requests {
		if wanted[r.EventID] {
			tally[[2]string{r.EventID, string(r.Status)}]++
		}
	}
	out := []models.StatusCount{}
	for key, n := range tally {
		out = append(out, models.StatusCount{EventID: key[0], Status: models.JoinRequestStatus(key[1]), Count: n})
	}
	return out, nil
}

func (f fakeRequests) filter(withEvent bool, keep func(models.JoinRequest) bool) []models.JoinRequest {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []models.JoinRequest{}
	for _, r := range f.s.requests {
		if keep(r) {
			if withEvent {
				f.s.attachEvent(&r)
			}
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// attachEvent mimics Preload("Event"); callers hold the lock.
func (s *memStore) attachEvent(r *models.JoinRequest) {
	if e, ok := s.events[r.EventID]; ok {
		r.Event = &e
	}
}

type fakeEngagement struct{ s *memStore }

func (f fakeEngagement) Create(_ context.Context, log *models.EngagementLog) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	log.Timestamp = f.s.tick()
	f.s.logs = append(f.s.logs, *log)
	return nil
}

func (f fakeEngagement) ListByEvent(_ context.Context, eventID string) ([]models.EngagementLog, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []models.EngagementLog{}
	for i := len(f.s.logs) - 1; i >= 0; i-- {
		l := f.s.logs[i]
		if l.EventID != nil && *l.EventID == eventID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f fakeEngagement) Leaderboard(ctx context.Context, eventID string) ([]models.LeaderboardEntry, error) {
	logs, _ := f.ListByEvent(ctx, eventID)
	byEmail := map[string]*models.LeaderboardEntry{}
	order := []string{}
	for _, l := range logs {
		entry, ok := byEmail[l.ParticipantEmail]
		if !ok {
			entry = &models.LeaderboardEntry{ParticipantEmail: l.ParticipantEmail}
			byEmail[l.ParticipantEmail] = entry
			order = append(order, l.ParticipantEmail)
		}
		entry.TotalScore += int64(l.Score)
		entry.ActivitiesCompleted++
	}
	out := make([]models.LeaderboardEntry, 0, len(order))
	for _, email := range order {
		out = append(out, *byEmail[email])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalScore > out[j].TotalScore })
	return out, nil
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Configured() bool {
	return m.Called().Bool(0)
}

func (m *mockNotifier) Send(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

func (m *mockNotifier) SendApproval(ctx context.Context, request models.JoinRequest, event models.Event) error {
	return m.Called(ctx, request, event).Error(0)
}

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return p.err
}

func (p *recordingPublisher) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

var (
	testHost = models.Identity{ID: "host-1", Email: "host@example.com", Username: "hosty", Role: models.RoleHost}
	otherHost = models.Identity{ID: "host-2", Email: "other@example.com", Username: "other", Role: models.RoleHost}
	testAttendee = models.Identity{ID: "att-1", Email: "ann@example.com", Username: "ann", Role: models.RoleAttendee}
	otherAttendee = models.Identity{ID: "att-2", Email: "bob@example.com", Role: models.RoleAttendee}
)
