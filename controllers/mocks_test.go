package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"questbridge-api/middleware"
	"questbridge-api/models"
	"questbridge-api/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	host     = models.Identity{ID: "host-1", Email: "host@example.com", Role: models.RoleHost}
	attendee = models.Identity{ID: "att-1", Email: "ann@example.com", Role: models.RoleAttendee}
)

// asCaller stands in for AuthRequired.
func asCaller(identity models.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("identity", identity)
		c.Next()
	}
}

func newRouter(identity models.Identity) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler(zap.NewNop()), asCaller(identity))
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) Create(ctx context.Context, a models.Identity, eventID, message string) (*models.JoinRequest, error) {
	args := m.Called(ctx, a, eventID, message)
	r, _ := args.Get(0).(*models.JoinRequest)
	return r, args.Error(1)
}

func (m *mockLedger) ListForEvent(ctx context.Context, h models.Identity, eventID string) ([]models.JoinRequest, error) {
	args := m.Called(ctx, h, eventID)
	r, _ := args.Get(0).([]models.JoinRequest)
	return r, args.Error(1)
}

func (m *mockLedger) ListAllForHost(ctx context.Context, h models.Identity) ([]models.JoinRequest, error) {
	args := m.Called(ctx, h)
	r, _ := args.Get(0).([]models.JoinRequest)
	return r, args.Error(1)
}

func (m *mockLedger) ListForAttendee(ctx context.Context, a models.Identity) ([]models.JoinRequest, error) {
	args := m.Called(ctx, a)
	r, _ := args.Get(0).([]models.JoinRequest)
	return r, args.Error(1)
}

func (m *mockLedger) GetApprovedParticipation(ctx context.Context, a models.Identity, eventID string) (*models.JoinRequest, error) {
	args := m.Called(ctx, a, eventID)
	r, _ := args.Get(0).(*models.JoinRequest)
	return r, args.Error(1)
}

func (m *mockLedger) UpdateStatus(ctx context.Context, h models.Identity, id string, status models.JoinRequestStatus, ticketType string) (*models.JoinRequest, error) {
	args := m.Called(ctx, h, id, status, ticketType)
	r, _ := args.Get(0).(*models.JoinRequest)
	return r, args.Error(1)
}

type mockGate struct {
	mock.Mock
}

func (m *mockGate) CanEnter(ctx context.Context, a models.Identity, eventID string) (*services.SessionAccess, error) {
	args := m.Called(ctx, a, eventID)
	r, _ := args.Get(0).(*services.SessionAccess)
	return r, args.Error(1)
}

type mockEvents struct {
	mock.Mock
}

func (m *mockEvents) Create(ctx context.Context, h models.Identity, in models.EventFields) (*models.Event, error) {
	args := m.Called(ctx, h, in)
	e, _ := args.Get(0).(*models.Event)
	return e, args.Error(1)
}

func (m *mockEvents) Get(ctx context.Context, id string) (*models.Event, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*models.Event)
	return e, args.Error(1)
}

func (m *mockEvents) ListPublic(ctx context.Context) ([]models.Event, error) {
	args := m.Called(ctx)
	e, _ := args.Get(0).([]models.Event)
	return e, args.Error(1)
}

func (m *mockEvents) ListForHost(ctx context.Context, h models.Identity) ([]models.Event, error) {
	args := m.Called(ctx, h)
	e, _ := args.Get(0).([]models.Event)
	return e, args.Error(1)
}

func (m *mockEvents) Update(ctx context.Context, h models.Identity, id string, in models.EventUpdate) (*models.Event, error) {
	args := m.Called(ctx, h, id, in)
	e, _ := args.Get(0).(*models.Event)
	return e, args.Error(1)
}

func (m *mockEvents) Start(ctx context.Context, h models.Identity, id string, creds models.SessionCredentials) (*models.Event, error) {
	args := m.Called(ctx, h, id, creds)
	e, _ := args.Get(0).(*models.Event)
	return e, args.Error(1)
}

func (m *mockEvents) End(ctx context.Context, h models.Identity, id string) (*models.Event, error) {
	args := m.Called(ctx, h, id)
	e, _ := args.Get(0).(*models.Event)
	return e, args.Error(1)
}

func (m *mockEvents) Delete(ctx context.Context, h models.Identity, id string) error {
	return m.Called(ctx, h, id).Error(0)
}

type mockMeetings struct {
	mock.Mock
}

func (m *mockMeetings) Configured() bool {
	return m.Called().Bool(0)
}

func (m *mockMeetings) CreateMeeting(ctx context.Context, in services.MeetingRequest) (*services.MeetingDetails, error) {
	args := m.Called(ctx, in)
	d, _ := args.Get(0).(*services.MeetingDetails)
	return d, args.Error(1)
}

type mockReports struct {
	mock.Mock
}

func (m *mockReports) EventSummaries(ctx context.Context, h models.Identity) ([]models.EventSummary, error) {
	args := m.Called(ctx, h)
	s, _ := args.Get(0).([]models.EventSummary)
	return s, args.Error(1)
}

func (m *mockReports) Requests(ctx context.Context, h models.Identity, eventID string) ([]models.JoinRequest, error) {
	args := m.Called(ctx, h, eventID)
	r, _ := args.Get(0).([]models.JoinRequest)
	return r, args.Error(1)
}

func (m *mockReports) Leaderboard(ctx context.Context, h models.Identity, eventID string) ([]models.LeaderboardEntry, error) {
	args := m.Called(ctx, h, eventID)
	e, _ := args.Get(0).([]models.LeaderboardEntry)
	return e, args.Error(1)
}

func (m *mockReports) EngagementLogs(ctx context.Context, h models.Identity, eventID string) ([]models.EngagementLog, error) {
	args := m.Called(ctx, h, eventID)
	l, _ := args.Get(0).([]models.EngagementLog)
	return l, args.Error(1)
}
