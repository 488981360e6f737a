package controllers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"questbridge-api/models"
	"questbridge-api/services"
)

func newJoinRequestRouter(identity models.Identity, ledger *mockLedger, gate *mockGate) http.Handler {
	jc := NewJoinRequestController(ledger, gate)
	r := newRouter(identity)
	r.POST("/requests", jc.Create)
	r.PUT("/requests/:id", jc.UpdateStatus)
	r.GET("/requests/participation/:event_id", jc.GetParticipation)
	r.GET("/events/:id/session", jc.SessionAccess)
	return r
}

func TestCreateJoinRequestResponses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "created", want: http.StatusCreated},
		{name: "duplicate", err: services.ErrConflict, want: http.StatusConflict},
		{name: "missing event", err: services.ErrNotFound, want: http.StatusNotFound},
		{name: "closed event", err: services.ErrInvalidState, want: http.StatusBadRequest},
		{name: "database down", err: errors.New("connection reset"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &mockLedger{}
			var created *models.JoinRequest
			if tt.err == nil {
				created = &models.JoinRequest{ID: "r1", EventID: "e1", Status: models.JoinRequestStatusPending}
			}
			ledger.On("Create", mock.Anything, attendee, "e1", "hi").Return(created, tt.err).Once()

			w := doJSON(newJoinRequestRouter(attendee, ledger, &mockGate{}), http.MethodPost, "/requests", `{"event_id":"e1","message":"hi"}`)

			assert.Equal(t, tt.want, w.Code)
			ledger.AssertExpectations(t)
		})
	}
}

func TestCreateJoinRequestRequiresEventID(t *testing.T) {
	ledger := &mockLedger{}

	w := doJSON(newJoinRequestRouter(attendee, ledger, &mockGate{}), http.MethodPost, "/requests", `{"message":"hi"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	ledger.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateJoinRequestStatus(t *testing.T) {
	ledger := &mockLedger{}
	ledger.On("UpdateStatus", mock.Anything, host, "r1", models.JoinRequestStatusApproved, "vip").
		Return(&models.JoinRequest{ID: "r1", Status: models.JoinRequestStatusApproved, TicketType: "vip"}, nil).Once()
	r := newJoinRequestRouter(host, ledger, &mockGate{})

	w := doJSON(r, http.MethodPut, "/requests/r1", `{"status":"approved","ticket_type":"vip"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"Request approved."`)
	ledger.AssertExpectations(t)
}

func TestUpdateJoinRequestInvalidTransition(t *testing.T) {
	refused := &services.Error{Kind: services.KindInvalidState, Message: "cannot move a pending request to checked_in", Status: models.JoinRequestStatusPending}
	ledger := &mockLedger{}
	ledger.On("UpdateStatus", mock.Anything, host, "r1", models.JoinRequestStatusCheckedIn, "").Return(nil, refused).Once()

	w := doJSON(newJoinRequestRouter(host, ledger, &mockGate{}), http.MethodPut, "/requests/r1", `{"status":"checked_in"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"cannot move a pending request to checked_in","code":400,"status":"pending"}`, w.Body.String())
}

func TestGetParticipationNotApproved(t *testing.T) {
	refused := &services.Error{Kind: services.KindForbidden, Message: "your request has not been approved", Status: models.JoinRequestStatusRejected}
	ledger := &mockLedger{}
	ledger.On("GetApprovedParticipation", mock.Anything, attendee, "e1").Return(nil, refused).Once()

	w := doJSON(newJoinRequestRouter(attendee, ledger, &mockGate{}), http.MethodGet, "/requests/participation/e1", "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"rejected"`)
}

func TestSessionAccess(t *testing.T) {
	gate := &mockGate{}
	gate.On("CanEnter", mock.Anything, attendee, "e1").Return(&services.SessionAccess{
		Allowed: false,
		Reason:  services.ReasonWaitingForHostToStart,
		Status:  models.JoinRequestStatusApproved,
	}, nil).Once()
	gate.On("CanEnter", mock.Anything, attendee, "e2").Return(nil, services.ErrNotFound).Once()
	r := newJoinRequestRouter(attendee, &mockLedger{}, gate)

	w := doJSON(r, http.MethodGet, "/events/e1/session", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"allowed":false,"reason":"waiting_for_host_to_start","status":"approved"}`, w.Body.String())

	w = doJSON(r, http.MethodGet, "/events/e2/session", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
