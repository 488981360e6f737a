package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"questbridge-api/models"
)

func TestSessionGateFlow(t *testing.T) {
	f := newLedgerFixture(t)
	f.notifier.On("SendApproval", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	ctx := context.Background()
	event := f.createEvent(t, testHost, "Live Workshop")

	_, err := f.gate.CanEnter(ctx, testAttendee, event.ID)
	assert.ErrorIs(t, err, ErrNotFound, "no request yet")

	request := f.request(t, testAttendee, event.ID)

	access, err := f.gate.CanEnter(ctx, testAttendee, event.ID)
	require.NoError(t, err)
	assert.False(t, access.Allowed)
	assert.Equal(t, ReasonNotApproved, access.Reason)
	assert.Equal(t, models.JoinRequestStatusPending, access.Status)
	assert.Nil(t, access.Event)

	_, err = f.ledger.UpdateStatus(ctx, testHost, request.ID, models.JoinRequestStatusApproved, "")
	require.NoError(t, err)

	access, err = f.gate.CanEnter(ctx, testAttendee, event.ID)
	require.NoError(t, err)
	assert.False(t, access.Allowed)
	assert.Equal(t, ReasonWaitingForHostToStart, access.Reason)
	assert.Equal(t, models.JoinRequestStatusApproved, access.Status)
	assert.Nil(t, access.Event)

	creds := models.SessionCredentials{MeetingURL: "https://zoom.us/j/123", MeetingID: "123", Password: "secret"}
	_, err = f.events.Start(ctx, testHost, event.ID, creds)
	require.NoError(t, err)

	access, err = f.gate.CanEnter(ctx, testAttendee, event.ID)
	require.NoError(t, err)
	assert.True(t, access.Allowed)
	assert.Empty(t, access.Reason)
	require.NotNil(t, access.Event)
	assert.Equal(t, creds, access.Event.SessionCredentials)

	_, err = f.events.End(ctx, testHost, event.ID)
	require.NoError(t, err)

	access, err = f.gate.CanEnter(ctx, testAttendee, event.ID)
	require.NoError(t, err)
	assert.False(t, access.Allowed)
	assert.Equal(t, ReasonWaitingForHostToStart, access.Reason)
}

func TestSessionGateRefusesRejectedAttendee(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	event := f.createEvent(t, testHost, "Live Workshop")
	request := f.request(t, testAttendee, event.ID)

	_, err := f.ledger.UpdateStatus(ctx, testHost, request.ID, models.JoinRequestStatusRejected, "")
	require.NoError(t, err)
	_, err = f.events.Start(ctx, testHost, event.ID, models.SessionCredentials{MeetingURL: "https://zoom.us/j/9"})
	require.NoError(t, err)

	access, err := f.gate.CanEnter(ctx, testAttendee, event.ID)

	require.NoError(t, err)
	assert.False(t, access.Allowed)
	assert.Equal(t, ReasonNotApproved, access.Reason)
	assert.Equal(t, models.JoinRequestStatusRejected, access.Status)
	assert.Nil(t, access.Event)
}

func TestSessionGateRequiresAttendeeRole(t *testing.T) {
	f := newLedgerFixture(t)
	event := f.createEvent(t, testHost, "Live Workshop")

	_, err := f.gate.CanEnter(context.Background(), testHost, event.ID)

	assert.ErrorIs(t, err, ErrForbidden)
}
