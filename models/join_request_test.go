package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinRequestStatusTransitions(t *testing.T) {
	all := []JoinRequestStatus{JoinRequestStatusPending, JoinRequestStatusApproved, JoinRequestStatusRejected, JoinRequestStatusCheckedIn}
	allowed := map[[2]JoinRequestStatus]bool{
		{JoinRequestStatusPending, JoinRequestStatusApproved}:   true,
		{JoinRequestStatusPending, JoinRequestStatusRejected}:   true,
		{JoinRequestStatusApproved, JoinRequestStatusCheckedIn}: true,
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]JoinRequestStatus{from, to}], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestIsModerationTarget(t *testing.T) {
	assert.True(t, JoinRequestStatusApproved.IsModerationTarget())
	assert.True(t, JoinRequestStatusRejected.IsModerationTarget())
	assert.True(t, JoinRequestStatusCheckedIn.IsModerationTarget())
	assert.False(t, JoinRequestStatusPending.IsModerationTarget())
	assert.False(t, JoinRequestStatus("").IsModerationTarget())
}
