package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fieldops/internal/models"
)

func TestLeaveTransitions(t *testing.T) {
	cases := []struct {
		from, to models.LeaveStatus
		ok       bool
	}{
		{models.LeavePending, models.LeaveApproved, true},
		{models.LeavePending, models.LeaveRejected, true},
		{models.LeavePending, models.LeaveCancelled, true},
		{models.LeaveApproved, models.LeaveCancelled, true},
		{models.LeaveApproved, models.LeaveRejected, false},
		{models.LeaveRejected, models.LeaveApproved, false},
		{models.LeaveCancelled, models.LeavePending, false},
		{models.LeaveStatus("bogus"), models.LeaveApproved, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, canTransitionLeave(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestJourneyTransitions(t *testing.T) {
	cases := []struct {
		from, to models.JourneyStatus
		ok       bool
	}{
		{models.JourneyPending, models.JourneyCheckedIn, true},
		{models.JourneyPending, models.JourneyCancelled, true},
		{models.JourneyPending, models.JourneyCompleted, false},
		{models.JourneyCheckedIn, models.JourneyCompleted, true},
		{models.JourneyCheckedIn, models.JourneyCancelled, true},
		{models.JourneyCompleted, models.JourneyCancelled, false},
		{models.JourneyCancelled, models.JourneyPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, canTransitionJourney(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}
