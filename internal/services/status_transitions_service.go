package services

import "fieldops/internal/models"

// Допустимые переходы статусов.

var LeaveTransitions = map[models.LeaveStatus]map[models.LeaveStatus]bool{
	models.LeavePending:   {models.LeaveApproved: true, models.LeaveRejected: true, models.LeaveCancelled: true},
	models.LeaveApproved:  {models.LeaveCancelled: true},
	models.LeaveRejected:  {},
	models.LeaveCancelled: {},
}

var JourneyTransitions = map[models.JourneyStatus]map[models.JourneyStatus]bool{
	models.JourneyPending:   {models.JourneyCheckedIn: true, models.JourneyCancelled: true},
	models.JourneyCheckedIn: {models.JourneyCompleted: true, models.JourneyCancelled: true},
	models.JourneyCompleted: {},
	models.JourneyCancelled: {},
}

func canTransitionLeave(current, to models.LeaveStatus) bool {
	nexts, ok := LeaveTransitions[current]
	if !ok {
		return false
	}
	return nexts[to]
}

func canTransitionJourney(current, to models.JourneyStatus) bool {
	nexts, ok := JourneyTransitions[current]
	if !ok {
		return false
	}
	return nexts[to]
}
