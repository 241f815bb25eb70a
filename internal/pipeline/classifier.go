// Package pipeline holds the candidate status rules: transition classification,
// terminal detection, round naming and the background-verification overlay.
//
// The name-based functions in this file are pure and total. Status names that
// match no category classify as InteractionNone so new statuses fail open.
package pipeline

import (
	"strings"

	"github.com/hrumbles/candidate-pipeline/internal/domain"
)

const (
	// ReschedulePrefix marks a status that moves an already scheduled round.
	ReschedulePrefix = "Reschedule "
	// ClientProcessedStatus is the status that captures the billed CTC.
	ClientProcessedStatus = "Processed (Client)"
	// CandidateDroppedStatus is the drop-out status.
	CandidateDroppedStatus = "Candidate Dropped"
)

var interviewScheduledStatuses = []string{
	"Interview Scheduled",
	"Assessment Scheduled",
}

var joiningStatuses = []string{
	"Joined",
	"Offer Issued",
	"Offer Made",
}

var terminalStatuses = []string{
	"Offer Declined",
	"Offer Rejected",
	CandidateDroppedStatus,
}

// RequiresSpecialInteraction reports whether moving to newSub needs extra data
// from the user before the status change is applied.
func RequiresSpecialInteraction(oldSub, newSub string) bool {
	switch {
	case isSchedulingStatus(newSub):
		return true
	case isOutcomeStatus(newSub):
		return true
	case strings.HasPrefix(newSub, ReschedulePrefix):
		return true
	case contains(joiningStatuses, newSub):
		return true
	case newSub == ClientProcessedStatus:
		return true
	}
	return false
}

// RequiredInteractionType returns the side data category for a move to newSub.
// Categories are evaluated in a fixed priority order; the first match wins.
func RequiredInteractionType(oldSub, newSub string) domain.InteractionType {
	switch {
	case strings.HasPrefix(newSub, ReschedulePrefix):
		return domain.InteractionReschedule
	case isSchedulingStatus(newSub):
		return domain.InteractionInterviewSchedule
	case isOutcomeStatus(newSub):
		return domain.InteractionInterviewFeedback
	case contains(joiningStatuses, newSub):
		return domain.InteractionJoining
	case strings.Contains(newSub, "Reject") || newSub == CandidateDroppedStatus:
		return domain.InteractionReject
	case newSub == ClientProcessedStatus:
		return domain.InteractionActualCTC
	}
	return domain.InteractionNone
}

// IsTerminalStatus reports whether no further pipeline progress is expected
// after a status with this name.
func IsTerminalStatus(name string) bool {
	if strings.Contains(name, "Reject") || strings.Contains(name, "No Show") {
		return true
	}
	return contains(terminalStatuses, name)
}

func isSchedulingStatus(name string) bool {
	return contains(roundNames, name) || contains(interviewScheduledStatuses, name)
}

func isOutcomeStatus(name string) bool {
	return strings.Contains(name, "Selected") || strings.Contains(name, "Rejected")
}

func contains(set []string, name string) bool {
	for _, candidate := range set {
		if candidate == name {
			return true
		}
	}
	return false
}
