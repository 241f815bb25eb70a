package pipeline

import "strings"

// DefaultRoundName is used when a status maps to no known round.
const DefaultRoundName = "Interview"

// roundNames is ordered: RoundNameFromResult returns the first one contained
// in the status name.
var roundNames = []string{
	"Technical Assessment",
	"L1",
	"L2",
	"L3",
	"End Client Round",
}

// InterviewRoundName maps a status, or its "Reschedule X" variant, to a round
// label for display. Unknown statuses map to DefaultRoundName.
func InterviewRoundName(name string) string {
	name = strings.TrimPrefix(name, ReschedulePrefix)
	if contains(roundNames, name) {
		return name
	}
	return DefaultRoundName
}

// RoundNameFromResult extracts the round embedded in an outcome status such as
// "L1 - Selected". It reports false when no round name is present.
func RoundNameFromResult(name string) (string, bool) {
	for _, round := range roundNames {
		if strings.Contains(name, round) {
			return round, true
		}
	}
	return "", false
}
