package pipeline

import "github.com/hrumbles/candidate-pipeline/internal/domain"

// Fixed ids of the background-verification sub statuses that close the check.
const (
	BgvAllChecksClearID          = "bgv-all-checks-clear"
	BgvMinorDiscrepancyID        = "bgv-minor-discrepancy"
	BgvMajorDiscrepancyID        = "bgv-major-discrepancy"
	BgvVerificationNotRequiredID = "bgv-verification-not-required"
	BgvCandidateWithdrawnID      = "bgv-candidate-withdrawn"
)

var bgvTerminalIDs = map[string]struct{}{
	BgvAllChecksClearID:          {},
	BgvMinorDiscrepancyID:        {},
	BgvMajorDiscrepancyID:        {},
	BgvVerificationNotRequiredID: {},
	BgvCandidateWithdrawnID:      {},
}

// IsTerminalBgvStatus reports whether the sub status closes the verification.
func IsTerminalBgvStatus(subStatusID string) bool {
	_, ok := bgvTerminalIDs[subStatusID]
	return ok
}

// BgvRules classifies background-verification statuses by id. BGV moves never
// collect side data.
type BgvRules struct{}

// Pipeline implements Rules.
func (BgvRules) Pipeline() domain.Pipeline { return domain.PipelineBgv }

// Interaction implements Rules.
func (BgvRules) Interaction(domain.StatusDefinition) domain.InteractionType {
	return domain.InteractionNone
}

// Terminal implements Rules.
func (BgvRules) Terminal(sub domain.StatusDefinition) bool {
	return IsTerminalBgvStatus(sub.ID)
}
