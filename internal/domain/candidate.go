package domain

import "time"

// CandidateStatusPointer is the candidate's current position in both pipelines.
// Only the transition service writes it.
type CandidateStatusPointer struct {
	CandidateID     string
	OrganizationID  string
	MainStatusID    *string
	SubStatusID     *string
	StatusLabel     string
	BgvMainStatusID *string
	BgvSubStatusID  *string
	UpdatedBy       *string
	UpdatedAt       time.Time
}

// Position returns the main/sub pair tracked for the given pipeline.
func (p CandidateStatusPointer) Position(pipeline Pipeline) (mainID, subID *string) {
	if pipeline == PipelineBgv {
		return p.BgvMainStatusID, p.BgvSubStatusID
	}
	return p.MainStatusID, p.SubStatusID
}

// PointerUpdate carries the fields written by a transition.
type PointerUpdate struct {
	Pipeline     Pipeline
	MainStatusID string
	SubStatusID  string
	StatusLabel  string
	ActorID      string
}
