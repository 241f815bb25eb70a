package domain

import "time"

// TimelineEventType classifies timeline entries.
type TimelineEventType string

const (
	EventTypeStatusChange    TimelineEventType = "status_change"
	EventTypeBgvStatusChange TimelineEventType = "bgv_status_change"
)

// StatusSnapshot denormalizes a pipeline position at the moment of a transition
// so history stays readable after statuses are renamed or deleted.
type StatusSnapshot struct {
	MainStatusID   string `json:"main_status_id,omitempty"`
	SubStatusID    string `json:"sub_status_id,omitempty"`
	MainStatusName string `json:"main_status_name,omitempty"`
	SubStatusName  string `json:"sub_status_name,omitempty"`
}

// IsZero reports whether the snapshot carries no position.
func (s StatusSnapshot) IsZero() bool {
	return s.SubStatusID == "" && s.MainStatusID == ""
}

// TimelineEvent is an immutable audit record of one status transition.
type TimelineEvent struct {
	ID               string
	CandidateID      string
	OrganizationID   string
	EventType        TimelineEventType
	EventDescription string
	PreviousState    StatusSnapshot
	NewState         StatusSnapshot
	EventData        EventData
	CreatedBy        string
	CreatedByName    string
	CreatedAt        time.Time
}
