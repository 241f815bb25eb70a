package events

import (
	"time"

	"github.com/hrumbles/candidate-pipeline/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCandidateStatusChanged    EventType = "candidate_status_changed"
	EventCandidateBgvStatusChanged EventType = "candidate_bgv_status_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID             string    `json:"id"`
	Type           EventType `json:"type"`
	OrganizationID string    `json:"organization_id"`
	CandidateID    string    `json:"candidate_id"`
	Actor          Actor     `json:"actor"`
	Timestamp      time.Time `json:"timestamp"`
	Payload        any       `json:"payload"`
}

// StatusChangedPayload describes one applied transition.
type StatusChangedPayload struct {
	TimelineEventID string                 `json:"timeline_event_id"`
	Pipeline        domain.Pipeline        `json:"pipeline"`
	Previous        domain.StatusSnapshot  `json:"previous"`
	Current         domain.StatusSnapshot  `json:"current"`
	Interaction     domain.InteractionType `json:"interaction"`
	Terminal        bool                   `json:"terminal"`
}
