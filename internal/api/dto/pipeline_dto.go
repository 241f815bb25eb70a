package dto

import (
	"time"

	"github.com/hrumbles/candidate-pipeline/internal/domain"
	"github.com/hrumbles/candidate-pipeline/internal/pipeline"
	"github.com/hrumbles/candidate-pipeline/internal/service"
)

// ClassifyRequest asks how a move between two status names is handled.
type ClassifyRequest struct {
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status" validate:"required"`
}

// ClassifyResponse mirrors service.Classification.
type ClassifyResponse struct {
	InteractionType     domain.InteractionType    `json:"interaction_type"`
	RequiresInteraction bool                      `json:"requires_interaction"`
	Terminal            bool                      `json:"terminal"`
	Round               string                    `json:"round"`
	ResultRound         *string                   `json:"result_round"`
	Fields              []domain.InteractionField `json:"fields"`
}

// TransitionRequest payload for POST /candidates/:id/status.
type TransitionRequest struct {
	SubStatusID string            `json:"sub_status_id" validate:"required"`
	EventData   *domain.EventData `json:"event_data"`
}

// BgvTransitionRequest payload for POST /candidates/:id/bgv-status.
type BgvTransitionRequest struct {
	SubStatusID string `json:"sub_status_id" validate:"required"`
}

// StatusTreeQuery selects the catalog to render.
type StatusTreeQuery struct {
	Pipeline string `query:"pipeline" validate:"omitempty,pipeline"`
}

// SubStatusResponse is one sub status in the tree.
type SubStatusResponse struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	DisplayOrder    int                    `json:"display_order"`
	Color           string                 `json:"color,omitempty"`
	InteractionType domain.InteractionType `json:"interaction_type"`
	Terminal        bool                   `json:"terminal"`
}

// MainStatusResponse is one main status with its subs.
type MainStatusResponse struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	DisplayOrder int                 `json:"display_order"`
	Color        string              `json:"color,omitempty"`
	Subs         []SubStatusResponse `json:"subs"`
}

// StatusPointerResponse is the candidate position after a transition.
type StatusPointerResponse struct {
	CandidateID  string          `json:"candidate_id"`
	Pipeline     domain.Pipeline `json:"pipeline"`
	MainStatusID string          `json:"main_status_id"`
	SubStatusID  string          `json:"sub_status_id"`
	StatusLabel  string          `json:"status_label,omitempty"`
	UpdatedBy    string          `json:"updated_by"`
}

// TimelineEventResponse is a timeline entry.
type TimelineEventResponse struct {
	ID               string                   `json:"id"`
	EventType        domain.TimelineEventType `json:"event_type"`
	EventDescription string                   `json:"event_description"`
	PreviousState    domain.StatusSnapshot    `json:"previous_state"`
	NewState         domain.StatusSnapshot    `json:"new_state"`
	EventData        *domain.EventData        `json:"event_data,omitempty"`
	CreatedBy        string                   `json:"created_by"`
	CreatedByName    string                   `json:"created_by_name,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
}

// TransitionResponse is returned by both transition endpoints.
type TransitionResponse struct {
	Status      StatusPointerResponse  `json:"status"`
	Event       TimelineEventResponse  `json:"event"`
	Interaction domain.InteractionType `json:"interaction_type"`
	Terminal    bool                   `json:"terminal"`
}

// NewClassifyResponse converts a classification.
func NewClassifyResponse(c service.Classification) ClassifyResponse {
	fields := c.Fields
	if fields == nil {
		fields = []domain.InteractionField{}
	}
	return ClassifyResponse{
		InteractionType:     c.InteractionType,
		RequiresInteraction: c.RequiresInteraction,
		Terminal:            c.Terminal,
		Round:               c.Round,
		ResultRound:         c.ResultRound,
		Fields:              fields,
	}
}

// NewStatusTreeResponse renders the tree with each sub's classification.
func NewStatusTreeResponse(p domain.Pipeline, tree []domain.MainStatus) []MainStatusResponse {
	rules := pipeline.RulesFor(p)
	out := make([]MainStatusResponse, 0, len(tree))
	for _, main := range tree {
		parent := main.StatusDefinition
		item := MainStatusResponse{
			ID:           main.ID,
			Name:         main.Name,
			DisplayOrder: main.DisplayOrder,
			Color:        main.EffectiveColor(nil),
			Subs:         make([]SubStatusResponse, 0, len(main.Subs)),
		}
		for _, sub := range main.Subs {
			item.Subs = append(item.Subs, SubStatusResponse{
				ID:              sub.ID,
				Name:            sub.Name,
				DisplayOrder:    sub.DisplayOrder,
				Color:           sub.EffectiveColor(&parent),
				InteractionType: rules.Interaction(sub),
				Terminal:        rules.Terminal(sub),
			})
		}
		out = append(out, item)
	}
	return out
}

// NewTimelineEventResponse converts a timeline event.
func NewTimelineEventResponse(e domain.TimelineEvent) TimelineEventResponse {
	resp := TimelineEventResponse{
		ID:               e.ID,
		EventType:        e.EventType,
		EventDescription: e.EventDescription,
		PreviousState:    e.PreviousState,
		NewState:         e.NewState,
		CreatedBy:        e.CreatedBy,
		CreatedByName:    e.CreatedByName,
		CreatedAt:        e.CreatedAt,
	}
	if !e.EventData.IsEmpty() {
		data := e.EventData
		resp.EventData = &data
	}
	return resp
}

// NewTransitionResponse converts a transition result.
func NewTransitionResponse(r *service.TransitionResult) TransitionResponse {
	return TransitionResponse{
		Status: StatusPointerResponse{
			CandidateID:  r.Event.CandidateID,
			Pipeline:     r.Pointer.Pipeline,
			MainStatusID: r.Pointer.MainStatusID,
			SubStatusID:  r.Pointer.SubStatusID,
			StatusLabel:  r.Pointer.StatusLabel,
			UpdatedBy:    r.Pointer.ActorID,
		},
		Event:       NewTimelineEventResponse(r.Event),
		Interaction: r.Interaction,
		Terminal:    r.Terminal,
	}
}
