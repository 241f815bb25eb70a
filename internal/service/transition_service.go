package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/hrumbles/candidate-pipeline/internal/domain"
	"github.com/hrumbles/candidate-pipeline/internal/events"
	"github.com/hrumbles/candidate-pipeline/internal/observability"
	"github.com/hrumbles/candidate-pipeline/internal/pipeline"
	"github.com/hrumbles/candidate-pipeline/internal/repository"
	apperrors "github.com/hrumbles/candidate-pipeline/pkg/util/errorutil"
)

// TransitionService moves candidates between sub statuses and records every
// move in the timeline.
type TransitionService struct {
	catalog         *CatalogService
	candidates      repository.CandidateRepository
	timeline        repository.TimelineRepository
	tx              repository.TxManager
	dispatcher      events.Dispatcher
	metrics         *observability.Metrics
	logger          *zap.Logger
	validate        *validator.Validate
	enforceTerminal bool
}

// TransitionDependencies bundles collaborators for the transition service.
type TransitionDependencies struct {
	Catalog         *CatalogService
	CandidateRepo   repository.CandidateRepository
	TimelineRepo    repository.TimelineRepository
	TxManager       repository.TxManager
	Dispatcher      events.Dispatcher
	Metrics         *observability.Metrics
	Logger          *zap.Logger
	EnforceTerminal bool
}

// TransitionRequest asks to move a candidate to a sub status.
type TransitionRequest struct {
	OrganizationID string
	CandidateID    string
	NewSubStatusID string
	Actor          domain.Actor
	EventData      domain.EventData
}

// TransitionResult describes an applied transition.
type TransitionResult struct {
	Event       domain.TimelineEvent
	Pointer     domain.PointerUpdate
	Interaction domain.InteractionType
	Terminal    bool
}

// NewTransitionService constructs the service.
func NewTransitionService(deps TransitionDependencies) *TransitionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransitionService{
		catalog:         deps.Catalog,
		candidates:      deps.CandidateRepo,
		timeline:        deps.TimelineRepo,
		tx:              deps.TxManager,
		dispatcher:      deps.Dispatcher,
		metrics:         deps.Metrics,
		logger:          logger,
		validate:        validator.New(),
		enforceTerminal: deps.EnforceTerminal,
	}
}

// ApplyTransition moves the candidate's recruitment pointer to a new sub status.
func (s *TransitionService) ApplyTransition(ctx context.Context, req TransitionRequest) (*TransitionResult, error) {
	return s.apply(ctx, domain.PipelineRecruitment, req)
}

// ApplyBgvTransition moves the candidate's background-verification pointer.
func (s *TransitionService) ApplyBgvTransition(ctx context.Context, req TransitionRequest) (*TransitionResult, error) {
	return s.apply(ctx, domain.PipelineBgv, req)
}

// ListTimeline returns the candidate's timeline, oldest first.
func (s *TransitionService) ListTimeline(ctx context.Context, organizationID, candidateID string) ([]domain.TimelineEvent, error) {
	if _, err := s.candidates.GetStatusPointer(ctx, organizationID, candidateID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("candidate", map[string]any{"candidate_id": candidateID})
		}
		return nil, apperrors.MapError(err)
	}
	entries, err := s.timeline.ListForCandidate(ctx, organizationID, candidateID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if entries == nil {
		entries = []domain.TimelineEvent{}
	}
	return entries, nil
}

func (s *TransitionService) apply(ctx context.Context, p domain.Pipeline, req TransitionRequest) (*TransitionResult, error) {
	result, target, err := s.applyInTx(ctx, p, req)
	if err != nil {
		s.metrics.RecordTransition(string(p), string(target.Interaction), outcomeOf(err))
		if apperrors.ToDomainError(err).HTTPStatus >= 500 {
			s.logger.Error("status transition failed",
				zap.String("pipeline", string(p)),
				zap.String("candidate_id", req.CandidateID),
				zap.String("sub_status_id", req.NewSubStatusID),
				zap.Error(err))
		}
		return nil, err
	}

	s.metrics.RecordTransition(string(p), string(result.Interaction), "applied")
	s.logger.Info("status transition applied",
		zap.String("pipeline", string(p)),
		zap.String("candidate_id", req.CandidateID),
		zap.String("from", result.Event.PreviousState.SubStatusName),
		zap.String("to", result.Event.NewState.SubStatusName),
		zap.String("interaction", string(result.Interaction)),
		zap.String("actor_id", req.Actor.ID))
	s.publishStatusChanged(ctx, p, req, result)
	return result, nil
}

func (s *TransitionService) applyInTx(ctx context.Context, p domain.Pipeline, req TransitionRequest) (*TransitionResult, pipeline.Classification, error) {
	var target pipeline.Classification
	if err := validateTransitionRequest(req); err != nil {
		return nil, target, err
	}
	scope := domain.Scope{OrganizationID: req.OrganizationID, Pipeline: p}

	idx, err := s.catalog.LoadIndex(ctx, scope)
	if err != nil {
		return nil, target, apperrors.MapError(err)
	}
	target, ok := idx.Sub(req.NewSubStatusID)
	if !ok {
		return nil, target, apperrors.NewNotFound("status", map[string]any{"status_id": req.NewSubStatusID})
	}
	eventData, err := s.prepareEventData(target, req.EventData)
	if err != nil {
		return nil, target, err
	}
	graph, err := s.catalog.TransitionGraph(ctx, scope)
	if err != nil {
		return nil, target, apperrors.MapError(err)
	}

	var result *TransitionResult
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		pointer, err := s.candidates.LockStatusPointer(ctx, req.OrganizationID, req.CandidateID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("candidate", map[string]any{"candidate_id": req.CandidateID})
			}
			return fmt.Errorf("load status pointer: %w", err)
		}

		var current *pipeline.Classification
		if _, subID := pointer.Position(p); subID != nil && *subID != "" {
			entry, ok := idx.Sub(*subID)
			if !ok {
				return apperrors.NewNotFound("status", map[string]any{"status_id": *subID})
			}
			current = &entry
		}

		previous := domain.StatusSnapshot{}
		fromID := ""
		if current != nil {
			previous = snapshotOf(*current)
			fromID = current.Status.ID
		}
		if s.enforceTerminal && current != nil && current.Terminal && fromID != target.Status.ID {
			return apperrors.NewTerminalStateViolation(current.Status.Name, map[string]any{
				"candidate_id":  req.CandidateID,
				"sub_status_id": fromID,
			})
		}
		if !graph.Allows(fromID, target.Status.ID) {
			return apperrors.NewTransitionNotAllowed(previous.SubStatusName, target.Status.Name, map[string]any{
				"from_sub_status_id": fromID,
				"to_sub_status_id":   target.Status.ID,
			})
		}

		update := domain.PointerUpdate{
			Pipeline:     p,
			MainStatusID: target.Parent.ID,
			SubStatusID:  target.Status.ID,
			StatusLabel:  target.Parent.Name,
			ActorID:      req.Actor.ID,
		}
		if err := s.candidates.UpdateStatusPointer(ctx, req.OrganizationID, req.CandidateID, update); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("candidate", map[string]any{"candidate_id": req.CandidateID})
			}
			return apperrors.NewPartialWriteFailure("status_pointer_update", err)
		}

		next := snapshotOf(target)
		event := domain.TimelineEvent{
			CandidateID:      req.CandidateID,
			OrganizationID:   req.OrganizationID,
			EventType:        eventTypeFor(p),
			EventDescription: describeTransition(p, previous, next),
			PreviousState:    previous,
			NewState:         next,
			EventData:        eventData,
			CreatedBy:        req.Actor.ID,
			CreatedByName:    req.Actor.Name,
		}
		if err := s.timeline.Append(ctx, &event); err != nil {
			return apperrors.NewPartialWriteFailure("timeline_append", err)
		}

		result = &TransitionResult{
			Event:       event,
			Pointer:     update,
			Interaction: target.Interaction,
			Terminal:    target.Terminal,
		}
		return nil
	})
	if err != nil {
		return nil, target, apperrors.MapError(err)
	}
	return result, target, nil
}

// prepareEventData checks the side data against the target's interaction type
// and fills in round names the caller left out.
func (s *TransitionService) prepareEventData(target pipeline.Classification, data domain.EventData) (domain.EventData, error) {
	if data.IsEmpty() {
		return domain.EventData{}, nil
	}
	if data.Kind == "" {
		data.Kind = target.Interaction
	}
	if data.Kind != target.Interaction {
		return data, apperrors.NewValidationError("event data does not match the target status", map[string]any{
			"expected_kind": target.Interaction,
			"kind":          data.Kind,
		})
	}
	if !detailsMatchKind(data) {
		return data, apperrors.NewValidationError("event data details do not match kind", map[string]any{
			"kind": data.Kind,
		})
	}
	if err := s.validate.Struct(data); err != nil {
		return data, apperrors.NewValidationError("invalid event data", map[string]any{"reason": err.Error()})
	}

	// Details are copied before the round is filled in; the request owns its pointers.
	if data.Interview != nil && data.Interview.Round == "" {
		interview := *data.Interview
		interview.Round = target.Round
		data.Interview = &interview
	}
	if data.Feedback != nil && data.Feedback.Round == "" {
		if round, ok := pipeline.RoundNameFromResult(target.Status.Name); ok {
			feedback := *data.Feedback
			feedback.Round = round
			data.Feedback = &feedback
		}
	}
	return data, nil
}

func detailsMatchKind(data domain.EventData) bool {
	populated := 0
	for _, set := range []bool{
		data.Interview != nil, data.Feedback != nil, data.Joining != nil,
		data.Rejection != nil, data.Billing != nil,
	} {
		if set {
			populated++
		}
	}

	switch data.Kind {
	case domain.InteractionInterviewSchedule:
		return populated == 1 && data.Interview != nil
	case domain.InteractionReschedule:
		return populated == 1 && data.Interview != nil && data.Interview.Reason != ""
	case domain.InteractionInterviewFeedback:
		return populated == 1 && data.Feedback != nil
	case domain.InteractionJoining:
		return populated == 1 && data.Joining != nil
	case domain.InteractionReject:
		return populated == 1 && data.Rejection != nil
	case domain.InteractionActualCTC:
		return populated == 1 && data.Billing != nil
	case domain.InteractionNone:
		return populated == 0
	default:
		return false
	}
}

func (s *TransitionService) publishStatusChanged(ctx context.Context, p domain.Pipeline, req TransitionRequest, result *TransitionResult) {
	if s.dispatcher == nil {
		return
	}
	eventType := events.EventCandidateStatusChanged
	if p == domain.PipelineBgv {
		eventType = events.EventCandidateBgvStatusChanged
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:             uuid.NewString(),
		Type:           eventType,
		OrganizationID: req.OrganizationID,
		CandidateID:    req.CandidateID,
		Actor:          events.Actor{ID: req.Actor.ID, Name: req.Actor.Name},
		Timestamp:      time.Now().UTC(),
		Payload: events.StatusChangedPayload{
			TimelineEventID: result.Event.ID,
			Pipeline:        p,
			Previous:        result.Event.PreviousState,
			Current:         result.Event.NewState,
			Interaction:     result.Interaction,
			Terminal:        result.Terminal,
		},
	})
}

func validateTransitionRequest(req TransitionRequest) error {
	missing := []string{}
	if req.OrganizationID == "" {
		missing = append(missing, "organization_id")
	}
	if req.CandidateID == "" {
		missing = append(missing, "candidate_id")
	}
	if req.NewSubStatusID == "" {
		missing = append(missing, "sub_status_id")
	}
	if req.Actor.ID == "" {
		missing = append(missing, "actor_id")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}
	return nil
}

func snapshotOf(entry pipeline.Classification) domain.StatusSnapshot {
	snapshot := domain.StatusSnapshot{
		SubStatusID:   entry.Status.ID,
		SubStatusName: entry.Status.Name,
	}
	if entry.Parent != nil {
		snapshot.MainStatusID = entry.Parent.ID
		snapshot.MainStatusName = entry.Parent.Name
	}
	return snapshot
}

func eventTypeFor(p domain.Pipeline) domain.TimelineEventType {
	if p == domain.PipelineBgv {
		return domain.EventTypeBgvStatusChange
	}
	return domain.EventTypeStatusChange
}

func describeTransition(p domain.Pipeline, previous, next domain.StatusSnapshot) string {
	prefix := "Status"
	if p == domain.PipelineBgv {
		prefix = "BGV status"
	}
	if previous.IsZero() {
		return fmt.Sprintf("%s set to %q.", prefix, next.SubStatusName)
	}
	return fmt.Sprintf("%s changed from %q to %q.", prefix, previous.SubStatusName, next.SubStatusName)
}

func outcomeOf(err error) string {
	switch apperrors.ToDomainError(err).Code {
	case apperrors.CodeNotFound:
		return "not_found"
	case apperrors.CodeTerminalStateViolation:
		return "terminal_violation"
	case apperrors.CodeTransitionNotAllowed:
		return "not_allowed"
	case apperrors.CodeValidation:
		return "invalid"
	default:
		return "failed"
	}
}
