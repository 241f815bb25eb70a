package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hrumbles/candidate-pipeline/internal/domain"
	"github.com/hrumbles/candidate-pipeline/internal/pipeline"
	"github.com/hrumbles/candidate-pipeline/internal/repository"
	apperrors "github.com/hrumbles/candidate-pipeline/pkg/util/errorutil"
)

// CatalogService exposes the status catalog and the classification rules.
type CatalogService struct {
	statuses repository.StatusRepository
	logger   *zap.Logger
}

// NewCatalogService constructs the service.
func NewCatalogService(statuses repository.StatusRepository, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{statuses: statuses, logger: logger}
}

// Classification is the answer to "what happens if the candidate moves to this status".
type Classification struct {
	InteractionType     domain.InteractionType
	RequiresInteraction bool
	Terminal            bool
	Round               string
	ResultRound         *string
	Fields              []domain.InteractionField
}

// Classify runs the name-based transition classifier.
func (s *CatalogService) Classify(oldSub, newSub string) Classification {
	kind := pipeline.RequiredInteractionType(oldSub, newSub)
	result := Classification{
		InteractionType:     kind,
		RequiresInteraction: pipeline.RequiresSpecialInteraction(oldSub, newSub),
		Terminal:            pipeline.IsTerminalStatus(newSub),
		Round:               pipeline.InterviewRoundName(newSub),
		Fields:              domain.InteractionFields(kind),
	}
	if round, ok := pipeline.RoundNameFromResult(newSub); ok {
		result.ResultRound = &round
	}
	return result
}

// LoadIndex loads the catalog of a scope and classifies every status by id.
func (s *CatalogService) LoadIndex(ctx context.Context, scope domain.Scope) (*pipeline.Index, error) {
	if err := validateScope(scope); err != nil {
		return nil, err
	}
	defs, err := s.statuses.ListStatuses(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("load status catalog: %w", err)
	}
	idx := pipeline.NewIndex(defs, pipeline.RulesFor(scope.Pipeline))
	s.logger.Debug("status index loaded",
		zap.String("organization_id", scope.OrganizationID),
		zap.String("pipeline", string(scope.Pipeline)),
		zap.Int("statuses", idx.Len()))
	return idx, nil
}

// LoadStatusTree returns the main statuses of a scope with their subs, in display order.
func (s *CatalogService) LoadStatusTree(ctx context.Context, scope domain.Scope) ([]domain.MainStatus, error) {
	if err := validateScope(scope); err != nil {
		return nil, err
	}
	defs, err := s.statuses.ListStatuses(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("load status catalog: %w", err)
	}
	tree, orphans := pipeline.BuildStatusTree(defs)
	for _, orphan := range orphans {
		s.logger.Warn("sub status without main parent",
			zap.String("organization_id", scope.OrganizationID),
			zap.String("pipeline", string(scope.Pipeline)),
			zap.String("status_id", orphan.ID),
			zap.String("status_name", orphan.Name))
	}
	if tree == nil {
		tree = []domain.MainStatus{}
	}
	return tree, nil
}

// TransitionGraph loads the configured transition table of a scope.
func (s *CatalogService) TransitionGraph(ctx context.Context, scope domain.Scope) (*pipeline.Graph, error) {
	rules, err := s.statuses.ListTransitionRules(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("load transition rules: %w", err)
	}
	return pipeline.NewGraph(rules), nil
}

func validateScope(scope domain.Scope) error {
	if scope.OrganizationID == "" {
		return apperrors.NewValidationError("organization required", nil)
	}
	if !scope.Pipeline.Valid() {
		return apperrors.NewValidationError("unknown pipeline", map[string]any{"pipeline": scope.Pipeline})
	}
	return nil
}
