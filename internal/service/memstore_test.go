package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hrumbles/candidate-pipeline/internal/domain"
	"github.com/hrumbles/candidate-pipeline/internal/pipeline"
	"github.com/hrumbles/candidate-pipeline/internal/repository"
)

// memStore backs every repository the services use. WithinTransaction
// snapshots pointers and timeline and restores them when fn fails.
type memStore struct {
	mu       sync.Mutex
	statuses []domain.StatusDefinition
	rules    map[domain.Pipeline][]pipeline.TransitionRule
	pointers map[string]domain.CandidateStatusPointer
	timeline []domain.TimelineEvent

	failUpdate error
	failAppend error

	inTx      bool
	commits   int
	rollbacks int
}

var (
	_ repository.StatusRepository    = (*memStore)(nil)
	_ repository.CandidateRepository = (*memStore)(nil)
	_ repository.TimelineRepository  = (*memStore)(nil)
	_ repository.TxManager           = (*memStore)(nil)
)

func newMemStore(statuses ...domain.StatusDefinition) *memStore {
	return &memStore{
		statuses: statuses,
		rules:    map[domain.Pipeline][]pipeline.TransitionRule{},
		pointers: map[string]domain.CandidateStatusPointer{},
	}
}

func (m *memStore) addCandidate(orgID, candidateID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pointers[candidateID] = domain.CandidateStatusPointer{
		CandidateID:    candidateID,
		OrganizationID: orgID,
		UpdatedAt:      time.Now().UTC(),
	}
}

func (m *memStore) pointer(candidateID string) domain.CandidateStatusPointer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pointers[candidateID]
}

func (m *memStore) events() []domain.TimelineEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.TimelineEvent(nil), m.timeline...)
}

func (m *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	if m.inTx {
		m.mu.Unlock()
		return fn(ctx)
	}
	m.inTx = true
	pointers := make(map[string]domain.CandidateStatusPointer, len(m.pointers))
	for id, p := range m.pointers {
		pointers[id] = p
	}
	timeline := append([]domain.TimelineEvent(nil), m.timeline...)
	m.mu.Unlock()

	err := fn(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inTx = false
	if err != nil {
		m.pointers = pointers
		m.timeline = timeline
		m.rollbacks++
		return err
	}
	m.commits++
	return nil
}

func (m *memStore) ListStatuses(_ context.Context, scope domain.Scope) ([]domain.StatusDefinition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.StatusDefinition{}
	for _, def := range m.statuses {
		if def.Pipeline != scope.Pipeline {
			continue
		}
		if def.OrganizationID != scope.OrganizationID && def.OrganizationID != repository.SharedOrganizationID {
			continue
		}
		out = append(out, def)
	}
	return out, nil
}

func (m *memStore) GetByID(ctx context.Context, scope domain.Scope, id string) (*domain.StatusDefinition, error) {
	defs, _ := m.ListStatuses(ctx, scope)
	for _, def := range defs {
		if def.ID == id {
			d := def
			return &d, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memStore) ListTransitionRules(_ context.Context, scope domain.Scope) ([]pipeline.TransitionRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]pipeline.TransitionRule(nil), m.rules[scope.Pipeline]...), nil
}

func (m *memStore) GetStatusPointer(_ context.Context, organizationID, candidateID string) (*domain.CandidateStatusPointer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pointers[candidateID]
	if !ok || p.OrganizationID != organizationID {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (m *memStore) LockStatusPointer(ctx context.Context, organizationID, candidateID string) (*domain.CandidateStatusPointer, error) {
	return m.GetStatusPointer(ctx, organizationID, candidateID)
}

func (m *memStore) UpdateStatusPointer(_ context.Context, organizationID, candidateID string, update domain.PointerUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpdate != nil {
		return m.failUpdate
	}
	p, ok := m.pointers[candidateID]
	if !ok || p.OrganizationID != organizationID {
		return pgx.ErrNoRows
	}
	mainID, subID, actor := update.MainStatusID, update.SubStatusID, update.ActorID
	if update.Pipeline == domain.PipelineBgv {
		p.BgvMainStatusID = &mainID
		p.BgvSubStatusID = &subID
	} else {
		p.MainStatusID = &mainID
		p.SubStatusID = &subID
		p.StatusLabel = update.StatusLabel
	}
	p.UpdatedBy = &actor
	p.UpdatedAt = time.Now().UTC()
	m.pointers[candidateID] = p
	return nil
}

func (m *memStore) Append(_ context.Context, event *domain.TimelineEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAppend != nil {
		return m.failAppend
	}
	event.ID = uuid.NewString()
	event.CreatedAt = time.Now().UTC()
	m.timeline = append(m.timeline, *event)
	return nil
}

func (m *memStore) ListForCandidate(_ context.Context, organizationID, candidateID string) ([]domain.TimelineEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.TimelineEvent
	for _, event := range m.timeline {
		if event.CandidateID == candidateID && event.OrganizationID == organizationID {
			out = append(out, event)
		}
	}
	return out, nil
}

func strPtr(s string) *string { return &s }

const testOrg = "org-1"

// recruitmentCatalog is a small organization catalog covering each
// interaction category.
func recruitmentCatalog() []domain.StatusDefinition {
	main := func(id, name string, order int) domain.StatusDefinition {
		return domain.StatusDefinition{
			ID: id, OrganizationID: testOrg, Pipeline: domain.PipelineRecruitment,
			Name: name, Type: domain.StatusTypeMain, DisplayOrder: order,
		}
	}
	sub := func(id, parent, name string, order int) domain.StatusDefinition {
		return domain.StatusDefinition{
			ID: id, OrganizationID: testOrg, Pipeline: domain.PipelineRecruitment,
			Name: name, Type: domain.StatusTypeSub, ParentID: strPtr(parent), DisplayOrder: order,
		}
	}
	return []domain.StatusDefinition{
		main("m-screen", "Screening", 1),
		sub("s-new", "m-screen", "New Applicant", 1),
		sub("s-dropped", "m-screen", "Candidate Dropped", 2),
		main("m-int", "Interview", 2),
		sub("s-l1", "m-int", "L1", 1),
		sub("s-l1-sel", "m-int", "L1 - Selected", 2),
		sub("s-l1-rej", "m-int", "L1 - Rejected", 3),
		sub("s-resched-l2", "m-int", "Reschedule L2", 4),
		main("m-offer", "Offer", 3),
		sub("s-joined", "m-offer", "Joined", 1),
		sub("s-processed", "m-offer", "Processed (Client)", 2),
	}
}

func bgvCatalog() []domain.StatusDefinition {
	return []domain.StatusDefinition{
		{ID: "bgv-main", OrganizationID: testOrg, Pipeline: domain.PipelineBgv, Name: "Verification", Type: domain.StatusTypeMain},
		{ID: "bgv-in-progress", OrganizationID: testOrg, Pipeline: domain.PipelineBgv, Name: "In Progress", Type: domain.StatusTypeSub, ParentID: strPtr("bgv-main")},
		{ID: "bgv-completed", OrganizationID: repository.SharedOrganizationID, Pipeline: domain.PipelineBgv, Name: "Completed", Type: domain.StatusTypeMain, DisplayOrder: 9},
		{ID: pipeline.BgvAllChecksClearID, OrganizationID: repository.SharedOrganizationID, Pipeline: domain.PipelineBgv, Name: "All Checks Clear", Type: domain.StatusTypeSub, ParentID: strPtr("bgv-completed")},
	}
}
