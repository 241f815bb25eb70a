package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrumbles/candidate-pipeline/internal/domain"
	"github.com/hrumbles/candidate-pipeline/internal/events"
	"github.com/hrumbles/candidate-pipeline/internal/observability"
	"github.com/hrumbles/candidate-pipeline/internal/pipeline"
	"github.com/hrumbles/candidate-pipeline/internal/service"
	apperrors "github.com/hrumbles/candidate-pipeline/pkg/util/errorutil"
)

var recruiter = domain.Actor{ID: "rec-1", Name: "Riya", OrganizationID: testOrg, Role: domain.RoleRecruiter}

type harness struct {
	store     *memStore
	svc       *service.TransitionService
	published []events.Event
}

func newHarness(t *testing.T, enforceTerminal bool) *harness {
	t.Helper()
	h := &harness{store: newMemStore(append(recruitmentCatalog(), bgvCatalog()...)...)}
	h.store.addCandidate(testOrg, "cand-1")

	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	record := func(_ context.Context, e events.Event) error {
		h.published = append(h.published, e)
		return nil
	}
	dispatcher.Subscribe(events.EventCandidateStatusChanged, record)
	dispatcher.Subscribe(events.EventCandidateBgvStatusChanged, record)

	h.svc = service.NewTransitionService(service.TransitionDependencies{
		Catalog:         service.NewCatalogService(h.store, zap.NewNop()),
		CandidateRepo:   h.store,
		TimelineRepo:    h.store,
		TxManager:       h.store,
		Dispatcher:      dispatcher,
		Metrics:         observability.NewMetrics(),
		Logger:          zap.NewNop(),
		EnforceTerminal: enforceTerminal,
	})
	return h
}

func (h *harness) move(t *testing.T, subID string) *service.TransitionResult {
	t.Helper()
	res, err := h.svc.ApplyTransition(context.Background(), service.TransitionRequest{
		OrganizationID: testOrg,
		CandidateID:    "cand-1",
		NewSubStatusID: subID,
		Actor:          recruiter,
	})
	require.NoError(t, err)
	return res
}

func TestApplyTransition_InitialPlacement(t *testing.T) {
	h := newHarness(t, true)

	res := h.move(t, "s-new")

	assert.Equal(t, `Status set to "New Applicant".`, res.Event.EventDescription)
	assert.True(t, res.Event.PreviousState.IsZero())
	assert.Equal(t, domain.EventTypeStatusChange, res.Event.EventType)
	assert.Equal(t, "rec-1", res.Event.CreatedBy)
	assert.Equal(t, "Riya", res.Event.CreatedByName)
	assert.NotEmpty(t, res.Event.ID)
}

func TestApplyTransition_RoundTrip(t *testing.T) {
	h := newHarness(t, true)

	h.move(t, "s-l1")

	ptr := h.store.pointer("cand-1")
	require.NotNil(t, ptr.SubStatusID)
	require.NotNil(t, ptr.MainStatusID)
	assert.Equal(t, "s-l1", *ptr.SubStatusID)

	def, err := h.store.GetByID(context.Background(), domain.Scope{OrganizationID: testOrg, Pipeline: domain.PipelineRecruitment}, "s-l1")
	require.NoError(t, err)
	assert.Equal(t, *def.ParentID, *ptr.MainStatusID)
	assert.Equal(t, "Interview", ptr.StatusLabel)
	require.NotNil(t, ptr.UpdatedBy)
	assert.Equal(t, "rec-1", *ptr.UpdatedBy)
	assert.Nil(t, ptr.BgvSubStatusID)
}

func TestApplyTransition_L1ToSelected(t *testing.T) {
	h := newHarness(t, true)
	h.move(t, "s-l1")

	res, err := h.svc.ApplyTransition(context.Background(), service.TransitionRequest{
		OrganizationID: testOrg,
		CandidateID:    "cand-1",
		NewSubStatusID: "s-l1-sel",
		Actor:          recruiter,
		EventData: domain.EventData{
			Feedback: &domain.FeedbackDetails{Result: "selected", Feedback: "strong system design"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.InteractionInterviewFeedback, res.Interaction)
	assert.False(t, res.Terminal)
	assert.Equal(t, `Status changed from "L1" to "L1 - Selected".`, res.Event.EventDescription)
	assert.Equal(t, "L1", res.Event.PreviousState.SubStatusName)
	assert.Equal(t, "Interview", res.Event.PreviousState.MainStatusName)
	assert.Equal(t, "L1 - Selected", res.Event.NewState.SubStatusName)

	require.NotNil(t, res.Event.EventData.Feedback)
	assert.Equal(t, domain.InteractionInterviewFeedback, res.Event.EventData.Kind)
	assert.Equal(t, "L1", res.Event.EventData.Feedback.Round, "round filled from the status name")
	assert.Len(t, h.store.events(), 2)
}

func TestApplyTransition_CandidateDroppedIsTerminalReject(t *testing.T) {
	h := newHarness(t, true)
	h.move(t, "s-l1")

	res, err := h.svc.ApplyTransition(context.Background(), service.TransitionRequest{
		OrganizationID: testOrg,
		CandidateID:    "cand-1",
		NewSubStatusID: "s-dropped",
		Actor:          recruiter,
		EventData:      domain.EventData{Rejection: &domain.RejectionDetails{Reason: "accepted another offer"}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.InteractionReject, res.Interaction)
	assert.True(t, res.Terminal)
	assert.True(t, pipeline.IsTerminalStatus("Candidate Dropped"))
}

func TestApplyTransition_IdempotentReapply(t *testing.T) {
	h := newHarness(t, true)
	h.move(t, "s-l1")
	before := h.store.pointer("cand-1")

	second := h.move(t, "s-l1")

	assert.Equal(t, second.Event.PreviousState, second.Event.NewState)
	after := h.store.pointer("cand-1")
	assert.Equal(t, *before.SubStatusID, *after.SubStatusID)
	assert.Equal(t, *before.MainStatusID, *after.MainStatusID)
	assert.Equal(t, before.StatusLabel, after.StatusLabel)
	assert.Len(t, h.store.events(), 2)
}

func TestApplyTransition_UnknownTarget(t *testing.T) {
	h := newHarness(t, true)
	h.move(t, "s-new")
	before := h.store.pointer("cand-1")

	_, err := h.svc.ApplyTransition(context.Background(), service.TransitionRequest{
		OrganizationID: testOrg,
		CandidateID:    "cand-1",
		NewSubStatusID: "does-not-exist",
		Actor:          recruiter,
	})

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	assert.Len(t, h.store.events(), 1)
	assert.Equal(t, before, h.store.pointer("cand-1"))
}

func TestApplyTransition_TargetMustBeSubOfPipeline(t *testing.T) {
	h := newHarness(t, true)

	for _, id := range []string{"m-int", "bgv-in-progress"} {
		_, err := h.svc.ApplyTransition(context.Background(), service.TransitionRequest{
			OrganizationID: testOrg, CandidateID: "cand-1", NewSubStatusID: id, Actor: recruiter,
		})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound), id)
	}
	assert.Empty(t, h.store.events())
}

func TestApplyTransition_UnknownCandidate(t *testing.T) {
	h := newHarness(t, true)

	_, err := h.svc.ApplyTransition(context.Background(), service.TransitionRequest{
		OrganizationID: testOrg, CandidateID: "ghost", NewSubStatusID: "s-new", Actor: recruiter,
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = h.svc.ApplyTransition(context.Background(), service.TransitionRequest{
		OrganizationID: "org-2", CandidateID: "cand-1", NewSubStatusID: "s-new", Actor: recruiter,
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound), "other organization's catalog")
}

func TestApplyTransition_CurrentStatusMissingFromCatalog(t *testing.T) {
	h := newHarness(t, true)
	h.move(t, "s-new")
	h.store.statuses = h.store.statuses[:0:0]
	for _, def := range append(recruitmentCatalog(), bgvCatalog()...) {
		if def.ID != "s-new" {
			h.store.statuses = append(h.store.statuses, def)
		}
	}

	_, err := h.svc.ApplyTransition(context.Background(), service.TransitionRequest{
		OrganizationID: testOrg, CandidateID: "cand-1", NewSubStatusID: "s-l1", Actor: recruiter,
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	assert.Len(t, h.store.events(), 1)
}

func TestApplyTransition_MissingFields(t *testing.T) {
	h := newHarness(t, true)

	_, err := h.svc.ApplyTransition(context.Background(), service.TransitionRequest{CandidateID: "cand-1"})
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidation, domainErr.Code)
	assert.ElementsMatch(t, []string{"organization_id", "sub_status_id", "actor_id"}, domainErr.Details["fields"])
}

func TestApplyTransition_AtomicWhenTimelineAppendFails(t *testing.T) {
	h := newHarness(t, true)
	h.move(t, "s-new")
	before := h.store.pointer("cand-1")
	h.store.failAppend = errors.New("disk full")

	_, err := h.svc.ApplyTransition(context.Background(), service.TransitionRequest{
		OrganizationID: testOrg, CandidateID: "cand-1", NewSubStatusID: "s-l1", Actor: recruiter,
	})

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodePartialWriteFailure))
	assert.Equal(t, before, h.store.pointer("cand-1"), "pointer update rolled back")
	assert.Len(t, h.store.events(), 1)
	assert.Equal(t, 1, h.store.rollbacks)
	assert.Len(t, h.published, 1, "no event for the failed transition")
}

func TestApplyTransition_PointerUpdateFails(t *testing.T) {
	h := newHarness(t, true)
	h.store.failUpdate = errors.New("connection reset")

	_, err := h.svc.ApplyTransition(context.Background(), service.TransitionRequest{
		OrganizationID: testOrg, CandidateID: "cand-1", NewSubStatusID: "s-l1", Actor: recruiter,
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodePartialWriteFailure))
	assert.Empty(t, h.store.events())
}

func TestApplyTransition_TerminalEnforcement(t *testing.T) {
	h := newHarness(t, true)
	h.move(t, "s-l1-rej")

	_, err := h.svc.ApplyTransition(context.Background(), service.TransitionRequest{
		OrganizationID: testOrg, CandidateID: "cand-1", NewSubStatusID: "s-l1", Actor: recruiter,
	})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeTerminalStateViolation))
	assert.Equal(t, "s-l1-rej", *h.store.pointer("cand-1").SubStatusID)

	again := h.move(t, "s-l1-rej")
	assert.Equal(t, again.Event.PreviousState, again.Event.NewState, "re-applying the terminal status is allowed")
}

func TestApplyTransition_TerminalEnforcementDisabled(t *testing.T) {
	h := newHarness(t, false)
	h.move(t, "s-l1-rej")

	res := h.move(t, "s-l1")
	assert.Equal(t, `Status changed from "L1 - Rejected" to "L1".`, res.Event.EventDescription)
}

func TestApplyTransition_TransitionGraph(t *testing.T) {
	h := newHarness(t, true)
	h.store.rules[domain.PipelineRecruitment] = []pipeline.TransitionRule{
		{FromSubStatusID: "s-new", ToSubStatusID: "s-l1"},
		{FromSubStatusID: "s-l1", ToSubStatusID: "s-l1-sel"},
	}

	h.move(t, "s-new")
	h.move(t, "s-l1")

	_, err := h.svc.ApplyTransition(context.Background(), service.TransitionRequest{
		OrganizationID: testOrg, CandidateID: "cand-1", NewSubStatusID: "s-joined", Actor: recruiter,
		EventData: domain.EventData{Joining: &domain.JoiningDetails{JoiningDate: "2026-11-02"}},
	})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeTransitionNotAllowed))
	assert.Equal(t, "s-l1", *h.store.pointer("cand-1").SubStatusID)
}

func TestApplyTransition_EventDataValidation(t *testing.T) {
	cases := []struct {
		name   string
		target string
		data   domain.EventData
		ok     bool
	}{
		{
			name:   "schedule with datetime",
			target: "s-l1",
			data:   domain.EventData{Interview: &domain.InterviewDetails{DateTime: "2026-11-02T10:00:00Z"}},
			ok:     true,
		},
		{
			name:   "schedule missing datetime",
			target: "s-l1",
			data:   domain.EventData{Interview: &domain.InterviewDetails{Location: "remote"}},
		},
		{
			name:   "schedule with bad datetime",
			target: "s-l1",
			data:   domain.EventData{Interview: &domain.InterviewDetails{DateTime: "tomorrow"}},
		},
		{
			name:   "kind does not match target",
			target: "s-l1",
			data:   domain.EventData{Kind: domain.InteractionReject, Rejection: &domain.RejectionDetails{Reason: "x"}},
		},
		{
			name:   "details do not match kind",
			target: "s-joined",
			data:   domain.EventData{Rejection: &domain.RejectionDetails{Reason: "x"}},
		},
		{
			name:   "reschedule needs a reason",
			target: "s-resched-l2",
			data:   domain.EventData{Interview: &domain.InterviewDetails{DateTime: "2026-11-02T10:00:00Z"}},
		},
		{
			name:   "billing reason",
			target: "s-processed",
			data:   domain.EventData{Billing: &domain.BillingDetails{BillingReason: "standard rate"}},
			ok:     true,
		},
		{
			name:   "no payload for an interaction status",
			target: "s-joined",
			ok:     true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, true)
			_, err := h.svc.ApplyTransition(context.Background(), service.TransitionRequest{
				OrganizationID: testOrg, CandidateID: "cand-1", NewSubStatusID: tc.target, Actor: recruiter,
				EventData: tc.data,
			})
			if tc.ok {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
			assert.Empty(t, h.store.events())
		})
	}
}

func TestApplyTransition_RescheduleFillsRound(t *testing.T) {
	h := newHarness(t, true)

	res, err := h.svc.ApplyTransition(context.Background(), service.TransitionRequest{
		OrganizationID: testOrg, CandidateID: "cand-1", NewSubStatusID: "s-resched-l2", Actor: recruiter,
		EventData: domain.EventData{Interview: &domain.InterviewDetails{
			DateTime: "2026-11-02T10:00:00+05:30",
			Reason:   "panel unavailable",
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.InteractionReschedule, res.Interaction)
	assert.Equal(t, "L2", res.Event.EventData.Interview.Round)
}

func TestApplyTransition_LeavesRequestDetailsUntouched(t *testing.T) {
	h := newHarness(t, true)
	h.move(t, "s-l1")

	feedback := &domain.FeedbackDetails{Result: "selected", Feedback: "clear communicator"}
	res, err := h.svc.ApplyTransition(context.Background(), service.TransitionRequest{
		OrganizationID: testOrg, CandidateID: "cand-1", NewSubStatusID: "s-l1-sel", Actor: recruiter,
		EventData: domain.EventData{Feedback: feedback},
	})
	require.NoError(t, err)
	assert.Equal(t, "L1", res.Event.EventData.Feedback.Round)
	assert.Empty(t, feedback.Round)
	assert.NotSame(t, feedback, res.Event.EventData.Feedback)

	interview := &domain.InterviewDetails{DateTime: "2026-11-02T10:00:00Z", Reason: "panel unavailable"}
	res, err = h.svc.ApplyTransition(context.Background(), service.TransitionRequest{
		OrganizationID: testOrg, CandidateID: "cand-1", NewSubStatusID: "s-resched-l2", Actor: recruiter,
		EventData: domain.EventData{Interview: interview},
	})
	require.NoError(t, err)
	assert.Equal(t, "L2", res.Event.EventData.Interview.Round)
	assert.Empty(t, interview.Round)
}

func TestApplyTransition_PublishesEvent(t *testing.T) {
	h := newHarness(t, true)
	res := h.move(t, "s-new")

	require.Len(t, h.published, 1)
	e := h.published[0]
	assert.Equal(t, events.EventCandidateStatusChanged, e.Type)
	assert.Equal(t, "cand-1", e.CandidateID)
	assert.Equal(t, testOrg, e.OrganizationID)
	payload, ok := e.Payload.(events.StatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, res.Event.ID, payload.TimelineEventID)
	assert.Equal(t, "s-new", payload.Current.SubStatusID)
}

func TestApplyBgvTransition(t *testing.T) {
	h := newHarness(t, true)
	h.move(t, "s-joined")

	first, err := h.svc.ApplyBgvTransition(context.Background(), service.TransitionRequest{
		OrganizationID: testOrg, CandidateID: "cand-1", NewSubStatusID: "bgv-in-progress", Actor: recruiter,
	})
	require.NoError(t, err)
	assert.Equal(t, `BGV status set to "In Progress".`, first.Event.EventDescription)
	assert.Equal(t, domain.EventTypeBgvStatusChange, first.Event.EventType)
	assert.Equal(t, domain.InteractionNone, first.Interaction)

	second, err := h.svc.ApplyBgvTransition(context.Background(), service.TransitionRequest{
		OrganizationID: testOrg, CandidateID: "cand-1", NewSubStatusID: pipeline.BgvAllChecksClearID, Actor: recruiter,
	})
	require.NoError(t, err)
	assert.Equal(t, `BGV status changed from "In Progress" to "All Checks Clear".`, second.Event.EventDescription)
	assert.True(t, second.Terminal)

	ptr := h.store.pointer("cand-1")
	assert.Equal(t, pipeline.BgvAllChecksClearID, *ptr.BgvSubStatusID)
	assert.Equal(t, "bgv-completed", *ptr.BgvMainStatusID)
	assert.Equal(t, "s-joined", *ptr.SubStatusID, "recruitment pointer untouched")
	assert.Equal(t, "Offer", ptr.StatusLabel)

	_, err = h.svc.ApplyBgvTransition(context.Background(), service.TransitionRequest{
		OrganizationID: testOrg, CandidateID: "cand-1", NewSubStatusID: "bgv-in-progress", Actor: recruiter,
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeTerminalStateViolation))

	require.Len(t, h.published, 3)
	assert.Equal(t, events.EventCandidateBgvStatusChanged, h.published[2].Type)
}

func TestApplyBgvTransition_RejectsPayload(t *testing.T) {
	h := newHarness(t, true)

	_, err := h.svc.ApplyBgvTransition(context.Background(), service.TransitionRequest{
		OrganizationID: testOrg, CandidateID: "cand-1", NewSubStatusID: "bgv-in-progress", Actor: recruiter,
		EventData: domain.EventData{Rejection: &domain.RejectionDetails{Reason: "x"}},
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestListTimeline(t *testing.T) {
	h := newHarness(t, true)

	entries, err := h.svc.ListTimeline(context.Background(), testOrg, "cand-1")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	h.move(t, "s-new")
	h.move(t, "s-l1")
	entries, err = h.svc.ListTimeline(context.Background(), testOrg, "cand-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entries[0].NewState, entries[1].PreviousState, "snapshots chain")

	_, err = h.svc.ListTimeline(context.Background(), testOrg, "ghost")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}
