package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/hrumbles/candidate-pipeline/internal/api/dto"
	"github.com/hrumbles/candidate-pipeline/internal/auth"
	"github.com/hrumbles/candidate-pipeline/internal/domain"
	"github.com/hrumbles/candidate-pipeline/internal/service"
	apperrors "github.com/hrumbles/candidate-pipeline/pkg/util/errorutil"
)

// Transitions is the part of the transition service the handler needs.
type Transitions interface {
	ApplyTransition(ctx context.Context, req service.TransitionRequest) (*service.TransitionResult, error)
	ApplyBgvTransition(ctx context.Context, req service.TransitionRequest) (*service.TransitionResult, error)
	ListTimeline(ctx context.Context, organizationID, candidateID string) ([]domain.TimelineEvent, error)
}

// CandidatesHandler moves candidates through the pipelines.
type CandidatesHandler struct {
	transitions Transitions
	validator   *dto.Validator
}

// NewCandidatesHandler constructs handler.
func NewCandidatesHandler(transitions Transitions, validator *dto.Validator) *CandidatesHandler {
	return &CandidatesHandler{transitions: transitions, validator: validator}
}

// UpdateStatus POST /candidates/:id/status.
func (h *CandidatesHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("recruiter required")
	}
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validator.Struct(req); err != nil {
		return err
	}

	input := service.TransitionRequest{
		OrganizationID: principal.OrganizationID(),
		CandidateID:    c.Params("id"),
		NewSubStatusID: req.SubStatusID,
		Actor:          principal.Actor,
	}
	if req.EventData != nil {
		input.EventData = *req.EventData
	}
	result, err := h.transitions.ApplyTransition(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTransitionResponse(result)})
}

// UpdateBgvStatus POST /candidates/:id/bgv-status.
func (h *CandidatesHandler) UpdateBgvStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("recruiter required")
	}
	var req dto.BgvTransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validator.Struct(req); err != nil {
		return err
	}

	result, err := h.transitions.ApplyBgvTransition(c.UserContext(), service.TransitionRequest{
		OrganizationID: principal.OrganizationID(),
		CandidateID:    c.Params("id"),
		NewSubStatusID: req.SubStatusID,
		Actor:          principal.Actor,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTransitionResponse(result)})
}

// Timeline GET /candidates/:id/timeline.
func (h *CandidatesHandler) Timeline(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("recruiter required")
	}
	entries, err := h.transitions.ListTimeline(c.UserContext(), principal.OrganizationID(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.TimelineEventResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewTimelineEventResponse(entry))
	}
	return c.JSON(fiber.Map{"data": items})
}
