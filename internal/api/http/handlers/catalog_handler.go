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

// Catalog is the part of the catalog service the handler needs.
type Catalog interface {
	Classify(oldSub, newSub string) service.Classification
	LoadStatusTree(ctx context.Context, scope domain.Scope) ([]domain.MainStatus, error)
}

// CatalogHandler serves the status catalog and the classifier.
type CatalogHandler struct {
	catalog   Catalog
	validator *dto.Validator
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog Catalog, validator *dto.Validator) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, validator: validator}
}

// ListStatuses GET /statuses?pipeline=recruitment|bgv.
func (h *CatalogHandler) ListStatuses(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("recruiter required")
	}
	var query dto.StatusTreeQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	if err := h.validator.Struct(query); err != nil {
		return err
	}
	p := domain.PipelineRecruitment
	if query.Pipeline != "" {
		p = domain.Pipeline(query.Pipeline)
	}

	tree, err := h.catalog.LoadStatusTree(c.UserContext(), domain.Scope{OrganizationID: principal.OrganizationID(), Pipeline: p})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStatusTreeResponse(p, tree)})
}

// Classify POST /classify.
func (h *CatalogHandler) Classify(c *fiber.Ctx) error {
	var req dto.ClassifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validator.Struct(req); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClassifyResponse(h.catalog.Classify(req.OldStatus, req.NewStatus))})
}
