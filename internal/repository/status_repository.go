package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hrumbles/candidate-pipeline/internal/domain"
	"github.com/hrumbles/candidate-pipeline/internal/pipeline"
)

// SharedOrganizationID owns statuses visible to every organization.
const SharedOrganizationID = "*"

// StatusRepository is the read-only status catalog.
type StatusRepository interface {
	ListStatuses(ctx context.Context, scope domain.Scope) ([]domain.StatusDefinition, error)
	GetByID(ctx context.Context, scope domain.Scope, id string) (*domain.StatusDefinition, error)
	ListTransitionRules(ctx context.Context, scope domain.Scope) ([]pipeline.TransitionRule, error)
}

type statusRepository struct {
	pool *pgxpool.Pool
}

// NewStatusRepository instantiates repository.
func NewStatusRepository(pool *pgxpool.Pool) StatusRepository {
	return &statusRepository{pool: pool}
}

const statusColumns = `id, organization_id, pipeline, name, type, parent_id, display_order, color, created_at, updated_at`

func (r *statusRepository) ListStatuses(ctx context.Context, scope domain.Scope) ([]domain.StatusDefinition, error) {
	query := `SELECT ` + statusColumns + `
        FROM status_definitions
        WHERE organization_id IN ($1, $2) AND pipeline=$3
        ORDER BY display_order ASC, name ASC`
	rows, err := querier(ctx, r.pool).Query(ctx, query, scope.OrganizationID, SharedOrganizationID, scope.Pipeline)
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	defer rows.Close()

	var result []domain.StatusDefinition
	for rows.Next() {
		def, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("scan status: %w", err)
		}
		result = append(result, *def)
	}
	return result, rows.Err()
}

func (r *statusRepository) GetByID(ctx context.Context, scope domain.Scope, id string) (*domain.StatusDefinition, error) {
	query := `SELECT ` + statusColumns + `
        FROM status_definitions
        WHERE id=$1 AND organization_id IN ($2, $3) AND pipeline=$4`
	return scanStatus(querier(ctx, r.pool).QueryRow(ctx, query, id, scope.OrganizationID, SharedOrganizationID, scope.Pipeline))
}

func (r *statusRepository) ListTransitionRules(ctx context.Context, scope domain.Scope) ([]pipeline.TransitionRule, error) {
	const query = `
        SELECT from_sub_status_id, to_sub_status_id
        FROM status_transition_rules
        WHERE organization_id=$1 AND pipeline=$2`
	rows, err := querier(ctx, r.pool).Query(ctx, query, scope.OrganizationID, scope.Pipeline)
	if err != nil {
		return nil, fmt.Errorf("list transition rules: %w", err)
	}
	defer rows.Close()

	var rules []pipeline.TransitionRule
	for rows.Next() {
		var rule pipeline.TransitionRule
		if err := rows.Scan(&rule.FromSubStatusID, &rule.ToSubStatusID); err != nil {
			return nil, fmt.Errorf("scan transition rule: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func scanStatus(row pgx.Row) (*domain.StatusDefinition, error) {
	var def domain.StatusDefinition
	if err := row.Scan(
		&def.ID,
		&def.OrganizationID,
		&def.Pipeline,
		&def.Name,
		&def.Type,
		&def.ParentID,
		&def.DisplayOrder,
		&def.Color,
		&def.CreatedAt,
		&def.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &def, nil
}
