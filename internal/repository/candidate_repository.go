package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hrumbles/candidate-pipeline/internal/domain"
	apperrors "github.com/hrumbles/candidate-pipeline/pkg/util/errorutil"
)

// lockNotAvailable is raised when lock_timeout expires while waiting on a row.
const lockNotAvailable = "55P03"

// CandidateRepository holds the candidate's current status pointers.
type CandidateRepository interface {
	GetStatusPointer(ctx context.Context, organizationID, candidateID string) (*domain.CandidateStatusPointer, error)
	// LockStatusPointer reads the pointer and locks the row until the
	// surrounding transaction ends.
	LockStatusPointer(ctx context.Context, organizationID, candidateID string) (*domain.CandidateStatusPointer, error)
	UpdateStatusPointer(ctx context.Context, organizationID, candidateID string, update domain.PointerUpdate) error
}

type candidateRepository struct {
	pool *pgxpool.Pool
}

// NewCandidateRepository instantiates repository.
func NewCandidateRepository(pool *pgxpool.Pool) CandidateRepository {
	return &candidateRepository{pool: pool}
}

const pointerQuery = `
        SELECT id, organization_id, main_status_id, sub_status_id, status,
               bgv_main_status_id, bgv_sub_status_id, updated_by, updated_at
        FROM candidates WHERE id=$1 AND organization_id=$2`

func (r *candidateRepository) GetStatusPointer(ctx context.Context, organizationID, candidateID string) (*domain.CandidateStatusPointer, error) {
	return r.fetchPointer(ctx, pointerQuery, organizationID, candidateID)
}

func (r *candidateRepository) LockStatusPointer(ctx context.Context, organizationID, candidateID string) (*domain.CandidateStatusPointer, error) {
	p, err := r.fetchPointer(ctx, pointerQuery+` FOR UPDATE`, organizationID, candidateID)
	if err != nil {
		return nil, lockError(candidateID, err)
	}
	return p, nil
}

func lockError(candidateID string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == lockNotAvailable {
		return apperrors.NewConflict("candidate status is being changed by another request", map[string]any{
			"candidate_id": candidateID,
		})
	}
	return err
}

func (r *candidateRepository) fetchPointer(ctx context.Context, query, organizationID, candidateID string) (*domain.CandidateStatusPointer, error) {
	var p domain.CandidateStatusPointer
	if err := querier(ctx, r.pool).QueryRow(ctx, query, candidateID, organizationID).Scan(
		&p.CandidateID,
		&p.OrganizationID,
		&p.MainStatusID,
		&p.SubStatusID,
		&p.StatusLabel,
		&p.BgvMainStatusID,
		&p.BgvSubStatusID,
		&p.UpdatedBy,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *candidateRepository) UpdateStatusPointer(ctx context.Context, organizationID, candidateID string, update domain.PointerUpdate) error {
	var (
		query string
		args  []any
	)
	if update.Pipeline == domain.PipelineBgv {
		query = `
        UPDATE candidates SET bgv_main_status_id=$1, bgv_sub_status_id=$2, updated_by=$3, updated_at=NOW()
        WHERE id=$4 AND organization_id=$5`
		args = []any{update.MainStatusID, update.SubStatusID, update.ActorID, candidateID, organizationID}
	} else {
		query = `
        UPDATE candidates SET main_status_id=$1, sub_status_id=$2, status=$3, updated_by=$4, updated_at=NOW()
        WHERE id=$5 AND organization_id=$6`
		args = []any{update.MainStatusID, update.SubStatusID, update.StatusLabel, update.ActorID, candidateID, organizationID}
	}

	cmd, err := querier(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
