package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hrumbles/candidate-pipeline/internal/domain"
)

// TimelineRepository stores the append-only status change log.
type TimelineRepository interface {
	Append(ctx context.Context, event *domain.TimelineEvent) error
	ListForCandidate(ctx context.Context, organizationID, candidateID string) ([]domain.TimelineEvent, error)
}

type timelineRepository struct {
	pool *pgxpool.Pool
}

// NewTimelineRepository builds repository.
func NewTimelineRepository(pool *pgxpool.Pool) TimelineRepository {
	return &timelineRepository{pool: pool}
}

func (r *timelineRepository) Append(ctx context.Context, event *domain.TimelineEvent) error {
	const query = `
        INSERT INTO candidate_timeline (candidate_id, organization_id, event_type, event_description,
            previous_state, new_state, event_data, created_by, created_by_name)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id::text, created_at`

	previous, err := json.Marshal(event.PreviousState)
	if err != nil {
		return fmt.Errorf("encode previous state: %w", err)
	}
	next, err := json.Marshal(event.NewState)
	if err != nil {
		return fmt.Errorf("encode new state: %w", err)
	}
	data, err := json.Marshal(event.EventData)
	if err != nil {
		return fmt.Errorf("encode event data: %w", err)
	}

	return querier(ctx, r.pool).QueryRow(ctx, query,
		event.CandidateID,
		event.OrganizationID,
		event.EventType,
		event.EventDescription,
		previous,
		next,
		data,
		event.CreatedBy,
		event.CreatedByName,
	).Scan(&event.ID, &event.CreatedAt)
}

func (r *timelineRepository) ListForCandidate(ctx context.Context, organizationID, candidateID string) ([]domain.TimelineEvent, error) {
	const query = `
        SELECT id::text, candidate_id, organization_id, event_type, event_description,
               previous_state, new_state, event_data, created_by, created_by_name, created_at
        FROM candidate_timeline
        WHERE candidate_id=$1 AND organization_id=$2
        ORDER BY created_at ASC, id ASC`
	rows, err := querier(ctx, r.pool).Query(ctx, query, candidateID, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TimelineEvent
	for rows.Next() {
		event, err := scanTimelineEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *event)
	}
	return result, rows.Err()
}

func scanTimelineEvent(rows pgx.Rows) (*domain.TimelineEvent, error) {
	var (
		event                   domain.TimelineEvent
		previous, next, evtData []byte
	)
	if err := rows.Scan(
		&event.ID,
		&event.CandidateID,
		&event.OrganizationID,
		&event.EventType,
		&event.EventDescription,
		&previous,
		&next,
		&evtData,
		&event.CreatedBy,
		&event.CreatedByName,
		&event.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(previous, &event.PreviousState); err != nil {
		return nil, fmt.Errorf("decode previous state: %w", err)
	}
	if err := json.Unmarshal(next, &event.NewState); err != nil {
		return nil, fmt.Errorf("decode new state: %w", err)
	}
	if err := json.Unmarshal(evtData, &event.EventData); err != nil {
		return nil, fmt.Errorf("decode event data: %w", err)
	}
	return &event, nil
}
