package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/sfrp-tup/helpline/internal/domain"
)

// ComplaintUpdateRepository stores immutable complaint audit entries.
type ComplaintUpdateRepository interface {
	Create(ctx context.Context, update *domain.ComplaintUpdate) error
	ListByComplaint(ctx context.Context, complaintID int64, publicOnly bool) ([]domain.ComplaintUpdate, error)
}

type complaintUpdateRepository struct {
	db Querier
}

// NewComplaintUpdateRepository builds repository.
func NewComplaintUpdateRepository(db Querier) ComplaintUpdateRepository {
	return &complaintUpdateRepository{db: db}
}

func (r *complaintUpdateRepository) Create(ctx context.Context, update *domain.ComplaintUpdate) error {
	const query = `
        INSERT INTO complaint_updates (complaint_id, updated_by_id, message, is_public, update_type,
            old_status, new_status, old_priority, new_priority, old_assigned_to_id, new_assigned_to_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		update.ComplaintID,
		update.UpdatedByID,
		update.Message,
		update.IsPublic,
		update.UpdateType,
		update.OldStatus,
		update.NewStatus,
		update.OldPriority,
		update.NewPriority,
		update.OldAssignedToID,
		update.NewAssignedToID,
	).Scan(&update.ID, &update.CreatedAt)
}

// ListByComplaint returns audit entries in chronological order.
func (r *complaintUpdateRepository) ListByComplaint(ctx context.Context, complaintID int64, publicOnly bool) ([]domain.ComplaintUpdate, error) {
	query := `
        SELECT id, complaint_id, updated_by_id, message, is_public, update_type,
               old_status, new_status, old_priority, new_priority, old_assigned_to_id, new_assigned_to_id, created_at
        FROM complaint_updates WHERE complaint_id=$1`
	if publicOnly {
		query += ` AND is_public`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaintUpdates(rows)
}

func scanComplaintUpdates(rows pgx.Rows) ([]domain.ComplaintUpdate, error) {
	var result []domain.ComplaintUpdate
	for rows.Next() {
		var update domain.ComplaintUpdate
		if err := rows.Scan(
			&update.ID,
			&update.ComplaintID,
			&update.UpdatedByID,
			&update.Message,
			&update.IsPublic,
			&update.UpdateType,
			&update.OldStatus,
			&update.NewStatus,
			&update.OldPriority,
			&update.NewPriority,
			&update.OldAssignedToID,
			&update.NewAssignedToID,
			&update.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, update)
	}
	return result, rows.Err()
}
