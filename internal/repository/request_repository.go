package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sfrp-tup/helpline/internal/domain"
)

const requestColumns = `id, request_type, submitted_by_id, full_name, email, phone, category_id,
               subject, description, question, location, status, priority, assigned_to_id,
               resolution_notes, resolved_at, submitted_at, updated_at`

// SubmitterFilter narrows the "my requests" listing.
type SubmitterFilter struct {
	Type     *domain.RequestType
	Statuses []domain.RequestStatus
	Limit    int
	Offset   int
}

// RequestRepository encapsulates request persistence.
type RequestRepository interface {
	Create(ctx context.Context, req *domain.Request) error
	GetByID(ctx context.Context, id int64) (*domain.Request, error)
	GetByTypeAndID(ctx context.Context, t domain.RequestType, id int64) (*domain.Request, error)
	ListAll(ctx context.Context) ([]domain.Request, error)
	ListBySubmitter(ctx context.Context, userID int64, filter SubmitterFilter) ([]domain.Request, error)
	ListStale(ctx context.Context, statuses []domain.RequestStatus, updatedBefore time.Time) ([]domain.Request, error)
	UpdateWorkflow(ctx context.Context, req *domain.Request, expectedUpdatedAt time.Time) error
	WithTx(tx pgx.Tx) RequestRepository
}

type requestRepository struct {
	db Querier
}

// NewRequestRepository instantiates repository.
func NewRequestRepository(db Querier) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) WithTx(tx pgx.Tx) RequestRepository {
	return &requestRepository{db: tx}
}

func (r *requestRepository) Create(ctx context.Context, req *domain.Request) error {
	const query = `
        INSERT INTO requests (request_type, submitted_by_id, full_name, email, phone, category_id,
            subject, description, question, location, status, priority)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, submitted_at, updated_at`
	return r.db.QueryRow(ctx, query,
		req.Type,
		req.SubmittedByID,
		req.FullName,
		req.Email,
		req.Phone,
		req.CategoryID,
		req.Subject,
		req.Description,
		req.Question,
		req.Location,
		req.Status,
		req.Priority,
	).Scan(&req.ID, &req.SubmittedAt, &req.UpdatedAt)
}

func (r *requestRepository) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE id=$1`, requestColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *requestRepository) GetByTypeAndID(ctx context.Context, t domain.RequestType, id int64) (*domain.Request, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE request_type=$1 AND id=$2`, requestColumns)
	return r.fetchSingle(ctx, query, t, id)
}

func (r *requestRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Request, error) {
	var req domain.Request
	if err := scanRequest(r.db.QueryRow(ctx, query, args...), &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) ListAll(ctx context.Context) ([]domain.Request, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests`, requestColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

func (r *requestRepository) ListBySubmitter(ctx context.Context, userID int64, filter SubmitterFilter) ([]domain.Request, error) {
	clauses := []string{"submitted_by_id=$1"}
	args := []any{userID}

	if filter.Type != nil {
		args = append(args, *filter.Type)
		clauses = append(clauses, fmt.Sprintf("request_type=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM requests WHERE %s ORDER BY submitted_at DESC LIMIT %d OFFSET %d`,
		requestColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

func (r *requestRepository) ListStale(ctx context.Context, statuses []domain.RequestStatus, updatedBefore time.Time) ([]domain.Request, error) {
	placeholders := make([]string, len(statuses))
	args := make([]any, 0, len(statuses)+1)
	for i, status := range statuses {
		args = append(args, status)
		placeholders[i] = fmt.Sprintf("$%d", len(args))
	}
	args = append(args, updatedBefore)

	query := fmt.Sprintf(`SELECT %s FROM requests WHERE status IN (%s) AND updated_at < $%d ORDER BY updated_at ASC`,
		requestColumns, strings.Join(placeholders, ","), len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

// UpdateWorkflow persists status, assignment and resolution fields. The
// update is conditional on the updated_at the caller read; a stale read
// returns ErrStaleRow so concurrent edits surface instead of being
// silently overwritten.
func (r *requestRepository) UpdateWorkflow(ctx context.Context, req *domain.Request, expectedUpdatedAt time.Time) error {
	const query = `
        UPDATE requests SET status=$1, priority=$2, assigned_to_id=$3, resolution_notes=$4,
            resolved_at=$5, updated_at=NOW()
        WHERE id=$6 AND updated_at=$7
        RETURNING updated_at`
	err := r.db.QueryRow(ctx, query,
		req.Status,
		req.Priority,
		req.AssignedToID,
		req.Resolution,
		req.ResolvedAt,
		req.ID,
		expectedUpdatedAt,
	).Scan(&req.UpdatedAt)
	if err == pgx.ErrNoRows {
		return ErrStaleRow
	}
	return err
}

func scanRequest(row pgx.Row, req *domain.Request) error {
	return row.Scan(
		&req.ID,
		&req.Type,
		&req.SubmittedByID,
		&req.FullName,
		&req.Email,
		&req.Phone,
		&req.CategoryID,
		&req.Subject,
		&req.Description,
		&req.Question,
		&req.Location,
		&req.Status,
		&req.Priority,
		&req.AssignedToID,
		&req.Resolution,
		&req.ResolvedAt,
		&req.SubmittedAt,
		&req.UpdatedAt,
	)
}

func scanRequests(rows pgx.Rows) ([]domain.Request, error) {
	var result []domain.Request
	for rows.Next() {
		var req domain.Request
		if err := scanRequest(rows, &req); err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, rows.Err()
}
