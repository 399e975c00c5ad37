package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/sfrp-tup/helpline/internal/domain"
)

// OverdueLogRepository tracks which requests have already been alerted
// for their current overdue episode.
type OverdueLogRepository interface {
	// Latest returns the log entry for a request, or nil when none exists.
	Latest(ctx context.Context, requestID int64) (*domain.OverdueNotificationLog, error)
	// Upsert records (or refreshes) the single log entry for a request.
	Upsert(ctx context.Context, requestType domain.RequestType, requestID int64) error
}

type overdueLogRepository struct {
	db Querier
}

// NewOverdueLogRepository builds repository.
func NewOverdueLogRepository(db Querier) OverdueLogRepository {
	return &overdueLogRepository{db: db}
}

func (r *overdueLogRepository) Latest(ctx context.Context, requestID int64) (*domain.OverdueNotificationLog, error) {
	const query = `
        SELECT id, request_id, request_type, notified_at
        FROM overdue_notification_logs WHERE request_id=$1`
	var log domain.OverdueNotificationLog
	err := r.db.QueryRow(ctx, query, requestID).Scan(&log.ID, &log.RequestID, &log.RequestType, &log.NotifiedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *overdueLogRepository) Upsert(ctx context.Context, requestType domain.RequestType, requestID int64) error {
	const query = `
        INSERT INTO overdue_notification_logs (request_id, request_type, notified_at)
        VALUES ($1,$2,NOW())
        ON CONFLICT (request_id) DO UPDATE SET notified_at=NOW()`
	_, err := r.db.Exec(ctx, query, requestID, requestType)
	return err
}
