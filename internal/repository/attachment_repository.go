package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/sfrp-tup/helpline/internal/domain"
)

// AttachmentRepository persists attachment metadata.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *domain.AttachmentReference) error
	ListByRequest(ctx context.Context, requestID int64) ([]domain.AttachmentReference, error)
	WithTx(tx pgx.Tx) AttachmentRepository
}

type attachmentRepository struct {
	db Querier
}

// NewAttachmentRepository constructs repository.
func NewAttachmentRepository(db Querier) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) WithTx(tx pgx.Tx) AttachmentRepository {
	return &attachmentRepository{db: tx}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *domain.AttachmentReference) error {
	const query = `
        INSERT INTO request_attachments (request_id, storage_key, file_name, mime_type, size_bytes, uploaded_by_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		attachment.RequestID,
		attachment.StorageKey,
		attachment.FileName,
		attachment.MimeType,
		attachment.SizeBytes,
		attachment.UploadedByID,
	).Scan(&attachment.ID, &attachment.CreatedAt)
}

func (r *attachmentRepository) ListByRequest(ctx context.Context, requestID int64) ([]domain.AttachmentReference, error) {
	const query = `
        SELECT id, request_id, storage_key, file_name, mime_type, size_bytes, uploaded_by_id, created_at
        FROM request_attachments WHERE request_id=$1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AttachmentReference
	for rows.Next() {
		var attachment domain.AttachmentReference
		if err := rows.Scan(
			&attachment.ID,
			&attachment.RequestID,
			&attachment.StorageKey,
			&attachment.FileName,
			&attachment.MimeType,
			&attachment.SizeBytes,
			&attachment.UploadedByID,
			&attachment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, attachment)
	}
	return result, rows.Err()
}
