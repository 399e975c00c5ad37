package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/sfrp-tup/helpline/internal/domain"
	"github.com/sfrp-tup/helpline/internal/events"
	"github.com/sfrp-tup/helpline/internal/repository"
	apperrors "github.com/sfrp-tup/helpline/pkg/util"
)

// TxBeginner starts database transactions. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// AttachmentInput carries metadata for a file the client already staged
// in object storage.
type AttachmentInput struct {
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
}

// SubmissionService validates and persists new requests of every type
// through the single unified entry point.
type SubmissionService struct {
	db          TxBeginner
	requests    repository.RequestRepository
	attachments repository.AttachmentRepository
	updates     repository.ComplaintUpdateRepository
	validator   *FormValidator
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// NewSubmissionService wires the service.
func NewSubmissionService(
	db TxBeginner,
	requests repository.RequestRepository,
	attachments repository.AttachmentRepository,
	updates repository.ComplaintUpdateRepository,
	validator *FormValidator,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *SubmissionService {
	return &SubmissionService{
		db:          db,
		requests:    requests,
		attachments: attachments,
		updates:     updates,
		validator:   validator,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// Submit validates the form, writes the request and its attachment rows
// in one transaction, and publishes the submitted event after commit.
// Validation failures come back as a field-keyed DomainError.
func (s *SubmissionService) Submit(ctx context.Context, caller *domain.User, form UnifiedRequestForm, files []AttachmentInput) (*domain.Request, error) {
	req, formErrs, err := s.validator.Validate(ctx, form, caller)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if formErrs != nil {
		details := make(map[string]string, len(formErrs.Fields)+1)
		for field, msg := range formErrs.Fields {
			details[field] = msg
		}
		if formErrs.NonField != "" {
			details[apperrors.NonFieldErrors] = formErrs.NonField
		}
		return nil, apperrors.NewFieldValidationError(details)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	defer tx.Rollback(ctx)

	if err := s.requests.WithTx(tx).Create(ctx, req); err != nil {
		return nil, apperrors.MapError(err)
	}

	attachmentRepo := s.attachments.WithTx(tx)
	for _, file := range files {
		attachment := &domain.AttachmentReference{
			RequestID:  req.ID,
			StorageKey: file.StorageKey,
			FileName:   file.FileName,
			MimeType:   file.MimeType,
			SizeBytes:  file.SizeBytes,
		}
		if caller != nil && req.SubmittedByID != nil {
			uploadedBy := caller.ID
			attachment.UploadedByID = &uploadedBy
		}
		if err := attachmentRepo.Create(ctx, attachment); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("request submitted",
		zap.Int64("request_id", req.ID),
		zap.String("request_type", string(req.Type)),
		zap.Bool("anonymous", req.IsAnonymous()))

	s.publishSubmitted(ctx, req, caller)
	return req, nil
}

func (s *SubmissionService) publishSubmitted(ctx context.Context, req *domain.Request, caller *domain.User) {
	var submitter *domain.User
	if req.SubmittedByID != nil {
		submitter = caller
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:          uuid.NewString(),
		Type:        events.EventRequestSubmitted,
		RequestID:   req.ID,
		RequestType: req.Type,
		ActorID:     req.SubmittedByID,
		Timestamp:   time.Now(),
		Payload: events.RequestSubmittedPayload{
			Subject:        req.Subject,
			Body:           req.Body(),
			SubmitterName:  req.SubmitterName(submitter),
			SubmitterEmail: req.ContactEmail(submitter),
			Anonymous:      req.IsAnonymous(),
		},
	})
}

// ListMine returns the caller's own non-anonymous submissions.
func (s *SubmissionService) ListMine(ctx context.Context, caller *domain.User, filter repository.SubmitterFilter) ([]domain.Request, error) {
	list, err := s.requests.ListBySubmitter(ctx, caller.ID, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// MyRequestDetail is the submitter's view of one request. Complaints
// include only the public part of the audit trail.
type MyRequestDetail struct {
	Request     *domain.Request
	Attachments []domain.AttachmentReference
	Updates     []domain.ComplaintUpdate
}

// GetMine fetches one of the caller's submissions, hiding rows that
// belong to anyone else.
func (s *SubmissionService) GetMine(ctx context.Context, caller *domain.User, t domain.RequestType, id int64) (*MyRequestDetail, error) {
	req, err := s.requests.GetByTypeAndID(ctx, t, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if req.SubmittedByID == nil || *req.SubmittedByID != caller.ID {
		return nil, apperrors.NewNotFound("request", nil)
	}
	files, err := s.attachments.ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	detail := &MyRequestDetail{Request: req, Attachments: files}
	if req.Type == domain.RequestTypeComplaint {
		updates, err := s.updates.ListByComplaint(ctx, req.ID, true)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		detail.Updates = updates
	}
	return detail, nil
}
