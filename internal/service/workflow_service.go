package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sfrp-tup/helpline/internal/domain"
	"github.com/sfrp-tup/helpline/internal/events"
	"github.com/sfrp-tup/helpline/internal/repository"
	apperrors "github.com/sfrp-tup/helpline/pkg/util"
)

// WorkflowService applies staff-side lifecycle changes: status moves,
// resolution notes and assignment. Complaints additionally get an audit
// trail entry for every change.
type WorkflowService struct {
	requests   repository.RequestRepository
	updates    repository.ComplaintUpdateRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewWorkflowService wires the service.
func NewWorkflowService(
	requests repository.RequestRepository,
	updates repository.ComplaintUpdateRepository,
	users repository.UserRepository,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *WorkflowService {
	return &WorkflowService{
		requests:   requests,
		updates:    updates,
		users:      users,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// StatusChangeInput describes a staff status update.
type StatusChangeInput struct {
	NewStatus  domain.RequestStatus
	Resolution string
	// ExpectedUpdatedAt is the row version the client last saw. When nil
	// the freshly loaded row wins, so the update cannot be rejected as
	// stale but also cannot clobber an unseen concurrent edit silently.
	ExpectedUpdatedAt *time.Time
}

// UpdateStatus moves a request to a new status from its kind's status
// set, stamping or clearing resolved_at as appropriate.
func (s *WorkflowService) UpdateStatus(ctx context.Context, actor *domain.User, t domain.RequestType, id int64, input StatusChangeInput) (*domain.Request, error) {
	req, err := s.requests.GetByTypeAndID(ctx, t, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if !domain.ValidStatus(t, input.NewStatus) {
		return nil, apperrors.NewFieldValidationError(map[string]string{
			"status": fmt.Sprintf("%q is not a valid status for a %s", input.NewStatus, t.DisplayName()),
		})
	}

	oldStatus := req.Status
	req.Status = input.NewStatus
	if resolution := strings.TrimSpace(input.Resolution); resolution != "" {
		req.Resolution = &resolution
	}

	switch {
	case input.NewStatus.MarksResolved():
		if req.ResolvedAt == nil {
			now := time.Now()
			req.ResolvedAt = &now
		}
	case !input.NewStatus.IsTerminal():
		// Reopened: the previous resolution timestamp no longer applies.
		req.ResolvedAt = nil
	}

	if err := s.persist(ctx, req, input.ExpectedUpdatedAt); err != nil {
		return nil, err
	}

	s.recordComplaintUpdate(ctx, actor, req, &domain.ComplaintUpdate{
		UpdateType: statusUpdateType(input.NewStatus),
		Message:    fmt.Sprintf("Status changed from %s to %s", oldStatus.DisplayName(), input.NewStatus.DisplayName()),
		IsPublic:   true,
		OldStatus:  &oldStatus,
		NewStatus:  &input.NewStatus,
	})

	s.logger.Info("request status updated",
		zap.Int64("request_id", req.ID),
		zap.String("request_type", string(req.Type)),
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(input.NewStatus)))

	if oldStatus != input.NewStatus {
		s.publishStatusChanged(ctx, actor, req, oldStatus)
	}
	return req, nil
}

func statusUpdateType(status domain.RequestStatus) domain.ComplaintUpdateType {
	if status.MarksResolved() {
		return domain.UpdateTypeResolution
	}
	return domain.UpdateTypeStatusChange
}

// AssignmentChangeInput describes a staff assignment update. A nil
// AssigneeID unassigns the request.
type AssignmentChangeInput struct {
	AssigneeID        *int64
	ExpectedUpdatedAt *time.Time
}

// UpdateAssignment sets or clears the assignee. It reports changed=false
// without touching the row when the assignee is already in place, so the
// caller can skip the notification.
func (s *WorkflowService) UpdateAssignment(ctx context.Context, actor *domain.User, t domain.RequestType, id int64, input AssignmentChangeInput) (*domain.Request, bool, error) {
	req, err := s.requests.GetByTypeAndID(ctx, t, id)
	if err != nil {
		return nil, false, apperrors.MapError(err)
	}

	if sameAssignee(req.AssignedToID, input.AssigneeID) {
		return req, false, nil
	}

	var assignee *domain.User
	if input.AssigneeID != nil {
		assignee, err = s.users.GetByID(ctx, *input.AssigneeID)
		if err != nil {
			return nil, false, apperrors.MapError(err)
		}
		if !assignee.IsStaff || !assignee.IsActive {
			return nil, false, apperrors.NewFieldValidationError(map[string]string{
				"assigned_to": "Selected account is not an active staff member.",
			})
		}
	}

	oldAssigneeID := req.AssignedToID
	req.AssignedToID = input.AssigneeID

	if err := s.persist(ctx, req, input.ExpectedUpdatedAt); err != nil {
		return nil, false, err
	}

	message := "Request unassigned"
	if assignee != nil {
		message = fmt.Sprintf("Assigned to %s", assignee.Name)
	}
	s.recordComplaintUpdate(ctx, actor, req, &domain.ComplaintUpdate{
		UpdateType:      domain.UpdateTypeAssignmentChange,
		Message:         message,
		IsPublic:        false,
		OldAssignedToID: oldAssigneeID,
		NewAssignedToID: input.AssigneeID,
	})

	s.logger.Info("request assignment updated",
		zap.Int64("request_id", req.ID),
		zap.String("request_type", string(req.Type)),
		zap.Any("assignee_id", input.AssigneeID))

	if assignee != nil {
		s.publishAssigned(ctx, actor, req, assignee)
	}
	return req, true, nil
}

func sameAssignee(current, next *int64) bool {
	if current == nil || next == nil {
		return current == nil && next == nil
	}
	return *current == *next
}

func (s *WorkflowService) persist(ctx context.Context, req *domain.Request, expected *time.Time) error {
	expectedUpdatedAt := req.UpdatedAt
	if expected != nil {
		expectedUpdatedAt = *expected
	}
	err := s.requests.UpdateWorkflow(ctx, req, expectedUpdatedAt)
	if errors.Is(err, repository.ErrStaleRow) {
		return apperrors.NewConflict("the request was modified by someone else; reload and try again", nil)
	}
	if err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// recordComplaintUpdate writes the audit entry for complaint rows only.
// Audit failures are logged, not surfaced: the workflow change itself
// already committed.
func (s *WorkflowService) recordComplaintUpdate(ctx context.Context, actor *domain.User, req *domain.Request, update *domain.ComplaintUpdate) {
	if req.Type != domain.RequestTypeComplaint {
		return
	}
	update.ComplaintID = req.ID
	if actor != nil {
		actorID := actor.ID
		update.UpdatedByID = &actorID
	}
	if err := s.updates.Create(ctx, update); err != nil {
		s.logger.Error("failed to record complaint update",
			zap.Int64("complaint_id", req.ID),
			zap.Error(err))
	}
}

func (s *WorkflowService) publishStatusChanged(ctx context.Context, actor *domain.User, req *domain.Request, oldStatus domain.RequestStatus) {
	submitter := s.loadSubmitter(ctx, req)
	var actorID *int64
	if actor != nil {
		id := actor.ID
		actorID = &id
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:          uuid.NewString(),
		Type:        events.EventRequestStatusChanged,
		RequestID:   req.ID,
		RequestType: req.Type,
		ActorID:     actorID,
		Timestamp:   time.Now(),
		Payload: events.StatusChangedPayload{
			Subject:        req.Subject,
			OldStatus:      oldStatus,
			NewStatus:      req.Status,
			SubmitterName:  req.SubmitterName(submitter),
			SubmitterEmail: req.ContactEmail(submitter),
		},
	})
}

func (s *WorkflowService) publishAssigned(ctx context.Context, actor *domain.User, req *domain.Request, assignee *domain.User) {
	var actorID *int64
	if actor != nil {
		id := actor.ID
		actorID = &id
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:          uuid.NewString(),
		Type:        events.EventRequestAssigned,
		RequestID:   req.ID,
		RequestType: req.Type,
		ActorID:     actorID,
		Timestamp:   time.Now(),
		Payload: events.AssignmentChangedPayload{
			Subject:       req.Subject,
			Status:        req.Status,
			AssigneeID:    assignee.ID,
			AssigneeName:  assignee.Name,
			AssigneeEmail: assignee.Email,
		},
	})
}

func (s *WorkflowService) loadSubmitter(ctx context.Context, req *domain.Request) *domain.User {
	if req.SubmittedByID == nil {
		return nil
	}
	submitter, err := s.users.GetByID(ctx, *req.SubmittedByID)
	if err != nil {
		s.logger.Warn("failed to load submitter for notification",
			zap.Int64("request_id", req.ID),
			zap.Error(err))
		return nil
	}
	return submitter
}
