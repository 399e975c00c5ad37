package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sfrp-tup/helpline/internal/config"
	"github.com/sfrp-tup/helpline/internal/domain"
	"github.com/sfrp-tup/helpline/internal/events"
	"github.com/sfrp-tup/helpline/internal/mail"
)

// NotificationService turns domain events into outbound email. Delivery
// is best effort: failures are logged and never propagate back into the
// workflow that triggered them.
type NotificationService struct {
	sender mail.Sender
	cfg    config.NotificationConfig
	logger *zap.Logger
}

// NewNotificationService wires the service.
func NewNotificationService(sender mail.Sender, cfg config.NotificationConfig, logger *zap.Logger) *NotificationService {
	return &NotificationService{sender: sender, cfg: cfg, logger: logger}
}

// Register subscribes the service to every event it handles.
func (s *NotificationService) Register(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventRequestSubmitted, s.handleSubmitted)
	dispatcher.Subscribe(events.EventRequestStatusChanged, s.handleStatusChanged)
	dispatcher.Subscribe(events.EventRequestAssigned, s.handleAssigned)
}

func (s *NotificationService) handleSubmitted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RequestSubmittedPayload)
	if !ok {
		return nil
	}

	req := eventRequest(event, payload.Subject)
	if payload.Body != "" {
		body := payload.Body
		if event.RequestType == domain.RequestTypeInquiry {
			req.Question = &body
		} else {
			req.Description = &body
		}
	}

	if payload.SubmitterEmail != "" {
		msg := mail.SubmissionConfirmation(payload.SubmitterName, req, s.requestURL(event))
		msg.To = []string{payload.SubmitterEmail}
		s.deliver(msg, "submission confirmation", event.RequestID)
	}

	if s.cfg.AdminEmail != "" {
		msg := mail.AdminSubmissionAlert(req, payload.SubmitterName, s.dashboardURL(event))
		msg.To = []string{s.cfg.AdminEmail}
		s.deliver(msg, "admin submission alert", event.RequestID)
	}
	return nil
}

func (s *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.StatusChangedPayload)
	if !ok {
		return nil
	}
	if payload.SubmitterEmail == "" {
		return nil
	}

	req := eventRequest(event, payload.Subject)
	req.Status = payload.NewStatus

	msg := mail.StatusUpdateNotice(payload.SubmitterName, req, payload.OldStatus, payload.NewStatus, s.requestURL(event))
	msg.To = []string{payload.SubmitterEmail}
	s.deliver(msg, "status update notice", event.RequestID)
	return nil
}

func (s *NotificationService) handleAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AssignmentChangedPayload)
	if !ok {
		return nil
	}
	if payload.AssigneeEmail == "" {
		return nil
	}

	req := eventRequest(event, payload.Subject)
	req.Status = payload.Status

	msg := mail.AssignmentNotice(payload.AssigneeName, req, s.dashboardURL(event))
	msg.To = []string{payload.AssigneeEmail}
	s.deliver(msg, "assignment notice", event.RequestID)
	return nil
}

func (s *NotificationService) deliver(msg mail.Message, kind string, requestID int64) {
	if err := s.sender.Send(msg); err != nil {
		s.logger.Error("failed to send "+kind,
			zap.Int64("request_id", requestID),
			zap.Strings("to", msg.To),
			zap.Error(err))
	}
}

// eventRequest rebuilds the minimal request view the templates need from
// the event payload.
func eventRequest(event events.Event, subject string) *domain.Request {
	return &domain.Request{
		ID:      event.RequestID,
		Type:    event.RequestType,
		Subject: subject,
		Status:  domain.StatusNew,
	}
}

func (s *NotificationService) requestURL(event events.Event) string {
	return fmt.Sprintf("%s/requests/mine/%s/%d", s.cfg.BaseURL, event.RequestType, event.RequestID)
}

func (s *NotificationService) dashboardURL(event events.Event) string {
	return fmt.Sprintf("%s/dashboard/requests/%s/%d", s.cfg.BaseURL, event.RequestType, event.RequestID)
}
