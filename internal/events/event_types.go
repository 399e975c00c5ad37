package events

import (
	"time"

	"github.com/sfrp-tup/helpline/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestSubmitted     EventType = "request_submitted"
	EventRequestStatusChanged EventType = "request_status_changed"
	EventRequestAssigned      EventType = "request_assigned"
)

// Event represents a domain event emitted by services. Payloads carry
// everything the notification layer needs so it never re-queries rows
// that may have moved on.
type Event struct {
	ID          string             `json:"id"`
	Type        EventType          `json:"type"`
	RequestID   int64              `json:"request_id"`
	RequestType domain.RequestType `json:"request_type"`
	ActorID     *int64             `json:"actor_id,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
	Payload     interface{}        `json:"payload"`
}

// RequestSubmittedPayload payload.
type RequestSubmittedPayload struct {
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	SubmitterName  string `json:"submitter_name"`
	SubmitterEmail string `json:"submitter_email,omitempty"`
	Anonymous      bool   `json:"anonymous"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	Subject        string               `json:"subject"`
	OldStatus      domain.RequestStatus `json:"old_status"`
	NewStatus      domain.RequestStatus `json:"new_status"`
	SubmitterName  string               `json:"submitter_name"`
	SubmitterEmail string               `json:"submitter_email,omitempty"`
}

// AssignmentChangedPayload payload.
type AssignmentChangedPayload struct {
	Subject       string               `json:"subject"`
	Status        domain.RequestStatus `json:"status"`
	AssigneeID    int64                `json:"assignee_id"`
	AssigneeName  string               `json:"assignee_name"`
	AssigneeEmail string               `json:"assignee_email,omitempty"`
}
