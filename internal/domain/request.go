package domain

import "time"

// RequestType discriminates the four ticket kinds stored in the
// requests table.
type RequestType string

const (
	RequestTypeComplaint RequestType = "complaint"
	RequestTypeService   RequestType = "service"
	RequestTypeInquiry   RequestType = "inquiry"
	RequestTypeEmergency RequestType = "emergency"
)

// RequestTypes lists all known types in presentation order.
var RequestTypes = []RequestType{
	RequestTypeComplaint,
	RequestTypeService,
	RequestTypeInquiry,
	RequestTypeEmergency,
}

// Valid reports whether the type is one of the four known kinds.
func (t RequestType) Valid() bool {
	switch t {
	case RequestTypeComplaint, RequestTypeService, RequestTypeInquiry, RequestTypeEmergency:
		return true
	}
	return false
}

// DisplayName returns a human readable label for emails and messages.
func (t RequestType) DisplayName() string {
	switch t {
	case RequestTypeComplaint:
		return "Complaint"
	case RequestTypeService:
		return "Service Request"
	case RequestTypeInquiry:
		return "Inquiry"
	case RequestTypeEmergency:
		return "Emergency Report"
	}
	return string(t)
}

// RequestStatus enumerates lifecycle states across all request kinds.
type RequestStatus string

const (
	StatusNew        RequestStatus = "new"
	StatusInProgress RequestStatus = "in_progress"
	StatusResolved   RequestStatus = "resolved"
	StatusCompleted  RequestStatus = "completed"
	StatusClosed     RequestStatus = "closed"
	StatusCancelled  RequestStatus = "cancelled"
	StatusRejected   RequestStatus = "rejected"
)

// statusSets defines the status vocabulary per request kind. Transitions
// between members are deliberately unconstrained; only membership is
// checked when staff set a status.
var statusSets = map[RequestType][]RequestStatus{
	RequestTypeComplaint: {StatusNew, StatusInProgress, StatusResolved, StatusClosed, StatusRejected},
	RequestTypeService:   {StatusNew, StatusInProgress, StatusCompleted, StatusClosed, StatusCancelled},
	RequestTypeInquiry:   {StatusNew, StatusInProgress, StatusResolved, StatusClosed},
	RequestTypeEmergency: {StatusNew, StatusInProgress, StatusResolved, StatusClosed},
}

// StatusesFor returns the valid status set for a request kind.
func StatusesFor(t RequestType) []RequestStatus {
	return statusSets[t]
}

// ValidStatus reports whether status belongs to the kind's status set.
func ValidStatus(t RequestType, status RequestStatus) bool {
	for _, s := range statusSets[t] {
		if s == status {
			return true
		}
	}
	return false
}

// NonTerminalStatuses are the states the overdue scan considers stale.
var NonTerminalStatuses = []RequestStatus{StatusNew, StatusInProgress}

// IsTerminal reports whether a status ends the request lifecycle.
func (s RequestStatus) IsTerminal() bool {
	switch s {
	case StatusResolved, StatusCompleted, StatusClosed, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// MarksResolved reports whether the status should stamp resolved_at.
func (s RequestStatus) MarksResolved() bool {
	return s == StatusResolved || s == StatusCompleted
}

// DisplayName returns a human readable status label.
func (s RequestStatus) DisplayName() string {
	switch s {
	case StatusNew:
		return "New"
	case StatusInProgress:
		return "In Progress"
	case StatusResolved:
		return "Resolved"
	case StatusCompleted:
		return "Completed"
	case StatusClosed:
		return "Closed"
	case StatusCancelled:
		return "Cancelled"
	case StatusRejected:
		return "Rejected"
	}
	return string(s)
}

// RequestPriority applies to complaints and service requests only.
type RequestPriority string

const (
	PriorityLow    RequestPriority = "low"
	PriorityMedium RequestPriority = "medium"
	PriorityHigh   RequestPriority = "high"
	PriorityUrgent RequestPriority = "urgent"
)

// ValidPriority reports whether p is a known priority value.
func ValidPriority(p RequestPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// HasPriority reports whether the kind carries a priority field.
func HasPriority(t RequestType) bool {
	return t == RequestTypeComplaint || t == RequestTypeService
}

// Request is the aggregate for every submitted ticket. Type tells which
// kind the row is; kind-specific fields are nil for other kinds.
type Request struct {
	ID            int64
	Type          RequestType
	SubmittedByID *int64
	FullName      *string
	Email         *string
	Phone         *string
	CategoryID    *int64
	Subject       string
	Description   *string
	Question      *string
	Location      *string
	Status        RequestStatus
	Priority      *RequestPriority
	AssignedToID  *int64
	Resolution    *string
	ResolvedAt    *time.Time
	SubmittedAt   time.Time
	UpdatedAt     time.Time
}

// IsAnonymous reports whether the row is an anonymous submission:
// no linked account and at least one contact field populated.
func (r *Request) IsAnonymous() bool {
	if r.SubmittedByID != nil {
		return false
	}
	return deref(r.FullName) != "" || deref(r.Email) != "" || deref(r.Phone) != ""
}

// ContactEmail returns the address notifications for the submitter
// should go to, or empty when none is known.
func (r *Request) ContactEmail(submitter *User) string {
	if submitter != nil {
		return submitter.Email
	}
	return deref(r.Email)
}

// SubmitterName returns the best available display name for the
// submitter, falling back to a generic salutation.
func (r *Request) SubmitterName(submitter *User) string {
	if submitter != nil && submitter.Name != "" {
		return submitter.Name
	}
	if name := deref(r.FullName); name != "" {
		return name
	}
	return "Valued User"
}

// Body returns the main content field: question for inquiries,
// description for everything else.
func (r *Request) Body() string {
	if r.Type == RequestTypeInquiry {
		return deref(r.Question)
	}
	return deref(r.Description)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
