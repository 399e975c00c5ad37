package domain

import "time"

// ComplaintUpdateType captures what kind of action an audit entry records.
type ComplaintUpdateType string

const (
	UpdateTypeComment          ComplaintUpdateType = "comment"
	UpdateTypeStatusChange     ComplaintUpdateType = "status_change"
	UpdateTypeAssignmentChange ComplaintUpdateType = "assignment_change"
	UpdateTypePriorityChange   ComplaintUpdateType = "priority_change"
	UpdateTypeResolution       ComplaintUpdateType = "resolution"
)

// ComplaintUpdate is an immutable audit entry recorded once per admin
// action on a complaint, ordered chronologically. Only complaints carry
// this history; the other kinds do not.
type ComplaintUpdate struct {
	ID              int64
	ComplaintID     int64
	UpdatedByID     *int64
	Message         string
	IsPublic        bool
	UpdateType      ComplaintUpdateType
	OldStatus       *RequestStatus
	NewStatus       *RequestStatus
	OldPriority     *RequestPriority
	NewPriority     *RequestPriority
	OldAssignedToID *int64
	NewAssignedToID *int64
	CreatedAt       time.Time
}
