package dto

import (
	"time"

	"github.com/sfrp-tup/helpline/internal/domain"
)

// SubmitRequestPayload is the unified submission body. The request_type
// field selects which of the kind-specific fields are required.
type SubmitRequestPayload struct {
	RequestType string `json:"request_type"`

	Subject     string `json:"subject"`
	Description string `json:"description"`
	Question    string `json:"question"`
	Location    string `json:"location"`

	ComplaintCategoryID *int64 `json:"complaint_category_id"`
	ServiceTypeID       *int64 `json:"service_type_id"`
	InquiryCategoryID   *int64 `json:"inquiry_category_id"`
	EmergencyTypeID     *int64 `json:"emergency_type_id"`
	Priority            string `json:"priority"`

	ReportAnonymously bool   `json:"report_anonymously"`
	AnonymousFullName string `json:"anonymous_full_name"`
	AnonymousEmail    string `json:"anonymous_email"`
	AnonymousPhone    string `json:"anonymous_phone"`

	PrivacyPolicyAgreement bool `json:"privacy_policy_agreement"`

	Attachments []AttachmentRequest `json:"attachments"`
}

// AttachmentRequest describes a staged upload.
type AttachmentRequest struct {
	StorageKey string `json:"storage_key"`
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
}

// RequestSummary is the listing row shared by the submitter and staff
// views.
type RequestSummary struct {
	ID           int64                   `json:"id"`
	RequestType  domain.RequestType      `json:"request_type"`
	Subject      string                  `json:"subject"`
	Status       domain.RequestStatus    `json:"status"`
	Priority     *domain.RequestPriority `json:"priority,omitempty"`
	CategoryID   *int64                  `json:"category_id,omitempty"`
	AssignedToID *int64                  `json:"assigned_to_id,omitempty"`
	Anonymous    bool                    `json:"anonymous"`
	SubmittedAt  time.Time               `json:"submitted_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

// RequestDetailResponse is the full request view.
type RequestDetailResponse struct {
	RequestSummary
	Description *string                   `json:"description,omitempty"`
	Question    *string                   `json:"question,omitempty"`
	Location    *string                   `json:"location,omitempty"`
	FullName    *string                   `json:"full_name,omitempty"`
	Email       *string                   `json:"email,omitempty"`
	Phone       *string                   `json:"phone,omitempty"`
	Resolution  *string                   `json:"resolution,omitempty"`
	ResolvedAt  *time.Time                `json:"resolved_at,omitempty"`
	Attachments []AttachmentResponse      `json:"attachments"`
	Updates     []ComplaintUpdateResponse `json:"updates,omitempty"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	ID        int64  `json:"id"`
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

// ComplaintUpdateResponse is one audit trail entry.
type ComplaintUpdateResponse struct {
	ID          int64                      `json:"id"`
	UpdatedByID *int64                     `json:"updated_by_id,omitempty"`
	Message     string                     `json:"message"`
	IsPublic    bool                       `json:"is_public"`
	UpdateType  domain.ComplaintUpdateType `json:"update_type"`
	OldStatus   *domain.RequestStatus      `json:"old_status,omitempty"`
	NewStatus   *domain.RequestStatus      `json:"new_status,omitempty"`
	CreatedAt   time.Time                  `json:"created_at"`
}

// UpdateStatusPayload is the staff status change body.
type UpdateStatusPayload struct {
	Status     string     `json:"status"`
	Resolution string     `json:"resolution"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

// UpdateAssignmentPayload is the staff assignment body. A null
// assigned_to unassigns.
type UpdateAssignmentPayload struct {
	AssignedTo *int64     `json:"assigned_to"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

// CategoryResponse is a selectable category option.
type CategoryResponse struct {
	ID          int64              `json:"id"`
	RequestType domain.RequestType `json:"request_type"`
	Name        string             `json:"name"`
	Description *string            `json:"description,omitempty"`
}
