package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sfrp-tup/helpline/internal/domain"
	"github.com/sfrp-tup/helpline/internal/repository"
)

// UnifiedRequestForm is the superset of fields accepted by the single
// submission endpoint. Which subset is validated depends on RequestType.
type UnifiedRequestForm struct {
	RequestType string

	Subject     string
	Description string
	Question    string
	Location    string

	ComplaintCategoryID *int64
	ServiceTypeID       *int64
	InquiryCategoryID   *int64
	EmergencyTypeID     *int64
	Priority            string

	ReportAnonymously bool
	AnonymousFullName string
	AnonymousEmail    string
	AnonymousPhone    string

	PrivacyPolicyAgreement bool
}

// FormErrors collects per-field messages plus one optional non-field
// message (the anonymity policy violation).
type FormErrors struct {
	Fields   map[string]string
	NonField string
}

func newFormErrors() *FormErrors {
	return &FormErrors{Fields: make(map[string]string)}
}

// Add records a message for a field, keeping the first one.
func (e *FormErrors) Add(field, msg string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

// Any reports whether validation produced at least one error.
func (e *FormErrors) Any() bool {
	return len(e.Fields) > 0 || e.NonField != ""
}

// FormValidator checks a unified submission form against the rules for
// the selected request type and produces an unsaved request row with
// every irrelevant field nulled out.
type FormValidator struct {
	categories repository.CategoryRepository
}

// NewFormValidator constructs the validator.
func NewFormValidator(categories repository.CategoryRepository) *FormValidator {
	return &FormValidator{categories: categories}
}

const anonymityPolicyMessage = "You must either log in, register, or check 'Report Anonymously' to submit your request."

// Validate returns the normalized request on success, form errors on
// user-correctable input, or an error on repository failure.
func (v *FormValidator) Validate(ctx context.Context, form UnifiedRequestForm, caller *domain.User) (*domain.Request, *FormErrors, error) {
	formErrs := newFormErrors()

	if !form.PrivacyPolicyAgreement {
		formErrs.Add("privacy_policy_agreement", "You must agree to the Privacy Policy to proceed.")
	}

	requestType := domain.RequestType(strings.TrimSpace(form.RequestType))
	if requestType == "" {
		formErrs.Add("request_type", "Please select a request type.")
	} else if !requestType.Valid() {
		formErrs.Add("request_type", "Unknown request type.")
	}

	subject := strings.TrimSpace(form.Subject)
	if subject == "" {
		formErrs.Add("subject", "Subject is required for all request types.")
	}

	req := &domain.Request{
		Type:    requestType,
		Subject: subject,
		Status:  domain.StatusNew,
	}

	v.applyAnonymityPolicy(form, caller, req, formErrs)

	if requestType.Valid() {
		if err := v.applyTypeFields(ctx, form, requestType, req, formErrs); err != nil {
			return nil, nil, err
		}
	}

	if formErrs.Any() {
		return nil, formErrs, nil
	}
	return req, nil, nil
}

// applyAnonymityPolicy resolves the submitter identity. Unauthenticated
// callers must opt into anonymous reporting and leave an email for
// follow-up; authenticated callers who opt in are deliberately not
// linked, and otherwise any typed contact fields are discarded.
func (v *FormValidator) applyAnonymityPolicy(form UnifiedRequestForm, caller *domain.User, req *domain.Request, formErrs *FormErrors) {
	fullName := strings.TrimSpace(form.AnonymousFullName)
	email := strings.TrimSpace(form.AnonymousEmail)
	phone := strings.TrimSpace(form.AnonymousPhone)

	if caller == nil {
		if !form.ReportAnonymously {
			formErrs.NonField = anonymityPolicyMessage
			return
		}
		if email == "" {
			formErrs.Add("anonymous_email", "An email address is required for follow-up if reporting anonymously.")
		} else if _, err := mail.ParseAddress(email); err != nil {
			formErrs.Add("anonymous_email", "Enter a valid email address.")
		}
		setContactFields(req, fullName, email, phone)
		return
	}

	if form.ReportAnonymously {
		// Authenticated caller chose anonymity: do not link the account.
		if email != "" {
			if _, err := mail.ParseAddress(email); err != nil {
				formErrs.Add("anonymous_email", "Enter a valid email address.")
			}
		}
		setContactFields(req, fullName, email, phone)
		return
	}

	id := caller.ID
	req.SubmittedByID = &id
}

func setContactFields(req *domain.Request, fullName, email, phone string) {
	if fullName != "" {
		req.FullName = &fullName
	}
	if email != "" {
		req.Email = &email
	}
	if phone != "" {
		req.Phone = &phone
	}
}

// applyTypeFields validates the subset relevant to the selected type and
// leaves every other kind-specific field nil, so downstream code never
// has to re-check the type.
func (v *FormValidator) applyTypeFields(ctx context.Context, form UnifiedRequestForm, t domain.RequestType, req *domain.Request, formErrs *FormErrors) error {
	description := strings.TrimSpace(form.Description)
	question := strings.TrimSpace(form.Question)
	location := strings.TrimSpace(form.Location)

	switch t {
	case domain.RequestTypeComplaint:
		if err := v.requireCategory(ctx, form.ComplaintCategoryID, t, "complaint_category", "Complaint category is required.", req, formErrs); err != nil {
			return err
		}
		if description == "" {
			formErrs.Add("description", "Description is required for complaints.")
		} else {
			req.Description = &description
		}
		v.applyPriority(form, req, formErrs)

	case domain.RequestTypeService:
		if err := v.requireCategory(ctx, form.ServiceTypeID, t, "service_type", "Service type is required.", req, formErrs); err != nil {
			return err
		}
		if description == "" {
			formErrs.Add("description", "Description is required for service requests.")
		} else {
			req.Description = &description
		}
		v.applyPriority(form, req, formErrs)

	case domain.RequestTypeInquiry:
		if err := v.requireCategory(ctx, form.InquiryCategoryID, t, "inquiry_category", "Inquiry category is required.", req, formErrs); err != nil {
			return err
		}
		if question == "" {
			formErrs.Add("question", "Your question is required.")
		} else {
			req.Question = &question
		}

	case domain.RequestTypeEmergency:
		if err := v.requireCategory(ctx, form.EmergencyTypeID, t, "emergency_type", "Emergency type is required.", req, formErrs); err != nil {
			return err
		}
		if location == "" {
			formErrs.Add("location", "Location is required for emergency reports.")
		} else {
			req.Location = &location
		}
		if description == "" {
			formErrs.Add("description", "Description is required for emergency reports.")
		} else {
			req.Description = &description
		}
	}
	return nil
}

func (v *FormValidator) applyPriority(form UnifiedRequestForm, req *domain.Request, formErrs *FormErrors) {
	priority := domain.RequestPriority(strings.TrimSpace(form.Priority))
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(priority) {
		formErrs.Add("priority", "Unknown priority level.")
		return
	}
	req.Priority = &priority
}

func (v *FormValidator) requireCategory(ctx context.Context, id *int64, t domain.RequestType, field, requiredMsg string, req *domain.Request, formErrs *FormErrors) error {
	if id == nil {
		formErrs.Add(field, requiredMsg)
		return nil
	}
	category, err := v.categories.GetByID(ctx, *id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			formErrs.Add(field, "Select a valid choice.")
			return nil
		}
		return err
	}
	if category.RequestType != t {
		formErrs.Add(field, "Select a valid choice.")
		return nil
	}
	req.CategoryID = id
	return nil
}
