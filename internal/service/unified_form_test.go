package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfrp-tup/helpline/internal/domain"
)

func testValidator() *FormValidator {
	return NewFormValidator(newFakeCategoryRepo(
		domain.Category{ID: 1, RequestType: domain.RequestTypeComplaint, Name: "Facilities"},
		domain.Category{ID: 2, RequestType: domain.RequestTypeService, Name: "Document Request"},
		domain.Category{ID: 3, RequestType: domain.RequestTypeInquiry, Name: "Admissions"},
		domain.Category{ID: 4, RequestType: domain.RequestTypeEmergency, Name: "Medical"},
	))
}

func int64Ptr(v int64) *int64 { return &v }

func validComplaintForm() UnifiedRequestForm {
	return UnifiedRequestForm{
		RequestType:            "complaint",
		Subject:                "Broken chairs in room 204",
		Description:            "Half the chairs are unusable.",
		ComplaintCategoryID:    int64Ptr(1),
		PrivacyPolicyAgreement: true,
	}
}

func activeUser() *domain.User {
	return &domain.User{ID: 7, Name: "Dana Reyes", Email: "dana@example.edu", IsActive: true}
}

func TestValidateRequiresPrivacyAgreement(t *testing.T) {
	form := validComplaintForm()
	form.PrivacyPolicyAgreement = false

	_, formErrs, err := testValidator().Validate(context.Background(), form, activeUser())
	require.NoError(t, err)
	require.NotNil(t, formErrs)
	assert.Contains(t, formErrs.Fields, "privacy_policy_agreement")
}

func TestValidateAnonymityPolicy(t *testing.T) {
	tests := []struct {
		name         string
		caller       *domain.User
		anonymous    bool
		anonEmail    string
		wantNonField bool
		wantField    string
	}{
		{
			name:         "unauthenticated without anonymous flag is rejected",
			caller:       nil,
			anonymous:    false,
			wantNonField: true,
		},
		{
			name:      "unauthenticated anonymous requires email",
			caller:    nil,
			anonymous: true,
			wantField: "anonymous_email",
		},
		{
			name:      "unauthenticated anonymous with bad email is rejected",
			caller:    nil,
			anonymous: true,
			anonEmail: "not-an-address",
			wantField: "anonymous_email",
		},
		{
			name:      "unauthenticated anonymous with email passes",
			caller:    nil,
			anonymous: true,
			anonEmail: "tipster@example.edu",
		},
		{
			name:   "authenticated non-anonymous passes",
			caller: activeUser(),
		},
		{
			name:      "authenticated anonymous passes without email",
			caller:    activeUser(),
			anonymous: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validComplaintForm()
			form.ReportAnonymously = tt.anonymous
			form.AnonymousEmail = tt.anonEmail

			req, formErrs, err := testValidator().Validate(context.Background(), form, tt.caller)
			require.NoError(t, err)

			if tt.wantNonField {
				require.NotNil(t, formErrs)
				assert.NotEmpty(t, formErrs.NonField)
				return
			}
			if tt.wantField != "" {
				require.NotNil(t, formErrs)
				assert.Contains(t, formErrs.Fields, tt.wantField)
				return
			}
			require.Nil(t, formErrs)
			require.NotNil(t, req)
			if tt.anonymous {
				assert.Nil(t, req.SubmittedByID)
			} else {
				require.NotNil(t, req.SubmittedByID)
				assert.Equal(t, tt.caller.ID, *req.SubmittedByID)
			}
		})
	}
}

func TestValidateDiscardsContactFieldsForLinkedSubmissions(t *testing.T) {
	form := validComplaintForm()
	form.AnonymousFullName = "Someone Else"
	form.AnonymousEmail = "other@example.edu"
	form.AnonymousPhone = "555-0101"

	req, formErrs, err := testValidator().Validate(context.Background(), form, activeUser())
	require.NoError(t, err)
	require.Nil(t, formErrs)

	assert.Nil(t, req.FullName)
	assert.Nil(t, req.Email)
	assert.Nil(t, req.Phone)
	require.NotNil(t, req.SubmittedByID)
}

func TestValidatePerTypeRequiredFields(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*UnifiedRequestForm)
		wantField string
	}{
		{
			name: "complaint without category",
			mutate: func(f *UnifiedRequestForm) {
				f.ComplaintCategoryID = nil
			},
			wantField: "complaint_category",
		},
		{
			name: "complaint without description",
			mutate: func(f *UnifiedRequestForm) {
				f.Description = "  "
			},
			wantField: "description",
		},
		{
			name: "service without service type",
			mutate: func(f *UnifiedRequestForm) {
				f.RequestType = "service"
				f.ComplaintCategoryID = nil
			},
			wantField: "service_type",
		},
		{
			name: "inquiry without question",
			mutate: func(f *UnifiedRequestForm) {
				f.RequestType = "inquiry"
				f.ComplaintCategoryID = nil
				f.InquiryCategoryID = int64Ptr(3)
			},
			wantField: "question",
		},
		{
			name: "emergency without location",
			mutate: func(f *UnifiedRequestForm) {
				f.RequestType = "emergency"
				f.ComplaintCategoryID = nil
				f.EmergencyTypeID = int64Ptr(4)
			},
			wantField: "location",
		},
		{
			name: "missing subject",
			mutate: func(f *UnifiedRequestForm) {
				f.Subject = ""
			},
			wantField: "subject",
		},
		{
			name: "unknown request type",
			mutate: func(f *UnifiedRequestForm) {
				f.RequestType = "petition"
			},
			wantField: "request_type",
		},
		{
			name: "category of the wrong kind",
			mutate: func(f *UnifiedRequestForm) {
				f.ComplaintCategoryID = int64Ptr(2)
			},
			wantField: "complaint_category",
		},
		{
			name: "category that does not exist",
			mutate: func(f *UnifiedRequestForm) {
				f.ComplaintCategoryID = int64Ptr(99)
			},
			wantField: "complaint_category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validComplaintForm()
			tt.mutate(&form)

			_, formErrs, err := testValidator().Validate(context.Background(), form, activeUser())
			require.NoError(t, err)
			require.NotNil(t, formErrs)
			assert.Contains(t, formErrs.Fields, tt.wantField)
		})
	}
}

func TestValidateNullsIrrelevantFields(t *testing.T) {
	form := UnifiedRequestForm{
		RequestType:            "inquiry",
		Subject:                "Enrollment schedule",
		Question:               "When does enrollment for next term open?",
		Description:            "this should be dropped",
		Location:               "this too",
		InquiryCategoryID:      int64Ptr(3),
		Priority:               "high",
		PrivacyPolicyAgreement: true,
	}

	req, formErrs, err := testValidator().Validate(context.Background(), form, activeUser())
	require.NoError(t, err)
	require.Nil(t, formErrs)

	require.NotNil(t, req.Question)
	assert.Nil(t, req.Description)
	assert.Nil(t, req.Location)
	assert.Nil(t, req.Priority, "inquiries carry no priority")
	assert.Equal(t, domain.StatusNew, req.Status)
}

func TestValidatePriority(t *testing.T) {
	form := validComplaintForm()
	req, formErrs, err := testValidator().Validate(context.Background(), form, activeUser())
	require.NoError(t, err)
	require.Nil(t, formErrs)
	require.NotNil(t, req.Priority)
	assert.Equal(t, domain.PriorityMedium, *req.Priority, "defaults to medium when omitted")

	form.Priority = "catastrophic"
	_, formErrs, err = testValidator().Validate(context.Background(), form, activeUser())
	require.NoError(t, err)
	require.NotNil(t, formErrs)
	assert.Contains(t, formErrs.Fields, "priority")
}

func TestValidateEmergencyRequiresBothLocationAndDescription(t *testing.T) {
	form := UnifiedRequestForm{
		RequestType:            "emergency",
		Subject:                "Fire in the chemistry lab",
		Location:               "Science building, 3rd floor",
		Description:            "Smoke coming from the storage room.",
		EmergencyTypeID:        int64Ptr(4),
		PrivacyPolicyAgreement: true,
	}

	req, formErrs, err := testValidator().Validate(context.Background(), form, activeUser())
	require.NoError(t, err)
	require.Nil(t, formErrs)
	require.NotNil(t, req.Location)
	require.NotNil(t, req.Description)
	assert.Nil(t, req.Priority)
}
