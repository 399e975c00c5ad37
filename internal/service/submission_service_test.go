package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sfrp-tup/helpline/internal/domain"
	"github.com/sfrp-tup/helpline/internal/events"
	apperrors "github.com/sfrp-tup/helpline/pkg/util"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	last *fakeTx
}

func (d *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	d.last = &fakeTx{}
	return d.last, nil
}

type submissionFixture struct {
	svc         *SubmissionService
	db          *fakeDB
	requests    *fakeRequestRepo
	attachments *fakeAttachmentRepo
	updates     *fakeComplaintUpdateRepo
	recorder    *eventRecorder
}

func newSubmissionFixture(t *testing.T) *submissionFixture {
	t.Helper()
	categories := newFakeCategoryRepo(
		domain.Category{ID: 1, RequestType: domain.RequestTypeComplaint, Name: "Facilities"},
		domain.Category{ID: 2, RequestType: domain.RequestTypeInquiry, Name: "Enrollment"},
	)
	db := &fakeDB{}
	requests := newFakeRequestRepo()
	attachments := &fakeAttachmentRepo{}
	updates := &fakeComplaintUpdateRepo{}
	dispatcher := events.NewInMemoryDispatcher()
	recorder := &eventRecorder{}
	dispatcher.Subscribe(events.EventRequestSubmitted, recorder.record)

	svc := NewSubmissionService(db, requests, attachments, updates, NewFormValidator(categories), dispatcher, zap.NewNop())
	return &submissionFixture{
		svc:         svc,
		db:          db,
		requests:    requests,
		attachments: attachments,
		updates:     updates,
		recorder:    recorder,
	}
}

func submissionComplaintForm() UnifiedRequestForm {
	categoryID := int64(1)
	return UnifiedRequestForm{
		RequestType:            "complaint",
		Subject:                "Leaking ceiling in Room 204",
		Description:            "Water drips onto desks whenever it rains.",
		ComplaintCategoryID:    &categoryID,
		PrivacyPolicyAgreement: true,
	}
}

func TestSubmitAuthenticatedComplaint(t *testing.T) {
	fx := newSubmissionFixture(t)
	caller := &domain.User{ID: 7, Name: "Dana Reyes", Email: "dana@example.edu", IsActive: true}

	files := []AttachmentInput{{
		StorageKey: "uploads/2026/ceiling.jpg",
		FileName:   "ceiling.jpg",
		MimeType:   "image/jpeg",
		SizeBytes:  52411,
	}}
	req, err := fx.svc.Submit(context.Background(), caller, submissionComplaintForm(), files)
	require.NoError(t, err)
	require.NotNil(t, req)

	assert.NotZero(t, req.ID)
	require.NotNil(t, req.SubmittedByID)
	assert.Equal(t, int64(7), *req.SubmittedByID)
	assert.Equal(t, domain.StatusNew, req.Status)
	require.NotNil(t, fx.db.last)
	assert.True(t, fx.db.last.committed)

	stored, err := fx.attachments.ListByRequest(context.Background(), req.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.NotNil(t, stored[0].UploadedByID)
	assert.Equal(t, int64(7), *stored[0].UploadedByID)

	published := fx.recorder.all()
	require.Len(t, published, 1)
	payload, ok := published[0].Payload.(events.RequestSubmittedPayload)
	require.True(t, ok)
	assert.Equal(t, "Leaking ceiling in Room 204", payload.Subject)
	assert.Equal(t, "dana@example.edu", payload.SubmitterEmail)
	assert.False(t, payload.Anonymous)
}

func TestSubmitAnonymousDoesNotLinkAttachments(t *testing.T) {
	fx := newSubmissionFixture(t)
	categoryID := int64(1)
	form := UnifiedRequestForm{
		RequestType:            "complaint",
		Subject:                "Harassment near the gym",
		Description:            "Happened twice this week after evening classes.",
		ComplaintCategoryID:    &categoryID,
		ReportAnonymously:      true,
		AnonymousEmail:         "tipster@example.com",
		PrivacyPolicyAgreement: true,
	}

	files := []AttachmentInput{{StorageKey: "uploads/2026/note.pdf", FileName: "note.pdf", MimeType: "application/pdf", SizeBytes: 1024}}
	req, err := fx.svc.Submit(context.Background(), nil, form, files)
	require.NoError(t, err)
	assert.Nil(t, req.SubmittedByID)

	stored, err := fx.attachments.ListByRequest(context.Background(), req.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Nil(t, stored[0].UploadedByID)

	published := fx.recorder.all()
	require.Len(t, published, 1)
	payload := published[0].Payload.(events.RequestSubmittedPayload)
	assert.True(t, payload.Anonymous)
	assert.Equal(t, "tipster@example.com", payload.SubmitterEmail)
}

func TestSubmitValidationFailureWritesNothing(t *testing.T) {
	fx := newSubmissionFixture(t)

	form := submissionComplaintForm()
	// Unauthenticated without opting into anonymity.
	_, err := fx.svc.Submit(context.Background(), nil, form, nil)
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)
	assert.Contains(t, domainErr.Details, apperrors.NonFieldErrors)

	assert.Nil(t, fx.db.last)
	all, listErr := fx.requests.ListAll(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, all)
	assert.Empty(t, fx.recorder.all())
}

func TestGetMineHidesForeignRequests(t *testing.T) {
	fx := newSubmissionFixture(t)
	owner := int64(3)
	fx.requests.add(domain.Request{
		ID:            50,
		Type:          domain.RequestTypeInquiry,
		SubmittedByID: &owner,
		Subject:       "Scholarship deadline",
		Status:        domain.StatusNew,
	})

	caller := &domain.User{ID: 7, Name: "Dana Reyes", IsActive: true}
	_, err := fx.svc.GetMine(context.Background(), caller, domain.RequestTypeInquiry, 50)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperrors.ToDomainError(err).HTTPStatus)
}

func TestGetMineReturnsOnlyPublicComplaintUpdates(t *testing.T) {
	fx := newSubmissionFixture(t)
	owner := int64(7)
	fx.requests.add(domain.Request{
		ID:            60,
		Type:          domain.RequestTypeComplaint,
		SubmittedByID: &owner,
		Subject:       "Broken projector",
		Status:        domain.StatusInProgress,
	})
	require.NoError(t, fx.updates.Create(context.Background(), &domain.ComplaintUpdate{
		ComplaintID: 60,
		Message:     "We are waiting on a replacement bulb.",
		IsPublic:    true,
		UpdateType:  domain.UpdateTypeStatusChange,
	}))
	require.NoError(t, fx.updates.Create(context.Background(), &domain.ComplaintUpdate{
		ComplaintID: 60,
		Message:     "Vendor quote attached internally.",
		IsPublic:    false,
		UpdateType:  domain.UpdateTypeStatusChange,
	}))

	caller := &domain.User{ID: 7, Name: "Dana Reyes", IsActive: true}
	detail, err := fx.svc.GetMine(context.Background(), caller, domain.RequestTypeComplaint, 60)
	require.NoError(t, err)
	require.Len(t, detail.Updates, 1)
	assert.True(t, detail.Updates[0].IsPublic)
	assert.Equal(t, "We are waiting on a replacement bulb.", detail.Updates[0].Message)
}
