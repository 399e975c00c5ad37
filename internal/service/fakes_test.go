package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sfrp-tup/helpline/internal/domain"
	"github.com/sfrp-tup/helpline/internal/mail"
	"github.com/sfrp-tup/helpline/internal/repository"
)

type fakeRequestRepo struct {
	mu     sync.Mutex
	items  map[int64]domain.Request
	nextID int64
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{items: make(map[int64]domain.Request), nextID: 1}
}

func (r *fakeRequestRepo) add(req domain.Request) domain.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.ID == 0 {
		req.ID = r.nextID
		r.nextID++
	} else if req.ID >= r.nextID {
		r.nextID = req.ID + 1
	}
	r.items[req.ID] = req
	return req
}

func (r *fakeRequestRepo) Create(ctx context.Context, req *domain.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.ID = r.nextID
	r.nextID++
	now := time.Now()
	req.SubmittedAt = now
	req.UpdatedAt = now
	r.items[req.ID] = *req
	return nil
}

func (r *fakeRequestRepo) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := req
	return &copied, nil
}

func (r *fakeRequestRepo) GetByTypeAndID(ctx context.Context, t domain.RequestType, id int64) (*domain.Request, error) {
	req, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Type != t {
		return nil, pgx.ErrNoRows
	}
	return req, nil
}

func (r *fakeRequestRepo) ListAll(ctx context.Context) ([]domain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Request, 0, len(r.items))
	for _, req := range r.items {
		result = append(result, req)
	}
	return result, nil
}

func (r *fakeRequestRepo) ListBySubmitter(ctx context.Context, userID int64, filter repository.SubmitterFilter) ([]domain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Request
	for _, req := range r.items {
		if req.SubmittedByID == nil || *req.SubmittedByID != userID {
			continue
		}
		if filter.Type != nil && req.Type != *filter.Type {
			continue
		}
		result = append(result, req)
	}
	return result, nil
}

func (r *fakeRequestRepo) ListStale(ctx context.Context, statuses []domain.RequestStatus, updatedBefore time.Time) ([]domain.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Request
	for _, req := range r.items {
		if !req.UpdatedAt.Before(updatedBefore) {
			continue
		}
		for _, status := range statuses {
			if req.Status == status {
				result = append(result, req)
				break
			}
		}
	}
	return result, nil
}

func (r *fakeRequestRepo) UpdateWorkflow(ctx context.Context, req *domain.Request, expectedUpdatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[req.ID]
	if !ok || !stored.UpdatedAt.Equal(expectedUpdatedAt) {
		return repository.ErrStaleRow
	}
	req.UpdatedAt = time.Now()
	r.items[req.ID] = *req
	return nil
}

func (r *fakeRequestRepo) WithTx(tx pgx.Tx) repository.RequestRepository { return r }

type fakeAttachmentRepo struct {
	items []domain.AttachmentReference
}

func (r *fakeAttachmentRepo) Create(ctx context.Context, attachment *domain.AttachmentReference) error {
	attachment.ID = int64(len(r.items) + 1)
	attachment.CreatedAt = time.Now()
	r.items = append(r.items, *attachment)
	return nil
}

func (r *fakeAttachmentRepo) ListByRequest(ctx context.Context, requestID int64) ([]domain.AttachmentReference, error) {
	var result []domain.AttachmentReference
	for _, attachment := range r.items {
		if attachment.RequestID == requestID {
			result = append(result, attachment)
		}
	}
	return result, nil
}

func (r *fakeAttachmentRepo) WithTx(tx pgx.Tx) repository.AttachmentRepository { return r }

type fakeCategoryRepo struct {
	items map[int64]domain.Category
}

func newFakeCategoryRepo(categories ...domain.Category) *fakeCategoryRepo {
	repo := &fakeCategoryRepo{items: make(map[int64]domain.Category)}
	for _, category := range categories {
		repo.items[category.ID] = category
	}
	return repo
}

func (r *fakeCategoryRepo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	category, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &category, nil
}

func (r *fakeCategoryRepo) ListByType(ctx context.Context, t domain.RequestType) ([]domain.Category, error) {
	var result []domain.Category
	for _, category := range r.items {
		if category.RequestType == t {
			result = append(result, category)
		}
	}
	return result, nil
}

type fakeUserRepo struct {
	items  map[int64]domain.User
	nextID int64
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{items: make(map[int64]domain.User), nextID: 1}
	for _, user := range users {
		repo.items[user.ID] = user
		if user.ID >= repo.nextID {
			repo.nextID = user.ID + 1
		}
	}
	return repo
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	user.ID = r.nextID
	r.nextID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.items[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range r.items {
		if user.Email == email {
			found := user
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListActiveStaff(ctx context.Context) ([]domain.User, error) {
	var result []domain.User
	for _, user := range r.items {
		if user.IsStaff && user.IsActive {
			result = append(result, user)
		}
	}
	return result, nil
}

type fakeComplaintUpdateRepo struct {
	entries []domain.ComplaintUpdate
}

func (r *fakeComplaintUpdateRepo) Create(ctx context.Context, update *domain.ComplaintUpdate) error {
	update.ID = int64(len(r.entries) + 1)
	update.CreatedAt = time.Now()
	r.entries = append(r.entries, *update)
	return nil
}

func (r *fakeComplaintUpdateRepo) ListByComplaint(ctx context.Context, complaintID int64, publicOnly bool) ([]domain.ComplaintUpdate, error) {
	var result []domain.ComplaintUpdate
	for _, entry := range r.entries {
		if entry.ComplaintID != complaintID {
			continue
		}
		if publicOnly && !entry.IsPublic {
			continue
		}
		result = append(result, entry)
	}
	return result, nil
}

type fakeOverdueLogRepo struct {
	entries map[int64]domain.OverdueNotificationLog
}

func newFakeOverdueLogRepo() *fakeOverdueLogRepo {
	return &fakeOverdueLogRepo{entries: make(map[int64]domain.OverdueNotificationLog)}
}

func (r *fakeOverdueLogRepo) Latest(ctx context.Context, requestID int64) (*domain.OverdueNotificationLog, error) {
	log, ok := r.entries[requestID]
	if !ok {
		return nil, nil
	}
	return &log, nil
}

func (r *fakeOverdueLogRepo) Upsert(ctx context.Context, requestType domain.RequestType, requestID int64) error {
	r.entries[requestID] = domain.OverdueNotificationLog{
		ID:          int64(len(r.entries) + 1),
		RequestID:   requestID,
		RequestType: requestType,
		NotifiedAt:  time.Now(),
	}
	return nil
}

type recordingSender struct {
	mu       sync.Mutex
	messages []mail.Message
}

func (s *recordingSender) Send(msg mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

func (s *recordingSender) sent() []mail.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mail.Message{}, s.messages...)
}
