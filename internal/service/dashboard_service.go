package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sfrp-tup/helpline/internal/domain"
	"github.com/sfrp-tup/helpline/internal/repository"
	apperrors "github.com/sfrp-tup/helpline/pkg/util"
)

// DashboardFilter narrows the combined staff listing. Zero values mean
// "no restriction" for every field.
type DashboardFilter struct {
	Type *domain.RequestType
	// Query matches the numeric ID exactly, or the subject/body text
	// case-insensitively.
	Query          string
	Status         *domain.RequestStatus
	AssignedToID   *int64
	ShowUnassigned bool
	// Date bounds are inclusive calendar days in the server timezone.
	SubmittedAfter  *time.Time
	SubmittedBefore *time.Time
}

// DashboardStats aggregates counts for the staff overview cards.
type DashboardStats struct {
	Total         int                            `json:"total"`
	Open          int                            `json:"open"`
	Unassigned    int                            `json:"unassigned"`
	NewToday      int                            `json:"new_today"`
	ResolvedToday int                            `json:"resolved_today"`
	ByType        map[domain.RequestType]int     `json:"by_type"`
	ByStatus      map[domain.RequestStatus]int   `json:"by_status"`
	ByPriority    map[domain.RequestPriority]int `json:"by_priority"`
}

// RequestDetail is the staff view of one request with its attachments
// and, for complaints, the full audit trail.
type RequestDetail struct {
	Request     *domain.Request
	Attachments []domain.AttachmentReference
	Updates     []domain.ComplaintUpdate
}

// DashboardService serves the combined staff listing across all request
// kinds. Filtering and aggregation happen in memory over the full set,
// matching the dashboard's all-types-at-once view.
type DashboardService struct {
	requests    repository.RequestRepository
	attachments repository.AttachmentRepository
	updates     repository.ComplaintUpdateRepository
}

// NewDashboardService wires the service.
func NewDashboardService(
	requests repository.RequestRepository,
	attachments repository.AttachmentRepository,
	updates repository.ComplaintUpdateRepository,
) *DashboardService {
	return &DashboardService{requests: requests, attachments: attachments, updates: updates}
}

// ListRequests returns every request matching the filter, newest first.
func (s *DashboardService) ListRequests(ctx context.Context, filter DashboardFilter) ([]domain.Request, error) {
	all, err := s.requests.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	result := make([]domain.Request, 0, len(all))
	for _, req := range all {
		if filter.matches(&req) {
			result = append(result, req)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SubmittedAt.After(result[j].SubmittedAt)
	})
	return result, nil
}

func (f DashboardFilter) matches(req *domain.Request) bool {
	if f.Type != nil && req.Type != *f.Type {
		return false
	}
	if f.Status != nil && req.Status != *f.Status {
		return false
	}
	if f.ShowUnassigned {
		if req.AssignedToID != nil {
			return false
		}
	} else if f.AssignedToID != nil {
		if req.AssignedToID == nil || *req.AssignedToID != *f.AssignedToID {
			return false
		}
	}
	if f.SubmittedAfter != nil && req.SubmittedAt.Before(dayStart(*f.SubmittedAfter)) {
		return false
	}
	if f.SubmittedBefore != nil && !req.SubmittedAt.Before(dayStart(*f.SubmittedBefore).AddDate(0, 0, 1)) {
		return false
	}
	return f.matchesQuery(req)
}

func (f DashboardFilter) matchesQuery(req *domain.Request) bool {
	query := strings.TrimSpace(f.Query)
	if query == "" {
		return true
	}
	if id, err := strconv.ParseInt(query, 10, 64); err == nil && id == req.ID {
		return true
	}
	needle := strings.ToLower(query)
	if strings.Contains(strings.ToLower(req.Subject), needle) {
		return true
	}
	return strings.Contains(strings.ToLower(req.Body()), needle)
}

func dayStart(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// Stats computes the overview counters across every request.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	all, err := s.requests.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	stats := &DashboardStats{
		ByType:     make(map[domain.RequestType]int),
		ByStatus:   make(map[domain.RequestStatus]int),
		ByPriority: make(map[domain.RequestPriority]int),
	}
	today := dayStart(time.Now())
	for _, req := range all {
		stats.Total++
		stats.ByType[req.Type]++
		stats.ByStatus[req.Status]++
		if !req.Status.IsTerminal() {
			stats.Open++
		}
		if req.AssignedToID == nil {
			stats.Unassigned++
		}
		if req.Priority != nil {
			stats.ByPriority[*req.Priority]++
		}
		if !req.SubmittedAt.Before(today) {
			stats.NewToday++
		}
		if req.ResolvedAt != nil && !req.ResolvedAt.Before(today) {
			stats.ResolvedToday++
		}
	}
	return stats, nil
}

// GetDetail loads one request with attachments; complaints also include
// their audit entries.
func (s *DashboardService) GetDetail(ctx context.Context, t domain.RequestType, id int64) (*RequestDetail, error) {
	req, err := s.requests.GetByTypeAndID(ctx, t, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	files, err := s.attachments.ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	detail := &RequestDetail{Request: req, Attachments: files}
	if req.Type == domain.RequestTypeComplaint {
		updates, err := s.updates.ListByComplaint(ctx, req.ID, false)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		detail.Updates = updates
	}
	return detail, nil
}
