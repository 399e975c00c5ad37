package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sfrp-tup/helpline/internal/api/dto"
	"github.com/sfrp-tup/helpline/internal/auth"
	"github.com/sfrp-tup/helpline/internal/domain"
	"github.com/sfrp-tup/helpline/internal/service"
	apperrors "github.com/sfrp-tup/helpline/pkg/util"
)

// DashboardHandler serves the staff triage endpoints.
type DashboardHandler struct {
	dashboard *service.DashboardService
	workflow  *service.WorkflowService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboard *service.DashboardService, workflow *service.WorkflowService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, workflow: workflow}
}

// ListRequests GET /api/dashboard/requests.
func (h *DashboardHandler) ListRequests(c *fiber.Ctx) error {
	filter, err := parseDashboardQuery(c)
	if err != nil {
		return err
	}
	list, err := h.dashboard.ListRequests(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.RequestSummary, 0, len(list))
	for i := range list {
		items = append(items, requestSummary(&list[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Stats GET /api/dashboard/stats.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.dashboard.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// GetRequest GET /api/dashboard/requests/:type/:id.
func (h *DashboardHandler) GetRequest(c *fiber.Ctx) error {
	t, id, err := parseTypeAndID(c)
	if err != nil {
		return err
	}
	detail, err := h.dashboard.GetDetail(c.UserContext(), t, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestDetail(detail.Request, detail.Attachments, detail.Updates)})
}

// UpdateStatus POST /api/dashboard/requests/:type/:id/status.
func (h *DashboardHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, _ := auth.UserFromContext(c)
	t, id, err := parseTypeAndID(c)
	if err != nil {
		return err
	}
	var payload dto.UpdateStatusPayload
	if err := c.BodyParser(&payload); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if payload.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	req, err := h.workflow.UpdateStatus(c.UserContext(), actor, t, id, service.StatusChangeInput{
		NewStatus:         domain.RequestStatus(payload.Status),
		Resolution:        payload.Resolution,
		ExpectedUpdatedAt: payload.UpdatedAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestSummary(req)})
}

// UpdateAssignment POST /api/dashboard/requests/:type/:id/assignment.
func (h *DashboardHandler) UpdateAssignment(c *fiber.Ctx) error {
	actor, _ := auth.UserFromContext(c)
	t, id, err := parseTypeAndID(c)
	if err != nil {
		return err
	}
	var payload dto.UpdateAssignmentPayload
	if err := c.BodyParser(&payload); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	req, changed, err := h.workflow.UpdateAssignment(c.UserContext(), actor, t, id, service.AssignmentChangeInput{
		AssigneeID:        payload.AssignedTo,
		ExpectedUpdatedAt: payload.UpdatedAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestSummary(req), "changed": changed})
}

func parseDashboardQuery(c *fiber.Ctx) (service.DashboardFilter, error) {
	filter := service.DashboardFilter{Query: c.Query("q")}

	if typeStr := c.Query("request_type"); typeStr != "" {
		t := domain.RequestType(typeStr)
		if !t.Valid() {
			return filter, apperrors.NewValidationError("unknown request type", nil)
		}
		filter.Type = &t
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.RequestStatus(statusStr)
		filter.Status = &status
	}
	if c.Query("show_unassigned") == "true" {
		filter.ShowUnassigned = true
	} else if assignedStr := c.Query("assigned_to"); assignedStr != "" {
		assigned, err := strconv.ParseInt(assignedStr, 10, 64)
		if err != nil {
			return filter, apperrors.NewValidationError("invalid assigned_to", nil)
		}
		filter.AssignedToID = &assigned
	}
	if after := parseDate(c.Query("submitted_after")); after != nil {
		filter.SubmittedAfter = after
	}
	if before := parseDate(c.Query("submitted_before")); before != nil {
		filter.SubmittedBefore = before
	}
	return filter, nil
}

func parseDate(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", val, time.Local)
	if err != nil {
		return nil
	}
	return &t
}
