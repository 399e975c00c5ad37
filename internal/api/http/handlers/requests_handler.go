package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sfrp-tup/helpline/internal/api/dto"
	"github.com/sfrp-tup/helpline/internal/auth"
	"github.com/sfrp-tup/helpline/internal/domain"
	"github.com/sfrp-tup/helpline/internal/repository"
	"github.com/sfrp-tup/helpline/internal/service"
	apperrors "github.com/sfrp-tup/helpline/pkg/util"
)

// RequestsHandler manages the submitter-facing endpoints: the unified
// submission entry point and "my requests" views.
type RequestsHandler struct {
	submissions *service.SubmissionService
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(submissions *service.SubmissionService) *RequestsHandler {
	return &RequestsHandler{submissions: submissions}
}

// Submit POST /api/requests. Works for both authenticated and anonymous
// callers; the form rules decide which combinations are allowed.
func (h *RequestsHandler) Submit(c *fiber.Ctx) error {
	var payload dto.SubmitRequestPayload
	if err := c.BodyParser(&payload); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	caller, _ := auth.UserFromContext(c)

	form := service.UnifiedRequestForm{
		RequestType:            payload.RequestType,
		Subject:                payload.Subject,
		Description:            payload.Description,
		Question:               payload.Question,
		Location:               payload.Location,
		ComplaintCategoryID:    payload.ComplaintCategoryID,
		ServiceTypeID:          payload.ServiceTypeID,
		InquiryCategoryID:      payload.InquiryCategoryID,
		EmergencyTypeID:        payload.EmergencyTypeID,
		Priority:               payload.Priority,
		ReportAnonymously:      payload.ReportAnonymously,
		AnonymousFullName:      payload.AnonymousFullName,
		AnonymousEmail:         payload.AnonymousEmail,
		AnonymousPhone:         payload.AnonymousPhone,
		PrivacyPolicyAgreement: payload.PrivacyPolicyAgreement,
	}

	files := make([]service.AttachmentInput, 0, len(payload.Attachments))
	for _, att := range payload.Attachments {
		files = append(files, service.AttachmentInput{
			StorageKey: att.StorageKey,
			FileName:   att.FileName,
			MimeType:   att.MimeType,
			SizeBytes:  att.SizeBytes,
		})
	}

	req, err := h.submissions.Submit(c.UserContext(), caller, form, files)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": requestSummary(req)})
}

// ListMine GET /api/requests/mine.
func (h *RequestsHandler) ListMine(c *fiber.Ctx) error {
	caller, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}

	filter := repository.SubmitterFilter{}
	if typeStr := c.Query("request_type"); typeStr != "" {
		t := domain.RequestType(typeStr)
		if !t.Valid() {
			return apperrors.NewValidationError("unknown request type", nil)
		}
		filter.Type = &t
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.RequestStatus(strings.TrimSpace(part)))
		}
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize

	list, err := h.submissions.ListMine(c.UserContext(), caller, filter)
	if err != nil {
		return err
	}
	items := make([]dto.RequestSummary, 0, len(list))
	for i := range list {
		items = append(items, requestSummary(&list[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetMine GET /api/requests/mine/:type/:id.
func (h *RequestsHandler) GetMine(c *fiber.Ctx) error {
	caller, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	t, id, err := parseTypeAndID(c)
	if err != nil {
		return err
	}

	detail, err := h.submissions.GetMine(c.UserContext(), caller, t, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestDetail(detail.Request, detail.Attachments, detail.Updates)})
}

// parseTypeAndID resolves the :type/:id path segments. The segments
// address a resource, so anything outside the known kinds or not a
// positive id is a missing resource, not a bad payload.
func parseTypeAndID(c *fiber.Ctx) (domain.RequestType, int64, error) {
	t := domain.RequestType(c.Params("type"))
	if !t.Valid() {
		return "", 0, apperrors.NewNotFound("request", nil)
	}
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return "", 0, apperrors.NewNotFound("request", nil)
	}
	return t, id, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func requestSummary(req *domain.Request) dto.RequestSummary {
	return dto.RequestSummary{
		ID:           req.ID,
		RequestType:  req.Type,
		Subject:      req.Subject,
		Status:       req.Status,
		Priority:     req.Priority,
		CategoryID:   req.CategoryID,
		AssignedToID: req.AssignedToID,
		Anonymous:    req.IsAnonymous(),
		SubmittedAt:  req.SubmittedAt,
		UpdatedAt:    req.UpdatedAt,
	}
}

func requestDetail(req *domain.Request, files []domain.AttachmentReference, updates []domain.ComplaintUpdate) dto.RequestDetailResponse {
	attachments := make([]dto.AttachmentResponse, 0, len(files))
	for _, att := range files {
		attachments = append(attachments, dto.AttachmentResponse{
			ID:        att.ID,
			FileName:  att.FileName,
			MimeType:  att.MimeType,
			SizeBytes: att.SizeBytes,
		})
	}
	updateResponses := make([]dto.ComplaintUpdateResponse, 0, len(updates))
	for _, update := range updates {
		updateResponses = append(updateResponses, dto.ComplaintUpdateResponse{
			ID:          update.ID,
			UpdatedByID: update.UpdatedByID,
			Message:     update.Message,
			IsPublic:    update.IsPublic,
			UpdateType:  update.UpdateType,
			OldStatus:   update.OldStatus,
			NewStatus:   update.NewStatus,
			CreatedAt:   update.CreatedAt,
		})
	}
	return dto.RequestDetailResponse{
		RequestSummary: requestSummary(req),
		Description:    req.Description,
		Question:       req.Question,
		Location:       req.Location,
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		Resolution:     req.Resolution,
		ResolvedAt:     req.ResolvedAt,
		Attachments:    attachments,
		Updates:        updateResponses,
	}
}
