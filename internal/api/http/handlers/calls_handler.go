package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/call-monitoring-service/internal/api/dto"
	"github.com/spec-kit/call-monitoring-service/internal/auth"
	"github.com/spec-kit/call-monitoring-service/internal/domain"
	"github.com/spec-kit/call-monitoring-service/internal/service"
	apperrors "github.com/spec-kit/call-monitoring-service/pkg/util/errorutil"
)

// CallsHandler manages call endpoints.
type CallsHandler struct {
	calls *service.CallService
}

// NewCallsHandler constructs handler.
func NewCallsHandler(callService *service.CallService) *CallsHandler {
	return &CallsHandler{calls: callService}
}

// Create handles POST /api/calls.
func (h *CallsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateCallRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	call, err := h.calls.Create(c.Context(), principal.User, service.CallCreateInput{
		OperatorID:      req.OperatorID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		Subject:         req.Subject,
		Description:     req.Description,
		Category:        req.Category,
		Priority:        domain.CallPriority(req.Priority),
		Status:          domain.CallStatus(req.Status),
		DurationSeconds: req.DurationSeconds,
		RecordingURL:    req.RecordingURL,
		Notes:           req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCallResponse(call)})
}

// List handles GET /api/calls.
func (h *CallsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	input := service.CallListInput{
		Page:    c.QueryInt("page", 1),
		PerPage: c.QueryInt("per_page", 20),
	}
	if v := c.Query("operator_id"); v != "" {
		input.OperatorID = &v
	}
	if v := c.Query("status"); v != "" {
		status := domain.CallStatus(v)
		input.Status = &status
	}
	if v := c.Query("category"); v != "" {
		input.Category = &v
	}
	if v := c.Query("priority"); v != "" {
		priority := domain.CallPriority(v)
		input.Priority = &priority
	}
	if v := c.Query("date_from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return apperrors.NewValidationError("invalid date_from", nil)
		}
		input.DateFrom = &t
	}
	if v := c.Query("date_to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return apperrors.NewValidationError("invalid date_to", nil)
		}
		input.DateTo = &t
	}

	calls, page, err := h.calls.List(c.Context(), principal.User, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CallListResponse{
		Calls:       dto.NewCallResponses(calls),
		Total:       page.Total,
		Pages:       page.Pages,
		CurrentPage: page.CurrentPage,
	}})
}

// Get handles GET /api/calls/:id.
func (h *CallsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	call, evals, err := h.calls.Get(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CallDetailResponse{
		CallResponse: dto.NewCallResponse(call),
		Evaluations:  dto.NewEvaluationResponses(evals),
	}})
}

// Update handles PUT /api/calls/:id.
func (h *CallsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateCallRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	input := service.CallUpdateInput{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		Subject:         req.Subject,
		Description:     req.Description,
		Category:        req.Category,
		DurationSeconds: req.DurationSeconds,
		RecordingURL:    req.RecordingURL,
		Notes:           req.Notes,
	}
	if req.Priority != nil {
		priority := domain.CallPriority(*req.Priority)
		input.Priority = &priority
	}
	if req.Status != nil {
		status := domain.CallStatus(*req.Status)
		input.Status = &status
	}

	call, err := h.calls.Update(c.Context(), principal.User, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCallResponse(call)})
}

// Delete handles DELETE /api/calls/:id.
func (h *CallsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.calls.Delete(c.Context(), principal.User, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
