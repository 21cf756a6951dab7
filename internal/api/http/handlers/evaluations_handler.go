package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/call-monitoring-service/internal/api/dto"
	"github.com/spec-kit/call-monitoring-service/internal/auth"
	"github.com/spec-kit/call-monitoring-service/internal/service"
	apperrors "github.com/spec-kit/call-monitoring-service/pkg/util/errorutil"
)

// EvaluationsHandler manages evaluation endpoints.
type EvaluationsHandler struct {
	evaluations *service.EvaluationService
}

// NewEvaluationsHandler constructs handler.
func NewEvaluationsHandler(evaluationService *service.EvaluationService) *EvaluationsHandler {
	return &EvaluationsHandler{evaluations: evaluationService}
}

// Create handles POST /api/evaluations.
func (h *EvaluationsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateEvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	eval, err := h.evaluations.Create(c.Context(), principal.User, service.EvaluationCreateInput{
		CallID: req.CallID,
		Scores: service.SubScores{
			Greeting:       req.GreetingScore,
			Communication:  req.CommunicationScore,
			ProblemSolving: req.ProblemSolvingScore,
			Empathy:        req.EmpathyScore,
			Procedure:      req.ProcedureScore,
			Closing:        req.ClosingScore,
		},
		PositivePoints:    req.PositivePoints,
		ImprovementPoints: req.ImprovementPoints,
		GeneralComments:   req.GeneralComments,
		RequiresCoaching:  req.RequiresCoaching,
		IsExemplary:       req.IsExemplary,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewEvaluationResponse(eval)})
}

// List handles GET /api/evaluations.
func (h *EvaluationsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	input := service.EvaluationListInput{
		Page:    c.QueryInt("page", 1),
		PerPage: c.QueryInt("per_page", 20),
	}
	if v := c.Query("call_id"); v != "" {
		input.CallID = &v
	}
	if v := c.Query("evaluator_id"); v != "" {
		input.EvaluatorID = &v
	}
	if v := c.Query("operator_id"); v != "" {
		input.OperatorID = &v
	}
	if v := c.Query("requires_coaching"); v != "" {
		b := v == "true"
		input.RequiresCoaching = &b
	}
	if v := c.Query("is_exemplary"); v != "" {
		b := v == "true"
		input.IsExemplary = &b
	}

	evals, page, err := h.evaluations.List(c.Context(), principal.User, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.EvaluationListResponse{
		Evaluations: dto.NewEvaluationResponses(evals),
		Total:       page.Total,
		Pages:       page.Pages,
		CurrentPage: page.CurrentPage,
	}})
}

// Get handles GET /api/evaluations/:id.
func (h *EvaluationsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	eval, err := h.evaluations.Get(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEvaluationResponse(eval)})
}

// Update handles PUT /api/evaluations/:id.
func (h *EvaluationsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateEvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	eval, err := h.evaluations.Update(c.Context(), principal.User, c.Params("id"), service.EvaluationUpdateInput{
		Scores: service.SubScores{
			Greeting:       req.GreetingScore,
			Communication:  req.CommunicationScore,
			ProblemSolving: req.ProblemSolvingScore,
			Empathy:        req.EmpathyScore,
			Procedure:      req.ProcedureScore,
			Closing:        req.ClosingScore,
		},
		PositivePoints:    req.PositivePoints,
		ImprovementPoints: req.ImprovementPoints,
		GeneralComments:   req.GeneralComments,
		RequiresCoaching:  req.RequiresCoaching,
		IsExemplary:       req.IsExemplary,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEvaluationResponse(eval)})
}

// Delete handles DELETE /api/evaluations/:id.
func (h *EvaluationsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.evaluations.Delete(c.Context(), principal.User, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
