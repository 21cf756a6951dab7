package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/call-monitoring-service/internal/api/dto"
	"github.com/spec-kit/call-monitoring-service/internal/auth"
	"github.com/spec-kit/call-monitoring-service/internal/service"
	apperrors "github.com/spec-kit/call-monitoring-service/pkg/util/errorutil"
)

// DashboardHandler serves the aggregated monitoring views.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboardService}
}

// Stats handles GET /api/dashboard/stats.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	stats, err := h.dashboard.Stats(c.Context(), principal.User, c.QueryInt("days", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDashboardStatsResponse(stats)})
}

// OperatorPerformance handles GET /api/dashboard/operator-performance.
func (h *DashboardHandler) OperatorPerformance(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	report, err := h.dashboard.OperatorPerformance(c.Context(), principal.User, c.QueryInt("days", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOperatorPerformanceResponse(report)})
}

// RecentActivity handles GET /api/dashboard/recent-activity.
func (h *DashboardHandler) RecentActivity(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	activity, err := h.dashboard.RecentActivityFor(c.Context(), principal.User, c.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRecentActivityResponse(activity)})
}
