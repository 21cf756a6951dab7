package service

import (
	"context"
	"math"
	"time"

	"github.com/spec-kit/call-monitoring-service/internal/authz"
	"github.com/spec-kit/call-monitoring-service/internal/config"
	"github.com/spec-kit/call-monitoring-service/internal/domain"
	"github.com/spec-kit/call-monitoring-service/internal/repository"
	apperrors "github.com/spec-kit/call-monitoring-service/pkg/util/errorutil"
)

// CallsOverview is the calls section of the dashboard stats.
type CallsOverview struct {
	Total              int64
	ByStatus           map[string]int64
	ByPriority         map[string]int64
	ByCategory         map[string]int64
	AvgDurationSeconds float64
}

// EvaluationsOverview is the evaluations section of the dashboard stats.
type EvaluationsOverview struct {
	Total           int64
	AvgOverallScore float64
	CoachingNeeded  int64
	Exemplary       int64
}

// DashboardStats is the main dashboard payload.
type DashboardStats struct {
	PeriodDays  int
	Calls       CallsOverview
	Evaluations EvaluationsOverview
}

// OperatorPerformanceReport lists per-operator figures over a window.
type OperatorPerformanceReport struct {
	PeriodDays int
	Operators  []repository.OperatorPerformance
}

// RecentActivity lists the latest calls and evaluations visible to the actor.
type RecentActivity struct {
	Calls       []domain.Call
	Evaluations []domain.Evaluation
}

// DashboardService computes time-windowed statistics scoped to the actor.
type DashboardService struct {
	dash repository.DashboardRepository
	cfg  config.DashboardConfig
	now  func() time.Time
}

// NewDashboardService constructs the service.
func NewDashboardService(dash repository.DashboardRepository, cfg config.DashboardConfig) *DashboardService {
	return &DashboardService{dash: dash, cfg: cfg, now: time.Now}
}

// scope returns the operator restriction for the actor: operators only ever
// see figures over their own calls, supervisors and admins see everything.
func (s *DashboardService) scope(actor *domain.User) *string {
	if authz.AllowedAny(actor, authz.OpViewOrgDashboard) {
		return nil
	}
	return &actor.ID
}

func (s *DashboardService) window(days int) (int, time.Time) {
	if days <= 0 {
		days = s.cfg.DefaultWindowDays
	}
	if days <= 0 {
		days = 30
	}
	return days, s.now().UTC().AddDate(0, 0, -days)
}

// Stats assembles the main dashboard view over the trailing window. The
// window boundary is evaluated at query time, never cached.
func (s *DashboardService) Stats(ctx context.Context, actor *domain.User, windowDays int) (*DashboardStats, error) {
	days, since := s.window(windowDays)
	operatorID := s.scope(actor)

	callStats, err := s.dash.CallStats(ctx, since, operatorID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byStatus, err := s.dash.CallsByStatus(ctx, since, operatorID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byPriority, err := s.dash.CallsByPriority(ctx, since, operatorID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byCategory, err := s.dash.CallsByCategory(ctx, since, operatorID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	evalStats, err := s.dash.EvaluationStats(ctx, since, operatorID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &DashboardStats{
		PeriodDays: days,
		Calls: CallsOverview{
			Total:              callStats.Total,
			ByStatus:           byStatus,
			ByPriority:         byPriority,
			ByCategory:         byCategory,
			AvgDurationSeconds: round2(callStats.AvgDurationSeconds),
		},
		Evaluations: EvaluationsOverview{
			Total:           evalStats.Total,
			AvgOverallScore: round2(evalStats.AvgOverallScore),
			CoachingNeeded:  evalStats.CoachingNeeded,
			Exemplary:       evalStats.Exemplary,
		},
	}, nil
}

// OperatorPerformance returns the per-operator view. Supervisor/admin only.
func (s *DashboardService) OperatorPerformance(ctx context.Context, actor *domain.User, windowDays int) (*OperatorPerformanceReport, error) {
	if !authz.AllowedAny(actor, authz.OpViewOrgDashboard) {
		return nil, apperrors.NewForbidden("cannot view operator performance")
	}

	days, since := s.window(windowDays)
	rows, err := s.dash.OperatorPerformance(ctx, since)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range rows {
		rows[i].AvgDurationSeconds = round2(rows[i].AvgDurationSeconds)
		rows[i].AvgScore = round2(rows[i].AvgScore)
	}
	return &OperatorPerformanceReport{PeriodDays: days, Operators: rows}, nil
}

// RecentActivityFor returns the latest calls and evaluations, scoped like the
// main dashboard.
func (s *DashboardService) RecentActivityFor(ctx context.Context, actor *domain.User, limit int) (*RecentActivity, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultRecentLimit
	}
	if limit <= 0 {
		limit = 10
	}
	operatorID := s.scope(actor)

	calls, err := s.dash.RecentCalls(ctx, limit, operatorID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	evals, err := s.dash.RecentEvaluations(ctx, limit, operatorID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &RecentActivity{Calls: calls, Evaluations: evals}, nil
}

// round2 rounds to two decimals for presentation; internal aggregates stay
// unrounded until this point.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
