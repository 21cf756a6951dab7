package dto

import "github.com/spec-kit/call-monitoring-service/internal/service"

// DashboardCalls is the calls section of the stats response.
type DashboardCalls struct {
	Total              int64            `json:"total"`
	ByStatus           map[string]int64 `json:"by_status"`
	ByPriority         map[string]int64 `json:"by_priority"`
	ByCategory         map[string]int64 `json:"by_category"`
	AvgDurationSeconds float64          `json:"avg_duration_seconds"`
}

// DashboardEvaluations is the evaluations section of the stats response.
type DashboardEvaluations struct {
	Total           int64   `json:"total"`
	AvgOverallScore float64 `json:"avg_overall_score"`
	CoachingNeeded  int64   `json:"coaching_needed"`
	Exemplary       int64   `json:"exemplary"`
}

// DashboardStatsResponse is the main dashboard payload.
type DashboardStatsResponse struct {
	PeriodDays  int                  `json:"period_days"`
	Calls       DashboardCalls       `json:"calls"`
	Evaluations DashboardEvaluations `json:"evaluations"`
}

// NewDashboardStatsResponse maps the service result.
func NewDashboardStatsResponse(s *service.DashboardStats) DashboardStatsResponse {
	return DashboardStatsResponse{
		PeriodDays: s.PeriodDays,
		Calls: DashboardCalls{
			Total:              s.Calls.Total,
			ByStatus:           s.Calls.ByStatus,
			ByPriority:         s.Calls.ByPriority,
			ByCategory:         s.Calls.ByCategory,
			AvgDurationSeconds: s.Calls.AvgDurationSeconds,
		},
		Evaluations: DashboardEvaluations{
			Total:           s.Evaluations.Total,
			AvgOverallScore: s.Evaluations.AvgOverallScore,
			CoachingNeeded:  s.Evaluations.CoachingNeeded,
			Exemplary:       s.Evaluations.Exemplary,
		},
	}
}

// OperatorPerformanceEntry is one operator's row in the performance view.
type OperatorPerformanceEntry struct {
	OperatorID         string  `json:"operator_id"`
	OperatorName       string  `json:"operator_name"`
	TotalCalls         int64   `json:"total_calls"`
	AvgDurationSeconds float64 `json:"avg_duration_seconds"`
	AvgScore           float64 `json:"avg_score"`
}

// OperatorPerformanceResponse envelope.
type OperatorPerformanceResponse struct {
	PeriodDays int                        `json:"period_days"`
	Operators  []OperatorPerformanceEntry `json:"operators"`
}

// NewOperatorPerformanceResponse maps the service result.
func NewOperatorPerformanceResponse(r *service.OperatorPerformanceReport) OperatorPerformanceResponse {
	operators := make([]OperatorPerformanceEntry, 0, len(r.Operators))
	for _, op := range r.Operators {
		operators = append(operators, OperatorPerformanceEntry{
			OperatorID:         op.OperatorID,
			OperatorName:       op.OperatorName,
			TotalCalls:         op.TotalCalls,
			AvgDurationSeconds: op.AvgDurationSeconds,
			AvgScore:           op.AvgScore,
		})
	}
	return OperatorPerformanceResponse{PeriodDays: r.PeriodDays, Operators: operators}
}

// RecentActivityResponse envelope.
type RecentActivityResponse struct {
	RecentCalls       []CallResponse       `json:"recent_calls"`
	RecentEvaluations []EvaluationResponse `json:"recent_evaluations"`
}

// NewRecentActivityResponse maps the service result.
func NewRecentActivityResponse(r *service.RecentActivity) RecentActivityResponse {
	return RecentActivityResponse{
		RecentCalls:       NewCallResponses(r.Calls),
		RecentEvaluations: NewEvaluationResponses(r.Evaluations),
	}
}
