package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/call-monitoring-service/internal/config"
	"github.com/spec-kit/call-monitoring-service/internal/domain"
	"github.com/spec-kit/call-monitoring-service/internal/repository"
)

// fakeDashboardRepo returns canned aggregates and records the scoping it was
// asked for.
type fakeDashboardRepo struct {
	callStats   repository.CallStats
	evalStats   repository.EvaluationStats
	performance []repository.OperatorPerformance

	lastSince      time.Time
	lastOperatorID *string
	lastLimit      int
}

func (r *fakeDashboardRepo) CallStats(_ context.Context, since time.Time, operatorID *string) (repository.CallStats, error) {
	r.lastSince = since
	r.lastOperatorID = operatorID
	return r.callStats, nil
}

func (r *fakeDashboardRepo) CallsByStatus(_ context.Context, _ time.Time, _ *string) (map[string]int64, error) {
	return map[string]int64{"open": 3, "closed": 1}, nil
}

func (r *fakeDashboardRepo) CallsByPriority(_ context.Context, _ time.Time, _ *string) (map[string]int64, error) {
	return map[string]int64{"medium": 4}, nil
}

func (r *fakeDashboardRepo) CallsByCategory(_ context.Context, _ time.Time, _ *string) (map[string]int64, error) {
	return map[string]int64{"billing": 2, repository.UncategorizedBucket: 2}, nil
}

func (r *fakeDashboardRepo) EvaluationStats(_ context.Context, _ time.Time, _ *string) (repository.EvaluationStats, error) {
	return r.evalStats, nil
}

func (r *fakeDashboardRepo) OperatorPerformance(_ context.Context, since time.Time) ([]repository.OperatorPerformance, error) {
	r.lastSince = since
	return r.performance, nil
}

func (r *fakeDashboardRepo) RecentCalls(_ context.Context, limit int, operatorID *string) ([]domain.Call, error) {
	r.lastLimit = limit
	r.lastOperatorID = operatorID
	return []domain.Call{{ID: "c1"}}, nil
}

func (r *fakeDashboardRepo) RecentEvaluations(_ context.Context, limit int, operatorID *string) ([]domain.Evaluation, error) {
	r.lastLimit = limit
	return []domain.Evaluation{{ID: "e1"}}, nil
}

func newDashboardFixture() (*DashboardService, *fakeDashboardRepo) {
	repo := &fakeDashboardRepo{
		callStats: repository.CallStats{Total: 4, AvgDurationSeconds: 182.4567},
		evalStats: repository.EvaluationStats{Total: 3, AvgOverallScore: 4.333333, CoachingNeeded: 1, Exemplary: 1},
	}
	svc := NewDashboardService(repo, config.DashboardConfig{DefaultWindowDays: 30, DefaultRecentLimit: 10})
	return svc, repo
}

func TestDashboardService_Stats_WindowAndRounding(t *testing.T) {
	svc, repo := newDashboardFixture()
	fixed := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	stats, err := svc.Stats(context.Background(), adminUser("a"), 7)
	require.NoError(t, err)

	assert.Equal(t, 7, stats.PeriodDays)
	assert.Equal(t, fixed.AddDate(0, 0, -7), repo.lastSince)
	assert.Nil(t, repo.lastOperatorID)

	assert.Equal(t, int64(4), stats.Calls.Total)
	assert.Equal(t, 182.46, stats.Calls.AvgDurationSeconds)
	assert.Equal(t, 4.33, stats.Evaluations.AvgOverallScore)
	assert.Equal(t, int64(1), stats.Evaluations.CoachingNeeded)
	assert.Equal(t, int64(2), stats.Calls.ByCategory[repository.UncategorizedBucket])
}

func TestDashboardService_Stats_DefaultWindow(t *testing.T) {
	svc, _ := newDashboardFixture()

	stats, err := svc.Stats(context.Background(), adminUser("a"), 0)
	require.NoError(t, err)
	assert.Equal(t, 30, stats.PeriodDays)

	stats, err = svc.Stats(context.Background(), adminUser("a"), -5)
	require.NoError(t, err)
	assert.Equal(t, 30, stats.PeriodDays)
}

func TestDashboardService_Stats_OperatorScoped(t *testing.T) {
	svc, repo := newDashboardFixture()

	_, err := svc.Stats(context.Background(), operatorUser("op-1"), 30)
	require.NoError(t, err)
	require.NotNil(t, repo.lastOperatorID)
	assert.Equal(t, "op-1", *repo.lastOperatorID)

	_, err = svc.Stats(context.Background(), supervisorUser("sup-1"), 30)
	require.NoError(t, err)
	assert.Nil(t, repo.lastOperatorID)
}

func TestDashboardService_OperatorPerformance_Gate(t *testing.T) {
	svc, repo := newDashboardFixture()
	repo.performance = []repository.OperatorPerformance{
		{OperatorID: "op-1", OperatorName: "Ana", TotalCalls: 5, AvgDurationSeconds: 100.555, AvgScore: 3.666666},
		{OperatorID: "op-2", OperatorName: "Bruno", TotalCalls: 0, AvgDurationSeconds: 0, AvgScore: 0},
	}

	_, err := svc.OperatorPerformance(context.Background(), operatorUser("op-1"), 30)
	assertCode(t, err, "FORBIDDEN")

	report, err := svc.OperatorPerformance(context.Background(), supervisorUser("sup-1"), 30)
	require.NoError(t, err)
	require.Len(t, report.Operators, 2)
	assert.Equal(t, 100.56, report.Operators[0].AvgDurationSeconds)
	assert.Equal(t, 3.67, report.Operators[0].AvgScore)

	// Operators without evaluations still appear, scored zero.
	assert.Equal(t, int64(0), report.Operators[1].TotalCalls)
	assert.Equal(t, 0.0, report.Operators[1].AvgScore)
}

func TestDashboardService_RecentActivity(t *testing.T) {
	svc, repo := newDashboardFixture()

	activity, err := svc.RecentActivityFor(context.Background(), operatorUser("op-1"), 0)
	require.NoError(t, err)
	assert.Equal(t, 10, repo.lastLimit)
	require.NotNil(t, repo.lastOperatorID)
	assert.Equal(t, "op-1", *repo.lastOperatorID)
	assert.Len(t, activity.Calls, 1)
	assert.Len(t, activity.Evaluations, 1)

	_, err = svc.RecentActivityFor(context.Background(), adminUser("a"), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, repo.lastLimit)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 4.25, round2(4.25))
	assert.Equal(t, 3.33, round2(10.0/3.0))
	assert.Equal(t, 0.0, round2(0))
	assert.Equal(t, 2.68, round2(2.675000001))
}
