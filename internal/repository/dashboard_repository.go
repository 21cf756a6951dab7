package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/call-monitoring-service/internal/domain"
)

// Bucket label for calls without a category. A NULL category is still its own
// aggregation bucket, it just cannot be a map key.
const UncategorizedBucket = "uncategorized"

// CallStats aggregates call counts and duration over a window.
type CallStats struct {
	Total              int64
	AvgDurationSeconds float64
}

// EvaluationStats aggregates evaluation figures over a window.
type EvaluationStats struct {
	Total           int64
	AvgOverallScore float64
	CoachingNeeded  int64
	Exemplary       int64
}

// OperatorPerformance summarizes one operator's window activity.
type OperatorPerformance struct {
	OperatorID         string
	OperatorName       string
	TotalCalls         int64
	AvgDurationSeconds float64
	AvgScore           float64
}

// DashboardRepository runs the aggregate queries behind the dashboard views.
// Scoping is explicit: a non-nil operatorID restricts every figure to that
// operator's calls (and, through the parent call, their evaluations).
type DashboardRepository interface {
	CallStats(ctx context.Context, since time.Time, operatorID *string) (CallStats, error)
	CallsByStatus(ctx context.Context, since time.Time, operatorID *string) (map[string]int64, error)
	CallsByPriority(ctx context.Context, since time.Time, operatorID *string) (map[string]int64, error)
	CallsByCategory(ctx context.Context, since time.Time, operatorID *string) (map[string]int64, error)
	EvaluationStats(ctx context.Context, since time.Time, operatorID *string) (EvaluationStats, error)
	OperatorPerformance(ctx context.Context, since time.Time) ([]OperatorPerformance, error)
	RecentCalls(ctx context.Context, limit int, operatorID *string) ([]domain.Call, error)
	RecentEvaluations(ctx context.Context, limit int, operatorID *string) ([]domain.Evaluation, error)
}

type dashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository instantiates repository.
func NewDashboardRepository(pool *pgxpool.Pool) DashboardRepository {
	return &dashboardRepository{pool: pool}
}

func (r *dashboardRepository) CallStats(ctx context.Context, since time.Time, operatorID *string) (CallStats, error) {
	query := `
        SELECT COUNT(*), COALESCE(AVG(duration_seconds), 0)
        FROM calls WHERE created_at >= $1`
	args := []any{since}
	if operatorID != nil {
		query += ` AND operator_id = $2`
		args = append(args, *operatorID)
	}

	var stats CallStats
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&stats.Total, &stats.AvgDurationSeconds); err != nil {
		return CallStats{}, err
	}
	return stats, nil
}

func (r *dashboardRepository) CallsByStatus(ctx context.Context, since time.Time, operatorID *string) (map[string]int64, error) {
	return r.groupCalls(ctx, "status", since, operatorID)
}

func (r *dashboardRepository) CallsByPriority(ctx context.Context, since time.Time, operatorID *string) (map[string]int64, error) {
	return r.groupCalls(ctx, "priority", since, operatorID)
}

func (r *dashboardRepository) CallsByCategory(ctx context.Context, since time.Time, operatorID *string) (map[string]int64, error) {
	return r.groupCalls(ctx, fmt.Sprintf("COALESCE(category, '%s')", UncategorizedBucket), since, operatorID)
}

// groupCalls aggregates call counts per value of expr. expr is always one of
// the fixed expressions above, never caller input.
func (r *dashboardRepository) groupCalls(ctx context.Context, expr string, since time.Time, operatorID *string) (map[string]int64, error) {
	query := fmt.Sprintf(`SELECT %s, COUNT(*) FROM calls WHERE created_at >= $1`, expr)
	args := []any{since}
	if operatorID != nil {
		query += ` AND operator_id = $2`
		args = append(args, *operatorID)
	}
	query += fmt.Sprintf(` GROUP BY %s`, expr)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		result[key] = count
	}
	return result, rows.Err()
}

func (r *dashboardRepository) EvaluationStats(ctx context.Context, since time.Time, operatorID *string) (EvaluationStats, error) {
	query := `
        SELECT COUNT(*),
               COALESCE(AVG(e.overall_score), 0),
               COUNT(*) FILTER (WHERE e.requires_coaching),
               COUNT(*) FILTER (WHERE e.is_exemplary)
        FROM evaluations e
        JOIN calls c ON c.id = e.call_id
        WHERE e.created_at >= $1`
	args := []any{since}
	if operatorID != nil {
		query += ` AND c.operator_id = $2`
		args = append(args, *operatorID)
	}

	var stats EvaluationStats
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&stats.Total,
		&stats.AvgOverallScore,
		&stats.CoachingNeeded,
		&stats.Exemplary,
	); err != nil {
		return EvaluationStats{}, err
	}
	return stats, nil
}

// OperatorPerformance groups window activity by operator. Evaluations are
// left-joined per operator so an operator with calls but no evaluations still
// appears, with an average score of zero.
func (r *dashboardRepository) OperatorPerformance(ctx context.Context, since time.Time) ([]OperatorPerformance, error) {
	const query = `
        SELECT u.id, u.full_name, cs.total_calls, cs.avg_duration, COALESCE(es.avg_score, 0)
        FROM users u
        JOIN (
            SELECT operator_id, COUNT(*) AS total_calls, COALESCE(AVG(duration_seconds), 0) AS avg_duration
            FROM calls WHERE created_at >= $1
            GROUP BY operator_id
        ) cs ON cs.operator_id = u.id
        LEFT JOIN (
            SELECT c.operator_id, AVG(e.overall_score) AS avg_score
            FROM evaluations e
            JOIN calls c ON c.id = e.call_id
            WHERE c.created_at >= $1
            GROUP BY c.operator_id
        ) es ON es.operator_id = u.id
        ORDER BY u.full_name`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []OperatorPerformance
	for rows.Next() {
		var row OperatorPerformance
		if err := rows.Scan(
			&row.OperatorID,
			&row.OperatorName,
			&row.TotalCalls,
			&row.AvgDurationSeconds,
			&row.AvgScore,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *dashboardRepository) RecentCalls(ctx context.Context, limit int, operatorID *string) ([]domain.Call, error) {
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf(`SELECT %s FROM calls`, callColumns)
	args := []any{}
	if operatorID != nil {
		args = append(args, *operatorID)
		query += ` WHERE operator_id = $1`
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCalls(rows)
}

func (r *dashboardRepository) RecentEvaluations(ctx context.Context, limit int, operatorID *string) ([]domain.Evaluation, error) {
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf(`SELECT %s FROM evaluations e`, evaluationColumns)
	args := []any{}
	if operatorID != nil {
		args = append(args, *operatorID)
		query += ` JOIN calls c ON c.id = e.call_id WHERE c.operator_id = $1`
	}
	query += fmt.Sprintf(` ORDER BY e.created_at DESC LIMIT %d`, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvaluations(rows)
}
