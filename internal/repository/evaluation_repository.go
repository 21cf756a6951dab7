package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/call-monitoring-service/internal/domain"
)

// EvaluationFilter captures evaluation search parameters. OperatorID filters
// through the parent call's operator, which is also how operator-role scoping
// is applied.
type EvaluationFilter struct {
	CallID           *string
	EvaluatorID      *string
	OperatorID       *string
	RequiresCoaching *bool
	IsExemplary      *bool
	Limit            int
	Offset           int
}

// EvaluationRepository encapsulates evaluation persistence.
type EvaluationRepository interface {
	Create(ctx context.Context, eval *domain.Evaluation) error
	Update(ctx context.Context, eval *domain.Evaluation) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Evaluation, error)
	ListByCall(ctx context.Context, callID string) ([]domain.Evaluation, error)
	ListWithFilter(ctx context.Context, filter EvaluationFilter) ([]domain.Evaluation, int64, error)
}

type evaluationRepository struct {
	pool *pgxpool.Pool
}

// NewEvaluationRepository instantiates repository.
func NewEvaluationRepository(pool *pgxpool.Pool) EvaluationRepository {
	return &evaluationRepository{pool: pool}
}

const evaluationColumns = `e.id, e.call_id, e.evaluator_id, e.greeting_score, e.communication_score,
               e.problem_solving_score, e.empathy_score, e.procedure_score, e.closing_score,
               e.overall_score, e.positive_points, e.improvement_points, e.general_comments,
               e.requires_coaching, e.is_exemplary, e.created_at, e.updated_at`

func (r *evaluationRepository) Create(ctx context.Context, eval *domain.Evaluation) error {
	const query = `
        INSERT INTO evaluations (call_id, evaluator_id, greeting_score, communication_score,
                                 problem_solving_score, empathy_score, procedure_score, closing_score,
                                 overall_score, positive_points, improvement_points, general_comments,
                                 requires_coaching, is_exemplary)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		eval.CallID,
		eval.EvaluatorID,
		eval.GreetingScore,
		eval.CommunicationScore,
		eval.ProblemSolvingScore,
		eval.EmpathyScore,
		eval.ProcedureScore,
		eval.ClosingScore,
		eval.OverallScore,
		eval.PositivePoints,
		eval.ImprovementPoints,
		eval.GeneralComments,
		eval.RequiresCoaching,
		eval.IsExemplary,
	).Scan(&eval.ID, &eval.CreatedAt, &eval.UpdatedAt)
}

func (r *evaluationRepository) Update(ctx context.Context, eval *domain.Evaluation) error {
	const query = `
        UPDATE evaluations SET greeting_score=$1, communication_score=$2, problem_solving_score=$3,
            empathy_score=$4, procedure_score=$5, closing_score=$6, overall_score=$7,
            positive_points=$8, improvement_points=$9, general_comments=$10,
            requires_coaching=$11, is_exemplary=$12, updated_at=NOW()
        WHERE id=$13`
	cmd, err := r.pool.Exec(ctx, query,
		eval.GreetingScore,
		eval.CommunicationScore,
		eval.ProblemSolvingScore,
		eval.EmpathyScore,
		eval.ProcedureScore,
		eval.ClosingScore,
		eval.OverallScore,
		eval.PositivePoints,
		eval.ImprovementPoints,
		eval.GeneralComments,
		eval.RequiresCoaching,
		eval.IsExemplary,
		eval.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *evaluationRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM evaluations WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *evaluationRepository) GetByID(ctx context.Context, id string) (*domain.Evaluation, error) {
	query := fmt.Sprintf(`SELECT %s FROM evaluations e WHERE e.id=$1`, evaluationColumns)
	var eval domain.Evaluation
	if err := scanEvaluation(r.pool.QueryRow(ctx, query, id), &eval); err != nil {
		return nil, err
	}
	return &eval, nil
}

func (r *evaluationRepository) ListByCall(ctx context.Context, callID string) ([]domain.Evaluation, error) {
	query := fmt.Sprintf(`SELECT %s FROM evaluations e WHERE e.call_id=$1 ORDER BY e.created_at DESC`,
		evaluationColumns)
	rows, err := r.pool.Query(ctx, query, callID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvaluations(rows)
}

// ListWithFilter returns the matching page, newest first, plus the total
// match count. Operator filtering joins through the parent call explicitly.
func (r *evaluationRepository) ListWithFilter(ctx context.Context, filter EvaluationFilter) ([]domain.Evaluation, int64, error) {
	from := `FROM evaluations e`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OperatorID != nil {
		from += ` JOIN calls c ON c.id = e.call_id`
		args = append(args, *filter.OperatorID)
		clauses = append(clauses, fmt.Sprintf("c.operator_id=$%d", len(args)))
	}
	if filter.CallID != nil {
		args = append(args, *filter.CallID)
		clauses = append(clauses, fmt.Sprintf("e.call_id=$%d", len(args)))
	}
	if filter.EvaluatorID != nil {
		args = append(args, *filter.EvaluatorID)
		clauses = append(clauses, fmt.Sprintf("e.evaluator_id=$%d", len(args)))
	}
	if filter.RequiresCoaching != nil {
		args = append(args, *filter.RequiresCoaching)
		clauses = append(clauses, fmt.Sprintf("e.requires_coaching=$%d", len(args)))
	}
	if filter.IsExemplary != nil {
		args = append(args, *filter.IsExemplary)
		clauses = append(clauses, fmt.Sprintf("e.is_exemplary=$%d", len(args)))
	}

	where := strings.Join(clauses, " AND ")

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) %s WHERE %s`, from, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY e.created_at DESC LIMIT %d OFFSET %d`,
		evaluationColumns, from, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	evals, err := scanEvaluations(rows)
	if err != nil {
		return nil, 0, err
	}
	return evals, total, nil
}

func scanEvaluation(row callScanner, eval *domain.Evaluation) error {
	return row.Scan(
		&eval.ID,
		&eval.CallID,
		&eval.EvaluatorID,
		&eval.GreetingScore,
		&eval.CommunicationScore,
		&eval.ProblemSolvingScore,
		&eval.EmpathyScore,
		&eval.ProcedureScore,
		&eval.ClosingScore,
		&eval.OverallScore,
		&eval.PositivePoints,
		&eval.ImprovementPoints,
		&eval.GeneralComments,
		&eval.RequiresCoaching,
		&eval.IsExemplary,
		&eval.CreatedAt,
		&eval.UpdatedAt,
	)
}

func scanEvaluations(rows pgx.Rows) ([]domain.Evaluation, error) {
	var result []domain.Evaluation
	for rows.Next() {
		var eval domain.Evaluation
		if err := scanEvaluation(rows, &eval); err != nil {
			return nil, err
		}
		result = append(result, eval)
	}
	return result, rows.Err()
}
