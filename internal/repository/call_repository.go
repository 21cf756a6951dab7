package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/call-monitoring-service/internal/domain"
)

// CallFilter captures call search parameters.
type CallFilter struct {
	OperatorID  *string
	Status      *domain.CallStatus
	Category    *string
	Priority    *domain.CallPriority
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// CallRepository encapsulates call persistence.
type CallRepository interface {
	Create(ctx context.Context, call *domain.Call) error
	Update(ctx context.Context, call *domain.Call) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Call, error)
	GetByProtocol(ctx context.Context, protocol string) (*domain.Call, error)
	ListWithFilter(ctx context.Context, filter CallFilter) ([]domain.Call, int64, error)
}

type callRepository struct {
	pool *pgxpool.Pool
}

// NewCallRepository instantiates repository.
func NewCallRepository(pool *pgxpool.Pool) CallRepository {
	return &callRepository{pool: pool}
}

const callColumns = `id, protocol, operator_id, customer_name, customer_phone, customer_email,
               subject, description, category, priority, status, duration_seconds,
               recording_url, notes, created_at, updated_at, closed_at`

func (r *callRepository) Create(ctx context.Context, call *domain.Call) error {
	const query = `
        INSERT INTO calls (protocol, operator_id, customer_name, customer_phone, customer_email,
                           subject, description, category, priority, status, duration_seconds,
                           recording_url, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		call.Protocol,
		call.OperatorID,
		call.CustomerName,
		call.CustomerPhone,
		call.CustomerEmail,
		call.Subject,
		call.Description,
		call.Category,
		call.Priority,
		call.Status,
		call.DurationSeconds,
		call.RecordingURL,
		call.Notes,
	).Scan(&call.ID, &call.CreatedAt, &call.UpdatedAt)
}

func (r *callRepository) Update(ctx context.Context, call *domain.Call) error {
	const query = `
        UPDATE calls SET customer_name=$1, customer_phone=$2, customer_email=$3, subject=$4,
            description=$5, category=$6, priority=$7, status=$8, duration_seconds=$9,
            recording_url=$10, notes=$11, closed_at=$12, updated_at=NOW()
        WHERE id=$13`
	cmd, err := r.pool.Exec(ctx, query,
		call.CustomerName,
		call.CustomerPhone,
		call.CustomerEmail,
		call.Subject,
		call.Description,
		call.Category,
		call.Priority,
		call.Status,
		call.DurationSeconds,
		call.RecordingURL,
		call.Notes,
		call.ClosedAt,
		call.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes the call row; evaluations follow via ON DELETE CASCADE.
func (r *callRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM calls WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *callRepository) GetByID(ctx context.Context, id string) (*domain.Call, error) {
	query := fmt.Sprintf(`SELECT %s FROM calls WHERE id=$1`, callColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *callRepository) GetByProtocol(ctx context.Context, protocol string) (*domain.Call, error) {
	query := fmt.Sprintf(`SELECT %s FROM calls WHERE protocol=$1`, callColumns)
	return r.fetchSingle(ctx, query, protocol)
}

func (r *callRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Call, error) {
	var call domain.Call
	if err := scanCall(r.pool.QueryRow(ctx, query, arg), &call); err != nil {
		return nil, err
	}
	return &call, nil
}

// ListWithFilter returns the matching page, newest first, plus the total match count.
func (r *callRepository) ListWithFilter(ctx context.Context, filter CallFilter) ([]domain.Call, int64, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OperatorID != nil {
		args = append(args, *filter.OperatorID)
		clauses = append(clauses, fmt.Sprintf("operator_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	where := strings.Join(clauses, " AND ")

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM calls WHERE %s`, where)
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

	query := fmt.Sprintf(`SELECT %s FROM calls WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		callColumns, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	calls, err := scanCalls(rows)
	if err != nil {
		return nil, 0, err
	}
	return calls, total, nil
}

type callScanner interface {
	Scan(dest ...any) error
}

func scanCall(row callScanner, call *domain.Call) error {
	return row.Scan(
		&call.ID,
		&call.Protocol,
		&call.OperatorID,
		&call.CustomerName,
		&call.CustomerPhone,
		&call.CustomerEmail,
		&call.Subject,
		&call.Description,
		&call.Category,
		&call.Priority,
		&call.Status,
		&call.DurationSeconds,
		&call.RecordingURL,
		&call.Notes,
		&call.CreatedAt,
		&call.UpdatedAt,
		&call.ClosedAt,
	)
}

func scanCalls(rows pgx.Rows) ([]domain.Call, error) {
	var result []domain.Call
	for rows.Next() {
		var call domain.Call
		if err := scanCall(rows, &call); err != nil {
			return nil, err
		}
		result = append(result, call)
	}
	return result, rows.Err()
}
