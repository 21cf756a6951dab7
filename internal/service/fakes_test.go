package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/call-monitoring-service/internal/domain"
	"github.com/spec-kit/call-monitoring-service/internal/events"
	"github.com/spec-kit/call-monitoring-service/internal/repository"
)

// In-memory repository fakes backing the service tests. They mirror the
// Postgres implementations closely enough for the service layer: pgx.ErrNoRows
// for missing rows, a pgconn unique-violation for duplicate keys.

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) add(u *domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		r.seq++
		u.ID = fmt.Sprintf("user-%d", r.seq)
	}
	cp := *u
	r.users[u.ID] = &cp
	return u
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return uniqueViolation("users_username_key")
		}
		if existing.Email == user.Email {
			return uniqueViolation("users_email_key")
		}
	}
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

type fakeCallRepo struct {
	mu    sync.Mutex
	seq   int
	calls map[string]*domain.Call

	createErr error
	lastQuery repository.CallFilter
}

func newFakeCallRepo() *fakeCallRepo {
	return &fakeCallRepo{calls: make(map[string]*domain.Call)}
}

func (r *fakeCallRepo) add(c *domain.Call) *domain.Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		r.seq++
		c.ID = fmt.Sprintf("call-%d", r.seq)
	}
	cp := *c
	r.calls[c.ID] = &cp
	return c
}

func (r *fakeCallRepo) Create(_ context.Context, call *domain.Call) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.calls {
		if existing.Protocol == call.Protocol {
			return uniqueViolation("calls_protocol_key")
		}
	}
	r.seq++
	call.ID = fmt.Sprintf("call-%d", r.seq)
	call.CreatedAt = time.Now()
	call.UpdatedAt = call.CreatedAt
	cp := *call
	r.calls[call.ID] = &cp
	return nil
}

func (r *fakeCallRepo) Update(_ context.Context, call *domain.Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.calls[call.ID]; !ok {
		return pgx.ErrNoRows
	}
	call.UpdatedAt = time.Now()
	cp := *call
	r.calls[call.ID] = &cp
	return nil
}

func (r *fakeCallRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.calls[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.calls, id)
	return nil
}

func (r *fakeCallRepo) GetByID(_ context.Context, id string) (*domain.Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.calls[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCallRepo) GetByProtocol(_ context.Context, protocol string) (*domain.Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.calls {
		if c.Protocol == protocol {
			cp := *c
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCallRepo) ListWithFilter(_ context.Context, filter repository.CallFilter) ([]domain.Call, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQuery = filter
	var out []domain.Call
	for _, c := range r.calls {
		if filter.OperatorID != nil && c.OperatorID != *filter.OperatorID {
			continue
		}
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if filter.Category != nil && (c.Category == nil || *c.Category != *filter.Category) {
			continue
		}
		if filter.Priority != nil && c.Priority != *filter.Priority {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

type fakeEvaluationRepo struct {
	mu    sync.Mutex
	seq   int
	evals map[string]*domain.Evaluation
	calls *fakeCallRepo

	lastQuery repository.EvaluationFilter
}

func newFakeEvaluationRepo(calls *fakeCallRepo) *fakeEvaluationRepo {
	return &fakeEvaluationRepo{evals: make(map[string]*domain.Evaluation), calls: calls}
}

func (r *fakeEvaluationRepo) add(e *domain.Evaluation) *domain.Evaluation {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == "" {
		r.seq++
		e.ID = fmt.Sprintf("eval-%d", r.seq)
	}
	cp := *e
	r.evals[e.ID] = &cp
	return e
}

func (r *fakeEvaluationRepo) Create(_ context.Context, eval *domain.Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	eval.ID = fmt.Sprintf("eval-%d", r.seq)
	eval.CreatedAt = time.Now()
	eval.UpdatedAt = eval.CreatedAt
	cp := *eval
	r.evals[eval.ID] = &cp
	return nil
}

func (r *fakeEvaluationRepo) Update(_ context.Context, eval *domain.Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.evals[eval.ID]; !ok {
		return pgx.ErrNoRows
	}
	eval.UpdatedAt = time.Now()
	cp := *eval
	r.evals[eval.ID] = &cp
	return nil
}

func (r *fakeEvaluationRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.evals[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.evals, id)
	return nil
}

func (r *fakeEvaluationRepo) GetByID(_ context.Context, id string) (*domain.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.evals[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEvaluationRepo) ListByCall(_ context.Context, callID string) ([]domain.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Evaluation
	for _, e := range r.evals {
		if e.CallID == callID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEvaluationRepo) ListWithFilter(ctx context.Context, filter repository.EvaluationFilter) ([]domain.Evaluation, int64, error) {
	r.mu.Lock()
	r.lastQuery = filter
	evals := make([]domain.Evaluation, 0, len(r.evals))
	for _, e := range r.evals {
		evals = append(evals, *e)
	}
	r.mu.Unlock()

	var out []domain.Evaluation
	for _, e := range evals {
		if filter.CallID != nil && e.CallID != *filter.CallID {
			continue
		}
		if filter.EvaluatorID != nil && e.EvaluatorID != *filter.EvaluatorID {
			continue
		}
		if filter.OperatorID != nil {
			call, err := r.calls.GetByID(ctx, e.CallID)
			if err != nil || call.OperatorID != *filter.OperatorID {
				continue
			}
		}
		if filter.RequiresCoaching != nil && e.RequiresCoaching != *filter.RequiresCoaching {
			continue
		}
		if filter.IsExemplary != nil && e.IsExemplary != *filter.IsExemplary {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[string]string)}
}

func (r *fakeRefreshTokenRepo) Store(_ context.Context, token, userID string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = userID
	return nil
}

func (r *fakeRefreshTokenRepo) Lookup(_ context.Context, token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	userID, ok := r.tokens[token]
	if !ok {
		return "", repository.ErrRefreshTokenNotFound
	}
	return userID, nil
}

func (r *fakeRefreshTokenRepo) Revoke(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event{}, d.events...)
}

func (d *recordingDispatcher) byType(t events.EventType) []events.Event {
	var out []events.Event
	for _, e := range d.published() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
