package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/call-monitoring-service/internal/authz"
	"github.com/spec-kit/call-monitoring-service/internal/domain"
	"github.com/spec-kit/call-monitoring-service/internal/events"
	"github.com/spec-kit/call-monitoring-service/internal/repository"
	apperrors "github.com/spec-kit/call-monitoring-service/pkg/util/errorutil"
)

// Pagination describes one page of a filtered listing.
type Pagination struct {
	Total       int64
	Pages       int
	CurrentPage int
}

func paginate(total int64, page, perPage int) Pagination {
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	return Pagination{Total: total, Pages: pages, CurrentPage: page}
}

func normalizePage(page, perPage int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	return page, perPage
}

// CallService coordinates call workflows.
type CallService struct {
	calls       repository.CallRepository
	evaluations repository.EvaluationRepository
	dispatcher  events.Dispatcher
	now         func() time.Time
}

// CallDependencies bundles repositories for the call service.
type CallDependencies struct {
	CallRepo       repository.CallRepository
	EvaluationRepo repository.EvaluationRepository
	Dispatcher     events.Dispatcher
}

// NewCallService constructs the service.
func NewCallService(deps CallDependencies) *CallService {
	return &CallService{
		calls:       deps.CallRepo,
		evaluations: deps.EvaluationRepo,
		dispatcher:  deps.Dispatcher,
		now:         time.Now,
	}
}

// generateProtocol builds the unique call protocol: a UTC timestamp plus a
// random suffix. A collision is possible in theory and surfaces as Conflict
// from the store's unique constraint; it is not retried.
func generateProtocol(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:6])
	return fmt.Sprintf("CALL-%s-%s", now.UTC().Format("20060102150405"), suffix)
}

// CallCreateInput describes the call creation payload.
type CallCreateInput struct {
	OperatorID      *string
	CustomerName    string
	CustomerPhone   *string
	CustomerEmail   *string
	Subject         string
	Description     *string
	Category        *string
	Priority        domain.CallPriority
	Status          domain.CallStatus
	DurationSeconds *int
	RecordingURL    *string
	Notes           *string
}

// CallUpdateInput lists the patchable call fields. Protocol and operator are
// immutable after creation.
type CallUpdateInput struct {
	CustomerName    *string
	CustomerPhone   *string
	CustomerEmail   *string
	Subject         *string
	Description     *string
	Category        *string
	Priority        *domain.CallPriority
	Status          *domain.CallStatus
	DurationSeconds *int
	RecordingURL    *string
	Notes           *string
}

// CallListInput describes listing filters.
type CallListInput struct {
	OperatorID *string
	Status     *domain.CallStatus
	Category   *string
	Priority   *domain.CallPriority
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	PerPage    int
}

// Create logs a new call. The call is owned by the acting operator unless a
// supervisor or admin assigns it to someone else.
func (s *CallService) Create(ctx context.Context, actor *domain.User, input CallCreateInput) (*domain.Call, error) {
	operatorID := actor.ID
	if input.OperatorID != nil && *input.OperatorID != actor.ID {
		if !authz.AllowedAny(actor, authz.OpAssignOperator) {
			return nil, apperrors.NewForbidden("cannot create calls for another operator")
		}
		operatorID = *input.OperatorID
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.CallPriorityMedium
	}
	if !domain.ValidCallPriority(priority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": string(priority)})
	}
	status := input.Status
	if status == "" {
		status = domain.CallStatusOpen
	}
	if !domain.ValidCallStatus(status) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": string(status)})
	}

	call := &domain.Call{
		Protocol:        generateProtocol(s.now()),
		OperatorID:      operatorID,
		CustomerName:    strings.TrimSpace(input.CustomerName),
		CustomerPhone:   input.CustomerPhone,
		CustomerEmail:   input.CustomerEmail,
		Subject:         strings.TrimSpace(input.Subject),
		Description:     input.Description,
		Category:        input.Category,
		Priority:        priority,
		Status:          status,
		DurationSeconds: input.DurationSeconds,
		RecordingURL:    input.RecordingURL,
		Notes:           input.Notes,
	}

	if err := s.calls.Create(ctx, call); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("call protocol already exists", map[string]any{"protocol": call.Protocol})
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventCallCreated,
		ActorID: actor.ID,
		Payload: events.CallCreatedPayload{
			CallID:     call.ID,
			Protocol:   call.Protocol,
			OperatorID: call.OperatorID,
			Priority:   call.Priority,
		},
	})
	return call, nil
}

// List returns a page of calls visible to the actor. Operators only ever see
// their own calls regardless of the requested filter.
func (s *CallService) List(ctx context.Context, actor *domain.User, input CallListInput) ([]domain.Call, Pagination, error) {
	page, perPage := normalizePage(input.Page, input.PerPage)

	filter := repository.CallFilter{
		OperatorID:  input.OperatorID,
		Status:      input.Status,
		Category:    input.Category,
		Priority:    input.Priority,
		CreatedFrom: input.DateFrom,
		CreatedTo:   input.DateTo,
		Limit:       perPage,
		Offset:      (page - 1) * perPage,
	}
	if !authz.AllowedAny(actor, authz.OpReadCall) {
		filter.OperatorID = &actor.ID
	}

	calls, total, err := s.calls.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, Pagination{}, apperrors.MapError(err)
	}
	return calls, paginate(total, page, perPage), nil
}

// Get fetches a call with its evaluations, enforcing read scope.
func (s *CallService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Call, []domain.Evaluation, error) {
	call, err := s.calls.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("call", nil)
		}
		return nil, nil, apperrors.MapError(err)
	}
	if !authz.Allowed(actor, authz.OpReadCall, call.OperatorID) {
		return nil, nil, apperrors.NewForbidden("cannot view this call")
	}

	evals, err := s.evaluations.ListByCall(ctx, call.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return call, evals, nil
}

// Update patches a call. The first transition to closed stamps the closing
// timestamp; later updates never re-stamp it.
func (s *CallService) Update(ctx context.Context, actor *domain.User, id string, input CallUpdateInput) (*domain.Call, error) {
	call, err := s.calls.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("call", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !authz.Allowed(actor, authz.OpUpdateCall, call.OperatorID) {
		return nil, apperrors.NewForbidden("cannot update this call")
	}

	if input.Priority != nil && !domain.ValidCallPriority(*input.Priority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": string(*input.Priority)})
	}
	if input.Status != nil && !domain.ValidCallStatus(*input.Status) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": string(*input.Status)})
	}

	if input.CustomerName != nil {
		call.CustomerName = strings.TrimSpace(*input.CustomerName)
	}
	if input.CustomerPhone != nil {
		call.CustomerPhone = input.CustomerPhone
	}
	if input.CustomerEmail != nil {
		call.CustomerEmail = input.CustomerEmail
	}
	if input.Subject != nil {
		call.Subject = strings.TrimSpace(*input.Subject)
	}
	if input.Description != nil {
		call.Description = input.Description
	}
	if input.Category != nil {
		call.Category = input.Category
	}
	if input.Priority != nil {
		call.Priority = *input.Priority
	}
	if input.DurationSeconds != nil {
		call.DurationSeconds = input.DurationSeconds
	}
	if input.RecordingURL != nil {
		call.RecordingURL = input.RecordingURL
	}
	if input.Notes != nil {
		call.Notes = input.Notes
	}

	oldStatus := call.Status
	if input.Status != nil {
		if *input.Status == domain.CallStatusClosed {
			call.Close(s.now())
		} else {
			call.Status = *input.Status
		}
	}

	if err := s.calls.Update(ctx, call); err != nil {
		return nil, apperrors.MapError(err)
	}

	if call.Status != oldStatus {
		s.publish(ctx, events.Event{
			Type:    events.EventCallStatusChanged,
			ActorID: actor.ID,
			Payload: events.CallStatusChangedPayload{
				CallID:    call.ID,
				Protocol:  call.Protocol,
				OldStatus: oldStatus,
				NewStatus: call.Status,
			},
		})
	}
	return call, nil
}

// Delete removes a call and, by cascade, every evaluation referencing it.
func (s *CallService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if !authz.AllowedAny(actor, authz.OpDeleteCall) {
		return apperrors.NewForbidden("cannot delete calls")
	}

	if err := s.calls.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("call", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *CallService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.Timestamp = s.now()
	_ = s.dispatcher.Publish(ctx, event)
}
