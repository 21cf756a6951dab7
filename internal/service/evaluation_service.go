package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/call-monitoring-service/internal/authz"
	"github.com/spec-kit/call-monitoring-service/internal/domain"
	"github.com/spec-kit/call-monitoring-service/internal/events"
	"github.com/spec-kit/call-monitoring-service/internal/repository"
	apperrors "github.com/spec-kit/call-monitoring-service/pkg/util/errorutil"
)

// EvaluationService coordinates rubric evaluation workflows.
type EvaluationService struct {
	evaluations repository.EvaluationRepository
	calls       repository.CallRepository
	dispatcher  events.Dispatcher
	now         func() time.Time
}

// EvaluationDependencies bundles repositories for the evaluation service.
type EvaluationDependencies struct {
	EvaluationRepo repository.EvaluationRepository
	CallRepo       repository.CallRepository
	Dispatcher     events.Dispatcher
}

// NewEvaluationService constructs the service.
func NewEvaluationService(deps EvaluationDependencies) *EvaluationService {
	return &EvaluationService{
		evaluations: deps.EvaluationRepo,
		calls:       deps.CallRepo,
		dispatcher:  deps.Dispatcher,
		now:         time.Now,
	}
}

// SubScores carries the six optional rubric sub-scores of a payload.
type SubScores struct {
	Greeting       *int
	Communication  *int
	ProblemSolving *int
	Empathy        *int
	Procedure      *int
	Closing        *int
}

func validateSubScores(scores SubScores) error {
	named := []struct {
		field string
		value *int
	}{
		{"greeting_score", scores.Greeting},
		{"communication_score", scores.Communication},
		{"problem_solving_score", scores.ProblemSolving},
		{"empathy_score", scores.Empathy},
		{"procedure_score", scores.Procedure},
		{"closing_score", scores.Closing},
	}
	for _, s := range named {
		if s.value != nil && (*s.value < domain.ScoreMin || *s.value > domain.ScoreMax) {
			return apperrors.NewValidationError(
				fmt.Sprintf("%s must be between %d and %d", s.field, domain.ScoreMin, domain.ScoreMax),
				map[string]any{s.field: *s.value},
			)
		}
	}
	return nil
}

// EvaluationCreateInput describes the evaluation creation payload.
type EvaluationCreateInput struct {
	CallID            string
	Scores            SubScores
	PositivePoints    *string
	ImprovementPoints *string
	GeneralComments   *string
	RequiresCoaching  bool
	IsExemplary       bool
}

// EvaluationUpdateInput lists the patchable evaluation fields.
type EvaluationUpdateInput struct {
	Scores            SubScores
	PositivePoints    *string
	ImprovementPoints *string
	GeneralComments   *string
	RequiresCoaching  *bool
	IsExemplary       *bool
}

// EvaluationListInput describes listing filters.
type EvaluationListInput struct {
	CallID           *string
	EvaluatorID      *string
	OperatorID       *string
	RequiresCoaching *bool
	IsExemplary      *bool
	Page             int
	PerPage          int
}

// Create records a new evaluation authored by the actor. The overall score is
// derived from the sub-scores at write time.
func (s *EvaluationService) Create(ctx context.Context, actor *domain.User, input EvaluationCreateInput) (*domain.Evaluation, error) {
	if !authz.AllowedAny(actor, authz.OpCreateEvaluation) {
		return nil, apperrors.NewForbidden("cannot create evaluations")
	}
	if err := validateSubScores(input.Scores); err != nil {
		return nil, err
	}

	call, err := s.calls.GetByID(ctx, input.CallID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("call", nil)
		}
		return nil, apperrors.MapError(err)
	}

	eval := &domain.Evaluation{
		CallID:              call.ID,
		EvaluatorID:         actor.ID,
		GreetingScore:       input.Scores.Greeting,
		CommunicationScore:  input.Scores.Communication,
		ProblemSolvingScore: input.Scores.ProblemSolving,
		EmpathyScore:        input.Scores.Empathy,
		ProcedureScore:      input.Scores.Procedure,
		ClosingScore:        input.Scores.Closing,
		PositivePoints:      input.PositivePoints,
		ImprovementPoints:   input.ImprovementPoints,
		GeneralComments:     input.GeneralComments,
		RequiresCoaching:    input.RequiresCoaching,
		IsExemplary:         input.IsExemplary,
	}
	eval.ComputeOverallScore()

	if err := s.evaluations.Create(ctx, eval); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventEvaluationSubmitted,
		ActorID: actor.ID,
		Payload: events.EvaluationSubmittedPayload{
			EvaluationID: eval.ID,
			CallID:       eval.CallID,
			EvaluatorID:  eval.EvaluatorID,
			OverallScore: eval.OverallScore,
		},
	})
	if eval.RequiresCoaching {
		s.publish(ctx, events.Event{
			Type:    events.EventCoachingFlagged,
			ActorID: actor.ID,
			Payload: events.CoachingFlaggedPayload{
				EvaluationID: eval.ID,
				CallID:       eval.CallID,
				OperatorID:   call.OperatorID,
			},
		})
	}
	return eval, nil
}

// List returns a page of evaluations visible to the actor. Operators are
// scoped through the parent call's operator.
func (s *EvaluationService) List(ctx context.Context, actor *domain.User, input EvaluationListInput) ([]domain.Evaluation, Pagination, error) {
	page, perPage := normalizePage(input.Page, input.PerPage)

	filter := repository.EvaluationFilter{
		CallID:           input.CallID,
		EvaluatorID:      input.EvaluatorID,
		OperatorID:       input.OperatorID,
		RequiresCoaching: input.RequiresCoaching,
		IsExemplary:      input.IsExemplary,
		Limit:            perPage,
		Offset:           (page - 1) * perPage,
	}
	if !authz.AllowedAny(actor, authz.OpReadEvaluation) {
		filter.OperatorID = &actor.ID
	}

	evals, total, err := s.evaluations.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, Pagination{}, apperrors.MapError(err)
	}
	return evals, paginate(total, page, perPage), nil
}

// Get fetches an evaluation, enforcing read scope through the parent call.
func (s *EvaluationService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Evaluation, error) {
	eval, err := s.evaluations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("evaluation", nil)
		}
		return nil, apperrors.MapError(err)
	}

	if !authz.AllowedAny(actor, authz.OpReadEvaluation) {
		call, err := s.calls.GetByID(ctx, eval.CallID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if !authz.Allowed(actor, authz.OpReadEvaluation, call.OperatorID) {
			return nil, apperrors.NewForbidden("cannot view this evaluation")
		}
	}
	return eval, nil
}

// Update patches an evaluation and recomputes the overall score. Supervisors
// may only touch their own evaluations; admins may touch any.
func (s *EvaluationService) Update(ctx context.Context, actor *domain.User, id string, input EvaluationUpdateInput) (*domain.Evaluation, error) {
	if err := validateSubScores(input.Scores); err != nil {
		return nil, err
	}

	eval, err := s.evaluations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("evaluation", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !authz.Allowed(actor, authz.OpUpdateEvaluation, eval.EvaluatorID) {
		return nil, apperrors.NewForbidden("cannot update this evaluation")
	}

	if input.Scores.Greeting != nil {
		eval.GreetingScore = input.Scores.Greeting
	}
	if input.Scores.Communication != nil {
		eval.CommunicationScore = input.Scores.Communication
	}
	if input.Scores.ProblemSolving != nil {
		eval.ProblemSolvingScore = input.Scores.ProblemSolving
	}
	if input.Scores.Empathy != nil {
		eval.EmpathyScore = input.Scores.Empathy
	}
	if input.Scores.Procedure != nil {
		eval.ProcedureScore = input.Scores.Procedure
	}
	if input.Scores.Closing != nil {
		eval.ClosingScore = input.Scores.Closing
	}
	if input.PositivePoints != nil {
		eval.PositivePoints = input.PositivePoints
	}
	if input.ImprovementPoints != nil {
		eval.ImprovementPoints = input.ImprovementPoints
	}
	if input.GeneralComments != nil {
		eval.GeneralComments = input.GeneralComments
	}
	if input.RequiresCoaching != nil {
		eval.RequiresCoaching = *input.RequiresCoaching
	}
	if input.IsExemplary != nil {
		eval.IsExemplary = *input.IsExemplary
	}

	// Always re-derive; the stored overall score never survives a write
	// independently of its inputs.
	eval.ComputeOverallScore()

	if err := s.evaluations.Update(ctx, eval); err != nil {
		return nil, apperrors.MapError(err)
	}
	return eval, nil
}

// Delete removes an evaluation. Admin only.
func (s *EvaluationService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if !authz.AllowedAny(actor, authz.OpDeleteEvaluation) {
		return apperrors.NewForbidden("cannot delete evaluations")
	}

	if err := s.evaluations.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("evaluation", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *EvaluationService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.Timestamp = s.now()
	_ = s.dispatcher.Publish(ctx, event)
}
