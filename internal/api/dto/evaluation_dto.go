package dto

import (
	"time"

	"github.com/spec-kit/call-monitoring-service/internal/domain"
)

// CreateEvaluationRequest payload.
type CreateEvaluationRequest struct {
	CallID              string  `json:"call_id" validate:"required"`
	GreetingScore       *int    `json:"greeting_score" validate:"omitempty,min=1,max=5"`
	CommunicationScore  *int    `json:"communication_score" validate:"omitempty,min=1,max=5"`
	ProblemSolvingScore *int    `json:"problem_solving_score" validate:"omitempty,min=1,max=5"`
	EmpathyScore        *int    `json:"empathy_score" validate:"omitempty,min=1,max=5"`
	ProcedureScore      *int    `json:"procedure_score" validate:"omitempty,min=1,max=5"`
	ClosingScore        *int    `json:"closing_score" validate:"omitempty,min=1,max=5"`
	PositivePoints      *string `json:"positive_points"`
	ImprovementPoints   *string `json:"improvement_points"`
	GeneralComments     *string `json:"general_comments"`
	RequiresCoaching    bool    `json:"requires_coaching"`
	IsExemplary         bool    `json:"is_exemplary"`
}

// UpdateEvaluationRequest payload; absent fields are left untouched.
type UpdateEvaluationRequest struct {
	GreetingScore       *int    `json:"greeting_score" validate:"omitempty,min=1,max=5"`
	CommunicationScore  *int    `json:"communication_score" validate:"omitempty,min=1,max=5"`
	ProblemSolvingScore *int    `json:"problem_solving_score" validate:"omitempty,min=1,max=5"`
	EmpathyScore        *int    `json:"empathy_score" validate:"omitempty,min=1,max=5"`
	ProcedureScore      *int    `json:"procedure_score" validate:"omitempty,min=1,max=5"`
	ClosingScore        *int    `json:"closing_score" validate:"omitempty,min=1,max=5"`
	PositivePoints      *string `json:"positive_points"`
	ImprovementPoints   *string `json:"improvement_points"`
	GeneralComments     *string `json:"general_comments"`
	RequiresCoaching    *bool   `json:"requires_coaching"`
	IsExemplary         *bool   `json:"is_exemplary"`
}

// EvaluationResponse response.
type EvaluationResponse struct {
	ID                  string    `json:"id"`
	CallID              string    `json:"call_id"`
	EvaluatorID         string    `json:"evaluator_id"`
	GreetingScore       *int      `json:"greeting_score"`
	CommunicationScore  *int      `json:"communication_score"`
	ProblemSolvingScore *int      `json:"problem_solving_score"`
	EmpathyScore        *int      `json:"empathy_score"`
	ProcedureScore      *int      `json:"procedure_score"`
	ClosingScore        *int      `json:"closing_score"`
	OverallScore        float64   `json:"overall_score"`
	PositivePoints      *string   `json:"positive_points"`
	ImprovementPoints   *string   `json:"improvement_points"`
	GeneralComments     *string   `json:"general_comments"`
	RequiresCoaching    bool      `json:"requires_coaching"`
	IsExemplary         bool      `json:"is_exemplary"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// NewEvaluationResponse maps a domain evaluation.
func NewEvaluationResponse(e *domain.Evaluation) EvaluationResponse {
	return EvaluationResponse{
		ID:                  e.ID,
		CallID:              e.CallID,
		EvaluatorID:         e.EvaluatorID,
		GreetingScore:       e.GreetingScore,
		CommunicationScore:  e.CommunicationScore,
		ProblemSolvingScore: e.ProblemSolvingScore,
		EmpathyScore:        e.EmpathyScore,
		ProcedureScore:      e.ProcedureScore,
		ClosingScore:        e.ClosingScore,
		OverallScore:        e.OverallScore,
		PositivePoints:      e.PositivePoints,
		ImprovementPoints:   e.ImprovementPoints,
		GeneralComments:     e.GeneralComments,
		RequiresCoaching:    e.RequiresCoaching,
		IsExemplary:         e.IsExemplary,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}

// NewEvaluationResponses maps a slice of domain evaluations.
func NewEvaluationResponses(evals []domain.Evaluation) []EvaluationResponse {
	items := make([]EvaluationResponse, 0, len(evals))
	for i := range evals {
		items = append(items, NewEvaluationResponse(&evals[i]))
	}
	return items
}

// EvaluationListResponse envelope with pagination figures.
type EvaluationListResponse struct {
	Evaluations []EvaluationResponse `json:"evaluations"`
	Total       int64                `json:"total"`
	Pages       int                  `json:"pages"`
	CurrentPage int                  `json:"current_page"`
}
