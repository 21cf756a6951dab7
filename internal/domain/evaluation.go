package domain

import "time"

// Rubric score bounds for every sub-score.
const (
	ScoreMin = 1
	ScoreMax = 5
)

// Evaluation is a supervisor's rubric-based review of a single call.
// One call may carry several evaluations, one per evaluator.
type Evaluation struct {
	ID                  string
	CallID              string
	EvaluatorID         string
	GreetingScore       *int
	CommunicationScore  *int
	ProblemSolvingScore *int
	EmpathyScore        *int
	ProcedureScore      *int
	ClosingScore        *int
	OverallScore        float64
	PositivePoints      *string
	ImprovementPoints   *string
	GeneralComments     *string
	RequiresCoaching    bool
	IsExemplary         bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// SubScores returns the six rubric sub-scores in rubric order.
func (e *Evaluation) SubScores() []*int {
	return []*int{
		e.GreetingScore,
		e.CommunicationScore,
		e.ProblemSolvingScore,
		e.EmpathyScore,
		e.ProcedureScore,
		e.ClosingScore,
	}
}

// ComputeOverallScore recalculates OverallScore as the arithmetic mean of the
// sub-scores that are present. With no sub-scores present the result is 0.0.
// Must be called on every write that touches a sub-score so the stored value
// never drifts from its inputs.
func (e *Evaluation) ComputeOverallScore() float64 {
	sum, count := 0, 0
	for _, s := range e.SubScores() {
		if s != nil {
			sum += *s
			count++
		}
	}
	if count == 0 {
		e.OverallScore = 0.0
		return e.OverallScore
	}
	e.OverallScore = float64(sum) / float64(count)
	return e.OverallScore
}
