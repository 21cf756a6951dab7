package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestEvaluation_ComputeOverallScore(t *testing.T) {
	tests := []struct {
		name string
		eval Evaluation
		want float64
	}{
		{
			name: "all six scores present",
			eval: Evaluation{
				GreetingScore:       intPtr(5),
				CommunicationScore:  intPtr(4),
				ProblemSolvingScore: intPtr(3),
				EmpathyScore:        intPtr(5),
				ProcedureScore:      intPtr(4),
				ClosingScore:        intPtr(3),
			},
			want: 4.0,
		},
		{
			name: "absent scores excluded from the mean",
			eval: Evaluation{
				GreetingScore:      intPtr(4),
				CommunicationScore: intPtr(5),
				EmpathyScore:       intPtr(3),
				ClosingScore:       intPtr(5),
			},
			want: 4.25,
		},
		{
			name: "single score",
			eval: Evaluation{ProcedureScore: intPtr(2)},
			want: 2.0,
		},
		{
			name: "no scores at all",
			eval: Evaluation{},
			want: 0.0,
		},
		{
			name: "non-terminating mean stays unrounded",
			eval: Evaluation{
				GreetingScore:      intPtr(3),
				CommunicationScore: intPtr(3),
				EmpathyScore:       intPtr(4),
			},
			want: 10.0 / 3.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.eval.ComputeOverallScore()
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.InDelta(t, tt.want, tt.eval.OverallScore, 1e-9)
		})
	}
}

func TestEvaluation_ComputeOverallScore_Recompute(t *testing.T) {
	eval := Evaluation{GreetingScore: intPtr(5), ClosingScore: intPtr(5)}
	assert.InDelta(t, 5.0, eval.ComputeOverallScore(), 1e-9)

	eval.ClosingScore = intPtr(1)
	assert.InDelta(t, 3.0, eval.ComputeOverallScore(), 1e-9)

	eval.GreetingScore = nil
	eval.ClosingScore = nil
	assert.InDelta(t, 0.0, eval.ComputeOverallScore(), 1e-9)
}

func TestEvaluation_SubScoresOrder(t *testing.T) {
	eval := Evaluation{
		GreetingScore:       intPtr(1),
		CommunicationScore:  intPtr(2),
		ProblemSolvingScore: intPtr(3),
		EmpathyScore:        intPtr(4),
		ProcedureScore:      intPtr(5),
		ClosingScore:        intPtr(1),
	}
	scores := eval.SubScores()
	assert.Len(t, scores, 6)
	assert.Equal(t, 1, *scores[0])
	assert.Equal(t, 2, *scores[1])
	assert.Equal(t, 3, *scores[2])
	assert.Equal(t, 4, *scores[3])
	assert.Equal(t, 5, *scores[4])
	assert.Equal(t, 1, *scores[5])
}
