package events

import (
	"time"

	"github.com/spec-kit/call-monitoring-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCallCreated         EventType = "call_created"
	EventCallStatusChanged   EventType = "call_status_changed"
	EventEvaluationSubmitted EventType = "evaluation_submitted"
	EventCoachingFlagged     EventType = "coaching_flagged"
)

// Event represents a domain event emitted by services.
type Event struct {
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// CallCreatedPayload payload.
type CallCreatedPayload struct {
	CallID     string              `json:"call_id"`
	Protocol   string              `json:"protocol"`
	OperatorID string              `json:"operator_id"`
	Priority   domain.CallPriority `json:"priority"`
}

// CallStatusChangedPayload payload.
type CallStatusChangedPayload struct {
	CallID    string            `json:"call_id"`
	Protocol  string            `json:"protocol"`
	OldStatus domain.CallStatus `json:"old_status"`
	NewStatus domain.CallStatus `json:"new_status"`
}

// EvaluationSubmittedPayload payload.
type EvaluationSubmittedPayload struct {
	EvaluationID string  `json:"evaluation_id"`
	CallID       string  `json:"call_id"`
	EvaluatorID  string  `json:"evaluator_id"`
	OverallScore float64 `json:"overall_score"`
}

// CoachingFlaggedPayload payload.
type CoachingFlaggedPayload struct {
	EvaluationID string `json:"evaluation_id"`
	CallID       string `json:"call_id"`
	OperatorID   string `json:"operator_id"`
}
