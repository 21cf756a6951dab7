package domain

import "time"

// CallStatus enumerates lifecycle states for calls.
type CallStatus string

const (
	CallStatusOpen       CallStatus = "open"
	CallStatusInProgress CallStatus = "in_progress"
	CallStatusResolved   CallStatus = "resolved"
	CallStatusClosed     CallStatus = "closed"
)

// CallPriority enumerates urgency levels.
type CallPriority string

const (
	CallPriorityLow    CallPriority = "low"
	CallPriorityMedium CallPriority = "medium"
	CallPriorityHigh   CallPriority = "high"
	CallPriorityUrgent CallPriority = "urgent"
)

// ValidCallStatus reports whether s is a known status.
func ValidCallStatus(s CallStatus) bool {
	switch s {
	case CallStatusOpen, CallStatusInProgress, CallStatusResolved, CallStatusClosed:
		return true
	}
	return false
}

// ValidCallPriority reports whether p is a known priority.
func ValidCallPriority(p CallPriority) bool {
	switch p {
	case CallPriorityLow, CallPriorityMedium, CallPriorityHigh, CallPriorityUrgent:
		return true
	}
	return false
}

// Call is the aggregate for a recorded customer service call.
// Protocol is assigned at creation and never changes.
type Call struct {
	ID              string
	Protocol        string
	OperatorID      string
	CustomerName    string
	CustomerPhone   *string
	CustomerEmail   *string
	Subject         string
	Description     *string
	Category        *string
	Priority        CallPriority
	Status          CallStatus
	DurationSeconds *int
	RecordingURL    *string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ClosedAt        *time.Time
}

// Close stamps ClosedAt on the first transition to closed.
// Re-closing an already closed call leaves the timestamp untouched.
func (c *Call) Close(now time.Time) {
	c.Status = CallStatusClosed
	if c.ClosedAt == nil {
		t := now
		c.ClosedAt = &t
	}
}
