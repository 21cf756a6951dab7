package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCall_CloseStampsOnce(t *testing.T) {
	first := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)

	call := Call{Status: CallStatusInProgress}

	call.Close(first)
	require.NotNil(t, call.ClosedAt)
	assert.Equal(t, CallStatusClosed, call.Status)
	assert.Equal(t, first, *call.ClosedAt)

	// Closing again must not move the stamp.
	call.Close(later)
	assert.Equal(t, first, *call.ClosedAt)
}

func TestValidCallStatus(t *testing.T) {
	for _, s := range []CallStatus{CallStatusOpen, CallStatusInProgress, CallStatusResolved, CallStatusClosed} {
		assert.True(t, ValidCallStatus(s), string(s))
	}
	assert.False(t, ValidCallStatus("archived"))
	assert.False(t, ValidCallStatus(""))
}

func TestValidCallPriority(t *testing.T) {
	for _, p := range []CallPriority{CallPriorityLow, CallPriorityMedium, CallPriorityHigh, CallPriorityUrgent} {
		assert.True(t, ValidCallPriority(p), string(p))
	}
	assert.False(t, ValidCallPriority("critical"))
	assert.False(t, ValidCallPriority(""))
}
