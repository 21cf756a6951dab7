package dto

import (
	"time"

	"github.com/spec-kit/call-monitoring-service/internal/domain"
)

// CreateCallRequest payload.
type CreateCallRequest struct {
	OperatorID      *string `json:"operator_id"`
	CustomerName    string  `json:"customer_name" validate:"required"`
	CustomerPhone   *string `json:"customer_phone"`
	CustomerEmail   *string `json:"customer_email" validate:"omitempty,email"`
	Subject         string  `json:"subject" validate:"required"`
	Description     *string `json:"description"`
	Category        *string `json:"category"`
	Priority        string  `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Status          string  `json:"status" validate:"omitempty,oneof=open in_progress resolved closed"`
	DurationSeconds *int    `json:"duration_seconds" validate:"omitempty,min=0"`
	RecordingURL    *string `json:"recording_url" validate:"omitempty,url"`
	Notes           *string `json:"notes"`
}

// UpdateCallRequest payload; absent fields are left untouched.
type UpdateCallRequest struct {
	CustomerName    *string `json:"customer_name"`
	CustomerPhone   *string `json:"customer_phone"`
	CustomerEmail   *string `json:"customer_email" validate:"omitempty,email"`
	Subject         *string `json:"subject"`
	Description     *string `json:"description"`
	Category        *string `json:"category"`
	Priority        *string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Status          *string `json:"status" validate:"omitempty,oneof=open in_progress resolved closed"`
	DurationSeconds *int    `json:"duration_seconds" validate:"omitempty,min=0"`
	RecordingURL    *string `json:"recording_url" validate:"omitempty,url"`
	Notes           *string `json:"notes"`
}

// CallResponse response.
type CallResponse struct {
	ID              string     `json:"id"`
	Protocol        string     `json:"protocol"`
	OperatorID      string     `json:"operator_id"`
	CustomerName    string     `json:"customer_name"`
	CustomerPhone   *string    `json:"customer_phone"`
	CustomerEmail   *string    `json:"customer_email"`
	Subject         string     `json:"subject"`
	Description     *string    `json:"description"`
	Category        *string    `json:"category"`
	Priority        string     `json:"priority"`
	Status          string     `json:"status"`
	DurationSeconds *int       `json:"duration_seconds"`
	RecordingURL    *string    `json:"recording_url"`
	Notes           *string    `json:"notes"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	ClosedAt        *time.Time `json:"closed_at"`
}

// NewCallResponse maps a domain call.
func NewCallResponse(c *domain.Call) CallResponse {
	return CallResponse{
		ID:              c.ID,
		Protocol:        c.Protocol,
		OperatorID:      c.OperatorID,
		CustomerName:    c.CustomerName,
		CustomerPhone:   c.CustomerPhone,
		CustomerEmail:   c.CustomerEmail,
		Subject:         c.Subject,
		Description:     c.Description,
		Category:        c.Category,
		Priority:        string(c.Priority),
		Status:          string(c.Status),
		DurationSeconds: c.DurationSeconds,
		RecordingURL:    c.RecordingURL,
		Notes:           c.Notes,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		ClosedAt:        c.ClosedAt,
	}
}

// NewCallResponses maps a slice of domain calls.
func NewCallResponses(calls []domain.Call) []CallResponse {
	items := make([]CallResponse, 0, len(calls))
	for i := range calls {
		items = append(items, NewCallResponse(&calls[i]))
	}
	return items
}

// CallListResponse envelope with pagination figures.
type CallListResponse struct {
	Calls       []CallResponse `json:"calls"`
	Total       int64          `json:"total"`
	Pages       int            `json:"pages"`
	CurrentPage int            `json:"current_page"`
}

// CallDetailResponse bundles a call with its evaluations.
type CallDetailResponse struct {
	CallResponse
	Evaluations []EvaluationResponse `json:"evaluations"`
}
