package dtos

import "github.com/google/uuid"

type GeneratePaymentsRequest struct {
	ProjectID uuid.UUID `json:"project_id" validate:"required"`
	From      *string   `json:"from,omitempty"` // YYYY-MM-DD
	To        *string   `json:"to,omitempty"`
}

type CreatePaymentRequest struct {
	WorkerID    uuid.UUID `json:"worker_id" validate:"required"`
	ProjectID   uuid.UUID `json:"project_id" validate:"required"`
	AmountPaise int64     `json:"amount_paise" validate:"required,gt=0"`
	DaysWorked  int       `json:"days_worked" validate:"gte=0"`
}
