package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatusType defines the possible states of a wage payment.
// Transitions move strictly PENDING→{APPROVED,REJECTED}, APPROVED→PAID.
type PaymentStatusType string

const (
	PaymentStatusPending  PaymentStatusType = "PENDING"
	PaymentStatusApproved PaymentStatusType = "APPROVED"
	PaymentStatusRejected PaymentStatusType = "REJECTED"
	PaymentStatusPaid     PaymentStatusType = "PAID"
)

// Payment is a wage payment derived from PRESENT attendance on a
// project (or created directly by an admin). AmountPaise is
// daysWorked × the project's daily wage, in minor currency units.
// ApprovedAt and PaidAt are stamped exactly once, on the transition
// into that state.
type Payment struct {
	ID          uuid.UUID         `json:"id"`
	WorkerID    uuid.UUID         `json:"worker_id"`
	ProjectID   uuid.UUID         `json:"project_id"`
	AmountPaise int64             `json:"amount_paise"`
	DaysWorked  int               `json:"days_worked"`
	Status      PaymentStatusType `json:"status"`
	ApprovedBy  *uuid.UUID        `json:"approved_by,omitempty"`
	ApprovedAt  *time.Time        `json:"approved_at,omitempty"`
	PaidAt      *time.Time        `json:"paid_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
