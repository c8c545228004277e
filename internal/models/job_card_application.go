package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatusType defines the possible states of a job-card application.
type ApplicationStatusType string

const (
	ApplicationStatusPending  ApplicationStatusType = "PENDING"
	ApplicationStatusApproved ApplicationStatusType = "APPROVED"
	ApplicationStatusRejected ApplicationStatusType = "REJECTED"
)

// Applicant is one member of the applying household. BankDetails carries
// the raw `name|account|ifsc` string as submitted; it is parsed only at
// approval time so malformed data fails loudly there.
type Applicant struct {
	Name        string `json:"name"`
	Age         int    `json:"age"`
	Gender      string `json:"gender"`
	BankDetails string `json:"bank_details,omitempty"`
}

// JobCardApplication tracks a household's request for a job card.
// Immutable after submission except Status and LinkedJobCardID, which
// the approval workflow sets exactly once. At most one PENDING
// application may exist per national ID.
type JobCardApplication struct {
	ID              uuid.UUID             `json:"id"`
	TrackingID      string                `json:"tracking_id"`
	NationalID      string                `json:"national_id"`
	Phone           string                `json:"phone"`
	Address         string                `json:"address"`
	Village         string                `json:"village"`
	District        string                `json:"district"`
	State           string                `json:"state"`
	Pincode         string                `json:"pincode"`
	Applicants      []Applicant           `json:"applicants"`
	ProofImageURL   *string               `json:"proof_image_url,omitempty"`
	Status          ApplicationStatusType `json:"status"`
	RejectionReason *string               `json:"rejection_reason,omitempty"`
	LinkedJobCardID *uuid.UUID            `json:"linked_job_card_id,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}
