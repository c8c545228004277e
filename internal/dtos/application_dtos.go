package dtos

import (
	"time"

	"github.com/google/uuid"
)

// ApplicantDTO is one member of the applying household. BankDetails is
// the packed `name|account|ifsc` string; it is parsed on approval.
type ApplicantDTO struct {
	Name        string `json:"name" validate:"required"`
	Age         int    `json:"age" validate:"required,gt=0"`
	Gender      string `json:"gender" validate:"required"`
	BankDetails string `json:"bank_details" validate:"required"`
}

// SubmitApplicationRequest is the direct-JSON body for submitting a job
// card application. The same shape may arrive as the `data` field of a
// multipart form with an attached proof image.
type SubmitApplicationRequest struct {
	NationalID string         `json:"national_id" validate:"required,len=12,numeric"`
	Phone      string         `json:"phone" validate:"required,len=10,numeric"`
	Address    string         `json:"address" validate:"required"`
	Village    string         `json:"village" validate:"required"`
	District   string         `json:"district" validate:"required"`
	State      string         `json:"state" validate:"required"`
	Pincode    string         `json:"pincode" validate:"required,len=6,numeric"`
	Applicants []ApplicantDTO `json:"applicants" validate:"required,min=1,dive"`
}

type RejectApplicationRequest struct {
	Reason *string `json:"reason,omitempty"`
}

type ApplicationResponse struct {
	TrackingID      string     `json:"tracking_id"`
	NationalID      string     `json:"national_id"`
	Status          string     `json:"status"`
	LinkedJobCardID *uuid.UUID `json:"linked_job_card_id,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	SubmittedAt     time.Time  `json:"submitted_at"`
}
