package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkDemandStatusType defines the states of a work-demand request.
// PENDING may move to APPROVED or REJECTED; both are terminal.
type WorkDemandStatusType string

const (
	WorkDemandStatusPending  WorkDemandStatusType = "PENDING"
	WorkDemandStatusApproved WorkDemandStatusType = "APPROVED"
	WorkDemandStatusRejected WorkDemandStatusType = "REJECTED"
)

// WorkDemandRequest is a worker's formal ask to be given work.
// ProjectID and AllocatedAt are set only on approval; approval without
// a project is permitted (demand acknowledged before allocation
// logistics are finalized).
type WorkDemandRequest struct {
	ID          uuid.UUID            `json:"id"`
	WorkerID    uuid.UUID            `json:"worker_id"`
	ProjectID   *uuid.UUID           `json:"project_id,omitempty"`
	Status      WorkDemandStatusType `json:"status"`
	RequestTime time.Time            `json:"request_time"`
	AllocatedAt *time.Time           `json:"allocated_at,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}
