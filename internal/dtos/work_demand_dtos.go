package dtos

import (
	"time"

	"github.com/google/uuid"
)

type ApproveWorkDemandRequest struct {
	ProjectID   *uuid.UUID `json:"project_id,omitempty"`
	AllocatedAt *time.Time `json:"allocated_at,omitempty"`
}

type AssignWorkersRequest struct {
	ProjectID uuid.UUID   `json:"project_id" validate:"required"`
	WorkerIDs []uuid.UUID `json:"worker_ids" validate:"required,min=1"`
}
