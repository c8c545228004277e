package dtos

import "github.com/google/uuid"

type MarkAttendanceRequest struct {
	WorkerID  uuid.UUID `json:"worker_id" validate:"required"`
	ProjectID uuid.UUID `json:"project_id" validate:"required"`
	Date      string    `json:"date" validate:"required"` // YYYY-MM-DD
	Status    string    `json:"status" validate:"required,oneof=PRESENT ABSENT LEAVE"`
}

type UpdateAttendanceRequest struct {
	Status string `json:"status" validate:"required,oneof=PRESENT ABSENT LEAVE"`
}
