package models

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceStatusType defines a worker's presence for one day.
type AttendanceStatusType string

const (
	AttendancePresent AttendanceStatusType = "PRESENT"
	AttendanceAbsent  AttendanceStatusType = "ABSENT"
	AttendanceLeave   AttendanceStatusType = "LEAVE"
)

// Attendance records a worker's presence on a project for one day.
// Unique on (WorkerID, ProjectID, Date); Date is stored at day
// granularity and may never be in the future at creation time.
type Attendance struct {
	ID        uuid.UUID            `json:"id"`
	WorkerID  uuid.UUID            `json:"worker_id"`
	ProjectID uuid.UUID            `json:"project_id"`
	Date      time.Time            `json:"date"`
	Status    AttendanceStatusType `json:"status"`
	MarkedBy  uuid.UUID            `json:"marked_by"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}
