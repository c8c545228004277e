package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatusType defines the possible states of a works project.
type ProjectStatusType string

const (
	ProjectStatusPending   ProjectStatusType = "PENDING"
	ProjectStatusActive    ProjectStatusType = "ACTIVE"
	ProjectStatusCompleted ProjectStatusType = "COMPLETED"
)

// Project is a works project that demands labour. WagePerWorker is the
// statutory daily wage in minor currency units (paise). Owned by an
// admin identity; read by the work-demand and settlement flows.
type Project struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Location      string            `json:"location"`
	WorkerNeed    int               `json:"worker_need"`
	WagePerWorker int64             `json:"wage_per_worker"`
	StartDate     time.Time         `json:"start_date"`
	EndDate       time.Time         `json:"end_date"`
	Status        ProjectStatusType `json:"status"`
	OwnerID       uuid.UUID         `json:"owner_id"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
