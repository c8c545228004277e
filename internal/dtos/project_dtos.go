package dtos

type CreateProjectRequest struct {
	Name          string `json:"name" validate:"required"`
	Description   string `json:"description"`
	Location      string `json:"location" validate:"required"`
	WorkerNeed    int    `json:"worker_need" validate:"required,gt=0"`
	WagePerWorker int64  `json:"wage_per_worker" validate:"required,gt=0"`
	StartDate     string `json:"start_date" validate:"required"` // YYYY-MM-DD
	EndDate       string `json:"end_date" validate:"required"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	WorkerNeed  *int    `json:"worker_need,omitempty" validate:"omitempty,gt=0"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=PENDING ACTIVE COMPLETED"`
}
