package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/repositories"
	"github.com/gramsetu/employment-service/internal/utils"
)

type CreateProjectInput struct {
	Name          string
	Description   string
	Location      string
	WorkerNeed    int
	WagePerWorker int64
	StartDate     time.Time
	EndDate       time.Time
	OwnerID       uuid.UUID
}

type UpdateProjectInput struct {
	Name        *string
	Description *string
	Location    *string
	WorkerNeed  *int
	Status      *models.ProjectStatusType
}

type ProjectService interface {
	Create(ctx context.Context, in CreateProjectInput) (*models.Project, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateProjectInput) (*models.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context, status *models.ProjectStatusType, limit, offset int) ([]*models.Project, error)
}

type projectService struct {
	projectRepo  repositories.ProjectRepository
	identityRepo repositories.IdentityRepository
	minimumWage  int64
}

// NewProjectService builds the project CRUD service. minimumWage is the
// statutory daily minimum in paise; projects may not pay below it.
func NewProjectService(
	projectRepo repositories.ProjectRepository,
	identityRepo repositories.IdentityRepository,
	minimumWage int64,
) ProjectService {
	return &projectService{
		projectRepo:  projectRepo,
		identityRepo: identityRepo,
		minimumWage:  minimumWage,
	}
}

func (s *projectService) Create(ctx context.Context, in CreateProjectInput) (*models.Project, error) {
	if in.WorkerNeed <= 0 {
		return nil, &utils.AppError{
			StatusCode: 400,
			Code:       utils.ErrCodeValidation,
			Message:    "worker need must be positive",
		}
	}
	if in.WagePerWorker < s.minimumWage {
		return nil, &utils.AppError{
			StatusCode: 400,
			Code:       utils.ErrCodeValidation,
			Message:    "wage per worker is below the statutory minimum",
		}
	}
	if !in.StartDate.Before(in.EndDate) {
		return nil, &utils.AppError{
			StatusCode: 400,
			Code:       utils.ErrCodeValidation,
			Message:    "start date must be before end date",
		}
	}

	owner, err := s.identityRepo.GetByID(ctx, in.OwnerID)
	if err != nil {
		return nil, err
	}
	if owner == nil || owner.Role != models.RoleAdmin {
		return nil, utils.ErrForbidden
	}

	p := &models.Project{
		ID:            uuid.New(),
		Name:          in.Name,
		Description:   in.Description,
		Location:      in.Location,
		WorkerNeed:    in.WorkerNeed,
		WagePerWorker: in.WagePerWorker,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		Status:        models.ProjectStatusPending,
		OwnerID:       in.OwnerID,
	}
	if err := s.projectRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *projectService) Update(ctx context.Context, id uuid.UUID, in UpdateProjectInput) (*models.Project, error) {
	p, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, utils.ErrNotFound
	}

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Location != nil {
		p.Location = *in.Location
	}
	if in.WorkerNeed != nil {
		if *in.WorkerNeed <= 0 {
			return nil, &utils.AppError{
				StatusCode: 400,
				Code:       utils.ErrCodeValidation,
				Message:    "worker need must be positive",
			}
		}
		p.WorkerNeed = *in.WorkerNeed
	}
	if in.Status != nil {
		switch *in.Status {
		case models.ProjectStatusPending, models.ProjectStatusActive, models.ProjectStatusCompleted:
		default:
			return nil, &utils.AppError{
				StatusCode: 400,
				Code:       utils.ErrCodeValidation,
				Message:    "status must be PENDING, ACTIVE or COMPLETED",
			}
		}
		p.Status = *in.Status
	}

	if err := s.projectRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *projectService) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	p, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, utils.ErrNotFound
	}
	return p, nil
}

func (s *projectService) List(ctx context.Context, status *models.ProjectStatusType, limit, offset int) ([]*models.Project, error) {
	return s.projectRepo.List(ctx, status, limit, offset)
}
