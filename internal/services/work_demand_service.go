package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/repositories"
	"github.com/gramsetu/employment-service/internal/utils"
)

type WorkDemandService interface {
	Create(ctx context.Context, workerID uuid.UUID) (*models.WorkDemandRequest, error)
	// Approve allocates the request, stamping allocatedAt when the
	// caller does not supply one.
	Approve(ctx context.Context, id uuid.UUID, projectID *uuid.UUID, allocatedAt *time.Time) (*models.WorkDemandRequest, error)
	Reject(ctx context.Context, id uuid.UUID) (*models.WorkDemandRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.WorkDemandRequest, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.WorkDemandRequest, error)
	List(ctx context.Context, status *models.WorkDemandStatusType, limit, offset int) ([]*models.WorkDemandRequest, error)

	// AssignWorkers creates pre-approved requests binding each worker
	// to the project. The whole batch is validated eagerly but applied
	// per worker; the first violation aborts the rest.
	AssignWorkers(ctx context.Context, projectID uuid.UUID, workerIDs []uuid.UUID) ([]*models.WorkDemandRequest, error)
}

type workDemandService struct {
	demandRepo   repositories.WorkDemandRepository
	projectRepo  repositories.ProjectRepository
	identityRepo repositories.IdentityRepository
	now          func() time.Time
}

func NewWorkDemandService(
	demandRepo repositories.WorkDemandRepository,
	projectRepo repositories.ProjectRepository,
	identityRepo repositories.IdentityRepository,
) WorkDemandService {
	return &workDemandService{
		demandRepo:   demandRepo,
		projectRepo:  projectRepo,
		identityRepo: identityRepo,
		now:          time.Now,
	}
}

// ensureFree returns an ActiveAssignmentError when the worker already
// holds an approved request on a project that has not ended.
func (s *workDemandService) ensureFree(ctx context.Context, workerID uuid.UUID) error {
	active, err := s.demandRepo.GetActiveAssignment(ctx, workerID, s.now())
	if err != nil {
		return err
	}
	if active != nil {
		return &utils.ActiveAssignmentError{ProjectEndDate: active.ProjectEndDate}
	}
	return nil
}

func (s *workDemandService) Create(ctx context.Context, workerID uuid.UUID) (*models.WorkDemandRequest, error) {
	worker, err := s.identityRepo.GetByID(ctx, workerID)
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, utils.ErrNotFound
	}

	if err := s.ensureFree(ctx, workerID); err != nil {
		return nil, err
	}

	req := &models.WorkDemandRequest{
		ID:          uuid.New(),
		WorkerID:    workerID,
		Status:      models.WorkDemandStatusPending,
		RequestTime: s.now(),
	}
	if err := s.demandRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	utils.Logger.Infof("Work demand %s opened by worker %s", req.ID, workerID)
	return req, nil
}

func (s *workDemandService) Approve(ctx context.Context, id uuid.UUID, projectID *uuid.UUID, allocatedAt *time.Time) (*models.WorkDemandRequest, error) {
	req, err := s.demandRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, utils.ErrNotFound
	}
	if req.Status != models.WorkDemandStatusPending {
		return nil, utils.ErrInvalidState
	}

	if projectID != nil {
		project, err := s.projectRepo.GetByID(ctx, *projectID)
		if err != nil {
			return nil, err
		}
		if project == nil {
			return nil, utils.ErrNotFound
		}
	}

	at := s.now()
	if allocatedAt != nil {
		at = *allocatedAt
	}
	if err := s.demandRepo.ApproveIfPending(ctx, id, projectID, at); err != nil {
		if errors.Is(err, utils.ErrNoRowsUpdated) {
			return nil, utils.ErrInvalidState
		}
		return nil, err
	}

	req.Status = models.WorkDemandStatusApproved
	if projectID != nil {
		req.ProjectID = projectID
	}
	req.AllocatedAt = &at
	return req, nil
}

func (s *workDemandService) Reject(ctx context.Context, id uuid.UUID) (*models.WorkDemandRequest, error) {
	req, err := s.demandRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, utils.ErrNotFound
	}
	if req.Status != models.WorkDemandStatusPending {
		return nil, utils.ErrInvalidState
	}

	if err := s.demandRepo.RejectIfNotTerminal(ctx, id); err != nil {
		if errors.Is(err, utils.ErrNoRowsUpdated) {
			return nil, utils.ErrInvalidState
		}
		return nil, err
	}

	req.Status = models.WorkDemandStatusRejected
	return req, nil
}

func (s *workDemandService) GetByID(ctx context.Context, id uuid.UUID) (*models.WorkDemandRequest, error) {
	req, err := s.demandRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, utils.ErrNotFound
	}
	return req, nil
}

func (s *workDemandService) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.WorkDemandRequest, error) {
	return s.demandRepo.ListByWorker(ctx, workerID)
}

func (s *workDemandService) List(ctx context.Context, status *models.WorkDemandStatusType, limit, offset int) ([]*models.WorkDemandRequest, error) {
	return s.demandRepo.List(ctx, status, limit, offset)
}

func (s *workDemandService) AssignWorkers(ctx context.Context, projectID uuid.UUID, workerIDs []uuid.UUID) ([]*models.WorkDemandRequest, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, utils.ErrNotFound
	}

	now := s.now()
	created := make([]*models.WorkDemandRequest, 0, len(workerIDs))
	for _, workerID := range workerIDs {
		worker, err := s.identityRepo.GetByID(ctx, workerID)
		if err != nil {
			return created, err
		}
		if worker == nil {
			return created, utils.ErrNotFound
		}
		if err := s.ensureFree(ctx, workerID); err != nil {
			return created, err
		}

		pid := projectID
		req := &models.WorkDemandRequest{
			ID:          uuid.New(),
			WorkerID:    workerID,
			ProjectID:   &pid,
			Status:      models.WorkDemandStatusApproved,
			RequestTime: now,
			AllocatedAt: &now,
		}
		if err := s.demandRepo.Create(ctx, req); err != nil {
			return created, err
		}
		created = append(created, req)
	}
	utils.Logger.Infof("Assigned %d worker(s) to project %s", len(created), projectID)
	return created, nil
}
