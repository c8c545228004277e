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

type PaymentService interface {
	// GeneratePayments derives PENDING payments from PRESENT attendance
	// on the project, optionally restricted to [from, to]. Workers whose
	// computed amount matches an existing payment on the project are
	// skipped rather than double-billed.
	GeneratePayments(ctx context.Context, projectID uuid.UUID, from, to *time.Time) ([]*models.Payment, error)

	Create(ctx context.Context, workerID, projectID uuid.UUID, amountPaise int64, daysWorked int) (*models.Payment, error)
	Approve(ctx context.Context, id uuid.UUID, adminID *uuid.UUID) (*models.Payment, error)
	Reject(ctx context.Context, id uuid.UUID, adminID *uuid.UUID) (*models.Payment, error)
	MarkAsPaid(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Payment, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.Payment, error)
	List(ctx context.Context, status *models.PaymentStatusType, limit, offset int) ([]*models.Payment, error)
}

type paymentService struct {
	paymentRepo    repositories.PaymentRepository
	attendanceRepo repositories.AttendanceRepository
	projectRepo    repositories.ProjectRepository
	identityRepo   repositories.IdentityRepository
	now            func() time.Time
}

func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	attendanceRepo repositories.AttendanceRepository,
	projectRepo repositories.ProjectRepository,
	identityRepo repositories.IdentityRepository,
) PaymentService {
	return &paymentService{
		paymentRepo:    paymentRepo,
		attendanceRepo: attendanceRepo,
		projectRepo:    projectRepo,
		identityRepo:   identityRepo,
		now:            time.Now,
	}
}

func (s *paymentService) GeneratePayments(ctx context.Context, projectID uuid.UUID, from, to *time.Time) ([]*models.Payment, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, utils.ErrNotFound
	}

	// Pull everything in range; volume per project is small enough
	// that paging here would be noise.
	records, err := s.attendanceRepo.ListByProject(ctx, projectID, from, to, 0, 0)
	if err != nil {
		return nil, err
	}

	daysByWorker := make(map[uuid.UUID]int)
	for _, rec := range records {
		if rec.Status == models.AttendancePresent {
			daysByWorker[rec.WorkerID]++
		}
	}

	existing, err := s.paymentRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	settled := make(map[uuid.UUID]map[int64]bool)
	for _, p := range existing {
		if settled[p.WorkerID] == nil {
			settled[p.WorkerID] = make(map[int64]bool)
		}
		settled[p.WorkerID][p.AmountPaise] = true
	}

	created := make([]*models.Payment, 0, len(daysByWorker))
	for workerID, days := range daysByWorker {
		amount := int64(days) * project.WagePerWorker
		if amount == 0 {
			continue
		}
		if settled[workerID][amount] {
			// Same worker, same amount: treat the batch as already
			// settled. Coarse, but re-running settlement must not
			// mint duplicate payments.
			continue
		}

		p := &models.Payment{
			ID:          uuid.New(),
			WorkerID:    workerID,
			ProjectID:   projectID,
			AmountPaise: amount,
			DaysWorked:  days,
			Status:      models.PaymentStatusPending,
		}
		if err := s.paymentRepo.Create(ctx, p); err != nil {
			return created, err
		}
		created = append(created, p)
	}
	utils.Logger.Infof("Settlement for project %s created %d payment(s)", projectID, len(created))
	return created, nil
}

func (s *paymentService) Create(ctx context.Context, workerID, projectID uuid.UUID, amountPaise int64, daysWorked int) (*models.Payment, error) {
	if amountPaise <= 0 {
		return nil, &utils.AppError{
			StatusCode: 400,
			Code:       utils.ErrCodeValidation,
			Message:    "amount must be positive",
		}
	}
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, utils.ErrNotFound
	}
	worker, err := s.identityRepo.GetByID(ctx, workerID)
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, utils.ErrNotFound
	}

	p := &models.Payment{
		ID:          uuid.New(),
		WorkerID:    workerID,
		ProjectID:   projectID,
		AmountPaise: amountPaise,
		DaysWorked:  daysWorked,
		Status:      models.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// requireAdmin resolves adminID and confirms the ADMIN role. Payment
// approval and rejection are admin-only actions.
func (s *paymentService) requireAdmin(ctx context.Context, adminID *uuid.UUID) (*models.Identity, error) {
	if adminID == nil {
		return nil, utils.ErrForbidden
	}
	admin, err := s.identityRepo.GetByID(ctx, *adminID)
	if err != nil {
		return nil, err
	}
	if admin == nil || admin.Role != models.RoleAdmin {
		return nil, utils.ErrForbidden
	}
	return admin, nil
}

func (s *paymentService) Approve(ctx context.Context, id uuid.UUID, adminID *uuid.UUID) (*models.Payment, error) {
	admin, err := s.requireAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	p, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, utils.ErrNotFound
	}
	if p.Status != models.PaymentStatusPending {
		return nil, utils.ErrInvalidState
	}

	at := s.now()
	if err := s.paymentRepo.ApproveIf(ctx, id, admin.ID, at); err != nil {
		if errors.Is(err, utils.ErrNoRowsUpdated) {
			return nil, utils.ErrInvalidState
		}
		return nil, err
	}

	p.Status = models.PaymentStatusApproved
	p.ApprovedBy = &admin.ID
	p.ApprovedAt = &at
	return p, nil
}

func (s *paymentService) Reject(ctx context.Context, id uuid.UUID, adminID *uuid.UUID) (*models.Payment, error) {
	admin, err := s.requireAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	p, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, utils.ErrNotFound
	}
	if p.Status != models.PaymentStatusPending {
		return nil, utils.ErrInvalidState
	}

	if err := s.paymentRepo.RejectIf(ctx, id, admin.ID); err != nil {
		if errors.Is(err, utils.ErrNoRowsUpdated) {
			return nil, utils.ErrInvalidState
		}
		return nil, err
	}

	p.Status = models.PaymentStatusRejected
	return p, nil
}

func (s *paymentService) MarkAsPaid(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	p, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, utils.ErrNotFound
	}
	if p.Status != models.PaymentStatusApproved {
		return nil, utils.ErrInvalidState
	}

	at := s.now()
	if err := s.paymentRepo.MarkPaidIf(ctx, id, at); err != nil {
		if errors.Is(err, utils.ErrNoRowsUpdated) {
			return nil, utils.ErrInvalidState
		}
		return nil, err
	}

	p.Status = models.PaymentStatusPaid
	p.PaidAt = &at
	return p, nil
}

func (s *paymentService) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return utils.ErrNotFound
	}
	if p.Status != models.PaymentStatusPending {
		return utils.ErrInvalidState
	}

	if err := s.paymentRepo.DeleteIfPending(ctx, id); err != nil {
		if errors.Is(err, utils.ErrNoRowsUpdated) {
			return utils.ErrInvalidState
		}
		return err
	}
	return nil
}

func (s *paymentService) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	p, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, utils.ErrNotFound
	}
	return p, nil
}

func (s *paymentService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Payment, error) {
	return s.paymentRepo.ListByProject(ctx, projectID)
}

func (s *paymentService) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.Payment, error) {
	return s.paymentRepo.ListByWorker(ctx, workerID)
}

func (s *paymentService) List(ctx context.Context, status *models.PaymentStatusType, limit, offset int) ([]*models.Payment, error) {
	return s.paymentRepo.List(ctx, status, limit, offset)
}
