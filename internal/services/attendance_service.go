package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/repositories"
	"github.com/gramsetu/employment-service/internal/utils"
)

type MarkAttendanceInput struct {
	WorkerID  uuid.UUID
	ProjectID uuid.UUID
	Date      time.Time
	Status    models.AttendanceStatusType
	MarkedBy  uuid.UUID
}

type AttendanceService interface {
	Mark(ctx context.Context, in MarkAttendanceInput) (*models.Attendance, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.AttendanceStatusType) (*models.Attendance, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Attendance, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, from, to *time.Time, limit, offset int) ([]*models.Attendance, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID, from, to *time.Time, limit, offset int) ([]*models.Attendance, error)
}

type attendanceService struct {
	attendanceRepo repositories.AttendanceRepository
	demandRepo     repositories.WorkDemandRepository
	projectRepo    repositories.ProjectRepository
	reportingTZ    *time.Location
	now            func() time.Time
}

// NewAttendanceService builds the attendance service. reportingTZ is
// the zone in which "today" is decided for the future-date check.
func NewAttendanceService(
	attendanceRepo repositories.AttendanceRepository,
	demandRepo repositories.WorkDemandRepository,
	projectRepo repositories.ProjectRepository,
	reportingTZ *time.Location,
) AttendanceService {
	if reportingTZ == nil {
		reportingTZ = time.UTC
	}
	return &attendanceService{
		attendanceRepo: attendanceRepo,
		demandRepo:     demandRepo,
		projectRepo:    projectRepo,
		reportingTZ:    reportingTZ,
		now:            time.Now,
	}
}

// truncateToDay normalizes a timestamp to midnight in the reporting
// zone so the uniqueness key is day-granular.
func (s *attendanceService) truncateToDay(t time.Time) time.Time {
	t = t.In(s.reportingTZ)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.reportingTZ)
}

func (s *attendanceService) Mark(ctx context.Context, in MarkAttendanceInput) (*models.Attendance, error) {
	switch in.Status {
	case models.AttendancePresent, models.AttendanceAbsent, models.AttendanceLeave:
	default:
		return nil, &utils.AppError{
			StatusCode: 400,
			Code:       utils.ErrCodeValidation,
			Message:    "status must be PRESENT, ABSENT or LEAVE",
		}
	}

	day := s.truncateToDay(in.Date)
	today := s.truncateToDay(s.now())
	if day.After(today) {
		return nil, utils.ErrFutureDate
	}

	project, err := s.projectRepo.GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, utils.ErrNotFound
	}

	assigned, err := s.demandRepo.HasApprovedForProject(ctx, in.WorkerID, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, &utils.AppError{
			StatusCode: 409,
			Code:       utils.ErrCodeConflict,
			Message:    "worker is not assigned to this project",
		}
	}

	existing, err := s.attendanceRepo.GetByWorkerProjectDate(ctx, in.WorkerID, in.ProjectID, day)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.ErrDuplicateForDate
	}

	rec := &models.Attendance{
		ID:        uuid.New(),
		WorkerID:  in.WorkerID,
		ProjectID: in.ProjectID,
		Date:      day,
		Status:    in.Status,
		MarkedBy:  in.MarkedBy,
	}
	if err := s.attendanceRepo.Create(ctx, rec); err != nil {
		// The unique index is the real guard; the lookup above only
		// gives a friendlier fast path.
		if repositories.IsUniqueViolation(err) {
			return nil, utils.ErrDuplicateForDate
		}
		return nil, err
	}
	return rec, nil
}

func (s *attendanceService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AttendanceStatusType) (*models.Attendance, error) {
	switch status {
	case models.AttendancePresent, models.AttendanceAbsent, models.AttendanceLeave:
	default:
		return nil, &utils.AppError{
			StatusCode: 400,
			Code:       utils.ErrCodeValidation,
			Message:    "status must be PRESENT, ABSENT or LEAVE",
		}
	}

	rec, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, utils.ErrNotFound
	}

	if err := s.attendanceRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	rec.Status = status
	return rec, nil
}

func (s *attendanceService) Delete(ctx context.Context, id uuid.UUID) error {
	rec, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return utils.ErrNotFound
	}
	return s.attendanceRepo.Delete(ctx, id)
}

func (s *attendanceService) GetByID(ctx context.Context, id uuid.UUID) (*models.Attendance, error) {
	rec, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, utils.ErrNotFound
	}
	return rec, nil
}

func (s *attendanceService) ListByProject(ctx context.Context, projectID uuid.UUID, from, to *time.Time, limit, offset int) ([]*models.Attendance, error) {
	return s.attendanceRepo.ListByProject(ctx, projectID, from, to, limit, offset)
}

func (s *attendanceService) ListByWorker(ctx context.Context, workerID uuid.UUID, from, to *time.Time, limit, offset int) ([]*models.Attendance, error) {
	return s.attendanceRepo.ListByWorker(ctx, workerID, from, to, limit, offset)
}
