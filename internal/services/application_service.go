package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/repositories"
	"github.com/gramsetu/employment-service/internal/utils"
)

// SubmitApplicationInput is the canonical application payload; the
// controller resolves both body shapes (direct JSON or multipart with
// an embedded JSON field) into this struct before the service runs.
type SubmitApplicationInput struct {
	NationalID    string
	Phone         string
	Address       string
	Village       string
	District      string
	State         string
	Pincode       string
	Applicants    []models.Applicant
	ProofImageURL *string
}

type ApplicationService interface {
	Submit(ctx context.Context, in SubmitApplicationInput) (*models.JobCardApplication, error)
	Approve(ctx context.Context, trackingID string) (*models.JobCardApplication, error)
	Reject(ctx context.Context, trackingID string, reason *string) (*models.JobCardApplication, error)
	GetByTrackingID(ctx context.Context, trackingID string) (*models.JobCardApplication, error)
	List(ctx context.Context, status *models.ApplicationStatusType, limit, offset int) ([]*models.JobCardApplication, error)

	GetJobCard(ctx context.Context, id uuid.UUID) (*models.JobCard, error)
	GetJobCardByNationalID(ctx context.Context, nationalID string) (*models.JobCard, error)
	ListJobCards(ctx context.Context, limit, offset int) ([]*models.JobCard, error)
}

type applicationService struct {
	appRepo      repositories.ApplicationRepository
	identityRepo repositories.IdentityRepository
	cardRepo     repositories.JobCardRepository
	emailDomain  string
	now          func() time.Time
}

func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	identityRepo repositories.IdentityRepository,
	cardRepo repositories.JobCardRepository,
	emailDomain string,
) ApplicationService {
	return &applicationService{
		appRepo:      appRepo,
		identityRepo: identityRepo,
		cardRepo:     cardRepo,
		emailDomain:  emailDomain,
		now:          time.Now,
	}
}

func (s *applicationService) Submit(ctx context.Context, in SubmitApplicationInput) (*models.JobCardApplication, error) {
	if err := validateNationalID(in.NationalID); err != nil {
		return nil, err
	}
	if err := validatePhone(in.Phone); err != nil {
		return nil, err
	}
	if len(in.Applicants) == 0 {
		return nil, &utils.AppError{
			StatusCode: 400,
			Code:       utils.ErrCodeValidation,
			Message:    "at least one applicant is required",
		}
	}

	existing, err := s.appRepo.GetPendingByNationalID(ctx, in.NationalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.ErrDuplicatePending
	}

	app := &models.JobCardApplication{
		ID:            uuid.New(),
		TrackingID:    newTrackingID(),
		NationalID:    in.NationalID,
		Phone:         in.Phone,
		Address:       in.Address,
		Village:       in.Village,
		District:      in.District,
		State:         in.State,
		Pincode:       in.Pincode,
		Applicants:    in.Applicants,
		ProofImageURL: in.ProofImageURL,
		Status:        models.ApplicationStatusPending,
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}
	utils.Logger.Infof("Job card application %s submitted for national ID ending %s",
		app.TrackingID, lastDigits(app.NationalID, 4))
	return app, nil
}

func (s *applicationService) Approve(ctx context.Context, trackingID string) (*models.JobCardApplication, error) {
	app, err := s.appRepo.GetByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, utils.ErrNotFound
	}
	if app.Status != models.ApplicationStatusPending {
		return nil, utils.ErrInvalidState
	}

	conflict, err := s.identityRepo.GetByNationalID(ctx, app.NationalID)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, utils.ErrConflict
	}

	head := app.Applicants[0]
	bank, err := ParseBankDetails(head.BankDetails)
	if err != nil {
		return nil, &utils.AppError{
			StatusCode: 400,
			Code:       utils.ErrCodeValidation,
			Message:    fmt.Sprintf("invalid bank details on application: %v", err),
			Err:        err,
		}
	}

	placeholderPassword := utils.RandomString(16)
	hash, err := utils.HashPassword(placeholderPassword)
	if err != nil {
		return nil, err
	}

	identity := &models.Identity{
		ID:           uuid.New(),
		NationalID:   app.NationalID,
		Phone:        app.Phone,
		Email:        s.placeholderEmail(app.NationalID),
		GovernmentID: app.NationalID,
		Name:         head.Name,
		PasswordHash: hash,
		Role:         models.RoleWorkerSupervisor,
		Active:       true,
	}

	card := &models.JobCard{
		ID:            uuid.New(),
		CardNumber:    newJobCardNumber(),
		NationalID:    app.NationalID,
		HeadOfFamily:  head.Name,
		Address:       app.Address,
		Village:       app.Village,
		District:      app.District,
		State:         app.State,
		Pincode:       app.Pincode,
		FamilyMembers: len(app.Applicants),
		Bank:          bank,
	}

	if err := s.appRepo.ApproveTx(ctx, app, identity, card); err != nil {
		switch {
		case errors.Is(err, utils.ErrNoRowsUpdated):
			// Lost the race: someone else approved or rejected first.
			return nil, utils.ErrInvalidState
		case repositories.IsUniqueViolation(err):
			return nil, utils.ErrConflict
		default:
			return nil, err
		}
	}

	app.Status = models.ApplicationStatusApproved
	app.LinkedJobCardID = &card.ID
	utils.Logger.Infof("Application %s approved; job card %s issued", app.TrackingID, card.CardNumber)
	return app, nil
}

func (s *applicationService) Reject(ctx context.Context, trackingID string, reason *string) (*models.JobCardApplication, error) {
	app, err := s.appRepo.GetByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, utils.ErrNotFound
	}
	if app.Status != models.ApplicationStatusPending {
		return nil, utils.ErrInvalidState
	}

	if err := s.appRepo.RejectIfPending(ctx, trackingID, reason); err != nil {
		if errors.Is(err, utils.ErrNoRowsUpdated) {
			return nil, utils.ErrInvalidState
		}
		return nil, err
	}

	app.Status = models.ApplicationStatusRejected
	app.RejectionReason = reason
	return app, nil
}

func (s *applicationService) GetByTrackingID(ctx context.Context, trackingID string) (*models.JobCardApplication, error) {
	app, err := s.appRepo.GetByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, utils.ErrNotFound
	}
	return app, nil
}

func (s *applicationService) List(ctx context.Context, status *models.ApplicationStatusType, limit, offset int) ([]*models.JobCardApplication, error) {
	return s.appRepo.List(ctx, status, limit, offset)
}

func (s *applicationService) GetJobCard(ctx context.Context, id uuid.UUID) (*models.JobCard, error) {
	card, err := s.cardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, utils.ErrNotFound
	}
	return card, nil
}

func (s *applicationService) GetJobCardByNationalID(ctx context.Context, nationalID string) (*models.JobCard, error) {
	if err := validateNationalID(nationalID); err != nil {
		return nil, err
	}
	card, err := s.cardRepo.GetByNationalID(ctx, nationalID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, utils.ErrNotFound
	}
	return card, nil
}

func (s *applicationService) ListJobCards(ctx context.Context, limit, offset int) ([]*models.JobCard, error) {
	return s.cardRepo.List(ctx, limit, offset)
}

func (s *applicationService) placeholderEmail(nationalID string) string {
	return fmt.Sprintf("worker-%s@%s", nationalID, s.emailDomain)
}

func lastDigits(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
