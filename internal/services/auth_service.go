package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/repositories"
	"github.com/gramsetu/employment-service/internal/utils"
)

type RegisterInput struct {
	Name         string
	Email        string
	Phone        string
	NationalID   string
	GovernmentID string
	Password     string
	Role         models.RoleType
}

type UpdateProfileInput struct {
	Name  *string
	Phone *string
	Image []byte
}

type LoginResult struct {
	Identity     *models.Identity
	AccessToken  string
	RefreshToken string
}

type AuthService interface {
	// Register creates an identity. The email must have cleared the OTP
	// gate first.
	Register(ctx context.Context, in RegisterInput) (*models.Identity, error)

	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, refreshToken string) error

	GetProfile(ctx context.Context, id uuid.UUID) (*models.Identity, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*models.Identity, error)

	// Deactivate soft-deletes the identity. Rows are never removed;
	// the unique claims on its national ID, email and phone are freed.
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	identityRepo  repositories.IdentityRepository
	otpService    OtpService
	jwtService    JWTService
	uploader      utils.FileUploader
	tokenExpiry   time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(
	identityRepo repositories.IdentityRepository,
	otpService OtpService,
	jwtService JWTService,
	uploader utils.FileUploader,
	tokenExpiry time.Duration,
	refreshExpiry time.Duration,
) AuthService {
	return &authService{
		identityRepo:  identityRepo,
		otpService:    otpService,
		jwtService:    jwtService,
		uploader:      uploader,
		tokenExpiry:   tokenExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*models.Identity, error) {
	if err := validateNationalID(in.NationalID); err != nil {
		return nil, err
	}
	if err := validatePhone(in.Phone); err != nil {
		return nil, err
	}
	if in.Role != models.RoleWorkerSupervisor && in.Role != models.RoleAdmin {
		return nil, &utils.AppError{
			StatusCode: 400,
			Code:       utils.ErrCodeValidation,
			Message:    "role must be WORKER_SUPERVISOR or ADMIN",
		}
	}

	verified, err := s.otpService.IsVerified(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, utils.ErrOTPNotVerified
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	identity := &models.Identity{
		ID:           uuid.New(),
		NationalID:   in.NationalID,
		Phone:        in.Phone,
		Email:        in.Email,
		GovernmentID: in.GovernmentID,
		Name:         in.Name,
		PasswordHash: hash,
		Role:         in.Role,
		Active:       true,
	}
	if err := s.identityRepo.Create(ctx, identity); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, utils.ErrConflict
		}
		return nil, err
	}
	utils.Logger.Infof("Identity %s registered with role %s", identity.ID, identity.Role)
	return identity, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	identity, err := s.identityRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if identity == nil || !identity.Active {
		return nil, utils.ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, identity.PasswordHash) {
		return nil, utils.ErrInvalidCredentials
	}

	access, err := s.jwtService.GenerateAccessToken(ctx, identity, s.tokenExpiry)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtService.GenerateRefreshToken(ctx, identity.ID, s.refreshExpiry)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Identity:     identity,
		AccessToken:  access,
		RefreshToken: refresh.Token,
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	return s.jwtService.RefreshToken(ctx, refreshToken, s.tokenExpiry, s.refreshExpiry)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	return s.jwtService.Logout(ctx, refreshToken)
}

func (s *authService) GetProfile(ctx context.Context, id uuid.UUID) (*models.Identity, error) {
	identity, err := s.identityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, utils.ErrNotFound
	}
	return identity, nil
}

func (s *authService) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*models.Identity, error) {
	identity, err := s.identityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, utils.ErrNotFound
	}

	if in.Name != nil {
		identity.Name = *in.Name
	}
	if in.Phone != nil {
		if err := validatePhone(*in.Phone); err != nil {
			return nil, err
		}
		identity.Phone = *in.Phone
	}

	if len(in.Image) > 0 && s.uploader != nil {
		// Upload failure is non-fatal; the profile saves without the image.
		url, upErr := s.uploader.Upload(ctx, in.Image, identity.ID.String(), "profiles")
		if upErr != nil {
			utils.Logger.WithError(upErr).Warnf("Profile image upload failed for %s", identity.ID)
		} else {
			identity.ImageURL = &url
		}
	}

	if err := s.identityRepo.Update(ctx, identity); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, utils.ErrPhoneExists
		}
		return nil, err
	}
	return identity, nil
}

func (s *authService) Deactivate(ctx context.Context, id uuid.UUID) error {
	identity, err := s.identityRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if identity == nil {
		return utils.ErrNotFound
	}
	return s.identityRepo.Deactivate(ctx, id)
}
