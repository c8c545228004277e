package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gramsetu/employment-service/internal/middleware"
	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/repositories"
	"github.com/gramsetu/employment-service/internal/utils"
)

type JWTService interface {
	GenerateAccessToken(ctx context.Context, identity *models.Identity, tokenExpiry time.Duration) (string, error)
	GenerateRefreshToken(ctx context.Context, subjectID uuid.UUID, refreshExpiry time.Duration) (*models.RefreshToken, error)

	// RefreshToken rotates the pair: the presented refresh token is
	// consumed and a new access/refresh pair is issued.
	RefreshToken(ctx context.Context, refreshTokenString string, tokenExpiry, refreshExpiry time.Duration) (string, string, error)

	Logout(ctx context.Context, refreshTokenString string) error
}

type jwtService struct {
	privateKey   *rsa.PrivateKey
	publicKey    *rsa.PublicKey
	tokenRepo    repositories.TokenRepository
	identityRepo repositories.IdentityRepository
}

func NewJWTService(
	privateKey *rsa.PrivateKey,
	publicKey *rsa.PublicKey,
	tokenRepo repositories.TokenRepository,
	identityRepo repositories.IdentityRepository,
) JWTService {
	return &jwtService{
		privateKey:   privateKey,
		publicKey:    publicKey,
		tokenRepo:    tokenRepo,
		identityRepo: identityRepo,
	}
}

func (j *jwtService) GenerateAccessToken(
	_ context.Context,
	identity *models.Identity,
	tokenExpiry time.Duration,
) (string, error) {
	claims := jwt.MapClaims{
		"iss":   middleware.TokenIssuer,
		"sub":   identity.ID.String(),
		"name":  identity.Name,
		"email": identity.Email,
		"role":  string(identity.Role),
		"exp":   time.Now().Add(tokenExpiry).Unix(),
		"iat":   time.Now().Unix(),
		"jti":   uuid.NewString(),
	}
	return j.signClaims(claims)
}

func (j *jwtService) GenerateRefreshToken(
	ctx context.Context,
	subjectID uuid.UUID,
	refreshExpiry time.Duration,
) (*models.RefreshToken, error) {
	rt := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    subjectID,
		Token:     generateSecureToken(64),
		ExpiresAt: time.Now().Add(refreshExpiry),
		CreatedAt: time.Now(),
		Revoked:   false,
	}
	if err := j.tokenRepo.CreateRefreshToken(ctx, rt); err != nil {
		return nil, err
	}
	return rt, nil
}

func (j *jwtService) RefreshToken(
	ctx context.Context,
	refreshTokenString string,
	tokenExpiry, refreshExpiry time.Duration,
) (string, string, error) {
	oldToken, err := j.tokenRepo.GetRefreshToken(ctx, refreshTokenString)
	if err != nil || oldToken == nil || oldToken.Revoked {
		utils.Logger.WithError(err).Error("invalid or missing refresh token in jwtService.RefreshToken")
		return "", "", errors.New("invalid refresh token")
	}
	if oldToken.IsExpired() {
		utils.Logger.Error("refresh token expired in jwtService.RefreshToken")
		return "", "", errors.New("refresh token expired")
	}

	identity, err := j.identityRepo.GetByID(ctx, oldToken.UserID)
	if err != nil || identity == nil {
		return "", "", errors.New("invalid refresh token")
	}

	if err := j.tokenRepo.RemoveRefreshToken(ctx, oldToken.ID); err != nil {
		utils.Logger.WithError(err).Error("failed to remove old refresh token in jwtService.RefreshToken")
		return "", "", errors.New("failed to remove old token")
	}

	newAccess, aErr := j.GenerateAccessToken(ctx, identity, tokenExpiry)
	if aErr != nil {
		return "", "", aErr
	}
	newRT, rErr := j.GenerateRefreshToken(ctx, identity.ID, refreshExpiry)
	if rErr != nil {
		return "", "", rErr
	}
	return newAccess, newRT.Token, nil
}

func (j *jwtService) Logout(ctx context.Context, refreshTokenString string) error {
	oldToken, err := j.tokenRepo.GetRefreshToken(ctx, refreshTokenString)
	if err != nil {
		utils.Logger.WithError(err).Error("logout fetch refresh token error in jwtService")
		return errors.New("logout server error")
	}
	if oldToken == nil {
		// Already gone; logout is a no-op.
		return nil
	}
	if err := j.tokenRepo.RemoveRefreshToken(ctx, oldToken.ID); err != nil {
		utils.Logger.WithError(err).Error("failed to remove token in jwtService.Logout")
		return errors.New("logout server error")
	}
	return nil
}

func (j *jwtService) signClaims(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(j.privateKey)
}

func generateSecureToken(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			panic(err)
		}
		b[i] = charset[n.Int64()]
	}
	return string(b)
}
