package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgconn"

	"github.com/gramsetu/employment-service/internal/repositories"
	"github.com/gramsetu/employment-service/internal/utils"
)

const cleanupRetryDelay = 3 * time.Second

// CleanupService sweeps expired OTP records and refresh tokens. The OTP
// sweep runs every minute; token cleanup is a nightly job.
type CleanupService interface {
	SweepOtps(ctx context.Context) error
	CleanupTokensDaily(ctx context.Context) error
}

type cleanupService struct {
	otpService OtpService
	tokenRepo  repositories.TokenRepository
}

func NewCleanupService(otpService OtpService, tokenRepo repositories.TokenRepository) CleanupService {
	return &cleanupService{otpService: otpService, tokenRepo: tokenRepo}
}

// runWithRetry executes op(ctx) and, on a transient network error,
// waits a moment then retries once.
func runWithRetry(ctx context.Context, op func(context.Context) error) error {
	if err := op(ctx); err != nil {
		if errors.Is(err, io.EOF) || pgconn.SafeToRetry(err) ||
			strings.Contains(err.Error(), "connection was closed") {
			utils.Logger.WithError(err).Warn("cleanup hit transient DB error; retrying once")
			time.Sleep(cleanupRetryDelay)
			return op(ctx)
		}
		return err
	}
	return nil
}

func (s *cleanupService) SweepOtps(ctx context.Context) error {
	_, err := s.otpService.CleanupExpired(ctx)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to sweep expired OTP records")
	}
	return err
}

func (s *cleanupService) CleanupTokensDaily(ctx context.Context) error {
	if err := runWithRetry(ctx, s.tokenRepo.CleanupExpiredRefreshTokens); err != nil {
		utils.Logger.WithError(err).Error("Failed to cleanup expired refresh_tokens")
		return err
	}
	utils.Logger.Info("Daily token cleanup completed successfully.")
	return nil
}
