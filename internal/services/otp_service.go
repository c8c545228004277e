package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/repositories"
	"github.com/gramsetu/employment-service/internal/utils"
)

const (
	otpCodeLength     = 6
	otpExpiry         = 15 * time.Minute
	otpResendLimit    = 3
	otpResendCooldown = time.Hour
)

type OtpService interface {
	// Issue generates and delivers a code for the email, superseding
	// any unverified record in place. The returned record carries the
	// code; callers decide whether to expose it (non-production only).
	Issue(ctx context.Context, email, phone string) (*models.OtpRecord, error)

	Verify(ctx context.Context, email, code string) error
	IsVerified(ctx context.Context, email string) (bool, error)
	CleanupExpired(ctx context.Context) (int, error)
}

type otpService struct {
	store          repositories.OtpStore
	emailSender    EmailSender
	smsSender      SMSSender
	remoteVerifier RemoteOtpVerifier
	now            func() time.Time
}

// NewOtpService builds the OTP gate. smsSender and remoteVerifier may
// be nil when the SMS channel is not configured.
func NewOtpService(
	store repositories.OtpStore,
	emailSender EmailSender,
	smsSender SMSSender,
	remoteVerifier RemoteOtpVerifier,
) OtpService {
	return &otpService{
		store:          store,
		emailSender:    emailSender,
		smsSender:      smsSender,
		remoteVerifier: remoteVerifier,
		now:            time.Now,
	}
}

func (s *otpService) Issue(ctx context.Context, email, phone string) (*models.OtpRecord, error) {
	now := s.now()

	existing, err := s.store.Get(ctx, email)
	if err != nil {
		return nil, err
	}

	// The initial issue counts toward the limit, so a fresh email gets
	// the first send plus two resends before the cooldown kicks in.
	resendCount := 1
	if existing != nil && !existing.Verified {
		if existing.ResendCount >= otpResendLimit {
			if now.Sub(existing.LastResendAt) < otpResendCooldown {
				return nil, utils.ErrRateLimited
			}
			// Cooldown elapsed; the counter starts over.
		} else {
			resendCount = existing.ResendCount + 1
		}
	}

	rec := &models.OtpRecord{
		ID:           uuid.New(),
		Email:        email,
		Phone:        phone,
		Code:         generateVerificationCode(otpCodeLength),
		ExpiresAt:    now.Add(otpExpiry),
		ResendCount:  resendCount,
		LastResendAt: now,
		CreatedAt:    now,
	}
	if err := s.store.Put(ctx, rec); err != nil {
		return nil, err
	}

	// Email is the primary channel; its failure fails the call.
	if err := s.emailSender.SendCode(ctx, email, rec.Code); err != nil {
		return nil, err
	}

	// SMS is best effort. The UI-visible code in non-production
	// environments covers delivery gaps.
	if s.smsSender != nil && phone != "" {
		if err := s.smsSender.SendCode(ctx, phone, rec.Code); err != nil {
			utils.Logger.WithError(err).Warnf("OTP SMS delivery failed for %s", phone)
		}
	}

	return rec, nil
}

func (s *otpService) Verify(ctx context.Context, email, code string) error {
	rec, err := s.store.Get(ctx, email)
	if err != nil {
		return err
	}

	if s.verifyLocal(rec, code) {
		now := s.now()
		rec.Verified = true
		rec.VerifiedAt = &now
		return s.store.Put(ctx, rec)
	}

	// The code may have been generated provider-side rather than by
	// us; try the remote check before giving up.
	if s.remoteVerifier != nil && rec != nil && !rec.Verified && rec.Phone != "" {
		ok, remoteErr := s.remoteVerifier.CheckCode(ctx, rec.Phone, code)
		if remoteErr != nil {
			utils.Logger.WithError(remoteErr).Warn("Remote OTP verification failed")
		} else if ok {
			now := s.now()
			rec.Verified = true
			rec.VerifiedAt = &now
			return s.store.Put(ctx, rec)
		}
	}

	return utils.ErrInvalidOrExpiredOTP
}

func (s *otpService) verifyLocal(rec *models.OtpRecord, code string) bool {
	if rec == nil || rec.Verified {
		return false
	}
	if s.now().After(rec.ExpiresAt) {
		return false
	}
	return rec.Code == code
}

// IsVerified reports whether the email is clear to proceed: either a
// verified record exists or no record was ever issued.
func (s *otpService) IsVerified(ctx context.Context, email string) (bool, error) {
	rec, err := s.store.Get(ctx, email)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return true, nil
	}
	return rec.Verified, nil
}

func (s *otpService) CleanupExpired(ctx context.Context) (int, error) {
	removed, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		utils.Logger.Infof("OTP sweep removed %d expired record(s)", removed)
	}
	return removed, nil
}
