package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gramsetu/employment-service/internal/repositories"
	"github.com/gramsetu/employment-service/internal/utils"
)

type stubEmailSender struct {
	sent []string
	err  error
}

func (s *stubEmailSender) SendCode(_ context.Context, to, _ string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, to)
	return nil
}

type stubSMSSender struct {
	sent []string
	err  error
}

func (s *stubSMSSender) SendCode(_ context.Context, to, _ string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, to)
	return nil
}

type stubRemoteVerifier struct {
	approve bool
	err     error
	calls   int
}

func (s *stubRemoteVerifier) CheckCode(_ context.Context, _, _ string) (bool, error) {
	s.calls++
	return s.approve, s.err
}

type otpFixture struct {
	svc    OtpService
	store  *repositories.MemoryOtpStore
	email  *stubEmailSender
	sms    *stubSMSSender
	remote *stubRemoteVerifier
	clock  *fixedClock
}

func newOtpFixture(t *testing.T) *otpFixture {
	t.Helper()
	f := &otpFixture{
		store:  repositories.NewMemoryOtpStore(),
		email:  &stubEmailSender{},
		sms:    &stubSMSSender{},
		remote: &stubRemoteVerifier{},
		clock:  newFixedClock(time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)),
	}
	svc := NewOtpService(f.store, f.email, f.sms, f.remote)
	svc.(*otpService).now = f.clock.Now
	f.svc = svc
	return f
}

const otpTestEmail = "applicant@example.com"

func TestOtpIssueAndVerify(t *testing.T) {
	f := newOtpFixture(t)
	ctx := context.Background()

	rec, err := f.svc.Issue(ctx, otpTestEmail, "9876543210")
	require.NoError(t, err)
	require.Len(t, rec.Code, 6)
	assert.Equal(t, []string{otpTestEmail}, f.email.sent)
	assert.Equal(t, []string{"9876543210"}, f.sms.sent)

	require.NoError(t, f.svc.Verify(ctx, otpTestEmail, rec.Code))

	verified, err := f.svc.IsVerified(ctx, otpTestEmail)
	require.NoError(t, err)
	assert.True(t, verified)

	// A code is single-use.
	err = f.svc.Verify(ctx, otpTestEmail, rec.Code)
	assert.ErrorIs(t, err, utils.ErrInvalidOrExpiredOTP)
}

func TestOtpVerifyWrongCode(t *testing.T) {
	f := newOtpFixture(t)
	ctx := context.Background()

	rec, err := f.svc.Issue(ctx, otpTestEmail, "")
	require.NoError(t, err)

	wrong := "000000"
	if rec.Code == wrong {
		wrong = "000001"
	}
	err = f.svc.Verify(ctx, otpTestEmail, wrong)
	assert.ErrorIs(t, err, utils.ErrInvalidOrExpiredOTP)

	verified, err := f.svc.IsVerified(ctx, otpTestEmail)
	require.NoError(t, err)
	assert.False(t, verified)
}

func TestOtpVerifyExpiredCode(t *testing.T) {
	f := newOtpFixture(t)
	ctx := context.Background()

	rec, err := f.svc.Issue(ctx, otpTestEmail, "")
	require.NoError(t, err)

	f.clock.Advance(16 * time.Minute)
	err = f.svc.Verify(ctx, otpTestEmail, rec.Code)
	assert.ErrorIs(t, err, utils.ErrInvalidOrExpiredOTP)
}

func TestOtpResendSupersedes(t *testing.T) {
	f := newOtpFixture(t)
	ctx := context.Background()

	first, err := f.svc.Issue(ctx, otpTestEmail, "")
	require.NoError(t, err)
	second, err := f.svc.Issue(ctx, otpTestEmail, "")
	require.NoError(t, err)
	assert.Equal(t, 2, second.ResendCount)

	// The old code is dead once superseded.
	if first.Code != second.Code {
		err = f.svc.Verify(ctx, otpTestEmail, first.Code)
		assert.ErrorIs(t, err, utils.ErrInvalidOrExpiredOTP)
	}
	require.NoError(t, f.svc.Verify(ctx, otpTestEmail, second.Code))
}

func TestOtpResendThrottling(t *testing.T) {
	f := newOtpFixture(t)
	ctx := context.Background()

	// The initial issue plus two resends are allowed; the fourth
	// attempt within the hour is refused.
	for i := 0; i < 3; i++ {
		rec, err := f.svc.Issue(ctx, otpTestEmail, "")
		require.NoError(t, err, "issue %d should pass", i+1)
		assert.Equal(t, i+1, rec.ResendCount)
		f.clock.Advance(time.Minute)
	}

	_, err := f.svc.Issue(ctx, otpTestEmail, "")
	assert.ErrorIs(t, err, utils.ErrRateLimited)

	// After the cooldown the counter starts over.
	f.clock.Advance(time.Hour)
	rec, err := f.svc.Issue(ctx, otpTestEmail, "")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.ResendCount)
}

func TestOtpEmailFailureFailsIssue(t *testing.T) {
	f := newOtpFixture(t)
	f.email.err = utils.ErrExternalServiceFailure

	_, err := f.svc.Issue(context.Background(), otpTestEmail, "")
	assert.ErrorIs(t, err, utils.ErrExternalServiceFailure)
}

func TestOtpSMSFailureIsBestEffort(t *testing.T) {
	f := newOtpFixture(t)
	f.sms.err = errors.New("carrier unreachable")

	rec, err := f.svc.Issue(context.Background(), otpTestEmail, "9876543210")
	require.NoError(t, err, "SMS delivery problems must not block issuance")
	assert.NotEmpty(t, rec.Code)
}

func TestOtpRemoteVerifierFallback(t *testing.T) {
	f := newOtpFixture(t)
	ctx := context.Background()

	_, err := f.svc.Issue(ctx, otpTestEmail, "9876543210")
	require.NoError(t, err)

	// The provider may have generated its own code; a local mismatch
	// consults the remote check before failing.
	f.remote.approve = true
	require.NoError(t, f.svc.Verify(ctx, otpTestEmail, "999999"))
	assert.Equal(t, 1, f.remote.calls)

	verified, err := f.svc.IsVerified(ctx, otpTestEmail)
	require.NoError(t, err)
	assert.True(t, verified)
}

func TestOtpRemoteVerifierSkippedWithoutPhone(t *testing.T) {
	f := newOtpFixture(t)
	ctx := context.Background()

	_, err := f.svc.Issue(ctx, otpTestEmail, "")
	require.NoError(t, err)

	f.remote.approve = true
	err = f.svc.Verify(ctx, otpTestEmail, "999999")
	assert.ErrorIs(t, err, utils.ErrInvalidOrExpiredOTP)
	assert.Zero(t, f.remote.calls)
}

func TestOtpIsVerifiedWithoutRecord(t *testing.T) {
	f := newOtpFixture(t)

	// Staff-created identities never ran the OTP flow; absence of a
	// record does not block them.
	verified, err := f.svc.IsVerified(context.Background(), "never-issued@example.com")
	require.NoError(t, err)
	assert.True(t, verified)
}

func TestOtpCleanupExpired(t *testing.T) {
	f := newOtpFixture(t)
	ctx := context.Background()

	_, err := f.svc.Issue(ctx, "a@example.com", "")
	require.NoError(t, err)
	_, err = f.svc.Issue(ctx, "b@example.com", "")
	require.NoError(t, err)

	removed, err := f.svc.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	f.clock.Advance(20 * time.Minute)
	removed, err = f.svc.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
}
