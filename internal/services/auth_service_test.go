package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/repositories"
	"github.com/gramsetu/employment-service/internal/utils"
)

type authFixture struct {
	svc        AuthService
	otp        OtpService
	identities *repositories.MemoryIdentityRepository
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	identities := repositories.NewMemoryIdentityRepository()
	tokens := repositories.NewMemoryTokenRepository()
	otp := NewOtpService(repositories.NewMemoryOtpStore(), &stubEmailSender{}, nil, nil)
	jwtSvc := NewJWTService(key, &key.PublicKey, tokens, identities)

	svc := NewAuthService(identities, otp, jwtSvc, nil, 10*time.Minute, 7*24*time.Hour)
	return &authFixture{svc: svc, otp: otp, identities: identities}
}

// clearOtpGate runs the full issue/verify dance for the email.
func (f *authFixture) clearOtpGate(t *testing.T, email string) {
	t.Helper()
	rec, err := f.otp.Issue(context.Background(), email, "")
	require.NoError(t, err)
	require.NoError(t, f.otp.Verify(context.Background(), email, rec.Code))
}

var authSeq int

func validRegisterInput() RegisterInput {
	authSeq++
	return RegisterInput{
		Name:         "Asha Patel",
		Email:        fmt.Sprintf("asha-%d@example.com", authSeq),
		Phone:        fmt.Sprintf("%010d", 8000000000+authSeq),
		NationalID:   fmt.Sprintf("%012d", 800000000000+authSeq),
		GovernmentID: fmt.Sprintf("GOVA-%06d", authSeq),
		Password:     "s3cret-pass",
		Role:         models.RoleWorkerSupervisor,
	}
}

func TestRegisterRequiresOtpVerification(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	in := validRegisterInput()

	// An issued but unverified code blocks registration.
	_, err := f.otp.Issue(ctx, in.Email, "")
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, in)
	assert.ErrorIs(t, err, utils.ErrOTPNotVerified)

	f.clearOtpGate(t, in.Email)
	identity, err := f.svc.Register(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, in.Email, identity.Email)
	assert.Equal(t, models.RoleWorkerSupervisor, identity.Role)
	assert.True(t, identity.Active)
	assert.NotEqual(t, in.Password, identity.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	t.Run("BadNationalID", func(t *testing.T) {
		in := validRegisterInput()
		in.NationalID = "123"
		_, err := f.svc.Register(ctx, in)
		assert.ErrorIs(t, err, utils.ErrInvalidNationalID)
	})

	t.Run("BadRole", func(t *testing.T) {
		in := validRegisterInput()
		in.Role = models.RoleType("SUPERUSER")
		_, err := f.svc.Register(ctx, in)
		var appErr *utils.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.StatusCode)
	})
}

func TestRegisterUniqueness(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	in := validRegisterInput()
	f.clearOtpGate(t, in.Email)
	_, err := f.svc.Register(ctx, in)
	require.NoError(t, err)

	dup := validRegisterInput()
	dup.NationalID = in.NationalID
	f.clearOtpGate(t, dup.Email)
	_, err = f.svc.Register(ctx, dup)
	assert.ErrorIs(t, err, utils.ErrNationalIDExists)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	in := validRegisterInput()
	f.clearOtpGate(t, in.Email)
	_, err := f.svc.Register(ctx, in)
	require.NoError(t, err)

	res, err := f.svc.Login(ctx, in.Email, in.Password)
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, in.Email, res.Identity.Email)

	_, err = f.svc.Login(ctx, in.Email, "wrong-password")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, "nobody@example.com", in.Password)
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestRefreshAndLogoutFlow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	in := validRegisterInput()
	f.clearOtpGate(t, in.Email)
	_, err := f.svc.Register(ctx, in)
	require.NoError(t, err)

	res, err := f.svc.Login(ctx, in.Email, in.Password)
	require.NoError(t, err)

	access, refresh, err := f.svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEqual(t, res.RefreshToken, refresh)

	require.NoError(t, f.svc.Logout(ctx, refresh))
	_, _, err = f.svc.Refresh(ctx, refresh)
	assert.Error(t, err)
}

func TestUpdateProfile(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	in := validRegisterInput()
	f.clearOtpGate(t, in.Email)
	identity, err := f.svc.Register(ctx, in)
	require.NoError(t, err)

	updated, err := f.svc.UpdateProfile(ctx, identity.ID, UpdateProfileInput{
		Name:  utils.Ptr("Asha P. Kulkarni"),
		Phone: utils.Ptr("7000000001"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha P. Kulkarni", updated.Name)
	assert.Equal(t, "7000000001", updated.Phone)

	_, err = f.svc.UpdateProfile(ctx, identity.ID, UpdateProfileInput{Phone: utils.Ptr("nope")})
	assert.ErrorIs(t, err, utils.ErrInvalidPhone)

	_, err = f.svc.UpdateProfile(ctx, mustUUID(t), UpdateProfileInput{})
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestDeactivateFreesUniqueClaims(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	in := validRegisterInput()
	f.clearOtpGate(t, in.Email)
	identity, err := f.svc.Register(ctx, in)
	require.NoError(t, err)

	require.NoError(t, f.svc.Deactivate(ctx, identity.ID))

	_, err = f.svc.Login(ctx, in.Email, in.Password)
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	// A deactivated identity no longer holds its unique claims.
	again := validRegisterInput()
	again.NationalID = in.NationalID
	again.Email = in.Email
	again.Phone = in.Phone
	again.GovernmentID = in.GovernmentID
	f.clearOtpGate(t, again.Email)
	_, err = f.svc.Register(ctx, again)
	assert.NoError(t, err)
}
