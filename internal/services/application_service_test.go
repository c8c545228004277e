package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/repositories"
	"github.com/gramsetu/employment-service/internal/utils"
)

const testEmailDomain = "workers.gramsetu.test"

func newApplicationFixture() (ApplicationService, *repositories.MemoryIdentityRepository, *repositories.MemoryJobCardRepository) {
	identities := repositories.NewMemoryIdentityRepository()
	cards := repositories.NewMemoryJobCardRepository()
	apps := repositories.NewMemoryApplicationRepository(identities, cards)
	svc := NewApplicationService(apps, identities, cards, testEmailDomain)
	return svc, identities, cards
}

func validSubmitInput() SubmitApplicationInput {
	return SubmitApplicationInput{
		NationalID: "123456789012",
		Phone:      "9876543210",
		Address:    "12 Canal Road",
		Village:    "Rampur",
		District:   "Sitapur",
		State:      "Uttar Pradesh",
		Pincode:    "261001",
		Applicants: []models.Applicant{
			{Name: "Ramesh Kumar", Age: 42, Gender: "M", BankDetails: "Ramesh Kumar|123456789|SBIN0001234"},
			{Name: "Sita Devi", Age: 38, Gender: "F"},
		},
	}
}

func TestSubmitApplication(t *testing.T) {
	svc, _, _ := newApplicationFixture()
	ctx := context.Background()

	app, err := svc.Submit(ctx, validSubmitInput())
	require.NoError(t, err)
	require.NotNil(t, app)

	assert.True(t, strings.HasPrefix(app.TrackingID, "JCA-"), "tracking ID should carry the JCA prefix")
	assert.Equal(t, models.ApplicationStatusPending, app.Status)
	assert.Len(t, app.Applicants, 2)

	fetched, err := svc.GetByTrackingID(ctx, app.TrackingID)
	require.NoError(t, err)
	assert.Equal(t, app.ID, fetched.ID)
}

func TestSubmitApplicationValidation(t *testing.T) {
	svc, _, _ := newApplicationFixture()
	ctx := context.Background()

	t.Run("BadNationalID", func(t *testing.T) {
		in := validSubmitInput()
		in.NationalID = "12345"
		_, err := svc.Submit(ctx, in)
		assert.ErrorIs(t, err, utils.ErrInvalidNationalID)
	})

	t.Run("BadPhone", func(t *testing.T) {
		in := validSubmitInput()
		in.Phone = "not-a-phone"
		_, err := svc.Submit(ctx, in)
		assert.ErrorIs(t, err, utils.ErrInvalidPhone)
	})

	t.Run("NoApplicants", func(t *testing.T) {
		in := validSubmitInput()
		in.Applicants = nil
		_, err := svc.Submit(ctx, in)
		var appErr *utils.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.StatusCode)
	})
}

func TestSubmitApplicationDuplicatePending(t *testing.T) {
	svc, _, _ := newApplicationFixture()
	ctx := context.Background()

	_, err := svc.Submit(ctx, validSubmitInput())
	require.NoError(t, err)

	_, err = svc.Submit(ctx, validSubmitInput())
	assert.ErrorIs(t, err, utils.ErrDuplicatePending)
}

func TestSubmitAllowedAfterRejection(t *testing.T) {
	svc, _, _ := newApplicationFixture()
	ctx := context.Background()

	app, err := svc.Submit(ctx, validSubmitInput())
	require.NoError(t, err)
	_, err = svc.Reject(ctx, app.TrackingID, utils.Ptr("incomplete documents"))
	require.NoError(t, err)

	// A rejected application no longer blocks a fresh submission.
	again, err := svc.Submit(ctx, validSubmitInput())
	require.NoError(t, err)
	assert.NotEqual(t, app.TrackingID, again.TrackingID)
}

func TestApproveApplicationIssuesCardAndIdentity(t *testing.T) {
	svc, identities, cards := newApplicationFixture()
	ctx := context.Background()

	app, err := svc.Submit(ctx, validSubmitInput())
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, app.TrackingID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApproved, approved.Status)
	require.NotNil(t, approved.LinkedJobCardID)

	card, err := cards.GetByID(ctx, *approved.LinkedJobCardID)
	require.NoError(t, err)
	require.NotNil(t, card)
	assert.True(t, strings.HasPrefix(card.CardNumber, "JC-"))
	assert.Equal(t, "Ramesh Kumar", card.HeadOfFamily)
	assert.Equal(t, 2, card.FamilyMembers)
	assert.Equal(t, "123456789", card.Bank.AccountNumber)
	assert.Equal(t, "SBIN0001234", card.Bank.IFSC)

	identity, err := identities.GetByNationalID(ctx, "123456789012")
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, models.RoleWorkerSupervisor, identity.Role)
	assert.Equal(t, "worker-123456789012@"+testEmailDomain, identity.Email)
	assert.True(t, identity.Active)
}

func TestApproveApplicationMalformedBankDetails(t *testing.T) {
	svc, _, _ := newApplicationFixture()
	ctx := context.Background()

	in := validSubmitInput()
	in.Applicants[0].BankDetails = "just-a-name"
	app, err := svc.Submit(ctx, in)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, app.TrackingID)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode)

	// The application must stay PENDING so it can be fixed and retried.
	fetched, err := svc.GetByTrackingID(ctx, app.TrackingID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, fetched.Status)
}

func TestApproveApplicationIdentityConflict(t *testing.T) {
	svc, identities, _ := newApplicationFixture()
	ctx := context.Background()

	require.NoError(t, identities.Create(ctx, &models.Identity{
		ID:           mustUUID(t),
		NationalID:   "123456789012",
		Phone:        "1111111111",
		Email:        "existing@example.com",
		GovernmentID: "123456789012",
		Name:         "Existing Worker",
		Role:         models.RoleWorkerSupervisor,
		Active:       true,
	}))

	app, err := svc.Submit(ctx, validSubmitInput())
	require.NoError(t, err)

	_, err = svc.Approve(ctx, app.TrackingID)
	assert.ErrorIs(t, err, utils.ErrConflict)
}

func TestApproveApplicationExactlyOnce(t *testing.T) {
	svc, _, _ := newApplicationFixture()
	ctx := context.Background()

	app, err := svc.Submit(ctx, validSubmitInput())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Approve(ctx, app.TrackingID)
		}(i)
	}
	wg.Wait()

	var succeeded, failed int
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		failed++
		if !errors.Is(err, utils.ErrInvalidState) && !errors.Is(err, utils.ErrConflict) {
			t.Fatalf("loser returned unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one approval may win")
	assert.Equal(t, 1, failed)
}

func TestRejectApplication(t *testing.T) {
	svc, _, _ := newApplicationFixture()
	ctx := context.Background()

	app, err := svc.Submit(ctx, validSubmitInput())
	require.NoError(t, err)

	reason := utils.Ptr("proof image unreadable")
	rejected, err := svc.Reject(ctx, app.TrackingID, reason)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, *reason, *rejected.RejectionReason)

	// Terminal states refuse further transitions.
	_, err = svc.Approve(ctx, app.TrackingID)
	assert.ErrorIs(t, err, utils.ErrInvalidState)
	_, err = svc.Reject(ctx, app.TrackingID, nil)
	assert.ErrorIs(t, err, utils.ErrInvalidState)
}

func TestGetApplicationNotFound(t *testing.T) {
	svc, _, _ := newApplicationFixture()
	_, err := svc.GetByTrackingID(context.Background(), "JCA-DOESNOTEX")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestJobCardLookups(t *testing.T) {
	svc, _, _ := newApplicationFixture()
	ctx := context.Background()

	app, err := svc.Submit(ctx, validSubmitInput())
	require.NoError(t, err)
	approved, err := svc.Approve(ctx, app.TrackingID)
	require.NoError(t, err)

	byID, err := svc.GetJobCard(ctx, *approved.LinkedJobCardID)
	require.NoError(t, err)

	byNID, err := svc.GetJobCardByNationalID(ctx, "123456789012")
	require.NoError(t, err)
	assert.Equal(t, byID.ID, byNID.ID)

	_, err = svc.GetJobCardByNationalID(ctx, "000000000000")
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = svc.GetJobCardByNationalID(ctx, "short")
	assert.ErrorIs(t, err, utils.ErrInvalidNationalID)

	all, err := svc.ListJobCards(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
