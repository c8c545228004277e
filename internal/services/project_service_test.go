package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/repositories"
	"github.com/gramsetu/employment-service/internal/utils"
)

const testMinimumWage = int64(37400)

func newProjectFixture(t *testing.T) (ProjectService, *repositories.MemoryIdentityRepository) {
	t.Helper()
	identities := repositories.NewMemoryIdentityRepository()
	projects := repositories.NewMemoryProjectRepository()
	return NewProjectService(projects, identities, testMinimumWage), identities
}

func validProjectInput(owner *models.Identity) CreateProjectInput {
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	return CreateProjectInput{
		Name:          "Pond Excavation",
		Description:   "Excavation of the village percolation pond",
		Location:      "Rampur",
		WorkerNeed:    40,
		WagePerWorker: testMinimumWage,
		StartDate:     start,
		EndDate:       start.AddDate(0, 2, 0),
		OwnerID:       owner.ID,
	}
}

func TestCreateProject(t *testing.T) {
	svc, identities := newProjectFixture(t)
	admin := seedIdentity(t, identities, models.RoleAdmin)

	p, err := svc.Create(context.Background(), validProjectInput(admin))
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusPending, p.Status)
	assert.Equal(t, admin.ID, p.OwnerID)
	assert.Equal(t, testMinimumWage, p.WagePerWorker)
}

func TestCreateProjectValidation(t *testing.T) {
	svc, identities := newProjectFixture(t)
	admin := seedIdentity(t, identities, models.RoleAdmin)
	worker := seedIdentity(t, identities, models.RoleWorkerSupervisor)
	ctx := context.Background()

	t.Run("WageBelowMinimum", func(t *testing.T) {
		in := validProjectInput(admin)
		in.WagePerWorker = testMinimumWage - 1
		_, err := svc.Create(ctx, in)
		var appErr *utils.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.StatusCode)
	})

	t.Run("ZeroWorkerNeed", func(t *testing.T) {
		in := validProjectInput(admin)
		in.WorkerNeed = 0
		_, err := svc.Create(ctx, in)
		var appErr *utils.AppError
		assert.ErrorAs(t, err, &appErr)
	})

	t.Run("DatesInverted", func(t *testing.T) {
		in := validProjectInput(admin)
		in.EndDate = in.StartDate
		_, err := svc.Create(ctx, in)
		var appErr *utils.AppError
		assert.ErrorAs(t, err, &appErr)
	})

	t.Run("NonAdminOwner", func(t *testing.T) {
		in := validProjectInput(worker)
		_, err := svc.Create(ctx, in)
		assert.ErrorIs(t, err, utils.ErrForbidden)
	})

	t.Run("UnknownOwner", func(t *testing.T) {
		in := validProjectInput(admin)
		in.OwnerID = mustUUID(t)
		_, err := svc.Create(ctx, in)
		assert.ErrorIs(t, err, utils.ErrForbidden)
	})
}

func TestUpdateProject(t *testing.T) {
	svc, identities := newProjectFixture(t)
	admin := seedIdentity(t, identities, models.RoleAdmin)
	ctx := context.Background()

	p, err := svc.Create(ctx, validProjectInput(admin))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, p.ID, UpdateProjectInput{
		Name:   utils.Ptr("Pond Excavation Phase II"),
		Status: utils.Ptr(models.ProjectStatusActive),
	})
	require.NoError(t, err)
	assert.Equal(t, "Pond Excavation Phase II", updated.Name)
	assert.Equal(t, models.ProjectStatusActive, updated.Status)

	_, err = svc.Update(ctx, p.ID, UpdateProjectInput{Status: utils.Ptr(models.ProjectStatusType("ARCHIVED"))})
	var appErr *utils.AppError
	assert.ErrorAs(t, err, &appErr)

	_, err = svc.Update(ctx, mustUUID(t), UpdateProjectInput{})
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestListProjectsByStatus(t *testing.T) {
	svc, identities := newProjectFixture(t)
	admin := seedIdentity(t, identities, models.RoleAdmin)
	ctx := context.Background()

	a, err := svc.Create(ctx, validProjectInput(admin))
	require.NoError(t, err)
	_, err = svc.Create(ctx, validProjectInput(admin))
	require.NoError(t, err)
	_, err = svc.Update(ctx, a.ID, UpdateProjectInput{Status: utils.Ptr(models.ProjectStatusActive)})
	require.NoError(t, err)

	active, err := svc.List(ctx, utils.Ptr(models.ProjectStatusActive), 10, 0)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := svc.List(ctx, nil, 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
