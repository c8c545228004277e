package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/repositories"
	"github.com/gramsetu/employment-service/internal/utils"
)

type paymentFixture struct {
	svc        PaymentService
	identities *repositories.MemoryIdentityRepository
	projects   *repositories.MemoryProjectRepository
	attendance *repositories.MemoryAttendanceRepository
	clock      *fixedClock

	worker  *models.Identity
	admin   *models.Identity
	project *models.Project
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	identities := repositories.NewMemoryIdentityRepository()
	projects := repositories.NewMemoryProjectRepository()
	attendance := repositories.NewMemoryAttendanceRepository()
	payments := repositories.NewMemoryPaymentRepository()

	clock := newFixedClock(time.Date(2026, 3, 20, 11, 0, 0, 0, time.UTC))
	svc := NewPaymentService(payments, attendance, projects, identities)
	svc.(*paymentService).now = clock.Now

	f := &paymentFixture{
		svc:        svc,
		identities: identities,
		projects:   projects,
		attendance: attendance,
		clock:      clock,
	}
	f.worker = seedIdentity(t, identities, models.RoleWorkerSupervisor)
	f.admin = seedIdentity(t, identities, models.RoleAdmin)
	f.project = seedProject(t, projects, f.admin.ID, 37400,
		clock.Now().AddDate(0, 0, -30), clock.Now().AddDate(0, 1, 0))
	return f
}

func (f *paymentFixture) markDays(t *testing.T, workerID uuid.UUID, status models.AttendanceStatusType, days int) {
	t.Helper()
	for i := 0; i < days; i++ {
		require.NoError(t, f.attendance.Create(context.Background(), &models.Attendance{
			ID:        uuid.New(),
			WorkerID:  workerID,
			ProjectID: f.project.ID,
			Date:      f.clock.Now().AddDate(0, 0, -(i + 1)).Truncate(24 * time.Hour),
			Status:    status,
			MarkedBy:  f.admin.ID,
		}))
	}
}

func TestGeneratePaymentsComputesWage(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	// Five PRESENT days at the statutory daily wage of 37400 paise.
	f.markDays(t, f.worker.ID, models.AttendancePresent, 5)

	created, err := f.svc.GeneratePayments(ctx, f.project.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, f.worker.ID, created[0].WorkerID)
	assert.Equal(t, int64(187000), created[0].AmountPaise)
	assert.Equal(t, 5, created[0].DaysWorked)
	assert.Equal(t, models.PaymentStatusPending, created[0].Status)
}

func TestGeneratePaymentsIgnoresAbsenceAndLeave(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	absent := seedIdentity(t, f.identities, models.RoleWorkerSupervisor)
	f.markDays(t, f.worker.ID, models.AttendancePresent, 3)
	f.markDays(t, absent.ID, models.AttendanceAbsent, 4)

	created, err := f.svc.GeneratePayments(ctx, f.project.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, created, 1, "only PRESENT days earn a wage")
	assert.Equal(t, f.worker.ID, created[0].WorkerID)
	assert.Equal(t, int64(3*37400), created[0].AmountPaise)
}

func TestGeneratePaymentsIdempotent(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	f.markDays(t, f.worker.ID, models.AttendancePresent, 5)

	first, err := f.svc.GeneratePayments(ctx, f.project.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Re-running settlement over the same attendance mints nothing.
	second, err := f.svc.GeneratePayments(ctx, f.project.ID, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, second)

	all, err := f.svc.ListByProject(ctx, f.project.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGeneratePaymentsAfterMoreAttendance(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	f.markDays(t, f.worker.ID, models.AttendancePresent, 5)
	_, err := f.svc.GeneratePayments(ctx, f.project.ID, nil, nil)
	require.NoError(t, err)

	// More PRESENT days change the computed amount, so a new payment
	// covers the recomputed total.
	require.NoError(t, f.attendance.Create(ctx, &models.Attendance{
		ID:        uuid.New(),
		WorkerID:  f.worker.ID,
		ProjectID: f.project.ID,
		Date:      f.clock.Now().AddDate(0, 0, -10).Truncate(24 * time.Hour),
		Status:    models.AttendancePresent,
		MarkedBy:  f.admin.ID,
	}))

	created, err := f.svc.GeneratePayments(ctx, f.project.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, int64(6*37400), created[0].AmountPaise)
}

func TestGeneratePaymentsDateRange(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	f.markDays(t, f.worker.ID, models.AttendancePresent, 10)

	from := f.clock.Now().AddDate(0, 0, -3).Truncate(24 * time.Hour)
	created, err := f.svc.GeneratePayments(ctx, f.project.ID, &from, nil)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, 3, created[0].DaysWorked)
}

func TestGeneratePaymentsUnknownProject(t *testing.T) {
	f := newPaymentFixture(t)
	_, err := f.svc.GeneratePayments(context.Background(), mustUUID(t), nil, nil)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestPaymentApprovalRequiresAdmin(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, f.worker.ID, f.project.ID, 37400, 1)
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, p.ID, nil)
	assert.ErrorIs(t, err, utils.ErrForbidden)

	// A worker identity cannot approve either.
	_, err = f.svc.Approve(ctx, p.ID, &f.worker.ID)
	assert.ErrorIs(t, err, utils.ErrForbidden)

	_, err = f.svc.Reject(ctx, p.ID, nil)
	assert.ErrorIs(t, err, utils.ErrForbidden)
}

func TestPaymentLifecycle(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, f.worker.ID, f.project.ID, 187000, 5)
	require.NoError(t, err)

	// PENDING payments cannot be paid out directly.
	_, err = f.svc.MarkAsPaid(ctx, p.ID)
	assert.ErrorIs(t, err, utils.ErrInvalidState)

	approved, err := f.svc.Approve(ctx, p.ID, &f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, f.admin.ID, *approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)
	assert.Equal(t, f.clock.Now(), *approved.ApprovedAt)

	// Approval is one-shot.
	_, err = f.svc.Approve(ctx, p.ID, &f.admin.ID)
	assert.ErrorIs(t, err, utils.ErrInvalidState)
	_, err = f.svc.Reject(ctx, p.ID, &f.admin.ID)
	assert.ErrorIs(t, err, utils.ErrInvalidState)

	f.clock.Advance(2 * time.Hour)
	paid, err := f.svc.MarkAsPaid(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, f.clock.Now(), *paid.PaidAt)

	_, err = f.svc.MarkAsPaid(ctx, p.ID)
	assert.ErrorIs(t, err, utils.ErrInvalidState)
}

func TestPaymentRejection(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, f.worker.ID, f.project.ID, 37400, 1)
	require.NoError(t, err)

	rejected, err := f.svc.Reject(ctx, p.ID, &f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRejected, rejected.Status)

	_, err = f.svc.MarkAsPaid(ctx, p.ID)
	assert.ErrorIs(t, err, utils.ErrInvalidState)
}

func TestPaymentDeleteOnlyPending(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, f.worker.ID, f.project.ID, 37400, 1)
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, p.ID, &f.admin.ID)
	require.NoError(t, err)

	err = f.svc.Delete(ctx, p.ID)
	assert.ErrorIs(t, err, utils.ErrInvalidState)

	q, err := f.svc.Create(ctx, f.worker.ID, f.project.ID, 74800, 2)
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, q.ID))
	_, err = f.svc.GetByID(ctx, q.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestPaymentCreateValidation(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.worker.ID, f.project.ID, 0, 0)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode)

	_, err = f.svc.Create(ctx, f.worker.ID, mustUUID(t), 37400, 1)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = f.svc.Create(ctx, mustUUID(t), f.project.ID, 37400, 1)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}
