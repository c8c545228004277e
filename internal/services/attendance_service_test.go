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

type attendanceFixture struct {
	svc        AttendanceService
	identities *repositories.MemoryIdentityRepository
	projects   *repositories.MemoryProjectRepository
	demands    *repositories.MemoryWorkDemandRepository
	clock      *fixedClock
	tz         *time.Location

	worker  *models.Identity
	admin   *models.Identity
	project *models.Project
}

func newAttendanceFixture(t *testing.T) *attendanceFixture {
	t.Helper()
	tz, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	identities := repositories.NewMemoryIdentityRepository()
	projects := repositories.NewMemoryProjectRepository()
	demands := repositories.NewMemoryWorkDemandRepository(projects)
	attendance := repositories.NewMemoryAttendanceRepository()

	clock := newFixedClock(time.Date(2026, 3, 10, 14, 30, 0, 0, tz))
	svc := NewAttendanceService(attendance, demands, projects, tz)
	svc.(*attendanceService).now = clock.Now

	f := &attendanceFixture{
		svc:        svc,
		identities: identities,
		projects:   projects,
		demands:    demands,
		clock:      clock,
		tz:         tz,
	}
	f.worker = seedIdentity(t, identities, models.RoleWorkerSupervisor)
	f.admin = seedIdentity(t, identities, models.RoleAdmin)
	f.project = seedProject(t, projects, f.admin.ID, 37400,
		clock.Now().AddDate(0, 0, -7), clock.Now().AddDate(0, 1, 0))
	f.assign(t, f.worker.ID)
	return f
}

func (f *attendanceFixture) assign(t *testing.T, workerID uuid.UUID) {
	t.Helper()
	now := f.clock.Now()
	require.NoError(t, f.demands.Create(context.Background(), &models.WorkDemandRequest{
		ID:          uuid.New(),
		WorkerID:    workerID,
		ProjectID:   &f.project.ID,
		Status:      models.WorkDemandStatusApproved,
		RequestTime: now,
		AllocatedAt: &now,
	}))
}

func (f *attendanceFixture) mark(date time.Time, status models.AttendanceStatusType) (*models.Attendance, error) {
	return f.svc.Mark(context.Background(), MarkAttendanceInput{
		WorkerID:  f.worker.ID,
		ProjectID: f.project.ID,
		Date:      date,
		Status:    status,
		MarkedBy:  f.admin.ID,
	})
}

func TestMarkAttendance(t *testing.T) {
	f := newAttendanceFixture(t)

	rec, err := f.mark(f.clock.Now(), models.AttendancePresent)
	require.NoError(t, err)
	assert.Equal(t, models.AttendancePresent, rec.Status)

	// The stored date is midnight in the reporting zone.
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, f.tz), rec.Date)
	assert.Equal(t, f.admin.ID, rec.MarkedBy)
}

func TestMarkAttendanceFutureDate(t *testing.T) {
	f := newAttendanceFixture(t)

	_, err := f.mark(f.clock.Now().AddDate(0, 0, 1), models.AttendancePresent)
	assert.ErrorIs(t, err, utils.ErrFutureDate)

	// Later the same day is not "future": the check is day-granular.
	_, err = f.mark(f.clock.Now().Add(8*time.Hour), models.AttendancePresent)
	assert.NoError(t, err)
}

func TestMarkAttendanceDuplicateForDate(t *testing.T) {
	f := newAttendanceFixture(t)

	_, err := f.mark(f.clock.Now(), models.AttendancePresent)
	require.NoError(t, err)

	// A different time of the same day collides on the day key.
	_, err = f.mark(f.clock.Now().Add(-5*time.Hour), models.AttendanceAbsent)
	assert.ErrorIs(t, err, utils.ErrDuplicateForDate)

	// The previous day is a distinct key.
	_, err = f.mark(f.clock.Now().AddDate(0, 0, -1), models.AttendanceAbsent)
	assert.NoError(t, err)
}

func TestMarkAttendanceUnassignedWorker(t *testing.T) {
	f := newAttendanceFixture(t)
	stranger := seedIdentity(t, f.identities, models.RoleWorkerSupervisor)

	_, err := f.svc.Mark(context.Background(), MarkAttendanceInput{
		WorkerID:  stranger.ID,
		ProjectID: f.project.ID,
		Date:      f.clock.Now(),
		Status:    models.AttendancePresent,
		MarkedBy:  f.admin.ID,
	})
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.StatusCode)
}

func TestMarkAttendanceUnknownProject(t *testing.T) {
	f := newAttendanceFixture(t)

	_, err := f.svc.Mark(context.Background(), MarkAttendanceInput{
		WorkerID:  f.worker.ID,
		ProjectID: mustUUID(t),
		Date:      f.clock.Now(),
		Status:    models.AttendancePresent,
		MarkedBy:  f.admin.ID,
	})
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestMarkAttendanceInvalidStatus(t *testing.T) {
	f := newAttendanceFixture(t)

	_, err := f.mark(f.clock.Now(), models.AttendanceStatusType("SICK"))
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestUpdateAttendanceStatus(t *testing.T) {
	f := newAttendanceFixture(t)

	rec, err := f.mark(f.clock.Now(), models.AttendanceAbsent)
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(context.Background(), rec.ID, models.AttendancePresent)
	require.NoError(t, err)
	assert.Equal(t, models.AttendancePresent, updated.Status)

	_, err = f.svc.UpdateStatus(context.Background(), mustUUID(t), models.AttendancePresent)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestDeleteAttendanceFreesTheDay(t *testing.T) {
	f := newAttendanceFixture(t)

	rec, err := f.mark(f.clock.Now(), models.AttendancePresent)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), rec.ID))

	// The day can be marked again after deletion.
	_, err = f.mark(f.clock.Now(), models.AttendanceLeave)
	assert.NoError(t, err)
}

func TestListAttendanceByWorkerRange(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	for days := 0; days < 5; days++ {
		_, err := f.mark(f.clock.Now().AddDate(0, 0, -days), models.AttendancePresent)
		require.NoError(t, err)
	}

	from := time.Date(2026, 3, 8, 0, 0, 0, 0, f.tz)
	to := time.Date(2026, 3, 10, 0, 0, 0, 0, f.tz)
	list, err := f.svc.ListByWorker(ctx, f.worker.ID, &from, &to, 50, 0)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	all, err := f.svc.ListByWorker(ctx, f.worker.ID, nil, nil, 50, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
