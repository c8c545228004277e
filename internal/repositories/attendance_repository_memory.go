package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/utils"
)

type MemoryAttendanceRepository struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]models.Attendance
	byKey map[string]uuid.UUID
	order []uuid.UUID
}

func NewMemoryAttendanceRepository() *MemoryAttendanceRepository {
	return &MemoryAttendanceRepository{
		byID:  make(map[uuid.UUID]models.Attendance),
		byKey: make(map[string]uuid.UUID),
	}
}

func attendanceKey(workerID, projectID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("%s|%s|%s", workerID, projectID, date.Format("2006-01-02"))
}

func (r *MemoryAttendanceRepository) Create(_ context.Context, a *models.Attendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := attendanceKey(a.WorkerID, a.ProjectID, a.Date)
	if _, exists := r.byKey[key]; exists {
		return utils.ErrDuplicateForDate
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.byID[a.ID] = *a
	r.byKey[key] = a.ID
	r.order = append(r.order, a.ID)
	return nil
}

func (r *MemoryAttendanceRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.byID[id]; ok {
		cp := rec
		return &cp, nil
	}
	return nil, nil
}

func (r *MemoryAttendanceRepository) GetByWorkerProjectDate(_ context.Context, workerID, projectID uuid.UUID, date time.Time) (*models.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byKey[attendanceKey(workerID, projectID, date)]; ok {
		rec := r.byID[id]
		cp := rec
		return &cp, nil
	}
	return nil, nil
}

func (r *MemoryAttendanceRepository) UpdateStatus(_ context.Context, id uuid.UUID, status models.AttendanceStatusType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok {
		return utils.ErrNoRowsUpdated
	}
	rec.Status = status
	rec.UpdatedAt = time.Now()
	r.byID[id] = rec
	return nil
}

func (r *MemoryAttendanceRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok {
		return nil
	}
	delete(r.byKey, attendanceKey(rec.WorkerID, rec.ProjectID, rec.Date))
	delete(r.byID, id)
	return nil
}

func (r *MemoryAttendanceRepository) ListByProject(_ context.Context, projectID uuid.UUID, from, to *time.Time, limit, offset int) ([]*models.Attendance, error) {
	return r.list(func(a models.Attendance) bool { return a.ProjectID == projectID }, from, to, limit, offset)
}

func (r *MemoryAttendanceRepository) ListByWorker(_ context.Context, workerID uuid.UUID, from, to *time.Time, limit, offset int) ([]*models.Attendance, error) {
	return r.list(func(a models.Attendance) bool { return a.WorkerID == workerID }, from, to, limit, offset)
}

func (r *MemoryAttendanceRepository) list(match func(models.Attendance) bool, from, to *time.Time, limit, offset int) ([]*models.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Attendance
	for _, id := range r.order {
		rec, ok := r.byID[id]
		if !ok || !match(rec) {
			continue
		}
		if from != nil && rec.Date.Before(*from) {
			continue
		}
		if to != nil && rec.Date.After(*to) {
			continue
		}
		cp := rec
		out = append(out, &cp)
	}
	return paginate(out, limit, offset), nil
}
