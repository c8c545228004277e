package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/utils"
)

// MemoryWorkDemandRepository needs project lookups for the
// active-assignment join, so it is constructed over the project repo.
type MemoryWorkDemandRepository struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]models.WorkDemandRequest
	order    []uuid.UUID
	projects *MemoryProjectRepository
}

func NewMemoryWorkDemandRepository(projects *MemoryProjectRepository) *MemoryWorkDemandRepository {
	return &MemoryWorkDemandRepository{
		byID:     make(map[uuid.UUID]models.WorkDemandRequest),
		projects: projects,
	}
}

func (r *MemoryWorkDemandRepository) Create(_ context.Context, req *models.WorkDemandRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	r.byID[req.ID] = *req
	r.order = append(r.order, req.ID)
	return nil
}

func (r *MemoryWorkDemandRepository) GetByID(_ context.Context, id uuid.UUID) (*models.WorkDemandRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.byID[id]; ok {
		cp := rec
		return &cp, nil
	}
	return nil, nil
}

func (r *MemoryWorkDemandRepository) ListByWorker(_ context.Context, workerID uuid.UUID) ([]*models.WorkDemandRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.WorkDemandRequest
	for _, id := range r.order {
		rec := r.byID[id]
		if rec.WorkerID != workerID {
			continue
		}
		cp := rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestTime.After(out[j].RequestTime) })
	return out, nil
}

func (r *MemoryWorkDemandRepository) List(_ context.Context, status *models.WorkDemandStatusType, limit, offset int) ([]*models.WorkDemandRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.WorkDemandRequest
	for _, id := range r.order {
		rec := r.byID[id]
		if status != nil && rec.Status != *status {
			continue
		}
		cp := rec
		out = append(out, &cp)
	}
	return paginate(out, limit, offset), nil
}

func (r *MemoryWorkDemandRepository) ApproveIfPending(_ context.Context, id uuid.UUID, projectID *uuid.UUID, allocatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok || rec.Status != models.WorkDemandStatusPending {
		return utils.ErrNoRowsUpdated
	}
	rec.Status = models.WorkDemandStatusApproved
	if projectID != nil {
		rec.ProjectID = projectID
	}
	rec.AllocatedAt = &allocatedAt
	rec.UpdatedAt = time.Now()
	r.byID[id] = rec
	return nil
}

func (r *MemoryWorkDemandRepository) RejectIfNotTerminal(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok || rec.Status != models.WorkDemandStatusPending {
		return utils.ErrNoRowsUpdated
	}
	rec.Status = models.WorkDemandStatusRejected
	rec.UpdatedAt = time.Now()
	r.byID[id] = rec
	return nil
}

func (r *MemoryWorkDemandRepository) HasApprovedForProject(_ context.Context, workerID, projectID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.byID {
		if rec.WorkerID == workerID && rec.Status == models.WorkDemandStatusApproved &&
			rec.ProjectID != nil && *rec.ProjectID == projectID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryWorkDemandRepository) GetActiveAssignment(ctx context.Context, workerID uuid.UUID, now time.Time) (*ActiveAssignment, error) {
	r.mu.Lock()
	candidates := make([]models.WorkDemandRequest, 0)
	for _, rec := range r.byID {
		if rec.WorkerID == workerID && rec.Status == models.WorkDemandStatusApproved && rec.ProjectID != nil {
			candidates = append(candidates, rec)
		}
	}
	r.mu.Unlock()

	sort.Slice(candidates, func(i, j int) bool {
		ai, aj := candidates[i].AllocatedAt, candidates[j].AllocatedAt
		if ai == nil || aj == nil {
			return aj == nil
		}
		return ai.After(*aj)
	})

	for _, rec := range candidates {
		p, err := r.projects.GetByID(ctx, *rec.ProjectID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			continue
		}
		if p.EndDate.After(now) && p.Status != models.ProjectStatusCompleted {
			return &ActiveAssignment{
				RequestID:      rec.ID,
				ProjectID:      p.ID,
				ProjectEndDate: p.EndDate,
			}, nil
		}
	}
	return nil, nil
}
