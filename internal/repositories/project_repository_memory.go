package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/utils"
)

type MemoryProjectRepository struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]models.Project
	order []uuid.UUID
}

func NewMemoryProjectRepository() *MemoryProjectRepository {
	return &MemoryProjectRepository{byID: make(map[uuid.UUID]models.Project)}
}

func (r *MemoryProjectRepository) Create(_ context.Context, p *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.byID[p.ID] = *p
	r.order = append(r.order, p.ID)
	return nil
}

func (r *MemoryProjectRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rec, ok := r.byID[id]; ok {
		cp := rec
		return &cp, nil
	}
	return nil, nil
}

func (r *MemoryProjectRepository) Update(_ context.Context, p *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; !ok {
		return utils.ErrNoRowsUpdated
	}
	p.UpdatedAt = time.Now()
	r.byID[p.ID] = *p
	return nil
}

func (r *MemoryProjectRepository) List(_ context.Context, status *models.ProjectStatusType, limit, offset int) ([]*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.Project
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
