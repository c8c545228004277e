package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gramsetu/employment-service/internal/models"
)

type MemoryJobCardRepository struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]models.JobCard
	order []uuid.UUID
}

func NewMemoryJobCardRepository() *MemoryJobCardRepository {
	return &MemoryJobCardRepository{byID: make(map[uuid.UUID]models.JobCard)}
}

func (r *MemoryJobCardRepository) Create(_ context.Context, card *models.JobCard) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.putLocked(card)
	return nil
}

func (r *MemoryJobCardRepository) putLocked(card *models.JobCard) {
	card.CreatedAt = time.Now()
	card.UpdatedAt = card.CreatedAt
	r.byID[card.ID] = *card
	r.order = append(r.order, card.ID)
}

func (r *MemoryJobCardRepository) GetByID(_ context.Context, id uuid.UUID) (*models.JobCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.byID[id]; ok {
		cp := rec
		return &cp, nil
	}
	return nil, nil
}

func (r *MemoryJobCardRepository) GetByNationalID(_ context.Context, nationalID string) (*models.JobCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.byID {
		if rec.NationalID == nationalID {
			cp := rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *MemoryJobCardRepository) List(_ context.Context, limit, offset int) ([]*models.JobCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.JobCard
	for _, id := range r.order {
		rec := r.byID[id]
		cp := rec
		out = append(out, &cp)
	}
	return paginate(out, limit, offset), nil
}
