package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/utils"
)

// MemoryIdentityRepository mirrors the Postgres repository for tests
// and enforces the same uniqueness rules under its mutex.
type MemoryIdentityRepository struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]models.Identity
	order []uuid.UUID
}

func NewMemoryIdentityRepository() *MemoryIdentityRepository {
	return &MemoryIdentityRepository{byID: make(map[uuid.UUID]models.Identity)}
}

func (r *MemoryIdentityRepository) Create(_ context.Context, id *models.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked(id)
}

func (r *MemoryIdentityRepository) createLocked(id *models.Identity) error {
	for _, existing := range r.byID {
		if !existing.Active {
			continue
		}
		switch {
		case existing.NationalID == id.NationalID:
			return utils.ErrNationalIDExists
		case existing.Email == id.Email:
			return utils.ErrEmailExists
		case existing.Phone == id.Phone:
			return utils.ErrPhoneExists
		case existing.GovernmentID == id.GovernmentID:
			return utils.ErrGovernmentIDExists
		}
	}
	id.CreatedAt = time.Now()
	id.UpdatedAt = id.CreatedAt
	r.byID[id.ID] = *id
	r.order = append(r.order, id.ID)
	return nil
}

func (r *MemoryIdentityRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rec, ok := r.byID[id]; ok {
		cp := rec
		return &cp, nil
	}
	return nil, nil
}

func (r *MemoryIdentityRepository) GetByNationalID(_ context.Context, nationalID string) (*models.Identity, error) {
	return r.findActive(func(i models.Identity) bool { return i.NationalID == nationalID })
}

func (r *MemoryIdentityRepository) GetByEmail(_ context.Context, email string) (*models.Identity, error) {
	return r.findActive(func(i models.Identity) bool { return i.Email == email })
}

func (r *MemoryIdentityRepository) GetByPhone(_ context.Context, phone string) (*models.Identity, error) {
	return r.findActive(func(i models.Identity) bool { return i.Phone == phone })
}

func (r *MemoryIdentityRepository) GetByGovernmentID(_ context.Context, governmentID string) (*models.Identity, error) {
	return r.findActive(func(i models.Identity) bool { return i.GovernmentID == governmentID })
}

func (r *MemoryIdentityRepository) findActive(match func(models.Identity) bool) (*models.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.byID {
		if rec.Active && match(rec) {
			cp := rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *MemoryIdentityRepository) Update(_ context.Context, id *models.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id.ID]; !ok {
		return utils.ErrNoRowsUpdated
	}
	id.UpdatedAt = time.Now()
	r.byID[id.ID] = *id
	return nil
}

func (r *MemoryIdentityRepository) Deactivate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok {
		return utils.ErrNoRowsUpdated
	}
	rec.Active = false
	rec.UpdatedAt = time.Now()
	r.byID[id] = rec
	return nil
}

func (r *MemoryIdentityRepository) List(_ context.Context, role *models.RoleType, limit, offset int) ([]*models.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.Identity
	for _, id := range r.order {
		rec := r.byID[id]
		if !rec.Active {
			continue
		}
		if role != nil && rec.Role != *role {
			continue
		}
		cp := rec
		out = append(out, &cp)
	}
	return paginate(out, limit, offset), nil
}

func paginate[T any](in []*T, limit, offset int) []*T {
	if limit <= 0 {
		return in
	}
	if offset >= len(in) {
		return nil
	}
	end := offset + limit
	if end > len(in) {
		end = len(in)
	}
	return in[offset:end]
}
