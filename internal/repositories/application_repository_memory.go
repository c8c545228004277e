package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/utils"
)

// MemoryApplicationRepository pairs with MemoryIdentityRepository and
// MemoryJobCardRepository so ApproveTx can mimic the single-transaction
// semantics of the Postgres implementation under one lock.
type MemoryApplicationRepository struct {
	mu         sync.Mutex
	byTracking map[string]models.JobCardApplication
	order      []string

	identities *MemoryIdentityRepository
	cards      *MemoryJobCardRepository
}

func NewMemoryApplicationRepository(identities *MemoryIdentityRepository, cards *MemoryJobCardRepository) *MemoryApplicationRepository {
	return &MemoryApplicationRepository{
		byTracking: make(map[string]models.JobCardApplication),
		identities: identities,
		cards:      cards,
	}
}

func (r *MemoryApplicationRepository) Create(_ context.Context, app *models.JobCardApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt
	r.byTracking[app.TrackingID] = *app
	r.order = append(r.order, app.TrackingID)
	return nil
}

func (r *MemoryApplicationRepository) GetByTrackingID(_ context.Context, trackingID string) (*models.JobCardApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.byTracking[trackingID]; ok {
		cp := rec
		return &cp, nil
	}
	return nil, nil
}

func (r *MemoryApplicationRepository) GetPendingByNationalID(_ context.Context, nationalID string) (*models.JobCardApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.byTracking {
		if rec.NationalID == nationalID && rec.Status == models.ApplicationStatusPending {
			cp := rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *MemoryApplicationRepository) List(_ context.Context, status *models.ApplicationStatusType, limit, offset int) ([]*models.JobCardApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.JobCardApplication
	for _, tid := range r.order {
		rec := r.byTracking[tid]
		if status != nil && rec.Status != *status {
			continue
		}
		cp := rec
		out = append(out, &cp)
	}
	return paginate(out, limit, offset), nil
}

func (r *MemoryApplicationRepository) RejectIfPending(_ context.Context, trackingID string, reason *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byTracking[trackingID]
	if !ok || rec.Status != models.ApplicationStatusPending {
		return utils.ErrNoRowsUpdated
	}
	rec.Status = models.ApplicationStatusRejected
	rec.RejectionReason = reason
	rec.UpdatedAt = time.Now()
	r.byTracking[trackingID] = rec
	return nil
}

func (r *MemoryApplicationRepository) ApproveTx(
	_ context.Context,
	app *models.JobCardApplication,
	identity *models.Identity,
	card *models.JobCard,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byTracking[app.TrackingID]
	if !ok || rec.Status != models.ApplicationStatusPending {
		return utils.ErrNoRowsUpdated
	}

	r.identities.mu.Lock()
	defer r.identities.mu.Unlock()
	if err := r.identities.createLocked(identity); err != nil {
		return err
	}

	r.cards.mu.Lock()
	defer r.cards.mu.Unlock()
	r.cards.putLocked(card)

	rec.Status = models.ApplicationStatusApproved
	rec.LinkedJobCardID = &card.ID
	rec.UpdatedAt = time.Now()
	r.byTracking[app.TrackingID] = rec
	return nil
}
