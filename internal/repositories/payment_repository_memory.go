package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/utils"
)

type MemoryPaymentRepository struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]models.Payment
	order []uuid.UUID
}

func NewMemoryPaymentRepository() *MemoryPaymentRepository {
	return &MemoryPaymentRepository{byID: make(map[uuid.UUID]models.Payment)}
}

func (r *MemoryPaymentRepository) Create(_ context.Context, p *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.byID[p.ID] = *p
	r.order = append(r.order, p.ID)
	return nil
}

func (r *MemoryPaymentRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.byID[id]; ok {
		cp := rec
		return &cp, nil
	}
	return nil, nil
}

func (r *MemoryPaymentRepository) ListByProject(_ context.Context, projectID uuid.UUID) ([]*models.Payment, error) {
	return r.listMatch(func(p models.Payment) bool { return p.ProjectID == projectID })
}

func (r *MemoryPaymentRepository) ListByWorker(_ context.Context, workerID uuid.UUID) ([]*models.Payment, error) {
	return r.listMatch(func(p models.Payment) bool { return p.WorkerID == workerID })
}

func (r *MemoryPaymentRepository) listMatch(match func(models.Payment) bool) ([]*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Payment
	for _, id := range r.order {
		rec := r.byID[id]
		if match(rec) {
			cp := rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MemoryPaymentRepository) List(_ context.Context, status *models.PaymentStatusType, limit, offset int) ([]*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Payment
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

func (r *MemoryPaymentRepository) ApproveIf(_ context.Context, id uuid.UUID, adminID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok || rec.Status != models.PaymentStatusPending {
		return utils.ErrNoRowsUpdated
	}
	rec.Status = models.PaymentStatusApproved
	rec.ApprovedBy = &adminID
	rec.ApprovedAt = &at
	rec.UpdatedAt = time.Now()
	r.byID[id] = rec
	return nil
}

func (r *MemoryPaymentRepository) RejectIf(_ context.Context, id uuid.UUID, adminID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok || rec.Status != models.PaymentStatusPending {
		return utils.ErrNoRowsUpdated
	}
	rec.Status = models.PaymentStatusRejected
	rec.ApprovedBy = &adminID
	rec.UpdatedAt = time.Now()
	r.byID[id] = rec
	return nil
}

func (r *MemoryPaymentRepository) MarkPaidIf(_ context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok || rec.Status != models.PaymentStatusApproved {
		return utils.ErrNoRowsUpdated
	}
	rec.Status = models.PaymentStatusPaid
	rec.PaidAt = &at
	rec.UpdatedAt = time.Now()
	r.byID[id] = rec
	return nil
}

func (r *MemoryPaymentRepository) DeleteIfPending(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[id]
	if !ok || rec.Status != models.PaymentStatusPending {
		return utils.ErrNoRowsUpdated
	}
	delete(r.byID, id)
	return nil
}
