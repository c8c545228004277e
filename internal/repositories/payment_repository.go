package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/utils"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Payment, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.Payment, error)
	List(ctx context.Context, status *models.PaymentStatusType, limit, offset int) ([]*models.Payment, error)

	// ApproveIf / RejectIf / MarkPaidIf are compare-and-set status
	// transitions; each returns ErrNoRowsUpdated when the payment was
	// not in the required source state.
	ApproveIf(ctx context.Context, id uuid.UUID, adminID uuid.UUID, at time.Time) error
	RejectIf(ctx context.Context, id uuid.UUID, adminID uuid.UUID) error
	MarkPaidIf(ctx context.Context, id uuid.UUID, at time.Time) error

	// DeleteIfPending removes a payment only while still PENDING.
	DeleteIfPending(ctx context.Context, id uuid.UUID) error
}

type paymentRepo struct {
	db DB
}

func NewPaymentRepository(db DB) PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) Create(ctx context.Context, p *models.Payment) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO payments (
            id, worker_id, project_id, amount_paise, days_worked,
            status, approved_by, approved_at, paid_at,
            created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW())
    `,
		p.ID, p.WorkerID, p.ProjectID, p.AmountPaise, p.DaysWorked,
		p.Status, p.ApprovedBy, p.ApprovedAt, p.PaidAt,
	)
	return err
}

func (r *paymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	row := r.db.QueryRow(ctx, baseSelectPayment()+" WHERE id=$1", id)
	return scanPayment(row)
}

func (r *paymentRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Payment, error) {
	rows, err := r.db.Query(ctx, baseSelectPayment()+" WHERE project_id=$1 ORDER BY created_at DESC", projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

func (r *paymentRepo) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.Payment, error) {
	rows, err := r.db.Query(ctx, baseSelectPayment()+" WHERE worker_id=$1 ORDER BY created_at DESC", workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

func (r *paymentRepo) List(ctx context.Context, status *models.PaymentStatusType, limit, offset int) ([]*models.Payment, error) {
	q := baseSelectPayment()
	args := []any{}
	if status != nil {
		q += " WHERE status=$1"
		args = append(args, *status)
	}
	q += " ORDER BY created_at DESC"
	if limit > 0 {
		args = append(args, limit, offset)
		q += " LIMIT $" + itoa(len(args)-1) + " OFFSET $" + itoa(len(args))
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

func (r *paymentRepo) ApproveIf(ctx context.Context, id uuid.UUID, adminID uuid.UUID, at time.Time) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE payments
        SET status=$1, approved_by=$2, approved_at=$3, updated_at=NOW()
        WHERE id=$4 AND status=$5
    `, models.PaymentStatusApproved, adminID, at, id, models.PaymentStatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNoRowsUpdated
	}
	return nil
}

func (r *paymentRepo) RejectIf(ctx context.Context, id uuid.UUID, adminID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE payments
        SET status=$1, approved_by=$2, updated_at=NOW()
        WHERE id=$3 AND status=$4
    `, models.PaymentStatusRejected, adminID, id, models.PaymentStatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNoRowsUpdated
	}
	return nil
}

func (r *paymentRepo) MarkPaidIf(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE payments
        SET status=$1, paid_at=$2, updated_at=NOW()
        WHERE id=$3 AND status=$4
    `, models.PaymentStatusPaid, at, id, models.PaymentStatusApproved)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNoRowsUpdated
	}
	return nil
}

func (r *paymentRepo) DeleteIfPending(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM payments WHERE id=$1 AND status=$2`,
		id, models.PaymentStatusPending,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNoRowsUpdated
	}
	return nil
}

func collectPayments(rows pgx.Rows) ([]*models.Payment, error) {
	var out []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func baseSelectPayment() string {
	return `
    SELECT
        id, worker_id, project_id, amount_paise, days_worked,
        status, approved_by, approved_at, paid_at,
        created_at, updated_at
    FROM payments`
}

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var p models.Payment
	var status string

	err := row.Scan(
		&p.ID, &p.WorkerID, &p.ProjectID, &p.AmountPaise, &p.DaysWorked,
		&status, &p.ApprovedBy, &p.ApprovedAt, &p.PaidAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	p.Status = models.PaymentStatusType(status)
	return &p, nil
}
