package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/utils"
)

// ActiveAssignment describes the approved request currently binding a
// worker to an unfinished project.
type ActiveAssignment struct {
	RequestID      uuid.UUID
	ProjectID      uuid.UUID
	ProjectEndDate time.Time
}

type WorkDemandRepository interface {
	Create(ctx context.Context, req *models.WorkDemandRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.WorkDemandRequest, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.WorkDemandRequest, error)
	List(ctx context.Context, status *models.WorkDemandStatusType, limit, offset int) ([]*models.WorkDemandRequest, error)

	// ApproveIfPending flips PENDING→APPROVED, stamping the optional
	// project and the allocation time, guarded by the current status.
	// Returns ErrNoRowsUpdated when the request was no longer pending.
	ApproveIfPending(ctx context.Context, id uuid.UUID, projectID *uuid.UUID, allocatedAt time.Time) error

	// RejectIfNotTerminal flips any non-terminal request to REJECTED.
	RejectIfNotTerminal(ctx context.Context, id uuid.UUID) error

	// GetActiveAssignment returns the approved request whose project
	// has not ended and is not completed, or nil when the worker is
	// free to demand work.
	GetActiveAssignment(ctx context.Context, workerID uuid.UUID, now time.Time) (*ActiveAssignment, error)

	// HasApprovedForProject reports whether the worker holds an
	// approved request bound to the given project.
	HasApprovedForProject(ctx context.Context, workerID, projectID uuid.UUID) (bool, error)
}

type workDemandRepo struct {
	db DB
}

func NewWorkDemandRepository(db DB) WorkDemandRepository {
	return &workDemandRepo{db: db}
}

func (r *workDemandRepo) Create(ctx context.Context, req *models.WorkDemandRequest) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO work_demand_requests (
            id, worker_id, project_id, status,
            request_time, allocated_at, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())
    `,
		req.ID, req.WorkerID, req.ProjectID, req.Status,
		req.RequestTime, req.AllocatedAt,
	)
	return err
}

func (r *workDemandRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.WorkDemandRequest, error) {
	row := r.db.QueryRow(ctx, baseSelectWorkDemand()+" WHERE id=$1", id)
	return scanWorkDemand(row)
}

func (r *workDemandRepo) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.WorkDemandRequest, error) {
	rows, err := r.db.Query(ctx, baseSelectWorkDemand()+" WHERE worker_id=$1 ORDER BY request_time DESC", workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWorkDemands(rows)
}

func (r *workDemandRepo) List(ctx context.Context, status *models.WorkDemandStatusType, limit, offset int) ([]*models.WorkDemandRequest, error) {
	q := baseSelectWorkDemand()
	args := []any{}
	if status != nil {
		q += " WHERE status=$1"
		args = append(args, *status)
	}
	q += " ORDER BY request_time DESC"
	if limit > 0 {
		args = append(args, limit, offset)
		q += " LIMIT $" + itoa(len(args)-1) + " OFFSET $" + itoa(len(args))
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWorkDemands(rows)
}

func (r *workDemandRepo) ApproveIfPending(ctx context.Context, id uuid.UUID, projectID *uuid.UUID, allocatedAt time.Time) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE work_demand_requests
        SET status=$1, project_id=COALESCE($2, project_id), allocated_at=$3, updated_at=NOW()
        WHERE id=$4 AND status=$5
    `, models.WorkDemandStatusApproved, projectID, allocatedAt, id, models.WorkDemandStatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNoRowsUpdated
	}
	return nil
}

func (r *workDemandRepo) RejectIfNotTerminal(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE work_demand_requests
        SET status=$1, updated_at=NOW()
        WHERE id=$2 AND status=$3
    `, models.WorkDemandStatusRejected, id, models.WorkDemandStatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNoRowsUpdated
	}
	return nil
}

func (r *workDemandRepo) GetActiveAssignment(ctx context.Context, workerID uuid.UUID, now time.Time) (*ActiveAssignment, error) {
	row := r.db.QueryRow(ctx, `
        SELECT w.id, p.id, p.end_date
        FROM work_demand_requests w
        JOIN projects p ON p.id = w.project_id
        WHERE w.worker_id = $1
          AND w.status = $2
          AND p.end_date > $3
          AND p.status <> $4
        ORDER BY w.allocated_at DESC
        LIMIT 1
    `, workerID, models.WorkDemandStatusApproved, now, models.ProjectStatusCompleted)

	var a ActiveAssignment
	err := row.Scan(&a.RequestID, &a.ProjectID, &a.ProjectEndDate)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *workDemandRepo) HasApprovedForProject(ctx context.Context, workerID, projectID uuid.UUID) (bool, error) {
	row := r.db.QueryRow(ctx, `
        SELECT 1
        FROM work_demand_requests
        WHERE worker_id=$1 AND project_id=$2 AND status=$3
        LIMIT 1
    `, workerID, projectID, models.WorkDemandStatusApproved)

	var one int
	err := row.Scan(&one)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func collectWorkDemands(rows pgx.Rows) ([]*models.WorkDemandRequest, error) {
	var out []*models.WorkDemandRequest
	for rows.Next() {
		req, err := scanWorkDemand(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func baseSelectWorkDemand() string {
	return `
    SELECT
        id, worker_id, project_id, status,
        request_time, allocated_at, created_at, updated_at
    FROM work_demand_requests`
}

func scanWorkDemand(row pgx.Row) (*models.WorkDemandRequest, error) {
	var req models.WorkDemandRequest
	var status string

	err := row.Scan(
		&req.ID, &req.WorkerID, &req.ProjectID, &status,
		&req.RequestTime, &req.AllocatedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	req.Status = models.WorkDemandStatusType(status)
	return &req, nil
}
