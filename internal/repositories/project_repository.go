package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/gramsetu/employment-service/internal/models"
)

type ProjectRepository interface {
	Create(ctx context.Context, p *models.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Update(ctx context.Context, p *models.Project) error
	List(ctx context.Context, status *models.ProjectStatusType, limit, offset int) ([]*models.Project, error)
}

type projectRepo struct {
	db DB
}

func NewProjectRepository(db DB) ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, p *models.Project) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO projects (
            id, name, description, location,
            worker_need, wage_per_worker, start_date, end_date,
            status, owner_id, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),NOW())
    `,
		p.ID, p.Name, p.Description, p.Location,
		p.WorkerNeed, p.WagePerWorker, p.StartDate, p.EndDate,
		p.Status, p.OwnerID,
	)
	return err
}

func (r *projectRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	row := r.db.QueryRow(ctx, baseSelectProject()+" WHERE id=$1", id)
	return scanProject(row)
}

func (r *projectRepo) Update(ctx context.Context, p *models.Project) error {
	_, err := r.db.Exec(ctx, `
        UPDATE projects SET
            name=$1, description=$2, location=$3,
            worker_need=$4, wage_per_worker=$5, start_date=$6, end_date=$7,
            status=$8, updated_at=NOW()
        WHERE id=$9
    `,
		p.Name, p.Description, p.Location,
		p.WorkerNeed, p.WagePerWorker, p.StartDate, p.EndDate,
		p.Status, p.ID,
	)
	return err
}

func (r *projectRepo) List(ctx context.Context, status *models.ProjectStatusType, limit, offset int) ([]*models.Project, error) {
	q := baseSelectProject()
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

	var out []*models.Project
	for rows.Next() {
		p, scanErr := scanProject(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func baseSelectProject() string {
	return `
    SELECT
        id, name, description, location,
        worker_need, wage_per_worker, start_date, end_date,
        status, owner_id, created_at, updated_at
    FROM projects`
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	var status string

	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Location,
		&p.WorkerNeed, &p.WagePerWorker, &p.StartDate, &p.EndDate,
		&status, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	p.Status = models.ProjectStatusType(status)
	return &p, nil
}
