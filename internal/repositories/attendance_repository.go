package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/gramsetu/employment-service/internal/models"
)

type AttendanceRepository interface {
	Create(ctx context.Context, a *models.Attendance) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Attendance, error)
	GetByWorkerProjectDate(ctx context.Context, workerID, projectID uuid.UUID, date time.Time) (*models.Attendance, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.AttendanceStatusType) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByProject(ctx context.Context, projectID uuid.UUID, from, to *time.Time, limit, offset int) ([]*models.Attendance, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID, from, to *time.Time, limit, offset int) ([]*models.Attendance, error)
}

type attendanceRepo struct {
	db DB
}

func NewAttendanceRepository(db DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, a *models.Attendance) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO attendance (
            id, worker_id, project_id, date, status, marked_by,
            created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())
    `,
		a.ID, a.WorkerID, a.ProjectID, a.Date, a.Status, a.MarkedBy,
	)
	return err
}

func (r *attendanceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Attendance, error) {
	row := r.db.QueryRow(ctx, baseSelectAttendance()+" WHERE id=$1", id)
	return scanAttendance(row)
}

func (r *attendanceRepo) GetByWorkerProjectDate(ctx context.Context, workerID, projectID uuid.UUID, date time.Time) (*models.Attendance, error) {
	row := r.db.QueryRow(ctx,
		baseSelectAttendance()+" WHERE worker_id=$1 AND project_id=$2 AND date=$3",
		workerID, projectID, date,
	)
	return scanAttendance(row)
}

func (r *attendanceRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AttendanceStatusType) error {
	_, err := r.db.Exec(ctx, `UPDATE attendance SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	return err
}

func (r *attendanceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM attendance WHERE id=$1`, id)
	return err
}

func (r *attendanceRepo) ListByProject(ctx context.Context, projectID uuid.UUID, from, to *time.Time, limit, offset int) ([]*models.Attendance, error) {
	return r.list(ctx, "project_id", projectID, from, to, limit, offset)
}

func (r *attendanceRepo) ListByWorker(ctx context.Context, workerID uuid.UUID, from, to *time.Time, limit, offset int) ([]*models.Attendance, error) {
	return r.list(ctx, "worker_id", workerID, from, to, limit, offset)
}

func (r *attendanceRepo) list(ctx context.Context, col string, id uuid.UUID, from, to *time.Time, limit, offset int) ([]*models.Attendance, error) {
	q := baseSelectAttendance() + " WHERE " + col + "=$1"
	args := []any{id}
	if from != nil {
		args = append(args, *from)
		q += " AND date >= $" + itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		q += " AND date <= $" + itoa(len(args))
	}
	q += " ORDER BY date DESC"
	if limit > 0 {
		args = append(args, limit, offset)
		q += " LIMIT $" + itoa(len(args)-1) + " OFFSET $" + itoa(len(args))
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Attendance
	for rows.Next() {
		a, scanErr := scanAttendance(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func baseSelectAttendance() string {
	return `
    SELECT
        id, worker_id, project_id, date, status, marked_by,
        created_at, updated_at
    FROM attendance`
}

func scanAttendance(row pgx.Row) (*models.Attendance, error) {
	var a models.Attendance
	var status string

	err := row.Scan(
		&a.ID, &a.WorkerID, &a.ProjectID, &a.Date, &status, &a.MarkedBy,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	a.Status = models.AttendanceStatusType(status)
	return &a, nil
}
