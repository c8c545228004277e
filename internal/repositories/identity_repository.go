package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/gramsetu/employment-service/internal/models"
)

type IdentityRepository interface {
	Create(ctx context.Context, id *models.Identity) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Identity, error)
	GetByNationalID(ctx context.Context, nationalID string) (*models.Identity, error)
	GetByEmail(ctx context.Context, email string) (*models.Identity, error)
	GetByPhone(ctx context.Context, phone string) (*models.Identity, error)
	GetByGovernmentID(ctx context.Context, governmentID string) (*models.Identity, error)
	Update(ctx context.Context, id *models.Identity) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, role *models.RoleType, limit, offset int) ([]*models.Identity, error)
}

type identityRepo struct {
	db DB
}

func NewIdentityRepository(db DB) IdentityRepository {
	return &identityRepo{db: db}
}

func (r *identityRepo) Create(ctx context.Context, id *models.Identity) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO identities (
            id, national_id, phone, email, government_id,
            name, password_hash, role, active, image_url,
            created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),NOW())
    `,
		id.ID, id.NationalID, id.Phone, id.Email, id.GovernmentID,
		id.Name, id.PasswordHash, id.Role, id.Active, id.ImageURL,
	)
	return err
}

func (r *identityRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Identity, error) {
	row := r.db.QueryRow(ctx, baseSelectIdentity()+" WHERE id=$1", id)
	return scanIdentity(row)
}

func (r *identityRepo) GetByNationalID(ctx context.Context, nationalID string) (*models.Identity, error) {
	row := r.db.QueryRow(ctx, baseSelectIdentity()+" WHERE national_id=$1 AND active=TRUE", nationalID)
	return scanIdentity(row)
}

func (r *identityRepo) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	row := r.db.QueryRow(ctx, baseSelectIdentity()+" WHERE email=$1 AND active=TRUE", email)
	return scanIdentity(row)
}

func (r *identityRepo) GetByPhone(ctx context.Context, phone string) (*models.Identity, error) {
	row := r.db.QueryRow(ctx, baseSelectIdentity()+" WHERE phone=$1 AND active=TRUE", phone)
	return scanIdentity(row)
}

func (r *identityRepo) GetByGovernmentID(ctx context.Context, governmentID string) (*models.Identity, error) {
	row := r.db.QueryRow(ctx, baseSelectIdentity()+" WHERE government_id=$1 AND active=TRUE", governmentID)
	return scanIdentity(row)
}

func (r *identityRepo) Update(ctx context.Context, id *models.Identity) error {
	_, err := r.db.Exec(ctx, `
        UPDATE identities SET
            phone=$1, email=$2, name=$3, password_hash=$4,
            role=$5, active=$6, image_url=$7, updated_at=NOW()
        WHERE id=$8
    `,
		id.Phone, id.Email, id.Name, id.PasswordHash,
		id.Role, id.Active, id.ImageURL, id.ID,
	)
	return err
}

func (r *identityRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE identities SET active=FALSE, updated_at=NOW() WHERE id=$1`, id)
	return err
}

func (r *identityRepo) List(ctx context.Context, role *models.RoleType, limit, offset int) ([]*models.Identity, error) {
	q := baseSelectIdentity() + " WHERE active=TRUE"
	args := []any{}
	if role != nil {
		q += " AND role=$1"
		args = append(args, *role)
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

	var out []*models.Identity
	for rows.Next() {
		id, scanErr := scanIdentity(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func baseSelectIdentity() string {
	return `
    SELECT
        id, national_id, phone, email, government_id,
        name, password_hash, role, active, image_url,
        created_at, updated_at
    FROM identities`
}

func scanIdentity(row pgx.Row) (*models.Identity, error) {
	var id models.Identity
	var role string

	err := row.Scan(
		&id.ID, &id.NationalID, &id.Phone, &id.Email, &id.GovernmentID,
		&id.Name, &id.PasswordHash, &role, &id.Active, &id.ImageURL,
		&id.CreatedAt, &id.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	id.Role = models.RoleType(role)
	return &id, nil
}
