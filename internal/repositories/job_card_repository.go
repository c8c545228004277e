package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/gramsetu/employment-service/internal/models"
)

type JobCardRepository interface {
	Create(ctx context.Context, card *models.JobCard) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.JobCard, error)
	GetByNationalID(ctx context.Context, nationalID string) (*models.JobCard, error)
	List(ctx context.Context, limit, offset int) ([]*models.JobCard, error)
}

type jobCardRepo struct {
	db DB
}

func NewJobCardRepository(db DB) JobCardRepository {
	return &jobCardRepo{db: db}
}

func (r *jobCardRepo) Create(ctx context.Context, card *models.JobCard) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO job_cards (
            id, card_number, national_id, head_of_family,
            address, village, district, state, pincode,
            family_members, bank_account_holder, bank_account_number, bank_ifsc,
            created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,NOW(),NOW())
    `,
		card.ID, card.CardNumber, card.NationalID, card.HeadOfFamily,
		card.Address, card.Village, card.District, card.State, card.Pincode,
		card.FamilyMembers, card.Bank.AccountHolder, card.Bank.AccountNumber, card.Bank.IFSC,
	)
	return err
}

func (r *jobCardRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.JobCard, error) {
	row := r.db.QueryRow(ctx, baseSelectJobCard()+" WHERE id=$1", id)
	return scanJobCard(row)
}

func (r *jobCardRepo) GetByNationalID(ctx context.Context, nationalID string) (*models.JobCard, error) {
	row := r.db.QueryRow(ctx, baseSelectJobCard()+" WHERE national_id=$1", nationalID)
	return scanJobCard(row)
}

func (r *jobCardRepo) List(ctx context.Context, limit, offset int) ([]*models.JobCard, error) {
	q := baseSelectJobCard() + " ORDER BY created_at DESC"
	args := []any{}
	if limit > 0 {
		args = append(args, limit, offset)
		q += " LIMIT $1 OFFSET $2"
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.JobCard
	for rows.Next() {
		card, scanErr := scanJobCard(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, card)
	}
	return out, rows.Err()
}

func baseSelectJobCard() string {
	return `
    SELECT
        id, card_number, national_id, head_of_family,
        address, village, district, state, pincode,
        family_members, bank_account_holder, bank_account_number, bank_ifsc,
        created_at, updated_at
    FROM job_cards`
}

func scanJobCard(row pgx.Row) (*models.JobCard, error) {
	var c models.JobCard

	err := row.Scan(
		&c.ID, &c.CardNumber, &c.NationalID, &c.HeadOfFamily,
		&c.Address, &c.Village, &c.District, &c.State, &c.Pincode,
		&c.FamilyMembers, &c.Bank.AccountHolder, &c.Bank.AccountNumber, &c.Bank.IFSC,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
