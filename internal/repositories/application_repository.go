package repositories

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v4"

	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/utils"
)

type ApplicationRepository interface {
	Create(ctx context.Context, app *models.JobCardApplication) error
	GetByTrackingID(ctx context.Context, trackingID string) (*models.JobCardApplication, error)
	GetPendingByNationalID(ctx context.Context, nationalID string) (*models.JobCardApplication, error)
	List(ctx context.Context, status *models.ApplicationStatusType, limit, offset int) ([]*models.JobCardApplication, error)

	// RejectIfPending flips PENDING→REJECTED guarded by the current
	// status; returns ErrNoRowsUpdated when the application was no
	// longer pending.
	RejectIfPending(ctx context.Context, trackingID string, reason *string) error

	// ApproveTx atomically creates the identity and job card and flips
	// the application PENDING→APPROVED with the linked card ID, all in
	// one transaction. The status flip is guarded by
	// WHERE status='PENDING' so a concurrent approval loses with
	// ErrNoRowsUpdated and nothing is committed.
	ApproveTx(ctx context.Context, app *models.JobCardApplication, identity *models.Identity, card *models.JobCard) error
}

type applicationRepo struct {
	db DB
}

func NewApplicationRepository(db DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, app *models.JobCardApplication) error {
	applicants, err := json.Marshal(app.Applicants)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
        INSERT INTO job_card_applications (
            id, tracking_id, national_id, phone,
            address, village, district, state, pincode,
            applicants, proof_image_url, status,
            created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,NOW(),NOW())
    `,
		app.ID, app.TrackingID, app.NationalID, app.Phone,
		app.Address, app.Village, app.District, app.State, app.Pincode,
		applicants, app.ProofImageURL, app.Status,
	)
	return err
}

func (r *applicationRepo) GetByTrackingID(ctx context.Context, trackingID string) (*models.JobCardApplication, error) {
	row := r.db.QueryRow(ctx, baseSelectApplication()+" WHERE tracking_id=$1", trackingID)
	return scanApplication(row)
}

func (r *applicationRepo) GetPendingByNationalID(ctx context.Context, nationalID string) (*models.JobCardApplication, error) {
	row := r.db.QueryRow(ctx,
		baseSelectApplication()+" WHERE national_id=$1 AND status=$2 ORDER BY created_at DESC LIMIT 1",
		nationalID, models.ApplicationStatusPending,
	)
	return scanApplication(row)
}

func (r *applicationRepo) List(ctx context.Context, status *models.ApplicationStatusType, limit, offset int) ([]*models.JobCardApplication, error) {
	q := baseSelectApplication()
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

	var out []*models.JobCardApplication
	for rows.Next() {
		app, scanErr := scanApplication(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

func (r *applicationRepo) RejectIfPending(ctx context.Context, trackingID string, reason *string) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE job_card_applications
        SET status=$1, rejection_reason=$2, updated_at=NOW()
        WHERE tracking_id=$3 AND status=$4
    `, models.ApplicationStatusRejected, reason, trackingID, models.ApplicationStatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNoRowsUpdated
	}
	return nil
}

func (r *applicationRepo) ApproveTx(
	ctx context.Context,
	app *models.JobCardApplication,
	identity *models.Identity,
	card *models.JobCard,
) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	// CAS first: if the application already left PENDING there is
	// nothing to create.
	tag, execErr := tx.Exec(ctx, `
        UPDATE job_card_applications
        SET status=$1, linked_job_card_id=$2, updated_at=NOW()
        WHERE tracking_id=$3 AND status=$4
    `, models.ApplicationStatusApproved, card.ID, app.TrackingID, models.ApplicationStatusPending)
	if execErr != nil {
		err = execErr
		return err
	}
	if tag.RowsAffected() == 0 {
		err = utils.ErrNoRowsUpdated
		return err
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO identities (
            id, national_id, phone, email, government_id,
            name, password_hash, role, active, image_url,
            created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),NOW())
    `,
		identity.ID, identity.NationalID, identity.Phone, identity.Email, identity.GovernmentID,
		identity.Name, identity.PasswordHash, identity.Role, identity.Active, identity.ImageURL,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
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

func baseSelectApplication() string {
	return `
    SELECT
        id, tracking_id, national_id, phone,
        address, village, district, state, pincode,
        applicants, proof_image_url, status, rejection_reason,
        linked_job_card_id, created_at, updated_at
    FROM job_card_applications`
}

func scanApplication(row pgx.Row) (*models.JobCardApplication, error) {
	var app models.JobCardApplication
	var status string
	var applicants []byte

	err := row.Scan(
		&app.ID, &app.TrackingID, &app.NationalID, &app.Phone,
		&app.Address, &app.Village, &app.District, &app.State, &app.Pincode,
		&applicants, &app.ProofImageURL, &status, &app.RejectionReason,
		&app.LinkedJobCardID, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	app.Status = models.ApplicationStatusType(status)
	if len(applicants) > 0 {
		if jsonErr := json.Unmarshal(applicants, &app.Applicants); jsonErr != nil {
			return nil, jsonErr
		}
	}
	return &app, nil
}
