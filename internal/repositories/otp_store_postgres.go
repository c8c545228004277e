package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"

	"github.com/gramsetu/employment-service/internal/models"
)

// PostgresOtpStore keeps OTP records durable across restarts. Put
// supersedes any existing record for the email (one row per key).
type PostgresOtpStore struct {
	db DB
}

func NewPostgresOtpStore(db DB) *PostgresOtpStore {
	return &PostgresOtpStore{db: db}
}

func (s *PostgresOtpStore) Get(ctx context.Context, email string) (*models.OtpRecord, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, email, phone, code, expires_at, resend_count,
               last_resend_at, verified, verified_at, created_at
        FROM otp_records
        WHERE email = $1
    `, strings.ToLower(email))

	var rec models.OtpRecord
	err := row.Scan(
		&rec.ID, &rec.Email, &rec.Phone, &rec.Code, &rec.ExpiresAt,
		&rec.ResendCount, &rec.LastResendAt, &rec.Verified, &rec.VerifiedAt,
		&rec.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (s *PostgresOtpStore) Put(ctx context.Context, rec *models.OtpRecord) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO otp_records (
            id, email, phone, code, expires_at, resend_count,
            last_resend_at, verified, verified_at, created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        ON CONFLICT (email) DO UPDATE SET
            id=EXCLUDED.id, phone=EXCLUDED.phone, code=EXCLUDED.code,
            expires_at=EXCLUDED.expires_at, resend_count=EXCLUDED.resend_count,
            last_resend_at=EXCLUDED.last_resend_at, verified=EXCLUDED.verified,
            verified_at=EXCLUDED.verified_at
    `,
		rec.ID, strings.ToLower(rec.Email), rec.Phone, rec.Code, rec.ExpiresAt,
		rec.ResendCount, rec.LastResendAt, rec.Verified, rec.VerifiedAt,
		rec.CreatedAt,
	)
	return err
}

func (s *PostgresOtpStore) Delete(ctx context.Context, email string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM otp_records WHERE email = $1`, strings.ToLower(email))
	return err
}

func (s *PostgresOtpStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM otp_records WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
