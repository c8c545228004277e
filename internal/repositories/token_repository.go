package repositories

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/gramsetu/employment-service/internal/models"
)

type TokenRepository interface {
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	GetRefreshToken(ctx context.Context, rawToken string) (*models.RefreshToken, error)
	RemoveRefreshToken(ctx context.Context, id uuid.UUID) error
	RemoveAllRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) error
	CleanupExpiredRefreshTokens(ctx context.Context) error
}

type tokenRepo struct {
	db DB
}

func NewTokenRepository(db DB) TokenRepository {
	return &tokenRepo{db: db}
}

// HashToken hashes a raw refresh token before storage so a leaked table
// cannot be replayed.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func (r *tokenRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO refresh_tokens (id, user_id, refresh_token, expires_at, created_at, revoked)
        VALUES ($1, $2, $3, $4, NOW(), $5)
    `,
		token.ID, token.UserID, HashToken(token.Token), token.ExpiresAt, token.Revoked,
	)
	return err
}

func (r *tokenRepo) GetRefreshToken(ctx context.Context, rawToken string) (*models.RefreshToken, error) {
	row := r.db.QueryRow(ctx, `
        SELECT id, user_id, refresh_token, expires_at, created_at, revoked
        FROM refresh_tokens
        WHERE refresh_token = $1
    `, HashToken(rawToken))

	var rt models.RefreshToken
	err := row.Scan(&rt.ID, &rt.UserID, &rt.Token, &rt.ExpiresAt, &rt.CreatedAt, &rt.Revoked)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rt, nil
}

func (r *tokenRepo) RemoveRefreshToken(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE id = $1`, id)
	return err
}

func (r *tokenRepo) RemoveAllRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	return err
}

func (r *tokenRepo) CleanupExpiredRefreshTokens(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < NOW() OR revoked = TRUE`)
	return err
}
