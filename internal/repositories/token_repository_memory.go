package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gramsetu/employment-service/internal/models"
)

type MemoryTokenRepository struct {
	mu     sync.Mutex
	byHash map[string]models.RefreshToken
}

func NewMemoryTokenRepository() *MemoryTokenRepository {
	return &MemoryTokenRepository{byHash: make(map[string]models.RefreshToken)}
}

func (r *MemoryTokenRepository) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *token
	stored.Token = HashToken(token.Token)
	stored.CreatedAt = time.Now()
	r.byHash[stored.Token] = stored
	return nil
}

func (r *MemoryTokenRepository) GetRefreshToken(_ context.Context, rawToken string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.byHash[HashToken(rawToken)]; ok {
		cp := rec
		return &cp, nil
	}
	return nil, nil
}

func (r *MemoryTokenRepository) RemoveRefreshToken(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, rec := range r.byHash {
		if rec.ID == id {
			delete(r.byHash, hash)
		}
	}
	return nil
}

func (r *MemoryTokenRepository) RemoveAllRefreshTokensByUserID(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, rec := range r.byHash {
		if rec.UserID == userID {
			delete(r.byHash, hash)
		}
	}
	return nil
}

func (r *MemoryTokenRepository) CleanupExpiredRefreshTokens(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for hash, rec := range r.byHash {
		if rec.Revoked || now.After(rec.ExpiresAt) {
			delete(r.byHash, hash)
		}
	}
	return nil
}
