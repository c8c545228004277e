package repositories

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gramsetu/employment-service/internal/models"
)

// OtpStore is the keyed-by-email store behind the OTP gate. Implemented
// both in memory (default; codes are ephemeral and losing them on
// restart only forces a resend) and on Postgres for deployments that
// want them durable.
type OtpStore interface {
	Get(ctx context.Context, email string) (*models.OtpRecord, error)
	Put(ctx context.Context, rec *models.OtpRecord) error
	Delete(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// MemoryOtpStore is a mutex-guarded map keyed by lower-cased email.
// Safe for concurrent issue/verify from multiple requests.
type MemoryOtpStore struct {
	mu      sync.RWMutex
	records map[string]models.OtpRecord
}

func NewMemoryOtpStore() *MemoryOtpStore {
	return &MemoryOtpStore{records: make(map[string]models.OtpRecord)}
}

func (s *MemoryOtpStore) Get(_ context.Context, email string) (*models.OtpRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	cp := rec
	return &cp, nil
}

func (s *MemoryOtpStore) Put(_ context.Context, rec *models.OtpRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[strings.ToLower(rec.Email)] = *rec
	return nil
}

func (s *MemoryOtpStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, strings.ToLower(email))
	return nil
}

func (s *MemoryOtpStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for email, rec := range s.records {
		if now.After(rec.ExpiresAt) {
			delete(s.records, email)
			removed++
		}
	}
	return removed, nil
}
