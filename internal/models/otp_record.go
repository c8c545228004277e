package models

import (
	"time"

	"github.com/google/uuid"
)

// OtpRecord is the ephemeral one-time-code record keyed by email.
// A resend supersedes the record in place (same key, new code) and
// increments ResendCount; a periodic sweep deletes expired records.
type OtpRecord struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone,omitempty"`
	Code         string     `json:"-"`
	ExpiresAt    time.Time  `json:"expires_at"`
	ResendCount  int        `json:"resend_count"`
	LastResendAt time.Time  `json:"last_resend_at"`
	Verified     bool       `json:"verified"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
