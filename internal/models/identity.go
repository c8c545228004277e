package models

import (
	"time"

	"github.com/google/uuid"
)

// RoleType defines the roles an identity can hold.
type RoleType string

const (
	RoleWorkerSupervisor RoleType = "WORKER_SUPERVISOR"
	RoleAdmin            RoleType = "ADMIN"
)

// Identity is the canonical worker/administrator record. National ID,
// phone, email and government ID are each globally unique among active
// identities. Identities are soft-deleted (Active=false), never removed.
type Identity struct {
	ID           uuid.UUID `json:"id"`
	NationalID   string    `json:"national_id"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	GovernmentID string    `json:"government_id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         RoleType  `json:"role"`
	Active       bool      `json:"active"`
	ImageURL     *string   `json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
