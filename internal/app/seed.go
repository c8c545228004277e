package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gramsetu/employment-service/internal/config"
	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/repositories"
	"github.com/gramsetu/employment-service/internal/utils"
)

// SeedBootstrapAdmin creates the first admin identity on a fresh
// database so the admin-only endpoints are reachable. Idempotent: an
// existing identity with the configured email short-circuits.
func SeedBootstrapAdmin(ctx context.Context, identityRepo repositories.IdentityRepository, cfg config.BootstrapAdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		return fmt.Errorf("bootstrap admin email and password are required when seeding is enabled")
	}

	existing, err := identityRepo.GetByEmail(ctx, cfg.Email)
	if err != nil {
		return fmt.Errorf("check existing bootstrap admin: %w", err)
	}
	if existing != nil {
		utils.Logger.Info("Bootstrap admin already present; skipping seeding")
		return nil
	}

	hash, err := utils.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	admin := &models.Identity{
		ID:           uuid.New(),
		NationalID:   cfg.NationalID,
		Phone:        cfg.Phone,
		Email:        cfg.Email,
		GovernmentID: cfg.GovernmentID,
		Name:         cfg.Name,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Active:       true,
	}
	if err := identityRepo.Create(ctx, admin); err != nil {
		if repositories.IsUniqueViolation(err) {
			utils.Logger.Info("Bootstrap admin raced another instance; skipping")
			return nil
		}
		return fmt.Errorf("create bootstrap admin: %w", err)
	}

	utils.Logger.Infof("Bootstrap admin %s seeded", admin.Email)
	return nil
}
