package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/gramsetu/employment-service/internal/models"
	"github.com/gramsetu/employment-service/internal/repositories"
)

func mustUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

var fixtureSeq int

// seedIdentity inserts an active identity with unique claim fields so
// multiple seeds in one test never collide.
func seedIdentity(t *testing.T, repo *repositories.MemoryIdentityRepository, role models.RoleType) *models.Identity {
	t.Helper()
	fixtureSeq++
	id := &models.Identity{
		ID:           uuid.New(),
		NationalID:   fmt.Sprintf("%012d", 900000000000+fixtureSeq),
		Phone:        fmt.Sprintf("%010d", 9000000000+fixtureSeq),
		Email:        fmt.Sprintf("fixture-%d@example.com", fixtureSeq),
		GovernmentID: fmt.Sprintf("GOV-%06d", fixtureSeq),
		Name:         fmt.Sprintf("Fixture Person %d", fixtureSeq),
		Role:         role,
		Active:       true,
	}
	require.NoError(t, repo.Create(context.Background(), id))
	return id
}

func seedProject(t *testing.T, repo *repositories.MemoryProjectRepository, ownerID uuid.UUID, wagePaise int64, start, end time.Time) *models.Project {
	t.Helper()
	fixtureSeq++
	p := &models.Project{
		ID:            uuid.New(),
		Name:          fmt.Sprintf("Canal Desilting %d", fixtureSeq),
		Description:   "Desilting of the village irrigation canal",
		Location:      "Rampur",
		WorkerNeed:    25,
		WagePerWorker: wagePaise,
		StartDate:     start,
		EndDate:       end,
		Status:        models.ProjectStatusActive,
		OwnerID:       ownerID,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

// fixedClock returns a deterministic clock starting at base; advance
// moves it forward for throttle and expiry tests.
type fixedClock struct {
	t time.Time
}

func newFixedClock(base time.Time) *fixedClock {
	return &fixedClock{t: base}
}

func (c *fixedClock) Now() time.Time {
	return c.t
}

func (c *fixedClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}
