package mcp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	GetPreferences(ctx context.Context, userID int) (*models.PreferencesRow, error)
	GetStats(ctx context.Context, userID int) (*models.UserStatsRow, error)
	MachineNames(ctx context.Context, userID int) ([]string, error)
	ListWorkouts(ctx context.Context, userID, limit, offset int) ([]models.WorkoutRow, error)
	GetWorkout(ctx context.Context, id uuid.UUID, userID int) (*models.WorkoutRow, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
