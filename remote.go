package daygrid

import (
	"context"

	"github.com/daygrid/daygrid-go/internal/types"
)

// remoteAPI abstracts the remote persistence client so tests can substitute
// a double. *remote.Client is the production implementation.
type remoteAPI interface {
	FetchHabits(ctx context.Context, force bool) ([]types.Habit, error)
	FetchLogs(ctx context.Context, days int, force bool) (map[string]types.DailyLog, error)
	FetchSettings(ctx context.Context, force bool) (types.Settings, error)
	Apply(ctx context.Context, ch types.PendingChange) error
	BatchSync(ctx context.Context, changes []types.PendingChange, days int) (*types.SyncState, error)
}
