package daygrid

import (
	"errors"
	"fmt"

	"github.com/daygrid/daygrid-go/internal/errs"
	"github.com/daygrid/daygrid-go/internal/types"
)

// ErrSyncInProgress is returned when Sync is invoked while another sync is
// outstanding. Interleaved draining would break sequential-replay ordering,
// so the second call is rejected rather than queued.
var ErrSyncInProgress = errors.New("sync already in progress")

// Sync phases reported by SyncError.
const (
	PhaseReplay = "replay"
	PhaseClear  = "clear"
	PhasePull   = "pull"
	PhaseBatch  = "batch"
)

// SyncError wraps any failure surfaced by Sync. The pending queue is left
// intact and no pulled state has been applied; retry is a fresh Sync call.
type SyncError struct {
	Phase string
	Err   error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync failed during %s: %v", e.Phase, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// Re-exported error types so callers can classify failures without importing
// internal packages.
type (
	TransportError  = errs.TransportError
	UpstreamError   = errs.UpstreamError
	ValidationError = types.ValidationError
)

// IsValidation reports whether err stems from a rejected field value.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
