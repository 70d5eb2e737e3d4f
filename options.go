package daygrid

// This file defines the functional options accepted by New. Keeping them in
// a standalone file makes every available knob discoverable at a glance.

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/daygrid/daygrid-go/internal/cache"
)

// Option configures a Store during construction in New. Options must be
// deterministic and side-effect free.
type Option func(*Store) error

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Store) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		s.http = hc
		return nil
	}
}

// WithHTTPTimeout sets the http.Client timeout: a coarse safety net bounding
// one request end to end. Must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(s *Store) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		s.http.Timeout = d
		return nil
	}
}

// WithLogger attaches a zerolog logger; the default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) error {
		s.log = log
		return nil
	}
}

// WithWindowDays sets the trailing log window pulled by Sync.
func WithWindowDays(days int) Option {
	return func(s *Store) error {
		if days <= 0 {
			return fmt.Errorf("window days must be > 0")
		}
		s.windowDays = days
		return nil
	}
}

// WithReadCacheTTL bounds the remote read cache. Zero disables caching;
// sync bypasses it either way.
func WithReadCacheTTL(d time.Duration) Option {
	return func(s *Store) error {
		if d < 0 {
			return fmt.Errorf("read cache ttl must be >= 0")
		}
		s.readCacheTTL = d
		return nil
	}
}

// WithDataDir places the durable store under dir instead of the user config
// directory.
func WithDataDir(dir string) Option {
	return func(s *Store) error {
		if dir == "" {
			return fmt.Errorf("data dir must not be empty")
		}
		s.dataDir = dir
		return nil
	}
}

// WithSQLiteBackend stores the durable tier in SQLite instead of a JSON
// file.
func WithSQLiteBackend() Option {
	return func(s *Store) error {
		s.backend = backendSQLite
		return nil
	}
}

// WithDurableTier injects a durable tier directly, overriding DataDir and
// backend selection. Intended for tests and embedders with their own
// persistence.
func WithDurableTier(t cache.Tier) Option {
	return func(s *Store) error {
		if t == nil {
			return fmt.Errorf("durable tier must not be nil")
		}
		s.durable = t
		return nil
	}
}

// WithSessionTier injects a session tier, replacing the default in-memory
// map. Intended for tests.
func WithSessionTier(t cache.Tier) Option {
	return func(s *Store) error {
		if t == nil {
			return fmt.Errorf("session tier must not be nil")
		}
		s.session = t
		return nil
	}
}

// WithBatchSync makes Sync use the combined sync action: one round trip
// replaying the batch server-side and returning fresh state, instead of
// sequential replay plus a separate pull. Only enable against backends that
// implement the action.
func WithBatchSync(enabled bool) Option {
	return func(s *Store) error {
		s.batchSync = enabled
		return nil
	}
}

// WithReplayRetry retries recoverable replay failures up to maxAttempts
// total attempts with exponential backoff. The default (1) preserves the
// strict abort-on-first-failure behavior; the queue stays intact either way.
func WithReplayRetry(maxAttempts int) Option {
	return func(s *Store) error {
		if maxAttempts < 1 {
			return fmt.Errorf("max attempts must be >= 1")
		}
		s.replayAttempts = maxAttempts
		return nil
	}
}

// WithDebugLogging wraps the transport so each request/response is dumped.
// Auto-enabled by DAYGRID_DEBUG=true.
func WithDebugLogging(enabled bool) Option {
	return func(s *Store) error {
		if enabled {
			s.http.Transport = &debugTransport{base: s.http.Transport}
		}
		return nil
	}
}
