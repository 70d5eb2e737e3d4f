// Package logger provides a configured zerolog logger.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a logger tagged with the component name. DAYGRID_LOG_LEVEL
// overrides the default info level; unparseable values are ignored.
func New(component string) zerolog.Logger {
	level := zerolog.InfoLevel
	if v := os.Getenv("DAYGRID_LOG_LEVEL"); v != "" {
		if parsed, err := zerolog.ParseLevel(v); err == nil {
			level = parsed
		}
	}
	return zerolog.New(os.Stderr).Level(level).With().
		Str("component", component).
		Timestamp().
		Logger()
}
