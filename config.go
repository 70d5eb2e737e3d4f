package daygrid

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config groups the environment-tunable knobs. Values are taken from
// variables with the prefix "DAYGRID_". Example:
// DAYGRID_BASE_URL=https://... DAYGRID_WINDOW_DAYS=30 .
type Config struct {
	// BaseURL is the remote endpoint. Required for NewFromEnv.
	BaseURL string `envconfig:"BASE_URL"`

	// WindowDays bounds the trailing log window pulled by sync.
	WindowDays int `envconfig:"WINDOW_DAYS" default:"90"`

	// ReadCacheTTL bounds the remote read cache; zero disables it.
	ReadCacheTTL time.Duration `envconfig:"READ_CACHE_TTL" default:"30s"`

	// HTTPTimeout caps a single request end to end.
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`

	// DataDir holds the durable store. Defaults to the daygrid directory
	// under the user config dir.
	DataDir string `envconfig:"DATA_DIR"`

	// Backend selects the durable tier implementation: "file" or "sqlite".
	Backend string `envconfig:"BACKEND" default:"file"`
}

// LoadConfig populates Config from environment variables (prefix DAYGRID_).
func LoadConfig() (Config, error) {
	var c Config
	return c, envconfig.Process("DAYGRID", &c)
}
