package telemetry

import "codeberg.org/voss/neuroscope/internal/errors"

const (
	defaultDirPerm = 0o755
	defaultDBPath  = "/var/lib/neuroscope/telemetry.db"
)

// Config controls the optional snapshot recorder. Recording is off by
// default; the visualization itself keeps no persistent state.
type Config struct {
	Enabled bool
	DBPath  string
}

func DefaultConfig() Config {
	return Config{
		DBPath: defaultDBPath,
	}
}

func (c Config) Validate() error {
	if c.Enabled && c.DBPath == "" {
		return errors.New(ErrInvalidDBPath)
	}

	return nil
}
