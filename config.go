package blueprint

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the host configuration, loadable from a TOML file.
type Config struct {
	// Script is the path of the script body to evaluate.
	Script string `toml:"script"`

	// TickInterval is the scheduler interrupt cadence.
	TickInterval Duration `toml:"tick_interval"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// Duration is a time.Duration that unmarshals from a TOML string like
// "16ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		TickInterval: Duration(DefaultTickInterval),
		LogLevel:     "info",
	}
}

// LoadConfig reads a TOML configuration file, layered over defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = Duration(DefaultTickInterval)
	}
	return cfg, nil
}
