package config

import (
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/voss/neuroscope/internal/errors"
)

// Defaults applied when neither the config file nor flags set a value.
const (
	DefaultDevice      = "/dev/fb0"
	DefaultFeedSocket  = "/tmp/cortex_feed.sock"
	DefaultNodes       = 50
	DefaultFPS         = 30
	DefaultLogLevel    = "info"
	DefaultTelemetryDB = "/var/lib/neuroscope/telemetry.db"

	configEnvVar = "NEUROSCOPE_CONFIG"
)

type Config struct {
	Device      string `mapstructure:"device"`
	FeedSocket  string `mapstructure:"feed_socket"`
	FeedURL     string `mapstructure:"feed_url"`
	Nodes       int    `mapstructure:"nodes"`
	FPS         int    `mapstructure:"fps"`
	Demo        bool   `mapstructure:"demo"`
	LogLevel    string `mapstructure:"log_level"`
	Telemetry   bool   `mapstructure:"telemetry"`
	TelemetryDB string `mapstructure:"telemetry_db"`
}

// Load reads configuration from the TOML config file and command line
// flags. Flags override file values, which override defaults. An explicit
// config file path can be given with --config or the NEUROSCOPE_CONFIG
// environment variable.
func Load() (*Config, error) {
	fs := pflag.NewFlagSet("neuroscope", pflag.ContinueOnError)

	configFlag := fs.String("config", "", "Path to config file")
	fs.String("device", DefaultDevice, "Framebuffer device")
	fs.String("feed-socket", DefaultFeedSocket, "Engine telemetry socket")
	fs.String("feed-url", "", "Remote telemetry websocket URL (overrides feed-socket)")
	fs.Int("nodes", DefaultNodes, "Number of graph nodes")
	fs.Int("fps", DefaultFPS, "Target frames per second")
	fs.Bool("demo", false, "Run on synthetic telemetry without connecting to the engine")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")

	if err := fs.Parse(os.Args[1:]); err != nil {
		// Parse already printed the usage text; hand the sentinel to
		// the caller so it can exit cleanly.
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrBindFlags, err)
	}

	v := viper.New()
	v.SetDefault("device", DefaultDevice)
	v.SetDefault("feed_socket", DefaultFeedSocket)
	v.SetDefault("feed_url", "")
	v.SetDefault("nodes", DefaultNodes)
	v.SetDefault("fps", DefaultFPS)
	v.SetDefault("demo", false)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("telemetry", false)
	v.SetDefault("telemetry_db", DefaultTelemetryDB)

	configPath := *configFlag
	if configPath == "" {
		configPath = os.Getenv(configEnvVar)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(errors.ErrReadConfig, err)
		}
	} else {
		v.SetConfigName("neuroscope")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
		v.AddConfigPath("$HOME/.config/neuroscope")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, errors.Wrap(errors.ErrReadConfig, err)
			}
		}
	}

	// Command line flags override config file values
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "config":
		case "log-level":
			v.Set("log_level", f.Value.String())
		case "feed-socket":
			v.Set("feed_socket", f.Value.String())
		case "feed-url":
			v.Set("feed_url", f.Value.String())
		default:
			v.Set(f.Name, f.Value.String())
		}
	})

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the loaded configuration for values the application
// cannot run with.
func (c *Config) Validate() error {
	if !LogLevel(c.LogLevel).IsValid() {
		return errors.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}
	if c.Device == "" {
		return errors.WithMessage(errors.ErrInvalidConfig, "Framebuffer device path must not be empty")
	}
	if c.FPS <= 0 {
		return errors.WithData(errors.ErrInvalidConfig, "fps must be positive")
	}
	if c.Nodes <= 0 {
		return errors.WithData(errors.ErrInvalidConfig, "nodes must be positive")
	}
	if !c.Demo && c.FeedURL == "" && c.FeedSocket == "" {
		return errors.WithMessage(errors.ErrMissingConfig, "Either feed_socket, feed_url or demo mode is required")
	}
	if c.Telemetry && c.TelemetryDB == "" {
		return errors.WithMessage(errors.ErrMissingConfig, "telemetry_db is required when telemetry is enabled")
	}

	return nil
}
