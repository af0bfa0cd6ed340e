package config

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/cameronapriest/OSmemoryallocator/memutils"
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

// Config is the allocator.yaml structure. Every field is optional.
type Config struct {
	// Capacity is the size of the simulated address space in bytes. The command line argument
	// takes precedence.
	Capacity int `yaml:"capacity"`
	// LogLevel is one of debug, info, warn or error
	LogLevel string `yaml:"log_level"`
	// Debug prints the segment list and the registered names after every request
	Debug bool `yaml:"debug"`
	// JSONStats makes STAT print the detailed JSON map instead of the address listing
	JSONStats bool `yaml:"json_stats"`
	// ValidateOperations checks every invariant of the address space after each change
	ValidateOperations bool `yaml:"validate"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		LogLevel: "warn",
	}
}

// Load reads a YAML configuration file. Unknown keys are rejected. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	err = decoder.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}

	return cfg, cfg.Validate()
}

// Validate rejects out of range values. A zero Capacity is allowed and means the capacity must
// come from the command line.
func (c Config) Validate() error {
	if c.Capacity != 0 {
		err := memutils.CheckCapacity(c.Capacity)
		if err != nil {
			return errors.Wrap(err, "invalid capacity in config")
		}
	}

	_, err := ParseLevel(c.LogLevel)
	return err
}

// Level is the slog level named by LogLevel. Debug forces slog.LevelDebug.
func (c Config) Level() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}

	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}

	return level
}

// ParseLevel maps a level name to a slog.Level. The empty string is treated as warn.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}

	return slog.LevelWarn, errors.Newf("unknown log level %q; valid: debug, info, warn, error", name)
}
