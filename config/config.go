// SPDX-License-Identifier: MIT

// Package config loads vecspace's startup configuration.
//
// Precedence (highest first):
//  1. Environment variables (VECSPACE_*)
//  2. YAML config file
//  3. Built-in defaults
//
// Example file:
//
//	parallel:
//	  threshold: 65536
//	log:
//	  level: debug
//	  format: json
//	codec:
//	  compression: zstd
//
// Environment variables:
//
//	VECSPACE_PARALLEL_THRESHOLD  element count at which kernels fan out
//	VECSPACE_LOG_LEVEL           debug | info | warn | error
//	VECSPACE_LOG_FORMAT          text | json
//	VECSPACE_CODEC_COMPRESSION   none | lz4 | zstd
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/vecspace/codec"
	"github.com/katalvlaran/vecspace/parallel"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation or parse failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Environment variable names.
const (
	EnvParallelThreshold = "VECSPACE_PARALLEL_THRESHOLD"
	EnvLogLevel          = "VECSPACE_LOG_LEVEL"
	EnvLogFormat         = "VECSPACE_LOG_FORMAT"
	EnvCodecCompression  = "VECSPACE_CODEC_COMPRESSION"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the full startup configuration.
type Config struct {
	Parallel ParallelConfig `yaml:"parallel"`
	Log      LogConfig      `yaml:"log"`
	Codec    CodecConfig    `yaml:"codec"`
}

// ParallelConfig controls the process-wide parallelism policy.
type ParallelConfig struct {
	// Threshold is the element count at and above which kernels fan out.
	Threshold int `yaml:"threshold"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// CodecConfig holds defaults for binary persistence.
type CodecConfig struct {
	Compression string `yaml:"compression"` // none | lz4 | zstd
}

// LoadDefaults returns the built-in configuration.
func LoadDefaults() *Config {
	return &Config{
		Parallel: ParallelConfig{Threshold: parallel.DefaultThreshold},
		Log:      LogConfig{Level: "info", Format: FormatText},
		Codec:    CodecConfig{Compression: codec.None.String()},
	}
}

// Load builds a Config from defaults, then the YAML file at path (skipped
// when path is empty), then environment variables, and validates the result.
//
// Errors:
//   - file read failures as returned by os.ReadFile (a named file must exist).
//   - ErrInvalidConfig for malformed YAML, unparsable env values or failed
//     validation.
func Load(path string) (*Config, error) {
	cfg := LoadDefaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
		}
	}
	if err := applyEnvVars(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvVars overrides cfg with any VECSPACE_* variables that are set.
func applyEnvVars(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvParallelThreshold); ok && v != "" {
		t, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvParallelThreshold, v, err)
		}
		cfg.Parallel.Threshold = t
	}
	cfg.Log.Level = getEnv(EnvLogLevel, cfg.Log.Level)
	cfg.Log.Format = getEnv(EnvLogFormat, cfg.Log.Format)
	cfg.Codec.Compression = getEnv(EnvCodecCompression, cfg.Codec.Compression)

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// Validate checks every field; the first failure is returned.
func (c *Config) Validate() error {
	if c.Parallel.Threshold <= 0 {
		return fmt.Errorf("%w: parallel.threshold must be > 0, got %d", ErrInvalidConfig, c.Parallel.Threshold)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidConfig, c.Log.Format)
	}
	if _, err := codec.ParseCompression(c.Codec.Compression); err != nil {
		return fmt.Errorf("%w: codec.compression: %w", ErrInvalidConfig, err)
	}

	return nil
}

func (c *Config) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}

	return lvl, nil
}

// Compression returns the configured codec compression.
// Call Validate first; an invalid name yields codec.None.
func (c *Config) Compression() codec.Compression {
	comp, _ := codec.ParseCompression(c.Codec.Compression)
	return comp
}

// Logger builds a slog logger writing to w with the configured level and
// format. An invalid level falls back to Info.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	lvl, err := c.level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(c.Log.Format, FormatJSON) {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// Apply validates c, installs its logger (writing to w) and threshold into
// package parallel, and returns the logger.
func (c *Config) Apply(w io.Writer) (*slog.Logger, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	logger := c.Logger(w)
	parallel.SetLogger(logger)
	if _, err := parallel.SetThreshold(c.Parallel.Threshold); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return logger, nil
}
