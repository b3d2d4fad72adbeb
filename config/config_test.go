// SPDX-License-Identifier: MIT

package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/vecspace/codec"
	"github.com/katalvlaran/vecspace/config"
	"github.com/katalvlaran/vecspace/parallel"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vecspace.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// TestDefaults checks the built-in values validate.
func TestDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, parallel.DefaultThreshold, cfg.Parallel.Threshold)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, config.FormatText, cfg.Log.Format)
	require.Equal(t, codec.None, cfg.Compression())
}

// TestPrecedence checks env > file > defaults, field by field.
func TestPrecedence(t *testing.T) {
	path := writeFile(t, "parallel:\n  threshold: 100\nlog:\n  level: debug\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 100, cfg.Parallel.Threshold)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, config.FormatText, cfg.Log.Format) // untouched default

	t.Setenv(config.EnvParallelThreshold, "7")
	t.Setenv(config.EnvLogFormat, "json")
	t.Setenv(config.EnvCodecCompression, "lz4")
	cfg, err = config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Parallel.Threshold)
	require.Equal(t, "debug", cfg.Log.Level) // file value survives
	require.Equal(t, config.FormatJSON, cfg.Log.Format)
	require.Equal(t, codec.LZ4, cfg.Compression())
}

// TestLoadErrors covers each rejection path.
func TestLoadErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	cases := map[string]string{
		"malformed":     "parallel: [",
		"zeroThreshold": "parallel:\n  threshold: 0\n",
		"badLevel":      "log:\n  level: loud\n",
		"badFormat":     "log:\n  format: xml\n",
		"badCodec":      "codec:\n  compression: brotli\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, body))
			require.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}

	t.Setenv(config.EnvParallelThreshold, "many")
	_, err = config.Load("")
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

// TestApply installs the threshold and a logger that records the change.
func TestApply(t *testing.T) {
	t.Cleanup(func() {
		parallel.SetLogger(nil)
		parallel.Reset()
	})

	cfg := config.LoadDefaults()
	cfg.Parallel.Threshold = 64
	cfg.Log.Format = config.FormatJSON

	var buf bytes.Buffer
	logger, err := cfg.Apply(&buf)
	require.NoError(t, err)
	require.NotNil(t, logger)
	require.Equal(t, 64, parallel.Threshold())
	require.Equal(t, 8, parallel.SqrtThreshold())
	require.Contains(t, buf.String(), `"msg":"parallel threshold changed"`)
	require.Contains(t, buf.String(), `"threshold":64`)

	cfg.Parallel.Threshold = -1
	_, err = cfg.Apply(&buf)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
	require.Equal(t, 64, parallel.Threshold()) // unchanged on failure
}

// TestLoggerLevel checks records below the configured level are dropped.
func TestLoggerLevel(t *testing.T) {
	t.Parallel()

	cfg := config.LoadDefaults()
	cfg.Log.Level = "warn"
	var buf bytes.Buffer
	l := cfg.Logger(&buf)
	l.Info("hidden")
	l.Warn("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
}
