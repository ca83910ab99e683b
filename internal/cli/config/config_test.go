package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "")
	flags.BoolP("verbose", "v", false, "")
	flags.String("format", "", "")
	flags.String("output-dir", "", "")
	flags.Int("concurrency", 0, "")
	flags.String("addr", "", "")
	flags.Duration("debounce", 0, "")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	ResetConfig()

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultOutputDir(), cfg.OutputDir)
	assert.Equal(t, FormatText, cfg.Format)
	assert.False(t, cfg.Verbose)
	assert.True(t, cfg.Resolve)
	assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
	assert.Equal(t, []string{"*.sql"}, cfg.Include)
	assert.Equal(t, DefaultCatalog, cfg.Catalog)
	assert.Equal(t, DefaultServeAddr, cfg.Serve.Addr)
	assert.Equal(t, 200*time.Millisecond, cfg.Watch.Debounce)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	ResetConfig()

	path := writeConfig(t, dir, "custom.yaml", `
output_dir: out
format: json
resolve: false
concurrency: 2
include:
  - "*.sql"
  - "*.ddl"
serve:
  addr: ":9000"
watch:
  debounce: 1s
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.False(t, cfg.Resolve)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, []string{"*.sql", "*.ddl"}, cfg.Include)
	assert.Equal(t, ":9000", cfg.Serve.Addr)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestLoadConfig_DiscoversFileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	ResetConfig()

	writeConfig(t, dir, "sqlschema.yml", "format: yaml\n")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, cfg.Format)
	assert.Equal(t, "sqlschema.yml", GetConfigFileUsed())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	ResetConfig()

	path := writeConfig(t, dir, "sqlschema.yaml", "format: json\nconcurrency: 2\n")
	t.Setenv("SQLSCHEMA_FORMAT", "YAML")
	t.Setenv("SQLSCHEMA_INCLUDE", "*.sql,*.ddl")
	t.Setenv("SQLSCHEMA_SERVE_ADDR", ":7000")
	t.Setenv("SQLSCHEMA_WATCH_DEBOUNCE", "50ms")
	t.Setenv("SQLSCHEMA_VERBOSE", "true")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, FormatYAML, cfg.Format)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, []string{"*.sql", "*.ddl"}, cfg.Include)
	assert.Equal(t, ":7000", cfg.Serve.Addr)
	assert.Equal(t, 50*time.Millisecond, cfg.Watch.Debounce)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	ResetConfig()

	t.Setenv("SQLSCHEMA_FORMAT", "yaml")
	t.Setenv("SQLSCHEMA_CONCURRENCY", "3")

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{
		"--format", "json",
		"--output-dir", "/tmp/x",
		"--addr", ":1234",
		"--debounce", "2s",
		"--config", "ignored.yaml",
	}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, "/tmp/x", cfg.OutputDir)
	assert.Equal(t, 3, cfg.Concurrency, "unchanged flags keep the env value")
	assert.Equal(t, ":1234", cfg.Serve.Addr)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad format", "format: xml\n", `invalid format "xml"`},
		{"zero concurrency", "concurrency: 0\n", "concurrency must be at least 1"},
		{"bad pattern", "include: ['[']\n", "invalid include pattern"},
		{"empty include", "include: []\n", "include needs at least one pattern"},
		{"bad yaml", "format: [\n", "error reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			ResetConfig()

			path := writeConfig(t, dir, "sqlschema.yaml", tt.content)
			_, err := LoadConfig(path, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	ResetConfig()

	_, err := LoadConfig("does-not-exist.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist.yaml")
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"SQLSCHEMA_OUTPUT_DIR":     "output_dir",
		"SQLSCHEMA_SERVE_ADDR":     "serve.addr",
		"SQLSCHEMA_WATCH_DEBOUNCE": "watch.debounce",
		"SQLSCHEMA_FORMAT":         "format",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestGetLogger(t *testing.T) {
	t.Run("fallback discards", func(t *testing.T) {
		logger := GetLogger(context.Background())
		require.NotNil(t, logger)
		assert.False(t, logger.Enabled(context.Background(), -8))
	})

	t.Run("stored logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, true)
		ctx := WithLogger(context.Background(), logger)

		GetLogger(ctx).Debug("hello", "file", "a.sql")
		assert.Contains(t, buf.String(), "msg=hello")
		assert.Contains(t, buf.String(), "file=a.sql")
	})

	t.Run("info level hides debug", func(t *testing.T) {
		var buf bytes.Buffer
		NewLogger(&buf, false).Debug("hidden")
		assert.Empty(t, buf.String())
	})
}

func TestGetConfig(t *testing.T) {
	t.Run("defaults when missing", func(t *testing.T) {
		cfg := GetConfig(context.Background())
		assert.Equal(t, Default(), cfg)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("stored config", func(t *testing.T) {
		want := &Config{Format: FormatJSON, Concurrency: 2, Include: []string{"*.ddl"}}
		ctx := WithConfig(context.Background(), want)
		assert.Same(t, want, GetConfig(ctx))
	})
}
