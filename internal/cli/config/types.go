// Package config provides configuration management for the sqlschema CLI.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds all CLI configuration options.
type Config struct {
	OutputDir   string      `koanf:"output_dir"`
	Format      string      `koanf:"format"`
	Verbose     bool        `koanf:"verbose"`
	Resolve     bool        `koanf:"resolve"`
	Concurrency int         `koanf:"concurrency"`
	Include     []string    `koanf:"include"`
	Catalog     string      `koanf:"catalog"`
	Serve       ServeConfig `koanf:"serve"`
	Watch       WatchConfig `koanf:"watch"`
}

// ServeConfig holds configuration for the JSON API server.
type ServeConfig struct {
	Addr string `koanf:"addr"`
}

// WatchConfig holds configuration for the watch command.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
}

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Default configuration values.
const (
	DefaultFormat      = FormatText
	DefaultConcurrency = 4
	DefaultInclude     = "*.sql"
	DefaultCatalog     = ".sqlschema/catalog.db"
	DefaultServeAddr   = "127.0.0.1:8080"
	DefaultDebounce    = 200 * time.Millisecond
)

// DefaultOutputDir returns the directory parse writes into when none is configured.
func DefaultOutputDir() string {
	return filepath.Join(os.TempDir(), "sqlschema")
}

// Defaults returns the default configuration as a flat key map.
func Defaults() map[string]any {
	return map[string]any{
		"output_dir":     DefaultOutputDir(),
		"format":         DefaultFormat,
		"verbose":        false,
		"resolve":        true,
		"concurrency":    DefaultConcurrency,
		"include":        []string{DefaultInclude},
		"catalog":        DefaultCatalog,
		"serve.addr":     DefaultServeAddr,
		"watch.debounce": DefaultDebounce.String(),
	}
}

// Default returns the configuration used when nothing has been loaded.
func Default() *Config {
	return &Config{
		OutputDir:   DefaultOutputDir(),
		Format:      DefaultFormat,
		Resolve:     true,
		Concurrency: DefaultConcurrency,
		Include:     []string{DefaultInclude},
		Catalog:     DefaultCatalog,
		Serve:       ServeConfig{Addr: DefaultServeAddr},
		Watch:       WatchConfig{Debounce: DefaultDebounce},
	}
}
