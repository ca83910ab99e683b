package config

import (
	"fmt"
	"path/filepath"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("invalid format %q: want %s, %s or %s", c.Format, FormatText, FormatJSON, FormatYAML)
	}

	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}

	if len(c.Include) == 0 {
		return fmt.Errorf("include needs at least one pattern")
	}
	for _, pattern := range c.Include {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
	}

	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	return nil
}
