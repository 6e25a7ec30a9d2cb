package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/testbed/pkg/errors"
	"github.com/arthur-debert/testbed/pkg/fileops"
	"github.com/arthur-debert/testbed/pkg/paths"
)

// Config is the effective testbed configuration
type Config struct {
	Roots   RootsConfig   `koanf:"roots"`
	Retry   RetryConfig   `koanf:"retry"`
	Logging LoggingConfig `koanf:"logging"`
}

// RootsConfig locates the resource and work roots
type RootsConfig struct {
	Resources     string `koanf:"resources"`
	Work          string `koanf:"work"`
	Subfolder     string `koanf:"subfolder"`
	UseCurrentDir bool   `koanf:"use_current_dir"`
}

// RetryConfig mirrors fileops.Policy
type RetryConfig struct {
	DeleteInitialInterval time.Duration `koanf:"delete_initial_interval"`
	DeleteMaxInterval     time.Duration `koanf:"delete_max_interval"`
	DeleteBudget          time.Duration `koanf:"delete_budget"`
	Attempts              int           `koanf:"attempts"`
	Pause                 time.Duration `koanf:"pause"`
}

// LoggingConfig controls log verbosity
type LoggingConfig struct {
	Verbosity int `koanf:"verbosity"`
}

// DefaultWorkRoot is used when no work root is configured
func DefaultWorkRoot() string {
	return filepath.Join(xdg.CacheHome, "testbed", "work")
}

// ResolveRoots resolves the configured roots to absolute paths
func (c *Config) ResolveRoots() (paths.Roots, error) {
	work := c.Roots.Work
	switch {
	case c.Roots.UseCurrentDir:
		wd, err := os.Getwd()
		if err != nil {
			return paths.Roots{}, errors.Wrap(err, errors.ErrConfigInvalid, "cannot use the current directory as work root")
		}
		work = wd
	case work == "":
		work = DefaultWorkRoot()
	}
	if c.Roots.Subfolder != "" {
		work = filepath.Join(work, c.Roots.Subfolder)
	}
	return paths.NewRoots(c.Roots.Resources, work)
}

// Policy returns the retry policy for file operations
func (c *Config) Policy() fileops.Policy {
	return fileops.Policy{
		DeleteInitialInterval: c.Retry.DeleteInitialInterval,
		DeleteMaxInterval:     c.Retry.DeleteMaxInterval,
		DeleteBudget:          c.Retry.DeleteBudget,
		Attempts:              c.Retry.Attempts,
		Pause:                 c.Retry.Pause,
	}
}

// Validate checks the configuration for values that cannot work
func (c *Config) Validate() error {
	if c.Roots.Resources == "" {
		return errors.New(errors.ErrConfigInvalid, "roots.resources must not be empty")
	}
	if c.Roots.Subfolder != "" && filepath.IsAbs(c.Roots.Subfolder) {
		return errors.Newf(errors.ErrConfigInvalid, "roots.subfolder must be relative, got %q", c.Roots.Subfolder).
			WithDetail("subfolder", c.Roots.Subfolder)
	}
	if err := c.Policy().Validate(); err != nil {
		return errors.Wrap(err, errors.ErrConfigInvalid, "invalid retry settings")
	}
	if c.Logging.Verbosity < 0 {
		return errors.Newf(errors.ErrConfigInvalid, "logging.verbosity must not be negative, got %d", c.Logging.Verbosity)
	}
	return nil
}
