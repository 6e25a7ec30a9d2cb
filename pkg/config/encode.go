package config

import (
	"github.com/arthur-debert/testbed/pkg/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Supported output formats
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// ToMap returns the configuration keyed like the config files, with
// durations rendered as strings.
func (c *Config) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"roots": map[string]interface{}{
			"resources":       c.Roots.Resources,
			"work":            c.Roots.Work,
			"subfolder":       c.Roots.Subfolder,
			"use_current_dir": c.Roots.UseCurrentDir,
		},
		"retry": map[string]interface{}{
			"delete_initial_interval": c.Retry.DeleteInitialInterval.String(),
			"delete_max_interval":     c.Retry.DeleteMaxInterval.String(),
			"delete_budget":           c.Retry.DeleteBudget.String(),
			"attempts":                c.Retry.Attempts,
			"pause":                   c.Retry.Pause.String(),
		},
		"logging": map[string]interface{}{
			"verbosity": c.Logging.Verbosity,
		},
	}
}

// Encode renders cfg in the given format
func Encode(cfg *Config, format string) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch format {
	case FormatTOML, "":
		out, err = toml.Marshal(cfg.ToMap())
	case FormatYAML, "yml":
		out, err = yaml.Marshal(cfg.ToMap())
	default:
		return nil, errors.Newf(errors.ErrInvalidOption, "unsupported format %q", format).
			WithDetail("format", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "failed to encode configuration as %s", format)
	}
	return out, nil
}
