package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/testbed/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix starts every environment variable read by Load
const EnvPrefix = "TESTBED_"

// ProjectFiles are looked up in the project directory, first match wins
var ProjectFiles = []string{".testbed.toml", "testbed.toml", ".testbed.yaml", "testbed.yaml"}

// LoadOptions says where Load looks for configuration
type LoadOptions struct {
	// ProjectDir holds the project file. Empty means the current directory.
	ProjectDir string

	// ConfigFile is an explicit file that must exist when set.
	ConfigFile string

	// Overrides are "section.key" values that win over every other source.
	Overrides map[string]interface{}

	// SkipUserFile ignores the file in the XDG config dir.
	SkipUserFile bool
}

// UserConfigPath returns the per-user configuration file path
func UserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "testbed", "config.toml")
}

// Load builds the effective configuration
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse embedded defaults")
	}

	// 2. User file
	if !opts.SkipUserFile {
		if err := loadFileIfExists(k, UserConfigPath()); err != nil {
			return nil, err
		}
	}

	// 3. Project file
	projectDir := opts.ProjectDir
	if projectDir == "" {
		projectDir = "."
	}
	for _, name := range ProjectFiles {
		path := filepath.Join(projectDir, name)
		if _, err := os.Stat(path); err == nil {
			if err := loadFile(k, path); err != nil {
				return nil, err
			}
			break
		}
	}

	// 4. Explicit file
	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", opts.ConfigFile).
				WithDetail("path", opts.ConfigFile)
		}
		if err := loadFile(k, opts.ConfigFile); err != nil {
			return nil, err
		}
	}

	// 5. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
	}

	// 6. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot read %s", path).WithDetail("path", path)
	}
	return loadFile(k, path)
}

func loadFile(k *koanf.Koanf, path string) error {
	parser, err := parserFor(path)
	if err != nil {
		return err
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
			WithDetail("path", path)
	}
	return nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	default:
		return nil, errors.Newf(errors.ErrConfigLoad, "unsupported config file type %q", filepath.Ext(path)).
			WithDetail("path", path)
	}
}
