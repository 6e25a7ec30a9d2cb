package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/testbed/pkg/errors"
	"github.com/arthur-debert/testbed/pkg/fileops"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the XDG dirs into a temp dir and returns an empty project dir
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmp, "cache"))
	xdg.Reload()

	project := filepath.Join(tmp, "project")
	require.NoError(t, os.MkdirAll(project, 0755))
	return project
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	project := isolate(t)

	cfg, err := Load(LoadOptions{ProjectDir: project})
	require.NoError(t, err)

	assert.Equal(t, "testdata", cfg.Roots.Resources)
	assert.Empty(t, cfg.Roots.Work)
	assert.False(t, cfg.Roots.UseCurrentDir)
	assert.Equal(t, fileops.DefaultPolicy(), cfg.Policy())
	assert.Equal(t, 0, cfg.Logging.Verbosity)
}

func TestLoad_ProjectFiles(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "testbed.toml", "[roots]\nwork = \"/tmp/w\"\n[retry]\nattempts = 2\n"},
		{"hidden toml", ".testbed.toml", "[roots]\nwork = \"/tmp/w\"\n[retry]\nattempts = 2\n"},
		{"yaml", "testbed.yaml", "roots:\n  work: /tmp/w\nretry:\n  attempts: 2\n"},
		{"hidden yaml", ".testbed.yaml", "roots:\n  work: /tmp/w\nretry:\n  attempts: 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project := isolate(t)
			writeFile(t, filepath.Join(project, tt.file), tt.content)

			cfg, err := Load(LoadOptions{ProjectDir: project})
			require.NoError(t, err)
			assert.Equal(t, "/tmp/w", cfg.Roots.Work)
			assert.Equal(t, 2, cfg.Retry.Attempts)
			assert.Equal(t, 250*time.Millisecond, cfg.Retry.Pause, "unset keys keep their defaults")
		})
	}
}

func TestLoad_Precedence(t *testing.T) {
	project := isolate(t)

	writeFile(t, UserConfigPath(), "[roots]\nresources = \"user-res\"\nsubfolder = \"user\"\nwork = \"/user\"\n")
	writeFile(t, filepath.Join(project, "testbed.toml"), "[roots]\nsubfolder = \"project\"\nwork = \"/project\"\n")
	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	writeFile(t, explicit, "roots:\n  work: /explicit\n")
	t.Setenv("TESTBED_RETRY__DELETE_BUDGET", "2s")
	t.Setenv("TESTBED_ROOTS__WORK", "/env")

	cfg, err := Load(LoadOptions{
		ProjectDir: project,
		ConfigFile: explicit,
		Overrides:  map[string]interface{}{"logging.verbosity": 2},
	})
	require.NoError(t, err)

	assert.Equal(t, "user-res", cfg.Roots.Resources)
	assert.Equal(t, "project", cfg.Roots.Subfolder)
	assert.Equal(t, "/env", cfg.Roots.Work)
	assert.Equal(t, 2*time.Second, cfg.Retry.DeleteBudget)
	assert.Equal(t, 2, cfg.Logging.Verbosity)

	cfg, err = Load(LoadOptions{
		ProjectDir: project,
		Overrides:  map[string]interface{}{"roots.work": "/flag"},
	})
	require.NoError(t, err)
	assert.Equal(t, "/flag", cfg.Roots.Work, "overrides beat the environment")

	cfg, err = Load(LoadOptions{ProjectDir: project, SkipUserFile: true})
	require.NoError(t, err)
	assert.Equal(t, "testdata", cfg.Roots.Resources)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    errors.ErrorCode
	}{
		{"malformed toml", "testbed.toml", "[roots\nwork=", errors.ErrConfigParse},
		{"bad duration", "testbed.toml", "[retry]\npause = \"soon\"\n", errors.ErrConfigParse},
		{"zero attempts", "testbed.toml", "[retry]\nattempts = 0\n", errors.ErrConfigInvalid},
		{"empty resources", "testbed.toml", "[roots]\nresources = \"\"\n", errors.ErrConfigInvalid},
		{"absolute subfolder", "testbed.yaml", "roots:\n  subfolder: /abs\n", errors.ErrConfigInvalid},
		{"negative verbosity", "testbed.toml", "[logging]\nverbosity = -1\n", errors.ErrConfigInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project := isolate(t)
			writeFile(t, filepath.Join(project, tt.file), tt.content)

			_, err := Load(LoadOptions{ProjectDir: project})
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetErrorCode(err))
		})
	}

	t.Run("missing explicit file", func(t *testing.T) {
		project := isolate(t)
		_, err := Load(LoadOptions{ProjectDir: project, ConfigFile: filepath.Join(project, "nope.toml")})
		require.Error(t, err)
		assert.Equal(t, errors.ErrConfigLoad, errors.GetErrorCode(err))
	})

	t.Run("unsupported explicit file", func(t *testing.T) {
		project := isolate(t)
		path := filepath.Join(project, "config.ini")
		writeFile(t, path, "x=1")
		_, err := Load(LoadOptions{ProjectDir: project, ConfigFile: path})
		require.Error(t, err)
		assert.Equal(t, errors.ErrConfigLoad, errors.GetErrorCode(err))
	})
}

func TestConfig_ResolveRoots(t *testing.T) {
	project := isolate(t)
	resources := filepath.Join(project, "res")

	t.Run("default work root", func(t *testing.T) {
		cfg := &Config{Roots: RootsConfig{Resources: resources}}
		roots, err := cfg.ResolveRoots()
		require.NoError(t, err)
		assert.Equal(t, resources, roots.ResourceRoot)
		assert.Equal(t, filepath.Join(xdg.CacheHome, "testbed", "work"), roots.WorkRoot)
	})

	t.Run("explicit work root with subfolder", func(t *testing.T) {
		work := filepath.Join(project, "w")
		cfg := &Config{Roots: RootsConfig{Resources: resources, Work: work, Subfolder: "job-1"}}
		roots, err := cfg.ResolveRoots()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(work, "job-1"), roots.WorkRoot)
	})

	t.Run("current directory", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)
		cfg := &Config{Roots: RootsConfig{Resources: resources, Work: "/ignored", UseCurrentDir: true}}
		roots, err := cfg.ResolveRoots()
		require.NoError(t, err)
		assert.Equal(t, wd, roots.WorkRoot)
	})
}

func TestEncode(t *testing.T) {
	project := isolate(t)
	cfg, err := Load(LoadOptions{ProjectDir: project})
	require.NoError(t, err)

	t.Run("toml", func(t *testing.T) {
		out, err := Encode(cfg, FormatTOML)
		require.NoError(t, err)

		k := koanf.New(".")
		require.NoError(t, k.Load(&rawBytesProvider{bytes: out}, toml.Parser()))
		assert.Equal(t, "testdata", k.String("roots.resources"))
		assert.Equal(t, "5s", k.String("retry.delete_budget"))
		assert.Equal(t, 4, k.Int("retry.attempts"))
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := Encode(cfg, FormatYAML)
		require.NoError(t, err)

		k := koanf.New(".")
		require.NoError(t, k.Load(&rawBytesProvider{bytes: out}, yaml.Parser()))
		assert.Equal(t, "250ms", k.String("retry.pause"))
		assert.False(t, k.Bool("roots.use_current_dir"))
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := Encode(cfg, "ini")
		require.Error(t, err)
		assert.Equal(t, errors.ErrInvalidOption, errors.GetErrorCode(err))
	})
}

func TestGenerateConfigContent(t *testing.T) {
	content := GenerateConfigContent()

	assert.Contains(t, content, "[roots]")
	assert.Contains(t, content, `# resources = "testdata"`)
	assert.Contains(t, content, "# attempts = 4")
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "[") {
			continue
		}
		t.Errorf("uncommented value line: %q", line)
	}

	// The template still parses, and sets no values.
	k := koanf.New(".")
	require.NoError(t, k.Load(&rawBytesProvider{bytes: []byte(content)}, toml.Parser()))
	assert.False(t, k.Exists("roots.resources"))
	assert.False(t, k.Exists("retry.attempts"))
}
