// pkg/testutil/environment.go
// DEPENDENCIES: paths, fileops, deploy
// PURPOSE: Orchestrate isolated test environments with real file operations

package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/testbed/pkg/deploy"
	"github.com/arthur-debert/testbed/pkg/fileops"
	"github.com/arthur-debert/testbed/pkg/paths"
	"github.com/rs/zerolog"
)

// TestEnvironment provides isolated roots and the dependencies built on them
type TestEnvironment struct {
	// Core paths
	TempDir      string
	ResourceRoot string
	WorkRoot     string

	// Core dependencies
	Roots    paths.Roots
	Ops      *fileops.Ops
	Deployer *deploy.Deployer

	t testing.TB
}

// FastPolicy returns a retry policy with the default shape but millisecond
// ceilings, so failing operations give up quickly in tests.
func FastPolicy() fileops.Policy {
	return fileops.Policy{
		DeleteInitialInterval: time.Millisecond,
		DeleteMaxInterval:     4 * time.Millisecond,
		DeleteBudget:          50 * time.Millisecond,
		Attempts:              4,
		Pause:                 time.Millisecond,
	}
}

// NewTestEnvironment creates resource and work roots under t.TempDir and
// wires a Deployer over them.
func NewTestEnvironment(t testing.TB) *TestEnvironment {
	t.Helper()

	tempDir := t.TempDir()
	env := &TestEnvironment{
		TempDir:      tempDir,
		ResourceRoot: filepath.Join(tempDir, "resources"),
		WorkRoot:     filepath.Join(tempDir, "work"),
		t:            t,
	}

	// Runs after the variables below are restored.
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tempDir, "xdg", "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tempDir, "xdg", "cache"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tempDir, "xdg", "state"))
	xdg.Reload()

	for _, dir := range []string{env.ResourceRoot, env.WorkRoot} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	roots, err := paths.NewRoots(env.ResourceRoot, env.WorkRoot)
	if err != nil {
		t.Fatalf("Failed to create roots: %v", err)
	}
	env.Roots = roots

	ops, err := fileops.New(fileops.WithPolicy(FastPolicy()), fileops.WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("Failed to create file operations: %v", err)
	}
	env.Ops = ops
	env.Deployer = deploy.New(roots, ops, deploy.WithLogger(zerolog.Nop()))

	return env
}

// ResourcePath joins elem onto the resource root
func (env *TestEnvironment) ResourcePath(elem ...string) string {
	return filepath.Join(append([]string{env.ResourceRoot}, elem...)...)
}

// WorkPath joins elem onto the work root
func (env *TestEnvironment) WorkPath(elem ...string) string {
	return filepath.Join(append([]string{env.WorkRoot}, elem...)...)
}

// WithFileTree lays down tree under the resource root
func (env *TestEnvironment) WithFileTree(tree FileTree) *TestEnvironment {
	env.t.Helper()
	CreateFileTree(env.t, env.ResourceRoot, tree)
	return env
}

// WithWorkTree lays down tree under the work root
func (env *TestEnvironment) WithWorkTree(tree FileTree) *TestEnvironment {
	env.t.Helper()
	CreateFileTree(env.t, env.WorkRoot, tree)
	return env
}

// Chdir changes the working directory for the rest of the test and
// restores it on cleanup.
func (env *TestEnvironment) Chdir(dir string) {
	env.t.Helper()
	KeepWorkingDirectory(env.t)
	if err := os.Chdir(dir); err != nil {
		env.t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

// KeepWorkingDirectory restores the current working directory when the
// test finishes.
func KeepWorkingDirectory(t testing.TB) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Errorf("Failed to restore working directory %s: %v", wd, err)
		}
	})
}

// Getwd returns the current working directory with symlinks resolved, so
// it can be compared against paths under t.TempDir on systems where the
// temp dir is itself a symlink.
func Getwd(t testing.TB) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return EvalSymlinks(t, wd)
}

// EvalSymlinks resolves symlinks in path, failing the test on error.
func EvalSymlinks(t testing.TB, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("Failed to resolve %s: %v", path, err)
	}
	return resolved
}
