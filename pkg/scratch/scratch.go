package scratch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/testbed/pkg/deploy"
	"github.com/arthur-debert/testbed/pkg/errors"
	"github.com/arthur-debert/testbed/pkg/logging"
	"github.com/arthur-debert/testbed/pkg/paths"
	"github.com/rs/zerolog"
)

// Env is what a scratch pad needs from its surroundings.
type Env struct {
	Deployer *deploy.Deployer

	// Allocator names scratch directories. Nil means DefaultAllocator.
	Allocator *NameAllocator
}

type state int

const (
	stateConstructed state = iota
	stateActive
	stateReleased
)

// ScratchPad is a per-test directory under the work root.
type ScratchPad struct {
	// RelativePath is the directory name under the work root.
	RelativePath string

	// Path is the absolute directory path.
	Path string

	deployer *deploy.Deployer
	opts     Options
	savedDir string
	state    state
	logger   zerolog.Logger
}

// Open allocates a scratch directory for id and applies opts. The current
// working directory is recorded first and is restored by Close.
func Open(env Env, id TestIdentity, opts Options) (*ScratchPad, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if env.Deployer == nil {
		return nil, errors.New(errors.ErrArgumentRequired, "scratch pad requires a deployer")
	}
	if id.ShortName == "" {
		return nil, errors.New(errors.ErrArgumentRequired, "test short name is required")
	}
	if Sanitize(id.ShortName) == "" {
		return nil, errors.Newf(errors.ErrInvalidPath, "test short name %q is not usable as a directory name", id.ShortName).
			WithDetail("name", id.ShortName)
	}

	allocator := env.Allocator
	if allocator == nil {
		allocator = DefaultAllocator()
	}

	savedDir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrAccessDenied, "cannot read the current directory")
	}

	name := allocator.Allocate(id)
	workRoot := env.Deployer.Roots().WorkRoot
	path, err := env.Deployer.Roots().ResolveWork(name)
	if err != nil {
		return nil, err
	}
	if path == workRoot || !paths.IsWithin(workRoot, path) {
		return nil, errors.Newf(errors.ErrInvalidPath, "scratch directory %s is not below the work root", path).
			WithDetail("path", path).
			WithDetail("work_root", workRoot)
	}

	sp := &ScratchPad{
		RelativePath: name,
		Path:         path,
		deployer:     env.Deployer,
		opts:         opts,
		savedDir:     savedDir,
		state:        stateConstructed,
		logger: logging.GetLogger("scratch").With().
			Str("test", id.FullName).
			Str("dir", name).
			Logger(),
	}

	if err := sp.prepare(); err != nil {
		_ = sp.Close()
		return nil, err
	}
	if err := sp.enter(); err != nil {
		_ = sp.Close()
		return nil, err
	}

	sp.state = stateActive
	sp.logger.Debug().Str("options", opts.String()).Str("path", path).Msg("Scratch pad opened")
	return sp, nil
}

// New opens a scratch pad for the running test and closes it when the test
// finishes. Any error fails the test immediately.
func New(t testing.TB, env Env, opts Options) *ScratchPad {
	t.Helper()

	sp, err := Open(env, IdentityFromT(t), opts)
	if err != nil {
		t.Fatalf("Failed to open scratch pad: %v", err)
	}
	t.Cleanup(func() {
		if err := sp.Close(); err != nil {
			t.Errorf("Failed to close scratch pad: %v", err)
		}
	})
	return sp
}

func (sp *ScratchPad) prepare() error {
	switch sp.opts.creation() {
	case NoScratch:
		return nil
	case CreateOnMissing:
		return sp.deployer.CreateDirectory(sp.RelativePath)
	default:
		if err := sp.deployer.DeleteDirectory(sp.RelativePath); err != nil {
			return err
		}
		return sp.deployer.CreateDirectory(sp.RelativePath)
	}
}

func (sp *ScratchPad) enter() error {
	var dir string
	switch sp.opts.cwd() {
	case KeepCurrentDir:
		return nil
	case UseDeployDir:
		dir = sp.deployer.Roots().WorkRoot
	default:
		dir = sp.Path
	}

	// With NoScratch the directory may not exist; leave the working
	// directory where it is.
	if !sp.deployer.Ops().DirExists(dir) {
		sp.logger.Debug().Str("path", dir).Msg("Directory absent, not changing into it")
		return nil
	}
	if err := os.Chdir(dir); err != nil {
		return errors.Wrapf(err, errors.ErrAccessDenied, "cannot change directory to %s", dir).
			WithDetail("path", dir)
	}
	return nil
}

// DeployItem deploys a resource into the scratch directory, or into
// outputDirectory below it when given.
func (sp *ScratchPad) DeployItem(path string, outputDirectory ...string) (*deploy.Result, error) {
	out := sp.RelativePath
	if len(outputDirectory) > 0 && outputDirectory[0] != "" {
		out = filepath.Join(sp.RelativePath, outputDirectory[0])
	}
	return sp.deployer.Item(path, out)
}

// DeployEmptyFile creates a zero-length file at path inside the scratch
// directory.
func (sp *ScratchPad) DeployEmptyFile(path string) error {
	if path == "" {
		return errors.New(errors.ErrArgumentRequired, "file path is required")
	}
	return sp.deployer.EmptyFile(filepath.Join(sp.RelativePath, path))
}

// Join returns elem joined onto the scratch directory path.
func (sp *ScratchPad) Join(elem ...string) string {
	return filepath.Join(append([]string{sp.Path}, elem...)...)
}

// Close restores the working directory saved by Open. Calling it again is
// a no-op.
func (sp *ScratchPad) Close() error {
	if sp.state == stateReleased {
		return nil
	}
	sp.state = stateReleased

	if err := os.Chdir(sp.savedDir); err != nil {
		return errors.Wrapf(err, errors.ErrAccessDenied, "cannot restore directory %s", sp.savedDir).
			WithDetail("path", sp.savedDir)
	}
	sp.logger.Debug().Msg("Scratch pad closed")
	return nil
}
