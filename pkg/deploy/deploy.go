// Package deploy copies test resources into the work area and cleans them
// up again.
//
// Sources are resolved against the resource root and destinations against
// the work root. The resource root is only ever read from.
package deploy

import (
	"path/filepath"

	"github.com/arthur-debert/testbed/pkg/errors"
	"github.com/arthur-debert/testbed/pkg/fileops"
	"github.com/arthur-debert/testbed/pkg/logging"
	"github.com/arthur-debert/testbed/pkg/paths"
	"github.com/rs/zerolog"
)

// Deployer copies resources into the work root.
type Deployer struct {
	roots  paths.Roots
	ops    *fileops.Ops
	logger zerolog.Logger
}

// Option configures a Deployer.
type Option func(*Deployer)

// WithLogger sets the logger used by the Deployer.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Deployer) { d.logger = l }
}

// Result describes a completed deployment.
type Result struct {
	// Target is the absolute path of the deployed file or directory.
	Target string

	// Copied counts files whose bytes were written.
	Copied int

	// Skipped counts files that were already up to date.
	Skipped int
}

// New creates a Deployer over roots using ops for every filesystem call.
func New(roots paths.Roots, ops *fileops.Ops, opts ...Option) *Deployer {
	d := &Deployer{
		roots:  roots,
		ops:    ops,
		logger: logging.GetLogger("deploy"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Roots returns the resource and work roots.
func (d *Deployer) Roots() paths.Roots { return d.roots }

// Ops returns the underlying file operations.
func (d *Deployer) Ops() *fileops.Ops { return d.ops }

// Item deploys the resource at sourcePath into outputDirectory.
//
// A file lands at outputDirectory/<name>. A directory is copied as
// outputDirectory/<name>/..., merging into whatever is already there.
// Files that are already up to date are not rewritten.
func (d *Deployer) Item(sourcePath, outputDirectory string) (*Result, error) {
	if sourcePath == "" {
		return nil, errors.New(errors.ErrArgumentRequired, "source path is required")
	}

	src, err := d.roots.ResolveResource(sourcePath)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(paths.NormalizeSeparators(sourcePath)) && !paths.IsWithin(d.roots.ResourceRoot, src) {
		return nil, errors.Newf(errors.ErrInvalidPath, "source %s climbs out of the resource root", sourcePath).
			WithDetail("source", src).
			WithDetail("resource_root", d.roots.ResourceRoot)
	}
	out, err := d.roots.ResolveWork(outputDirectory)
	if err != nil {
		return nil, err
	}
	if err := d.guard(out); err != nil {
		return nil, err
	}

	res := &Result{Target: filepath.Join(out, filepath.Base(src))}
	logger := d.logger.With().Str("source", src).Str("target", res.Target).Logger()
	defer logging.LogOperationStart(logger, "deploy_item")()

	switch {
	case d.ops.DirExists(src):
		if paths.IsWithin(src, res.Target) {
			return nil, errors.Newf(errors.ErrInvalidPath, "cannot deploy %s into itself", src).
				WithDetail("source", src).
				WithDetail("target", res.Target)
		}
		logger.Debug().Msg("Deploying directory")
		if err := d.copyTree(src, res.Target, res, map[string]bool{}); err != nil {
			return nil, err
		}
	case d.ops.FileExists(src):
		logger.Debug().Msg("Deploying file")
		if err := d.copyFile(src, res.Target, res); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Newf(errors.ErrSourceNotFound, "resource %s not found", sourcePath).
			WithDetail("source", src)
	}

	logger.Info().Int("copied", res.Copied).Int("skipped", res.Skipped).Msg("Deployed")
	return res, nil
}

// CreateDirectory ensures path exists under the work root.
func (d *Deployer) CreateDirectory(path string) error {
	target, err := d.resolveTarget(path)
	if err != nil {
		return err
	}
	return d.ops.CreateDirectory(target)
}

// DeleteFile removes the file at path under the work root. A missing file
// is not an error.
func (d *Deployer) DeleteFile(path string) error {
	target, err := d.resolveTarget(path)
	if err != nil {
		return err
	}
	return d.ops.DeleteFile(target)
}

// DeleteDirectory removes the directory at path under the work root with
// everything in it. A missing directory is not an error.
func (d *Deployer) DeleteDirectory(path string) error {
	target, err := d.resolveTarget(path)
	if err != nil {
		return err
	}
	if !d.ops.Exists(target) {
		return nil
	}
	if d.ops.IsSymlink(target) {
		// The link goes, never what it points to.
		return d.ops.DeleteFile(target)
	}
	if !d.ops.DirExists(target) {
		return errors.Newf(errors.ErrAccessDenied, "%s is not a directory", target).
			WithDetail("path", target)
	}

	d.logger.Debug().Str("path", target).Msg("Deleting directory tree")
	return d.deleteTree(target)
}

// EmptyFile creates or truncates a zero-length file at path under the work
// root.
func (d *Deployer) EmptyFile(path string) error {
	target, err := d.resolveTarget(path)
	if err != nil {
		return err
	}
	return d.ops.WriteEmptyFile(target)
}

// Exists reports whether path exists under the work root.
func (d *Deployer) Exists(path string) bool {
	target, err := d.roots.ResolveWork(path)
	if err != nil {
		return false
	}
	return d.ops.Exists(target)
}

func (d *Deployer) resolveTarget(path string) (string, error) {
	target, err := d.roots.ResolveWork(path)
	if err != nil {
		return "", err
	}
	if err := d.guard(target); err != nil {
		return "", err
	}
	return target, nil
}

// guard refuses any destination inside the resource root.
func (d *Deployer) guard(target string) error {
	if paths.IsWithin(d.roots.ResourceRoot, target) {
		return errors.Newf(errors.ErrAccessDenied, "refusing to write inside the resource root: %s", target).
			WithDetail("path", target).
			WithDetail("resource_root", d.roots.ResourceRoot)
	}
	return nil
}

func (d *Deployer) copyFile(src, dst string, res *Result) error {
	copied, err := d.ops.CopyFile(src, dst)
	if err != nil {
		return err
	}
	if copied {
		res.Copied++
	} else {
		res.Skipped++
	}
	return nil
}

// copyTree copies the files of each level before descending into its
// subdirectories. Links to directories are walked like directories;
// visiting holds the real paths of the directories being copied, so a
// link back to one of them is refused instead of recursing forever.
func (d *Deployer) copyTree(src, dst string, res *Result, visiting map[string]bool) error {
	resolved, err := filepath.EvalSymlinks(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrSourceNotFound, "cannot resolve %s", src).
			WithDetail("source", src)
	}
	if visiting[resolved] {
		return errors.Newf(errors.ErrInvalidPath, "symbolic link cycle at %s", src).
			WithDetail("source", src).
			WithDetail("resolved", resolved)
	}
	visiting[resolved] = true
	defer delete(visiting, resolved)

	if err := d.ops.CreateDirectory(dst); err != nil {
		return err
	}

	files, dirs, err := d.ops.ListSources(src)
	if err != nil {
		return err
	}
	for _, name := range files {
		if err := d.copyFile(filepath.Join(src, name), filepath.Join(dst, name), res); err != nil {
			return err
		}
	}
	for _, name := range dirs {
		if err := d.copyTree(filepath.Join(src, name), filepath.Join(dst, name), res, visiting); err != nil {
			return err
		}
	}
	return nil
}

// deleteTree removes files first, then subdirectories, then path itself.
func (d *Deployer) deleteTree(path string) error {
	files, dirs, err := d.ops.ListDirectory(path)
	if err != nil {
		return err
	}
	for _, name := range files {
		if err := d.ops.DeleteFile(filepath.Join(path, name)); err != nil {
			return err
		}
	}
	for _, name := range dirs {
		if err := d.deleteTree(filepath.Join(path, name)); err != nil {
			return err
		}
	}
	return d.ops.DeleteEmptyDirectory(path)
}
