package fileops

import (
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/arthur-debert/testbed/pkg/errors"
	"github.com/arthur-debert/testbed/pkg/logging"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

const (
	dirPerm  os.FileMode = 0755
	filePerm os.FileMode = 0644
)

// Ops performs file operations with bounded retries.
// An Ops is safe for concurrent use; it holds no mutable state.
type Ops struct {
	os       osProvider
	policy   Policy
	strategy Strategy
	logger   zerolog.Logger
}

// Option configures an Ops.
type Option func(*Ops)

// WithPolicy overrides the retry ceilings.
func WithPolicy(p Policy) Option {
	return func(o *Ops) { o.policy = p }
}

// WithStrategy overrides the platform delete strategy.
func WithStrategy(s Strategy) Option {
	return func(o *Ops) { o.strategy = s }
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Ops) { o.logger = l }
}

func withOS(p osProvider) Option {
	return func(o *Ops) { o.os = p }
}

// New returns an Ops for the host platform. It fails with
// PLATFORM_UNSUPPORTED when no delete strategy is known for runtime.GOOS
// and none was supplied.
func New(opts ...Option) (*Ops, error) {
	o := &Ops{
		os:     &OS{},
		policy: DefaultPolicy(),
		logger: logging.GetLogger("fileops"),
	}
	for _, opt := range opts {
		opt(o)
	}

	if err := o.policy.Validate(); err != nil {
		return nil, err
	}

	if o.strategy == nil {
		s, err := StrategyFor(runtime.GOOS)
		if err != nil {
			return nil, err
		}
		o.strategy = s
	}

	o.logger.Debug().
		Str("strategy", o.strategy.Name()).
		Int("attempts", o.policy.Attempts).
		Dur("delete_budget", o.policy.DeleteBudget).
		Msg("File operations initialized")
	return o, nil
}

// Policy returns the retry ceilings in effect.
func (o *Ops) Policy() Policy { return o.policy }

// Strategy returns the delete strategy in effect.
func (o *Ops) Strategy() Strategy { return o.strategy }

// Exists reports whether anything exists at path.
func (o *Ops) Exists(path string) bool {
	_, err := o.os.Lstat(path)
	return err == nil
}

// FileExists reports whether path exists and is not a directory.
func (o *Ops) FileExists(path string) bool {
	info, err := o.os.Stat(path)
	return err == nil && !info.IsDir()
}

// DirExists reports whether path exists and is a directory.
func (o *Ops) DirExists(path string) bool {
	info, err := o.os.Stat(path)
	return err == nil && info.IsDir()
}

// IsSymlink reports whether path is a symbolic link, whatever it points to.
func (o *Ops) IsSymlink(path string) bool {
	info, err := o.os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

// DeleteFile removes the file at path. A missing file is not an error.
func (o *Ops) DeleteFile(path string) error {
	info, err := o.os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrAccessDenied, "cannot inspect %s", path).
			WithDetail("path", path)
	}
	if info.IsDir() {
		return errors.Newf(errors.ErrAccessDenied, "cannot delete %s as a file: it is a directory", path).
			WithDetail("path", path)
	}

	if err := o.remove("delete_file", path, info.Mode()); err != nil {
		return errors.Wrapf(err, errors.ErrDeletionFailed, "failed to delete file %s", path).
			WithDetail("path", path).
			WithDetail("strategy", o.strategy.Name())
	}
	return nil
}

// DeleteEmptyDirectory removes the empty directory at path. A missing
// directory is not an error.
func (o *Ops) DeleteEmptyDirectory(path string) error {
	info, err := o.os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrAccessDenied, "cannot inspect %s", path).
			WithDetail("path", path)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrAccessDenied, "cannot delete %s as a directory: it is a file", path).
			WithDetail("path", path)
	}

	if err := o.remove("delete_directory", path, info.Mode()); err != nil {
		return errors.Wrapf(err, errors.ErrDeletionFailed, "failed to delete directory %s", path).
			WithDetail("path", path).
			WithDetail("strategy", o.strategy.Name())
	}
	return nil
}

// CreateDirectory ensures a directory exists at path, creating parents as
// needed. A file occupying path is deleted first.
func (o *Ops) CreateDirectory(path string) error {
	info, err := o.os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		o.logger.Debug().Str("path", path).Msg("Replacing file with directory")
		if err := o.DeleteFile(path); err != nil {
			return err
		}
	case !os.IsNotExist(err):
		return errors.Wrapf(err, errors.ErrAccessDenied, "cannot inspect %s", path).
			WithDetail("path", path)
	}

	err = o.retry("create_directory", path, o.policy.pauseBackOff(), isLockError, func() error {
		return o.os.MkdirAll(path, dirPerm)
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrAccessDenied, "failed to create directory %s", path).
			WithDetail("path", path)
	}
	return nil
}

// CopyFile copies src over dst unless dst is already up to date, and
// reports whether any bytes were written. dst afterwards carries the
// modification time of src and is writable.
func (o *Ops) CopyFile(src, dst string) (bool, error) {
	srcInfo, err := o.os.Stat(src)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrSourceNotFound, "source file %s not found", src).
			WithDetail("source", src)
	}
	if srcInfo.IsDir() {
		return false, errors.Newf(errors.ErrSourceNotFound, "source %s is a directory, not a file", src).
			WithDetail("source", src)
	}

	dstInfo, err := o.os.Stat(dst)
	if err == nil {
		if dstInfo.IsDir() {
			return false, errors.Newf(errors.ErrAccessDenied, "destination %s is a directory", dst).
				WithDetail("destination", dst)
		}
		if o.upToDate(src, srcInfo, dst, dstInfo) {
			o.logger.Debug().Str("source", src).Str("destination", dst).Msg("Destination up to date, skipping copy")
			return false, nil
		}
		if err := o.makeWritable(dst, dstInfo.Mode()); err != nil {
			return false, errors.Wrapf(err, errors.ErrAccessDenied, "cannot make %s writable", dst).
				WithDetail("destination", dst)
		}
	}

	if err := o.CreateDirectory(filepath.Dir(dst)); err != nil {
		return false, err
	}

	err = o.retry("copy_file", dst, o.policy.pauseBackOff(), isTransient, func() error {
		return o.copyContents(src, dst, srcInfo.Mode().Perm())
	})
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrCopyFailed, "failed to copy %s to %s", src, dst).
			WithDetail("source", src).
			WithDetail("destination", dst)
	}

	if err := o.stampCopy(src, srcInfo, dst); err != nil {
		return true, errors.Wrapf(err, errors.ErrCopyFailed, "failed to set attributes on %s", dst).
			WithDetail("destination", dst)
	}

	o.logger.Trace().Str("source", src).Str("destination", dst).Int64("bytes", srcInfo.Size()).Msg("Copied file")
	return true, nil
}

// WriteEmptyFile creates or truncates the file at path to zero length,
// creating parent directories as needed.
func (o *Ops) WriteEmptyFile(path string) error {
	if o.DirExists(path) {
		return errors.Newf(errors.ErrAccessDenied, "cannot write %s: it is a directory", path).
			WithDetail("path", path)
	}
	if err := o.CreateDirectory(filepath.Dir(path)); err != nil {
		return err
	}

	err := o.retry("write_empty_file", path, o.policy.pauseBackOff(), isTransient, func() error {
		f, err := o.os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
		if err != nil {
			return err
		}
		return f.Close()
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrCopyFailed, "failed to write empty file %s", path).
			WithDetail("path", path)
	}
	return nil
}

// ListDirectory returns the names of the entries directly under path,
// split into directories and everything else, each sorted by name.
// Symbolic links are listed as files and never followed.
func (o *Ops) ListDirectory(path string) (files, dirs []string, err error) {
	return o.list(path, false)
}

// ListSources is ListDirectory for a tree about to be copied: a symbolic
// link is classified by its target, so a link to a directory is listed
// with the directories. Dangling links are listed as files.
func (o *Ops) ListSources(path string) (files, dirs []string, err error) {
	return o.list(path, true)
}

func (o *Ops) list(path string, follow bool) (files, dirs []string, err error) {
	entries, err := o.os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.Wrapf(err, errors.ErrSourceNotFound, "directory %s not found", path).
				WithDetail("path", path)
		}
		return nil, nil, errors.Wrapf(err, errors.ErrAccessDenied, "cannot list %s", path).
			WithDetail("path", path)
	}
	for _, entry := range entries {
		isDir := entry.IsDir()
		if follow && entry.Type()&os.ModeSymlink != 0 {
			if info, err := o.os.Stat(filepath.Join(path, entry.Name())); err == nil {
				isDir = info.IsDir()
			}
		}
		if isDir {
			dirs = append(dirs, entry.Name())
		} else {
			files = append(files, entry.Name())
		}
	}
	return files, dirs, nil
}

func (o *Ops) remove(op, path string, mode os.FileMode) error {
	// A read-only entry cannot be removed on some platforms.
	if mode.Perm()&0200 == 0 {
		_ = o.makeWritable(path, mode)
	}

	err := o.retry(op, path, o.strategy.deleteBackOff(o.policy), isTransient, func() error {
		err := o.os.Remove(path)
		if os.IsNotExist(err) {
			return nil
		}
		return err
	})
	if err != nil {
		return err
	}

	if o.strategy.verifiesRemoval() && o.Exists(path) {
		return errors.Newf(errors.ErrDeletionFailed, "%s still exists after removal", path)
	}
	return nil
}

func (o *Ops) copyContents(src, dst string, perm os.FileMode) error {
	in, err := o.os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := o.os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm|0200)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func (o *Ops) stampCopy(src string, srcInfo os.FileInfo, dst string) error {
	if err := o.makeWritable(dst, srcInfo.Mode()); err != nil {
		return err
	}
	if err := o.os.Chtimes(dst, time.Now(), srcInfo.ModTime()); err != nil {
		return err
	}
	if created, ok := creationTime(src, srcInfo); ok {
		if err := setCreationTime(dst, created); err != nil {
			o.logger.Debug().Err(err).Str("path", dst).Msg("Could not set creation time")
		}
	}
	return nil
}

func (o *Ops) makeWritable(path string, mode os.FileMode) error {
	if mode.Perm()&0200 != 0 {
		return nil
	}
	return o.os.Chmod(path, mode.Perm()|0200)
}

func (o *Ops) upToDate(src string, srcInfo os.FileInfo, dst string, dstInfo os.FileInfo) bool {
	if os.SameFile(srcInfo, dstInfo) {
		return true
	}
	if srcInfo.Size() != dstInfo.Size() || !srcInfo.ModTime().Equal(dstInfo.ModTime()) {
		return false
	}
	if !canStampCreation {
		return true
	}
	srcCreated, ok1 := creationTime(src, srcInfo)
	dstCreated, ok2 := creationTime(dst, dstInfo)
	return ok1 && ok2 && srcCreated.Equal(dstCreated)
}

// retry runs fn under b, stopping early when retryable rejects an error.
// Each retry is logged at debug level and exhaustion at warn level.
func (o *Ops) retry(op, path string, b backoff.BackOff, retryable func(error) bool, fn func() error) error {
	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		err := fn()
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b, func(err error, next time.Duration) {
		o.logger.Debug().
			Str("op", op).
			Str("path", path).
			Int("attempt", attempt).
			Dur("next", next).
			Err(err).
			Msg("Retrying file operation")
	})
	if err != nil && attempt > 1 {
		o.logger.Warn().
			Str("op", op).
			Str("path", path).
			Int("attempts", attempt).
			Err(err).
			Msg("File operation failed after retries")
	}
	return err
}

// isTransient treats every failure as retryable except a vanished path and
// a malformed argument.
func isTransient(err error) bool {
	return !os.IsNotExist(err) && !stderrors.Is(err, os.ErrInvalid)
}
