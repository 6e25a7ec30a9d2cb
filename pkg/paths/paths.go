package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/arthur-debert/testbed/pkg/errors"
)

// EnvHome is the standard home directory variable
const EnvHome = "HOME"

// windowsReserved are characters that can never appear in a Windows path
// component. The colon is handled separately since it is legal after a drive
// letter.
const windowsReserved = `<>"|?*`

// Roots holds the two base directories of a test run, both absolute.
type Roots struct {
	// ResourceRoot is the read-only directory containing deployable fixtures.
	ResourceRoot string

	// WorkRoot is the writable directory receiving deployed items and
	// scratch directories.
	WorkRoot string
}

// NewRoots expands a leading ~ and makes both roots absolute.
func NewRoots(resourceRoot, workRoot string) (Roots, error) {
	if resourceRoot == "" {
		return Roots{}, errors.New(errors.ErrArgumentRequired, "resource root is required")
	}
	if workRoot == "" {
		return Roots{}, errors.New(errors.ErrArgumentRequired, "work root is required")
	}

	resource, err := absolute(resourceRoot)
	if err != nil {
		return Roots{}, err
	}
	work, err := absolute(workRoot)
	if err != nil {
		return Roots{}, err
	}

	return Roots{ResourceRoot: resource, WorkRoot: work}, nil
}

// ResolveResource resolves path against the resource root
func (r Roots) ResolveResource(path string) (string, error) {
	return Resolve(path, r.ResourceRoot)
}

// ResolveWork resolves path against the work root
func (r Roots) ResolveWork(path string) (string, error) {
	return Resolve(path, r.WorkRoot)
}

// Resolve turns path into a canonical absolute path relative to basePath.
func Resolve(path, basePath string) (string, error) {
	if basePath == "" {
		return "", errors.New(errors.ErrArgumentRequired, "base path is required")
	}
	if err := validate(path); err != nil {
		return "", err
	}
	if err := validate(basePath); err != nil {
		return "", err
	}

	p := NormalizeSeparators(path)
	base := NormalizeSeparators(basePath)

	var combined string
	switch {
	case p == "":
		combined = base
	case filepath.IsAbs(p):
		combined = p
	default:
		combined = base + string(filepath.Separator) + p
	}

	if !filepath.IsAbs(combined) {
		return "", errors.Newf(errors.ErrInvalidPath, "cannot resolve %q against non-absolute base %q", path, basePath).
			WithDetail("path", path).
			WithDetail("base", basePath)
	}

	// Clean removes dot segments exactly as URI reference resolution does,
	// and a rooted path cannot ascend past its root.
	return filepath.Clean(combined), nil
}

// NormalizeSeparators rewrites both '/' and '\' to the native separator.
func NormalizeSeparators(path string) string {
	if filepath.Separator == '/' {
		return strings.ReplaceAll(path, `\`, "/")
	}
	return strings.ReplaceAll(path, "/", string(filepath.Separator))
}

// IsWithin reports whether path lies inside root (or is root itself).
// Both are expected to be canonical absolute paths.
func IsWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func validate(path string) error {
	if strings.ContainsRune(path, 0) {
		return errors.Newf(errors.ErrInvalidPath, "path %q contains a NUL byte", path).
			WithDetail("path", path)
	}

	if runtime.GOOS != "windows" {
		return nil
	}

	rest := path[len(filepath.VolumeName(path)):]
	if i := strings.IndexAny(rest, windowsReserved+":"); i >= 0 {
		return errors.Newf(errors.ErrInvalidPath, "path %q contains reserved character %q", path, rest[i]).
			WithDetail("path", path)
	}
	return nil
}

func absolute(path string) (string, error) {
	if err := validate(path); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(NormalizeSeparators(ExpandHome(path)))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidPath, "failed to get absolute path for %s", path)
	}
	return abs, nil
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == '\\' {
		return filepath.Join(homeDir, path[2:])
	}

	// ~user is not expanded
	return path
}
