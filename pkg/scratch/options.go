package scratch

import (
	"strings"

	"github.com/arthur-debert/testbed/pkg/errors"
)

// Options selects how a scratch pad prepares its directory and where it
// leaves the working directory. It combines one value from each of two
// independent axes; the zero value is CreateScratch|UseScratchDir.
type Options uint8

// Creation policy.
const (
	// CreateScratch deletes any existing directory and recreates it empty.
	CreateScratch Options = 0

	// NoScratch computes the path but never touches the filesystem.
	NoScratch Options = 1 << 0

	// CreateOnMissing creates the directory only if it is absent, keeping
	// any existing contents.
	CreateOnMissing Options = 1 << 1
)

// Working directory policy.
const (
	// UseScratchDir changes into the scratch directory, if it exists.
	UseScratchDir Options = 0

	// KeepCurrentDir leaves the working directory alone.
	KeepCurrentDir Options = 1 << 2

	// UseDeployDir changes into the work root, if it exists.
	UseDeployDir Options = 1 << 3
)

// Default is a fresh, empty scratch directory that becomes the working
// directory.
const Default = CreateScratch | UseScratchDir

const (
	creationMask = NoScratch | CreateOnMissing
	cwdMask      = KeepCurrentDir | UseDeployDir
)

// Validate rejects unknown bits and two choices from the same axis.
func (o Options) Validate() error {
	if o&^(creationMask|cwdMask) != 0 {
		return errors.Newf(errors.ErrInvalidOption, "unknown scratch option bits %#x", uint8(o&^(creationMask|cwdMask)))
	}
	if o&creationMask == creationMask {
		return errors.New(errors.ErrInvalidOption, "NoScratch and CreateOnMissing are mutually exclusive")
	}
	if o&cwdMask == cwdMask {
		return errors.New(errors.ErrInvalidOption, "KeepCurrentDir and UseDeployDir are mutually exclusive")
	}
	return nil
}

func (o Options) creation() Options { return o & creationMask }

func (o Options) cwd() Options { return o & cwdMask }

func (o Options) String() string {
	var parts []string
	switch o.creation() {
	case NoScratch:
		parts = append(parts, "NoScratch")
	case CreateOnMissing:
		parts = append(parts, "CreateOnMissing")
	case CreateScratch:
		parts = append(parts, "CreateScratch")
	default:
		parts = append(parts, "NoScratch|CreateOnMissing")
	}
	switch o.cwd() {
	case KeepCurrentDir:
		parts = append(parts, "KeepCurrentDir")
	case UseDeployDir:
		parts = append(parts, "UseDeployDir")
	case UseScratchDir:
		parts = append(parts, "UseScratchDir")
	default:
		parts = append(parts, "KeepCurrentDir|UseDeployDir")
	}
	return strings.Join(parts, "|")
}

// ParseOptions reads a "|"-separated list of option names, as produced by
// String. An empty string yields Default. Naming two different values of
// the same axis is an error, including the zero-valued CreateScratch and
// UseScratchDir; Default names both.
func ParseOptions(s string) (Options, error) {
	var creation, cwd string
	pick := func(axis *string, name string) error {
		if *axis != "" && *axis != name {
			return errors.Newf(errors.ErrInvalidOption, "scratch options %s and %s are mutually exclusive", *axis, name).
				WithDetail("options", s)
		}
		*axis = name
		return nil
	}

	var o Options
	for _, part := range strings.Split(s, "|") {
		name := strings.TrimSpace(part)
		var err error
		switch name {
		case "":
		case "Default":
			if err = pick(&creation, "CreateScratch"); err == nil {
				err = pick(&cwd, "UseScratchDir")
			}
		case "CreateScratch":
			err = pick(&creation, name)
		case "NoScratch":
			err = pick(&creation, name)
			o |= NoScratch
		case "CreateOnMissing":
			err = pick(&creation, name)
			o |= CreateOnMissing
		case "UseScratchDir":
			err = pick(&cwd, name)
		case "KeepCurrentDir":
			err = pick(&cwd, name)
			o |= KeepCurrentDir
		case "UseDeployDir":
			err = pick(&cwd, name)
			o |= UseDeployDir
		default:
			return 0, errors.Newf(errors.ErrInvalidOption, "unknown scratch option %q", part).
				WithDetail("option", part)
		}
		if err != nil {
			return 0, err
		}
	}
	return o, o.Validate()
}
