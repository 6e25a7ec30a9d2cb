package fileops

import (
	"github.com/arthur-debert/testbed/pkg/errors"
	"github.com/cenkalti/backoff/v4"
)

// Strategy decides how deletions cope with paths held open by other
// processes.
type Strategy interface {
	Name() string
	deleteBackOff(p Policy) backoff.BackOff
	verifiesRemoval() bool
}

// LockingStrategy retries deletions with exponential backoff. Used where an
// open handle blocks deletion.
type LockingStrategy struct{}

func (LockingStrategy) Name() string { return "locking" }

func (LockingStrategy) deleteBackOff(p Policy) backoff.BackOff { return p.deleteBackOff() }

func (LockingStrategy) verifiesRemoval() bool { return false }

// DirectStrategy makes a single deletion attempt and checks the path is
// gone afterwards. Used where unlinking an open file succeeds.
type DirectStrategy struct{}

func (DirectStrategy) Name() string { return "direct" }

func (DirectStrategy) deleteBackOff(Policy) backoff.BackOff { return &backoff.StopBackOff{} }

func (DirectStrategy) verifiesRemoval() bool { return true }

// StrategyFor returns the delete strategy for a GOOS value.
func StrategyFor(goos string) (Strategy, error) {
	switch goos {
	case "windows":
		return LockingStrategy{}, nil
	case "linux", "android", "darwin", "ios", "freebsd", "openbsd", "netbsd",
		"dragonfly", "solaris", "illumos", "aix":
		return DirectStrategy{}, nil
	default:
		return nil, errors.Newf(errors.ErrPlatformUnsupported, "no delete strategy for platform %q", goos).
			WithDetail("goos", goos)
	}
}
