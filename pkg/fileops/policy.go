package fileops

import (
	"time"

	"github.com/arthur-debert/testbed/pkg/errors"
	"github.com/cenkalti/backoff/v4"
)

// Policy holds the retry ceilings.
type Policy struct {
	// DeleteInitialInterval is the first pause of the delete backoff.
	DeleteInitialInterval time.Duration

	// DeleteMaxInterval caps the doubling delete pause.
	DeleteMaxInterval time.Duration

	// DeleteBudget is the cumulative time after which a delete gives up.
	DeleteBudget time.Duration

	// Attempts is the total number of tries for directory creation and copies.
	Attempts int

	// Pause is the fixed wait between creation and copy attempts.
	Pause time.Duration
}

// DefaultPolicy returns the standard retry ceilings.
func DefaultPolicy() Policy {
	return Policy{
		DeleteInitialInterval: 5 * time.Millisecond,
		DeleteMaxInterval:     100 * time.Millisecond,
		DeleteBudget:          5000 * time.Millisecond,
		Attempts:              4,
		Pause:                 250 * time.Millisecond,
	}
}

// Validate rejects policies that would retry forever or not at all.
func (p Policy) Validate() error {
	switch {
	case p.DeleteInitialInterval <= 0:
		return errors.New(errors.ErrInvalidOption, "delete initial interval must be positive")
	case p.DeleteMaxInterval < p.DeleteInitialInterval:
		return errors.New(errors.ErrInvalidOption, "delete max interval must not be below the initial interval")
	case p.DeleteBudget <= 0:
		return errors.New(errors.ErrInvalidOption, "delete budget must be positive")
	case p.Attempts < 1:
		return errors.New(errors.ErrInvalidOption, "attempts must be at least 1")
	case p.Pause < 0:
		return errors.New(errors.ErrInvalidOption, "pause must not be negative")
	}
	return nil
}

func (p Policy) deleteBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.DeleteInitialInterval
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxInterval = p.DeleteMaxInterval
	b.MaxElapsedTime = p.DeleteBudget
	b.Reset()
	return b
}

func (p Policy) pauseBackOff() backoff.BackOff {
	return backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Pause), uint64(p.Attempts-1))
}
