package scratch

import (
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// NameAllocator hands out scratch directory names. Once a full test name
// has been given a directory name, it keeps it for the allocator's
// lifetime, and no two full names ever share one.
type NameAllocator struct {
	mu         sync.Mutex
	byFullName map[string]string
	used       map[string]struct{}
	hash       func(string) uint32
}

// NewNameAllocator returns an empty allocator.
func NewNameAllocator() *NameAllocator {
	return &NameAllocator{
		byFullName: make(map[string]string),
		used:       make(map[string]struct{}),
		hash:       hash32,
	}
}

var (
	defaultOnce      sync.Once
	defaultAllocator *NameAllocator
)

// DefaultAllocator returns the process-wide allocator used when an Env
// does not carry one. It is never reset.
func DefaultAllocator() *NameAllocator {
	defaultOnce.Do(func() {
		defaultAllocator = NewNameAllocator()
	})
	return defaultAllocator
}

// Allocate returns the directory name for id. The short name is
// sanitized again here, since TestIdentity can be built without
// NewIdentity; a short name that sanitizes to nothing becomes "_".
func (a *NameAllocator) Allocate(id TestIdentity) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if name, ok := a.byFullName[id.FullName]; ok {
		return name
	}

	short := Sanitize(id.ShortName)
	if short == "" {
		short = "_"
	}

	name := short
	if _, taken := a.used[name]; taken {
		name = fmt.Sprintf("%s-%08x", short, a.hash(id.FullName))
		base := name
		for n := 2; ; n++ {
			if _, taken := a.used[name]; !taken {
				break
			}
			name = fmt.Sprintf("%s-%d", base, n)
		}
	}

	a.used[name] = struct{}{}
	a.byFullName[id.FullName] = name
	return name
}

// Len returns the number of names handed out.
func (a *NameAllocator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.used)
}

func hash32(s string) uint32 {
	return uint32(xxhash.Sum64String(s))
}
