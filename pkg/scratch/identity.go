package scratch

import (
	"strings"
	"testing"
)

// TestIdentity names the test a scratch pad belongs to.
type TestIdentity struct {
	// ShortName is used for the directory name. NewIdentity sanitizes it,
	// and Open and Allocate sanitize it again for hand-built identities.
	ShortName string

	// FullName uniquely identifies the test within the process.
	FullName string
}

// NewIdentity builds an identity from a short and a fully qualified name.
// An empty fullName defaults to shortName.
func NewIdentity(shortName, fullName string) TestIdentity {
	if fullName == "" {
		fullName = shortName
	}
	return TestIdentity{
		ShortName: Sanitize(shortName),
		FullName:  fullName,
	}
}

// IdentityFromT derives an identity from t.Name(). For a subtest such as
// "TestFoo/case_1" the short name is "case_1".
func IdentityFromT(t testing.TB) TestIdentity {
	full := t.Name()
	short := full
	if i := strings.LastIndex(full, "/"); i >= 0 {
		short = full[i+1:]
	}
	return NewIdentity(short, full)
}

// Sanitize replaces characters that are not valid in a directory name on
// any supported platform.
func Sanitize(name string) string {
	out := strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}
		return r
	}, name)
	// Windows drops trailing dots and spaces from names.
	return strings.TrimRight(out, ". ")
}
