// Package paths provides path resolution for testbed.
//
// Every path that reaches the filesystem layer goes through Resolve, which
// turns a caller-supplied path (relative or absolute, forward or backward
// slashes) into a canonical absolute path against a base directory:
//
//   - separators are rewritten to the host's native separator
//   - an empty path resolves to the base itself
//   - absolute paths are honoured as-is
//   - "." and ".." segments are collapsed the way a file:// URI would be,
//     so ".." never climbs above the filesystem root
//
// Resolve is pure: it performs no I/O.
//
// # Roots
//
// Roots pairs the two directories a test run works with: the read-only
// resource root, where fixtures live, and the writable work root, where
// fixtures are deployed and scratch directories are created.
//
//	roots, err := paths.NewRoots("testdata", "/tmp/testbed")
//	src, _ := roots.ResolveResource("Resources/test1.txt")
//	dst, _ := roots.ResolveWork("folder2")
package paths
