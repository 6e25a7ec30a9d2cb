// Package testutil provides utilities for testing testbed components.
//
// Key components:
//   - TestEnvironment: isolated resource and work roots in a temp dir, with
//     real file operations tuned for fast retries
//   - FileTree: declarative description of files to lay down or verify
//   - File assertions: content, existence and tree comparisons
//
// Usage guidelines:
//   - All test data should be defined inline with FileTree, not in
//     external fixture files
//   - Each environment also points the XDG base directories into its temp
//     dir, so nothing leaks into the real user directories
//   - Tests that change the working directory must not call t.Parallel
package testutil
