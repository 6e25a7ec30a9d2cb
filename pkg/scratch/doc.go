// Package scratch allocates an isolated, uniquely named working directory
// for each test and optionally moves the process into it.
//
// A scratch pad is an acquire/release pair: Open saves the current working
// directory and Close puts it back, whatever happened in between. Test code
// normally uses New, which registers Close with t.Cleanup:
//
//	func TestSomething(t *testing.T) {
//		sp := scratch.New(t, env, scratch.Default)
//		sp.DeployItem("fixtures/input.txt")
//		// the working directory is now sp.Path
//	}
//
// Directory names come from a NameAllocator. The short test name is used
// verbatim the first time it is seen; a different test with the same short
// name gets "<short>-<8 hex digits>" derived from its full name. Asking
// again for the same test always returns the same name.
//
// The working directory is process-wide, so scratch pads must not be used
// from tests that call t.Parallel.
package scratch
