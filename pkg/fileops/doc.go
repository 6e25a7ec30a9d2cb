// Package fileops provides the primitive file and directory operations used
// by deploy and scratch, wrapped in bounded retry loops.
//
// Another process (an indexer, antivirus software, a lingering handle from a
// child process that just exited) may briefly hold a lock on a path we are
// creating, copying or deleting. Every operation here tolerates that by
// retrying, and every retry loop has a hard ceiling:
//
//   - deletes: exponential backoff from 5ms, doubling, capped at 100ms,
//     until 5s have elapsed (locking strategy only)
//   - directory creation and file copies: up to 4 attempts, 250ms apart
//
// The delete strategy is chosen once per Ops from the host platform.
// Windows gets the locking strategy; POSIX systems, where unlinking an open
// file succeeds, get the direct strategy which makes a single attempt and
// verifies the path is gone.
//
// When a ceiling is reached the last OS error is surfaced, wrapped in a
// coded error from pkg/errors.
package fileops
