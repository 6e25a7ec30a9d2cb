//go:build !unix && !windows

package fileops

import (
	"os"
	"time"
)

const canStampCreation = false

func isLockError(err error) bool {
	return os.IsPermission(err)
}

func creationTime(string, os.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}

func setCreationTime(string, time.Time) error {
	return nil
}
