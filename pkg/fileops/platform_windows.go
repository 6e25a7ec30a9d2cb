//go:build windows

package fileops

import (
	stderrors "errors"
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/windows"
)

const canStampCreation = true

func isLockError(err error) bool {
	return os.IsPermission(err) ||
		stderrors.Is(err, windows.ERROR_SHARING_VIOLATION) ||
		stderrors.Is(err, windows.ERROR_LOCK_VIOLATION)
}

func creationTime(_ string, info os.FileInfo) (time.Time, bool) {
	attr, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok || attr == nil {
		return time.Time{}, false
	}
	return time.Unix(0, attr.CreationTime.Nanoseconds()), true
}

func setCreationTime(path string, t time.Time) error {
	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	h, err := windows.CreateFile(name, windows.FILE_WRITE_ATTRIBUTES, windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil, windows.OPEN_EXISTING, windows.FILE_FLAG_BACKUP_SEMANTICS, 0)
	if err != nil {
		return err
	}
	defer func() { _ = windows.CloseHandle(h) }()

	ft := windows.NsecToFiletime(t.UnixNano())
	return windows.SetFileTime(h, &ft, nil, nil)
}
