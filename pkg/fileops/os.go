package fileops

import (
	"io/fs"
	"os"
	"time"
)

type osProvider interface {
	Stat(name string) (os.FileInfo, error)
	Lstat(name string) (os.FileInfo, error)
	Remove(name string) error
	MkdirAll(path string, perm os.FileMode) error
	Open(name string) (*os.File, error)
	OpenFile(name string, flag int, perm os.FileMode) (*os.File, error)
	Chmod(name string, mode os.FileMode) error
	Chtimes(name string, atime time.Time, mtime time.Time) error
	ReadDir(name string) ([]fs.DirEntry, error)
}

// OS implements the filesystem calls used by Ops with the os package.
type OS struct{}

func (*OS) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (*OS) Lstat(name string) (os.FileInfo, error) {
	return os.Lstat(name)
}

func (*OS) Remove(name string) error {
	return os.Remove(name)
}

func (*OS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (*OS) Open(name string) (*os.File, error) {
	return os.Open(name)
}

func (*OS) OpenFile(name string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(name, flag, perm)
}

func (*OS) Chmod(name string, mode os.FileMode) error {
	return os.Chmod(name, mode)
}

func (*OS) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return os.Chtimes(name, atime, mtime)
}

func (*OS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}
