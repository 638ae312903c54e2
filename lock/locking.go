// Package lock provides simple Flock based locking of history store
// directories so only one process writes them at a time.
package lock

import (
	"os"
	"path/filepath"
	"syscall"
)

// FileName is the lock file created inside a locked directory.
const FileName = ".history.lock"

// File is a held lock on an open lock file.
type File struct {
	file *os.File
}

// TryDir places a non-blocking exclusive lock on dir, creating dir and its
// lock file as needed.  Use IsResourceUnavailable on the returned error
// to find out if another process holds the lock.
func TryDir(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	fd, err := os.OpenFile(filepath.Join(dir, FileName), os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}
	if err := TryExclusive(fd); err != nil {
		fd.Close()
		return nil, err
	}

	return &File{file: fd}, nil
}

// Release drops the lock and closes the lock file.  The lock file is
// left on disk.
func (l *File) Release() error {
	if l.file == nil {
		return nil
	}
	err := Release(l.file)
	if cerr := l.file.Close(); err == nil {
		err = cerr
	}
	l.file = nil
	return err
}

// TryExclusive attempts to obtain an exclusive lock on the open file
// descriptor and returns an error if the lock could not be obtained
// immediately.
func TryExclusive(file *os.File) error {
	lock := syscall.LOCK_EX | syscall.LOCK_NB
	if err := syscall.Flock(int(file.Fd()), lock); err != nil {
		return err
	}
	return nil
}

// Release will release the currently held lock on the given open file
// descriptor.  Closing the file descriptor also releases it.
func Release(file *os.File) error {
	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_UN); err != nil {
		return err
	}
	return nil
}

// IsResourceUnavailable is used on the errors returned by TryDir and
// TryExclusive to determine if the error means the lock is held elsewhere.
func IsResourceUnavailable(err error) bool {
	if errno, ok := err.(syscall.Errno); ok {
		return errno == syscall.EAGAIN
	}

	return false
}
