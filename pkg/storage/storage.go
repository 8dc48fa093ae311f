// Package storage reads conversion inputs and writes conversion outputs.
// Outputs are written to a temporary file next to the destination and renamed
// into place, so a failed conversion never leaves a partial file behind.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/segmentio/ksuid"
	"go.uber.org/multierr"
)

var (
	// ErrIO is matched by every error returned from this package
	ErrIO = errors.New("io error")
	// ErrOutputExists is returned when an output file exists and overwrite
	// was not requested.
	ErrOutputExists = errors.New("output already exists")
)

// IOError records a failed file operation
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%v: %s %s: %v", ErrIO, e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}

// FileStorage reads and writes whole files
type FileStorage struct {
	overwrite bool
	perm      fs.FileMode
}

// NewFileStorage returns a FileStorage. When overwrite is false, Write refuses
// to replace an existing file.
func NewFileStorage(overwrite bool) *FileStorage {
	return &FileStorage{overwrite: overwrite, perm: 0644}
}

// Read returns the whole content of path
func (s *FileStorage) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return data, nil
}

// Check reports whether path may be written. It is called before any work is
// done so that a refused output fails fast.
func (s *FileStorage) Check(path string) error {
	if s.overwrite {
		return nil
	}
	if _, err := os.Lstat(path); err == nil {
		return &IOError{Op: "create", Path: path, Err: ErrOutputExists}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return &IOError{Op: "stat", Path: path, Err: err}
	}
	return nil
}

// Write stores data at path atomically
func (s *FileStorage) Write(path string, data []byte) (err error) {
	if err := s.Check(path); err != nil {
		return err
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+"."+ksuid.New().String()+".tmp")
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				err = multierr.Append(err, &IOError{Op: "remove", Path: tmpName, Err: rmErr})
			}
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return multierr.Combine(&IOError{Op: "write", Path: path, Err: err}, tmp.Close())
	}
	if err := tmp.Sync(); err != nil {
		return multierr.Combine(&IOError{Op: "sync", Path: path, Err: err}, tmp.Close())
	}
	if err := tmp.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, s.perm); err != nil {
		return &IOError{Op: "chmod", Path: path, Err: err}
	}

	// Re-check so an output created while we were writing is not clobbered
	if err := s.Check(path); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}
