// pattern: Imperative Shell

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/tidwall/jsonc"
)

const (
	defaultDirPerms  = 0o755
	defaultFilePerms = 0o600
)

// ReadError reports a persisted file that exists but could not be read or parsed.
// Listing degrades to empty state; updates fail and leave the file alone.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports a failed save. The change that triggered it is not durable.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// readJSON decodes path into v. A missing file leaves v untouched and returns nil.
// Comments and trailing commas are tolerated so hand-edited files still load.
func readJSON(path string, v any) error {
	// #nosec G304 -- path is built from the resolved config directory and a constant filename
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &ReadError{Path: path, Err: err}
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), v); err != nil {
		return &ReadError{Path: path, Err: err}
	}
	return nil
}

// ErrNoChange is returned by an update function to skip the save.
// The update itself then reports success.
var ErrNoChange = errors.New("no change")

// withLock runs fn while holding the advisory lock file next to path. The lock
// serializes read-modify-write cycles across processes and store instances.
func withLock(path string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), defaultDirPerms); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("acquire lock: %w", err)}
	}
	defer func() { _ = lock.Unlock() }()
	return fn()
}

// updateJSON loads path into v, applies mutate and writes v back, all under the
// lock. A read failure aborts before mutate runs so an unreadable file is
// never overwritten.
func updateJSON(path string, v any, mutate func() error) error {
	return withLock(path, func() error {
		if err := readJSON(path, v); err != nil {
			return err
		}
		if err := mutate(); err != nil {
			if errors.Is(err, ErrNoChange) {
				return nil
			}
			return err
		}
		return writeFileAtomic(path, v)
	})
}

// writeJSON atomically replaces path with the JSON encoding of v under the lock.
func writeJSON(path string, v any) error {
	return withLock(path, func() error {
		return writeFileAtomic(path, v)
	})
}

// writeFileAtomic replaces path with the indented JSON encoding of v through a
// temp file and rename. The caller holds the lock.
func writeFileAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return &WriteError{Path: path, Err: err}
	}
	if err := tmp.Chmod(defaultFilePerms); err != nil {
		_ = tmp.Close()
		cleanup()
		return &WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
