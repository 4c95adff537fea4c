// pattern: Functional Core

package session

import (
	"path/filepath"

	"devhub/internal/registry"
)

// ListFunc lists the entries of a directory in display order.
type ListFunc func(path string) ([]registry.Entry, error)

// Explorer is the directory navigator shown in Browse mode.
type Explorer struct {
	path     string
	entries  []registry.Entry
	selected int
	list     ListFunc
	err      error
}

// NewExplorer opens the explorer at path.
func NewExplorer(path string, list ListFunc) *Explorer {
	e := &Explorer{list: list}
	e.load(filepath.Clean(path))
	return e
}

// Path returns the directory being shown.
func (e *Explorer) Path() string { return e.path }

// Entries returns the listed entries.
func (e *Explorer) Entries() []registry.Entry { return e.entries }

// Selected returns the cursor index.
func (e *Explorer) Selected() int { return e.selected }

// Err returns the error from the last listing, if any. The entries are empty then.
func (e *Explorer) Err() error { return e.err }

// Move shifts the cursor by delta, clamped to the entries.
func (e *Explorer) Move(delta int) {
	e.selected = clamp(e.selected+delta, len(e.entries))
}

// NavigateInto enters the directory under the cursor.
func (e *Explorer) NavigateInto() bool {
	entry, ok := e.selectedEntry()
	if !ok || !entry.IsDir {
		return false
	}
	e.load(filepath.Join(e.path, entry.Name))
	return true
}

// NavigateUp moves to the parent directory and puts the cursor on the
// directory just left. At the filesystem root it does nothing.
func (e *Explorer) NavigateUp() bool {
	parent := filepath.Dir(e.path)
	if parent == e.path {
		return false
	}
	child := filepath.Base(e.path)
	e.load(parent)
	for i, entry := range e.entries {
		if entry.Name == child {
			e.selected = i
			break
		}
	}
	return true
}

// SelectedPath returns the full path of the entry under the cursor.
func (e *Explorer) SelectedPath() (string, bool) {
	entry, ok := e.selectedEntry()
	if !ok {
		return "", false
	}
	return filepath.Join(e.path, entry.Name), true
}

// Target is the directory a confirmation applies to: the entry under the
// cursor, or the shown directory when it is empty.
func (e *Explorer) Target() string {
	if p, ok := e.SelectedPath(); ok {
		return p
	}
	return e.path
}

// Reload lists the current directory again, keeping the cursor in range.
func (e *Explorer) Reload() {
	selected := e.selected
	e.load(e.path)
	e.selected = clamp(selected, len(e.entries))
}

func (e *Explorer) load(path string) {
	e.path = path
	e.selected = 0
	e.entries, e.err = e.list(path)
	if e.err != nil {
		e.entries = nil
	}
}

func (e *Explorer) selectedEntry() (registry.Entry, bool) {
	if e.selected < 0 || e.selected >= len(e.entries) {
		return registry.Entry{}, false
	}
	return e.entries[e.selected], true
}

// clamp returns i limited to [0, n), or 0 when n is 0.
func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
