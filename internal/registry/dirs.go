// pattern: Imperative Shell

package registry

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is one item of a directory listing.
type Entry struct {
	Name  string
	IsDir bool
}

// Hidden reports whether the entry name starts with a dot.
func (e Entry) Hidden() bool {
	return isHidden(e.Name)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// ListDirectories returns the subdirectories of path, hidden entries last and
// otherwise in case-sensitive lexical order. Symlinks to directories count as
// directories.
func ListDirectories(path string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !isDirEntry(path, de) {
			continue
		}
		entries = append(entries, Entry{Name: de.Name(), IsDir: true})
	}
	SortEntries(entries)
	return entries, nil
}

// SortEntries orders entries hidden-last, then by name.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		hi, hj := entries[i].Hidden(), entries[j].Hidden()
		if hi != hj {
			return hj
		}
		return entries[i].Name < entries[j].Name
	})
}

func isDirEntry(parent string, de fs.DirEntry) bool {
	if de.IsDir() {
		return true
	}
	if de.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(parent, de.Name()))
	return err == nil && info.IsDir()
}

// visibleSubdirs returns the non-hidden subdirectory names of root.
func visibleSubdirs(root string) ([]string, error) {
	entries, err := ListDirectories(root)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Hidden() {
			names = append(names, e.Name)
		}
	}
	return names, nil
}

// statDir resolves path to an absolute directory.
// It fails with project.ErrNotFound or project.ErrNotADirectory.
func statDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return abs, notFoundPath(abs)
		}
		return abs, err
	}
	if !info.IsDir() {
		return abs, notADirectory(abs)
	}
	return abs, nil
}
