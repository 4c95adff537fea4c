// pattern: Imperative Shell

package registry

import (
	"fmt"
	"path/filepath"
	"sync"

	"devhub/internal/project"
	"devhub/internal/store"
)

// StoreOpener returns the metadata store for a discovery root.
type StoreOpener func(root string) store.MetadataStore

// Discovery derives projects from the subdirectories of a root directory.
// Only last-accessed metadata is persisted, keyed by directory name.
type Discovery struct {
	mu    sync.Mutex
	root  string
	open  StoreOpener
	store store.MetadataStore
	opts  options
}

// NewDiscovery creates a discovery registry scanning root.
func NewDiscovery(root string, open StoreOpener, opts ...Option) *Discovery {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Discovery{
		root:  root,
		open:  open,
		store: open(root),
		opts:  buildOptions(opts),
	}
}

// Mode returns project.ModeDiscovery.
func (d *Discovery) Mode() project.Mode { return project.ModeDiscovery }

// Root returns the scanned directory.
func (d *Discovery) Root() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.root
}

// SetRoot switches the scanned directory and its metadata store.
func (d *Discovery) SetRoot(path string) error {
	abs, err := statDir(path)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.root = abs
	d.store = d.open(abs)
	d.opts.logger.Info("discovery root changed", "root", abs)
	return nil
}

// List returns one project per visible subdirectory joined with its metadata,
// pruning metadata for directories that no longer exist. A missing root yields
// an empty list.
func (d *Discovery) List() ([]project.Project, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	names, err := visibleSubdirs(d.root)
	if err != nil {
		d.opts.logger.Debug("root not listable", "root", d.root, "error", err)
		return []project.Project{}, nil
	}

	meta := d.loadLocked()
	projects := make([]project.Project, 0, len(names))
	for _, name := range names {
		projects = append(projects, d.projectLocked(name, meta))
	}

	if _, err := d.reconcileLocked(names, meta); err != nil {
		d.opts.logger.Warn("failed to prune stale metadata", "root", d.root, "error", err)
	}
	return projects, nil
}

// Reconcile drops metadata for names that are no longer subdirectories of the
// root and saves only when something was dropped. It reports whether a save
// happened.
func (d *Discovery) Reconcile() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	names, err := visibleSubdirs(d.root)
	if err != nil {
		return false, nil
	}
	return d.reconcileLocked(names, d.loadLocked())
}

func (d *Discovery) reconcileLocked(names []string, meta map[string]project.Metadata) (bool, error) {
	present := make(map[string]struct{}, len(names))
	for _, name := range names {
		present[name] = struct{}{}
	}
	if !hasStale(meta, present) {
		return false, nil
	}

	var stale []string
	err := d.store.UpdateMetadata(func(current map[string]project.Metadata) error {
		stale = stale[:0]
		for name := range current {
			if _, ok := present[name]; !ok {
				stale = append(stale, name)
			}
		}
		if len(stale) == 0 {
			return store.ErrNoChange
		}
		for _, name := range stale {
			delete(current, name)
		}
		return nil
	})
	if err != nil || len(stale) == 0 {
		return false, err
	}
	d.opts.logger.Info("pruned stale metadata", "root", d.root, "names", stale)
	return true, nil
}

func hasStale(meta map[string]project.Metadata, present map[string]struct{}) bool {
	for name := range meta {
		if _, ok := present[name]; !ok {
			return true
		}
	}
	return false
}

// Add is not supported: discovery projects come from the filesystem.
func (d *Discovery) Add(path string) (project.Project, error) {
	return project.Project{}, fmt.Errorf("add %s: %w", path, project.ErrUnsupported)
}

// AddAll is not supported: discovery projects come from the filesystem.
func (d *Discovery) AddAll(root string) (AddResult, error) {
	return AddResult{}, fmt.Errorf("add all %s: %w", root, project.ErrUnsupported)
}

// Remove forgets the metadata of name. The directory itself is untouched, so a
// project whose directory still exists reappears with no history.
func (d *Discovery) Remove(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	subdir := d.isSubdirLocked(name)
	return d.store.UpdateMetadata(func(meta map[string]project.Metadata) error {
		if _, known := meta[name]; !known {
			if !subdir {
				return notFoundProject(name)
			}
			return store.ErrNoChange
		}
		delete(meta, name)
		return nil
	})
}

// Find returns the project for a current subdirectory name.
func (d *Discovery) Find(idOrName string) (project.Project, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isSubdirLocked(idOrName) {
		return project.Project{}, false
	}
	return d.projectLocked(idOrName, d.loadLocked()), true
}

// MarkAccessed records now as the last-accessed time of name.
func (d *Discovery) MarkAccessed(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isSubdirLocked(name) {
		return notFoundProject(name)
	}
	now := d.opts.now().UTC()
	return d.store.UpdateMetadata(func(meta map[string]project.Metadata) error {
		m := meta[name]
		m.LastAccessedAt = &now
		meta[name] = m
		return nil
	})
}

// loadLocked reads metadata for display. Read errors degrade to empty metadata.
func (d *Discovery) loadLocked() map[string]project.Metadata {
	meta, err := d.store.LoadMetadata()
	if err != nil {
		d.opts.logger.Warn("using empty metadata", "root", d.root, "error", err)
	}
	if meta == nil {
		meta = map[string]project.Metadata{}
	}
	return meta
}

func (d *Discovery) projectLocked(name string, meta map[string]project.Metadata) project.Project {
	return project.Project{
		ID:             name,
		Name:           name,
		Path:           filepath.Join(d.root, name),
		LastAccessedAt: meta[name].LastAccessedAt,
	}
}

func (d *Discovery) isSubdirLocked(name string) bool {
	if name == "" || isHidden(name) || filepath.Base(name) != name {
		return false
	}
	_, err := statDir(filepath.Join(d.root, name))
	return err == nil
}
