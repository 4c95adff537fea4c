// pattern: Imperative Shell

package registry

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"

	"devhub/internal/project"
	"devhub/internal/store"
)

// idLength is the number of hex characters kept from a generated UUID.
const idLength = 8

// Explicit keeps a persisted list of projects added one by one.
// Every mutation is a locked read-modify-write on the store.
type Explicit struct {
	store store.ProjectStore
	opts  options
	newID func() string
}

// NewExplicit creates a registry backed by s.
func NewExplicit(s store.ProjectStore, opts ...Option) *Explicit {
	return &Explicit{
		store: s,
		opts:  buildOptions(opts),
		newID: shortID,
	}
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:idLength]
}

// Mode returns project.ModeRegistry.
func (r *Explicit) Mode() project.Mode { return project.ModeRegistry }

// List returns the persisted list in stored order. An unreadable store lists
// as empty.
func (r *Explicit) List() ([]project.Project, error) {
	return r.load(), nil
}

// Add registers the directory at path. The list is re-read and saved under the
// store lock, so concurrent writers in other processes are not lost.
func (r *Explicit) Add(path string) (project.Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return project.Project{}, err
	}

	var added project.Project
	err = r.store.UpdateProjects(func(projects []project.Project) ([]project.Project, error) {
		if existing, ok := findByPath(projects, abs); ok {
			return nil, alreadyExists(existing.Name)
		}
		if _, err := statDir(abs); err != nil {
			return nil, err
		}
		added = r.newProject(abs, projects)
		return append(projects, added), nil
	})
	if err != nil {
		return project.Project{}, err
	}
	r.opts.logger.Info("added project", "id", added.ID, "path", added.Path)
	return added, nil
}

// AddAll registers every visible subdirectory of root, skipping ones already
// present. The list is saved once, and only if something was added.
func (r *Explicit) AddAll(root string) (AddResult, error) {
	abs, err := statDir(root)
	if err != nil {
		return AddResult{}, err
	}
	names, err := visibleSubdirs(abs)
	if err != nil {
		return AddResult{}, err
	}

	var result AddResult
	err = r.store.UpdateProjects(func(projects []project.Project) ([]project.Project, error) {
		result = AddResult{}
		for _, name := range names {
			path := filepath.Join(abs, name)
			if _, ok := findByPath(projects, path); ok {
				result.Skipped = append(result.Skipped, skippedEntry(name))
				continue
			}
			p := r.newProject(path, projects)
			projects = append(projects, p)
			result.Added = append(result.Added, p)
		}
		if len(result.Added) == 0 {
			return nil, store.ErrNoChange
		}
		return projects, nil
	})
	if err != nil {
		return AddResult{}, err
	}
	if len(result.Added) > 0 {
		r.opts.logger.Info("added projects", "root", abs, "added", len(result.Added), "skipped", len(result.Skipped))
	}
	return result, nil
}

// Remove deletes the project with the given id.
func (r *Explicit) Remove(id string) error {
	var removed project.Project
	err := r.store.UpdateProjects(func(projects []project.Project) ([]project.Project, error) {
		for i, p := range projects {
			if p.ID == id {
				removed = p
				return slices.Delete(projects, i, i+1), nil
			}
		}
		return nil, notFoundProject(id)
	})
	if err != nil {
		return err
	}
	r.opts.logger.Info("removed project", "id", id, "path", removed.Path)
	return nil
}

// Find looks a project up by id, then by name.
func (r *Explicit) Find(idOrName string) (project.Project, bool) {
	projects := r.load()
	for _, p := range projects {
		if p.ID == idOrName {
			return p, true
		}
	}
	for _, p := range projects {
		if p.Name == idOrName {
			return p, true
		}
	}
	return project.Project{}, false
}

// MarkAccessed records now as the last-accessed time of the project.
func (r *Explicit) MarkAccessed(id string) error {
	return r.store.UpdateProjects(func(projects []project.Project) ([]project.Project, error) {
		for i := range projects {
			if projects[i].ID == id {
				now := r.opts.now().UTC()
				projects[i].LastAccessedAt = &now
				return projects, nil
			}
		}
		return nil, notFoundProject(id)
	})
}

// load reads the list for display. Read errors degrade to an empty list.
func (r *Explicit) load() []project.Project {
	projects, err := r.store.LoadProjects()
	if err != nil {
		r.opts.logger.Warn("using empty project list", "path", r.store.Path(), "error", err)
	}
	if projects == nil {
		projects = []project.Project{}
	}
	return projects
}

// newProject builds a project with an id unused in existing.
func (r *Explicit) newProject(path string, existing []project.Project) project.Project {
	used := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		used[p.ID] = struct{}{}
	}
	id := r.newID()
	for {
		if _, taken := used[id]; !taken {
			break
		}
		id = r.newID()
	}
	return project.Project{
		ID:      id,
		Name:    filepath.Base(path),
		Path:    path,
		AddedAt: r.opts.now().UTC(),
	}
}

func findByPath(projects []project.Project, path string) (project.Project, bool) {
	for _, p := range projects {
		if p.Path == path {
			return p, true
		}
	}
	return project.Project{}, false
}
