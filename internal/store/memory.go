// pattern: Imperative Shell

package store

import (
	"errors"
	"sync"

	"devhub/internal/project"
)

// MemoryMetadataStore is an in-memory MetadataStore for tests.
// Writes counts successful saves and updates.
type MemoryMetadataStore struct {
	mu      sync.Mutex
	meta    map[string]project.Metadata
	Writes  int
	LoadErr error
	SaveErr error
}

// NewMemoryMetadataStore returns a store seeded with a copy of meta.
func NewMemoryMetadataStore(meta map[string]project.Metadata) *MemoryMetadataStore {
	return &MemoryMetadataStore{meta: copyMetadata(meta)}
}

func (s *MemoryMetadataStore) Path() string { return ":memory:" }

func (s *MemoryMetadataStore) LoadMetadata() (map[string]project.Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return map[string]project.Metadata{}, s.LoadErr
	}
	return copyMetadata(s.meta), nil
}

func (s *MemoryMetadataStore) SaveMetadata(meta map[string]project.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.meta = copyMetadata(meta)
	s.Writes++
	return nil
}

func (s *MemoryMetadataStore) UpdateMetadata(fn func(meta map[string]project.Metadata) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return s.LoadErr
	}
	meta := copyMetadata(s.meta)
	if err := fn(meta); err != nil {
		if errors.Is(err, ErrNoChange) {
			return nil
		}
		return err
	}
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.meta = meta
	s.Writes++
	return nil
}

// Snapshot returns a copy of the stored metadata.
func (s *MemoryMetadataStore) Snapshot() map[string]project.Metadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMetadata(s.meta)
}

func copyMetadata(in map[string]project.Metadata) map[string]project.Metadata {
	out := make(map[string]project.Metadata, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// MemoryProjectStore is an in-memory ProjectStore for tests.
// Writes counts successful saves and updates.
type MemoryProjectStore struct {
	mu       sync.Mutex
	projects []project.Project
	Writes   int
	LoadErr  error
	SaveErr  error
}

// NewMemoryProjectStore returns a store seeded with a copy of projects.
func NewMemoryProjectStore(projects ...project.Project) *MemoryProjectStore {
	return &MemoryProjectStore{projects: append([]project.Project(nil), projects...)}
}

func (s *MemoryProjectStore) Path() string { return ":memory:" }

func (s *MemoryProjectStore) LoadProjects() ([]project.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return []project.Project{}, s.LoadErr
	}
	return append([]project.Project{}, s.projects...), nil
}

func (s *MemoryProjectStore) SaveProjects(projects []project.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.projects = append([]project.Project{}, projects...)
	s.Writes++
	return nil
}

func (s *MemoryProjectStore) UpdateProjects(fn func(projects []project.Project) ([]project.Project, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return s.LoadErr
	}
	updated, err := fn(append([]project.Project{}, s.projects...))
	if err != nil {
		if errors.Is(err, ErrNoChange) {
			return nil
		}
		return err
	}
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.projects = append([]project.Project{}, updated...)
	s.Writes++
	return nil
}

// Snapshot returns a copy of the stored list.
func (s *MemoryProjectStore) Snapshot() []project.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]project.Project{}, s.projects...)
}
