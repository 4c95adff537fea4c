// pattern: Imperative Shell

package store

import (
	"errors"
	"path/filepath"

	"devhub/internal/logging"
	"devhub/internal/project"
)

const (
	// DiscoveryDirName is the per-root directory holding discovery metadata.
	DiscoveryDirName = ".devhub"
	// DiscoveryFileName stores name-keyed metadata inside DiscoveryDirName.
	DiscoveryFileName = "config.json"
	// RegistryFileName stores the explicit project list inside the config directory.
	RegistryFileName = "projects.json"
)

// MetadataStore persists discovery-mode metadata keyed by directory name.
type MetadataStore interface {
	LoadMetadata() (map[string]project.Metadata, error)
	SaveMetadata(meta map[string]project.Metadata) error
	// UpdateMetadata loads the current metadata, lets fn edit it in place and
	// saves it, holding the store lock throughout. fn returning ErrNoChange
	// skips the save; any other error is returned unchanged.
	UpdateMetadata(fn func(meta map[string]project.Metadata) error) error
	Path() string
}

// ProjectStore persists the registry-mode project list.
type ProjectStore interface {
	LoadProjects() ([]project.Project, error)
	SaveProjects(projects []project.Project) error
	// UpdateProjects loads the current list, passes it to fn and saves what fn
	// returns, holding the store lock throughout. fn returning ErrNoChange
	// skips the save; any other error is returned unchanged.
	UpdateProjects(fn func(projects []project.Project) ([]project.Project, error)) error
	Path() string
}

// discoveryFile is the on-disk schema for discovery mode.
type discoveryFile struct {
	Projects map[string]project.Metadata `json:"projects"`
}

// registryFile is the on-disk schema for registry mode.
type registryFile struct {
	Projects []project.Project `json:"projects"`
}

// DiscoveryPath returns the metadata file for a discovery root.
func DiscoveryPath(root string) string {
	return filepath.Join(root, DiscoveryDirName, DiscoveryFileName)
}

// RegistryPath returns the project list file inside a config directory.
func RegistryPath(configDir string) string {
	return filepath.Join(configDir, RegistryFileName)
}

// JSONMetadataStore is a MetadataStore backed by <root>/.devhub/config.json.
type JSONMetadataStore struct {
	path   string
	logger *logging.ScopedLogger
}

// NewMetadataStore opens the metadata store for a discovery root.
func NewMetadataStore(root string, logger *logging.ScopedLogger) *JSONMetadataStore {
	return &JSONMetadataStore{path: DiscoveryPath(root), logger: logger}
}

// Path returns the backing file.
func (s *JSONMetadataStore) Path() string { return s.path }

// LoadMetadata returns the persisted metadata. On a ReadError the returned map
// is empty and usable.
func (s *JSONMetadataStore) LoadMetadata() (map[string]project.Metadata, error) {
	var data discoveryFile
	if err := readJSON(s.path, &data); err != nil {
		s.logger.Warn("discarding unreadable metadata", "path", s.path, "error", err)
		return map[string]project.Metadata{}, err
	}
	if data.Projects == nil {
		data.Projects = map[string]project.Metadata{}
	}
	return data.Projects, nil
}

// SaveMetadata writes the metadata map.
func (s *JSONMetadataStore) SaveMetadata(meta map[string]project.Metadata) error {
	if meta == nil {
		meta = map[string]project.Metadata{}
	}
	if err := writeJSON(s.path, discoveryFile{Projects: meta}); err != nil {
		s.logger.Error("failed to save metadata", "path", s.path, "error", err)
		return err
	}
	s.logger.Debug("saved metadata", "path", s.path, "entries", len(meta))
	return nil
}

// UpdateMetadata applies fn to the metadata under the store lock. An unreadable
// file fails with a ReadError and is left untouched.
func (s *JSONMetadataStore) UpdateMetadata(fn func(meta map[string]project.Metadata) error) error {
	var data discoveryFile
	err := updateJSON(s.path, &data, func() error {
		if data.Projects == nil {
			data.Projects = map[string]project.Metadata{}
		}
		return fn(data.Projects)
	})
	if isStoreError(err) {
		s.logger.Warn("metadata update failed", "path", s.path, "error", err)
	}
	return err
}

// JSONProjectStore is a ProjectStore backed by <config dir>/projects.json.
type JSONProjectStore struct {
	path   string
	logger *logging.ScopedLogger
}

// NewProjectStore opens the registry store inside configDir.
func NewProjectStore(configDir string, logger *logging.ScopedLogger) *JSONProjectStore {
	return &JSONProjectStore{path: RegistryPath(configDir), logger: logger}
}

// Path returns the backing file.
func (s *JSONProjectStore) Path() string { return s.path }

// LoadProjects returns the persisted list. On a ReadError the returned slice
// is empty and usable.
func (s *JSONProjectStore) LoadProjects() ([]project.Project, error) {
	var data registryFile
	if err := readJSON(s.path, &data); err != nil {
		s.logger.Warn("discarding unreadable project list", "path", s.path, "error", err)
		return []project.Project{}, err
	}
	if data.Projects == nil {
		data.Projects = []project.Project{}
	}
	return data.Projects, nil
}

// SaveProjects writes the project list.
func (s *JSONProjectStore) SaveProjects(projects []project.Project) error {
	if projects == nil {
		projects = []project.Project{}
	}
	if err := writeJSON(s.path, registryFile{Projects: projects}); err != nil {
		s.logger.Error("failed to save projects", "path", s.path, "error", err)
		return err
	}
	s.logger.Debug("saved projects", "path", s.path, "count", len(projects))
	return nil
}

// UpdateProjects applies fn to the project list under the store lock. An
// unreadable file fails with a ReadError and is left untouched.
func (s *JSONProjectStore) UpdateProjects(fn func(projects []project.Project) ([]project.Project, error)) error {
	var data registryFile
	err := updateJSON(s.path, &data, func() error {
		if data.Projects == nil {
			data.Projects = []project.Project{}
		}
		updated, err := fn(data.Projects)
		if err != nil {
			return err
		}
		if updated == nil {
			updated = []project.Project{}
		}
		data.Projects = updated
		return nil
	})
	if err != nil {
		if isStoreError(err) {
			s.logger.Warn("project list update failed", "path", s.path, "error", err)
		}
		return err
	}
	s.logger.Debug("updated projects", "path", s.path, "count", len(data.Projects))
	return nil
}

// isStoreError reports whether err came from the file itself rather than from
// an update function.
func isStoreError(err error) bool {
	var readErr *ReadError
	var writeErr *WriteError
	return errors.As(err, &readErr) || errors.As(err, &writeErr)
}
