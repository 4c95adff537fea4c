// pattern: Imperative Shell

package registry

import (
	"fmt"
	"time"

	"devhub/internal/logging"
	"devhub/internal/project"
)

// Registry builds the authoritative project list and applies mutations to it.
type Registry interface {
	List() ([]project.Project, error)
	Add(path string) (project.Project, error)
	AddAll(root string) (AddResult, error)
	Remove(id string) error
	Find(idOrName string) (project.Project, bool)
	MarkAccessed(id string) error
	Mode() project.Mode
}

// Rooted is implemented by registries whose list comes from a root directory.
type Rooted interface {
	Root() string
	SetRoot(path string) error
}

// AddResult reports a batch add. Duplicates are skipped, not failed.
type AddResult struct {
	Added   []project.Project
	Skipped []string
}

// Option configures a registry.
type Option func(*options)

type options struct {
	now    func() time.Time
	logger *logging.ScopedLogger
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *logging.ScopedLogger) Option {
	return func(o *options) { o.logger = logger }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, logger: logging.NopLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func notFoundPath(path string) error {
	return fmt.Errorf("path does not exist: %s: %w", path, project.ErrNotFound)
}

func notADirectory(path string) error {
	return fmt.Errorf("%s: %w", path, project.ErrNotADirectory)
}

func notFoundProject(id string) error {
	return fmt.Errorf("project %s: %w", id, project.ErrNotFound)
}

func skippedEntry(name string) string {
	return name + " (already exists)"
}

func alreadyExists(name string) error {
	return fmt.Errorf("project %s: %w", name, project.ErrAlreadyExists)
}

var (
	_ Registry = (*Discovery)(nil)
	_ Rooted   = (*Discovery)(nil)
	_ Registry = (*Explicit)(nil)
)
