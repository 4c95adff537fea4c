// pattern: Functional Core

package project

import (
	"strings"
	"time"
)

// Mode selects how the project list is built.
type Mode string

const (
	// ModeRegistry keeps an explicit list of added projects with generated ids.
	ModeRegistry Mode = "registry"
	// ModeDiscovery derives the list from the subdirectories of a root directory.
	ModeDiscovery Mode = "discovery"
)

// Valid reports whether m names a known mode.
func (m Mode) Valid() bool {
	return m == ModeRegistry || m == ModeDiscovery
}

// Project is a locally checked-out directory tracked by devhub.
type Project struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Path           string     `json:"path"`
	AddedAt        time.Time  `json:"addedAt"`
	LastAccessedAt *time.Time `json:"lastAccessedAt,omitempty"`
}

// AccessedUnix returns the last-accessed time in nanoseconds, 0 if never accessed.
func (p Project) AccessedUnix() int64 {
	if p.LastAccessedAt == nil {
		return 0
	}
	return p.LastAccessedAt.UnixNano()
}

// Matches reports whether query is a case-insensitive substring of the name or path.
// An empty query matches everything.
func (p Project) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Path), q)
}

// Metadata is the per-project data persisted in discovery mode.
type Metadata struct {
	LastAccessedAt *time.Time `json:"lastAccessedAt,omitempty"`
}

// GitStatus is the version-control state of a project directory.
// When IsRepo is false all other fields are nil.
type GitStatus struct {
	IsRepo bool    `json:"isRepo"`
	Branch *string `json:"branch,omitempty"`
	Dirty  *bool   `json:"dirty,omitempty"`
	Ahead  *int    `json:"ahead,omitempty"`
	Behind *int    `json:"behind,omitempty"`
}

// NotRepo is the status reported for anything that is not a git work tree,
// including directories whose probe failed.
func NotRepo() GitStatus {
	return GitStatus{}
}

// RepoStatus builds the status of a git work tree.
func RepoStatus(branch string, dirty bool, ahead, behind int) GitStatus {
	return GitStatus{
		IsRepo: true,
		Branch: &branch,
		Dirty:  &dirty,
		Ahead:  &ahead,
		Behind: &behind,
	}
}

// Normalize clears every optional field when the status is not a repository.
func (g GitStatus) Normalize() GitStatus {
	if !g.IsRepo {
		return NotRepo()
	}
	return g
}

// IsDirty reports whether the work tree has uncommitted changes.
func (g GitStatus) IsDirty() bool {
	return g.IsRepo && g.Dirty != nil && *g.Dirty
}

// BranchName returns the current branch or "" when unknown.
func (g GitStatus) BranchName() string {
	if !g.IsRepo || g.Branch == nil {
		return ""
	}
	return *g.Branch
}

// AheadBehind returns the commit counts relative to upstream, zero when unknown.
func (g GitStatus) AheadBehind() (ahead, behind int) {
	if !g.IsRepo {
		return 0, 0
	}
	if g.Ahead != nil {
		ahead = *g.Ahead
	}
	if g.Behind != nil {
		behind = *g.Behind
	}
	return ahead, behind
}

// WithStatus joins a project with its latest git status. It is never persisted.
type WithStatus struct {
	Project
	Git GitStatus
}
