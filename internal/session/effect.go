// pattern: Functional Core

package session

import (
	"devhub/internal/launch"
	"devhub/internal/project"
)

// Effect is work the session asks its host to perform. A nil Effect means none.
type Effect interface {
	isEffect()
}

// RefreshEffect asks for the projects to be probed under Generation.
// Root is set when the discovery root just changed.
type RefreshEffect struct {
	Generation uint64
	Projects   []project.Project
	Root       string
}

// OpenEditorEffect asks for Path to be opened in the editor, after which the
// session ends.
type OpenEditorEffect struct {
	Path string
}

// RunToolEffect asks for Tool to run in the foreground in Path. A refresh must
// follow whether or not the tool succeeds.
type RunToolEffect struct {
	Tool launch.Tool
	Path string
}

// CopyEffect asks for Text to be placed on the clipboard.
type CopyEffect struct {
	Text string
}

// QuitEffect ends the session.
type QuitEffect struct{}

func (RefreshEffect) isEffect()    {}
func (OpenEditorEffect) isEffect() {}
func (RunToolEffect) isEffect()    {}
func (CopyEffect) isEffect()       {}
func (QuitEffect) isEffect()       {}
