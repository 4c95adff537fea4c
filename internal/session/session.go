// pattern: Imperative Shell

// Package session is the input state machine behind the project list.
//
// A Session is owned by a single event loop. Handle applies one event, mutates
// the session, and returns the Effect the host must carry out. Derived views
// (the filtered list, the selected project) are recomputed on demand.
package session

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"devhub/internal/launch"
	"devhub/internal/logging"
	"devhub/internal/project"
	"devhub/internal/registry"
	"devhub/internal/status"
)

const (
	msgNoEditor = "Set $EDITOR to open projects"
	msgNotRepo  = "Not a git repository"
	msgNoAgent  = "Set $DEVHUB_AGENT to your coding agent command"
)

// Generations issues refresh generations and tells which one is current.
type Generations interface {
	Begin() uint64
	IsCurrent(gen uint64) bool
}

// Options are the resolved settings the session needs.
type Options struct {
	HasEditor bool
	HasAgent  bool
	// Home is where the explorer opens when there is no root.
	Home string
	// Root is where the explorer opens in registry mode, if set.
	Root string
}

// Deps are the collaborators of a Session.
type Deps struct {
	Registry    registry.Registry
	Generations Generations
	ListDir     ListFunc
	RemoveAll   func(path string) error
	Options     Options
	Logger      *logging.ScopedLogger
}

// Session holds all mutable state of an interactive run.
type Session struct {
	reg       registry.Registry
	gens      Generations
	listDir   ListFunc
	removeAll func(string) error
	opts      Options
	logger    *logging.ScopedLogger

	mode       Mode
	projects   []project.WithStatus
	selected   int
	query      string
	loading    bool
	message    string
	messageSeq uint64
}

// New creates a session in Normal mode, loading until the first result arrives.
func New(deps Deps) *Session {
	if deps.ListDir == nil {
		deps.ListDir = registry.ListDirectories
	}
	if deps.RemoveAll == nil {
		deps.RemoveAll = os.RemoveAll
	}
	if deps.Logger == nil {
		deps.Logger = logging.NopLogger()
	}
	return &Session{
		reg:       deps.Registry,
		gens:      deps.Generations,
		listDir:   deps.ListDir,
		removeAll: deps.RemoveAll,
		opts:      deps.Options,
		logger:    deps.Logger,
		mode:      Normal{},
		loading:   true,
	}
}

// Start returns the initial refresh.
func (s *Session) Start() Effect {
	return s.refresh("")
}

// Mode returns the current mode.
func (s *Session) Mode() Mode { return s.mode }

// Query returns the search text.
func (s *Session) Query() string { return s.query }

// Loading reports whether no refresh has been applied yet.
func (s *Session) Loading() bool { return s.loading }

// Selection returns the index into Filtered.
func (s *Session) Selection() int { return s.selected }

// Projects returns the full list from the latest applied refresh.
func (s *Session) Projects() []project.WithStatus { return s.projects }

// Registry returns the registry the session mutates.
func (s *Session) Registry() registry.Registry { return s.reg }

// Message returns the transient status message, if any.
func (s *Session) Message() string { return s.message }

// MessageSeq identifies the current message so a delayed clear does not
// remove a newer one.
func (s *Session) MessageSeq() uint64 { return s.messageSeq }

// Notify shows a transient message.
func (s *Session) Notify(msg string) {
	s.message = msg
	s.messageSeq++
}

// ClearMessage removes the message if it is still the one identified by seq.
func (s *Session) ClearMessage(seq uint64) {
	if seq == s.messageSeq {
		s.message = ""
	}
}

// Filtered returns the projects matching the query in their original order.
func (s *Session) Filtered() []project.WithStatus {
	if s.query == "" {
		return s.projects
	}
	out := make([]project.WithStatus, 0, len(s.projects))
	for _, p := range s.projects {
		if p.Matches(s.query) {
			out = append(out, p)
		}
	}
	return out
}

// Selected returns the project under the cursor.
func (s *Session) Selected() (project.WithStatus, bool) {
	list := s.Filtered()
	if s.selected < 0 || s.selected >= len(list) {
		return project.WithStatus{}, false
	}
	return list[s.selected], true
}

// Handle applies ev and returns the effect to perform, or nil.
func (s *Session) Handle(ev Event) Effect {
	switch e := ev.(type) {
	case Quit:
		return QuitEffect{}
	case Loaded:
		s.apply(e.Result)
		return nil
	case FilesystemChanged:
		if b, ok := s.mode.(Browse); ok {
			b.Explorer.Reload()
		}
		return s.refresh("")
	}

	switch m := s.mode.(type) {
	case Normal:
		return s.handleNormal(ev)
	case Search:
		return s.handleSearch(ev)
	case Browse:
		return s.handleBrowse(m, ev)
	case DeleteConfirm:
		return s.handleDelete(m, ev)
	}
	return nil
}

func (s *Session) handleNormal(ev Event) Effect {
	switch e := ev.(type) {
	case MoveSelection:
		s.move(e.Delta)
	case OpenSelected:
		return s.openSelected()
	case LaunchVCSTool:
		return s.launch(launch.ToolGit)
	case LaunchAgent:
		return s.launch(launch.ToolAgent)
	case LaunchShell:
		return s.launch(launch.ToolShell)
	case CopyPath:
		if p, ok := s.Selected(); ok {
			return CopyEffect{Text: p.Path}
		}
	case StartSearch:
		s.query = ""
		s.selected = 0
		s.mode = Search{}
	case StartBrowse:
		s.startBrowse(e.Purpose)
	case StartDelete:
		if p, ok := s.Selected(); ok {
			s.mode = DeleteConfirm{ID: p.ID, Name: p.Name, Path: p.Path}
		}
	case Refresh:
		return s.refresh("")
	case Escape:
		if s.query != "" {
			s.query = ""
			s.selected = 0
		}
	}
	return nil
}

func (s *Session) handleSearch(ev Event) Effect {
	switch e := ev.(type) {
	case AppendChar:
		s.query += string(e.Char)
		s.selected = 0
	case Backspace:
		if r := []rune(s.query); len(r) > 0 {
			s.query = string(r[:len(r)-1])
		}
		s.selected = 0
	case MoveSelection:
		s.move(e.Delta)
	case Confirm:
		s.mode = Normal{}
	case Escape, Cancel:
		s.query = ""
		s.selected = 0
		s.mode = Normal{}
	}
	return nil
}

func (s *Session) handleBrowse(m Browse, ev Event) Effect {
	switch e := ev.(type) {
	case MoveSelection:
		m.Explorer.Move(e.Delta)
	case NavigateInto:
		m.Explorer.NavigateInto()
	case NavigateUp:
		m.Explorer.NavigateUp()
	case Confirm:
		purpose := m.Purpose
		if e.Purpose != PurposeDefault {
			purpose = e.Purpose
		}
		s.mode = Normal{}
		return s.applyBrowse(purpose, m.Explorer.Target())
	case Escape, Cancel:
		s.mode = Normal{}
	}
	return nil
}

func (s *Session) handleDelete(m DeleteConfirm, ev Event) Effect {
	switch ev.(type) {
	case ConfirmRemoveOnly:
		s.mode = Normal{}
		return s.remove(m, false)
	case ConfirmRemoveAndFiles:
		s.mode = Normal{}
		return s.remove(m, true)
	case Cancel, Escape:
		s.mode = Normal{}
	}
	return nil
}

func (s *Session) openSelected() Effect {
	p, ok := s.Selected()
	if !ok {
		return nil
	}
	if !s.opts.HasEditor {
		s.Notify(msgNoEditor)
		return nil
	}
	s.markAccessed(p.Project)
	return OpenEditorEffect{Path: p.Path}
}

func (s *Session) launch(tool launch.Tool) Effect {
	p, ok := s.Selected()
	if !ok {
		return nil
	}
	switch tool {
	case launch.ToolGit:
		if !p.Git.IsRepo {
			s.Notify(msgNotRepo)
			return nil
		}
	case launch.ToolAgent:
		if !s.opts.HasAgent {
			s.Notify(msgNoAgent)
			return nil
		}
	}
	s.markAccessed(p.Project)
	return RunToolEffect{Tool: tool, Path: p.Path}
}

func (s *Session) startBrowse(purpose Purpose) {
	rooted, isRooted := s.reg.(registry.Rooted)
	if purpose == PurposeDefault {
		purpose = PurposeAddSingle
		if isRooted {
			purpose = PurposeSetRoot
		}
	}

	start := s.opts.Home
	switch {
	case isRooted && rooted.Root() != "":
		start = rooted.Root()
	case s.opts.Root != "":
		start = s.opts.Root
	}
	s.mode = Browse{Explorer: NewExplorer(start, s.listDir), Purpose: purpose}
}

func (s *Session) applyBrowse(purpose Purpose, path string) Effect {
	switch purpose {
	case PurposeSetRoot:
		rooted, ok := s.reg.(registry.Rooted)
		if !ok {
			s.Notify("Set a root with --root or DEVHUB_ROOT to browse roots")
			return nil
		}
		if err := rooted.SetRoot(path); err != nil {
			s.fail("Cannot use root", err)
			return nil
		}
		s.query = ""
		s.selected = 0
		s.Notify("Root: " + rooted.Root())
		return s.refresh(rooted.Root())

	case PurposeAddSingle:
		p, err := s.reg.Add(path)
		if err != nil {
			s.fail("Cannot add project", err)
			return nil
		}
		s.Notify("Added " + p.Name)
		return s.refresh("")

	case PurposeAddAll:
		res, err := s.reg.AddAll(path)
		if err != nil {
			s.fail("Cannot add projects", err)
			return nil
		}
		msg := fmt.Sprintf("Added %d project(s)", len(res.Added))
		if len(res.Skipped) > 0 {
			msg += fmt.Sprintf(", skipped %d", len(res.Skipped))
		}
		s.Notify(msg)
		return s.refresh("")
	}
	return nil
}

func (s *Session) remove(target DeleteConfirm, withFiles bool) Effect {
	var notes []string
	if withFiles {
		if err := s.removeAll(target.Path); err != nil {
			s.logger.Warn("failed to delete project directory", "path", target.Path, "error", err)
			notes = append(notes, fmt.Sprintf("could not delete %s: %v", target.Path, err))
		}
	}

	err := s.reg.Remove(target.ID)
	// A discovery project whose directory was just deleted has nothing left to remove.
	if withFiles && errors.Is(err, project.ErrNotFound) {
		err = nil
	}
	if err != nil {
		s.fail("Cannot remove "+target.Name, err)
		return s.refresh("")
	}

	s.dropProject(target.ID)
	verb := "Removed "
	if withFiles && len(notes) == 0 {
		verb = "Deleted "
	}
	msg := verb + target.Name
	if len(notes) > 0 {
		msg += "; " + strings.Join(notes, "; ")
	}
	s.Notify(msg)
	s.logger.Info("project removed", "id", target.ID, "files", withFiles)
	return s.refresh("")
}

// dropProject removes a project from the in-memory list so the view shrinks
// before the refresh lands.
func (s *Session) dropProject(id string) {
	kept := make([]project.WithStatus, 0, len(s.projects))
	for _, p := range s.projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.projects = kept
	s.clampSelection()
}

func (s *Session) refresh(root string) Effect {
	projects, err := s.reg.List()
	if err != nil {
		s.logger.Warn("listing projects failed", "error", err)
		projects = nil
	}
	gen := s.gens.Begin()
	s.logger.Debug("refresh requested", "generation", gen, "projects", len(projects))
	return RefreshEffect{Generation: gen, Projects: projects, Root: root}
}

func (s *Session) apply(res status.Result) {
	if !s.gens.IsCurrent(res.Generation) {
		s.logger.Debug("dropping stale refresh", "generation", res.Generation)
		return
	}
	prev, hadPrev := s.Selected()
	s.projects = res.Projects
	s.loading = false
	if hadPrev && s.selectID(prev.ID) {
		return
	}
	s.clampSelection()
}

// selectID moves the selection to the project with id if it is still listed.
func (s *Session) selectID(id string) bool {
	for i, p := range s.Filtered() {
		if p.ID == id {
			s.selected = i
			return true
		}
	}
	return false
}

func (s *Session) markAccessed(p project.Project) {
	if err := s.reg.MarkAccessed(p.ID); err != nil {
		s.logger.Warn("failed to record access", "id", p.ID, "error", err)
		s.fail("Cannot save access time", err)
	}
}

func (s *Session) fail(prefix string, err error) {
	s.logger.Warn(prefix, "error", err)
	s.Notify(prefix + ": " + err.Error())
}

func (s *Session) move(delta int) {
	s.selected = clamp(s.selected+delta, len(s.Filtered()))
}

func (s *Session) clampSelection() {
	s.selected = clamp(s.selected, len(s.Filtered()))
}
