// pattern: Imperative Shell

package tui

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"devhub/internal/launch"
	"devhub/internal/session"
	"devhub/internal/status"
)

// refreshedMsg carries a collected status refresh back to the event loop.
type refreshedMsg struct {
	result status.Result
}

// toolFinishedMsg is sent when a foreground tool hands the terminal back.
type toolFinishedMsg struct {
	tool launch.Tool
	err  error
}

// editorOpenedMsg is sent after the editor was started.
type editorOpenedMsg struct {
	path string
	err  error
}

// copiedMsg is sent after a clipboard write.
type copiedMsg struct {
	text string
	err  error
}

// clearStatusMsg is sent after a timed delay to clear the status bar.
// seq identifies the message it was scheduled for.
type clearStatusMsg struct {
	seq uint64
}

// FilesystemChangedMsg is sent by the watcher goroutine through Program.Send.
type FilesystemChangedMsg struct{}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.session.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case refreshedMsg:
		return m.handle(session.Loaded{Result: msg.result})

	case FilesystemChangedMsg:
		return m.handle(session.FilesystemChanged{})

	case toolFinishedMsg:
		var exitErr *exec.ExitError
		if msg.err != nil && !errors.As(msg.err, &exitErr) {
			m.logger.Warn("tool failed", "tool", string(msg.tool), "error", msg.err)
			notice := m.notify(fmt.Sprintf("Cannot run %s: %v", msg.tool, msg.err))
			next, cmd := m.handle(session.Refresh{})
			return next, tea.Batch(notice, cmd)
		}
		return m.handle(session.Refresh{})

	case editorOpenedMsg:
		if msg.err != nil {
			m.logger.Warn("editor failed", "path", msg.path, "error", msg.err)
			return m, m.notify("Cannot open editor: " + msg.err.Error())
		}
		m.logger.Info("opened project in editor", "path", msg.path)
		m.quitting = true
		return m, tea.Quit

	case copiedMsg:
		if msg.err != nil {
			return m, m.notify("Cannot copy path: " + msg.err.Error())
		}
		return m, m.notify("Copied " + msg.text)

	case clearStatusMsg:
		m.session.ClearMessage(msg.seq)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey maps a key press to session events for the current mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.handle(session.Quit{})
	}

	if _, ok := m.session.Mode().(session.Normal); ok && key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	events := m.eventsForKey(msg)
	if len(events) == 0 {
		return m, nil
	}

	cmds := make([]tea.Cmd, 0, len(events))
	for _, ev := range events {
		var cmd tea.Cmd
		m, cmd = m.handle(ev)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) eventsForKey(msg tea.KeyMsg) []session.Event {
	switch m.session.Mode().(type) {
	case session.Normal:
		if ev := m.normalEvent(msg); ev != nil {
			return []session.Event{ev}
		}
	case session.Search:
		return m.searchEvents(msg)
	case session.Browse:
		if ev := m.browseEvent(msg); ev != nil {
			return []session.Event{ev}
		}
	case session.DeleteConfirm:
		if ev := m.deleteEvent(msg); ev != nil {
			return []session.Event{ev}
		}
	}
	return nil
}

func (m Model) normalEvent(msg tea.KeyMsg) session.Event {
	switch {
	case key.Matches(msg, m.keys.Up):
		return session.MoveSelection{Delta: -1}
	case key.Matches(msg, m.keys.Down):
		return session.MoveSelection{Delta: 1}
	case key.Matches(msg, m.keys.PageUp):
		return session.MoveSelection{Delta: -m.layout().ListRows()}
	case key.Matches(msg, m.keys.PageDown):
		return session.MoveSelection{Delta: m.layout().ListRows()}
	case key.Matches(msg, m.keys.Open):
		return session.OpenSelected{}
	case key.Matches(msg, m.keys.Search):
		return session.StartSearch{}
	case key.Matches(msg, m.keys.Browse):
		return session.StartBrowse{}
	case key.Matches(msg, m.keys.Git):
		return session.LaunchVCSTool{}
	case key.Matches(msg, m.keys.Agent):
		return session.LaunchAgent{}
	case key.Matches(msg, m.keys.Shell):
		return session.LaunchShell{}
	case key.Matches(msg, m.keys.Copy):
		return session.CopyPath{}
	case key.Matches(msg, m.keys.Delete):
		return session.StartDelete{}
	case key.Matches(msg, m.keys.Refresh):
		return session.Refresh{}
	case key.Matches(msg, m.keys.Quit):
		return session.Quit{}
	case key.Matches(msg, m.keys.Escape):
		return session.Escape{}
	}
	return nil
}

// searchEvents turns typed text into query edits. Every printable rune is part
// of the query, so only non-text keys are bindings here.
func (m Model) searchEvents(msg tea.KeyMsg) []session.Event {
	switch msg.Type {
	case tea.KeyEsc:
		return []session.Event{session.Escape{}}
	case tea.KeyEnter:
		return []session.Event{session.Confirm{}}
	case tea.KeyBackspace:
		return []session.Event{session.Backspace{}}
	case tea.KeyUp:
		return []session.Event{session.MoveSelection{Delta: -1}}
	case tea.KeyDown:
		return []session.Event{session.MoveSelection{Delta: 1}}
	case tea.KeySpace:
		return []session.Event{session.AppendChar{Char: ' '}}
	case tea.KeyRunes:
		if msg.Alt {
			return nil
		}
		events := make([]session.Event, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			events = append(events, session.AppendChar{Char: r})
		}
		return events
	}
	return nil
}

func (m Model) browseEvent(msg tea.KeyMsg) session.Event {
	switch {
	case key.Matches(msg, m.keys.Up):
		return session.MoveSelection{Delta: -1}
	case key.Matches(msg, m.keys.Down):
		return session.MoveSelection{Delta: 1}
	case key.Matches(msg, m.keys.PageUp):
		return session.MoveSelection{Delta: -m.layout().ExplorerRows()}
	case key.Matches(msg, m.keys.PageDown):
		return session.MoveSelection{Delta: m.layout().ExplorerRows()}
	case key.Matches(msg, m.keys.Parent):
		return session.NavigateUp{}
	case key.Matches(msg, m.keys.Into):
		return session.NavigateInto{}
	case key.Matches(msg, m.keys.Open):
		return session.Confirm{}
	case key.Matches(msg, m.keys.AddAll):
		return session.Confirm{Purpose: session.PurposeAddAll}
	case key.Matches(msg, m.keys.Escape):
		return session.Escape{}
	}
	return nil
}

func (m Model) deleteEvent(msg tea.KeyMsg) session.Event {
	switch {
	case key.Matches(msg, m.keys.RemoveOnly):
		return session.ConfirmRemoveOnly{}
	case key.Matches(msg, m.keys.RemoveFiles):
		return session.ConfirmRemoveAndFiles{}
	case key.Matches(msg, m.keys.Cancel):
		return session.Cancel{}
	}
	return nil
}

// handle feeds one event to the session and turns the resulting effect and any
// new status message into commands.
func (m Model) handle(ev session.Event) (Model, tea.Cmd) {
	seq := m.session.MessageSeq()
	eff := m.session.Handle(ev)

	if _, ok := eff.(session.QuitEffect); ok {
		m.quitting = true
		return m, tea.Quit
	}

	cmds := []tea.Cmd{m.runEffect(eff)}
	if next := m.session.MessageSeq(); next != seq {
		cmds = append(cmds, m.clearAfter(next))
	}
	return m, tea.Batch(cmds...)
}

// runEffect maps a session effect to a command. Effects that fail before a
// command exists report through the session message.
func (m Model) runEffect(eff session.Effect) tea.Cmd {
	switch e := eff.(type) {
	case nil:
		return nil

	case session.RefreshEffect:
		if e.Root != "" && m.onRootChange != nil {
			m.onRootChange(e.Root)
		}
		return m.collect(e)

	case session.OpenEditorEffect:
		editor := m.editor
		return func() tea.Msg {
			_, err := editor.Open(e.Path)
			return editorOpenedMsg{path: e.Path, err: err}
		}

	case session.RunToolEffect:
		c, err := m.tools.Command(e.Tool, e.Path)
		if err != nil {
			m.session.Notify(fmt.Sprintf("Cannot run %s: %v", e.Tool, err))
			return m.runEffect(m.session.Handle(session.Refresh{}))
		}
		m.logger.Info("running tool", "tool", string(e.Tool), "dir", e.Path)
		tool := e.Tool
		return m.execProcess(c, func(err error) tea.Msg {
			return toolFinishedMsg{tool: tool, err: err}
		})

	case session.CopyEffect:
		copyText := m.copyText
		return func() tea.Msg {
			return copiedMsg{text: e.Text, err: copyText(e.Text)}
		}
	}
	return nil
}

// collect probes a refresh off the event loop.
func (m Model) collect(e session.RefreshEffect) tea.Cmd {
	agg := m.aggregator
	return func() tea.Msg {
		return refreshedMsg{result: agg.Collect(context.Background(), e.Generation, e.Projects)}
	}
}

// notify shows a message that clears itself after the configured duration.
func (m Model) notify(text string) tea.Cmd {
	m.session.Notify(text)
	return m.clearAfter(m.session.MessageSeq())
}

func (m Model) clearAfter(seq uint64) tea.Cmd {
	return tea.Tick(m.messageDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// layout falls back to a standard terminal size until the first WindowSizeMsg.
func (m Model) layout() Layout {
	width, height := m.width, m.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return ComputeLayout(width, height, m.searchBarVisible(), m.confirmVisible())
}

func (m Model) searchBarVisible() bool {
	_, searching := m.session.Mode().(session.Search)
	return searching || m.session.Query() != ""
}

func (m Model) confirmVisible() bool {
	_, ok := m.session.Mode().(session.DeleteConfirm)
	return ok
}
