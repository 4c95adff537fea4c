package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding of the project list. Search mode reads raw runes
// and only uses the bindings that cannot be typed into a query.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	Open    key.Binding
	Search  key.Binding
	Browse  key.Binding
	Git     key.Binding
	Agent   key.Binding
	Shell   key.Binding
	Copy    key.Binding
	Delete  key.Binding
	Refresh key.Binding
	Quit    key.Binding
	Escape  key.Binding
	Help    key.Binding

	// Explorer
	Into   key.Binding
	Parent key.Binding
	AddAll key.Binding

	// Delete confirmation
	RemoveOnly  key.Binding
	RemoveFiles key.Binding
	Cancel      key.Binding

	// Search
	Backspace key.Binding
	Accept    key.Binding

	ForceQuit key.Binding
}

// DefaultKeyMap is vim-style navigation alongside the arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "page down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "Open"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "Search"),
	),
	Browse: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "Browse"),
	),
	Git: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "Git"),
	),
	Agent: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "Agent"),
	),
	Shell: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "Term"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "Copy path"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "x"),
		key.WithHelp("d", "Delete"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "Refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "Quit"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "Clear"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "More"),
	),
	Into: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "Open"),
	),
	Parent: key.NewBinding(
		key.WithKeys("h", "left", "backspace"),
		key.WithHelp("h/←", "Back"),
	),
	AddAll: key.NewBinding(
		key.WithKeys("A"),
		key.WithHelp("A", "Add all"),
	),
	RemoveOnly: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "Remove from list"),
	),
	RemoveFiles: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("Shift+D", "Delete from disk"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc", "n"),
		key.WithHelp("Esc", "Cancel"),
	),
	Backspace: key.NewBinding(
		key.WithKeys("backspace"),
	),
	Accept: key.NewBinding(
		key.WithKeys("enter"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
	),
}

// ShortHelp returns the hints shown in the status bar of the list view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Search, k.Browse, k.Git, k.Agent, k.Shell, k.Refresh, k.Quit, k.Help}
}

// FullHelp returns every list binding grouped by purpose.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Open, k.Git, k.Agent, k.Shell, k.Copy},
		{k.Search, k.Browse, k.Delete, k.Refresh, k.Escape, k.Quit, k.Help},
	}
}
