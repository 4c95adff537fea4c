// pattern: Functional Core

package session

import "devhub/internal/status"

// Event is an abstract input. The presentation layer maps keys to events.
type Event interface {
	isEvent()
}

type (
	// MoveSelection moves the list or explorer cursor by Delta rows.
	MoveSelection struct{ Delta int }
	// OpenSelected opens the selected project in the editor and ends the session.
	OpenSelected struct{}
	// LaunchVCSTool runs the git UI in the selected project.
	LaunchVCSTool struct{}
	// LaunchAgent runs the coding agent in the selected project.
	LaunchAgent struct{}
	// LaunchShell runs a shell in the selected project.
	LaunchShell struct{}
	// CopyPath copies the selected project's path.
	CopyPath struct{}
	// StartSearch enters search mode with an empty query.
	StartSearch struct{}
	// StartBrowse opens the directory explorer.
	StartBrowse struct{ Purpose Purpose }
	// StartDelete asks to confirm removing the selected project.
	StartDelete struct{}
	// Refresh reloads the project list and its git status.
	Refresh struct{}
	// Escape leaves the current mode or clears the filter.
	Escape struct{}
	// AppendChar adds a character to the search query.
	AppendChar struct{ Char rune }
	// Backspace removes the last character of the search query.
	Backspace struct{}
	// Confirm accepts the search or applies the browse purpose. A non-default
	// Purpose overrides the one the explorer was opened with.
	Confirm struct{ Purpose Purpose }
	// NavigateInto enters the directory under the explorer cursor.
	NavigateInto struct{}
	// NavigateUp moves the explorer to the parent directory.
	NavigateUp struct{}
	// ConfirmRemoveOnly removes the pending project from the list.
	ConfirmRemoveOnly struct{}
	// ConfirmRemoveAndFiles deletes the pending project's directory, then removes it.
	ConfirmRemoveAndFiles struct{}
	// Cancel discards a pending confirmation.
	Cancel struct{}
	// Quit ends the session from any mode.
	Quit struct{}
	// Loaded delivers a joined status refresh.
	Loaded struct{ Result status.Result }
	// FilesystemChanged reports that the watched directories changed on disk.
	FilesystemChanged struct{}
)

func (MoveSelection) isEvent()         {}
func (OpenSelected) isEvent()          {}
func (LaunchVCSTool) isEvent()         {}
func (LaunchAgent) isEvent()           {}
func (LaunchShell) isEvent()           {}
func (CopyPath) isEvent()              {}
func (StartSearch) isEvent()           {}
func (StartBrowse) isEvent()           {}
func (StartDelete) isEvent()           {}
func (Refresh) isEvent()               {}
func (Escape) isEvent()                {}
func (AppendChar) isEvent()            {}
func (Backspace) isEvent()             {}
func (Confirm) isEvent()               {}
func (NavigateInto) isEvent()          {}
func (NavigateUp) isEvent()            {}
func (ConfirmRemoveOnly) isEvent()     {}
func (ConfirmRemoveAndFiles) isEvent() {}
func (Cancel) isEvent()                {}
func (Quit) isEvent()                  {}
func (Loaded) isEvent()                {}
func (FilesystemChanged) isEvent()     {}
