// pattern: Imperative Shell

// Package launch starts external programs against a project directory.
//
// The editor is started detached and outlives devhub. Everything else is a
// foreground tool: the caller hands it the terminal and waits for it to exit.
package launch

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"
)

// Tool identifies a foreground program.
type Tool string

const (
	ToolGit   Tool = "git"
	ToolAgent Tool = "agent"
	ToolShell Tool = "shell"
)

// ErrNotConfigured is returned when no command is set for a tool.
var ErrNotConfigured = errors.New("command not configured")

// Editor opens projects in the user's editor without waiting for it.
type Editor struct {
	command string
	start   func(*exec.Cmd) error
}

// NewEditor creates an editor launcher for command, e.g. "code" or "zed -n".
func NewEditor(command string) *Editor {
	return &Editor{command: strings.TrimSpace(command), start: startDetached}
}

// Configured reports whether an editor command is set.
func (e *Editor) Configured() bool {
	return e != nil && e.command != ""
}

// Open starts the editor on path. It returns false without error when no
// editor is configured.
func (e *Editor) Open(path string) (bool, error) {
	if !e.Configured() {
		return false, nil
	}
	fields := strings.Fields(e.command)
	// #nosec G204 -- command comes from the user's own configuration
	cmd := exec.Command(fields[0], append(fields[1:], path)...)
	cmd.Dir = path
	if err := e.start(cmd); err != nil {
		return true, fmt.Errorf("start editor %s: %w", fields[0], err)
	}
	return true, nil
}

func startDetached(cmd *exec.Cmd) error {
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// Tools holds the command line of each foreground tool.
type Tools struct {
	Git   string
	Agent string
	Shell string
}

func (t Tools) commandFor(tool Tool) string {
	switch tool {
	case ToolGit:
		return t.Git
	case ToolAgent:
		return t.Agent
	case ToolShell:
		return t.Shell
	}
	return ""
}

// Configured reports whether tool has a command.
func (t Tools) Configured(tool Tool) bool {
	return strings.TrimSpace(t.commandFor(tool)) != ""
}

// Command builds the process for tool running in dir. The caller owns the
// terminal handoff; stdio is left unset so it can be attached.
func (t Tools) Command(tool Tool, dir string) (*exec.Cmd, error) {
	fields := strings.Fields(t.commandFor(tool))
	if len(fields) == 0 {
		return nil, fmt.Errorf("%s: %w", tool, ErrNotConfigured)
	}
	// #nosec G204 -- command comes from the user's own configuration
	cmd := exec.Command(fields[0], fields[1:]...)
	cmd.Dir = dir
	return cmd, nil
}

// CopyToClipboard writes text to the system clipboard.
func CopyToClipboard(text string) error {
	if clipboard.Unsupported {
		return errors.New("clipboard not available")
	}
	return clipboard.WriteAll(text)
}
