// pattern: Functional Core
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Command represents a single CLI command with its metadata and handler.
type Command struct {
	Name    string
	Summary string
	Usage   string
	Run     func(args []string) error
}

// UsageError is returned by a command invoked with missing or bad arguments.
// Execute prints the message followed by the usage line.
type UsageError struct {
	Message string
	Usage   string
}

func (e *UsageError) Error() string { return e.Message }

// App is the top-level CLI application.
type App struct {
	commands map[string]*Command
	order    []string
	version  string
	options  string
	stdout   io.Writer
	stderr   io.Writer
}

// NewApp creates a CLI application writing to stdout and stderr.
func NewApp(version string, stdout, stderr io.Writer) *App {
	return &App{
		commands: make(map[string]*Command),
		version:  version,
		stdout:   stdout,
		stderr:   stderr,
	}
}

// AddCommand registers a command. Help lists commands in registration order.
func (a *App) AddCommand(cmd *Command) {
	if _, ok := a.commands[cmd.Name]; !ok {
		a.order = append(a.order, cmd.Name)
	}
	a.commands[cmd.Name] = cmd
}

// SetOptions sets the pre-rendered global flag usages shown in help.
func (a *App) SetOptions(usages string) {
	a.options = usages
}

// Execute dispatches the CLI arguments to the appropriate command.
// It reports whether the TUI should be launched and the process exit code.
func (a *App) Execute(args []string) (launchTUI bool, exitCode int) {
	if len(args) == 0 {
		return true, 0
	}

	cmd, ok := a.commands[args[0]]
	if !ok {
		fmt.Fprintf(a.stderr, "Unknown command: %s\n", args[0])
		a.PrintHelp(a.stdout)
		return false, 1
	}

	for _, arg := range args[1:] {
		if arg == "--help" || arg == "-h" {
			fmt.Fprintf(a.stdout, "Usage: %s\n", cmd.Usage)
			return false, 0
		}
	}

	if err := cmd.Run(args[1:]); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		var usage *UsageError
		if errors.As(err, &usage) && usage.Usage != "" {
			fmt.Fprintf(a.stderr, "Usage: %s\n", usage.Usage)
		}
		return false, 1
	}
	return false, 0
}

// PrintHelp prints the top-level help text.
func (a *App) PrintHelp(w io.Writer) {
	fmt.Fprintf(w, "\ndevhub - A TUI project manager\n\n")
	fmt.Fprintf(w, "Usage:\n")

	width := len("devhub")
	for _, name := range a.order {
		width = max(width, len(a.commands[name].Usage))
	}
	fmt.Fprintf(w, "  %-*s  %s\n", width, "devhub", "Open interactive TUI")
	for _, name := range a.order {
		cmd := a.commands[name]
		fmt.Fprintf(w, "  %-*s  %s\n", width, cmd.Usage, cmd.Summary)
	}

	fmt.Fprintf(w, "\nOptions:\n")
	if a.options != "" {
		fmt.Fprint(w, a.options)
		if !strings.HasSuffix(a.options, "\n") {
			fmt.Fprintln(w)
		}
	} else {
		fmt.Fprintf(w, "  -h, --help     Show help\n")
		fmt.Fprintf(w, "  -v, --version  Show version\n")
	}

	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  devhub add ~/projects    Add all project directories inside ~/projects\n")
	fmt.Fprintf(w, "  devhub add .             Add all projects in current directory\n")
	fmt.Fprintf(w, "  devhub --root ~/src      Browse the directories of ~/src\n")
}

// PrintVersion prints the version line.
func (a *App) PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "devhub v%s\n", a.version)
}
