// pattern: Imperative Shell
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	flag "github.com/spf13/pflag"

	"devhub/internal/logging"
	"devhub/internal/project"
	"devhub/internal/registry"
)

// BuildApp creates the CLI application with every command bound to reg.
func BuildApp(version string, reg registry.Registry, stdout, stderr io.Writer, logger *logging.ScopedLogger) *App {
	if logger == nil {
		logger = logging.NopLogger()
	}
	app := NewApp(version, stdout, stderr)

	app.AddCommand(&Command{
		Name:    "add",
		Summary: "Add all projects inside a directory",
		Usage:   "devhub add <path>",
		Run: func(args []string) error {
			return runAdd(reg, stdout, logger, args)
		},
	})

	app.AddCommand(&Command{
		Name:    "list",
		Summary: "List all projects",
		Usage:   "devhub list",
		Run: func(args []string) error {
			return runList(reg, stdout)
		},
	})

	app.AddCommand(&Command{
		Name:    "remove",
		Summary: "Remove a project by ID or name",
		Usage:   "devhub remove <id>",
		Run: func(args []string) error {
			return runRemove(reg, stdout, logger, args)
		},
	})

	app.AddCommand(&Command{
		Name:    "help",
		Summary: "Show this help message",
		Usage:   "devhub help",
		Run: func(args []string) error {
			app.PrintHelp(stdout)
			return nil
		},
	})

	app.AddCommand(&Command{
		Name:    "version",
		Summary: "Show version",
		Usage:   "devhub version",
		Run: func(args []string) error {
			app.PrintVersion(stdout)
			return nil
		},
	})

	return app
}

func runAdd(reg registry.Registry, out io.Writer, logger *logging.ScopedLogger, args []string) error {
	const usage = "devhub add [--single] <path>"

	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	single := fs.Bool("single", false, "add the directory itself instead of its subdirectories")
	if err := fs.Parse(args); err != nil {
		return &UsageError{Message: err.Error(), Usage: usage}
	}
	path := fs.Arg(0)
	if path == "" {
		return &UsageError{Message: "Please provide a path", Usage: usage}
	}

	var result registry.AddResult
	if *single {
		p, err := reg.Add(path)
		switch {
		case errors.Is(err, project.ErrAlreadyExists):
			result.Skipped = []string{fmt.Sprintf("%s (already exists)", path)}
		case err != nil:
			return addError(reg, err)
		default:
			result.Added = []project.Project{p}
		}
	} else {
		var err error
		result, err = reg.AddAll(path)
		if err != nil {
			return addError(reg, err)
		}
	}
	logger.Info("cli add", "path", path, "single", *single, "added", len(result.Added), "skipped", len(result.Skipped))

	if len(result.Added) == 0 {
		fmt.Fprintln(out, "No new projects found.")
		printSkipped(out, result.Skipped)
		return nil
	}

	fmt.Fprintf(out, "Added %d project(s):\n\n", len(result.Added))
	for _, p := range result.Added {
		printProject(out, p)
	}
	printSkipped(out, result.Skipped)
	return nil
}

func addError(reg registry.Registry, err error) error {
	if !errors.Is(err, project.ErrUnsupported) {
		return err
	}
	if rooted, ok := reg.(registry.Rooted); ok {
		return fmt.Errorf("projects are discovered from %s; add is unavailable in discovery mode", rooted.Root())
	}
	return err
}

func runList(reg registry.Registry, out io.Writer) error {
	projects, err := reg.List()
	if err != nil {
		return err
	}

	if len(projects) == 0 {
		if rooted, ok := reg.(registry.Rooted); ok {
			fmt.Fprintf(out, "No project directories in %s.\n", rooted.Root())
			return nil
		}
		fmt.Fprintln(out, "No projects added yet.")
		fmt.Fprintln(out, "Add some with: devhub add <path>")
		return nil
	}

	fmt.Fprintf(out, "Projects:\n\n")
	for _, p := range projects {
		printProject(out, p)
	}
	return nil
}

func runRemove(reg registry.Registry, out io.Writer, logger *logging.ScopedLogger, args []string) error {
	if len(args) == 0 || args[0] == "" {
		return &UsageError{Message: "Please provide a project ID or name", Usage: "devhub remove <id|name>"}
	}
	idOrName := args[0]

	p, ok := reg.Find(idOrName)
	if !ok {
		return fmt.Errorf("Project not found: %s", idOrName)
	}
	if err := reg.Remove(p.ID); err != nil {
		return err
	}
	logger.Info("cli remove", "id", p.ID, "name", p.Name)

	if reg.Mode() == project.ModeDiscovery {
		fmt.Fprintf(out, "Cleared history for project: %s\n", displayName(p.Name))
		return nil
	}
	fmt.Fprintf(out, "Removed project: %s\n", displayName(p.Name))
	return nil
}

func printProject(out io.Writer, p project.Project) {
	fmt.Fprintf(out, "  %s\n", displayName(p.Name))
	fmt.Fprintf(out, "    Path: %s\n", displayName(p.Path))
	fmt.Fprintf(out, "    ID: %s\n", p.ID)
	fmt.Fprintln(out)
}

func printSkipped(out io.Writer, skipped []string) {
	if len(skipped) == 0 {
		return
	}
	fmt.Fprintf(out, "Skipped: %s\n", strings.Join(skipped, ", "))
}

// displayName strips terminal escape sequences from directory names.
func displayName(s string) string {
	return ansi.Strip(s)
}
