// pattern: Imperative Shell
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"devhub/internal/cli"
	"devhub/internal/config"
	"devhub/internal/gitstatus"
	"devhub/internal/launch"
	"devhub/internal/logging"
	"devhub/internal/project"
	"devhub/internal/registry"
	"devhub/internal/session"
	"devhub/internal/status"
	"devhub/internal/store"
	"devhub/internal/tui"
	"devhub/internal/watch"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.Getenv))
}

// run parses the global flags, resolves the configuration and dispatches to a
// CLI command or the TUI. It returns the process exit code.
func run(args []string, stdout, stderr io.Writer, getenv config.Getenv) int {
	flags := flag.NewFlagSet("devhub", flag.ContinueOnError)
	// Stop parsing flags after the first non-flag arg (the subcommand),
	// so that --help after a subcommand is handled by the subcommand.
	flags.SetInterspersed(false)
	flags.SetOutput(io.Discard)

	root := flags.String("root", "", "discover projects in the subdirectories of `dir`")
	mode := flags.String("mode", "", "project list `mode`: registry or discovery")
	configPath := flags.String("config", "", "config `file` (default: ~/.config/devhub/config.yaml)")
	showHelp := flags.BoolP("help", "h", false, "Show help")
	showVersion := flags.BoolP("version", "v", false, "Show version")

	// Help and version never touch the registry.
	helpApp := cli.BuildApp(version, nil, stdout, stderr, nil)
	helpApp.SetOptions(flags.FlagUsages())

	if err := flags.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		helpApp.PrintHelp(stderr)
		return 1
	}
	if *showHelp {
		helpApp.PrintHelp(stdout)
		return 0
	}
	if *showVersion {
		helpApp.PrintVersion(stdout)
		return 0
	}

	cfg, err := config.Resolve(*configPath, getenv, config.Overrides{Root: *root, Mode: *mode})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logManager, err := logging.NewManager(logging.Config{
		FilePath:   config.LogPath(getenv),
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Level:      cfg.LogLevel,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logging: %v\n", err)
		return 1
	}
	defer func() { _ = logManager.Close() }()

	configDir := config.Dir(getenv)
	reg := buildRegistry(cfg, configDir, logManager)

	cliLogger := logManager.For("cli")
	cliLogger.Info("command", "args", flags.Args(), "mode", cfg.Mode)
	app := cli.BuildApp(version, reg, stdout, stderr, cliLogger)
	app.SetOptions(flags.FlagUsages())
	launchTUI, code := app.Execute(flags.Args())
	if !launchTUI {
		return code
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(stderr, "Error: the interactive TUI needs a terminal; see devhub help for commands")
		return 1
	}

	if err := runTUI(cfg, reg, configDir, logManager); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// buildRegistry returns the registry for the configured mode.
func buildRegistry(cfg config.Config, configDir string, logs logging.LoggerProvider) registry.Registry {
	regLogger := logs.For("registry")
	storeLogger := logs.For("store")

	if cfg.Mode == project.ModeDiscovery {
		return registry.NewDiscovery(cfg.Root, func(root string) store.MetadataStore {
			return store.NewMetadataStore(root, storeLogger)
		}, registry.WithLogger(regLogger))
	}
	return registry.NewExplicit(store.NewProjectStore(configDir, storeLogger), registry.WithLogger(regLogger))
}

// watchTargets returns what to watch for changes to the project list: the
// discovery root's children, or the registry file.
func watchTargets(reg registry.Registry, configDir string) []watch.Target {
	if rooted, ok := reg.(registry.Rooted); ok {
		return []watch.Target{{Dir: rooted.Root(), Filter: watch.ChildDirs(rooted.Root())}}
	}
	return []watch.Target{{Dir: configDir, Filter: watch.File(store.RegistryPath(configDir))}}
}

// runTUI launches the interactive TUI and blocks until it exits.
func runTUI(cfg config.Config, reg registry.Registry, configDir string, logs *logging.Manager) error {
	appLogger := logs.For("app")
	appLogger.Info("application starting", "version", version, "mode", cfg.Mode, "root", cfg.Root)

	aggregator := status.New(
		gitstatus.NewProvider(cfg.ProbeTimeout, logs.For("git")),
		cfg.MaxConcurrency,
		logs.For("status"),
	)

	home, _ := os.UserHomeDir()
	sess := session.New(session.Deps{
		Registry:    reg,
		Generations: aggregator,
		Options: session.Options{
			HasEditor: cfg.Editor != "",
			HasAgent:  cfg.Agent != "",
			Home:      home,
			Root:      cfg.Root,
		},
		Logger: logs.For("session"),
	})

	var watcher *watch.Watcher
	if cfg.WatchEnabled() {
		w, err := watch.New(watchTargets(reg, configDir), watch.DefaultDebounce, logs.For("watch"))
		if err != nil {
			appLogger.Warn("filesystem watching disabled", "error", err)
		} else {
			watcher = w
			defer func() { _ = watcher.Close() }()
		}
	}

	model := tui.NewModel(tui.Deps{
		Session:    sess,
		Aggregator: aggregator,
		Editor:     launch.NewEditor(cfg.Editor),
		Tools: launch.Tools{
			Git:   cfg.GitTool,
			Agent: cfg.Agent,
			Shell: cfg.Shell,
		},
		Config: cfg,
		Logger: logs.For("tui"),
		OnRootChange: func(root string) {
			if watcher == nil {
				return
			}
			if err := watcher.Replace(watchTargets(reg, configDir)); err != nil {
				appLogger.Warn("failed to watch new root", "root", root, "error", err)
			}
		},
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if watcher != nil {
		go func() {
			err := watcher.Run(ctx, func() { p.Send(tui.FilesystemChangedMsg{}) })
			if err != nil && !errors.Is(err, context.Canceled) {
				appLogger.Error("watcher stopped", "error", err)
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		appLogger.Error("TUI error", "error", err)
		return err
	}
	appLogger.Info("application exiting")
	return nil
}
