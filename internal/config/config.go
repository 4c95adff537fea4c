package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"devhub/internal/project"
)

const (
	appDir          = "devhub"
	configFileName  = "config.yaml"
	logFileName     = "devhub.log"
	defaultTheme    = "mocha"
	defaultGitTool  = "lazygit"
	defaultShell    = "/bin/sh"
	defaultLogLevel = "info"
)

// DefaultMessageDuration is how long transient status messages stay visible.
const DefaultMessageDuration = 2 * time.Second

// Config is resolved once at startup and passed to whatever needs it.
type Config struct {
	Theme           string        `yaml:"theme"`
	Mode            project.Mode  `yaml:"mode"`
	Root            string        `yaml:"root"`
	Editor          string        `yaml:"editor"`
	Agent           string        `yaml:"agent"`
	Shell           string        `yaml:"shell"`
	GitTool         string        `yaml:"git_tool"`
	LogLevel        string        `yaml:"log_level"`
	MessageDuration time.Duration `yaml:"message_duration"`
	MaxConcurrency  int           `yaml:"max_concurrency"`
	ProbeTimeout    time.Duration `yaml:"probe_timeout"`
	Watch           *bool         `yaml:"watch"`
}

// Getenv matches os.Getenv so tests can supply a fixed environment.
type Getenv func(key string) string

// Overrides are values taken from command-line flags. Empty fields are ignored.
type Overrides struct {
	Root string
	Mode string
}

func DefaultConfig() Config {
	return Config{
		Theme:           defaultTheme,
		GitTool:         defaultGitTool,
		LogLevel:        defaultLogLevel,
		MessageDuration: DefaultMessageDuration,
	}
}

// Resolve loads the config file at path (or the default location when path is
// empty) and layers the environment and flag overrides on top.
func Resolve(path string, getenv Getenv, overrides Overrides) (Config, error) {
	if path == "" {
		path = Path(getenv)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	cfg.ApplyEnv(getenv)
	cfg.ApplyOverrides(overrides)
	cfg.ResolveMode()
	cfg.Root = expandHome(cfg.Root, getenv)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func LoadFrom(configPath string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}

	if cfg.Theme == "" {
		cfg.Theme = defaultTheme
	}
	if cfg.GitTool == "" {
		cfg.GitTool = defaultGitTool
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.MessageDuration == 0 {
		cfg.MessageDuration = DefaultMessageDuration
	}

	return cfg, nil
}

// ApplyEnv layers the environment over the file. Generic variables only fill
// fields the file left empty; DEVHUB_* variables always win.
func (c *Config) ApplyEnv(getenv Getenv) {
	if c.Editor == "" {
		c.Editor = firstNonEmpty(getenv("EDITOR"), getenv("VISUAL"))
	}
	if c.Shell == "" {
		c.Shell = firstNonEmpty(getenv("SHELL"), defaultShell)
	}
	if v := strings.TrimSpace(getenv("DEVHUB_AGENT")); v != "" {
		c.Agent = v
	}
	if v := strings.TrimSpace(getenv("DEVHUB_ROOT")); v != "" {
		c.Root = v
	}
	if v := strings.TrimSpace(getenv("DEVHUB_MODE")); v != "" {
		c.Mode = project.Mode(v)
	}
}

// ApplyOverrides applies command-line flags.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Root != "" {
		c.Root = o.Root
	}
	if o.Mode != "" {
		c.Mode = project.Mode(o.Mode)
	}
}

// ResolveMode picks discovery when a root is set and no mode was requested.
func (c *Config) ResolveMode() {
	if c.Mode != "" {
		return
	}
	if c.Root != "" {
		c.Mode = project.ModeDiscovery
		return
	}
	c.Mode = project.ModeRegistry
}

// Validate checks the resolved configuration.
func (c *Config) Validate() error {
	if !c.Mode.Valid() {
		return fmt.Errorf("invalid mode %q: must be %q or %q", c.Mode, project.ModeRegistry, project.ModeDiscovery)
	}
	if c.Mode == project.ModeDiscovery && c.Root == "" {
		return fmt.Errorf("discovery mode requires a root (set root, DEVHUB_ROOT or --root)")
	}
	switch c.Theme {
	case "latte", "frappe", "macchiato", "mocha":
	default:
		return fmt.Errorf("invalid theme %q: must be latte, frappe, macchiato or mocha", c.Theme)
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must not be negative")
	}
	if c.MessageDuration < 0 || c.ProbeTimeout < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	return nil
}

// WatchEnabled reports whether filesystem watching is on. It defaults to true.
func (c *Config) WatchEnabled() bool {
	return c.Watch == nil || *c.Watch
}

// Dir returns the devhub config directory under XDG_CONFIG_HOME, falling back
// to ~/.config.
func Dir(getenv Getenv) string {
	if xdgConfig := getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, appDir)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", appDir)
	}

	return filepath.Join(home, ".config", appDir)
}

// Path returns the config file location.
func Path(getenv Getenv) string {
	return filepath.Join(Dir(getenv), configFileName)
}

// LogPath returns the log file location.
func LogPath(getenv Getenv) string {
	return filepath.Join(Dir(getenv), logFileName)
}

func expandHome(path string, getenv Getenv) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home := getenv("HOME")
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return path
		}
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
