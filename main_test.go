package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"devhub/internal/config"
	"devhub/internal/logging"
	"devhub/internal/project"
	"devhub/internal/registry"
	"devhub/internal/store"
)

type runResult struct {
	code   int
	stdout string
	stderr string
}

// runWithEnv runs the CLI with a private config directory.
func runWithEnv(t *testing.T, env map[string]string, args ...string) runResult {
	t.Helper()
	if _, ok := env["XDG_CONFIG_HOME"]; !ok {
		env["XDG_CONFIG_HOME"] = t.TempDir()
	}
	getenv := func(key string) string { return env[key] }

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr, getenv)
	return runResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestRun_HelpAndVersionFlags(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-h"}, "devhub - A TUI project manager"},
		{[]string{"--help"}, "--root dir"},
		{[]string{"-v"}, "devhub vdev\n"},
		{[]string{"--version"}, "devhub vdev\n"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			res := runWithEnv(t, map[string]string{}, tt.args...)
			if res.code != 0 {
				t.Fatalf("exit code = %d, stderr = %q", res.code, res.stderr)
			}
			if !strings.Contains(res.stdout, tt.want) {
				t.Errorf("stdout = %q, want it to contain %q", res.stdout, tt.want)
			}
		})
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	res := runWithEnv(t, map[string]string{}, "--bogus")

	if res.code != 1 {
		t.Errorf("exit code = %d, want 1", res.code)
	}
	if !strings.HasPrefix(res.stderr, "Error: unknown flag: --bogus") {
		t.Errorf("stderr = %q", res.stderr)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	res := runWithEnv(t, map[string]string{}, "frobnicate")

	if res.code != 1 {
		t.Errorf("exit code = %d, want 1", res.code)
	}
	if res.stderr != "Unknown command: frobnicate\n" {
		t.Errorf("stderr = %q", res.stderr)
	}
	if !strings.Contains(res.stdout, "Usage:") {
		t.Errorf("stdout should carry the help text, got %q", res.stdout)
	}
}

func TestRun_InvalidMode(t *testing.T) {
	res := runWithEnv(t, map[string]string{}, "--mode", "sideways", "list")

	if res.code != 1 {
		t.Errorf("exit code = %d, want 1", res.code)
	}
	if !strings.Contains(res.stderr, `invalid mode "sideways"`) {
		t.Errorf("stderr = %q", res.stderr)
	}
}

func TestRun_AddThenListPersistsRegistry(t *testing.T) {
	configHome := t.TempDir()
	src := t.TempDir()
	for _, name := range []string{"api", "web"} {
		if err := os.Mkdir(filepath.Join(src, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	env := map[string]string{"XDG_CONFIG_HOME": configHome}

	res := runWithEnv(t, env, "add", src)
	if res.code != 0 {
		t.Fatalf("add exit code = %d, stderr = %q", res.code, res.stderr)
	}
	if !strings.Contains(res.stdout, "Added 2 project(s):") {
		t.Errorf("add stdout = %q", res.stdout)
	}

	if _, err := os.Stat(store.RegistryPath(filepath.Join(configHome, "devhub"))); err != nil {
		t.Errorf("registry file not written: %v", err)
	}

	res = runWithEnv(t, env, "list")
	if res.code != 0 {
		t.Fatalf("list exit code = %d, stderr = %q", res.code, res.stderr)
	}
	for _, want := range []string{"Projects:", "  api\n", "  web\n"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("list stdout missing %q:\n%s", want, res.stdout)
		}
	}

	res = runWithEnv(t, env, "remove", "web")
	if res.code != 0 || res.stdout != "Removed project: web\n" {
		t.Errorf("remove = (%d, %q, %q)", res.code, res.stdout, res.stderr)
	}
}

func TestRun_RootFlagSelectsDiscovery(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "tool"), 0o755); err != nil {
		t.Fatal(err)
	}

	res := runWithEnv(t, map[string]string{}, "--root", root, "list")
	if res.code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", res.code, res.stderr)
	}
	if !strings.Contains(res.stdout, "  tool\n") {
		t.Errorf("stdout = %q", res.stdout)
	}

	res = runWithEnv(t, map[string]string{"DEVHUB_ROOT": root}, "add", root)
	if res.code != 1 || !strings.Contains(res.stderr, "discovery mode") {
		t.Errorf("add in discovery mode = (%d, %q)", res.code, res.stderr)
	}
}

func TestRun_WritesLogFile(t *testing.T) {
	configHome := t.TempDir()

	res := runWithEnv(t, map[string]string{"XDG_CONFIG_HOME": configHome}, "list")
	if res.code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", res.code, res.stderr)
	}

	data, err := os.ReadFile(filepath.Join(configHome, "devhub", "devhub.log"))
	if err != nil {
		t.Fatalf("log file was not created: %v", err)
	}
	if !strings.Contains(string(data), "command") || !strings.Contains(string(data), "list") {
		t.Errorf("log file does not record the command: %q", data)
	}
}

func TestBuildRegistry(t *testing.T) {
	logs := logging.NewTestLogManager()

	t.Run("registry mode", func(t *testing.T) {
		reg := buildRegistry(testConfig(project.ModeRegistry, ""), t.TempDir(), logs)
		if _, ok := reg.(*registry.Explicit); !ok {
			t.Errorf("buildRegistry() = %T, want *registry.Explicit", reg)
		}
	})

	t.Run("discovery mode", func(t *testing.T) {
		root := t.TempDir()
		reg := buildRegistry(testConfig(project.ModeDiscovery, root), t.TempDir(), logs)
		rooted, ok := reg.(registry.Rooted)
		if !ok {
			t.Fatalf("buildRegistry() = %T, want a rooted registry", reg)
		}
		if rooted.Root() != root {
			t.Errorf("Root() = %q, want %q", rooted.Root(), root)
		}
	})
}

func TestWatchTargets(t *testing.T) {
	logs := logging.NewTestLogManager()
	configDir := t.TempDir()

	explicit := buildRegistry(testConfig(project.ModeRegistry, ""), configDir, logs)
	targets := watchTargets(explicit, configDir)
	if len(targets) != 1 || targets[0].Dir != configDir {
		t.Errorf("registry targets = %+v, want the config dir", targets)
	}

	root := t.TempDir()
	discovery := buildRegistry(testConfig(project.ModeDiscovery, root), configDir, logs)
	targets = watchTargets(discovery, configDir)
	if len(targets) != 1 || targets[0].Dir != root {
		t.Errorf("discovery targets = %+v, want the root", targets)
	}
}

func testConfig(mode project.Mode, root string) config.Config {
	cfg := config.DefaultConfig()
	cfg.Mode = mode
	cfg.Root = root
	return cfg
}
