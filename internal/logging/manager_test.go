// pattern: Imperative Shell

package logging

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestFileManager(t *testing.T, level string) (*Manager, string) {
	t.Helper()
	logFile := filepath.Join(t.TempDir(), "logs", "devhub.log")

	mgr, err := NewManager(Config{
		FilePath:   logFile,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
		Level:      level,
	})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr, logFile
}

func TestNewManager_RequiresFilePath(t *testing.T) {
	if _, err := NewManager(Config{}); err == nil {
		t.Fatal("expected error for empty FilePath")
	}
}

func TestNewManager_CreatesLogDirectory(t *testing.T) {
	_, logFile := newTestFileManager(t, "info")

	if _, err := os.Stat(filepath.Dir(logFile)); err != nil {
		t.Fatalf("log directory not created: %v", err)
	}
}

func TestManager_For(t *testing.T) {
	mgr, _ := newTestFileManager(t, "debug")

	logger := mgr.For("registry")
	if logger == nil {
		t.Fatal("For() returned nil")
	}
	if logger.Scope() != "registry" {
		t.Errorf("Scope() = %q, want %q", logger.Scope(), "registry")
	}

	// Same scope should return same logger (cached)
	if mgr.For("registry") != logger {
		t.Error("For() should return cached logger for same scope")
	}

	if mgr.For("status") == logger {
		t.Error("For() should return different logger for different scope")
	}
}

func TestManager_LoggingToFile(t *testing.T) {
	mgr, logFile := newTestFileManager(t, "debug")

	mgr.For("store").Info("saved projects", "count", 3)
	_ = mgr.Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	content := string(data)
	for _, want := range []string{`"msg":"saved projects"`, `"logger":"store"`, `"count":3`} {
		if !strings.Contains(content, want) {
			t.Errorf("log file missing %s, got %s", want, content)
		}
	}
}

func TestManager_LevelFiltering(t *testing.T) {
	mgr, logFile := newTestFileManager(t, "warn")

	logger := mgr.For("app")
	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Warn("visible warn")
	_ = mgr.Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	content := string(data)
	if strings.Contains(content, "hidden") {
		t.Errorf("entries below warn were written: %s", content)
	}
	if !strings.Contains(content, "visible warn") {
		t.Errorf("warn entry missing: %s", content)
	}
}

func TestManager_InvalidLevelDefaultsToInfo(t *testing.T) {
	mgr, logFile := newTestFileManager(t, "loud")
	if mgr.level.String() != "info" {
		t.Errorf("level = %s, want info", mgr.level)
	}
	if mgr.Path() != logFile {
		t.Errorf("Path() = %q, want %q", mgr.Path(), logFile)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"debug":   "debug",
		" DEBUG ": "debug",
		"info":    "info",
		"warn":    "warn",
		"warning": "warn",
		"error":   "error",
		"":        "info",
		"verbose": "info",
	}
	for in, want := range tests {
		if got := ParseLevel(in).String(); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestScopedLogger_TypedFields(t *testing.T) {
	tm := NewTestLogManager()

	tm.For("status").Info("collected",
		"generation", uint64(4),
		"elapsed", 250*time.Millisecond,
		"error", errors.New("git missing"),
		slog.Group("probe", "path", "/src/api", "ok", false),
	)

	entries := tm.Logs().FilterMessage("collected").All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["generation"] != uint64(4) {
		t.Errorf("generation = %#v", fields["generation"])
	}
	if fields["elapsed"] != 250*time.Millisecond {
		t.Errorf("elapsed = %#v", fields["elapsed"])
	}
	if fields["error"] != "git missing" {
		t.Errorf("error = %#v", fields["error"])
	}
	if fields["probe.path"] != "/src/api" || fields["probe.ok"] != false {
		t.Errorf("group fields = %#v", fields)
	}
}

func TestScopedLogger_WithGroupPrefixesKeys(t *testing.T) {
	tm := NewTestLogManager()
	logger := &ScopedLogger{slog: tm.For("watch").slog.WithGroup("event"), scope: "watch"}

	logger.Debug("changed", "name", "api")

	entries := tm.Logs().All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["event.name"]; got != "api" {
		t.Errorf("event.name = %#v, want api", got)
	}
}

func TestScopedLogger_With(t *testing.T) {
	tm := NewTestLogManager()

	logger := tm.For("session").With("mode", "search")
	logger.Info("mode changed")

	entries := tm.Logs().FilterMessage("mode changed").All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["mode"]; got != "search" {
		t.Errorf("mode field = %v, want search", got)
	}
	if entries[0].LoggerName != "session" {
		t.Errorf("LoggerName = %q, want session", entries[0].LoggerName)
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	// Must not panic
	logger.Info("ignored")
	logger.With("k", "v").Error("ignored")

	var nilLogger *ScopedLogger
	nilLogger.Warn("also ignored")
	if nilLogger.Scope() != "" {
		t.Error("nil logger scope should be empty")
	}
}

func TestTestLogManager_Messages(t *testing.T) {
	tm := NewTestLogManager()
	tm.For("a").Info("first")
	tm.For("b").Debug("second")

	msgs := tm.Messages()
	if len(msgs) != 2 || msgs[0] != "first" || msgs[1] != "second" {
		t.Errorf("Messages() = %v", msgs)
	}
}
