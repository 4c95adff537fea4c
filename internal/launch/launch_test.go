package launch

import (
	"errors"
	"os/exec"
	"testing"
)

func TestEditor_NotConfigured(t *testing.T) {
	for _, cmd := range []string{"", "   "} {
		e := NewEditor(cmd)
		if e.Configured() {
			t.Errorf("NewEditor(%q).Configured() = true", cmd)
		}
		ok, err := e.Open("/tmp")
		if ok || err != nil {
			t.Errorf("Open() = %v, %v; want false, nil", ok, err)
		}
	}

	var nilEditor *Editor
	if nilEditor.Configured() {
		t.Error("nil editor should not be configured")
	}
}

func TestEditor_OpenBuildsDetachedCommand(t *testing.T) {
	var started *exec.Cmd
	e := NewEditor("zed -n")
	e.start = func(cmd *exec.Cmd) error {
		started = cmd
		return nil
	}

	ok, err := e.Open("/src/api")
	if !ok || err != nil {
		t.Fatalf("Open() = %v, %v", ok, err)
	}
	want := []string{"zed", "-n", "/src/api"}
	if len(started.Args) != len(want) {
		t.Fatalf("args = %v, want %v", started.Args, want)
	}
	for i := range want {
		if started.Args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, started.Args[i], want[i])
		}
	}
}

func TestEditor_StartFailure(t *testing.T) {
	e := NewEditor("definitely-not-an-editor-binary")
	ok, err := e.Open(t.TempDir())
	if !ok {
		t.Error("configured editor should report true")
	}
	if err == nil {
		t.Error("expected start error for missing binary")
	}
}

func TestTools_Command(t *testing.T) {
	tools := Tools{Git: "lazygit", Agent: "claude --continue", Shell: "/bin/zsh"}

	tests := []struct {
		tool Tool
		args []string
	}{
		{ToolGit, []string{"lazygit"}},
		{ToolAgent, []string{"claude", "--continue"}},
		{ToolShell, []string{"/bin/zsh"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.tool), func(t *testing.T) {
			cmd, err := tools.Command(tt.tool, "/src/api")
			if err != nil {
				t.Fatalf("Command() error = %v", err)
			}
			if cmd.Dir != "/src/api" {
				t.Errorf("Dir = %q", cmd.Dir)
			}
			if len(cmd.Args) != len(tt.args) {
				t.Fatalf("Args = %v, want %v", cmd.Args, tt.args)
			}
			for i := range tt.args {
				if cmd.Args[i] != tt.args[i] {
					t.Errorf("Args[%d] = %q, want %q", i, cmd.Args[i], tt.args[i])
				}
			}
		})
	}
}

func TestTools_NotConfigured(t *testing.T) {
	tools := Tools{Git: "lazygit"}
	if tools.Configured(ToolAgent) {
		t.Error("agent should not be configured")
	}
	if !tools.Configured(ToolGit) {
		t.Error("git should be configured")
	}
	_, err := tools.Command(ToolAgent, "/tmp")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Command() error = %v, want ErrNotConfigured", err)
	}
}
