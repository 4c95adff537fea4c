package project

import (
	"testing"
	"time"
)

func TestMatches(t *testing.T) {
	p := Project{Name: "API-Gateway", Path: "/home/me/src/API-Gateway"}

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"api", true},
		{"GATE", true},
		{"src/api", true},
		{"worker", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := p.Matches(tt.query); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestMatches_PathOnly(t *testing.T) {
	p := Project{Name: "web", Path: "/work/clients/acme/web"}
	if !p.Matches("acme") {
		t.Error("expected path match to count as a match")
	}
}

func TestAccessedUnix(t *testing.T) {
	if got := (Project{}).AccessedUnix(); got != 0 {
		t.Errorf("AccessedUnix() = %d, want 0 for never accessed", got)
	}

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	p := Project{LastAccessedAt: &ts}
	if got := p.AccessedUnix(); got != ts.UnixNano() {
		t.Errorf("AccessedUnix() = %d, want %d", got, ts.UnixNano())
	}
}

func TestGitStatus_NotRepoHasNoFields(t *testing.T) {
	branch := "main"
	dirty := true
	g := GitStatus{IsRepo: false, Branch: &branch, Dirty: &dirty}.Normalize()

	if g.Branch != nil || g.Dirty != nil || g.Ahead != nil || g.Behind != nil {
		t.Errorf("Normalize() kept optional fields on a non-repo: %+v", g)
	}
	if g.IsDirty() {
		t.Error("non-repo must never report dirty")
	}
	if g.BranchName() != "" {
		t.Errorf("BranchName() = %q, want empty", g.BranchName())
	}
}

func TestRepoStatus(t *testing.T) {
	g := RepoStatus("feature/x", true, 2, 1)

	if !g.IsRepo {
		t.Fatal("expected IsRepo")
	}
	if g.BranchName() != "feature/x" {
		t.Errorf("BranchName() = %q", g.BranchName())
	}
	if !g.IsDirty() {
		t.Error("expected dirty")
	}
	ahead, behind := g.AheadBehind()
	if ahead != 2 || behind != 1 {
		t.Errorf("AheadBehind() = (%d, %d), want (2, 1)", ahead, behind)
	}
	if g.Normalize() != g {
		t.Error("Normalize() must not change a repo status")
	}
}

func TestModeValid(t *testing.T) {
	if !ModeRegistry.Valid() || !ModeDiscovery.Valid() {
		t.Error("known modes must be valid")
	}
	if Mode("global").Valid() {
		t.Error("unknown mode must be invalid")
	}
}
