// pattern: Imperative Shell

package gitstatus

import (
	"context"
	"os"
	"os/exec"
	"time"

	"devhub/internal/logging"
	"devhub/internal/project"
)

// Runner executes git with args in dir and returns its standard output.
type Runner func(ctx context.Context, dir string, args ...string) (string, error)

// ExecRunner runs the git binary found on PATH.
// Optional locks are disabled so probing never contends with the user's own git commands.
func ExecRunner(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_OPTIONAL_LOCKS=0", "GIT_TERMINAL_PROMPT=0")
	out, err := cmd.Output()
	return string(out), err
}

// Provider probes directories for their git status.
type Provider struct {
	run     Runner
	timeout time.Duration
	logger  *logging.ScopedLogger
}

// NewProvider creates a provider that shells out to git. A zero timeout means
// probes run until the context is cancelled.
func NewProvider(timeout time.Duration, logger *logging.ScopedLogger) *Provider {
	return NewProviderWithRunner(ExecRunner, timeout, logger)
}

// NewProviderWithRunner creates a provider with a custom runner.
func NewProviderWithRunner(run Runner, timeout time.Duration, logger *logging.ScopedLogger) *Provider {
	return &Provider{run: run, timeout: timeout, logger: logger}
}

// Probe returns the status of the work tree at path. It never fails: any error,
// including a missing git binary or a non-repository, yields project.NotRepo().
func (p *Provider) Probe(ctx context.Context, path string) project.GitStatus {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	out, err := p.run(ctx, path, "status", "--porcelain=v2", "--branch")
	if err != nil {
		p.logger.Debug("git probe failed", "path", path, "error", err)
		return project.NotRepo()
	}
	return Parse(out)
}
