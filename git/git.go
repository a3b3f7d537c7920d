package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/l3uddz/iconkit/utils/timeout"
	"github.com/pkg/errors"
)

// Runner executes git subprocesses, each bounded by Timeout.
type Runner struct {
	Binary  string
	Timeout time.Duration
}

func NewRunner(gitTimeout time.Duration) *Runner {
	return &Runner{
		Binary:  "git",
		Timeout: gitTimeout,
	}
}

// Run executes git with args in dir and returns trimmed stdout.
func (r *Runner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	label := r.Binary + " " + strings.Join(args, " ")

	runCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, r.Binary, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// never block on a credential prompt
	cmd.Env = append(cmd.Environ(), "GIT_TERMINAL_PROMPT=0")

	if err := cmd.Run(); err != nil {
		// the caller gave up, not the runner
		if ctx.Err() != nil {
			return "", errors.Wrap(ctx.Err(), label)
		}
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return "", &timeout.Error{Label: label, Timeout: r.Timeout}
		}

		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", errors.Errorf("%s: %s", label, msg)
	}

	return strings.TrimSpace(stdout.String()), nil
}
