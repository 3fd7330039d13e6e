package checkzone

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jroosing/zonegit/internal/execx"
)

// DefaultCommand is the checker binary shipped with BIND.
const DefaultCommand = "named-checkzone"

// DefaultArgs make the checker treat warnings as errors, matching the
// strictness expected of a commit gate.
var DefaultArgs = []string{"-k", "fail"}

// Command runs an external zone verifier. The zero value runs
// named-checkzone from PATH with DefaultArgs and no time limit.
type Command struct {
	Path    string        // binary name or path; empty means DefaultCommand
	Args    []string      // arguments before zone and file; nil means DefaultArgs
	Timeout time.Duration // per-file ceiling; 0 disables
	Runner  execx.Runner  // nil uses the host binary
}

func (c *Command) Name() string {
	if c.Path == "" {
		return DefaultCommand
	}
	return c.Path
}

// Check invokes the verifier as `<path> <args> <zone> <file>`. A non-zero
// exit is a syntax failure carrying the tool's diagnostics; hitting the
// per-file timeout counts as a failure too. Only a binary that cannot be
// started at all surfaces as ErrUnavailable.
func (c *Command) Check(ctx context.Context, zone, file string) (Result, error) {
	runner := c.Runner
	if runner == nil {
		runner = execx.System{}
	}
	args := c.Args
	if args == nil {
		args = DefaultArgs
	}

	runCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	argv := append(append([]string{}, args...), zone, file)
	out, err := runner.Run(runCtx, c.Name(), argv...)
	if err == nil {
		return Result{OK: true, Output: strings.TrimSpace(string(out.Stdout))}, nil
	}

	// A subprocess killed by the context still returns an exit error, so
	// the contexts decide first: caller cancellation yields no verdict and
	// a per-file deadline becomes a check failure.
	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return Result{OK: false, Output: fmt.Sprintf("%s timed out after %s", c.Name(), c.Timeout)}, nil
	}
	if _, ran := execx.ExitCode(err); ran {
		return Result{OK: false, Output: diagnostics(out, err)}, nil
	}
	return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// diagnostics prefers stderr, falls back to stdout, then to the raw error.
// named-checkzone writes its findings to stdout, most tools to stderr.
func diagnostics(out execx.Output, err error) string {
	if s := strings.TrimSpace(string(out.Stderr)); s != "" {
		return s
	}
	if s := strings.TrimSpace(string(out.Stdout)); s != "" {
		return s
	}
	return err.Error()
}
