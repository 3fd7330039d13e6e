// Package execx runs external commands with captured output. It exists so
// the git and zone checker integrations share one subprocess seam that
// tests can replace with a fake.
package execx

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Output holds the captured streams of a finished command.
type Output struct {
	Stdout []byte
	Stderr []byte
}

// Runner abstracts subprocess execution.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Output, error)
}

// System runs commands on the host via os/exec. The zero value is usable.
// Context cancellation kills the process.
type System struct{}

func (System) Run(ctx context.Context, name string, args ...string) (Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, err
}

// ExitCode extracts the process exit code carried by err, if any. A false
// second return means the command never started: not found or not
// executable. A process killed by its context still yields an exit error,
// so callers racing a context must consult it before classifying.
func ExitCode(err error) (int, bool) {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode(), true
	}
	return 0, false
}

// IsNotInstalled reports whether the command's binary could not be found
// on PATH.
func IsNotInstalled(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}
