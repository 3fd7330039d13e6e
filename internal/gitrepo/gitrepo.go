// Package gitrepo reads repository state through the git CLI: which files
// a commit touches, and what a file looked like at a given revision. All
// content is read from git's object store, never the working tree, so
// validation sees exactly what is being committed.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jroosing/zonegit/internal/execx"
)

// Mode selects which pair of revisions a validation run compares.
type Mode string

const (
	// ModeHook compares the index against HEAD, for pre-commit hooks.
	ModeHook Mode = "hook"
	// ModeCI compares HEAD against HEAD~1, for post-commit pipelines.
	ModeCI Mode = "ci"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeHook || m == ModeCI
}

// Rev identifies where a file's content is read from.
type Rev string

const (
	RevIndex Rev = ":"
	RevHead  Rev = "HEAD"
	RevPrev  Rev = "HEAD~1"
)

func (r Rev) spec(path string) string {
	if r == RevIndex {
		return ":" + path
	}
	return string(r) + ":" + path
}

// CurrentRev is the revision under validation for a mode.
func CurrentRev(m Mode) Rev {
	if m == ModeCI {
		return RevHead
	}
	return RevIndex
}

// PriorRev is the baseline a file's serial must move forward from.
func PriorRev(m Mode) Rev {
	if m == ModeCI {
		return RevPrev
	}
	return RevHead
}

// ErrNotFound means the path has no content at the requested revision,
// which is the normal state of affairs for newly added files.
var ErrNotFound = errors.New("path not present at revision")

// ErrNotRepository means the directory is not inside a git work tree.
var ErrNotRepository = errors.New("not inside a git work tree")

// CommandError carries the diagnostics of a git invocation that failed.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = "no diagnostics"
	}
	return fmt.Sprintf("git %s: exit %d: %s", strings.Join(e.Args, " "), e.ExitCode, msg)
}

// Repo is a handle on one git repository.
type Repo struct {
	root   string
	run    execx.Runner
	logger *slog.Logger
}

// Open locates the repository containing dir and returns a handle rooted
// at its top level. A nil runner uses the host git binary.
func Open(ctx context.Context, dir string, run execx.Runner, logger *slog.Logger) (*Repo, error) {
	if run == nil {
		run = execx.System{}
	}
	out, err := run.Run(ctx, "git", "-C", dir, "rev-parse", "--show-toplevel")
	if err != nil {
		stderr := string(out.Stderr)
		if strings.Contains(stderr, "not a git repository") {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, dir)
		}
		return nil, wrapGitErr([]string{"rev-parse", "--show-toplevel"}, out, err)
	}
	root := strings.TrimSpace(string(out.Stdout))
	if root == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, dir)
	}
	return &Repo{root: root, run: run, logger: logger}, nil
}

// Root returns the absolute path of the repository's top level.
func (r *Repo) Root() string {
	return r.root
}

func (r *Repo) git(ctx context.Context, args ...string) (execx.Output, error) {
	full := append([]string{"-C", r.root}, args...)
	out, err := r.run.Run(ctx, "git", full...)
	if err != nil {
		return out, wrapGitErr(args, out, err)
	}
	if r.logger != nil {
		r.logger.Debug("git", "args", strings.Join(args, " "))
	}
	return out, nil
}

func wrapGitErr(args []string, out execx.Output, err error) error {
	if code, ok := execx.ExitCode(err); ok {
		return &CommandError{Args: args, ExitCode: code, Stderr: string(out.Stderr)}
	}
	return fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
}

// CommitCount returns the number of commits reachable from HEAD. A
// repository without any commit yet counts as zero.
func (r *Repo) CommitCount(ctx context.Context) (int, error) {
	out, err := r.git(ctx, "rev-list", "--count", "HEAD")
	if err != nil {
		if isUnbornHead(string(out.Stderr)) {
			return 0, nil
		}
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(out.Stdout)))
	if err != nil {
		return 0, fmt.Errorf("parse rev-list output: %w", err)
	}
	return n, nil
}

// HistoryDepth returns how many revisions precede the one under
// validation: hook runs are measured from HEAD, ci runs from the parent
// of the commit being validated.
func (r *Repo) HistoryDepth(ctx context.Context, mode Mode) (int, error) {
	n, err := r.CommitCount(ctx)
	if err != nil {
		return 0, err
	}
	if mode == ModeCI && n > 0 {
		n--
	}
	return n, nil
}

// ChangedFiles lists the paths the revision under validation touches,
// excluding deletions. Hook mode diffs the index against HEAD; ci mode
// diffs HEAD against its parent.
func (r *Repo) ChangedFiles(ctx context.Context, mode Mode) ([]string, error) {
	var args []string
	if mode == ModeCI {
		args = []string{"diff", "--name-only", "--diff-filter=d", "HEAD~1", "HEAD"}
	} else {
		args = []string{"diff", "--cached", "--name-only", "--diff-filter=d"}
	}
	out, err := r.git(ctx, args...)
	if err != nil {
		return nil, err
	}
	return splitLines(out.Stdout), nil
}

// ListTracked lists every path git knows about, staged files included.
// Used when there is no prior revision to diff against.
func (r *Repo) ListTracked(ctx context.Context) ([]string, error) {
	out, err := r.git(ctx, "ls-files")
	if err != nil {
		return nil, err
	}
	return splitLines(out.Stdout), nil
}

// Show returns a file's content at the given revision. Paths absent at
// that revision yield ErrNotFound.
func (r *Repo) Show(ctx context.Context, path string, rev Rev) ([]byte, error) {
	out, err := r.git(ctx, "show", rev.spec(path))
	if err != nil {
		if isPathMissing(string(out.Stderr)) {
			return nil, fmt.Errorf("%s at %s: %w", path, rev, ErrNotFound)
		}
		return nil, err
	}
	return out.Stdout, nil
}

func isUnbornHead(stderr string) bool {
	return strings.Contains(stderr, "unknown revision") ||
		strings.Contains(stderr, "bad revision") ||
		strings.Contains(stderr, "ambiguous argument 'HEAD'")
}

func isPathMissing(stderr string) bool {
	return strings.Contains(stderr, "does not exist") ||
		strings.Contains(stderr, "but not in the index") ||
		strings.Contains(stderr, "but not in '")
}

func splitLines(b []byte) []string {
	var out []string
	for _, line := range strings.Split(string(b), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
