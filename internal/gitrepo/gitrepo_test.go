package gitrepo_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/jroosing/zonegit/internal/execx"
	"github.com/jroosing/zonegit/internal/gitrepo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResult struct {
	stdout string
	stderr string
	err    error
}

type fakeRunner struct {
	calls []string
	resp  map[string]fakeResult
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (execx.Output, error) {
	key := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, key)
	r, ok := f.resp[key]
	if !ok {
		return execx.Output{}, fmt.Errorf("unexpected command: %s", key)
	}
	return execx.Output{Stdout: []byte(r.stdout), Stderr: []byte(r.stderr)}, r.err
}

func openFake(t *testing.T, resp map[string]fakeResult) (*gitrepo.Repo, *fakeRunner) {
	t.Helper()
	f := &fakeRunner{resp: resp}
	f.resp["git -C /repo rev-parse --show-toplevel"] = fakeResult{stdout: "/repo\n"}
	r, err := gitrepo.Open(context.Background(), "/repo", f, nil)
	require.NoError(t, err)
	return r, f
}

func TestOpen(t *testing.T) {
	r, _ := openFake(t, map[string]fakeResult{})
	assert.Equal(t, "/repo", r.Root())
}

func TestOpen_NotARepository(t *testing.T) {
	f := &fakeRunner{resp: map[string]fakeResult{
		"git -C /tmp/elsewhere rev-parse --show-toplevel": {
			stderr: "fatal: not a git repository (or any of the parent directories): .git\n",
			err:    fmt.Errorf("exit status 128"),
		},
	}}
	_, err := gitrepo.Open(context.Background(), "/tmp/elsewhere", f, nil)
	require.ErrorIs(t, err, gitrepo.ErrNotRepository)
}

func TestChangedFiles_HookDiffsIndexAgainstHead(t *testing.T) {
	r, f := openFake(t, map[string]fakeResult{
		"git -C /repo diff --cached --name-only --diff-filter=d": {
			stdout: "db.example.com\nzones/corp.zone\n",
		},
	})
	files, err := r.ChangedFiles(context.Background(), gitrepo.ModeHook)
	require.NoError(t, err)
	assert.Equal(t, []string{"db.example.com", "zones/corp.zone"}, files)
	assert.Contains(t, f.calls, "git -C /repo diff --cached --name-only --diff-filter=d")
}

func TestChangedFiles_CIDiffsHeadAgainstParent(t *testing.T) {
	r, _ := openFake(t, map[string]fakeResult{
		"git -C /repo diff --name-only --diff-filter=d HEAD~1 HEAD": {
			stdout: "db.example.com\n",
		},
	})
	files, err := r.ChangedFiles(context.Background(), gitrepo.ModeCI)
	require.NoError(t, err)
	assert.Equal(t, []string{"db.example.com"}, files)
}

func TestChangedFiles_Empty(t *testing.T) {
	r, _ := openFake(t, map[string]fakeResult{
		"git -C /repo diff --cached --name-only --diff-filter=d": {stdout: "\n"},
	})
	files, err := r.ChangedFiles(context.Background(), gitrepo.ModeHook)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestListTracked(t *testing.T) {
	r, _ := openFake(t, map[string]fakeResult{
		"git -C /repo ls-files": {stdout: "README.md\ndb.example.com\n"},
	})
	files, err := r.ListTracked(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md", "db.example.com"}, files)
}

func TestShow_ReadsIndexAndRevisions(t *testing.T) {
	r, f := openFake(t, map[string]fakeResult{
		"git -C /repo show :db.example.com":       {stdout: "staged content"},
		"git -C /repo show HEAD:db.example.com":   {stdout: "head content"},
		"git -C /repo show HEAD~1:db.example.com": {stdout: "old content"},
	})

	got, err := r.Show(context.Background(), "db.example.com", gitrepo.RevIndex)
	require.NoError(t, err)
	assert.Equal(t, "staged content", string(got))

	got, err = r.Show(context.Background(), "db.example.com", gitrepo.RevHead)
	require.NoError(t, err)
	assert.Equal(t, "head content", string(got))

	got, err = r.Show(context.Background(), "db.example.com", gitrepo.RevPrev)
	require.NoError(t, err)
	assert.Equal(t, "old content", string(got))

	assert.Contains(t, f.calls, "git -C /repo show :db.example.com")
}

func TestShow_MissingPathIsNotFound(t *testing.T) {
	stderrs := []string{
		"fatal: path 'db.new' does not exist in 'HEAD'\n",
		"fatal: path 'db.new' exists on disk, but not in 'HEAD'\n",
		"fatal: path 'db.new' does not exist (neither on disk nor in the index)\n",
	}
	for _, stderr := range stderrs {
		r, _ := openFake(t, map[string]fakeResult{
			"git -C /repo show HEAD:db.new": {stderr: stderr, err: fmt.Errorf("exit status 128")},
		})
		_, err := r.Show(context.Background(), "db.new", gitrepo.RevHead)
		assert.ErrorIs(t, err, gitrepo.ErrNotFound, "stderr %q", stderr)
	}
}

func TestShow_OtherFailuresAreNotNotFound(t *testing.T) {
	r, _ := openFake(t, map[string]fakeResult{
		"git -C /repo show HEAD:db.example.com": {
			stderr: "fatal: unable to read tree object\n",
			err:    fmt.Errorf("exit status 128"),
		},
	})
	_, err := r.Show(context.Background(), "db.example.com", gitrepo.RevHead)
	require.Error(t, err)
	assert.NotErrorIs(t, err, gitrepo.ErrNotFound)
}

func TestCommitCount(t *testing.T) {
	r, _ := openFake(t, map[string]fakeResult{
		"git -C /repo rev-list --count HEAD": {stdout: "7\n"},
	})
	n, err := r.CommitCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestCommitCount_UnbornHeadIsZero(t *testing.T) {
	r, _ := openFake(t, map[string]fakeResult{
		"git -C /repo rev-list --count HEAD": {
			stderr: "fatal: ambiguous argument 'HEAD': unknown revision or path not in the working tree.\n",
			err:    fmt.Errorf("exit status 128"),
		},
	})
	n, err := r.CommitCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestHistoryDepth(t *testing.T) {
	resp := map[string]fakeResult{
		"git -C /repo rev-list --count HEAD": {stdout: "3\n"},
	}
	r, _ := openFake(t, resp)

	n, err := r.HistoryDepth(context.Background(), gitrepo.ModeHook)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = r.HistoryDepth(context.Background(), gitrepo.ModeCI)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestHistoryDepth_SingleCommitCI(t *testing.T) {
	r, _ := openFake(t, map[string]fakeResult{
		"git -C /repo rev-list --count HEAD": {stdout: "1\n"},
	})
	n, err := r.HistoryDepth(context.Background(), gitrepo.ModeCI)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRevSelection(t *testing.T) {
	assert.Equal(t, gitrepo.RevIndex, gitrepo.CurrentRev(gitrepo.ModeHook))
	assert.Equal(t, gitrepo.RevHead, gitrepo.PriorRev(gitrepo.ModeHook))
	assert.Equal(t, gitrepo.RevHead, gitrepo.CurrentRev(gitrepo.ModeCI))
	assert.Equal(t, gitrepo.RevPrev, gitrepo.PriorRev(gitrepo.ModeCI))
}

func TestModeValid(t *testing.T) {
	assert.True(t, gitrepo.ModeHook.Valid())
	assert.True(t, gitrepo.ModeCI.Valid())
	assert.False(t, gitrepo.Mode("release").Valid())
}

func TestCommandError(t *testing.T) {
	e := &gitrepo.CommandError{
		Args:     []string{"show", "HEAD:x"},
		ExitCode: 128,
		Stderr:   "fatal: bad object\n",
	}
	assert.Equal(t, "git show HEAD:x: exit 128: fatal: bad object", e.Error())
}
