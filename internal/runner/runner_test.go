package runner

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jroosing/zonegit/internal/checkzone"
	"github.com/jroosing/zonegit/internal/gitrepo"
	"github.com/jroosing/zonegit/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	mu           sync.Mutex
	root         string
	depth        int
	changed      []string
	tracked      []string
	blobs        map[string][]byte
	showErr      map[string]error
	listCalls    int
	changedCalls int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		root:    "/repo",
		blobs:   map[string][]byte{},
		showErr: map[string]error{},
	}
}

func (g *fakeGateway) key(path string, rev gitrepo.Rev) string {
	return string(rev) + "|" + path
}

func (g *fakeGateway) put(path string, rev gitrepo.Rev, content string) {
	g.blobs[g.key(path, rev)] = []byte(content)
}

func (g *fakeGateway) Root() string { return g.root }

func (g *fakeGateway) HistoryDepth(_ context.Context, mode gitrepo.Mode) (int, error) {
	return g.depth, nil
}

func (g *fakeGateway) ChangedFiles(_ context.Context, _ gitrepo.Mode) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.changedCalls++
	return g.changed, nil
}

func (g *fakeGateway) ListTracked(context.Context) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listCalls++
	return g.tracked, nil
}

func (g *fakeGateway) Show(_ context.Context, path string, rev gitrepo.Rev) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	k := g.key(path, rev)
	if err, ok := g.showErr[k]; ok {
		return nil, err
	}
	b, ok := g.blobs[k]
	if !ok {
		return nil, fmt.Errorf("%s at %s: %w", path, rev, gitrepo.ErrNotFound)
	}
	return b, nil
}

type checkerFunc func(ctx context.Context, zone, file string) (checkzone.Result, error)

func (f checkerFunc) Name() string { return "fake" }

func (f checkerFunc) Check(ctx context.Context, zone, file string) (checkzone.Result, error) {
	return f(ctx, zone, file)
}

func okChecker() checkzone.Checker {
	return checkerFunc(func(context.Context, string, string) (checkzone.Result, error) {
		return checkzone.Result{OK: true}, nil
	})
}

func zoneText(origin, serial string) string {
	return fmt.Sprintf("$ORIGIN %s\n$TTL 3600\n@ IN SOA ns1.%s admin.%s %s 7200 3600 1209600 300\n",
		origin, origin, origin, serial)
}

func TestRun_HookModeHappyPath(t *testing.T) {
	g := newFakeGateway()
	g.depth = 5
	g.changed = []string{"db.example.com", "README.md", "zones/corp.zone"}
	g.put("db.example.com", gitrepo.RevIndex, zoneText("example.com.", "2024061501"))
	g.put("db.example.com", gitrepo.RevHead, zoneText("example.com.", "2024061500"))
	g.put("zones/corp.zone", gitrepo.RevIndex, zoneText("corp.internal.", "2024061502"))
	g.put("zones/corp.zone", gitrepo.RevHead, zoneText("corp.internal.", "2024061501"))

	var checkedMu sync.Mutex
	var checked []string
	checker := checkerFunc(func(_ context.Context, zone, file string) (checkzone.Result, error) {
		checkedMu.Lock()
		checked = append(checked, zone+" "+file)
		checkedMu.Unlock()
		return checkzone.Result{OK: true, Output: "OK"}, nil
	})

	r := &Runner{Gateway: g, Checker: checker}
	report, err := r.Run(context.Background(), gitrepo.ModeHook)
	require.NoError(t, err)

	require.Len(t, report.Files, 2)
	assert.True(t, report.OK())
	assert.Equal(t, "hook", report.Mode)

	first := report.Files[0]
	assert.Equal(t, "db.example.com", first.Path)
	assert.Equal(t, "example.com.", first.Zone)
	assert.Equal(t, "2024061501", first.Serial)
	assert.Equal(t, policy.OutcomePass, first.Origin.Outcome)
	assert.Equal(t, policy.OutcomePass, first.SerialFormat.Outcome)
	assert.Equal(t, policy.OutcomePass, first.SerialIncrement.Outcome)
	assert.Equal(t, policy.OutcomePass, first.Syntax.Outcome)

	// The checker gets the resolved zone name and a path under the root.
	assert.Contains(t, checked, "example.com. /repo/db.example.com")
	assert.Contains(t, checked, "corp.internal. /repo/zones/corp.zone")

	// README.md is not a zone file and must not be read at all.
	assert.Equal(t, 1, g.changedCalls)
	assert.Equal(t, 0, g.listCalls)
}

func TestRun_EmptyHistoryValidatesAllTracked(t *testing.T) {
	g := newFakeGateway()
	g.depth = 0
	g.tracked = []string{"db.example.com", "Makefile"}
	g.put("db.example.com", gitrepo.RevIndex, zoneText("example.com.", "2024061500"))

	r := &Runner{Gateway: g, Checker: okChecker()}
	report, err := r.Run(context.Background(), gitrepo.ModeHook)
	require.NoError(t, err)

	require.Len(t, report.Files, 1)
	assert.Equal(t, 1, g.listCalls)
	assert.Equal(t, 0, g.changedCalls)
	assert.Equal(t, policy.OutcomeSkipped, report.Files[0].SerialIncrement.Outcome)
	assert.True(t, report.OK())
}

func TestRun_NewFileSkipsIncrement(t *testing.T) {
	g := newFakeGateway()
	g.depth = 3
	g.changed = []string{"db.new.example"}
	g.put("db.new.example", gitrepo.RevIndex, zoneText("new.example.", "2024061500"))
	// No HEAD blob: the file is being added in this commit.

	r := &Runner{Gateway: g, Checker: okChecker()}
	report, err := r.Run(context.Background(), gitrepo.ModeHook)
	require.NoError(t, err)

	require.Len(t, report.Files, 1)
	v := report.Files[0].SerialIncrement
	assert.Equal(t, policy.OutcomeSkipped, v.Outcome)
	assert.Contains(t, v.Detail, "no prior revision")
	assert.True(t, report.OK())
}

func TestRun_UnchangedSerialFails(t *testing.T) {
	g := newFakeGateway()
	g.depth = 3
	g.changed = []string{"db.example.com"}
	g.put("db.example.com", gitrepo.RevIndex, zoneText("example.com.", "2024061500"))
	g.put("db.example.com", gitrepo.RevHead, zoneText("example.com.", "2024061500"))

	r := &Runner{Gateway: g, Checker: okChecker()}
	report, err := r.Run(context.Background(), gitrepo.ModeHook)
	require.NoError(t, err)

	require.Len(t, report.Files, 1)
	assert.Equal(t, policy.OutcomeFail, report.Files[0].SerialIncrement.Outcome)
	assert.False(t, report.OK())
	// The other checks still ran; a failing category gates nothing.
	assert.Equal(t, policy.OutcomePass, report.Files[0].Origin.Outcome)
	assert.Equal(t, policy.OutcomePass, report.Files[0].Syntax.Outcome)
}

func TestRun_CIModeUsesHeadAndParent(t *testing.T) {
	g := newFakeGateway()
	g.depth = 2
	g.changed = []string{"db.example.com"}
	g.put("db.example.com", gitrepo.RevHead, zoneText("example.com.", "2024061501"))
	g.put("db.example.com", gitrepo.RevPrev, zoneText("example.com.", "2024061500"))

	r := &Runner{Gateway: g, Checker: okChecker()}
	report, err := r.Run(context.Background(), gitrepo.ModeCI)
	require.NoError(t, err)

	require.Len(t, report.Files, 1)
	assert.Equal(t, "ci", report.Mode)
	assert.Equal(t, policy.OutcomePass, report.Files[0].SerialIncrement.Outcome)
}

func TestRun_NoSOAIsUnsupported(t *testing.T) {
	g := newFakeGateway()
	g.depth = 1
	g.changed = []string{"fragment.zone"}
	g.put("fragment.zone", gitrepo.RevIndex, "$ORIGIN example.com.\nwww IN A 192.0.2.1\n")

	called := false
	checker := checkerFunc(func(context.Context, string, string) (checkzone.Result, error) {
		called = true
		return checkzone.Result{OK: true}, nil
	})

	r := &Runner{Gateway: g, Checker: checker}
	report, err := r.Run(context.Background(), gitrepo.ModeHook)
	require.NoError(t, err)

	require.Len(t, report.Files, 1)
	f := report.Files[0]
	assert.True(t, f.Unsupported)
	assert.Equal(t, "no SOA record", f.Reason)
	// The directive check still reports on unsupported files.
	assert.Equal(t, policy.OutcomePass, f.Origin.Outcome)
	assert.Equal(t, policy.OutcomeNotApplicable, f.Syntax.Outcome)
	assert.False(t, called, "checker must not run without a zone name")
	assert.False(t, report.OK(), "unsupported files block the run")
}

func TestRun_UndefinedZoneNameIsUnsupported(t *testing.T) {
	g := newFakeGateway()
	g.depth = 1
	g.changed = []string{"db.relative"}
	g.put("db.relative", gitrepo.RevIndex,
		"$ORIGIN example.com\nsub IN SOA ns admin 2024061500 1 2 3 4\n")

	r := &Runner{Gateway: g, Checker: okChecker()}
	report, err := r.Run(context.Background(), gitrepo.ModeHook)
	require.NoError(t, err)

	require.Len(t, report.Files, 1)
	f := report.Files[0]
	assert.True(t, f.Unsupported)
	assert.Contains(t, f.Reason, "zone name")
	// The undotted $ORIGIN is still called out.
	assert.Equal(t, policy.OutcomeFail, f.Origin.Outcome)
}

func TestRun_ParseFailureFailsSyntax(t *testing.T) {
	g := newFakeGateway()
	g.depth = 1
	g.changed = []string{"db.broken"}
	g.put("db.broken", gitrepo.RevIndex, "@ IN SOA ns admin ( 2024061500\n")

	r := &Runner{Gateway: g, Checker: okChecker()}
	report, err := r.Run(context.Background(), gitrepo.ModeHook)
	require.NoError(t, err)

	require.Len(t, report.Files, 1)
	f := report.Files[0]
	assert.Equal(t, policy.OutcomeFail, f.Syntax.Outcome)
	assert.Contains(t, f.Syntax.Detail, "zone parse")
	assert.False(t, report.OK())
}

func TestRun_PriorUnparseableSkipsIncrement(t *testing.T) {
	g := newFakeGateway()
	g.depth = 2
	g.changed = []string{"db.example.com"}
	g.put("db.example.com", gitrepo.RevIndex, zoneText("example.com.", "2024061500"))
	g.put("db.example.com", gitrepo.RevHead, "@ IN SOA ns admin ( 2024010100\n")

	r := &Runner{Gateway: g, Checker: okChecker()}
	report, err := r.Run(context.Background(), gitrepo.ModeHook)
	require.NoError(t, err)

	require.Len(t, report.Files, 1)
	v := report.Files[0].SerialIncrement
	assert.Equal(t, policy.OutcomeSkipped, v.Outcome)
	assert.Contains(t, v.Detail, "unparseable")
	assert.True(t, report.OK(), "fixing a broken file must be commitable")
}

func TestRun_CurrentReadErrorMarksFileErrored(t *testing.T) {
	g := newFakeGateway()
	g.depth = 1
	g.changed = []string{"db.example.com"}
	g.showErr[g.key("db.example.com", gitrepo.RevIndex)] = fmt.Errorf("git show: exit 128: fatal: unable to read tree")

	r := &Runner{Gateway: g, Checker: okChecker()}
	report, err := r.Run(context.Background(), gitrepo.ModeHook)
	require.NoError(t, err)

	require.Len(t, report.Files, 1)
	f := report.Files[0]
	assert.Equal(t, policy.OutcomeError, f.Origin.Outcome)
	assert.Equal(t, policy.OutcomeError, f.Syntax.Outcome)
	assert.False(t, report.OK())
}

func TestRun_SyntaxFailureIsIndependent(t *testing.T) {
	g := newFakeGateway()
	g.depth = 1
	g.changed = []string{"db.example.com"}
	g.put("db.example.com", gitrepo.RevIndex, zoneText("example.com.", "2024061500"))

	checker := checkerFunc(func(context.Context, string, string) (checkzone.Result, error) {
		return checkzone.Result{OK: false, Output: "db.example.com:3: unknown RR type"}, nil
	})

	r := &Runner{Gateway: g, Checker: checker}
	report, err := r.Run(context.Background(), gitrepo.ModeHook)
	require.NoError(t, err)

	f := report.Files[0]
	assert.Equal(t, policy.OutcomeFail, f.Syntax.Outcome)
	assert.Contains(t, f.Syntax.Detail, "unknown RR type")
	assert.Equal(t, policy.OutcomePass, f.Origin.Outcome)
	assert.Equal(t, policy.OutcomePass, f.SerialFormat.Outcome)
}

func TestRun_NilCheckerSkipsSyntax(t *testing.T) {
	g := newFakeGateway()
	g.depth = 1
	g.changed = []string{"db.example.com"}
	g.put("db.example.com", gitrepo.RevIndex, zoneText("example.com.", "2024061500"))

	r := &Runner{Gateway: g}
	report, err := r.Run(context.Background(), gitrepo.ModeHook)
	require.NoError(t, err)
	assert.Equal(t, policy.OutcomeSkipped, report.Files[0].Syntax.Outcome)
	assert.True(t, report.OK())
}

func TestRun_CheckerUnavailableAbortsRun(t *testing.T) {
	g := newFakeGateway()
	g.depth = 1
	g.changed = []string{"db.a.zone", "db.b.zone"}
	g.put("db.a.zone", gitrepo.RevIndex, zoneText("a.example.", "2024061500"))
	g.put("db.b.zone", gitrepo.RevIndex, zoneText("b.example.", "2024061500"))

	checker := checkerFunc(func(context.Context, string, string) (checkzone.Result, error) {
		return checkzone.Result{}, fmt.Errorf("%w: named-checkzone not on PATH", checkzone.ErrUnavailable)
	})

	r := &Runner{Gateway: g, Checker: checker}
	_, err := r.Run(context.Background(), gitrepo.ModeHook)
	assert.ErrorIs(t, err, checkzone.ErrUnavailable)
}

func TestRun_ReportPreservesEnumerationOrder(t *testing.T) {
	g := newFakeGateway()
	g.depth = 1
	const n = 12
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("db.zone%02d", i)
		g.changed = append(g.changed, name)
		g.put(name, gitrepo.RevIndex, zoneText(fmt.Sprintf("zone%02d.example.", i), "2024061500"))
	}

	// Later files finish first, so collection order must not depend on
	// completion order.
	checker := checkerFunc(func(_ context.Context, _ string, file string) (checkzone.Result, error) {
		idx, _ := strconv.Atoi(file[len(file)-2:])
		time.Sleep(time.Duration(n-idx) * 2 * time.Millisecond)
		return checkzone.Result{OK: true}, nil
	})

	r := &Runner{Gateway: g, Checker: checker, Jobs: 4}
	report, err := r.Run(context.Background(), gitrepo.ModeHook)
	require.NoError(t, err)

	require.Len(t, report.Files, n)
	for i, f := range report.Files {
		assert.Equal(t, fmt.Sprintf("db.zone%02d", i), f.Path)
	}
}

func TestRun_CancellationReturnsCompletedFiles(t *testing.T) {
	g := newFakeGateway()
	g.depth = 1
	g.changed = []string{"db.a.zone", "db.b.zone"}
	g.put("db.a.zone", gitrepo.RevIndex, zoneText("a.example.", "2024061500"))
	g.put("db.b.zone", gitrepo.RevIndex, zoneText("b.example.", "2024061500"))

	ctx, cancel := context.WithCancel(context.Background())
	secondStarted := make(chan struct{})

	checker := checkerFunc(func(ctx context.Context, _ string, file string) (checkzone.Result, error) {
		if strings.Contains(file, "db.b") {
			close(secondStarted)
			<-ctx.Done()
			return checkzone.Result{}, ctx.Err()
		}
		return checkzone.Result{OK: true}, nil
	})

	go func() {
		<-secondStarted
		cancel()
	}()

	r := &Runner{Gateway: g, Checker: checker, Jobs: 1}
	report, err := r.Run(ctx, gitrepo.ModeHook)
	require.ErrorIs(t, err, context.Canceled)

	// The first file completed before cancellation and is reported; the
	// second never finished and is not.
	require.NotNil(t, report)
	require.Len(t, report.Files, 1)
	assert.Equal(t, "db.a.zone", report.Files[0].Path)
}

type fakeRecorder struct {
	mu      sync.Mutex
	reports []*policy.Report
	err     error
}

func (f *fakeRecorder) RecordRun(_ context.Context, rep *policy.Report) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, rep)
	return int64(len(f.reports)), f.err
}

func TestRun_RecordsFinishedRuns(t *testing.T) {
	g := newFakeGateway()
	g.depth = 1
	g.changed = []string{"db.example.com"}
	g.put("db.example.com", gitrepo.RevIndex, zoneText("example.com.", "2024061500"))

	rec := &fakeRecorder{}
	r := &Runner{Gateway: g, Checker: okChecker(), Recorder: rec}
	_, err := r.Run(context.Background(), gitrepo.ModeHook)
	require.NoError(t, err)
	require.Len(t, rec.reports, 1)
	assert.Len(t, rec.reports[0].Files, 1)
}

func TestRun_RecorderFailureDoesNotFailRun(t *testing.T) {
	g := newFakeGateway()
	g.depth = 1
	g.changed = []string{"db.example.com"}
	g.put("db.example.com", gitrepo.RevIndex, zoneText("example.com.", "2024061500"))

	rec := &fakeRecorder{err: fmt.Errorf("ledger locked")}
	r := &Runner{Gateway: g, Checker: okChecker(), Recorder: rec}
	report, err := r.Run(context.Background(), gitrepo.ModeHook)
	require.NoError(t, err)
	assert.True(t, report.OK())
}

func TestRun_EmptyRunIsNotRecorded(t *testing.T) {
	g := newFakeGateway()
	g.depth = 1
	g.changed = []string{"README.md"}

	rec := &fakeRecorder{}
	r := &Runner{Gateway: g, Checker: okChecker(), Recorder: rec}
	report, err := r.Run(context.Background(), gitrepo.ModeHook)
	require.NoError(t, err)
	assert.Empty(t, report.Files)
	assert.Empty(t, rec.reports)
}

func TestRun_SameOutcomesAtAnyConcurrency(t *testing.T) {
	g := newFakeGateway()
	g.depth = 1
	for i := 0; i < 9; i++ {
		name := fmt.Sprintf("db.zone%02d", i)
		g.changed = append(g.changed, name)
		// Every third file regresses its serial.
		serial := "2024061502"
		if i%3 == 0 {
			serial = "2024061500"
		}
		g.put(name, gitrepo.RevIndex, zoneText(fmt.Sprintf("zone%02d.example.", i), serial))
		g.put(name, gitrepo.RevHead, zoneText(fmt.Sprintf("zone%02d.example.", i), "2024061501"))
	}

	var baseline *policy.Report
	for _, jobs := range []int{1, 2, 8} {
		r := &Runner{Gateway: g, Checker: okChecker(), Jobs: jobs}
		report, err := r.Run(context.Background(), gitrepo.ModeHook)
		require.NoError(t, err, "jobs=%d", jobs)
		require.Len(t, report.Files, 9)

		if baseline == nil {
			baseline = report
			continue
		}
		for i, f := range report.Files {
			assert.Equal(t, baseline.Files[i].Path, f.Path, "jobs=%d", jobs)
			assert.Equal(t, baseline.Files[i].SerialIncrement.Outcome, f.SerialIncrement.Outcome, "jobs=%d", jobs)
			assert.Equal(t, baseline.Files[i].Failed(), f.Failed(), "jobs=%d", jobs)
		}
		assert.Equal(t, baseline.FailedCount(), report.FailedCount(), "jobs=%d", jobs)
	}
	assert.Equal(t, 3, baseline.FailedCount())
}

func TestRun_UnknownMode(t *testing.T) {
	r := &Runner{Gateway: newFakeGateway(), Checker: okChecker()}
	_, err := r.Run(context.Background(), gitrepo.Mode("release"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
