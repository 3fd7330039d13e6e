// Package runner orchestrates a validation run: enumerate the files the
// revision touches, fan the checks out over a bounded worker pool, and
// assemble a report in enumeration order. Check categories are
// independent; one failing never suppresses another, and one broken file
// never stops the rest of the run.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/jroosing/zonegit/internal/checkzone"
	"github.com/jroosing/zonegit/internal/gitrepo"
	"github.com/jroosing/zonegit/internal/match"
	"github.com/jroosing/zonegit/internal/policy"
	"github.com/jroosing/zonegit/internal/zonefile"
)

// DefaultJobs bounds concurrent file validations when not configured.
const DefaultJobs = 4

// Gateway is the slice of repository access the runner needs.
type Gateway interface {
	Root() string
	HistoryDepth(ctx context.Context, mode gitrepo.Mode) (int, error)
	ChangedFiles(ctx context.Context, mode gitrepo.Mode) ([]string, error)
	ListTracked(ctx context.Context) ([]string, error)
	Show(ctx context.Context, path string, rev gitrepo.Rev) ([]byte, error)
}

// Recorder persists finished runs to the run ledger.
type Recorder interface {
	RecordRun(ctx context.Context, report *policy.Report) (int64, error)
}

// Runner validates the zone files of one revision.
type Runner struct {
	Logger   *slog.Logger
	Gateway  Gateway
	Checker  checkzone.Checker // nil skips the external syntax check
	Matcher  *match.Matcher    // nil uses match.Default()
	Recorder Recorder          // nil disables the run ledger
	Jobs     int               // max concurrent files; <=0 uses DefaultJobs
}

// Run validates every zone file the mode's revision pair touches. The
// report lists files in enumeration order regardless of which worker
// finished first. On cancellation the partial report of completed files
// is returned together with the context error; a checker that cannot run
// at all aborts the whole run.
func (r *Runner) Run(ctx context.Context, mode gitrepo.Mode) (*policy.Report, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	report := &policy.Report{Mode: string(mode), Started: time.Now()}

	depth, err := r.Gateway.HistoryDepth(ctx, mode)
	if err != nil {
		return nil, fmt.Errorf("determine history depth: %w", err)
	}

	// With no prior revision there is nothing to diff against, so every
	// tracked file is a candidate.
	var candidates []string
	if depth == 0 {
		candidates, err = r.Gateway.ListTracked(ctx)
	} else {
		candidates, err = r.Gateway.ChangedFiles(ctx, mode)
	}
	if err != nil {
		return nil, fmt.Errorf("enumerate files: %w", err)
	}

	matcher := r.Matcher
	if matcher == nil {
		matcher = match.Default()
	}
	files := matcher.Filter(candidates)
	if len(files) == 0 {
		report.Finished = time.Now()
		r.logInfo("no zone files to validate", "mode", mode, "candidates", len(candidates))
		return report, nil
	}

	jobs := r.Jobs
	if jobs <= 0 {
		jobs = DefaultJobs
	}
	if jobs > len(files) {
		jobs = len(files)
	}
	r.logInfo("validating zone files",
		"mode", mode, "files", len(files), "jobs", jobs, "history_depth", depth)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// One slot per enumerated file: a worker writes its own slot exactly
	// once, so collection needs no lock and order is preserved. Slots
	// left nil belong to files whose validation never completed.
	results := make([]*policy.FileResult, len(files))
	sem := make(chan struct{}, jobs)
	var wg sync.WaitGroup

	var fatalMu sync.Mutex
	var fatal error
	abort := func(err error) {
		fatalMu.Lock()
		if fatal == nil {
			fatal = err
			cancel()
		}
		fatalMu.Unlock()
	}

dispatch:
	for i, path := range files {
		select {
		case sem <- struct{}{}:
		case <-runCtx.Done():
			break dispatch
		}
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()
			res, err := r.validate(runCtx, mode, depth, path)
			if err != nil {
				if errors.Is(err, checkzone.ErrUnavailable) {
					abort(err)
				}
				return
			}
			results[i] = res
		}(i, path)
	}
	wg.Wait()

	for _, res := range results {
		if res != nil {
			report.Files = append(report.Files, *res)
		}
	}
	report.Finished = time.Now()

	if fatal != nil {
		return nil, fatal
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	r.record(ctx, report)
	r.logInfo("validation finished",
		"mode", mode,
		"files", len(report.Files),
		"failed", report.FailedCount(),
		"elapsed", report.Finished.Sub(report.Started).Round(time.Millisecond).String(),
	)
	return report, nil
}

// validate produces the verdicts for one file. A nil result with a nil
// error never happens; a non-nil error is either cancellation or a
// run-wide abort.
func (r *Runner) validate(ctx context.Context, mode gitrepo.Mode, depth int, path string) (*policy.FileResult, error) {
	fr := &policy.FileResult{Path: path}

	content, err := r.Gateway.Show(ctx, path, gitrepo.CurrentRev(mode))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		v := policy.Errored(fmt.Sprintf("read %s: %v", gitrepo.CurrentRev(mode), err))
		fr.Origin, fr.SerialFormat, fr.SerialIncrement, fr.Syntax = v, v, v, v
		return fr, nil
	}

	zf, perr := zonefile.ParseBytes(content)
	fr.Origin = policy.CheckOrigins(zf.Origins)
	if perr != nil {
		fr.Syntax = policy.Fail("zone parse: " + perr.Error())
		na := policy.NotApplicable("file failed to parse")
		fr.SerialFormat, fr.SerialIncrement = na, na
		return fr, nil
	}
	if zf.SOA == nil {
		fr.Unsupported = true
		fr.Reason = "no SOA record"
		na := policy.NotApplicable(fr.Reason)
		fr.SerialFormat, fr.SerialIncrement, fr.Syntax = na, na, na
		return fr, nil
	}
	zone, ok := zf.Name()
	if !ok {
		fr.Unsupported = true
		fr.Reason = "cannot determine zone name: no fully qualified $ORIGIN or SOA owner"
		fr.Serial = zf.SOA.Serial
		na := policy.NotApplicable("zone name undefined")
		fr.SerialFormat, fr.SerialIncrement, fr.Syntax = na, na, na
		return fr, nil
	}

	fr.Zone = zone
	fr.Serial = zf.SOA.Serial
	fr.SerialFormat = policy.CheckSerialFormat(zf.SOA.Serial)

	fr.SerialIncrement, err = r.incrementVerdict(ctx, mode, depth, path, zf.SOA.Serial)
	if err != nil {
		return nil, err
	}
	fr.Syntax, err = r.syntaxVerdict(ctx, zone, path)
	if err != nil {
		return nil, err
	}
	return fr, nil
}

func (r *Runner) incrementVerdict(ctx context.Context, mode gitrepo.Mode, depth int, path, serial string) (policy.Verdict, error) {
	if depth == 0 {
		return policy.Skip("no prior revision"), nil
	}
	prior, err := r.Gateway.Show(ctx, path, gitrepo.PriorRev(mode))
	if errors.Is(err, gitrepo.ErrNotFound) {
		return policy.Skip("no prior revision"), nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return policy.Verdict{}, ctx.Err()
		}
		return policy.Errored("read prior revision: " + err.Error()), nil
	}

	pf, perr := zonefile.ParseBytes(prior)
	if perr != nil {
		// The commit under validation may be the fix for that breakage,
		// so an unusable baseline skips the check rather than failing it.
		return policy.Skip("prior revision unparseable: " + perr.Error()), nil
	}
	if pf.SOA == nil {
		return policy.Skip("prior revision has no SOA record"), nil
	}
	return policy.CheckSerialIncrement(serial, pf.SOA.Serial), nil
}

func (r *Runner) syntaxVerdict(ctx context.Context, zone, path string) (policy.Verdict, error) {
	if r.Checker == nil {
		return policy.Skip("syntax checking disabled"), nil
	}
	res, err := r.Checker.Check(ctx, zone, filepath.Join(r.Gateway.Root(), path))
	if err != nil {
		if errors.Is(err, checkzone.ErrUnavailable) {
			return policy.Verdict{}, err
		}
		if ctx.Err() != nil {
			return policy.Verdict{}, ctx.Err()
		}
		return policy.Errored("checker: " + err.Error()), nil
	}
	if !res.OK {
		return policy.Fail(res.Output), nil
	}
	return policy.Pass(), nil
}

// record writes the report to the ledger. Ledger trouble never fails a
// validation run; the verdicts still stand.
func (r *Runner) record(ctx context.Context, report *policy.Report) {
	if r.Recorder == nil || len(report.Files) == 0 {
		return
	}
	id, err := r.Recorder.RecordRun(ctx, report)
	if err != nil {
		if r.Logger != nil {
			r.Logger.Warn("cannot record run", "err", err)
		}
		return
	}
	r.logInfo("run recorded", "run_id", id)
}

func (r *Runner) logInfo(msg string, args ...any) {
	if r.Logger != nil {
		r.Logger.Info(msg, args...)
	}
}
