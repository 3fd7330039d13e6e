package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jroosing/zonegit/internal/api"
	"github.com/jroosing/zonegit/internal/checkzone"
	"github.com/jroosing/zonegit/internal/config"
	"github.com/jroosing/zonegit/internal/gitrepo"
	"github.com/jroosing/zonegit/internal/history"
	"github.com/jroosing/zonegit/internal/logging"
	"github.com/jroosing/zonegit/internal/match"
	"github.com/jroosing/zonegit/internal/policy"
	"github.com/jroosing/zonegit/internal/runner"
)

// runServe starts the report API and blocks until a shutdown signal or a
// server error. Validation runs triggered through POST /check execute in
// ci mode against the repository's HEAD.
func runServe(ctx context.Context, cli *cliFlags) int {
	cfg, repo, err := setup(ctx, cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zonegit: %v\n", err)
		return exitUsage
	}
	logger := logging.Configure(*configureLogging(cfg))

	var ledger *history.DB
	if cfg.History.Enabled {
		ledger, err = history.Open(cfg.HistoryPath(repo.Root()))
		if err != nil {
			logger.Warn("run ledger unavailable", "err", err)
			ledger = nil
		} else {
			defer ledger.Close()
		}
	}

	matcher, err := match.New(cfg.Files.Patterns)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zonegit: %v\n", err)
		return exitUsage
	}

	server := api.New(cfg, ledger, logger)
	server.SetRunFunc(func(runCtx context.Context) (*policy.Report, error) {
		var checker checkzone.Checker
		if !cfg.Checker.Disabled {
			cmd := &checkzone.Command{
				Path:    cfg.Checker.Command,
				Args:    cfg.Checker.Args,
				Timeout: cfg.CheckerTimeout(),
			}
			if cfg.Checker.Fallback == config.FallbackBuiltin {
				checker = &checkzone.Fallback{Primary: cmd, Standby: checkzone.Builtin{}, Logger: logger}
			} else {
				checker = cmd
			}
		}
		r := &runner.Runner{
			Logger:   logger,
			Gateway:  repo,
			Checker:  checker,
			Matcher:  matcher,
			Recorder: recorderOrNil(ledger),
			Jobs:     cfg.Run.Jobs,
		}
		return r.Run(runCtx, gitrepo.ModeCI)
	})

	logger.Info("report api starting", "addr", server.Addr(), "repo", repo.Root())

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()

	select {
	case <-ctx.Done():
		// shutdown requested via signal
	case err := <-errCh:
		if err != nil {
			logger.Error("api server failed", "err", err)
			return exitFail
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown", "err", err)
		return exitFail
	}
	logger.Info("report api stopped")
	return exitOK
}

// recorderOrNil avoids a typed-nil Recorder interface when the ledger is
// disabled.
func recorderOrNil(ledger *history.DB) runner.Recorder {
	if ledger == nil {
		return nil
	}
	return ledger
}
