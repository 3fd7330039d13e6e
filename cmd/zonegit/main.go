// zonegit validates DNS zone files before they enter a git repository.
//
// It runs as a pre-commit hook or a CI pipeline stage and enforces four
// policies per changed zone file: the file passes the external syntax
// checker, every $ORIGIN is fully qualified, the SOA serial matches the
// YYYYMMDDNN convention, and the serial strictly increases over the prior
// revision.
//
// Usage:
//
//	zonegit [flags] [check|install-hook|history|serve] [subcommand flags]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/jroosing/zonegit/internal/checkzone"
	"github.com/jroosing/zonegit/internal/config"
	"github.com/jroosing/zonegit/internal/gitrepo"
	"github.com/jroosing/zonegit/internal/history"
	"github.com/jroosing/zonegit/internal/logging"
	"github.com/jroosing/zonegit/internal/match"
	"github.com/jroosing/zonegit/internal/runner"
)

// Exit codes: 0 all checks passed, 1 validation or run failure, 2 usage
// or configuration error.
const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

type cliFlags struct {
	configPath  string
	repoDir     string
	mode        string
	jobs        int
	checkerCmd  string
	checkerTO   time.Duration
	fallback    string
	noChecker   bool
	noHistory   bool
	historyPath string
	jsonLogs    bool
	debug       bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var cli cliFlags
	fs := flag.NewFlagSet("zonegit", flag.ContinueOnError)
	fs.StringVar(&cli.configPath, "config", "", "Path to YAML configuration file (or set ZONEGIT_CONFIG)")
	fs.StringVar(&cli.repoDir, "repo", "", "Repository directory (default: discover from cwd)")
	fs.StringVar(&cli.mode, "mode", "", "Validation mode: auto, hook or ci")
	fs.IntVar(&cli.jobs, "jobs", 0, "Max concurrent file validations (0 = config default)")
	fs.StringVar(&cli.checkerCmd, "checker", "", "Zone syntax checker binary (default named-checkzone)")
	fs.DurationVar(&cli.checkerTO, "checker-timeout", 0, "Per-file checker timeout (0 = config default)")
	fs.StringVar(&cli.fallback, "fallback", "", "Checker fallback when binary missing: builtin or none")
	fs.BoolVar(&cli.noChecker, "no-checker", false, "Skip the external syntax check entirely")
	fs.BoolVar(&cli.noHistory, "no-history", false, "Do not record this run in the ledger")
	fs.StringVar(&cli.historyPath, "history-path", "", "Run ledger location (default .git/zonegit.db)")
	fs.BoolVar(&cli.jsonLogs, "json-logs", false, "Enable JSON structured logging")
	fs.BoolVar(&cli.debug, "debug", false, "Enable debug logging")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	cmd := "check"
	rest := fs.Args()
	if len(rest) > 0 {
		cmd, rest = rest[0], rest[1:]
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch cmd {
	case "check":
		return runCheck(ctx, &cli)
	case "install-hook":
		return runInstallHook(ctx, &cli, rest)
	case "history":
		return runHistory(ctx, &cli, rest)
	case "serve":
		return runServe(ctx, &cli)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (want check, install-hook, history or serve)\n", cmd)
		return exitUsage
	}
}

// setup discovers the repository, loads the layered configuration and
// applies the CLI overrides that beat both file and environment.
func setup(ctx context.Context, cli *cliFlags) (*config.Config, *gitrepo.Repo, error) {
	dir := cli.repoDir
	if dir == "" {
		dir = "."
	}
	repo, err := gitrepo.Open(ctx, dir, nil, nil)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(config.ResolveConfigPath(cli.configPath, repo.Root()))
	if err != nil {
		return nil, nil, err
	}

	if cli.mode != "" {
		cfg.Repo.Mode = cli.mode
	}
	if cli.jobs > 0 {
		cfg.Run.Jobs = cli.jobs
	}
	if cli.checkerCmd != "" {
		cfg.Checker.Command = cli.checkerCmd
	}
	if cli.checkerTO > 0 {
		cfg.Checker.Timeout = cli.checkerTO.String()
	}
	if cli.fallback != "" {
		cfg.Checker.Fallback = cli.fallback
	}
	if cli.noChecker {
		cfg.Checker.Disabled = true
	}
	if cli.noHistory {
		cfg.History.Enabled = false
	}
	if cli.historyPath != "" {
		cfg.History.Path = cli.historyPath
	}
	if cli.jsonLogs {
		cfg.Logging.Format = "json"
	}
	if cli.debug {
		cfg.Logging.Level = "DEBUG"
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, repo, nil
}

func configureLogging(cfg *config.Config) *logging.Config {
	return &logging.Config{
		Level:            cfg.Logging.Level,
		Structured:       cfg.Logging.Format == "json",
		StructuredFormat: cfg.Logging.Format,
		IncludePID:       cfg.Logging.IncludePID,
		ExtraFields:      cfg.Logging.Extra,
	}
}

// resolveMode turns the configured mode into a concrete one. Auto mirrors
// the classic hook trick: a binary invoked out of .git/hooks is the hook,
// anything else is a pipeline stage.
func resolveMode(configured string) gitrepo.Mode {
	switch configured {
	case config.ModeHook:
		return gitrepo.ModeHook
	case config.ModeCI:
		return gitrepo.ModeCI
	}
	argv0 := os.Args[0]
	if filepath.Base(argv0) == "pre-commit" ||
		strings.Contains(argv0, filepath.Join(".git", "hooks")) {
		return gitrepo.ModeHook
	}
	return gitrepo.ModeCI
}

func runCheck(ctx context.Context, cli *cliFlags) int {
	cfg, repo, err := setup(ctx, cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zonegit: %v\n", err)
		return exitUsage
	}
	logger := logging.Configure(*configureLogging(cfg))
	mode := resolveMode(cfg.Repo.Mode)

	matcher, err := match.New(cfg.Files.Patterns)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zonegit: %v\n", err)
		return exitUsage
	}

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

	var recorder runner.Recorder
	if cfg.History.Enabled {
		ledger, err := history.Open(cfg.HistoryPath(repo.Root()))
		if err != nil {
			logger.Warn("run ledger unavailable, not recording", "err", err)
		} else {
			defer ledger.Close()
			recorder = ledger
		}
	}

	r := &runner.Runner{
		Logger:   logger,
		Gateway:  repo,
		Checker:  checker,
		Matcher:  matcher,
		Recorder: recorder,
		Jobs:     cfg.Run.Jobs,
	}

	report, err := r.Run(ctx, mode)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "zonegit: interrupted")
			return exitFail
		}
		fmt.Fprintf(os.Stderr, "zonegit: %v\n", err)
		return exitFail
	}

	report.WriteText(os.Stdout)
	if !report.OK() {
		return exitFail
	}
	return exitOK
}
