package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jroosing/zonegit/internal/config"
	"github.com/jroosing/zonegit/internal/gitrepo"
	"github.com/jroosing/zonegit/internal/history"
)

// runHistory prints recent runs from the ledger, or one path's serial
// timeline when -path is given.
func runHistory(ctx context.Context, cli *cliFlags, args []string) int {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	path := fs.String("path", "", "Show the serial timeline of this zone file instead of runs")
	limit := fs.Int("limit", 20, "Maximum entries to show")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	dir := cli.repoDir
	if dir == "" {
		dir = "."
	}
	repo, err := gitrepo.Open(ctx, dir, nil, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zonegit: %v\n", err)
		return exitUsage
	}
	cfg, err := config.Load(config.ResolveConfigPath(cli.configPath, repo.Root()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "zonegit: %v\n", err)
		return exitUsage
	}
	if cli.historyPath != "" {
		cfg.History.Path = cli.historyPath
	}

	ledger, err := history.Open(cfg.HistoryPath(repo.Root()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "zonegit: open run ledger: %v\n", err)
		return exitFail
	}
	defer ledger.Close()

	if *path != "" {
		return printSerialTimeline(ctx, ledger, *path, *limit)
	}
	return printRuns(ctx, ledger, *limit)
}

func printRuns(ctx context.Context, ledger *history.DB, limit int) int {
	runs, err := ledger.ListRuns(ctx, limit, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zonegit: %v\n", err)
		return exitFail
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs")
		return exitOK
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tMODE\tFINISHED\tFILES\tFAILED\tRESULT")
	for _, r := range runs {
		result := "pass"
		if !r.OK {
			result = "fail"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.Mode, r.Finished.Local().Format("2006-01-02 15:04:05"),
			r.FilesTotal, r.FilesFailed, result)
	}
	w.Flush()
	return exitOK
}

func printSerialTimeline(ctx context.Context, ledger *history.DB, path string, limit int) int {
	points, err := ledger.SerialHistory(ctx, path, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zonegit: %v\n", err)
		return exitFail
	}
	if len(points) == 0 {
		fmt.Printf("no recorded serials for %s\n", path)
		return exitOK
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSERIAL\tZONE\tRECORDED")
	for _, p := range points {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			p.RunID, p.Serial, p.Zone, p.Recorded.Local().Format("2006-01-02 15:04:05"))
	}
	w.Flush()
	return exitOK
}
