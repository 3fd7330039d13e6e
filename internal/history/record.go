package history

import (
	"context"
	"fmt"

	"github.com/jroosing/zonegit/internal/policy"
)

// RecordRun stores a finished report and returns the new run id. The run
// row and all file rows commit atomically; a half-recorded run would read
// as a run that validated fewer files than it did.
func (db *DB) RecordRun(ctx context.Context, report *policy.Report) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin run transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (mode, started_at, finished_at, files_total, files_failed, ok)
		VALUES (?, ?, ?, ?, ?, ?)
	`, report.Mode, report.Started.UTC(), report.Finished.UTC(),
		len(report.Files), report.FailedCount(), boolToInt(report.OK()))
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_files (
			run_id, path, zone, serial, unsupported, reason,
			origin_outcome, origin_detail,
			serial_format_outcome, serial_format_detail,
			serial_increment_outcome, serial_increment_detail,
			syntax_outcome, syntax_detail,
			failed
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare file insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range report.Files {
		_, err := stmt.ExecContext(ctx,
			runID, f.Path, f.Zone, f.Serial, boolToInt(f.Unsupported), f.Reason,
			string(f.Origin.Outcome), f.Origin.Detail,
			string(f.SerialFormat.Outcome), f.SerialFormat.Detail,
			string(f.SerialIncrement.Outcome), f.SerialIncrement.Detail,
			string(f.Syntax.Outcome), f.Syntax.Detail,
			boolToInt(f.Failed()),
		)
		if err != nil {
			return 0, fmt.Errorf("insert file %s: %w", f.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit run: %w", err)
	}
	return runID, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
