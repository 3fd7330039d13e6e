package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Run is one recorded validation run.
type Run struct {
	ID          int64     `json:"id"`
	Mode        string    `json:"mode"`
	Started     time.Time `json:"started"`
	Finished    time.Time `json:"finished"`
	FilesTotal  int       `json:"files_total"`
	FilesFailed int       `json:"files_failed"`
	OK          bool      `json:"ok"`
}

// FileRow is one file's recorded verdicts within a run.
type FileRow struct {
	RunID       int64  `json:"run_id"`
	Path        string `json:"path"`
	Zone        string `json:"zone,omitempty"`
	Serial      string `json:"serial,omitempty"`
	Unsupported bool   `json:"unsupported,omitempty"`
	Reason      string `json:"reason,omitempty"`

	OriginOutcome          string `json:"origin_trailing_dot"`
	OriginDetail           string `json:"origin_detail,omitempty"`
	SerialFormatOutcome    string `json:"serial_format"`
	SerialFormatDetail     string `json:"serial_format_detail,omitempty"`
	SerialIncrementOutcome string `json:"serial_increment"`
	SerialIncrementDetail  string `json:"serial_increment_detail,omitempty"`
	SyntaxOutcome          string `json:"external_syntax"`
	SyntaxDetail           string `json:"syntax_detail,omitempty"`

	Failed bool `json:"failed"`
}

// SerialPoint is one step of a file's serial timeline.
type SerialPoint struct {
	RunID    int64     `json:"run_id"`
	Serial   string    `json:"serial"`
	Zone     string    `json:"zone,omitempty"`
	Recorded time.Time `json:"recorded"`
}

// ListRuns returns recorded runs, newest first.
func (db *DB) ListRuns(ctx context.Context, limit, offset int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, mode, started_at, finished_at, files_total, files_failed, ok
		FROM runs ORDER BY id DESC LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var ok int
		if err := rows.Scan(&r.ID, &r.Mode, &r.Started, &r.Finished,
			&r.FilesTotal, &r.FilesFailed, &ok); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.OK = ok != 0
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns one run by id, or ErrNoRun.
func (db *DB) GetRun(ctx context.Context, id int64) (Run, error) {
	var r Run
	var ok int
	err := db.conn.QueryRowContext(ctx, `
		SELECT id, mode, started_at, finished_at, files_total, files_failed, ok
		FROM runs WHERE id = ?
	`, id).Scan(&r.ID, &r.Mode, &r.Started, &r.Finished, &r.FilesTotal, &r.FilesFailed, &ok)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNoRun
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %d: %w", id, err)
	}
	r.OK = ok != 0
	return r, nil
}

const fileColumns = `
	run_id, path, zone, serial, unsupported, reason,
	origin_outcome, origin_detail,
	serial_format_outcome, serial_format_detail,
	serial_increment_outcome, serial_increment_detail,
	syntax_outcome, syntax_detail,
	failed`

// RunFiles returns the per-file verdicts of one run in recorded order.
func (db *DB) RunFiles(ctx context.Context, runID int64) ([]FileRow, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+fileColumns+` FROM run_files WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("run %d files: %w", runID, err)
	}
	defer rows.Close()
	return scanFileRows(rows)
}

// LatestFiles returns, for every path ever validated, its verdicts from
// the most recent run that touched it.
func (db *DB) LatestFiles(ctx context.Context) ([]FileRow, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+fileColumns+` FROM run_files
		WHERE id IN (SELECT MAX(id) FROM run_files GROUP BY path)
		ORDER BY path
	`)
	if err != nil {
		return nil, fmt.Errorf("latest files: %w", err)
	}
	defer rows.Close()
	return scanFileRows(rows)
}

// SerialHistory returns a path's recorded serials, newest first.
func (db *DB) SerialHistory(ctx context.Context, path string, limit int) ([]SerialPoint, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.QueryContext(ctx, `
		SELECT f.run_id, f.serial, f.zone, r.finished_at
		FROM run_files f JOIN runs r ON r.id = f.run_id
		WHERE f.path = ? AND f.serial != ''
		ORDER BY f.id DESC LIMIT ?
	`, path, limit)
	if err != nil {
		return nil, fmt.Errorf("serial history %s: %w", path, err)
	}
	defer rows.Close()

	var points []SerialPoint
	for rows.Next() {
		var p SerialPoint
		if err := rows.Scan(&p.RunID, &p.Serial, &p.Zone, &p.Recorded); err != nil {
			return nil, fmt.Errorf("scan serial point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func scanFileRows(rows *sql.Rows) ([]FileRow, error) {
	var files []FileRow
	for rows.Next() {
		var f FileRow
		var unsupported, failed int
		err := rows.Scan(
			&f.RunID, &f.Path, &f.Zone, &f.Serial, &unsupported, &f.Reason,
			&f.OriginOutcome, &f.OriginDetail,
			&f.SerialFormatOutcome, &f.SerialFormatDetail,
			&f.SerialIncrementOutcome, &f.SerialIncrementDetail,
			&f.SyntaxOutcome, &f.SyntaxDetail,
			&failed,
		)
		if err != nil {
			return nil, fmt.Errorf("scan file row: %w", err)
		}
		f.Unsupported = unsupported != 0
		f.Failed = failed != 0
		files = append(files, f)
	}
	return files, rows.Err()
}
