package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/breenix/kconform/internal/record"
)

// ErrRunNotFound is returned by GetRun for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// ListRuns returns recorded runs, newest first. probe filters to one probe
// name when non-empty; limit caps the result when positive.
func (s *Store) ListRuns(ctx context.Context, probe string, limit int) ([]record.RunRecord, error) {
	query := `
		SELECT id, probe, profile_fingerprint, report_fingerprint, passed, failed, pass, recorded_at
		FROM runs
	`
	var args []any
	if probe != "" {
		query += " WHERE probe = ?"
		args = append(args, probe)
	}
	// id is a UUIDv7, so it tiebreaks equal timestamps in creation order.
	query += " ORDER BY recorded_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []record.RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one run and its verdicts in check declaration order.
func (s *Store) GetRun(ctx context.Context, id string) (record.RunRecord, []record.VerdictRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, probe, profile_fingerprint, report_fingerprint, passed, failed, pass, recorded_at
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return record.RunRecord{}, nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return record.RunRecord{}, nil, fmt.Errorf("get run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT ord, name, passed, message
		FROM verdicts WHERE run_id = ?
		ORDER BY ord ASC
	`, id)
	if err != nil {
		return record.RunRecord{}, nil, fmt.Errorf("get run verdicts: %w", err)
	}
	defer rows.Close()

	var verdicts []record.VerdictRecord
	for rows.Next() {
		var v record.VerdictRecord
		if err := rows.Scan(&v.Ord, &v.Name, &v.Passed, &v.Message); err != nil {
			return record.RunRecord{}, nil, fmt.Errorf("get run verdicts: %w", err)
		}
		verdicts = append(verdicts, v)
	}
	if err := rows.Err(); err != nil {
		return record.RunRecord{}, nil, fmt.Errorf("get run verdicts: %w", err)
	}

	return run, verdicts, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (record.RunRecord, error) {
	var run record.RunRecord
	var recordedAt string
	if err := s.Scan(
		&run.ID,
		&run.Probe,
		&run.ProfileFingerprint,
		&run.ReportFingerprint,
		&run.Passed,
		&run.Failed,
		&run.Pass,
		&recordedAt,
	); err != nil {
		return record.RunRecord{}, err
	}

	t, err := time.Parse(time.RFC3339Nano, recordedAt)
	if err != nil {
		return record.RunRecord{}, fmt.Errorf("parse recorded_at %q: %w", recordedAt, err)
	}
	run.RecordedAt = t
	return run, nil
}
