package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/breenix/kconform/internal/record"
)

// WriteRun inserts one run and its verdicts atomically. Duplicate run IDs
// are silently ignored (idempotent re-record of the same run); a zero
// RecordedAt defaults to the current time.
func (s *Store) WriteRun(ctx context.Context, run record.RunRecord, verdicts []record.VerdictRecord) error {
	recordedAt := run.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	return s.tx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO runs
			(id, probe, profile_fingerprint, report_fingerprint, passed, failed, pass, recorded_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`,
			run.ID,
			run.Probe,
			run.ProfileFingerprint,
			run.ReportFingerprint,
			run.Passed,
			run.Failed,
			run.Pass,
			recordedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("write run: %w", err)
		}

		// Conflict means this run is already recorded, verdicts included.
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return nil
		}

		for _, v := range verdicts {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO verdicts (run_id, ord, name, passed, message)
				VALUES (?, ?, ?, ?, ?)
			`, run.ID, v.Ord, v.Name, v.Passed, v.Message); err != nil {
				return fmt.Errorf("write verdict %d: %w", v.Ord, err)
			}
		}
		return nil
	})
}
