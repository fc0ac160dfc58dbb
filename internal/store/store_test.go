package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breenix/kconform/internal/record"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleRun(probe string, at time.Time) (record.RunRecord, []record.VerdictRecord) {
	run := record.RunRecord{
		ID:                 uuid.Must(uuid.NewV7()).String(),
		Probe:              probe,
		ProfileFingerprint: "profile-fp",
		ReportFingerprint:  "report-fp",
		Passed:             7,
		Failed:             1,
		Pass:               false,
		RecordedAt:         at,
	}
	verdicts := []record.VerdictRecord{
		{Ord: 0, Name: "uid", Passed: true, Message: "observed 0"},
		{Ord: 1, Name: "egid", Passed: false, Message: "observed 1000, want 0"},
	}
	return run, verdicts
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())
}

func TestWriteAndGetRun(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	run, verdicts := sampleRun("identity_test", time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, st.WriteRun(ctx, run, verdicts))

	got, gotVerdicts, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)

	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "identity_test", got.Probe)
	assert.Equal(t, "profile-fp", got.ProfileFingerprint)
	assert.Equal(t, "report-fp", got.ReportFingerprint)
	assert.Equal(t, 7, got.Passed)
	assert.Equal(t, 1, got.Failed)
	assert.False(t, got.Pass)
	assert.True(t, got.RecordedAt.Equal(run.RecordedAt))

	require.Len(t, gotVerdicts, 2)
	assert.Equal(t, verdicts, gotVerdicts)
}

func TestWriteRunIdempotent(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	run, verdicts := sampleRun("identity_test", time.Now())
	require.NoError(t, st.WriteRun(ctx, run, verdicts))
	// Re-recording the same run is a no-op, not a constraint violation.
	require.NoError(t, st.WriteRun(ctx, run, verdicts))

	runs, err := st.ListRuns(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	_, gotVerdicts, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Len(t, gotVerdicts, 2)
}

func TestWriteRunDefaultsRecordedAt(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	run, verdicts := sampleRun("env_test", time.Time{})
	before := time.Now().Add(-time.Second)
	require.NoError(t, st.WriteRun(ctx, run, verdicts))

	got, _, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.True(t, got.RecordedAt.After(before))
}

func TestListRunsNewestFirst(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		run, verdicts := sampleRun("uname_test", base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, st.WriteRun(ctx, run, verdicts))
		ids = append(ids, run.ID)
	}

	runs, err := st.ListRuns(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[0], runs[2].ID)
}

func TestListRunsFilterAndLimit(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	now := time.Now()
	for i, probe := range []string{"env_test", "identity_test", "env_test"} {
		run, verdicts := sampleRun(probe, now.Add(time.Duration(i)*time.Minute))
		require.NoError(t, st.WriteRun(ctx, run, verdicts))
	}

	envRuns, err := st.ListRuns(ctx, "env_test", 0)
	require.NoError(t, err)
	assert.Len(t, envRuns, 2)
	for _, run := range envRuns {
		assert.Equal(t, "env_test", run.Probe)
	}

	limited, err := st.ListRuns(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestGetRunNotFound(t *testing.T) {
	st := openTestStore(t)

	_, _, err := st.GetRun(context.Background(), "missing-id")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRunNotFound)
}
