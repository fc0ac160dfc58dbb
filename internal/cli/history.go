package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/breenix/kconform/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DB    string
	Probe string
	Run   string
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded probe runs",
		Long: `List probe runs recorded with "kconform probe --db", newest first,
or show one run's verdicts with --run.

Examples:
  kconform history --db runs.db
  kconform history --db runs.db --probe identity_test --limit 10
  kconform history --db runs.db --run <run-id>`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "history database path (required)")
	cmd.Flags().StringVar(&opts.Probe, "probe", "", "filter by probe name")
	cmd.Flags().StringVar(&opts.Run, "run", "", "show one run's verdicts")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	if _, err := os.Stat(opts.DB); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("history database not found: %s", opts.DB))
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open history database", err)
	}
	defer st.Close()

	w := cmd.OutOrStdout()
	ctx := cmd.Context()

	if opts.Run != "" {
		run, verdicts, err := st.GetRun(ctx, opts.Run)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read run", err)
		}

		if opts.Format == "json" {
			return writeJSON(w, map[string]any{"run": run, "verdicts": verdicts})
		}

		fmt.Fprintf(w, "%s  %s  recorded %s\n", run.ID, run.Probe,
			run.RecordedAt.Format(time.RFC3339))
		fmt.Fprintf(w, "profile %s\nreport  %s\n\n", run.ProfileFingerprint, run.ReportFingerprint)
		for _, v := range verdicts {
			tag := "PASS"
			if !v.Passed {
				tag = "FAIL"
			}
			fmt.Fprintf(w, "%s %s: %s\n", tag, v.Name, v.Message)
		}
		fmt.Fprintf(w, "%s: %d passed, %d failed\n", run.Probe, run.Passed, run.Failed)
		return nil
	}

	runs, err := st.ListRuns(ctx, opts.Probe, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if opts.Format == "json" {
		return writeJSON(w, runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, run := range runs {
		status := "PASS"
		if !run.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%s  %s  %-13s  %s  %d passed, %d failed\n",
			run.RecordedAt.Format(time.RFC3339), status, run.Probe, run.ID,
			run.Passed, run.Failed)
	}
	return nil
}
