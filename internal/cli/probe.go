package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/breenix/kconform/internal/fixture"
	"github.com/breenix/kconform/internal/kernel"
	"github.com/breenix/kconform/internal/probe"
	"github.com/breenix/kconform/internal/runner"
	"github.com/breenix/kconform/internal/store"
)

// ProbeOptions holds flags for the probe command.
type ProbeOptions struct {
	*RootOptions
	Profile string
	DB      string

	// Surface overrides the kernel boundary; nil means the live kernel.
	// Set by tests.
	Surface kernel.Surface
}

// NewProbeCommand creates the probe command.
func NewProbeCommand(rootOpts *RootOptions) *cobra.Command {
	return newProbeCommand(&ProbeOptions{RootOptions: rootOpts})
}

// newProbeCommand builds the command from pre-populated options; tests use
// it to inject a fake kernel surface.
func newProbeCommand(opts *ProbeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe [env|identity|rlimit|uname|all]",
		Short: "Run conformance probes against the live kernel",
		Long: `Run one probe domain, or all four, against the running kernel and
report pass/fail per check.

Exit codes:
  0 - All checks passed
  1 - One or more checks failed
  2 - Command error (unknown probe, unreadable profile, etc.)

Examples:
  kconform probe all
  kconform probe identity --profile profiles/breenix-qemu.yaml
  kconform probe rlimit --db runs.db
  kconform probe uname --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "all"
			if len(args) == 1 {
				target = args[0]
			}
			return runProbes(opts, target, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Profile, "profile", "", "fixture profile YAML (default: built-in profile)")
	cmd.Flags().StringVar(&opts.DB, "db", "", "record runs to this history database")

	return cmd
}

// probeAliases maps command argument spellings to probe names.
var probeAliases = map[string]string{
	"env":      probe.EnvProbe,
	"identity": probe.IdentityProbe,
	"rlimit":   probe.RlimitProbe,
	"uname":    probe.UnameProbe,
}

func runProbes(opts *ProbeOptions, target string, cmd *cobra.Command) error {
	names, err := resolveTarget(target)
	if err != nil {
		return err
	}

	profile, profileFP, err := resolveProfile(opts.Profile)
	if err != nil {
		return err
	}

	surf := opts.Surface
	if surf == nil {
		surf = kernel.Live()
	}

	var st *store.Store
	if opts.DB != "" {
		st, err = store.Open(opts.DB)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open history database", err)
		}
		defer st.Close()
	}

	run := runner.New(probeLogger(opts, cmd.ErrOrStderr()))
	w := cmd.OutOrStdout()

	var reports []*runner.Report
	failed := 0
	for i, name := range names {
		builder, _ := probe.Lookup(name)
		rep := run.Run(name, builder(surf, profile))
		reports = append(reports, rep)
		if !rep.Pass() {
			failed++
		}

		if opts.Format != "json" {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if err := rep.WriteText(w); err != nil {
				return err
			}
		}

		if st != nil {
			runRec, verdicts := rep.RunRecord(profileFP)
			if err := st.WriteRun(cmd.Context(), runRec, verdicts); err != nil {
				return WrapExitError(ExitCommandError, "failed to record run", err)
			}
		}
	}

	if opts.Format == "json" {
		if err := writeJSON(w, reports); err != nil {
			return err
		}
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d probes failed", failed, len(names)))
	}
	return nil
}

// resolveTarget expands "all" and validates the probe name.
func resolveTarget(target string) ([]string, error) {
	if target == "all" {
		return probe.Names(), nil
	}
	name, ok := probeAliases[target]
	if !ok {
		// Accept the full probe name too (e.g. "identity_test").
		if _, found := probe.Lookup(target); found {
			return []string{target}, nil
		}
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("unknown probe %q", target))
	}
	return []string{name}, nil
}

// resolveProfile loads the named profile file or falls back to the built-in
// default, returning the profile and its fingerprint.
func resolveProfile(path string) (*fixture.Profile, string, error) {
	var p *fixture.Profile
	if path == "" {
		p = fixture.Default()
	} else {
		loaded, err := fixture.Load(path)
		if err != nil {
			return nil, "", WrapExitError(ExitCommandError, "failed to load profile", err)
		}
		p = loaded
	}

	fp, err := p.Fingerprint()
	if err != nil {
		return nil, "", WrapExitError(ExitCommandError, "failed to fingerprint profile", err)
	}
	return p, fp, nil
}

// probeLogger returns a per-check logger, discarding unless --verbose.
func probeLogger(opts *ProbeOptions, errW io.Writer) *slog.Logger {
	if !opts.Verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(errW, nil))
}
