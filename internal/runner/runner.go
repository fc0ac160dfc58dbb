// Package runner executes an ordered list of conformance checks against
// kernel-provided state and reduces the verdicts to a report.
//
// Checks are declarative data. Each one observes a single piece of kernel
// state and verifies it against a fixture expectation; the runner owns all
// pass/fail accounting so the four probe domains share one copy of it.
//
// Execution is strictly sequential on the calling goroutine. Several checks
// mutate process-wide kernel state as part of observation (the umask
// round-trip), so declaration order is part of a probe's contract and checks
// must never run concurrently or be reordered.
package runner

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/breenix/kconform/internal/record"
)

// Observation is the result of one check's observe step.
type Observation struct {
	// Value is the observed value under test, already formatted for
	// diagnostics and for the check's Verify predicate.
	Value string

	// Detail carries observed context that is reported but not asserted
	// (hard limit values, uname fields without fixture expectations).
	Detail string
}

// Check is a named unit of verification.
type Check struct {
	// Name identifies the assertion in output.
	Name string

	// Expected describes the passing condition, used verbatim in failure
	// diagnostics ("want <Expected>").
	Expected string

	// Observe queries kernel state. An error means the value could not be
	// obtained at all (absent record, failed syscall); the check fails with
	// the error as diagnostic and Verify is not consulted.
	Observe func() (Observation, error)

	// Verify judges the observed value.
	Verify func(value string) bool

	// Fatal marks a check whose failure makes the remaining checks
	// meaningless (the uname query: without its result there are no fields
	// to assert on). When a fatal check fails the run stops; skipped checks
	// are not attempted and not counted.
	Fatal bool
}

// Runner executes checks. The zero value is not usable; use New.
type Runner struct {
	logger *slog.Logger
}

// New creates a Runner. A nil logger discards per-check logging.
func New(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{logger: logger}
}

// Run executes all checks in declaration order and is a convenience for
// New(nil).Run.
func Run(probe string, checks []Check) *Report {
	return New(nil).Run(probe, checks)
}

// Run executes each check's observe then verify step in order, producing
// exactly one verdict per executed check. No failure aborts the run except a
// failing Fatal check; a conformance probe's job is to maximize the
// information reported per invocation.
func (r *Runner) Run(probe string, checks []Check) *Report {
	rep := &Report{
		Probe: probe,
		RunID: uuid.Must(uuid.NewV7()).String(),
	}

	for i, c := range checks {
		v := runCheck(c)
		rep.append(v)

		r.logger.Info("check completed",
			"probe", probe,
			"check", c.Name,
			"passed", v.Passed,
			"message", v.Message,
		)

		if c.Fatal && !v.Passed {
			rep.Skipped = len(checks) - i - 1
			r.logger.Warn("fatal check failed, skipping remainder",
				"probe", probe,
				"check", c.Name,
				"skipped", rep.Skipped,
			)
			break
		}
	}

	fp, err := record.ReportFingerprint(probe, rep.verdictRecords())
	if err != nil {
		// Verdicts are plain strings and bools; canonical marshaling of them
		// cannot fail. Surface it in the report rather than dropping it.
		fp = fmt.Sprintf("error: %v", err)
	}
	rep.Fingerprint = fp

	return rep
}

// runCheck produces the verdict for a single check. Observe errors, absent
// values and mismatches all collapse to a failed verdict with a
// distinguishing message; none propagate.
func runCheck(c Check) Verdict {
	obs, err := c.Observe()
	if err != nil {
		return Verdict{
			Name:    c.Name,
			Passed:  false,
			Message: fmt.Sprintf("%v, want %s", err, c.Expected),
		}
	}

	observed := "observed " + obs.Value
	if obs.Detail != "" {
		observed += " (" + obs.Detail + ")"
	}

	if !c.Verify(obs.Value) {
		return Verdict{
			Name:    c.Name,
			Passed:  false,
			Message: fmt.Sprintf("%s, want %s", observed, c.Expected),
		}
	}

	return Verdict{Name: c.Name, Passed: true, Message: observed}
}
