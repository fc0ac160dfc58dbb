package runner

import (
	"fmt"
	"io"

	"github.com/breenix/kconform/internal/record"
)

// Verdict is the result of running one check.
type Verdict struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// Report is the ordered outcome of one probe run.
//
// Invariants: Passed+Failed == len(Verdicts); verdict order matches check
// declaration order.
type Report struct {
	Probe       string    `json:"probe"`
	RunID       string    `json:"run_id"`
	Fingerprint string    `json:"fingerprint"`
	Verdicts    []Verdict `json:"verdicts"`
	Passed      int       `json:"passed"`
	Failed      int       `json:"failed"`

	// Skipped counts checks not attempted after a fatal failure. Skipped
	// checks produce no verdicts and do not enter the summary counts.
	Skipped int `json:"skipped,omitempty"`
}

func (r *Report) append(v Verdict) {
	r.Verdicts = append(r.Verdicts, v)
	if v.Passed {
		r.Passed++
	} else {
		r.Failed++
	}
}

// Pass reports whether every executed check passed.
func (r *Report) Pass() bool {
	return r.Failed == 0
}

// ExitCode maps the report to the process exit code contract:
// 0 = all checks passed, 1 = at least one failure.
func (r *Report) ExitCode() int {
	if r.Pass() {
		return 0
	}
	return 1
}

// Summary returns the trailing summary line. External harnesses scrape this
// exact format; do not change it.
func (r *Report) Summary() string {
	return fmt.Sprintf("%s: %d passed, %d failed", r.Probe, r.Passed, r.Failed)
}

// WriteText renders the human-readable report: one PASS/FAIL line per
// verdict followed by the summary line.
func (r *Report) WriteText(w io.Writer) error {
	for _, v := range r.Verdicts {
		tag := "PASS"
		if !v.Passed {
			tag = "FAIL"
		}
		if _, err := fmt.Fprintf(w, "%s %s: %s\n", tag, v.Name, v.Message); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, r.Summary())
	return err
}

// verdictRecords converts the verdicts to their durable record form.
func (r *Report) verdictRecords() []record.VerdictRecord {
	out := make([]record.VerdictRecord, len(r.Verdicts))
	for i, v := range r.Verdicts {
		out[i] = record.VerdictRecord{
			Ord:     i,
			Name:    v.Name,
			Passed:  v.Passed,
			Message: v.Message,
		}
	}
	return out
}

// RunRecord converts the report to its durable record form for the history
// store. profileFingerprint identifies the fixture the run validated against.
func (r *Report) RunRecord(profileFingerprint string) (record.RunRecord, []record.VerdictRecord) {
	run := record.RunRecord{
		ID:                 r.RunID,
		Probe:              r.Probe,
		ProfileFingerprint: profileFingerprint,
		ReportFingerprint:  r.Fingerprint,
		Passed:             r.Passed,
		Failed:             r.Failed,
		Pass:               r.Pass(),
	}
	return run, r.verdictRecords()
}
