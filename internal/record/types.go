package record

import "time"

// RunRecord is one probe run as persisted in the history store.
type RunRecord struct {
	// ID is a UUIDv7 generated at run time.
	ID string

	// Probe is the probe name, e.g. "identity_test".
	Probe string

	// ProfileFingerprint identifies the fixture profile the run validated
	// against. Runs are only comparable when their profile fingerprints match.
	ProfileFingerprint string

	// ReportFingerprint is the content-addressed identity of the verdicts.
	ReportFingerprint string

	Passed int
	Failed int

	// Pass is true iff Failed == 0.
	Pass bool

	RecordedAt time.Time
}

// VerdictRecord is one verdict within a run, in check declaration order.
type VerdictRecord struct {
	// Ord is the zero-based position of the check within the probe.
	Ord int

	Name    string
	Passed  bool
	Message string
}
