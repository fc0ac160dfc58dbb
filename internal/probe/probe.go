// Package probe defines the four conformance probes as declarative check
// sets over a kernel surface and a fixture profile.
//
// Each probe corresponds to one process in the original deployment model
// (one binary per domain); the CLI can also run them all in one process.
// Probe names appear verbatim in the summary line external harnesses scrape.
package probe

import (
	"github.com/breenix/kconform/internal/fixture"
	"github.com/breenix/kconform/internal/kernel"
	"github.com/breenix/kconform/internal/runner"
)

// Probe names, as reported in summary lines.
const (
	EnvProbe      = "env_test"
	IdentityProbe = "identity_test"
	RlimitProbe   = "rlimit_test"
	UnameProbe    = "uname_test"
)

// Builder constructs the ordered check list for one probe.
type Builder func(kernel.Surface, *fixture.Profile) []runner.Check

var builders = map[string]Builder{
	EnvProbe:      Environment,
	IdentityProbe: Identity,
	RlimitProbe:   Rlimits,
	UnameProbe:    Uname,
}

// Names returns all probe names in canonical execution order.
func Names() []string {
	return []string{EnvProbe, IdentityProbe, RlimitProbe, UnameProbe}
}

// Lookup returns the builder for a probe name.
func Lookup(name string) (Builder, bool) {
	b, ok := builders[name]
	return b, ok
}
