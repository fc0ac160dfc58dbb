// Command identity_test is the standalone process identity probe: real and
// effective uid/gid, the umask round trip, and passwd/group lookups of the
// privileged identity. Exits 0 iff every check passed.
//
// Set KCONFORM_PROFILE to a profile file to validate a different build.
package main

import (
	"fmt"
	"os"

	"github.com/breenix/kconform/internal/fixture"
	"github.com/breenix/kconform/internal/kernel"
	"github.com/breenix/kconform/internal/probe"
	"github.com/breenix/kconform/internal/runner"
)

func main() {
	p, err := fixture.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", probe.IdentityProbe, err)
		os.Exit(2)
	}

	rep := runner.Run(probe.IdentityProbe, probe.Identity(kernel.Live(), p))
	rep.WriteText(os.Stdout)
	os.Exit(rep.ExitCode())
}
