// Command uname_test is the standalone system identification probe. It
// requires the uname query to succeed and the sysname and machine fields to
// match the fixture profile; other fields are reported only. Exits 0 iff
// every executed check passed.
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
		fmt.Fprintf(os.Stderr, "%s: %v\n", probe.UnameProbe, err)
		os.Exit(2)
	}

	rep := runner.Run(probe.UnameProbe, probe.Uname(kernel.Live(), p))
	rep.WriteText(os.Stdout)
	os.Exit(rep.ExitCode())
}
