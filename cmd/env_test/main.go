// Command env_test is the standalone environment propagation probe.
// It validates the process environment the kernel hands a fresh process
// against the fixture profile and exits 0 iff every check passed.
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
		fmt.Fprintf(os.Stderr, "%s: %v\n", probe.EnvProbe, err)
		os.Exit(2)
	}

	rep := runner.Run(probe.EnvProbe, probe.Environment(kernel.Live(), p))
	rep.WriteText(os.Stdout)
	os.Exit(rep.ExitCode())
}
