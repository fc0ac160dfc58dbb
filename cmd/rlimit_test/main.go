// Command rlimit_test is the standalone resource limit probe. It validates
// the soft stack and open-file limits a fresh process starts with and exits
// 0 iff every check passed.
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
		fmt.Fprintf(os.Stderr, "%s: %v\n", probe.RlimitProbe, err)
		os.Exit(2)
	}

	rep := runner.Run(probe.RlimitProbe, probe.Rlimits(kernel.Live(), p))
	rep.WriteText(os.Stdout)
	os.Exit(rep.ExitCode())
}
