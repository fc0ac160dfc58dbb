package probe

import (
	"fmt"
	"strconv"

	"github.com/breenix/kconform/internal/fixture"
	"github.com/breenix/kconform/internal/kernel"
	"github.com/breenix/kconform/internal/runner"
)

// Uname builds the system identification checks. The first check performs
// the actual uname query and is fatal: if the query fails outright there are
// no fields to assert on, so the remaining checks are skipped rather than
// reported as individual failures. The field checks read the result captured
// by the query check.
//
// Nodename, release and version vary per build; they are reported in the
// query check's diagnostic but never asserted.
func Uname(surf kernel.Surface, p *fixture.Profile) []runner.Check {
	var uts kernel.Utsname

	return []runner.Check{
		{
			Name:     "uname",
			Expected: "successful query",
			Fatal:    true,
			Observe: func() (runner.Observation, error) {
				u, err := surf.Uname()
				if err != nil {
					return runner.Observation{}, err
				}
				uts = u
				return runner.Observation{
					Value: "ok",
					Detail: fmt.Sprintf("node %s release %s version %s",
						uts.Nodename, uts.Release, uts.Version),
				}, nil
			},
			Verify: func(string) bool { return true },
		},
		{
			Name:     "sysname",
			Expected: strconv.Quote(p.Uname.Sysname),
			Observe: func() (runner.Observation, error) {
				return runner.Observation{Value: uts.Sysname}, nil
			},
			Verify: func(v string) bool { return v == p.Uname.Sysname },
		},
		{
			Name:     "machine",
			Expected: strconv.Quote(p.Uname.Machine),
			Observe: func() (runner.Observation, error) {
				return runner.Observation{Value: uts.Machine}, nil
			},
			Verify: func(v string) bool { return v == p.Uname.Machine },
		},
	}
}
