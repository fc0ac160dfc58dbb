package probe

import (
	"fmt"
	"strconv"

	"github.com/breenix/kconform/internal/fixture"
	"github.com/breenix/kconform/internal/kernel"
	"github.com/breenix/kconform/internal/runner"
)

// Rlimits builds the resource limit checks. Soft (current) values are
// asserted against the fixture; hard values are observed and reported only.
func Rlimits(surf kernel.Surface, p *fixture.Profile) []runner.Check {
	return []runner.Check{
		rlimitCheck(surf, "stack limit", kernel.Stack, p.Rlimits.StackSoft),
		rlimitCheck(surf, "open files limit", kernel.OpenFiles, p.Rlimits.OpenFilesSoft),
	}
}

func rlimitCheck(surf kernel.Surface, name string, res kernel.Resource, wantSoft uint64) runner.Check {
	return runner.Check{
		Name:     name,
		Expected: fmt.Sprintf("soft limit %d", wantSoft),
		Observe: func() (runner.Observation, error) {
			lim, err := surf.Getrlimit(res)
			if err != nil {
				return runner.Observation{}, err
			}
			return runner.Observation{
				Value:  strconv.FormatUint(lim.Soft, 10),
				Detail: "hard " + formatLimit(lim.Hard),
			}, nil
		},
		Verify: func(v string) bool { return v == strconv.FormatUint(wantSoft, 10) },
	}
}

func formatLimit(v uint64) string {
	if v == kernel.Unlimited {
		return "unlimited"
	}
	return strconv.FormatUint(v, 10)
}
