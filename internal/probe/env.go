package probe

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/breenix/kconform/internal/fixture"
	"github.com/breenix/kconform/internal/kernel"
	"github.com/breenix/kconform/internal/runner"
)

// Environment builds the environment propagation checks: one variable's
// value contains a required substring, one matches exactly, one merely has
// to be present, and the overall entry count meets a minimum threshold.
func Environment(surf kernel.Surface, p *fixture.Profile) []runner.Check {
	env := p.Env

	return []runner.Check{
		{
			Name:     env.ContainsVar,
			Expected: fmt.Sprintf("value containing %q", env.ContainsSubstring),
			Observe:  observeEnv(surf, env.ContainsVar),
			// Plain substring containment, case-sensitive. Not
			// path-component aware: "/bin" matches inside "/sbin" too.
			Verify: func(v string) bool { return strings.Contains(v, env.ContainsSubstring) },
		},
		{
			Name:     env.ExactVar,
			Expected: strconv.Quote(env.ExactValue),
			Observe:  observeEnv(surf, env.ExactVar),
			Verify:   func(v string) bool { return v == env.ExactValue },
		},
		{
			Name:     env.PresentVar,
			Expected: "variable present",
			Observe:  observeEnv(surf, env.PresentVar),
			// Presence is established by Observe; any value passes.
			Verify: func(string) bool { return true },
		},
		{
			Name:     "environ",
			Expected: fmt.Sprintf("at least %d entries", env.MinEntries),
			Observe: func() (runner.Observation, error) {
				n := len(surf.Environ())
				return runner.Observation{Value: fmt.Sprintf("%d entries", n)}, nil
			},
			Verify: func(v string) bool {
				n, _, ok := strings.Cut(v, " ")
				if !ok {
					return false
				}
				count, err := strconv.Atoi(n)
				return err == nil && count >= env.MinEntries
			},
		},
	}
}

// observeEnv observes one environment variable, reporting absence as an
// unavailable value rather than an empty string.
func observeEnv(surf kernel.Surface, name string) func() (runner.Observation, error) {
	return func() (runner.Observation, error) {
		v, ok := surf.Getenv(name)
		if !ok {
			return runner.Observation{}, fmt.Errorf("%s is unset", name)
		}
		return runner.Observation{Value: v}, nil
	}
}
