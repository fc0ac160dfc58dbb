package probe

import (
	"fmt"
	"strconv"

	"github.com/breenix/kconform/internal/fixture"
	"github.com/breenix/kconform/internal/kernel"
	"github.com/breenix/kconform/internal/runner"
)

// Identity builds the process identity checks: real and effective user and
// group IDs, the umask round trip, and passwd/group lookups of the
// privileged identity.
//
// The two umask checks are order-dependent by design: "umask set" leaves the
// probe mask in place, and "umask restore" both verifies the kernel returned
// that mask and puts the default back. The sequence is idempotent, so
// repeated runs in one process see the same two values.
func Identity(surf kernel.Surface, p *fixture.Profile) []runner.Check {
	ident := p.Identity

	return []runner.Check{
		idCheck("uid", surf.UserID, ident.UID),
		idCheck("gid", surf.GroupID, ident.GID),
		idCheck("euid", surf.EffectiveUserID, ident.EUID),
		idCheck("egid", surf.EffectiveGroupID, ident.EGID),
		{
			Name:     "umask set",
			Expected: fmt.Sprintf("previous mask %04o", ident.DefaultUmask),
			Observe: func() (runner.Observation, error) {
				prev := surf.Umask(ident.ProbeUmask)
				return runner.Observation{Value: fmt.Sprintf("%04o", prev)}, nil
			},
			Verify: func(v string) bool { return v == fmt.Sprintf("%04o", ident.DefaultUmask) },
		},
		{
			Name: "umask restore",
			// Depends on the mask left by "umask set". A kernel that echoes
			// the new mask instead of tracking the prior one fails here.
			Expected: fmt.Sprintf("previous mask %04o", ident.ProbeUmask),
			Observe: func() (runner.Observation, error) {
				prev := surf.Umask(ident.DefaultUmask)
				return runner.Observation{Value: fmt.Sprintf("%04o", prev)}, nil
			},
			Verify: func(v string) bool { return v == fmt.Sprintf("%04o", ident.ProbeUmask) },
		},
		{
			Name:     "passwd lookup",
			Expected: fmt.Sprintf("user %q for uid %d", ident.UserName, ident.UID),
			Observe: func() (runner.Observation, error) {
				name, err := surf.LookupUID(ident.UID)
				if err != nil {
					return runner.Observation{}, err
				}
				return runner.Observation{Value: name}, nil
			},
			Verify: func(v string) bool { return v == ident.UserName },
		},
		{
			Name:     "group lookup",
			Expected: fmt.Sprintf("group %q for gid %d", ident.GroupName, ident.GID),
			Observe: func() (runner.Observation, error) {
				name, err := surf.LookupGID(ident.GID)
				if err != nil {
					return runner.Observation{}, err
				}
				return runner.Observation{Value: name}, nil
			},
			Verify: func(v string) bool { return v == ident.GroupName },
		},
	}
}

// idCheck builds one numeric identity check.
func idCheck(name string, observe func() int, want int) runner.Check {
	return runner.Check{
		Name:     name,
		Expected: strconv.Itoa(want),
		Observe: func() (runner.Observation, error) {
			return runner.Observation{Value: strconv.Itoa(observe())}, nil
		},
		Verify: func(v string) bool { return v == strconv.Itoa(want) },
	}
}
