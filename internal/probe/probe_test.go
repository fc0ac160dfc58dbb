package probe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breenix/kconform/internal/fixture"
	"github.com/breenix/kconform/internal/kernel"
	"github.com/breenix/kconform/internal/runner"
	"github.com/breenix/kconform/internal/testutil"
)

func TestNamesAndLookup(t *testing.T) {
	names := Names()
	assert.Equal(t, []string{"env_test", "identity_test", "rlimit_test", "uname_test"}, names)

	for _, name := range names {
		b, ok := Lookup(name)
		require.True(t, ok, name)
		require.NotNil(t, b)
	}

	_, ok := Lookup("bogus_test")
	assert.False(t, ok)
}

func TestIdentityConformantKernel(t *testing.T) {
	// Fixture kernel: all-zero privileged identity, umask 022, root/root.
	surf := testutil.Conformant()
	rep := runner.Run(IdentityProbe, Identity(surf, fixture.Default()))

	assert.Len(t, rep.Verdicts, 8)
	assert.Equal(t, 8, rep.Passed)
	assert.Equal(t, 0, rep.Failed)
	assert.Equal(t, 0, rep.ExitCode())
	assert.Equal(t, "identity_test: 8 passed, 0 failed", rep.Summary())

	// The run leaves the process mask where it found it.
	assert.Equal(t, 0o022, surf.Mask)
}

func TestIdentityMisreportedEgid(t *testing.T) {
	surf := testutil.Conformant()
	surf.EGID = 1000

	rep := runner.Run(IdentityProbe, Identity(surf, fixture.Default()))

	assert.Equal(t, 7, rep.Passed)
	assert.Equal(t, 1, rep.Failed)
	assert.Equal(t, "identity_test: 7 passed, 1 failed", rep.Summary())
	assert.Equal(t, 1, rep.ExitCode())

	var failed []string
	for _, v := range rep.Verdicts {
		if !v.Passed {
			failed = append(failed, v.Name)
			assert.Equal(t, "observed 1000, want 0", v.Message)
		}
	}
	assert.Equal(t, []string{"egid"}, failed)
}

func TestUmaskRoundTripIdempotent(t *testing.T) {
	// Running the two-step mask sequence twice yields the same two returned
	// values both times: no hidden state drift.
	surf := testutil.Conformant()
	profile := fixture.Default()

	first := runner.Run(IdentityProbe, Identity(surf, profile))
	second := runner.Run(IdentityProbe, Identity(surf, profile))

	assert.Equal(t, first.Verdicts, second.Verdicts)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.True(t, second.Pass())
}

func TestUmaskEchoingKernelFails(t *testing.T) {
	// A kernel that returns the new mask instead of the prior one must fail
	// both round-trip checks; that is what the round trip exists to catch.
	surf := testutil.Conformant()
	surf.EchoUmask = true

	rep := runner.Run(IdentityProbe, Identity(surf, fixture.Default()))

	byName := verdictsByName(rep)
	assert.False(t, byName["umask set"].Passed)
	assert.False(t, byName["umask restore"].Passed)
	assert.Equal(t, 2, rep.Failed)
}

func TestIdentityLookupFailures(t *testing.T) {
	surf := testutil.Conformant()
	surf.Users = map[int]string{}
	surf.Groups = map[int]string{0: "wheel"}

	rep := runner.Run(IdentityProbe, Identity(surf, fixture.Default()))

	byName := verdictsByName(rep)
	assert.False(t, byName["passwd lookup"].Passed)
	assert.Contains(t, byName["passwd lookup"].Message, "not found")
	assert.False(t, byName["group lookup"].Passed)
	assert.Contains(t, byName["group lookup"].Message, "observed wheel")
	assert.Equal(t, 2, rep.Failed)
}

func TestEnvironmentConformant(t *testing.T) {
	rep := runner.Run(EnvProbe, Environment(testutil.Conformant(), fixture.Default()))

	assert.Equal(t, "env_test: 4 passed, 0 failed", rep.Summary())
	assert.Equal(t, 0, rep.ExitCode())
}

func TestEnvironmentSubstringIsPlainContainment(t *testing.T) {
	surf := testutil.Conformant()

	// "/opt/bin" contains "/bin" as a plain substring even though "/bin" is
	// not a path component.
	surf.Env["PATH"] = "/opt/bin:/sbin"
	rep := runner.Run(EnvProbe, Environment(surf, fixture.Default()))
	assert.True(t, verdictsByName(rep)["PATH"].Passed)

	// Case-sensitive: "/BIN" does not match.
	surf.Env["PATH"] = "/BIN:/SBIN"
	rep = runner.Run(EnvProbe, Environment(surf, fixture.Default()))
	assert.False(t, verdictsByName(rep)["PATH"].Passed)

	// "/sbin" alone does not contain "/bin".
	surf.Env["PATH"] = "/sbin"
	rep = runner.Run(EnvProbe, Environment(surf, fixture.Default()))
	assert.False(t, verdictsByName(rep)["PATH"].Passed)
}

func TestEnvironmentAbsentVariable(t *testing.T) {
	surf := testutil.Conformant()
	delete(surf.Env, "HOME")

	rep := runner.Run(EnvProbe, Environment(surf, fixture.Default()))

	byName := verdictsByName(rep)
	assert.False(t, byName["HOME"].Passed)
	assert.Equal(t, `HOME is unset, want "/home"`, byName["HOME"].Message)

	// Absence fails one check; the remaining checks still run.
	assert.Len(t, rep.Verdicts, 4)
}

func TestEnvironmentEntryCountThreshold(t *testing.T) {
	// Exactly 3 entries meets the >=3 threshold.
	surf := testutil.Conformant()
	require.Len(t, surf.Env, 3)
	rep := runner.Run(EnvProbe, Environment(surf, fixture.Default()))
	count := verdictsByName(rep)["environ"]
	assert.True(t, count.Passed)
	assert.Equal(t, "observed 3 entries", count.Message)

	// 2 entries fails it.
	delete(surf.Env, "USER")
	rep = runner.Run(EnvProbe, Environment(surf, fixture.Default()))
	count = verdictsByName(rep)["environ"]
	assert.False(t, count.Passed)
	assert.Equal(t, "observed 2 entries, want at least 3 entries", count.Message)
}

func TestRlimitsConformant(t *testing.T) {
	rep := runner.Run(RlimitProbe, Rlimits(testutil.Conformant(), fixture.Default()))

	require.Len(t, rep.Verdicts, 2)
	assert.Equal(t, "rlimit_test: 2 passed, 0 failed", rep.Summary())

	// Hard limits are reported but not asserted.
	byName := verdictsByName(rep)
	assert.Equal(t, "observed 8388608 (hard unlimited)", byName["stack limit"].Message)
	assert.Equal(t, "observed 1024 (hard 4096)", byName["open files limit"].Message)
}

func TestRlimitsSoftMismatch(t *testing.T) {
	surf := testutil.Conformant()
	surf.Limits[kernel.Stack] = kernel.Rlimit{Soft: 4 * 1024 * 1024, Hard: kernel.Unlimited}

	rep := runner.Run(RlimitProbe, Rlimits(surf, fixture.Default()))

	byName := verdictsByName(rep)
	assert.False(t, byName["stack limit"].Passed)
	assert.Equal(t, "observed 4194304 (hard unlimited), want soft limit 8388608",
		byName["stack limit"].Message)
	assert.True(t, byName["open files limit"].Passed)
}

func TestRlimitsQueryFailure(t *testing.T) {
	surf := testutil.Conformant()
	surf.LimitErr = errors.New("getrlimit: function not implemented")

	rep := runner.Run(RlimitProbe, Rlimits(surf, fixture.Default()))

	// Query failure degrades to failed checks; both still run.
	assert.Len(t, rep.Verdicts, 2)
	assert.Equal(t, 2, rep.Failed)
	for _, v := range rep.Verdicts {
		assert.Contains(t, v.Message, "not implemented")
	}
}

func TestUnameConformant(t *testing.T) {
	rep := runner.Run(UnameProbe, Uname(testutil.Conformant(), fixture.Default()))

	require.Len(t, rep.Verdicts, 3)
	assert.Equal(t, "uname_test: 3 passed, 0 failed", rep.Summary())

	// Unasserted fields are surfaced in the query check's diagnostic.
	assert.Equal(t, "observed ok (node breenix release 0.1.0 version #1)",
		rep.Verdicts[0].Message)
}

func TestUnameQueryFailureShortCircuits(t *testing.T) {
	surf := testutil.Conformant()
	surf.UnameErr = errors.New("uname: not supported")

	rep := runner.Run(UnameProbe, Uname(surf, fixture.Default()))

	// One overall failure; field checks are never attempted.
	require.Len(t, rep.Verdicts, 1)
	assert.Equal(t, 2, rep.Skipped)
	assert.Equal(t, "uname_test: 0 passed, 1 failed", rep.Summary())
	assert.Equal(t, 1, rep.ExitCode())
}

func TestUnameFieldMismatch(t *testing.T) {
	surf := testutil.Conformant()
	surf.Uts.Sysname = "Linux"

	rep := runner.Run(UnameProbe, Uname(surf, fixture.Default()))

	byName := verdictsByName(rep)
	assert.False(t, byName["sysname"].Passed)
	assert.Equal(t, `observed Linux, want "Breenix"`, byName["sysname"].Message)
	assert.True(t, byName["machine"].Passed)
}

func verdictsByName(rep *runner.Report) map[string]runner.Verdict {
	out := make(map[string]runner.Verdict, len(rep.Verdicts))
	for _, v := range rep.Verdicts {
		out[v.Name] = v
	}
	return out
}
