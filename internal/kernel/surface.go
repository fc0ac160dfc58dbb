// Package kernel defines the syscall/libc boundary the conformance probes
// observe through.
//
// Probes never call the kernel directly; they go through Surface so the same
// check definitions run against the live kernel in a probe binary and against
// a scripted fake in unit tests. Every operation is fallible: the kernel
// under test is the thing being validated, so nothing it reports can be
// assumed present or well-formed.
package kernel

import "errors"

// ErrNotFound reports that a queried record (environment variable, passwd or
// group entry) does not exist. Probes turn it into a failed verdict with an
// absence diagnostic rather than a query-failure diagnostic.
var ErrNotFound = errors.New("not found")

// EnvEntry is one process environment entry.
type EnvEntry struct {
	Name  string
	Value string
}

// Resource identifies a resource limit kind.
type Resource int

const (
	// Stack is the maximum stack size limit (RLIMIT_STACK).
	Stack Resource = iota
	// OpenFiles is the maximum open file count limit (RLIMIT_NOFILE).
	OpenFiles
)

// String returns the conventional limit name.
func (r Resource) String() string {
	switch r {
	case Stack:
		return "RLIMIT_STACK"
	case OpenFiles:
		return "RLIMIT_NOFILE"
	default:
		return "RLIMIT_UNKNOWN"
	}
}

// Unlimited is the "no limit" rlimit value.
const Unlimited = ^uint64(0)

// Rlimit holds the soft (current) and hard (maximum) values of one limit.
type Rlimit struct {
	Soft uint64
	Hard uint64
}

// Utsname holds the system identification fields.
type Utsname struct {
	Sysname  string
	Nodename string
	Release  string
	Version  string
	Machine  string
}

// Surface is the kernel-facing boundary probes observe through.
//
// Umask mutates process-wide state as a side effect of observation; that is
// the POSIX contract (there is no read-only query) and the identity probe
// depends on it deliberately. All other operations are read-only.
type Surface interface {
	// Getenv reports the value of one environment variable.
	Getenv(name string) (string, bool)

	// Environ enumerates all environment entries.
	Environ() []EnvEntry

	// Process identity.
	UserID() int
	GroupID() int
	EffectiveUserID() int
	EffectiveGroupID() int

	// Umask sets the file-creation mask and returns the previous mask.
	Umask(mask int) int

	// LookupUID resolves a numeric user ID to a user name.
	// Returns ErrNotFound if no passwd record exists.
	LookupUID(uid int) (string, error)

	// LookupGID resolves a numeric group ID to a group name.
	// Returns ErrNotFound if no group record exists.
	LookupGID(gid int) (string, error)

	// Getrlimit queries one resource limit.
	Getrlimit(r Resource) (Rlimit, error)

	// Uname queries system identification.
	Uname() (Utsname, error)
}
