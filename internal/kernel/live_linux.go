//go:build linux

package kernel

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/user"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// Live returns the Surface backed by the running kernel.
func Live() Surface {
	return liveSurface{}
}

type liveSurface struct{}

func (liveSurface) Getenv(name string) (string, bool) {
	return os.LookupEnv(name)
}

func (liveSurface) Environ() []EnvEntry {
	raw := os.Environ()
	entries := make([]EnvEntry, 0, len(raw))
	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			// Entries without '=' should not exist; keep them visible rather
			// than silently dropping what the kernel handed us.
			name, value = kv, ""
		}
		entries = append(entries, EnvEntry{Name: name, Value: value})
	}
	return entries
}

func (liveSurface) UserID() int           { return os.Getuid() }
func (liveSurface) GroupID() int          { return os.Getgid() }
func (liveSurface) EffectiveUserID() int  { return os.Geteuid() }
func (liveSurface) EffectiveGroupID() int { return os.Getegid() }

func (liveSurface) Umask(mask int) int {
	return unix.Umask(mask)
}

func (liveSurface) LookupUID(uid int) (string, error) {
	u, err := user.LookupId(strconv.Itoa(uid))
	if err != nil {
		var unknown user.UnknownUserIdError
		if errors.As(err, &unknown) {
			return "", fmt.Errorf("uid %d: %w", uid, ErrNotFound)
		}
		return "", fmt.Errorf("getpwuid(%d): %w", uid, err)
	}
	return u.Username, nil
}

func (liveSurface) LookupGID(gid int) (string, error) {
	g, err := user.LookupGroupId(strconv.Itoa(gid))
	if err != nil {
		var unknown user.UnknownGroupIdError
		if errors.As(err, &unknown) {
			return "", fmt.Errorf("gid %d: %w", gid, ErrNotFound)
		}
		return "", fmt.Errorf("getgrgid(%d): %w", gid, err)
	}
	return g.Name, nil
}

func (liveSurface) Getrlimit(r Resource) (Rlimit, error) {
	var resource int
	switch r {
	case Stack:
		resource = unix.RLIMIT_STACK
	case OpenFiles:
		resource = unix.RLIMIT_NOFILE
	default:
		return Rlimit{}, fmt.Errorf("unknown resource %d", int(r))
	}

	var lim unix.Rlimit
	if err := unix.Getrlimit(resource, &lim); err != nil {
		return Rlimit{}, fmt.Errorf("getrlimit(%s): %w", r, err)
	}
	return Rlimit{Soft: lim.Cur, Hard: lim.Max}, nil
}

func (liveSurface) Uname() (Utsname, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return Utsname{}, fmt.Errorf("uname: %w", err)
	}
	return Utsname{
		Sysname:  utsField(uts.Sysname[:]),
		Nodename: utsField(uts.Nodename[:]),
		Release:  utsField(uts.Release[:]),
		Version:  utsField(uts.Version[:]),
		Machine:  utsField(uts.Machine[:]),
	}, nil
}

// utsField converts a NUL-padded utsname field to a Go string.
func utsField(f []byte) string {
	if i := bytes.IndexByte(f, 0); i >= 0 {
		f = f[:i]
	}
	return string(f)
}
