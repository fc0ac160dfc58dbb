// Package testutil provides deterministic test doubles for the kernel
// surface, so runner and probe behavior can be unit tested without a real
// kernel underneath.
package testutil

import (
	"sort"

	"github.com/breenix/kconform/internal/kernel"
)

// FakeSurface is a scripted kernel.Surface. Fields are plain data so tests
// can describe a kernel build, including a misbehaving one, as a literal.
//
// Umask has real kernel semantics: it stores the new mask and returns the
// prior one, so the identity probe's round-trip checks exercise genuine
// mask tracking rather than a canned answer.
type FakeSurface struct {
	Env map[string]string

	UID, GID, EUID, EGID int

	// Mask is the current file-creation mask. Mutated by Umask.
	Mask int

	// EchoUmask simulates a broken kernel that returns the new mask instead
	// of the previous one.
	EchoUmask bool

	Users  map[int]string
	Groups map[int]string

	Limits   map[kernel.Resource]kernel.Rlimit
	LimitErr error

	Uts      kernel.Utsname
	UnameErr error
}

var _ kernel.Surface = (*FakeSurface)(nil)

// Conformant returns a fake describing a kernel that matches the built-in
// default fixture profile on every probe.
func Conformant() *FakeSurface {
	return &FakeSurface{
		Env: map[string]string{
			"PATH": "/bin:/usr/bin",
			"HOME": "/home",
			"USER": "root",
		},
		Mask:   0o022,
		Users:  map[int]string{0: "root"},
		Groups: map[int]string{0: "root"},
		Limits: map[kernel.Resource]kernel.Rlimit{
			kernel.Stack:     {Soft: 8 * 1024 * 1024, Hard: kernel.Unlimited},
			kernel.OpenFiles: {Soft: 1024, Hard: 4096},
		},
		Uts: kernel.Utsname{
			Sysname:  "Breenix",
			Nodename: "breenix",
			Release:  "0.1.0",
			Version:  "#1",
			Machine:  "x86_64",
		},
	}
}

func (s *FakeSurface) Getenv(name string) (string, bool) {
	v, ok := s.Env[name]
	return v, ok
}

// Environ returns entries sorted by name for deterministic output.
func (s *FakeSurface) Environ() []kernel.EnvEntry {
	names := make([]string, 0, len(s.Env))
	for name := range s.Env {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]kernel.EnvEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, kernel.EnvEntry{Name: name, Value: s.Env[name]})
	}
	return entries
}

func (s *FakeSurface) UserID() int           { return s.UID }
func (s *FakeSurface) GroupID() int          { return s.GID }
func (s *FakeSurface) EffectiveUserID() int  { return s.EUID }
func (s *FakeSurface) EffectiveGroupID() int { return s.EGID }

func (s *FakeSurface) Umask(mask int) int {
	prev := s.Mask
	s.Mask = mask
	if s.EchoUmask {
		return mask
	}
	return prev
}

func (s *FakeSurface) LookupUID(uid int) (string, error) {
	name, ok := s.Users[uid]
	if !ok {
		return "", kernel.ErrNotFound
	}
	return name, nil
}

func (s *FakeSurface) LookupGID(gid int) (string, error) {
	name, ok := s.Groups[gid]
	if !ok {
		return "", kernel.ErrNotFound
	}
	return name, nil
}

func (s *FakeSurface) Getrlimit(r kernel.Resource) (kernel.Rlimit, error) {
	if s.LimitErr != nil {
		return kernel.Rlimit{}, s.LimitErr
	}
	lim, ok := s.Limits[r]
	if !ok {
		return kernel.Rlimit{}, kernel.ErrNotFound
	}
	return lim, nil
}

func (s *FakeSurface) Uname() (kernel.Utsname, error) {
	if s.UnameErr != nil {
		return kernel.Utsname{}, s.UnameErr
	}
	return s.Uts, nil
}
