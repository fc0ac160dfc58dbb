// Package fixture defines the expected-value profile a kernel build is
// validated against.
//
// Profiles are configuration, not code: the same probes validate a different
// kernel build by pointing them at a different profile file. Files are YAML,
// decoded strictly (unknown fields are rejected, catching typos) and then
// validated against an embedded CUE schema for type and range constraints.
package fixture

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"

	"github.com/breenix/kconform/internal/record"
)

//go:embed schema.cue
var schemaCUE string

// ProfileEnvVar names the environment variable the standalone probe binaries
// consult for a profile file path. Unset means the built-in default profile.
const ProfileEnvVar = "KCONFORM_PROFILE"

// Profile holds the expected constants for one kernel build.
type Profile struct {
	// Name identifies the kernel build this profile describes.
	Name string `yaml:"name"`

	Env      EnvExpectations      `yaml:"env"`
	Identity IdentityExpectations `yaml:"identity"`
	Rlimits  RlimitExpectations   `yaml:"rlimits"`
	Uname    UnameExpectations    `yaml:"uname"`
}

// EnvExpectations drives the environment probe.
type EnvExpectations struct {
	// ContainsVar's value must contain ContainsSubstring. Matching is
	// case-sensitive plain substring containment, not path-component aware.
	ContainsVar       string `yaml:"contains_var"`
	ContainsSubstring string `yaml:"contains_substring"`

	// ExactVar's value must equal ExactValue exactly.
	ExactVar   string `yaml:"exact_var"`
	ExactValue string `yaml:"exact_value"`

	// PresentVar merely has to be set; its value is unconstrained.
	PresentVar string `yaml:"present_var"`

	// MinEntries is the minimum number of environment entries.
	MinEntries int `yaml:"min_entries"`
}

// IdentityExpectations drives the identity probe.
type IdentityExpectations struct {
	UID  int `yaml:"uid"`
	GID  int `yaml:"gid"`
	EUID int `yaml:"euid"`
	EGID int `yaml:"egid"`

	// UserName is the expected passwd name for UID; GroupName the expected
	// group name for GID.
	UserName  string `yaml:"user_name"`
	GroupName string `yaml:"group_name"`

	// DefaultUmask is the mask the kernel gives a fresh process. ProbeUmask
	// is the scratch value the round-trip check sets; it only has to differ
	// from DefaultUmask for the round trip to prove the kernel returns the
	// prior mask rather than echoing the new one.
	DefaultUmask int `yaml:"default_umask"`
	ProbeUmask   int `yaml:"probe_umask"`
}

// RlimitExpectations drives the resource limit probe. Only soft limits are
// asserted; hard limits are reported.
type RlimitExpectations struct {
	StackSoft     uint64 `yaml:"stack_soft"`
	OpenFilesSoft uint64 `yaml:"open_files_soft"`
}

// UnameExpectations drives the system identification probe. Nodename,
// release and version vary per build and are reported, not asserted.
type UnameExpectations struct {
	Sysname string `yaml:"sysname"`
	Machine string `yaml:"machine"`
}

// Default returns the built-in profile for the reference kernel build.
func Default() *Profile {
	return &Profile{
		Name: "breenix",
		Env: EnvExpectations{
			ContainsVar:       "PATH",
			ContainsSubstring: "/bin",
			ExactVar:          "HOME",
			ExactValue:        "/home",
			PresentVar:        "USER",
			MinEntries:        3,
		},
		Identity: IdentityExpectations{
			UID:          0,
			GID:          0,
			EUID:         0,
			EGID:         0,
			UserName:     "root",
			GroupName:    "root",
			DefaultUmask: 0o022,
			ProbeUmask:   0o077,
		},
		Rlimits: RlimitExpectations{
			StackSoft:     8 * 1024 * 1024,
			OpenFilesSoft: 1024,
		},
		Uname: UnameExpectations{
			Sysname: "Breenix",
			Machine: "x86_64",
		},
	}
}

// Load reads, strictly decodes and schema-validates a profile file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	// Strict decode catches typos like "identiy:" instead of silently
	// leaving a zero expectation in place.
	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to parse profile YAML: %w", err)
	}

	if err := validateSchema(path, data); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}

	return &p, nil
}

// FromEnv loads the profile named by ProfileEnvVar, or the built-in default
// when the variable is unset. Standalone probe binaries resolve their
// profile this way.
func FromEnv() (*Profile, error) {
	path, ok := os.LookupEnv(ProfileEnvVar)
	if !ok || path == "" {
		return Default(), nil
	}
	return Load(path)
}

// validateSchema checks the raw YAML document against the embedded CUE
// schema. Runs after the strict struct decode so constraint violations are
// reported on a document already known to be well-formed.
func validateSchema(path string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("internal schema error: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Profile"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("internal schema error: %w", err)
	}

	file, err := cueyaml.Extract(path, data)
	if err != nil {
		return fmt.Errorf("failed to extract YAML: %w", err)
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("failed to build document: %w", err)
	}

	if err := def.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema violation: %s", cueerrors.Details(err, nil))
	}
	return nil
}

// Fingerprint computes the profile's content-addressed identity. Stored runs
// carry it so history comparisons only pair runs validated against the same
// expectations.
func (p *Profile) Fingerprint() (string, error) {
	return record.ProfileFingerprint(p.canonicalDoc())
}

// canonicalDoc returns the profile in the document form fed to fingerprint
// computation. Field names match the YAML schema so a loaded file and an
// identical in-code profile fingerprint the same.
func (p *Profile) canonicalDoc() map[string]any {
	return map[string]any{
		"name": p.Name,
		"env": map[string]any{
			"contains_var":       p.Env.ContainsVar,
			"contains_substring": p.Env.ContainsSubstring,
			"exact_var":          p.Env.ExactVar,
			"exact_value":        p.Env.ExactValue,
			"present_var":        p.Env.PresentVar,
			"min_entries":        p.Env.MinEntries,
		},
		"identity": map[string]any{
			"uid":           p.Identity.UID,
			"gid":           p.Identity.GID,
			"euid":          p.Identity.EUID,
			"egid":          p.Identity.EGID,
			"user_name":     p.Identity.UserName,
			"group_name":    p.Identity.GroupName,
			"default_umask": p.Identity.DefaultUmask,
			"probe_umask":   p.Identity.ProbeUmask,
		},
		"rlimits": map[string]any{
			"stack_soft":      p.Rlimits.StackSoft,
			"open_files_soft": p.Rlimits.OpenFilesSoft,
		},
		"uname": map[string]any{
			"sysname": p.Uname.Sysname,
			"machine": p.Uname.Machine,
		},
	}
}
