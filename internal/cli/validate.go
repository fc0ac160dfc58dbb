package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/breenix/kconform/internal/fixture"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <profile.yaml>",
		Short: "Validate a fixture profile file",
		Long: `Strictly parse a fixture profile and validate it against the profile
schema.

Exit codes:
  0 - Profile is valid
  1 - Profile is malformed or violates the schema
  2 - Command error (file not found)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

type validateResult struct {
	Path        string `json:"path"`
	Name        string `json:"name"`
	Fingerprint string `json:"fingerprint"`
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("profile file not found: %s", path))
	}

	p, err := fixture.Load(path)
	if err != nil {
		return WrapExitError(ExitFailure, "profile invalid", err)
	}

	fp, err := p.Fingerprint()
	if err != nil {
		return WrapExitError(ExitFailure, "profile invalid", err)
	}

	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		return writeJSON(w, validateResult{Path: path, Name: p.Name, Fingerprint: fp})
	}

	fmt.Fprintf(w, "profile %q valid (fingerprint %s)\n", p.Name, fp)
	return nil
}
