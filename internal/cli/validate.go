package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/panda/internal/harness"
)

// FileValidation is the validation outcome of one scenario file.
type FileValidation struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <path>...",
		Short: "Validate scenario files without running them",
		Long: `Validate scenario files against the scenario schema.

Each path may be a file or a directory searched for .yaml and .yml files.
Schema problems are reported together; semantic checks (known intents,
well-formed assertions) run once the schema holds.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	out := newFormatter(opts, cmd.OutOrStdout())

	var files []string
	for _, p := range paths {
		found, err := harness.FindScenarioFiles(p)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to find scenarios", err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return NewExitError(ExitCommandError, "no scenario files found")
	}

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(files))}
	for _, f := range files {
		fv := validateFile(f)
		if !fv.Valid {
			result.Valid = false
		}
		result.Files = append(result.Files, fv)
	}

	text := func(w io.Writer) { writeValidateText(w, result) }
	if !result.Valid {
		if err := out.Failure("E_INVALID_SCENARIO", "validation failed", result, text); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "validation failed")
	}
	return out.Success(result, text)
}

func validateFile(path string) FileValidation {
	fv := FileValidation{File: path}

	data, err := os.ReadFile(path)
	if err != nil {
		fv.Problems = []string{err.Error()}
		return fv
	}

	if _, err := harness.ParseScenario(data); err != nil {
		var se *harness.SchemaError
		if errors.As(err, &se) {
			fv.Problems = se.Problems
		} else {
			fv.Problems = []string{err.Error()}
		}
		return fv
	}

	fv.Valid = true
	return fv
}

func writeValidateText(w io.Writer, result ValidationResult) {
	for _, fv := range result.Files {
		if fv.Valid {
			fmt.Fprintf(w, "✓ %s\n", fv.File)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", fv.File)
		for _, p := range fv.Problems {
			fmt.Fprintf(w, "  %s\n", p)
		}
	}
	if result.Valid {
		fmt.Fprintf(w, "✓ %d scenario file(s) valid\n", len(result.Files))
	}
}
