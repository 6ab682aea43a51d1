package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codecurve/fieldml.api/internal/validate"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                       `json:"valid" yaml:"valid"`
	Region   string                     `json:"region" yaml:"region"`
	Findings []validate.ValidationError `json:"findings,omitempty" yaml:"findings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <document.cue>",
		Short: "Decode a document and lint its region",
		Long: `Decode a CUE document and lint the resulting region.

Decode errors are reported as E006 findings. The region is valid when no
finding is at error level; warnings and info findings are listed but do
not fail the command.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	doc, err := opts.openDocument(path)
	if err != nil {
		return outputLoadError(f, err)
	}
	defer doc.Close()

	var findings []validate.ValidationError
	for _, is := range doc.issues() {
		findings = append(findings, validate.ValidationError{
			Field:   is.Field,
			Message: is.Message,
			Code:    ErrCodeDecodeFailed,
			Level:   validate.LevelError,
		})
	}
	findings = append(findings, validate.Region(doc.session)...)
	f.VerboseLog("Linted region %s: %d finding(s)", doc.session.RegionName(), len(findings))

	result := ValidationResult{
		Valid:    !validate.HasErrors(findings),
		Region:   doc.session.RegionName(),
		Findings: findings,
	}
	if result.Valid {
		return outputValidateSuccess(f, result)
	}
	return outputValidationErrors(f, result)
}

func outputValidateSuccess(f *OutputFormatter, result ValidationResult) error {
	if ok, err := f.Encode(CLIResponse{Status: "ok", Data: result}); ok {
		return err
	}
	fmt.Fprintf(f.Writer, "✓ Region %s is valid\n", result.Region)
	writeFindings(f, result.Findings)
	return nil
}

func outputValidationErrors(f *OutputFormatter, result ValidationResult) error {
	errCount := 0
	for _, v := range result.Findings {
		if v.Level == validate.LevelError {
			errCount++
		}
	}
	message := fmt.Sprintf("%d error(s) in region %s", errCount, result.Region)

	ok, err := f.Encode(CLIResponse{
		Status: "error",
		Data:   result,
		Error:  &CLIError{Code: ErrCodeLintFailed, Message: message},
	})
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(f.Writer, "✗ Region %s has errors\n", result.Region)
		writeFindings(f, result.Findings)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", ErrCodeLintFailed, message))
}

func writeFindings(f *OutputFormatter, findings []validate.ValidationError) {
	for _, v := range findings {
		fmt.Fprintf(f.Writer, "  %-7s %s\n", v.Level, v.Error())
	}
}
