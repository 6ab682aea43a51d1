package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codecurve/fieldml.api/internal/export"
)

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <document.cue>",
		Short: "Decode a document and describe its region",
		Long: `Decode a CUE document into a fresh session and print the resulting
region: its import tables and every declared local object.

Decode errors are reported after the description and make the command
exit with status 1.

Examples:
  fieldml describe heart.cue
  fieldml describe heart.cue --format yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runDescribe(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	doc, err := opts.openDocument(path)
	if err != nil {
		return outputLoadError(f, err)
	}
	defer doc.Close()

	region, err := export.Describe(doc.session)
	if err != nil {
		return outputError(f, ExitFailure, ErrCodeGeneric, err.Error(), nil)
	}
	f.VerboseLog("Described %d object(s) in region %s", len(region.Objects), region.Name)

	issues := doc.issues()
	resp := CLIResponse{Status: "ok", Data: region}
	if len(issues) > 0 {
		resp.Status = "error"
		resp.Error = &CLIError{
			Code:    ErrCodeDecodeFailed,
			Message: fmt.Sprintf("%d decode error(s)", len(issues)),
			Details: issues,
		}
	}

	ok, err := f.Encode(resp)
	if err != nil {
		return err
	}
	if !ok {
		if err := export.WriteText(f.Writer, region); err != nil {
			return err
		}
		writeIssues(f, issues)
	}

	if len(issues) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %d decode error(s)", ErrCodeDecodeFailed, len(issues)))
	}
	return nil
}

// writeIssues lists decode errors on the diagnostic writer.
func writeIssues(f *OutputFormatter, issues []DecodeIssue) {
	w := f.GetErrWriter()
	for _, is := range issues {
		if is.Line > 0 {
			fmt.Fprintf(w, "✗ [%s] line %d: %s: %s\n", is.Code, is.Line, is.Field, is.Message)
			continue
		}
		fmt.Fprintf(w, "✗ [%s] %s: %s\n", is.Code, is.Field, is.Message)
	}
}
