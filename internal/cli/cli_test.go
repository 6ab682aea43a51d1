package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

// documentPath returns a document shared with the harness scenarios.
func documentPath(name string) string {
	return filepath.Join("..", "harness", "testdata", "documents", name)
}

// scenariosDir holds the harness conformance scenarios.
var scenariosDir = filepath.Join("..", "harness", "testdata")

// execute runs cmd with args and returns stdout, stderr and the error.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
