package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/codecurve/fieldml.api/internal/ir"
)

func TestDescribe_Text(t *testing.T) {
	out, errOut, err := execute(t, NewDescribeCommand(&RootOptions{Format: "text"}), documentPath("heart.cue"))
	require.NoError(t, err)
	assert.Empty(t, errOut)

	assert.Contains(t, out, "region heart\n")
	assert.Contains(t, out, "import library_0.3.xml (region library)\n")
	assert.Contains(t, out, "  shapes.line = shapes.line\n")
	assert.Contains(t, out, "MeshType")
	assert.Contains(t, out, "data=DENSE_ARRAY(coordinates.source)")
}

func TestDescribe_YAML(t *testing.T) {
	out, _, err := execute(t, NewDescribeCommand(&RootOptions{Format: "yaml"}), documentPath("shared.cue"))
	require.NoError(t, err)

	var resp struct {
		Status string        `yaml:"status"`
		Data   ir.RegionDoc `yaml:"data"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "shared", resp.Data.Name)
	require.Len(t, resp.Data.Objects, 2)
	assert.Equal(t, "shapes.line", resp.Data.Objects[1].Name)
	assert.Equal(t, "true", resp.Data.Objects[1].Value)
}

func TestDescribe_DecodeErrors(t *testing.T) {
	out, errOut, err := execute(t, NewDescribeCommand(&RootOptions{Format: "text"}), documentPath("broken.cue"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeDecodeFailed)

	assert.Contains(t, out, "region broken\n")
	assert.Contains(t, errOut, "[UNKNOWN_OBJECT]")
	assert.Contains(t, errOut, "objects[3]")
}

func TestDescribe_DecodeErrorsJSON(t *testing.T) {
	out, _, err := execute(t, NewDescribeCommand(&RootOptions{Format: "json"}), documentPath("broken.cue"))
	require.Error(t, err)

	var resp struct {
		Status string `json:"status"`
		Error  struct {
			Code    string        `json:"code"`
			Details []DecodeIssue `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeDecodeFailed, resp.Error.Code)
	require.Len(t, resp.Error.Details, 3)
	assert.Equal(t, "objects[2].value_type", resp.Error.Details[0].Field)
	assert.Equal(t, "NAME_COLLISION", resp.Error.Details[1].Code)
	assert.Positive(t, resp.Error.Details[2].Line)
}

func TestDescribe_MissingDocument(t *testing.T) {
	out, _, err := execute(t, NewDescribeCommand(&RootOptions{Format: "text"}), "/nonexistent/model.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
	assert.Contains(t, out, "document not found")
}
