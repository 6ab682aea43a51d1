package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotJSON(t *testing.T, db, doc string) SnapshotResult {
	t.Helper()
	out, _, err := execute(t, NewSnapshotCommand(&RootOptions{Format: "json", Database: db}), doc)
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   SnapshotResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestSnapshot_ArchivesOnce(t *testing.T) {
	db := filepath.Join(t.TempDir(), "archive.db")

	first := snapshotJSON(t, db, documentPath("shared.cue"))
	assert.Equal(t, "shared", first.Region)
	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, 2, first.Objects)
	assert.Len(t, first.Fingerprint, 64)

	again := snapshotJSON(t, db, documentPath("shared.cue"))
	assert.Equal(t, first, again)

	heart := snapshotJSON(t, db, documentPath("heart.cue"))
	assert.Equal(t, int64(2), heart.Seq)
	assert.NotEqual(t, first.ID, heart.ID)
}

func TestSnapshot_Text(t *testing.T) {
	db := filepath.Join(t.TempDir(), "archive.db")

	out, _, err := execute(t, NewSnapshotCommand(&RootOptions{Format: "text", Database: db}), documentPath("shared.cue"))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Archived region shared as ")
	assert.Contains(t, out, "(seq 1, 2 objects)")
	assert.Contains(t, out, "fingerprint ")
}

func TestSnapshot_RefusesDecodeErrors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "archive.db")

	out, _, err := execute(t, NewSnapshotCommand(&RootOptions{Format: "text", Database: db}), documentPath("broken.cue"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "refusing to archive region broken with 3 decode error(s)")
	assert.NoFileExists(t, db)
}

func TestHistory_ListsSnapshots(t *testing.T) {
	db := filepath.Join(t.TempDir(), "archive.db")
	shared := snapshotJSON(t, db, documentPath("shared.cue"))
	snapshotJSON(t, db, documentPath("heart.cue"))

	out, _, err := execute(t, NewHistoryCommand(&RootOptions{Format: "text", Database: db}))
	require.NoError(t, err)
	assert.Contains(t, out, "SEQ")
	assert.Contains(t, out, shared.ID)
	assert.Contains(t, out, "heart")

	out, _, err = execute(t, NewHistoryCommand(&RootOptions{Format: "json", Database: db}), "heart")
	require.NoError(t, err)
	var resp struct {
		Data []SnapshotResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "heart", resp.Data[0].Region)
}

func TestHistory_ShowSnapshot(t *testing.T) {
	db := filepath.Join(t.TempDir(), "archive.db")
	shared := snapshotJSON(t, db, documentPath("shared.cue"))

	out, _, err := execute(t, NewHistoryCommand(&RootOptions{Format: "json", Database: db}), "--id", shared.ID)
	require.NoError(t, err)
	var resp struct {
		Data SnapshotDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, shared.ID, resp.Data.ID)
	assert.Equal(t, map[string]int{"BooleanType": 1, "ConstantEvaluator": 1}, resp.Data.Kinds)
	require.NotNil(t, resp.Data.Doc)
	assert.Equal(t, "shared", resp.Data.Doc.Name)

	out, _, err = execute(t, NewHistoryCommand(&RootOptions{Format: "text", Database: db}), "--id", shared.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "snapshot "+shared.ID+" (seq 1)")
	assert.Contains(t, out, "region shared\n")
}

func TestHistory_Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := execute(t, NewHistoryCommand(&RootOptions{Format: "text", Database: filepath.Join(dir, "absent.db")}))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "database not found")

	db := filepath.Join(dir, "archive.db")
	snapshotJSON(t, db, documentPath("shared.cue"))
	_, _, err = execute(t, NewHistoryCommand(&RootOptions{Format: "text", Database: db}), "--id", "no-such-id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot no-such-id not found")

	out, _, err := execute(t, NewHistoryCommand(&RootOptions{Format: "text", Database: db}), "other")
	require.NoError(t, err)
	assert.Contains(t, out, "No snapshots found.")
}
