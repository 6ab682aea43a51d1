package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codecurve/fieldml.api/internal/export"
	"github.com/codecurve/fieldml.api/internal/store"
)

// SnapshotResult describes an archived region.
type SnapshotResult struct {
	ID          string `json:"id" yaml:"id"`
	Seq         int64  `json:"seq" yaml:"seq"`
	Region      string `json:"region" yaml:"region"`
	Location    string `json:"location,omitempty" yaml:"location,omitempty"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
	Objects     int    `json:"objects" yaml:"objects"`
	APIVersion  string `json:"api_version" yaml:"api_version"`
}

func snapshotResult(snap store.Snapshot) SnapshotResult {
	return SnapshotResult{
		ID:          snap.ID,
		Seq:         snap.Seq,
		Region:      snap.Region,
		Location:    snap.Location,
		Fingerprint: snap.Fingerprint,
		Objects:     snap.ObjectCount,
		APIVersion:  snap.APIVersion,
	}
}

// NewSnapshotCommand creates the snapshot command.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot <document.cue>",
		Short: "Archive a region description",
		Long: `Decode a CUE document and archive its region description in the
snapshot database. Snapshots are content addressed: archiving an
unchanged region returns the existing snapshot.

Documents with decode errors are not archived.

Examples:
  fieldml snapshot heart.cue --db ./fieldml.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runSnapshot(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	doc, err := opts.openDocument(path)
	if err != nil {
		return outputLoadError(f, err)
	}
	defer doc.Close()

	if issues := doc.issues(); len(issues) > 0 {
		return outputError(f, ExitFailure, ErrCodeDecodeFailed,
			fmt.Sprintf("refusing to archive region %s with %d decode error(s)", doc.session.RegionName(), len(issues)),
			issues)
	}

	region, err := export.Describe(doc.session)
	if err != nil {
		return outputError(f, ExitFailure, ErrCodeGeneric, err.Error(), nil)
	}

	db := opts.database()
	st, err := store.Open(db)
	if err != nil {
		return outputError(f, ExitCommandError, ErrCodeArchive, fmt.Sprintf("failed to open database %s: %v", db, err), nil)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			opts.logger().Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	snap, err := st.WriteSnapshot(ctx, region)
	if err != nil {
		return outputError(f, ExitFailure, ErrCodeArchive, err.Error(), nil)
	}
	opts.logger().Info("snapshot written", "id", snap.ID, "region", snap.Region, "seq", snap.Seq)

	result := snapshotResult(snap)
	if ok, err := f.Encode(CLIResponse{Status: "ok", Data: result}); ok {
		return err
	}
	fmt.Fprintf(f.Writer, "✓ Archived region %s as %s (seq %d, %d objects)\n",
		result.Region, result.ID, result.Seq, result.Objects)
	fmt.Fprintf(f.Writer, "  fingerprint %s\n", result.Fingerprint)
	return nil
}
