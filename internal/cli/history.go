package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/codecurve/fieldml.api/internal/export"
	"github.com/codecurve/fieldml.api/internal/ir"
	"github.com/codecurve/fieldml.api/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	ID string // show one snapshot
}

// SnapshotDetail is one snapshot with its document and kind counts.
type SnapshotDetail struct {
	SnapshotResult `yaml:",inline"`
	Kinds          map[string]int `json:"kinds" yaml:"kinds"`
	Doc            *ir.RegionDoc  `json:"doc" yaml:"doc"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [region]",
		Short: "List archived snapshots",
		Long: `List the snapshots in the archive, oldest first, optionally for one
region only. With --id, show a single snapshot with its object kind
counts and region description.

Examples:
  fieldml history --db ./fieldml.db
  fieldml history heart --db ./fieldml.db
  fieldml history --id 3f1c... --format yaml`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			region := ""
			if len(args) == 1 {
				region = args[0]
			}
			return runHistory(opts, region, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "show the snapshot with this id")
	return cmd
}

func runHistory(opts *HistoryOptions, region string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	db := opts.database()
	if _, err := os.Stat(db); os.IsNotExist(err) {
		return outputError(f, ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", db), nil)
	}
	st, err := store.Open(db)
	if err != nil {
		return outputError(f, ExitCommandError, ErrCodeArchive, fmt.Sprintf("failed to open database %s: %v", db, err), nil)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.ID != "" {
		return showSnapshot(ctx, f, st, opts.ID)
	}

	snaps, err := st.ListSnapshots(ctx, region)
	if err != nil {
		return outputError(f, ExitFailure, ErrCodeArchive, err.Error(), nil)
	}
	results := make([]SnapshotResult, len(snaps))
	for i, s := range snaps {
		results[i] = snapshotResult(s)
	}

	if ok, err := f.Encode(CLIResponse{Status: "ok", Data: results}); ok {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(f.Writer, "No snapshots found.")
		return nil
	}
	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tID\tREGION\tOBJECTS\tFINGERPRINT")
	for _, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", r.Seq, r.ID, r.Region, r.Objects, shortFingerprint(r.Fingerprint))
	}
	return tw.Flush()
}

func showSnapshot(ctx context.Context, f *OutputFormatter, st *store.Store, id string) error {
	snap, err := st.ReadSnapshot(ctx, id)
	if errors.Is(err, store.ErrSnapshotNotFound) {
		return outputError(f, ExitFailure, ErrCodeNotFound, fmt.Sprintf("snapshot %s not found", id), nil)
	}
	if err != nil {
		return outputError(f, ExitFailure, ErrCodeArchive, err.Error(), nil)
	}
	kinds, err := st.KindCounts(ctx, id)
	if err != nil {
		return outputError(f, ExitFailure, ErrCodeArchive, err.Error(), nil)
	}

	detail := SnapshotDetail{SnapshotResult: snapshotResult(snap), Kinds: kinds, Doc: snap.Doc}
	if ok, err := f.Encode(CLIResponse{Status: "ok", Data: detail}); ok {
		return err
	}

	fmt.Fprintf(f.Writer, "snapshot %s (seq %d)\n", snap.ID, snap.Seq)
	fmt.Fprintf(f.Writer, "fingerprint %s\n", snap.Fingerprint)
	names := make([]string, 0, len(kinds))
	for k := range kinds {
		names = append(names, k)
	}
	slices.Sort(names)
	for _, k := range names {
		fmt.Fprintf(f.Writer, "  %-20s %d\n", k, kinds[k])
	}
	return export.WriteText(f.Writer, snap.Doc)
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
