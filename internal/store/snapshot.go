package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/codecurve/fieldml.api/internal/ir"
)

// ErrSnapshotNotFound is returned when a snapshot id is not in the archive.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// snapshotNamespace seeds the name-based UUIDs of snapshots.
var snapshotNamespace = uuid.MustParse("6f3c1c52-2b8e-5d0a-9d55-0f1e1d7a4c11")

// Snapshot is one archived region document.
type Snapshot struct {
	ID          string
	Seq         int64
	Region      string
	Location    string
	Fingerprint string
	ObjectCount int
	APIVersion  string
	// Doc is populated by ReadSnapshot only.
	Doc *ir.RegionDoc
}

// SnapshotID derives the archive id of a region with the given fingerprint.
func SnapshotID(region, fingerprint string) string {
	return uuid.NewSHA1(snapshotNamespace, []byte(region+"\x00"+fingerprint)).String()
}

// WriteSnapshot archives doc and returns its snapshot record.
// Archiving an unchanged region returns the existing record.
func (s *Store) WriteSnapshot(ctx context.Context, doc *ir.RegionDoc) (Snapshot, error) {
	fingerprint, err := ir.Fingerprint(doc)
	if err != nil {
		return Snapshot{}, fmt.Errorf("write snapshot: %w", err)
	}
	canonical, err := ir.CanonicalDoc(doc)
	if err != nil {
		return Snapshot{}, fmt.Errorf("write snapshot: %w", err)
	}

	id := SnapshotID(doc.Name, fingerprint)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("write snapshot: %w", err)
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots WHERE id = ?`, id).Scan(&existing); err != nil {
		return Snapshot{}, fmt.Errorf("write snapshot: %w", err)
	}
	if existing == 0 {
		var seq int64
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM snapshots`).Scan(&seq); err != nil {
			return Snapshot{}, fmt.Errorf("write snapshot: next seq: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO snapshots
			(id, seq, region, location, fingerprint, doc, object_count, api_version)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			id,
			seq,
			doc.Name,
			doc.Location,
			fingerprint,
			string(canonical),
			len(doc.Objects),
			ir.APIVersion,
		)
		if err != nil {
			return Snapshot{}, fmt.Errorf("write snapshot: %w", err)
		}

		for i, obj := range doc.Objects {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO snapshot_objects (snapshot_id, ordinal, name, kind)
				VALUES (?, ?, ?, ?)
			`, id, i, obj.Name, obj.Kind)
			if err != nil {
				return Snapshot{}, fmt.Errorf("write snapshot object %q: %w", obj.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("write snapshot: commit: %w", err)
	}

	return s.ReadSnapshot(ctx, id)
}

// ReadSnapshot returns the snapshot with the given id, including its document.
func (s *Store) ReadSnapshot(ctx context.Context, id string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, region, location, fingerprint, object_count, api_version, doc
		FROM snapshots
		WHERE id = ?
	`, id)

	var snap Snapshot
	var docJSON string
	err := row.Scan(&snap.ID, &snap.Seq, &snap.Region, &snap.Location,
		&snap.Fingerprint, &snap.ObjectCount, &snap.APIVersion, &docJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("read snapshot %s: %w", id, ErrSnapshotNotFound)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot %s: %w", id, err)
	}

	var doc ir.RegionDoc
	if err := json.Unmarshal([]byte(docJSON), &doc); err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot %s: decode doc: %w", id, err)
	}
	snap.Doc = &doc
	return snap, nil
}

// ListSnapshots returns snapshot records without documents, oldest first.
// An empty region lists every region.
func (s *Store) ListSnapshots(ctx context.Context, region string) ([]Snapshot, error) {
	query := `
		SELECT id, seq, region, location, fingerprint, object_count, api_version
		FROM snapshots`
	var args []any
	if region != "" {
		query += ` WHERE region = ?`
		args = append(args, region)
	}
	query += ` ORDER BY seq ASC, id COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []Snapshot{}
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.ID, &snap.Seq, &snap.Region, &snap.Location,
			&snap.Fingerprint, &snap.ObjectCount, &snap.APIVersion); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snapshots, nil
}

// KindCounts returns how many objects of each kind a snapshot holds.
func (s *Store) KindCounts(ctx context.Context, id string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, COUNT(*)
		FROM snapshot_objects
		WHERE snapshot_id = ?
		GROUP BY kind
		ORDER BY kind COLLATE BINARY ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("kind counts: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan kind count: %w", err)
		}
		counts[kind] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate kind counts: %w", err)
	}
	return counts, nil
}
