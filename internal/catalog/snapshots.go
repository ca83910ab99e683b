package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/leapstack-labs/sqlschema/pkg/schema"
)

// timeLayout is fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Snapshot is a saved schema.
type Snapshot struct {
	ID        string    `json:"id" yaml:"id"`
	Label     string    `json:"label,omitempty" yaml:"label,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Sources   []string  `json:"sources" yaml:"sources"`
	Tables    int       `json:"tables" yaml:"tables"`
	Ignored   int       `json:"ignored" yaml:"ignored"`
}

// TableEntry is one table of a snapshot.
type TableEntry struct {
	Name       string `json:"name" yaml:"name"`
	File       string `json:"file" yaml:"file"`
	Line       int    `json:"line" yaml:"line"`
	Columns    int    `json:"columns" yaml:"columns"`
	Definition string `json:"definition" yaml:"definition"`
}

// SaveSnapshot stores the schema built from sources under a new ID.
func (s *Store) SaveSnapshot(ctx context.Context, label string, sources []string, sch *schema.Schema) (*Snapshot, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	doc := sch.Describe()
	document, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}
	if sources == nil {
		sources = []string{}
	}
	sourceList, err := json.Marshal(sources)
	if err != nil {
		return nil, fmt.Errorf("encode sources: %w", err)
	}

	snap := &Snapshot{
		ID:        generateID(),
		Label:     label,
		CreatedAt: time.Now().UTC(),
		Sources:   sources,
		Tables:    len(doc.Tables),
		Ignored:   len(doc.Ignored),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, label, created_at, sources, table_count, ignored_count, document)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, snap.ID, snap.Label, snap.CreatedAt.Format(timeLayout), string(sourceList),
		snap.Tables, snap.Ignored, string(document)); err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_tables (snapshot_id, position, name, file, line, column_count, definition)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, t := range doc.Tables {
		if _, err := stmt.ExecContext(ctx, snap.ID, i, t.Name, t.File, t.Line, len(t.Columns), t.SQL); err != nil {
			return nil, fmt.Errorf("insert table %s: %w", t.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return snap, nil
}

// ListSnapshots returns all snapshots, newest first.
func (s *Store) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label, created_at, sources, table_count, ignored_count
		FROM snapshots
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snaps []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snaps, nil
}

// GetSnapshot returns a snapshot and the schema document saved with it.
func (s *Store) GetSnapshot(ctx context.Context, id string) (*Snapshot, *schema.Document, error) {
	if s.db == nil {
		return nil, nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, label, created_at, sources, table_count, ignored_count, document
		FROM snapshots
		WHERE id = ?
	`, id)

	var document string
	snap, err := scanSnapshot(row, &document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, nil, err
	}

	var doc schema.Document
	if err := json.Unmarshal([]byte(document), &doc); err != nil {
		return nil, nil, fmt.Errorf("decode schema of snapshot %s: %w", id, err)
	}
	return snap, &doc, nil
}

// SnapshotTables returns the tables of a snapshot in definition order.
func (s *Store) SnapshotTables(ctx context.Context, id string) ([]TableEntry, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, file, line, column_count, definition
		FROM snapshot_tables
		WHERE snapshot_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tables []TableEntry
	for rows.Next() {
		var t TableEntry
		if err := rows.Scan(&t.Name, &t.File, &t.Line, &t.Columns, &t.Definition); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}
	return tables, nil
}

// DeleteSnapshot removes a snapshot and its tables.
func (s *Store) DeleteSnapshot(ctx context.Context, id string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_tables WHERE snapshot_id = ?`, id); err != nil {
		return fmt.Errorf("delete tables: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanSnapshot scans the snapshot columns followed by any extra columns.
func scanSnapshot(row scanner, extra ...any) (*Snapshot, error) {
	var (
		snap      Snapshot
		createdAt string
		sources   string
	)
	dest := append([]any{&snap.ID, &snap.Label, &createdAt, &sources, &snap.Tables, &snap.Ignored}, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at of snapshot %s: %w", snap.ID, err)
	}
	snap.CreatedAt = t

	if err := json.Unmarshal([]byte(sources), &snap.Sources); err != nil {
		return nil, fmt.Errorf("decode sources of snapshot %s: %w", snap.ID, err)
	}
	return &snap, nil
}
