package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry describes one indexed document file.
type Entry struct {
	ID int64
	// Path is the absolute location of the document file.
	Path string
	// TypeName is the document's embedded type tag, empty when the file
	// carries none.
	TypeName string
	// ElementCount is the number of collection elements, or -1 when the
	// document is not a collection.
	ElementCount int64
	SizeBytes    int64
	ModifiedAt   time.Time
	AddedAt      time.Time
	UpdatedAt    time.Time
}

// Store manages the document index backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database and applies
// migrations. The parent directory is created if needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Put inserts or replaces the entry for a path. Re-adding an existing path
// refreshes its metadata and keeps the original added_at timestamp.
func (s *Store) Put(ctx context.Context, entry Entry) (*Entry, error) {
	if entry.Path == "" {
		return nil, errors.New("catalog: entry path is required")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO documents (path, type_name, element_count, size_bytes, modified_at, added_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(path) DO UPDATE SET
             type_name = excluded.type_name,
             element_count = excluded.element_count,
             size_bytes = excluded.size_bytes,
             modified_at = excluded.modified_at,
             updated_at = excluded.updated_at`,
		entry.Path,
		nullableString(entry.TypeName),
		nullableCount(entry.ElementCount),
		entry.SizeBytes,
		nullableTime(entry.ModifiedAt),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert document: %w", err)
	}
	return s.GetByPath(ctx, entry.Path)
}

// GetByPath fetches the entry for a path, or nil when none exists.
func (s *Store) GetByPath(ctx context.Context, path string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM documents WHERE path = ?`, path)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return entry, nil
}

// List returns all entries ordered by path. When typeName is non-empty only
// entries with that type tag are returned.
func (s *Store) List(ctx context.Context, typeName string) ([]*Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM documents ORDER BY path`
	args := []any{}
	if typeName != "" {
		query = `SELECT ` + entryColumns + ` FROM documents WHERE type_name = ? ORDER BY path`
		args = append(args, typeName)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return entries, nil
}

// Remove deletes the entry for a path and reports whether one existed.
func (s *Store) Remove(ctx context.Context, path string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE path = ?`, path)
	if err != nil {
		return false, fmt.Errorf("remove document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Clear deletes every entry and returns the number removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents`)
	if err != nil {
		return 0, fmt.Errorf("clear documents: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

const entryColumns = "id, path, type_name, element_count, size_bytes, modified_at, added_at, updated_at"

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		id           int64
		path         string
		typeName     sql.NullString
		elementCount sql.NullInt64
		sizeBytes    int64
		modifiedRaw  sql.NullString
		addedRaw     string
		updatedRaw   string
	)
	if err := scanner.Scan(&id, &path, &typeName, &elementCount, &sizeBytes, &modifiedRaw, &addedRaw, &updatedRaw); err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:           id,
		Path:         path,
		TypeName:     typeName.String,
		ElementCount: -1,
		SizeBytes:    sizeBytes,
	}
	if elementCount.Valid {
		entry.ElementCount = elementCount.Int64
	}
	if modifiedRaw.Valid {
		entry.ModifiedAt = parseTimestamp(modifiedRaw.String)
	}
	entry.AddedAt = parseTimestamp(addedRaw)
	entry.UpdatedAt = parseTimestamp(updatedRaw)
	return entry, nil
}

func parseTimestamp(value string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableCount(value int64) any {
	if value < 0 {
		return nil
	}
	return value
}

func nullableTime(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}
