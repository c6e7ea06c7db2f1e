package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"jukebox/internal/config"
	"jukebox/internal/playlist"
)

// ErrLocked indicates another process already owns the state directory.
var ErrLocked = errors.New("state directory is locked by another process")

// Store manages playlist persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open acquires the state lock, connects to the playlist database, and
// initializes the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(filepath.Join(cfg.Paths.StateDir, "jukebox.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire state lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}

	dbPath := filepath.Join(cfg.Paths.StateDir, "playlist.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
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
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: lock}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return store, nil
}

// Close releases the database connection and the state lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var err error
	if s.db != nil {
		err = s.db.Close()
	}
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
	}
	return err
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// SaveQueue replaces the persisted queue with the given snapshots in order.
func (s *Store) SaveQueue(ctx context.Context, snaps []playlist.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_entries`); err != nil {
		return fmt.Errorf("clear persisted queue: %w", err)
	}

	savedAt := time.Now().UTC().Format(time.RFC3339Nano)
	for i, snap := range snaps {
		metaJSON, err := marshalMeta(snap.Meta)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO playlist_entries (
                position, url, title, duration_seconds, downloaded, filename, meta_json, saved_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			i,
			snap.URL,
			snap.Title,
			snap.Duration,
			boolToInt(snap.Downloaded),
			nullableString(snap.Filename),
			metaJSON,
			savedAt,
		)
		if err != nil {
			return fmt.Errorf("insert entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// LoadQueue returns the persisted snapshots in queue order.
func (s *Store) LoadQueue(ctx context.Context) ([]playlist.Snapshot, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT url, title, duration_seconds, downloaded, filename, meta_json
         FROM playlist_entries ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("query persisted queue: %w", err)
	}
	defer rows.Close()

	var snaps []playlist.Snapshot
	for rows.Next() {
		var (
			snap       playlist.Snapshot
			downloaded int
			filename   sql.NullString
			metaJSON   sql.NullString
		)
		if err := rows.Scan(&snap.URL, &snap.Title, &snap.Duration, &downloaded, &filename, &metaJSON); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		snap.Version = playlist.SnapshotVersion
		snap.Downloaded = downloaded != 0
		snap.Filename = filename.String
		if metaJSON.Valid && metaJSON.String != "" {
			if err := json.Unmarshal([]byte(metaJSON.String), &snap.Meta); err != nil {
				return nil, fmt.Errorf("unmarshal entry meta: %w", err)
			}
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// Count returns the number of persisted entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM playlist_entries`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count persisted queue: %w", err)
	}
	return count, nil
}

func marshalMeta(meta map[string]playlist.MetaRef) (any, error) {
	if len(meta) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal entry meta: %w", err)
	}
	return string(data), nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
