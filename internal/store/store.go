package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"media-picker/internal/assets"
	"media-picker/internal/crop"
	"media-picker/internal/logging"
)

// Default timeout for database operations
const defaultTimeout = 5 * time.Second

// SessionStore is a crop.Slot backed by a SQLite file.
type SessionStore struct {
	db     *sql.DB
	dbPath string
}

// New opens (creating if necessary) the session database at dbPath. The
// parent directory must already exist and be writable.
func New(ctx context.Context, dbPath string) (*SessionStore, error) {
	logging.Debug("Session database path: %s", dbPath)

	// WAL keeps the single-writer case fast; busy_timeout papers over
	// short-lived lock contention from a concurrent reader.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to session database: %w", err)
	}

	s := &SessionStore{db: db, dbPath: dbPath}
	if err := s.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after init failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize session schema: %w", err)
	}

	logging.Info("Session database ready at %s", dbPath)
	return s, nil
}

func (s *SessionStore) initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS crop_entries (
		position    INTEGER NOT NULL,
		asset_id    TEXT PRIMARY KEY,
		media_type  TEXT NOT NULL,
		width       INTEGER NOT NULL,
		height      INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		geometry    TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_crop_entries_position ON crop_entries(position);
	`

	initCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.db.ExecContext(initCtx, schema)
	return err
}

// Replace implements crop.Slot: the stored list is swapped wholesale
// inside one transaction.
func (s *SessionStore) Replace(entries []crop.Entry) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			logging.Warn("session store rollback failed: %v", err)
		}
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM crop_entries"); err != nil {
		return fmt.Errorf("failed to clear previous session: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO crop_entries (position, asset_id, media_type, width, height, duration_ms, geometry)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, entry := range entries {
		geometry, err := json.Marshal(entry.Geometry)
		if err != nil {
			return fmt.Errorf("failed to encode geometry for %s: %w", entry.Asset.ID(), err)
		}
		asset := entry.Asset
		_, err = stmt.ExecContext(ctx, i, asset.ID(), string(asset.Type()),
			asset.Width(), asset.Height(), asset.Duration().Milliseconds(), string(geometry))
		if err != nil {
			return fmt.Errorf("failed to insert entry for %s: %w", asset.ID(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	logging.Debug("session store: persisted %d entries", len(entries))
	return nil
}

// Entries implements crop.Slot. Restored entries carry
// assets.Descriptor handles; see the package comment.
func (s *SessionStore) Entries() ([]crop.Entry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT asset_id, media_type, width, height, duration_ms, geometry
		FROM crop_entries ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query session entries: %w", err)
	}
	defer rows.Close()

	var entries []crop.Entry
	for rows.Next() {
		var (
			desc       assets.Descriptor
			durationMS int64
			geometry   string
		)
		if err := rows.Scan(&desc.AssetID, &desc.MediaType, &desc.PixelW, &desc.PixelH, &durationMS, &geometry); err != nil {
			return nil, fmt.Errorf("failed to scan session entry: %w", err)
		}
		desc.ClipLength = time.Duration(durationMS) * time.Millisecond

		var geom crop.Geometry
		if err := json.Unmarshal([]byte(geometry), &geom); err != nil {
			return nil, fmt.Errorf("failed to decode geometry for %s: %w", desc.AssetID, err)
		}
		entries = append(entries, crop.Entry{Asset: desc, Geometry: geom})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read session entries: %w", err)
	}
	return entries, nil
}

// Clear implements crop.Slot.
func (s *SessionStore) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM crop_entries"); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SessionStore) Close() error {
	return s.db.Close()
}
