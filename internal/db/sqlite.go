package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/frontline-pass/frontline/internal/util"
)

// SQLiteStore is the legacy backend: an existing SQLite file holding the
// link table and a metadata table.
type SQLiteStore struct {
	mu     sync.Mutex // serializes writers
	db     *sql.DB
	path   string
	table  string
	logger zerolog.Logger
}

// OpenSQLite opens (or creates) a SQLite database at path and ensures the
// schema exists. table names the link table.
func OpenSQLite(path, table string) (*SQLiteStore, error) {
	if table == "" || strings.ContainsAny(table, "\"\x00") {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if err := util.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	logger := util.ComponentLogger("db")
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		logger.Warn().Err(err).Msg("failed to enable WAL mode")
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		path:   path,
		table:  table,
		logger: logger,
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info().Str("path", path).Str("table", table).Msg("using legacy sqlite database")
	return s, nil
}

func (s *SQLiteStore) quotedTable() string {
	return `"` + s.table + `"`
}

func (s *SQLiteStore) migrate() error {
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			discord_id TEXT UNIQUE NOT NULL,
			steam_id TEXT UNIQUE NOT NULL
		);

		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT
		);
	`, s.quotedTable())

	_, err := s.db.Exec(schema)
	return err
}

// transaction runs fn inside a write transaction.
func (s *SQLiteStore) transaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) UpsertPlayer(ctx context.Context, userID, playerID, name string) error {
	userID, playerID, err := normalizeIDs(userID, playerID)
	if err != nil {
		return err
	}
	name = trimName(name)

	return s.transaction(ctx, func(tx *sql.Tx) error {
		var owner string
		err := tx.QueryRowContext(ctx,
			fmt.Sprintf("SELECT discord_id FROM %s WHERE steam_id = ?", s.quotedTable()), playerID,
		).Scan(&owner)
		switch {
		case err == nil && owner != userID:
			return &DuplicatePlayerIDError{PlayerID: playerID, ExistingUserID: owner}
		case err != nil && !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("failed to look up player %s: %w", playerID, err)
		}

		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
			INSERT INTO %s (discord_id, steam_id) VALUES (?, ?)
			ON CONFLICT(discord_id) DO UPDATE SET steam_id = excluded.steam_id
		`, s.quotedTable()), userID, playerID); err != nil {
			return fmt.Errorf("failed to upsert player: %w", err)
		}

		if name != "" {
			if err := upsertMetadata(ctx, tx, playerNameKey(userID), name); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertMetadata(ctx context.Context, tx *sql.Tx, key, value string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to store metadata %s: %w", key, err)
	}
	return nil
}

// fetchValue runs a single-column query; no row maps to ErrNotFound.
func (s *SQLiteStore) fetchValue(ctx context.Context, query string, args ...any) (string, error) {
	var value sql.NullString
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !value.Valid) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query failed: %w", err)
	}
	return value.String, nil
}

func (s *SQLiteStore) FetchPlayer(ctx context.Context, userID string) (string, error) {
	return s.fetchValue(ctx,
		fmt.Sprintf("SELECT steam_id FROM %s WHERE discord_id = ?", s.quotedTable()), trimID(userID))
}

func (s *SQLiteStore) FetchPlayerName(ctx context.Context, userID string) (string, error) {
	return s.GetMetadata(ctx, playerNameKey(trimID(userID)))
}

func (s *SQLiteStore) FetchUserIDForPlayer(ctx context.Context, playerID string) (string, error) {
	return s.fetchValue(ctx,
		fmt.Sprintf("SELECT discord_id FROM %s WHERE steam_id = ?", s.quotedTable()), trimID(playerID))
}

func (s *SQLiteStore) CountPlayers(ctx context.Context) (int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s", s.quotedTable())).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return total, nil
}

func (s *SQLiteStore) SetMetadata(ctx context.Context, key, value string) error {
	return s.transaction(ctx, func(tx *sql.Tx) error {
		return upsertMetadata(ctx, tx, key, value)
	})
}

func (s *SQLiteStore) GetMetadata(ctx context.Context, key string) (string, error) {
	return s.fetchValue(ctx, "SELECT value FROM metadata WHERE key = ?", key)
}

func (s *SQLiteStore) DeleteMetadata(ctx context.Context, key string) error {
	return s.transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM metadata WHERE key = ?", key)
		return err
	})
}

func (s *SQLiteStore) Info() StoreInfo {
	return StoreInfo{Backend: BackendSQLite, Path: s.path}
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
