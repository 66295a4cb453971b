// Package db implements the player-link store: the mapping from a community
// user id to a game player id, plus a small metadata key/value table. Two
// backends exist, a JSON document (the default) and a legacy SQLite file.
package db

//go:generate go tool mockgen -source=store.go -destination=mock_store.go -package=db

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"

	playerNamePrefix = "player_name:"
)

var sqliteMagic = []byte("SQLite format 3")

var (
	// ErrNotFound is returned when a user, player or metadata key is unknown.
	ErrNotFound = errors.New("not found")

	// ErrEmptyID is returned when a user id or player id is blank.
	ErrEmptyID = errors.New("user id and player id must not be empty")
)

// DuplicatePlayerIDError is returned when a player id is already linked to a
// different user. The store is left unchanged.
type DuplicatePlayerIDError struct {
	PlayerID       string
	ExistingUserID string
}

func (e *DuplicatePlayerIDError) Error() string {
	return fmt.Sprintf("Player-ID %s already registered.", e.PlayerID)
}

// StoreInfo describes the active backend for diagnostics.
type StoreInfo struct {
	Backend string `json:"backend"`
	Path    string `json:"path"`
}

// PlayerLinkStore persists user -> player links and metadata. Implementations
// are safe for concurrent use.
type PlayerLinkStore interface {
	// UpsertPlayer links userID to playerID. A user may re-link to a new
	// player; linking a player owned by someone else fails with
	// *DuplicatePlayerIDError. A non-empty name is stored alongside.
	UpsertPlayer(ctx context.Context, userID, playerID, name string) error
	FetchPlayer(ctx context.Context, userID string) (string, error)
	FetchPlayerName(ctx context.Context, userID string) (string, error)
	FetchUserIDForPlayer(ctx context.Context, playerID string) (string, error)
	CountPlayers(ctx context.Context) (int, error)

	SetMetadata(ctx context.Context, key, value string) error
	GetMetadata(ctx context.Context, key string) (string, error)
	DeleteMetadata(ctx context.Context, key string) error

	Info() StoreInfo
	Close() error
}

// Open opens the store at path. An existing SQLite database selects the
// legacy SQLite backend using table for the links; anything else is treated
// as a JSON document, which is created if missing.
func Open(path, table string) (PlayerLinkStore, error) {
	isSQLite, err := isSQLiteFile(path)
	if err != nil {
		return nil, err
	}
	if isSQLite {
		return OpenSQLite(path, table)
	}
	return OpenJSON(path)
}

func isSQLiteFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if st, err := f.Stat(); err == nil && st.IsDir() {
		return false, fmt.Errorf("database path %s is a directory", path)
	}

	header := make([]byte, len(sqliteMagic))
	if _, err := io.ReadFull(f, header); err != nil {
		return false, nil
	}
	return bytes.Equal(header, sqliteMagic), nil
}

// normalizeIDs trims both ids. Comparison after trimming is case-sensitive.
func normalizeIDs(userID, playerID string) (string, string, error) {
	userID = strings.TrimSpace(userID)
	playerID = strings.TrimSpace(playerID)
	if userID == "" || playerID == "" {
		return "", "", ErrEmptyID
	}
	return userID, playerID, nil
}

func playerNameKey(userID string) string {
	return playerNamePrefix + userID
}

func trimID(id string) string {
	return strings.TrimSpace(id)
}

func trimName(name string) string {
	return strings.TrimSpace(name)
}
