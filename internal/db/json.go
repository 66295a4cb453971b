package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/frontline-pass/frontline/internal/util"
)

const (
	renameAttempts = 3
	renameBackoff  = 100 * time.Millisecond
)

// jsonDocument is the on-disk layout. Fields are declared in key order so
// the encoded document is sorted.
type jsonDocument struct {
	Metadata map[string]string `json:"metadata"`
	Players  map[string]string `json:"players"`
}

// JSONStore keeps the whole document in memory and rewrites the file on
// every change.
type JSONStore struct {
	mu     sync.RWMutex
	path   string
	doc    jsonDocument
	logger zerolog.Logger
}

// OpenJSON loads (or creates) the JSON document at path.
func OpenJSON(path string) (*JSONStore, error) {
	if err := util.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	s := &JSONStore{
		path:   path,
		logger: util.ComponentLogger("db"),
	}
	s.doc = s.load()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.saveLocked(); err != nil {
		return nil, err
	}

	s.logger.Info().Str("path", path).Int("players", len(s.doc.Players)).Msg("using json database file")
	return s, nil
}

// load reads the document. Missing or unreadable files yield an empty one.
func (s *JSONStore) load() jsonDocument {
	doc := jsonDocument{
		Metadata: make(map[string]string),
		Players:  make(map[string]string),
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Error().Err(err).Str("path", s.path).Msg("failed to read json database; starting empty")
		}
		return doc
	}

	var raw struct {
		Metadata map[string]json.RawMessage `json:"metadata"`
		Players  map[string]json.RawMessage `json:"players"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("failed to parse json database; starting empty")
		return doc
	}

	for userID, record := range raw.Players {
		if playerID := decodePlayerRecord(record); playerID != "" {
			doc.Players[userID] = playerID
		}
	}
	for key, value := range raw.Metadata {
		var str string
		if json.Unmarshal(value, &str) == nil {
			doc.Metadata[key] = str
		}
	}
	return doc
}

// decodePlayerRecord accepts a bare string or the legacy {"steam_id": "..."}.
func decodePlayerRecord(record json.RawMessage) string {
	var id string
	if json.Unmarshal(record, &id) == nil {
		return id
	}
	var legacy struct {
		SteamID string `json:"steam_id"`
	}
	if json.Unmarshal(record, &legacy) == nil {
		return legacy.SteamID
	}
	return ""
}

// saveLocked writes <path>.tmp and renames it over path. Caller holds mu.
func (s *JSONStore) saveLocked() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode json database: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}

	for attempt := 1; ; attempt++ {
		err = os.Rename(tmp, s.path)
		if err == nil {
			return nil
		}
		if attempt == renameAttempts {
			return fmt.Errorf("failed to replace %s: %w", s.path, err)
		}
		s.logger.Warn().Err(err).Int("attempt", attempt).Msg("rename failed, retrying")
		time.Sleep(renameBackoff)
	}
}

// mutate applies fn under the write lock and persists the result. When fn
// fails or the write fails the in-memory state is rolled back.
func (s *JSONStore) mutate(fn func(doc *jsonDocument) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.doc.clone()
	if err := fn(&s.doc); err != nil {
		s.doc = backup
		return err
	}
	if err := s.saveLocked(); err != nil {
		s.doc = backup
		return err
	}
	return nil
}

func (d jsonDocument) clone() jsonDocument {
	c := jsonDocument{
		Metadata: make(map[string]string, len(d.Metadata)),
		Players:  make(map[string]string, len(d.Players)),
	}
	for k, v := range d.Metadata {
		c.Metadata[k] = v
	}
	for k, v := range d.Players {
		c.Players[k] = v
	}
	return c
}

func (s *JSONStore) UpsertPlayer(_ context.Context, userID, playerID, name string) error {
	userID, playerID, err := normalizeIDs(userID, playerID)
	if err != nil {
		return err
	}
	name = trimName(name)

	return s.mutate(func(doc *jsonDocument) error {
		for owner, existing := range doc.Players {
			if existing == playerID && owner != userID {
				return &DuplicatePlayerIDError{PlayerID: playerID, ExistingUserID: owner}
			}
		}
		doc.Players[userID] = playerID
		if name != "" {
			doc.Metadata[playerNameKey(userID)] = name
		}
		return nil
	})
}

func (s *JSONStore) FetchPlayer(_ context.Context, userID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, ok := s.doc.Players[trimID(userID)]; ok {
		return id, nil
	}
	return "", ErrNotFound
}

func (s *JSONStore) FetchPlayerName(ctx context.Context, userID string) (string, error) {
	return s.GetMetadata(ctx, playerNameKey(trimID(userID)))
}

func (s *JSONStore) FetchUserIDForPlayer(_ context.Context, playerID string) (string, error) {
	playerID = trimID(playerID)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for owner, id := range s.doc.Players {
		if id == playerID {
			return owner, nil
		}
	}
	return "", ErrNotFound
}

func (s *JSONStore) CountPlayers(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.doc.Players), nil
}

func (s *JSONStore) SetMetadata(_ context.Context, key, value string) error {
	return s.mutate(func(doc *jsonDocument) error {
		doc.Metadata[key] = value
		return nil
	})
}

func (s *JSONStore) GetMetadata(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.doc.Metadata[key]; ok {
		return v, nil
	}
	return "", ErrNotFound
}

func (s *JSONStore) DeleteMetadata(_ context.Context, key string) error {
	s.mu.RLock()
	_, ok := s.doc.Metadata[key]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	return s.mutate(func(doc *jsonDocument) error {
		delete(doc.Metadata, key)
		return nil
	})
}

func (s *JSONStore) Info() StoreInfo {
	return StoreInfo{Backend: BackendJSON, Path: s.path}
}

// Close is a no-op; every change is already on disk.
func (s *JSONStore) Close() error { return nil }
