// Package store persists the device-local state: the user's library, the
// reading history, and the reader settings. State lives in a single bbolt
// file as three JSON documents, written wholesale on every mutation, with a
// memory cache promoted on read. An empty data dir gives a memory-only
// store with identical semantics and no persistence.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/inkbound/inkbound/internal/domain"
	bolt "go.etcd.io/bbolt"
)

var bucketState = []byte("state")

const (
	keyLibrary  = "library"
	keyHistory  = "history"
	keySettings = "settings"
)

// Store holds the snapshot state. Mutations are read-modify-write over a
// whole collection, so a single lock serializes all access.
type Store struct {
	db *bolt.DB
	mu sync.Mutex

	// Decoded-bytes cache, promoted on read
	cache map[string][]byte

	now func() time.Time
}

// New opens the state database under dataDir. An empty dataDir selects
// memory-only mode.
func New(dataDir string) (*Store, error) {
	s := &Store{
		cache: make(map[string][]byte),
		now:   time.Now,
	}
	if dataDir == "" {
		return s, nil
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, "inkbound.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketState)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// get decodes the document under key into dest. Caller holds s.mu.
func (s *Store) get(key string, dest interface{}) bool {
	if data, ok := s.cache[key]; ok {
		return json.Unmarshal(data, dest) == nil
	}

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketState)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.cache[key] = data

	return json.Unmarshal(data, dest) == nil
}

// set writes the document under key. Caller holds s.mu.
func (s *Store) set(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.cache[key] = data

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketState)
		return b.Put([]byte(key), data)
	})
}

func (s *Store) library() []domain.LibraryEntry {
	var entries []domain.LibraryEntry
	s.get(keyLibrary, &entries)
	if entries == nil {
		entries = []domain.LibraryEntry{}
	}
	return entries
}

func (s *Store) history() []domain.HistoryEntry {
	var entries []domain.HistoryEntry
	s.get(keyHistory, &entries)
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	return entries
}

func (s *Store) settings() domain.Settings {
	// Decoding onto the defaults keeps missing fields at their default
	// values; unknown fields in the stored document are dropped
	out := domain.DefaultSettings()
	s.get(keySettings, &out)
	out.Version = domain.SettingsVersion
	return out
}

// Library returns all library entries, most recently updated first as stored
func (s *Store) Library() []domain.LibraryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.library()
}

// AddToLibrary inserts a library entry at the front. An empty id or an id
// already present is a no-op.
func (s *Store) AddToLibrary(e domain.LibraryEntry) error {
	if e.ID == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.library()
	for _, existing := range entries {
		if existing.ID == e.ID {
			return nil
		}
	}

	if e.Status == "" {
		e.Status = domain.ReadStatusReading
	}
	if e.UpdatedAt == 0 {
		e.UpdatedAt = s.now().UnixMilli()
	}

	return s.set(keyLibrary, append([]domain.LibraryEntry{e}, entries...))
}

// RemoveFromLibrary deletes the entry with the exact id. Absent ids are a
// no-op.
func (s *Store) RemoveFromLibrary(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.library()
	kept := make([]domain.LibraryEntry, 0, len(entries))
	changed := false
	for _, e := range entries {
		if e.ID == id {
			changed = true
			continue
		}
		kept = append(kept, e)
	}
	if !changed {
		return nil
	}
	return s.set(keyLibrary, kept)
}

// UpdateStatus changes the shelf of an existing entry and bumps its
// timestamp. Absent ids are a no-op.
func (s *Store) UpdateStatus(id string, status domain.ReadStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.library()
	for i := range entries {
		if entries[i].ID == id {
			entries[i].Status = status
			entries[i].UpdatedAt = s.now().UnixMilli()
			return s.set(keyLibrary, entries)
		}
	}
	return nil
}

// History returns all history entries, most recent first
func (s *Store) History() []domain.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history()
}

// GetHistory returns the stored position for one manga
func (s *Store) GetHistory(mangaID string) (domain.HistoryEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.history() {
		if e.MangaID == mangaID {
			return e, true
		}
	}
	return domain.HistoryEntry{}, false
}

// AddToHistory records a reading position. Any prior entry for the same
// manga is replaced and the new entry moves to the front, so history holds
// at most one row per manga. An empty manga id is a no-op.
func (s *Store) AddToHistory(e domain.HistoryEntry) error {
	if e.MangaID == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.history()
	kept := make([]domain.HistoryEntry, 0, len(entries)+1)
	for _, existing := range entries {
		if existing.MangaID == e.MangaID {
			continue
		}
		kept = append(kept, existing)
	}

	if e.ReadAt == 0 {
		e.ReadAt = s.now().UnixMilli()
	}

	return s.set(keyHistory, append([]domain.HistoryEntry{e}, kept...))
}

// RemoveFromHistory deletes one manga's history row
func (s *Store) RemoveFromHistory(mangaID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.history()
	kept := make([]domain.HistoryEntry, 0, len(entries))
	changed := false
	for _, e := range entries {
		if e.MangaID == mangaID {
			changed = true
			continue
		}
		kept = append(kept, e)
	}
	if !changed {
		return nil
	}
	return s.set(keyHistory, kept)
}

// ClearHistory drops every history entry
func (s *Store) ClearHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(keyHistory, []domain.HistoryEntry{})
}

// Settings returns the stored settings merged over the defaults
func (s *Store) Settings() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings()
}

// UpdateSettings applies a partial update and returns the merged result
func (s *Store) UpdateSettings(p domain.SettingsPatch) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.settings().Merge(p)
	if err := s.set(keySettings, merged); err != nil {
		return domain.Settings{}, err
	}
	return merged, nil
}

// Export produces the full snapshot. Marshaling it yields a JSON document
// with exactly the library, history, and settings keys.
func (s *Store) Export() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.Snapshot{
		Library:  s.library(),
		History:  s.history(),
		Settings: s.settings(),
	}
}

// Import replaces library and history from an exported document. The
// document must carry both the library and history keys or nothing is
// touched; settings are merged over the current values rather than
// replaced, so an older export cannot strip newer preferences.
func (s *Store) Import(doc []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(doc, &probe); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBadSnapshot, err)
	}
	libraryRaw, hasLibrary := probe[keyLibrary]
	historyRaw, hasHistory := probe[keyHistory]
	if !hasLibrary || !hasHistory {
		return fmt.Errorf("%w: missing library or history", domain.ErrBadSnapshot)
	}

	var library []domain.LibraryEntry
	if err := json.Unmarshal(libraryRaw, &library); err != nil {
		return fmt.Errorf("%w: library: %v", domain.ErrBadSnapshot, err)
	}
	var history []domain.HistoryEntry
	if err := json.Unmarshal(historyRaw, &history); err != nil {
		return fmt.Errorf("%w: history: %v", domain.ErrBadSnapshot, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.set(keyLibrary, library); err != nil {
		return err
	}
	if err := s.set(keyHistory, history); err != nil {
		return err
	}

	if settingsRaw, ok := probe[keySettings]; ok {
		merged := s.settings()
		if err := json.Unmarshal(settingsRaw, &merged); err == nil {
			merged.Version = domain.SettingsVersion
			return s.set(keySettings, merged)
		}
	}
	return nil
}
