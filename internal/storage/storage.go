package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
	gamePrefix     = "game/"
)

// ErrNotFound is returned when a named game record does not exist.
var ErrNotFound = errors.New("not found")

// Preferences stores engine settings between sessions
type Preferences struct {
	Depth      int       `json:"depth"`
	Workers    int       `json:"workers"`
	Difficulty string    `json:"difficulty,omitempty"`
	LastPlayed time.Time `json:"last_played"`
}

// DefaultPreferences returns default preferences
func DefaultPreferences() *Preferences {
	return &Preferences{
		Depth:      2,
		Workers:    1,
		LastPlayed: time.Now(),
	}
}

// GameRecord is a saved game: the position text of every position from
// the start to the current one.
type GameRecord struct {
	Name    string    `json:"name"`
	FENs    []string  `json:"fens"`
	Result  string    `json:"result,omitempty"`
	SavedAt time.Time `json:"saved_at"`
}

// GameStats counts finished games by outcome
type GameStats struct {
	GamesPlayed int            `json:"games_played"`
	WhiteWins   int            `json:"white_wins"`
	BlackWins   int            `json:"black_wins"`
	Draws       int            `json:"draws"`
	DrawsByKind map[string]int `json:"draws_by_kind"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		DrawsByKind: make(map[string]int),
	}
}

// Outcome is the result of a finished game as stored in the statistics.
type Outcome struct {
	Winner string // "White", "Black" or "" for a draw
	Reason string // e.g. "stalemate"
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens or creates a database in dir
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dir, err)
	}

	return &Storage{db: db}, nil
}

// OpenInMemory opens a database that lives only in memory
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory database: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	var firstLaunch bool = true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if err == badger.ErrKeyNotFound {
			firstLaunch = true
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// putJSON stores v as JSON under key
func (s *Storage) putJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// getJSON decodes the value under key into v. found is false when the key
// does not exist; v is then left untouched.
func (s *Storage) getJSON(key string, v any) (found bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}

// SavePreferences saves preferences
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()
	return s.putJSON(keyPreferences, prefs)
}

// LoadPreferences loads preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	_, err := s.getJSON(keyPreferences, prefs)
	return prefs, err
}

// SaveGame stores a game record under its name, replacing any record with
// the same name.
func (s *Storage) SaveGame(rec GameRecord) error {
	if rec.Name == "" || strings.ContainsAny(rec.Name, " \t\n") {
		return fmt.Errorf("invalid game name %q", rec.Name)
	}
	if len(rec.FENs) == 0 {
		return fmt.Errorf("game %s has no positions", rec.Name)
	}
	rec.SavedAt = time.Now()
	if err := s.putJSON(gamePrefix+rec.Name, rec); err != nil {
		return fmt.Errorf("save game %s: %w", rec.Name, err)
	}
	return nil
}

// LoadGame returns the game record with the given name.
func (s *Storage) LoadGame(name string) (*GameRecord, error) {
	rec := &GameRecord{}
	found, err := s.getJSON(gamePrefix+name, rec)
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", name, err)
	}
	if !found {
		return nil, fmt.Errorf("game %s: %w", name, ErrNotFound)
	}
	return rec, nil
}

// DeleteGame removes a game record.
func (s *Storage) DeleteGame(name string) error {
	if _, err := s.LoadGame(name); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(gamePrefix + name))
	})
}

// ListGames returns the names of all saved games in sorted order.
func (s *Storage) ListGames() ([]string, error) {
	var names []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(gamePrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			names = append(names, strings.TrimPrefix(key, gamePrefix))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(names)
	return names, nil
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.putJSON(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	_, err := s.getJSON(keyStats, stats)
	if stats.DrawsByKind == nil {
		stats.DrawsByKind = make(map[string]int)
	}
	return stats, err
}

// RecordOutcome records a finished game and updates statistics
func (s *Storage) RecordOutcome(o Outcome) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	switch o.Winner {
	case "White":
		stats.WhiteWins++
	case "Black":
		stats.BlackWins++
	default:
		stats.Draws++
		stats.DrawsByKind[o.Reason]++
	}

	return s.SaveStats(stats)
}

// DrawRate returns the share of drawn games as a percentage (0-100)
func (s *GameStats) DrawRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Draws) / float64(s.GamesPlayed) * 100
}
