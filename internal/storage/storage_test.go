package storage

import (
	"errors"
	"os"
	"reflect"
	"testing"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPreferences(t *testing.T) {
	s := openTest(t)

	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if prefs.Depth != 2 || prefs.Workers != 1 {
		t.Errorf("defaults = %+v, want depth 2, workers 1", prefs)
	}

	prefs.Depth = 3
	prefs.Workers = 4
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}

	got, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if got.Depth != 3 || got.Workers != 4 {
		t.Errorf("loaded = %+v, want depth 3, workers 4", got)
	}
}

func TestGameRecords(t *testing.T) {
	s := openTest(t)

	rec := GameRecord{
		Name: "scholar",
		FENs: []string{
			"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		},
	}
	if err := s.SaveGame(rec); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	if err := s.SaveGame(GameRecord{Name: "another", FENs: rec.FENs[:1]}); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}

	got, err := s.LoadGame("scholar")
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if !reflect.DeepEqual(got.FENs, rec.FENs) {
		t.Errorf("FENs = %v, want %v", got.FENs, rec.FENs)
	}
	if got.SavedAt.IsZero() {
		t.Error("SavedAt not set")
	}

	names, err := s.ListGames()
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if want := []string{"another", "scholar"}; !reflect.DeepEqual(names, want) {
		t.Errorf("ListGames = %v, want %v", names, want)
	}

	if err := s.DeleteGame("another"); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}
	if _, err := s.LoadGame("another"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadGame after delete: err = %v, want ErrNotFound", err)
	}
}

func TestGameRecordErrors(t *testing.T) {
	s := openTest(t)

	if _, err := s.LoadGame("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadGame: err = %v, want ErrNotFound", err)
	}
	if err := s.DeleteGame("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteGame: err = %v, want ErrNotFound", err)
	}

	tests := []struct {
		name string
		rec  GameRecord
	}{
		{"empty name", GameRecord{FENs: []string{"x"}}},
		{"name with space", GameRecord{Name: "my game", FENs: []string{"x"}}},
		{"no positions", GameRecord{Name: "empty"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.SaveGame(tt.rec); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestStats(t *testing.T) {
	s := openTest(t)

	outcomes := []Outcome{
		{Winner: "White", Reason: "checkmate"},
		{Winner: "Black", Reason: "checkmate"},
		{Reason: "stalemate"},
		{Reason: "threefold repetition"},
		{Reason: "stalemate"},
	}
	for _, o := range outcomes {
		if err := s.RecordOutcome(o); err != nil {
			t.Fatalf("RecordOutcome: %v", err)
		}
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if stats.GamesPlayed != 5 || stats.WhiteWins != 1 || stats.BlackWins != 1 || stats.Draws != 3 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.DrawsByKind["stalemate"] != 2 {
		t.Errorf("stalemates = %d, want 2", stats.DrawsByKind["stalemate"])
	}
	if rate := stats.DrawRate(); rate != 60 {
		t.Errorf("DrawRate = %.2f, want 60", rate)
	}
	if NewGameStats().DrawRate() != 0 {
		t.Error("empty stats draw rate not 0")
	}
}

func TestFirstLaunch(t *testing.T) {
	s := openTest(t)

	first, err := s.IsFirstLaunch()
	if err != nil || !first {
		t.Fatalf("IsFirstLaunch = %v, %v; want true", first, err)
	}
	if err := s.MarkFirstLaunchComplete(); err != nil {
		t.Fatal(err)
	}
	if first, _ := s.IsFirstLaunch(); first {
		t.Error("still first launch after marking complete")
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.SaveGame(GameRecord{Name: "kept", FENs: []string{"8/8/8/8/8/8/8/8 w - - 0 1"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.LoadGame("kept"); err != nil {
		t.Errorf("LoadGame after reopen: %v", err)
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}

	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	dbDir, err := GetDatabaseDir()
	if err != nil {
		t.Fatalf("GetDatabaseDir failed: %v", err)
	}
	t.Logf("Database directory: %s", dbDir)
}
