package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreOpenExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.volley/history.db")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".volley", "history.db")); err != nil {
		t.Errorf("database not created under home: %v", err)
	}
}

func TestSaveAndFetchMatch(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveMatch(MatchRecord{
		GameID:    "volley",
		Mode:      "cpu",
		Seed:      42,
		Winner:    "A",
		SetsA:     3,
		SetsB:     1,
		SetScores: "25-20 22-25 25-23 25-18",
		Points:    188,
		Ticks:     90000,
	})
	if err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}
	if len(id) != 36 {
		t.Errorf("expected a generated uuid, got %q", id)
	}

	rec, err := store.MatchByID(id)
	if err != nil {
		t.Fatalf("MatchByID() failed: %v", err)
	}
	if rec.GameID != "volley" || rec.Seed != 42 || rec.Winner != "A" || rec.SetsA != 3 || rec.SetsB != 1 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.EndReason != "completed" {
		t.Errorf("EndReason = %q, expected default completed", rec.EndReason)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt not populated")
	}
}

func TestMatchByIDNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.MatchByID("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRecentMatchesFiltersAndOrders(t *testing.T) {
	store := openTestStore(t)

	for i, game := range []string{"volley", "beach", "volley", "volley"} {
		if _, err := store.SaveMatch(MatchRecord{GameID: game, Mode: "demo", Seed: int64(i), Winner: "B"}); err != nil {
			t.Fatalf("SaveMatch() failed: %v", err)
		}
	}

	volley, err := store.RecentMatches("volley", 10)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(volley) != 3 {
		t.Fatalf("expected 3 volley matches, got %d", len(volley))
	}
	if volley[0].Seed != 3 {
		t.Errorf("expected newest first, got seed %d", volley[0].Seed)
	}

	all, err := store.RecentMatches("", 2)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("limit not applied: got %d", len(all))
	}
}

func TestAbandonedMatchHasNoWinner(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveMatch(MatchRecord{GameID: "beach", Mode: "hotseat", EndReason: "abandoned"})
	if err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}
	rec, err := store.MatchByID(id)
	if err != nil {
		t.Fatalf("MatchByID() failed: %v", err)
	}
	if rec.Winner != "" {
		t.Errorf("Winner = %q, expected empty", rec.Winner)
	}
}

func TestGameStatsAndClear(t *testing.T) {
	store := openTestStore(t)

	records := []MatchRecord{
		{GameID: "volley", Mode: "cpu", Winner: "A", Points: 100},
		{GameID: "volley", Mode: "cpu", Winner: "A", Points: 120},
		{GameID: "volley", Mode: "cpu", Winner: "B", Points: 140},
		{GameID: "volley", Mode: "cpu", EndReason: "abandoned", Points: 20},
	}
	for _, r := range records {
		if _, err := store.SaveMatch(r); err != nil {
			t.Fatalf("SaveMatch() failed: %v", err)
		}
	}

	stats, err := store.GetGameStats("volley")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.Played != 4 || stats.WinsA != 2 || stats.WinsB != 1 || stats.Abandoned != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.AvgPoints != 95 {
		t.Errorf("AvgPoints = %v, expected 95", stats.AvgPoints)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed not populated")
	}

	if err := store.ClearMatches("volley"); err != nil {
		t.Fatalf("ClearMatches() failed: %v", err)
	}
	stats, err = store.GetGameStats("volley")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.Played != 0 {
		t.Errorf("expected empty history after clear, got %d", stats.Played)
	}
}
