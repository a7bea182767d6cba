package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-volley/internal/core"
	"github.com/vovakirdan/tui-volley/internal/storage"
)

// fakeGame ends after a fixed number of steps and records what it saw.
type fakeGame struct {
	steps    int
	endAfter int
	resets   int
	last     core.InputFrame
	points   int
}

func (g *fakeGame) ID() string { return "fake" }
func (g *fakeGame) Title() string { return "Fake" }
func (g *fakeGame) Reset(core.RuntimeConfig) {
	g.resets++
	g.steps = 0
}

func (g *fakeGame) Step(in core.InputFrame) core.StepResult {
	g.steps++
	g.last = core.NewInputFrame()
	for slot, intent := range in.Intents {
		g.last.SetIntent(slot, intent)
	}
	if g.steps%10 == 0 {
		g.points++
	}
	return core.StepResult{State: g.State()}
}

func (g *fakeGame) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawText(0, 0, "fake court")
}

func (g *fakeGame) State() core.GameState {
	return core.GameState{GameOver: g.endAfter > 0 && g.steps >= g.endAfter}
}

func (g *fakeGame) Result() (storage.MatchRecord, bool) {
	rec := storage.MatchRecord{GameID: "fake", Mode: "cpu", Points: g.points, Winner: "A"}
	if !g.State().GameOver {
		rec.Winner = ""
		rec.EndReason = "abandoned"
	}
	return rec, g.points > 0
}

func newTestModel(t *testing.T, g *fakeGame) (Model, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := core.DefaultConfig()
	cfg.Seed = 1
	m := NewModel(g, store, cfg, nil)
	m.Init()
	return m, store
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelSavesFinishedMatchOnce(t *testing.T) {
	g := &fakeGame{endAfter: 30}
	m, store := newTestModel(t, g)

	for range 40 {
		m = step(t, m, TickMsg{})
	}

	matches, err := store.RecentMatches("fake", 10)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one saved match, got %d", len(matches))
	}
	if matches[0].EndReason != "completed" || matches[0].Winner != "A" {
		t.Errorf("unexpected record %+v", matches[0])
	}
}

func TestModelSavesAbandonedMatchOnQuit(t *testing.T) {
	g := &fakeGame{}
	m, store := newTestModel(t, g)

	for range 15 {
		m = step(t, m, TickMsg{})
	}
	next, cmd := m.Update(runeKey('q'))
	m = next.(Model)
	if !m.IsQuitting() || cmd == nil {
		t.Fatal("q should quit")
	}

	matches, _ := store.RecentMatches("fake", 10)
	if len(matches) != 1 || matches[0].EndReason != "abandoned" {
		t.Errorf("expected one abandoned match, got %+v", matches)
	}
}

func TestModelFeedsHeldInput(t *testing.T) {
	g := &fakeGame{}
	m, _ := newTestModel(t, g)

	m = step(t, m, runeKey('d'))
	m = step(t, m, TickMsg{})
	if !g.last.Intent(0).MoveRight {
		t.Error("held key did not reach the game")
	}
	m = step(t, m, TickMsg{})
	if !g.last.Intent(0).MoveRight {
		t.Error("movement released after one tick")
	}
}

func TestModelBackNeedsPauseOrGameOver(t *testing.T) {
	g := &fakeGame{}
	m, _ := newTestModel(t, g)
	m = step(t, m, TickMsg{})

	m = step(t, m, runeKey('b'))
	if m.BackToMenu() {
		t.Error("back accepted mid-match")
	}

	g.endAfter = 2
	m = step(t, m, TickMsg{})
	m = step(t, m, runeKey('b'))
	if !m.BackToMenu() {
		t.Error("back refused after the match ended")
	}
	if m.View() != "" {
		t.Error("view should be empty after leaving")
	}
}

func TestModelRestartResetsGame(t *testing.T) {
	g := &fakeGame{endAfter: 3}
	m, _ := newTestModel(t, g)
	for range 3 {
		m = step(t, m, TickMsg{})
	}
	resets := g.resets

	m = step(t, m, runeKey('r'))
	m = step(t, m, TickMsg{})
	if g.resets != resets+1 {
		t.Errorf("expected a reset, got %d -> %d", resets, g.resets)
	}
	if !strings.Contains(m.View(), "fake court") {
		t.Error("view does not show the game")
	}
}
