// Package registry maps variant IDs to game factories. Variants register
// themselves from init functions so the shell can list and start them without
// knowing how they are built.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-volley/internal/core"
)

// Game is what the terminal shell drives. Implementations hold all match
// state; the shell only supplies input, time and a screen buffer.
type Game interface {
	// ID returns the variant identifier used by the CLI and match history.
	ID() string

	// Title returns the display name.
	Title() string

	// Reset starts a fresh match. rt carries the screen size, tick rate,
	// seed and number of human players.
	Reset(rt core.RuntimeConfig)

	// Step advances the match by one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state. The screen is cleared by the game.
	Render(dst *core.Screen)

	// State returns the platform view of the match.
	State() core.GameState
}

// GameInfo describes a registered variant.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a new game instance.
type Factory func() Game

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
)

// Register adds a variant. It panics on a duplicate or empty ID.
func Register(id string, f Factory) {
	if id == "" || f == nil {
		panic("registry: empty id or nil factory")
	}

	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	factories[id] = f
	titles[id] = f().Title()
}

// List returns all registered variants sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{ID: id, Title: titles[id]})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates a variant by ID.
func Create(id string) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(), nil
}

// Exists reports whether a variant is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
