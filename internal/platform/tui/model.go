package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-volley/internal/core"
	"github.com/vovakirdan/tui-volley/internal/registry"
	"github.com/vovakirdan/tui-volley/internal/storage"
)

// resultReporter is implemented by games that produce a match history row.
type resultReporter interface {
	Result() (rec storage.MatchRecord, played bool)
}

// holdSeconds is how long a movement key stays held after its last press.
const holdSeconds = 0.2

// Model is the Bubble Tea model for one match.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	keys       KeyMap
	held       *HeldInput
	inputFrame core.InputFrame
	gameState  core.GameState
	embedded   bool // Inside a session: back and quit are reported, not executed
	quitting   bool
	backToMenu bool
	saved      bool // Whether the current match has been written to history
}

// NewModel creates a model for the given game. cfg.Humans selects the mode.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		logger:     logger,
		config:     cfg,
		keys:       DefaultKeyMap(cfg.Humans),
		held:       NewHeldInput(int(holdSeconds * float64(cfg.TickRate))),
		inputFrame: core.NewInputFrame(),
	}
}

// Init starts the match and the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// World coordinates do not depend on the screen, so the match keeps going
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	switch m.keys.MapKey(msg, m.held, &m.inputFrame) {
	case core.ActionQuit:
		m.saveResult()
		m.quitting = true
		if m.embedded {
			return m, nil
		}
		return m, tea.Quit

	case core.ActionBack:
		// Leaving mid-rally needs a pause first
		if m.gameState.GameOver || m.gameState.Paused {
			m.saveResult()
			m.backToMenu = true
			if !m.embedded {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}

	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.saved = false
		m.held.Release()
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	m.held.Fill(&m.inputFrame)
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	for _, line := range result.Messages {
		m.logger.Debug(line, "game", m.game.ID())
	}

	if m.gameState.GameOver {
		m.saveResult()
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveResult writes the match to history once. Matches without a single
// decided point are not recorded.
func (m *Model) saveResult() {
	if m.saved || m.store == nil {
		return
	}
	reporter, ok := m.game.(resultReporter)
	if !ok {
		return
	}
	rec, played := reporter.Result()
	if !played {
		return
	}
	m.saved = true
	if _, err := m.store.SaveMatch(rec); err != nil {
		m.logger.Warn("could not save match", "game", m.game.ID(), "error", err)
	}
}

// saveScreenshot writes the current screen as plain text.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".volley", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot directory", "error", err)
		return
	}

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(dir, name), []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if the user asked to exit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user asked to return to the menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run plays one match in the terminal and returns the game when the user
// leaves. The returned flag reports whether the user asked for the menu.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) (backToMenu bool, err error) {
	p := tea.NewProgram(
		NewModel(game, store, cfg, logger),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(Model)
	return ok && m.BackToMenu(), nil
}
