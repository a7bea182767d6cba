package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-volley/internal/core"
	"github.com/vovakirdan/tui-volley/internal/host"
	"github.com/vovakirdan/tui-volley/internal/registry"
)

// menuModes is the order the mode selector cycles through.
var menuModes = []host.Mode{host.ModeCPU, host.ModeHotseat, host.ModeDemo}

var modeLabels = map[host.Mode]string{
	host.ModeCPU:     "vs CPU",
	host.ModeHotseat: "2 players",
	host.ModeDemo:    "watch CPU",
}

// MenuItem represents a selectable variant in the menu.
type MenuItem struct {
	GameID string
	Title  string
	Mode   host.Mode
}

// MenuModel picks a variant and a mode.
type MenuModel struct {
	items       []registry.GameInfo
	cursor      int
	modeIdx     int
	width       int
	height      int
	config      core.RuntimeConfig
	embedded    bool
	quitting    bool
	selected    *MenuItem
	wantHistory bool
}

// NewMenuModel creates a new menu model.
func NewMenuModel(cfg core.RuntimeConfig) MenuModel {
	return MenuModel{
		items:  registry.List(),
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
		config: cfg,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	}
	return m, nil
}

func (m MenuModel) done() tea.Cmd {
	if m.embedded {
		return nil
	}
	return tea.Quit
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, m.done()

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionLeft:
		m.modeIdx = (m.modeIdx + len(menuModes) - 1) % len(menuModes)

	case MenuActionRight:
		m.modeIdx = (m.modeIdx + 1) % len(menuModes)

	case MenuActionSelect:
		if len(m.items) > 0 {
			g := m.items[m.cursor]
			m.selected = &MenuItem{GameID: g.ID, Title: g.Title, Mode: menuModes[m.modeIdx]}
			m.config.Humans = m.selected.Mode.Humans()
			return m, m.done()
		}

	case MenuActionHistory:
		m.wantHistory = true
		return m, m.done()
	}
	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	active := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(title.Render("V O L L E Y"), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title
		if i == m.cursor {
			line = active.Render("> " + item.Title)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	mode := fmt.Sprintf("<  %s  >", modeLabels[menuModes[m.modeIdx]])
	b.WriteString(centerText(mode, m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(dim.Render("↑/↓ variant  ←/→ mode  enter play  tab history  q quit"), m.width))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen variant and mode, or nil.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if the user asked to exit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsHistory returns true if the user asked for the match history.
func (m MenuModel) WantsHistory() bool {
	return m.wantHistory
}

// Config returns the runtime config updated by resizes and the chosen mode.
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID       string
	Mode         host.Mode
	Config       core.RuntimeConfig
	WantsHistory bool
	Quit         bool
}

// RunMenu shows the menu and returns the choice.
func RunMenu(cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(NewMenuModel(cfg), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}
	m, ok := final.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config()}
	switch {
	case m.WantsHistory():
		result.WantsHistory = true
	case m.Selected() != nil:
		result.GameID = m.Selected().GameID
		result.Mode = m.Selected().Mode
	default:
		result.Quit = true
	}
	return result, nil
}
