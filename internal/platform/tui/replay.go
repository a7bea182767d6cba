package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-volley/internal/core"
	"github.com/vovakirdan/tui-volley/internal/games/volley"
	"github.com/vovakirdan/tui-volley/internal/host"
)

// ReplayModel shows a recorded match. Space pauses, q leaves.
type ReplayModel struct {
	player   *host.Player
	screen   *core.Screen
	tickRate int
	speed    int
	paused   bool
	quitting bool
}

// NewReplayModel plays p at tickRate, speed ticks per frame.
func NewReplayModel(p *host.Player, width, height, tickRate int) ReplayModel {
	if tickRate <= 0 {
		tickRate = core.DefaultConfig().TickRate
	}
	return ReplayModel{
		player:   p,
		screen:   core.NewScreen(width, height),
		tickRate: tickRate,
		speed:    1,
	}
}

// Init starts playback.
func (m ReplayModel) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages.
func (m ReplayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "b":
			m.quitting = true
			return m, tea.Quit
		case " ", "p":
			m.paused = !m.paused
		case "+", "=":
			m.speed = min(m.speed*2, 16)
		case "-":
			m.speed = max(m.speed/2, 1)
		}

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)

	case TickMsg:
		if !m.paused {
			for range m.speed {
				if !m.player.Step() {
					break
				}
			}
		}
		return m, tickCmd(m.tickRate)
	}
	return m, nil
}

// View renders the match being replayed.
func (m ReplayModel) View() string {
	if m.quitting {
		return ""
	}
	d := m.player.Driver()
	hud := volley.HUD{
		NameA:  "A",
		NameB:  "B",
		Footer: fmt.Sprintf("replay x%d  tick %d  space: pause  +/-: speed  q: quit", m.speed, d.Sim().Ticks()),
	}
	switch {
	case m.paused:
		hud.Banner = "PAUSED"
	case m.player.Done():
		hud.Banner = "END OF REPLAY"
	}
	d.Sim().Render(m.screen, hud)
	return RenderScreen(m.screen)
}

// RunReplay shows a recording in the terminal.
func RunReplay(p *host.Player, cfg core.RuntimeConfig) error {
	prog := tea.NewProgram(NewReplayModel(p, cfg.ScreenW, cfg.ScreenH, cfg.TickRate), tea.WithAltScreen())
	_, err := prog.Run()
	return err
}
