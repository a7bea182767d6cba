package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-volley/internal/registry"
	"github.com/vovakirdan/tui-volley/internal/storage"
)

// maxHistory is how many matches the table loads per variant.
const maxHistory = 100

// HistoryKeyMap defines the key bindings for the history screen.
type HistoryKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextGame key.Binding
	PrevGame key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGame, k.PrevGame, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.NextGame, k.PrevGame}, {k.Back, k.Quit}}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		NextGame: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next variant")),
		PrevGame: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev variant")),
		Back:     key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// HistoryModel lists finished and abandoned matches per variant.
type HistoryModel struct {
	games     []registry.GameInfo
	cursor    int
	store     *storage.Store
	matches   []storage.MatchRecord
	stats     storage.GameStats
	loadErr   error
	table     table.Model
	help      help.Model
	keys      HistoryKeyMap
	width     int
	height    int
	embedded  bool
	quitting  bool
	goingBack bool
}

// NewHistoryModel creates the history screen.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	m := HistoryModel{
		games:  registry.List(),
		store:  store,
		keys:   DefaultHistoryKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	if len(m.games) > 0 {
		m.load(m.games[0].ID)
	}
	return m
}

func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Mode", Width: 8},
		{Title: "Winner", Width: 6},
		{Title: "Sets", Width: 5},
		{Title: "Set scores", Width: 24},
		{Title: "Points", Width: 6},
	}
	// Widen the set score column on large terminals
	if extra := m.width - 4 - 61 - 2*len(columns); extra > 0 {
		columns[4].Width += min(extra, 16)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func (m *HistoryModel) load(gameID string) {
	m.matches, m.stats, m.loadErr = nil, storage.GameStats{GameID: gameID}, nil
	if m.store != nil {
		if m.matches, m.loadErr = m.store.RecentMatches(gameID, maxHistory); m.loadErr == nil {
			var stats *storage.GameStats
			if stats, m.loadErr = m.store.GetGameStats(gameID); m.loadErr == nil {
				m.stats = *stats
			}
		}
	}
	m.table.SetRows(historyRows(m.matches))
	m.table.GotoTop()
}

func historyRows(matches []storage.MatchRecord) []table.Row {
	rows := make([]table.Row, len(matches))
	for i, r := range matches {
		winner := r.Winner
		if r.EndReason != "completed" {
			winner = "-"
		}
		rows[i] = table.Row{
			r.CreatedAt.Local().Format("Jan 02 15:04"),
			r.Mode,
			winner,
			fmt.Sprintf("%d-%d", r.SetsA, r.SetsB),
			r.SetScores,
			fmt.Sprintf("%d", r.Points),
		}
	}
	return rows
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

func (m HistoryModel) done() tea.Cmd {
	if m.embedded {
		return nil
	}
	return tea.Quit
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, m.done()

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, m.done()

		case key.Matches(msg, m.keys.NextGame):
			if len(m.games) > 0 {
				m.cursor = (m.cursor + 1) % len(m.games)
				m.load(m.games[m.cursor].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevGame):
			if len(m.games) > 0 {
				m.cursor = (m.cursor + len(m.games) - 1) % len(m.games)
				m.load(m.games[m.cursor].ID)
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.table.SetRows(historyRows(m.matches))
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	title := "MATCH HISTORY"
	if len(m.games) > 0 {
		title = "MATCH HISTORY - " + m.games[m.cursor].Title
	}

	var b strings.Builder
	b.WriteString(centerText(titleStyle.Render(title), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(dim.Render(m.statsLine()), m.width))
	b.WriteString("\n\n")

	var content string
	switch {
	case m.loadErr != nil:
		content = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("could not load history: " + m.loadErr.Error())
	case len(m.matches) == 0:
		content = dim.Italic(true).Padding(1, 4).Render("No matches recorded yet.")
	default:
		content = m.table.View()
	}
	b.WriteString(centerText(box.Render(content), m.width))
	b.WriteString("\n")
	b.WriteString(dim.Render(m.help.View(m.keys)))
	return b.String()
}

func (m HistoryModel) statsLine() string {
	s := m.stats
	if s.Played == 0 {
		return "no matches played"
	}
	return fmt.Sprintf("played %d  A won %d  B won %d  abandoned %d  avg points %.1f",
		s.Played, s.WinsA, s.WinsB, s.Abandoned, s.AvgPoints)
}

// IsGoingBack returns true if the user wants the menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if the user wants to exit.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// RunHistory shows the history screen. It reports whether the user went back.
func RunHistory(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewHistoryModel(store, width, height), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(HistoryModel)
	return ok && m.IsGoingBack(), nil
}
