package host

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-volley/internal/config"
	"github.com/vovakirdan/tui-volley/internal/core"
	"github.com/vovakirdan/tui-volley/internal/games/volley"
	"github.com/vovakirdan/tui-volley/internal/registry"
	"github.com/vovakirdan/tui-volley/internal/replay"
	"github.com/vovakirdan/tui-volley/internal/storage"
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// recordReplays makes every new match capture a replay
var recordReplays bool

var logger = log.New(io.Discard)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	p, err := config.ParsePreset(preset)
	if err != nil {
		p = ""
	}
	difficultyPreset = p
}

// SetRecording turns replay capture on or off for matches started afterwards.
func SetRecording(on bool) {
	recordReplays = on
}

// SetLogger sets the logger handed to drivers created by registry games.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

func init() {
	registry.Register("volley", func() registry.Game {
		return NewGame("volley", "Volleyball (3v3)")
	})
	registry.Register("beach", func() registry.Game {
		return NewGame("beach", "Beach Volleyball (2v2)")
	})
}

// bannerSeconds is how long a set result stays on screen.
const bannerSeconds = 2

// Game adapts a Driver to the registry interface used by the terminal shell.
type Game struct {
	id    string
	title string

	runtime core.RuntimeConfig
	driver  *Driver
	err     error

	paused      bool
	banner      string
	bannerTicks int
}

// NewGame creates a game for a volleyball variant.
func NewGame(id, title string) *Game {
	return &Game{id: id, title: title}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return g.title
}

// Reset starts a new match. rt.Humans selects the mode.
func (g *Game) Reset(rt core.RuntimeConfig) {
	g.runtime = rt
	g.paused = false
	g.banner = ""
	g.bannerTicks = 0

	cfg, err := config.Load(configPath, g.id)
	if err != nil {
		logger.Warn("falling back to default config", "game", g.id, "error", err)
		cfg = config.DefaultFor(g.id)
	}
	if difficultyPreset != "" {
		config.ApplyPreset(&cfg, difficultyPreset)
	}

	g.driver, g.err = NewDriver(cfg, Options{
		GameID:   g.id,
		Seed:     rt.Seed,
		Mode:     ModeForHumans(rt.Humans),
		TickRate: rt.TickRate,
		Record:   recordReplays,
		Logger:   logger,
	})
	if g.err != nil {
		logger.Error("cannot start match", "game", g.id, "error", g.err)
	}
}

// Step advances the match by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.driver == nil {
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionPause) && !g.driver.Done() {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	intents := make([]core.Intent, g.driver.Humans())
	for slot := range intents {
		intents[slot] = in.Intent(slot)
	}
	out := g.driver.Step(intents, in.Has(core.ActionServe))

	if g.bannerTicks > 0 {
		g.bannerTicks--
		if g.bannerTicks == 0 {
			g.banner = ""
		}
	}

	var msgs []string
	for _, o := range out {
		msgs = append(msgs, g.describe(o))
		switch o.Kind {
		case volley.OutcomeSetComplete:
			g.banner = fmt.Sprintf("SET %d: %s", o.SetIndex+1, g.sideName(o.Winner))
			g.bannerTicks = bannerSeconds * g.tickRate()
		case volley.OutcomeMatchComplete:
			g.banner = fmt.Sprintf("MATCH: %s WINS", g.sideName(o.Winner))
			g.bannerTicks = 0
		}
	}
	return core.StepResult{State: g.State(), Messages: msgs}
}

func (g *Game) describe(o volley.Outcome) string {
	switch o.Kind {
	case volley.OutcomePointScored:
		return fmt.Sprintf("point %s (%s) %d-%d", g.sideName(o.Winner), o.Reason, o.ScoreA, o.ScoreB)
	case volley.OutcomeSetComplete:
		return fmt.Sprintf("set %d to %s %d-%d", o.SetIndex+1, g.sideName(o.Winner), o.ScoreA, o.ScoreB)
	default:
		return fmt.Sprintf("match to %s, sets %d-%d", g.sideName(o.Winner), o.SetsA, o.SetsB)
	}
}

func (g *Game) tickRate() int {
	if g.runtime.TickRate <= 0 {
		return core.DefaultConfig().TickRate
	}
	return g.runtime.TickRate
}

// sideName labels a side for the current mode.
func (g *Game) sideName(s volley.Side) string {
	mode := ModeCPU
	if g.driver != nil {
		mode = g.driver.Mode()
	}
	switch mode {
	case ModeHotseat:
		if s == volley.SideA {
			return "P1"
		}
		return "P2"
	case ModeDemo:
		return "CPU " + s.String()
	default:
		if s == volley.SideA {
			return "YOU"
		}
		return "CPU"
	}
}

// Render draws the match into the screen buffer.
func (g *Game) Render(dst *core.Screen) {
	if g.driver == nil {
		dst.Clear()
		dst.DrawTextCentered(dst.Height()/2, "cannot start match: "+fmt.Sprint(g.err), core.ColorRed)
		return
	}

	hud := volley.HUD{
		NameA:  g.sideName(volley.SideA),
		NameB:  g.sideName(volley.SideB),
		Banner: g.banner,
	}
	switch {
	case g.paused:
		hud.Banner = "PAUSED"
		hud.Footer = "p: resume  b: menu  q: quit"
	case g.driver.Done():
		hud.Footer = "r: rematch  b: menu  q: quit"
	case g.driver.AwaitingHumanServe():
		hud.Footer = "space: serve"
	}
	g.driver.Sim().Render(dst, hud)
}

// State returns the platform view of the match. Score counts sets won by side A.
func (g *Game) State() core.GameState {
	if g.driver == nil {
		return core.GameState{GameOver: true}
	}
	return core.GameState{
		Score:    g.driver.Sim().Match().SetsWonA,
		GameOver: g.driver.Done(),
		Paused:   g.paused,
	}
}

// Result returns the history row for the current match. played is false
// until at least one point has been decided.
func (g *Game) Result() (rec storage.MatchRecord, played bool) {
	if g.driver == nil {
		return storage.MatchRecord{}, false
	}
	return g.driver.MatchRecord(string(g.driver.Mode())), g.driver.Points() > 0
}

// Recording returns the replay of the current match, or nil when recording is off.
func (g *Game) Recording() (*replay.Recording, error) {
	if g.driver == nil {
		return nil, nil
	}
	return g.driver.Recording()
}

// Driver exposes the underlying driver.
func (g *Game) Driver() *Driver {
	return g.driver
}
