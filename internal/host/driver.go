// Package host drives the volley simulation from the outside: it feeds human
// input, schedules serves for CPU sides, tracks difficulty, logs outcomes and
// records replays. The simulation itself never sees a clock.
package host

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-volley/internal/config"
	"github.com/vovakirdan/tui-volley/internal/core"
	"github.com/vovakirdan/tui-volley/internal/games/volley"
	"github.com/vovakirdan/tui-volley/internal/replay"
	"github.com/vovakirdan/tui-volley/internal/storage"
)

// Mode describes who controls the actors.
type Mode string

const (
	ModeCPU     Mode = "cpu"     // One human on side A against the CPU
	ModeHotseat Mode = "hotseat" // Two humans sharing a keyboard
	ModeDemo    Mode = "demo"    // CPU against CPU
)

// Humans returns how many keyboard-controlled actors the mode has.
func (m Mode) Humans() int {
	switch m {
	case ModeHotseat:
		return 2
	case ModeDemo:
		return 0
	default:
		return 1
	}
}

// ModeForHumans maps a human count back onto a mode.
func ModeForHumans(n int) Mode {
	switch n {
	case 0:
		return ModeDemo
	case 2:
		return ModeHotseat
	default:
		return ModeCPU
	}
}

// ParseMode converts a CLI string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case ModeCPU, "":
		return ModeCPU, nil
	case ModeHotseat:
		return ModeHotseat, nil
	case ModeDemo:
		return ModeDemo, nil
	default:
		return "", fmt.Errorf("host: unknown mode %q (valid: cpu, hotseat, demo)", s)
	}
}

// Options configures a Driver.
type Options struct {
	GameID   string
	Seed     int64
	Mode     Mode
	TickRate int
	Record   bool
	Logger   *log.Logger
}

// Driver advances one match at a fixed step.
type Driver struct {
	gameID     string
	mode       Mode
	seed       int64
	cfg        config.VolleyConfig
	dt         float64
	sim        *volley.Simulation
	difficulty *config.DifficultyManager
	logger     *log.Logger
	rec        *replay.Recorder

	humans     []volley.ActorID
	serveTimer int
	points     int
}

// NewDriver builds the simulation for a match.
func NewDriver(cfg config.VolleyConfig, opts Options) (*Driver, error) {
	if opts.Mode == "" {
		opts.Mode = ModeCPU
	}
	if opts.TickRate <= 0 {
		opts.TickRate = core.DefaultConfig().TickRate
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	sim, err := volley.New(cfg, opts.Seed, opts.Mode.Humans())
	if err != nil {
		return nil, fmt.Errorf("host: %w", err)
	}

	d := &Driver{
		gameID:     opts.GameID,
		mode:       opts.Mode,
		seed:       opts.Seed,
		cfg:        cfg,
		dt:         1.0 / float64(opts.TickRate),
		sim:        sim,
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
		logger:     opts.Logger.With("game", opts.GameID),
		humans:     sim.HumanActors(),
		serveTimer: cfg.Rules.ServeDelayTicks,
	}
	if opts.Record {
		d.rec = replay.NewRecorder(opts.GameID, opts.Seed, opts.Mode.Humans(), opts.TickRate, cfg)
	}
	d.sim.SetAISkill(d.skill())
	return d, nil
}

// Step runs one tick. intents are indexed by human slot; serve asks the
// serving human to serve. CPU sides serve by themselves after the configured
// delay.
func (d *Driver) Step(intents []core.Intent, serve bool) []volley.Outcome {
	m := d.sim.Match()
	if m.Phase == volley.PhaseMatchComplete {
		return nil
	}
	tick := d.sim.Ticks()

	served := false
	if m.Phase == volley.PhaseAwaitingServe {
		if d.sim.ServingIsHuman() {
			if serve {
				served = d.sim.RequestServe(m.Serving)
			}
		} else {
			d.serveTimer--
			if d.serveTimer <= 0 {
				d.sim.RequestServe(m.Serving)
				d.serveTimer = d.cfg.Rules.ServeDelayTicks
			}
		}
	}

	if len(intents) > len(d.humans) {
		intents = intents[:len(d.humans)]
	}
	for slot, in := range intents {
		d.sim.SetActorIntent(d.humans[slot], in)
	}
	if d.rec != nil {
		d.rec.Record(tick, intents, served)
	}

	out := d.sim.Tick(d.dt)
	for _, o := range out {
		if o.Kind == volley.OutcomePointScored {
			d.points++
		}
		d.logOutcome(o)
	}
	if len(out) > 0 {
		d.serveTimer = d.cfg.Rules.ServeDelayTicks
	}
	d.sim.SetAISkill(d.skill())
	return out
}

func (d *Driver) skill() float64 {
	return d.difficulty.Skill(d.cfg.AI, d.points, d.sim.Ticks())
}

func (d *Driver) logOutcome(o volley.Outcome) {
	score := fmt.Sprintf("%d-%d", o.ScoreA, o.ScoreB)
	switch o.Kind {
	case volley.OutcomePointScored:
		d.logger.Debug("point", "winner", o.Winner, "reason", o.Reason, "score", score, "set", o.SetIndex+1)
	case volley.OutcomeSetComplete:
		d.logger.Info("set complete", "winner", o.Winner, "score", score, "sets", fmt.Sprintf("%d-%d", o.SetsA, o.SetsB))
	case volley.OutcomeMatchComplete:
		d.logger.Info("match complete", "winner", o.Winner, "sets", fmt.Sprintf("%d-%d", o.SetsA, o.SetsB), "ticks", d.sim.Ticks())
	}
}

// Sim exposes the simulation for rendering and inspection.
func (d *Driver) Sim() *volley.Simulation {
	return d.sim
}

// Done reports whether the match is over.
func (d *Driver) Done() bool {
	return d.sim.Match().Phase == volley.PhaseMatchComplete
}

// Points returns the number of rallies decided so far.
func (d *Driver) Points() int {
	return d.points
}

// Mode returns the control mode.
func (d *Driver) Mode() Mode {
	return d.mode
}

// Humans returns the number of human slots.
func (d *Driver) Humans() int {
	return len(d.humans)
}

// AwaitingHumanServe reports whether the game is waiting for a serve key.
func (d *Driver) AwaitingHumanServe() bool {
	return d.sim.Match().Phase == volley.PhaseAwaitingServe && d.sim.ServingIsHuman()
}

// Recording seals and returns the replay, or nil when recording is off.
func (d *Driver) Recording() (*replay.Recording, error) {
	if d.rec == nil {
		return nil, nil
	}
	return d.rec.Finish(d.sim.Snapshot())
}

// MatchRecord converts the current match into a history row.
func (d *Driver) MatchRecord(mode string) storage.MatchRecord {
	m := d.sim.Match()
	rec := storage.MatchRecord{
		GameID:    d.gameID,
		Mode:      mode,
		Seed:      d.seed,
		SetsA:     m.SetsWonA,
		SetsB:     m.SetsWonB,
		SetScores: FormatSetScores(m.SetScores),
		Points:    d.points,
		Ticks:     d.sim.Ticks(),
		EndReason: "completed",
	}
	if m.Phase == volley.PhaseMatchComplete {
		rec.Winner = m.Winner.String()
	} else {
		rec.EndReason = "abandoned"
	}
	return rec
}

// FormatSetScores renders set scores as "25-21 23-25".
func FormatSetScores(sets []volley.SetScore) string {
	parts := make([]string, len(sets))
	for i, s := range sets {
		parts[i] = fmt.Sprintf("%d-%d", s.A, s.B)
	}
	return strings.Join(parts, " ")
}
