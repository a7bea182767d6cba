package host

import (
	"fmt"

	"github.com/vovakirdan/tui-volley/internal/core"
	"github.com/vovakirdan/tui-volley/internal/replay"
)

// Player steps a recording one tick at a time.
type Player struct {
	rec    *replay.Recording
	frames map[int]replay.Frame
	driver *Driver
}

// NewPlayer rebuilds the recorded match from its seed and configuration.
func NewPlayer(rec *replay.Recording) (*Player, error) {
	d, err := NewDriver(rec.Config, Options{
		GameID:   rec.GameID,
		Seed:     rec.Seed,
		Mode:     ModeForHumans(rec.Humans),
		TickRate: rec.TickRate,
	})
	if err != nil {
		return nil, err
	}
	return &Player{rec: rec, frames: rec.Index(), driver: d}, nil
}

// Done reports whether the recording has been played to its end.
func (p *Player) Done() bool {
	return p.driver.Done() || p.driver.sim.Ticks() >= p.rec.Final.Ticks
}

// Step applies the recorded input of the next tick. It returns false once
// the recording is exhausted.
func (p *Player) Step() bool {
	if p.Done() {
		return false
	}
	var intents []core.Intent
	serve := false
	if f, ok := p.frames[p.driver.sim.Ticks()]; ok {
		for _, b := range f.Intents {
			intents = append(intents, core.IntentFromBits(b))
		}
		serve = f.Serve
	}
	p.driver.Step(intents, serve)
	return true
}

// Driver returns the driver being replayed.
func (p *Player) Driver() *Driver {
	return p.driver
}

// Playback re-runs a whole recording. onTick, when set, is called after
// every tick.
func Playback(rec *replay.Recording, onTick func(*Driver)) (*Driver, error) {
	p, err := NewPlayer(rec)
	if err != nil {
		return nil, err
	}
	for p.Step() {
		if onTick != nil {
			onTick(p.driver)
		}
	}
	return p.driver, nil
}

// Verify re-runs a recording and checks that it ends in exactly the recorded
// state. A divergence wraps replay.ErrMismatch.
func Verify(rec *replay.Recording) (replay.Summary, error) {
	d, err := Playback(rec, nil)
	if err != nil {
		return replay.Summary{}, err
	}
	got, err := replay.Summarize(d.sim.Snapshot())
	if err != nil {
		return replay.Summary{}, err
	}
	if got.Ticks != rec.Final.Ticks {
		return got, fmt.Errorf("%w: ended at tick %d, recorded %d", replay.ErrMismatch, got.Ticks, rec.Final.Ticks)
	}
	if got.Digest != rec.Final.Digest {
		return got, fmt.Errorf("%w: state digest %.12s, recorded %.12s", replay.ErrMismatch, got.Digest, rec.Final.Digest)
	}
	return got, nil
}
