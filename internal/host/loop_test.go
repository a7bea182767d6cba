package host

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-volley/internal/config"
	"github.com/vovakirdan/tui-volley/internal/core"
	"github.com/vovakirdan/tui-volley/internal/games/volley"
)

func TestLoopAppliesQueuedServe(t *testing.T) {
	d, err := NewDriver(config.DefaultVolleyConfig(), Options{GameID: "volley", Seed: 1, Mode: ModeCPU})
	require.NoError(t, err)
	l := NewLoop(d, 500)

	in := core.NewInputFrame()
	in.Set(core.ActionServe)
	l.SendInput(in)

	var phase volley.RallyPhase
	err = l.Run(context.Background(), func(d *Driver, _ []volley.Outcome) {
		phase = d.Sim().Match().Phase
		l.Stop()
	})
	require.NoError(t, err)
	assert.Equal(t, volley.PhaseRallyActive, phase)
	assert.Equal(t, 1, d.Sim().Ticks())
}

func TestLoopMergesInputsBetweenTicks(t *testing.T) {
	d, err := NewDriver(config.DefaultVolleyConfig(), Options{GameID: "volley", Seed: 1, Mode: ModeHotseat})
	require.NoError(t, err)
	l := NewLoop(d, 60)

	a := core.NewInputFrame()
	a.SetIntent(0, core.Intent{MoveLeft: true})
	b := core.NewInputFrame()
	b.SetIntent(0, core.Intent{Jump: true})
	b.SetIntent(1, core.Intent{Strike: true})
	l.SendInput(a)
	l.SendInput(b)

	l.drainInputs()
	assert.Equal(t, []core.Intent{{MoveLeft: true, Jump: true}, {Strike: true}}, l.pending)

	l.runTick()
	assert.Equal(t, []core.Intent{{}, {}}, l.pending, "a tick consumes queued input")
}

func TestLoopStopsOnCancel(t *testing.T) {
	d, err := NewDriver(config.DefaultVolleyConfig(), Options{GameID: "volley", Seed: 1, Mode: ModeDemo})
	require.NoError(t, err)
	l := NewLoop(d, 200)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = l.Run(ctx, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, d.Done())

	// Stop after Run has returned is harmless
	assert.NotPanics(t, l.Stop)
}
