package host

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-volley/internal/config"
	"github.com/vovakirdan/tui-volley/internal/core"
	"github.com/vovakirdan/tui-volley/internal/games/volley"
)

// matchTicks bounds every scripted match in these tests.
const matchTicks = 60 * 60 * 5

// onePointMatch is decided by the first rally.
func onePointMatch() config.VolleyConfig {
	cfg := config.DefaultVolleyConfig()
	cfg.Rules.SetTarget = 1
	cfg.Rules.DecidingSetTarget = 1
	cfg.Rules.WinMargin = 1
	cfg.Rules.BestOf = 1
	return cfg
}

// scripted returns a deterministic but busy human input for a tick.
func scripted(tick, slot int) core.Intent {
	phase := (tick + 37*slot) % 90
	return core.Intent{
		MoveRight: phase < 30,
		MoveLeft:  phase >= 50 && phase < 75,
		Jump:      phase == 20,
		Strike:    phase == 26,
		Block:     tick%200 == 100,
	}
}

// playScripted drives d with scripted input, serving whenever a human is up.
func playScripted(d *Driver) {
	for range matchTicks {
		if d.Done() {
			return
		}
		tick := d.Sim().Ticks()
		intents := make([]core.Intent, d.Humans())
		for slot := range intents {
			intents[slot] = scripted(tick, slot)
		}
		d.Step(intents, d.AwaitingHumanServe() && tick%15 == 0)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeCPU, false},
		{"cpu", ModeCPU, false},
		{"HOTSEAT", ModeHotseat, false},
		{"demo", ModeDemo, false},
		{"online", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, ModeForHumans(got.Humans()))
		})
	}
}

func TestCPUServesAfterDelay(t *testing.T) {
	cfg := config.DefaultVolleyConfig()
	d, err := NewDriver(cfg, Options{GameID: "volley", Seed: 3, Mode: ModeDemo})
	require.NoError(t, err)

	for range cfg.Rules.ServeDelayTicks - 1 {
		d.Step(nil, false)
	}
	assert.Equal(t, volley.PhaseAwaitingServe, d.Sim().Match().Phase)
	assert.False(t, d.Sim().Ball().InPlay)

	d.Step(nil, false)
	assert.Equal(t, volley.PhaseRallyActive, d.Sim().Match().Phase)
	assert.True(t, d.Sim().Ball().InPlay)
}

func TestHumanServeWaitsForKey(t *testing.T) {
	cfg := config.DefaultVolleyConfig()
	d, err := NewDriver(cfg, Options{GameID: "volley", Seed: 3, Mode: ModeCPU})
	require.NoError(t, err)
	require.True(t, d.AwaitingHumanServe())

	for range 3 * cfg.Rules.ServeDelayTicks {
		d.Step([]core.Intent{{MoveRight: true}}, false)
	}
	assert.Equal(t, volley.PhaseAwaitingServe, d.Sim().Match().Phase, "the CPU never serves for a human")

	d.Step(nil, true)
	assert.Equal(t, volley.PhaseRallyActive, d.Sim().Match().Phase)
	assert.False(t, d.AwaitingHumanServe())
}

func TestExtraIntentsAreIgnored(t *testing.T) {
	d, err := NewDriver(config.DefaultVolleyConfig(), Options{GameID: "volley", Seed: 3, Mode: ModeCPU})
	require.NoError(t, err)
	require.Equal(t, 1, d.Humans())

	assert.NotPanics(t, func() {
		d.Step([]core.Intent{{}, {Jump: true}, {Jump: true}}, true)
	})
}

func TestDemoMatchCompletesAndLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)

	d, err := NewDriver(onePointMatch(), Options{GameID: "volley", Seed: 9, Mode: ModeDemo, Logger: logger})
	require.NoError(t, err)

	var kinds []volley.OutcomeKind
	for range matchTicks {
		if d.Done() {
			break
		}
		for _, o := range d.Step(nil, false) {
			kinds = append(kinds, o.Kind)
		}
	}
	require.True(t, d.Done(), "a one point match must finish")
	assert.Equal(t, []volley.OutcomeKind{volley.OutcomePointScored, volley.OutcomeSetComplete, volley.OutcomeMatchComplete}, kinds)
	assert.Equal(t, 1, d.Points())

	out := buf.String()
	assert.Contains(t, out, "point")
	assert.Contains(t, out, "match complete")

	// Finished matches ignore further steps
	ticks := d.Sim().Ticks()
	assert.Nil(t, d.Step(nil, true))
	assert.Equal(t, ticks, d.Sim().Ticks())

	rec := d.MatchRecord("demo")
	assert.Equal(t, "completed", rec.EndReason)
	assert.Contains(t, []string{"A", "B"}, rec.Winner)
	assert.Equal(t, 1, rec.SetsA+rec.SetsB)
	assert.Equal(t, 1, rec.Points)
	assert.Equal(t, int64(9), rec.Seed)
	assert.Regexp(t, `^[01]-[01]$`, rec.SetScores)
}

func TestUnfinishedMatchIsAbandoned(t *testing.T) {
	d, err := NewDriver(config.DefaultBeachConfig(), Options{GameID: "beach", Mode: ModeHotseat})
	require.NoError(t, err)
	d.Step(nil, false)

	rec := d.MatchRecord(string(d.Mode()))
	assert.Equal(t, "abandoned", rec.EndReason)
	assert.Empty(t, rec.Winner)
	assert.Equal(t, "hotseat", rec.Mode)
	assert.Equal(t, "beach", rec.GameID)
}

func TestDriverRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultVolleyConfig()
	cfg.Rules.Roster = nil
	_, err := NewDriver(cfg, Options{GameID: "volley"})
	assert.Error(t, err)
}

func TestFormatSetScores(t *testing.T) {
	assert.Equal(t, "", FormatSetScores(nil))
	assert.Equal(t, "25-21 23-25 15-13", FormatSetScores([]volley.SetScore{
		{A: 25, B: 21, Winner: volley.SideA},
		{A: 23, B: 25, Winner: volley.SideB},
		{A: 15, B: 13, Winner: volley.SideA},
	}))
}
