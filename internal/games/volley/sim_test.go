package volley

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-volley/internal/config"
	"github.com/vovakirdan/tui-volley/internal/core"
)

// autoServe runs ticks, serving for whichever side is up, and reports every
// outcome to onOutcome.
func autoServe(s *Simulation, ticks int, onTick func(), onOutcome func(Outcome)) {
	for range ticks {
		m := s.Match()
		if m.Phase == PhaseMatchComplete {
			return
		}
		if m.Phase == PhaseAwaitingServe {
			s.RequestServe(m.Serving)
		}
		for _, o := range s.Tick(testDt) {
			if onOutcome != nil {
				onOutcome(o)
			}
		}
		if onTick != nil {
			onTick()
		}
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	cfg := config.DefaultVolleyConfig()

	_, err := New(cfg, 1, 3)
	assert.Error(t, err)

	bad := cfg
	bad.Rules.Roster = []string{"goalkeeper"}
	_, err = New(bad, 1, 0)
	assert.Error(t, err)

	bad = cfg
	bad.Rules.BestOf = 4
	_, err = New(bad, 1, 0)
	assert.Error(t, err)
}

func TestNewBuildsTeamsFromRoster(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.VolleyConfig
		humans int
		want   []ActorID
	}{
		{"volley demo", config.DefaultVolleyConfig(), 0, nil},
		{"volley vs cpu", config.DefaultVolleyConfig(), 1, []ActorID{0}},
		{"volley hotseat", config.DefaultVolleyConfig(), 2, []ActorID{0, 3}},
		{"beach hotseat", config.DefaultBeachConfig(), 2, []ActorID{0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.cfg, 1, tt.humans)
			require.NoError(t, err)

			actors := s.Actors()
			require.Len(t, actors, 2*len(tt.cfg.Rules.Roster))
			assert.Equal(t, tt.want, s.HumanActors())

			for i, a := range actors {
				assert.Equal(t, ActorID(i), a.ID)
				assert.True(t, a.Grounded)
				assert.Equal(t, s.Court().SideOf(a.Pos.X), a.Side)
			}
			m := s.Match()
			assert.Equal(t, PhaseAwaitingServe, m.Phase)
			assert.Equal(t, SideA, m.Serving)
			assert.False(t, s.Ball().InPlay)
		})
	}
}

func TestRequestServeOnlyForServingSide(t *testing.T) {
	s, err := New(config.DefaultVolleyConfig(), 1, 1)
	require.NoError(t, err)

	assert.False(t, s.RequestServe(SideB))
	assert.False(t, s.Ball().InPlay)

	require.True(t, s.RequestServe(SideA))
	ball := s.Ball()
	assert.True(t, ball.InPlay)
	assert.Greater(t, ball.Vel.X, 0.0, "A serves toward B")
	assert.Less(t, ball.Vel.Y, 0.0)
	assert.Equal(t, SideA, ball.LastContactSide)
	assert.Equal(t, 1, ball.Touches)
	assert.Equal(t, s.ServerID(), ball.LastToucher)

	assert.False(t, s.RequestServe(SideA), "second serve during the rally is ignored")
}

func TestServeIsNotCountedAsASecondTouch(t *testing.T) {
	s, err := New(config.DefaultVolleyConfig(), 5, 0)
	require.NoError(t, err)
	require.True(t, s.RequestServe(SideA))

	for range 10 {
		s.Tick(testDt)
		for _, ev := range s.Events() {
			assert.NotEqual(t, EventActorContact, ev.Kind, "the toss must not register on the server")
		}
	}
}

func TestFormationHeldOutsideRally(t *testing.T) {
	s, err := New(config.DefaultVolleyConfig(), 1, 1)
	require.NoError(t, err)
	before := s.Snapshot()

	s.SetActorIntent(0, core.Intent{MoveRight: true, Jump: true})
	assert.Empty(t, s.Tick(testDt))

	after := s.Snapshot()
	assert.Equal(t, before.Actors, after.Actors)
	assert.Equal(t, before.Ball, after.Ball)
	assert.Equal(t, before.Tick+1, after.Tick)
}

func TestHumanIntentDrivesOnlyHumans(t *testing.T) {
	s, err := New(config.DefaultVolleyConfig(), 1, 1)
	require.NoError(t, err)
	require.True(t, s.RequestServe(SideA))

	x0 := s.Actors()[0].Pos.X
	s.SetActorIntent(0, core.Intent{MoveRight: true})
	s.Tick(testDt)
	assert.Greater(t, s.Actors()[0].Pos.X, x0)

	// Intents are consumed by the tick
	x1 := s.Actors()[0].Pos.X
	s.Tick(testDt)
	assert.Equal(t, x1, s.Actors()[0].Pos.X)

	// CPU ids and unknown ids are ignored
	s.SetActorIntent(1, core.Intent{Jump: true})
	s.SetActorIntent(42, core.Intent{Jump: true})
	s.SetActorIntent(NoActor, core.Intent{Jump: true})
	assert.Equal(t, core.Intent{}, s.pending[1])
}

func TestSameSeedSameMatch(t *testing.T) {
	run := func(seed int64) Snapshot {
		s, err := New(config.DefaultVolleyConfig(), seed, 0)
		require.NoError(t, err)
		s.SetAISkill(0.7)
		autoServe(s, 4000, nil, nil)
		return s.Snapshot()
	}

	assert.Equal(t, run(42), run(42))
	assert.NotEqual(t, run(42), run(43))
}

func TestCPUMatchKeepsInvariants(t *testing.T) {
	for _, cfg := range []config.VolleyConfig{config.DefaultVolleyConfig(), config.DefaultBeachConfig()} {
		s, err := New(cfg, 11, 0)
		require.NoError(t, err)

		points := 0
		lastServing := s.Match().Serving
		check := func() {
			ball := s.Ball()
			if ball.InPlay {
				assert.LessOrEqual(t, ball.Touches, cfg.Rules.TouchLimit)
			}
			for _, a := range s.Actors() {
				lo, hi := s.ctrl.Bounds(a.Side)
				assert.GreaterOrEqual(t, a.Pos.X, lo)
				assert.LessOrEqual(t, a.Pos.X, hi)
				if a.Grounded {
					assert.Equal(t, s.Court().GroundY, a.Pos.Y)
				}
			}
			assert.NotEqual(t, SideNone, s.Match().Serving)
		}
		onOutcome := func(o Outcome) {
			if o.Kind != OutcomePointScored {
				return
			}
			points++
			assert.Equal(t, o.Winner, s.Match().Serving)
			lastServing = o.Winner
		}

		autoServe(s, 60*60*5, check, onOutcome)
		assert.Positive(t, points, "rallies must end")
		assert.NotEqual(t, SideNone, lastServing)

		if m := s.Match(); m.Phase == PhaseMatchComplete {
			assert.Equal(t, cfg.Rules.BestOf/2+1, m.SetsWon(m.Winner))
		}
	}
}

func TestPointResetsFormation(t *testing.T) {
	s, err := New(config.DefaultVolleyConfig(), 2, 0)
	require.NoError(t, err)

	var scored bool
	for range 20000 {
		m := s.Match()
		if m.Phase == PhaseAwaitingServe {
			s.RequestServe(m.Serving)
		}
		if out := s.Tick(testDt); len(out) > 0 {
			scored = true
			break
		}
	}
	require.True(t, scored)

	assert.Equal(t, PhaseAwaitingServe, s.Match().Phase)
	ball := s.Ball()
	assert.False(t, ball.InPlay)
	assert.Equal(t, 0, ball.Touches)
	for _, a := range s.Actors() {
		assert.True(t, a.Grounded)
		assert.Equal(t, core.Vec2{}, a.Vel)
	}
	server := s.Actors()[s.ServerID()]
	assert.Equal(t, s.Match().Serving, server.Side)
}

func TestRenderDrawsCourt(t *testing.T) {
	s, err := New(config.DefaultVolleyConfig(), 1, 1)
	require.NoError(t, err)

	scr := core.NewScreen(80, 24)
	s.Render(scr, HUD{NameA: "YOU", NameB: "CPU", Footer: "space: serve"})

	assert.Contains(t, scr.Row(0), "YOU")
	assert.Contains(t, scr.Row(0), "CPU")
	assert.Contains(t, scr.Row(22), string(GroundChar))
	assert.Contains(t, scr.String(), string(NetChar))
	assert.Contains(t, scr.String(), string(BallChar))
	assert.Contains(t, scr.Row(23), "space: serve")

	small := core.NewScreen(10, 4)
	s.Render(small, HUD{})
	assert.Contains(t, small.Row(0), "terminal")
}
