package volley

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-volley/internal/config"
)

// playPoint serves and ends the rally with the ball dying on the loser's floor.
func playPoint(t *testing.T, m *Machine, winner Side) []Outcome {
	t.Helper()
	st := m.State()
	require.True(t, m.BeginRally(st.Serving), "serve must be accepted in %s", st.Phase)
	return m.Consume([]Event{{Kind: EventFloorContact, Side: winner.Opponent(), Final: true}})
}

func TestServeOnlyWhenAwaitingFromServingSide(t *testing.T) {
	m := NewMatch(config.DefaultVolleyConfig().Rules, SideA)

	assert.False(t, m.BeginRally(SideB), "B is not serving")
	assert.Equal(t, PhaseAwaitingServe, m.State().Phase)

	assert.True(t, m.BeginRally(SideA))
	assert.Equal(t, PhaseRallyActive, m.State().Phase)

	assert.False(t, m.BeginRally(SideA), "serve mid-rally is ignored")
	assert.Equal(t, PhaseRallyActive, m.State().Phase)
}

func TestEventsOutsideRallyAreDiscarded(t *testing.T) {
	m := NewMatch(config.DefaultVolleyConfig().Rules, SideA)
	before := m.State()

	out := m.Consume([]Event{
		{Kind: EventFloorContact, Side: SideA, Final: true},
		{Kind: EventTouchViolation, Side: SideB},
	})
	assert.Empty(t, out)
	assert.Equal(t, before, m.State())
}

func TestNonTerminalEventsKeepRallyAlive(t *testing.T) {
	m := NewMatch(config.DefaultVolleyConfig().Rules, SideA)
	require.True(t, m.BeginRally(SideA))

	out := m.Consume([]Event{
		{Kind: EventActorContact, Side: SideB},
		{Kind: EventNetContact, Side: SideB},
		{Kind: EventFloorContact, Side: SideB, Final: false},
		{Kind: EventWallContact, Side: SideA},
	})
	assert.Empty(t, out)
	assert.Equal(t, PhaseRallyActive, m.State().Phase)
}

func TestTerminalEventsAwardTheRightSide(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		winner Side
		reason Reason
	}{
		{"floor on A", []Event{{Kind: EventFloorContact, Side: SideA, Final: true}}, SideB, ReasonFloor},
		{"floor on B", []Event{{Kind: EventFloorContact, Side: SideB, Final: true}}, SideA, ReasonFloor},
		{"out toward A", []Event{{Kind: EventOutOfBounds, Side: SideA}}, SideB, ReasonOut},
		{"out toward B", []Event{{Kind: EventOutOfBounds, Side: SideB}}, SideA, ReasonOut},
		{"violation by B", []Event{{Kind: EventTouchViolation, Side: SideB}}, SideA, ReasonTouchLimit},
		{
			"violation overrides floor in the same tick",
			[]Event{
				{Kind: EventFloorContact, Side: SideB, Final: true},
				{Kind: EventTouchViolation, Side: SideA},
			},
			SideB, ReasonTouchLimit,
		},
		{
			"first terminal wins without a violation",
			[]Event{
				{Kind: EventOutOfBounds, Side: SideB},
				{Kind: EventFloorContact, Side: SideA, Final: true},
			},
			SideA, ReasonOut,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatch(config.DefaultVolleyConfig().Rules, SideA)
			require.True(t, m.BeginRally(SideA))
			out := m.Consume(tt.events)
			require.Len(t, out, 1)
			assert.Equal(t, OutcomePointScored, out[0].Kind)
			assert.Equal(t, tt.winner, out[0].Winner)
			assert.Equal(t, tt.reason, out[0].Reason)
			assert.Equal(t, tt.winner, m.State().Serving)
			assert.Equal(t, 1, m.State().Score(tt.winner))
		})
	}
}

func TestSetNeedsTwoPointMargin(t *testing.T) {
	m := NewMatch(config.DefaultVolleyConfig().Rules, SideA)
	for range 24 {
		playPoint(t, m, SideA)
		playPoint(t, m, SideB)
	}
	st := m.State()
	require.Equal(t, 24, st.ScoreA)
	require.Equal(t, 24, st.ScoreB)

	out := playPoint(t, m, SideA)
	require.Len(t, out, 1, "25-24 must not complete the set")
	assert.Equal(t, PhaseAwaitingServe, m.State().Phase)
	assert.Empty(t, m.State().SetScores)

	out = playPoint(t, m, SideA)
	require.Len(t, out, 2)
	assert.Equal(t, OutcomeSetComplete, out[1].Kind)
	assert.Equal(t, SideA, out[1].Winner)
	assert.Equal(t, 26, out[1].ScoreA)
	assert.Equal(t, 24, out[1].ScoreB)

	st = m.State()
	assert.Equal(t, []SetScore{{A: 26, B: 24, Winner: SideA}}, st.SetScores)
	assert.Equal(t, 1, st.SetsWonA)
	assert.Equal(t, 1, st.SetIndex)
	assert.Equal(t, 0, st.ScoreA)
	assert.Equal(t, 0, st.ScoreB)
	assert.Equal(t, SideA, st.Serving, "the set winner serves the next set")
}

func TestSetCompletesAtTargetWithMargin(t *testing.T) {
	m := NewMatch(config.DefaultVolleyConfig().Rules, SideA)
	for range 10 {
		playPoint(t, m, SideA)
	}
	for i := range 25 {
		out := playPoint(t, m, SideB)
		if i < 24 {
			require.Len(t, out, 1)
		} else {
			require.Len(t, out, 2, "25-10 completes the set")
			assert.Equal(t, SideB, out[1].Winner)
		}
	}
}

func TestServingSideFollowsScorer(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m := NewMatch(config.DefaultVolleyConfig().Rules, SideA)

	for m.State().Phase != PhaseMatchComplete {
		winner := SideA
		if rng.Intn(2) == 0 {
			winner = SideB
		}
		out := playPoint(t, m, winner)
		require.NotEmpty(t, out)
		assert.Equal(t, winner, out[0].Winner)
		assert.Equal(t, winner, m.State().Serving)
	}
}

func TestMatchEndsAtMajorityWithDecidingSetTarget(t *testing.T) {
	m := NewMatch(config.DefaultVolleyConfig().Rules, SideA)
	winSet := func(s Side) []Outcome {
		var out []Outcome
		for len(out) < 2 {
			out = playPoint(t, m, s)
		}
		return out
	}

	winSet(SideA)
	winSet(SideB)
	winSet(SideA)
	winSet(SideB)
	require.Equal(t, 4, m.State().SetIndex)
	assert.Equal(t, 15, m.Target(), "deciding set plays to 15")

	for range 14 {
		playPoint(t, m, SideB)
	}
	out := playPoint(t, m, SideB)
	require.Len(t, out, 3)
	assert.Equal(t, OutcomeMatchComplete, out[2].Kind)

	st := m.State()
	assert.Equal(t, PhaseMatchComplete, st.Phase)
	assert.Equal(t, SideB, st.Winner)
	assert.Equal(t, 3, st.SetsWonB)
	assert.Len(t, st.SetScores, 5)
	assert.Equal(t, SetScore{A: 0, B: 15, Winner: SideB}, st.SetScores[4])

	// Terminal: nothing more happens
	assert.False(t, m.BeginRally(SideB))
	assert.Empty(t, m.Consume([]Event{{Kind: EventOutOfBounds, Side: SideA}}))
}

func TestBeachRulesBestOfThree(t *testing.T) {
	m := NewMatch(config.DefaultBeachConfig().Rules, SideB)
	assert.Equal(t, SideB, m.State().Serving)
	assert.Equal(t, 21, m.Target())

	for set := range 2 {
		var out []Outcome
		for len(out) < 2 {
			out = playPoint(t, m, SideA)
		}
		assert.Equal(t, 21, out[1].ScoreA, "set %d", set)
	}
	assert.Equal(t, PhaseMatchComplete, m.State().Phase)
	assert.Equal(t, SideA, m.State().Winner)
}

func TestStateReturnsCopy(t *testing.T) {
	m := NewMatch(config.DefaultVolleyConfig().Rules, SideA)
	for range 25 {
		playPoint(t, m, SideA)
	}
	st := m.State()
	require.Len(t, st.SetScores, 1)
	st.SetScores[0].A = 99
	assert.Equal(t, 25, m.State().SetScores[0].A)
}
