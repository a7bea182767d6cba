package volley

import "github.com/vovakirdan/tui-volley/internal/config"

// RallyPhase is the state of the serve/rally/set/match machine.
type RallyPhase int

const (
	PhaseAwaitingServe RallyPhase = iota
	PhaseRallyActive
	PhasePointScored
	PhaseSetComplete
	PhaseMatchComplete
)

func (p RallyPhase) String() string {
	switch p {
	case PhaseAwaitingServe:
		return "awaiting-serve"
	case PhaseRallyActive:
		return "rally"
	case PhasePointScored:
		return "point"
	case PhaseSetComplete:
		return "set-complete"
	case PhaseMatchComplete:
		return "match-complete"
	default:
		return "unknown"
	}
}

// SetScore is the final score of a finished set.
type SetScore struct {
	A, B   int
	Winner Side
}

// MatchState is owned and mutated only by the Machine.
type MatchState struct {
	ScoreA, ScoreB     int
	SetIndex           int // Zero-based index of the set in progress
	SetsWonA, SetsWonB int
	Serving            Side
	Phase              RallyPhase
	SetScores          []SetScore
	Winner             Side
}

// Score returns the current set score of a side.
func (m MatchState) Score(s Side) int {
	if s == SideB {
		return m.ScoreB
	}
	return m.ScoreA
}

// SetsWon returns the number of sets a side has won.
func (m MatchState) SetsWon(s Side) int {
	if s == SideB {
		return m.SetsWonB
	}
	return m.SetsWonA
}

// OutcomeKind classifies what a Tick decided.
type OutcomeKind int

const (
	OutcomePointScored OutcomeKind = iota
	OutcomeSetComplete
	OutcomeMatchComplete
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomePointScored:
		return "point"
	case OutcomeSetComplete:
		return "set"
	case OutcomeMatchComplete:
		return "match"
	default:
		return "unknown"
	}
}

// Reason explains why a rally ended.
type Reason int

const (
	ReasonFloor Reason = iota
	ReasonOut
	ReasonTouchLimit
)

func (r Reason) String() string {
	switch r {
	case ReasonFloor:
		return "floor"
	case ReasonOut:
		return "out"
	case ReasonTouchLimit:
		return "touch-limit"
	default:
		return "unknown"
	}
}

// Outcome is reported to the host for display. ScoreA/ScoreB are the set score
// at the moment of the outcome, before any reset for the next set.
type Outcome struct {
	Kind           OutcomeKind
	Winner         Side
	Reason         Reason
	ScoreA, ScoreB int
	SetIndex       int
	SetsA, SetsB   int
}

// Machine keeps score. It never touches the ball or the actors.
type Machine struct {
	rules config.RulesConfig
	state MatchState
}

// NewMatch creates a machine in AwaitingServe with first serving.
func NewMatch(rules config.RulesConfig, first Side) *Machine {
	if first == SideNone {
		first = SideA
	}
	return &Machine{
		rules: rules,
		state: MatchState{Serving: first, Phase: PhaseAwaitingServe},
	}
}

// State returns a copy of the match state.
func (m *Machine) State() MatchState {
	st := m.state
	st.SetScores = append([]SetScore(nil), m.state.SetScores...)
	return st
}

// BeginRally starts a rally. It is a no-op returning false unless the machine is
// awaiting a serve from the given side.
func (m *Machine) BeginRally(side Side) bool {
	if m.state.Phase != PhaseAwaitingServe || side != m.state.Serving {
		return false
	}
	m.state.Phase = PhaseRallyActive
	return true
}

// Consume scores the rally from one tick's events. Events arriving outside a
// rally are discarded. A touch violation wins over anything else in the batch.
func (m *Machine) Consume(events []Event) []Outcome {
	if m.state.Phase != PhaseRallyActive {
		return nil
	}

	var decisive *Event
	for i := range events {
		ev := &events[i]
		if ev.Kind == EventTouchViolation {
			decisive = ev
			break
		}
		if decisive == nil && ev.Terminal() {
			decisive = ev
		}
	}
	if decisive == nil {
		return nil
	}

	var reason Reason
	switch decisive.Kind {
	case EventTouchViolation:
		reason = ReasonTouchLimit
	case EventOutOfBounds:
		reason = ReasonOut
	default:
		reason = ReasonFloor
	}
	return m.award(decisive.Side.Opponent(), reason)
}

// Target returns the points needed to win the current set.
func (m *Machine) Target() int {
	if m.isDecidingSet() {
		return m.rules.DecidingSetTarget
	}
	return m.rules.SetTarget
}

func (m *Machine) isDecidingSet() bool {
	return m.state.SetIndex == m.rules.BestOf-1
}

func (m *Machine) majority() int {
	return m.rules.BestOf/2 + 1
}

func (m *Machine) award(winner Side, reason Reason) []Outcome {
	st := &m.state
	st.Phase = PhasePointScored
	if winner == SideA {
		st.ScoreA++
	} else {
		st.ScoreB++
	}
	st.Serving = winner

	out := []Outcome{m.outcome(OutcomePointScored, winner, reason)}

	if !m.setWon(winner) {
		st.Phase = PhaseAwaitingServe
		return out
	}

	st.Phase = PhaseSetComplete
	st.SetScores = append(st.SetScores, SetScore{A: st.ScoreA, B: st.ScoreB, Winner: winner})
	if winner == SideA {
		st.SetsWonA++
	} else {
		st.SetsWonB++
	}
	out = append(out, m.outcome(OutcomeSetComplete, winner, reason))

	if st.SetsWonA >= m.majority() || st.SetsWonB >= m.majority() {
		st.Phase = PhaseMatchComplete
		st.Winner = winner
		return append(out, m.outcome(OutcomeMatchComplete, winner, reason))
	}

	st.SetIndex++
	st.ScoreA, st.ScoreB = 0, 0
	st.Serving = winner
	st.Phase = PhaseAwaitingServe
	return out
}

func (m *Machine) setWon(leader Side) bool {
	own := m.state.Score(leader)
	other := m.state.Score(leader.Opponent())
	return own >= m.Target() && own-other >= m.rules.WinMargin
}

func (m *Machine) outcome(kind OutcomeKind, winner Side, reason Reason) Outcome {
	st := m.state
	return Outcome{
		Kind:     kind,
		Winner:   winner,
		Reason:   reason,
		ScoreA:   st.ScoreA,
		ScoreB:   st.ScoreB,
		SetIndex: st.SetIndex,
		SetsA:    st.SetsWonA,
		SetsB:    st.SetsWonB,
	}
}
