package volley

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-volley/internal/config"
	"github.com/vovakirdan/tui-volley/internal/core"
)

// Simulation owns one match: the ball, the actors, the court and the score.
// It advances only when Tick is called and draws randomness only from the
// source seeded at construction.
type Simulation struct {
	cfg   config.VolleyConfig
	court Court
	rng   *rand.Rand

	ball     Ball
	actors   []Actor
	pending  []core.Intent
	intents  []core.Intent
	rotation [3]int // Serve rotation index, indexed by Side

	ctrl     *Controller
	resolver *Resolver
	ai       *AI
	match    *Machine

	ticks  int
	events []Event
}

// New builds a match in AwaitingServe with side A to serve. humans selects
// how many actors are keyboard controlled: 0 (CPU vs CPU), 1 (first actor of
// side A) or 2 (first actor of each side).
func New(cfg config.VolleyConfig, seed int64, humans int) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if humans < 0 || humans > 2 {
		return nil, fmt.Errorf("volley: humans must be 0, 1 or 2, got %d", humans)
	}

	roles := make([]Role, 0, len(cfg.Rules.Roster))
	for _, name := range cfg.Rules.Roster {
		r, err := ParseRole(name)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}

	court := CourtFromConfig(cfg.Court)
	rng := rand.New(rand.NewSource(seed))
	s := &Simulation{
		cfg:      cfg,
		court:    court,
		rng:      rng,
		ctrl:     NewController(court, cfg.Actor, cfg.Physics.Gravity),
		resolver: NewResolver(court, cfg, rng),
		ai:       NewAI(court, cfg, rng),
		match:    NewMatch(cfg.Rules, SideA),
	}
	s.spawnActors(roles, humans)
	s.pending = make([]core.Intent, len(s.actors))
	s.intents = make([]core.Intent, len(s.actors))
	s.ball = Ball{Radius: cfg.Physics.BallRadius, LastToucher: NoActor}
	s.resetFormation()
	return s, nil
}

// CourtFromConfig lays out the court with the net centered at mid-court.
func CourtFromConfig(c config.CourtConfig) Court {
	return Court{
		Left:      0,
		Right:     c.Width,
		GroundY:   c.GroundY,
		Ceiling:   c.Ceiling,
		OutMargin: c.OutMargin,
		Net:       core.NewBox(c.Width/2-c.NetWidth/2, c.GroundY-c.NetHeight, c.NetWidth, c.NetHeight),
	}
}

func (s *Simulation) spawnActors(roles []Role, humans int) {
	n := len(roles)
	for _, side := range []Side{SideA, SideB} {
		lo, hi := s.ctrl.Bounds(side)
		for i, role := range roles {
			// Index 0 plays deepest, the last index closest to the net
			frac := (float64(i) + 0.5) / float64(n)
			home := lo + (hi-lo)*frac
			if side == SideB {
				home = hi - (hi-lo)*frac
			}
			human := i == 0 && ((side == SideA && humans >= 1) || (side == SideB && humans >= 2))
			s.actors = append(s.actors, Actor{
				ID:    ActorID(len(s.actors)),
				Side:  side,
				Role:  role,
				Human: human,
				Home:  home,
			})
		}
	}
}

// Tick advances the match by dt and returns the outcomes decided in this step.
// Outside a rally the formation is held still and nothing happens.
func (s *Simulation) Tick(dt float64) []Outcome {
	s.ticks++
	s.events = s.events[:0]

	if s.match.state.Phase != PhaseRallyActive {
		clear(s.pending)
		return nil
	}

	if every := s.cfg.AI.JitterEvery; every > 0 && s.ticks%every == 0 {
		s.ai.Refresh(s.actors)
	}

	// Decide every intent against the same pre-tick state, then apply them
	for i := range s.actors {
		if s.actors[i].Human {
			s.intents[i] = s.pending[i]
		} else {
			s.intents[i] = s.ai.Policy(&s.actors[i], s.ball)
		}
	}
	clear(s.pending)
	for i := range s.actors {
		s.ctrl.Apply(&s.actors[i], s.intents[i], dt)
	}

	if s.ball.InPlay {
		s.ball.Integrate(s.cfg.Physics.Gravity, dt)
	}
	s.events = append(s.events, s.resolver.Resolve(&s.ball, s.actors, dt)...)

	serving := s.match.state.Serving
	out := s.match.Consume(s.events)
	if len(out) > 0 && s.match.state.Phase != PhaseMatchComplete {
		if s.match.state.Serving != serving {
			s.rotation[s.match.state.Serving]++
		}
		s.resetFormation()
	}
	return out
}

// SetActorIntent queues a human intent for the next tick. Intents for CPU actors
// and unknown ids are ignored.
func (s *Simulation) SetActorIntent(id ActorID, in core.Intent) {
	if id < 0 || int(id) >= len(s.actors) || !s.actors[id].Human {
		return
	}
	s.pending[id] = in
}

// RequestServe launches the ball from the serving actor. It does nothing and
// returns false unless the match awaits a serve from side.
func (s *Simulation) RequestServe(side Side) bool {
	if !s.match.BeginRally(side) {
		return false
	}

	server := &s.actors[s.ServerID()]
	h := s.cfg.Hit
	elev := h.ServeElevation + (s.rng.Float64()*2-1)*h.AngleVariance
	power := h.ServePower * (1 + (s.rng.Float64()*2-1)*h.PowerVariance)
	rad := elev * math.Pi / 180

	s.ball.Vel = core.V(side.Facing()*math.Cos(rad)*power, -math.Sin(rad)*power)
	ClampSpeed(&s.ball.Vel, s.cfg.Physics.MaxBallSpeed)
	s.ball.InPlay = true
	s.ball.LastContactSide = side
	s.ball.Touches = 1
	s.ball.LastToucher = server.ID

	s.resolver.Reset()
	s.resolver.Hold(server.ID)
	return true
}

// ServerID returns the actor who serves next for the serving side. A side with
// a dedicated server always uses it; otherwise serve rotates on each side-out.
func (s *Simulation) ServerID() ActorID {
	side := s.match.state.Serving
	var team []ActorID
	for i := range s.actors {
		a := &s.actors[i]
		if a.Side != side {
			continue
		}
		if a.Role == RoleServer {
			return a.ID
		}
		team = append(team, a.ID)
	}
	return team[s.rotation[side]%len(team)]
}

// resetFormation puts every actor at home, grounded and still, and holds the
// dead ball above the server's head.
func (s *Simulation) resetFormation() {
	for i := range s.actors {
		a := &s.actors[i]
		a.Pos = core.V(a.Home, s.court.GroundY)
		a.Vel = core.Vec2{}
		a.Grounded = true
		a.State = StateIdle
		a.Cooldown = 0
		a.Striking = 0
		a.Blocking = false
	}

	server := &s.actors[s.ServerID()]
	lo, hi := s.ctrl.Bounds(server.Side)
	if server.Side == SideA {
		server.Pos.X = lo
	} else {
		server.Pos.X = hi
	}

	s.ball.Pos = core.V(
		server.Pos.X+server.Side.Facing()*s.cfg.Actor.ReachOffset,
		s.court.GroundY-s.cfg.Actor.Height-s.ball.Radius-2,
	)
	s.ball.Vel = core.Vec2{}
	s.ball.InPlay = false
	s.ball.LastContactSide = SideNone
	s.ball.Touches = 0
	s.ball.LastToucher = NoActor
	s.resolver.Reset()
}

// SetAISkill sets CPU play quality in [0,1].
func (s *Simulation) SetAISkill(skill float64) {
	s.ai.SetSkill(skill)
}

// Ball returns a copy of the ball.
func (s *Simulation) Ball() Ball {
	return s.ball
}

// Actors returns a copy of all actors, side A first.
func (s *Simulation) Actors() []Actor {
	return append([]Actor(nil), s.actors...)
}

// Match returns a copy of the match state.
func (s *Simulation) Match() MatchState {
	return s.match.State()
}

// Court returns the court geometry.
func (s *Simulation) Court() Court {
	return s.court
}

// Config returns the configuration the match was built with.
func (s *Simulation) Config() config.VolleyConfig {
	return s.cfg
}

// Ticks returns the number of ticks simulated so far.
func (s *Simulation) Ticks() int {
	return s.ticks
}

// Events returns the collision events of the last tick.
func (s *Simulation) Events() []Event {
	return append([]Event(nil), s.events...)
}

// HumanActors returns the ids of keyboard-controlled actors, side A first.
func (s *Simulation) HumanActors() []ActorID {
	var ids []ActorID
	for i := range s.actors {
		if s.actors[i].Human {
			ids = append(ids, s.actors[i].ID)
		}
	}
	return ids
}

// ServingIsHuman reports whether the next serve waits for a keyboard.
func (s *Simulation) ServingIsHuman() bool {
	return s.actors[s.ServerID()].Human
}
