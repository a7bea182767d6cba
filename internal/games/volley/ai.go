package volley

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-volley/internal/config"
	"github.com/vovakirdan/tui-volley/internal/core"
)

// AI computes intents for CPU actors. It only ever produces intents; the
// Controller applies them. The play is heuristic: one bounce of lookahead, no
// pathfinding.
type AI struct {
	court      Court
	body       config.ActorConfig
	cfg        config.AIConfig
	gravity    float64
	touchLimit int
	rng        *rand.Rand
	skill      float64

	aimError map[ActorID]float64
	jitter   map[ActorID]float64
}

// NewAI creates the CPU policy. Skill starts at the configured minimum.
func NewAI(court Court, cfg config.VolleyConfig, rng *rand.Rand) *AI {
	return &AI{
		court:      court,
		body:       cfg.Actor,
		cfg:        cfg.AI,
		gravity:    cfg.Physics.Gravity,
		touchLimit: cfg.Rules.TouchLimit,
		rng:        rng,
		skill:      cfg.AI.MinSkill,
		aimError:   make(map[ActorID]float64),
		jitter:     make(map[ActorID]float64),
	}
}

// SetSkill sets play quality in [0,1]. Lower skill widens the movement dead zone
// and the landing prediction error.
func (ai *AI) SetSkill(s float64) {
	ai.skill = core.ClampF(s, 0, 1)
}

// Skill returns the current skill.
func (ai *AI) Skill() float64 {
	return ai.skill
}

// Refresh draws new prediction errors and blocker jitter for every CPU actor.
// Actors are visited in slice order so the random stream stays reproducible.
func (ai *AI) Refresh(actors []Actor) {
	spread := ai.cfg.PredictionError * (1 - ai.skill)
	for i := range actors {
		a := &actors[i]
		if a.Human {
			continue
		}
		ai.aimError[a.ID] = (ai.rng.Float64()*2 - 1) * spread
		if a.Role == RoleBlocker {
			ai.jitter[a.ID] = (ai.rng.Float64()*2 - 1) * ai.cfg.BlockerJitter
		}
	}
}

// Policy returns the intent for a CPU actor. The role picks the positioning
// rule; jumping and striking share one timing rule.
func (ai *AI) Policy(a *Actor, ball Ball) core.Intent {
	if !ball.InPlay {
		return ai.moveTo(a, ai.idleSpot(a))
	}
	// Our side is out of touches; leave the ball alone
	if ball.LastContactSide == a.Side && ball.Touches >= ai.touchLimit {
		return ai.moveTo(a, ai.idleSpot(a))
	}

	landX, ok := ai.landing(ball)
	ownLanding := ok && ai.court.SideOf(landX) == a.Side
	if ok {
		landX += ai.aimError[a.ID]
	}
	// Stand so the reach region, which sits in front of the head, meets the ball
	meet := landX - a.Side.Facing()*ai.body.ReachOffset

	switch a.Role {
	case RoleBlocker:
		in := ai.moveTo(a, ai.idleSpot(a))
		if ownLanding && math.Abs(landX-a.Pos.X) < ai.cfg.BlockDistance {
			in = ai.moveTo(a, meet)
			in.Jump, in.Strike = ai.timing(a, ball, false)
			return in
		}
		if ai.opponentAttacking(a, ball) && a.Grounded {
			in.Block = true
		}
		return in

	case RoleSetter:
		if !ownLanding {
			return ai.moveTo(a, ai.idleSpot(a))
		}
		// Set from the net side of the landing point
		in := ai.moveTo(a, meet+a.Side.Facing()*ai.cfg.SetterOffset)
		in.Jump, _ = ai.timing(a, ball, false)
		return in

	case RoleAttacker, RoleServer:
		// Attack runs start only on a high descending ball
		commit := ball.Vel.Y > 0 && ai.court.GroundY-ball.Pos.Y > ai.cfg.AttackHeight
		if !ownLanding || !commit {
			return ai.moveTo(a, ai.idleSpot(a))
		}
		in := ai.moveTo(a, meet)
		in.Jump, in.Strike = ai.timing(a, ball, commit)
		return in

	case RoleLibero:
		if !ownLanding {
			return ai.moveTo(a, ai.idleSpot(a))
		}
		return ai.moveTo(a, meet)
	}
	return core.Intent{}
}

// landing predicts where the ball will reach the floor.
func (ai *AI) landing(ball Ball) (float64, bool) {
	x, _, ok := PredictLanding(ball.Pos, ball.Vel, ai.gravity, ai.court.GroundY-ball.Radius)
	return x, ok
}

// idleSpot is where an actor waits when the ball is not coming to them.
// Setters and blockers wait near the net, blockers with a little jitter.
func (ai *AI) idleSpot(a *Actor) float64 {
	toNet := a.Side.Facing()
	switch a.Role {
	case RoleSetter:
		return ai.court.NetX() - toNet*ai.cfg.SetterOffset*2
	case RoleBlocker:
		return ai.court.NetX() - toNet*ai.cfg.SetterOffset + ai.jitter[a.ID]
	default:
		return a.Home
	}
}

func (ai *AI) opponentAttacking(a *Actor, ball Ball) bool {
	net := ai.court.Net
	return ai.court.SideOf(ball.Pos.X) != a.Side &&
		math.Abs(ball.Pos.X-ai.court.NetX()) < ai.cfg.BlockDistance &&
		ball.Pos.Y < net.Y
}

// timing decides whether to jump and whether to strike this tick. Both need the
// actor to be horizontally close and the ball to be coming down within reach.
func (ai *AI) timing(a *Actor, ball Ball, commit bool) (jump, strike bool) {
	reach := ReachBox(a, ai.body)
	dx := math.Abs(ball.Pos.X - reach.CenterX())
	if dx > ai.cfg.StrikeDistance || ball.Vel.Y <= 0 {
		return false, false
	}

	standingTop := a.Pos.Y - ai.body.Height - ai.body.ReachUp
	apex := ai.body.JumpSpeed * ai.body.JumpSpeed / (2 * ai.gravity)
	above := standingTop - ball.Pos.Y
	if a.Grounded && above > 0 && above < apex+ai.body.ReachUp {
		jump = true
	}

	if commit {
		grown := reach
		grown.Y -= ai.cfg.StrikeDistance
		grown.H += ai.cfg.StrikeDistance
		strike = grown.IntersectsCircle(ball.Pos, ball.Radius)
	}
	return jump, strike
}

// moveTo steers toward x, stopping inside a dead zone that grows as skill drops.
func (ai *AI) moveTo(a *Actor, x float64) core.Intent {
	dead := ai.cfg.DeadZone * (1 + 2*(1-ai.skill))
	d := x - a.Pos.X
	switch {
	case d > dead:
		return core.Intent{MoveRight: true}
	case d < -dead:
		return core.Intent{MoveLeft: true}
	default:
		return core.Intent{}
	}
}
