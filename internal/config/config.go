// Package config provides YAML-based rules, physics and AI configuration for the
// volleyball variants, plus difficulty management.
package config

import (
	"fmt"
	"strings"
)

// VolleyConfig contains all configuration for one volleyball variant.
type VolleyConfig struct {
	Rules      RulesConfig      `yaml:"rules"`
	Court      CourtConfig      `yaml:"court"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Actor      ActorConfig      `yaml:"actor"`
	Hit        HitConfig        `yaml:"hit"`
	AI         AIConfig         `yaml:"ai"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// RulesConfig defines scoring and team composition.
type RulesConfig struct {
	Roster            []string `yaml:"roster"`              // Roles per side, in serve rotation order
	SetTarget         int      `yaml:"set_target"`          // Points to win a regular set
	DecidingSetTarget int      `yaml:"deciding_set_target"` // Points to win the deciding set
	WinMargin         int      `yaml:"win_margin"`          // Minimum lead to close a set
	BestOf            int      `yaml:"best_of"`             // Sets in the match (odd)
	TouchLimit        int      `yaml:"touch_limit"`         // Consecutive touches allowed per side
	ServeDelayTicks   int      `yaml:"serve_delay_ticks"`   // Host delay before a CPU serve
}

// CourtConfig defines the static court geometry in world units.
type CourtConfig struct {
	Width     float64 `yaml:"width"`
	GroundY   float64 `yaml:"ground_y"`
	Ceiling   float64 `yaml:"ceiling"`
	OutMargin float64 `yaml:"out_margin"` // Distance beyond a sideline before the ball is ruled out
	NetWidth  float64 `yaml:"net_width"`
	NetHeight float64 `yaml:"net_height"`
}

// PhysicsConfig defines ball physics and surface responses.
type PhysicsConfig struct {
	Gravity          float64 `yaml:"gravity"`
	BallRadius       float64 `yaml:"ball_radius"`
	MaxBallSpeed     float64 `yaml:"max_ball_speed"`
	FloorRestitution float64 `yaml:"floor_restitution"`
	FloorFriction    float64 `yaml:"floor_friction"` // Horizontal velocity kept per floor bounce
	RestSpeed        float64 `yaml:"rest_speed"`     // Bounce speed under which the ball is dead
	WallRestitution  float64 `yaml:"wall_restitution"`
	NetDamping       float64 `yaml:"net_damping"`
	NetPushBack      float64 `yaml:"net_push_back"` // Minimum horizontal speed away from the net
}

// ActorConfig defines actor bodies, movement and reach.
type ActorConfig struct {
	Width            float64 `yaml:"width"`
	Height           float64 `yaml:"height"`
	RunSpeed         float64 `yaml:"run_speed"`
	JumpSpeed        float64 `yaml:"jump_speed"`
	AirControl       float64 `yaml:"air_control"`
	StrikeTicks      int     `yaml:"strike_ticks"`
	StrikeCooldown   int     `yaml:"strike_cooldown"`
	JumpCooldown     int     `yaml:"jump_cooldown"`
	ReachOffset      float64 `yaml:"reach_offset"`
	ReachWidth       float64 `yaml:"reach_width"`
	ReachUp          float64 `yaml:"reach_up"`
	StrikeReachScale float64 `yaml:"strike_reach_scale"`
	BlockReachUp     float64 `yaml:"block_reach_up"`
}

// HitConfig defines outgoing ball velocities after contact. Angles are in degrees
// of elevation above the horizontal.
type HitConfig struct {
	PassPower          float64 `yaml:"pass_power"`
	StrikePower        float64 `yaml:"strike_power"`
	AirMultiplier      float64 `yaml:"air_multiplier"`
	BlockPower         float64 `yaml:"block_power"`
	PassElevationMin   float64 `yaml:"pass_elevation_min"`
	PassElevationMax   float64 `yaml:"pass_elevation_max"`
	StrikeElevationMin float64 `yaml:"strike_elevation_min"`
	StrikeElevationMax float64 `yaml:"strike_elevation_max"`
	AirElevationMin    float64 `yaml:"air_elevation_min"`
	AirElevationMax    float64 `yaml:"air_elevation_max"`
	BlockElevation     float64 `yaml:"block_elevation"`
	NearNetBonus       float64 `yaml:"near_net_bonus"` // Extra power fraction right at the net
	AngleVariance      float64 `yaml:"angle_variance"`
	PowerVariance      float64 `yaml:"power_variance"`
	ServePower         float64 `yaml:"serve_power"`
	ServeElevation     float64 `yaml:"serve_elevation"`
}

// AIConfig defines the CPU heuristics.
type AIConfig struct {
	MinSkill        float64 `yaml:"min_skill"` // Skill at difficulty level 0
	MaxSkill        float64 `yaml:"max_skill"` // Skill at difficulty level 1
	StrikeDistance  float64 `yaml:"strike_distance"`
	AttackHeight    float64 `yaml:"attack_height"` // Ball height above ground an attacker commits at
	SetterOffset    float64 `yaml:"setter_offset"`
	BlockerJitter   float64 `yaml:"blocker_jitter"`
	JitterEvery     int     `yaml:"jitter_every"`
	PredictionError float64 `yaml:"prediction_error"`
	DeadZone        float64 `yaml:"dead_zone"`
	BlockDistance   float64 `yaml:"block_distance"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
}

// ProgressionConfig defines how difficulty increases over the match.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "points", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Points/ticks at which max difficulty is reached
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI string into a preset. Empty input yields an empty preset.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s))); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q", s)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.4
	case DifficultyHard:
		return 0.8
	default:
		return 0.0
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *VolleyConfig, preset DifficultyPreset) {
	switch preset {
	case "":
		return
	case DifficultyFixed:
		cfg.Difficulty.Enabled = false
	default:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}
}

// Validate checks the values the simulation cannot run without.
func (c VolleyConfig) Validate() error {
	switch {
	case len(c.Rules.Roster) == 0:
		return fmt.Errorf("config: rules.roster must list at least one role")
	case c.Rules.SetTarget <= 0 || c.Rules.DecidingSetTarget <= 0:
		return fmt.Errorf("config: set targets must be positive")
	case c.Rules.WinMargin < 1:
		return fmt.Errorf("config: rules.win_margin must be at least 1")
	case c.Rules.BestOf < 1 || c.Rules.BestOf%2 == 0:
		return fmt.Errorf("config: rules.best_of must be a positive odd number, got %d", c.Rules.BestOf)
	case c.Rules.TouchLimit < 1:
		return fmt.Errorf("config: rules.touch_limit must be at least 1")
	case c.Court.Width <= 0 || c.Court.GroundY <= c.Court.Ceiling:
		return fmt.Errorf("config: court dimensions are invalid")
	case c.Court.NetHeight <= 0 || c.Court.NetWidth <= 0:
		return fmt.Errorf("config: net dimensions must be positive")
	case c.Physics.Gravity <= 0:
		return fmt.Errorf("config: physics.gravity must be positive")
	case c.Physics.FloorRestitution <= 0 || c.Physics.FloorRestitution >= 1:
		return fmt.Errorf("config: physics.floor_restitution must be in (0, 1)")
	case c.Physics.BallRadius <= 0 || c.Physics.MaxBallSpeed <= 0:
		return fmt.Errorf("config: ball radius and max speed must be positive")
	}
	return nil
}
