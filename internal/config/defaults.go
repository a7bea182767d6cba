package config

import (
	_ "embed"
)

//go:embed defaults/volley.yaml
var defaultVolleyYAML []byte

//go:embed defaults/beach.yaml
var defaultBeachYAML []byte

// DefaultVolleyConfig returns the default indoor configuration.
func DefaultVolleyConfig() VolleyConfig {
	return VolleyConfig{
		Rules: RulesConfig{
			Roster:            []string{"server", "setter", "blocker"},
			SetTarget:         25,
			DecidingSetTarget: 15,
			WinMargin:         2,
			BestOf:            5,
			TouchLimit:        3,
			ServeDelayTicks:   60,
		},
		Court: CourtConfig{
			Width:     640,
			GroundY:   480,
			Ceiling:   0,
			OutMargin: 80,
			NetWidth:  6,
			NetHeight: 84,
		},
		Physics: PhysicsConfig{
			Gravity:          600,
			BallRadius:       7,
			MaxBallSpeed:     750,
			FloorRestitution: 0.68,
			FloorFriction:    0.82,
			RestSpeed:        90,
			WallRestitution:  0.7,
			NetDamping:       0.5,
			NetPushBack:      40,
		},
		Actor: ActorConfig{
			Width:            24,
			Height:           60,
			RunSpeed:         220,
			JumpSpeed:        230,
			AirControl:       0.5,
			StrikeTicks:      12,
			StrikeCooldown:   20,
			JumpCooldown:     8,
			ReachOffset:      10,
			ReachWidth:       36,
			ReachUp:          30,
			StrikeReachScale: 1.3,
			BlockReachUp:     50,
		},
		Hit: HitConfig{
			PassPower:          380,
			StrikePower:        460,
			AirMultiplier:      1.3,
			BlockPower:         260,
			PassElevationMin:   55,
			PassElevationMax:   72,
			StrikeElevationMin: 12,
			StrikeElevationMax: 45,
			AirElevationMin:    -22,
			AirElevationMax:    28,
			BlockElevation:     -35,
			NearNetBonus:       0.25,
			AngleVariance:      3,
			PowerVariance:      0.05,
			ServePower:         520,
			ServeElevation:     40,
		},
		AI: AIConfig{
			MinSkill:        0.5,
			MaxSkill:        0.9,
			StrikeDistance:  26,
			AttackHeight:    120,
			SetterOffset:    40,
			BlockerJitter:   14,
			JitterEvery:     30,
			PredictionError: 36,
			DeadZone:        4,
			BlockDistance:   60,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "points",
				MaxAt: 60,
			},
		},
	}
}

// DefaultBeachConfig returns the default beach configuration: two per side,
// shorter sets, best of three.
func DefaultBeachConfig() VolleyConfig {
	cfg := DefaultVolleyConfig()
	cfg.Rules.Roster = []string{"attacker", "libero"}
	cfg.Rules.SetTarget = 21
	cfg.Rules.BestOf = 3
	return cfg
}

// DefaultFor returns the hardcoded defaults for a game ID.
func DefaultFor(gameID string) VolleyConfig {
	if gameID == "beach" {
		return DefaultBeachConfig()
	}
	return DefaultVolleyConfig()
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "volley":
		return defaultVolleyYAML
	case "beach":
		return defaultBeachYAML
	default:
		return nil
	}
}
