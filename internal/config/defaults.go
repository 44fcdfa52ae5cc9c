package config

import (
	_ "embed"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultRunnerConfig returns the hardcoded default configuration, used as
// the last-resort fallback when the embedded YAML cannot be parsed.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Player: PlayerConfig{
			SpawnX: 120,
			Width:  16,
			Height: 24,
		},
		Physics: PhysicsConfig{
			Gravity:      2000,
			MoveSpeed:    300,
			MaxFallSpeed: 900,
		},
		Jump: JumpConfig{
			Force:           700,
			DoubleJumpForce: 600,
			MaxJumps:        2,
			HoldForce:       1100,
			MaxJumpTimeMs:   250,
			CoyoteTimeMs:    100,
			BufferTimeMs:    100,
		},
		Dash: DashConfig{
			Impulse:           800,
			Force:             2400,
			DurationMs:        200,
			CooldownMs:        1000,
			InvulnerabilityMs: 300,
			AirResistance:     0.02,
			EndFriction:       0.5,
		},
		Gravity: GravityConfig{
			CooldownMs: 2000,
		},
		World: WorldConfig{
			ScrollSpeed:         4,
			ViewportWidth:       800,
			ViewportHeight:      480,
			GroundHeight:        40,
			MinObstacleDistance: 200,
			MaxObstacleDistance: 400,
			MinObstacleWidth:    20,
			MaxObstacleWidth:    60,
			MinObstacleHeight:   30,
			MaxObstacleHeight:   90,
			CeilingChance:       0.35,
			LookaheadBuffer:     200,
			TrailingBuffer:      100,
		},
		Engine: EngineConfig{
			MaxFrameMs: 50,
		},
	}
}
