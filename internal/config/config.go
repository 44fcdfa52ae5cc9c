// Package config provides YAML-based gameplay configuration loading and
// difficulty presets for the runner.
package config

// RunnerConfig contains all tunable parameters for a run. Distances are in
// world pixels, speeds in pixels per second, forces in pixels per second
// squared, and durations in milliseconds of simulated time.
type RunnerConfig struct {
	Player  PlayerConfig  `yaml:"player"`
	Physics PhysicsConfig `yaml:"physics"`
	Jump    JumpConfig    `yaml:"jump"`
	Dash    DashConfig    `yaml:"dash"`
	Gravity GravityConfig `yaml:"gravity_toggle"`
	World   WorldConfig   `yaml:"world"`
	Engine  EngineConfig  `yaml:"engine"`
}

// PlayerConfig defines the player's spawn position and hitbox.
type PlayerConfig struct {
	SpawnX float64 `yaml:"spawn_x"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PhysicsConfig defines the base movement integration parameters.
type PhysicsConfig struct {
	Gravity      float64 `yaml:"gravity"`
	MoveSpeed    float64 `yaml:"move_speed"`
	MaxFallSpeed float64 `yaml:"max_fall_speed"`
}

// JumpConfig defines the jump ability state machine.
type JumpConfig struct {
	Force           float64 `yaml:"force"`
	DoubleJumpForce float64 `yaml:"double_jump_force"`
	MaxJumps        int     `yaml:"max_jumps"`
	HoldForce       float64 `yaml:"hold_force"`
	MaxJumpTimeMs   float64 `yaml:"max_jump_time_ms"`
	CoyoteTimeMs    float64 `yaml:"coyote_time_ms"`
	BufferTimeMs    float64 `yaml:"buffer_time_ms"`
}

// DashConfig defines the dash ability state machine.
type DashConfig struct {
	Impulse           float64 `yaml:"impulse"`
	Force             float64 `yaml:"force"`
	DurationMs        float64 `yaml:"duration_ms"`
	CooldownMs        float64 `yaml:"cooldown_ms"`
	InvulnerabilityMs float64 `yaml:"invulnerability_ms"`
	AirResistance     float64 `yaml:"air_resistance"`
	EndFriction       float64 `yaml:"end_friction"`
}

// GravityConfig defines the gravity inversion toggle.
type GravityConfig struct {
	CooldownMs float64 `yaml:"cooldown_ms"`
}

// WorldConfig defines the scrolling obstacle field.
type WorldConfig struct {
	ScrollSpeed         float64 `yaml:"scroll_speed"` // px per 60Hz baseline frame
	ViewportWidth       float64 `yaml:"viewport_width"`
	ViewportHeight      float64 `yaml:"viewport_height"`
	GroundHeight        float64 `yaml:"ground_height"`
	MinObstacleDistance float64 `yaml:"min_obstacle_distance"`
	MaxObstacleDistance float64 `yaml:"max_obstacle_distance"`
	MinObstacleWidth    float64 `yaml:"min_obstacle_width"`
	MaxObstacleWidth    float64 `yaml:"max_obstacle_width"`
	MinObstacleHeight   float64 `yaml:"min_obstacle_height"`
	MaxObstacleHeight   float64 `yaml:"max_obstacle_height"`
	CeilingChance       float64 `yaml:"ceiling_chance"`
	LookaheadBuffer     float64 `yaml:"lookahead_buffer"`
	TrailingBuffer      float64 `yaml:"trailing_buffer"`
	FixedDifficulty     bool    `yaml:"fixed_difficulty"` // no level progression
}

// EngineConfig defines scheduler tuning.
type EngineConfig struct {
	MaxFrameMs float64 `yaml:"max_frame_ms"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

// Available presets.
const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ApplyPreset adjusts the config for a difficulty preset. Unknown presets
// leave the config unchanged.
func ApplyPreset(cfg *RunnerConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.World.ScrollSpeed *= 0.8
		cfg.World.MinObstacleDistance *= 1.25
		cfg.World.MaxObstacleDistance *= 1.25
	case DifficultyHard:
		cfg.World.ScrollSpeed *= 1.25
		cfg.World.MinObstacleDistance *= 0.85
		cfg.World.MaxObstacleDistance *= 0.85
		cfg.Dash.CooldownMs *= 1.5
	case DifficultyFixed:
		cfg.World.FixedDifficulty = true
	}
}
