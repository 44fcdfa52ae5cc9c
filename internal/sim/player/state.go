// Package player implements the controllable entity: semi-implicit Euler
// physics plus the jump, dash and gravity-inversion ability state machines.
package player

import "github.com/velocitylab/gravity-runner/internal/core"

// DashState is the dash ability's timers and flags. Cooldown counts down
// every tick whether or not the dash is active.
type DashState struct {
	Available           bool
	Active              bool
	ElapsedMs           float64
	CooldownRemainingMs float64
	Direction           core.Vec2
}

// GravityToggleState is the gravity inversion ability's cooldown.
type GravityToggleState struct {
	CooldownRemainingMs float64
}

// CanToggle reports whether the inversion is off cooldown.
func (g GravityToggleState) CanToggle() bool {
	return g.CooldownRemainingMs <= 0
}

// State is the complete player state. It is owned exclusively by the
// Controller and mutated only inside its Update; everyone else receives
// copies.
type State struct {
	Position core.Vec2 // viewport-space, +Y down
	Velocity core.Vec2
	Width    float64
	Height   float64

	OnGround        bool
	GravityInverted bool
	Alive           bool

	JumpsLeft         int
	IsJumping         bool
	JumpElapsedMs     float64
	CoyoteRemainingMs float64
	BufferRemainingMs float64

	Dash          DashState
	GravityToggle GravityToggleState

	// InvulnerableUntilMs is a simulation-clock timestamp; the player
	// ignores collisions until the clock passes it.
	InvulnerableUntilMs float64
}

// Box returns the player's viewport-space bounding box.
func (s State) Box() core.Box {
	return core.NewBox(s.Position.X, s.Position.Y, s.Width, s.Height)
}

// CanDash reports whether a new dash may start. Active dashes exclude
// starting another.
func (s State) CanDash() bool {
	return s.Dash.Available && !s.Dash.Active
}

// CanJump reports whether a jump request would succeed right now: grounded,
// inside the coyote window, or with air jumps remaining.
func (s State) CanJump() bool {
	return s.OnGround || s.CoyoteRemainingMs > 0 || s.JumpsLeft > 0
}
