package player

import (
	"math"

	"github.com/velocitylab/gravity-runner/internal/core"
	"github.com/velocitylab/gravity-runner/internal/engine"
)

// dash attempts to start a dash. Direction comes from horizontal input,
// falling back to the current velocity sign, defaulting to forward. The
// player is briefly invulnerable while dashing through hazards.
func (c *Controller) dash(in core.InputSnapshot) {
	s := &c.state
	if !s.CanDash() {
		return
	}

	dir := core.Vec2{}
	if in.MoveLeft {
		dir.X -= 1
	}
	if in.MoveRight {
		dir.X += 1
	}
	if dir.X == 0 {
		if s.Velocity.X < 0 {
			dir.X = -1
		} else {
			dir.X = 1
		}
	}
	dir = dir.Normalized()

	s.Dash.Active = true
	s.Dash.Available = false
	s.Dash.ElapsedMs = 0
	s.Dash.Direction = dir
	s.Dash.CooldownRemainingMs = c.cfg.Dash.CooldownMs
	s.InvulnerableUntilMs = c.simTimeMs + c.cfg.Dash.InvulnerabilityMs

	s.Velocity.X = dir.X * c.cfg.Dash.Impulse
	s.Velocity.Y = 0

	c.bus.Publish(engine.PlayerDashedEvent{Direction: dir})
}

// tickDashActive drives an in-flight dash: constant force along the dash
// direction, air-resistance damping, and automatic cutoff at the configured
// duration.
func (c *Controller) tickDashActive(dtMs float64) {
	s := &c.state
	if !s.Dash.Active {
		return
	}

	dt := dtMs / 1000.0
	s.Velocity.X += s.Dash.Direction.X * c.cfg.Dash.Force * dt

	// Damping normalized to the 60Hz baseline so feel is frame-rate
	// independent.
	damp := math.Pow(1.0-c.cfg.Dash.AirResistance, dtMs/(1000.0/60.0))
	s.Velocity.X *= damp

	// Gravity does not act during the dash.
	s.Velocity.Y = 0

	s.Dash.ElapsedMs += dtMs
	if s.Dash.ElapsedMs >= c.cfg.Dash.DurationMs {
		c.endDash()
	}
}

// endDash stops the dash and bleeds off residual speed.
func (c *Controller) endDash() {
	s := &c.state
	s.Dash.Active = false
	s.Dash.ElapsedMs = 0
	s.Velocity.X *= c.cfg.Dash.EndFriction

	// A cooldown shorter than the dash itself has already expired.
	if s.Dash.CooldownRemainingMs <= 0 {
		s.Dash.Available = true
		c.bus.Publish(engine.DashReadyEvent{})
	}
}

// tickDashCooldown counts the cooldown down every tick, active or not.
// Availability returns exactly when the remaining time reaches zero.
func (c *Controller) tickDashCooldown(dtMs float64) {
	s := &c.state
	if s.Dash.CooldownRemainingMs <= 0 {
		return
	}

	s.Dash.CooldownRemainingMs -= dtMs
	if s.Dash.CooldownRemainingMs <= 0 {
		s.Dash.CooldownRemainingMs = 0
		if !s.Dash.Active {
			s.Dash.Available = true
			c.bus.Publish(engine.DashReadyEvent{})
		}
	}
}
