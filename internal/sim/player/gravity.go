package player

import "github.com/velocitylab/gravity-runner/internal/engine"

// toggleGravity flips the gravity direction if the toggle is off cooldown.
func (c *Controller) toggleGravity() {
	s := &c.state
	if !s.GravityToggle.CanToggle() {
		return
	}

	s.GravityInverted = !s.GravityInverted
	s.GravityToggle.CooldownRemainingMs = c.cfg.Gravity.CooldownMs
	s.OnGround = false // falling toward the other surface now
	s.IsJumping = false

	c.bus.Publish(engine.GravityToggledEvent{Inverted: s.GravityInverted})
}

// tickGravityCooldown counts the toggle cooldown down, clamped at zero.
func (c *Controller) tickGravityCooldown(dtMs float64) {
	s := &c.state
	if s.GravityToggle.CooldownRemainingMs <= 0 {
		return
	}
	s.GravityToggle.CooldownRemainingMs -= dtMs
	if s.GravityToggle.CooldownRemainingMs < 0 {
		s.GravityToggle.CooldownRemainingMs = 0
	}
}
