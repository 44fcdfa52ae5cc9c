package player

import "github.com/velocitylab/gravity-runner/internal/engine"

// tickJumpWindows counts down the coyote and jump-buffer windows.
func (c *Controller) tickJumpWindows(dtMs float64) {
	s := &c.state
	if s.CoyoteRemainingMs > 0 {
		s.CoyoteRemainingMs -= dtMs
		if s.CoyoteRemainingMs < 0 {
			s.CoyoteRemainingMs = 0
		}
	}
	if s.BufferRemainingMs > 0 {
		s.BufferRemainingMs -= dtMs
		if s.BufferRemainingMs < 0 {
			s.BufferRemainingMs = 0
		}
	}
}

// jump attempts to start a jump. A press that cannot jump yet is remembered
// in the jump buffer and replayed on landing; an ineligible press with no
// buffer slot mutates nothing.
func (c *Controller) jump() {
	s := &c.state
	if !s.CanJump() {
		// Airborne with no jumps left: buffer the press for landing.
		s.BufferRemainingMs = c.cfg.Jump.BufferTimeMs
		return
	}

	force := c.cfg.Jump.Force
	grounded := s.OnGround || s.CoyoteRemainingMs > 0
	if !grounded {
		// Air jump partway through a chain.
		force = c.cfg.Jump.DoubleJumpForce
	}

	if s.JumpsLeft > 0 {
		s.JumpsLeft--
	}
	s.OnGround = false
	s.CoyoteRemainingMs = 0
	s.IsJumping = true
	s.JumpElapsedMs = 0
	s.Velocity.Y = -c.gravityDir() * force

	c.bus.Publish(engine.PlayerJumpedEvent{JumpsLeft: s.JumpsLeft})
}

// holdJump applies the variable-height jump: while the button stays held and
// the jump window is open, a reduced continuous force counters gravity.
// Releasing the button or exceeding the window ends the jump.
func (c *Controller) holdJump(held bool, dtMs float64) {
	s := &c.state
	if !s.IsJumping {
		return
	}

	if held && s.JumpElapsedMs < c.cfg.Jump.MaxJumpTimeMs {
		s.JumpElapsedMs += dtMs
		s.Velocity.Y -= c.gravityDir() * c.cfg.Jump.HoldForce * (dtMs / 1000.0)
		return
	}
	c.endJump()
}

// endJump closes the jump window and halves the residual upward velocity so
// a released tap arcs short.
func (c *Controller) endJump() {
	s := &c.state
	if !s.IsJumping {
		return
	}
	s.IsJumping = false

	rising := s.Velocity.Y*c.gravityDir() < 0
	if rising {
		s.Velocity.Y *= 0.5
	}
}

// land is called on the tick the player touches back down: the jump chain
// resets and any buffered press fires immediately.
func (c *Controller) land() {
	c.resetJumps()
	if c.state.BufferRemainingMs > 0 {
		c.state.BufferRemainingMs = 0
		c.jump()
	}
}

// resetJumps restores the full jump chain.
func (c *Controller) resetJumps() {
	c.state.JumpsLeft = c.cfg.Jump.MaxJumps
	c.state.IsJumping = false
	c.state.JumpElapsedMs = 0
}
