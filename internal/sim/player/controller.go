package player

import (
	"github.com/velocitylab/gravity-runner/internal/config"
	"github.com/velocitylab/gravity-runner/internal/core"
	"github.com/velocitylab/gravity-runner/internal/engine"
	"github.com/velocitylab/gravity-runner/internal/sim/world"
)

// CollisionQuerier is the obstacle field's collision contract: does this
// viewport-space box intersect any obstacle. Injected at construction so
// the controller never holds a module reference.
type CollisionQuerier interface {
	QueryCollision(box core.Box) (world.Obstacle, bool)
}

// intents lists the input intents the controller consumes off the bus.
var intents = []core.Intent{
	core.IntentMoveLeft,
	core.IntentMoveRight,
	core.IntentJump,
	core.IntentDash,
	core.IntentGravity,
}

// Controller advances the player once per fixed tick. It consumes input
// intents published on the bus, integrates physics, runs the ability state
// machines and asks the obstacle field for collisions. All player state
// mutation happens here.
type Controller struct {
	bus      *engine.Bus
	cfg      config.RunnerConfig
	collider CollisionQuerier
	tracker  *core.InputTracker

	state     State
	active    bool    // ticking only while the session is in Playing
	simTimeMs float64 // simulation clock, survives pauses
}

// NewController creates a player controller wired to the bus and the
// collision query.
func NewController(bus *engine.Bus, cfg config.RunnerConfig, collider CollisionQuerier) *Controller {
	c := &Controller{
		bus:      bus,
		cfg:      cfg,
		collider: collider,
		tracker:  core.NewInputTracker(),
	}
	c.Reset()
	return c
}

// Init implements engine.Module: subscribes to input intents and mode
// changes.
func (c *Controller) Init() error {
	for _, intent := range intents {
		in := intent
		c.bus.Subscribe(engine.IntentStartTopic(in), func(engine.Event) {
			c.tracker.Start(in)
		}, c)
		c.bus.Subscribe(engine.IntentEndTopic(in), func(engine.Event) {
			c.tracker.End(in)
		}, c)
	}

	c.bus.Subscribe(engine.TopicModeChanged, func(ev engine.Event) {
		if mc, ok := ev.(engine.ModeChangedEvent); ok {
			c.active = mc.To == engine.ModePlaying
			if mc.To == engine.ModePaused {
				c.tracker.Reset() // held keys would leak across the pause
			}
		}
	}, c)
	return nil
}

// Reset restores the player to its initial spawn state. Called at session
// start and on every restart; the controller is reused across runs.
func (c *Controller) Reset() {
	groundY := c.cfg.World.ViewportHeight - c.cfg.World.GroundHeight
	c.state = State{
		Position: core.Vec2{
			X: c.cfg.Player.SpawnX,
			Y: groundY - c.cfg.Player.Height,
		},
		Width:     c.cfg.Player.Width,
		Height:    c.cfg.Player.Height,
		OnGround:  true,
		Alive:     true,
		JumpsLeft: c.cfg.Jump.MaxJumps,
		Dash:      DashState{Available: true},
	}
	c.tracker.Reset()
}

// Update implements engine.Module: one fixed simulation tick.
func (c *Controller) Update(dtMs float64) error {
	if !c.active {
		return nil
	}
	c.simTimeMs += dtMs

	in := c.tracker.Snapshot()
	if !c.state.Alive {
		return nil // death freezes physics until an external reset
	}

	// Cooldowns run every tick, independent of what the player is doing.
	c.tickDashCooldown(dtMs)
	c.tickGravityCooldown(dtMs)
	c.tickJumpWindows(dtMs)

	c.handleInput(in, dtMs)
	c.integrate(dtMs)
	c.resolveBounds()
	c.checkCollision()

	c.bus.Publish(engine.PlayerPositionEvent{
		Position: c.state.Position,
		Velocity: c.state.Velocity,
		OnGround: c.state.OnGround,
	})
	return nil
}

// Render implements engine.Module; the player is simulation-only.
func (c *Controller) Render(*core.Screen) error { return nil }

// Destroy implements engine.Module.
func (c *Controller) Destroy() error {
	c.bus.UnsubscribeAll(c)
	return nil
}

// handleInput applies the tick's input snapshot to the ability machines and
// horizontal movement.
func (c *Controller) handleInput(in core.InputSnapshot, dtMs float64) {
	if in.GravityPressed {
		c.toggleGravity()
	}
	if in.DashPressed {
		c.dash(in)
	}
	if in.JumpPressed {
		c.jump()
	}
	c.holdJump(in.JumpHeld, dtMs)

	// Dash owns the velocity while active; plain movement otherwise.
	if !c.state.Dash.Active {
		vx := 0.0
		if in.MoveLeft {
			vx -= c.cfg.Physics.MoveSpeed
		}
		if in.MoveRight {
			vx += c.cfg.Physics.MoveSpeed
		}
		c.state.Velocity.X = vx
	}
}

// gravityDir returns +1 when gravity pulls down, -1 when inverted.
func (c *Controller) gravityDir() float64 {
	if c.state.GravityInverted {
		return -1
	}
	return 1
}

// integrate performs one semi-implicit Euler step: forces update velocity,
// then velocity updates position.
func (c *Controller) integrate(dtMs float64) {
	dt := dtMs / 1000.0

	c.state.Velocity.Y += c.gravityDir() * c.cfg.Physics.Gravity * dt
	c.tickDashActive(dtMs)

	maxFall := c.cfg.Physics.MaxFallSpeed
	c.state.Velocity.Y = core.ClampF(c.state.Velocity.Y, -maxFall, maxFall)

	c.state.Position = c.state.Position.Add(c.state.Velocity.Scale(dt))
}

// resolveBounds clamps the player into the viewport and resolves landing on
// the ground or, with inverted gravity, the ceiling.
func (c *Controller) resolveBounds() {
	s := &c.state
	s.Position.X = core.ClampF(s.Position.X, 0, c.cfg.World.ViewportWidth-s.Width)

	groundY := c.cfg.World.ViewportHeight - c.cfg.World.GroundHeight
	ceilingY := c.cfg.World.GroundHeight

	wasOnGround := s.OnGround
	s.OnGround = false

	if !s.GravityInverted {
		if s.Position.Y+s.Height >= groundY {
			s.Position.Y = groundY - s.Height
			s.Velocity.Y = 0
			s.OnGround = true
		}
		// Drifting into the ceiling just stops upward motion.
		if s.Position.Y < ceilingY {
			s.Position.Y = ceilingY
			if s.Velocity.Y < 0 {
				s.Velocity.Y = 0
			}
		}
	} else {
		if s.Position.Y <= ceilingY {
			s.Position.Y = ceilingY
			s.Velocity.Y = 0
			s.OnGround = true
		}
		if s.Position.Y+s.Height > groundY {
			s.Position.Y = groundY - s.Height
			if s.Velocity.Y > 0 {
				s.Velocity.Y = 0
			}
		}
	}

	if s.OnGround && !wasOnGround {
		c.land()
	}
	if !s.OnGround && wasOnGround && !s.IsJumping {
		// Walked off an edge: open the coyote window.
		s.CoyoteRemainingMs = c.cfg.Jump.CoyoteTimeMs
	}
}

// checkCollision asks the obstacle field whether the player's box hits
// anything. A hit while vulnerable kills the player and freezes physics.
func (c *Controller) checkCollision() {
	obstacle, hit := c.collider.QueryCollision(c.state.Box())
	if !hit {
		return
	}
	if c.simTimeMs < c.state.InvulnerableUntilMs {
		return
	}

	c.state.Alive = false
	c.bus.Publish(engine.CollisionEvent{
		Obstacle: obstacle.Box,
		Kind:     obstacle.Kind.String(),
	})
}

// SimTimeMs returns the controller's simulation clock.
func (c *Controller) SimTimeMs() float64 { return c.simTimeMs }

// Snapshot returns a copy of the player state for presentation.
func (c *Controller) Snapshot() State { return c.state }
