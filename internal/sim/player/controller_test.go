package player

import (
	"testing"

	"github.com/velocitylab/gravity-runner/internal/config"
	"github.com/velocitylab/gravity-runner/internal/core"
	"github.com/velocitylab/gravity-runner/internal/engine"
	"github.com/velocitylab/gravity-runner/internal/sim/world"
)

// stubCollider is a CollisionQuerier with a scripted answer.
type stubCollider struct {
	hit      bool
	obstacle world.Obstacle
}

func (s *stubCollider) QueryCollision(core.Box) (world.Obstacle, bool) {
	return s.obstacle, s.hit
}

func newTestController() (*engine.Bus, *Controller, *stubCollider) {
	bus := engine.NewBus(nil)
	collider := &stubCollider{}
	c := NewController(bus, config.DefaultRunnerConfig(), collider)
	if err := c.Init(); err != nil {
		panic(err)
	}
	c.active = true
	return bus, c, collider
}

func TestResetSpawnsGroundedWithFullAbilities(t *testing.T) {
	_, c, _ := newTestController()

	s := c.Snapshot()
	if !s.OnGround {
		t.Error("player should spawn on the ground")
	}
	if !s.Alive {
		t.Error("player should spawn alive")
	}
	if s.JumpsLeft != c.cfg.Jump.MaxJumps {
		t.Errorf("expected %d jumps, got %d", c.cfg.Jump.MaxJumps, s.JumpsLeft)
	}
	if !s.Dash.Available {
		t.Error("dash should be available at spawn")
	}
	if s.GravityInverted {
		t.Error("gravity should start normal")
	}

	groundY := c.cfg.World.ViewportHeight - c.cfg.World.GroundHeight
	if s.Position.Y != groundY-s.Height {
		t.Errorf("spawn y = %v, want %v", s.Position.Y, groundY-s.Height)
	}
}

func TestJumpChainConsumesJumpsInOrder(t *testing.T) {
	bus, c, _ := newTestController()

	var jumps []int
	bus.Subscribe(engine.TopicPlayerJumped, func(ev engine.Event) {
		jumps = append(jumps, ev.(engine.PlayerJumpedEvent).JumpsLeft)
	}, nil)

	// Grounded jump.
	c.jump()
	if c.state.JumpsLeft != 1 {
		t.Errorf("after ground jump JumpsLeft = %d, want 1", c.state.JumpsLeft)
	}
	if c.state.Velocity.Y != -c.cfg.Jump.Force {
		t.Errorf("ground jump velocity = %v, want %v", c.state.Velocity.Y, -c.cfg.Jump.Force)
	}

	// Air jump uses the weaker force.
	c.jump()
	if c.state.JumpsLeft != 0 {
		t.Errorf("after air jump JumpsLeft = %d, want 0", c.state.JumpsLeft)
	}
	if c.state.Velocity.Y != -c.cfg.Jump.DoubleJumpForce {
		t.Errorf("air jump velocity = %v, want %v", c.state.Velocity.Y, -c.cfg.Jump.DoubleJumpForce)
	}

	if len(jumps) != 2 || jumps[0] != 1 || jumps[1] != 0 {
		t.Errorf("jump events carried wrong counts: %v", jumps)
	}
}

func TestExhaustedJumpOnlyArmsBuffer(t *testing.T) {
	bus, c, _ := newTestController()

	events := 0
	bus.Subscribe(engine.TopicPlayerJumped, func(engine.Event) { events++ }, nil)

	c.state.OnGround = false
	c.state.CoyoteRemainingMs = 0
	c.state.JumpsLeft = 0
	before := c.state
	before.BufferRemainingMs = c.cfg.Jump.BufferTimeMs

	c.jump()

	// Everything but the buffer must be untouched.
	if c.state != before {
		t.Errorf("ineligible jump mutated state beyond the buffer:\n got %+v\nwant %+v", c.state, before)
	}
	if events != 0 {
		t.Errorf("ineligible jump published %d events", events)
	}

	// Repeating the press is idempotent.
	c.jump()
	if c.state != before {
		t.Error("repeated ineligible jump is not idempotent")
	}
}

func TestCoyoteJumpUsesFullForce(t *testing.T) {
	_, c, _ := newTestController()

	c.state.OnGround = false
	c.state.CoyoteRemainingMs = 50
	c.state.JumpsLeft = c.cfg.Jump.MaxJumps

	c.jump()

	if c.state.Velocity.Y != -c.cfg.Jump.Force {
		t.Errorf("coyote jump should use full force, got %v", c.state.Velocity.Y)
	}
	if c.state.CoyoteRemainingMs != 0 {
		t.Error("jumping should close the coyote window")
	}
	if c.state.JumpsLeft != c.cfg.Jump.MaxJumps-1 {
		t.Errorf("coyote jump consumed wrong count: %d", c.state.JumpsLeft)
	}
}

func TestWalkingOffEdgeOpensCoyoteWindow(t *testing.T) {
	_, c, _ := newTestController()

	// Lift the player off the ground without jumping.
	c.state.Position.Y -= 5
	c.resolveBounds()

	if c.state.OnGround {
		t.Fatal("player should be airborne")
	}
	if c.state.CoyoteRemainingMs != c.cfg.Jump.CoyoteTimeMs {
		t.Errorf("coyote window = %v, want %v", c.state.CoyoteRemainingMs, c.cfg.Jump.CoyoteTimeMs)
	}
}

func TestBufferedJumpFiresOnLanding(t *testing.T) {
	_, c, _ := newTestController()

	c.state.OnGround = false
	c.state.JumpsLeft = 0
	c.jump() // buffered

	if c.state.BufferRemainingMs != c.cfg.Jump.BufferTimeMs {
		t.Fatalf("buffer not armed: %v", c.state.BufferRemainingMs)
	}

	c.land()

	if c.state.Velocity.Y != -c.cfg.Jump.Force {
		t.Errorf("buffered jump should replay on landing, velocity = %v", c.state.Velocity.Y)
	}
	if c.state.JumpsLeft != c.cfg.Jump.MaxJumps-1 {
		t.Errorf("buffered jump consumed wrong count: %d", c.state.JumpsLeft)
	}
	if c.state.BufferRemainingMs != 0 {
		t.Error("buffer should clear after replay")
	}
}

func TestLandingRestoresJumpChain(t *testing.T) {
	_, c, _ := newTestController()

	c.jump()
	c.jump()
	if c.state.JumpsLeft != 0 {
		t.Fatalf("expected exhausted chain, got %d", c.state.JumpsLeft)
	}

	c.land()

	if c.state.JumpsLeft != c.cfg.Jump.MaxJumps {
		t.Errorf("landing should restore %d jumps, got %d", c.cfg.Jump.MaxJumps, c.state.JumpsLeft)
	}
	if c.state.IsJumping {
		t.Error("landing should clear the jumping flag")
	}
}

func TestReleasingJumpHalvesUpwardVelocity(t *testing.T) {
	_, c, _ := newTestController()

	c.jump()
	v := c.state.Velocity.Y
	c.holdJump(false, 16)

	if c.state.Velocity.Y != v*0.5 {
		t.Errorf("early release should halve velocity: got %v, want %v", c.state.Velocity.Y, v*0.5)
	}
	if c.state.IsJumping {
		t.Error("release should end the jump")
	}

	// A second release is inert.
	v = c.state.Velocity.Y
	c.holdJump(false, 16)
	if c.state.Velocity.Y != v {
		t.Error("ending an already-ended jump must not change velocity")
	}
}

func TestHoldingJumpExtendsHeightUpToWindow(t *testing.T) {
	_, c, _ := newTestController()

	c.jump()
	v := c.state.Velocity.Y

	c.holdJump(true, 16)
	if c.state.Velocity.Y >= v {
		t.Error("holding jump should add upward velocity")
	}

	// Exceed the hold window; the jump must end on its own.
	c.state.JumpElapsedMs = c.cfg.Jump.MaxJumpTimeMs
	c.holdJump(true, 16)
	if c.state.IsJumping {
		t.Error("jump should end once the hold window closes")
	}
}

func TestDashLifecycle(t *testing.T) {
	bus, c, _ := newTestController()

	ready := 0
	bus.Subscribe(engine.TopicDashReady, func(engine.Event) { ready++ }, nil)

	var dashed *engine.PlayerDashedEvent
	bus.Subscribe(engine.TopicPlayerDashed, func(ev engine.Event) {
		e := ev.(engine.PlayerDashedEvent)
		dashed = &e
	}, nil)

	c.dash(core.InputSnapshot{MoveRight: true})

	if !c.state.Dash.Active {
		t.Fatal("dash should be active")
	}
	if c.state.Dash.Available {
		t.Error("dash should not be available while active")
	}
	if c.state.Velocity.X != c.cfg.Dash.Impulse {
		t.Errorf("dash impulse = %v, want %v", c.state.Velocity.X, c.cfg.Dash.Impulse)
	}
	if c.state.Dash.CooldownRemainingMs != c.cfg.Dash.CooldownMs {
		t.Errorf("cooldown = %v, want %v", c.state.Dash.CooldownRemainingMs, c.cfg.Dash.CooldownMs)
	}
	if dashed == nil || dashed.Direction.X != 1 {
		t.Errorf("dash event wrong: %+v", dashed)
	}

	// A second dash during the active window is refused.
	c.dash(core.InputSnapshot{MoveRight: true})
	if c.state.Dash.ElapsedMs != 0 {
		t.Error("second dash should not restart the active one")
	}

	// Drive the dash to its end: default duration 200ms.
	for i := 0; i < 4; i++ {
		c.tickDashCooldown(50)
		c.tickDashActive(50)
	}
	if c.state.Dash.Active {
		t.Error("dash should end at the configured duration")
	}
	if c.state.Dash.Available {
		t.Error("dash should stay unavailable until the cooldown expires")
	}

	// Default cooldown is 1000ms; 200 elapsed so far.
	for i := 0; i < 16; i++ {
		c.tickDashCooldown(50)
	}
	if !c.state.Dash.Available {
		t.Error("dash should return when the cooldown reaches zero")
	}
	if ready != 1 {
		t.Errorf("expected exactly 1 dash-ready event, got %d", ready)
	}
}

func TestDashAvailabilityAtCooldownBoundary(t *testing.T) {
	_, c, _ := newTestController()

	c.state.Dash.Available = false
	c.state.Dash.CooldownRemainingMs = 0.0001

	if c.state.CanDash() {
		t.Error("dash must be unavailable with any cooldown remaining")
	}

	c.tickDashCooldown(0.0001)

	if c.state.Dash.CooldownRemainingMs != 0 {
		t.Errorf("cooldown should clamp to 0, got %v", c.state.Dash.CooldownRemainingMs)
	}
	if !c.state.CanDash() {
		t.Error("dash must be available the moment the cooldown reaches zero")
	}
}

func TestDashDirectionFallsBackToVelocity(t *testing.T) {
	_, c, _ := newTestController()

	c.state.Velocity.X = -120
	c.dash(core.InputSnapshot{})

	if c.state.Dash.Direction.X != -1 {
		t.Errorf("dash should follow velocity sign, got %v", c.state.Dash.Direction.X)
	}
}

func TestDashSuppressesGravity(t *testing.T) {
	_, c, _ := newTestController()

	c.state.OnGround = false
	c.dash(core.InputSnapshot{MoveRight: true})
	c.integrate(16)

	if c.state.Velocity.Y != 0 {
		t.Errorf("vertical velocity during dash = %v, want 0", c.state.Velocity.Y)
	}
}

func TestGravityToggleFlipsAndCoolsDown(t *testing.T) {
	bus, c, _ := newTestController()

	var toggles []bool
	bus.Subscribe(engine.TopicGravityToggled, func(ev engine.Event) {
		toggles = append(toggles, ev.(engine.GravityToggledEvent).Inverted)
	}, nil)

	c.toggleGravity()

	if !c.state.GravityInverted {
		t.Fatal("gravity should be inverted")
	}
	if c.state.OnGround {
		t.Error("toggling should unstick the player from the surface")
	}
	if c.state.GravityToggle.CooldownRemainingMs != c.cfg.Gravity.CooldownMs {
		t.Errorf("cooldown = %v, want %v", c.state.GravityToggle.CooldownRemainingMs, c.cfg.Gravity.CooldownMs)
	}

	// Blocked while cooling down.
	c.toggleGravity()
	if !c.state.GravityInverted {
		t.Error("toggle during cooldown must be refused")
	}

	c.tickGravityCooldown(c.cfg.Gravity.CooldownMs)
	c.toggleGravity()
	if c.state.GravityInverted {
		t.Error("second toggle should restore normal gravity")
	}

	if len(toggles) != 2 || !toggles[0] || toggles[1] {
		t.Errorf("toggle events wrong: %v", toggles)
	}
}

func TestInvertedGravityLandsOnCeiling(t *testing.T) {
	_, c, _ := newTestController()

	c.toggleGravity()

	// Fall upward until resting on the ceiling strip.
	for i := 0; i < 120; i++ {
		c.integrate(16)
		c.resolveBounds()
	}

	if !c.state.OnGround {
		t.Fatal("player should land on the ceiling under inverted gravity")
	}
	if c.state.Position.Y != c.cfg.World.GroundHeight {
		t.Errorf("resting y = %v, want ceiling at %v", c.state.Position.Y, c.cfg.World.GroundHeight)
	}
	if c.state.JumpsLeft != c.cfg.Jump.MaxJumps {
		t.Error("ceiling landing should restore the jump chain")
	}
}

func TestInvertedJumpPushesDownward(t *testing.T) {
	_, c, _ := newTestController()

	c.toggleGravity()
	c.state.OnGround = true // resting on the ceiling
	c.jump()

	if c.state.Velocity.Y != c.cfg.Jump.Force {
		t.Errorf("inverted jump velocity = %v, want %v", c.state.Velocity.Y, c.cfg.Jump.Force)
	}
}

func TestCollisionKillsAndPublishes(t *testing.T) {
	bus, c, collider := newTestController()

	var collisions []engine.CollisionEvent
	bus.Subscribe(engine.TopicCollision, func(ev engine.Event) {
		collisions = append(collisions, ev.(engine.CollisionEvent))
	}, nil)

	collider.hit = true
	collider.obstacle = world.Obstacle{
		Box:  core.NewBox(100, 400, 30, 40),
		Kind: world.KindGround,
	}

	c.Update(16)

	if c.state.Alive {
		t.Fatal("collision should kill the player")
	}
	if len(collisions) != 1 {
		t.Fatalf("expected 1 collision event, got %d", len(collisions))
	}
	if collisions[0].Kind != "ground" {
		t.Errorf("collision kind = %q, want ground", collisions[0].Kind)
	}
}

func TestDashInvulnerabilityIgnoresCollisions(t *testing.T) {
	_, c, collider := newTestController()

	c.dash(core.InputSnapshot{MoveRight: true})
	collider.hit = true

	c.Update(16) // well inside the invulnerability window

	if !c.state.Alive {
		t.Error("player should survive collisions while dash-invulnerable")
	}

	// Let the window lapse; next hit is fatal.
	c.simTimeMs += c.cfg.Dash.InvulnerabilityMs
	c.Update(16)
	if c.state.Alive {
		t.Error("player should die once invulnerability expires")
	}
}

func TestDeathFreezesPhysics(t *testing.T) {
	_, c, collider := newTestController()

	collider.hit = true
	c.Update(16)
	if c.state.Alive {
		t.Fatal("setup: player should be dead")
	}

	pos := c.state.Position
	for i := 0; i < 10; i++ {
		c.Update(16)
	}
	if c.state.Position != pos {
		t.Error("dead player must not move")
	}
}

func TestResetRoundTrip(t *testing.T) {
	_, c, _ := newTestController()

	fresh := c.Snapshot()

	// A messy mid-run state.
	c.jump()
	c.dash(core.InputSnapshot{MoveRight: true})
	c.toggleGravity()
	c.Update(16)
	c.state.Alive = false

	c.Reset()

	if c.Snapshot() != fresh {
		t.Errorf("reset state differs from spawn state:\n got %+v\nwant %+v", c.Snapshot(), fresh)
	}
}

func TestInactiveControllerIgnoresTicks(t *testing.T) {
	_, c, _ := newTestController()

	c.active = false
	pos := c.state.Position
	c.Update(16)

	if c.state.Position != pos {
		t.Error("controller must not simulate outside Playing")
	}
}

func TestPauseClearsHeldInput(t *testing.T) {
	bus, c, _ := newTestController()

	bus.Publish(engine.ModeChangedEvent{From: engine.ModeMenu, To: engine.ModePlaying})
	bus.Publish(engine.IntentStartedEvent{Intent: core.IntentMoveRight})
	bus.Publish(engine.ModeChangedEvent{From: engine.ModePlaying, To: engine.ModePaused})
	bus.Publish(engine.ModeChangedEvent{From: engine.ModePaused, To: engine.ModePlaying})

	c.Update(16)

	if c.state.Velocity.X != 0 {
		t.Errorf("held input leaked across pause: vx = %v", c.state.Velocity.X)
	}
}

func TestIntentsDriveHorizontalMovement(t *testing.T) {
	bus, c, _ := newTestController()

	bus.Publish(engine.ModeChangedEvent{From: engine.ModeMenu, To: engine.ModePlaying})
	bus.Publish(engine.IntentStartedEvent{Intent: core.IntentMoveRight})
	c.Update(16)

	if c.state.Velocity.X != c.cfg.Physics.MoveSpeed {
		t.Errorf("vx = %v, want %v", c.state.Velocity.X, c.cfg.Physics.MoveSpeed)
	}

	bus.Publish(engine.IntentEndedEvent{Intent: core.IntentMoveRight})
	c.Update(16)

	if c.state.Velocity.X != 0 {
		t.Errorf("vx after release = %v, want 0", c.state.Velocity.X)
	}
}

func TestViewportClampsHorizontalPosition(t *testing.T) {
	_, c, _ := newTestController()

	c.state.Position.X = -50
	c.resolveBounds()
	if c.state.Position.X != 0 {
		t.Errorf("left clamp failed: %v", c.state.Position.X)
	}

	c.state.Position.X = c.cfg.World.ViewportWidth + 50
	c.resolveBounds()
	want := c.cfg.World.ViewportWidth - c.state.Width
	if c.state.Position.X != want {
		t.Errorf("right clamp = %v, want %v", c.state.Position.X, want)
	}
}
