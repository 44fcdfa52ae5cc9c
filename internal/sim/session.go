// Package sim assembles the simulation core: one session owns one event
// bus, one scheduler, one mode controller, the player controller and the
// obstacle field. There are no package-level singletons; everything is
// constructed here and passed by reference.
package sim

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/velocitylab/gravity-runner/internal/config"
	"github.com/velocitylab/gravity-runner/internal/core"
	"github.com/velocitylab/gravity-runner/internal/engine"
	"github.com/velocitylab/gravity-runner/internal/sim/player"
	"github.com/velocitylab/gravity-runner/internal/sim/world"
)

// Module priorities: the world scrolls and spawns before the player moves
// and collides, and presentation modules run after both.
const (
	PriorityWorld  = 100
	PriorityPlayer = 90

	// PriorityPresentation is where hosts should register render modules.
	PriorityPresentation = 10
)

// scoreDivisor converts raw distance pixels into the displayed score.
const scoreDivisor = 10

// Session is the top-level owner of a single game session. It survives
// across runs: restarting resets the player and the field but reuses every
// component.
type Session struct {
	bus       *engine.Bus
	scheduler *engine.Scheduler
	modes     *engine.ModeController
	player    *player.Controller
	field     *world.Field

	cfg      config.RunnerConfig
	runtime  core.RuntimeConfig
	logger   *log.Logger
	runStart time.Time
}

// NewSession constructs and wires a full session from configuration.
func NewSession(cfg config.RunnerConfig, rt core.RuntimeConfig, logger *log.Logger) (*Session, error) {
	bus := engine.NewBus(logger)
	modes := engine.NewModeController(bus, logger)
	scheduler := engine.NewScheduler(bus, modes, logger, rt.TickIntervalMs())
	if cfg.Engine.MaxFrameMs > 0 {
		scheduler.SetMaxFrameMs(cfg.Engine.MaxFrameMs)
	}

	seed := rt.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	field := world.NewField(bus, cfg.World, seed)
	playerCtl := player.NewController(bus, cfg, field)

	s := &Session{
		bus:       bus,
		scheduler: scheduler,
		modes:     modes,
		player:    playerCtl,
		field:     field,
		cfg:       cfg,
		runtime:   rt,
		logger:    logger,
	}

	if err := scheduler.Register("world", field, PriorityWorld); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	if err := scheduler.Register("player", playerCtl, PriorityPlayer); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	s.wireControls()
	return s, nil
}

// wireControls subscribes the session to the control surface and to the
// death signal. The session is the only place that translates control
// events into mode transitions.
func (s *Session) wireControls() {
	s.bus.Subscribe(engine.TopicGameStart, func(engine.Event) {
		if s.modes.Current() == engine.ModeMenu {
			s.beginRun()
		}
	}, s)

	s.bus.Subscribe(engine.TopicGameRestart, func(engine.Event) {
		if s.modes.Current() == engine.ModeGameOver {
			s.beginRun()
		}
	}, s)

	s.bus.Subscribe(engine.TopicGamePause, func(engine.Event) {
		if s.modes.Current() == engine.ModePlaying {
			s.modes.RequestTransition(engine.ModePaused, nil)
		}
	}, s)

	s.bus.Subscribe(engine.TopicGameResume, func(engine.Event) {
		if s.modes.Current() == engine.ModePaused {
			s.modes.RequestTransition(engine.ModePlaying, nil)
		}
	}, s)

	s.bus.Subscribe(engine.TopicGameStop, func(engine.Event) {
		s.modes.RequestTransition(engine.ModeMenu, nil)
	}, s)

	s.bus.Subscribe(engine.TopicStateRequest, func(ev engine.Event) {
		if req, ok := ev.(engine.StateRequestEvent); ok {
			s.modes.RequestTransition(req.To, req.Payload)
		}
	}, s)

	// The player publishes a collision; the session turns it into the
	// end of the run.
	s.bus.Subscribe(engine.TopicCollision, func(engine.Event) {
		if s.modes.Current() != engine.ModePlaying {
			return
		}
		s.modes.RequestTransition(engine.ModeGameOver, nil)
		s.bus.Publish(engine.RunEndedEvent{
			Distance:   s.field.TotalDistance(),
			Score:      s.Score(),
			Difficulty: s.field.Difficulty(),
			Duration:   time.Since(s.runStart),
		})
	}, s)
}

// beginRun resets the simulation state and enters Playing.
func (s *Session) beginRun() {
	s.field.Reset()
	s.player.Reset()
	s.runStart = time.Now()
	s.modes.RequestTransition(engine.ModePlaying, nil)
}

// Start initializes all modules and moves from Loading to Menu. An
// initialization failure is fatal: the session cannot begin.
func (s *Session) Start() error {
	if err := s.scheduler.Start(); err != nil {
		return fmt.Errorf("sim: session start: %w", err)
	}
	s.modes.RequestTransition(engine.ModeMenu, nil)
	return nil
}

// Step advances the session by one host frame.
func (s *Session) Step(now time.Time, screen *core.Screen) {
	s.scheduler.Step(now, screen)
}

// Stop drains all modules and ends the session.
func (s *Session) Stop() {
	s.scheduler.Stop()
	s.bus.UnsubscribeAll(s)
}

// Score returns the current run's score.
func (s *Session) Score() int {
	return int(s.field.TotalDistance()) / scoreDivisor
}

// Bus exposes the session's event bus for hosts and input adapters.
func (s *Session) Bus() *engine.Bus { return s.bus }

// Scheduler exposes the module scheduler for host registration.
func (s *Session) Scheduler() *engine.Scheduler { return s.scheduler }

// Modes exposes the mode controller.
func (s *Session) Modes() *engine.ModeController { return s.modes }

// Player returns a copy of the current player state.
func (s *Session) Player() player.State { return s.player.Snapshot() }

// World returns a copy of the current field state.
func (s *Session) World() world.Snapshot { return s.field.Snapshot() }

// Config returns the gameplay configuration in use.
func (s *Session) Config() config.RunnerConfig { return s.cfg }

// Runtime returns the runtime configuration in use.
func (s *Session) Runtime() core.RuntimeConfig { return s.runtime }
