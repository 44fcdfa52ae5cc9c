package engine

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/velocitylab/gravity-runner/internal/core"
)

// Module is the unit of work the scheduler drives. Each registered module
// is initialized once, updated and rendered every tick in priority order,
// and destroyed when the scheduler stops.
type Module interface {
	// Init prepares the module. An error before the loop starts is fatal;
	// after the loop starts the module is disabled instead.
	Init() error

	// Update advances the module by dt milliseconds of simulated time.
	Update(dtMs float64) error

	// Render draws the module's presentation into the shared screen buffer.
	// Simulation-only modules return nil without touching the screen.
	Render(dst *core.Screen) error

	// Destroy releases module resources. Called in reverse priority order.
	Destroy() error
}

// Default scheduler tuning.
const (
	// DefaultMaxFrameMs clamps dt to avoid the spiral of death after a
	// host stall.
	DefaultMaxFrameMs = 50.0

	// perfWindowSize is the number of frames in the rolling perf sample.
	perfWindowSize = 60

	// perfPublishIntervalMs spaces out performance-summary events.
	perfPublishIntervalMs = 1000.0
)

// ModuleStatus is the externally visible state of one registered module.
type ModuleStatus struct {
	Name             string
	Priority         int
	Enabled          bool
	Initialized      bool
	LastUpdateTimeMs float64
	LastRenderTimeMs float64
}

// record tracks one registered module.
type record struct {
	name         string
	module       Module
	priority     int
	enabled      bool
	initialized  bool
	lastUpdateMs float64
	lastRenderMs float64
}

// perfSample is one frame's timing measurement.
type perfSample struct {
	frameMs  float64
	updateMs float64
	renderMs float64
}

// Scheduler owns the frame cadence and module lifecycle. The host drives it
// through Step using its own timing primitive; the scheduler computes and
// clamps dt, runs the mode controller and the module passes, and publishes
// performance telemetry. A module that fails during update or render is
// disabled for the remainder of the session; the loop never stops for a
// module fault.
type Scheduler struct {
	bus    *Bus
	modes  *ModeController
	logger *log.Logger

	records []*record
	running bool

	maxFrameMs float64
	budgetMs   float64

	lastTick    time.Time
	simTimeMs   float64
	sincePerfMs float64

	perfRing  [perfWindowSize]perfSample
	perfCount int
	perfNext  int

	degraded bool
}

// NewScheduler creates a scheduler bound to the given bus and mode
// controller. budgetMs is the nominal frame budget used by the degradation
// policy; zero selects a 60Hz budget.
func NewScheduler(bus *Bus, modes *ModeController, logger *log.Logger, budgetMs float64) *Scheduler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if budgetMs <= 0 {
		budgetMs = 1000.0 / 60.0
	}
	return &Scheduler{
		bus:        bus,
		modes:      modes,
		logger:     logger,
		maxFrameMs: DefaultMaxFrameMs,
		budgetMs:   budgetMs,
	}
}

// SetMaxFrameMs overrides the dt clamp.
func (s *Scheduler) SetMaxFrameMs(ms float64) {
	if ms > 0 {
		s.maxFrameMs = ms
	}
}

// Register adds a module under a unique name. Duplicate names are rejected.
// If the loop is already running the module is initialized immediately and
// disabled on failure; otherwise initialization is deferred to Start.
func (s *Scheduler) Register(name string, m Module, priority int) error {
	for _, r := range s.records {
		if r.name == name {
			return fmt.Errorf("engine: module %q already registered", name)
		}
	}

	rec := &record{
		name:     name,
		module:   m,
		priority: priority,
		enabled:  true,
	}
	s.records = append(s.records, rec)

	// Stable sort keeps registration order among equal priorities.
	sort.SliceStable(s.records, func(i, j int) bool {
		return s.records[i].priority > s.records[j].priority
	})

	if s.running {
		if err := s.guard(rec, PhaseInit, func() error { return m.Init() }); err == nil {
			rec.initialized = true
		}
	}
	return nil
}

// Start captures the clock and initializes all modules in priority order.
// An initialization failure before the loop runs is fatal and propagated.
func (s *Scheduler) Start() error {
	if s.running {
		return fmt.Errorf("engine: scheduler already running")
	}

	for _, r := range s.records {
		if r.initialized {
			continue
		}
		if err := r.module.Init(); err != nil {
			return fmt.Errorf("engine: module %q init: %w", r.name, err)
		}
		r.initialized = true
	}

	s.running = true
	s.lastTick = time.Now()
	return nil
}

// Running reports whether Start has been called without a matching Stop.
func (s *Scheduler) Running() bool {
	return s.running
}

// Step advances the loop by one host frame: it computes dt since the last
// step, clamps it, and runs the update and render passes.
func (s *Scheduler) Step(now time.Time, screen *core.Screen) {
	if !s.running {
		return
	}
	dtMs := float64(now.Sub(s.lastTick)) / float64(time.Millisecond)
	s.lastTick = now
	s.tick(dtMs, screen)
}

// tick runs a single simulation frame with an explicit dt. The dt clamp
// keeps a host stall from turning into a runaway catch-up loop.
func (s *Scheduler) tick(dtMs float64, screen *core.Screen) {
	if dtMs < 0 {
		dtMs = 0
	}
	if dtMs > s.maxFrameMs {
		dtMs = s.maxFrameMs
	}

	frameStart := time.Now()
	s.modes.Update(dtMs)

	var updateMs float64
	for _, r := range s.records {
		if !r.enabled || !r.initialized {
			continue
		}
		start := time.Now()
		s.guard(r, PhaseUpdate, func() error { return r.module.Update(dtMs) })
		r.lastUpdateMs = float64(time.Since(start)) / float64(time.Millisecond)
		updateMs += r.lastUpdateMs
	}

	var renderMs float64
	for _, r := range s.records {
		if !r.enabled || !r.initialized {
			continue
		}
		start := time.Now()
		s.guard(r, PhaseRender, func() error { return r.module.Render(screen) })
		r.lastRenderMs = float64(time.Since(start)) / float64(time.Millisecond)
		renderMs += r.lastRenderMs
	}

	frameMs := float64(time.Since(frameStart)) / float64(time.Millisecond)
	s.recordSample(perfSample{frameMs: frameMs, updateMs: updateMs, renderMs: renderMs})

	s.simTimeMs += dtMs
	s.sincePerfMs += dtMs
	if s.sincePerfMs >= perfPublishIntervalMs {
		s.sincePerfMs = 0
		s.publishPerf()
	}
}

// guard runs one module phase with fault isolation. A returned error or a
// panic disables the module and publishes a fault event; the loop continues.
func (s *Scheduler) guard(r *record, phase ModulePhase, fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("engine: module %q panicked in %s: %v", r.name, phase, rec)
		}
		if err != nil {
			r.enabled = false
			s.logger.Error("engine: module fault, disabling",
				"module", r.name, "phase", phase, "err", err)
			s.bus.Publish(ModuleFaultEvent{Module: r.name, Phase: phase, Err: err})
		}
	}()
	err = fn()
	return err
}

// recordSample pushes one timing sample into the rolling ring buffer.
func (s *Scheduler) recordSample(sample perfSample) {
	s.perfRing[s.perfNext] = sample
	s.perfNext = (s.perfNext + 1) % perfWindowSize
	if s.perfCount < perfWindowSize {
		s.perfCount++
	}
}

// publishPerf emits the aggregate performance summary and updates the
// degradation advisory. The scheduler never throttles simulation work
// itself; modules opt into the advisory.
func (s *Scheduler) publishPerf() {
	if s.perfCount == 0 {
		return
	}

	var frame, update, render float64
	for i := 0; i < s.perfCount; i++ {
		frame += s.perfRing[i].frameMs
		update += s.perfRing[i].updateMs
		render += s.perfRing[i].renderMs
	}
	n := float64(s.perfCount)
	avgFrame := frame / n

	fps := 0.0
	if avgFrame > 0 {
		fps = 1000.0 / avgFrame
	}

	s.bus.Publish(PerformanceEvent{
		FPS:          fps,
		UpdateTimeMs: update / n,
		RenderTimeMs: render / n,
		FrameTimeMs:  avgFrame,
	})

	sustained := s.perfCount == perfWindowSize && avgFrame > 2*s.budgetMs
	if sustained && !s.degraded {
		s.degraded = true
		s.logger.Warn("engine: sustained slow frames, advising reduced quality",
			"avg_frame_ms", avgFrame)
		s.bus.Publish(ReduceQualityEvent{Active: true, FrameTimeMs: avgFrame})
	} else if !sustained && s.degraded && avgFrame <= s.budgetMs {
		s.degraded = false
		s.bus.Publish(ReduceQualityEvent{Active: false, FrameTimeMs: avgFrame})
	}
}

// SetEnabled flips a module's enabled flag. This is the explicit operator
// action required to revive a module disabled by a fault.
func (s *Scheduler) SetEnabled(name string, enabled bool) error {
	for _, r := range s.records {
		if r.name == name {
			r.enabled = enabled
			return nil
		}
	}
	return fmt.Errorf("engine: unknown module %q", name)
}

// Status returns a snapshot of all module records in pass order.
func (s *Scheduler) Status() []ModuleStatus {
	out := make([]ModuleStatus, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, ModuleStatus{
			Name:             r.name,
			Priority:         r.priority,
			Enabled:          r.enabled,
			Initialized:      r.initialized,
			LastUpdateTimeMs: r.lastUpdateMs,
			LastRenderTimeMs: r.lastRenderMs,
		})
	}
	return out
}

// Stop drains modules in reverse priority order, invoking Destroy on each.
// Destructor failures are logged and swallowed.
func (s *Scheduler) Stop() {
	if !s.running {
		return
	}
	s.running = false

	for i := len(s.records) - 1; i >= 0; i-- {
		r := s.records[i]
		if !r.initialized {
			continue
		}
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					s.logger.Error("engine: module destroy panic",
						"module", r.name, "panic", rec)
				}
			}()
			if err := r.module.Destroy(); err != nil {
				s.logger.Error("engine: module destroy failed",
					"module", r.name, "err", err)
			}
		}()
		r.initialized = false
	}
}
