package world

import (
	"math/rand"

	"github.com/velocitylab/gravity-runner/internal/config"
	"github.com/velocitylab/gravity-runner/internal/core"
	"github.com/velocitylab/gravity-runner/internal/engine"
)

// baselineFrameMs normalizes scroll speed to a 60Hz frame, so config speed
// values read as "pixels per frame at 60 FPS" regardless of actual dt.
const baselineFrameMs = 1000.0 / 60.0

// Difficulty bounds. Level is derived from distance and never decreases
// within a run.
const (
	minDifficulty        = 1
	maxDifficulty        = 10
	difficultyStepPixels = 1000.0
)

// Snapshot is a copy of the field state handed to presentation code.
type Snapshot struct {
	ScrollOffset  float64
	TotalDistance float64
	Difficulty    int
	Scrolling     bool
	Obstacles     []Obstacle
}

// Field owns the obstacle sequence and world scroll state. It is a
// scheduler module: each tick it advances the scroll, spawns obstacles
// ahead of the viewport and removes the ones that scrolled out behind it.
// All mutation happens inside its own Update; everyone else sees copies.
type Field struct {
	bus *engine.Bus
	cfg config.WorldConfig
	rng *rand.Rand

	obstacles     []Obstacle // ascending by Box.X
	scrollOffset  float64
	totalDistance float64
	difficulty    int
	scrolling     bool
	lastObstacleX float64

	seed int64
}

// NewField creates an obstacle field. The seed makes obstacle placement
// deterministic for a given run.
func NewField(bus *engine.Bus, cfg config.WorldConfig, seed int64) *Field {
	f := &Field{
		bus:  bus,
		cfg:  cfg,
		seed: seed,
	}
	f.Reset()
	return f
}

// Init implements engine.Module. The field listens for mode changes to know
// when the world should scroll; it never references other modules directly.
func (f *Field) Init() error {
	f.bus.Subscribe(engine.TopicModeChanged, func(ev engine.Event) {
		if mc, ok := ev.(engine.ModeChangedEvent); ok {
			f.scrolling = mc.To == engine.ModePlaying
		}
	}, f)
	return nil
}

// Reset clears obstacles and returns scroll, distance and difficulty to
// their initial values. The spawn cursor is reseeded just past the initial
// viewport so the player starts with clear ground.
func (f *Field) Reset() {
	f.rng = rand.New(rand.NewSource(f.seed))
	f.obstacles = f.obstacles[:0]
	f.scrollOffset = 0
	f.totalDistance = 0
	f.difficulty = minDifficulty
	f.lastObstacleX = f.cfg.ViewportWidth
}

// Update implements engine.Module.
func (f *Field) Update(dtMs float64) error {
	if f.scrolling {
		delta := f.cfg.ScrollSpeed * (dtMs / baselineFrameMs)
		f.scrollOffset += delta
		f.totalDistance += delta
		f.updateDifficulty()
	}

	f.spawnAhead()
	f.cleanup()
	return nil
}

// Render implements engine.Module. The field is simulation-only; the
// platform's render module draws from snapshots.
func (f *Field) Render(*core.Screen) error { return nil }

// Destroy implements engine.Module.
func (f *Field) Destroy() error {
	f.bus.UnsubscribeAll(f)
	return nil
}

// updateDifficulty recomputes the level from total distance and publishes
// on change. The formula only grows within a run, so the level is
// monotonically non-decreasing until Reset.
func (f *Field) updateDifficulty() {
	if f.cfg.FixedDifficulty {
		return
	}
	level := int(f.totalDistance/difficultyStepPixels) + 1
	level = core.Clamp(level, minDifficulty, maxDifficulty)
	if level != f.difficulty {
		f.difficulty = level
		f.bus.Publish(engine.DifficultyChangedEvent{
			Level:    level,
			Distance: f.totalDistance,
		})
	}
}

// difficultyFactor shortens average spawn gaps as difficulty rises, with a
// floor at 30% of the configured spread.
func (f *Field) difficultyFactor() float64 {
	factor := 1.0 - float64(f.difficulty-1)*0.1
	if factor < 0.3 {
		factor = 0.3
	}
	return factor
}

// spawnAhead generates obstacles until the spawn cursor is past the
// lookahead horizon.
func (f *Field) spawnAhead() {
	horizon := f.scrollOffset + f.cfg.ViewportWidth + f.cfg.LookaheadBuffer
	for f.lastObstacleX < horizon {
		f.spawnNext()
	}
}

// spawnNext places one obstacle at the spawn cursor plus a difficulty-scaled
// random gap.
func (f *Field) spawnNext() {
	spread := f.cfg.MaxObstacleDistance - f.cfg.MinObstacleDistance
	distance := f.cfg.MinObstacleDistance + f.rng.Float64()*spread*f.difficultyFactor()
	x := f.lastObstacleX + distance

	w := f.cfg.MinObstacleWidth + f.rng.Float64()*(f.cfg.MaxObstacleWidth-f.cfg.MinObstacleWidth)
	h := f.cfg.MinObstacleHeight + f.rng.Float64()*(f.cfg.MaxObstacleHeight-f.cfg.MinObstacleHeight)

	kind := KindGround
	y := f.cfg.ViewportHeight - f.cfg.GroundHeight - h
	if f.rng.Float64() < f.cfg.CeilingChance {
		kind = KindCeiling
		y = f.cfg.GroundHeight
	}

	f.obstacles = append(f.obstacles, Obstacle{
		Box:  core.NewBox(x, y, w, h),
		Kind: kind,
	})
	f.lastObstacleX = x
}

// cleanup removes obstacles whose right edge scrolled past the trailing
// viewport edge. Obstacles are X-ordered, so only the head of the slice can
// be stale.
func (f *Field) cleanup() {
	cutoff := f.scrollOffset - f.cfg.TrailingBuffer
	n := 0
	for n < len(f.obstacles) && f.obstacles[n].Box.Right() < cutoff {
		n++
	}
	if n > 0 {
		f.obstacles = append(f.obstacles[:0], f.obstacles[n:]...)
	}
}

// QueryCollision scans for the first obstacle intersecting the given
// viewport-space box. The box is translated into world space by the current
// scroll offset. First hit in spawn order wins; the slice is X-sorted so
// that is also the obstacle closest to the trailing edge.
func (f *Field) QueryCollision(viewBox core.Box) (Obstacle, bool) {
	worldBox := viewBox
	worldBox.X += f.scrollOffset

	for _, o := range f.obstacles {
		if o.Box.X > worldBox.Right() {
			break // everything past here is further right
		}
		if o.Box.Intersects(worldBox) {
			return o, true
		}
	}
	return Obstacle{}, false
}

// ScrollOffset returns the current scroll position.
func (f *Field) ScrollOffset() float64 { return f.scrollOffset }

// TotalDistance returns the distance covered this run.
func (f *Field) TotalDistance() float64 { return f.totalDistance }

// Difficulty returns the current difficulty level (1..10).
func (f *Field) Difficulty() int { return f.difficulty }

// Snapshot returns a copy of the visible field state for presentation.
func (f *Field) Snapshot() Snapshot {
	obstacles := make([]Obstacle, len(f.obstacles))
	copy(obstacles, f.obstacles)
	return Snapshot{
		ScrollOffset:  f.scrollOffset,
		TotalDistance: f.totalDistance,
		Difficulty:    f.difficulty,
		Scrolling:     f.scrolling,
		Obstacles:     obstacles,
	}
}
