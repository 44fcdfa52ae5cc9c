package engine

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Mode is a top-level game mode.
type Mode int

// Game modes.
const (
	ModeLoading Mode = iota
	ModeMenu
	ModePlaying
	ModePaused
	ModeGameOver
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeMenu:
		return "menu"
	case ModePlaying:
		return "playing"
	case ModePaused:
		return "paused"
	case ModeGameOver:
		return "gameover"
	default:
		return "unknown"
	}
}

// transitionHistoryCap bounds the recorded transition history; the oldest
// entry is dropped once the cap is reached.
const transitionHistoryCap = 50

// allowedTransitions is the explicit transition table. Anything not listed
// is rejected, never silently coerced.
var allowedTransitions = map[Mode][]Mode{
	ModeLoading:  {ModeMenu},
	ModeMenu:     {ModePlaying},
	ModePlaying:  {ModePaused, ModeGameOver, ModeMenu},
	ModePaused:   {ModePlaying, ModeMenu},
	ModeGameOver: {ModeMenu, ModePlaying},
}

// Transition records one successful mode change.
type Transition struct {
	From Mode
	To   Mode
	At   time.Time
}

// ModeHooks holds the optional per-mode callbacks invoked around
// transitions and on every tick while the mode is current.
type ModeHooks struct {
	Enter  func(payload any)
	Exit   func()
	Update func(dtMs float64)
}

// ModeController is the finite state machine governing the session's
// top-level mode. It starts in Loading.
type ModeController struct {
	bus     *Bus
	logger  *log.Logger
	current Mode
	hooks   map[Mode]ModeHooks
	history []Transition
	now     func() time.Time
}

// NewModeController creates a controller in the Loading mode.
func NewModeController(bus *Bus, logger *log.Logger) *ModeController {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ModeController{
		bus:     bus,
		logger:  logger,
		current: ModeLoading,
		hooks:   make(map[Mode]ModeHooks),
		now:     time.Now,
	}
}

// Current returns the active mode.
func (c *ModeController) Current() Mode {
	return c.current
}

// SetHooks registers the callbacks for a mode, replacing any existing set.
func (c *ModeController) SetHooks(m Mode, h ModeHooks) {
	c.hooks[m] = h
}

// CanTransition reports whether the table allows current -> target.
func (c *ModeController) CanTransition(target Mode) bool {
	for _, m := range allowedTransitions[c.current] {
		if m == target {
			return true
		}
	}
	return false
}

// RequestTransition attempts a mode change. On success it runs the exit
// hook of the old mode, swaps state, records the transition, runs the enter
// hook of the new mode and publishes a mode-changed event. On rejection it
// publishes a rejection event and leaves state untouched; rejection is a
// recoverable, logged condition, never fatal.
func (c *ModeController) RequestTransition(target Mode, payload any) bool {
	if !c.CanTransition(target) {
		c.logger.Warn("mode: transition rejected",
			"from", c.current, "to", target)
		c.bus.Publish(ModeRejectedEvent{From: c.current, To: target})
		return false
	}

	from := c.current
	if h, ok := c.hooks[from]; ok && h.Exit != nil {
		h.Exit()
	}

	c.current = target
	c.history = append(c.history, Transition{From: from, To: target, At: c.now()})
	if len(c.history) > transitionHistoryCap {
		c.history = c.history[1:]
	}

	if h, ok := c.hooks[target]; ok && h.Enter != nil {
		h.Enter(payload)
	}

	c.bus.Publish(ModeChangedEvent{From: from, To: target, Payload: payload})
	return true
}

// Update delegates the tick to the current mode's update hook, if any.
func (c *ModeController) Update(dtMs float64) {
	if h, ok := c.hooks[c.current]; ok && h.Update != nil {
		h.Update(dtMs)
	}
}

// History returns a copy of the recorded transitions, oldest first.
func (c *ModeController) History() []Transition {
	out := make([]Transition, len(c.history))
	copy(out, c.history)
	return out
}
