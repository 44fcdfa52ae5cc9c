package core

// Intent represents a semantic player intent, abstracted from physical key
// presses. Input adapters publish intents; the simulation never sees raw keys.
type Intent int

const (
	IntentNone Intent = iota
	IntentMoveLeft
	IntentMoveRight
	IntentJump
	IntentDash
	IntentGravity // Gravity inversion toggle
)

// String returns a human-readable name for the intent.
func (i Intent) String() string {
	switch i {
	case IntentNone:
		return "None"
	case IntentMoveLeft:
		return "MoveLeft"
	case IntentMoveRight:
		return "MoveRight"
	case IntentJump:
		return "Jump"
	case IntentDash:
		return "Dash"
	case IntentGravity:
		return "Gravity"
	default:
		return "Unknown"
	}
}

// InputSnapshot is the per-tick view of player input consumed by the
// simulation. Pressed flags are edges (true only on the tick the intent
// started); held flags are levels.
type InputSnapshot struct {
	MoveLeft       bool
	MoveRight      bool
	JumpHeld       bool
	JumpPressed    bool
	DashPressed    bool
	GravityPressed bool
}

// InputTracker accumulates intent start/end signals between ticks and
// produces an InputSnapshot when the simulation steps. Edge flags are
// consumed by Snapshot; held flags persist until the matching end signal.
type InputTracker struct {
	held    map[Intent]bool
	pressed map[Intent]bool
}

// NewInputTracker creates an empty input tracker.
func NewInputTracker() *InputTracker {
	return &InputTracker{
		held:    make(map[Intent]bool),
		pressed: make(map[Intent]bool),
	}
}

// Start records the beginning of an intent (key down).
func (t *InputTracker) Start(i Intent) {
	if !t.held[i] {
		t.pressed[i] = true
	}
	t.held[i] = true
}

// End records the end of an intent (key up).
func (t *InputTracker) End(i Intent) {
	delete(t.held, i)
}

// Snapshot returns the current input state and clears the pressed edges.
func (t *InputTracker) Snapshot() InputSnapshot {
	snap := InputSnapshot{
		MoveLeft:       t.held[IntentMoveLeft],
		MoveRight:      t.held[IntentMoveRight],
		JumpHeld:       t.held[IntentJump],
		JumpPressed:    t.pressed[IntentJump],
		DashPressed:    t.pressed[IntentDash],
		GravityPressed: t.pressed[IntentGravity],
	}
	for k := range t.pressed {
		delete(t.pressed, k)
	}
	return snap
}

// Reset clears all held and pressed state.
func (t *InputTracker) Reset() {
	for k := range t.held {
		delete(t.held, k)
	}
	for k := range t.pressed {
		delete(t.pressed, k)
	}
}
