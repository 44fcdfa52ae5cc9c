package core

import "testing"

func TestPressedEdgeIsConsumedBySnapshot(t *testing.T) {
	tr := NewInputTracker()
	tr.Start(IntentJump)

	first := tr.Snapshot()
	if !first.JumpPressed {
		t.Error("first snapshot should carry the pressed edge")
	}
	if !first.JumpHeld {
		t.Error("jump should still be held")
	}

	second := tr.Snapshot()
	if second.JumpPressed {
		t.Error("pressed edge must be consumed by the first snapshot")
	}
	if !second.JumpHeld {
		t.Error("held state persists until End")
	}
}

func TestRepeatedStartWithoutEndIsNotANewPress(t *testing.T) {
	tr := NewInputTracker()
	tr.Start(IntentDash)
	tr.Snapshot()

	// Key repeat: Start again while still held.
	tr.Start(IntentDash)
	if tr.Snapshot().DashPressed {
		t.Error("repeat while held must not produce a new pressed edge")
	}

	tr.End(IntentDash)
	tr.Start(IntentDash)
	if !tr.Snapshot().DashPressed {
		t.Error("press after release should produce a new edge")
	}
}

func TestEndClearsHeld(t *testing.T) {
	tr := NewInputTracker()
	tr.Start(IntentMoveLeft)
	tr.End(IntentMoveLeft)

	if tr.Snapshot().MoveLeft {
		t.Error("released intent should not read as held")
	}
}

func TestResetClearsEverything(t *testing.T) {
	tr := NewInputTracker()
	tr.Start(IntentJump)
	tr.Start(IntentMoveRight)
	tr.Reset()

	snap := tr.Snapshot()
	if snap.JumpHeld || snap.JumpPressed || snap.MoveRight {
		t.Errorf("reset left residual input: %+v", snap)
	}
}

func TestIntentStringNames(t *testing.T) {
	names := map[Intent]string{
		IntentNone:      "None",
		IntentMoveLeft:  "MoveLeft",
		IntentMoveRight: "MoveRight",
		IntentJump:      "Jump",
		IntentDash:      "Dash",
		IntentGravity:   "Gravity",
	}
	for intent, want := range names {
		if got := intent.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", intent, got, want)
		}
	}
}
