package engine

import (
	"testing"
	"time"
)

func newTestModes() (*Bus, *ModeController) {
	b := NewBus(nil)
	return b, NewModeController(b, nil)
}

func TestModeControllerStartsInLoading(t *testing.T) {
	_, mc := newTestModes()
	if mc.Current() != ModeLoading {
		t.Errorf("expected initial mode loading, got %v", mc.Current())
	}
}

func TestAllowedTransitionSucceedsAndPublishes(t *testing.T) {
	b, mc := newTestModes()

	var changed *ModeChangedEvent
	b.Subscribe(TopicModeChanged, func(ev Event) {
		e := ev.(ModeChangedEvent)
		changed = &e
	}, nil)

	if !mc.RequestTransition(ModeMenu, "hello") {
		t.Fatal("loading -> menu should be allowed")
	}
	if mc.Current() != ModeMenu {
		t.Errorf("expected mode menu, got %v", mc.Current())
	}
	if changed == nil {
		t.Fatal("no mode-changed event published")
	}
	if changed.From != ModeLoading || changed.To != ModeMenu {
		t.Errorf("wrong transition in event: %v -> %v", changed.From, changed.To)
	}
	if changed.Payload != "hello" {
		t.Errorf("payload not forwarded: %v", changed.Payload)
	}
}

func TestInvalidTransitionIsRejectedAndStatePreserved(t *testing.T) {
	b, mc := newTestModes()

	var rejected *ModeRejectedEvent
	b.Subscribe(TopicModeRejected, func(ev Event) {
		e := ev.(ModeRejectedEvent)
		rejected = &e
	}, nil)

	// Loading -> Playing is not in the table.
	if mc.RequestTransition(ModePlaying, nil) {
		t.Fatal("loading -> playing should be rejected")
	}
	if mc.Current() != ModeLoading {
		t.Errorf("rejected transition mutated state: %v", mc.Current())
	}
	if rejected == nil {
		t.Fatal("no rejection event published")
	}
	if rejected.From != ModeLoading || rejected.To != ModePlaying {
		t.Errorf("wrong rejection: %v -> %v", rejected.From, rejected.To)
	}
	if len(mc.History()) != 0 {
		t.Errorf("rejected transition recorded in history")
	}

	// Controller keeps operating after a rejection.
	if !mc.RequestTransition(ModeMenu, nil) {
		t.Error("controller should still accept valid transitions after a rejection")
	}
}

func TestGameOverFromPausedIsRejected(t *testing.T) {
	_, mc := newTestModes()
	mc.RequestTransition(ModeMenu, nil)
	mc.RequestTransition(ModePlaying, nil)
	mc.RequestTransition(ModePaused, nil)

	if mc.RequestTransition(ModeGameOver, nil) {
		t.Error("paused -> gameover should be rejected")
	}
	if mc.Current() != ModePaused {
		t.Errorf("expected to stay paused, got %v", mc.Current())
	}
}

func TestExitAndEnterHooksRunInOrder(t *testing.T) {
	_, mc := newTestModes()

	var calls []string
	mc.SetHooks(ModeLoading, ModeHooks{
		Exit: func() { calls = append(calls, "exit-loading") },
	})
	mc.SetHooks(ModeMenu, ModeHooks{
		Enter: func(payload any) { calls = append(calls, "enter-menu") },
	})

	mc.RequestTransition(ModeMenu, nil)

	if len(calls) != 2 || calls[0] != "exit-loading" || calls[1] != "enter-menu" {
		t.Errorf("unexpected hook order: %v", calls)
	}
}

func TestUpdateDelegatesToCurrentModeHook(t *testing.T) {
	_, mc := newTestModes()

	var loadingDt, menuDt float64
	mc.SetHooks(ModeLoading, ModeHooks{
		Update: func(dtMs float64) { loadingDt += dtMs },
	})
	mc.SetHooks(ModeMenu, ModeHooks{
		Update: func(dtMs float64) { menuDt += dtMs },
	})

	mc.Update(16)
	mc.RequestTransition(ModeMenu, nil)
	mc.Update(17)

	if loadingDt != 16 {
		t.Errorf("loading update got %v, want 16", loadingDt)
	}
	if menuDt != 17 {
		t.Errorf("menu update got %v, want 17", menuDt)
	}
}

func TestHistoryRecordsTransitionsWithTimestamps(t *testing.T) {
	_, mc := newTestModes()

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mc.now = func() time.Time { return fixed }

	mc.RequestTransition(ModeMenu, nil)
	mc.RequestTransition(ModePlaying, nil)

	h := mc.History()
	if len(h) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(h))
	}
	if h[0].From != ModeLoading || h[0].To != ModeMenu {
		t.Errorf("first entry wrong: %v -> %v", h[0].From, h[0].To)
	}
	if h[1].From != ModeMenu || h[1].To != ModePlaying {
		t.Errorf("second entry wrong: %v -> %v", h[1].From, h[1].To)
	}
	if !h[0].At.Equal(fixed) {
		t.Errorf("timestamp not recorded: %v", h[0].At)
	}
}

func TestHistoryIsBounded(t *testing.T) {
	_, mc := newTestModes()
	mc.RequestTransition(ModeMenu, nil)

	// Bounce playing <-> paused far past the cap.
	mc.RequestTransition(ModePlaying, nil)
	for i := 0; i < transitionHistoryCap*2; i++ {
		mc.RequestTransition(ModePaused, nil)
		mc.RequestTransition(ModePlaying, nil)
	}

	h := mc.History()
	if len(h) != transitionHistoryCap {
		t.Errorf("history length %d, want cap %d", len(h), transitionHistoryCap)
	}
	// Newest entry must be the last successful transition.
	last := h[len(h)-1]
	if last.To != ModePlaying {
		t.Errorf("newest history entry should be -> playing, got %v", last.To)
	}
}
