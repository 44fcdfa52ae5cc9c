package sim

import (
	"testing"
	"time"

	"github.com/velocitylab/gravity-runner/internal/config"
	"github.com/velocitylab/gravity-runner/internal/core"
	"github.com/velocitylab/gravity-runner/internal/engine"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	rt := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42}
	s, err := NewSession(config.DefaultRunnerConfig(), rt, nil)
	if err != nil {
		t.Fatalf("session construction failed: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("session start failed: %v", err)
	}
	return s
}

func TestSessionStartsInMenu(t *testing.T) {
	s := newTestSession(t)
	defer s.Stop()

	if s.Modes().Current() != engine.ModeMenu {
		t.Errorf("expected menu after start, got %v", s.Modes().Current())
	}
}

func TestGameStartEntersPlaying(t *testing.T) {
	s := newTestSession(t)
	defer s.Stop()

	s.Bus().Publish(engine.GameStartEvent{})

	if s.Modes().Current() != engine.ModePlaying {
		t.Errorf("expected playing, got %v", s.Modes().Current())
	}
	if !s.Player().Alive {
		t.Error("player should be alive at run start")
	}
	if s.World().TotalDistance != 0 {
		t.Error("run should start with zero distance")
	}
}

func TestPauseAndResume(t *testing.T) {
	s := newTestSession(t)
	defer s.Stop()

	s.Bus().Publish(engine.GameStartEvent{})
	s.Bus().Publish(engine.GamePauseEvent{})
	if s.Modes().Current() != engine.ModePaused {
		t.Fatalf("expected paused, got %v", s.Modes().Current())
	}

	// Pausing an already paused session does nothing.
	s.Bus().Publish(engine.GamePauseEvent{})
	if s.Modes().Current() != engine.ModePaused {
		t.Errorf("double pause broke state: %v", s.Modes().Current())
	}

	s.Bus().Publish(engine.GameResumeEvent{})
	if s.Modes().Current() != engine.ModePlaying {
		t.Errorf("expected playing after resume, got %v", s.Modes().Current())
	}
}

func TestPausedWorldDoesNotAdvance(t *testing.T) {
	s := newTestSession(t)
	defer s.Stop()

	s.Bus().Publish(engine.GameStartEvent{})

	now := time.Now()
	screen := core.NewScreen(80, 24)
	for i := 0; i < 10; i++ {
		now = now.Add(16 * time.Millisecond)
		s.Step(now, screen)
	}
	distance := s.World().TotalDistance
	if distance == 0 {
		t.Fatal("setup: world did not scroll while playing")
	}

	s.Bus().Publish(engine.GamePauseEvent{})
	for i := 0; i < 10; i++ {
		now = now.Add(16 * time.Millisecond)
		s.Step(now, screen)
	}

	if s.World().TotalDistance != distance {
		t.Error("world advanced while paused")
	}
}

func TestCollisionEndsRunWithStats(t *testing.T) {
	s := newTestSession(t)
	defer s.Stop()

	var runs []engine.RunEndedEvent
	s.Bus().Subscribe(engine.TopicRunEnded, func(ev engine.Event) {
		runs = append(runs, ev.(engine.RunEndedEvent))
	}, nil)

	s.Bus().Publish(engine.GameStartEvent{})

	// Scroll a little so the run has stats.
	now := time.Now()
	screen := core.NewScreen(80, 24)
	for i := 0; i < 20; i++ {
		now = now.Add(16 * time.Millisecond)
		s.Step(now, screen)
	}

	s.Bus().Publish(engine.CollisionEvent{Kind: "ground"})

	if s.Modes().Current() != engine.ModeGameOver {
		t.Fatalf("expected game over, got %v", s.Modes().Current())
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run-ended event, got %d", len(runs))
	}
	if runs[0].Distance <= 0 {
		t.Errorf("run distance should be positive, got %v", runs[0].Distance)
	}
	if runs[0].Score != int(runs[0].Distance)/scoreDivisor {
		t.Errorf("score %d inconsistent with distance %v", runs[0].Score, runs[0].Distance)
	}

	// A second collision after game over must not double-fire.
	s.Bus().Publish(engine.CollisionEvent{Kind: "ground"})
	if len(runs) != 1 {
		t.Errorf("collision outside playing produced extra run-ended events: %d", len(runs))
	}
}

func TestRestartResetsRunState(t *testing.T) {
	s := newTestSession(t)
	defer s.Stop()

	s.Bus().Publish(engine.GameStartEvent{})

	now := time.Now()
	screen := core.NewScreen(80, 24)
	for i := 0; i < 20; i++ {
		now = now.Add(16 * time.Millisecond)
		s.Step(now, screen)
	}
	s.Bus().Publish(engine.CollisionEvent{Kind: "ground"})

	s.Bus().Publish(engine.GameRestartEvent{})

	if s.Modes().Current() != engine.ModePlaying {
		t.Fatalf("expected playing after restart, got %v", s.Modes().Current())
	}
	if s.World().TotalDistance != 0 {
		t.Errorf("restart should zero distance, got %v", s.World().TotalDistance)
	}
	if !s.Player().Alive {
		t.Error("restart should revive the player")
	}
	if s.World().Difficulty != 1 {
		t.Errorf("restart should reset difficulty, got %d", s.World().Difficulty)
	}
}

func TestRestartOnlyAppliesInGameOver(t *testing.T) {
	s := newTestSession(t)
	defer s.Stop()

	s.Bus().Publish(engine.GameRestartEvent{})
	if s.Modes().Current() != engine.ModeMenu {
		t.Errorf("restart from menu should be ignored, got %v", s.Modes().Current())
	}
}

func TestStopReturnsToMenu(t *testing.T) {
	s := newTestSession(t)
	defer s.Stop()

	s.Bus().Publish(engine.GameStartEvent{})
	s.Bus().Publish(engine.GameStopEvent{})

	if s.Modes().Current() != engine.ModeMenu {
		t.Errorf("expected menu after stop, got %v", s.Modes().Current())
	}
}

func TestModuleRegistrationOrder(t *testing.T) {
	s := newTestSession(t)
	defer s.Stop()

	status := s.Scheduler().Status()
	if len(status) != 2 {
		t.Fatalf("expected 2 core modules, got %d", len(status))
	}
	if status[0].Name != "world" || status[1].Name != "player" {
		t.Errorf("world must update before player, got %v then %v",
			status[0].Name, status[1].Name)
	}
}
