// Package engine implements the simulation backbone: the synchronous event
// bus, the game-mode state machine and the module scheduler that drives
// fixed-cadence update and render passes.
package engine

import (
	"time"

	"github.com/velocitylab/gravity-runner/internal/core"
)

// Topic identifies an event channel on the bus.
type Topic string

// Simulation and engine topics.
const (
	TopicPlayerPosition Topic = "player:position-updated"
	TopicPlayerJumped   Topic = "player:jumped"
	TopicPlayerDashed   Topic = "player:dashed"
	TopicDashReady      Topic = "player:dash-ready"
	TopicGravityToggled Topic = "player:gravity-toggled"
	TopicCollision      Topic = "collision:obstacle"
	TopicDifficulty     Topic = "world:difficulty-changed"
	TopicPerformance    Topic = "engine:performance-update"
	TopicModuleFault    Topic = "engine:module-fault"
	TopicReduceQuality  Topic = "engine:reduce-quality"
	TopicModeChanged    Topic = "state:changed"
	TopicModeRejected   Topic = "state:rejected"
)

// Control surface topics consumed by the session.
const (
	TopicGameStart    Topic = "game:start"
	TopicGameStop     Topic = "game:stop"
	TopicGamePause    Topic = "game:pause"
	TopicGameResume   Topic = "game:resume"
	TopicGameRestart  Topic = "game:restart"
	TopicStateRequest Topic = "state:request-change"
)

// IntentStartTopic returns the topic published when an intent begins.
func IntentStartTopic(i core.Intent) Topic {
	return Topic("input:" + i.String() + ":start")
}

// IntentEndTopic returns the topic published when an intent ends.
func IntentEndTopic(i core.Intent) Topic {
	return Topic("input:" + i.String() + ":end")
}

// Event is implemented by every payload that travels over the bus.
// The set of event kinds is closed: each topic carries exactly one
// strongly-typed struct, never a loose map.
type Event interface {
	EventTopic() Topic
}

// IntentStartedEvent signals that an input intent began (key down).
type IntentStartedEvent struct {
	Intent core.Intent
}

func (e IntentStartedEvent) EventTopic() Topic { return IntentStartTopic(e.Intent) }

// IntentEndedEvent signals that an input intent ended (key up).
type IntentEndedEvent struct {
	Intent core.Intent
}

func (e IntentEndedEvent) EventTopic() Topic { return IntentEndTopic(e.Intent) }

// PlayerPositionEvent carries the player's position and velocity after a
// physics step. Payload is a copy; consumers never see live state.
type PlayerPositionEvent struct {
	Position core.Vec2
	Velocity core.Vec2
	OnGround bool
}

func (PlayerPositionEvent) EventTopic() Topic { return TopicPlayerPosition }

// PlayerJumpedEvent is published on every successful jump.
type PlayerJumpedEvent struct {
	JumpsLeft int
}

func (PlayerJumpedEvent) EventTopic() Topic { return TopicPlayerJumped }

// PlayerDashedEvent is published when a dash starts.
type PlayerDashedEvent struct {
	Direction core.Vec2
}

func (PlayerDashedEvent) EventTopic() Topic { return TopicPlayerDashed }

// DashReadyEvent is published when the dash cooldown completes.
type DashReadyEvent struct{}

func (DashReadyEvent) EventTopic() Topic { return TopicDashReady }

// GravityToggledEvent is published when gravity inversion flips.
type GravityToggledEvent struct {
	Inverted bool
}

func (GravityToggledEvent) EventTopic() Topic { return TopicGravityToggled }

// CollisionEvent is published when the player intersects an obstacle.
type CollisionEvent struct {
	Obstacle core.Box
	Kind     string
}

func (CollisionEvent) EventTopic() Topic { return TopicCollision }

// DifficultyChangedEvent is published when the world difficulty level moves.
type DifficultyChangedEvent struct {
	Level    int
	Distance float64
}

func (DifficultyChangedEvent) EventTopic() Topic { return TopicDifficulty }

// PerformanceEvent summarizes frame timing over the rolling sample window.
type PerformanceEvent struct {
	FPS          float64
	UpdateTimeMs float64
	RenderTimeMs float64
	FrameTimeMs  float64
}

func (PerformanceEvent) EventTopic() Topic { return TopicPerformance }

// ModulePhase identifies which scheduler pass a module fault occurred in.
type ModulePhase string

// Module lifecycle phases.
const (
	PhaseInit    ModulePhase = "init"
	PhaseUpdate  ModulePhase = "update"
	PhaseRender  ModulePhase = "render"
	PhaseDestroy ModulePhase = "destroy"
)

// ModuleFaultEvent is published when a module fails during a pass and is
// disabled for the remainder of the session.
type ModuleFaultEvent struct {
	Module string
	Phase  ModulePhase
	Err    error
}

func (ModuleFaultEvent) EventTopic() Topic { return TopicModuleFault }

// ReduceQualityEvent is an advisory published on sustained low performance.
// Modules may opt into reduced work; simulation correctness is never
// throttled.
type ReduceQualityEvent struct {
	Active      bool
	FrameTimeMs float64
}

func (ReduceQualityEvent) EventTopic() Topic { return TopicReduceQuality }

// ModeChangedEvent is published after a successful mode transition.
type ModeChangedEvent struct {
	From    Mode
	To      Mode
	Payload any
}

func (ModeChangedEvent) EventTopic() Topic { return TopicModeChanged }

// ModeRejectedEvent is published when a transition is not in the allowed
// table. State is left untouched; this is a logged, recoverable condition.
type ModeRejectedEvent struct {
	From Mode
	To   Mode
}

func (ModeRejectedEvent) EventTopic() Topic { return TopicModeRejected }

// GameStartEvent asks the session to begin a run (Menu -> Playing).
type GameStartEvent struct{}

func (GameStartEvent) EventTopic() Topic { return TopicGameStart }

// GameStopEvent asks the session to shut down.
type GameStopEvent struct{}

func (GameStopEvent) EventTopic() Topic { return TopicGameStop }

// GamePauseEvent asks the session to pause the current run.
type GamePauseEvent struct{}

func (GamePauseEvent) EventTopic() Topic { return TopicGamePause }

// GameResumeEvent asks the session to resume a paused run.
type GameResumeEvent struct{}

func (GameResumeEvent) EventTopic() Topic { return TopicGameResume }

// GameRestartEvent asks the session to reset and start a fresh run.
type GameRestartEvent struct{}

func (GameRestartEvent) EventTopic() Topic { return TopicGameRestart }

// StateRequestEvent asks the mode controller for an arbitrary transition.
type StateRequestEvent struct {
	To      Mode
	Payload any
}

func (StateRequestEvent) EventTopic() Topic { return TopicStateRequest }

// RunEndedEvent carries the final stats of a run when it ends. The
// presentation and persistence layers consume it; the simulation does not.
type RunEndedEvent struct {
	Distance   float64
	Score      int
	Difficulty int
	Duration   time.Duration
}

// TopicRunEnded carries RunEndedEvent.
const TopicRunEnded Topic = "game:run-ended"

func (RunEndedEvent) EventTopic() Topic { return TopicRunEnded }
