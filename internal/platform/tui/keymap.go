package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/velocitylab/gravity-runner/internal/core"
)

// ControlAction is a host-level action derived from input, as opposed to a
// gameplay intent forwarded to the simulation.
type ControlAction int

// Host actions.
const (
	ControlNone ControlAction = iota
	ControlQuit
	ControlPause
	ControlRestart
	ControlConfirm
	ControlBack
)

// KeyMapper translates Bubble Tea key messages to gameplay intents and host
// actions. Centralized so the bindings are testable.
type KeyMapper struct{}

// NewKeyMapper creates a key mapper with the default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapIntent translates a key message to a gameplay intent, or IntentNone.
func (km *KeyMapper) MapIntent(msg tea.KeyMsg) core.Intent {
	switch msg.String() {
	case "a", "left":
		return core.IntentMoveLeft
	case "d", "right":
		return core.IntentMoveRight
	case " ", "w", "up":
		return core.IntentJump
	case "shift+right", "x":
		return core.IntentDash
	case "g", "s", "down":
		return core.IntentGravity
	}
	return core.IntentNone
}

// MapControl translates a key message to a host action, or ControlNone.
func (km *KeyMapper) MapControl(msg tea.KeyMsg) ControlAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return ControlQuit
	case "p":
		return ControlPause
	case "r":
		return ControlRestart
	case "enter":
		return ControlConfirm
	case "b", "esc":
		return ControlBack
	}
	return ControlNone
}
