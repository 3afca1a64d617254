package core

// Action represents a semantic player intent, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, K, Up arrow
	ActionDown           // S, J, Down arrow
	ActionLeft           // A, H, Left arrow
	ActionRight          // D, L, Right arrow
	ActionPause          // P, Space - toggle pause/resume
	ActionRestart        // R - restart the episode
	ActionHelp           // ? - show instructions
	ActionConfirm        // Enter - confirm dialog / dismiss instructions
	ActionBack           // Esc, B - back
	ActionQuit           // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionHelp:
		return "Help"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
