package core

// Action represents a semantic game action, abstracted from physical key presses.
// The runner works with high-level intents rather than raw input.
type Action int

const (
	ActionNone      Action = iota
	ActionJump             // Space, W, Up
	ActionStart            // Enter, S - start a stage or resume from pause
	ActionPause            // P
	ActionRestart          // R - back to the stage lobby
	ActionAnswer1          // 1 - first quiz option
	ActionAnswer2          // 2
	ActionAnswer3          // 3
	ActionAnswer4          // 4
	ActionAdvance          // N - next stage after completion
	ActionStagePrev        // Left, H - select previous unlocked stage
	ActionStageNext        // Right, L - select next unlocked stage
	ActionMint             // M - claim stage rewards
	ActionMute             // X - toggle sound cues
	ActionBack             // B, Escape
	ActionQuit             // Q, Ctrl+C
)

var actionNames = map[Action]string{
	ActionNone:      "None",
	ActionJump:      "Jump",
	ActionStart:     "Start",
	ActionPause:     "Pause",
	ActionRestart:   "Restart",
	ActionAnswer1:   "Answer1",
	ActionAnswer2:   "Answer2",
	ActionAnswer3:   "Answer3",
	ActionAnswer4:   "Answer4",
	ActionAdvance:   "Advance",
	ActionStagePrev: "StagePrev",
	ActionStageNext: "StageNext",
	ActionMint:      "Mint",
	ActionMute:      "Mute",
	ActionBack:      "Back",
	ActionQuit:      "Quit",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// AnswerIndex maps an answer action to a zero-based option index.
func (a Action) AnswerIndex() (int, bool) {
	if a >= ActionAnswer1 && a <= ActionAnswer4 {
		return int(a - ActionAnswer1), true
	}
	return -1, false
}

// AnswerAction is the inverse of AnswerIndex.
func AnswerAction(index int) Action {
	if index < 0 || index > 3 {
		return ActionNone
	}
	return ActionAnswer1 + Action(index)
}

// InputFrame buffers the actions triggered between two simulation ticks.
// Input is captured asynchronously and consumed at the next tick boundary.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Answer returns the lowest answer option set in this frame, if any.
func (f InputFrame) Answer() (int, bool) {
	for a := ActionAnswer1; a <= ActionAnswer4; a++ {
		if f.Has(a) {
			return a.AnswerIndex()
		}
	}
	return -1, false
}

// Empty reports whether no action is set.
func (f InputFrame) Empty() bool {
	for _, v := range f.Actions {
		if v {
			return false
		}
	}
	return true
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}
