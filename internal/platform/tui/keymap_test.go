package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/mindora-runner/internal/core"
)

func TestKeyMapAction(t *testing.T) {
	keys := DefaultKeyMap()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.Action
	}{
		{"space jumps", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionJump},
		{"up jumps", tea.KeyMsg{Type: tea.KeyUp}, core.ActionJump},
		{"enter starts", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionStart},
		{"p pauses", keyMsg("p"), core.ActionPause},
		{"r restarts", keyMsg("r"), core.ActionRestart},
		{"1 answers", keyMsg("1"), core.ActionAnswer1},
		{"4 answers", keyMsg("4"), core.ActionAnswer4},
		{"n advances", keyMsg("n"), core.ActionAdvance},
		{"left selects", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionStagePrev},
		{"l selects", keyMsg("l"), core.ActionStageNext},
		{"m mints", keyMsg("m"), core.ActionMint},
		{"x mutes", keyMsg("x"), core.ActionMute},
		{"esc backs", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack},
		{"q quits", keyMsg("q"), core.ActionQuit},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{"5 unbound", keyMsg("5"), core.ActionNone},
		{"help is not an action", keyMsg("?"), core.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keys.Action(tt.msg); got != tt.want {
				t.Errorf("Action(%q) = %v, want %v", tt.msg.String(), got, tt.want)
			}
		})
	}
}
