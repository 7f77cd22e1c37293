package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/mindora-runner/internal/core"
)

// KeyMap defines the play key bindings.
type KeyMap struct {
	Jump      key.Binding
	Start     key.Binding
	Pause     key.Binding
	Restart   key.Binding
	Answer1   key.Binding
	Answer2   key.Binding
	Answer3   key.Binding
	Answer4   key.Binding
	Advance   key.Binding
	StagePrev key.Binding
	StageNext key.Binding
	Mint      key.Binding
	Mute      key.Binding
	Back      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Jump, k.Start, k.Pause, k.Mint, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Jump, k.Start, k.Pause, k.Restart},
		{k.Answer1, k.Answer2, k.Answer3, k.Answer4},
		{k.StagePrev, k.StageNext, k.Advance, k.Mint},
		{k.Mute, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Jump: key.NewBinding(
			key.WithKeys(" ", "up", "w"),
			key.WithHelp("space", "jump"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter", "s"),
			key.WithHelp("enter", "start/resume"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Answer1: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "answer 1")),
		Answer2: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "answer 2")),
		Answer3: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "answer 3")),
		Answer4: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "answer 4")),
		Advance: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next stage"),
		),
		StagePrev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev stage"),
		),
		StageNext: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next stage"),
		),
		Mint: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "claim rewards"),
		),
		Mute: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "mute"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Action translates a key message to a game action.
// Returns ActionNone for unbound keys and for the help toggle.
func (k KeyMap) Action(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Jump):
		return core.ActionJump
	case key.Matches(msg, k.Start):
		return core.ActionStart
	case key.Matches(msg, k.Pause):
		return core.ActionPause
	case key.Matches(msg, k.Restart):
		return core.ActionRestart
	case key.Matches(msg, k.Answer1):
		return core.ActionAnswer1
	case key.Matches(msg, k.Answer2):
		return core.ActionAnswer2
	case key.Matches(msg, k.Answer3):
		return core.ActionAnswer3
	case key.Matches(msg, k.Answer4):
		return core.ActionAnswer4
	case key.Matches(msg, k.Advance):
		return core.ActionAdvance
	case key.Matches(msg, k.StagePrev):
		return core.ActionStagePrev
	case key.Matches(msg, k.StageNext):
		return core.ActionStageNext
	case key.Matches(msg, k.Mint):
		return core.ActionMint
	case key.Matches(msg, k.Mute):
		return core.ActionMute
	case key.Matches(msg, k.Back):
		return core.ActionBack
	}
	return core.ActionNone
}
