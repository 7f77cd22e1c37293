// Package tui provides the Bubble Tea integration for the runner.
// It owns the game loop scheduler, input mapping and colour rendering.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/mindora-runner/internal/ledger"
)

// TickMsg is sent to trigger a game simulation tick. Gen identifies the
// tick chain that scheduled it.
type TickMsg struct {
	Gen  int
	Time time.Time
}

// QuizTickMsg advances the quiz countdown by one second.
type QuizTickMsg struct {
	Gen int
}

// LedgerMsg carries a dispatcher result into the update loop.
type LedgerMsg ledger.Result

// tickCmd returns a Bubble Tea command that sends one tick message at the
// specified rate.
func tickCmd(tickRate, gen int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Gen: gen, Time: t}
	})
}

func quizTickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return QuizTickMsg{Gen: gen}
	})
}

// waitForLedger blocks on the dispatcher channel until the next result.
func waitForLedger(results <-chan ledger.Result) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-results
		if !ok {
			return nil
		}
		return LedgerMsg(r)
	}
}
