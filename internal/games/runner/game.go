// Package runner implements the Mindora runner: a side-scrolling course of
// coins, obstacles and knowledge walls. The package is pure game logic with
// no terminal or ledger dependencies; the platform feeds it input frames and
// reads back snapshots and events.
package runner

import (
	"github.com/vovakirdan/mindora-runner/internal/catalog"
	"github.com/vovakirdan/mindora-runner/internal/config"
	"github.com/vovakirdan/mindora-runner/internal/core"
)

// StepResult is returned after every tick or command.
type StepResult struct {
	Snapshot Snapshot
	Events   []Event
}

// Game is the runner as seen by a driver: commands and buffered input in,
// snapshots and events out.
type Game struct {
	cfg  config.RunnerConfig
	cat  *catalog.Catalog
	m    *Machine
	snap Snapshot
}

// New creates a game on stage 1.
func New(cfg config.RunnerConfig, cat *catalog.Catalog) *Game {
	g := &Game{cfg: cfg, cat: cat}
	g.Reset()
	return g
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "runner"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Mindora Runner"
}

// Reset discards all progress, including stage unlocks.
func (g *Game) Reset() {
	g.m = NewMachine(g.cfg, g.cat)
	g.snap = g.m.Snapshot()
}

// Unlock restores stage unlocks from a player's completed stages.
func (g *Game) Unlock(completed int) {
	g.m.Unlock(completed)
	g.snap = g.m.Snapshot()
}

// Snapshot returns the last committed snapshot.
func (g *Game) Snapshot() Snapshot {
	return g.snap
}

// Phase returns the current phase.
func (g *Game) Phase() Phase {
	return g.snap.Phase
}

// commandOrder is the order in which buffered actions apply at a tick
// boundary. The lowest answer and then Jump follow, so a jump sees the phase
// the other commands left.
var commandOrder = []core.Action{
	core.ActionRestart,
	core.ActionStagePrev,
	core.ActionStageNext,
	core.ActionAdvance,
	core.ActionPause,
	core.ActionStart,
}

// Apply executes one command immediately. Drivers use it while no tick is
// scheduled.
func (g *Game) Apply(a core.Action) StepResult {
	g.command(a)
	return g.commit()
}

// Step consumes a buffered input frame and advances one tick if the game
// is running afterwards.
func (g *Game) Step(in core.InputFrame) StepResult {
	if !in.Empty() {
		g.applyFrame(in)
	}
	g.m.Tick()
	return g.commit()
}

func (g *Game) applyFrame(in core.InputFrame) {
	paused := false
	for _, a := range commandOrder {
		if !in.Has(a) {
			continue
		}
		// Start and Pause share a key in some layouts; one toggle per frame.
		if a == core.ActionStart && paused {
			continue
		}
		if g.command(a) && a == core.ActionPause {
			paused = true
		}
	}
	if i, ok := in.Answer(); ok {
		g.m.Answer(i)
	}
	if in.Has(core.ActionJump) {
		g.m.Jump()
	}
}

// SelectStage picks an unlocked stage while no run is active. Locked or
// unknown stages are ignored.
func (g *Game) SelectStage(id int) StepResult {
	g.m.SelectStage(id)
	return g.commit()
}

// QuizSecond advances the quiz countdown by one second.
func (g *Game) QuizSecond() StepResult {
	g.m.QuizSecond()
	return g.commit()
}

func (g *Game) command(a core.Action) bool {
	if idx, ok := a.AnswerIndex(); ok {
		return g.m.Answer(idx)
	}
	switch a {
	case core.ActionStart:
		return g.m.Start()
	case core.ActionPause:
		return g.m.TogglePause()
	case core.ActionRestart:
		return g.m.Restart()
	case core.ActionAdvance:
		return g.m.Advance()
	case core.ActionStagePrev:
		return g.m.SelectStage(g.m.StageID() - 1)
	case core.ActionStageNext:
		return g.m.SelectStage(g.m.StageID() + 1)
	case core.ActionJump:
		return g.m.Jump()
	}
	return false
}

func (g *Game) commit() StepResult {
	g.snap = g.m.Snapshot()
	return StepResult{Snapshot: g.snap, Events: g.m.Drain()}
}
