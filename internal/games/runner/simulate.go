package runner

import (
	"github.com/vovakirdan/mindora-runner/internal/catalog"
	"github.com/vovakirdan/mindora-runner/internal/core"
)

// Autopilot decides the input for the next tick from the last snapshot.
// It jumps when an obstacle enters a window sized from the scroll speed so
// the body is clear of it by the time it arrives.
type Autopilot struct {
	RangeX float64 // Obstacle horizontal threshold
}

// Frame returns the input frame for the next tick.
func (a Autopilot) Frame(s Snapshot) core.InputFrame {
	in := core.NewInputFrame()
	if s.Phase != PhaseRunning || !s.Body.Grounded {
		return in
	}
	lead := a.RangeX + 3*s.Stage.Speed + 1
	for _, o := range s.Obstacles {
		dx := o.X - s.Body.X
		if dx > 0 && dx <= lead {
			in.Set(core.ActionJump)
			break
		}
	}
	return in
}

// Answerer picks an option for a question. Returning -1, or any option
// that is not on the panel, lets the quiz time out.
type Answerer func(q catalog.Question) int

// AnswerCorrectly always picks the right option.
func AnswerCorrectly(q catalog.Question) int {
	return q.Correct
}

// AnswerWrongly always picks a wrong option.
func AnswerWrongly(q catalog.Question) int {
	return (q.Correct + 1) % len(q.Options)
}

// SimOptions configures a headless run.
type SimOptions struct {
	MaxTicks int      // Safety bound, default ten times the stage length in ticks
	Answer   Answerer // Default AnswerCorrectly
	Pilot    *Autopilot
	OnStep   func(StepResult)
}

// SimResult is the outcome of a headless run.
type SimResult struct {
	Final  Snapshot
	Events []Event
	Ticks  int
}

// Session returns the summary of the finished run, if it finished.
func (r SimResult) Session() (SessionSummary, bool) {
	for i := len(r.Events) - 1; i >= 0; i-- {
		if r.Events[i].Kind == EventSessionEnd && r.Events[i].Session != nil {
			return *r.Events[i].Session, true
		}
	}
	return SessionSummary{}, false
}

// Simulate plays the selected stage without a terminal, driving the same
// Step loop the interactive scheduler uses. Quiz timeouts are simulated by
// counting the quiz clock down a second at a time.
func Simulate(g *Game, opts SimOptions) SimResult {
	if opts.Answer == nil {
		opts.Answer = AnswerCorrectly
	}
	if opts.Pilot == nil {
		opts.Pilot = &Autopilot{RangeX: g.cfg.Collision.ObstacleRangeX}
	}
	if opts.MaxTicks <= 0 {
		stage, _ := g.cat.Stage(g.m.StageID())
		opts.MaxTicks = 10*stage.Ticks() + 100
	}

	var res SimResult
	record := func(r StepResult) {
		res.Events = append(res.Events, r.Events...)
		if opts.OnStep != nil {
			opts.OnStep(r)
		}
	}

	if g.Phase().Terminal() {
		record(g.Apply(core.ActionRestart))
	}
	record(g.Apply(core.ActionStart))

	for res.Ticks < opts.MaxTicks {
		s := g.Snapshot()
		switch s.Phase {
		case PhaseRunning:
			record(g.Step(opts.Pilot.Frame(s)))
			res.Ticks++
		case PhaseQuizPending:
			var r StepResult
			if i := opts.Answer(s.Quiz.Question); i >= 0 {
				r = g.Apply(core.AnswerAction(i))
			}
			if len(r.Events) == 0 {
				// No usable answer: let the clock run.
				r = g.QuizSecond()
			}
			record(r)
		case PhasePaused:
			record(g.Apply(core.ActionStart))
		default:
			res.Final = g.Snapshot()
			return res
		}
	}
	res.Final = g.Snapshot()
	return res
}
