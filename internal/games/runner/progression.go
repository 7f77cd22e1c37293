package runner

import (
	"fmt"

	"github.com/vovakirdan/mindora-runner/internal/catalog"
	"github.com/vovakirdan/mindora-runner/internal/config"
)

// Phase is the state of the progression machine.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseRunning
	PhasePaused
	PhaseQuizPending
	PhaseStopped   // Run ended in failure
	PhaseCompleted // Run ended in success
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseQuizPending:
		return "quiz_pending"
	case PhaseStopped:
		return "stopped"
	case PhaseCompleted:
		return "completed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Terminal reports whether the run is over.
func (p Phase) Terminal() bool {
	return p == PhaseStopped || p == PhaseCompleted
}

// StopReason tells why a run left the Running phase for good.
type StopReason int

const (
	ReasonNone StopReason = iota
	ReasonObstacle
	ReasonWrongAnswer
	ReasonTimeout
	ReasonCompleted
)

func (r StopReason) String() string {
	switch r {
	case ReasonObstacle:
		return "obstacle"
	case ReasonWrongAnswer:
		return "wrong answer"
	case ReasonTimeout:
		return "timeout"
	case ReasonCompleted:
		return "completed"
	default:
		return "none"
	}
}

// Progress is the running tally of the current attempt.
type Progress struct {
	Distance         float64
	Coins            int
	Score            int
	Ticks            int
	QuestionsCorrect int
}

// Machine is the progression state machine. It exclusively owns score,
// coins, stage and quiz state; other components read snapshots or hand it
// proposed hits.
type Machine struct {
	cfg      config.RunnerConfig
	cat      *catalog.Catalog
	diff     *config.DifficultyManager
	physics  Physics
	detector Detector

	phase    Phase
	reason   StopReason
	stage    catalog.Stage
	speed    float64
	unlocked int

	body     Body
	world    *World
	progress Progress
	quiz     *Quiz
	last     *SessionSummary

	events []Event
}

// NewMachine creates a machine on stage 1 in the NotStarted phase.
func NewMachine(cfg config.RunnerConfig, cat *catalog.Catalog) *Machine {
	m := &Machine{
		cfg:      cfg,
		cat:      cat,
		diff:     config.NewDifficultyManager(cfg.Difficulty),
		physics:  NewPhysics(cfg.Physics),
		detector: NewDetector(cfg.Collision),
		unlocked: 1,
	}
	first, _ := cat.Stage(1) // validated catalogs always number stages from 1
	m.load(first)
	return m
}

// load resets the attempt for a stage without changing the phase.
func (m *Machine) load(s catalog.Stage) {
	m.stage = s
	m.speed = m.diff.Speed(s.Speed)
	m.body = m.physics.Spawn()
	m.world = NewWorld(s, m.cfg.World)
	m.progress = Progress{}
	m.quiz = nil
	m.reason = ReasonNone
}

func (m *Machine) emit(e Event) {
	if e.Stage == 0 {
		e.Stage = m.stage.ID
	}
	m.events = append(m.events, e)
}

// Drain returns and clears the pending events.
func (m *Machine) Drain() []Event {
	ev := m.events
	m.events = nil
	return ev
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.phase }

// StageID returns the selected stage number.
func (m *Machine) StageID() int { return m.stage.ID }

// Unlocked returns the highest stage that may be selected.
func (m *Machine) Unlocked() int { return m.unlocked }

// Unlock marks stages up to completed as done, making completed+1 selectable.
// Used to restore progress from a player record.
func (m *Machine) Unlock(completed int) {
	next := completed + 1
	if next > m.cat.Len() {
		next = m.cat.Len()
	}
	if next > m.unlocked {
		m.unlocked = next
	}
}

// Start begins the selected stage from NotStarted, or resumes from Paused.
func (m *Machine) Start() bool {
	switch m.phase {
	case PhaseNotStarted:
		m.load(m.stage)
		m.phase = PhaseRunning
		m.emit(Event{Kind: EventStart})
		return true
	case PhasePaused:
		m.phase = PhaseRunning
		m.emit(Event{Kind: EventResume})
		return true
	}
	return false
}

// TogglePause switches between Running and Paused. Positions are kept.
func (m *Machine) TogglePause() bool {
	switch m.phase {
	case PhaseRunning:
		m.phase = PhasePaused
		m.emit(Event{Kind: EventPause})
		return true
	case PhasePaused:
		return m.Start()
	}
	return false
}

// Restart abandons the attempt and rebuilds the stage in NotStarted. It does
// not touch any in-flight ledger work.
func (m *Machine) Restart() bool {
	switch m.phase {
	case PhaseStopped, PhaseCompleted, PhasePaused, PhaseQuizPending:
		m.load(m.stage)
		m.phase = PhaseNotStarted
		m.emit(Event{Kind: EventRestart})
		return true
	}
	return false
}

// SelectStage picks another unlocked stage while no run is active.
func (m *Machine) SelectStage(id int) bool {
	switch m.phase {
	case PhaseNotStarted, PhaseStopped, PhaseCompleted:
	default:
		return false
	}
	if id < 1 || id > m.unlocked {
		return false
	}
	s, err := m.cat.Stage(id)
	if err != nil {
		return false
	}
	m.load(s)
	m.phase = PhaseNotStarted
	m.emit(Event{Kind: EventStageSelect})
	return true
}

// Advance moves to the next stage after a completed run.
func (m *Machine) Advance() bool {
	if m.phase != PhaseCompleted || m.stage.ID >= m.cat.Len() {
		return false
	}
	return m.SelectStage(m.stage.ID + 1)
}

// Jump applies the jump impulse if running and grounded.
func (m *Machine) Jump() bool {
	if m.phase != PhaseRunning {
		return false
	}
	if !m.physics.Jump(&m.body) {
		return false
	}
	m.emit(Event{Kind: EventJump})
	return true
}

// Tick advances one simulation step. It is a no-op unless Running.
// Order: physics, scroll, prune, collision, commit, completion.
func (m *Machine) Tick() {
	if m.phase != PhaseRunning {
		return
	}

	m.physics.Integrate(&m.body)
	m.world.Scroll(m.speed)
	m.world.Prune()
	m.progress.Distance += m.speed
	m.progress.Ticks++

	hits := m.detector.Detect(m.body, m.world.Coins, m.world.Obstacles, m.world.Walls)
	m.commit(hits)

	if m.phase == PhaseRunning && m.progress.Distance >= m.stage.Length {
		m.finish(PhaseCompleted, ReasonCompleted)
	}
}

// commit applies the detector's proposals. An obstacle strike discards the
// coin and wall results of the same tick.
func (m *Machine) commit(h Hits) {
	if h.Struck() {
		m.emit(Event{Kind: EventObstacle, ID: h.Obstacle})
		m.finish(PhaseStopped, ReasonObstacle)
		return
	}

	for _, id := range h.Coins {
		if m.world.collect(id) {
			m.progress.Coins += m.cfg.Collision.CoinValue
			m.progress.Score += m.cfg.Collision.CoinScore
			m.emit(Event{Kind: EventCoin, ID: id, Points: m.cfg.Collision.CoinScore})
		}
	}

	// Reaching the stage length wins over a wall touched on the same tick.
	if h.Wall != 0 && m.progress.Distance < m.stage.Length {
		m.openQuiz(h.Wall)
	}
}

func (m *Machine) openQuiz(wallID int) {
	w := m.world.wall(wallID)
	if w == nil || !w.Open() || m.quiz != nil {
		return
	}
	q, ok := m.cat.Question(w.QuestionID)
	if !ok {
		// Validated catalogs never get here; treat the wall as inert.
		w.Failed = true
		return
	}
	m.quiz = newQuiz(wallID, q, m.diff.TimeLimit(q.TimeLimit))
	m.phase = PhaseQuizPending
	m.emit(Event{Kind: EventQuizOpen, ID: wallID})
}

// Answer submits an option for the open question. Out of range options and
// answers with no open panel are ignored.
func (m *Machine) Answer(option int) bool {
	if m.phase != PhaseQuizPending || m.quiz == nil || !m.quiz.validOption(option) {
		return false
	}
	if m.quiz.Question.IsCorrect(option) {
		q := m.quiz
		if w := m.world.wall(q.WallID); w != nil {
			w.Answered = true
		}
		m.progress.Score += q.Question.Points
		m.progress.QuestionsCorrect++
		m.quiz = nil
		m.phase = PhaseRunning
		m.emit(Event{Kind: EventAnswerCorrect, ID: q.WallID, Points: q.Question.Points})
		return true
	}
	m.emit(Event{Kind: EventAnswerWrong, ID: m.quiz.WallID})
	m.fail(ReasonWrongAnswer)
	return true
}

// QuizSecond counts the quiz clock down by one second. Reaching zero is the
// same as a wrong answer.
func (m *Machine) QuizSecond() bool {
	if m.phase != PhaseQuizPending || m.quiz == nil {
		return false
	}
	if !m.quiz.countdown() {
		return false
	}
	m.emit(Event{Kind: EventQuizTimeout, ID: m.quiz.WallID})
	m.fail(ReasonTimeout)
	return true
}

// fail resolves the open question without credit according to the
// configured policy.
func (m *Machine) fail(reason StopReason) {
	q := m.quiz
	m.quiz = nil
	switch m.cfg.Quiz.OnWrong {
	case config.OnWrongSkip:
		if w := m.world.wall(q.WallID); w != nil {
			w.Failed = true
		}
		m.phase = PhaseRunning
	default:
		m.finish(PhaseStopped, reason)
	}
}

func (m *Machine) finish(phase Phase, reason StopReason) {
	m.phase = phase
	m.reason = reason
	completed := phase == PhaseCompleted
	if completed {
		m.Unlock(m.stage.ID)
		m.emit(Event{Kind: EventComplete})
	}
	m.last = &SessionSummary{
		Stage:            m.stage.ID,
		Score:            m.progress.Score,
		Coins:            m.progress.Coins,
		QuestionsCorrect: m.progress.QuestionsCorrect,
		Ticks:            m.progress.Ticks,
		Distance:         m.progress.Distance,
		Completed:        completed,
		Reason:           reason,
	}
	summary := *m.last
	m.emit(Event{Kind: EventSessionEnd, Session: &summary})
}
