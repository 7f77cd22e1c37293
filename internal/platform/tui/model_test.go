package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/mindora-runner/internal/catalog"
	"github.com/vovakirdan/mindora-runner/internal/config"
	"github.com/vovakirdan/mindora-runner/internal/core"
	"github.com/vovakirdan/mindora-runner/internal/games/runner"
	"github.com/vovakirdan/mindora-runner/internal/ledger"
	"github.com/vovakirdan/mindora-runner/internal/storage"
)

var pickB = catalog.Question{
	ID:        "pick-b",
	Prompt:    "Pick B",
	Options:   []string{"A", "B", "C", "D"},
	Correct:   1,
	Points:    50,
	TimeLimit: 3,
}

func testCatalog(t *testing.T, stages ...catalog.Stage) *catalog.Catalog {
	t.Helper()
	for i := range stages {
		stages[i].ID = i + 1
	}
	c, err := catalog.New(stages, []catalog.Question{pickB})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return c
}

func newTestModel(t *testing.T, stage catalog.Stage, opts Options) Model {
	t.Helper()
	cat := testCatalog(t, stage)
	cfg := config.DefaultRunnerConfig()
	cfg.World.BobAmplitude = 0
	opts.Catalog = cat
	opts.Runtime = core.DefaultConfig()
	return NewModel(runner.New(cfg, cat), opts)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// tick delivers one tick of the live chain.
func tick(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = update(t, m, TickMsg{Gen: m.gen, Time: time.Now()})
	return m
}

func TestModelIdleUntilStart(t *testing.T) {
	m := newTestModel(t, catalog.Stage{Name: "Flat", Speed: 2, Length: 100000}, Options{})

	if cmd := m.Init(); cmd != nil {
		t.Error("Init without a ledger should schedule nothing")
	}
	if m.ticking {
		t.Fatal("no tick chain should run before Start")
	}

	// Ticks for an unknown chain are dropped.
	m, cmd := update(t, m, TickMsg{Gen: 0})
	if cmd != nil || m.game.Snapshot().Progress.Ticks != 0 {
		t.Error("tick before Start should be ignored")
	}

	m, cmd = update(t, m, keyMsg("enter"))
	if m.game.Phase() != runner.PhaseRunning {
		t.Fatalf("phase = %v, want Running", m.game.Phase())
	}
	if !m.ticking || m.gen != 1 || cmd == nil {
		t.Fatalf("Start should begin chain 1 (ticking=%v gen=%d)", m.ticking, m.gen)
	}

	m = tick(t, m)
	if got := m.game.Snapshot().Progress.Ticks; got != 1 {
		t.Errorf("Ticks = %d, want 1", got)
	}
}

func TestModelDropsStaleTicks(t *testing.T) {
	m := newTestModel(t, catalog.Stage{Name: "Flat", Speed: 2, Length: 100000}, Options{})
	m, _ = update(t, m, keyMsg("enter"))
	m = tick(t, m)

	// Pause is buffered and applied at the next tick.
	m, _ = update(t, m, keyMsg("p"))
	if m.game.Phase() != runner.PhaseRunning {
		t.Fatal("pause should wait for the tick boundary")
	}
	m = tick(t, m)
	if m.game.Phase() != runner.PhasePaused || m.ticking {
		t.Fatalf("phase = %v ticking = %v, want Paused and idle", m.game.Phase(), m.ticking)
	}
	pausedTicks := m.game.Snapshot().Progress.Ticks

	// Resume applies at once and starts a new chain.
	oldGen := m.gen
	m, _ = update(t, m, keyMsg("enter"))
	if m.game.Phase() != runner.PhaseRunning || m.gen != oldGen+1 {
		t.Fatalf("resume: phase = %v gen = %d", m.game.Phase(), m.gen)
	}

	m, _ = update(t, m, TickMsg{Gen: oldGen})
	if got := m.game.Snapshot().Progress.Ticks; got != pausedTicks {
		t.Errorf("stale chain advanced the game: ticks %d -> %d", pausedTicks, got)
	}

	m = tick(t, m)
	if got := m.game.Snapshot().Progress.Ticks; got != pausedTicks+1 {
		t.Errorf("Ticks = %d, want %d", got, pausedTicks+1)
	}
}

func TestModelQuizClock(t *testing.T) {
	stage := catalog.Stage{
		Name:   "Wall",
		Speed:  2,
		Length: 100000,
		Walls:  []catalog.WallSpec{{X: 300, Y: 200, QuestionID: pickB.ID}},
	}
	m := newTestModel(t, stage, Options{})
	m, _ = update(t, m, keyMsg("enter"))

	for i := 0; i < 200 && m.game.Phase() == runner.PhaseRunning; i++ {
		m = tick(t, m)
	}
	if m.game.Phase() != runner.PhaseQuizPending {
		t.Fatalf("phase = %v, want QuizPending", m.game.Phase())
	}
	if m.ticking || !m.quizClock {
		t.Fatalf("quiz should stop ticks and start the clock (ticking=%v clock=%v)", m.ticking, m.quizClock)
	}

	m, _ = update(t, m, QuizTickMsg{Gen: m.quizGen})
	if q := m.game.Snapshot().Quiz; q == nil || q.Remaining != pickB.TimeLimit-1 {
		t.Fatalf("quiz after one second = %+v", q)
	}

	// Stale clock messages are ignored.
	m, _ = update(t, m, QuizTickMsg{Gen: m.quizGen - 1})
	if q := m.game.Snapshot().Quiz; q.Remaining != pickB.TimeLimit-1 {
		t.Errorf("stale quiz tick counted down to %d", q.Remaining)
	}

	m, cmd := update(t, m, keyMsg("2"))
	if m.game.Phase() != runner.PhaseRunning || !m.ticking || cmd == nil {
		t.Fatalf("correct answer should resume ticking (phase=%v)", m.game.Phase())
	}
	if m.quizClock {
		t.Error("quiz clock should stop once the panel closes")
	}
	if got := m.game.Snapshot().Progress.Score; got != pickB.Points {
		t.Errorf("Score = %d, want %d", got, pickB.Points)
	}
}

func TestModelQuizTimeoutStops(t *testing.T) {
	stage := catalog.Stage{
		Name:   "Wall",
		Speed:  2,
		Length: 100000,
		Walls:  []catalog.WallSpec{{X: 300, Y: 200, QuestionID: pickB.ID}},
	}
	m := newTestModel(t, stage, Options{})
	m, _ = update(t, m, keyMsg("enter"))
	for i := 0; i < 200 && m.game.Phase() == runner.PhaseRunning; i++ {
		m = tick(t, m)
	}

	for i := 0; i < pickB.TimeLimit; i++ {
		m, _ = update(t, m, QuizTickMsg{Gen: m.quizGen})
	}
	s := m.game.Snapshot()
	if s.Phase != runner.PhaseStopped || s.Reason != runner.ReasonTimeout {
		t.Fatalf("phase = %v reason = %v, want Stopped by timeout", s.Phase, s.Reason)
	}
	if m.quizClock || m.ticking {
		t.Error("nothing should be scheduled after the run stops")
	}
}

func TestModelSavesFinishedRun(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	stage := catalog.Stage{Name: "Short", Speed: 2, Length: 20}
	cat := testCatalog(t, stage)
	d := ledger.NewDispatcher(ledger.NewLocal(store, cat, nil), time.Second, nil)
	defer d.Close()

	cfg := config.DefaultRunnerConfig()
	m := NewModel(runner.New(cfg, cat), Options{
		Runtime: core.DefaultConfig(),
		Address: "0.0.31337",
		Catalog: cat,
		Ledger:  d,
	})

	m, _ = update(t, m, keyMsg("enter"))
	for i := 0; i < 20 && m.game.Phase() == runner.PhaseRunning; i++ {
		m = tick(t, m)
	}
	if m.game.Phase() != runner.PhaseCompleted {
		t.Fatalf("phase = %v, want Completed", m.game.Phase())
	}
	if m.status != ledger.StatusSaving || m.claimStage != 1 {
		t.Fatalf("status = %v claimStage = %d, want saving for stage 1", m.status, m.claimStage)
	}

	want := []ledger.Status{ledger.StatusSaved, ledger.StatusMinting, ledger.StatusMinted}
	for _, st := range want {
		msg := waitForLedger(d.Results())()
		m, _ = update(t, m, msg)
		if m.status != st {
			t.Fatalf("status = %v, want %v", m.status, st)
		}
	}

	// Claiming again reports the duplicate without touching progress.
	m, _ = update(t, m, keyMsg("m"))
	if m.status != ledger.StatusMinting {
		t.Fatalf("status = %v, want minting", m.status)
	}
	m, _ = update(t, m, waitForLedger(d.Results())())
	if m.status != ledger.StatusMintFailed || m.statusNote != "already claimed" {
		t.Errorf("status = %v (%s), want mint failed (already claimed)", m.status, m.statusNote)
	}
	if m.game.Phase() != runner.PhaseCompleted {
		t.Error("ledger failures must not change the game phase")
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t, catalog.Stage{Name: "Flat", Speed: 2, Length: 100000}, Options{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	if h := m.screen.Height(); h >= 24 {
		t.Errorf("screen height = %d, want room for the help line", h)
	}
	if v := m.View(); v == "" {
		t.Error("View() should not be empty")
	}

	m, _ = update(t, m, keyMsg("q"))
	if v := m.View(); v != "" {
		t.Error("View() after quit should be empty")
	}
}
