package runner

import (
	"testing"

	"github.com/vovakirdan/mindora-runner/internal/catalog"
	"github.com/vovakirdan/mindora-runner/internal/config"
)

func TestCoinCollectedOnTick100(t *testing.T) {
	cfg := flatConfig()
	cfg.Collision.CoinRangeX = 2
	stage := catalog.Stage{Speed: 2, Length: 5000, Coins: []catalog.Point{{X: 300, Y: 450}}}
	m := started(t, cfg, stage)

	for i := 1; i <= 99; i++ {
		m.Tick()
		if n := countEvents(m.Drain(), EventCoin); n != 0 {
			t.Fatalf("coin collected early on tick %d", i)
		}
	}
	if m.progress.Coins != 0 {
		t.Fatalf("coins = %d before tick 100", m.progress.Coins)
	}

	m.Tick()
	if n := countEvents(m.Drain(), EventCoin); n != 1 {
		t.Fatalf("expected one coin event on tick 100, got %d", n)
	}
	if m.progress.Coins != 10 || m.progress.Score != 10 {
		t.Errorf("coins/score = %d/%d, expected 10/10", m.progress.Coins, m.progress.Score)
	}
}

func TestCoinCollectedExactlyOnce(t *testing.T) {
	cfg := flatConfig()
	cfg.Collision.CoinRangeX = 200 // in range for many ticks
	stage := catalog.Stage{Speed: 2, Length: 5000, Coins: []catalog.Point{{X: 150, Y: 450}}}
	m := started(t, cfg, stage)

	total := 0
	for i := 0; i < 150; i++ {
		m.Tick()
		total += countEvents(m.Drain(), EventCoin)
	}
	if total != 1 {
		t.Errorf("coin collected %d times, expected once", total)
	}
	if m.progress.Coins != 10 {
		t.Errorf("coins = %d, expected 10", m.progress.Coins)
	}
	if len(m.world.Coins) != 0 {
		t.Errorf("collected coin should be pruned, %d remain", len(m.world.Coins))
	}
}

func TestObstacleStopsWithoutSameTickScore(t *testing.T) {
	cfg := flatConfig()
	cfg.Collision.CoinRangeX = cfg.Collision.ObstacleRangeX
	stage := catalog.Stage{
		Speed:     2,
		Length:    5000,
		Coins:     []catalog.Point{{X: 200, Y: 450}},
		Obstacles: []catalog.ObstacleSpec{{X: 200, Y: 450, Kind: catalog.KindSpike}},
	}
	m := started(t, cfg, stage)

	var events []Event
	for i := 0; i < 100 && m.Phase() == PhaseRunning; i++ {
		m.Tick()
		events = append(events, m.Drain()...)
	}

	if m.Phase() != PhaseStopped || m.reason != ReasonObstacle {
		t.Fatalf("phase = %v reason = %v, expected stopped by obstacle", m.Phase(), m.reason)
	}
	if countEvents(events, EventCoin) != 0 || m.progress.Coins != 0 || m.progress.Score != 0 {
		t.Errorf("striking tick must not award the coin: coins=%d score=%d", m.progress.Coins, m.progress.Score)
	}
	if countEvents(events, EventObstacle) != 1 {
		t.Error("expected one obstacle event")
	}

	ticks := m.progress.Ticks
	m.Tick()
	if m.progress.Ticks != ticks {
		t.Error("no tick may run after the run stops")
	}
}

func TestObstaclePreferredOverWall(t *testing.T) {
	cfg := flatConfig()
	cfg.Collision.WallRangeX = cfg.Collision.ObstacleRangeX
	stage := catalog.Stage{
		Speed:     2,
		Length:    5000,
		Obstacles: []catalog.ObstacleSpec{{X: 300, Y: 450, Kind: catalog.KindBlock}},
		Walls:     []catalog.WallSpec{{X: 300, Y: 200, QuestionID: pickB.ID}},
	}
	m := started(t, cfg, stage)

	for i := 0; i < 200 && m.Phase() == PhaseRunning; i++ {
		m.Tick()
	}
	if m.Phase() != PhaseStopped {
		t.Fatalf("phase = %v, expected stopped", m.Phase())
	}
	if m.quiz != nil {
		t.Error("no quiz should open on the striking tick")
	}
}

func TestProgressMonotonicAndReset(t *testing.T) {
	m := started(t, config.DefaultRunnerConfig(), emptyStage(100000))

	prev := 0.0
	for i := 0; i < 300; i++ {
		m.Tick()
		if m.progress.Distance < prev {
			t.Fatalf("distance decreased on tick %d: %v < %v", i, m.progress.Distance, prev)
		}
		prev = m.progress.Distance
	}
	if m.progress.Distance != 600 || m.progress.Ticks != 300 {
		t.Errorf("distance/ticks = %v/%d, expected 600/300", m.progress.Distance, m.progress.Ticks)
	}

	m.TogglePause()
	if !m.Restart() {
		t.Fatal("restart from paused should succeed")
	}
	if m.Phase() != PhaseNotStarted || m.progress != (Progress{}) {
		t.Errorf("restart should zero progress, got %v %+v", m.Phase(), m.progress)
	}
}

func TestCompletionAtTick750(t *testing.T) {
	stage := catalog.Stage{
		Speed:  2,
		Length: 1500,
		Coins:  []catalog.Point{{X: 5000, Y: 100}}, // never reached
	}
	m := started(t, flatConfig(), stage)

	for i := 1; i < 750; i++ {
		m.Tick()
		if m.Phase() != PhaseRunning {
			t.Fatalf("run ended early on tick %d: %v", i, m.Phase())
		}
	}
	m.Tick()
	if m.Phase() != PhaseCompleted || m.reason != ReasonCompleted {
		t.Fatalf("phase = %v, expected completed on tick 750", m.Phase())
	}
	if len(m.world.Coins) != 1 {
		t.Error("completion must not depend on remaining entities")
	}

	events := m.Drain()
	if countEvents(events, EventComplete) != 1 {
		t.Error("expected a complete event")
	}
	var summary *SessionSummary
	for _, e := range events {
		if e.Kind == EventSessionEnd {
			summary = e.Session
		}
	}
	if summary == nil || !summary.Completed || summary.Ticks != 750 || summary.Stage != 1 {
		t.Errorf("unexpected session summary %+v", summary)
	}
}

func TestCompletionWinsOverWallOnFinalTick(t *testing.T) {
	stage := wallStage()
	stage.Length = 152 // reached on tick 76, the tick the wall comes into range
	m := started(t, flatConfig(), stage)

	for i := 0; i < 500 && m.Phase() == PhaseRunning; i++ {
		m.Tick()
	}
	if m.Phase() != PhaseCompleted || m.reason != ReasonCompleted {
		t.Fatalf("phase = %v, expected completed", m.Phase())
	}
	if m.progress.Ticks != 76 {
		t.Errorf("completed on tick %d, expected 76", m.progress.Ticks)
	}
	if m.quiz != nil {
		t.Error("no question should be open after completion")
	}
	if n := countEvents(m.Drain(), EventQuizOpen); n != 0 {
		t.Errorf("quiz opened %d times on the completing tick", n)
	}
}

// wallStage puts one wall in the player's path; it opens on tick 76.
func wallStage() catalog.Stage {
	return catalog.Stage{
		Speed:  2,
		Length: 5000,
		Walls:  []catalog.WallSpec{{X: 300, Y: 200, QuestionID: pickB.ID}},
	}
}

func runToQuiz(t *testing.T, m *Machine) {
	t.Helper()
	for i := 0; i < 500 && m.Phase() == PhaseRunning; i++ {
		m.Tick()
	}
	if m.Phase() != PhaseQuizPending || m.quiz == nil {
		t.Fatalf("phase = %v, expected quiz pending", m.Phase())
	}
	if m.progress.Ticks != 76 {
		t.Errorf("quiz opened on tick %d, expected 76", m.progress.Ticks)
	}
	m.Drain()
}

func TestCorrectAnswerAwardsPoints(t *testing.T) {
	m := started(t, flatConfig(), wallStage())
	runToQuiz(t, m)

	ticks := m.progress.Ticks
	m.Tick()
	if m.progress.Ticks != ticks {
		t.Fatal("ticks must not advance while the quiz is open")
	}

	if !m.Answer(1) {
		t.Fatal("answer should be accepted")
	}
	if m.Phase() != PhaseRunning {
		t.Fatalf("phase = %v, expected running", m.Phase())
	}
	if m.progress.Score != 50 || m.progress.QuestionsCorrect != 1 {
		t.Errorf("score/correct = %d/%d, expected 50/1", m.progress.Score, m.progress.QuestionsCorrect)
	}
	if !m.world.Walls[0].Answered {
		t.Error("wall should be answered")
	}

	// The wall is still in range but never reopens.
	for i := 0; i < 60; i++ {
		m.Tick()
	}
	if n := countEvents(m.Drain(), EventQuizOpen); n != 0 {
		t.Errorf("answered wall reopened %d times", n)
	}
	if m.Phase() != PhaseRunning {
		t.Errorf("phase = %v, expected running", m.Phase())
	}
}

func TestWrongAnswerPolicies(t *testing.T) {
	tests := []struct {
		policy     config.WrongAnswerPolicy
		wantPhase  Phase
		wantFailed bool
	}{
		{config.OnWrongStop, PhaseStopped, false},
		{config.OnWrongSkip, PhaseRunning, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			cfg := flatConfig()
			cfg.Quiz.OnWrong = tt.policy
			m := started(t, cfg, wallStage())
			runToQuiz(t, m)

			m.Answer(3)
			if m.Phase() != tt.wantPhase {
				t.Fatalf("phase = %v, expected %v", m.Phase(), tt.wantPhase)
			}
			if m.progress.Score != 0 || m.progress.QuestionsCorrect != 0 {
				t.Errorf("wrong answer awarded score %d", m.progress.Score)
			}
			w := m.world.Walls[0]
			if w.Answered {
				t.Error("wrong answer must not mark the wall answered")
			}
			if w.Failed != tt.wantFailed {
				t.Errorf("wall failed = %v, expected %v", w.Failed, tt.wantFailed)
			}
			if tt.wantPhase == PhaseStopped && m.reason != ReasonWrongAnswer {
				t.Errorf("reason = %v, expected wrong answer", m.reason)
			}
			if tt.wantPhase == PhaseRunning {
				for i := 0; i < 60; i++ {
					m.Tick()
				}
				if m.Phase() != PhaseRunning {
					t.Error("failed wall should not reopen")
				}
			}
		})
	}
}

func TestQuizTimeoutEqualsWrongAnswer(t *testing.T) {
	m := started(t, flatConfig(), wallStage())
	runToQuiz(t, m)

	for i := 0; i < pickB.TimeLimit-1; i++ {
		if m.QuizSecond() {
			t.Fatalf("quiz expired after %d seconds", i+1)
		}
	}
	if m.quiz.Remaining != 1 {
		t.Fatalf("remaining = %d, expected 1", m.quiz.Remaining)
	}
	if !m.QuizSecond() {
		t.Fatal("quiz should expire at zero")
	}
	if m.Phase() != PhaseStopped || m.reason != ReasonTimeout {
		t.Errorf("phase/reason = %v/%v, expected stopped/timeout", m.Phase(), m.reason)
	}
	if m.progress.Score != 0 {
		t.Errorf("timeout awarded %d points", m.progress.Score)
	}

	// A late answer is a no-op.
	if m.Answer(1) {
		t.Error("answer after timeout should be ignored")
	}
}

func TestInvalidAnswersIgnored(t *testing.T) {
	m := started(t, flatConfig(), wallStage())
	if m.Answer(1) {
		t.Error("answer with no open panel should be ignored")
	}

	runToQuiz(t, m)
	for _, opt := range []int{-1, 4, 9} {
		if m.Answer(opt) {
			t.Errorf("out of range option %d should be ignored", opt)
		}
	}
	if m.Phase() != PhaseQuizPending {
		t.Errorf("phase = %v, expected the quiz to stay open", m.Phase())
	}
}

func TestQuizTimeLimitScaled(t *testing.T) {
	cfg := flatConfig()
	config.ApplyPreset(&cfg, config.DifficultyEasy)
	m := started(t, cfg, wallStage())
	runToQuiz(t, m)

	if m.quiz.TimeLimit != 5 { // round(3 * 1.5)
		t.Errorf("time limit = %d, expected 5", m.quiz.TimeLimit)
	}
}

func TestPauseKeepsPositions(t *testing.T) {
	stage := catalog.Stage{Speed: 2, Length: 5000, Coins: []catalog.Point{{X: 900, Y: 300}}}
	m := started(t, flatConfig(), stage)
	for i := 0; i < 20; i++ {
		m.Tick()
	}

	if !m.TogglePause() || m.Phase() != PhasePaused {
		t.Fatal("pause should succeed while running")
	}
	body, coinX, dist := m.body, m.world.Coins[0].X, m.progress.Distance
	for i := 0; i < 10; i++ {
		m.Tick()
	}
	if m.body != body || m.world.Coins[0].X != coinX || m.progress.Distance != dist {
		t.Fatal("paused ticks must not move anything")
	}

	if !m.Start() || m.Phase() != PhaseRunning {
		t.Fatal("start should resume from pause")
	}
	if m.world.Coins[0].X != coinX {
		t.Error("resume must keep positions")
	}
	m.Tick()
	if m.world.Coins[0].X != coinX-2 {
		t.Errorf("coin x = %v, expected %v after one more tick", m.world.Coins[0].X, coinX-2)
	}
}

func TestDespawnBounds(t *testing.T) {
	stage := catalog.Stage{
		Speed:     10,
		Length:    100000,
		Coins:     []catalog.Point{{X: 0, Y: 100}},
		Obstacles: []catalog.ObstacleSpec{{X: 0, Y: 100, Kind: catalog.KindPit}},
		Walls:     []catalog.WallSpec{{X: 0, Y: 0, QuestionID: pickB.ID}},
	}
	cfg := flatConfig()
	cfg.Collision.WallSpan = 1 // never touched
	m := started(t, cfg, stage)

	m.Tick() // x = -10
	m.Tick() // x = -20
	m.Tick() // x = -30
	m.Tick() // x = -40
	if len(m.world.Coins) != 1 || len(m.world.Obstacles) != 1 {
		t.Fatal("entities above -50 should remain")
	}
	m.Tick() // x = -50
	if len(m.world.Coins) != 0 || len(m.world.Obstacles) != 0 {
		t.Error("coins and obstacles at -50 should be pruned")
	}
	if len(m.world.Walls) != 1 {
		t.Fatal("walls remain until -100")
	}
	for i := 0; i < 5; i++ {
		m.Tick()
	}
	if len(m.world.Walls) != 0 {
		t.Error("wall at -100 should be pruned")
	}
}

func TestStageSelectionAndAdvance(t *testing.T) {
	short := catalog.Stage{Speed: 2, Length: 10}
	m := NewMachine(flatConfig(), testCatalog(t, short, short))

	if m.SelectStage(2) {
		t.Fatal("stage 2 should be locked")
	}
	if m.Advance() {
		t.Fatal("advance requires a completed run")
	}

	m.Start()
	if m.SelectStage(1) {
		t.Error("stage select is not allowed while running")
	}
	for i := 0; i < 5; i++ {
		m.Tick()
	}
	if m.Phase() != PhaseCompleted {
		t.Fatalf("phase = %v, expected completed", m.Phase())
	}
	if m.Unlocked() != 2 {
		t.Errorf("unlocked = %d, expected 2", m.Unlocked())
	}

	if !m.Advance() || m.StageID() != 2 || m.Phase() != PhaseNotStarted {
		t.Fatalf("advance should move to stage 2, got stage %d phase %v", m.StageID(), m.Phase())
	}
	if !m.SelectStage(1) {
		t.Error("completed stage should stay selectable")
	}

	// Finishing the last stage does not unlock past the catalog.
	m.Unlock(5)
	if m.Unlocked() != 2 {
		t.Errorf("unlocked = %d, expected cap at 2", m.Unlocked())
	}
}

func TestRestartRebuildsEntities(t *testing.T) {
	stage := catalog.Stage{Speed: 2, Length: 5000, Coins: []catalog.Point{{X: 400, Y: 300}}}
	m := started(t, flatConfig(), stage)
	for i := 0; i < 30; i++ {
		m.Tick()
	}
	m.TogglePause()
	m.Restart()

	if m.world.Coins[0].X != 400 {
		t.Errorf("restart should rebuild coins at their layout position, got x=%v", m.world.Coins[0].X)
	}
	if m.body != m.physics.Spawn() {
		t.Errorf("restart should reset the body, got %+v", m.body)
	}
	if m.Restart() {
		t.Error("restart from NotStarted should be a no-op")
	}
}
