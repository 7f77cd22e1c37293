package runner

import (
	"github.com/vovakirdan/mindora-runner/internal/catalog"
	"github.com/vovakirdan/mindora-runner/internal/core"
)

// StageInfo is the read-only view of the selected stage.
type StageInfo struct {
	ID     int
	Name   string
	Speed  float64 // Effective scroll speed after difficulty scaling
	Length float64
	Count  int // Number of stages in the catalog
	Reward catalog.Reward
}

// QuizView is the read-only view of the open question.
type QuizView struct {
	WallID    int
	Question  catalog.Question
	TimeLimit int
	Remaining int
}

// Snapshot is an immutable copy of the committed state after a tick or
// command. Render and the platform only ever read snapshots.
type Snapshot struct {
	Phase     Phase
	Reason    StopReason
	Stage     StageInfo
	Unlocked  int
	Body      Body
	Coins     []Coin
	Obstacles []Obstacle
	Walls     []Wall
	Progress  Progress
	Quiz      *QuizView
	Last      *SessionSummary
}

// Fraction returns stage progress in [0, 1].
func (s Snapshot) Fraction() float64 {
	if s.Stage.Length <= 0 {
		return 0
	}
	return core.ClampF(s.Progress.Distance/s.Stage.Length, 0, 1)
}

// Snapshot copies the current state.
func (m *Machine) Snapshot() Snapshot {
	coins, obstacles, walls := m.world.clone()
	snap := Snapshot{
		Phase:  m.phase,
		Reason: m.reason,
		Stage: StageInfo{
			ID:     m.stage.ID,
			Name:   m.stage.Name,
			Speed:  m.speed,
			Length: m.stage.Length,
			Count:  m.cat.Len(),
			Reward: m.stage.Reward,
		},
		Unlocked:  m.unlocked,
		Body:      m.body,
		Coins:     coins,
		Obstacles: obstacles,
		Walls:     walls,
		Progress:  m.progress,
	}
	if m.quiz != nil {
		snap.Quiz = &QuizView{
			WallID:    m.quiz.WallID,
			Question:  m.quiz.Question,
			TimeLimit: m.quiz.TimeLimit,
			Remaining: m.quiz.Remaining,
		}
	}
	if m.last != nil {
		last := *m.last
		snap.Last = &last
	}
	return snap
}
