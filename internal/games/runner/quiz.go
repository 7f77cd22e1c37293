package runner

import "github.com/vovakirdan/mindora-runner/internal/catalog"

// Quiz is the single open question panel, bound to the wall that opened it.
type Quiz struct {
	WallID    int
	Question  catalog.Question
	TimeLimit int // Effective limit in seconds after difficulty scaling
	Remaining int // Seconds left
}

func newQuiz(wallID int, q catalog.Question, limit int) *Quiz {
	return &Quiz{
		WallID:    wallID,
		Question:  q,
		TimeLimit: limit,
		Remaining: limit,
	}
}

// validOption reports whether i indexes one of the question's options.
func (q *Quiz) validOption(i int) bool {
	return i >= 0 && i < len(q.Question.Options)
}

// countdown removes one second and reports whether the time is up.
func (q *Quiz) countdown() bool {
	if q.Remaining > 0 {
		q.Remaining--
	}
	return q.Remaining == 0
}
