package runner

import (
	"math"

	"github.com/vovakirdan/mindora-runner/internal/catalog"
	"github.com/vovakirdan/mindora-runner/internal/config"
)

// Coin is a collectible. Collected coins stay in the list until the next prune.
type Coin struct {
	ID        int
	X, Y      float64
	Collected bool
}

// Obstacle ends the run on contact.
type Obstacle struct {
	ID   int
	X, Y float64
	Kind catalog.ObstacleKind
}

// Wall is a knowledge wall. Once answered or failed it is inert but keeps
// scrolling until it despawns, so its id is never reused within a run.
type Wall struct {
	ID         int
	X, Y       float64
	QuestionID string
	Answered   bool
	Failed     bool
}

// Open reports whether touching the wall still opens a question.
func (w Wall) Open() bool {
	return !w.Answered && !w.Failed
}

// World holds the live entities of one stage attempt.
type World struct {
	Coins     []Coin
	Obstacles []Obstacle
	Walls     []Wall
	cfg       config.WorldConfig
}

// NewWorld builds fresh entities from a stage layout. Ids are 1-based and
// unique per entity type.
func NewWorld(stage catalog.Stage, cfg config.WorldConfig) *World {
	w := &World{cfg: cfg}
	for i, p := range stage.CoinLayout() {
		w.Coins = append(w.Coins, Coin{ID: i + 1, X: p.X, Y: p.Y})
	}
	for i, o := range stage.Obstacles {
		w.Obstacles = append(w.Obstacles, Obstacle{ID: i + 1, X: o.X, Y: o.Y, Kind: o.Kind})
	}
	for i, s := range stage.Walls {
		w.Walls = append(w.Walls, Wall{ID: i + 1, X: s.X, Y: s.Y, QuestionID: s.QuestionID})
	}
	return w
}

// Scroll moves every entity left by speed. Coins bob vertically as a
// function of their x before the move.
func (w *World) Scroll(speed float64) {
	for i := range w.Coins {
		c := &w.Coins[i]
		c.Y += math.Sin(c.X*w.cfg.BobFrequency) * w.cfg.BobAmplitude
		c.X -= speed
	}
	for i := range w.Obstacles {
		w.Obstacles[i].X -= speed
	}
	for i := range w.Walls {
		w.Walls[i].X -= speed
	}
}

// Prune drops entities that are behind their despawn bound and coins that
// were collected on an earlier tick.
func (w *World) Prune() {
	coins := w.Coins[:0]
	for _, c := range w.Coins {
		if c.X > w.cfg.CoinDespawnX && !c.Collected {
			coins = append(coins, c)
		}
	}
	w.Coins = coins

	obstacles := w.Obstacles[:0]
	for _, o := range w.Obstacles {
		if o.X > w.cfg.ObstacleDespawnX {
			obstacles = append(obstacles, o)
		}
	}
	w.Obstacles = obstacles

	walls := w.Walls[:0]
	for _, wl := range w.Walls {
		if wl.X > w.cfg.WallDespawnX {
			walls = append(walls, wl)
		}
	}
	w.Walls = walls
}

// collect marks a coin as collected. It reports false if the coin is gone
// or already collected.
func (w *World) collect(id int) bool {
	for i := range w.Coins {
		if w.Coins[i].ID == id && !w.Coins[i].Collected {
			w.Coins[i].Collected = true
			return true
		}
	}
	return false
}

func (w *World) wall(id int) *Wall {
	for i := range w.Walls {
		if w.Walls[i].ID == id {
			return &w.Walls[i]
		}
	}
	return nil
}

// clone returns a deep copy for snapshots.
func (w *World) clone() (coins []Coin, obstacles []Obstacle, walls []Wall) {
	coins = append([]Coin(nil), w.Coins...)
	obstacles = append([]Obstacle(nil), w.Obstacles...)
	walls = append([]Wall(nil), w.Walls...)
	return coins, obstacles, walls
}
