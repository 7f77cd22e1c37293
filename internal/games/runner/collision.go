package runner

import (
	"math"

	"github.com/vovakirdan/mindora-runner/internal/config"
	"github.com/vovakirdan/mindora-runner/internal/core"
)

// Hits is what the detector found on one tick. The detector only proposes;
// the state machine decides what to commit.
type Hits struct {
	Coins    []int // Ids of uncollected coins within pickup range
	Obstacle int   // Id of the first obstacle struck, 0 if none
	Wall     int   // Id of the first open wall touched, 0 if none
}

// Struck reports whether an obstacle was hit.
func (h Hits) Struck() bool {
	return h.Obstacle != 0
}

// Detector runs the per-tick proximity tests.
type Detector struct {
	cfg config.CollisionConfig
}

// NewDetector creates a detector with the given thresholds.
func NewDetector(cfg config.CollisionConfig) Detector {
	return Detector{cfg: cfg}
}

// Detect tests the body against every entity. It does not mutate anything.
// Obstacles are evaluated before walls so a simultaneous overlap prefers the
// run-ending outcome.
func (d Detector) Detect(b Body, coins []Coin, obstacles []Obstacle, walls []Wall) Hits {
	var h Hits
	pos := core.Vec{X: b.X, Y: b.Y}

	for _, c := range coins {
		if !c.Collected && pos.Near(core.Vec{X: c.X, Y: c.Y}, d.cfg.CoinRangeX, d.cfg.CoinRangeY) {
			h.Coins = append(h.Coins, c.ID)
		}
	}

	for _, o := range obstacles {
		if pos.Near(core.Vec{X: o.X, Y: o.Y}, d.cfg.ObstacleRangeX, d.cfg.ObstacleRangeY) {
			h.Obstacle = o.ID
			break
		}
	}

	for _, w := range walls {
		if w.Open() && d.touchesWall(b, w) {
			h.Wall = w.ID
			break
		}
	}
	return h
}

// touchesWall is true when the body is horizontally close and strictly
// inside the wall's vertical span.
func (d Detector) touchesWall(b Body, w Wall) bool {
	return math.Abs(w.X-b.X) < d.cfg.WallRangeX && b.Y > w.Y && b.Y < w.Y+d.cfg.WallSpan
}
