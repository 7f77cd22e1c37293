// Package core provides the small value types shared by the runner engine and
// the terminal platform: world vectors, screen rectangles, the cell buffer and
// input actions. It has no external dependencies (no Bubble Tea) so the game
// logic stays pure and testable.
package core

import "math"

// Vec is a position in world units. The world is 800x600 with Y growing
// downward, matching the canvas the level layouts were authored for.
type Vec struct {
	X, Y float64
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Near reports whether o lies strictly inside the axis-aligned proximity
// window (halfW, halfH) centred on v. This is a distance test, not a
// bounding-box overlap.
func (v Vec) Near(o Vec, halfW, halfH float64) bool {
	d := v.Sub(o)
	return math.Abs(d.X) < halfW && math.Abs(d.Y) < halfH
}

// Rect is an integer rectangle in screen cells.
type Rect struct {
	X, Y int // Top-left corner
	W, H int
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Centered returns a w x h rectangle centred inside r.
func (r Rect) Centered(w, h int) Rect {
	return NewRect(r.X+(r.W-w)/2, r.Y+(r.H-h)/2, w, h)
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// ClampF restricts a float64 value to be within [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}
