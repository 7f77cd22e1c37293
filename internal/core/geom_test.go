package core

import "testing"

func TestVecNear(t *testing.T) {
	tests := []struct {
		name         string
		a, b         Vec
		halfW, halfH float64
		expected     bool
	}{
		{"same point", Vec{100, 400}, Vec{100, 400}, 25, 25, true},
		{"inside window", Vec{100, 400}, Vec{120, 380}, 25, 25, true},
		{"on horizontal edge (exclusive)", Vec{100, 400}, Vec{125, 400}, 25, 25, false},
		{"on vertical edge (exclusive)", Vec{100, 400}, Vec{100, 450}, 30, 50, false},
		{"left of player", Vec{100, 400}, Vec{76, 400}, 25, 25, true},
		{"far away", Vec{100, 400}, Vec{300, 350}, 25, 25, false},
		{"zero window never matches", Vec{1, 1}, Vec{1, 1}, 0, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Near(tc.b, tc.halfW, tc.halfH); got != tc.expected {
				t.Errorf("Near() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Near(tc.a, tc.halfW, tc.halfH); got != tc.expected {
				t.Errorf("Near() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}
}

func TestRectCentered(t *testing.T) {
	outer := NewRect(0, 0, 80, 24)
	inner := outer.Centered(40, 10)

	if inner.X != 20 || inner.Y != 7 || inner.W != 40 || inner.H != 10 {
		t.Errorf("Centered() = %+v, expected {20 7 40 10}", inner)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.lo, tc.hi); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.lo, tc.hi, got, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		if got := ClampF(tc.val, tc.lo, tc.hi); got != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.lo, tc.hi, got, tc.expected)
		}
	}
}
