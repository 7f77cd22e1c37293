package runner

import "github.com/vovakirdan/mindora-runner/internal/config"

// Body is the player's physical state. The player never moves horizontally;
// the world scrolls under it. Y grows downward.
type Body struct {
	X, Y      float64
	VelocityY float64
	Grounded  bool
	Jumping   bool
}

// Physics integrates the player body one tick at a time.
type Physics struct {
	cfg config.PhysicsConfig
}

// NewPhysics creates a physics engine from configuration.
func NewPhysics(cfg config.PhysicsConfig) Physics {
	return Physics{cfg: cfg}
}

// Spawn returns the body at the stage start position. The player starts
// above the ground and falls onto it.
func (p Physics) Spawn() Body {
	return Body{X: p.cfg.StartX, Y: p.cfg.StartY}
}

// Jump applies the jump impulse if the body is on the ground.
// Airborne jumps are ignored.
func (p Physics) Jump(b *Body) bool {
	if !b.Grounded {
		return false
	}
	b.VelocityY = p.cfg.JumpImpulse
	b.Jumping = true
	b.Grounded = false
	return true
}

// Integrate advances the body one tick: gravity, then position, then the
// ground clamp.
func (p Physics) Integrate(b *Body) {
	b.VelocityY += p.cfg.Gravity
	b.Y += b.VelocityY

	if b.Y >= p.cfg.GroundY {
		b.Y = p.cfg.GroundY
		b.VelocityY = 0
		b.Grounded = true
		b.Jumping = false
	} else {
		b.Grounded = false
	}
}
