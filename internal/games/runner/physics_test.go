package runner

import (
	"testing"

	"github.com/vovakirdan/mindora-runner/internal/config"
)

func TestGravityIntegration(t *testing.T) {
	cfg := config.DefaultRunnerConfig().Physics
	p := NewPhysics(cfg)
	b := Body{X: 100, Y: 100}

	for i := 0; i < 1000 && !b.Grounded; i++ {
		prevV, prevY := b.VelocityY, b.Y
		p.Integrate(&b)

		if b.Grounded {
			if b.Y != cfg.GroundY || b.VelocityY != 0 || b.Jumping {
				t.Fatalf("landing should clamp: %+v", b)
			}
			break
		}
		if b.VelocityY != prevV+cfg.Gravity {
			t.Fatalf("tick %d: velocity %v, expected %v", i, b.VelocityY, prevV+cfg.Gravity)
		}
		if b.Y != prevY+b.VelocityY {
			t.Fatalf("tick %d: y %v, expected %v", i, b.Y, prevY+b.VelocityY)
		}
		if b.Y > cfg.GroundY {
			t.Fatalf("tick %d: y %v passed the ground", i, b.Y)
		}
	}
	if !b.Grounded {
		t.Fatal("body should land")
	}

	// Resting on the ground stays clamped.
	p.Integrate(&b)
	if b.Y != cfg.GroundY || b.VelocityY != 0 || !b.Grounded {
		t.Errorf("grounded body should stay clamped, got %+v", b)
	}
}

func TestJumpOnlyWhenGrounded(t *testing.T) {
	cfg := config.DefaultRunnerConfig().Physics
	p := NewPhysics(cfg)

	airborne := Body{X: 100, Y: 300, VelocityY: -4}
	before := airborne
	if p.Jump(&airborne) {
		t.Error("Jump should be rejected while airborne")
	}
	if airborne != before {
		t.Errorf("airborne jump changed state: %+v -> %+v", before, airborne)
	}

	grounded := Body{X: 100, Y: cfg.GroundY, Grounded: true}
	if !p.Jump(&grounded) {
		t.Fatal("Jump should be accepted on the ground")
	}
	if grounded.VelocityY != cfg.JumpImpulse || !grounded.Jumping {
		t.Errorf("jump should set impulse %v, got %+v", cfg.JumpImpulse, grounded)
	}
	if p.Jump(&grounded) {
		t.Error("second jump in the same frame should be ignored")
	}
}

func TestJumpScenario(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	m := started(t, cfg, emptyStage(100000))

	if m.body.X != 100 || m.body.Y != 400 {
		t.Fatalf("player should start at (100, 400), got (%v, %v)", m.body.X, m.body.Y)
	}
	tickUntilGrounded(t, m)

	if !m.Jump() {
		t.Fatal("jump should be accepted while running and grounded")
	}
	if m.body.VelocityY != -18 {
		t.Fatalf("velocityY = %v, expected -18", m.body.VelocityY)
	}

	// Reference flight from gravity and the impulse alone.
	want := 0
	for v, y := -18.0, cfg.Physics.GroundY; ; {
		v += cfg.Physics.Gravity
		y += v
		want++
		if y >= cfg.Physics.GroundY {
			break
		}
	}
	if want != 60 {
		t.Fatalf("reference flight = %d ticks, expected 60 with default gravity", want)
	}

	got := 0
	for {
		m.Tick()
		got++
		if m.body.Grounded {
			break
		}
		if m.Jump() {
			t.Fatal("airborne jump must be ignored")
		}
		if got > 200 {
			t.Fatal("player never landed")
		}
	}
	if got != want {
		t.Errorf("landed after %d ticks, expected %d", got, want)
	}
	if m.body.Y != cfg.Physics.GroundY {
		t.Errorf("landing y = %v, expected %v", m.body.Y, cfg.Physics.GroundY)
	}
}

func TestJumpRequiresRunning(t *testing.T) {
	m := started(t, config.DefaultRunnerConfig(), emptyStage(100000))
	tickUntilGrounded(t, m)

	m.TogglePause()
	if m.Jump() {
		t.Error("jump should be ignored while paused")
	}
	if m.body.VelocityY != 0 {
		t.Errorf("paused jump changed velocity to %v", m.body.VelocityY)
	}
}
