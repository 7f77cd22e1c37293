package runner

import (
	"testing"

	"github.com/vovakirdan/mindora-runner/internal/catalog"
	"github.com/vovakirdan/mindora-runner/internal/config"
	"github.com/vovakirdan/mindora-runner/internal/core"
)

var pickB = catalog.Question{
	ID:        "pick-b",
	Prompt:    "Pick B",
	Options:   []string{"A", "B", "C", "D"},
	Correct:   1,
	Points:    50,
	TimeLimit: 3,
}

// flatConfig is the default configuration without coin bobbing so entity
// heights stay exact.
func flatConfig() config.RunnerConfig {
	cfg := config.DefaultRunnerConfig()
	cfg.World.BobAmplitude = 0
	return cfg
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

// started returns a running machine on the first stage of the catalog.
func started(t *testing.T, cfg config.RunnerConfig, stages ...catalog.Stage) *Machine {
	t.Helper()
	m := NewMachine(cfg, testCatalog(t, stages...))
	if !m.Start() {
		t.Fatal("Start should succeed from NotStarted")
	}
	m.Drain()
	return m
}

// tickUntilGrounded ticks until the body has landed.
func tickUntilGrounded(t *testing.T, m *Machine) {
	t.Helper()
	for i := 0; i < 200; i++ {
		if m.body.Grounded {
			return
		}
		m.Tick()
	}
	t.Fatal("body never landed")
}

func countEvents(events []Event, kind EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func frame(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func emptyStage(length float64) catalog.Stage {
	return catalog.Stage{Name: "Empty", Speed: 2, Length: length}
}
