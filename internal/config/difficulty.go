package config

import "math"

// presetScales maps a preset to (speed scale, time limit scale). Slowing the
// scroll makes the authored obstacle spacing shorter than one jump, so easy
// only relaxes the quiz clock.
var presetScales = map[DifficultyPreset][2]float64{
	DifficultyEasy:   {1.0, 1.5},
	DifficultyNormal: {1.0, 1.0},
	DifficultyHard:   {1.1, 0.75},
}

// ApplyPreset sets the difficulty scales for a named preset.
func ApplyPreset(cfg *RunnerConfig, preset DifficultyPreset) {
	scales, ok := presetScales[preset]
	if !ok {
		return
	}
	cfg.Difficulty.Preset = preset
	cfg.Difficulty.SpeedScale = scales[0]
	cfg.Difficulty.TimeLimitScale = scales[1]
}

// DifficultyManager derives effective stage parameters from catalog values.
type DifficultyManager struct {
	cfg DifficultyConfig
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{cfg: cfg}
}

// Preset returns the active preset name.
func (d *DifficultyManager) Preset() DifficultyPreset {
	if d.cfg.Preset == "" {
		return DifficultyNormal
	}
	return d.cfg.Preset
}

// Speed returns the scroll speed for a stage's base speed.
func (d *DifficultyManager) Speed(base float64) float64 {
	return base * scale(d.cfg.SpeedScale)
}

// TimeLimit returns the quiz time limit in whole seconds, at least one.
func (d *DifficultyManager) TimeLimit(seconds int) int {
	t := int(math.Round(float64(seconds) * scale(d.cfg.TimeLimitScale)))
	if t < 1 {
		return 1
	}
	return t
}

func scale(v float64) float64 {
	if v <= 0 {
		return 1.0
	}
	return v
}
