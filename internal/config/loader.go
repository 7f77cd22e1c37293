package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AppDir is the per-user directory name under $HOME.
const AppDir = ".mindora"

const runnerFile = "runner.yaml"

// LoadRunner loads the runner configuration.
// Search order: customPath -> ~/.mindora/configs/runner.yaml -> ./configs/runner.yaml -> embedded default.
// Files are decoded over the defaults, so a partial file only overrides the
// keys it names.
func LoadRunner(customPath string) (RunnerConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return RunnerConfig{}, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		cfg, err := ParseRunner(data)
		if err != nil {
			return RunnerConfig{}, fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := UserPath("configs", runnerFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := ParseRunner(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", runnerFile)); err == nil {
		if cfg, err := ParseRunner(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := ParseRunner(defaultRunnerYAML)
	if err != nil {
		return DefaultRunnerConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// ParseRunner decodes YAML over the default configuration and validates it.
func ParseRunner(data []byte) (RunnerConfig, error) {
	cfg := DefaultRunnerConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RunnerConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return RunnerConfig{}, err
	}
	return cfg, nil
}

// Validate reports the first value that would make the simulation
// meaningless.
func (c RunnerConfig) Validate() error {
	var errs []error
	if c.Physics.Gravity <= 0 {
		errs = append(errs, fmt.Errorf("physics.gravity must be positive, got %v", c.Physics.Gravity))
	}
	if c.Physics.JumpImpulse >= 0 {
		errs = append(errs, fmt.Errorf("physics.jump_impulse must be negative, got %v", c.Physics.JumpImpulse))
	}
	if c.Physics.StartY > c.Physics.GroundY {
		errs = append(errs, fmt.Errorf("physics.start_y %v is below ground_y %v", c.Physics.StartY, c.Physics.GroundY))
	}
	if c.Collision.CoinRangeX <= 0 || c.Collision.CoinRangeY <= 0 ||
		c.Collision.ObstacleRangeX <= 0 || c.Collision.ObstacleRangeY <= 0 ||
		c.Collision.WallRangeX <= 0 || c.Collision.WallSpan <= 0 {
		errs = append(errs, errors.New("collision ranges must be positive"))
	}
	if c.World.Width <= 0 || c.World.Height <= 0 {
		errs = append(errs, errors.New("world width and height must be positive"))
	}
	switch c.Quiz.OnWrong {
	case OnWrongStop, OnWrongSkip:
	default:
		errs = append(errs, fmt.Errorf("quiz.on_wrong must be %q or %q, got %q", OnWrongStop, OnWrongSkip, c.Quiz.OnWrong))
	}
	if _, ok := ParsePreset(string(c.Difficulty.Preset)); !ok {
		errs = append(errs, fmt.Errorf("unknown difficulty preset %q", c.Difficulty.Preset))
	}
	if c.Difficulty.SpeedScale <= 0 || c.Difficulty.TimeLimitScale <= 0 {
		errs = append(errs, errors.New("difficulty scales must be positive"))
	}
	return errors.Join(errs...)
}

// UserPath joins elems under ~/.mindora, or returns empty if home is
// unavailable.
func UserPath(elems ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append([]string{home, AppDir}, elems...)...)
}

// DefaultDBPath returns the local ledger database location.
func DefaultDBPath() string {
	if p := UserPath("ledger.db"); p != "" {
		return p
	}
	return "mindora-ledger.db"
}

// DefaultLogPath returns where interactive sessions write their log.
func DefaultLogPath() string {
	if p := UserPath("runner.log"); p != "" {
		return p
	}
	return filepath.Join(os.TempDir(), "mindora-runner.log")
}
