// Package config provides YAML-based configuration loading and difficulty
// presets for the runner.
package config

import "time"

// RunnerConfig contains every tunable of the runner engine and its
// collaborators. Stage layouts and questions live in the catalog, not here.
type RunnerConfig struct {
	Physics    PhysicsConfig    `yaml:"physics"`
	Collision  CollisionConfig  `yaml:"collision"`
	World      WorldConfig      `yaml:"world"`
	Quiz       QuizConfig       `yaml:"quiz"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Ledger     LedgerConfig     `yaml:"ledger"`
	Audio      AudioConfig      `yaml:"audio"`
}

// PhysicsConfig defines player motion. Y grows downward.
type PhysicsConfig struct {
	Gravity     float64 `yaml:"gravity"`      // Added to vertical velocity every tick
	JumpImpulse float64 `yaml:"jump_impulse"` // Vertical velocity set by a jump (negative = up)
	GroundY     float64 `yaml:"ground_y"`     // Player Y never exceeds this
	StartX      float64 `yaml:"start_x"`
	StartY      float64 `yaml:"start_y"`
}

// CollisionConfig holds the proximity thresholds. A hit requires
// |dx| < range_x and |dy| < range_y, except walls which use a vertical span.
type CollisionConfig struct {
	CoinRangeX     float64 `yaml:"coin_range_x"`
	CoinRangeY     float64 `yaml:"coin_range_y"`
	ObstacleRangeX float64 `yaml:"obstacle_range_x"`
	ObstacleRangeY float64 `yaml:"obstacle_range_y"`
	WallRangeX     float64 `yaml:"wall_range_x"`
	WallSpan       float64 `yaml:"wall_span"` // Wall covers wall.y < y < wall.y + span
	CoinValue      int     `yaml:"coin_value"`
	CoinScore      int     `yaml:"coin_score"`
}

// WorldConfig defines the scrolling world and its viewport.
type WorldConfig struct {
	Width            float64 `yaml:"width"`
	Height           float64 `yaml:"height"`
	FloorY           float64 `yaml:"floor_y"` // Where the ground is drawn
	CoinDespawnX     float64 `yaml:"coin_despawn_x"`
	ObstacleDespawnX float64 `yaml:"obstacle_despawn_x"`
	WallDespawnX     float64 `yaml:"wall_despawn_x"`
	BobFrequency     float64 `yaml:"bob_frequency"`
	BobAmplitude     float64 `yaml:"bob_amplitude"`
}

// WrongAnswerPolicy decides what a wrong answer or a quiz timeout does.
type WrongAnswerPolicy string

const (
	// OnWrongStop ends the run. The wall stays unanswered until restart.
	OnWrongStop WrongAnswerPolicy = "stop"
	// OnWrongSkip fails the wall for good and resumes the run.
	OnWrongSkip WrongAnswerPolicy = "skip"
)

// QuizConfig defines knowledge wall behaviour.
type QuizConfig struct {
	OnWrong WrongAnswerPolicy `yaml:"on_wrong"`
}

// DifficultyConfig scales the catalog values. 1.0 leaves them untouched.
type DifficultyConfig struct {
	Preset         DifficultyPreset `yaml:"preset"`
	SpeedScale     float64          `yaml:"speed_scale"`
	TimeLimitScale float64          `yaml:"time_limit_scale"`
}

// LedgerConfig points the game at a reward ledger. An empty URL selects the
// embedded sqlite ledger at DBPath.
type LedgerConfig struct {
	URL     string        `yaml:"url"`
	DBPath  string        `yaml:"db_path"`
	Address string        `yaml:"address"` // Default player address
	Timeout time.Duration `yaml:"timeout"`
}

// AudioConfig controls sound cues. Volumes are keyed by cue name.
type AudioConfig struct {
	Enabled bool               `yaml:"enabled"`
	Master  float64            `yaml:"master"`
	Volumes map[string]float64 `yaml:"volumes"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset validates a preset name. The empty string means normal.
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch DifficultyPreset(s) {
	case "", DifficultyNormal:
		return DifficultyNormal, true
	case DifficultyEasy, DifficultyHard:
		return DifficultyPreset(s), true
	default:
		return "", false
	}
}
