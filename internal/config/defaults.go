package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultRunnerYAML returns the embedded default configuration file.
func DefaultRunnerYAML() []byte {
	return defaultRunnerYAML
}

// DefaultRunnerConfig returns the default runner configuration.
// It mirrors defaults/runner.yaml and is used when the embed fails to parse.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Physics: PhysicsConfig{
			Gravity:     0.6,
			JumpImpulse: -18,
			GroundY:     450,
			StartX:      100,
			StartY:      400,
		},
		Collision: CollisionConfig{
			CoinRangeX:     25,
			CoinRangeY:     25,
			ObstacleRangeX: 30,
			ObstacleRangeY: 50,
			WallRangeX:     50,
			WallSpan:       300,
			CoinValue:      10,
			CoinScore:      10,
		},
		World: WorldConfig{
			Width:            800,
			Height:           600,
			FloorY:           500,
			CoinDespawnX:     -50,
			ObstacleDespawnX: -50,
			WallDespawnX:     -100,
			BobFrequency:     0.01,
			BobAmplitude:     0.5,
		},
		Quiz: QuizConfig{
			OnWrong: OnWrongStop,
		},
		Difficulty: DifficultyConfig{
			Preset:         DifficultyNormal,
			SpeedScale:     1.0,
			TimeLimitScale: 1.0,
		},
		Ledger: LedgerConfig{
			Timeout: 10 * time.Second,
		},
		Audio: AudioConfig{
			Enabled: true,
			Master:  1.0,
			Volumes: map[string]float64{
				"jump":           0.3,
				"coin":           0.4,
				"obstacle":       0.5,
				"complete":       0.6,
				"quiz":           0.4,
				"start":          0.5,
				"button":         0.2,
				"answer_correct": 0.5,
				"answer_wrong":   0.5,
			},
		},
	}
}
