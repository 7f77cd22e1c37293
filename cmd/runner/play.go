package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mindora-runner/internal/audio"
	"github.com/vovakirdan/mindora-runner/internal/config"
	"github.com/vovakirdan/mindora-runner/internal/core"
	"github.com/vovakirdan/mindora-runner/internal/games/runner"
	"github.com/vovakirdan/mindora-runner/internal/ledger"
	"github.com/vovakirdan/mindora-runner/internal/platform/tui"
)

var flagNoSound bool

var playCmd = &cobra.Command{
	Use:   "play [stage]",
	Short: "Play the runner",
	Long: `Start the runner on the given stage (default 1). Stages unlock as
you complete them; with an address the unlocks come from the ledger.

Controls:
  Space/Up   - Jump
  Enter      - Start / resume
  P/Esc      - Pause
  1-4        - Answer a knowledge wall
  Left/Right - Pick an unlocked stage
  N          - Next stage after completion
  M          - Claim rewards again
  R          - Restart
  X          - Mute
  Q/Ctrl+C   - Quit

Without --address the game runs offline and nothing is saved.

Examples:
  runner play
  runner play 2 --address 0.0.4821
  runner play --difficulty hard --on-wrong skip`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagNoSound, "no-sound", false, "Start with sound cues muted")
}

func runPlay(_ *cobra.Command, args []string) {
	s, err := loadSettings()
	exitOnError("loading config", err)

	stage := 1
	if len(args) == 1 {
		stage, err = strconv.Atoi(args[0])
		if err != nil {
			exitOnError("parsing stage", fmt.Errorf("stage must be a number, got %q", args[0]))
		}
		if _, err := s.cat.Stage(stage); err != nil {
			exitOnError("selecting stage", err)
		}
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	// The alt screen owns the terminal, so the log goes to a file.
	logPath := config.DefaultLogPath()
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(filepath.Dir(logPath), 0o755)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	exitOnError("opening log", err)
	defer logFile.Close()
	logger := newLogger(logFile, "runner")

	game := runner.New(s.cfg, s.cat)
	opts := tui.Options{
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
		},
		Address: s.cfg.Ledger.Address,
		Catalog: s.cat,
		Logger:  logger,
	}

	if opts.Address != "" {
		svc, closeLedger, err := openLedger(s, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: ledger unavailable, playing offline: %v\n", err)
		} else {
			defer closeLedger()
			restoreUnlocks(game, svc, opts.Address, s.cfg.Ledger.Timeout)
			d := ledger.NewDispatcher(svc, s.cfg.Ledger.Timeout, logger)
			defer d.Close()
			opts.Ledger = d
		}
	}

	if stage > 1 {
		if got := game.SelectStage(stage).Snapshot.Stage.ID; got != stage {
			exitOnError("selecting stage", fmt.Errorf("stage %d is locked (complete stage %d first)", stage, game.Snapshot().Unlocked))
		}
	}

	audioCfg := s.cfg.Audio
	if flagNoSound {
		audioCfg.Enabled = false
	}
	opts.Mixer = audio.NewMixer(audioCfg, audio.Multi{
		audio.NewBellSink(os.Stdout, 0.5),
		audio.LogSink{Logger: logger},
	}, logger)

	logger.Info("Starting play", "stage", stage, "address", opts.Address,
		"difficulty", s.cfg.Difficulty.Preset, "on_wrong", s.cfg.Quiz.OnWrong)

	exitOnError("running game", tui.Run(game, opts))
}

// restoreUnlocks applies the player's completed stages before the first
// frame so a stage argument can be checked against them.
func restoreUnlocks(game *runner.Game, svc ledger.PlayerService, address string, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	rec, err := svc.LoadPlayer(ctx, address)
	if err != nil || rec == nil {
		return
	}
	game.Unlock(rec.HighestCompleted())
}
