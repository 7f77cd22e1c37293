package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mindora-runner/internal/games/runner"
	"github.com/vovakirdan/mindora-runner/internal/ledger"
)

var (
	flagSimStage   int
	flagSimAll     bool
	flagSimWrong   bool
	flagSimNoPilot bool
	flagSimSave    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run stages headless with the autopilot",
	Long: `Play stages without a terminal. The autopilot jumps obstacles and
knowledge walls are answered correctly unless --wrong is given.

With --save and an address, finished runs are written to the ledger and
completed stages claim their reward, exactly as in interactive play.

Examples:
  runner simulate
  runner simulate --all
  runner simulate --stage 2 --wrong --on-wrong skip
  runner simulate --all --save --address 0.0.4821`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimStage, "stage", 1, "Stage to simulate")
	simulateCmd.Flags().BoolVar(&flagSimAll, "all", false, "Simulate every stage in order, stopping at the first failure")
	simulateCmd.Flags().BoolVar(&flagSimWrong, "wrong", false, "Answer every question wrongly")
	simulateCmd.Flags().BoolVar(&flagSimNoPilot, "no-pilot", false, "Never jump")
	simulateCmd.Flags().BoolVar(&flagSimSave, "save", false, "Save results to the ledger")
}

func runSimulate(_ *cobra.Command, _ []string) {
	s, err := loadSettings()
	exitOnError("loading config", err)
	logger := newLogger(os.Stderr, "simulate")

	var svc ledger.Service
	var address string
	if flagSimSave {
		address, err = requireAddress(s, nil)
		exitOnError("saving", err)
		var closeLedger func()
		svc, closeLedger, err = openLedger(s, logger)
		exitOnError("opening ledger", err)
		defer closeLedger()
	}

	stages := []int{flagSimStage}
	if flagSimAll {
		stages = stages[:0]
		for _, st := range s.cat.Stages() {
			stages = append(stages, st.ID)
		}
	} else if _, err := s.cat.Stage(flagSimStage); err != nil {
		exitOnError("selecting stage", err)
	}

	opts := runner.SimOptions{}
	if flagSimWrong {
		opts.Answer = runner.AnswerWrongly
	}
	if flagSimNoPilot {
		// A range below zero never matches an obstacle ahead of the body.
		opts.Pilot = &runner.Autopilot{RangeX: -1000}
	}

	game := runner.New(s.cfg, s.cat)
	game.Unlock(stages[0] - 1)

	fmt.Printf("  %-5s  %-18s  %-9s  %6s  %5s  %7s  %6s  %s\n",
		"Stage", "Name", "Result", "Score", "Coins", "Correct", "Ticks", "Ledger")
	fmt.Printf("  %-5s  %-18s  %-9s  %6s  %5s  %7s  %6s  %s\n",
		"-----", "----", "------", "-----", "-----", "-------", "-----", "------")

	for _, id := range stages {
		snap := game.SelectStage(id).Snapshot
		if snap.Stage.ID != id {
			exitOnError("selecting stage", fmt.Errorf("stage %d is locked", id))
		}

		res := runner.Simulate(game, opts)
		sum, ok := res.Session()
		if !ok {
			fmt.Printf("  %-5d  %-18s  %-9s\n", id, truncateName(snap.Stage.Name, 18), "timed out")
			os.Exit(1)
		}

		result := "stopped"
		if sum.Completed {
			result = "completed"
		}
		note := "-"
		if svc != nil {
			note = saveSimulated(svc, s, address, sum)
		}
		fmt.Printf("  %-5d  %-18s  %-9s  %6d  %5d  %7d  %6d  %s\n",
			id, truncateName(snap.Stage.Name, 18), result,
			sum.Score, sum.Coins, sum.QuestionsCorrect, sum.Ticks, note)

		logger.Debug("Simulated stage", "stage", id, "reason", sum.Reason, "distance", sum.Distance)
		if !sum.Completed {
			break
		}
	}
}

// saveSimulated saves one run and claims the reward when it completed. It
// returns a short note for the summary table.
func saveSimulated(svc ledger.Service, s settings, address string, sum runner.SessionSummary) string {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Ledger.Timeout)
	defer cancel()

	receipt, err := svc.SaveSession(ctx, ledger.SessionResult{
		Address:          address,
		Stage:            sum.Stage,
		Score:            sum.Score,
		Coins:            sum.Coins,
		QuestionsCorrect: sum.QuestionsCorrect,
		StageCompleted:   sum.Completed,
	})
	if err != nil {
		return "save failed: " + err.Error()
	}
	note := "tx " + shortTx(receipt.TransactionID)
	if !sum.Completed {
		return note
	}

	req, err := ledger.NewMintRequest(s.cat, address, sum.Stage)
	if err != nil {
		return note + ", " + err.Error()
	}
	switch _, err := svc.MintRewards(ctx, req); {
	case err == nil:
		return fmt.Sprintf("%s, minted %s", note, req.TokenAmount.String())
	case errors.Is(err, ledger.ErrAlreadyClaimed):
		return note + ", already claimed"
	default:
		return note + ", mint failed: " + err.Error()
	}
}

func shortTx(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncateName(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "."
}
