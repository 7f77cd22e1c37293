package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mindora-runner/internal/ledger"
)

var claimCmd = &cobra.Command{
	Use:   "claim <stage>",
	Short: "Claim a completed stage's reward",
	Long: `Mint the reward of a stage the --address player has completed. Play
claims rewards automatically; use this when that mint failed.

Examples:
  runner claim 1 --address 0.0.4821`,
	Args: cobra.ExactArgs(1),
	Run:  runClaim,
}

func runClaim(_ *cobra.Command, args []string) {
	s, err := loadSettings()
	exitOnError("loading config", err)
	address, err := requireAddress(s, nil)
	exitOnError("claiming", err)

	stage, err := strconv.Atoi(args[0])
	if err != nil {
		exitOnError("claiming", fmt.Errorf("stage must be a number, got %q", args[0]))
	}
	req, err := ledger.NewMintRequest(s.cat, address, stage)
	exitOnError("claiming", err)

	svc, closeLedger, err := openLedger(s, newLogger(os.Stderr, "claim"))
	exitOnError("opening ledger", err)
	defer closeLedger()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Ledger.Timeout)
	defer cancel()

	_, err = svc.MintRewards(ctx, req)
	switch {
	case errors.Is(err, ledger.ErrAlreadyClaimed):
		fmt.Printf("Stage %d reward was already claimed.\n", stage)
		return
	case errors.Is(err, ledger.ErrStageNotCompleted):
		fmt.Fprintf(os.Stderr, "Stage %d has not been completed by %s.\n", stage, address)
		os.Exit(1)
	}
	exitOnError("claiming", err)

	fmt.Printf("Minted %s tokens", req.TokenAmount.String())
	if req.BadgeName != "" {
		fmt.Printf(" and the %s badge", req.BadgeName)
	}
	fmt.Printf(" for stage %d.\n", stage)
}
