package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mindora-runner/internal/ledger"
)

var playerCmd = &cobra.Command{
	Use:   "player [address]",
	Short: "Show a player record",
	Long: `Show a player's progress, totals and claimed rewards. Without an
argument the --address flag is used.

Examples:
  runner player 0.0.4821
  runner player --ledger http://localhost:8080 --address 0.0.4821`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlayer,
}

func runPlayer(_ *cobra.Command, args []string) {
	s, err := loadSettings()
	exitOnError("loading config", err)
	address, err := requireAddress(s, args)
	exitOnError("loading player", err)
	logger := newLogger(os.Stderr, "player")

	svc, closeLedger, err := openLedger(s, logger)
	exitOnError("opening ledger", err)
	defer closeLedger()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Ledger.Timeout)
	defer cancel()
	rec, err := svc.LoadPlayer(ctx, address)
	exitOnError("loading player", err)

	if rec == nil {
		fmt.Printf("No record for %s yet.\n", address)
		fmt.Println()
		fmt.Printf("Run 'runner play --address %s' to start.\n", address)
		return
	}

	fmt.Printf("%s (%s)\n", rec.DisplayName(), rec.Address)
	fmt.Println()
	fmt.Printf("  Current stage  %d of %d\n", rec.CurrentStage, s.cat.Len())
	fmt.Printf("  Games played   %d\n", rec.GamesPlayed)
	fmt.Printf("  Best score     %d\n", rec.BestScore)
	fmt.Printf("  Total score    %d\n", rec.TotalScore)
	fmt.Printf("  Total coins    %d\n", rec.TotalCoins)
	fmt.Printf("  Tokens         %s\n", rec.Tokens.String())
	if len(rec.Badges) > 0 {
		fmt.Printf("  Badges         %s\n", strings.Join(rec.Badges, ", "))
	}
	if !rec.LastPlayed.IsZero() {
		fmt.Printf("  Last played    %s\n", rec.LastPlayed.Local().Format("2006-01-02 15:04"))
	}

	if len(rec.Claims) > 0 {
		fmt.Println()
		fmt.Printf("  %-5s  %8s  %-16s  %-8s  %s\n", "Stage", "Tokens", "Badge", "Tx", "Date")
		fmt.Printf("  %-5s  %8s  %-16s  %-8s  %s\n", "-----", "------", "-----", "--", "----")
		for _, c := range rec.Claims {
			fmt.Printf("  %-5d  %8s  %-16s  %-8s  %s\n",
				c.Stage, c.Tokens.String(), c.Badge, shortTx(c.TransactionID),
				c.ClaimedAt.Local().Format("2006-01-02 15:04"))
		}
	}

	if len(rec.Recent) > 0 {
		fmt.Println()
		fmt.Println("  Recent runs")
		fmt.Printf("  %-5s  %7s  %5s  %7s  %-9s  %s\n", "Stage", "Score", "Coins", "Correct", "Result", "Date")
		fmt.Printf("  %-5s  %7s  %5s  %7s  %-9s  %s\n", "-----", "-----", "-----", "-------", "------", "----")
		for _, r := range rec.Recent {
			result := "stopped"
			if r.Completed {
				result = "completed"
			}
			fmt.Printf("  %-5d  %7d  %5d  %7d  %-9s  %s\n",
				r.Stage, r.Score, r.Coins, r.QuestionsCorrect, result,
				r.PlayedAt.Local().Format("2006-01-02 15:04"))
		}
	}

	if !ledger.TokensConsistent(s.cat, *rec) {
		fmt.Println()
		fmt.Printf("Warning: %s tokens imply %d completed stages, the ledger shows %d.\n",
			rec.Tokens.String(), ledger.StagesImpliedByTokens(s.cat, rec.Tokens), len(rec.CompletedStages))
	}
}
