package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mindora-runner/internal/platform/tui"
)

var (
	flagBoardStage       int
	flagBoardLimit       int
	flagBoardInteractive bool
)

var leaderboardCmd = &cobra.Command{
	Use:     "leaderboard",
	Aliases: []string{"scores"},
	Short:   "Show the leaderboard",
	Long: `Display the best run of each player, for one stage or across all of
them (--stage 0).

Examples:
  runner leaderboard
  runner leaderboard --stage 2 --limit 5
  runner leaderboard -i`,
	Args: cobra.NoArgs,
	Run:  runLeaderboard,
}

func init() {
	leaderboardCmd.Flags().IntVar(&flagBoardStage, "stage", 0, "Stage to rank (0 = all stages)")
	leaderboardCmd.Flags().IntVar(&flagBoardLimit, "limit", 10, "Number of entries")
	leaderboardCmd.Flags().BoolVarP(&flagBoardInteractive, "interactive", "i", false, "Browse the leaderboard in a full-screen view")
}

func runLeaderboard(_ *cobra.Command, _ []string) {
	s, err := loadSettings()
	exitOnError("loading config", err)
	logger := newLogger(os.Stderr, "leaderboard")

	svc, closeLedger, err := openLedger(s, logger)
	exitOnError("opening ledger", err)
	defer closeLedger()

	if flagBoardInteractive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			exitOnError("starting leaderboard", fmt.Errorf("--interactive needs a terminal"))
		}
		width, height, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			width, height = 80, 24
		}
		exitOnError("running leaderboard", tui.RunLeaderboard(svc, s.cat, width, height))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Ledger.Timeout)
	defer cancel()
	entries, err := svc.LoadLeaderboard(ctx, flagBoardStage, flagBoardLimit)
	exitOnError("loading leaderboard", err)

	title := "all stages"
	if flagBoardStage > 0 {
		if st, err := s.cat.Stage(flagBoardStage); err == nil {
			title = fmt.Sprintf("stage %d, %s", st.ID, st.Name)
		} else {
			title = fmt.Sprintf("stage %d", flagBoardStage)
		}
	}
	fmt.Printf("Leaderboard - %s\n", title)
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'runner play --address <addr>' to set the first score!")
		return
	}

	fmt.Printf("  %-4s  %-16s  %7s  %5s  %5s\n", "Rank", "Player", "Score", "Coins", "Games")
	fmt.Printf("  %-4s  %-16s  %7s  %5s  %5s\n", "----", "------", "-----", "-----", "-----")
	for _, e := range entries {
		fmt.Printf("  %-4d  %-16s  %7d  %5d  %5d\n",
			e.Rank, truncateName(e.DisplayName(), 16), e.Score, e.Coins, e.GamesPlayed)
	}
}
