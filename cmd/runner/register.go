package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Set the username of an address",
	Long: `Register the --address player under a display name. Running it again
renames the player.

Examples:
  runner register neo --address 0.0.4821`,
	Args: cobra.ExactArgs(1),
	Run:  runRegister,
}

func runRegister(_ *cobra.Command, args []string) {
	s, err := loadSettings()
	exitOnError("loading config", err)
	address, err := requireAddress(s, nil)
	exitOnError("registering", err)

	username := strings.TrimSpace(args[0])
	if username == "" {
		exitOnError("registering", fmt.Errorf("username must not be empty"))
	}

	svc, closeLedger, err := openLedger(s, newLogger(os.Stderr, "register"))
	exitOnError("opening ledger", err)
	defer closeLedger()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Ledger.Timeout)
	defer cancel()
	exitOnError("registering", svc.RegisterPlayer(ctx, address, username))

	fmt.Printf("Registered %s as %s\n", address, username)
}
