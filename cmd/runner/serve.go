package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mindora-runner/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the runner SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own runner. The SSH user name is the
player's ledger address, so progress follows the address across
connections. All sessions share one ledger.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.mindora/host_key

Examples:
  runner serve                           # Listen on :23234 with auto-generated key
  runner serve --ssh :2222               # Listen on port 2222
  runner serve --ledger http://ledger:8080

Users can connect with:
  ssh 0.0.4821@localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	s, err := loadSettings()
	exitOnError("loading config", err)
	logger := newLogger(os.Stderr, "runner-ssh")

	svc, closeLedger, err := openLedger(s, logger)
	exitOnError("opening ledger", err)
	defer closeLedger()

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	if flagIdleTimeout > 0 {
		cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}

	server, err := tui.NewSSHServer(cfg, s.cfg, s.cat, svc, logger)
	exitOnError("creating server", err)

	fmt.Printf("Starting runner SSH server on %s\n", server.Addr())
	fmt.Println("Connect with: ssh <address>@localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	exitOnError("serving", server.ListenAndServe())
}
