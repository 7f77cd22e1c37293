// runner is a terminal runner game whose progress is anchored to a reward
// ledger.
//
// Usage:
//
//	runner play [stage]        - Play interactively
//	runner simulate            - Run stages headless with the autopilot
//	runner stages              - List the stage catalog
//	runner leaderboard         - Show the leaderboard
//	runner player [address]    - Show a player record
//	runner register <name>     - Set the username of an address
//	runner claim <stage>       - Claim a completed stage's reward
//	runner serve               - Start the SSH server for remote play
//	runner ledger serve        - Start the ledger HTTP API
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--db <path>          - Local ledger database (default: ~/.mindora/ledger.db)
//	--address <addr>     - Player ledger address
//	--ledger <url>       - Remote ledger base URL (empty = local database)
//	--config <path>      - Runner config YAML
//	--stages <path>      - Stage catalog YAML
//	--difficulty <name>  - easy, normal or hard
//	--on-wrong <policy>  - stop or skip
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/mindora-runner/internal/catalog"
	"github.com/vovakirdan/mindora-runner/internal/config"
	"github.com/vovakirdan/mindora-runner/internal/ledger"
	"github.com/vovakirdan/mindora-runner/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagDBPath     string
	flagAddress    string
	flagLedgerURL  string
	flagConfig     string
	flagStages     string
	flagDifficulty string
	flagOnWrong    string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "runner",
	Short: "Mindora Runner - a ledger-anchored runner in your terminal",
	Long: `Mindora Runner is a side-scrolling runner: jump over obstacles,
collect coins and answer questions at knowledge walls. Finished runs are
saved to a reward ledger and completed stages mint tokens and badges.

Available commands:
  play         - Play interactively
  simulate     - Run stages headless with the autopilot
  stages       - List the stage catalog
  leaderboard  - Show the leaderboard
  player       - Show a player record
  register     - Set a username
  claim        - Claim a completed stage's reward
  serve        - Start the SSH server
  ledger serve - Start the ledger HTTP API

Examples:
  runner play --address 0.0.4821
  runner simulate --all
  runner leaderboard --stage 2
  runner ledger serve --http :8080
  runner play --ledger http://localhost:8080 --address 0.0.4821`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	pf.StringVar(&flagDBPath, "db", "", "Path to the local ledger database (default ~/.mindora/ledger.db)")
	pf.StringVar(&flagAddress, "address", "", "Player ledger address")
	pf.StringVar(&flagLedgerURL, "ledger", "", "Remote ledger base URL (empty = local database)")
	pf.StringVar(&flagConfig, "config", "", "Path to runner config YAML")
	pf.StringVar(&flagStages, "stages", "", "Path to stage catalog YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	pf.StringVar(&flagOnWrong, "on-wrong", "", "Wrong answer policy: stop or skip")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(stagesCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(claimCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ledgerCmd)
}

// settings is the resolved configuration shared by all commands.
type settings struct {
	cfg config.RunnerConfig
	cat *catalog.Catalog
}

// loadSettings reads the config and catalog and applies flag overrides.
func loadSettings() (settings, error) {
	cfg, err := config.LoadRunner(flagConfig)
	if err != nil {
		return settings{}, err
	}

	if flagDifficulty != "" {
		preset, ok := config.ParsePreset(flagDifficulty)
		if !ok {
			return settings{}, fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", flagDifficulty)
		}
		config.ApplyPreset(&cfg, preset)
	}
	if flagOnWrong != "" {
		cfg.Quiz.OnWrong = config.WrongAnswerPolicy(flagOnWrong)
	}
	if flagDBPath != "" {
		cfg.Ledger.DBPath = flagDBPath
	}
	if cfg.Ledger.DBPath == "" {
		cfg.Ledger.DBPath = config.DefaultDBPath()
	}
	if flagLedgerURL != "" {
		cfg.Ledger.URL = flagLedgerURL
	}
	if flagAddress != "" {
		cfg.Ledger.Address = flagAddress
	}
	if err := cfg.Validate(); err != nil {
		return settings{}, err
	}

	cat := catalog.Default()
	if flagStages != "" {
		if cat, err = catalog.Load(flagStages); err != nil {
			return settings{}, err
		}
	}
	return settings{cfg: cfg, cat: cat}, nil
}

// openLedger returns the remote client when a URL is configured and the
// local sqlite ledger otherwise. The returned func releases it.
func openLedger(s settings, logger *log.Logger) (ledger.Service, func(), error) {
	if s.cfg.Ledger.URL != "" {
		return ledger.NewClient(s.cfg.Ledger.URL, s.cfg.Ledger.Timeout), func() {}, nil
	}

	store, err := storage.Open(s.cfg.Ledger.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return ledger.NewLocal(store, s.cat, logger), func() { store.Close() }, nil
}

// newLogger builds a charm logger at the --log-level level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if level, err := log.ParseLevel(flagLogLevel); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

// requireAddress returns the configured address or fails with a hint.
func requireAddress(s settings, args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if s.cfg.Ledger.Address == "" {
		return "", errors.New("no player address: pass --address or set ledger.address in the config")
	}
	return s.cfg.Ledger.Address, nil
}

// exitOnError prints err and exits when it is non-nil.
func exitOnError(what string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error %s: %v\n", what, err)
		os.Exit(1)
	}
}
