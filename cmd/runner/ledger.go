package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mindora-runner/internal/ledger"
	"github.com/vovakirdan/mindora-runner/internal/storage"
)

var flagHTTPAddr string

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Reward ledger tools",
}

var ledgerServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ledger HTTP API",
	Long: `Serve the local sqlite ledger over HTTP so several game hosts can
share it. Point players at it with --ledger.

Endpoints:
  GET  /health
  POST /api/v1/sessions
  POST /api/v1/rewards
  GET  /api/v1/leaderboard?stage=N&limit=N
  GET  /api/v1/players/{address}
  PUT  /api/v1/players/{address}

Examples:
  runner ledger serve
  runner ledger serve --http :9090 --db ./ledger.db`,
	Args: cobra.NoArgs,
	Run:  runLedgerServe,
}

func init() {
	ledgerServeCmd.Flags().StringVar(&flagHTTPAddr, "http", ":8080", "HTTP listen address")
	ledgerCmd.AddCommand(ledgerServeCmd)
}

func runLedgerServe(_ *cobra.Command, _ []string) {
	s, err := loadSettings()
	exitOnError("loading config", err)
	if s.cfg.Ledger.URL != "" {
		exitOnError("serving ledger", fmt.Errorf("--ledger points at a remote ledger; serve a local database instead"))
	}
	logger := newLogger(os.Stderr, "ledger")

	store, err := storage.Open(s.cfg.Ledger.DBPath)
	exitOnError("opening ledger", err)
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Serving ledger", "db", s.cfg.Ledger.DBPath, "http", flagHTTPAddr)
	srv := ledger.NewServer(ledger.NewLocal(store, s.cat, logger), logger, s.cfg.Ledger.Timeout)
	exitOnError("serving ledger", srv.ListenAndServe(ctx, flagHTTPAddr))
}
