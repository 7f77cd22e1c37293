package ledger

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Status is the ledger state shown in the HUD.
type Status int

const (
	StatusIdle Status = iota
	StatusSaving
	StatusSaved
	StatusSaveFailed
	StatusMinting
	StatusMinted
	StatusMintFailed
	StatusPlayerLoaded
	StatusPlayerFailed
	StatusLeaderboard
	StatusLeaderboardFailed
)

var statusNames = [...]string{
	StatusIdle:              "",
	StatusSaving:            "saving",
	StatusSaved:             "saved",
	StatusSaveFailed:        "save failed",
	StatusMinting:           "minting",
	StatusMinted:            "minted",
	StatusMintFailed:        "mint failed",
	StatusPlayerLoaded:      "player loaded",
	StatusPlayerFailed:      "player failed",
	StatusLeaderboard:       "leaderboard",
	StatusLeaderboardFailed: "leaderboard failed",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// Failed reports whether the status marks a failed call.
func (s Status) Failed() bool {
	switch s {
	case StatusSaveFailed, StatusMintFailed, StatusPlayerFailed, StatusLeaderboardFailed:
		return true
	}
	return false
}

// Pending reports whether a call is in flight.
func (s Status) Pending() bool {
	return s == StatusSaving || s == StatusMinting
}

// Result is delivered on the dispatcher channel when a call changes state.
type Result struct {
	Status  Status
	Stage   int
	Receipt SaveReceipt
	Player  *PlayerRecord
	Board   []LeaderboardEntry
	Err     error
}

// Dispatcher runs ledger calls on goroutines and reports results on a
// buffered channel. Callers never block on the ledger.
type Dispatcher struct {
	svc     Service
	timeout time.Duration
	logger  *log.Logger

	results chan Result
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher. Each call is bounded by timeout.
func NewDispatcher(svc Service, timeout time.Duration, logger *log.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Dispatcher{
		svc:     svc,
		timeout: timeout,
		logger:  logger,
		results: make(chan Result, 16),
		done:    make(chan struct{}),
	}
}

// Results returns the channel that carries call outcomes.
func (d *Dispatcher) Results() <-chan Result {
	return d.results
}

// Save records a session. When the stage was completed and mint is non-nil,
// the reward is minted right after a successful save.
func (d *Dispatcher) Save(r SessionResult, mint *MintRequest) Status {
	d.spawn(func(ctx context.Context) {
		receipt, err := d.svc.SaveSession(ctx, r)
		if err == nil && !receipt.Success {
			err = ErrInvalidRequest
		}
		if err != nil {
			d.logger.Error("Failed to save session", "stage", r.Stage, "error", err)
			d.send(Result{Status: StatusSaveFailed, Stage: r.Stage, Err: err})
			return
		}
		d.logger.Debug("Session saved", "stage", r.Stage, "tx", receipt.TransactionID)
		d.send(Result{Status: StatusSaved, Stage: r.Stage, Receipt: receipt})

		if r.StageCompleted && mint != nil {
			d.send(Result{Status: StatusMinting, Stage: mint.Stage})
			d.mint(ctx, *mint)
		}
	})
	return StatusSaving
}

// Mint requests a stage reward on its own, e.g. to retry a failed mint.
func (d *Dispatcher) Mint(req MintRequest) Status {
	d.spawn(func(ctx context.Context) {
		d.mint(ctx, req)
	})
	return StatusMinting
}

func (d *Dispatcher) mint(ctx context.Context, req MintRequest) {
	ok, err := d.svc.MintRewards(ctx, req)
	if err == nil && !ok {
		err = ErrStageNotCompleted
	}
	if err != nil {
		d.logger.Error("Failed to mint rewards", "stage", req.Stage, "error", err)
		d.send(Result{Status: StatusMintFailed, Stage: req.Stage, Err: err})
		return
	}
	d.send(Result{Status: StatusMinted, Stage: req.Stage})
}

// LoadPlayer fetches a player record in the background.
func (d *Dispatcher) LoadPlayer(address string) {
	d.spawn(func(ctx context.Context) {
		rec, err := d.svc.LoadPlayer(ctx, address)
		if err != nil {
			d.logger.Error("Failed to load player", "address", address, "error", err)
			d.send(Result{Status: StatusPlayerFailed, Err: err})
			return
		}
		d.send(Result{Status: StatusPlayerLoaded, Player: rec})
	})
}

// LoadLeaderboard fetches the leaderboard in the background.
func (d *Dispatcher) LoadLeaderboard(stage, limit int) {
	d.spawn(func(ctx context.Context) {
		board, err := d.svc.LoadLeaderboard(ctx, stage, limit)
		if err != nil {
			d.logger.Error("Failed to load leaderboard", "error", err)
			d.send(Result{Status: StatusLeaderboardFailed, Stage: stage, Err: err})
			return
		}
		d.send(Result{Status: StatusLeaderboard, Stage: stage, Board: board})
	})
}

// Close stops delivery and waits for in-flight calls to return.
func (d *Dispatcher) Close() {
	d.once.Do(func() { close(d.done) })
	d.wg.Wait()
}

func (d *Dispatcher) spawn(fn func(ctx context.Context)) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		fn(ctx)
	}()
}

// send drops the result once the dispatcher is closed.
func (d *Dispatcher) send(r Result) {
	select {
	case d.results <- r:
	case <-d.done:
	}
}
