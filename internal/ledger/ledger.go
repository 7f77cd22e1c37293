// Package ledger connects finished runs to the reward ledger: saving
// sessions, minting stage rewards and reading player records and the
// leaderboard. The game reaches it only through RewardService and
// PlayerService; Local, Client and Server are the shipped implementations.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vovakirdan/mindora-runner/internal/catalog"
)

var (
	ErrStageNotCompleted = errors.New("ledger: stage not completed")
	ErrAlreadyClaimed    = errors.New("ledger: reward already claimed")
	ErrInvalidRequest    = errors.New("ledger: invalid request")
)

// RewardService records sessions and mints stage rewards.
type RewardService interface {
	SaveSession(ctx context.Context, r SessionResult) (SaveReceipt, error)
	MintRewards(ctx context.Context, r MintRequest) (bool, error)
}

// PlayerService reads player data. LoadPlayer returns nil for an unknown
// address. Stage 0 in LoadLeaderboard covers every stage.
type PlayerService interface {
	LoadPlayer(ctx context.Context, address string) (*PlayerRecord, error)
	LoadLeaderboard(ctx context.Context, stage, limit int) ([]LeaderboardEntry, error)
	RegisterPlayer(ctx context.Context, address, username string) error
}

// Service is both halves, as implemented by Local and Client.
type Service interface {
	RewardService
	PlayerService
}

// SessionResult is what the game reports at the end of a run.
type SessionResult struct {
	Address          string `json:"address"`
	Stage            int    `json:"stage"`
	Score            int    `json:"score"`
	Coins            int    `json:"coins"`
	QuestionsCorrect int    `json:"questions_correct"`
	StageCompleted   bool   `json:"stage_completed"`
}

func (r SessionResult) validate() error {
	if r.Address == "" {
		return fmt.Errorf("%w: missing address", ErrInvalidRequest)
	}
	if r.Stage < 1 {
		return fmt.Errorf("%w: stage %d", ErrInvalidRequest, r.Stage)
	}
	if r.Score < 0 || r.Coins < 0 || r.QuestionsCorrect < 0 {
		return fmt.Errorf("%w: negative tally", ErrInvalidRequest)
	}
	return nil
}

type SaveReceipt struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id"`
}

// MintRequest asks for the reward of one completed stage. A zero
// TokenAmount and empty BadgeName take the catalog reward.
type MintRequest struct {
	Stage       int             `json:"stage"`
	BadgeName   string          `json:"badge_name"`
	TokenAmount decimal.Decimal `json:"token_amount"`
	Address     string          `json:"address"`
}

// NewMintRequest builds the request for a stage from the catalog reward.
func NewMintRequest(cat *catalog.Catalog, address string, stage int) (MintRequest, error) {
	reward, err := cat.Reward(stage)
	if err != nil {
		return MintRequest{}, err
	}
	return MintRequest{
		Stage:       stage,
		BadgeName:   reward.Badge,
		TokenAmount: reward.Tokens,
		Address:     address,
	}, nil
}

// Claim is a granted reward.
type Claim struct {
	Stage         int             `json:"stage"`
	Tokens        decimal.Decimal `json:"tokens"`
	Badge         string          `json:"badge,omitempty"`
	TransactionID string          `json:"transaction_id"`
	ClaimedAt     time.Time       `json:"claimed_at"`
}

// RecentSession is one saved run as shown on a player record.
type RecentSession struct {
	Stage            int       `json:"stage"`
	Score            int       `json:"score"`
	Coins            int       `json:"coins"`
	QuestionsCorrect int       `json:"questions_correct"`
	Completed        bool      `json:"completed"`
	TransactionID    string    `json:"transaction_id"`
	PlayedAt         time.Time `json:"played_at"`
}

type PlayerRecord struct {
	Address         string          `json:"address"`
	Username        string          `json:"username,omitempty"`
	CurrentStage    int             `json:"current_stage"`
	GamesPlayed     int             `json:"games_played"`
	BestScore       int             `json:"best_score"`
	TotalScore      int             `json:"total_score"`
	TotalCoins      int             `json:"total_coins"`
	Tokens          decimal.Decimal `json:"tokens"`
	Badges          []string        `json:"badges"`
	CompletedStages []int           `json:"completed_stages"`
	Claims          []Claim         `json:"claims"`
	Recent          []RecentSession `json:"recent"`
	LastPlayed      time.Time       `json:"last_played,omitempty"`
}

// DisplayName returns the username or a short address label.
func (p PlayerRecord) DisplayName() string {
	return DisplayName(p.Address, p.Username)
}

// HighestCompleted is the largest completed stage, 0 if none.
func (p PlayerRecord) HighestCompleted() int {
	highest := 0
	for _, s := range p.CompletedStages {
		highest = max(highest, s)
	}
	return highest
}

type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	Address     string `json:"address"`
	Username    string `json:"username,omitempty"`
	Score       int    `json:"score"`
	Coins       int    `json:"coins"`
	GamesPlayed int    `json:"games_played"`
	TotalCoins  int    `json:"total_coins"`
}

func (e LeaderboardEntry) DisplayName() string {
	return DisplayName(e.Address, e.Username)
}

// DisplayName falls back to "Player <last 4 of address>".
func DisplayName(address, username string) string {
	if username != "" {
		return username
	}
	tail := address
	if r := []rune(address); len(r) > 4 {
		tail = string(r[len(r)-4:])
	}
	return "Player " + tail
}

// StagesImpliedByTokens maps a token balance onto the number of stages whose
// cumulative reward it covers (20/70/170 with the default catalog).
func StagesImpliedByTokens(cat *catalog.Catalog, tokens decimal.Decimal) int {
	stages := 0
	for id := 1; id <= cat.Len(); id++ {
		if tokens.LessThan(cat.CumulativeTokens(id)) {
			break
		}
		stages = id
	}
	return stages
}

// TokensConsistent reports whether the token balance agrees with the number
// of claimed stages.
func TokensConsistent(cat *catalog.Catalog, p PlayerRecord) bool {
	return StagesImpliedByTokens(cat, p.Tokens) == len(p.Claims)
}
