package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/mindora-runner/internal/catalog"
	"github.com/vovakirdan/mindora-runner/internal/storage"
)

// Local is the embedded ledger backed by the sqlite store.
type Local struct {
	store  *storage.Store
	cat    *catalog.Catalog
	logger *log.Logger
}

// NewLocal creates a ledger over an open store. A nil logger discards output.
func NewLocal(store *storage.Store, cat *catalog.Catalog, logger *log.Logger) *Local {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Local{store: store, cat: cat, logger: logger}
}

func (l *Local) SaveSession(ctx context.Context, r SessionResult) (SaveReceipt, error) {
	if err := r.validate(); err != nil {
		return SaveReceipt{}, err
	}
	if _, err := l.cat.Stage(r.Stage); err != nil {
		return SaveReceipt{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	txID, err := l.store.SaveSession(ctx, storage.Session{
		Address:          r.Address,
		Stage:            r.Stage,
		Score:            r.Score,
		Coins:            r.Coins,
		QuestionsCorrect: r.QuestionsCorrect,
		Completed:        r.StageCompleted,
	})
	if err != nil {
		return SaveReceipt{}, fmt.Errorf("ledger: save session: %w", err)
	}

	l.logger.Info("Session saved", "address", r.Address, "stage", r.Stage, "score", r.Score, "tx", txID)
	return SaveReceipt{Success: true, TransactionID: txID}, nil
}

// MintRewards grants the catalog reward for a completed stage once. A
// request that names a different amount or badge is rejected.
func (l *Local) MintRewards(ctx context.Context, r MintRequest) (bool, error) {
	if r.Address == "" {
		return false, fmt.Errorf("%w: missing address", ErrInvalidRequest)
	}
	reward, err := l.cat.Reward(r.Stage)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if !r.TokenAmount.IsZero() && !r.TokenAmount.Equal(reward.Tokens) {
		return false, fmt.Errorf("%w: stage %d pays %s tokens, not %s",
			ErrInvalidRequest, r.Stage, reward.Tokens, r.TokenAmount)
	}
	if r.BadgeName != "" && r.BadgeName != reward.Badge {
		return false, fmt.Errorf("%w: stage %d badge is %q", ErrInvalidRequest, r.Stage, reward.Badge)
	}

	c, err := l.store.ClaimReward(ctx, r.Address, r.Stage, reward.Tokens, reward.Badge)
	switch {
	case errors.Is(err, storage.ErrNotCompleted):
		return false, ErrStageNotCompleted
	case errors.Is(err, storage.ErrAlreadyClaimed):
		return false, ErrAlreadyClaimed
	case err != nil:
		return false, fmt.Errorf("ledger: mint: %w", err)
	}

	l.logger.Info("Reward minted", "address", r.Address, "stage", r.Stage,
		"tokens", c.Tokens.String(), "badge", c.Badge, "tx", c.TxID)
	return true, nil
}

// recentSessions is how many runs a player record lists.
const recentSessions = 5

func (l *Local) LoadPlayer(ctx context.Context, address string) (*PlayerRecord, error) {
	p, err := l.store.Player(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("ledger: load player: %w", err)
	}
	if p == nil {
		return nil, nil
	}

	stats, err := l.store.Stats(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("ledger: load player: %w", err)
	}
	completed, err := l.store.CompletedStages(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("ledger: load player: %w", err)
	}
	claims, err := l.store.Claims(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("ledger: load player: %w", err)
	}
	tokens, err := l.store.TotalTokens(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("ledger: load player: %w", err)
	}
	sessions, err := l.store.Sessions(ctx, address, recentSessions)
	if err != nil {
		return nil, fmt.Errorf("ledger: load player: %w", err)
	}

	rec := &PlayerRecord{
		Address:         p.Address,
		Username:        p.Username,
		GamesPlayed:     stats.Games,
		BestScore:       stats.BestScore,
		TotalScore:      stats.TotalScore,
		TotalCoins:      stats.TotalCoins,
		LastPlayed:      stats.LastPlayed,
		Tokens:          tokens,
		CompletedStages: completed,
		Badges:          []string{},
		Claims:          make([]Claim, 0, len(claims)),
		Recent:          make([]RecentSession, 0, len(sessions)),
	}
	if rec.CompletedStages == nil {
		rec.CompletedStages = []int{}
	}
	for _, c := range claims {
		if c.Badge != "" {
			rec.Badges = append(rec.Badges, c.Badge)
		}
		rec.Claims = append(rec.Claims, Claim{
			Stage:         c.Stage,
			Tokens:        c.Tokens,
			Badge:         c.Badge,
			TransactionID: c.TxID,
			ClaimedAt:     c.CreatedAt,
		})
	}
	for _, s := range sessions {
		rec.Recent = append(rec.Recent, RecentSession{
			Stage:            s.Stage,
			Score:            s.Score,
			Coins:            s.Coins,
			QuestionsCorrect: s.QuestionsCorrect,
			Completed:        s.Completed,
			TransactionID:    s.TxID,
			PlayedAt:         s.CreatedAt,
		})
	}
	rec.CurrentStage = min(rec.HighestCompleted()+1, l.cat.Len())

	if !TokensConsistent(l.cat, *rec) {
		l.logger.Warn("Token balance disagrees with claims", "address", address,
			"tokens", rec.Tokens.String(), "claims", len(rec.Claims))
	}
	return rec, nil
}

func (l *Local) LoadLeaderboard(ctx context.Context, stage, limit int) ([]LeaderboardEntry, error) {
	if stage < 0 {
		return nil, fmt.Errorf("%w: stage %d", ErrInvalidRequest, stage)
	}
	rows, err := l.store.Leaderboard(ctx, stage, limit)
	if err != nil {
		return nil, fmt.Errorf("ledger: leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, len(rows))
	for i, r := range rows {
		entries[i] = LeaderboardEntry{
			Rank:        i + 1,
			Address:     r.Address,
			Username:    r.Username,
			Score:       r.BestScore,
			Coins:       r.BestCoins,
			GamesPlayed: r.Games,
			TotalCoins:  r.TotalCoins,
		}
	}
	return entries, nil
}

func (l *Local) RegisterPlayer(ctx context.Context, address, username string) error {
	if address == "" {
		return fmt.Errorf("%w: missing address", ErrInvalidRequest)
	}
	if err := l.store.RegisterPlayer(ctx, address, username); err != nil {
		return fmt.Errorf("ledger: register: %w", err)
	}
	l.logger.Info("Player registered", "address", address, "username", username)
	return nil
}
