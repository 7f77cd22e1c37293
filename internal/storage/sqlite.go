// Package storage provides SQLite-based persistence for the local reward
// ledger: players, saved sessions and reward claims.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

var (
	// ErrNotCompleted is returned when claiming a stage with no completed
	// session on record.
	ErrNotCompleted = errors.New("storage: stage not completed")
	// ErrAlreadyClaimed is returned when a claim for (address, stage) exists.
	ErrAlreadyClaimed = errors.New("storage: reward already claimed")
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Player is a registered or auto-created player row.
type Player struct {
	Address      string
	Username     string
	RegisteredAt time.Time
}

// Session is one finished run as recorded by the ledger.
type Session struct {
	ID               int64
	TxID             string
	Address          string
	Stage            int
	Score            int
	Coins            int
	QuestionsCorrect int
	Completed        bool
	CreatedAt        time.Time
}

// Claim is a granted stage reward.
type Claim struct {
	TxID      string
	Address   string
	Stage     int
	Tokens    decimal.Decimal
	Badge     string
	CreatedAt time.Time
}

// LeaderboardRow aggregates all sessions of one player.
type LeaderboardRow struct {
	Address    string
	Username   string
	BestScore  int
	BestCoins  int
	Games      int
	TotalCoins int
}

// PlayerStats aggregates a player's sessions across all stages.
type PlayerStats struct {
	Games      int
	BestScore  int
	TotalScore int
	TotalCoins int
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One writer keeps claim transactions serialised without busy retries.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS players (
			address TEXT PRIMARY KEY,
			username TEXT NOT NULL DEFAULT '',
			registered_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tx_id TEXT NOT NULL UNIQUE,
			address TEXT NOT NULL,
			stage INTEGER NOT NULL,
			score INTEGER NOT NULL,
			coins INTEGER NOT NULL DEFAULT 0,
			questions_correct INTEGER NOT NULL DEFAULT 0,
			completed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_address ON sessions(address);
		CREATE INDEX IF NOT EXISTS idx_sessions_top ON sessions(stage, score DESC);

		CREATE TABLE IF NOT EXISTS claims (
			address TEXT NOT NULL,
			stage INTEGER NOT NULL,
			tx_id TEXT NOT NULL UNIQUE,
			tokens TEXT NOT NULL,
			badge TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (address, stage)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RegisterPlayer creates the player or updates the username.
func (s *Store) RegisterPlayer(ctx context.Context, address, username string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO players (address, username) VALUES (?, ?)
		 ON CONFLICT(address) DO UPDATE SET username = excluded.username`,
		address, username,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot register player: %w", err)
	}
	return nil
}

// Player returns the player row, or nil if the address is unknown.
func (s *Store) Player(ctx context.Context, address string) (*Player, error) {
	var p Player
	var registeredAt any
	err := s.db.QueryRowContext(ctx,
		"SELECT address, username, registered_at FROM players WHERE address = ?",
		address,
	).Scan(&p.Address, &p.Username, &registeredAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player: %w", err)
	}
	p.RegisteredAt = parseTime(registeredAt)
	return &p, nil
}

// SaveSession records a finished run and returns its transaction id.
// Unknown addresses get a player row with no username.
func (s *Store) SaveSession(ctx context.Context, sess Session) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO players (address) VALUES (?)", sess.Address,
	); err != nil {
		return "", fmt.Errorf("storage: cannot ensure player: %w", err)
	}

	txID := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (tx_id, address, stage, score, coins, questions_correct, completed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		txID, sess.Address, sess.Stage, sess.Score, sess.Coins, sess.QuestionsCorrect, sess.Completed,
	); err != nil {
		return "", fmt.Errorf("storage: cannot save session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit session: %w", err)
	}
	return txID, nil
}

// Sessions returns a player's sessions, newest first.
func (s *Store) Sessions(ctx context.Context, address string, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tx_id, address, stage, score, coins, questions_correct, completed, created_at
		 FROM sessions
		 WHERE address = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		address, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var createdAt any
		if err := rows.Scan(&sess.ID, &sess.TxID, &sess.Address, &sess.Stage, &sess.Score,
			&sess.Coins, &sess.QuestionsCorrect, &sess.Completed, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sess.CreatedAt = parseTime(createdAt)
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return sessions, nil
}

// CompletedStages returns the distinct stages the player has completed, in
// ascending order.
func (s *Store) CompletedStages(ctx context.Context, address string) ([]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT stage FROM sessions
		 WHERE address = ? AND completed = 1
		 ORDER BY stage`,
		address,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query completed stages: %w", err)
	}
	defer rows.Close()

	var stages []int
	for rows.Next() {
		var stage int
		if err := rows.Scan(&stage); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		stages = append(stages, stage)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stages, nil
}

// ClaimReward grants the reward for a stage once per address. The claim is
// only written if a completed session for the stage exists; both checks run
// in one transaction.
func (s *Store) ClaimReward(ctx context.Context, address string, stage int, tokens decimal.Decimal, badge string) (Claim, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Claim{}, fmt.Errorf("storage: cannot begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var completed int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sessions WHERE address = ? AND stage = ? AND completed = 1",
		address, stage,
	).Scan(&completed); err != nil {
		return Claim{}, fmt.Errorf("storage: cannot verify completion: %w", err)
	}
	if completed == 0 {
		return Claim{}, ErrNotCompleted
	}

	c := Claim{
		TxID:    uuid.NewString(),
		Address: address,
		Stage:   stage,
		Tokens:  tokens,
		Badge:   badge,
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO claims (address, stage, tx_id, tokens, badge) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(address, stage) DO NOTHING`,
		c.Address, c.Stage, c.TxID, c.Tokens.String(), c.Badge,
	)
	if err != nil {
		return Claim{}, fmt.Errorf("storage: cannot save claim: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Claim{}, ErrAlreadyClaimed
	}

	if err := tx.Commit(); err != nil {
		return Claim{}, fmt.Errorf("storage: cannot commit claim: %w", err)
	}
	c.CreatedAt = time.Now().UTC()
	return c, nil
}

// Claims returns a player's claims ordered by stage.
func (s *Store) Claims(ctx context.Context, address string) ([]Claim, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tx_id, address, stage, tokens, badge, created_at
		 FROM claims WHERE address = ? ORDER BY stage`,
		address,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query claims: %w", err)
	}
	defer rows.Close()

	var claims []Claim
	for rows.Next() {
		var c Claim
		var createdAt any
		if err := rows.Scan(&c.TxID, &c.Address, &c.Stage, &c.Tokens, &c.Badge, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		c.CreatedAt = parseTime(createdAt)
		claims = append(claims, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return claims, nil
}

// TotalTokens sums a player's claimed tokens exactly.
func (s *Store) TotalTokens(ctx context.Context, address string) (decimal.Decimal, error) {
	claims, err := s.Claims(ctx, address)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, c := range claims {
		total = total.Add(c.Tokens)
	}
	return total, nil
}

// Stats retrieves aggregated statistics for one player across all stages.
func (s *Store) Stats(ctx context.Context, address string) (PlayerStats, error) {
	var st PlayerStats
	var lastPlayed any
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(SUM(score), 0),
		        COALESCE(SUM(coins), 0), MAX(created_at)
		 FROM sessions WHERE address = ?`,
		address,
	).Scan(&st.Games, &st.BestScore, &st.TotalScore, &st.TotalCoins, &lastPlayed)
	if err != nil {
		return PlayerStats{}, fmt.Errorf("storage: cannot get player stats: %w", err)
	}
	st.LastPlayed = parseTime(lastPlayed)
	return st, nil
}

// Leaderboard aggregates sessions per player: the best run (score, then
// coins as tiebreak), games played and coins across all games. Stage 0
// covers every stage.
func (s *Store) Leaderboard(ctx context.Context, stage, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`WITH ranked AS (
			SELECT address, score, coins,
			       ROW_NUMBER() OVER (PARTITION BY address ORDER BY score DESC, coins DESC, id ASC) AS rn,
			       COUNT(*) OVER (PARTITION BY address) AS games,
			       SUM(coins) OVER (PARTITION BY address) AS total_coins
			FROM sessions
			WHERE ? = 0 OR stage = ?
		)
		SELECT r.address, COALESCE(p.username, ''), r.score, r.coins, r.games, r.total_coins
		FROM ranked r
		LEFT JOIN players p ON p.address = r.address
		WHERE r.rn = 1
		ORDER BY r.score DESC, r.coins DESC, r.address ASC
		LIMIT ?`,
		stage, stage, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	var board []LeaderboardRow
	for rows.Next() {
		var r LeaderboardRow
		if err := rows.Scan(&r.Address, &r.Username, &r.BestScore, &r.BestCoins, &r.Games, &r.TotalCoins); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		board = append(board, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return board, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
