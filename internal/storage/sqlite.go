// Package storage provides the SQLite leaderboard for finished episodes.
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

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultLimit is the size of the leaderboard.
const DefaultLimit = 10

// Store manages the SQLite database connection for the leaderboard.
type Store struct {
	db    *sql.DB
	limit int
}

// ScoreRecord is one leaderboard row.
type ScoreRecord struct {
	ID          int64
	EpisodeID   string
	PlayerName  string
	Score       int
	SpeedFactor float64
	CreatedAt   time.Time
}

// Stats summarises the leaderboard.
type Stats struct {
	Entries      int
	BestScore    int
	AverageScore float64
	TopSpeed     float64
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

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One writer; SaveScore relies on its transaction not interleaving.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, limit: DefaultLimit}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			episode_id TEXT NOT NULL UNIQUE,
			player_name TEXT NOT NULL,
			score INTEGER NOT NULL,
			speed_factor REAL NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_scores_rank ON scores(score DESC, created_at ASC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SetLimit changes how many records the leaderboard keeps. Values below 1 are ignored.
func (s *Store) SetLimit(n int) {
	if n > 0 {
		s.limit = n
	}
}

// Limit returns the leaderboard size.
func (s *Store) Limit() int {
	return s.limit
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// rankOrder sorts best first; ties go to the earlier record.
const rankOrder = "score DESC, created_at ASC, id ASC"

// SaveScore inserts a record and trims the board to its limit in one
// transaction. A record for an episode that is already stored is ignored.
// Reports whether the record is on the board afterwards.
func (s *Store) SaveScore(ctx context.Context, rec ScoreRecord) (bool, error) {
	if rec.EpisodeID == "" {
		return false, errors.New("storage: score record has no episode ID")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx,
		`INSERT INTO scores (episode_id, player_name, score, speed_factor, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(episode_id) DO NOTHING`,
		rec.EpisodeID, rec.PlayerName, rec.Score, rec.SpeedFactor, rec.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return false, fmt.Errorf("storage: cannot save score: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot read affected rows: %w", err)
	}
	if inserted == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM scores WHERE id NOT IN (
			SELECT id FROM scores ORDER BY `+rankOrder+` LIMIT ?
		)`,
		s.limit,
	); err != nil {
		return false, fmt.Errorf("storage: cannot trim leaderboard: %w", err)
	}

	var kept int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM scores WHERE episode_id = ?", rec.EpisodeID,
	).Scan(&kept); err != nil {
		return false, fmt.Errorf("storage: cannot check saved score: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("storage: cannot commit score: %w", err)
	}
	return kept > 0, nil
}

// TopScores retrieves the best records, best first.
// A limit of 0 or less returns the whole board.
func (s *Store) TopScores(ctx context.Context, limit int) ([]ScoreRecord, error) {
	if limit <= 0 {
		limit = s.limit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, episode_id, player_name, score, speed_factor, created_at
		 FROM scores
		 ORDER BY `+rankOrder+`
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var records []ScoreRecord
	for rows.Next() {
		var r ScoreRecord
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.EpisodeID, &r.PlayerName, &r.Score, &r.SpeedFactor, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = time.UnixMilli(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// HighScore returns the best score on the board.
// Returns 0 if no scores exist.
func (s *Store) HighScore(ctx context.Context) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT MAX(score) FROM scores").Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// Qualifies reports whether score would enter the board.
func (s *Store) Qualifies(ctx context.Context, score int) (bool, error) {
	var count int
	var lowest sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*), MIN(score) FROM scores").Scan(&count, &lowest)
	if err != nil {
		return false, fmt.Errorf("storage: cannot query board: %w", err)
	}
	if count < s.limit || !lowest.Valid {
		return true, nil
	}
	return int64(score) > lowest.Int64, nil
}

// Stats returns aggregate numbers for the board.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var best sql.NullInt64
	var avg, speed sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), MAX(score), AVG(score), MAX(speed_factor) FROM scores",
	).Scan(&st.Entries, &best, &avg, &speed)
	if err != nil {
		return Stats{}, fmt.Errorf("storage: cannot query stats: %w", err)
	}

	st.BestScore = int(best.Int64)
	st.AverageScore = avg.Float64
	st.TopSpeed = speed.Float64
	return st, nil
}

// ClearScores deletes every record.
func (s *Store) ClearScores(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM scores")
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}
