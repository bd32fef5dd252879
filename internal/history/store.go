// internal/history/store.go
//
// SQLite-backed record of games played.
// Responsibilities:
//   - Insert a row when a game starts, owned by a user or an anonymous cookie.
//   - Mirror progress after every accepted guess (guesses, misses, pattern, status).
//   - On the first terminal update, bump the owner's games_played/wins/streak.
//   - Hand guest history over to an account after signup/login.
//   - List a user's recent games.
//
// Live game state stays in internal/store; this table only ever sees snapshots.

package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/robalobadob/evilhangman/internal/game"
)

// Owner identifies who a game row belongs to. Exactly one field is set.
type Owner struct {
	UserID string
	AnonID string
}

// Row is one game as listed by Recent.
type Row struct {
	ID           string `json:"id"`
	Mode         string `json:"mode"`
	WordLength   int    `json:"wordLength"`
	MaxGuesses   int    `json:"maxGuesses"`
	Status       string `json:"status"`
	Guesses      int    `json:"guesses"`
	Misses       int    `json:"misses"`
	Pattern      string `json:"pattern"`
	RevealedWord string `json:"revealedWord,omitempty"`
	StartedAt    string `json:"startedAt"`
	FinishedAt   string `json:"finishedAt,omitempty"`
}

// Stats are a user's lifetime counters.
type Stats struct {
	GamesPlayed int `json:"gamesPlayed"`
	Wins        int `json:"wins"`
	Streak      int `json:"streak"`
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store { return &Store{db: db, now: time.Now} }

// Start inserts the row for a freshly created game.
func (s *Store) Start(ctx context.Context, o Owner, mode string, policy game.Policy, snap game.Snapshot) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO games (id, user_id, anonymous_id, mode, word_length, max_guesses, policy,
                           status, pattern, started_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.GameID, nullable(o.UserID), nullable(o.AnonID), mode, snap.WordLength, snap.MaxGuesses,
		policy.String(), string(snap.State), snap.Pattern, s.stamp(),
	)
	return err
}

// Record mirrors snap into the game's row. The first update that carries a
// terminal state also updates the owning user's stats, in the same transaction.
// Updates after the game finished are ignored.
func (s *Store) Record(ctx context.Context, snap game.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	finished := snap.State != game.StateInProgress
	var finishedAt any
	if finished {
		finishedAt = s.stamp()
	}
	res, err := tx.ExecContext(ctx, `
        UPDATE games
        SET guesses=?, misses=?, pattern=?, status=?, revealed_word=?, finished_at=?
        WHERE id=? AND status='in_progress'`,
		len(snap.GuessedLetters), snap.MaxGuesses-snap.GuessesLeft, snap.Pattern,
		string(snap.State), snap.RevealedWord, finishedAt, snap.GameID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 && finished {
		var userID sql.NullString
		if err := tx.QueryRowContext(ctx, `SELECT user_id FROM games WHERE id=?`, snap.GameID).Scan(&userID); err != nil {
			return err
		}
		if userID.Valid {
			if err := bumpStats(ctx, tx, userID.String, snap.State == game.StateWon); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// Claim transfers any anonymous games to a user account.
func (s *Store) Claim(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	return err
}

// Recent returns up to limit games of a user, newest first.
func (s *Store) Recent(ctx context.Context, userID string, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, mode, word_length, max_guesses, status, guesses, misses, pattern,
               revealed_word, started_at, COALESCE(finished_at, '')
        FROM games WHERE user_id=?
        ORDER BY started_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.ID, &r.Mode, &r.WordLength, &r.MaxGuesses, &r.Status, &r.Guesses,
			&r.Misses, &r.Pattern, &r.RevealedWord, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UserStats loads the lifetime counters of a user.
func (s *Store) UserStats(ctx context.Context, userID string) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT games_played, wins, streak FROM users WHERE id=?`, userID,
	).Scan(&st.GamesPlayed, &st.Wins, &st.Streak)
	return st, err
}

// bumpStats increments games played; updates wins and streak based on result.
func bumpStats(ctx context.Context, tx *sql.Tx, userID string, won bool) error {
	var st Stats
	row := tx.QueryRowContext(ctx, `SELECT games_played, wins, streak FROM users WHERE id=?`, userID)
	if err := row.Scan(&st.GamesPlayed, &st.Wins, &st.Streak); err != nil {
		return err
	}
	st.GamesPlayed++
	if won {
		st.Wins++
		st.Streak++
	} else {
		st.Streak = 0
	}
	_, err := tx.ExecContext(ctx, `UPDATE users SET games_played=?, wins=?, streak=? WHERE id=?`,
		st.GamesPlayed, st.Wins, st.Streak, userID)
	return err
}

// stampLayout is fixed width so stored timestamps sort lexically.
const stampLayout = "2006-01-02T15:04:05.000000Z"

func (s *Store) stamp() string { return s.now().UTC().Format(stampLayout) }

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
