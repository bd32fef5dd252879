// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's game (creates or reuses session)
//   - POST /daily/guess       → submit a letter for today's game
//   - GET  /daily/leaderboard → top 20 results for today (or a given date)
//
// Everyone plays the same word length on a given day (HMAC of date + salt over
// the available lengths) with the same miss budget. Each player gets one
// attempt per day: the result is persisted when the game ends, won or lost.
// Daily games live in their own store so /game/guess cannot touch them.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/evilhangman/internal/daily"
	"github.com/robalobadob/evilhangman/internal/game"
	"github.com/robalobadob/evilhangman/internal/store"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	games    store.Store
	sessions map[string]*dailySession // active sessions keyed by userID|date
	mu       sync.Mutex               // guards sessions
	now      func() time.Time
}

// dailySession holds transient in-memory state for an in-progress daily game.
type dailySession struct {
	GameID     string
	UserID     string
	Date       string
	WordLength int
	Start      time.Time
	Finished   bool
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) *dailyServer {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		games:    store.NewMemoryStore(),
		sessions: make(map[string]*dailySession),
		now:      time.Now,
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
	return dd
}

// today returns today's date key and word length.
func (d *dailyServer) today() (date string, length int, ok bool) {
	now := d.now().UTC()
	length, ok = daily.WordLength(now, d.srv.cfg.DailySalt, d.srv.availableLengths())
	return daily.DateKey(now), length, ok
}

// playerID returns the authenticated user ID if logged in,
// otherwise the anonymous cookie ID.
func (d *dailyServer) playerID(w http.ResponseWriter, r *http.Request) string {
	if me := currentUser(r); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	Date   string         `json:"date"`
	Played bool           `json:"played"`
	Game   *game.Snapshot `json:"game,omitempty"`
}

// handleNew creates or reuses a daily session for the current date.
// - If the player already has a DB row for today → Played=true.
// - Otherwise create/reuse an in-memory session and return its snapshot.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)
	date, length, ok := d.today()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no_daily_words")
		return
	}

	played, err := d.store.AlreadyPlayed(r.Context(), uid, date)
	if err != nil {
		log.Warn().Err(err).Str("player", uid).Msg("daily already played")
	}
	if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	if sess, ok := d.sessions[key]; ok {
		if snap, err := d.games.Get(r.Context(), sess.GameID); err == nil {
			writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: sess.Finished, Game: &snap})
			return
		}
	}

	g, err := game.New(d.srv.dict, length, d.srv.cfg.DailyMaxGuesses, game.WithPolicy(d.srv.cfg.EvilPolicy()))
	if err != nil {
		writeGameError(w, err)
		return
	}
	if err := d.games.Save(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	d.sessions[key] = &dailySession{
		GameID:     g.ID,
		UserID:     uid,
		Date:       date,
		WordLength: length,
		Start:      d.now(),
	}
	snap := g.Snapshot()
	log.Info().Str("gameId", g.ID).Str("date", date).Int("wordLength", length).Msg("daily game started")
	writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Game: &snap})
}

// -----------------------------------------------------------------------------
// /daily/guess

// handleGuess applies a letter to today's daily session and, when the game
// ends, stores the player's result.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)

	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	date, _, _ := d.today()

	key := uid + "|" + date
	d.mu.Lock()
	sess, ok := d.sessions[key]
	d.mu.Unlock()
	if !ok || sess.GameID != req.GameID {
		writeError(w, http.StatusConflict, "no_session")
		return
	}

	res, err := applyGuess(r.Context(), d.games, req.GameID, req.Guess)
	if errors.Is(err, game.ErrGameOver) {
		writeError(w, http.StatusConflict, "locked")
		return
	}
	if err != nil {
		writeGameError(w, err)
		return
	}

	if res.State != game.StateInProgress {
		d.mu.Lock()
		first := !sess.Finished
		sess.Finished = true
		d.mu.Unlock()
		if first {
			err := d.store.InsertResult(r.Context(), daily.Result{
				UserID:     uid,
				Date:       date,
				WordLength: sess.WordLength,
				Won:        res.State == game.StateWon,
				Guesses:    len(res.GuessedLetters),
				Misses:     res.MaxGuesses - res.GuessesLeft,
				ElapsedMs:  int(d.now().Sub(sess.Start).Milliseconds()),
			})
			if err != nil {
				log.Warn().Err(err).Str("player", uid).Msg("insert daily result")
			}
		}
	}
	writeJSON(w, http.StatusOK, guessRes{Result: res, Message: game.Describe(res)})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date, _, _ = d.today()
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}

// sweep drops idle daily games and sessions from previous days.
func (d *dailyServer) sweep(ctx context.Context, before time.Time) int {
	n := d.games.Sweep(ctx, before)
	today := daily.DateKey(d.now())
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, sess := range d.sessions {
		if _, err := d.games.Get(ctx, sess.GameID); err != nil || sess.Date != today {
			delete(d.sessions, key)
		}
	}
	return n
}
