// internal/httpserver/server.go
//
// HTTP server wiring for the evil hangman backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/lengths".
//   - Game endpoints (optional auth): POST /game/new, POST /game/guess, GET /game/{id}.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine (see auth.go).
//
// Notes:
//   - Live games sit in store.Store; every accepted guess is mirrored into the
//     sqlite history on a best-effort basis (failures are logged, never returned).
//   - User text is lowercased and trimmed here; the engine only sees a–z.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/evilhangman/internal/config"
	"github.com/robalobadob/evilhangman/internal/game"
	"github.com/robalobadob/evilhangman/internal/history"
	"github.com/robalobadob/evilhangman/internal/store"
	"github.com/robalobadob/evilhangman/internal/words"
)

// Server bundles router, live game store, dictionary and DB-backed stores.
type Server struct {
	r       *chi.Mux
	cfg     config.Config
	dict    *words.List
	store   store.Store
	db      *sql.DB
	history *history.Store
	daily   *dailyServer
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, dict *words.List, st store.Store, db *sql.DB) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		cfg:     cfg,
		dict:    dict,
		store:   st,
		db:      db,
		history: history.NewStore(db),
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)        // add X-Request-ID
	s.r.Use(chimw.RealIP)           // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)              // one zerolog line per request
	s.r.Use(chimw.Recoverer)        // recover from panics
	s.r.Use(chimw.Timeout(timeout)) // bound handler time
	s.r.Use(jsonContentType)        // default JSON responses
	s.r.Use(s.cors)                 // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "evil-hangman",
			"endpoints": []string{"/health", "/lengths", "POST /game/new", "POST /game/guess", "GET /game/{id}", "/daily/*", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/lengths", s.handleLengths)

	// Game endpoints: OPTIONAL AUTH (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Post("/game/new", s.handleNewGame)
		r.Post("/game/guess", s.handleGuess)
		r.Get("/game/{id}", s.handleGetGame)
	})

	// Daily Challenge: OPTIONAL AUTH (guests can play; result persisted on finish)
	s.daily = s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	// Debug: dictionary counts
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		n, lengths := s.dict.Stats()
		writeJSON(w, http.StatusOK, map[string]int{"words": n, "lengths": lengths})
	})

	return s
}

// Router exposes the internal router (used by main and tests).
func (s *Server) Router() chi.Router { return s.r }

// Sweep drops live games idle since before, regular and daily alike.
func (s *Server) Sweep(ctx context.Context, before time.Time) int {
	return s.store.Sweep(ctx, before) + s.daily.sweep(ctx, before)
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one structured line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("requestId", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

// ------------------------------ GAME ---------------------------------------

type lengthsRes struct {
	Lengths           []int `json:"lengths"`
	DefaultWordLength int   `json:"defaultWordLength"`
	DefaultMaxGuesses int   `json:"defaultMaxGuesses"`
	MinGuesses        int   `json:"minGuesses"`
	MaxGuesses        int   `json:"maxGuesses"`
}

// handleLengths lists the word lengths worth offering plus guess bounds.
func (s *Server) handleLengths(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, lengthsRes{
		Lengths:           s.availableLengths(),
		DefaultWordLength: s.cfg.DefaultWordLength,
		DefaultMaxGuesses: s.cfg.DefaultMaxGuesses,
		MinGuesses:        s.cfg.MinGuesses,
		MaxGuesses:        s.cfg.MaxGuesses,
	})
}

func (s *Server) availableLengths() []int {
	return s.dict.AvailableLengths(s.cfg.MinWordLength, s.cfg.MinWordsPerLength)
}

// newGameReq is the payload for POST /game/new. Zero values select defaults.
type newGameReq struct {
	WordLength int `json:"wordLength"`
	MaxGuesses int `json:"maxGuesses"`
}

// handleNewGame creates a live game and persists its history row
// (owned by the signed-in user or the anonymous cookie).
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if req.WordLength == 0 {
		req.WordLength = s.cfg.DefaultWordLength
	}
	if req.MaxGuesses == 0 {
		req.MaxGuesses = s.cfg.DefaultMaxGuesses
	}
	if !s.cfg.GuessesAllowed(req.MaxGuesses) {
		writeError(w, http.StatusBadRequest, "invalid_max_guesses")
		return
	}

	g, err := game.New(s.dict, req.WordLength, req.MaxGuesses, game.WithPolicy(s.cfg.EvilPolicy()))
	if err != nil {
		writeGameError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	snap := g.Snapshot()
	if err := s.history.Start(r.Context(), s.owner(w, r), "normal", g.Policy(), snap); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}
	log.Info().Str("gameId", g.ID).Int("wordLength", g.WordLength).Int("candidates", len(g.Candidates)).
		Str("policy", g.Policy().String()).Msg("game started")

	writeJSON(w, http.StatusOK, snap)
}

// guessReq is the payload for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

// guessRes is the response of POST /game/guess and POST /daily/guess.
type guessRes struct {
	game.Result
	Message string `json:"message"`
}

// handleGuess applies one letter to a live game and mirrors progress to history.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	res, err := applyGuess(r.Context(), s.store, req.GameID, req.Guess)
	if err != nil {
		writeGameError(w, err)
		return
	}

	if err := s.history.Record(r.Context(), res.Snapshot); err != nil {
		log.Warn().Err(err).Str("gameId", res.GameID).Msg("record game progress")
	}
	if res.State != game.StateInProgress {
		log.Info().Str("gameId", res.GameID).Str("state", string(res.State)).
			Int("guesses", len(res.GuessedLetters)).Msg("game finished")
	}
	writeJSON(w, http.StatusOK, guessRes{Result: res, Message: game.Describe(res)})
}

// handleGetGame returns the current snapshot of a live game.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// applyGuess normalises the player's text and runs it against the stored game
// under the store's per-game lock.
func applyGuess(ctx context.Context, st store.Store, gameID, guess string) (game.Result, error) {
	if gameID == "" {
		return game.Result{}, store.ErrNotFound
	}
	letter := strings.ToLower(strings.TrimSpace(guess))
	var res game.Result
	err := st.Update(ctx, gameID, func(g *game.Game) error {
		var err error
		res, err = g.Guess(letter)
		return err
	})
	return res, err
}

// owner identifies who a new game belongs to.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) history.Owner {
	if me := currentUser(r); me != nil {
		return history.Owner{UserID: me.ID}
	}
	return history.Owner{AnonID: s.ensureAnonID(w, r)}
}

// ------------------------------ responses ----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// writeGameError maps engine and store errors to HTTP statuses.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, game.ErrInvalidLetter):
		writeError(w, http.StatusBadRequest, "invalid_guess")
	case errors.Is(err, game.ErrNoWordsForLength):
		writeError(w, http.StatusBadRequest, "no_words_for_length")
	case errors.Is(err, game.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input")
	case errors.Is(err, game.ErrAlreadyGuessed):
		writeError(w, http.StatusConflict, "already_guessed")
	case errors.Is(err, game.ErrGameOver):
		writeError(w, http.StatusConflict, "game_over")
	default:
		log.Error().Err(err).Msg("game request failed")
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}
