package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/evilhangman/internal/config"
	"github.com/robalobadob/evilhangman/internal/db"
	"github.com/robalobadob/evilhangman/internal/store"
	"github.com/robalobadob/evilhangman/internal/words"
)

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newTestServer(t *testing.T) (*Server, *client) {
	t.Helper()
	cfg, err := config.Parse()
	require.NoError(t, err)
	cfg.DefaultWordLength = 3
	cfg.MinWordsPerLength = 1

	dict, err := words.FromWords([]string{"cat", "car", "can", "bat"})
	require.NoError(t, err)
	conn, err := db.OpenAndMigrate(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	s := New(cfg, dict, store.NewMemoryStore(), conn)
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return s, &client{t: t, base: ts.URL, http: &http.Client{Jar: jar}}
}

// do sends body as JSON (when non-nil) and decodes the response into out.
func (c *client) do(method, path string, body, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()
	if out != nil {
		require.NoError(c.t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

type snapshotBody struct {
	GameID         string   `json:"gameId"`
	Pattern        string   `json:"pattern"`
	GuessedLetters []string `json:"guessedLetters"`
	GuessesLeft    int      `json:"guessesLeft"`
	RemainingWords int      `json:"remainingWords"`
	State          string   `json:"state"`
	RevealedWord   string   `json:"revealedWord"`
	Hit            bool     `json:"hit"`
	Message        string   `json:"message"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *client) newGame(body any) snapshotBody {
	c.t.Helper()
	var snap snapshotBody
	require.Equal(c.t, http.StatusOK, c.do(http.MethodPost, "/game/new", body, &snap))
	return snap
}

func (c *client) guess(id, letter string) (int, snapshotBody) {
	c.t.Helper()
	var res snapshotBody
	code := c.do(http.MethodPost, "/game/guess", guessReq{GameID: id, Guess: letter}, &res)
	return code, res
}

func TestHealthAndLengths(t *testing.T) {
	_, c := newTestServer(t)

	var health map[string]bool
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", nil, &health))
	assert.True(t, health["ok"])

	var lengths lengthsRes
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/lengths", nil, &lengths))
	assert.Equal(t, []int{3}, lengths.Lengths)
	assert.Equal(t, 6, lengths.MinGuesses)
	assert.Equal(t, 12, lengths.MaxGuesses)

	var nf errorBody
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/nope", nil, &nf))
	assert.Equal(t, "not_found", nf.Error)
}

func TestNewGameAndGuess(t *testing.T) {
	_, c := newTestServer(t)

	snap := c.newGame(nil)
	assert.Equal(t, "___", snap.Pattern)
	assert.Equal(t, 8, snap.GuessesLeft)
	assert.Equal(t, 4, snap.RemainingWords)
	assert.Equal(t, "in_progress", snap.State)

	code, res := c.guess(snap.GameID, " A ")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, res.Hit)
	assert.Equal(t, "_a_", res.Pattern)
	assert.Equal(t, "Good guess! 'a' is in the word.", res.Message)

	var e errorBody
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/game/guess", guessReq{GameID: snap.GameID, Guess: "a"}, &e))
	assert.Equal(t, "already_guessed", e.Error)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game/guess", guessReq{GameID: snap.GameID, Guess: "1"}, &e))
	assert.Equal(t, "invalid_guess", e.Error)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/game/guess", guessReq{GameID: "missing", Guess: "b"}, &e))

	var got snapshotBody
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/game/"+snap.GameID, nil, &got))
	assert.Equal(t, []string{"a"}, got.GuessedLetters)
	assert.Equal(t, "_a_", got.Pattern)
}

func TestNewGameValidation(t *testing.T) {
	_, c := newTestServer(t)

	var e errorBody
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game/new", newGameReq{WordLength: 9}, &e))
	assert.Equal(t, "no_words_for_length", e.Error)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game/new", newGameReq{WordLength: 3, MaxGuesses: 3}, &e))
	assert.Equal(t, "invalid_max_guesses", e.Error)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/game/new", newGameReq{WordLength: -1}, &e))
	assert.Equal(t, "invalid_input", e.Error)
}

func TestGameLostThenLocked(t *testing.T) {
	_, c := newTestServer(t)
	snap := c.newGame(newGameReq{WordLength: 3, MaxGuesses: 6})

	var res snapshotBody
	for _, l := range []string{"z", "y", "x", "w", "v", "u"} {
		var code int
		code, res = c.guess(snap.GameID, l)
		require.Equal(t, http.StatusOK, code)
		assert.False(t, res.Hit)
	}
	assert.Equal(t, "lost", res.State)
	assert.Equal(t, 0, res.GuessesLeft)
	assert.Contains(t, []string{"cat", "car", "can", "bat"}, res.RevealedWord)
	assert.Equal(t, "Game over! You ran out of guesses. The word was: "+res.RevealedWord, res.Message)

	var e errorBody
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/game/guess", guessReq{GameID: snap.GameID, Guess: "c"}, &e))
	assert.Equal(t, "game_over", e.Error)
}

func TestSignupClaimsGuestGamesAndTracksStats(t *testing.T) {
	_, c := newTestServer(t)

	var e errorBody
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/stats/me", nil, &e))

	guest := c.newGame(nil)

	creds := credentials{Username: "evil_fan", Password: "correct horse"}
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/auth/signup", creds, nil))
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/auth/signup", creds, &e))

	var me authUser
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/auth/me", nil, &me))
	assert.Equal(t, "evil_fan", me.Username)

	snap := c.newGame(newGameReq{WordLength: 3, MaxGuesses: 6})
	for _, l := range []string{"z", "y", "x", "w", "v", "u"} {
		code, _ := c.guess(snap.GameID, l)
		require.Equal(t, http.StatusOK, code)
	}

	var stats map[string]any
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/stats/me", nil, &stats))
	assert.EqualValues(t, 1, stats["gamesPlayed"])
	assert.EqualValues(t, 0, stats["wins"])

	var mine []map[string]any
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/games/mine", nil, &mine))
	ids := []any{}
	for _, row := range mine {
		ids = append(ids, row["id"])
	}
	assert.ElementsMatch(t, []any{guest.GameID, snap.GameID}, ids)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/auth/logout", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/stats/me", nil, &e))

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/auth/login", credentials{Username: "evil_fan", Password: "wrong password"}, &e))
	assert.Equal(t, http.StatusOK, c.do(http.MethodPost, "/auth/login", credentials{Username: "EVIL_FAN", Password: "correct horse"}, nil))
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/stats/me", nil, &stats))
}

func TestSignupValidation(t *testing.T) {
	_, c := newTestServer(t)

	var e errorBody
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/auth/signup", credentials{Username: "ab", Password: "long enough"}, &e))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/auth/signup", credentials{Username: "fine_name", Password: "short"}, &e))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/auth/signup", credentials{Username: "bad name!", Password: "long enough"}, &e))
}

type dailyNewBody struct {
	Date   string        `json:"date"`
	Played bool          `json:"played"`
	Game   *snapshotBody `json:"game"`
}

func TestDailyChallengeOneAttempt(t *testing.T) {
	s, c := newTestServer(t)

	var start dailyNewBody
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/new", nil, &start))
	require.NotNil(t, start.Game)
	assert.False(t, start.Played)
	assert.Equal(t, "___", start.Game.Pattern)
	assert.Equal(t, s.cfg.DailyMaxGuesses, start.Game.GuessesLeft)

	var again dailyNewBody
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/new", nil, &again))
	assert.Equal(t, start.Game.GameID, again.Game.GameID)

	// Daily games are not reachable through the regular routes.
	var e errorBody
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/game/guess", guessReq{GameID: start.Game.GameID, Guess: "z"}, &e))

	var res snapshotBody
	for _, l := range []string{"z", "y", "x", "w", "v", "u", "q", "p"} {
		require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/guess", guessReq{GameID: start.Game.GameID, Guess: l}, &res))
	}
	assert.Equal(t, "lost", res.State)

	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/daily/guess", guessReq{GameID: start.Game.GameID, Guess: "c"}, &e))
	assert.Equal(t, "locked", e.Error)

	var done dailyNewBody
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/new", nil, &done))
	assert.True(t, done.Played)
	assert.Nil(t, done.Game)

	var lb lbRes
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/daily/leaderboard", nil, &lb))
	assert.Equal(t, start.Date, lb.Date)
	require.Len(t, lb.Top, 1)
	assert.False(t, lb.Top[0].Won)
	assert.Equal(t, 8, lb.Top[0].Misses)
	assert.Equal(t, 8, lb.Top[0].Guesses)
}

func TestDailyGuessNeedsSession(t *testing.T) {
	_, c := newTestServer(t)

	var e errorBody
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/daily/guess", guessReq{GameID: "whatever", Guess: "a"}, &e))
	assert.Equal(t, "no_session", e.Error)
}
