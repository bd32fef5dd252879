// internal/game/engine.go
//
// Round engine for a single evil hangman session.
// Responsibilities:
//   - Create new games from a dictionary source (all words of one length).
//   - Validate guesses (single a–z letter, not repeated, game not over).
//   - Partition the candidates by the guessed letter and keep the most evil family.
//   - Track state transitions: in_progress → won/lost.
//
// Notes:
//   - A guess either commits every field (candidates, pattern, guessed letters,
//     guesses left, state) or none of them.
//   - Input must already be lowercase; callers normalise user text.
//   - The engine never logs and holds no locks.
package game

import (
	"encoding/hex"
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
	"lukechampine.com/frand"
)

// Dictionary is the word source a game is created from.
type Dictionary interface {
	// WordsOfLength returns every known word of exactly n lowercase letters.
	WordsOfLength(n int) []string
}

// Option customises a new Game.
type Option func(*Game)

// WithPolicy sets the family selection policy (default PolicyFewestReveals).
func WithPolicy(p Policy) Option {
	return func(g *Game) { g.policy = p }
}

// WithPicker sets how the revealed word is drawn from the survivors on a loss.
// pick receives the number of survivors and returns an index into them.
func WithPicker(pick func(n int) int) Option {
	return func(g *Game) { g.pick = pick }
}

// WithID overrides the random game identifier.
func WithID(id string) Option {
	return func(g *Game) { g.ID = id }
}

// New starts a game over every dictionary word of wordLength letters with a
// budget of maxGuesses misses.
func New(dict Dictionary, wordLength, maxGuesses int, opts ...Option) (*Game, error) {
	if wordLength <= 0 {
		return nil, fmt.Errorf("%w: word length must be positive, got %d", ErrInvalidInput, wordLength)
	}
	if maxGuesses <= 0 {
		return nil, fmt.Errorf("%w: max guesses must be positive, got %d", ErrInvalidInput, maxGuesses)
	}

	candidates := lo.Uniq(lo.Filter(dict.WordsOfLength(wordLength), func(w string, _ int) bool {
		return len(w) == wordLength && isWord(w)
	}))
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrNoWordsForLength, wordLength)
	}

	g := &Game{
		ID:          randomID(),
		WordLength:  wordLength,
		MaxGuesses:  maxGuesses,
		GuessesLeft: maxGuesses,
		Guessed:     []byte{},
		Pattern:     BlankPattern(wordLength),
		Candidates:  candidates,
		State:       StateInProgress,
		StartedAt:   time.Now().UTC(),
		policy:      PolicyFewestReveals,
		pick:        frand.Intn,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Guess applies one letter to the game.
//
// Rejections (ErrGameOver, ErrInvalidLetter, ErrAlreadyGuessed) leave the game
// exactly as it was.
//
// State transitions:
//   - letter absent from the kept family → GuessesLeft decrements.
//   - GuessesLeft reaches 0 with hidden slots left → lost, one survivor revealed.
//   - otherwise no hidden slots left → won.
func (g *Game) Guess(letter string) (Result, error) {
	if g.State != StateInProgress {
		return Result{}, ErrGameOver
	}
	if len(letter) != 1 || !isLetter(letter[0]) {
		return Result{}, ErrInvalidLetter
	}
	c := letter[0]
	if g.HasGuessed(c) {
		return Result{}, fmt.Errorf("%w: %q", ErrAlreadyGuessed, letter)
	}

	groups, err := Partition(g.Candidates, c, g.Pattern)
	if err != nil {
		return Result{}, err
	}
	kept := Choose(groups, c, g.policy)

	left := g.GuessesLeft
	if kept.Revealed == 0 {
		left--
	}
	state, revealed := StateInProgress, ""
	switch {
	case left <= 0 && !kept.Pattern.Complete():
		state = StateLost
		revealed = kept.Words[g.pick(len(kept.Words))]
	case kept.Pattern.Complete():
		state = StateWon
	}

	g.Guessed = append(g.Guessed, c)
	g.Candidates = kept.Words
	g.Pattern = kept.Pattern
	g.GuessesLeft = left
	g.State = state
	g.RevealedWord = revealed

	return Result{
		Snapshot:    g.Snapshot(),
		Letter:      letter,
		Hit:         kept.Revealed > 0,
		Occurrences: kept.Revealed,
	}, nil
}

// HasGuessed reports whether c was already tried.
func (g *Game) HasGuessed(c byte) bool {
	return slices.Contains(g.Guessed, c)
}

// Finished reports whether the game reached a terminal state.
func (g *Game) Finished() bool { return g.State != StateInProgress }

// Misses is the number of guesses that revealed nothing.
func (g *Game) Misses() int { return g.MaxGuesses - g.GuessesLeft }

// Policy reports the selection policy in effect.
func (g *Game) Policy() Policy { return g.policy }

// Snapshot returns a copy of the externally visible state.
func (g *Game) Snapshot() Snapshot {
	letters := slices.Clone(g.Guessed)
	slices.Sort(letters)
	return Snapshot{
		GameID:     g.ID,
		WordLength: g.WordLength,
		MaxGuesses: g.MaxGuesses,
		Pattern:    string(g.Pattern),
		GuessedLetters: lo.Map(letters, func(c byte, _ int) string {
			return string(c)
		}),
		GuessesLeft:    g.GuessesLeft,
		RemainingWords: len(g.Candidates),
		State:          g.State,
		RevealedWord:   g.RevealedWord,
	}
}

// isWord checks that a string consists only of lowercase a–z.
func isWord(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isLetter(s[i]) {
			return false
		}
	}
	return true
}

// randomID returns a compact 16‑hex‑char identifier.
func randomID() string {
	return hex.EncodeToString(frand.Bytes(8))
}
