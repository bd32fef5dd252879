// internal/game/types.go
//
// Core type definitions for the evil hangman engine.
// Defines:
//   - State:   coarse lifecycle of a game (in_progress/won/lost).
//   - Pattern: the player-visible reveal state, one byte per slot.
//   - Game:    state for a single in-progress or finished game.
//   - Snapshot/Result: read-only views handed to presentation layers.

package game

import (
	"strings"
	"time"
)

// State represents where a game is in its lifecycle.
type State string

const (
	StateInProgress State = "in_progress"
	StateWon        State = "won"
	StateLost       State = "lost"
)

// Hidden marks an unrevealed slot in a Pattern. It sorts before 'a'.
const Hidden byte = '_'

// Pattern is the visible word: revealed lowercase letters and Hidden markers.
type Pattern string

// BlankPattern returns a fully hidden pattern of length n.
func BlankPattern(n int) Pattern {
	return Pattern(strings.Repeat(string(Hidden), n))
}

// HiddenSlots counts unrevealed positions.
func (p Pattern) HiddenSlots() int {
	return strings.Count(string(p), string(Hidden))
}

// Complete reports whether every slot has been revealed.
func (p Pattern) Complete() bool { return p.HiddenSlots() == 0 }

// Occurrences counts the slots revealed as letter.
func (p Pattern) Occurrences(letter byte) int {
	return strings.Count(string(p), string(letter))
}

// Spaced renders the pattern with a space between slots ("_ a _").
func (p Pattern) Spaced() string {
	var b strings.Builder
	for i := 0; i < len(p); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(p[i])
	}
	return b.String()
}

// Game holds the state of a single evil hangman session.
// It is mutated only through Guess and must not be shared between goroutines
// without external serialisation.
type Game struct {
	ID           string    // Unique game identifier (random hex string).
	WordLength   int       // Length of every candidate word.
	MaxGuesses   int       // Miss budget the game started with.
	GuessesLeft  int       // Misses remaining; never increases.
	Guessed      []byte    // Letters tried, in guess order.
	Pattern      Pattern   // Current visible word.
	Candidates   []string  // Words still consistent with every guess.
	State        State     // in_progress | won | lost
	RevealedWord string    // One surviving candidate, set on loss only.
	StartedAt    time.Time // Creation time (UTC).

	policy Policy
	pick   func(n int) int
}

// Snapshot is the externally visible state of a game.
type Snapshot struct {
	GameID         string   `json:"gameId"`
	WordLength     int      `json:"wordLength"`
	MaxGuesses     int      `json:"maxGuesses"`
	Pattern        string   `json:"pattern"`
	GuessedLetters []string `json:"guessedLetters"`
	GuessesLeft    int      `json:"guessesLeft"`
	RemainingWords int      `json:"remainingWords"`
	State          State    `json:"state"`
	RevealedWord   string   `json:"revealedWord,omitempty"`
}

// Result describes the outcome of one accepted guess.
type Result struct {
	Snapshot
	Letter      string `json:"letter"`
	Hit         bool   `json:"hit"`         // letter revealed at least once
	Occurrences int    `json:"occurrences"` // slots revealed by this guess
}
