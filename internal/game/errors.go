package game

import (
	"errors"
	"fmt"
)

// Errors reported by the engine. All of them leave the game untouched.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidLetter    = fmt.Errorf("%w: guess must be a single letter a-z", ErrInvalidInput)
	ErrAlreadyGuessed   = errors.New("letter already guessed")
	ErrGameOver         = errors.New("game already over")
	ErrNoWordsForLength = errors.New("no words for length")
)
