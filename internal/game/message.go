package game

import "fmt"

// Describe renders the player-facing line for an accepted guess.
func Describe(res Result) string {
	switch res.State {
	case StateWon:
		return fmt.Sprintf("Congratulations! You won! The word was: %s", res.Pattern)
	case StateLost:
		return fmt.Sprintf("Game over! You ran out of guesses. The word was: %s", res.RevealedWord)
	}
	if res.Hit {
		return fmt.Sprintf("Good guess! '%s' is in the word.", res.Letter)
	}
	return fmt.Sprintf("Sorry, '%s' is not in the word. %d guesses left.", res.Letter, res.GuessesLeft)
}
