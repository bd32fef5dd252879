// internal/cli/shell.go
//
// Terminal front end for evil hangman.
// Responsibilities:
//   - Prompt for word length (from the lengths the dictionary can serve) and guess budget.
//   - Run the guess loop against an in-process game.Game and print the board after each turn.
//   - Offer another round when a game ends.
//
// Ctrl-C on an empty line and EOF both quit cleanly.

package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/evilhangman/internal/game"
)

// LineReader is the part of *readline.Instance the shell needs.
type LineReader interface {
	SetPrompt(p string)
	Readline() (string, error)
}

// Lexicon is a dictionary that can also say which lengths are worth offering.
type Lexicon interface {
	game.Dictionary
	AvailableLengths(minLen, minWords int) []int
}

// Settings bound what the player may choose.
type Settings struct {
	MinWordLength     int
	MinWordsPerLength int
	MinGuesses        int
	MaxGuesses        int
	GameOptions       []game.Option
}

// Shell plays rounds of evil hangman over a line reader.
type Shell struct {
	in   LineReader
	out  io.Writer
	dict Lexicon
	set  Settings
}

func NewShell(in LineReader, out io.Writer, dict Lexicon, set Settings) *Shell {
	return &Shell{in: in, out: out, dict: dict, set: set}
}

// errQuit ends the session without an error.
var errQuit = errors.New("quit")

const rule = "========================================"

// Run plays games until the player declines another round or closes input.
func (sh *Shell) Run() error {
	lengths := sh.dict.AvailableLengths(sh.set.MinWordLength, sh.set.MinWordsPerLength)
	if len(lengths) == 0 {
		return errors.New("dictionary has no playable word lengths")
	}
	err := sh.loop(lengths)
	if errors.Is(err, errQuit) {
		sh.println("Thanks for playing Evil Hangman!")
		return nil
	}
	return err
}

func (sh *Shell) loop(lengths []int) error {
	sh.println("Welcome to Evil Hangman!")
	sh.println("This game cheats by changing the target word based on your guesses.")
	for {
		sh.println(fmt.Sprintf("Available word lengths: %v", lengths))
		if err := sh.playRound(lengths); err != nil {
			return err
		}
		again, err := sh.ask("Would you like to play again? (y/n): ")
		if err != nil {
			return err
		}
		if strings.ToLower(again) != "y" {
			return errQuit
		}
	}
}

func (sh *Shell) playRound(lengths []int) error {
	length, err := sh.askInt("Enter word length: ", func(n int) string {
		for _, l := range lengths {
			if l == n {
				return ""
			}
		}
		return fmt.Sprintf("Please enter a valid word length from %v", lengths)
	})
	if err != nil {
		return err
	}
	guesses, err := sh.askInt(fmt.Sprintf("Enter maximum number of guesses (%d-%d): ", sh.set.MinGuesses, sh.set.MaxGuesses), func(n int) string {
		if n < sh.set.MinGuesses || n > sh.set.MaxGuesses {
			return fmt.Sprintf("Please enter a number between %d and %d", sh.set.MinGuesses, sh.set.MaxGuesses)
		}
		return ""
	})
	if err != nil {
		return err
	}

	g, err := game.New(sh.dict, length, guesses, sh.set.GameOptions...)
	if err != nil {
		sh.println("Failed to start game. Please try again.")
		return err
	}
	log.Debug().Str("gameId", g.ID).Int("candidates", len(g.Candidates)).Msg("game started")
	sh.println(fmt.Sprintf("\nGame started with %d-letter word. You have %d guesses.", length, guesses))

	for !g.Finished() {
		sh.board(g.Snapshot())
		letter, err := sh.askLetter()
		if err != nil {
			return err
		}
		res, err := g.Guess(letter)
		switch {
		case errors.Is(err, game.ErrAlreadyGuessed):
			sh.println(fmt.Sprintf("You already guessed '%s'. Try another letter.", letter))
		case err != nil:
			return err
		default:
			sh.println(game.Describe(res))
		}
	}
	sh.board(g.Snapshot())
	return nil
}

// board prints the pattern, budget, guessed letters and candidate count.
func (sh *Shell) board(snap game.Snapshot) {
	sh.println("\n" + rule)
	sh.println("Word: " + game.Pattern(snap.Pattern).Spaced())
	sh.println(fmt.Sprintf("Guesses left: %d", snap.GuessesLeft))
	sh.println("Guessed letters: " + strings.Join(snap.GuessedLetters, ", "))
	sh.println(fmt.Sprintf("Remaining possible words: %d", snap.RemainingWords))
	sh.println(rule + "\n")
}

func (sh *Shell) askLetter() (string, error) {
	for {
		line, err := sh.ask("Enter your guess (a single letter): ")
		if err != nil {
			return "", err
		}
		l := strings.ToLower(line)
		if len(l) == 1 && l[0] >= 'a' && l[0] <= 'z' {
			return l, nil
		}
		sh.println("Please enter a single letter")
	}
}

// askInt repeats prompt until the answer parses and check returns "".
func (sh *Shell) askInt(prompt string, check func(int) string) (int, error) {
	for {
		line, err := sh.ask(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			sh.println("Please enter a valid number")
			continue
		}
		if msg := check(n); msg != "" {
			sh.println(msg)
			continue
		}
		return n, nil
	}
}

// ask reads one trimmed line. Interrupt on an empty line and EOF map to errQuit.
func (sh *Shell) ask(prompt string) (string, error) {
	for {
		sh.in.SetPrompt(prompt)
		line, err := sh.in.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return "", errQuit
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return "", errQuit
		}
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
}

func (sh *Shell) println(s string) {
	io.WriteString(sh.out, s)
	io.WriteString(sh.out, "\n")
}
