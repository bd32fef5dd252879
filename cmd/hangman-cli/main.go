// Command hangman-cli plays evil hangman in the terminal.
package main

import (
	"flag"
	"os"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/evilhangman/internal/cli"
	"github.com/robalobadob/evilhangman/internal/config"
	"github.com/robalobadob/evilhangman/internal/game"
	"github.com/robalobadob/evilhangman/internal/words"
)

var dictPath = flag.String("dict", "", "word list file (defaults to DICTIONARY_FILE or the built-in list)")

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func main() {
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("bad configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if *dictPath != "" {
		cfg.DictionaryFile = *dictPath
	}

	dict, err := words.Open(cfg.DictionaryFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}

	l, err := readline.NewEx(&readline.Config{
		Prompt:              "> ",
		EOFPrompt:           "exit",
		InterruptPrompt:     "^C",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open terminal")
	}
	defer l.Close()

	sh := cli.NewShell(l, l.Stdout(), dict, cli.Settings{
		MinWordLength:     cfg.MinWordLength,
		MinWordsPerLength: cfg.MinWordsPerLength,
		MinGuesses:        cfg.MinGuesses,
		MaxGuesses:        cfg.MaxGuesses,
		GameOptions:       []game.Option{game.WithPolicy(cfg.EvilPolicy())},
	})
	if err := sh.Run(); err != nil {
		log.Error().Err(err).Msg("")
		l.Close()
		os.Exit(1)
	}
}
