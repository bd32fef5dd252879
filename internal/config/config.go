// internal/config/config.go
//
// Process configuration for the server and CLI.
// Values come from the environment, optionally seeded from a `.env` file in
// development.

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/robalobadob/evilhangman/internal/game"
)

// Config holds every tunable of the service.
type Config struct {
	Port     string `env:"PORT"      envDefault:"5175"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV"   envDefault:"development"`

	DictionaryFile    string `env:"DICTIONARY_FILE"`
	MinWordLength     int    `env:"MIN_WORD_LENGTH"      envDefault:"3"`
	MinWordsPerLength int    `env:"MIN_WORDS_PER_LENGTH" envDefault:"11"`

	DefaultWordLength int    `env:"DEFAULT_WORD_LENGTH" envDefault:"5"`
	DefaultMaxGuesses int    `env:"DEFAULT_MAX_GUESSES" envDefault:"8"`
	MinGuesses        int    `env:"MIN_GUESSES"         envDefault:"6"`
	MaxGuesses        int    `env:"MAX_GUESSES"         envDefault:"12"`
	Policy            string `env:"EVIL_POLICY"         envDefault:"fewest-reveals"`

	DatabasePath string `env:"DATABASE_PATH" envDefault:"./data/hangman.db"`

	JWTSecret      string `env:"JWT_SECRET"       envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME"      envDefault:"hangman_token"`
	ClientOrigin   string `env:"CLIENT_ORIGIN"    envDefault:"http://localhost:5173"`

	DailySalt       string `env:"DAILY_SALT"        envDefault:"local_dev_salt"`
	DailyMaxGuesses int    `env:"DAILY_MAX_GUESSES" envDefault:"8"`

	SessionTTL     time.Duration `env:"SESSION_TTL"     envDefault:"2h"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
}

// Load reads `.env` (if present) and parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the game cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.MinGuesses <= 0 || c.MaxGuesses < c.MinGuesses {
		errs = append(errs, fmt.Errorf("guess bounds [%d, %d] are invalid", c.MinGuesses, c.MaxGuesses))
	}
	if c.DefaultMaxGuesses < c.MinGuesses || c.DefaultMaxGuesses > c.MaxGuesses {
		errs = append(errs, fmt.Errorf("DEFAULT_MAX_GUESSES %d outside [%d, %d]", c.DefaultMaxGuesses, c.MinGuesses, c.MaxGuesses))
	}
	if c.DailyMaxGuesses <= 0 {
		errs = append(errs, errors.New("DAILY_MAX_GUESSES must be positive"))
	}
	if c.DefaultWordLength <= 0 || c.MinWordLength <= 0 {
		errs = append(errs, errors.New("word lengths must be positive"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if _, err := game.ParsePolicy(c.Policy); err != nil {
		errs = append(errs, err)
	}
	if c.JWTExpiresDays <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_DAYS must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// EvilPolicy returns the configured selection policy.
func (c Config) EvilPolicy() game.Policy {
	p, _ := game.ParsePolicy(c.Policy)
	return p
}

// Production reports whether cookies must be Secure/SameSite=None.
func (c Config) Production() bool { return c.AppEnv == "production" }

// GuessesAllowed reports whether n is an allowed miss budget.
func (c Config) GuessesAllowed(n int) bool {
	return n >= c.MinGuesses && n <= c.MaxGuesses
}
