package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/evilhangman/internal/game"
)

func TestParseDefaults(t *testing.T) {
	c, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "5175", c.Port)
	assert.Equal(t, 5, c.DefaultWordLength)
	assert.Equal(t, 8, c.DefaultMaxGuesses)
	assert.Equal(t, 2*time.Hour, c.SessionTTL)
	assert.Equal(t, game.PolicyFewestReveals, c.EvilPolicy())
	assert.False(t, c.Production())
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("EVIL_POLICY", "largest-family")
	t.Setenv("SESSION_TTL", "15m")
	t.Setenv("APP_ENV", "production")

	c, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "9000", c.Port)
	assert.Equal(t, game.PolicyLargestFamily, c.EvilPolicy())
	assert.Equal(t, 15*time.Minute, c.SessionTTL)
	assert.True(t, c.Production())
}

func TestParseRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"EVIL_POLICY":         "nice",
		"DEFAULT_MAX_GUESSES": "20",
		"MIN_GUESSES":         "0",
		"SESSION_TTL":         "soon",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv(k, v)
			_, err := Parse()
			assert.Error(t, err)
		})
	}
}

func TestGuessesAllowed(t *testing.T) {
	c := Config{MinGuesses: 6, MaxGuesses: 12}
	assert.False(t, c.GuessesAllowed(5))
	assert.True(t, c.GuessesAllowed(6))
	assert.True(t, c.GuessesAllowed(12))
	assert.False(t, c.GuessesAllowed(13))
}
