package game

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionGroupsByRevealedPattern(t *testing.T) {
	groups, err := Partition([]string{"cat", "car", "can", "bat"}, 't', "_a_")
	require.NoError(t, err)
	assert.Equal(t, map[Pattern][]string{
		"_at": {"cat", "bat"},
		"_a_": {"car", "can"},
	}, groups)
}

func TestPartitionRevealsEveryOccurrence(t *testing.T) {
	groups, err := Partition([]string{"eerie", "every", "these", "tower"}, 'e', "_____")
	require.NoError(t, err)
	assert.Equal(t, map[Pattern][]string{
		"ee__e": {"eerie"},
		"e_e__": {"every"},
		"__e_e": {"these"},
		"___e_": {"tower"},
	}, groups)
}

func TestPartitionCoversCandidates(t *testing.T) {
	words := []string{
		"apple", "angle", "ample", "eagle", "adobe", "abide", "alone", "anode",
		"bagel", "cable", "fable", "gable", "table", "sable", "maple", "naval",
	}
	for c := byte('a'); c <= 'z'; c++ {
		groups, err := Partition(words, c, BlankPattern(5))
		require.NoError(t, err)

		seen := map[string]int{}
		var union []string
		for pat, ws := range groups {
			assert.NotEmpty(t, ws)
			for _, w := range ws {
				seen[w]++
				union = append(union, w)
				for i := 0; i < len(w); i++ {
					if w[i] == c {
						assert.Equal(t, c, pat[i])
					} else {
						assert.Equal(t, Hidden, pat[i])
					}
				}
			}
		}
		for w, n := range seen {
			assert.Equal(t, 1, n, "%s appears in more than one family", w)
		}
		want := append([]string(nil), words...)
		sort.Strings(want)
		sort.Strings(union)
		assert.Equal(t, want, union, "letter %c", c)
	}
}

func TestPartitionRejects(t *testing.T) {
	_, err := Partition(nil, 'a', "___")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Partition([]string{"cat"}, 'A', "___")
	assert.ErrorIs(t, err, ErrInvalidLetter)

	_, err = Partition([]string{"cat"}, '-', "___")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Partition([]string{"cats"}, 'a', "___")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestChoose(t *testing.T) {
	cases := []struct {
		name   string
		groups map[Pattern][]string
		letter byte
		policy Policy
		want   Pattern
	}{
		{
			name:   "absent beats a larger reveal",
			groups: map[Pattern][]string{"a_": {"ab", "ac", "ad"}, "__": {"xy"}},
			letter: 'a',
			want:   "__",
		},
		{
			name:   "fewer reveals beat a larger family",
			groups: map[Pattern][]string{"a_a": {"aha", "ana", "ava"}, "a__": {"ant"}},
			letter: 'a',
			want:   "a__",
		},
		{
			name:   "larger family among equal reveals",
			groups: map[Pattern][]string{"a_": {"ab"}, "_a": {"ba", "ca"}},
			letter: 'a',
			want:   "_a",
		},
		{
			name:   "hidden sorts first on full tie",
			groups: map[Pattern][]string{"a_": {"ab"}, "_a": {"ba"}},
			letter: 'a',
			want:   "_a",
		},
		{
			name:   "largest family policy keeps the biggest group",
			groups: map[Pattern][]string{"a_": {"ab", "ac", "ad"}, "__": {"xy"}},
			letter: 'a',
			policy: PolicyLargestFamily,
			want:   "a_",
		},
		{
			name:   "largest family policy falls back to fewer reveals",
			groups: map[Pattern][]string{"a_a": {"aha"}, "a__": {"ant"}},
			letter: 'a',
			policy: PolicyLargestFamily,
			want:   "a__",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for i := 0; i < 20; i++ {
				got := Choose(tc.groups, tc.letter, tc.policy)
				assert.Equal(t, tc.want, got.Pattern)
				assert.Equal(t, tc.groups[tc.want], got.Words)
				assert.Equal(t, tc.want.Occurrences(tc.letter), got.Revealed)
			}
		})
	}
}

func TestParsePolicy(t *testing.T) {
	for _, p := range []Policy{PolicyFewestReveals, PolicyLargestFamily} {
		got, err := ParsePolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	got, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyFewestReveals, got)

	_, err = ParsePolicy("kind")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
