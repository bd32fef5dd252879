// internal/game/policy.go
//
// Evil selection: which word family survives a guess.
//
// PolicyFewestReveals (default) ranks families by
//   1. fewest slots revealing the letter (absent always wins),
//   2. largest family,
//   3. lexically smallest pattern (Hidden sorts before letters).
//
// PolicyLargestFamily ranks by size first, then by the same two keys. It is the
// classic "keep the biggest family" cheat.

package game

import "fmt"

// Policy selects the surviving family for a guess.
type Policy int

const (
	PolicyFewestReveals Policy = iota
	PolicyLargestFamily
)

func (p Policy) String() string {
	switch p {
	case PolicyFewestReveals:
		return "fewest-reveals"
	case PolicyLargestFamily:
		return "largest-family"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParsePolicy maps a configuration name to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "fewest-reveals":
		return PolicyFewestReveals, nil
	case "largest-family":
		return PolicyLargestFamily, nil
	}
	return 0, fmt.Errorf("%w: unknown policy %q", ErrInvalidInput, s)
}

// Family is one group of candidates sharing a resulting pattern.
type Family struct {
	Pattern  Pattern
	Words    []string
	Revealed int // slots showing the guessed letter
}

// Choose returns the most evil family of groups under p.
// groups must be non-empty, as returned by Partition.
func Choose(groups map[Pattern][]string, letter byte, p Policy) Family {
	var best Family
	first := true
	for pat, ws := range groups {
		f := Family{Pattern: pat, Words: ws, Revealed: pat.Occurrences(letter)}
		if first || p.less(f, best) {
			best, first = f, false
		}
	}
	return best
}

// less reports whether a is more evil than b.
func (p Policy) less(a, b Family) bool {
	if p == PolicyLargestFamily {
		if len(a.Words) != len(b.Words) {
			return len(a.Words) > len(b.Words)
		}
		if a.Revealed != b.Revealed {
			return a.Revealed < b.Revealed
		}
		return a.Pattern < b.Pattern
	}
	if a.Revealed != b.Revealed {
		return a.Revealed < b.Revealed
	}
	if len(a.Words) != len(b.Words) {
		return len(a.Words) > len(b.Words)
	}
	return a.Pattern < b.Pattern
}
