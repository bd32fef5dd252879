// internal/game/partition.go
//
// Word families: grouping candidates by the pattern a guessed letter would
// reveal in each of them. Words keep their input order inside each family so
// that selection downstream is reproducible.

package game

import "fmt"

// Partition groups candidates by the pattern produced when letter is revealed
// on top of current. Words without the letter land in the family keyed by
// current itself.
//
// Every candidate appears in exactly one family. The caller is responsible for
// letter not having been guessed before and current matching candidates.
func Partition(candidates []string, letter byte, current Pattern) (map[Pattern][]string, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: empty candidate set", ErrInvalidInput)
	}
	if !isLetter(letter) {
		return nil, ErrInvalidLetter
	}

	families := make(map[Pattern][]string)
	buf := make([]byte, len(current))
	for _, w := range candidates {
		if len(w) != len(current) {
			return nil, fmt.Errorf("%w: %q does not fit pattern %q", ErrInvalidInput, w, current)
		}
		key := reveal(buf, w, letter, current)
		families[key] = append(families[key], w)
	}
	return families, nil
}

// reveal writes current into buf with every position of letter in w exposed.
func reveal(buf []byte, w string, letter byte, current Pattern) Pattern {
	copy(buf, current)
	for i := 0; i < len(w); i++ {
		if w[i] == letter {
			buf[i] = letter
		}
	}
	return Pattern(buf)
}

// isLetter reports whether c is a lowercase ASCII letter.
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' }
