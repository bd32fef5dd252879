// internal/words/words.go
//
// Provides the dictionary source for the game engine.
//
// Responsibilities:
//   - Load a word list from a file, or fall back to the embedded default in assets/.
//   - Normalise entries (trim, lowercase, a–z only, deduplicated).
//   - Bucket words by length for WordsOfLength lookups.
//   - Report which lengths are worth offering to players.
//
// A List is immutable once built and safe for concurrent reads, so one
// instance is shared by every game the process hosts.
//
// Environment variables (via internal/config):
//   DICTIONARY_FILE=/path/to/words.txt

package words

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/robalobadob/evilhangman/assets"
)

// List is a dictionary bucketed by word length.
type List struct {
	byLen map[int][]string
	total int
}

var (
	defaultOnce sync.Once
	defaultList *List
	defaultErr  error
)

// Open loads path, or the embedded default when path is empty.
func Open(path string) (*List, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// Load reads one word per line from a file.
func Load(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()
	l, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read dictionary %s: %w", path, err)
	}
	return l, nil
}

// Default returns the embedded dictionary. It is parsed once per process.
func Default() (*List, error) {
	defaultOnce.Do(func() {
		f, err := assets.Dictionary()
		if err != nil {
			defaultErr = err
			return
		}
		defer f.Close()
		defaultList, defaultErr = Parse(f)
	})
	return defaultList, defaultErr
}

// Parse builds a List from newline separated words. Blank lines, '#'
// comments and entries with anything but letters are skipped.
func Parse(r io.Reader) (*List, error) {
	l := &List{byLen: make(map[int][]string)}
	seen := make(map[string]struct{})
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w := strings.ToLower(strings.TrimSpace(sc.Text()))
		if w == "" || strings.HasPrefix(w, "#") || !isAlpha(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		l.byLen[len(w)] = append(l.byLen[len(w)], w)
		l.total++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if l.total == 0 {
		return nil, fmt.Errorf("words: dictionary is empty")
	}
	return l, nil
}

// FromWords builds a List from an in-memory slice, applying the same
// normalisation as Parse.
func FromWords(ws []string) (*List, error) {
	return Parse(strings.NewReader(strings.Join(ws, "\n")))
}

// WordsOfLength returns a copy of every word with exactly n letters.
func (l *List) WordsOfLength(n int) []string {
	return slices.Clone(l.byLen[n])
}

// AvailableLengths lists, ascending, the lengths of at least minLen letters
// that hold at least minWords words.
func (l *List) AvailableLengths(minLen, minWords int) []int {
	lengths := lo.Filter(lo.Keys(l.byLen), func(n int, _ int) bool {
		return n >= minLen && len(l.byLen[n]) >= minWords
	})
	slices.Sort(lengths)
	return lengths
}

// Stats returns counts of loaded words and distinct lengths.
func (l *List) Stats() (wordCount int, lengthCount int) {
	return l.total, len(l.byLen)
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
