// internal/dictionary/dictionary.go
package dictionary

import (
	"bufio"
	"os"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// fallbackWords is the reduced built-in list used when no dictionary file is
// available. Loading this list instead of failing is the only automatic
// fallback in the engine.
var fallbackWords = []string{
	"cat", "dog", "bat", "rat", "hat", "mat", "sat", "pat",
	"bird", "word", "nerd", "curd", "herd", "blue", "glue",
	"apple", "board", "chair", "dance", "eagle", "fruit",
	"banana", "friend", "orange", "purple", "school",
	"elephant", "giraffe", "internet", "keyboard",
}

// Dictionary answers membership queries over a static word set and serves
// hint candidates. It is built once at startup and read-only afterwards, so
// lookups need no locking.
type Dictionary struct {
	words map[string]bool

	// byConstraint groups words by (first letter, length) so constraint
	// letters can be restricted to winnable turns and hints can be served
	// without scanning the full set.
	byConstraint map[constraintKey][]string

	// lettersByLen[n] holds every first letter that has at least one word of
	// length n, in sorted order.
	lettersByLen map[int][]rune
}

type constraintKey struct {
	letter rune
	length int
}

// Load reads a newline-delimited word list from path. A missing or unreadable
// file falls back to the built-in list rather than failing.
func Load(path string) *Dictionary {
	f, err := os.Open(path)
	if err != nil {
		log.Warnf("dictionary file %q unavailable (%v), using built-in fallback list", path, err)
		return New(fallbackWords)
	}
	defer f.Close()

	var words []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		words = append(words, sc.Text())
	}
	if err := sc.Err(); err != nil {
		log.Warnf("error reading dictionary file %q (%v), using built-in fallback list", path, err)
		return New(fallbackWords)
	}
	if len(words) == 0 {
		log.Warnf("dictionary file %q is empty, using built-in fallback list", path)
		return New(fallbackWords)
	}

	d := New(words)
	log.Infof("loaded %d words from %s", d.Len(), path)
	return d
}

// New builds a Dictionary from raw tokens. Tokens are trimmed and case-folded;
// anything empty or non-alphabetic is skipped.
func New(raw []string) *Dictionary {
	d := &Dictionary{
		words:        make(map[string]bool, len(raw)),
		byConstraint: make(map[constraintKey][]string),
		lettersByLen: make(map[int][]rune),
	}
	for _, tok := range raw {
		w := strings.ToLower(strings.TrimSpace(tok))
		if w == "" || !isAlphabetic(w) {
			continue
		}
		if d.words[w] {
			continue
		}
		d.words[w] = true
		key := constraintKey{letter: rune(w[0]), length: len(w)}
		d.byConstraint[key] = append(d.byConstraint[key], w)
	}

	// Hint candidates are served in lexicographic order; sort once up front.
	seen := make(map[int]map[rune]bool)
	for key, ws := range d.byConstraint {
		sort.Strings(ws)
		if seen[key.length] == nil {
			seen[key.length] = make(map[rune]bool)
		}
		seen[key.length][key.letter] = true
	}
	for length, letters := range seen {
		for r := range letters {
			d.lettersByLen[length] = append(d.lettersByLen[length], r)
		}
		sort.Slice(d.lettersByLen[length], func(i, j int) bool {
			return d.lettersByLen[length][i] < d.lettersByLen[length][j]
		})
	}
	return d
}

// Len returns the number of distinct words.
func (d *Dictionary) Len() int { return len(d.words) }

// Contains reports whether the normalized word is in the set.
func (d *Dictionary) Contains(word string) bool { return d.words[word] }

// LettersForLength returns every start letter that has at least one word of
// the given length, sorted. An empty result means no word of that length
// exists at all.
func (d *Dictionary) LettersForLength(length int) []rune {
	return d.lettersByLen[length]
}

// Candidates returns up to max words of the given start letter and length
// that are not in the exclude set. Selection is deterministic: words come
// back in lexicographic order.
func (d *Dictionary) Candidates(letter rune, length, max int, exclude map[string]bool) []string {
	var out []string
	for _, w := range d.byConstraint[constraintKey{letter: letter, length: length}] {
		if exclude[w] {
			continue
		}
		out = append(out, w)
		if len(out) == max {
			break
		}
	}
	return out
}

func isAlphabetic(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
