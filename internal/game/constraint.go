// internal/game/constraint.go
package game

import (
	"math/rand"
	"time"

	"github.com/wordarena/wordarena/internal/dictionary"
)

// Difficulty fixes the required-length progression for a session. It is set
// in the lobby and immutable once the game begins.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// progression is the per-difficulty length table: starting length, hard cap,
// and how many rounds pass between each increment.
type progression struct {
	base      int
	max       int
	incrEvery int
}

var progressions = map[Difficulty]progression{
	Easy:   {base: 3, max: 10, incrEvery: 3},
	Medium: {base: 3, max: 15, incrEvery: 2},
	Hard:   {base: 4, max: 20, incrEvery: 1},
}

// ParseDifficulty maps user input to a Difficulty, defaulting to Medium.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(s) {
	case Easy, Medium, Hard:
		return Difficulty(s), true
	}
	return Medium, false
}

// RequiredLength computes the word length demanded at the given 1-based
// round for a difficulty. Non-decreasing in round, capped at the
// difficulty's max.
func RequiredLength(d Difficulty, round int) int {
	p, ok := progressions[d]
	if !ok {
		p = progressions[Medium]
	}
	n := p.base + (round-1)/p.incrEvery
	if n > p.max {
		n = p.max
	}
	return n
}

// turnDuration is the clock for one turn: shrinks 5s per round from 60s,
// floored at 20s.
func turnDuration(round int) time.Duration {
	secs := 60 - 5*round
	if secs < 20 {
		secs = 20
	}
	return time.Duration(secs) * time.Second
}

// Constraint is the (start letter, required length) pair a submission must
// satisfy this turn.
type Constraint struct {
	Letter rune `json:"letter"`
	Length int  `json:"length"`
}

// newConstraint draws a constraint for the round. The letter is drawn
// uniformly from letters known to have at least one dictionary word of the
// required length, so a turn can never be unwinnable. If the dictionary has
// no word of that length at all, shorter lengths are tried down to the
// difficulty's base.
func newConstraint(rng *rand.Rand, dict *dictionary.Dictionary, d Difficulty, round int) Constraint {
	length := RequiredLength(d, round)
	base := progressions[Medium].base
	if p, ok := progressions[d]; ok {
		base = p.base
	}

	for l := length; l >= base; l-- {
		letters := dict.LettersForLength(l)
		if len(letters) == 0 {
			continue
		}
		return Constraint{Letter: letters[rng.Intn(len(letters))], Length: l}
	}

	// Degenerate dictionary; fall back to any populated length.
	for l := 1; l <= 32; l++ {
		letters := dict.LettersForLength(l)
		if len(letters) > 0 {
			return Constraint{Letter: letters[rng.Intn(len(letters))], Length: l}
		}
	}
	return Constraint{Letter: 'a', Length: length}
}
