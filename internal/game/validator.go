// internal/game/validator.go
package game

import "strings"

// validateWord runs the submission pipeline against the session's live
// constraint, short-circuiting on the first failure. On success the word is
// recorded in the used set before returning, so a concurrent duplicate
// submission deterministically fails the repetition check instead of being
// scored twice. Assumes the session lock is held.
func (s *Session) validateWord(raw string) (string, RejectionReason, bool) {
	word := strings.ToLower(strings.TrimSpace(raw))
	if word == "" || !isAlpha(word) {
		return "", RejectEmpty, false
	}
	if len(word) != s.Constraint.Length {
		return "", RejectWrongLength, false
	}
	if rune(word[0]) != s.Constraint.Letter {
		return "", RejectWrongLetter, false
	}
	if s.UsedWords[word] {
		return "", RejectAlreadyUsed, false
	}
	if !s.dict.Contains(word) {
		return "", RejectNotAWord, false
	}
	s.UsedWords[word] = true
	return word, "", true
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
