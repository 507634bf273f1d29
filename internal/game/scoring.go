// internal/game/scoring.go
package game

import (
	"github.com/wordarena/wordarena/internal/achievements"
	"github.com/wordarena/wordarena/internal/models"
)

// recordAccepted applies the cumulative side effects of an accepted word.
// Point value is exactly the word length; the combo flag at streak >= 3 is
// presentation only. Practice sessions mutate nothing beyond the in-session
// counters already updated by the caller. Assumes the session lock is held.
func (s *Session) recordAccepted(part *Participant, word string, points int) {
	if s.State != StateActive {
		return
	}

	p := part.Player
	p.Mu.Lock()
	p.Stats.TotalScore += points
	p.Stats.TotalWords++
	if len(word) > p.Stats.LongestWordLen {
		p.Stats.LongestWord = word
		p.Stats.LongestWordLen = len(word)
	}
	if part.Streak > p.Stats.BestStreak {
		p.Stats.BestStreak = part.Streak
	}
	// Accepted words also credit the spendable balance in multiplayer.
	p.Balance += points
	evaluateTitlesLocked(p)
	p.Mu.Unlock()

	s.statsChanged(p)
}

// evaluateTitlesLocked re-runs the achievement rules after a stats update.
// Caller must hold the player's mutex.
func evaluateTitlesLocked(p *models.Player) {
	achievements.Evaluate(p)
}

// statsChanged notifies the persistence hook, if wired.
func (s *Session) statsChanged(p *models.Player) {
	if s.OnStatsChanged != nil {
		s.OnStatsChanged(p)
	}
}
