// internal/game/turn.go
package game

import (
	log "github.com/sirupsen/logrus"

	"github.com/wordarena/wordarena/internal/models"
)

// Submit resolves the turn with a word submission from playerID. A valid
// word scores its length, advances the rotation, and starts the next turn.
// An invalid word does not consume the turn: the clock keeps running and the
// same player may retry.
func (s *Session) Submit(playerID, raw string) (*Outcome, error) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	if !s.running() {
		return nil, ErrNoActiveSession
	}
	cur := s.current()
	if cur.Player.ID != playerID {
		return nil, ErrNotYourTurn
	}

	word, reason, ok := s.validateWord(raw)
	if !ok {
		// Turn not consumed: no timer cancellation, no pointer advance.
		return &Outcome{
			Type:     OutcomeRejectedInvalid,
			PlayerID: playerID,
			Reason:   reason,
		}, nil
	}

	s.cancelTimerLocked()
	points := len(word)
	cur.Score += points
	cur.Streak++
	s.recordAccepted(cur, word, points)

	out := &Outcome{
		Type:     OutcomeAccepted,
		PlayerID: playerID,
		Word:     word,
		Points:   points,
		Streak:   cur.Streak,
		Combo:    cur.Streak >= 3,
	}

	s.advancePointerLocked()
	s.startTurnLocked()
	out.Next = s.turnInfoLocked()

	s.emit(Event{Type: EventTurnResolved, ChatID: s.ChatID, Outcome: out})
	return out, nil
}

// handleTimeout is the timer-fired resolution path. The captured sequence
// number is compared against the live one under the lock; a stale fire is a
// concurrency discard, logged and otherwise ignored.
func (s *Session) handleTimeout(seq uint64) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	if !s.running() || s.TurnSeq != seq {
		log.WithFields(log.Fields{
			"chat": s.ChatID, "fired_seq": seq, "live_seq": s.TurnSeq, "state": s.State,
		}).Debug("stale turn timer fired, discarding")
		return
	}

	cur := s.current()
	cur.Streak = 0

	out := &Outcome{
		Type:     OutcomeTimedOut,
		PlayerID: cur.Player.ID,
	}

	if s.State == StatePractice {
		// Solo practice ends on the first missed clock.
		s.finishLocked("", out)
		return
	}

	// Elimination removes the player from future rotation; points already
	// earned stay on the board.
	cur.Eliminated = true
	out.Eliminated = true
	s.emit(Event{Type: EventPlayerEliminated, ChatID: s.ChatID, Outcome: out})

	if s.survivors() <= 1 {
		winnerID := ""
		for _, part := range s.Roster {
			if !part.Eliminated {
				winnerID = part.Player.ID
			}
		}
		s.finishLocked(winnerID, out)
		return
	}

	s.advancePointerLocked()
	s.startTurnLocked()
	out.Next = s.turnInfoLocked()
	s.emit(Event{Type: EventTurnResolved, ChatID: s.ChatID, Outcome: out})
}

// UseSkip consumes a skip boost to pass the current turn without
// elimination. Capped at 3 uses per session per player and gated by the
// ledger's cooldown.
func (s *Session) UseSkip(playerID string) (*Outcome, error) {
	return s.passTurn(playerID, OutcomeSkipped)
}

// UseRebound is the rebound-boost variant of a pass: identical turn-advance
// effect, tracked separately for economy purposes and exempt from the skip
// session cap.
func (s *Session) UseRebound(playerID string) (*Outcome, error) {
	return s.passTurn(playerID, OutcomeRebounded)
}

// Forfeit passes the turn for free. Always available, never counts against
// the boost-skip cap, and does not eliminate the player.
func (s *Session) Forfeit(playerID string) (*Outcome, error) {
	return s.passTurn(playerID, OutcomeForfeited)
}

// passTurn is the shared resolution for skip, rebound, and forfeit: cancel
// the clock, reset the streak, advance the rotation. Accrued points are
// untouched.
func (s *Session) passTurn(playerID string, kind OutcomeType) (*Outcome, error) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	if !s.running() {
		return nil, ErrNoActiveSession
	}
	cur := s.current()
	if cur.Player.ID != playerID {
		return nil, ErrNotYourTurn
	}

	switch kind {
	case OutcomeSkipped:
		if err := s.ledger.Use(cur.Player, models.BoostSkip, cur.SkipsUsed); err != nil {
			return nil, err
		}
		cur.SkipsUsed++
		if s.State == StateActive {
			cur.Player.Mu.Lock()
			cur.Player.Stats.SkipsUsed++
			cur.Player.Mu.Unlock()
			s.statsChanged(cur.Player)
		}
	case OutcomeRebounded:
		if err := s.ledger.Use(cur.Player, models.BoostRebound, cur.ReboundsUsed); err != nil {
			return nil, err
		}
		cur.ReboundsUsed++
	}

	s.cancelTimerLocked()
	cur.Streak = 0

	out := &Outcome{Type: kind, PlayerID: playerID}
	s.advancePointerLocked()
	s.startTurnLocked()
	out.Next = s.turnInfoLocked()

	s.emit(Event{Type: EventTurnResolved, ChatID: s.ChatID, Outcome: out})
	return out, nil
}

// Hint consumes a hint boost and returns up to three unused dictionary words
// satisfying the live constraint, in lexicographic order. Hint use never
// consumes the turn or advances state.
func (s *Session) Hint(playerID string) ([]string, error) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	if !s.running() {
		return nil, ErrNoActiveSession
	}
	part := s.participant(playerID)
	if part == nil {
		return nil, ErrNotInSession
	}
	if err := s.ledger.Use(part.Player, models.BoostHint, part.HintsUsed); err != nil {
		return nil, err
	}
	part.HintsUsed++
	if s.State == StateActive {
		part.Player.Mu.Lock()
		part.Player.Stats.HintsUsed++
		part.Player.Mu.Unlock()
		s.statsChanged(part.Player)
	}
	return s.dict.Candidates(s.Constraint.Letter, s.Constraint.Length, 3, s.UsedWords), nil
}

// finishLocked ends a running game: cancels the clock, persists final stats
// (skipped for practice), emits the game-over summary, and hands the session
// back to the manager for destruction. Assumes lock is held.
func (s *Session) finishLocked(winnerID string, last *Outcome) {
	s.cancelTimerLocked()
	practice := s.State == StatePractice

	if !practice {
		for _, part := range s.Roster {
			part.Player.Mu.Lock()
			part.Player.Stats.GamesCompleted++
			if part.Player.ID == winnerID {
				part.Player.Stats.Wins++
			}
			evaluateTitlesLocked(part.Player)
			part.Player.Mu.Unlock()
			s.statsChanged(part.Player)
		}
	}

	s.State = StateStopped
	sum := s.summaryLocked(winnerID)
	sum.Practice = practice

	if last != nil {
		last.GameOver = true
		last.Winner = winnerID
	}
	s.emit(Event{Type: EventGameEnded, ChatID: s.ChatID, Outcome: last, Summary: sum})

	if s.OnEnd != nil {
		s.OnEnd(s.ChatID, sum)
	}
}
