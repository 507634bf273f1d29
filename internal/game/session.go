// internal/game/session.go
package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wordarena/wordarena/internal/dictionary"
	"github.com/wordarena/wordarena/internal/economy"
	"github.com/wordarena/wordarena/internal/models"
)

// SessionState is the lifecycle state of a chat's session.
type SessionState string

const (
	StateLobby    SessionState = "lobby"
	StateActive   SessionState = "active"
	StatePractice SessionState = "practice"
	StateStopped  SessionState = "stopped"
)

// Participant is one player's in-session bookkeeping. Current streak, score,
// and boost-use counters live here; cumulative stats live on the Player.
type Participant struct {
	Player       *models.Player
	Score        int
	Streak       int
	SkipsUsed    int
	ReboundsUsed int
	HintsUsed    int
	Eliminated   bool
}

// Session holds the entire state for one chat's game. There is exactly one
// Session per chat at any time; operations on different chats never contend.
type Session struct {
	ID     uuid.UUID
	ChatID string

	State      SessionState
	Difficulty Difficulty

	// Roster order is join order and fixes the turn rotation. Eliminated
	// players stay in the slice (they keep their points for the final
	// ranking) but are skipped by the turn pointer.
	Roster     []*Participant
	CurrentIdx int
	Round      int

	UsedWords  map[string]bool
	Constraint Constraint

	// TurnSeq disambiguates which event is authorized to resolve the current
	// turn. Every resolution path compares its captured seq against the live
	// one under the lock and discards on mismatch, so exactly one of
	// {submission, timeout, skip, rebound, forfeit} resolves each turn.
	TurnSeq      uint64
	turnTimer    *time.Timer
	turnDeadline time.Time

	// TurnTimeout overrides the round-derived clock when non-zero. Tests set
	// this to keep timeout scenarios fast.
	TurnTimeout time.Duration

	dict   *dictionary.Dictionary
	ledger *economy.Ledger
	rng    *rand.Rand

	// EmitFn hands structured events to the rendering collaborator. If nil,
	// events are dropped.
	EmitFn func(Event)

	// OnEnd is invoked after the session reaches a terminal state, with the
	// final summary. The manager uses it to drop the session from the store
	// and persist stats.
	OnEnd func(chatID string, summary *Summary)

	// OnStatsChanged is invoked after a player's cumulative stats mutate,
	// for asynchronous persistence. Never called for practice sessions.
	OnStatsChanged func(p *models.Player)

	Mu sync.Mutex
}

// newSession builds a Lobby-state session for a chat.
func newSession(chatID string, dict *dictionary.Dictionary, ledger *economy.Ledger) *Session {
	return &Session{
		ID:         uuid.New(),
		ChatID:     chatID,
		State:      StateLobby,
		Difficulty: Medium,
		UsedWords:  make(map[string]bool),
		dict:       dict,
		ledger:     ledger,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// addPlayer appends a player to the lobby roster. Assumes lock is held.
func (s *Session) addPlayer(p *models.Player) error {
	if s.State != StateLobby {
		return ErrNotInLobby
	}
	for _, part := range s.Roster {
		if part.Player.ID == p.ID {
			return ErrAlreadyJoined
		}
	}
	s.Roster = append(s.Roster, &Participant{Player: p})
	return nil
}

// participant returns the roster entry for a player, or nil.
// Assumes lock is held.
func (s *Session) participant(playerID string) *Participant {
	for _, part := range s.Roster {
		if part.Player.ID == playerID {
			return part
		}
	}
	return nil
}

// current returns the participant whose turn it is. Assumes lock is held and
// the session is running.
func (s *Session) current() *Participant {
	return s.Roster[s.CurrentIdx]
}

func (s *Session) running() bool {
	return s.State == StateActive || s.State == StatePractice
}

// survivors counts non-eliminated participants. Assumes lock is held.
func (s *Session) survivors() int {
	n := 0
	for _, part := range s.Roster {
		if !part.Eliminated {
			n++
		}
	}
	return n
}

// startTurnLocked begins the next turn: draws a constraint for the current
// round, bumps the turn sequence number, and arms the turn clock. A timer
// callback that fires after the turn has already resolved is a no-op thanks
// to the sequence compare in handleTimeout. Assumes lock is held.
func (s *Session) startTurnLocked() {
	if !s.running() {
		return
	}

	s.Constraint = newConstraint(s.rng, s.dict, s.Difficulty, s.Round)
	s.TurnSeq++
	seq := s.TurnSeq

	dur := s.TurnTimeout
	if dur == 0 {
		dur = turnDuration(s.Round)
	}
	s.turnDeadline = time.Now().Add(dur)

	if s.turnTimer != nil {
		s.turnTimer.Stop()
	}
	s.turnTimer = time.AfterFunc(dur, func() {
		// Resolve in a fresh goroutine; the callback must not hold the timer
		// internals while waiting on the session lock.
		go s.handleTimeout(seq)
	})

	s.emit(Event{
		Type:   EventTurnStarted,
		ChatID: s.ChatID,
		Turn:   s.turnInfoLocked(),
	})
}

// cancelTimerLocked stops the live turn clock, if any. Assumes lock is held.
func (s *Session) cancelTimerLocked() {
	if s.turnTimer != nil {
		s.turnTimer.Stop()
		s.turnTimer = nil
	}
}

// turnInfoLocked snapshots the live turn for rendering and status queries.
// Assumes lock is held.
func (s *Session) turnInfoLocked() *TurnInfo {
	if !s.running() || len(s.Roster) == 0 {
		return nil
	}
	cur := s.current()
	secs := int(time.Until(s.turnDeadline).Round(time.Second).Seconds())
	if secs < 0 {
		secs = 0
	}
	return &TurnInfo{
		PlayerID:       cur.Player.ID,
		PlayerName:     cur.Player.DisplayName,
		Round:          s.Round,
		Seq:            s.TurnSeq,
		StartLetter:    string(s.Constraint.Letter),
		RequiredLength: s.Constraint.Length,
		SecondsLeft:    secs,
	}
}

// Status returns a snapshot of the live turn, or ErrNoActiveSession when the
// session is not running.
func (s *Session) Status() (*TurnInfo, error) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if !s.running() {
		return nil, ErrNoActiveSession
	}
	return s.turnInfoLocked(), nil
}

// advancePointerLocked moves the turn pointer to the next surviving player
// and increments the round counter when the pointer wraps. Practice sessions
// have a single participant, so every turn is its own round. Assumes lock is
// held and at least one survivor exists.
func (s *Session) advancePointerLocked() {
	if s.State == StatePractice {
		s.Round++
		return
	}
	prev := s.CurrentIdx
	next := (prev + 1) % len(s.Roster)
	for s.Roster[next].Eliminated {
		next = (next + 1) % len(s.Roster)
	}
	if next <= prev {
		s.Round++
	}
	s.CurrentIdx = next
}

// emit pushes an event to the rendering collaborator, if one is wired.
// Assumes lock is held; EmitFn implementations must not call back into the
// session synchronously.
func (s *Session) emit(ev Event) {
	ev.SessionID = s.ID
	ev.Round = s.Round
	ev.Seq = s.TurnSeq
	if s.EmitFn != nil {
		s.EmitFn(ev)
	}
}

// summaryLocked ranks the roster by in-session score, ties broken by player
// ID for determinism. Assumes lock is held.
func (s *Session) summaryLocked(winnerID string) *Summary {
	standings := make([]Standing, 0, len(s.Roster))
	for _, part := range s.Roster {
		standings = append(standings, Standing{
			PlayerID:   part.Player.ID,
			PlayerName: part.Player.DisplayName,
			Score:      part.Score,
			Eliminated: part.Eliminated,
		})
	}
	sortStandings(standings)
	return &Summary{
		ChatID:    s.ChatID,
		Practice:  s.State == StatePractice,
		Rounds:    s.Round,
		WinnerID:  winnerID,
		Standings: standings,
	}
}

// Stop cancels any live timer, marks the session stopped, and returns the
// final ranking. After Stop returns, no further events for this session are
// accepted: stale timer fires fail the sequence/state check and session
// lookups fail with ErrNoActiveSession.
func (s *Session) Stop() *Summary {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	s.cancelTimerLocked()
	practice := s.State == StatePractice
	s.State = StateStopped
	sum := s.summaryLocked("")
	sum.Practice = practice
	s.emit(Event{Type: EventSessionStopped, ChatID: s.ChatID, Summary: sum})
	if s.OnEnd != nil {
		s.OnEnd(s.ChatID, sum)
	}
	return sum
}

func sortStandings(st []Standing) {
	// Insertion sort keeps this dependency-free and stable for the small
	// rosters a chat game has.
	for i := 1; i < len(st); i++ {
		for j := i; j > 0; j-- {
			a, b := st[j-1], st[j]
			if b.Score > a.Score || (b.Score == a.Score && b.PlayerID < a.PlayerID) {
				st[j-1], st[j] = b, a
			} else {
				break
			}
		}
	}
}
