// internal/game/manager.go
package game

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wordarena/wordarena/internal/dictionary"
	"github.com/wordarena/wordarena/internal/economy"
	"github.com/wordarena/wordarena/internal/models"
)

// Manager owns the session table: one Session per chat, explicit lifecycle,
// no ambient globals. All engine operations enter through it.
type Manager struct {
	Sessions *SessionStore
	Players  *PlayerStore
	Ledger   *economy.Ledger

	dict *dictionary.Dictionary

	// EmitFn receives every session event for rendering / journaling.
	EmitFn func(Event)

	// OnStatsChanged receives players whose cumulative stats mutated, for
	// asynchronous persistence.
	OnStatsChanged func(p *models.Player)

	// TurnTimeout, when non-zero, overrides the round-derived turn clock on
	// every session this manager creates. Tests use it.
	TurnTimeout time.Duration
}

// NewManager wires a manager over a dictionary. Ledger and stores are
// created internally; hooks are optional.
func NewManager(dict *dictionary.Dictionary) *Manager {
	return &Manager{
		Sessions: NewSessionStore(),
		Players:  NewPlayerStore(),
		Ledger:   economy.NewLedger(),
		dict:     dict,
	}
}

// newSessionFor builds a session with the manager's hooks attached.
func (m *Manager) newSessionFor(chatID string) *Session {
	s := newSession(chatID, m.dict, m.Ledger)
	s.TurnTimeout = m.TurnTimeout
	s.EmitFn = m.EmitFn
	s.OnStatsChanged = m.OnStatsChanged
	s.OnEnd = func(chat string, _ *Summary) {
		m.Sessions.Delete(chat)
		log.WithField("chat", chat).Info("session destroyed")
	}
	return s
}

// OpenLobby creates a Lobby session for the chat containing the initiator.
// Fails with ErrAlreadyOpen while any non-stopped session exists.
func (m *Manager) OpenLobby(chatID, userID, displayName string) (*Session, error) {
	s := m.newSessionFor(chatID)
	if !m.Sessions.AddIfAbsent(s) {
		return nil, ErrAlreadyOpen
	}
	p := m.Players.GetOrCreate(userID, displayName)
	s.Mu.Lock()
	_ = s.addPlayer(p)
	s.emit(Event{Type: EventLobbyOpened, ChatID: chatID, Payload: map[string]interface{}{
		"initiator": p.DisplayName,
	}})
	s.Mu.Unlock()
	log.WithFields(log.Fields{"chat": chatID, "initiator": userID}).Info("lobby opened")
	return s, nil
}

// Join adds a player to an open lobby.
func (m *Manager) Join(chatID, userID, displayName string) error {
	s, ok := m.Sessions.Get(chatID)
	if !ok {
		return ErrNotInLobby
	}
	p := m.Players.GetOrCreate(userID, displayName)
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if err := s.addPlayer(p); err != nil {
		return err
	}
	s.emit(Event{Type: EventPlayerJoined, ChatID: chatID, Payload: map[string]interface{}{
		"player": p.DisplayName,
		"count":  len(s.Roster),
	}})
	return nil
}

// SetDifficulty fixes the session difficulty. Valid only in the lobby.
func (m *Manager) SetDifficulty(chatID string, level Difficulty) error {
	s, ok := m.Sessions.Get(chatID)
	if !ok {
		return ErrNotInLobby
	}
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if s.State != StateLobby {
		return ErrNotInLobby
	}
	s.Difficulty = level
	s.emit(Event{Type: EventDifficultySet, ChatID: chatID, Payload: map[string]interface{}{
		"difficulty": string(level),
	}})
	return nil
}

// Begin transitions a lobby with at least two players to Active, fixes the
// turn order to the current roster order, and starts the first turn.
func (m *Manager) Begin(chatID string) error {
	s, ok := m.Sessions.Get(chatID)
	if !ok {
		return ErrNotInLobby
	}
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if s.State != StateLobby {
		return ErrNotInLobby
	}
	if len(s.Roster) < 2 {
		return ErrInsufficientPlayers
	}
	s.State = StateActive
	s.Round = 1
	s.CurrentIdx = 0
	s.emit(Event{Type: EventGameStarted, ChatID: chatID, Payload: map[string]interface{}{
		"players":    len(s.Roster),
		"difficulty": string(s.Difficulty),
	}})
	s.startTurnLocked()
	log.WithFields(log.Fields{"chat": chatID, "players": len(s.Roster)}).Info("game started")
	return nil
}

// BeginPractice creates a single-player practice session and starts its
// first turn. Practice never writes cumulative stats and awards no points or
// balance; the length progression is shared with multiplayer.
func (m *Manager) BeginPractice(chatID, userID, displayName string, level Difficulty) error {
	s := m.newSessionFor(chatID)
	if !m.Sessions.AddIfAbsent(s) {
		return ErrAlreadyOpen
	}
	p := m.Players.GetOrCreate(userID, displayName)
	s.Mu.Lock()
	_ = s.addPlayer(p)
	s.State = StatePractice
	s.Round = 1
	s.CurrentIdx = 0
	s.Difficulty = level
	s.emit(Event{Type: EventGameStarted, ChatID: chatID, Payload: map[string]interface{}{
		"practice":   true,
		"difficulty": string(level),
	}})
	s.startTurnLocked()
	s.Mu.Unlock()
	log.WithFields(log.Fields{"chat": chatID, "player": userID}).Info("practice started")
	return nil
}

// Stop cancels any live timer, destroys the session, and returns the final
// ranking of the roster by in-session score.
func (m *Manager) Stop(chatID string) (*Summary, error) {
	s, ok := m.Sessions.Get(chatID)
	if !ok {
		return nil, ErrNoActiveSession
	}
	return s.Stop(), nil
}

// Session looks up the live session for a chat.
func (m *Manager) Session(chatID string) (*Session, error) {
	s, ok := m.Sessions.Get(chatID)
	if !ok {
		return nil, ErrNoActiveSession
	}
	return s, nil
}

// Submit routes a plain-text message to the chat's running session.
func (m *Manager) Submit(chatID, userID, text string) (*Outcome, error) {
	s, err := m.Session(chatID)
	if err != nil {
		return nil, err
	}
	return s.Submit(userID, text)
}
