// internal/game/outcome.go
package game

import "github.com/google/uuid"

// OutcomeType is the closed set of ways a turn (or session event) resolves.
// The rendering collaborator consumes these exhaustively.
type OutcomeType string

const (
	OutcomeAccepted        OutcomeType = "accepted"
	OutcomeRejectedInvalid OutcomeType = "rejected_invalid"
	OutcomeSkipped         OutcomeType = "skipped"
	OutcomeRebounded       OutcomeType = "rebounded"
	OutcomeForfeited       OutcomeType = "forfeited"
	OutcomeTimedOut        OutcomeType = "timed_out"
)

// Outcome is the tagged result of resolving (or rejecting) a turn action.
// It is ephemeral: never persisted, only used to drive side effects and
// rendering.
type Outcome struct {
	Type     OutcomeType     `json:"type"`
	PlayerID string          `json:"player_id"`
	Word     string          `json:"word,omitempty"`
	Points   int             `json:"points,omitempty"`
	Streak   int             `json:"streak,omitempty"`
	Combo    bool            `json:"combo,omitempty"` // presentation flag, streak >= 3
	Reason   RejectionReason `json:"reason,omitempty"`

	// Eliminated is set on TimedOut when the player leaves the rotation.
	Eliminated bool `json:"eliminated,omitempty"`

	// GameOver/Winner are set when this resolution ended the game.
	GameOver bool   `json:"game_over,omitempty"`
	Winner   string `json:"winner,omitempty"`

	// Next describes the turn that follows, when one does.
	Next *TurnInfo `json:"next,omitempty"`
}

// TurnInfo describes a live turn for status queries and outcome rendering.
type TurnInfo struct {
	PlayerID       string `json:"player_id"`
	PlayerName     string `json:"player_name"`
	Round          int    `json:"round"`
	Seq            uint64 `json:"seq"`
	StartLetter    string `json:"start_letter"`
	RequiredLength int    `json:"required_length"`
	SecondsLeft    int    `json:"seconds_left"`
}

// EventType is an enum-like type for session events pushed to the renderer.
type EventType string

const (
	EventLobbyOpened      EventType = "lobby_opened"
	EventPlayerJoined     EventType = "player_joined"
	EventDifficultySet    EventType = "difficulty_set"
	EventGameStarted      EventType = "game_started"
	EventTurnStarted      EventType = "turn_started"
	EventTurnResolved     EventType = "turn_resolved"
	EventPlayerEliminated EventType = "player_eliminated"
	EventGameEnded        EventType = "game_ended"
	EventSessionStopped   EventType = "session_stopped"
)

// Event is the structured payload handed to the rendering collaborator.
type Event struct {
	Type      EventType              `json:"type"`
	ChatID    string                 `json:"chat_id"`
	SessionID uuid.UUID              `json:"session_id"`
	Round     int                    `json:"round"`
	Seq       uint64                 `json:"seq"`
	Outcome   *Outcome               `json:"outcome,omitempty"`
	Turn      *TurnInfo              `json:"turn,omitempty"`
	Summary   *Summary               `json:"summary,omitempty"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

// Standing is one row of a final ranking.
type Standing struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
	Eliminated bool   `json:"eliminated"`
}

// Summary is the final state of a session, ranked by in-session score.
type Summary struct {
	ChatID    string     `json:"chat_id"`
	Practice  bool       `json:"practice"`
	Rounds    int        `json:"rounds"`
	WinnerID  string     `json:"winner_id,omitempty"`
	Standings []Standing `json:"standings"`
}
