// internal/game/errors.go
package game

import "errors"

// State errors: the command is invalid for the session's current state.
// Surfaced as a user-facing rejection, never fatal.
var (
	ErrAlreadyOpen         = errors.New("a lobby or game is already open for this chat")
	ErrNotInLobby          = errors.New("no open lobby for this chat")
	ErrAlreadyJoined       = errors.New("player already joined this lobby")
	ErrInsufficientPlayers = errors.New("at least 2 players are required to begin")
	ErrNoActiveSession     = errors.New("no active session for this chat")
	ErrNotYourTurn         = errors.New("it is not this player's turn")
	ErrNotInSession        = errors.New("player is not part of this session")
	ErrGameOver            = errors.New("the game has already ended")
)

// RejectionReason tags a word-validator failure. Same-turn retry is always
// permitted after a rejection.
type RejectionReason string

const (
	RejectEmpty       RejectionReason = "empty"
	RejectWrongLength RejectionReason = "wrong_length"
	RejectWrongLetter RejectionReason = "wrong_letter"
	RejectAlreadyUsed RejectionReason = "already_used"
	RejectNotAWord    RejectionReason = "not_a_word"
)
