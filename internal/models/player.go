// internal/models/player.go
package models

import (
	"sync"
	"time"
)

// BoostKind names a purchasable boost.
type BoostKind string

const (
	BoostHint    BoostKind = "hint"
	BoostSkip    BoostKind = "skip"
	BoostRebound BoostKind = "rebound"
)

// CumulativeStats are a player's lifetime numbers across multiplayer games.
// Practice sessions never touch these.
type CumulativeStats struct {
	TotalScore     int    `json:"total_score"`
	TotalWords     int    `json:"total_words"`
	LongestWord    string `json:"longest_word"`
	LongestWordLen int    `json:"longest_word_len"`
	BestStreak     int    `json:"best_streak"`
	GamesCompleted int    `json:"games_completed"`
	Wins           int    `json:"wins"`
	HintsUsed      int    `json:"hints_used"`
	SkipsUsed      int    `json:"skips_used"`
}

// Player is a platform user known to the game. Created on first interaction,
// persisted indefinitely, never deleted.
type Player struct {
	ID          string `json:"id"` // platform user id
	DisplayName string `json:"display_name"`

	Stats CumulativeStats `json:"stats"`

	// Economy state.
	Balance   int                     `json:"balance"`
	Inventory map[BoostKind]int       `json:"inventory"`
	Cooldowns map[BoostKind]time.Time `json:"cooldowns"`

	// Achievement state. Equipped is one of Unlocked or empty.
	Unlocked map[string]bool `json:"unlocked"`
	Equipped string          `json:"equipped"`

	// Mu guards economy and achievement state against concurrent chat
	// commands arriving outside the turn-resolution path.
	Mu sync.Mutex `json:"-"`
}

// Snapshot returns a deep copy of the player taken under the mutex, safe to
// hand to asynchronous persistence while the live record keeps mutating.
func (p *Player) Snapshot() *Player {
	p.Mu.Lock()
	defer p.Mu.Unlock()
	snap := &Player{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Stats:       p.Stats,
		Balance:     p.Balance,
		Inventory:   make(map[BoostKind]int, len(p.Inventory)),
		Cooldowns:   make(map[BoostKind]time.Time, len(p.Cooldowns)),
		Unlocked:    make(map[string]bool, len(p.Unlocked)),
		Equipped:    p.Equipped,
	}
	for k, v := range p.Inventory {
		snap.Inventory[k] = v
	}
	for k, v := range p.Cooldowns {
		snap.Cooldowns[k] = v
	}
	for k, v := range p.Unlocked {
		snap.Unlocked[k] = v
	}
	return snap
}

// NewPlayer builds a fresh player record for a first-time user.
func NewPlayer(id, displayName string) *Player {
	return &Player{
		ID:          id,
		DisplayName: displayName,
		Inventory:   make(map[BoostKind]int),
		Cooldowns:   make(map[BoostKind]time.Time),
		Unlocked:    make(map[string]bool),
	}
}
