// internal/game/player_store.go
package game

import (
	"sync"

	"github.com/wordarena/wordarena/internal/models"
)

// PlayerStore is the in-memory registry of known players, keyed by platform
// user id. Players are created on first interaction and never deleted. An
// optional loader pulls a persisted record on first sight; the store itself
// does not write back (the manager's stats hook does).
type PlayerStore struct {
	mu      sync.Mutex
	players map[string]*models.Player

	// Load fetches a persisted player record, returning nil when none
	// exists. May be nil when running without a database.
	Load func(id string) *models.Player
}

func NewPlayerStore() *PlayerStore {
	return &PlayerStore{players: make(map[string]*models.Player)}
}

// GetOrCreate returns the player for a platform user, consulting the loader
// on first sight and creating a fresh record otherwise. The display name is
// platform-sourced and refreshed on every call.
func (st *PlayerStore) GetOrCreate(id, displayName string) *models.Player {
	st.mu.Lock()
	defer st.mu.Unlock()
	if p, ok := st.players[id]; ok {
		if displayName != "" {
			p.DisplayName = displayName
		}
		return p
	}
	var p *models.Player
	if st.Load != nil {
		p = st.Load(id)
	}
	if p == nil {
		p = models.NewPlayer(id, displayName)
	} else if displayName != "" {
		p.DisplayName = displayName
	}
	st.players[id] = p
	return p
}

// Get returns a known player without creating one.
func (st *PlayerStore) Get(id string) (*models.Player, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	p, ok := st.players[id]
	return p, ok
}

// Snapshot copies the current registry for read-only iteration, e.g. the
// in-memory leaderboard path.
func (st *PlayerStore) Snapshot() []*models.Player {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]*models.Player, 0, len(st.players))
	for _, p := range st.players {
		out = append(out, p)
	}
	return out
}
