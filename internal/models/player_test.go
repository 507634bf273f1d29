// internal/models/player_test.go
package models

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotIsIsolatedFromLaterMutation(t *testing.T) {
	p := NewPlayer("u1", "Alice")
	p.Balance = 100
	p.Inventory[BoostHint] = 2
	p.Cooldowns[BoostSkip] = time.Unix(1000, 0)
	p.Unlocked["LEGEND"] = true
	p.Equipped = "LEGEND"

	snap := p.Snapshot()

	p.Mu.Lock()
	p.Balance = 0
	p.Stats.TotalScore = 999
	p.Inventory[BoostHint] = 7
	p.Cooldowns[BoostSkip] = time.Unix(2000, 0)
	p.Unlocked["SAGE"] = true
	p.Mu.Unlock()

	assert.Equal(t, 100, snap.Balance)
	assert.Equal(t, 0, snap.Stats.TotalScore)
	assert.Equal(t, 2, snap.Inventory[BoostHint])
	assert.Equal(t, time.Unix(1000, 0), snap.Cooldowns[BoostSkip])
	assert.False(t, snap.Unlocked["SAGE"])
	assert.Equal(t, "LEGEND", snap.Equipped)
}

func TestSnapshotDuringConcurrentMutation(t *testing.T) {
	p := NewPlayer("u1", "Alice")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			p.Mu.Lock()
			p.Balance++
			p.Inventory[BoostSkip]++
			p.Cooldowns[BoostSkip] = time.Now()
			p.Unlocked["WARRIOR"] = true
			p.Mu.Unlock()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			snap := p.Snapshot()
			require.Equal(t, snap.Balance, snap.Inventory[BoostSkip],
				"fields mutated together must snapshot together")
		}
	}()
	wg.Wait()

	snap := p.Snapshot()
	assert.Equal(t, 200, snap.Balance)
}
