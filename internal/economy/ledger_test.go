// internal/economy/ledger_test.go
package economy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordarena/wordarena/internal/models"
)

func TestBuyDebitsBalance(t *testing.T) {
	l := NewLedger()
	p := models.NewPlayer("A", "Alice")
	p.Balance = 100

	require.NoError(t, l.Buy(p, models.BoostHint))
	assert.Equal(t, 20, p.Balance)
	assert.Equal(t, 1, p.Inventory[models.BoostHint])
}

func TestBuyInsufficientPoints(t *testing.T) {
	l := NewLedger()
	p := models.NewPlayer("A", "Alice")
	p.Balance = 79

	err := l.Buy(p, models.BoostHint)
	assert.ErrorIs(t, err, ErrInsufficientPoints)
	assert.Equal(t, 79, p.Balance, "a failed purchase debits nothing")
	assert.Zero(t, p.Inventory[models.BoostHint])
}

func TestBuyUnknownBoost(t *testing.T) {
	l := NewLedger()
	p := models.NewPlayer("A", "Alice")
	assert.ErrorIs(t, l.Buy(p, models.BoostKind("jetpack")), ErrUnknownBoost)
}

func TestUseRequiresOwnership(t *testing.T) {
	l := NewLedger()
	p := models.NewPlayer("A", "Alice")

	assert.ErrorIs(t, l.Use(p, models.BoostSkip, 0), ErrNotOwned)
}

func TestUseConsumesAndStampsCooldown(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewLedgerWithClock(func() time.Time { return now })
	p := models.NewPlayer("A", "Alice")
	p.Balance = 500
	require.NoError(t, l.Buy(p, models.BoostHint))
	require.NoError(t, l.Buy(p, models.BoostHint))

	require.NoError(t, l.Use(p, models.BoostHint, 0))
	assert.Equal(t, 1, p.Inventory[models.BoostHint])

	// Immediately again: still on the 2-minute cooldown.
	assert.ErrorIs(t, l.Use(p, models.BoostHint, 1), ErrOnCooldown)
	assert.Equal(t, 2*time.Minute, l.CooldownRemaining(p, models.BoostHint))

	// Advance past the cooldown.
	now = now.Add(2*time.Minute + time.Second)
	assert.Zero(t, l.CooldownRemaining(p, models.BoostHint))
	require.NoError(t, l.Use(p, models.BoostHint, 1))
	assert.Zero(t, p.Inventory[models.BoostHint])
}

func TestSkipSessionCap(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewLedgerWithClock(func() time.Time { return now })
	p := models.NewPlayer("A", "Alice")
	p.Inventory[models.BoostSkip] = 10

	for uses := 0; uses < 3; uses++ {
		require.NoError(t, l.Use(p, models.BoostSkip, uses))
		now = now.Add(5 * time.Minute) // clear the use cooldown between skips
	}
	assert.ErrorIs(t, l.Use(p, models.BoostSkip, 3), ErrSessionCapExceeded,
		"the skip cap binds even with inventory to spare")
	assert.Equal(t, 7, p.Inventory[models.BoostSkip])
}

func TestReboundHasNoCooldown(t *testing.T) {
	l := NewLedger()
	p := models.NewPlayer("A", "Alice")
	p.Inventory[models.BoostRebound] = 2

	require.NoError(t, l.Use(p, models.BoostRebound, 0))
	require.NoError(t, l.Use(p, models.BoostRebound, 1), "rebound back-to-back is allowed")
	assert.Zero(t, l.CooldownRemaining(p, models.BoostRebound))
}

func TestCredit(t *testing.T) {
	l := NewLedger()
	p := models.NewPlayer("A", "Alice")
	l.Credit(p, 7)
	l.Credit(p, 5)
	assert.Equal(t, 12, p.Balance)
}
