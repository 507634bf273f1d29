// internal/economy/ledger.go
package economy

import (
	"errors"
	"time"

	"github.com/wordarena/wordarena/internal/models"
)

// Economy errors. All are rejected with a reason and are never fatal.
var (
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrNotOwned           = errors.New("boost not owned")
	ErrOnCooldown         = errors.New("boost on cooldown")
	ErrSessionCapExceeded = errors.New("session cap for this boost exceeded")
	ErrUnknownBoost       = errors.New("unknown boost")
)

// BoostSpec fixes a boost's shop price, use cooldown, and per-session cap
// (0 = uncapped).
type BoostSpec struct {
	Cost       int
	Cooldown   time.Duration
	SessionCap int
}

// Specs is the boost catalogue. The rebound boost carries no use cooldown
// beyond its purchase cost.
var Specs = map[models.BoostKind]BoostSpec{
	models.BoostHint:    {Cost: 80, Cooldown: 2 * time.Minute},
	models.BoostSkip:    {Cost: 150, Cooldown: 3 * time.Minute, SessionCap: 3},
	models.BoostRebound: {Cost: 250},
}

// Ledger applies purchases and uses against player economy state. Balance,
// inventory, and cooldown mutations happen under the player's own mutex so
// two back-to-back purchase commands cannot double-spend.
type Ledger struct {
	now func() time.Time // injectable clock for tests
}

// NewLedger returns a Ledger on the real clock.
func NewLedger() *Ledger {
	return &Ledger{now: time.Now}
}

// NewLedgerWithClock returns a Ledger on an injected clock.
func NewLedgerWithClock(now func() time.Time) *Ledger {
	return &Ledger{now: now}
}

// Buy moves one boost of the given kind into the player's inventory,
// debiting its cost atomically.
func (l *Ledger) Buy(p *models.Player, kind models.BoostKind) error {
	spec, ok := Specs[kind]
	if !ok {
		return ErrUnknownBoost
	}
	p.Mu.Lock()
	defer p.Mu.Unlock()
	if p.Balance < spec.Cost {
		return ErrInsufficientPoints
	}
	p.Balance -= spec.Cost
	p.Inventory[kind]++
	return nil
}

// Use consumes one boost. sessionUses is how many times this boost has
// already been used by the player in the current session; the skip boost is
// capped at 3 per session regardless of inventory size. On success the
// inventory is decremented and the cooldown stamped.
func (l *Ledger) Use(p *models.Player, kind models.BoostKind, sessionUses int) error {
	spec, ok := Specs[kind]
	if !ok {
		return ErrUnknownBoost
	}
	p.Mu.Lock()
	defer p.Mu.Unlock()
	if p.Inventory[kind] == 0 {
		return ErrNotOwned
	}
	if spec.SessionCap > 0 && sessionUses >= spec.SessionCap {
		return ErrSessionCapExceeded
	}
	if spec.Cooldown > 0 {
		if last, ok := p.Cooldowns[kind]; ok && l.now().Before(last.Add(spec.Cooldown)) {
			return ErrOnCooldown
		}
	}
	p.Inventory[kind]--
	p.Cooldowns[kind] = l.now()
	return nil
}

// CooldownRemaining reports how long until the boost is usable again, or
// zero if it is ready now.
func (l *Ledger) CooldownRemaining(p *models.Player, kind models.BoostKind) time.Duration {
	spec, ok := Specs[kind]
	if !ok || spec.Cooldown == 0 {
		return 0
	}
	p.Mu.Lock()
	defer p.Mu.Unlock()
	last, ok := p.Cooldowns[kind]
	if !ok {
		return 0
	}
	rem := last.Add(spec.Cooldown).Sub(l.now())
	if rem < 0 {
		return 0
	}
	return rem
}

// Credit adds points to the player's spendable balance. Called from the
// turn-resolution path for accepted words in multiplayer games.
func (l *Ledger) Credit(p *models.Player, points int) {
	p.Mu.Lock()
	defer p.Mu.Unlock()
	p.Balance += points
}
