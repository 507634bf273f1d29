// internal/database/player.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wordarena/wordarena/internal/models"
)

// GetPlayer loads a persisted player record, or (nil, nil) when the player
// has never been seen.
func GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	q := `
	SELECT id, display_name,
	       total_score, total_words, longest_word, longest_word_len,
	       best_streak, games_completed, wins, hints_used, skips_used,
	       balance, inventory, cooldowns, unlocked, equipped
	FROM players
	WHERE id=$1
	`
	p := models.NewPlayer(id, "")
	var inventory, cooldowns, unlocked []byte
	err := DB.QueryRow(ctx, q, id).Scan(
		&p.ID, &p.DisplayName,
		&p.Stats.TotalScore, &p.Stats.TotalWords, &p.Stats.LongestWord, &p.Stats.LongestWordLen,
		&p.Stats.BestStreak, &p.Stats.GamesCompleted, &p.Stats.Wins, &p.Stats.HintsUsed, &p.Stats.SkipsUsed,
		&p.Balance, &inventory, &cooldowns, &unlocked, &p.Equipped,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load player %s: %w", id, err)
	}

	if err := json.Unmarshal(inventory, &p.Inventory); err != nil {
		return nil, fmt.Errorf("bad inventory json for player %s: %w", id, err)
	}
	if err := json.Unmarshal(cooldowns, &p.Cooldowns); err != nil {
		return nil, fmt.Errorf("bad cooldowns json for player %s: %w", id, err)
	}
	if err := json.Unmarshal(unlocked, &p.Unlocked); err != nil {
		return nil, fmt.Errorf("bad unlocked json for player %s: %w", id, err)
	}
	if p.Inventory == nil {
		p.Inventory = make(map[models.BoostKind]int)
	}
	if p.Cooldowns == nil {
		p.Cooldowns = make(map[models.BoostKind]time.Time)
	}
	if p.Unlocked == nil {
		p.Unlocked = make(map[string]bool)
	}
	return p, nil
}

// UpsertPlayer writes the full player record. Caller must hold the player's
// mutex or pass a snapshot that no longer mutates.
func UpsertPlayer(ctx context.Context, p *models.Player) error {
	inventory, err := json.Marshal(p.Inventory)
	if err != nil {
		return fmt.Errorf("failed to marshal inventory: %w", err)
	}
	cooldowns, err := json.Marshal(p.Cooldowns)
	if err != nil {
		return fmt.Errorf("failed to marshal cooldowns: %w", err)
	}
	unlocked, err := json.Marshal(p.Unlocked)
	if err != nil {
		return fmt.Errorf("failed to marshal unlocked: %w", err)
	}

	q := `
	INSERT INTO players (
		id, display_name,
		total_score, total_words, longest_word, longest_word_len,
		best_streak, games_completed, wins, hints_used, skips_used,
		balance, inventory, cooldowns, unlocked, equipped
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	ON CONFLICT (id) DO UPDATE SET
		display_name=$2,
		total_score=$3, total_words=$4, longest_word=$5, longest_word_len=$6,
		best_streak=$7, games_completed=$8, wins=$9, hints_used=$10, skips_used=$11,
		balance=$12, inventory=$13, cooldowns=$14, unlocked=$15, equipped=$16
	`
	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q,
			p.ID, p.DisplayName,
			p.Stats.TotalScore, p.Stats.TotalWords, p.Stats.LongestWord, p.Stats.LongestWordLen,
			p.Stats.BestStreak, p.Stats.GamesCompleted, p.Stats.Wins, p.Stats.HintsUsed, p.Stats.SkipsUsed,
			p.Balance, inventory, cooldowns, unlocked, p.Equipped,
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to upsert player %s: %w", p.ID, err)
	}
	return nil
}
