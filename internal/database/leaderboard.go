// internal/database/leaderboard.go
package database

import (
	"context"
	"fmt"

	"github.com/wordarena/wordarena/internal/leaderboard"
)

// statColumn maps a leaderboard category onto its players-table column. The
// map doubles as the category allowlist: queries are built only from these
// fixed strings, never from user input.
var statColumn = map[leaderboard.Category]string{
	leaderboard.ByScore:   "total_score",
	leaderboard.ByWords:   "total_words",
	leaderboard.ByStreak:  "best_streak",
	leaderboard.ByLongest: "longest_word_len",
}

// TopPlayers ranks persisted players descending by the chosen cumulative
// stat, ties broken by player id for determinism. Read-only.
func TopPlayers(ctx context.Context, category leaderboard.Category, limit int) ([]leaderboard.Entry, error) {
	col, ok := statColumn[category]
	if !ok {
		return nil, leaderboard.ErrUnknownCategory
	}
	q := fmt.Sprintf(`
		SELECT id, display_name, %s
		FROM players
		ORDER BY %s DESC, id ASC
		LIMIT $1
	`, col, col)

	rows, err := DB.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard query failed: %w", err)
	}
	defer rows.Close()

	var entries []leaderboard.Entry
	for rows.Next() {
		var e leaderboard.Entry
		if err := rows.Scan(&e.PlayerID, &e.DisplayName, &e.Value); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
