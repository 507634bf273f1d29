// internal/leaderboard/leaderboard.go
package leaderboard

import (
	"errors"
	"sort"

	"github.com/wordarena/wordarena/internal/models"
)

// Category selects which cumulative stat a ranking is keyed on.
type Category string

const (
	ByScore   Category = "score"
	ByWords   Category = "words"
	ByStreak  Category = "streak"
	ByLongest Category = "longest"
)

// ErrUnknownCategory is returned for categories outside the known set.
var ErrUnknownCategory = errors.New("unknown leaderboard category")

// Entry is one ranked row.
type Entry struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Value       int    `json:"value"`
}

// ParseCategory maps user input to a Category, defaulting to score.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case ByScore, ByWords, ByStreak, ByLongest:
		return Category(s), true
	case "":
		return ByScore, true
	}
	return ByScore, false
}

func value(c Category, s models.CumulativeStats) int {
	switch c {
	case ByWords:
		return s.TotalWords
	case ByStreak:
		return s.BestStreak
	case ByLongest:
		return s.LongestWordLen
	default:
		return s.TotalScore
	}
}

// Top ranks players descending by the chosen cumulative stat, ties broken by
// player identifier ascending for determinism. Read-only: the input is never
// mutated.
func Top(players []*models.Player, category Category, limit int) ([]Entry, error) {
	switch category {
	case ByScore, ByWords, ByStreak, ByLongest:
	default:
		return nil, ErrUnknownCategory
	}

	entries := make([]Entry, 0, len(players))
	for _, p := range players {
		p.Mu.Lock()
		e := Entry{PlayerID: p.ID, DisplayName: p.DisplayName, Value: value(category, p.Stats)}
		p.Mu.Unlock()
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
