// internal/leaderboard/leaderboard_test.go
package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordarena/wordarena/internal/models"
)

func testPlayers() []*models.Player {
	mk := func(id, name string, stats models.CumulativeStats) *models.Player {
		p := models.NewPlayer(id, name)
		p.Stats = stats
		return p
	}
	return []*models.Player{
		mk("A", "Alice", models.CumulativeStats{TotalScore: 50, TotalWords: 9, BestStreak: 4, LongestWordLen: 8}),
		mk("B", "Bob", models.CumulativeStats{TotalScore: 120, TotalWords: 20, BestStreak: 2, LongestWordLen: 6}),
		mk("C", "Cara", models.CumulativeStats{TotalScore: 50, TotalWords: 11, BestStreak: 7, LongestWordLen: 12}),
	}
}

func TestTopByScore(t *testing.T) {
	entries, err := Top(testPlayers(), ByScore, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "B", entries[0].PlayerID)
	assert.Equal(t, 120, entries[0].Value)
	// 50-50 tie breaks by player id ascending.
	assert.Equal(t, "A", entries[1].PlayerID)
	assert.Equal(t, "C", entries[2].PlayerID)
}

func TestTopOtherCategories(t *testing.T) {
	entries, err := Top(testPlayers(), ByWords, 10)
	require.NoError(t, err)
	assert.Equal(t, "B", entries[0].PlayerID)
	assert.Equal(t, 20, entries[0].Value)

	entries, err = Top(testPlayers(), ByStreak, 10)
	require.NoError(t, err)
	assert.Equal(t, "C", entries[0].PlayerID)

	entries, err = Top(testPlayers(), ByLongest, 10)
	require.NoError(t, err)
	assert.Equal(t, "C", entries[0].PlayerID)
	assert.Equal(t, 12, entries[0].Value)
}

func TestTopLimit(t *testing.T) {
	entries, err := Top(testPlayers(), ByScore, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestTopUnknownCategory(t *testing.T) {
	_, err := Top(testPlayers(), Category("charisma"), 10)
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("")
	assert.True(t, ok)
	assert.Equal(t, ByScore, c, "empty input defaults to score")

	c, ok = ParseCategory("longest")
	assert.True(t, ok)
	assert.Equal(t, ByLongest, c)

	_, ok = ParseCategory("charisma")
	assert.False(t, ok)
}
