// internal/handlers/commands_test.go
package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordarena/wordarena/internal/dictionary"
	"github.com/wordarena/wordarena/internal/game"
)

// testWords all start with 'c' so the constraint letter is predictable.
var testWords = []string{
	"cat", "cap", "car", "cot", "cut", "cob", "cod", "cow",
	"calm", "card", "cold", "corn",
}

func newTestGateway() *Gateway {
	m := game.NewManager(dictionary.New(testWords))
	m.TurnTimeout = time.Minute
	return NewGateway(m)
}

func msgFrom(userID, name, text string) InboundMessage {
	return InboundMessage{ChatID: "chat1", UserID: userID, DisplayName: name, Text: text}
}

func TestDispatchHelp(t *testing.T) {
	gw := newTestGateway()
	for _, cmd := range []string{"/help", "/start"} {
		replies := gw.Dispatch(msgFrom("A", "Alice", cmd))
		require.Len(t, replies, 1)
		assert.Contains(t, replies[0], "/lobby")
	}
}

func TestDispatchLobbyFlow(t *testing.T) {
	gw := newTestGateway()

	// Announcements travel on the event stream, so happy-path commands are
	// reply-free.
	assert.Empty(t, gw.Dispatch(msgFrom("A", "Alice", "/lobby")))
	assert.Empty(t, gw.Dispatch(msgFrom("B", "Bob", "/join")))
	assert.Empty(t, gw.Dispatch(msgFrom("A", "Alice", "/difficulty easy")))
	assert.Empty(t, gw.Dispatch(msgFrom("A", "Alice", "/begin")))

	s, err := gw.Manager.Session("chat1")
	require.NoError(t, err)
	info, err := s.Status()
	require.NoError(t, err)
	assert.Equal(t, "A", info.PlayerID)
}

func TestDispatchBeginWithoutEnoughPlayers(t *testing.T) {
	gw := newTestGateway()
	gw.Dispatch(msgFrom("A", "Alice", "/lobby"))

	replies := gw.Dispatch(msgFrom("A", "Alice", "/begin"))
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "at least 2 players")
}

func TestDispatchDoubleLobby(t *testing.T) {
	gw := newTestGateway()
	gw.Dispatch(msgFrom("A", "Alice", "/lobby"))

	replies := gw.Dispatch(msgFrom("B", "Bob", "/lobby"))
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "already open")
}

func TestDispatchDifficultyValidation(t *testing.T) {
	gw := newTestGateway()
	gw.Dispatch(msgFrom("A", "Alice", "/lobby"))

	replies := gw.Dispatch(msgFrom("A", "Alice", "/difficulty"))
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "Usage")

	replies = gw.Dispatch(msgFrom("A", "Alice", "/difficulty impossible"))
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "impossible")
}

func TestDispatchStripsBotSuffix(t *testing.T) {
	gw := newTestGateway()
	assert.Empty(t, gw.Dispatch(msgFrom("A", "Alice", "/lobby@WordArenaBot")))
	_, err := gw.Manager.Session("chat1")
	assert.NoError(t, err, "suffixed command still opened the lobby")
}

func TestDispatchSubmissionOutsideGameIsSilent(t *testing.T) {
	gw := newTestGateway()
	// Ordinary chatter in a chat with no game draws no reply.
	assert.Empty(t, gw.Dispatch(msgFrom("A", "Alice", "hello everyone")))
}

func TestDispatchSubmissionFlow(t *testing.T) {
	gw := newTestGateway()
	gw.Dispatch(msgFrom("A", "Alice", "/lobby"))
	gw.Dispatch(msgFrom("B", "Bob", "/join"))
	gw.Dispatch(msgFrom("A", "Alice", "/difficulty easy"))
	gw.Dispatch(msgFrom("A", "Alice", "/begin"))

	// Bob speaking out of turn is ignored.
	assert.Empty(t, gw.Dispatch(msgFrom("B", "Bob", "cat")))

	// Alice's invalid word draws a retry prompt.
	replies := gw.Dispatch(msgFrom("A", "Alice", "czz"))
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "dictionary")
	assert.Contains(t, replies[0], "Alice")

	// Her accepted word is announced via the event stream, not the reply.
	assert.Empty(t, gw.Dispatch(msgFrom("A", "Alice", "cat")))

	s, err := gw.Manager.Session("chat1")
	require.NoError(t, err)
	info, err := s.Status()
	require.NoError(t, err)
	assert.Equal(t, "B", info.PlayerID)
}

func TestDispatchShopAndBuy(t *testing.T) {
	gw := newTestGateway()

	replies := gw.Dispatch(msgFrom("A", "Alice", "/shop"))
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "80")
	assert.Contains(t, replies[0], "150")
	assert.Contains(t, replies[0], "250")

	// Broke player.
	replies = gw.Dispatch(msgFrom("A", "Alice", "/buy_hint"))
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "Not enough points")

	p := gw.Manager.Players.GetOrCreate("A", "Alice")
	gw.Manager.Ledger.Credit(p, 200)

	replies = gw.Dispatch(msgFrom("A", "Alice", "/buy_hint"))
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "Balance: 120")

	replies = gw.Dispatch(msgFrom("A", "Alice", "/inventory"))
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "hint: 1")
}

func TestDispatchMyStats(t *testing.T) {
	gw := newTestGateway()
	p := gw.Manager.Players.GetOrCreate("A", "Alice")
	p.Stats.TotalScore = 42
	p.Stats.LongestWord = "keyboard"
	p.Stats.LongestWordLen = 8

	replies := gw.Dispatch(msgFrom("A", "Alice", "/mystats"))
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "Alice")
	assert.Contains(t, replies[0], "42")
	assert.Contains(t, replies[0], "keyboard")
}

func TestDispatchLeaderboardInMemory(t *testing.T) {
	gw := newTestGateway()
	a := gw.Manager.Players.GetOrCreate("A", "Alice")
	a.Stats.TotalScore = 10
	b := gw.Manager.Players.GetOrCreate("B", "Bob")
	b.Stats.TotalScore = 99

	replies := gw.Dispatch(msgFrom("A", "Alice", "/leaderboard"))
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "1. Bob - 99")
	assert.Contains(t, replies[0], "2. Alice - 10")

	replies = gw.Dispatch(msgFrom("A", "Alice", "/leaderboard charisma"))
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "Unknown category")
}

func TestDispatchTitles(t *testing.T) {
	gw := newTestGateway()

	replies := gw.Dispatch(msgFrom("A", "Alice", "/settitle LEGEND"))
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "haven't unlocked")

	p := gw.Manager.Players.GetOrCreate("A", "Alice")
	p.Mu.Lock()
	p.Unlocked["LEGEND"] = true
	p.Mu.Unlock()

	replies = gw.Dispatch(msgFrom("A", "Alice", "/settitle legend"))
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "LEGEND", "title input is case-insensitive")

	replies = gw.Dispatch(msgFrom("A", "Alice", "/achievements"))
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "LEGEND")

	replies = gw.Dispatch(msgFrom("A", "Alice", "/progress"))
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "LEGEND: unlocked")
	assert.Contains(t, replies[0], "WARRIOR: 0/10")
}

func TestRenderEventFirstTurnAndResolutions(t *testing.T) {
	gw := newTestGateway()
	gw.Manager.Players.GetOrCreate("A", "Alice")

	turn := &game.TurnInfo{
		PlayerID: "A", PlayerName: "Alice", Round: 1,
		StartLetter: "c", RequiredLength: 3, SecondsLeft: 55,
	}

	text := gw.renderEvent(game.Event{Type: game.EventTurnStarted, Seq: 1, Turn: turn})
	assert.Contains(t, text, "Alice")
	assert.Contains(t, text, "3-letter")
	assert.Contains(t, text, `"c"`)

	// Later turn starts are silent; the resolution announces them.
	text = gw.renderEvent(game.Event{Type: game.EventTurnStarted, Seq: 2, Turn: turn})
	assert.Empty(t, text)

	text = gw.renderEvent(game.Event{Type: game.EventTurnResolved, Outcome: &game.Outcome{
		Type: game.OutcomeAccepted, PlayerID: "A", Word: "cat", Points: 3,
		Streak: 3, Combo: true, Next: turn,
	}})
	assert.Contains(t, text, `"cat"`)
	assert.Contains(t, text, "3 points")
	assert.Contains(t, text, "streak 3")
	assert.Contains(t, text, "on the clock", "resolution carries the next prompt")
}

func TestRenderEventGameEnded(t *testing.T) {
	gw := newTestGateway()
	gw.Manager.Players.GetOrCreate("A", "Alice")
	gw.Manager.Players.GetOrCreate("B", "Bob")

	text := gw.renderEvent(game.Event{
		Type: game.EventGameEnded,
		Outcome: &game.Outcome{
			Type: game.OutcomeTimedOut, PlayerID: "B",
			Eliminated: true, GameOver: true, Winner: "A",
		},
		Summary: &game.Summary{
			Rounds:   4,
			WinnerID: "A",
			Standings: []game.Standing{
				{PlayerID: "A", PlayerName: "Alice", Score: 12},
				{PlayerID: "B", PlayerName: "Bob", Score: 7, Eliminated: true},
			},
		},
	})
	assert.Contains(t, text, "Bob ran out of time and is eliminated")
	assert.Contains(t, text, "Alice wins after 4 rounds")
	assert.Contains(t, text, "1. Alice - 12")
	lines := strings.Split(text, "\n")
	assert.GreaterOrEqual(t, len(lines), 4)
}
