// internal/handlers/events.go
package handlers

import (
	"fmt"
	"strings"

	"github.com/wordarena/wordarena/internal/game"
)

// renderEvent turns a session event into chat text. An empty string means the
// event carries nothing new for the chat (its information rides on an
// adjacent event).
func (gw *Gateway) renderEvent(ev game.Event) string {
	switch ev.Type {
	case game.EventLobbyOpened:
		return fmt.Sprintf("🎮 %v opened a Word Arena lobby! /join to enter, /begin to start.", ev.Payload["initiator"])
	case game.EventPlayerJoined:
		return fmt.Sprintf("👤 %v joined the lobby (%v players).", ev.Payload["player"], ev.Payload["count"])
	case game.EventDifficultySet:
		return fmt.Sprintf("⚙️ Difficulty set to %v.", ev.Payload["difficulty"])
	case game.EventGameStarted:
		if practice, _ := ev.Payload["practice"].(bool); practice {
			return fmt.Sprintf("🧪 Practice run started on %v difficulty. Survive as many rounds as you can!", ev.Payload["difficulty"])
		}
		return fmt.Sprintf("🏁 Game on! %v players, %v difficulty.", ev.Payload["players"], ev.Payload["difficulty"])
	case game.EventTurnStarted:
		// Later turns are announced by the resolution that produced them.
		if ev.Seq == 1 {
			return renderTurnPrompt(ev.Turn)
		}
		return ""
	case game.EventTurnResolved:
		return gw.renderResolution(ev.Outcome)
	case game.EventPlayerEliminated:
		// The elimination text rides on the following turn_resolved or
		// game_ended event.
		return ""
	case game.EventGameEnded:
		return gw.renderGameEnded(ev)
	case game.EventSessionStopped:
		if ev.Summary == nil {
			return "🛑 Game stopped."
		}
		return "🛑 Game stopped.\n" + renderStandings(ev.Summary)
	}
	return ""
}

// renderResolution announces how a turn ended and who is up next.
func (gw *Gateway) renderResolution(out *game.Outcome) string {
	if out == nil {
		return ""
	}
	name := gw.nameOf(out.PlayerID)
	var line string
	switch out.Type {
	case game.OutcomeAccepted:
		line = fmt.Sprintf("✅ %s played %q for %d points", name, out.Word, out.Points)
		if out.Combo {
			line += fmt.Sprintf(" (🔥 streak %d)", out.Streak)
		}
		line += "."
	case game.OutcomeSkipped:
		line = fmt.Sprintf("⏭️ %s skipped their turn.", name)
	case game.OutcomeRebounded:
		line = fmt.Sprintf("🔄 %s rebounded the turn.", name)
	case game.OutcomeForfeited:
		line = fmt.Sprintf("🏳️ %s forfeited the turn.", name)
	case game.OutcomeTimedOut:
		line = fmt.Sprintf("⌛ %s ran out of time", name)
		if out.Eliminated {
			line += " and is eliminated!"
		} else {
			line += "."
		}
	default:
		return ""
	}
	if out.Next != nil {
		line += "\n" + renderTurnPrompt(out.Next)
	}
	return line
}

func (gw *Gateway) renderGameEnded(ev game.Event) string {
	var parts []string
	// A game-ending outcome never carries a next turn, so the resolution
	// renders without a prompt.
	if line := gw.renderResolution(ev.Outcome); line != "" {
		parts = append(parts, line)
	}
	sum := ev.Summary
	if sum == nil {
		return strings.Join(parts, "\n")
	}
	if sum.Practice {
		parts = append(parts, fmt.Sprintf("🧪 Practice over after %d rounds.", sum.Rounds))
	} else if sum.WinnerID != "" {
		parts = append(parts, fmt.Sprintf("🏆 %s wins after %d rounds!", gw.nameOf(sum.WinnerID), sum.Rounds))
	} else {
		parts = append(parts, fmt.Sprintf("🏁 Game over after %d rounds.", sum.Rounds))
	}
	if st := renderStandings(sum); st != "" {
		parts = append(parts, st)
	}
	return strings.Join(parts, "\n")
}

func renderTurnPrompt(t *game.TurnInfo) string {
	if t == nil {
		return ""
	}
	return fmt.Sprintf("▶️ Round %d: %s, name a %d-letter word starting with %q. %ds on the clock!",
		t.Round, t.PlayerName, t.RequiredLength, t.StartLetter, t.SecondsLeft)
}

func renderStandings(sum *game.Summary) string {
	if sum == nil || len(sum.Standings) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Final standings:")
	for i, st := range sum.Standings {
		mark := ""
		if st.Eliminated {
			mark = " ☠️"
		}
		fmt.Fprintf(&b, "\n%d. %s - %d points%s", i+1, st.PlayerName, st.Score, mark)
	}
	return b.String()
}

// nameOf resolves a player ID to a display name, falling back to the raw ID
// for players the process has never seen.
func (gw *Gateway) nameOf(id string) string {
	if p, ok := gw.Manager.Players.Get(id); ok {
		return p.DisplayName
	}
	return id
}
