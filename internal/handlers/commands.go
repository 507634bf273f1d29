// internal/handlers/commands.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/wordarena/wordarena/internal/achievements"
	"github.com/wordarena/wordarena/internal/database"
	"github.com/wordarena/wordarena/internal/economy"
	"github.com/wordarena/wordarena/internal/game"
	"github.com/wordarena/wordarena/internal/leaderboard"
	"github.com/wordarena/wordarena/internal/models"
)

const helpText = `Word Arena commands:
/lobby - open a lobby in this chat
/join - join the open lobby
/difficulty <easy|medium|hard> - set difficulty (lobby only)
/begin - start the game (2+ players)
/practice [difficulty] - start a solo practice run
/status - show whose turn it is
/stop - end the current game
/hint - spend a hint boost for word suggestions
/skip_boost - spend a skip boost to pass your turn
/rebound - spend a rebound boost to pass your turn
/forfeit - pass your turn for free
/shop - see boost prices
/buy_hint /buy_skip /buy_rebound - purchase boosts
/inventory - your boosts and balance
/mystats - your lifetime stats
/leaderboard [score|words|streak|longest] - top players
/achievements - your unlocked titles
/settitle <TITLE> - equip an unlocked title
/progress - title unlock progress
When it is your turn, just type your word.`

// Dispatch routes one inbound chat message: slash commands go to their
// handler, anything else is treated as a word submission for the live turn.
// The returned strings are replies addressed to the originating chat; state
// transitions that the engine announces through events return no reply here.
func (gw *Gateway) Dispatch(msg InboundMessage) []string {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil
	}
	if !strings.HasPrefix(text, "/") {
		return gw.handleSubmission(msg)
	}

	fields := strings.Fields(text)
	cmd := strings.ToLower(fields[0])
	// Group chats may address commands as /begin@BotName.
	if at := strings.Index(cmd, "@"); at != -1 {
		cmd = cmd[:at]
	}
	args := fields[1:]

	switch cmd {
	case "/start", "/help":
		return []string{helpText}
	case "/lobby":
		if _, err := gw.Manager.OpenLobby(msg.ChatID, msg.UserID, msg.DisplayName); err != nil {
			return []string{renderErr(err)}
		}
		return nil
	case "/join":
		if err := gw.Manager.Join(msg.ChatID, msg.UserID, msg.DisplayName); err != nil {
			return []string{renderErr(err)}
		}
		return nil
	case "/difficulty":
		if len(args) == 0 {
			return []string{"Usage: /difficulty <easy|medium|hard>"}
		}
		level, ok := game.ParseDifficulty(strings.ToLower(args[0]))
		if !ok {
			return []string{fmt.Sprintf("Unknown difficulty %q. Pick easy, medium, or hard.", args[0])}
		}
		if err := gw.Manager.SetDifficulty(msg.ChatID, level); err != nil {
			return []string{renderErr(err)}
		}
		return nil
	case "/begin":
		if err := gw.Manager.Begin(msg.ChatID); err != nil {
			return []string{renderErr(err)}
		}
		return nil
	case "/practice":
		level := game.Medium
		if len(args) > 0 {
			parsed, ok := game.ParseDifficulty(strings.ToLower(args[0]))
			if !ok {
				return []string{fmt.Sprintf("Unknown difficulty %q. Pick easy, medium, or hard.", args[0])}
			}
			level = parsed
		}
		if err := gw.Manager.BeginPractice(msg.ChatID, msg.UserID, msg.DisplayName, level); err != nil {
			return []string{renderErr(err)}
		}
		return nil
	case "/stop":
		if _, err := gw.Manager.Stop(msg.ChatID); err != nil {
			return []string{renderErr(err)}
		}
		return nil
	case "/status":
		s, err := gw.Manager.Session(msg.ChatID)
		if err != nil {
			return []string{renderErr(err)}
		}
		info, err := s.Status()
		if err != nil {
			return []string{renderErr(err)}
		}
		return []string{renderTurnPrompt(info)}
	case "/hint":
		return gw.handleHint(msg)
	case "/skip_boost":
		s, err := gw.Manager.Session(msg.ChatID)
		if err != nil {
			return []string{renderErr(err)}
		}
		if _, err := s.UseSkip(msg.UserID); err != nil {
			return []string{renderErr(err)}
		}
		gw.persist(msg.UserID)
		return nil
	case "/rebound":
		s, err := gw.Manager.Session(msg.ChatID)
		if err != nil {
			return []string{renderErr(err)}
		}
		if _, err := s.UseRebound(msg.UserID); err != nil {
			return []string{renderErr(err)}
		}
		gw.persist(msg.UserID)
		return nil
	case "/forfeit":
		s, err := gw.Manager.Session(msg.ChatID)
		if err != nil {
			return []string{renderErr(err)}
		}
		if _, err := s.Forfeit(msg.UserID); err != nil {
			return []string{renderErr(err)}
		}
		return nil
	case "/shop":
		return []string{renderShop()}
	case "/buy_hint":
		return gw.handleBuy(msg, models.BoostHint)
	case "/buy_skip":
		return gw.handleBuy(msg, models.BoostSkip)
	case "/buy_rebound":
		return gw.handleBuy(msg, models.BoostRebound)
	case "/inventory":
		return []string{gw.renderInventory(msg)}
	case "/mystats", "/profile":
		return []string{gw.renderStats(msg)}
	case "/leaderboard":
		category := ""
		if len(args) > 0 {
			category = strings.ToLower(args[0])
		}
		return []string{gw.renderLeaderboard(category)}
	case "/achievements":
		return []string{gw.renderAchievements(msg)}
	case "/settitle":
		if len(args) == 0 {
			return []string{"Usage: /settitle <TITLE>"}
		}
		return gw.handleSetTitle(msg, strings.ToUpper(args[0]))
	case "/progress":
		return []string{gw.renderProgress(msg)}
	}
	return nil
}

// handleSubmission treats a plain message as a word for the current turn.
// Messages from non-current players, or in chats without a running game, are
// ordinary conversation and draw no reply.
func (gw *Gateway) handleSubmission(msg InboundMessage) []string {
	out, err := gw.Manager.Submit(msg.ChatID, msg.UserID, msg.Text)
	if err != nil {
		if errors.Is(err, game.ErrNoActiveSession) || errors.Is(err, game.ErrNotYourTurn) {
			return nil
		}
		return []string{renderErr(err)}
	}
	if out.Type == game.OutcomeRejectedInvalid {
		return []string{renderRejection(msg.DisplayName, out.Reason)}
	}
	// Accepted words are announced through the event stream.
	return nil
}

func (gw *Gateway) handleHint(msg InboundMessage) []string {
	s, err := gw.Manager.Session(msg.ChatID)
	if err != nil {
		return []string{renderErr(err)}
	}
	words, err := s.Hint(msg.UserID)
	if err != nil {
		return []string{renderErr(err)}
	}
	gw.persist(msg.UserID)
	if len(words) == 0 {
		return []string{"💡 No unused words match the current constraint. Rough round."}
	}
	return []string{fmt.Sprintf("💡 Try one of: %s", strings.Join(words, ", "))}
}

func (gw *Gateway) handleBuy(msg InboundMessage, kind models.BoostKind) []string {
	p := gw.Manager.Players.GetOrCreate(msg.UserID, msg.DisplayName)
	if err := gw.Manager.Ledger.Buy(p, kind); err != nil {
		return []string{renderErr(err)}
	}
	gw.persist(msg.UserID)
	p.Mu.Lock()
	balance := p.Balance
	count := p.Inventory[kind]
	p.Mu.Unlock()
	return []string{fmt.Sprintf("🛒 Bought 1 %s boost (you own %d). Balance: %d points.", kind, count, balance)}
}

func (gw *Gateway) handleSetTitle(msg InboundMessage, title string) []string {
	p := gw.Manager.Players.GetOrCreate(msg.UserID, msg.DisplayName)
	p.Mu.Lock()
	err := achievements.Equip(p, title)
	p.Mu.Unlock()
	if err != nil {
		return []string{renderErr(err)}
	}
	gw.persist(msg.UserID)
	return []string{fmt.Sprintf("👑 %s now carries the title %s.", msg.DisplayName, title)}
}

// persist hands the player to the manager's stats hook, which the server
// wires to asynchronous database upserts.
func (gw *Gateway) persist(userID string) {
	if gw.Manager.OnStatsChanged == nil {
		return
	}
	if p, ok := gw.Manager.Players.Get(userID); ok {
		gw.Manager.OnStatsChanged(p)
	}
}

func (gw *Gateway) renderInventory(msg InboundMessage) string {
	p := gw.Manager.Players.GetOrCreate(msg.UserID, msg.DisplayName)
	p.Mu.Lock()
	defer p.Mu.Unlock()
	var b strings.Builder
	fmt.Fprintf(&b, "🎒 %s's inventory\nBalance: %d points\n", p.DisplayName, p.Balance)
	for _, kind := range []models.BoostKind{models.BoostHint, models.BoostSkip, models.BoostRebound} {
		fmt.Fprintf(&b, "%s: %d\n", kind, p.Inventory[kind])
	}
	return strings.TrimRight(b.String(), "\n")
}

func (gw *Gateway) renderStats(msg InboundMessage) string {
	p := gw.Manager.Players.GetOrCreate(msg.UserID, msg.DisplayName)
	p.Mu.Lock()
	defer p.Mu.Unlock()
	name := p.DisplayName
	if p.Equipped != "" {
		name = fmt.Sprintf("%s [%s]", name, p.Equipped)
	}
	longest := p.Stats.LongestWord
	if longest == "" {
		longest = "-"
	}
	return fmt.Sprintf(
		"📊 %s\nTotal score: %d\nWords played: %d\nLongest word: %s (%d)\nBest streak: %d\nGames: %d, wins: %d\nHints used: %d, skips used: %d",
		name, p.Stats.TotalScore, p.Stats.TotalWords, longest, p.Stats.LongestWordLen,
		p.Stats.BestStreak, p.Stats.GamesCompleted, p.Stats.Wins,
		p.Stats.HintsUsed, p.Stats.SkipsUsed,
	)
}

// renderLeaderboard prefers the database ranking, falling back to the
// in-memory player table when no database is connected.
func (gw *Gateway) renderLeaderboard(raw string) string {
	category, ok := leaderboard.ParseCategory(raw)
	if !ok {
		return fmt.Sprintf("Unknown category %q. Pick score, words, streak, or longest.", raw)
	}

	var entries []leaderboard.Entry
	var err error
	if database.DB != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		entries, err = database.TopPlayers(ctx, category, 10)
		cancel()
	} else {
		entries, err = leaderboard.Top(gw.Manager.Players.Snapshot(), category, 10)
	}
	if err != nil {
		return renderErr(err)
	}
	if len(entries) == 0 {
		return "🏆 Nobody on the board yet. Play a game!"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🏆 Top players by %s\n", category)
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. %s - %d\n", i+1, e.DisplayName, e.Value)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (gw *Gateway) renderAchievements(msg InboundMessage) string {
	p := gw.Manager.Players.GetOrCreate(msg.UserID, msg.DisplayName)
	p.Mu.Lock()
	defer p.Mu.Unlock()
	var unlocked []string
	for title := range p.Unlocked {
		unlocked = append(unlocked, title)
	}
	sort.Strings(unlocked)
	if len(unlocked) == 0 {
		return "🏅 No titles unlocked yet. /progress shows how close you are."
	}
	equipped := p.Equipped
	if equipped == "" {
		equipped = "none"
	}
	return fmt.Sprintf("🏅 Unlocked: %s\nEquipped: %s", strings.Join(unlocked, ", "), equipped)
}

func (gw *Gateway) renderProgress(msg InboundMessage) string {
	p := gw.Manager.Players.GetOrCreate(msg.UserID, msg.DisplayName)
	p.Mu.Lock()
	defer p.Mu.Unlock()
	s := p.Stats
	row := func(title string, have, need int) string {
		if p.Unlocked[title] {
			return fmt.Sprintf("%s: unlocked ✅", title)
		}
		return fmt.Sprintf("%s: %d/%d", title, have, need)
	}
	lines := []string{
		"📈 Title progress",
		row(achievements.TitleLegend, s.TotalScore, 1000),
		row(achievements.TitleWarrior, s.BestStreak, 10),
		row(achievements.TitleSage, s.TotalWords, 50),
		row(achievements.TitlePhoenix, s.GamesCompleted, 10),
		row(achievements.TitleShadow, s.LongestWordLen, 12),
	}
	return strings.Join(lines, "\n")
}

func renderShop() string {
	var b strings.Builder
	b.WriteString("🛒 Boost shop\n")
	for _, kind := range []models.BoostKind{models.BoostHint, models.BoostSkip, models.BoostRebound} {
		spec := economy.Specs[kind]
		fmt.Fprintf(&b, "%s - %d points (/buy_%s)", kind, spec.Cost, kind)
		if spec.Cooldown > 0 {
			fmt.Fprintf(&b, ", %s cooldown", spec.Cooldown)
		}
		if spec.SessionCap > 0 {
			fmt.Fprintf(&b, ", max %d per game", spec.SessionCap)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderRejection(name string, reason game.RejectionReason) string {
	switch reason {
	case game.RejectEmpty:
		return fmt.Sprintf("❌ %s, letters only please. Try again!", name)
	case game.RejectWrongLength:
		return fmt.Sprintf("❌ %s, wrong length. Check the turn prompt and try again!", name)
	case game.RejectWrongLetter:
		return fmt.Sprintf("❌ %s, wrong starting letter. Try again!", name)
	case game.RejectAlreadyUsed:
		return fmt.Sprintf("❌ %s, that word was already played. Try another!", name)
	case game.RejectNotAWord:
		return fmt.Sprintf("❌ %s, that's not in the dictionary. Try again!", name)
	}
	return fmt.Sprintf("❌ %s, invalid word. Try again!", name)
}

func renderErr(err error) string {
	switch {
	case errors.Is(err, game.ErrAlreadyOpen):
		return "A lobby or game is already open here. /stop it first."
	case errors.Is(err, game.ErrNotInLobby):
		return "No open lobby. /lobby to create one."
	case errors.Is(err, game.ErrAlreadyJoined):
		return "You're already in the lobby."
	case errors.Is(err, game.ErrInsufficientPlayers):
		return "Need at least 2 players to begin. /join to enter."
	case errors.Is(err, game.ErrNoActiveSession):
		return "No game running in this chat."
	case errors.Is(err, game.ErrNotYourTurn):
		return "It's not your turn."
	case errors.Is(err, game.ErrNotInSession):
		return "You're not part of this game."
	case errors.Is(err, economy.ErrInsufficientPoints):
		return "Not enough points. Score words to earn more."
	case errors.Is(err, economy.ErrNotOwned):
		return "You don't own that boost. Check the /shop."
	case errors.Is(err, economy.ErrOnCooldown):
		return "That boost is still cooling down."
	case errors.Is(err, economy.ErrSessionCapExceeded):
		return "Skip limit reached for this game."
	case errors.Is(err, achievements.ErrNotUnlocked):
		return "You haven't unlocked that title yet. /progress shows how."
	case errors.Is(err, achievements.ErrUnknownTitle):
		return "Unknown title. /achievements lists yours."
	case errors.Is(err, leaderboard.ErrUnknownCategory):
		return "Unknown category. Pick score, words, streak, or longest."
	}
	return "Something went wrong: " + err.Error()
}
