// internal/achievements/achievements.go
package achievements

import (
	"errors"

	"github.com/wordarena/wordarena/internal/models"
)

// Title identifiers. TitleKami has no unlock rule and is only assignable
// through the administrative grant path.
const (
	TitleLegend  = "LEGEND"
	TitleWarrior = "WARRIOR"
	TitleSage    = "SAGE"
	TitlePhoenix = "PHOENIX"
	TitleShadow  = "SHADOW"
	TitleKami    = "KAMI"
)

// ErrNotUnlocked is returned when equipping a title the player does not own.
var ErrNotUnlocked = errors.New("title not unlocked")

// ErrUnknownTitle is returned for identifiers outside the known set.
var ErrUnknownTitle = errors.New("unknown title")

type rule struct {
	title string
	met   func(models.CumulativeStats) bool
}

// rules are evaluated independently after every cumulative-stats update.
// Unlocks are monotone: once granted, never revoked.
var rules = []rule{
	{TitleLegend, func(s models.CumulativeStats) bool { return s.TotalScore >= 1000 }},
	{TitleWarrior, func(s models.CumulativeStats) bool { return s.BestStreak >= 10 }},
	{TitleSage, func(s models.CumulativeStats) bool { return s.TotalWords >= 50 }},
	{TitlePhoenix, func(s models.CumulativeStats) bool { return s.GamesCompleted >= 10 }},
	{TitleShadow, func(s models.CumulativeStats) bool { return s.LongestWordLen >= 12 }},
}

var known = map[string]bool{
	TitleLegend: true, TitleWarrior: true, TitleSage: true,
	TitlePhoenix: true, TitleShadow: true, TitleKami: true,
}

// Evaluate checks every rule against the player's cumulative stats and
// records new unlocks. It returns the titles unlocked by this call, if any.
// Caller must hold the player's mutex.
func Evaluate(p *models.Player) []string {
	var newly []string
	for _, r := range rules {
		if p.Unlocked[r.title] {
			continue
		}
		if r.met(p.Stats) {
			p.Unlocked[r.title] = true
			newly = append(newly, r.title)
		}
	}
	return newly
}

// Equip sets the player's visible title. Fails if the title is not in the
// player's unlocked set. Caller must hold the player's mutex.
func Equip(p *models.Player, title string) error {
	if !known[title] {
		return ErrUnknownTitle
	}
	if !p.Unlocked[title] {
		return ErrNotUnlocked
	}
	p.Equipped = title
	return nil
}

// Grant unlocks a title outside the rule set. This is the administrative
// path used for KAMI. Caller must hold the player's mutex.
func Grant(p *models.Player, title string) error {
	if !known[title] {
		return ErrUnknownTitle
	}
	p.Unlocked[title] = true
	return nil
}

// Progress reports, per rule-driven title, whether it is unlocked. Used by
// the /progress command renderer.
func Progress(p *models.Player) map[string]bool {
	out := make(map[string]bool, len(rules))
	for _, r := range rules {
		out[r.title] = p.Unlocked[r.title]
	}
	return out
}
