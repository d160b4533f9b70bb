package battle

import "github.com/starhold/battlesim/pkg/core"

// Ammunition ratios below which whole target classes stop being worth rounds.
const (
	conserveUncontrolled = 0.9
	conserveCivil        = 0.5
)

// dampen zeroes preferences for low-value targets when ammunition runs low.
func dampen(p core.Preferences, ammoRatio float64) core.Preferences {
	if ammoRatio < conserveUncontrolled {
		p.UncontrollableSmallMilitary = 0
	}
	if ammoRatio < conserveCivil {
		p.Civil = 0
	}
	return p
}

// Score rates a candidate ship under a preference vector. Zero means the
// candidate must not be engaged.
func Score(p core.Preferences, t core.Traits) float64 {
	if t.Destroyed {
		return 0
	}
	if t.Station && t.Efficiency <= 0 {
		return 0
	}
	// never re-engage a capture target that is already neutralized
	if t.Harpooned && t.Uncontrollable {
		return 0
	}

	score := p.Base
	score *= pick(t.Size == core.SizeLarge, p.Large, p.Small)
	score *= pick(t.Station, p.Station, p.NonStation)
	score *= pick(t.Military, p.Military, p.Civil)
	score *= pick(t.Dangerous(), p.Dangerous, p.Harmless)
	score *= pick(t.Stranded, p.Stranded, p.Mobile)
	if t.Uncontrollable {
		score *= uncontrollableTier(p, t)
	}
	if t.Harpooned {
		score *= p.Harpooned
	}
	return score
}

// uncontrollableTier returns the preference of the tier the candidate falls in.
func uncontrollableTier(p core.Preferences, t core.Traits) float64 {
	switch {
	case !t.Military:
		return p.UncontrollableCivil
	case t.Size == core.SizeSmall:
		return p.UncontrollableSmallMilitary
	default:
		return p.UncontrollableLargeMilitary
	}
}

func pick(cond bool, yes, no float64) float64 {
	if cond {
		return yes
	}
	return no
}

// bestShip returns the highest scoring hostile candidate. Each candidate's
// score is multiplied by a fresh uniform draw so equal candidates do not
// always lose to the same one.
func (c *Controller) bestShip(attacker *core.Unit, prefs core.Preferences) (*core.Unit, bool) {
	s := c.session
	home := c.world.HomeFaction()

	var best *core.Unit
	bestScore := 0.0
	for _, cand := range s.targets {
		if cand == attacker || cand.Reserve || cand.Destroyed {
			continue
		}
		if !c.world.Hostile(attacker.Faction, cand.Faction) {
			continue
		}
		// undefended property of other factions is not farmed
		if cand.Station && cand.Faction != home && !c.world.Retaliating(s.region, cand.Faction) {
			continue
		}

		score := Score(prefs, cand.Traits())
		if score <= 0 {
			continue
		}
		score *= c.rng.Float64()
		if score > bestScore {
			best, bestScore = cand, score
		}
	}
	return best, best != nil
}
