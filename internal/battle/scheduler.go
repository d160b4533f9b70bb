package battle

import (
	"context"

	"github.com/starhold/battlesim/pkg/core"
)

// runTurn lets every viable unit act once in random order and returns the
// number of attack attempts made.
func (c *Controller) runTurn() int {
	s := c.session

	acting := c.actingOrder()
	destroyed := countDestroyed(s.targets)

	home := c.world.HomeFaction()
	s.homeEngaged = false
	for _, u := range acting {
		if u.Faction == home {
			s.homeEngaged = true
			break
		}
	}

	attempts := 0
	for _, u := range acting {
		if u.Size == core.SizeLarge {
			attempts += c.turretTurn(u)
		} else {
			attempts += c.groupTurn(u)
		}
	}

	// every unit in the region may have been hit, not only the ones acting
	for _, u := range s.targets {
		u.RefreshDamage()
	}

	// losses this turn can flip a faction's willingness
	if countDestroyed(s.targets) != destroyed {
		s.recheck = true
	}
	for _, u := range acting {
		if !u.Viable() {
			s.recheck = true
			break
		}
	}

	c.metrics.attacks.Add(context.Background(), int64(attempts), c.regionAttr())
	c.log.Debug("turn complete",
		"region", s.region,
		"turn", s.turn,
		"acting", len(acting),
		"attempts", attempts,
	)
	return attempts
}

func countDestroyed(units []*core.Unit) int {
	n := 0
	for _, u := range units {
		if u.Destroyed {
			n++
		}
	}
	return n
}

// actingOrder drops units that are no longer viable from the roster and
// returns the rest in a fresh random order.
func (c *Controller) actingOrder() []*core.Unit {
	s := c.session

	kept := make([]*core.Unit, 0, len(s.viable))
	for _, u := range s.viable {
		if !u.Viable() {
			s.recheck = true
			continue
		}
		kept = append(kept, u)
	}
	s.viable = kept

	acting := append([]*core.Unit(nil), kept...)
	c.rng.Shuffle(len(acting), func(i, j int) {
		acting[i], acting[j] = acting[j], acting[i]
	})
	return acting
}

// groupTurn is the small-unit turn: one target, one weapon group.
func (c *Controller) groupTurn(u *core.Unit) int {
	prefs := dampen(u.Doctrine.Apply(c.cfg.Preferences), u.MinAmmoRatio())

	t, ok := c.selectTarget(u, prefs)
	if !ok {
		return 0
	}
	group, ok := u.BestWeaponGroup(t.kind())
	if !ok {
		return 0
	}

	attempts := 0
	for _, idx := range group.Components {
		if idx < 0 || idx >= len(u.Components) || !u.Components[idx].CanFire() {
			continue
		}
		if c.resolveAttack(u, idx, t) {
			attempts++
		}
	}
	return attempts
}

// turretTurn is the large-unit turn: every working turret picks its own
// target and fires once.
func (c *Controller) turretTurn(u *core.Unit) int {
	attempts := 0
	for idx := range u.Components {
		comp := &u.Components[idx]
		if !comp.IsWeapon() || !comp.Weapon.Turret || comp.UsableRatio() <= 0 {
			continue
		}

		prefs := u.Doctrine.Apply(c.cfg.Preferences)
		eff := comp.Weapon.Effectiveness.Rated()
		prefs.Large = eff.VsLarge
		prefs.Small = eff.VsSmall
		prefs.Station = eff.VsStation
		prefs = dampen(prefs, u.MinAmmoRatio())

		t, ok := c.selectTarget(u, prefs)
		if !ok {
			continue
		}
		if c.resolveAttack(u, idx, t) {
			attempts++
		}
	}
	return attempts
}

// target is either a ship or a hazard.
type target struct {
	unit   *core.Unit
	hazard *core.Hazard
}

func (t target) kind() core.TargetKind {
	if t.hazard != nil {
		return core.TargetHazard
	}
	return core.TargetShip
}

// selectTarget scores ships while some faction wants to fight and falls back
// to the first unbroken hazard. Hazards are not scored.
func (c *Controller) selectTarget(u *core.Unit, prefs core.Preferences) (target, bool) {
	if c.session.hostile {
		if ship, ok := c.bestShip(u, prefs); ok {
			return target{unit: ship}, true
		}
	}
	if h, ok := c.session.hazards.First(); ok {
		return target{hazard: h}, true
	}
	return target{}, false
}
