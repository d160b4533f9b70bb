package battle

import (
	"context"
	"time"

	"github.com/starhold/battlesim/pkg/core"
)

// Fraction range of a high-explosive round's fragments that reach the target.
const (
	fragmentMin = 0.01
	fragmentMax = 0.1
)

// applyHit turns one hit into damage events according to the damage type.
func (c *Controller) applyHit(attacker *core.Unit, w *core.WeaponSpec, t target) {
	switch w.DamageType {
	case core.DamageArmorPiercing, core.DamageHeat, core.DamageLightSalvage, core.DamageHeavySalvage:
		if t.hazard != nil {
			c.damageHazard(t.hazard, w.Damage)
			return
		}
		idx := c.pickComponent(t.unit)
		t.unit.ApplyDamage(idx, w.Damage, w.DamageType)

	case core.DamageHighExplosive:
		fraction := fragmentMin + c.rng.Float64()*(fragmentMax-fragmentMin)
		fragments := int(float64(w.Fragments) * fraction)
		for range fragments {
			amount := w.Damage * 2 * c.rng.Float64()
			if t.hazard != nil {
				c.damageHazard(t.hazard, amount)
				continue
			}
			if len(t.unit.Components) == 0 {
				return
			}
			t.unit.ApplyDamage(c.rng.IntN(len(t.unit.Components)), amount, w.DamageType)
		}

	default:
		c.log.Error("unsupported damage type",
			"unit", attacker.ID,
			"damageType", w.DamageType,
		)
	}
}

// markSalvage sets the capture marker when salvage ordnance matching the
// target's size class connects.
func (c *Controller) markSalvage(attacker *core.Unit, w *core.WeaponSpec, victim *core.Unit) {
	if !salvageCapture(victim.Traits(), w.DamageType) {
		return
	}
	victim.SetHarpoon(attacker.Faction)
	c.log.Debug("unit marked for capture",
		"unit", victim.ID,
		"faction", attacker.Faction,
	)
}

func salvageCapture(t core.Traits, dt core.DamageType) bool {
	if t.Station || t.Drone {
		return false
	}
	switch t.Size {
	case core.SizeSmall:
		return dt == core.DamageLightSalvage
	case core.SizeLarge:
		return dt == core.DamageHeavySalvage
	}
	return false
}

// damageHazard adds damage to a hazard and reports it once it breaks.
func (c *Controller) damageHazard(h *core.Hazard, amount float64) {
	s := c.session
	if !s.hazards.Damage(h, amount) {
		return
	}

	c.metrics.hazardsDestroyed.Add(context.Background(), 1, c.regionAttr())
	c.log.Info("hazard destroyed",
		"region", s.region,
		"battle", s.id,
		"hazard", h.ID,
		"turn", s.turn,
		"observerEngaged", s.homeEngaged,
	)
	err := c.recorder.RecordHazardDestroyed(&core.HazardDestroyedEvent{
		BattleID:        s.id,
		Region:          s.region,
		Time:            time.Now(),
		Turn:            s.turn,
		HazardID:        h.ID,
		Damage:          h.Damage,
		BreakThreshold:  h.BreakThreshold,
		ObserverEngaged: s.homeEngaged,
	})
	if err != nil {
		c.log.Error("failed to record hazard destruction", "battle", s.id, "error", err)
	}
}
