package battle

import (
	"context"
	"fmt"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/starhold/battlesim/pkg/core"
)

// Hit model constants.
const (
	shipCoefficient   = 1.1
	hazardCoefficient = 0.5
	smallTargetFactor = 50
	minHitChance      = 0.01
)

// resolveAttack fires one weapon component at a target. It reports whether
// an attack was actually attempted.
func (c *Controller) resolveAttack(u *core.Unit, idx int, t target) bool {
	if t.hazard != nil && !c.session.hazards.Contains(t.hazard) {
		return false
	}

	comp := &u.Components[idx]
	switch comp.Weapon.Ordnance {
	case core.OrdnanceGun:
		return c.fireGun(u, idx, t)
	case core.OrdnanceBomb:
		return c.dropBomb(u, idx, t)
	default:
		c.log.Error("unsupported ordnance",
			"unit", u.ID,
			"component", comp.Name,
			"ordnance", comp.Weapon.Ordnance,
		)
		return false
	}
}

// fireGun resolves a direct-fire volley. Damaged guns lose time to jams, so
// they get fewer shots, and each shot rolls independently.
func (c *Controller) fireGun(u *core.Unit, idx int, t target) bool {
	comp := &u.Components[idx]
	w := comp.Weapon

	remaining := comp.AmmoRemaining()
	ratio := comp.UsableRatio()
	if remaining == 0 || ratio <= 0 {
		return false
	}

	interval := c.cfg.VolleyWindow
	if w.RateOfFire > 0 {
		interval = 60 / w.RateOfFire
	}
	delay := (1 - ratio) * (1 - ratio) * c.cfg.JamConstant * c.rng.Float64()
	shots := max(1, int(math.Floor(c.cfg.VolleyWindow/(delay+interval))))
	shots = min(shots, remaining)

	chance := gunHitChance(w, ratio, t)
	hits := 0
	for range shots {
		if c.rng.Float64() < chance {
			hits++
			c.applyHit(u, w, t)
		}
	}
	u.FireAmmo(idx, shots)

	c.countShots(w, shots, hits)
	c.log.Debug("gun fired",
		"unit", u.ID,
		"component", comp.Name,
		"target", t.describe(),
		"shots", shots,
		"hits", hits,
	)
	return true
}

// gunHitChance is usable × max(0.01, 1 − precision × coefficient), where the
// coefficient describes how hard the target is to hit.
func gunHitChance(w *core.WeaponSpec, ratio float64, t target) float64 {
	coeff := hazardCoefficient
	if t.unit != nil {
		tr := t.unit.Traits()
		coeff = shipCoefficient
		if tr.Size == core.SizeSmall {
			coeff *= smallTargetFactor
		}
		if tr.Stranded {
			coeff /= 2
		}
		if tr.Uncontrollable {
			coeff /= 10
		}
		if w.ProximityFuze {
			coeff /= 100
		}
	}
	return ratio * math.Max(minHitChance, 1-w.Precision*coeff)
}

// dropBomb releases one round of area ordnance.
func (c *Controller) dropBomb(u *core.Unit, idx int, t target) bool {
	comp := &u.Components[idx]
	w := comp.Weapon
	if comp.AmmoRemaining() == 0 {
		return false
	}

	// not clamped: healthy bombs against helpless targets always hit
	chance := bombHitChance(comp.UsableRatio(), t)
	hits := 0
	if c.rng.Float64() < chance {
		hits = 1
		c.applyHit(u, w, t)
		if t.unit != nil {
			c.markSalvage(u, w, t.unit)
		}
	}
	u.FireAmmo(idx, 1)

	c.countShots(w, 1, hits)
	c.log.Debug("bomb released",
		"unit", u.ID,
		"component", comp.Name,
		"target", t.describe(),
		"hit", hits == 1,
	)
	return true
}

func bombHitChance(ratio float64, t target) float64 {
	chance := 1 + ratio
	if t.unit != nil && t.unit.Uncontrollable {
		chance++
	}
	return chance
}

func (c *Controller) countShots(w *core.WeaponSpec, shots, hits int) {
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String("region", string(c.session.region)),
		attribute.String("ordnance", string(w.Ordnance)),
	)
	c.metrics.shots.Add(ctx, int64(shots), attrs)
	c.metrics.hits.Add(ctx, int64(hits), attrs)
}

func (t target) describe() string {
	if t.hazard != nil {
		return fmt.Sprintf("hazard:%d", t.hazard.ID)
	}
	return fmt.Sprintf("unit:%d", t.unit.ID)
}
