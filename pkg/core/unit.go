// pkg/core/unit.go
package core

import "math"

// UnitID identifies a unit in the world model.
type UnitID uint32

// FactionID identifies a faction. The empty value means "no faction".
type FactionID string

// RegionID identifies a contested region.
type RegionID string

// SizeClass is the hull class of a unit.
type SizeClass uint8

const (
	SizeSmall SizeClass = iota
	SizeLarge
)

func (s SizeClass) String() string {
	if s == SizeLarge {
		return "large"
	}
	return "small"
}

// DisableThreshold is the damage ratio at which a component stops working.
// Components past it can still absorb hits until their damage reaches 1.
const DisableThreshold = 0.8

// Unit is a vehicle or installation taking part in a regional battle.
// The engine reads its classification and only changes ammunition counters,
// damage (through ApplyDamage) and the capture marker.
type Unit struct {
	ID      UnitID    `json:"id"`
	Name    string    `json:"name"`
	Faction FactionID `json:"faction"`
	Size    SizeClass `json:"size"`

	Station        bool `json:"station"`
	Military       bool `json:"military"`
	Drone          bool `json:"drone"`
	Reserve        bool `json:"reserve"`
	Uncontrollable bool `json:"uncontrollable"`

	Components []Component  `json:"components"`
	Groups     []WeaponGroup `json:"groups,omitempty"`
	Doctrine   Doctrine     `json:"doctrine"`

	// HarpoonedBy is the capture marker: the faction trying to capture the unit.
	HarpoonedBy FactionID `json:"harpoonedBy,omitempty"`

	// derived by RefreshDamage
	Stranded   bool    `json:"stranded"`
	Destroyed  bool    `json:"destroyed"`
	HullRatio  float64 `json:"hullRatio"`
	Efficiency float64 `json:"efficiency"`
}

// Traits is the classification record the target scorer works on.
type Traits struct {
	Size           SizeClass
	Station        bool
	Military       bool
	Armed          bool
	Disarmed       bool
	Stranded       bool
	Uncontrollable bool
	Reserve        bool
	Drone          bool
	Destroyed      bool
	Harpooned      bool
	Efficiency     float64
}

// Dangerous reports whether the unit can still shoot back.
func (t Traits) Dangerous() bool {
	return t.Armed && !t.Disarmed
}

// Traits returns the unit's current classification.
func (u *Unit) Traits() Traits {
	return Traits{
		Size:           u.Size,
		Station:        u.Station,
		Military:       u.Military,
		Armed:          u.Armed(),
		Disarmed:       u.Disarmed(),
		Stranded:       u.Stranded,
		Uncontrollable: u.Uncontrollable,
		Reserve:        u.Reserve,
		Drone:          u.Drone,
		Destroyed:      u.Destroyed,
		Harpooned:      u.HarpoonedBy != "",
		Efficiency:     u.Efficiency,
	}
}

// Armed reports whether the unit mounts any weapon at all.
func (u *Unit) Armed() bool {
	for i := range u.Components {
		if u.Components[i].IsWeapon() {
			return true
		}
	}
	return false
}

// Disarmed reports whether an armed unit has no weapon left that can fire.
func (u *Unit) Disarmed() bool {
	armed := false
	for i := range u.Components {
		c := &u.Components[i]
		if !c.IsWeapon() {
			continue
		}
		armed = true
		if c.CanFire() {
			return false
		}
	}
	return armed
}

// Viable reports whether the unit may take part in a turn.
func (u *Unit) Viable() bool {
	return !u.Destroyed && !u.Reserve && u.Armed() && !u.Disarmed()
}

// MinAmmoRatio is the lowest remaining/capacity ratio over all weapons.
// Units without weapons report 1.
func (u *Unit) MinAmmoRatio() float64 {
	ratio := 1.0
	for i := range u.Components {
		c := &u.Components[i]
		if !c.IsWeapon() {
			continue
		}
		ratio = math.Min(ratio, c.AmmoRatio())
	}
	return ratio
}

// BestWeaponGroup picks the group best suited against the given target kind.
// Only weapons that can fire count towards a group's rating.
func (u *Unit) BestWeaponGroup(kind TargetKind) (WeaponGroup, bool) {
	groups := u.Groups
	if len(groups) == 0 {
		groups = []WeaponGroup{u.implicitGroup()}
	}

	best := -1
	bestRating := 0.0
	for gi, g := range groups {
		rating := 0.0
		for _, idx := range g.Components {
			if idx < 0 || idx >= len(u.Components) {
				continue
			}
			c := &u.Components[idx]
			if !c.CanFire() {
				continue
			}
			rating += c.UsableRatio() * c.Weapon.Effectiveness.Rated().Against(kind)
		}
		if rating > bestRating {
			best, bestRating = gi, rating
		}
	}
	if best < 0 {
		return WeaponGroup{}, false
	}
	return groups[best], true
}

func (u *Unit) implicitGroup() WeaponGroup {
	g := WeaponGroup{Name: "all"}
	for i := range u.Components {
		c := &u.Components[i]
		if c.IsWeapon() && !c.Weapon.Turret {
			g.Components = append(g.Components, i)
		}
	}
	return g
}

// SetHarpoon sets the capture marker. An empty faction clears it.
func (u *Unit) SetHarpoon(f FactionID) {
	u.HarpoonedBy = f
}

// FireAmmo adds n rounds to a weapon's fired counter, never past capacity.
// It returns the number of rounds actually consumed.
func (u *Unit) FireAmmo(idx, n int) int {
	if idx < 0 || idx >= len(u.Components) {
		return 0
	}
	c := &u.Components[idx]
	if c.Weapon == nil || n <= 0 {
		return 0
	}
	n = min(n, c.AmmoRemaining())
	c.AmmoFired += n
	return n
}

// ApplyDamage is the unit's damage entry point. The amount is in hit points
// and is spread over the component's durability.
func (u *Unit) ApplyDamage(idx int, amount float64, dt DamageType) {
	if idx < 0 || idx >= len(u.Components) || amount <= 0 {
		return
	}
	c := &u.Components[idx]
	c.Damage = math.Min(1, c.Damage+amount*dt.Multiplier()/c.durability())
}

// RefreshDamage recomputes the derived damage state. The engine calls it once
// per turn instead of after every hit.
func (u *Unit) RefreshDamage() {
	if len(u.Components) == 0 {
		return
	}

	hull := 0.0
	intact := false
	hasDrive, driveWorks := false, false
	internal, internalCount := 0.0, 0
	for i := range u.Components {
		c := &u.Components[i]
		hull += 1 - c.Damage
		if c.Intact() {
			intact = true
		}
		switch c.Kind {
		case ComponentEngine, ComponentOrbital:
			hasDrive = true
			if c.UsableRatio() > 0 {
				driveWorks = true
			}
		case ComponentInternal:
			internal += c.UsableRatio()
			internalCount++
		}
	}

	u.HullRatio = hull / float64(len(u.Components))
	u.Destroyed = !intact
	u.Stranded = hasDrive && !driveWorks
	if u.Station {
		if internalCount > 0 {
			u.Efficiency = internal / float64(internalCount)
		} else {
			u.Efficiency = u.HullRatio
		}
	}
}
