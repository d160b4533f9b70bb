// pkg/core/component.go
package core

// ComponentKind is the category a mounted component belongs to.
type ComponentKind string

const (
	ComponentWeapon   ComponentKind = "weapon"
	ComponentEngine   ComponentKind = "engine"
	ComponentOrbital  ComponentKind = "orbital"
	ComponentDefense  ComponentKind = "defense" // RCS and point defense
	ComponentInternal ComponentKind = "internal"
	ComponentOther    ComponentKind = "other"
)

// OrdnanceKind selects how a weapon's attack is resolved.
type OrdnanceKind string

const (
	OrdnanceGun  OrdnanceKind = "gun"
	OrdnanceBomb OrdnanceKind = "bomb"
	// OrdnanceMissile is declared by the world model but has no resolver.
	OrdnanceMissile OrdnanceKind = "missile"
)

// DamageType is the kind of damage a hit deals.
type DamageType string

const (
	DamageArmorPiercing DamageType = "armor-piercing"
	DamageHeat          DamageType = "heat"
	DamageHighExplosive DamageType = "high-explosive"
	DamageLightSalvage  DamageType = "light-salvage"
	DamageHeavySalvage  DamageType = "heavy-salvage"
)

// Multiplier scales raw hit points for the unit damage model.
func (d DamageType) Multiplier() float64 {
	switch d {
	case DamageLightSalvage, DamageHeavySalvage:
		return 0.5
	default:
		return 1
	}
}

// Salvage reports whether hits of this type can mark the target for capture.
func (d DamageType) Salvage() bool {
	return d == DamageLightSalvage || d == DamageHeavySalvage
}

// TargetKind distinguishes ship targets from falling bodies.
type TargetKind uint8

const (
	TargetShip TargetKind = iota
	TargetHazard
)

// Effectiveness rates a weapon against target classes. All zeros means
// the weapon is unrated.
type Effectiveness struct {
	VsLarge   float64 `json:"vsLarge"`
	VsSmall   float64 `json:"vsSmall"`
	VsStation float64 `json:"vsStation"`
	VsHazard  float64 `json:"vsHazard"`
}

// Rated returns e, or all ones when e is unrated.
func (e Effectiveness) Rated() Effectiveness {
	if e == (Effectiveness{}) {
		return Effectiveness{VsLarge: 1, VsSmall: 1, VsStation: 1, VsHazard: 1}
	}
	return e
}

// Against returns the rating for a target kind. Ship targets use the best
// ship rating since the group is chosen before the ship is known.
func (e Effectiveness) Against(kind TargetKind) float64 {
	if kind == TargetHazard {
		return e.VsHazard
	}
	return max(e.VsLarge, e.VsSmall, e.VsStation)
}

// WeaponSpec is the static description of a weapon mount.
type WeaponSpec struct {
	Ordnance      OrdnanceKind  `json:"ordnance"`
	DamageType    DamageType    `json:"damageType"`
	Damage        float64       `json:"damage"`
	Fragments     int           `json:"fragments,omitempty"`
	RateOfFire    float64       `json:"rateOfFire"` // rounds per minute
	Precision     float64       `json:"precision"`  // dispersion, lower is better
	ProximityFuze bool          `json:"proximityFuze,omitempty"`
	Capacity      int           `json:"capacity"`
	Turret        bool          `json:"turret,omitempty"`
	Effectiveness Effectiveness `json:"effectiveness"`
}

// Component is one mounted part of a unit.
type Component struct {
	Name       string        `json:"name"`
	Kind       ComponentKind `json:"kind"`
	Weapon     *WeaponSpec   `json:"weapon,omitempty"`
	AmmoFired  int           `json:"ammoFired"`
	Damage     float64       `json:"damage"`     // 0 pristine, 1 wrecked
	Durability float64       `json:"durability"` // hit points, 100 when unset
}

const defaultDurability = 100

func (c *Component) durability() float64 {
	if c.Durability <= 0 {
		return defaultDurability
	}
	return c.Durability
}

// IsWeapon reports whether the component is a weapon mount.
func (c *Component) IsWeapon() bool {
	return c.Kind == ComponentWeapon && c.Weapon != nil
}

// UsableRatio is the operational fraction of the component.
func (c *Component) UsableRatio() float64 {
	if c.Damage >= DisableThreshold {
		return 0
	}
	return 1 - c.Damage
}

// Intact reports whether the component can still absorb damage.
func (c *Component) Intact() bool {
	return c.Damage < 1
}

// AmmoRemaining is the number of rounds left in a weapon.
func (c *Component) AmmoRemaining() int {
	if c.Weapon == nil {
		return 0
	}
	return max(0, c.Weapon.Capacity-c.AmmoFired)
}

// AmmoRatio is remaining/capacity for weapons, 1 otherwise.
func (c *Component) AmmoRatio() float64 {
	if c.Weapon == nil {
		return 1
	}
	if c.Weapon.Capacity <= 0 {
		return 0
	}
	return float64(c.AmmoRemaining()) / float64(c.Weapon.Capacity)
}

// CanFire reports whether a weapon is working and loaded.
func (c *Component) CanFire() bool {
	return c.IsWeapon() && c.UsableRatio() > 0 && c.AmmoRemaining() > 0
}

// WeaponGroup is a set of weapon component indices fired together.
type WeaponGroup struct {
	Name       string `json:"name"`
	Components []int  `json:"components"`
}
