package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weapon(capacity int, eff Effectiveness) Component {
	return Component{
		Name: "gun",
		Kind: ComponentWeapon,
		Weapon: &WeaponSpec{
			Ordnance:      OrdnanceGun,
			DamageType:    DamageArmorPiercing,
			Capacity:      capacity,
			Effectiveness: eff,
		},
	}
}

func TestComponent_UsableRatio(t *testing.T) {
	tests := []struct {
		damage float64
		usable float64
		intact bool
	}{
		{0, 1, true},
		{0.5, 0.5, true},
		{0.79, 0.21, true},
		{0.8, 0, true},
		{1, 0, false},
	}
	for _, tt := range tests {
		c := Component{Damage: tt.damage}
		assert.InDelta(t, tt.usable, c.UsableRatio(), 1e-9, "damage %v", tt.damage)
		assert.Equal(t, tt.intact, c.Intact(), "damage %v", tt.damage)
	}
}

func TestUnit_Viable(t *testing.T) {
	u := &Unit{Components: []Component{weapon(2, Effectiveness{})}}
	assert.True(t, u.Armed())
	assert.False(t, u.Disarmed())
	assert.True(t, u.Viable())

	u.Components[0].AmmoFired = 2
	assert.True(t, u.Disarmed())
	assert.False(t, u.Viable())

	unarmed := &Unit{Components: []Component{{Kind: ComponentEngine}}}
	assert.False(t, unarmed.Armed())
	assert.False(t, unarmed.Disarmed())
	assert.False(t, unarmed.Viable())

	reserve := &Unit{Reserve: true, Components: []Component{weapon(2, Effectiveness{})}}
	assert.False(t, reserve.Viable())
}

func TestUnit_FireAmmo(t *testing.T) {
	u := &Unit{Components: []Component{weapon(5, Effectiveness{}), {Kind: ComponentEngine}}}

	assert.Equal(t, 3, u.FireAmmo(0, 3))
	assert.Equal(t, 2, u.FireAmmo(0, 10))
	assert.Equal(t, 0, u.FireAmmo(0, 1))
	assert.Equal(t, 5, u.Components[0].AmmoFired)
	assert.Zero(t, u.Components[0].AmmoRatio())
	assert.Zero(t, u.FireAmmo(1, 1))
	assert.Zero(t, u.FireAmmo(7, 1))
}

func TestUnit_MinAmmoRatio(t *testing.T) {
	u := &Unit{Components: []Component{weapon(4, Effectiveness{}), weapon(10, Effectiveness{})}}
	assert.InDelta(t, 1, u.MinAmmoRatio(), 1e-9)

	u.FireAmmo(0, 1)
	u.FireAmmo(1, 5)
	assert.InDelta(t, 0.5, u.MinAmmoRatio(), 1e-9)

	assert.InDelta(t, 1, (&Unit{}).MinAmmoRatio(), 1e-9)
}

func TestUnit_ApplyDamage(t *testing.T) {
	u := &Unit{Components: []Component{{Kind: ComponentEngine, Durability: 50}, {Kind: ComponentInternal}}}

	u.ApplyDamage(0, 10, DamageArmorPiercing)
	assert.InDelta(t, 0.2, u.Components[0].Damage, 1e-9)

	u.ApplyDamage(1, 10, DamageHeavySalvage)
	assert.InDelta(t, 0.05, u.Components[1].Damage, 1e-9)

	u.ApplyDamage(0, 1000, DamageHeat)
	assert.InDelta(t, 1, u.Components[0].Damage, 1e-9)

	u.ApplyDamage(1, -5, DamageHeat)
	u.ApplyDamage(9, 5, DamageHeat)
	assert.InDelta(t, 0.05, u.Components[1].Damage, 1e-9)
}

func TestUnit_RefreshDamage(t *testing.T) {
	u := &Unit{Components: []Component{
		{Kind: ComponentEngine, Damage: 0.9},
		{Kind: ComponentOrbital, Damage: 0.8},
		{Kind: ComponentInternal, Damage: 0.5},
	}}
	u.RefreshDamage()
	assert.True(t, u.Stranded)
	assert.False(t, u.Destroyed)
	assert.InDelta(t, (0.1+0.2+0.5)/3, u.HullRatio, 1e-9)

	for i := range u.Components {
		u.Components[i].Damage = 1
	}
	u.RefreshDamage()
	assert.True(t, u.Destroyed)
	assert.Zero(t, u.HullRatio)
}

func TestUnit_RefreshDamageStation(t *testing.T) {
	station := &Unit{Station: true, Components: []Component{
		{Kind: ComponentInternal, Damage: 0.5},
		{Kind: ComponentInternal, Damage: 0.9},
		{Kind: ComponentDefense},
	}}
	station.RefreshDamage()
	assert.InDelta(t, 0.25, station.Efficiency, 1e-9)
	assert.False(t, station.Stranded, "no drive to lose")

	bare := &Unit{Station: true, Components: []Component{{Kind: ComponentDefense, Damage: 0.25}}}
	bare.RefreshDamage()
	assert.InDelta(t, 0.75, bare.Efficiency, 1e-9)
}

func TestUnit_BestWeaponGroup(t *testing.T) {
	u := &Unit{
		Components: []Component{
			weapon(10, Effectiveness{VsSmall: 2}),
			weapon(10, Effectiveness{VsHazard: 3}),
			weapon(10, Effectiveness{VsLarge: 1, VsHazard: 1}),
		},
		Groups: []WeaponGroup{
			{Name: "anti-ship", Components: []int{0}},
			{Name: "mining", Components: []int{1}},
			{Name: "mixed", Components: []int{2, 5}},
		},
	}

	g, ok := u.BestWeaponGroup(TargetShip)
	require.True(t, ok)
	assert.Equal(t, "anti-ship", g.Name)

	g, ok = u.BestWeaponGroup(TargetHazard)
	require.True(t, ok)
	assert.Equal(t, "mining", g.Name)

	// damaged weapons count by their usable share
	u.Components[1].Damage = 0.75
	g, _ = u.BestWeaponGroup(TargetHazard)
	assert.Equal(t, "mixed", g.Name)

	u.Components[2].AmmoFired = 10
	u.Components[1].AmmoFired = 10
	_, ok = u.BestWeaponGroup(TargetHazard)
	assert.False(t, ok)
}

func TestUnit_BestWeaponGroupImplicit(t *testing.T) {
	turret := weapon(10, Effectiveness{})
	turret.Weapon.Turret = true
	u := &Unit{Components: []Component{
		{Kind: ComponentEngine},
		weapon(10, Effectiveness{}),
		turret,
		weapon(10, Effectiveness{}),
	}}

	g, ok := u.BestWeaponGroup(TargetShip)
	require.True(t, ok)
	assert.Equal(t, []int{1, 3}, g.Components)
}

func TestEffectiveness(t *testing.T) {
	unrated := Effectiveness{}.Rated()
	assert.Equal(t, 1.0, unrated.Against(TargetShip))
	assert.Equal(t, 1.0, unrated.Against(TargetHazard))

	e := Effectiveness{VsLarge: 0.2, VsStation: 0.7}
	assert.Equal(t, e, e.Rated())
	assert.Equal(t, 0.7, e.Against(TargetShip))
	assert.Zero(t, e.Against(TargetHazard))
}

func TestDoctrine_Apply(t *testing.T) {
	small, harpooned := 3.0, 0.0
	p := Doctrine{Small: &small, Harpooned: &harpooned}.Apply(DefaultPreferences())

	assert.Equal(t, 3.0, p.Small)
	assert.Zero(t, p.Harpooned)
	assert.Equal(t, DefaultPreferences().Large, p.Large)
}

func TestHazard(t *testing.T) {
	h := Hazard{BreakThreshold: 10, Countdown: 1}
	assert.False(t, h.InRegion())
	assert.False(t, h.Broken())

	h.Countdown = 0
	h.Damage = 10
	assert.True(t, h.InRegion())
	assert.True(t, h.Broken())
}
