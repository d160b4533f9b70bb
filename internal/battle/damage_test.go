package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starhold/battlesim/pkg/core"
)

func TestSalvageCapture(t *testing.T) {
	tests := []struct {
		name   string
		traits core.Traits
		dt     core.DamageType
		want   bool
	}{
		{"small light salvage", core.Traits{Size: core.SizeSmall}, core.DamageLightSalvage, true},
		{"small heavy salvage", core.Traits{Size: core.SizeSmall}, core.DamageHeavySalvage, false},
		{"large heavy salvage", core.Traits{Size: core.SizeLarge}, core.DamageHeavySalvage, true},
		{"large light salvage", core.Traits{Size: core.SizeLarge}, core.DamageLightSalvage, false},
		{"station", core.Traits{Size: core.SizeLarge, Station: true}, core.DamageHeavySalvage, false},
		{"drone", core.Traits{Size: core.SizeSmall, Drone: true}, core.DamageLightSalvage, false},
		{"armor piercing", core.Traits{Size: core.SizeSmall}, core.DamageArmorPiercing, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, salvageCapture(tt.traits, tt.dt))
		})
	}
}

func TestDropBomb_MarksCapture(t *testing.T) {
	tug := &core.Unit{
		ID:      1,
		Faction: "blue",
		Components: []core.Component{{
			Name: "claw",
			Kind: core.ComponentWeapon,
			Weapon: &core.WeaponSpec{
				Ordnance:   core.OrdnanceBomb,
				DamageType: core.DamageLightSalvage,
				Damage:     5,
				Capacity:   1,
			},
		}},
	}
	prey := freighter(2, "red")
	c, _ := newController(t, newWorld(tug, prey), DefaultConfig())
	c.Load(region)

	require.True(t, c.resolveAttack(tug, 0, target{unit: prey}))
	assert.Equal(t, core.FactionID("blue"), prey.HarpoonedBy)
	// salvage hits deal half damage
	assert.InDelta(t, 0.025, prey.Components[0].Damage, 1e-9)
}

func TestApplyHit_HighExplosiveOnHazard(t *testing.T) {
	u := fighter(1, "blue", &core.WeaponSpec{
		Ordnance:   core.OrdnanceGun,
		DamageType: core.DamageHighExplosive,
		Damage:     10,
		Fragments:  1000,
		Capacity:   10,
	})
	h := &core.Hazard{ID: 1, BreakThreshold: 1e9}
	w := newWorld(u)
	w.AddHazard(region, h)
	c, _ := newController(t, w, DefaultConfig())
	c.Load(region)

	c.applyHit(u, u.Components[0].Weapon, target{hazard: h})

	// at least ten fragments, each worth up to twice the round's damage
	assert.Positive(t, h.Damage)
	assert.LessOrEqual(t, h.Damage, 100*2*10.0)
}

func TestApplyHit_UnsupportedDamageType(t *testing.T) {
	u := fighter(1, "blue", gun(0, 10, 10))
	u.Components[0].Weapon.DamageType = "plasma"
	prey := freighter(2, "red")
	c, _ := newController(t, newWorld(u, prey), DefaultConfig())
	c.Load(region)

	c.applyHit(u, u.Components[0].Weapon, target{unit: prey})
	assert.Zero(t, prey.Components[0].Damage)
}

func TestPickComponent(t *testing.T) {
	c, _ := newController(t, newWorld(), DefaultConfig())

	t.Run("no components", func(t *testing.T) {
		assert.Equal(t, 0, c.pickComponent(&core.Unit{}))
	})

	t.Run("everything wrecked", func(t *testing.T) {
		u := freighter(1, "red")
		u.Components = append(u.Components, core.Component{Kind: core.ComponentInternal})
		for i := range u.Components {
			u.Components[i].Damage = 1
		}
		assert.Equal(t, 0, c.pickComponent(u))
	})

	t.Run("only disabled component left", func(t *testing.T) {
		u := &core.Unit{Components: []core.Component{
			{Kind: core.ComponentEngine, Damage: 1},
			{Kind: core.ComponentInternal, Damage: 0.9},
		}}
		for range 20 {
			assert.Equal(t, 1, c.pickComponent(u))
		}
	})

	t.Run("armed units lose weapons first", func(t *testing.T) {
		u := fighter(1, "red", gun(0, 10, 10))
		require.True(t, u.Traits().Dangerous())

		counts := map[int]int{}
		for range 4000 {
			counts[c.pickComponent(u)]++
		}
		// weapon 4, engine 3, internal 1
		assert.Greater(t, counts[0], counts[1])
		assert.Greater(t, counts[1], counts[2])
		assert.Positive(t, counts[2])
	})

	t.Run("stranded units lose internals", func(t *testing.T) {
		u := &core.Unit{Stranded: true, Components: []core.Component{
			{Kind: core.ComponentEngine, Damage: 0.9},
			{Kind: core.ComponentOther},
			{Kind: core.ComponentInternal},
		}}
		// the disabled engine stays in the pool once, the unweighted part never
		counts := map[int]int{}
		for range 200 {
			counts[c.pickComponent(u)]++
		}
		assert.Zero(t, counts[1])
		assert.Positive(t, counts[0])
		assert.Positive(t, counts[2])
	})
}

func TestWeightsFor(t *testing.T) {
	assert.Equal(t, armedWeights, weightsFor(core.Traits{Armed: true}))
	assert.Equal(t, mobileWeights, weightsFor(core.Traits{Armed: true, Disarmed: true}))
	assert.Equal(t, strandedWeights, weightsFor(core.Traits{Stranded: true}))
}

func TestHazardRegistry(t *testing.T) {
	a := &core.Hazard{ID: 1, BreakThreshold: 20}
	b := &core.Hazard{ID: 2, BreakThreshold: 20}
	r := newHazardRegistry([]*core.Hazard{a, b, {ID: 3, BreakThreshold: 5, Countdown: 1}})

	require.Equal(t, 2, r.Len())
	first, ok := r.First()
	require.True(t, ok)
	assert.Same(t, a, first)

	assert.False(t, r.Damage(a, -5))
	assert.Zero(t, a.Damage)

	assert.False(t, r.Damage(a, 10))
	assert.True(t, r.Damage(a, 10))
	assert.False(t, r.Contains(a))
	assert.Equal(t, 1, r.Len())

	// a removed hazard takes no further damage
	assert.False(t, r.Damage(a, 10))
	assert.InDelta(t, 20, a.Damage, 1e-9)

	first, ok = r.First()
	require.True(t, ok)
	assert.Same(t, b, first)

	assert.True(t, r.Damage(b, 50))
	_, ok = r.First()
	assert.False(t, ok)
}
