package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starhold/battlesim/pkg/core"
)

func TestScore_Zero(t *testing.T) {
	p := core.DefaultPreferences()

	tests := []struct {
		name   string
		traits core.Traits
	}{
		{"destroyed", core.Traits{Destroyed: true, Military: true}},
		{"station without efficiency", core.Traits{Station: true, Efficiency: 0}},
		{"neutralized capture target", core.Traits{Harpooned: true, Uncontrollable: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Zero(t, Score(p, tt.traits))
		})
	}
}

func TestScore(t *testing.T) {
	p := core.DefaultPreferences()

	tests := []struct {
		name   string
		traits core.Traits
		want   float64
	}{
		{
			name:   "armed small warship",
			traits: core.Traits{Size: core.SizeSmall, Military: true, Armed: true},
			want:   10 * 1 * 1 * 2 * 2 * 1,
		},
		{
			name:   "stranded civilian",
			traits: core.Traits{Size: core.SizeLarge, Stranded: true},
			want:   10 * 1 * 1 * 0.5 * 0.5 * 0.75,
		},
		{
			name:   "working station",
			traits: core.Traits{Station: true, Military: true, Efficiency: 0.5},
			want:   10 * 1 * 0.5 * 2 * 0.5 * 1,
		},
		{
			name:   "uncontrollable civilian",
			traits: core.Traits{Uncontrollable: true},
			want:   10 * 0.5 * 0.5 * 0.1,
		},
		{
			name:   "uncontrollable small military",
			traits: core.Traits{Uncontrollable: true, Military: true},
			want:   10 * 2 * 0.5 * 0.3,
		},
		{
			name:   "uncontrollable large military",
			traits: core.Traits{Uncontrollable: true, Military: true, Size: core.SizeLarge},
			want:   10 * 2 * 0.5 * 0.5,
		},
		{
			name:   "harpooned",
			traits: core.Traits{Harpooned: true, Military: true},
			want:   10 * 2 * 0.5 * 0.2,
		},
		{
			name:   "disarmed warship is harmless",
			traits: core.Traits{Military: true, Armed: true, Disarmed: true},
			want:   10 * 2 * 0.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(p, tt.traits), 1e-9)
		})
	}
}

func TestScore_Doctrine(t *testing.T) {
	zero := 0.0
	p := core.Doctrine{Large: &zero}.Apply(core.DefaultPreferences())

	assert.Zero(t, Score(p, core.Traits{Size: core.SizeLarge, Military: true}))
	assert.Positive(t, Score(p, core.Traits{Size: core.SizeSmall, Military: true}))
}

func TestDampen(t *testing.T) {
	p := core.DefaultPreferences()

	full := dampen(p, 1)
	assert.Equal(t, p, full)

	low := dampen(p, 0.8)
	assert.Zero(t, low.UncontrollableSmallMilitary)
	assert.Equal(t, p.Civil, low.Civil)

	empty := dampen(p, 0.2)
	assert.Zero(t, empty.UncontrollableSmallMilitary)
	assert.Zero(t, empty.Civil)
	assert.Equal(t, p.Military, empty.Military)
}

func TestBestShip(t *testing.T) {
	attacker := fighter(1, "blue", gun(0, 10, 10))
	friend := freighter(2, "blue")
	reserve := fighter(3, "red", gun(0, 10, 10))
	reserve.Reserve = true
	enemy := fighter(4, "red", gun(0, 10, 10))

	c, _ := newController(t, newWorld(attacker, friend, reserve, enemy), DefaultConfig())
	c.Load(region)

	for range 10 {
		got, ok := c.bestShip(attacker, core.DefaultPreferences())
		require.True(t, ok)
		assert.Same(t, enemy, got)
	}
}

func TestBestShip_UndefendedStations(t *testing.T) {
	attacker := fighter(1, "blue", gun(0, 10, 10))
	depot := &core.Unit{
		ID:         2,
		Faction:    "red",
		Size:       core.SizeLarge,
		Station:    true,
		Components: []core.Component{{Name: "hab", Kind: core.ComponentInternal}},
	}

	t.Run("skipped while owner is not retaliating", func(t *testing.T) {
		c, _ := newController(t, newWorld(attacker, depot), DefaultConfig())
		c.Load(region)

		_, ok := c.bestShip(attacker, core.DefaultPreferences())
		assert.False(t, ok)
	})

	t.Run("engaged while owner fights back", func(t *testing.T) {
		guard := fighter(3, "red", gun(0, 10, 10))
		c, _ := newController(t, newWorld(attacker, depot, guard), DefaultConfig())
		c.Load(region)

		p := core.DefaultPreferences()
		p.Small = 0 // only the station is worth shooting
		got, ok := c.bestShip(attacker, p)
		require.True(t, ok)
		assert.Same(t, depot, got)
	})

	t.Run("home stations are always targets", func(t *testing.T) {
		raider := fighter(4, "red", gun(0, 10, 10))
		home := &core.Unit{
			ID:         5,
			Faction:    "blue",
			Station:    true,
			Components: []core.Component{{Name: "hab", Kind: core.ComponentInternal}},
		}
		w := newWorld(raider, home)
		c, _ := newController(t, w, DefaultConfig())
		c.Load(region)

		got, ok := c.bestShip(raider, core.DefaultPreferences())
		require.True(t, ok)
		assert.Same(t, home, got)
	})
}
