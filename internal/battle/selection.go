package battle

import "github.com/starhold/battlesim/pkg/core"

type componentWeights map[core.ComponentKind]int

var (
	// armed targets: silence the guns first
	armedWeights = componentWeights{
		core.ComponentWeapon:   4,
		core.ComponentEngine:   3,
		core.ComponentOrbital:  3,
		core.ComponentDefense:  1,
		core.ComponentInternal: 1,
	}
	// disarmed but mobile: stop it from leaving
	mobileWeights = componentWeights{
		core.ComponentWeapon:   1,
		core.ComponentEngine:   4,
		core.ComponentOrbital:  4,
		core.ComponentDefense:  1,
		core.ComponentInternal: 1,
	}
	strandedWeights = componentWeights{
		core.ComponentDefense:  1,
		core.ComponentInternal: 1,
	}
)

func weightsFor(t core.Traits) componentWeights {
	switch {
	case t.Dangerous():
		return armedWeights
	case !t.Stranded:
		return mobileWeights
	default:
		return strandedWeights
	}
}

// pickComponent draws the component a hit lands on. Working components are
// entered by category weight, broken but intact ones once. An empty pool
// falls back to index 0.
func (c *Controller) pickComponent(u *core.Unit) int {
	weights := weightsFor(u.Traits())

	pool := make([]int, 0, 4*len(u.Components))
	for i := range u.Components {
		comp := &u.Components[i]
		switch {
		case comp.UsableRatio() > 0:
			for range weights[comp.Kind] {
				pool = append(pool, i)
			}
		case comp.Intact():
			pool = append(pool, i)
		}
	}
	if len(pool) == 0 {
		return 0
	}
	return pool[c.rng.IntN(len(pool))]
}
