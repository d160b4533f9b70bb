package battle

import (
	"slices"

	"github.com/starhold/battlesim/pkg/core"
)

// hazardRegistry is the session's working list of hazards. A hazard leaves
// the list exactly once, when it breaks; the hazard itself is owned by the
// world model and is never destroyed here.
type hazardRegistry struct {
	list []*core.Hazard
}

// newHazardRegistry keeps the hazards that have arrived and are not broken.
func newHazardRegistry(all []*core.Hazard) *hazardRegistry {
	r := &hazardRegistry{}
	for _, h := range all {
		if h.InRegion() && !h.Broken() {
			r.list = append(r.list, h)
		}
	}
	return r
}

func (r *hazardRegistry) Len() int {
	return len(r.list)
}

// First returns the first hazard still in the list.
func (r *hazardRegistry) First() (*core.Hazard, bool) {
	if len(r.list) == 0 {
		return nil, false
	}
	return r.list[0], true
}

func (r *hazardRegistry) Contains(h *core.Hazard) bool {
	return slices.Contains(r.list, h)
}

// Damage adds damage to a listed hazard and reports whether this broke it.
// Hazards no longer listed are ignored.
func (r *hazardRegistry) Damage(h *core.Hazard, amount float64) bool {
	i := slices.Index(r.list, h)
	if i < 0 || amount <= 0 {
		return false
	}
	h.Damage += amount
	if !h.Broken() {
		return false
	}
	r.list = slices.Delete(r.list, i, i+1)
	return true
}
