package world

import "github.com/starhold/battlesim/pkg/core"

// DayReport summarizes what AdvanceDay changed.
type DayReport struct {
	HazardsBroken  int
	HazardsArrived int
	HazardsLanded  int
	UnitsRemoved   int
}

// AdvanceDay moves the world to the next day. Broken hazards and destroyed
// units are dropped, hazards still falling move one day closer, and hazards
// that stayed in a region a full day without breaking land and are dropped.
// Cached intents are discarded.
func (m *Model) AdvanceDay() DayReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	var report DayReport
	for _, id := range m.order {
		r := m.regions[id]

		hazards := r.Hazards[:0]
		for _, h := range r.Hazards {
			switch {
			case h.Broken():
				report.HazardsBroken++
			case h.InRegion():
				report.HazardsLanded++
			default:
				h.Countdown--
				if h.InRegion() {
					report.HazardsArrived++
				}
				hazards = append(hazards, h)
			}
		}
		clear(r.Hazards[len(hazards):])
		r.Hazards = hazards

		units := r.Units[:0]
		for _, u := range r.Units {
			if u.Destroyed {
				report.UnitsRemoved++
				continue
			}
			units = append(units, u)
		}
		clear(r.Units[len(units):])
		r.Units = units
	}

	clear(m.intents)
	return report
}

// Unit finds a unit by ID in any region.
func (m *Model) Unit(id core.UnitID) (*core.Unit, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, rid := range m.order {
		for _, u := range m.regions[rid].Units {
			if u.ID == id {
				return u, true
			}
		}
	}
	return nil, false
}
