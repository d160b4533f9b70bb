package world

import "github.com/starhold/battlesim/pkg/core"

// Intent implements battle.World. Evaluations are cached per region and
// faction until forced or until the day advances.
func (m *Model) Intent(region core.RegionID, faction core.FactionID, force bool) core.Intent {
	key := intentKey{region: region, faction: faction}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !force {
		if intent, ok := m.intents[key]; ok {
			return intent
		}
	}
	intent := m.evaluate(region, faction)
	m.intents[key] = intent
	return intent
}

// Retaliating implements battle.World: a faction defends its property in a
// region while it wants to fight there.
func (m *Model) Retaliating(region core.RegionID, faction core.FactionID) bool {
	return m.Intent(region, faction, false).WantsFight
}

// evaluate decides a faction's intent from the units in the region. A faction
// wants to fight when it has a unit able to shoot and a hostile unit worth
// shooting at; it is in danger when a hostile unit can shoot back.
func (m *Model) evaluate(region core.RegionID, faction core.FactionID) core.Intent {
	r, ok := m.regions[region]
	if !ok {
		return core.Intent{}
	}

	var armed, targets, danger bool
	for _, u := range r.Units {
		if u.Destroyed || u.Reserve {
			continue
		}
		if u.Faction == faction {
			armed = armed || u.Viable()
			continue
		}
		if !m.hostility[pairOf(faction, u.Faction)] || u.Faction == faction {
			continue
		}
		if u.HarpoonedBy == "" || !u.Uncontrollable {
			targets = true
		}
		if u.Viable() {
			danger = true
		}
	}
	return core.Intent{WantsFight: armed && targets, HasDanger: danger}
}
