// Package world is an in-memory world model: factions, their hostilities and
// the regions they contest. It answers the queries the battle engine makes
// and advances the day between battles.
package world

import (
	"slices"
	"sync"

	"github.com/starhold/battlesim/pkg/core"
)

// Region is a contested area with the units and hazards present in it.
type Region struct {
	ID      core.RegionID
	Units   []*core.Unit
	Hazards []*core.Hazard
}

type factionPair struct {
	a, b core.FactionID
}

func pairOf(a, b core.FactionID) factionPair {
	if b < a {
		a, b = b, a
	}
	return factionPair{a, b}
}

type intentKey struct {
	region  core.RegionID
	faction core.FactionID
}

// Model holds the world state between battles.
type Model struct {
	mu sync.RWMutex

	home      core.FactionID
	factions  []core.FactionID
	hostility map[factionPair]bool
	regions   map[core.RegionID]*Region
	order     []core.RegionID

	intents map[intentKey]core.Intent
}

// New creates an empty world observed by the given home faction.
func New(home core.FactionID) *Model {
	return &Model{
		home:      home,
		hostility: make(map[factionPair]bool),
		regions:   make(map[core.RegionID]*Region),
		intents:   make(map[intentKey]core.Intent),
	}
}

// AddFaction registers a faction. Duplicates are ignored.
func (m *Model) AddFaction(id core.FactionID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.Contains(m.factions, id) {
		m.factions = append(m.factions, id)
	}
}

// SetHostile declares two factions at war with each other.
func (m *Model) SetHostile(a, b core.FactionID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a == b {
		return
	}
	m.hostility[pairOf(a, b)] = true
	clear(m.intents)
}

// AddRegion returns the region with the given ID, creating it if needed.
func (m *Model) AddRegion(id core.RegionID) *Region {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.region(id)
}

func (m *Model) region(id core.RegionID) *Region {
	r, ok := m.regions[id]
	if !ok {
		r = &Region{ID: id}
		m.regions[id] = r
		m.order = append(m.order, id)
	}
	return r
}

// AddUnit places a unit in a region and derives its damage state.
func (m *Model) AddUnit(region core.RegionID, u *core.Unit) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.RefreshDamage()
	r := m.region(region)
	r.Units = append(r.Units, u)
}

// AddHazard tracks a falling body for a region.
func (m *Model) AddHazard(region core.RegionID, h *core.Hazard) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.region(region)
	r.Hazards = append(r.Hazards, h)
}

// Regions returns region IDs in the order they were added.
func (m *Model) Regions() []core.RegionID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.order)
}

// Factions implements battle.World.
func (m *Model) Factions() []core.FactionID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.factions)
}

// Units implements battle.World. Destroyed units are left out.
func (m *Model) Units(region core.RegionID) []*core.Unit {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.regions[region]
	if !ok {
		return nil
	}
	out := make([]*core.Unit, 0, len(r.Units))
	for _, u := range r.Units {
		if !u.Destroyed {
			out = append(out, u)
		}
	}
	return out
}

// Hazards implements battle.World.
func (m *Model) Hazards(region core.RegionID) []*core.Hazard {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.regions[region]
	if !ok {
		return nil
	}
	return slices.Clone(r.Hazards)
}

// Hostile implements battle.World.
func (m *Model) Hostile(a, b core.FactionID) bool {
	if a == b {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hostility[pairOf(a, b)]
}

// HomeFaction implements battle.World.
func (m *Model) HomeFaction() core.FactionID {
	return m.home
}
