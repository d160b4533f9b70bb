// Package scenario loads a starting world from a JSON scenario file.
package scenario

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/starhold/battlesim/internal/world"
	"github.com/starhold/battlesim/pkg/core"
)

// File is the root of a scenario document.
type File struct {
	Name      string              `json:"name"`
	Home      core.FactionID      `json:"home"`
	Factions  []core.FactionID    `json:"factions"`
	Hostility [][2]core.FactionID `json:"hostility"`
	Regions   []Region            `json:"regions"`
}

// Region lists what starts out in one region.
type Region struct {
	ID      core.RegionID `json:"id"`
	Units   []Unit        `json:"units"`
	Hazards []core.Hazard `json:"hazards"`
}

// Unit is a unit as written in a scenario. Size is "small" or "large".
type Unit struct {
	ID             core.UnitID        `json:"id"`
	Name           string             `json:"name"`
	Faction        core.FactionID     `json:"faction"`
	Size           string             `json:"size"`
	Station        bool               `json:"station"`
	Military       bool               `json:"military"`
	Drone          bool               `json:"drone"`
	Reserve        bool               `json:"reserve"`
	Uncontrollable bool               `json:"uncontrollable"`
	Components     []core.Component   `json:"components"`
	Groups         []core.WeaponGroup `json:"groups"`
	Doctrine       core.Doctrine      `json:"doctrine"`
}

// ReadFile decodes a scenario file without building it.
func ReadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening scenario: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads one scenario document. Unknown fields are rejected.
func Decode(r io.Reader) (*File, error) {
	var file File
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("error decoding scenario: %w", err)
	}
	return &file, nil
}

// LoadFile reads and builds a scenario from disk.
func LoadFile(path string) (*world.Model, *File, error) {
	file, err := ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	m, err := file.Build()
	if err != nil {
		return nil, nil, err
	}
	return m, file, nil
}

// Load decodes a scenario and builds the world it describes.
func Load(r io.Reader) (*world.Model, *File, error) {
	file, err := Decode(r)
	if err != nil {
		return nil, nil, err
	}
	m, err := file.Build()
	if err != nil {
		return nil, nil, err
	}
	return m, file, nil
}

// Build validates the scenario and creates a world model from it.
func (f *File) Build() (*world.Model, error) {
	known := make(map[core.FactionID]bool, len(f.Factions))
	for _, id := range f.Factions {
		if id == "" {
			return nil, fmt.Errorf("faction with empty id")
		}
		known[id] = true
	}
	if f.Home != "" && !known[f.Home] {
		return nil, fmt.Errorf("home faction %q is not declared", f.Home)
	}

	m := world.New(f.Home)
	for _, id := range f.Factions {
		m.AddFaction(id)
	}
	for _, pair := range f.Hostility {
		for _, id := range pair {
			if !known[id] {
				return nil, fmt.Errorf("hostility names unknown faction %q", id)
			}
		}
		m.SetHostile(pair[0], pair[1])
	}

	units := make(map[core.UnitID]bool)
	hazards := make(map[core.HazardID]bool)
	for _, r := range f.Regions {
		if r.ID == "" {
			return nil, fmt.Errorf("region with empty id")
		}
		m.AddRegion(r.ID)

		for _, su := range r.Units {
			if units[su.ID] {
				return nil, fmt.Errorf("duplicate unit id %d", su.ID)
			}
			units[su.ID] = true
			u, err := su.build(known)
			if err != nil {
				return nil, fmt.Errorf("region %s: %w", r.ID, err)
			}
			m.AddUnit(r.ID, u)
		}

		for i := range r.Hazards {
			h := r.Hazards[i]
			if hazards[h.ID] {
				return nil, fmt.Errorf("duplicate hazard id %d", h.ID)
			}
			hazards[h.ID] = true
			if h.BreakThreshold <= 0 {
				return nil, fmt.Errorf("hazard %d: break threshold must be positive", h.ID)
			}
			if h.Countdown < 0 {
				return nil, fmt.Errorf("hazard %d: negative countdown", h.ID)
			}
			m.AddHazard(r.ID, &h)
		}
	}
	return m, nil
}

func (su Unit) build(known map[core.FactionID]bool) (*core.Unit, error) {
	if !known[su.Faction] {
		return nil, fmt.Errorf("unit %d: unknown faction %q", su.ID, su.Faction)
	}

	var size core.SizeClass
	switch strings.ToLower(su.Size) {
	case "", "small":
		size = core.SizeSmall
	case "large":
		size = core.SizeLarge
	default:
		return nil, fmt.Errorf("unit %d: unknown size %q", su.ID, su.Size)
	}

	for i, c := range su.Components {
		if c.Kind == core.ComponentWeapon && c.Weapon == nil {
			return nil, fmt.Errorf("unit %d: weapon component %d has no weapon definition", su.ID, i)
		}
		if c.Damage < 0 || c.Damage > 1 {
			return nil, fmt.Errorf("unit %d: component %d damage out of range", su.ID, i)
		}
	}
	for _, g := range su.Groups {
		for _, idx := range g.Components {
			if idx < 0 || idx >= len(su.Components) || !su.Components[idx].IsWeapon() {
				return nil, fmt.Errorf("unit %d: group %q references non-weapon component %d", su.ID, g.Name, idx)
			}
		}
	}

	return &core.Unit{
		ID:             su.ID,
		Name:           su.Name,
		Faction:        su.Faction,
		Size:           size,
		Station:        su.Station,
		Military:       su.Military,
		Drone:          su.Drone,
		Reserve:        su.Reserve,
		Uncontrollable: su.Uncontrollable,
		Components:     su.Components,
		Groups:         su.Groups,
		Doctrine:       su.Doctrine,
	}, nil
}
