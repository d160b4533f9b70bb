// Package battle resolves one region's hostile engagements for a simulated
// day. A Controller is loaded with a region, discovers who is fighting and
// then runs discrete turns until nobody can or will continue.
package battle

import (
	"github.com/starhold/battlesim/pkg/core"
)

// World is the view of the wider simulation the engine depends on.
type World interface {
	// Factions lists every faction in the simulation.
	Factions() []core.FactionID
	// Units returns the non-destroyed units present in a region.
	Units(region core.RegionID) []*core.Unit
	// Hazards returns the falling bodies tracked for a region.
	Hazards(region core.RegionID) []*core.Hazard
	// Intent evaluates whether a faction wants to fight in a region.
	// With force set the evaluation is recomputed instead of read from cache.
	Intent(region core.RegionID, faction core.FactionID, force bool) core.Intent
	// Hostile reports whether units of a may attack units of b.
	Hostile(a, b core.FactionID) bool
	// Retaliating reports whether a faction actively defends its property in a region.
	Retaliating(region core.RegionID, faction core.FactionID) bool
	// HomeFaction is the observing faction.
	HomeFaction() core.FactionID
}

// Recorder receives the battle trace.
type Recorder interface {
	RecordBattleStart(e *core.BattleStartEvent) error
	RecordBattleEnd(e *core.BattleEndEvent) error
	RecordRegimeChange(e *core.RegimeChangeEvent) error
	RecordHazardDestroyed(e *core.HazardDestroyedEvent) error
}

// Logger interface for pluggable logging. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Rand is the random source. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Config holds the engine tunables.
type Config struct {
	// LongTurnCap bounds faction-vs-faction battles.
	LongTurnCap int
	// ShortTurnCap bounds hazard-only resolution, counted from the switch.
	ShortTurnCap int
	// JamConstant scales the warm-up delay of damaged guns.
	JamConstant float64
	// VolleyWindow is the firing time per turn, in seconds.
	VolleyWindow float64
	// Preferences is the baseline target preference vector.
	Preferences core.Preferences
}

// DefaultConfig returns the stock tunables.
func DefaultConfig() Config {
	return Config{
		LongTurnCap:  100,
		ShortTurnCap: 10,
		JamConstant:  10,
		VolleyWindow: 5,
		Preferences:  core.DefaultPreferences(),
	}
}

// State is the controller lifecycle state.
type State uint8

const (
	StateUnloaded State = iota
	StateLoaded
	StateRunning
	StateDone
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	default:
		return "unloaded"
	}
}

// Summary describes how a Simulate call went. The battle's real output is
// the state it left on units and hazards.
type Summary struct {
	BattleID    string
	Region      core.RegionID
	Turns       int
	ActiveTurns int
	Converged   bool
	Regime      core.Regime
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type nopRecorder struct{}

func (nopRecorder) RecordBattleStart(*core.BattleStartEvent) error         { return nil }
func (nopRecorder) RecordBattleEnd(*core.BattleEndEvent) error             { return nil }
func (nopRecorder) RecordRegimeChange(*core.RegimeChangeEvent) error       { return nil }
func (nopRecorder) RecordHazardDestroyed(*core.HazardDestroyedEvent) error { return nil }
