// pkg/core/battle.go
package core

import "time"

// Regime is the turn-cap regime a battle runs under.
type Regime string

const (
	// RegimeFactions is faction-vs-faction fighting with the long turn cap.
	RegimeFactions Regime = "factions"
	// RegimeHazards is hazard-only resolution with the short turn cap.
	RegimeHazards Regime = "hazards"
)

// BattleStartEvent is emitted once a loaded region turns out to have a battle.
// Day is stamped by the day driver, the engine leaves it zero.
type BattleStartEvent struct {
	BattleID string
	Region   RegionID
	Day      int
	Time     time.Time
	Factions []FactionID
	Units    []UnitID
	Hazards  []HazardID
	Regime   Regime
}

// BattleEndEvent closes a battle.
type BattleEndEvent struct {
	BattleID    string
	Region      RegionID
	Time        time.Time
	Turns       int
	ActiveTurns int
	Converged   bool
	Regime      Regime
}

// RegimeChangeEvent marks a switch between turn-cap regimes.
type RegimeChangeEvent struct {
	BattleID string
	Region   RegionID
	Time     time.Time
	Turn     int
	From     Regime
	To       Regime
	TurnCap  int
}

// HazardDestroyedEvent reports a hazard broken by weapon fire.
// ObserverEngaged is set when units of the home faction fought that turn.
type HazardDestroyedEvent struct {
	BattleID        string
	Region          RegionID
	Time            time.Time
	Turn            int
	HazardID        HazardID
	Damage          float64
	BreakThreshold  float64
	ObserverEngaged bool
}

// DayEndEvent closes one simulated day.
type DayEndEvent struct {
	Day            int
	Time           time.Time
	Battles        int
	HazardsBroken  int
	HazardsArrived int
	HazardsLanded  int
	UnitsRemoved   int
}
