package model

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is the list of tables in the battle archive schema.
var DatabaseModels = []interface{}{
	&Battle{},
	&RegimeChange{},
	&HazardDestroyed{},
	&DayReport{},
}

// Battle is one resolved (or still running) battle. Child rows reference it
// by its string BattleID so events can be written before the battle row is
// flushed.
type Battle struct {
	gorm.Model
	BattleID    string         `json:"battleId" gorm:"size:64;uniqueIndex"`
	RunID       string         `json:"runId" gorm:"size:64;index:idx_battle_run"`
	Region      string         `json:"region" gorm:"size:128;index:idx_battle_region"`
	Day         int            `json:"day" gorm:"index:idx_battle_day"`
	StartTime   time.Time      `json:"startTime" gorm:"index:idx_battle_start"`
	EndTime     sql.NullTime   `json:"endTime"`
	Factions    datatypes.JSON `json:"factions"`
	Units       datatypes.JSON `json:"units"`
	Hazards     datatypes.JSON `json:"hazards"`
	StartRegime string         `json:"startRegime" gorm:"size:16"`
	Regime      string         `json:"regime" gorm:"size:16"`
	Turns       int            `json:"turns"`
	ActiveTurns int            `json:"activeTurns"`
	Converged   bool           `json:"converged"`

	RegimeChanges    []RegimeChange    `json:"regimeChanges" gorm:"foreignKey:BattleID;references:BattleID"`
	HazardsDestroyed []HazardDestroyed `json:"hazardsDestroyed" gorm:"foreignKey:BattleID;references:BattleID"`
}

func (*Battle) TableName() string {
	return "battles"
}

// Ended reports whether the battle has a recorded end.
func (b *Battle) Ended() bool {
	return b.EndTime.Valid
}

// RegimeChange is a switch between the faction and hazard turn caps.
type RegimeChange struct {
	ID       uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	BattleID string    `json:"battleId" gorm:"size:64;index:idx_regime_battle"`
	Time     time.Time `json:"time"`
	Turn     int       `json:"turn"`
	From     string    `json:"from" gorm:"size:16"`
	To       string    `json:"to" gorm:"size:16"`
	TurnCap  int       `json:"turnCap"`
}

func (*RegimeChange) TableName() string {
	return "regime_changes"
}

// HazardDestroyed is a hazard broken by weapon fire.
type HazardDestroyed struct {
	ID              uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	BattleID        string    `json:"battleId" gorm:"size:64;index:idx_hazard_battle"`
	Region          string    `json:"region" gorm:"size:128"`
	Time            time.Time `json:"time"`
	Turn            int       `json:"turn"`
	HazardID        uint32    `json:"hazardId"`
	Damage          float64   `json:"damage"`
	BreakThreshold  float64   `json:"breakThreshold"`
	ObserverEngaged bool      `json:"observerEngaged"`
}

func (*HazardDestroyed) TableName() string {
	return "hazards_destroyed"
}

// DayReport is the bookkeeping summary of one simulated day.
type DayReport struct {
	ID             uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	RunID          string    `json:"runId" gorm:"size:64;uniqueIndex:idx_day_run"`
	Day            int       `json:"day" gorm:"uniqueIndex:idx_day_run"`
	Time           time.Time `json:"time"`
	Battles        int       `json:"battles"`
	HazardsBroken  int       `json:"hazardsBroken"`
	HazardsArrived int       `json:"hazardsArrived"`
	HazardsLanded  int       `json:"hazardsLanded"`
	UnitsRemoved   int       `json:"unitsRemoved"`
}

func (*DayReport) TableName() string {
	return "day_reports"
}
