package influxstorage

import (
	"strconv"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/starhold/battlesim/pkg/core"
)

// Measurement names.
const (
	MeasurementBattleStart     = "battle_start"
	MeasurementBattleEnd       = "battle_end"
	MeasurementRegimeChange    = "regime_change"
	MeasurementHazardDestroyed = "hazard_destroyed"
	MeasurementDayEnd          = "day_end"
)

func battlePoint(measurement, runID, battleID string, region core.RegionID) *influxdb2_write.Point {
	return influxdb2_write.NewPointWithMeasurement(measurement).
		AddTag("run", runID).
		AddTag("battle", battleID).
		AddTag("region", string(region))
}

// BattleStartPoint records the size of a battle when it starts.
func BattleStartPoint(runID string, e *core.BattleStartEvent) *influxdb2_write.Point {
	return battlePoint(MeasurementBattleStart, runID, e.BattleID, e.Region).
		AddTag("regime", string(e.Regime)).
		AddField("day", e.Day).
		AddField("factions", len(e.Factions)).
		AddField("units", len(e.Units)).
		AddField("hazards", len(e.Hazards)).
		SetTime(e.Time)
}

// BattleEndPoint records how a battle finished.
func BattleEndPoint(runID string, e *core.BattleEndEvent) *influxdb2_write.Point {
	return battlePoint(MeasurementBattleEnd, runID, e.BattleID, e.Region).
		AddTag("regime", string(e.Regime)).
		AddTag("converged", strconv.FormatBool(e.Converged)).
		AddField("turns", e.Turns).
		AddField("active_turns", e.ActiveTurns).
		SetTime(e.Time)
}

// RegimeChangePoint records a switch of turn-cap regime.
func RegimeChangePoint(runID string, e *core.RegimeChangeEvent) *influxdb2_write.Point {
	return battlePoint(MeasurementRegimeChange, runID, e.BattleID, e.Region).
		AddTag("from", string(e.From)).
		AddTag("to", string(e.To)).
		AddField("turn", e.Turn).
		AddField("turn_cap", e.TurnCap).
		SetTime(e.Time)
}

// HazardDestroyedPoint records a hazard broken by weapon fire.
func HazardDestroyedPoint(runID string, e *core.HazardDestroyedEvent) *influxdb2_write.Point {
	return battlePoint(MeasurementHazardDestroyed, runID, e.BattleID, e.Region).
		AddTag("observer_engaged", strconv.FormatBool(e.ObserverEngaged)).
		AddField("hazard", int64(e.HazardID)).
		AddField("turn", e.Turn).
		AddField("damage", e.Damage).
		AddField("break_threshold", e.BreakThreshold).
		SetTime(e.Time)
}

// DayEndPoint records the bookkeeping of one day.
func DayEndPoint(runID string, e *core.DayEndEvent) *influxdb2_write.Point {
	return influxdb2_write.NewPointWithMeasurement(MeasurementDayEnd).
		AddTag("run", runID).
		AddField("day", e.Day).
		AddField("battles", e.Battles).
		AddField("hazards_broken", e.HazardsBroken).
		AddField("hazards_arrived", e.HazardsArrived).
		AddField("hazards_landed", e.HazardsLanded).
		AddField("units_removed", e.UnitsRemoved).
		SetTime(e.Time)
}
