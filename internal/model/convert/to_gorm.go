// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"database/sql"
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/starhold/battlesim/internal/model"
	"github.com/starhold/battlesim/pkg/core"
)

// idsToJSON converts an ID list to datatypes.JSON for DB storage.
func idsToJSON[T any](ids []T) datatypes.JSON {
	if len(ids) == 0 {
		return datatypes.JSON("[]")
	}
	data, _ := json.Marshal(ids)
	return datatypes.JSON(data)
}

// CoreToBattle converts a battle start event to a GORM model.Battle. The
// battle is open until ApplyBattleEnd closes it.
func CoreToBattle(e core.BattleStartEvent) model.Battle {
	return model.Battle{
		BattleID:    e.BattleID,
		Region:      string(e.Region),
		Day:         e.Day,
		StartTime:   e.Time,
		Factions:    idsToJSON(e.Factions),
		Units:       idsToJSON(e.Units),
		Hazards:     idsToJSON(e.Hazards),
		StartRegime: string(e.Regime),
		Regime:      string(e.Regime),
	}
}

// ApplyBattleEnd writes the outcome of a battle onto its row.
func ApplyBattleEnd(b *model.Battle, e core.BattleEndEvent) {
	b.EndTime = sql.NullTime{Time: e.Time, Valid: true}
	b.Turns = e.Turns
	b.ActiveTurns = e.ActiveTurns
	b.Converged = e.Converged
	b.Regime = string(e.Regime)
}

// CoreToRegimeChange converts a core.RegimeChangeEvent to a GORM model.RegimeChange.
func CoreToRegimeChange(e core.RegimeChangeEvent) model.RegimeChange {
	return model.RegimeChange{
		BattleID: e.BattleID,
		Time:     e.Time,
		Turn:     e.Turn,
		From:     string(e.From),
		To:       string(e.To),
		TurnCap:  e.TurnCap,
	}
}

// CoreToHazardDestroyed converts a core.HazardDestroyedEvent to a GORM model.HazardDestroyed.
func CoreToHazardDestroyed(e core.HazardDestroyedEvent) model.HazardDestroyed {
	return model.HazardDestroyed{
		BattleID:        e.BattleID,
		Region:          string(e.Region),
		Time:            e.Time,
		Turn:            e.Turn,
		HazardID:        uint32(e.HazardID),
		Damage:          e.Damage,
		BreakThreshold:  e.BreakThreshold,
		ObserverEngaged: e.ObserverEngaged,
	}
}

// CoreToDayReport converts a core.DayEndEvent to a GORM model.DayReport.
func CoreToDayReport(runID string, e core.DayEndEvent) model.DayReport {
	return model.DayReport{
		RunID:          runID,
		Day:            e.Day,
		Time:           e.Time,
		Battles:        e.Battles,
		HazardsBroken:  e.HazardsBroken,
		HazardsArrived: e.HazardsArrived,
		HazardsLanded:  e.HazardsLanded,
		UnitsRemoved:   e.UnitsRemoved,
	}
}
