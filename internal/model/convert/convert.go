package convert

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/starhold/battlesim/internal/model"
	"github.com/starhold/battlesim/pkg/core"
)

func jsonToIDs[T any](data datatypes.JSON) ([]T, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var ids []T
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// BattleToCore converts an archived battle back to its start event and, when
// the battle was closed, its end event.
func BattleToCore(b model.Battle) (core.BattleStartEvent, *core.BattleEndEvent, error) {
	start := core.BattleStartEvent{
		BattleID: b.BattleID,
		Region:   core.RegionID(b.Region),
		Day:      b.Day,
		Time:     b.StartTime,
		Regime:   core.Regime(b.StartRegime),
	}

	var err error
	if start.Factions, err = jsonToIDs[core.FactionID](b.Factions); err != nil {
		return start, nil, fmt.Errorf("battle %s factions: %w", b.BattleID, err)
	}
	if start.Units, err = jsonToIDs[core.UnitID](b.Units); err != nil {
		return start, nil, fmt.Errorf("battle %s units: %w", b.BattleID, err)
	}
	if start.Hazards, err = jsonToIDs[core.HazardID](b.Hazards); err != nil {
		return start, nil, fmt.Errorf("battle %s hazards: %w", b.BattleID, err)
	}

	if !b.Ended() {
		return start, nil, nil
	}
	end := &core.BattleEndEvent{
		BattleID:    b.BattleID,
		Region:      core.RegionID(b.Region),
		Time:        b.EndTime.Time,
		Turns:       b.Turns,
		ActiveTurns: b.ActiveTurns,
		Converged:   b.Converged,
		Regime:      core.Regime(b.Regime),
	}
	return start, end, nil
}

// RegimeChangeToCore converts a GORM model.RegimeChange to a core.RegimeChangeEvent.
func RegimeChangeToCore(r model.RegimeChange, region core.RegionID) core.RegimeChangeEvent {
	return core.RegimeChangeEvent{
		BattleID: r.BattleID,
		Region:   region,
		Time:     r.Time,
		Turn:     r.Turn,
		From:     core.Regime(r.From),
		To:       core.Regime(r.To),
		TurnCap:  r.TurnCap,
	}
}

// HazardDestroyedToCore converts a GORM model.HazardDestroyed to a core.HazardDestroyedEvent.
func HazardDestroyedToCore(h model.HazardDestroyed) core.HazardDestroyedEvent {
	return core.HazardDestroyedEvent{
		BattleID:        h.BattleID,
		Region:          core.RegionID(h.Region),
		Time:            h.Time,
		Turn:            h.Turn,
		HazardID:        core.HazardID(h.HazardID),
		Damage:          h.Damage,
		BreakThreshold:  h.BreakThreshold,
		ObserverEngaged: h.ObserverEngaged,
	}
}
