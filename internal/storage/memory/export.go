// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// BattleExport is the root JSON structure of one battle file.
type BattleExport struct {
	BattleID    string    `json:"battleId"`
	Region      string    `json:"region"`
	Day         int       `json:"day"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Factions    []string  `json:"factions"`
	Units       []uint32  `json:"units"`
	Hazards     []uint32  `json:"hazards"`
	StartRegime string    `json:"startRegime"`
	Regime      string    `json:"regime"`
	Turns       int       `json:"turns"`
	ActiveTurns int       `json:"activeTurns"`
	Converged   bool      `json:"converged"`
	Events      [][]any   `json:"events"`
}

// RunExport is the root JSON structure of the run summary.
type RunExport struct {
	Battles int       `json:"battles"`
	Days    []DayJSON `json:"days"`
}

// DayJSON is one day in the run summary.
type DayJSON struct {
	Day            int       `json:"day"`
	Time           time.Time `json:"time"`
	Battles        int       `json:"battles"`
	HazardsBroken  int       `json:"hazardsBroken"`
	HazardsArrived int       `json:"hazardsArrived"`
	HazardsLanded  int       `json:"hazardsLanded"`
	UnitsRemoved   int       `json:"unitsRemoved"`
}

func safeName(s string) string {
	return strings.NewReplacer(" ", "_", ":", "_", "/", "_", "\\", "_").Replace(s)
}

func (b *Backend) exportBattle(rec *BattleRecord) error {
	shortID := rec.Start.BattleID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	name := fmt.Sprintf("%s_day%03d_%s", safeName(string(rec.Start.Region)), rec.Start.Day, shortID)
	return b.write(name, buildBattleExport(rec))
}

func (b *Backend) exportRun() error {
	export := RunExport{Battles: len(b.order), Days: make([]DayJSON, 0, len(b.days))}
	for _, d := range b.days {
		export.Days = append(export.Days, DayJSON{
			Day:            d.Day,
			Time:           d.Time,
			Battles:        d.Battles,
			HazardsBroken:  d.HazardsBroken,
			HazardsArrived: d.HazardsArrived,
			HazardsLanded:  d.HazardsLanded,
			UnitsRemoved:   d.UnitsRemoved,
		})
	}
	return b.write("run_"+b.days[0].Time.Format("20060102_150405"), export)
}

func buildBattleExport(rec *BattleRecord) BattleExport {
	s := rec.Start
	export := BattleExport{
		BattleID:    s.BattleID,
		Region:      string(s.Region),
		Day:         s.Day,
		StartTime:   s.Time,
		Factions:    make([]string, 0, len(s.Factions)),
		Units:       make([]uint32, 0, len(s.Units)),
		Hazards:     make([]uint32, 0, len(s.Hazards)),
		StartRegime: string(s.Regime),
		Regime:      string(s.Regime),
		Events:      make([][]any, 0),
	}
	for _, f := range s.Factions {
		export.Factions = append(export.Factions, string(f))
	}
	for _, u := range s.Units {
		export.Units = append(export.Units, uint32(u))
	}
	for _, h := range s.Hazards {
		export.Hazards = append(export.Hazards, uint32(h))
	}
	if e := rec.End; e != nil {
		export.EndTime = e.Time
		export.Regime = string(e.Regime)
		export.Turns = e.Turns
		export.ActiveTurns = e.ActiveTurns
		export.Converged = e.Converged
	}

	// Format: [turn, "regime", from, to, turnCap]
	for _, r := range rec.RegimeChanges {
		export.Events = append(export.Events, []any{r.Turn, "regime", string(r.From), string(r.To), r.TurnCap})
	}
	// Format: [turn, "hazard", hazardId, damage, observerEngaged]
	for _, h := range rec.HazardsDestroyed {
		export.Events = append(export.Events, []any{h.Turn, "hazard", uint32(h.HazardID), h.Damage, h.ObserverEngaged})
	}
	return export
}

// write must be called with the lock held.
func (b *Backend) write(name string, v any) error {
	filename := name + ".json"
	if b.cfg.CompressOutput {
		filename += ".gz"
	}
	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	if b.cfg.CompressOutput {
		err = writeGzipJSON(outputPath, v)
	} else {
		err = writeJSON(outputPath, v)
	}
	if err != nil {
		return err
	}

	b.files = append(b.files, outputPath)
	return nil
}

func writeJSON(path string, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func writeGzipJSON(path string, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gw := gzip.NewWriter(f)
	if err := json.NewEncoder(gw).Encode(data); err != nil {
		gw.Close()
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("failed to close gzip writer: %w", err)
	}
	return nil
}
