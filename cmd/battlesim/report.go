package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"gorm.io/gorm"

	"github.com/starhold/battlesim/internal/database"
	"github.com/starhold/battlesim/internal/model"
	"github.com/starhold/battlesim/internal/model/convert"
	gormstorage "github.com/starhold/battlesim/internal/storage/gorm"
	"github.com/starhold/battlesim/pkg/core"
)

// reportCommand prints the battles archived in a sqlite file written by the
// sqlite backend (either its on-disk database or a dump).
func reportCommand(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("report: archive file required")
	}
	path := args[0]
	region := ""
	if len(args) > 1 {
		region = args[1]
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	db, err := database.GetSqliteDB(path)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	return writeReport(os.Stdout, db, region)
}

func writeReport(out io.Writer, db *gorm.DB, region string) error {
	battles, err := gormstorage.ListBattles(db, region)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BATTLE\tREGION\tDAY\tFACTIONS\tUNITS\tTURNS\tACTIVE\tCONVERGED\tREGIME\tEVENTS")
	for _, b := range battles {
		start, end, err := convert.BattleToCore(b)
		if err != nil {
			return err
		}

		shortID := start.BattleID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}
		turns, active, converged, regime := "-", "-", "-", string(start.Regime)
		if end != nil {
			turns = fmt.Sprint(end.Turns)
			active = fmt.Sprint(end.ActiveTurns)
			converged = fmt.Sprint(end.Converged)
			regime = string(end.Regime)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\t%s\t%s\t%s\t%d\n",
			shortID, start.Region, start.Day, len(start.Factions), len(start.Units),
			turns, active, converged, regime, len(b.RegimeChanges)+len(b.HazardsDestroyed))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, b := range battles {
		lines := battleEvents(b)
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n%s (%s, day %d)\n", b.BattleID, b.Region, b.Day)
		for _, l := range lines {
			fmt.Fprintln(out, "  "+l.text)
		}
	}

	runs, err := gormstorage.ListRuns(db)
	if err != nil {
		return err
	}
	for _, run := range runs {
		days, err := gormstorage.ListDays(db, run)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nrun %s\n", run)
		for _, d := range days {
			fmt.Fprintf(out, "  day %d: %d battle(s), %d broken, %d arrived, %d landed, %d removed\n",
				d.Day, d.Battles, d.HazardsBroken, d.HazardsArrived, d.HazardsLanded, d.UnitsRemoved)
		}
	}
	return nil
}

type eventLine struct {
	turn int
	text string
}

func battleEvents(b model.Battle) []eventLine {
	region := core.RegionID(b.Region)
	var lines []eventLine
	for _, r := range b.RegimeChanges {
		e := convert.RegimeChangeToCore(r, region)
		lines = append(lines, eventLine{e.Turn, fmt.Sprintf("turn %3d  regime %s -> %s (cap %d)", e.Turn, e.From, e.To, e.TurnCap)})
	}
	for _, h := range b.HazardsDestroyed {
		e := convert.HazardDestroyedToCore(h)
		lines = append(lines, eventLine{e.Turn, fmt.Sprintf("turn %3d  hazard %d broken (%.0f/%.0f, observer engaged: %t)",
			e.Turn, e.HazardID, e.Damage, e.BreakThreshold, e.ObserverEngaged)})
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].turn < lines[j].turn })
	return lines
}
