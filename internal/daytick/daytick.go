// Package daytick drives the simulation one day at a time: every region gets
// a fresh battle controller, then the world advances to the next day.
package daytick

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/starhold/battlesim/internal/battle"
	"github.com/starhold/battlesim/internal/logging"
	"github.com/starhold/battlesim/internal/world"
	"github.com/starhold/battlesim/pkg/core"
)

// Recorder is the battle trace sink plus the day summary.
type Recorder interface {
	battle.Recorder
	RecordDayEnd(e *core.DayEndEvent) error
}

// Flusher pushes buffered telemetry out at the end of each day.
type Flusher interface {
	Flush(ctx context.Context) error
}

// Dependencies holds all dependencies for a Driver.
type Dependencies struct {
	// RunID names the run in log records.
	RunID    string
	World    *world.Model
	Recorder Recorder
	Logger   *slog.Logger
	Rand     battle.Rand
	Config   battle.Config
	// Flusher is optional, typically the OTel provider.
	Flusher Flusher
	// Meter is optional; a no-op meter is used when nil. The battle
	// controllers count on it too.
	Meter metric.Meter
}

// DayResult summarizes one simulated day.
type DayResult struct {
	Day     int
	Battles []battle.Summary
	Report  world.DayReport
}

// Driver runs simulated days sequentially. It is not safe for concurrent use,
// but Position may be called from any goroutine.
type Driver struct {
	deps Dependencies
	log  *slog.Logger

	meter   metric.Meter
	days    metric.Int64Counter
	battles metric.Int64Counter

	mu     sync.Mutex
	day    int
	region core.RegionID
	battle string
}

// New creates a Driver starting before day 1.
func New(deps Dependencies) (*Driver, error) {
	if deps.World == nil {
		return nil, fmt.Errorf("daytick: world is required")
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	meter := deps.Meter
	if meter == nil {
		meter = noop.Meter{}
	}

	days, err := meter.Int64Counter("daytick.days", metric.WithDescription("Simulated days completed"))
	if err != nil {
		return nil, fmt.Errorf("creating days counter: %w", err)
	}
	battles, err := meter.Int64Counter("daytick.battles", metric.WithDescription("Regions that had a battle"))
	if err != nil {
		return nil, fmt.Errorf("creating battles counter: %w", err)
	}

	return &Driver{
		deps:    deps,
		log:     log,
		meter:   meter,
		days:    days,
		battles: battles,
	}, nil
}

// Day returns the last day started.
func (d *Driver) Day() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.day
}

// Position reports the run, day, region and battle being resolved, for
// stamping log records.
func (d *Driver) Position() logging.Position {
	d.mu.Lock()
	defer d.mu.Unlock()
	return logging.Position{
		Run:    d.deps.RunID,
		Day:    d.day,
		Region: d.region,
		Battle: d.battle,
	}
}

func (d *Driver) setPosition(day int, region core.RegionID) {
	d.mu.Lock()
	d.day, d.region, d.battle = day, region, ""
	d.mu.Unlock()
}

func (d *Driver) setBattle(id string) {
	d.mu.Lock()
	d.battle = id
	d.mu.Unlock()
}

// Run simulates the given number of days, stopping early if ctx is done.
func (d *Driver) Run(ctx context.Context, days int) ([]DayResult, error) {
	results := make([]DayResult, 0, days)
	for range days {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := d.RunDay(ctx)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// RunDay resolves every region once, in the order they were added, then
// advances the world. Recording failures are logged by the engine; only a
// failure to record the day summary is returned.
func (d *Driver) RunDay(ctx context.Context) (DayResult, error) {
	day := d.Day() + 1
	res := DayResult{Day: day}
	rec := d.recorder(day)

	for _, region := range d.deps.World.Regions() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		d.setPosition(day, region)

		ctrl, err := battle.New(battle.Dependencies{
			World:    d.deps.World,
			Recorder: rec,
			Logger:   d.log,
			Rand:     d.deps.Rand,
			Config:   d.deps.Config,
			Meter:    d.meter,
		})
		if err != nil {
			return res, fmt.Errorf("creating controller for %s: %w", region, err)
		}

		ctrl.Load(region)
		if !ctrl.HasBattle() {
			continue
		}
		summary := ctrl.Simulate()
		d.setBattle("")
		if summary.BattleID == "" {
			continue
		}
		res.Battles = append(res.Battles, summary)
		d.battles.Add(ctx, 1)
	}
	d.setPosition(day, "")

	res.Report = d.deps.World.AdvanceDay()
	d.days.Add(ctx, 1)
	d.log.Info("day ended",
		"battles", len(res.Battles),
		"hazardsBroken", res.Report.HazardsBroken,
		"hazardsArrived", res.Report.HazardsArrived,
		"hazardsLanded", res.Report.HazardsLanded,
		"unitsRemoved", res.Report.UnitsRemoved,
	)

	if d.deps.Recorder != nil {
		err := d.deps.Recorder.RecordDayEnd(&core.DayEndEvent{
			Day:            day,
			Time:           time.Now(),
			Battles:        len(res.Battles),
			HazardsBroken:  res.Report.HazardsBroken,
			HazardsArrived: res.Report.HazardsArrived,
			HazardsLanded:  res.Report.HazardsLanded,
			UnitsRemoved:   res.Report.UnitsRemoved,
		})
		if err != nil {
			return res, fmt.Errorf("recording day %d: %w", day, err)
		}
	}

	if d.deps.Flusher != nil {
		if err := d.deps.Flusher.Flush(ctx); err != nil {
			d.log.Warn("telemetry flush failed", "error", err)
		}
	}
	return res, nil
}

func (d *Driver) recorder(day int) battle.Recorder {
	return dayRecorder{next: d.deps.Recorder, driver: d, day: day}
}

// dayRecorder stamps the current day on battle start events and tells the
// driver which battle is running. It forwards to next when one is set.
type dayRecorder struct {
	next   Recorder
	driver *Driver
	day    int
}

func (r dayRecorder) RecordBattleStart(e *core.BattleStartEvent) error {
	r.driver.setBattle(e.BattleID)
	if r.next == nil {
		return nil
	}
	stamped := *e
	stamped.Day = r.day
	return r.next.RecordBattleStart(&stamped)
}

func (r dayRecorder) RecordBattleEnd(e *core.BattleEndEvent) error {
	if r.next == nil {
		return nil
	}
	return r.next.RecordBattleEnd(e)
}

func (r dayRecorder) RecordRegimeChange(e *core.RegimeChangeEvent) error {
	if r.next == nil {
		return nil
	}
	return r.next.RecordRegimeChange(e)
}

func (r dayRecorder) RecordHazardDestroyed(e *core.HazardDestroyedEvent) error {
	if r.next == nil {
		return nil
	}
	return r.next.RecordHazardDestroyed(e)
}
