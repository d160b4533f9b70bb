// Package gormstorage implements the storage backend on top of GORM. Rows are
// buffered in queues and written in per-table transactions whenever a battle
// or day ends, and optionally on a timer.
package gormstorage

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/starhold/battlesim/internal/database"
	"github.com/starhold/battlesim/internal/model"
	"github.com/starhold/battlesim/internal/model/convert"
	"github.com/starhold/battlesim/internal/queue"
	"github.com/starhold/battlesim/pkg/core"
)

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB     *gorm.DB
	RunID  string
	Logger zerolog.Logger
	// FlushInterval starts a background writer when positive.
	FlushInterval time.Duration
}

// queues holds all the write queues for batch DB insertion.
type queues struct {
	Battles          *queue.Queue[model.Battle]
	RegimeChanges    *queue.Queue[model.RegimeChange]
	HazardsDestroyed *queue.Queue[model.HazardDestroyed]
	Days             *queue.Queue[model.DayReport]
}

func newQueues() *queues {
	return &queues{
		Battles:          queue.New[model.Battle](),
		RegimeChanges:    queue.New[model.RegimeChange](),
		HazardsDestroyed: queue.New[model.HazardDestroyed](),
		Days:             queue.New[model.DayReport](),
	}
}

// Backend writes the battle archive through GORM.
type Backend struct {
	deps   Dependencies
	log    zerolog.Logger
	queues *queues

	mu   sync.Mutex
	open map[string]*model.Battle

	flushMu  sync.Mutex
	stopChan chan struct{}
	done     chan struct{}
}

// New creates a new GORM storage backend. Init must be called before use.
func New(deps Dependencies) *Backend {
	return &Backend{
		deps:   deps,
		log:    deps.Logger,
		queues: newQueues(),
		open:   make(map[string]*model.Battle),
	}
}

// SetDB injects the connection for backends that open it lazily in Init.
func (b *Backend) SetDB(db *gorm.DB) {
	b.deps.DB = db
}

// DB returns the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// Init migrates the schema and starts the background writer if configured.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return fmt.Errorf("gorm backend: no database connection")
	}
	if err := database.Setup(b.deps.DB, b.log); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}

	if b.deps.FlushInterval > 0 {
		b.stopChan = make(chan struct{})
		b.done = make(chan struct{})
		go b.writerLoop()
	}
	return nil
}

// Close stops the writer, queues still-open battles and flushes everything.
func (b *Backend) Close() error {
	if b.stopChan != nil {
		close(b.stopChan)
		<-b.done
		b.stopChan = nil
	}

	b.mu.Lock()
	for id, battle := range b.open {
		b.queues.Battles.Push(*battle)
		delete(b.open, id)
	}
	b.mu.Unlock()

	return b.Flush()
}

func (b *Backend) RecordBattleStart(e *core.BattleStartEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.open[e.BattleID]; ok {
		return fmt.Errorf("battle %s already started", e.BattleID)
	}
	battle := convert.CoreToBattle(*e)
	battle.RunID = b.deps.RunID
	b.open[e.BattleID] = &battle
	return nil
}

func (b *Backend) RecordBattleEnd(e *core.BattleEndEvent) error {
	b.mu.Lock()
	battle, ok := b.open[e.BattleID]
	if ok {
		delete(b.open, e.BattleID)
	}
	b.mu.Unlock()

	if !ok {
		return fmt.Errorf("battle %s not started", e.BattleID)
	}
	convert.ApplyBattleEnd(battle, *e)
	b.queues.Battles.Push(*battle)
	return b.Flush()
}

func (b *Backend) RecordRegimeChange(e *core.RegimeChangeEvent) error {
	b.queues.RegimeChanges.Push(convert.CoreToRegimeChange(*e))
	return nil
}

func (b *Backend) RecordHazardDestroyed(e *core.HazardDestroyedEvent) error {
	b.queues.HazardsDestroyed.Push(convert.CoreToHazardDestroyed(*e))
	return nil
}

func (b *Backend) RecordDayEnd(e *core.DayEndEvent) error {
	b.queues.Days.Push(convert.CoreToDayReport(b.deps.RunID, *e))
	return b.Flush()
}

// Flush writes every queue. A failed table keeps its rows queued for the
// next flush; the first error is returned.
func (b *Backend) Flush() error {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	db := b.deps.DB
	errs := []error{
		writeQueue(db, b.queues.Battles, "battles", b.log),
		writeQueue(db, b.queues.RegimeChanges, "regime changes", b.log),
		writeQueue(db, b.queues.HazardsDestroyed, "hazards destroyed", b.log),
		writeQueue(db, b.queues.Days, "day reports", b.log),
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// writeQueue drains q into one transaction, requeueing on failure.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string, log zerolog.Logger) error {
	return q.Drain(func(items []T) error {
		tx := db.Begin()
		if err := tx.Create(&items).Error; err != nil {
			tx.Rollback()
			log.Error().Err(err).Int("rows", len(items)).Msgf("Error creating %s", name)
			return fmt.Errorf("writing %s: %w", name, err)
		}
		if err := tx.Commit().Error; err != nil {
			return fmt.Errorf("committing %s: %w", name, err)
		}
		log.Debug().Int("rows", len(items)).Msgf("Wrote %s", name)
		return nil
	})
}

func (b *Backend) writerLoop() {
	defer close(b.done)

	ticker := time.NewTicker(b.deps.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			if err := b.Flush(); err != nil {
				b.log.Warn().Err(err).Msg("Background flush failed")
			}
		}
	}
}

// ListBattles loads archived battles with their events, newest first. An
// empty region lists all regions.
func ListBattles(db *gorm.DB, region string) ([]model.Battle, error) {
	q := db.Preload("RegimeChanges").Preload("HazardsDestroyed").Order("start_time desc")
	if region != "" {
		q = q.Where("region = ?", region)
	}
	var battles []model.Battle
	if err := q.Find(&battles).Error; err != nil {
		return nil, fmt.Errorf("listing battles: %w", err)
	}
	return battles, nil
}

// ListRuns returns the IDs of every run with at least one recorded day.
func ListRuns(db *gorm.DB) ([]string, error) {
	var ids []string
	if err := db.Model(&model.DayReport{}).Distinct().Order("run_id").Pluck("run_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return ids, nil
}

// ListDays loads the day reports of one run in order.
func ListDays(db *gorm.DB, runID string) ([]model.DayReport, error) {
	var days []model.DayReport
	if err := db.Where("run_id = ?", runID).Order("day asc").Find(&days).Error; err != nil {
		return nil, fmt.Errorf("listing days: %w", err)
	}
	return days, nil
}
