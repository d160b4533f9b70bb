// internal/storage/memory/memory.go
package memory

import (
	"fmt"
	"sync"

	"github.com/starhold/battlesim/internal/config"
	"github.com/starhold/battlesim/pkg/core"
)

// BattleRecord groups a battle with all of its trace events.
type BattleRecord struct {
	Start            core.BattleStartEvent
	End              *core.BattleEndEvent
	RegimeChanges    []core.RegimeChangeEvent
	HazardsDestroyed []core.HazardDestroyedEvent
}

// Backend stores battles in memory and exports each one to JSON once it ends.
type Backend struct {
	cfg config.MemoryConfig

	battles map[string]*BattleRecord
	order   []string
	days    []core.DayEndEvent
	files   []string

	mu sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:     cfg,
		battles: make(map[string]*BattleRecord),
	}
}

// Init is a no-op; the output directory is created on first export.
func (b *Backend) Init() error {
	return nil
}

// Close writes the run summary when any day was recorded.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.days) == 0 {
		return nil
	}
	return b.exportRun()
}

func (b *Backend) RecordBattleStart(e *core.BattleStartEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.battles[e.BattleID]; ok {
		return fmt.Errorf("battle %s already started", e.BattleID)
	}
	b.battles[e.BattleID] = &BattleRecord{Start: *e}
	b.order = append(b.order, e.BattleID)
	return nil
}

func (b *Backend) RecordBattleEnd(e *core.BattleEndEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, err := b.record(e.BattleID)
	if err != nil {
		return err
	}
	end := *e
	rec.End = &end
	return b.exportBattle(rec)
}

func (b *Backend) RecordRegimeChange(e *core.RegimeChangeEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, err := b.record(e.BattleID)
	if err != nil {
		return err
	}
	rec.RegimeChanges = append(rec.RegimeChanges, *e)
	return nil
}

func (b *Backend) RecordHazardDestroyed(e *core.HazardDestroyedEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, err := b.record(e.BattleID)
	if err != nil {
		return err
	}
	rec.HazardsDestroyed = append(rec.HazardsDestroyed, *e)
	return nil
}

func (b *Backend) RecordDayEnd(e *core.DayEndEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.days = append(b.days, *e)
	return nil
}

// Battles returns copies of all recorded battles in start order.
func (b *Backend) Battles() []BattleRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]BattleRecord, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, *b.battles[id])
	}
	return out
}

// Days returns the recorded day summaries.
func (b *Backend) Days() []core.DayEndEvent {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]core.DayEndEvent(nil), b.days...)
}

// ExportedFiles returns every file written so far.
func (b *Backend) ExportedFiles() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.files...)
}

// record must be called with the lock held.
func (b *Backend) record(id string) (*BattleRecord, error) {
	rec, ok := b.battles[id]
	if !ok {
		return nil, fmt.Errorf("battle %s not started", id)
	}
	return rec, nil
}
