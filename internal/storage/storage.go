// internal/storage/storage.go
package storage

import (
	"errors"

	"github.com/starhold/battlesim/pkg/core"
)

// Backend is the interface all storage implementations must satisfy. It is a
// superset of the battle engine's recorder.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Battle trace
	RecordBattleStart(e *core.BattleStartEvent) error
	RecordBattleEnd(e *core.BattleEndEvent) error
	RecordRegimeChange(e *core.RegimeChangeEvent) error
	RecordHazardDestroyed(e *core.HazardDestroyedEvent) error

	// Day bookkeeping
	RecordDayEnd(e *core.DayEndEvent) error
}

// Exporter is an optional interface for backends that write files.
type Exporter interface {
	ExportedFiles() []string
}

// Multi fans every call out to several backends. All backends are called even
// when one fails; the errors are joined.
type Multi []Backend

func (m Multi) each(fn func(Backend) error) error {
	var errs []error
	for _, b := range m {
		if err := fn(b); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Init() error {
	return m.each(Backend.Init)
}

func (m Multi) Close() error {
	return m.each(Backend.Close)
}

func (m Multi) RecordBattleStart(e *core.BattleStartEvent) error {
	return m.each(func(b Backend) error { return b.RecordBattleStart(e) })
}

func (m Multi) RecordBattleEnd(e *core.BattleEndEvent) error {
	return m.each(func(b Backend) error { return b.RecordBattleEnd(e) })
}

func (m Multi) RecordRegimeChange(e *core.RegimeChangeEvent) error {
	return m.each(func(b Backend) error { return b.RecordRegimeChange(e) })
}

func (m Multi) RecordHazardDestroyed(e *core.HazardDestroyedEvent) error {
	return m.each(func(b Backend) error { return b.RecordHazardDestroyed(e) })
}

func (m Multi) RecordDayEnd(e *core.DayEndEvent) error {
	return m.each(func(b Backend) error { return b.RecordDayEnd(e) })
}

// ExportedFiles collects the files of every exporting backend.
func (m Multi) ExportedFiles() []string {
	var files []string
	for _, b := range m {
		if ex, ok := b.(Exporter); ok {
			files = append(files, ex.ExportedFiles()...)
		}
	}
	return files
}
