// Package sqlitestorage implements the storage backend on SQLite. It wraps the
// GORM backend; the only SQLite-specific concerns are opening the database
// (in memory or on disk) and the periodic VACUUM INTO dump of an in-memory
// database.
package sqlitestorage

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/starhold/battlesim/internal/config"
	"github.com/starhold/battlesim/internal/database"
	gormstorage "github.com/starhold/battlesim/internal/storage/gorm"
)

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	db       *gorm.DB
	cfg      config.SQLiteConfig
	log      zerolog.Logger
	stopChan chan struct{}
	done     chan struct{}
}

// New opens the database named by cfg.Path, or an in-memory one when empty.
func New(cfg config.SQLiteConfig, runID string, log zerolog.Logger) (*Backend, error) {
	db, err := database.GetSqliteDB(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite DB: %w", err)
	}

	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{
			DB:     db,
			RunID:  runID,
			Logger: log,
		}),
		db:  db,
		cfg: cfg,
		log: log,
	}, nil
}

func (b *Backend) inMemory() bool {
	return b.cfg.Path == ""
}

// Init initializes the embedded GORM backend and starts the dump goroutine.
func (b *Backend) Init() error {
	if err := b.Backend.Init(); err != nil {
		return err
	}

	if b.inMemory() && b.cfg.DumpPath != "" && b.cfg.DumpInterval > 0 {
		b.stopChan = make(chan struct{})
		b.done = make(chan struct{})
		go b.dumpLoop()
	}
	return nil
}

// Close stops the dump goroutine, flushes the GORM backend and writes a
// final dump of an in-memory database.
func (b *Backend) Close() error {
	if b.stopChan != nil {
		close(b.stopChan)
		<-b.done
		b.stopChan = nil
	}
	if err := b.Backend.Close(); err != nil {
		return err
	}
	if b.inMemory() && b.cfg.DumpPath != "" {
		return b.Dump()
	}
	return nil
}

// Dump writes a point-in-time snapshot of the database to cfg.DumpPath.
func (b *Backend) Dump() error {
	return database.Timed(b.log, "Dumped memory DB to disk", func() error {
		return database.DumpMemoryDBToDisk(b.db, b.cfg.DumpPath)
	})
}

// dumpLoop periodically dumps the in-memory database to disk. VACUUM INTO
// takes a consistent snapshot, so writers are not paused.
func (b *Backend) dumpLoop() {
	defer close(b.done)

	ticker := time.NewTicker(b.cfg.DumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			if err := b.Dump(); err != nil {
				b.log.Error().Err(err).Msg("Error dumping to disk")
			}
		}
	}
}
