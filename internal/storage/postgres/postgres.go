// Package postgres implements the storage backend on PostgreSQL. It wraps the
// GORM backend with a background writer and opens the connection from the
// db.* config keys unless one is injected.
package postgres

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/starhold/battlesim/internal/database"
	gormstorage "github.com/starhold/battlesim/internal/storage/gorm"
)

// DefaultFlushInterval is how often queued rows are written between battles.
const DefaultFlushInterval = 2 * time.Second

// Dependencies holds all dependencies for the Postgres storage backend.
type Dependencies struct {
	DB            *gorm.DB // optional, dialed in Init when nil
	RunID         string
	Logger        zerolog.Logger
	FlushInterval time.Duration
	MaxOpenConns  int
}

// Backend is the GORM backend bound to a Postgres connection.
type Backend struct {
	*gormstorage.Backend
	deps Dependencies
}

// New creates a new Postgres storage backend. No connection is made until Init.
func New(deps Dependencies) *Backend {
	if deps.FlushInterval == 0 {
		deps.FlushInterval = DefaultFlushInterval
	}
	if deps.MaxOpenConns == 0 {
		deps.MaxOpenConns = 10
	}
	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{
			DB:            deps.DB,
			RunID:         deps.RunID,
			Logger:        deps.Logger,
			FlushInterval: deps.FlushInterval,
		}),
		deps: deps,
	}
}

// Init connects if needed, then migrates and starts the writer.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		db, err := connect(b.deps.MaxOpenConns)
		if err != nil {
			return err
		}
		b.deps.DB = db
		b.Backend.SetDB(db)
		b.deps.Logger.Info().Msg("Connected to database")
	}
	return b.Backend.Init()
}

func connect(maxOpen int) (*gorm.DB, error) {
	db, err := database.GetPostgresDB()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to validate connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	return db, nil
}
