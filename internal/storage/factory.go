// internal/storage/factory.go
package storage

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/starhold/battlesim/internal/config"
	influxstorage "github.com/starhold/battlesim/internal/storage/influx"
	"github.com/starhold/battlesim/internal/storage/memory"
	"github.com/starhold/battlesim/internal/storage/postgres"
	sqlitestorage "github.com/starhold/battlesim/internal/storage/sqlite"
)

// NewBackend creates the backends named by cfg.Type. A comma-separated list
// such as "sqlite,influx" yields a Multi. runID tags every row of this run.
func NewBackend(cfg config.StorageConfig, runID string, log zerolog.Logger) (Backend, error) {
	var backends Multi
	for _, name := range strings.Split(cfg.Type, ",") {
		name = strings.TrimSpace(name)
		b, err := newOne(name, cfg, runID, log.With().Str("storage", name).Logger())
		if err != nil {
			return nil, err
		}
		backends = append(backends, b)
	}
	if len(backends) == 1 {
		return backends[0], nil
	}
	return backends, nil
}

func newOne(name string, cfg config.StorageConfig, runID string, log zerolog.Logger) (Backend, error) {
	switch name {
	case "memory":
		return memory.New(cfg.Memory), nil
	case "sqlite":
		return sqlitestorage.New(cfg.SQLite, runID, log)
	case "postgres":
		return postgres.New(postgres.Dependencies{RunID: runID, Logger: log}), nil
	case "influx":
		return influxstorage.New(cfg.Influx, runID, log), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %q", name)
	}
}
