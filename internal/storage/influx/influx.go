// Package influxstorage writes the battle trace to InfluxDB as time series.
// When the server cannot be reached at Init, points go to a gzipped
// line-protocol backup file instead.
package influxstorage

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"

	"github.com/starhold/battlesim/internal/config"
	"github.com/starhold/battlesim/pkg/core"
)

// retention of the battle bucket
const retentionSeconds = 60 * 60 * 24 * 90

const pingTimeout = 5 * time.Second

// Backend writes points to one InfluxDB bucket or to the backup file.
type Backend struct {
	cfg   config.InfluxConfig
	runID string
	log   zerolog.Logger

	client influxdb2.Client
	writer influxdb2_api.WriteAPI

	mu           sync.Mutex
	backupFile   io.WriteCloser
	backupWriter *gzip.Writer
	errs         sync.WaitGroup
}

// New creates an InfluxDB backend. Nothing is dialed until Init.
func New(cfg config.InfluxConfig, runID string, log zerolog.Logger) *Backend {
	return &Backend{cfg: cfg, runID: runID, log: log}
}

// Init connects to the server or, failing that, opens the backup file.
func (b *Backend) Init() error {
	b.client = influxdb2.NewClientWithOptions(
		b.cfg.URL(),
		b.cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(2500).
			SetFlushInterval(1000),
	)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	running, err := b.client.Ping(ctx)
	if err != nil || !running {
		b.client.Close()
		b.client = nil
		b.log.Warn().Err(err).Str("backupPath", b.cfg.BackupPath).
			Msg("InfluxDB unreachable, writing to backup file")
		return b.openBackup()
	}

	if err := b.ensureBucket(); err != nil {
		return err
	}
	b.writer = b.client.WriteAPI(b.cfg.Org, b.cfg.Bucket)

	errorsCh := b.writer.Errors()
	b.errs.Add(1)
	go func() {
		defer b.errs.Done()
		for writeErr := range errorsCh {
			b.log.Error().Err(writeErr).Str("bucket", b.cfg.Bucket).
				Msg("Error sending data to InfluxDB")
		}
	}()

	b.log.Info().Str("url", b.cfg.URL()).Msg("InfluxDB client initialized")
	return nil
}

func (b *Backend) openBackup() error {
	if b.cfg.BackupPath == "" {
		return fmt.Errorf("influxDB unreachable and no backup path configured")
	}
	file, err := os.OpenFile(b.cfg.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error creating backup file: %w", err)
	}
	b.backupFile = file
	b.backupWriter = gzip.NewWriter(file)
	return nil
}

func (b *Backend) ensureBucket() error {
	ctx := context.Background()

	org, err := b.client.OrganizationsAPI().FindOrganizationByName(ctx, b.cfg.Org)
	if err != nil {
		b.log.Info().Str("org", b.cfg.Org).Msg("Organization not found, creating")
		org, err = b.client.OrganizationsAPI().CreateOrganizationWithName(ctx, b.cfg.Org)
		if err != nil {
			return fmt.Errorf("error creating organization %s: %w", b.cfg.Org, err)
		}
	}

	if _, err := b.client.BucketsAPI().FindBucketByName(ctx, b.cfg.Bucket); err != nil {
		b.log.Info().Str("bucket", b.cfg.Bucket).Msg("Bucket not found, creating")
		rule := domain.RetentionRuleTypeExpire
		_, err = b.client.BucketsAPI().CreateBucketWithName(ctx, org, b.cfg.Bucket, domain.RetentionRule{
			Type:         &rule,
			EverySeconds: retentionSeconds,
		})
		if err != nil {
			return fmt.Errorf("error creating bucket %s: %w", b.cfg.Bucket, err)
		}
	}
	return nil
}

// Online reports whether points go to the server rather than the backup file.
func (b *Backend) Online() bool {
	return b.writer != nil
}

// Close flushes pending points and releases the client or backup file.
func (b *Backend) Close() error {
	if b.writer != nil {
		b.writer.Flush()
	}
	if b.client != nil {
		b.client.Close()
		b.errs.Wait()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.backupWriter != nil {
		if err := b.backupWriter.Close(); err != nil {
			return fmt.Errorf("error closing backup writer: %w", err)
		}
		b.backupWriter = nil
		return b.backupFile.Close()
	}
	return nil
}

func (b *Backend) writePoint(p *influxdb2_write.Point) error {
	if b.writer != nil {
		b.writer.WritePoint(p)
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.backupWriter == nil {
		return fmt.Errorf("influxDB client not initialized and backup writer not available")
	}
	line := influxdb2_write.PointToLineProtocol(p, time.Nanosecond)
	if _, err := b.backupWriter.Write([]byte(line)); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %w", err)
	}
	return nil
}

func (b *Backend) RecordBattleStart(e *core.BattleStartEvent) error {
	return b.writePoint(BattleStartPoint(b.runID, e))
}

func (b *Backend) RecordBattleEnd(e *core.BattleEndEvent) error {
	return b.writePoint(BattleEndPoint(b.runID, e))
}

func (b *Backend) RecordRegimeChange(e *core.RegimeChangeEvent) error {
	return b.writePoint(RegimeChangePoint(b.runID, e))
}

func (b *Backend) RecordHazardDestroyed(e *core.HazardDestroyedEvent) error {
	return b.writePoint(HazardDestroyedPoint(b.runID, e))
}

func (b *Backend) RecordDayEnd(e *core.DayEndEvent) error {
	return b.writePoint(DayEndPoint(b.runID, e))
}
