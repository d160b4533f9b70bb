package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/starhold/battlesim/internal/battle"
	"github.com/starhold/battlesim/internal/config"
	"github.com/starhold/battlesim/internal/daytick"
	"github.com/starhold/battlesim/internal/logging"
	intOtel "github.com/starhold/battlesim/internal/otel"
	"github.com/starhold/battlesim/internal/scenario"
	"github.com/starhold/battlesim/internal/storage"
	"github.com/starhold/battlesim/pkg/core"
)

// session holds everything opened for one run, closed in reverse order.
type session struct {
	logs    *logging.SlogManager
	log     *slog.Logger
	storLog zerolog.Logger
	otel    *intOtel.Provider
	closers []io.Closer
}

func (s *session) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.otel != nil {
		if err := s.otel.Shutdown(ctx); err != nil {
			s.log.Warn("OTel shutdown failed", "error", err)
		}
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i].Close()
	}
}

func openLogFile(path string) (*os.File, error) {
	// keep the previous log of the same second around
	if _, err := os.Stat(path); err == nil {
		os.Rename(path, path+".old")
	}
	return os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
}

// setupSession loads config and brings up logging and telemetry. position
// supplies the run, day, region and battle attached to every log record.
func setupSession(position logging.PositionFunc) (*session, error) {
	s := &session{logs: logging.NewSlogManager()}

	cfgErr := config.Load(configDir())
	lc := config.GetLoggingConfig()

	if err := os.MkdirAll(lc.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs dir: %w", err)
	}
	logFile, err := openLogFile(logging.LogFilePath(lc.Dir, "battlesim", SessionStartTime))
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	s.closers = append(s.closers, logFile)

	storFile, err := openLogFile(logging.LogFilePath(lc.Dir, "battlesim-storage", SessionStartTime))
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to open storage log file: %w", err)
	}
	s.closers = append(s.closers, storFile)
	level, err := zerolog.ParseLevel(lc.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	s.storLog = zerolog.New(storFile).Level(level).With().Timestamp().Logger()

	opts := logging.Options{
		File:     io.MultiWriter(logFile, os.Stdout),
		Level:    lc.Level,
		Format:   lc.Format,
		Position: position,
	}

	if lc.GraylogEnabled {
		gw, err := logging.NewGraylogWriter(lc.GraylogAddress, "battlesim")
		if err != nil {
			fmt.Fprintln(os.Stderr, "graylog disabled:", err)
		} else {
			opts.GELF = gw
		}
	}

	oc := config.GetOTelConfig()
	otelCfg := intOtel.Config{
		Enabled:      oc.Enabled,
		ServiceName:  oc.ServiceName,
		BatchTimeout: oc.BatchTimeout,
		Endpoint:     oc.Endpoint,
		Insecure:     oc.Insecure,
	}
	if oc.Enabled {
		otelFile, err := openLogFile(logging.LogFilePath(lc.Dir, "battlesim-otel", SessionStartTime))
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to open otel log file: %w", err)
		}
		s.closers = append(s.closers, otelFile)
		otelCfg.LogWriter = otelFile

		metricsFile, err := openLogFile(logging.LogFilePath(lc.Dir, "battlesim-metrics", SessionStartTime))
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to open metrics file: %w", err)
		}
		s.closers = append(s.closers, metricsFile)
		otelCfg.MetricWriter = metricsFile
	}
	s.otel, err = intOtel.New(otelCfg)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to set up OTel: %w", err)
	}
	opts.Provider = s.otel.LoggerProvider()

	s.logs.Setup(opts)
	s.log = s.logs.Logger()

	if cfgErr != nil {
		s.log.Warn("Failed to load config, using defaults!", "error", cfgErr)
	} else {
		s.log.Info("Loaded config", "dir", configDir())
	}
	return s, nil
}

func runCommand(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("run: scenario file required")
	}
	days := 1
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return fmt.Errorf("run: invalid day count %q", args[1])
		}
		days = n
	}

	runID := uuid.NewString()
	var driver *daytick.Driver
	sess, err := setupSession(func() logging.Position {
		if driver == nil {
			return logging.Position{Run: runID}
		}
		return driver.Position()
	})
	if err != nil {
		return err
	}
	defer sess.Close()
	log := sess.log

	bc := config.GetBattleConfig()

	file, err := scenario.ReadFile(args[0])
	if err != nil {
		return err
	}
	if bc.HomeFaction != "" {
		file.Home = core.FactionID(bc.HomeFaction)
	}
	w, err := file.Build()
	if err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}
	log.Info("Scenario loaded",
		"name", file.Name,
		"home", w.HomeFaction(),
		"regions", len(w.Regions()),
		"factions", len(w.Factions()),
	)

	backend, err := storage.NewBackend(config.GetStorageConfig(), runID, sess.storLog)
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Error("Failed to close storage backend", "error", err)
		}
		if exp, ok := backend.(storage.Exporter); ok {
			for _, f := range exp.ExportedFiles() {
				log.Info("Exported", "file", f)
			}
		}
	}()

	seed := bc.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	log.Info("Run starting", "run", runID, "days", days, "seed", seed)

	driver, err = daytick.New(daytick.Dependencies{
		RunID:    runID,
		World:    w,
		Recorder: backend,
		Logger:   log,
		Rand:     rand.New(rand.NewPCG(seed, seed>>1)),
		Config: battle.Config{
			LongTurnCap:  bc.LongTurnCap,
			ShortTurnCap: bc.ShortTurnCap,
			JamConstant:  bc.JamConstant,
			VolleyWindow: bc.VolleyWindow,
			Preferences:  bc.Preferences,
		},
		Flusher: sess.otel,
		Meter:   sess.otel.Meter("github.com/starhold/battlesim"),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := driver.Run(ctx, days)
	for _, r := range results {
		fmt.Printf("day %d: %d battle(s), %d hazard(s) broken, %d landed, %d unit(s) removed\n",
			r.Day, len(r.Battles), r.Report.HazardsBroken, r.Report.HazardsLanded, r.Report.UnitsRemoved)
		for _, b := range r.Battles {
			fmt.Printf("  %-20s %s turns=%d active=%d converged=%t regime=%s\n",
				b.Region, b.BattleID[:8], b.Turns, b.ActiveTurns, b.Converged, b.Regime)
		}
	}
	if err != nil {
		return fmt.Errorf("run stopped after %d day(s): %w", len(results), err)
	}
	log.Info("Run finished", "run", runID, "days", len(results))
	return nil
}
