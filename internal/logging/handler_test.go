package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosition_Attrs(t *testing.T) {
	assert.Empty(t, Position{}.Attrs())

	attrs := Position{Run: "r1", Day: 2, Region: "mun", Battle: "b7"}.Attrs()
	require.Len(t, attrs, 4)
	assert.Equal(t, []string{"run", "day", "region", "battle"},
		[]string{attrs[0].Key, attrs[1].Key, attrs[2].Key, attrs[3].Key})

	attrs = Position{Run: "r1", Day: 3}.Attrs()
	require.Len(t, attrs, 2)
	assert.Equal(t, int64(3), attrs[1].Value.Int64())
}

func TestSetup_StampsPosition(t *testing.T) {
	var buf bytes.Buffer
	pos := Position{Run: "r1", Day: 4, Region: "mun-orbit"}
	m := NewSlogManager()
	m.Setup(Options{File: &buf, Level: "info", Position: func() Position { return pos }})

	m.Logger().Info("first")
	pos.Day, pos.Battle = 5, "b9"
	m.Logger().Info("second")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "run=r1")
	assert.Contains(t, lines[1], "day=4")
	assert.Contains(t, lines[1], "region=mun-orbit")
	assert.NotContains(t, lines[1], "battle=")
	assert.Contains(t, lines[2], "day=5")
	assert.Contains(t, lines[2], "battle=b9")
}

func TestSetup_PositionDoesNotDoubleRecordAttrs(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(Options{File: &buf, Level: "info", Position: func() Position {
		return Position{Day: 2, Region: "mun-orbit", Battle: "b1"}
	}})

	buf.Reset()
	m.Logger().Info("battle started", "region", "mun-orbit", "battle", "b1")

	line := buf.String()
	assert.Equal(t, 1, strings.Count(line, "region="))
	assert.Equal(t, 1, strings.Count(line, "battle="))
	assert.Contains(t, line, "day=2")
}

func TestSimHandler_FansOutByLevel(t *testing.T) {
	var info, debug bytes.Buffer
	h := newSimHandler(nil,
		nil,
		slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	require.Len(t, h.sinks, 2)
	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))

	logger := slog.New(h)
	logger.Debug("shot fired")
	logger.Info("battle ended")

	assert.NotContains(t, info.String(), "shot fired")
	assert.Contains(t, info.String(), "battle ended")
	assert.Contains(t, debug.String(), "shot fired")
	assert.Contains(t, debug.String(), "battle ended")
}

func TestSimHandler_NoSinks(t *testing.T) {
	assert.False(t, newSimHandler(nil).Enabled(context.Background(), slog.LevelError))
}

type failingSink struct {
	slog.Handler
}

func (failingSink) Enabled(context.Context, slog.Level) bool { return true }

func (failingSink) Handle(context.Context, slog.Record) error {
	return errors.New("sink down")
}

func TestSimHandler_FailingSinkDoesNotBlockOthers(t *testing.T) {
	var buf bytes.Buffer
	h := newSimHandler(nil, failingSink{}, slog.NewTextHandler(&buf, nil))

	err := h.Handle(context.Background(), slog.NewRecord(time.Time{}, slog.LevelInfo, "hazard landed", 0))
	assert.EqualError(t, err, "sink down")
	assert.Contains(t, buf.String(), "hazard landed")
}

func TestSimHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	h := newSimHandler(func() Position { return Position{Day: 1} }, slog.NewTextHandler(&buf, nil))

	assert.Same(t, h, h.WithGroup(""))

	logger := slog.New(h.WithAttrs([]slog.Attr{slog.String("unit", "7")}).WithGroup("shot"))
	logger.Info("hit", "component", "engine")

	assert.Contains(t, buf.String(), "unit=7")
	assert.Contains(t, buf.String(), "shot.component=engine")
	assert.Contains(t, buf.String(), "shot.day=1", "position lands in the open group")
}
