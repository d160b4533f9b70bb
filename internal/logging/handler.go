package logging

import (
	"context"
	"errors"
	"log/slog"

	"github.com/starhold/battlesim/pkg/core"
)

// Position is where the simulation stands when a record is logged.
type Position struct {
	Run    string
	Day    int
	Region core.RegionID
	Battle string
}

// Attrs returns the set fields as log attributes, outermost first.
func (p Position) Attrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, 4)
	if p.Run != "" {
		attrs = append(attrs, slog.String("run", p.Run))
	}
	if p.Day > 0 {
		attrs = append(attrs, slog.Int("day", p.Day))
	}
	if p.Region != "" {
		attrs = append(attrs, slog.String("region", string(p.Region)))
	}
	if p.Battle != "" {
		attrs = append(attrs, slog.String("battle", p.Battle))
	}
	return attrs
}

// PositionFunc reports the current Position. It is called once per record.
type PositionFunc func() Position

// simHandler stamps every record with the simulation position and hands a
// copy to each sink enabled for its level. A failing sink does not keep the
// record from the others.
type simHandler struct {
	sinks    []slog.Handler
	position PositionFunc
}

func newSimHandler(position PositionFunc, sinks ...slog.Handler) *simHandler {
	h := &simHandler{position: position}
	for _, s := range sinks {
		if s != nil {
			h.sinks = append(h.sinks, s)
		}
	}
	return h
}

func (h *simHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range h.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *simHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.position != nil {
		r.AddAttrs(missing(r, h.position().Attrs())...)
	}
	var errs []error
	for _, s := range h.sinks {
		if !s.Enabled(ctx, r.Level) {
			continue
		}
		if err := s.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// missing drops the attrs whose key the record already carries, so engine
// calls that log their own region or battle are not doubled.
func missing(r slog.Record, attrs []slog.Attr) []slog.Attr {
	if len(attrs) == 0 || r.NumAttrs() == 0 {
		return attrs
	}
	have := make(map[string]bool, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		have[a.Key] = true
		return true
	})
	out := attrs[:0]
	for _, a := range attrs {
		if !have[a.Key] {
			out = append(out, a)
		}
	}
	return out
}

func (h *simHandler) derive(fn func(slog.Handler) slog.Handler) *simHandler {
	sinks := make([]slog.Handler, len(h.sinks))
	for i, s := range h.sinks {
		sinks[i] = fn(s)
	}
	return &simHandler{sinks: sinks, position: h.position}
}

func (h *simHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(s slog.Handler) slog.Handler { return s.WithAttrs(attrs) })
}

func (h *simHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return h.derive(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}
