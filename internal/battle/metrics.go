package battle

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/starhold/battlesim/internal/battle"


type metrics struct {
	battles          metric.Int64Counter
	turns            metric.Int64Counter
	attacks          metric.Int64Counter
	shots            metric.Int64Counter
	hits             metric.Int64Counter
	hazardsDestroyed metric.Int64Counter
}

func newMetrics(m metric.Meter) (*metrics, error) {
	if m == nil {
		m = otel.Meter(instrumentationName)
	}
	out := &metrics{}

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&out.battles, "battle.battles", "Battles started"},
		{&out.turns, "battle.turns", "Turns resolved"},
		{&out.attacks, "battle.attacks", "Attack attempts"},
		{&out.shots, "battle.shots", "Rounds fired"},
		{&out.hits, "battle.hits", "Rounds that hit"},
		{&out.hazardsDestroyed, "battle.hazards.destroyed", "Hazards broken by weapon fire"},
	}
	for _, c := range counters {
		counter, err := m.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("creating %s counter: %w", c.name, err)
		}
		*c.dst = counter
	}
	return out, nil
}

func (c *Controller) regionAttr() metric.AddOption {
	return metric.WithAttributes(attribute.String("region", string(c.session.region)))
}
