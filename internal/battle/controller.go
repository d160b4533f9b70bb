package battle

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"github.com/starhold/battlesim/pkg/core"
)

// Dependencies holds all dependencies for a Controller.
type Dependencies struct {
	World    World
	Recorder Recorder
	Logger   Logger
	Rand     Rand
	Config   Config
	// Meter is optional; the global OTel meter is used when nil.
	Meter metric.Meter
}

// session is the state of one battle. It lives from Load until Simulate returns
// and holds pointers into the world model only for that span.
type session struct {
	id     string
	region core.RegionID

	fighting []core.FactionID
	hostile  bool // at least one faction wants to fight

	roster  []*core.Unit // frozen at Load
	viable  []*core.Unit // shrinks as units drop out
	targets []*core.Unit // every unit in the region
	hazards *hazardRegistry

	turn        int
	activeTurns int
	regime      core.Regime
	regimeStart int

	homeEngaged bool
	recheck     bool
}

// Controller runs battles for one region at a time. It is not safe for
// concurrent use.
type Controller struct {
	world    World
	recorder Recorder
	log      Logger
	rng      Rand
	cfg      Config
	metrics  *metrics

	state   State
	session *session
}

// New creates a Controller. Zero tunables in deps.Config take their
// defaults one by one.
func New(deps Dependencies) (*Controller, error) {
	if deps.World == nil {
		return nil, fmt.Errorf("battle: world is required")
	}

	m, err := newMetrics(deps.Meter)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		world:    deps.World,
		recorder: deps.Recorder,
		log:      deps.Logger,
		rng:      deps.Rand,
		cfg:      deps.Config,
		metrics:  m,
	}
	if c.recorder == nil {
		c.recorder = nopRecorder{}
	}
	if c.log == nil {
		c.log = nopLogger{}
	}
	if c.rng == nil {
		seed := uint64(time.Now().UnixNano())
		c.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	def := DefaultConfig()
	if c.cfg.LongTurnCap <= 0 {
		c.cfg.LongTurnCap = def.LongTurnCap
	}
	if c.cfg.ShortTurnCap <= 0 {
		c.cfg.ShortTurnCap = def.ShortTurnCap
	}
	if c.cfg.JamConstant <= 0 {
		c.cfg.JamConstant = def.JamConstant
	}
	if c.cfg.VolleyWindow <= 0 {
		c.cfg.VolleyWindow = def.VolleyWindow
	}
	if c.cfg.Preferences == (core.Preferences{}) {
		c.cfg.Preferences = core.DefaultPreferences()
	}
	return c, nil
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Load snapshots a region: its units, the viable roster and the hazards that
// have arrived. Loading discards any previous session.
func (c *Controller) Load(region core.RegionID) {
	units := c.world.Units(region)

	s := &session{
		id:      uuid.NewString(),
		region:  region,
		targets: units,
		hazards: newHazardRegistry(c.world.Hazards(region)),
		regime:  core.RegimeFactions,
	}
	for _, u := range units {
		if u.Viable() {
			s.roster = append(s.roster, u)
		}
	}
	s.viable = append([]*core.Unit(nil), s.roster...)

	c.session = s
	c.state = StateLoaded

	c.log.Debug("region loaded",
		"region", region,
		"battle", s.id,
		"units", len(units),
		"viable", len(s.viable),
		"hazards", s.hazards.Len(),
	)
}

// HasBattle re-derives the fighting factions and reports whether any remain.
// It does not change the session.
func (c *Controller) HasBattle() bool {
	if c.session == nil || c.state == StateDone {
		return false
	}
	fighting, _ := c.discover(c.session.recheck)
	return len(fighting) > 0
}

// Simulate runs turns until the battle resolves or the turn cap is hit. A
// battle that does not converge is logged, not returned as an error.
func (c *Controller) Simulate() Summary {
	s := c.session
	if s == nil || c.state != StateLoaded {
		return Summary{}
	}
	defer c.finish()

	summary := Summary{BattleID: s.id, Region: s.region, Converged: true}
	if !c.refreshFighting() {
		summary.Regime = s.regime
		return summary
	}

	c.state = StateRunning
	c.recordStart()

	ctx := context.Background()
	attrs := c.regionAttr()
	c.metrics.battles.Add(ctx, 1, attrs)

	for {
		if c.capReached() {
			summary.Converged = false
			c.log.Warn("battle did not converge",
				"region", s.region,
				"battle", s.id,
				"turns", s.turn,
				"activeTurns", s.activeTurns,
				"regime", s.regime,
				"turnCap", c.turnCap(),
			)
			break
		}

		s.turn++
		attempts := c.runTurn()
		c.metrics.turns.Add(ctx, 1, attrs)
		if attempts == 0 {
			c.log.Debug("no unit could attack, ending battle", "region", s.region, "turn", s.turn)
			break
		}
		s.activeTurns++

		if !c.refreshFighting() {
			break
		}
	}

	summary.Turns = s.turn
	summary.ActiveTurns = s.activeTurns
	summary.Regime = s.regime
	c.recordEnd(summary)
	return summary
}

func (c *Controller) finish() {
	c.session = nil
	c.state = StateDone
}

// refreshFighting re-derives the fighting set, consumes a pending forced
// re-check and switches regime when only hazards are left to shoot at.
func (c *Controller) refreshFighting() bool {
	s := c.session
	s.fighting, s.hostile = c.discover(s.recheck)
	s.recheck = false
	if len(s.fighting) == 0 {
		return false
	}

	regime := core.RegimeFactions
	if !s.hostile && s.hazards.Len() > 0 {
		regime = core.RegimeHazards
	}
	if regime != s.regime {
		c.switchRegime(regime)
	}
	return true
}

func (c *Controller) turnCap() int {
	if c.session.regime == core.RegimeHazards {
		return c.cfg.ShortTurnCap
	}
	return c.cfg.LongTurnCap
}

// capReached reports whether the active regime has used up its turns. The
// short cap counts from the latest switch into hazard-only mode; the long cap
// always counts from the first turn.
func (c *Controller) capReached() bool {
	s := c.session
	return s.turn-s.regimeStart >= c.turnCap()
}

func (c *Controller) switchRegime(to core.Regime) {
	s := c.session
	from := s.regime
	s.regime = to
	if to == core.RegimeHazards {
		s.regimeStart = s.turn
	} else {
		s.regimeStart = 0
	}
	if c.state != StateRunning {
		// the start event carries the initial regime
		return
	}

	c.log.Info("turn cap regime changed",
		"region", s.region,
		"battle", s.id,
		"turn", s.turn,
		"from", from,
		"to", to,
	)
	err := c.recorder.RecordRegimeChange(&core.RegimeChangeEvent{
		BattleID: s.id,
		Region:   s.region,
		Time:     time.Now(),
		Turn:     s.turn,
		From:     from,
		To:       to,
		TurnCap:  c.turnCap(),
	})
	if err != nil {
		c.log.Error("failed to record regime change", "battle", s.id, "error", err)
	}
}

func (c *Controller) recordStart() {
	s := c.session
	e := &core.BattleStartEvent{
		BattleID: s.id,
		Region:   s.region,
		Time:     time.Now(),
		Factions: append([]core.FactionID(nil), s.fighting...),
		Regime:   s.regime,
	}
	for _, u := range s.roster {
		e.Units = append(e.Units, u.ID)
	}
	for _, h := range s.hazards.list {
		e.Hazards = append(e.Hazards, h.ID)
	}

	c.log.Info("battle started",
		"region", s.region,
		"battle", s.id,
		"factions", len(e.Factions),
		"units", len(e.Units),
		"hazards", len(e.Hazards),
	)
	if err := c.recorder.RecordBattleStart(e); err != nil {
		c.log.Error("failed to record battle start", "battle", s.id, "error", err)
	}
}

func (c *Controller) recordEnd(summary Summary) {
	c.log.Info("battle ended",
		"region", summary.Region,
		"battle", summary.BattleID,
		"turns", summary.Turns,
		"activeTurns", summary.ActiveTurns,
		"converged", summary.Converged,
	)
	err := c.recorder.RecordBattleEnd(&core.BattleEndEvent{
		BattleID:    summary.BattleID,
		Region:      summary.Region,
		Time:        time.Now(),
		Turns:       summary.Turns,
		ActiveTurns: summary.ActiveTurns,
		Converged:   summary.Converged,
		Regime:      summary.Regime,
	})
	if err != nil {
		c.log.Error("failed to record battle end", "battle", summary.BattleID, "error", err)
	}
}
