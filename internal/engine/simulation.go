// Simulation ties together all world systems and runs them each tick.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/talgya/starmarket/internal/agents"
	"github.com/talgya/starmarket/internal/catalog"
	"github.com/talgya/starmarket/internal/economy"
	"github.com/talgya/starmarket/internal/entropy"
	"github.com/talgya/starmarket/internal/report"
	"github.com/talgya/starmarket/internal/social"
	"github.com/talgya/starmarket/internal/trade"
	"github.com/talgya/starmarket/internal/world"
)

// Rules are the cadence and colonization constants of the simulation.
type Rules struct {
	TickSeconds  float64       `yaml:"tick_seconds"`
	Interval     time.Duration `yaml:"interval"`
	Speed        float64       `yaml:"speed"`
	EconomyEvery float64       `yaml:"economy_every"`
	SpawnEvery   float64       `yaml:"spawn_every"`
	InitialShips int           `yaml:"initial_ships"`

	// Colonists prefer an existing settlement at least this happy.
	MigrationHappiness float64 `yaml:"migration_happiness"`
	// Share of people and savings that leave on colonization.
	MigrationShare float64 `yaml:"migration_share"`
	// Bodies at or above this mass cannot be colonised.
	MassCeiling float64 `yaml:"mass_ceiling"`

	EventLimit int `yaml:"event_limit"` // Recent events kept in memory
}

// DefaultRules returns the standard cadence and colonization constants.
func DefaultRules() Rules {
	return Rules{
		TickSeconds:        0.1,
		Interval:           100 * time.Millisecond,
		Speed:              1.0,
		EconomyEvery:       10,
		SpawnEvery:         30,
		InitialShips:       5,
		MigrationHappiness: 0.7,
		MigrationShare:     0.2,
		MassCeiling:        10,
		EventLimit:         1000,
	}
}

// Recorder stores a cycle report, e.g. in the history log.
type Recorder interface {
	Record(ctx context.Context, r *report.Report, events []report.Event) error
}

// Options configure a new Simulation.
type Options struct {
	Catalog    *catalog.Catalog
	Settlement social.Rules
	Prices     economy.PriceRules
	Flight     agents.FlightRules
	Rules      Rules
	Margin     float64
	Seed       int64
	Recorder   Recorder // Optional
}

// Simulation holds the complete world state and wires systems together.
// Exported fields must only be touched under the simulation lock; observers
// use Snapshot.
type Simulation struct {
	mu sync.RWMutex

	System   *world.System
	Network  *trade.Network
	Ships    []*agents.Ship
	Events   []report.Event // Recent events, trimmed to Rules.EventLimit
	LastTick uint64
	Cycle    uint64

	Stats SimStats

	opts    Options
	rng     *entropy.Rand
	spawner *agents.Spawner
	pending []report.Event // Raised since the last recorded cycle
	simTime float64
}

// SimStats tracks aggregate statistics, refreshed each cycle.
type SimStats struct {
	TotalPopulation int     `json:"total_population"`
	TotalMoney      float64 `json:"total_money"`
	Settlements     int     `json:"settlements"`
	Famines         int     `json:"famines"`
	Colonies        int     `json:"colonies"` // Founded since start
	Deliveries      int     `json:"deliveries"`
	AvgHappiness    float64 `json:"avg_happiness"`
}

// NewSimulation builds the solar system from specs and seeds the fleet.
func NewSimulation(specs []world.BodySpec, opts Options) (*Simulation, error) {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	s := &Simulation{
		opts:    opts,
		rng:     entropy.New(opts.Seed),
		Network: trade.NewNetwork(opts.Margin),
	}
	s.spawner = agents.NewSpawner(s.rng.Child(), opts.Flight)

	sys, err := world.Build(specs, s.foundSettlement)
	if err != nil {
		return nil, fmt.Errorf("build system: %w", err)
	}
	s.System = sys
	s.Network.Rebuild(sys.Settled())

	for i := 0; i < opts.Rules.InitialShips; i++ {
		if err := s.SpawnShips(); err != nil {
			return nil, err
		}
	}
	s.updateStats()
	return s, nil
}

// foundSettlement creates a settlement on b. Each settlement owns its own
// random source so parallel updates stay reproducible.
func (s *Simulation) foundSettlement(b *world.Body, level int) *social.Settlement {
	deps := social.Deps{
		Catalog: s.opts.Catalog,
		Rules:   s.opts.Settlement,
		Prices:  s.opts.Prices,
		Rand:    s.rng.Child(),
	}
	return social.New(b.Name, b.Class, level, deps)
}

// CurrentTick returns the most recently processed tick number.
func (s *Simulation) CurrentTick() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastTick
}

// CurrentCycle returns the number of completed economy cycles.
func (s *Simulation) CurrentCycle() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Cycle
}

// TickFrame runs every tick: orbital motion, then ships.
func (s *Simulation) TickFrame(tick uint64, dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastTick = tick
	s.simTime += dt
	s.AdvanceOrbits(dt)
	s.UpdateShips(dt)
}

// TickEconomy runs on the economy cadence.
func (s *Simulation) TickEconomy(ctx context.Context, tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.AdvanceSettlements(ctx); err != nil {
		slog.Error("economy cycle failed", "tick", tick, "error", err)
	}
}

// TickSpawn runs on the spawn cadence.
func (s *Simulation) TickSpawn(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.SpawnShips(); err != nil {
		slog.Warn("ship spawn failed", "tick", tick, "error", err)
	}
}

// AdvanceOrbits moves every body by dt simulated seconds.
func (s *Simulation) AdvanceOrbits(dt float64) {
	s.System.AdvanceOrbits(dt)
}

// AdvanceSettlements runs one economy cycle. Settlements update in parallel,
// colonization is resolved one settlement at a time, and the trade network
// is rebuilt only after every settlement has finished.
func (s *Simulation) AdvanceSettlements(ctx context.Context) error {
	settled := s.System.Settled()
	colonize := make([]bool, len(settled))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, b := range settled {
		i, b := i, b
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			colonize[i] = b.Settlement().Update()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("update settlements: %w", err)
	}

	for i, b := range settled {
		if b.Settlement().Population().LastFamine() {
			s.event("famine", "famine on %s", b.Name)
		}
		if colonize[i] {
			s.colonize(b)
		}
	}

	s.Network.Rebuild(s.System.Settled())
	s.Cycle++
	s.updateStats()

	slog.Info("economy cycle",
		"cycle", s.Cycle,
		"tick", s.LastTick,
		"time", SimTime(s.simTime),
		"settlements", s.Stats.Settlements,
		"population", s.Stats.TotalPopulation,
		"famines", s.Stats.Famines,
		"routes", s.Network.Len(),
		"ships", len(s.Ships),
		"avg_happiness", fmt.Sprintf("%.3f", s.Stats.AvgHappiness),
	)

	if s.opts.Recorder != nil {
		if err := s.opts.Recorder.Record(ctx, s.report(), s.pending); err != nil {
			slog.Warn("record cycle", "cycle", s.Cycle, "error", err)
		} else {
			s.pending = s.pending[:0]
		}
	}
	s.trimEvents()
	return nil
}

// Snapshot returns a read-only report of the current state.
func (s *Simulation) Snapshot() *report.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report()
}

// StatsSnapshot returns the aggregate statistics of the last cycle.
func (s *Simulation) StatsSnapshot() SimStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Stats
}

func (s *Simulation) report() *report.Report {
	return report.Build(report.Input{
		Tick:       s.LastTick,
		Cycle:      s.Cycle,
		SimSeconds: s.simTime,
		System:     s.System,
		Network:    s.Network,
		Ships:      s.Ships,
		Events:     append([]report.Event(nil), s.Events...),
	})
}

func (s *Simulation) event(category, format string, args ...any) {
	e := report.Event{Tick: s.LastTick, Description: fmt.Sprintf(format, args...), Category: category}
	s.Events = append(s.Events, e)
	if s.opts.Recorder != nil {
		s.pending = append(s.pending, e)
	}
}

func (s *Simulation) trimEvents() {
	limit := s.opts.Rules.EventLimit
	if limit > 0 && len(s.Events) > limit {
		s.Events = append([]report.Event(nil), s.Events[len(s.Events)-limit:]...)
	}
}

func (s *Simulation) updateStats() {
	st := SimStats{Colonies: s.Stats.Colonies, Deliveries: s.Stats.Deliveries}
	totalHappiness := 0.0
	for _, b := range s.System.Settled() {
		sett := b.Settlement()
		st.Settlements++
		st.TotalPopulation += sett.Population().Num()
		st.TotalMoney += sett.Population().Money()
		totalHappiness += sett.Happiness()
		if sett.Population().LastFamine() {
			st.Famines++
		}
	}
	if st.Settlements > 0 {
		st.AvgHappiness = totalHappiness / float64(st.Settlements)
	}
	s.Stats = st
}
