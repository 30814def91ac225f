package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/starmarket/internal/agents"
	"github.com/talgya/starmarket/internal/catalog"
	"github.com/talgya/starmarket/internal/economy"
	"github.com/talgya/starmarket/internal/entropy"
	"github.com/talgya/starmarket/internal/report"
	"github.com/talgya/starmarket/internal/social"
	"github.com/talgya/starmarket/internal/trade"
	"github.com/talgya/starmarket/internal/world"
)

func TestEngineCadence(t *testing.T) {
	e := NewEngine()
	e.TickSeconds = 0.1
	e.EconomyEvery = 1
	e.SpawnEvery = 2

	var ticks, economy, spawns int
	var dts float64
	e.OnTick = func(_ uint64, dt float64) { ticks++; dts += dt }
	e.OnEconomy = func(uint64) { economy++ }
	e.OnSpawn = func(uint64) { spawns++ }

	for i := 0; i < 20; i++ {
		e.Step()
	}
	assert.Equal(t, 20, ticks)
	assert.Equal(t, 2, economy)
	assert.Equal(t, 1, spawns)
	assert.InDelta(t, 2.0, dts, 1e-9)
	assert.InDelta(t, 2.0, e.SimSeconds(), 1e-9)
}

func TestEngineRunStopsOnCancel(t *testing.T) {
	e := NewEngine()
	e.Interval = time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	e.OnTick = func(tick uint64, _ float64) {
		if tick == 3 {
			cancel()
		}
	}

	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop")
	}
	assert.Equal(t, uint64(3), e.Tick)
}

func TestSimTime(t *testing.T) {
	assert.Equal(t, "Day 1, 0:00:00", SimTime(0))
	assert.Equal(t, "Day 2, 1:01:05", SimTime(86400+3665))
}

type memRecorder struct {
	mu      sync.Mutex
	reports []*report.Report
	events  int
}

func (m *memRecorder) Record(_ context.Context, r *report.Report, events []report.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, r)
	m.events += len(events)
	return nil
}

func testSpecs() []world.BodySpec {
	return []world.BodySpec{
		{Name: "Sol", Class: catalog.ClassStar, Mass: 1000},
		{Name: "Terra", Class: catalog.ClassRockyOxygen, Center: "Sol", Orbit: 100, Speed: 0.01, Mass: 1, MarketLevel: 3,
			Stock: map[string]int{"Fruit": 5000}, Prices: map[string]float64{"Fruit": 1}},
		{Name: "Mars", Class: catalog.ClassRockyCarbonDioxide, Center: "Sol", Orbit: 150, Speed: 0.005, Mass: 1, MarketLevel: 1,
			Prices: map[string]float64{"Fruit": 3}},
		{Name: "Luna", Class: catalog.ClassRockyNoAtmosphere, Center: "Terra", Orbit: 10, Speed: 0.1, Mass: 0.1},
		{Name: "Jove", Class: catalog.ClassGasGiant, Center: "Sol", Orbit: 400, Mass: 300},
	}
}

func testSim(t *testing.T, rec Recorder) *Simulation {
	t.Helper()
	rules := DefaultRules()
	rules.InitialShips = 2
	sim, err := NewSimulation(testSpecs(), Options{
		Catalog:    catalog.Default(),
		Settlement: social.DefaultRules(),
		Prices:     economy.DefaultPriceRules(),
		Flight:     agents.DefaultFlightRules(),
		Rules:      rules,
		Margin:     trade.DefaultMargin,
		Seed:       11,
		Recorder:   rec,
	})
	require.NoError(t, err)
	return sim
}

func TestNewSimulation(t *testing.T) {
	sim := testSim(t, nil)

	assert.Len(t, sim.System.Settled(), 2)
	assert.Len(t, sim.Ships, 2)
	require.Equal(t, 1, sim.Network.Len(), "Terra fruit sells higher on Mars")
	assert.Equal(t, "Mars", sim.Network.Routes()[0].Destination.Name)
	assert.Equal(t, 325+205, sim.Stats.TotalPopulation)
}

func TestAdvanceSettlements(t *testing.T) {
	rec := &memRecorder{}
	sim := testSim(t, rec)

	for i := 0; i < 3; i++ {
		require.NoError(t, sim.AdvanceSettlements(context.Background()))
	}
	assert.Equal(t, uint64(3), sim.Cycle)
	require.Len(t, rec.reports, 3)
	assert.Equal(t, uint64(3), rec.reports[2].Cycle)
	assert.Equal(t, uint64(3), sim.Network.Cycle()-1, "rebuilt once per cycle after the initial build")
	for _, b := range sim.System.Settled() {
		assert.Equal(t, uint64(3), b.Settlement().Cycles())
	}
}

func TestAdvanceSettlementsCancelled(t *testing.T) {
	sim := testSim(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sim.AdvanceSettlements(ctx), context.Canceled)
	assert.Zero(t, sim.Cycle)
}

func TestColonizePrefersHappySettlement(t *testing.T) {
	sim := testSim(t, nil)
	terra, mars := sim.System.Body("Terra"), sim.System.Body("Mars")
	moneyBefore := terra.Settlement().Population().Money()

	sim.colonize(terra)

	assert.Equal(t, 325-65, terra.Settlement().Population().Num())
	assert.Equal(t, 205+65, mars.Settlement().Population().Num())
	assert.InDelta(t, moneyBefore*0.8, terra.Settlement().Population().Money(), 1e-6)
	assert.False(t, sim.System.Body("Luna").HasMarket())
	assert.Zero(t, sim.Stats.Colonies)
}

func TestColonizeFoundsColony(t *testing.T) {
	sim := testSim(t, nil)
	sim.opts.Rules.MigrationHappiness = 1.0 // nobody is happier than 1

	terra := sim.System.Body("Terra")
	sim.colonize(terra)

	luna := sim.System.Body("Luna")
	require.True(t, luna.HasMarket(), "only colonizable body left")
	assert.Equal(t, 201+65, luna.Settlement().Population().Num())
	assert.Equal(t, 1, sim.Stats.Colonies)
	require.NotEmpty(t, sim.Events)
	assert.Equal(t, "colony", sim.Events[len(sim.Events)-1].Category)
}

func TestSpawnShipsFleetFull(t *testing.T) {
	sim := testSim(t, nil)
	sim.opts.Flight.FleetCap = len(sim.Ships)
	sim.spawner = agents.NewSpawner(entropy.New(3), sim.opts.Flight)

	require.NoError(t, sim.SpawnShips())
	assert.Len(t, sim.Ships, 2)
}

func TestSnapshotAndTicks(t *testing.T) {
	sim := testSim(t, nil)
	for tick := uint64(1); tick <= 50; tick++ {
		sim.TickFrame(tick, 0.1)
	}
	sim.TickEconomy(context.Background(), 50)
	sim.TickSpawn(50)

	snap := sim.Snapshot()
	assert.Equal(t, uint64(50), snap.Tick)
	assert.Equal(t, uint64(1), snap.Cycle)
	assert.InDelta(t, 5.0, snap.SimSeconds, 1e-9)
	assert.Len(t, snap.Ships, 3)
	assert.Len(t, snap.Bodies, 5)
	assert.Equal(t, uint64(50), sim.CurrentTick())
}
