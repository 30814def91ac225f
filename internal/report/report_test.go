package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/starmarket/internal/agents"
	"github.com/talgya/starmarket/internal/catalog"
	"github.com/talgya/starmarket/internal/economy"
	"github.com/talgya/starmarket/internal/entropy"
	"github.com/talgya/starmarket/internal/social"
	"github.com/talgya/starmarket/internal/trade"
	"github.com/talgya/starmarket/internal/world"
)

func testInput(t *testing.T) Input {
	t.Helper()
	deps := social.Deps{
		Catalog: catalog.Default(),
		Rules:   social.DefaultRules(),
		Prices:  economy.DefaultPriceRules(),
		Rand:    entropy.New(5),
	}
	specs := []world.BodySpec{
		{Name: "Sol", Class: catalog.ClassStar, Mass: 1000},
		{Name: "Terra", Class: catalog.ClassRockyOxygen, Center: "Sol", Orbit: 100, Mass: 1, MarketLevel: 3,
			Stock: map[string]int{"Fruit": 12000}, Prices: map[string]float64{"Fruit": 1}},
		{Name: "Mars", Class: catalog.ClassRockyCarbonDioxide, Center: "Sol", Orbit: 150, Mass: 1, MarketLevel: 1,
			Prices: map[string]float64{"Fruit": 3}},
	}
	sys, err := world.Build(specs, func(b *world.Body, level int) *social.Settlement {
		return social.New(b.Name, b.Class, level, deps)
	})
	require.NoError(t, err)
	net := trade.NewNetwork(trade.DefaultMargin)
	net.Rebuild(sys.Settled())

	ship := agents.NewShip([16]byte{7}, "Osprey", sys.Body("Terra"), agents.DefaultFlightRules())
	return Input{Tick: 12345, Cycle: 3, SimSeconds: 1234.5, System: sys, Network: net, Ships: []*agents.Ship{ship}}
}

func TestBuild(t *testing.T) {
	r := Build(testInput(t))

	assert.Len(t, r.Bodies, 3)
	require.Len(t, r.Settlements, 2)
	assert.Equal(t, 325+205, r.TotalPopulation(), "5^level plus a base of 200")

	terra, ok := r.Settlement("Terra")
	require.True(t, ok)
	assert.Equal(t, "rocky_oxygen", terra.Class)
	assert.Equal(t, 3_000_000.0, terra.MarketMoney)
	var fruit GoodReport
	for _, g := range terra.Goods {
		if g.Good == "Fruit" {
			fruit = g
		}
	}
	assert.Equal(t, 12000, fruit.Quantity)
	assert.Equal(t, 1.0, fruit.Price)

	require.Len(t, r.Routes, 1)
	assert.Equal(t, "Terra", r.Routes[0].Origin)
	assert.Equal(t, "Mars", r.Routes[0].Destination)
	assert.InDelta(t, 2.0, r.Routes[0].Spread, 1e-9)

	require.Len(t, r.Ships, 1)
	assert.Equal(t, "Terra", r.Ships[0].Location)
	assert.Equal(t, "landed", r.Ships[0].State)

	_, ok = r.Settlement("Sol")
	assert.False(t, ok)
}

func TestBuildReadsLastCycle(t *testing.T) {
	in := testInput(t)
	terra := in.System.Body("Terra").Settlement()
	terra.Update()

	r := Build(in)
	sr, ok := r.Settlement("Terra")
	require.True(t, ok)
	var fruit GoodReport
	for _, g := range sr.Goods {
		if g.Good == "Fruit" {
			fruit = g
		}
	}
	assert.Positive(t, fruit.Consumption, "population ate last cycle")
	assert.Positive(t, fruit.Volume.Bought)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Build(testInput(t)).WriteText(&buf))
	out := buf.String()

	assert.Contains(t, out, "tick 12,345")
	assert.Contains(t, out, "== Terra (rocky_oxygen)")
	assert.Contains(t, out, "12,000")
	assert.Contains(t, out, "== routes (1)")
	assert.Contains(t, out, "Osprey")
}
