package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketDefaultPrice(t *testing.T) {
	m := NewMarket(0, DefaultPriceRules())
	assert.Equal(t, 1.0, m.Price("Fruit"))
	assert.Equal(t, 1.0, m.Price("anything"))
}

func TestMarketBuyClipsToBuyerMoney(t *testing.T) {
	m := NewMarket(1000, DefaultPriceRules())
	m.Stock("Fruit", 50)
	buyer := NewTrader(30, 100, EntityPopulation)

	k := m.Buy("Fruit", 100, buyer)
	require.Equal(t, 30, k)
	assert.Equal(t, 20, m.Items("Fruit"))
	assert.InDelta(t, 0, buyer.Money(), 1e-9)
	assert.Equal(t, 30, buyer.Items("Fruit"))
	assert.Equal(t, 30, m.Flows("Fruit").Consumption)
}

func TestMarketPriceRisesOnEmptyShelf(t *testing.T) {
	m := NewMarket(1000, DefaultPriceRules())
	buyer := NewTrader(100, 0, EntityPopulation)

	require.Equal(t, 0, m.Buy("Fruit", 10, buyer))
	m.UpdatePrices()

	assert.Greater(t, m.Price("Fruit"), 1.0)
	assert.InDelta(t, 1.1, m.Price("Fruit"), 1e-9)
}

func TestMarketPriceFallsOnSurplus(t *testing.T) {
	m := NewMarket(1000, DefaultPriceRules())
	seller := NewTrader(0, 0, EntityIndustry)
	seller.AddToStorage("Fruit", 40)

	require.Equal(t, 40, m.Sell("Fruit", 40, seller))
	m.UpdatePrices()

	assert.Less(t, m.Price("Fruit"), 1.0)
	assert.InDelta(t, 0.9, m.Price("Fruit"), 1e-9)
}

func TestMarketPriceStableOnMatchedTrade(t *testing.T) {
	m := NewMarket(1000, DefaultPriceRules())
	m.Stock("Fruit", 20)
	seller := NewTrader(0, 0, EntityIndustry)
	seller.AddToStorage("Fruit", 10)
	buyer := NewTrader(100, 0, EntityPopulation)

	require.Equal(t, 10, m.Sell("Fruit", 10, seller))
	require.Equal(t, 10, m.Buy("Fruit", 10, buyer))
	require.Equal(t, 20, m.Items("Fruit"))
	m.UpdatePrices()

	assert.Equal(t, 1.0, m.Price("Fruit"))
}

func TestMarketUntradedGoodKeepsPrice(t *testing.T) {
	m := NewMarket(1000, DefaultPriceRules())
	m.SetPrice("Ore", 3)
	m.UpdatePrices()
	assert.Equal(t, 3.0, m.Price("Ore"))
}

func TestMarketPriceFloor(t *testing.T) {
	rules := DefaultPriceRules()
	m := NewMarket(1e6, rules)
	m.SetPrice("Fruit", 0.011)
	seller := NewTrader(0, 0, EntityIndustry)
	seller.AddToStorage("Fruit", 5)

	m.Sell("Fruit", 5, seller)
	m.UpdatePrices()
	assert.Equal(t, rules.Floor, m.Price("Fruit"))
}

func TestMarketLabourIsCredit(t *testing.T) {
	m := NewMarket(0, DefaultPriceRules())
	pop := NewTrader(0, 0, EntityPopulation)
	pop.AddToStorage(Labour, 100)

	require.Equal(t, 100, m.Sell(Labour, 100, pop), "market must accept all labour without cash")
	assert.InDelta(t, 100, pop.Money(), 1e-9)
	assert.InDelta(t, 0, m.Money(), 1e-9)

	producer := NewTrader(60, 0, EntityIndustry)
	require.Equal(t, 60, m.Buy(Labour, 60, producer))
	assert.InDelta(t, 0, m.Money(), 1e-9)

	assert.Equal(t, 40, m.FixLabour())
	assert.Equal(t, 0, m.Items(Labour))
}

func TestMarketLabourCreditMatchesDelivery(t *testing.T) {
	m := NewMarket(1000, DefaultPriceRules())
	pop := NewTrader(0, 0, EntityPopulation)
	pop.AddToStorage(Labour, 10)

	require.Equal(t, 10, m.Sell(Labour, 100, pop))
	assert.InDelta(t, 10, pop.Money(), 1e-9)
	assert.InDelta(t, 990, m.Money(), 1e-9)
	assert.InDelta(t, 1000, m.Money()+pop.Money(), 1e-9, "no money created")
}

func TestMarketLedgerCategories(t *testing.T) {
	m := NewMarket(1e6, DefaultPriceRules())
	m.Stock("Ore", 100)

	industry := NewTrader(1000, 0, EntityIndustry)
	ship := NewTrader(1000, 0, EntityTrader)

	m.Buy("Ore", 30, industry)
	m.Refund("Ore", 10, industry)
	m.Buy("Ore", 5, ship)
	ship.AddToStorage("Fruit", 12)
	m.Sell("Fruit", 12, ship)

	ore := m.Flows("Ore")
	assert.Equal(t, 20, ore.Consumption)
	assert.Equal(t, 5, ore.Export)
	assert.Equal(t, 12, m.Flows("Fruit").Import)

	m.RollCycle()
	assert.Equal(t, 0, m.Flows("Ore").Consumption)
	assert.Equal(t, 20, m.LastCycle("Ore").Consumption)
	assert.Equal(t, Volume{Bought: 35, Sold: 10}, m.LastVolume("Ore"))
}
