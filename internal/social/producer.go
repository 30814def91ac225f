package social

import (
	"math"

	"github.com/talgya/starmarket/internal/economy"
	"github.com/talgya/starmarket/internal/entropy"
)

// Producer turns inputs and labour into one output good. Its level grows
// when the settlement funds it and shrinks when it cannot sell.
type Producer struct {
	good   string
	trader *economy.Trader
	level  int

	lastProduced int
	lastSold     int
}

// NewProducer creates a level-1 producer with starting capital.
func NewProducer(good string, capital float64) *Producer {
	return &Producer{
		good:   good,
		trader: economy.NewTrader(capital, 0, economy.EntityIndustry),
		level:  1,
	}
}

// Good returns the output good.
func (p *Producer) Good() string { return p.good }

// Level returns the capacity level (>= 1).
func (p *Producer) Level() int { return p.level }

// Money returns the producer's working capital.
func (p *Producer) Money() float64 { return p.trader.Money() }

// LastProduced returns units made in the last cycle.
func (p *Producer) LastProduced() int { return p.lastProduced }

// LastSold returns units sold in the last cycle.
func (p *Producer) LastSold() int { return p.lastSold }

// Enhance adds capital and raises the level by one.
func (p *Producer) Enhance(money float64) {
	p.trader.AddMoney(money)
	p.level++
}

// Deenhance lowers the level by one and releases one level of capital,
// if the producer is above level 1 and holds more than that capital.
// Returns the released money.
func (p *Producer) Deenhance(capital float64) float64 {
	if p.level <= 1 || p.trader.Money() <= capital {
		return 0
	}
	p.level--
	return p.trader.RemoveMoney(capital)
}

// UnitCost returns what the inputs for one unit cost at m's prices.
func (p *Producer) UnitCost(m *economy.Market, s *Settlement) float64 {
	return s.deps.Catalog.UnitCost(p.good, s.class, m.Price)
}

// Produce runs one production cycle against m and returns units sold.
//
// Output is limited by the scarcest input: each input supports
// obtained/required units and the smallest of those wins.
func (p *Producer) Produce(m *economy.Market, s *Settlement) int {
	p.lastProduced, p.lastSold = 0, 0
	cat := s.deps.Catalog
	inputs := cat.Inputs(p.good, s.class)

	unitCost := cat.UnitCost(p.good, s.class, m.Price)
	if m.Price(p.good) < unitCost || unitCost <= 0 {
		return 0
	}

	volume := math.Floor(p.trader.Money() / unitCost)
	if limit := cat.ProductionCap(p.good, s.class); limit > 0 && volume > limit {
		volume = limit
	}
	if labourCap := cat.LabourCap(p.good, s.class); labourCap > 0 {
		if perUnit := inputs[economy.Labour]; perUnit > 0 {
			volume = math.Min(volume, math.Floor(labourCap/perUnit))
		}
	}
	if volume <= 0 {
		return p.sellStock(m)
	}

	obtained := make(map[string]int, len(inputs))
	base := math.Inf(1)
	for _, in := range cat.InputNames(p.good) {
		q, ok := inputs[in]
		if !ok {
			continue
		}
		want := int(math.Ceil(volume*q - 1e-9))
		got := m.Buy(in, want, p.trader)
		obtained[in] = got
		base = math.Min(base, float64(got)/q)
	}
	if math.IsInf(base, 1) {
		base = 0
	}
	base = math.Floor(base + 1e-9)

	// Return what the bottleneck left unused.
	for in, got := range obtained {
		used := min(got, int(math.Ceil(base*inputs[in]-1e-9)))
		if left := got - used; left > 0 {
			m.Refund(in, left, p.trader)
		}
		p.trader.RemoveFromStorage(in, used)
	}

	scaled := base * (1 + float64(p.level-1)*s.deps.Rules.LevelBonus)
	// The fractional bonus is drawn, but never past the bottleneck bound.
	made := min(entropy.Round(s.deps.Rand, scaled), int(math.Floor(scaled+1e-9)))
	if made > 0 {
		p.trader.AddToStorage(p.good, made)
	}
	p.lastProduced = made

	sold := p.sellStock(m)
	p.trader.ClearGood(economy.Labour)
	return sold
}

func (p *Producer) sellStock(m *economy.Market) int {
	have := p.trader.Items(p.good)
	if have == 0 {
		return 0
	}
	sold := m.Sell(p.good, have, p.trader)
	p.lastSold = sold
	return sold
}
