package social

import (
	"log/slog"
	"math"

	"github.com/talgya/starmarket/internal/catalog"
	"github.com/talgya/starmarket/internal/economy"
	"github.com/talgya/starmarket/internal/entropy"
)

// Population is the people of one settlement: they buy food and luxuries,
// sell their labour, and grow or starve.
type Population struct {
	num    int
	trader *economy.Trader
	class  catalog.BodyClass

	cat   *catalog.Catalog
	rules Rules
	rng   entropy.Source

	lastFamine bool
	lastLabour int
}

// NewPopulation creates num people holding moneyPerPerson each.
func NewPopulation(num int, moneyPerPerson float64, class catalog.BodyClass, deps Deps) *Population {
	if num < 0 {
		num = 0
	}
	if num > deps.Rules.MaxPopulation {
		num = deps.Rules.MaxPopulation
	}
	return &Population{
		num:    num,
		trader: economy.NewTrader(moneyPerPerson*float64(num), 0, economy.EntityPopulation),
		class:  class,
		cat:    deps.Catalog,
		rules:  deps.Rules,
		rng:    deps.Rand,
	}
}

// Update consumes then works. Returns true if the staple ran short.
func (p *Population) Update(m *economy.Market) bool {
	famine := p.consume(m)
	p.work(m)
	p.lastFamine = famine
	return famine
}

// demand converts a per-capita coefficient into whole units, realizing the
// fractional part as a random extra unit.
func (p *Population) demand(coeff float64) int {
	return entropy.Round(p.rng, float64(p.num)*coeff)
}

func (p *Population) consume(m *economy.Market) bool {
	famine := false
	staple := p.cat.Staple()

	if want := p.demand(p.cat.Consumption(staple, p.class)); want > 0 {
		got := m.Buy(staple, want, p.trader)
		if got < want {
			loss := int(math.Ceil(float64(p.num) * p.rules.GrowthRate))
			p.num -= min(loss, p.num)
			famine = true

			reason := "unknown"
			if p.trader.Money() < m.Price(staple) {
				reason = "no money"
			} else if m.Items(staple) == 0 {
				reason = "no stock"
			}
			slog.Debug("famine", "good", staple, "need", want, "bought", got, "reason", reason)
		} else {
			p.num += entropy.Round(p.rng, float64(p.num)*p.rules.GrowthRate)
			p.num = min(p.num, p.rules.MaxPopulation)
		}
	}

	if !famine {
		for _, lux := range p.cat.Luxuries(p.class) {
			if want := p.demand(p.cat.Consumption(lux, p.class)); want > 0 {
				m.Buy(lux, want, p.trader)
			}
		}
	}

	// Everything bought this cycle is eaten or used up.
	p.trader.ClearAll()
	return famine
}

func (p *Population) work(m *economy.Market) {
	labour := int(float64(p.num) * p.rules.LabourPerCitizen)
	p.lastLabour = labour
	if labour == 0 {
		return
	}
	p.trader.AddToStorage(economy.Labour, labour)
	sold := m.Sell(economy.Labour, labour, p.trader)
	if sold != labour {
		slog.Warn("market refused labour", "offered", labour, "sold", sold)
		p.trader.ClearGood(economy.Labour)
	}
}

// Num returns the head count.
func (p *Population) Num() int {
	return p.num
}

// Money returns the population's savings.
func (p *Population) Money() float64 {
	return p.trader.Money()
}

// AddMoney adds to savings.
func (p *Population) AddMoney(v float64) {
	p.trader.AddMoney(v)
}

// RemoveMoney takes up to v from savings and returns what was taken.
func (p *Population) RemoveMoney(v float64) float64 {
	return p.trader.RemoveMoney(v)
}

// AddPeople grows the population, capped at the maximum. Returns the
// number actually added.
func (p *Population) AddPeople(n int) int {
	if n <= 0 {
		return 0
	}
	n = min(n, p.rules.MaxPopulation-p.num)
	p.num += n
	return n
}

// RemovePeople shrinks the population. Returns the number removed.
func (p *Population) RemovePeople(n int) int {
	if n <= 0 {
		return 0
	}
	n = min(n, p.num)
	p.num -= n
	return n
}

// LastFamine reports whether the last update was a famine.
func (p *Population) LastFamine() bool {
	return p.lastFamine
}

// LastLabour returns the labour supplied in the last update.
func (p *Population) LastLabour() int {
	return p.lastLabour
}
