package social

import (
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/talgya/starmarket/internal/catalog"
	"github.com/talgya/starmarket/internal/economy"
)

// Settlement is the economy of one celestial body: a market, the people
// living there, and at most one producer per good.
type Settlement struct {
	Name  string
	class catalog.BodyClass
	deps  Deps

	mu         sync.Mutex
	market     *economy.Market
	population *Population
	producers  map[string]*Producer

	happiness    float64
	unemployment float64
	cycles       uint64
}

// New creates a settlement seeded at the given market level. Higher
// levels start with more people, savings and market liquidity.
func New(name string, class catalog.BodyClass, level int, deps Deps) *Settlement {
	if level < 0 {
		level = 0
	}
	if level > deps.Rules.MaxLevel {
		slog.Warn("settlement level clamped", "settlement", name, "level", level, "max", deps.Rules.MaxLevel)
		level = deps.Rules.MaxLevel
	}

	people := int(math.Pow(5, float64(level))) + deps.Rules.BasePopulation
	return &Settlement{
		Name:       name,
		class:      class,
		deps:       deps,
		market:     economy.NewMarket(float64(level)*deps.Rules.MarketMoneyPerLevel, deps.Prices),
		population: NewPopulation(people, float64(level)*deps.Rules.MoneyPerPersonPerLevel, class, deps),
		producers:  make(map[string]*Producer),
		happiness:  1.0,
	}
}

// Update runs one economic cycle and reports whether the settlement wants
// to send colonists elsewhere.
func (s *Settlement) Update() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.deps.Rules
	s.market.UpdatePrices()
	s.market.RollCycle()
	s.cycles++

	found := false
	if s.population.Num() > r.MinActivePopulation {
		if s.population.Money() > r.LiquidityThreshold && s.market.Money() < r.LiquidityThreshold {
			s.market.AddMoney(s.population.RemoveMoney(r.LiquidityTransfer))
		}

		famine := s.population.Update(s.market)

		for _, p := range s.sortedProducers() {
			if sold := p.Produce(s.market, s); sold == 0 {
				if refund := p.Deenhance(r.ProducerCapital); refund > 0 {
					s.population.AddMoney(refund)
				}
			}
		}

		unemployed := s.market.FixLabour()
		s.unemployment = 0
		if supplied := s.population.LastLabour(); supplied > 0 {
			s.unemployment = math.Min(1, float64(unemployed)/float64(supplied))
		}

		happy := 1 - s.unemployment
		if famine {
			happy = 0
		}
		s.happiness = happy*r.HappinessWeight + s.happiness*(1-r.HappinessWeight)

		if s.population.Num() > r.ColonizePopulation && s.population.Money() > r.ColonizeMoney {
			if s.deps.Rand.Float64() < 1-s.happiness {
				found = true
			}
		}
	}

	s.createNewProducers()
	return found
}

// createNewProducers funds a producer, or another level of an existing one,
// for every good that sells above its input cost here.
func (s *Settlement) createNewProducers() {
	r := s.deps.Rules
	cat := s.deps.Catalog
	for _, good := range cat.Tradable() {
		if cat.ProductionCap(good, s.class) <= 0 {
			continue
		}
		if s.market.Price(good) <= cat.UnitCost(good, s.class, s.market.Price) {
			continue
		}
		if s.population.Money() <= r.ProducerCapital {
			continue
		}
		capital := s.population.RemoveMoney(r.ProducerCapital)
		if p, ok := s.producers[good]; ok {
			p.Enhance(capital)
		} else {
			s.producers[good] = NewProducer(good, capital)
		}
	}
}

func (s *Settlement) sortedProducers() []*Producer {
	out := make([]*Producer, 0, len(s.producers))
	for _, p := range s.producers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].good < out[j].good })
	return out
}

// WithMarket runs fn while holding the settlement lock, so transactions
// from ships never interleave with the settlement's own cycle.
func (s *Settlement) WithMarket(fn func(m *economy.Market)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.market)
}

// Market returns the settlement market. Callers outside the simulation
// goroutine must use WithMarket.
func (s *Settlement) Market() *economy.Market { return s.market }

// Population returns the settlement's people.
func (s *Settlement) Population() *Population { return s.population }

// Class returns the body class the settlement is bound to.
func (s *Settlement) Class() catalog.BodyClass { return s.class }

// Catalog returns the catalog the settlement trades under.
func (s *Settlement) Catalog() *catalog.Catalog { return s.deps.Catalog }

// Happiness returns the smoothed welfare signal in [0, 1].
func (s *Settlement) Happiness() float64 { return s.happiness }

// Unemployment returns the share of labour unsold in the last cycle.
func (s *Settlement) Unemployment() float64 { return s.unemployment }

// Cycles returns the number of completed updates.
func (s *Settlement) Cycles() uint64 { return s.cycles }

// Producers returns the producers sorted by good.
func (s *Settlement) Producers() []*Producer { return s.sortedProducers() }

// Producer returns the producer of good, if any.
func (s *Settlement) Producer(good string) (*Producer, bool) {
	p, ok := s.producers[good]
	return p, ok
}
