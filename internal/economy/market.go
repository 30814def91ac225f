package economy

// Labour is the credit good: supplied by populations and consumed by
// producers within the same cycle, never carried over.
const Labour = "Labour"

// PriceRules controls the multiplicative price hill-climb.
type PriceRules struct {
	Damping float64 `yaml:"damping"` // Applied on oversupply, < 1
	Growth  float64 `yaml:"growth"`  // Applied on scarcity, > 1
	Floor   float64 `yaml:"floor"`   // Lowest price a good can reach
}

// DefaultPriceRules returns the standard price adjustment factors.
func DefaultPriceRules() PriceRules {
	return PriceRules{
		Damping: 0.9,
		Growth:  1.1,
		Floor:   0.01,
	}
}

// MarketEntry is the per-good state of a market for the current cycle.
type MarketEntry struct {
	Price   float64 `json:"price"`
	Surplus int     `json:"surplus"` // Net units sold to the market this cycle
	Bought  int     `json:"bought"`  // Gross units bought from the market
	Sold    int     `json:"sold"`    // Gross units sold to the market
	traded  bool
}

// Volume is the gross traded volume of a good in one cycle.
type Volume struct {
	Bought int `json:"bought"`
	Sold   int `json:"sold"`
}

// Market discovers prices for one settlement and is the counterparty of
// last resort for everyone trading there.
type Market struct {
	trader  *Trader
	rules   PriceRules
	entries map[string]*MarketEntry

	ledger     *Ledger
	lastLedger map[string]DataSet
	lastVolume map[string]Volume
}

// NewMarket creates a market with the given money.
func NewMarket(money float64, rules PriceRules) *Market {
	return &Market{
		trader:     NewTrader(money, 0, EntityTrader),
		rules:      rules,
		entries:    make(map[string]*MarketEntry),
		ledger:     NewLedger(),
		lastLedger: make(map[string]DataSet),
		lastVolume: make(map[string]Volume),
	}
}

func (m *Market) entry(good string) *MarketEntry {
	e, ok := m.entries[good]
	if !ok {
		e = &MarketEntry{Price: 1.0}
		m.entries[good] = e
	}
	return e
}

// Price returns the current price of a good (1.0 if never traded).
func (m *Market) Price(good string) float64 {
	if e, ok := m.entries[good]; ok {
		return e.Price
	}
	return 1.0
}

// SetPrice overrides the price of a good. Used for seeding scenarios.
func (m *Market) SetPrice(good string, price float64) {
	if price < m.rules.Floor {
		price = m.rules.Floor
	}
	m.entry(good).Price = price
}

// Items returns the market stock of a good.
func (m *Market) Items(good string) int {
	return m.trader.Items(good)
}

// Money returns the market's money.
func (m *Market) Money() float64 {
	return m.trader.Money()
}

// AddMoney injects liquidity into the market.
func (m *Market) AddMoney(v float64) {
	m.trader.AddMoney(v)
}

// Stock puts goods directly into the market, e.g. a scenario's seed stock.
func (m *Market) Stock(good string, n int) int {
	return m.trader.AddToStorage(good, n)
}

// Goods returns a copy of the market stock.
func (m *Market) Goods() map[string]int {
	return m.trader.Goods()
}

// Buy sells up to n units of good from the market to buyer.
func (m *Market) Buy(good string, n int, buyer *Trader) int {
	e := m.entry(good)
	p := e.Price
	k := m.trader.Buy(good, n, p, buyer)
	e.traded = true
	if k > 0 {
		e.Surplus -= k
		if good == Labour {
			// Pay back the labour credit advanced on sale.
			m.trader.RemoveMoney(p * float64(k))
		}
	}
	e.Bought += k
	m.ledger.Add(EventBuy, good, buyer.Role(), k)
	return k
}

// Sell buys up to n units of good from seller into the market.
func (m *Market) Sell(good string, n int, seller *Trader) int {
	return m.sell(good, n, seller, seller.Role())
}

// Refund takes back inputs a producer bought but did not use.
// Booked as cancelled consumption rather than production.
func (m *Market) Refund(good string, n int, seller *Trader) int {
	return m.sell(good, n, seller, EntityIndustryCancel)
}

func (m *Market) sell(good string, n int, seller *Trader, ent Entity) int {
	e := m.entry(good)
	p := e.Price
	if n > 0 && good == Labour {
		// Labour always evens out within the cycle, so the market
		// advances the money instead of blocking on its own cash.
		m.trader.AddMoney(p * float64(n))
	}
	k := m.trader.Sell(good, n, p, seller)
	if n > k && good == Labour {
		// Only the labour actually delivered keeps its credit.
		m.trader.RemoveMoney(p * float64(n-k))
	}
	e.traded = true
	if k > 0 {
		e.Surplus += k
	}
	e.Sold += k
	m.ledger.Add(EventSell, good, ent, k)
	return k
}

// FixLabour discards unsold labour (it was paid for regardless) and
// returns the amount discarded, i.e. the unemployed labour.
func (m *Market) FixLabour() int {
	return m.trader.ClearGood(Labour)
}

// UpdatePrices adjusts every good traded this cycle: oversupply lowers the
// price, an empty shelf raises it. The surplus accumulator is then reset.
func (m *Market) UpdatePrices() {
	invariant(m.trader.Items(Labour) == 0, "labour carried over a cycle", "labour", m.trader.Items(Labour))
	for good, e := range m.entries {
		if !e.traded {
			continue
		}
		if e.Surplus > 0 {
			e.Price *= m.rules.Damping
			if e.Price < m.rules.Floor {
				e.Price = m.rules.Floor
			}
		} else if m.trader.Items(good) == 0 {
			e.Price *= m.rules.Growth
		}
		e.Surplus = 0
		e.traded = false
	}
}

// RollCycle closes the accounting period: this cycle's ledger and gross
// volumes become the last-cycle snapshot and the counters restart.
func (m *Market) RollCycle() {
	m.lastLedger = m.ledger.Snapshot()
	m.ledger.Clear()
	clear(m.lastVolume)
	for good, e := range m.entries {
		if e.Bought > 0 || e.Sold > 0 {
			m.lastVolume[good] = Volume{Bought: e.Bought, Sold: e.Sold}
		}
		e.Bought = 0
		e.Sold = 0
	}
}

// Flows returns the flows recorded so far in the current cycle.
func (m *Market) Flows(good string) DataSet {
	return m.ledger.Get(good)
}

// LastCycle returns the flows of the previous, completed cycle.
func (m *Market) LastCycle(good string) DataSet {
	return m.lastLedger[good]
}

// LastVolume returns the gross volume of the previous cycle.
func (m *Market) LastVolume(good string) Volume {
	return m.lastVolume[good]
}
