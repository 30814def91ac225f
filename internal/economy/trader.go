package economy

import (
	"math"
)

// Unconstrained is the money sentinel for traders with unlimited liquidity.
const Unconstrained = -1.0

// Entity classifies who is trading with a market, for ledger accounting.
type Entity uint8

const (
	EntityPopulation Entity = iota
	EntityIndustry
	EntityIndustryCancel // Inputs sold back unused
	EntityTrader         // Ships moving goods between settlements
)

// String returns the entity name used in logs and reports.
func (e Entity) String() string {
	switch e {
	case EntityPopulation:
		return "population"
	case EntityIndustry:
		return "industry"
	case EntityIndustryCancel:
		return "industry_cancel"
	case EntityTrader:
		return "trader"
	}
	return "unknown"
}

// Trader couples money with a storage. Every exchange in the economy
// goes through Trader.Buy, which moves money and goods together or not at all.
type Trader struct {
	money   float64
	storage *Storage
	role    Entity
}

// NewTrader creates a trader. A negative money value marks the trader
// as unconstrained (see Unconstrained).
func NewTrader(money float64, capacity int, role Entity) *Trader {
	if money < 0 {
		money = Unconstrained
	}
	return &Trader{
		money:   money,
		storage: NewStorage(capacity),
		role:    role,
	}
}

// Role returns the ledger entity of this trader.
func (t *Trader) Role() Entity {
	return t.role
}

// Unconstrained reports whether the trader has unlimited money.
func (t *Trader) Unconstrained() bool {
	return t.money < 0
}

// Money returns spendable money; math.MaxFloat64 for unconstrained traders.
func (t *Trader) Money() float64 {
	if t.money < 0 {
		return math.MaxFloat64
	}
	return t.money
}

// AddMoney credits money. Ignored for unconstrained traders.
func (t *Trader) AddMoney(v float64) {
	if t.money < 0 || v <= 0 {
		return
	}
	t.money += v
}

// RemoveMoney debits up to v and returns the amount actually removed.
// Unconstrained traders always pay in full.
func (t *Trader) RemoveMoney(v float64) float64 {
	if v <= 0 {
		return 0
	}
	if t.money < 0 {
		return v
	}
	invariant(t.money >= v-moneyEpsilon, "over-debited trader", "money", t.money, "debit", v)
	if v > t.money {
		v = t.money
	}
	t.money -= v
	return v
}

// moneyEpsilon absorbs float rounding in k*price vs money comparisons.
const moneyEpsilon = 1e-6

// Buy sells up to n units of good from t to buyer at price per unit.
// The traded quantity is the minimum of n, what the buyer can afford,
// what t has in stock and what the buyer can store. Returns that quantity.
func (t *Trader) Buy(good string, n int, price float64, buyer *Trader) int {
	if n <= 0 || price < 0 || buyer == nil || buyer == t {
		return 0
	}

	k := n
	if price > 0 && !buyer.Unconstrained() {
		affordable := math.Floor(buyer.money / price)
		if affordable < float64(k) {
			k = int(affordable)
		}
	}
	k = min(k, t.storage.Items(good), buyer.storage.CapacityLeft())
	if k <= 0 {
		return 0
	}

	cost := float64(k) * price
	buyer.RemoveMoney(cost)
	if !t.Unconstrained() {
		t.money += cost
	}
	added := buyer.storage.Add(good, k)
	removed := t.storage.Remove(good, k)
	invariant(added == k && removed == k, "trade moved unequal goods",
		"good", good, "k", k, "added", added, "removed", removed)
	return k
}

// Sell moves up to n units of good from seller to t at price per unit.
func (t *Trader) Sell(good string, n int, price float64, seller *Trader) int {
	return seller.Buy(good, n, price, t)
}

// Items returns the stored quantity of a good.
func (t *Trader) Items(good string) int {
	return t.storage.Items(good)
}

// AddToStorage puts goods into the trader's storage without payment.
func (t *Trader) AddToStorage(good string, n int) int {
	return t.storage.Add(good, n)
}

// RemoveFromStorage takes goods out without payment.
func (t *Trader) RemoveFromStorage(good string, n int) int {
	return t.storage.Remove(good, n)
}

// StorageLeft returns free storage (math.MaxInt when unbounded).
func (t *Trader) StorageLeft() int {
	return t.storage.CapacityLeft()
}

// Capacity returns the storage capacity (0 = unbounded).
func (t *Trader) Capacity() int {
	return t.storage.Capacity()
}

// Goods returns a copy of the trader's stock.
func (t *Trader) Goods() map[string]int {
	return t.storage.Goods()
}

// Cargo returns the total units stored.
func (t *Trader) Cargo() int {
	return t.storage.Total()
}

// ClearAll empties the storage.
func (t *Trader) ClearAll() {
	t.storage.ClearAll()
}

// ClearGood removes all units of one good.
func (t *Trader) ClearGood(good string) int {
	return t.storage.ClearGood(good)
}
