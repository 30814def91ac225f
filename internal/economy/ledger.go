package economy

// DataSet is one cycle of flows for one good in one market.
type DataSet struct {
	Production  int `json:"production"`
	Consumption int `json:"consumption"`
	Import      int `json:"import"`
	Export      int `json:"export"`
}

// Event is the direction of a market transaction, seen from the counterparty.
type Event uint8

const (
	EventBuy Event = iota
	EventSell
)

// Ledger accumulates per-good flows for a single market.
type Ledger struct {
	data map[string]*DataSet
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{data: make(map[string]*DataSet)}
}

// Add records num units of good moved by ent in the given direction.
func (l *Ledger) Add(ev Event, good string, ent Entity, num int) {
	if num <= 0 {
		return
	}
	ds, ok := l.data[good]
	if !ok {
		ds = &DataSet{}
		l.data[good] = ds
	}
	switch ev {
	case EventBuy:
		switch ent {
		case EntityPopulation, EntityIndustry:
			ds.Consumption += num
		case EntityTrader:
			ds.Export += num
		case EntityIndustryCancel:
			invariant(false, "industry cancel recorded as a purchase", "good", good)
		}
	case EventSell:
		switch ent {
		case EntityPopulation, EntityIndustry:
			ds.Production += num
		case EntityIndustryCancel:
			invariant(ds.Consumption >= num, "cancelled more than consumed",
				"good", good, "consumption", ds.Consumption, "cancel", num)
			ds.Consumption -= min(num, ds.Consumption)
		case EntityTrader:
			ds.Import += num
		}
	}
}

// Get returns the flows for a good (zero value if none).
func (l *Ledger) Get(good string) DataSet {
	if ds, ok := l.data[good]; ok {
		return *ds
	}
	return DataSet{}
}

// Snapshot returns a copy of all recorded flows.
func (l *Ledger) Snapshot() map[string]DataSet {
	out := make(map[string]DataSet, len(l.data))
	for g, ds := range l.data {
		out[g] = *ds
	}
	return out
}

// Clear drops all recorded flows.
func (l *Ledger) Clear() {
	clear(l.data)
}
